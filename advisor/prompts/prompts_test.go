package prompts

import (
	"strings"
	"testing"
)

var testInput = Input{
	Company:     "Acme Analytics",
	Industry:    "saas",
	CompanySize: "startup",
	Challenge:   "Churn is climbing while trial conversion stalls.",
	FocusAreas:  []string{"pricing", "retention"},
}

// schemaKeys fixes the promised key schema per kind. The normalizer and
// presentation layer key off these exact names, so a builder must never
// vary them between calls.
var schemaKeys = map[Kind][]string{
	KindPlan:           {"selected_modules", "adapted_structure", "opportunity_gaps", "prioritized_actions"},
	KindImplementation: {"phases", "resources", "quick_wins"},
	KindCompetitive:    {"competitors", "differentiation", "market_position"},
	KindRisk:           {"risks"},
	KindFinancial:      {"revenue_impact", "cost_breakdown", "break_even_months", "sensitivity"},
	KindKPI:            {"kpis", "leading_indicators", "lagging_indicators"},
	KindSummary:        {"headline", "situation", "recommendation", "next_steps"},
}

func TestBuildersPromiseFixedSchema(t *testing.T) {
	for kind, keys := range schemaKeys {
		t.Run(kind.String(), func(t *testing.T) {
			prompt := ForKind(kind, testInput, "Launch usage-based pricing")
			if kind == KindSummary {
				prompt = Summary(testInput, "plan digest")
			}
			if prompt == "" {
				t.Fatal("empty prompt")
			}
			for _, key := range keys {
				if !strings.Contains(prompt, `"`+key+`"`) {
					t.Errorf("prompt does not promise key %q", key)
				}
			}
			if !strings.Contains(prompt, testInput.Challenge) {
				t.Error("prompt does not carry the challenge text")
			}
		})
	}
}

func TestBuildersAreDeterministic(t *testing.T) {
	for _, kind := range append([]Kind{KindPlan}, DetailKinds...) {
		a := ForKind(kind, testInput, "action")
		b := ForKind(kind, testInput, "action")
		if a != b {
			t.Errorf("kind %s: identical inputs produced different prompts", kind)
		}
	}
	if Summary(testInput, "digest") != Summary(testInput, "digest") {
		t.Error("summary: identical inputs produced different prompts")
	}
}

func TestSummaryNotDispatchedByForKind(t *testing.T) {
	// The summary builder takes the plan digest, not an action, so the
	// kind dispatcher must not fabricate one.
	if got := ForKind(KindSummary, testInput, "some action"); got != "" {
		t.Errorf("ForKind(summary) = %q, want empty", got)
	}
	prompt := Summary(testInput, "PLAN-DIGEST-MARKER")
	if !strings.Contains(prompt, "PLAN-DIGEST-MARKER") {
		t.Error("summary prompt does not carry the plan digest")
	}
	if strings.Contains(prompt, "some action") {
		t.Error("summary prompt must not carry an action")
	}
}

func TestROIAsksForTwelveNumbers(t *testing.T) {
	prompt := ROI(testInput, "Launch usage-based pricing")
	if !strings.Contains(prompt, "12 numbers") {
		t.Error("ROI prompt must request exactly twelve numbers")
	}
	if strings.Contains(prompt, onlyJSON) {
		t.Error("ROI prompt uses the array contract, not the object contract")
	}
}

func TestSystemPrompt(t *testing.T) {
	if SystemPrompt(KindPlan) != "" {
		t.Error("the legacy plan kind sends an empty system instruction")
	}
	for _, kind := range DetailKinds {
		if SystemPrompt(kind) == "" {
			t.Errorf("kind %s: expected the consultant system instruction", kind)
		}
	}
}

func TestIntelFoldedIntoCompetitive(t *testing.T) {
	in := testInput
	in.Intel = "Competitor ships a free tier."

	with := Competitive(in, "action")
	if !strings.Contains(with, in.Intel) {
		t.Error("intel digest not folded into the competitive prompt")
	}

	without := Competitive(testInput, "action")
	if strings.Contains(without, "Market Intel") {
		t.Error("intel section rendered without intel")
	}
}

func TestKindParsing(t *testing.T) {
	if ParseKind("roi") != KindROI {
		t.Error("roi should parse")
	}
	if ParseKind("nonsense") != Kind("") {
		t.Error("unknown kinds should parse to empty")
	}
	if !KindROI.IsDetail() || KindPlan.IsDetail() {
		t.Error("detail classification wrong")
	}
	if MaxTokens(KindPlan) != 1500 || MaxTokens(KindROI) != 1000 {
		t.Error("unexpected token budgets")
	}
}
