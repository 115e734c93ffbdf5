// Package prompts builds the templated requests sent to the completion
// service. Each template kind fixes its own JSON key schema; key names
// never vary between calls of the same kind because the normalizer and
// the presentation layer key off exact field names.
package prompts

// Kind identifies a prompt template.
type Kind string

const (
	// KindPlan is the SELECT/ADAPT/IMPLEMENT strategy plan flow.
	KindPlan Kind = "plan"

	// KindImplementation elaborates a chosen action into a phased plan.
	KindImplementation Kind = "implementation"

	// KindROI projects monthly ROI for a chosen action.
	KindROI Kind = "roi"

	// KindCompetitive analyzes the competitive landscape for an action.
	KindCompetitive Kind = "competitive"

	// KindRisk assesses risks of a chosen action.
	KindRisk Kind = "risk"

	// KindFinancial projects financials for a chosen action.
	KindFinancial Kind = "financial"

	// KindKPI designs a KPI dashboard for a chosen action.
	KindKPI Kind = "kpi"

	// KindSummary produces an executive summary of the whole analysis.
	KindSummary Kind = "summary"
)

// DetailKinds lists the kinds that elaborate a selected action.
var DetailKinds = []Kind{
	KindImplementation,
	KindROI,
	KindCompetitive,
	KindRisk,
	KindFinancial,
	KindKPI,
}

// Temperature is fixed for every template kind.
const Temperature = 0.3

// consultantSystemPrompt is the system instruction for elaboration kinds.
const consultantSystemPrompt = "Act as a strategic business consultant with deep experience in " +
	"growth strategy, unit economics, and operational execution. Ground every recommendation " +
	"in the client's stated context and be explicit about assumptions and data gaps."

// maxTokensByKind is the output token budget per template kind.
var maxTokensByKind = map[Kind]int{
	KindPlan:           1500,
	KindImplementation: 1200,
	KindROI:            1000,
	KindCompetitive:    1200,
	KindRisk:           1200,
	KindFinancial:      1500,
	KindKPI:            1000,
	KindSummary:        1000,
}

// IsValid checks if a kind is known.
func (k Kind) IsValid() bool {
	_, ok := maxTokensByKind[k]
	return ok
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// ParseKind converts a string to a Kind, returning empty for invalid values.
func ParseKind(s string) Kind {
	k := Kind(s)
	if k.IsValid() {
		return k
	}
	return ""
}

// IsDetail reports whether the kind elaborates a selected action.
func (k Kind) IsDetail() bool {
	for _, d := range DetailKinds {
		if k == d {
			return true
		}
	}
	return false
}

// MaxTokens returns the output token budget for a kind.
func MaxTokens(kind Kind) int {
	if budget, ok := maxTokensByKind[kind]; ok {
		return budget
	}
	return 1000
}

// SystemPrompt returns the system instruction for a kind. The plan kind
// is the bare legacy template and sends an empty system instruction.
func SystemPrompt(kind Kind) string {
	if kind == KindPlan {
		return ""
	}
	return consultantSystemPrompt
}
