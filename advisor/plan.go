package advisor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Score bounds for impact and feasibility.
const (
	MinScore = 1
	MaxScore = 5
)

// PrioritizedAction is one candidate strategic initiative.
type PrioritizedAction struct {
	// Action is the initiative text; it also keys elaboration artifacts.
	Action string `json:"action"`

	// Impact is scored 1-5.
	Impact int `json:"impact"`

	// Feasibility is scored 1-5.
	Feasibility int `json:"feasibility"`
}

// TotalScore is impact + feasibility, in [2,10].
func (a PrioritizedAction) TotalScore() int {
	return a.Impact + a.Feasibility
}

// Step is one adapted reasoning step.
type Step struct {
	Label       string `json:"label"`
	Description string `json:"description"`
}

// AdaptedStructure preserves the model's step ordering. The wire shape
// is a JSON object, which Go maps would reorder, so it decodes through
// the token stream.
type AdaptedStructure []Step

// UnmarshalJSON decodes an object key-by-key in document order.
func (s *AdaptedStructure) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("adapted_structure: expected object, got %v", tok)
	}

	steps := AdaptedStructure{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("adapted_structure: non-string key %v", keyTok)
		}

		var desc string
		if err := dec.Decode(&desc); err != nil {
			return fmt.Errorf("adapted_structure: step %q: %w", key, err)
		}
		steps = append(steps, Step{Label: key, Description: desc})
	}

	*s = steps
	return nil
}

// MarshalJSON re-emits the object with keys in step order.
func (s AdaptedStructure) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, step := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(step.Label)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(step.Description)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// StrategyPlan is the product of one SELECT/ADAPT/IMPLEMENT round.
// Immutable once produced; re-running analysis replaces it wholesale.
type StrategyPlan struct {
	// SelectedModules are the chosen reasoning strategy tags, in order.
	SelectedModules []string `json:"selected_modules"`

	// AdaptedStructure maps step labels to descriptions, in order.
	AdaptedStructure AdaptedStructure `json:"adapted_structure"`

	// OpportunityGaps are the identified strategic gaps, in order.
	OpportunityGaps []string `json:"opportunity_gaps"`

	// PrioritizedActions are the scored candidate initiatives.
	PrioritizedActions []PrioritizedAction `json:"prioritized_actions"`
}

// DecodePlan decodes a strategy plan from the JSON text that the
// normalizer recovered. Scores outside [1,5] are clamped; the model is
// otherwise trusted to follow the schema, so absent keys simply decode
// to empty fields.
func DecodePlan(jsonText string) (*StrategyPlan, error) {
	var plan StrategyPlan
	if err := json.Unmarshal([]byte(jsonText), &plan); err != nil {
		return nil, fmt.Errorf("decode strategy plan: %w", err)
	}

	for i := range plan.PrioritizedActions {
		plan.PrioritizedActions[i].Impact = clampScore(plan.PrioritizedActions[i].Impact)
		plan.PrioritizedActions[i].Feasibility = clampScore(plan.PrioritizedActions[i].Feasibility)
	}
	return &plan, nil
}

// HasAction reports whether the plan contains the given action text.
func (p *StrategyPlan) HasAction(action string) bool {
	for _, a := range p.PrioritizedActions {
		if a.Action == action {
			return true
		}
	}
	return false
}

// Digest renders a compact plain-text view of the plan for folding into
// the executive-summary prompt.
func (p *StrategyPlan) Digest() string {
	var b strings.Builder
	if len(p.SelectedModules) > 0 {
		fmt.Fprintf(&b, "Selected modules: %s\n", strings.Join(p.SelectedModules, "; "))
	}
	for _, step := range p.AdaptedStructure {
		fmt.Fprintf(&b, "%s: %s\n", step.Label, step.Description)
	}
	if len(p.OpportunityGaps) > 0 {
		fmt.Fprintf(&b, "Opportunity gaps: %s\n", strings.Join(p.OpportunityGaps, " | "))
	}
	for _, a := range p.PrioritizedActions {
		fmt.Fprintf(&b, "- %s (impact %d, feasibility %d, total %d)\n",
			a.Action, a.Impact, a.Feasibility, a.TotalScore())
	}
	return b.String()
}

func clampScore(v int) int {
	if v < MinScore {
		return MinScore
	}
	if v > MaxScore {
		return MaxScore
	}
	return v
}
