package advisor

import (
	"time"

	"github.com/stratagem-io/stratagem/advisor/prompts"
	"github.com/stratagem-io/stratagem/normalize"
)

// Artifact is one generated analysis product: the plan, an elaboration
// of a selected action, or the executive summary. Artifacts are
// independent of each other and optional.
type Artifact struct {
	// Kind is the template kind that produced this artifact.
	Kind prompts.Kind `json:"kind"`

	// Action is the prioritized action this artifact elaborates.
	// Empty for plan- and summary-scoped artifacts.
	Action string `json:"action,omitempty"`

	// Parsed is false when the normalizer exhausted all fallbacks; the
	// raw text is then the only content.
	Parsed bool `json:"parsed"`

	// Data is the normalized JSON content, keyed by the schema the
	// prompt promised. Nil when Parsed is false.
	Data map[string]any `json:"data,omitempty"`

	// Raw preserves the model's text verbatim when parsing failed.
	Raw string `json:"raw,omitempty"`

	// Series is the 12-entry monthly series (ROI artifacts only).
	Series []float64 `json:"series,omitempty"`

	// Model is the model that generated the content.
	Model string `json:"model"`

	// RequestID correlates the artifact with client logs.
	RequestID string `json:"request_id"`

	// GeneratedAt is when the artifact was produced.
	GeneratedAt time.Time `json:"generated_at"`
}

// newArtifact builds an artifact from a normalization result.
func newArtifact(kind prompts.Kind, action string, res normalize.Result, model, requestID string) *Artifact {
	return &Artifact{
		Kind:        kind,
		Action:      action,
		Parsed:      res.Parsed,
		Data:        res.Value,
		Raw:         res.Raw,
		Model:       model,
		RequestID:   requestID,
		GeneratedAt: time.Now(),
	}
}
