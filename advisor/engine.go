package advisor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stratagem-io/stratagem/advisor/prompts"
	"github.com/stratagem-io/stratagem/llm"
	"github.com/stratagem-io/stratagem/normalize"
)

// BriefSource supplies a digest of supporting documents for prompt
// context. Implemented by the briefs package; nil disables the section.
type BriefSource interface {
	Digest() string
}

// Engine drives each analysis round: build the prompt, run one
// completion, normalize the response, store the artifact. A service
// failure aborts the round and leaves prior session state untouched;
// a parse failure stores an unparsed artifact instead.
type Engine struct {
	client *llm.Client
	briefs BriefSource
	logger *slog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithBriefs attaches a supporting-document source.
func WithBriefs(src BriefSource) EngineOption {
	return func(e *Engine) {
		e.briefs = src
	}
}

// WithEngineLogger sets the logger.
func WithEngineLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine around a completion client.
func NewEngine(client *llm.Client, opts ...EngineOption) *Engine {
	e := &Engine{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// promptInput assembles the builder input from session state.
func (e *Engine) promptInput(s *Session) prompts.Input {
	in := prompts.Input{
		Company:     s.Context.Company,
		Industry:    string(s.Context.Industry),
		CompanySize: string(s.Context.CompanySize),
		Challenge:   s.Context.Challenge,
		FocusAreas:  s.Context.FocusAreas,
		Intel:       s.Intel(),
	}
	if e.briefs != nil {
		in.Briefs = e.briefs.Digest()
	}
	return in
}

// Analyze runs the SELECT/ADAPT/IMPLEMENT plan flow. On success the
// session's plan is replaced and all prior artifacts are discarded.
func (e *Engine) Analyze(ctx context.Context, s *Session) (*Artifact, error) {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()

	prompt := prompts.Plan(e.promptInput(s))

	resp, err := e.complete(ctx, s.Context.Model, prompts.KindPlan, prompt)
	if err != nil {
		return nil, err
	}

	res := normalize.Normalize(resp.Content)
	artifact := newArtifact(prompts.KindPlan, "", res, resp.Model, resp.RequestID)

	var plan *StrategyPlan
	if res.Parsed {
		plan, err = DecodePlan(res.JSON)
		if err != nil {
			// Syntactically valid JSON in an unexpected shape: keep the
			// parsed artifact for display, but there is no usable plan.
			e.logger.Warn("Strategy plan did not match the requested shape",
				"session_id", s.ID,
				"request_id", resp.RequestID,
				"error", err)
		}
	} else {
		e.logger.Warn("Strategy plan response was not parseable JSON",
			"session_id", s.ID,
			"request_id", resp.RequestID)
	}

	s.setPlan(artifact, plan)
	return artifact, nil
}

// GenerateDetail runs one elaboration flow for the selected action.
func (e *Engine) GenerateDetail(ctx context.Context, s *Session, kind prompts.Kind) (*Artifact, error) {
	if !kind.IsDetail() {
		return nil, fmt.Errorf("kind %q is not an elaboration flow", kind)
	}

	s.roundMu.Lock()
	defer s.roundMu.Unlock()

	action := s.SelectedAction()
	if action == "" {
		return nil, fmt.Errorf("no action selected")
	}

	prompt := prompts.ForKind(kind, e.promptInput(s), action)

	resp, err := e.complete(ctx, s.Context.Model, kind, prompt)
	if err != nil {
		return nil, err
	}

	var artifact *Artifact
	if kind == prompts.KindROI {
		artifact = roiArtifact(resp, action)
	} else {
		res := normalize.Normalize(resp.Content)
		if !res.Parsed {
			e.logger.Warn("Elaboration response was not parseable JSON",
				"session_id", s.ID,
				"kind", kind,
				"request_id", resp.RequestID)
		}
		artifact = newArtifact(kind, action, res, resp.Model, resp.RequestID)
	}

	s.setDetail(artifact)
	return artifact, nil
}

// Summarize runs the executive-summary flow over the current plan.
func (e *Engine) Summarize(ctx context.Context, s *Session) (*Artifact, error) {
	s.roundMu.Lock()
	defer s.roundMu.Unlock()

	plan := s.Plan()
	if plan == nil {
		return nil, fmt.Errorf("no strategy plan: run analysis first")
	}

	prompt := prompts.Summary(e.promptInput(s), plan.Digest())

	resp, err := e.complete(ctx, s.Context.Model, prompts.KindSummary, prompt)
	if err != nil {
		return nil, err
	}

	res := normalize.Normalize(resp.Content)
	artifact := newArtifact(prompts.KindSummary, "", res, resp.Model, resp.RequestID)
	s.setSummary(artifact, plan)
	return artifact, nil
}

// complete runs the single completion attempt for one round.
func (e *Engine) complete(ctx context.Context, modelName string, kind prompts.Kind, prompt string) (*llm.Response, error) {
	temp := prompts.Temperature

	// The system message is always present; the legacy plan kind sends
	// it with empty content.
	messages := []llm.Message{
		{Role: "system", Content: prompts.SystemPrompt(kind)},
		{Role: "user", Content: prompt},
	}

	resp, err := e.client.Complete(ctx, llm.Request{
		Model:       modelName,
		Messages:    messages,
		Temperature: &temp,
		MaxTokens:   prompts.MaxTokens(kind),
	})
	if err != nil {
		return nil, fmt.Errorf("%s round: %w", kind, err)
	}
	return resp, nil
}

// roiArtifact mines the monthly series out of the ROI response. The
// series always has twelve entries (the placeholder ramp when nothing
// usable was found), so the ROI round never blocks on a bad response.
func roiArtifact(resp *llm.Response, action string) *Artifact {
	artifact := newArtifact(prompts.KindROI, action,
		normalize.Result{Parsed: true, Raw: resp.Content}, resp.Model, resp.RequestID)
	artifact.Series = normalize.MonthlySeries(resp.Content)
	artifact.Raw = resp.Content
	return artifact
}
