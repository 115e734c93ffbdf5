package advisor

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stratagem-io/stratagem/advisor/prompts"
)

// Session owns one interactive analysis: the submitted context, the
// strategy plan, the selected action, and the elaboration artifacts.
// Nothing persists beyond the process. roundMu serializes completion
// rounds, so at most one is in flight per session; mu guards the state
// fields themselves.
type Session struct {
	// ID is the session identifier.
	ID string

	// Context is the submitted business context, immutable.
	Context BusinessContext

	// CreatedAt is when the session was opened.
	CreatedAt time.Time

	roundMu sync.Mutex

	mu             sync.Mutex
	plan           *StrategyPlan
	planArtifact   *Artifact
	summary        *Artifact
	selectedAction string
	details        map[prompts.Kind]*Artifact
	intelURL       string
	intelDigest    string
}

// NewSession opens a session for a validated business context.
func NewSession(ctx BusinessContext) *Session {
	return &Session{
		ID:        uuid.New().String(),
		Context:   ctx,
		CreatedAt: time.Now(),
		details:   make(map[prompts.Kind]*Artifact),
	}
}

// setPlan installs a fresh strategy plan, discarding the previous plan,
// selection, details, and summary. plan is nil when the round parsed to
// raw text only.
func (s *Session) setPlan(artifact *Artifact, plan *StrategyPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.planArtifact = artifact
	s.plan = plan
	s.selectedAction = ""
	s.summary = nil
	s.details = make(map[prompts.Kind]*Artifact)
}

// Plan returns the current strategy plan, or nil before analysis.
func (s *Session) Plan() *StrategyPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.plan
}

// SelectAction chooses a prioritized action for elaboration. Selecting
// a different action than the current one invalidates every previously
// generated elaboration artifact.
func (s *Session) SelectAction(action string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.plan == nil {
		return fmt.Errorf("no strategy plan: run analysis first")
	}
	if !s.plan.HasAction(action) {
		return fmt.Errorf("action %q is not in the prioritized actions", action)
	}
	if action != s.selectedAction {
		s.details = make(map[prompts.Kind]*Artifact)
	}
	s.selectedAction = action
	return nil
}

// SelectedAction returns the currently selected action, if any.
func (s *Session) SelectedAction() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selectedAction
}

// setDetail stores an elaboration artifact. Stale artifacts from an
// earlier selection are dropped rather than stored.
func (s *Session) setDetail(artifact *Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if artifact.Action != s.selectedAction {
		return
	}
	s.details[artifact.Kind] = artifact
}

// Detail returns the artifact for a kind, or nil if not yet generated.
func (s *Session) Detail(kind prompts.Kind) *Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.details[kind]
}

// setSummary stores the executive-summary artifact. A summary of a
// plan that has since been replaced is dropped rather than stored.
func (s *Session) setSummary(artifact *Artifact, forPlan *StrategyPlan) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if forPlan != s.plan {
		return
	}
	s.summary = artifact
}

// SetIntel attaches a fetched market-intel digest.
func (s *Session) SetIntel(url, digest string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.intelURL = url
	s.intelDigest = digest
}

// Intel returns the attached intel digest, if any.
func (s *Session) Intel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.intelDigest
}

// Snapshot is a point-in-time JSON view of a session.
type Snapshot struct {
	ID             string                   `json:"id"`
	Context        BusinessContext          `json:"context"`
	CreatedAt      time.Time                `json:"created_at"`
	Plan           *Artifact                `json:"plan,omitempty"`
	StrategyPlan   *StrategyPlan            `json:"strategy_plan,omitempty"`
	SelectedAction string                   `json:"selected_action,omitempty"`
	Details        map[prompts.Kind]*Artifact `json:"details,omitempty"`
	Summary        *Artifact                `json:"summary,omitempty"`
	IntelURL       string                   `json:"intel_url,omitempty"`
}

// Snapshot renders the current session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	details := make(map[prompts.Kind]*Artifact, len(s.details))
	for k, v := range s.details {
		details[k] = v
	}

	return Snapshot{
		ID:             s.ID,
		Context:        s.Context,
		CreatedAt:      s.CreatedAt,
		Plan:           s.planArtifact,
		StrategyPlan:   s.plan,
		SelectedAction: s.selectedAction,
		Details:        details,
		Summary:        s.summary,
		IntelURL:       s.intelURL,
	}
}

// Store holds live sessions. It is safe for concurrent handlers.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create validates the context and opens a new session.
func (st *Store) Create(ctx BusinessContext) (*Session, error) {
	if err := ctx.Validate(); err != nil {
		return nil, err
	}

	session := NewSession(ctx)

	st.mu.Lock()
	st.sessions[session.ID] = session
	st.mu.Unlock()

	return session, nil
}

// Get returns a session by ID.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	session, ok := st.sessions[id]
	return session, ok
}

// Delete removes a session.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
