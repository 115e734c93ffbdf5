package server

import (
	"encoding/json"
	"net/http"

	"github.com/stratagem-io/stratagem/advisor"
	"github.com/stratagem-io/stratagem/advisor/prompts"
	"github.com/stratagem-io/stratagem/intel"
	"github.com/stratagem-io/stratagem/llm"
)

// errorResponse is the JSON body for every non-2xx response.
type errorResponse struct {
	Error string `json:"error"`
}

// ----------------------------------------------------------------------------
// POST /api/sessions
// ----------------------------------------------------------------------------

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var ctx advisor.BusinessContext
	if err := json.NewDecoder(r.Body).Decode(&ctx); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := s.sessions.Create(ctx)
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("Session created",
		"session_id", session.ID,
		"company", ctx.Company,
		"industry", ctx.Industry)

	writeJSON(w, http.StatusCreated, session.Snapshot())
}

// ----------------------------------------------------------------------------
// GET / DELETE /api/sessions/{id}
// ----------------------------------------------------------------------------

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}
	writeJSON(w, http.StatusOK, session.Snapshot())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(r.PathValue("id"))
	w.WriteHeader(http.StatusNoContent)
}

// ----------------------------------------------------------------------------
// POST /api/sessions/{id}/analyze
// ----------------------------------------------------------------------------

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}

	if _, err := s.engine.Analyze(r.Context(), session); err != nil {
		s.writeCompletionError(w, session.ID, err)
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

// ----------------------------------------------------------------------------
// POST /api/sessions/{id}/select
// ----------------------------------------------------------------------------

// selectRequest is the request body for POST /api/sessions/{id}/select.
type selectRequest struct {
	Action string `json:"action"`
}

func (s *Server) handleSelect(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req selectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := session.SelectAction(req.Action); err != nil {
		writeJSONError(w, http.StatusConflict, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, session.Snapshot())
}

// ----------------------------------------------------------------------------
// POST /api/sessions/{id}/details/{kind}
// ----------------------------------------------------------------------------

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}

	kind := prompts.ParseKind(r.PathValue("kind"))
	if !kind.IsDetail() {
		writeJSONError(w, http.StatusBadRequest, "unknown elaboration kind")
		return
	}

	artifact, err := s.engine.GenerateDetail(r.Context(), session, kind)
	if err != nil {
		if llm.IsConfiguration(err) || llm.IsService(err) {
			s.writeCompletionError(w, session.ID, err)
		} else {
			writeJSONError(w, http.StatusConflict, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

// ----------------------------------------------------------------------------
// POST /api/sessions/{id}/summary
// ----------------------------------------------------------------------------

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}

	artifact, err := s.engine.Summarize(r.Context(), session)
	if err != nil {
		if llm.IsConfiguration(err) || llm.IsService(err) {
			s.writeCompletionError(w, session.ID, err)
		} else {
			writeJSONError(w, http.StatusConflict, err.Error())
		}
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

// ----------------------------------------------------------------------------
// POST /api/sessions/{id}/intel
// ----------------------------------------------------------------------------

// intelRequest is the request body for POST /api/sessions/{id}/intel.
type intelRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleIntel(w http.ResponseWriter, r *http.Request) {
	if s.intel == nil {
		writeJSONError(w, http.StatusNotImplemented, "market intel is not configured")
		return
	}

	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	var req intelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := intel.ValidateURL(req.URL); err != nil {
		writeJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	digest, err := s.intel.Gather(r.Context(), req.URL)
	if err != nil {
		s.logger.Warn("Intel fetch failed",
			"session_id", session.ID,
			"url", req.URL,
			"error", err)
		writeJSONError(w, http.StatusBadGateway, "could not retrieve the page")
		return
	}

	session.SetIntel(digest.URL, digest.PromptBlock())
	writeJSON(w, http.StatusOK, digest)
}

// ----------------------------------------------------------------------------
// GET /api/sessions/{id}/export
// ----------------------------------------------------------------------------

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	session, ok := s.sessions.Get(r.PathValue("id"))
	if !ok {
		writeJSONError(w, http.StatusNotFound, "session not found")
		return
	}

	message, err := advisor.ExportPDF(session.Snapshot())
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// ----------------------------------------------------------------------------
// GET /api/models, /api/briefs, /healthz
// ----------------------------------------------------------------------------

// modelsResponse is the response body for GET /api/models.
type modelsResponse struct {
	Default string   `json:"default"`
	Models  []string `json:"models"`
}

func (s *Server) handleModels(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, modelsResponse{
		Default: s.registry.DefaultModel(),
		Models:  s.registry.Models(),
	})
}

func (s *Server) handleBriefs(w http.ResponseWriter, _ *http.Request) {
	if s.briefs == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, s.briefs.List())
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

// ----------------------------------------------------------------------------
// Helpers
// ----------------------------------------------------------------------------

// writeCompletionError maps the completion error taxonomy onto HTTP
// statuses: configuration problems are the operator's to fix (422),
// service problems are upstream (502). Session state is untouched
// either way.
func (s *Server) writeCompletionError(w http.ResponseWriter, sessionID string, err error) {
	s.logger.Error("Completion round failed",
		"session_id", sessionID,
		"error", err)

	switch {
	case llm.IsConfiguration(err):
		writeJSONError(w, http.StatusUnprocessableEntity, err.Error())
	case llm.IsService(err):
		writeJSONError(w, http.StatusBadGateway, err.Error())
	default:
		writeJSONError(w, http.StatusInternalServerError, err.Error())
	}
}

// writeJSON marshals v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Response is already partially written; nothing to do.
		_ = err
	}
}

// writeJSONError writes a JSON error body with the given status code.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
