package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratagem-io/stratagem/advisor"
	"github.com/stratagem-io/stratagem/llm"
	_ "github.com/stratagem-io/stratagem/llm/providers" // Register providers
	"github.com/stratagem-io/stratagem/model"
)

const planFixture = `{
  "selected_modules": ["Use systems thinking"],
  "adapted_structure": { "Step 1": "Map the funnel" },
  "opportunity_gaps": ["1. No exit surveys"],
  "prioritized_actions": [
    { "action": "Launch exit surveys", "impact": 4, "feasibility": 5 }
  ]
}`

// completionStub serves queued completion responses.
type completionStub struct {
	mu    sync.Mutex
	queue []string
	fail  bool
}

func (c *completionStub) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)

		c.mu.Lock()
		if c.fail {
			c.mu.Unlock()
			http.Error(w, `{"error": "overloaded"}`, http.StatusServiceUnavailable)
			return
		}
		content := "{}"
		if len(c.queue) > 0 {
			content = c.queue[0]
			c.queue = c.queue[1:]
		}
		c.mu.Unlock()

		resp := map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{
					"index":         0,
					"message":       map[string]string{"role": "assistant", "content": content},
					"finish_reason": "stop",
				},
			},
			"usage": map[string]int{"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

// newTestServer wires a full API server against a stubbed completion
// backend and returns both it and the stub.
func newTestServer(t *testing.T, stub *completionStub) *httptest.Server {
	t.Helper()

	backend := httptest.NewServer(stub.handler())
	t.Cleanup(backend.Close)

	reg, err := model.NewRegistry(map[string]*model.Endpoint{
		"test-model": {Provider: "ollama", URL: backend.URL, Model: "test-model", MaxTokens: 1500},
	}, "test-model")
	require.NoError(t, err)

	engine := advisor.NewEngine(llm.NewClient(reg))
	api := httptest.NewServer(New("", engine, reg).Handler())
	t.Cleanup(api.Close)
	return api
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	require.NoError(t, err)
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func createSession(t *testing.T, api *httptest.Server) string {
	t.Helper()
	resp := postJSON(t, api.URL+"/api/sessions", map[string]any{
		"company":      "Acme Analytics",
		"industry":     "saas",
		"company_size": "startup",
		"challenge":    "Churn is climbing",
		"model":        "test-model",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	snap := decodeBody[advisor.Snapshot](t, resp)
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func TestCreateSessionValidation(t *testing.T) {
	api := newTestServer(t, &completionStub{})

	resp := postJSON(t, api.URL+"/api/sessions", map[string]any{
		"company":  "Acme",
		"industry": "saas",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionLifecycle(t *testing.T) {
	api := newTestServer(t, &completionStub{})
	id := createSession(t, api)

	resp, err := http.Get(api.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	snap := decodeBody[advisor.Snapshot](t, resp)
	assert.Equal(t, "Acme Analytics", snap.Context.Company)

	req, _ := http.NewRequest(http.MethodDelete, api.URL+"/api/sessions/"+id, nil)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, err = http.Get(api.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnalyzeAndSelect(t *testing.T) {
	stub := &completionStub{queue: []string{"```json\n" + planFixture + "\n```"}}
	api := newTestServer(t, stub)
	id := createSession(t, api)

	resp := postJSON(t, api.URL+"/api/sessions/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap := decodeBody[advisor.Snapshot](t, resp)
	require.NotNil(t, snap.StrategyPlan)

	// Selecting an action outside the plan is rejected.
	resp = postJSON(t, api.URL+"/api/sessions/"+id+"/select", map[string]string{"action": "nope"})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, api.URL+"/api/sessions/"+id+"/select", map[string]string{"action": "Launch exit surveys"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	snap = decodeBody[advisor.Snapshot](t, resp)
	assert.Equal(t, "Launch exit surveys", snap.SelectedAction)
}

func TestDetailEndpoint(t *testing.T) {
	stub := &completionStub{queue: []string{
		"```json\n" + planFixture + "\n```",
		`{"risks": [{"risk": "fatigue", "likelihood": 2, "severity": 2, "mitigation": "sample"}]}`,
	}}
	api := newTestServer(t, stub)
	id := createSession(t, api)

	// Details before a selection are a state conflict.
	resp := postJSON(t, api.URL+"/api/sessions/"+id+"/details/risk", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = postJSON(t, api.URL+"/api/sessions/"+id+"/analyze", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = postJSON(t, api.URL+"/api/sessions/"+id+"/select", map[string]string{"action": "Launch exit surveys"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = postJSON(t, api.URL+"/api/sessions/"+id+"/details/risk", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	artifact := decodeBody[advisor.Artifact](t, resp)
	assert.True(t, artifact.Parsed)
	assert.Equal(t, "Launch exit surveys", artifact.Action)

	// Unknown kinds are a bad request.
	resp = postJSON(t, api.URL+"/api/sessions/"+id+"/details/horoscope", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCompletionFailureMapsToBadGateway(t *testing.T) {
	stub := &completionStub{fail: true}
	api := newTestServer(t, stub)
	id := createSession(t, api)

	resp := postJSON(t, api.URL+"/api/sessions/"+id+"/analyze", nil)
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.NotEmpty(t, body["error"])

	// The failed round left no plan behind.
	resp, err := http.Get(api.URL + "/api/sessions/" + id)
	require.NoError(t, err)
	snap := decodeBody[advisor.Snapshot](t, resp)
	assert.Nil(t, snap.StrategyPlan)
}

func TestModelsEndpoint(t *testing.T) {
	api := newTestServer(t, &completionStub{})

	resp, err := http.Get(api.URL + "/api/models")
	require.NoError(t, err)
	body := decodeBody[modelsResponse](t, resp)
	assert.Equal(t, "test-model", body.Default)
	assert.Equal(t, []string{"test-model"}, body.Models)
}

func TestIntelRejectsUnsafeURL(t *testing.T) {
	api := newTestServer(t, &completionStub{})
	// Intel service is not wired in the test server.
	id := createSession(t, api)

	resp := postJSON(t, api.URL+"/api/sessions/"+id+"/intel", map[string]string{"url": "http://169.254.169.254/meta"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotImplemented, resp.StatusCode)
}

func TestExportPlaceholder(t *testing.T) {
	api := newTestServer(t, &completionStub{})
	id := createSession(t, api)

	resp, err := http.Get(api.URL + "/api/sessions/" + id + "/export")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody[map[string]string](t, resp)
	assert.Contains(t, body["message"], id)
}

func TestHealthz(t *testing.T) {
	api := newTestServer(t, &completionStub{})
	createSession(t, api)

	resp, err := http.Get(api.URL + "/healthz")
	require.NoError(t, err)
	body := decodeBody[map[string]any](t, resp)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, float64(1), body["sessions"])
}
