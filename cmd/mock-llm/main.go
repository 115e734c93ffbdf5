// Package main implements a mock completion server for local development
// and end-to-end testing. It serves OpenAI-compatible /v1/chat/completions
// responses from fixture files, routing by the "model" field in the
// request, so the advisory flows can be exercised fast, deterministically,
// and offline.
//
// Usage:
//
//	mock-llm -fixtures ./fixtures -port 11434 -latency 200ms
//
// Fixture files are named by model: "gpt-4o-mini.json" answers requests
// for model "gpt-4o-mini", with the file content returned verbatim as the
// assistant message. Numbered files ("gpt-4o-mini.1.json", ".2.json") are
// served in order per model before falling back to the base file, which
// lets one process answer the plan round and the elaboration rounds
// differently.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

type chatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
	Usage   chatUsage    `json:"usage"`
}

type chatChoice struct {
	Index        int    `json:"index"`
	Message      msg    `json:"message"`
	FinishReason string `json:"finish_reason"`
}

type msg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// fixtureSet holds ordered per-model responses: numbered fixtures first,
// then the base fixture as a repeating fallback.
type fixtureSet struct {
	sequence []string
	fallback string
}

type server struct {
	latency time.Duration

	mu       sync.Mutex
	fixtures map[string]*fixtureSet
	served   map[string]int
}

// fixtureFilePattern matches "model.N.json" sequential fixtures.
var fixtureFilePattern = regexp.MustCompile(`^(.+)\.(\d+)\.json$`)

// loadFixtures reads all .json files in dir, grouping numbered fixtures
// by model in sequence order.
func loadFixtures(dir string) (map[string]*fixtureSet, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	type numbered struct {
		n       int
		content string
	}
	sequences := make(map[string][]numbered)
	fixtures := make(map[string]*fixtureSet)

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}

		if m := fixtureFilePattern.FindStringSubmatch(e.Name()); m != nil {
			n, _ := strconv.Atoi(m[2])
			sequences[m[1]] = append(sequences[m[1]], numbered{n: n, content: string(data)})
			continue
		}

		model := strings.TrimSuffix(e.Name(), ".json")
		if fixtures[model] == nil {
			fixtures[model] = &fixtureSet{}
		}
		fixtures[model].fallback = string(data)
	}

	for model, seq := range sequences {
		sort.Slice(seq, func(i, j int) bool { return seq[i].n < seq[j].n })
		if fixtures[model] == nil {
			fixtures[model] = &fixtureSet{}
		}
		for _, f := range seq {
			fixtures[model].sequence = append(fixtures[model].sequence, f.content)
		}
	}

	return fixtures, nil
}

// next returns the fixture content for the model's next call.
func (s *server) next(model string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.fixtures[model]
	if !ok {
		return "", false
	}
	call := s.served[model]
	s.served[model] = call + 1

	if call < len(set.sequence) {
		return set.sequence[call], true
	}
	if set.fallback != "" {
		return set.fallback, true
	}
	if len(set.sequence) > 0 {
		return set.sequence[len(set.sequence)-1], true
	}
	return "", false
}

func (s *server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid request body"}`, http.StatusBadRequest)
		return
	}

	content, ok := s.next(req.Model)
	if !ok {
		http.Error(w, fmt.Sprintf(`{"error": "no fixture for model %q"}`, req.Model), http.StatusNotFound)
		return
	}

	if s.latency > 0 {
		time.Sleep(s.latency)
	}

	promptLen := 0
	for _, m := range req.Messages {
		promptLen += len(m.Content)
	}

	resp := chatResponse{
		ID:      fmt.Sprintf("mock-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []chatChoice{
			{
				Index:        0,
				Message:      msg{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: chatUsage{
			PromptTokens:     promptLen / 4,
			CompletionTokens: len(content) / 4,
			TotalTokens:      (promptLen + len(content)) / 4,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Printf("write response: %v", err)
	}
}

func main() {
	var (
		fixturesDir = flag.String("fixtures", "fixtures", "Directory of per-model fixture files")
		port        = flag.Int("port", 11434, "Listen port")
		latency     = flag.Duration("latency", 0, "Artificial response latency")
	)
	flag.Parse()

	fixtures, err := loadFixtures(*fixturesDir)
	if err != nil {
		log.Fatalf("load fixtures from %s: %v", *fixturesDir, err)
	}
	if len(fixtures) == 0 {
		log.Fatalf("no fixture files found in %s", *fixturesDir)
	}

	srv := &server{
		latency:  *latency,
		fixtures: fixtures,
		served:   make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/chat/completions", srv.handleCompletions)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprintln(w, "ok")
	})

	models := make([]string, 0, len(fixtures))
	for m := range fixtures {
		models = append(models, m)
	}
	sort.Strings(models)
	log.Printf("mock-llm listening on :%d (models: %s)", *port, strings.Join(models, ", "))

	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), mux); err != nil {
		log.Fatal(err)
	}
}
