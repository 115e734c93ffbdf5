package providers

import (
	"net/http"
	"os"
	"strings"

	"github.com/stratagem-io/stratagem/llm"
)

// OllamaProvider implements the OpenAI-compatible API used by Ollama,
// vLLM, and similar local runtimes.
type OllamaProvider struct {
	OpenAIProvider // Embed for shared request/response format
}

func init() {
	llm.RegisterProvider(&OllamaProvider{})
}

// Name returns the provider identifier.
func (o *OllamaProvider) Name() string {
	return "ollama"
}

// CheckCredential always succeeds: local runtimes need no API key.
func (o *OllamaProvider) CheckCredential() error {
	return nil
}

// BuildURL constructs the chat completions endpoint.
func (o *OllamaProvider) BuildURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434/v1"
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if strings.HasSuffix(baseURL, "/chat/completions") {
		return baseURL
	}
	return baseURL + "/chat/completions"
}

// SetHeaders adds an Authorization header only when a key is configured
// (for vLLM deployments behind a gateway).
func (o *OllamaProvider) SetHeaders(req *http.Request) {
	if apiKey := os.Getenv(OpenAIAPIKeyEnv); apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
}
