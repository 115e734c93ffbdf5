// Package normalize turns raw LLM response text into structured JSON.
// Models wrap output in markdown fences, prepend commentary, and emit
// trailing commas; the fallback chain here recovers the JSON payload
// without ever failing the caller.
package normalize

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Pre-compiled patterns for JSON recovery from LLM responses.
var (
	// jsonObjectPattern matches the outermost JSON object (greedy).
	jsonObjectPattern = regexp.MustCompile(`(?s)\{[\s\S]*\}`)
	// trailingCommaPattern matches trailing commas before ] or }.
	trailingCommaPattern = regexp.MustCompile(`,\s*([}\]])`)
)

const openFence = "```json"

// Result is the outcome of normalizing one raw response.
// When Parsed is true, Value holds the decoded JSON and JSON the exact
// text that parsed (callers that need key order re-decode from it).
// Otherwise Raw preserves the original text verbatim for display.
type Result struct {
	Parsed bool
	Value  map[string]any
	JSON   string
	Raw    string
}

// Normalize applies the fallback chain to raw model text:
// fence stripping, strict parse, then greedy brace extraction.
// It never returns an error; an unrecoverable response yields an
// unparsed Result carrying the raw text unchanged.
func Normalize(raw string) Result {
	cleaned := StripFences(raw)

	if obj, ok := parseObject(cleaned); ok {
		return Result{Parsed: true, Value: obj, JSON: cleaned}
	}

	// Fallback: extract the outermost {...} and clean common LLM
	// artifacts (line comments, trailing commas) before re-parsing.
	if candidate := jsonObjectPattern.FindString(cleaned); candidate != "" {
		candidate = cleanJSON(candidate)
		if obj, ok := parseObject(candidate); ok {
			return Result{Parsed: true, Value: obj, JSON: candidate}
		}
	}

	return Result{Parsed: false, Raw: raw}
}

// StripFences removes a leading ```json fence marker (first occurrence
// only) and a trailing ``` marker, trimming whitespace on both sides.
// Text without fences passes through unchanged.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, openFence) {
		cleaned = strings.Replace(cleaned, openFence, "", 1)
	}
	if strings.HasSuffix(cleaned, "```") {
		cleaned = cleaned[:len(cleaned)-3]
	}
	return strings.TrimSpace(cleaned)
}

// parseObject attempts a strict JSON parse. A value that decodes to
// something other than an object counts as a failure so the caller can
// fall through to the next recovery step.
func parseObject(text string) (map[string]any, bool) {
	if text == "" {
		return nil, false
	}
	var value any
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, false
	}
	obj, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	return obj, true
}

// cleanJSON removes JavaScript-style line comments and trailing commas.
// LLMs commonly produce both inside otherwise valid JSON.
func cleanJSON(raw string) string {
	lines := strings.Split(raw, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		cleaned = append(cleaned, stripLineComment(line))
	}
	result := strings.Join(cleaned, "\n")
	return trailingCommaPattern.ReplaceAllString(result, "$1")
}

// stripLineComment removes a // comment from a JSON line, respecting
// string values so URLs like "http://example.com" survive.
func stripLineComment(line string) string {
	if !strings.Contains(line, "//") {
		return line
	}

	inString := false
	escaped := false
	for i := 0; i < len(line); i++ {
		ch := line[i]
		if escaped {
			escaped = false
			continue
		}
		if ch == '\\' && inString {
			escaped = true
			continue
		}
		if ch == '"' {
			inString = !inString
			continue
		}
		if !inString && ch == '/' && i+1 < len(line) && line[i+1] == '/' {
			return strings.TrimRight(line[:i], " \t")
		}
	}
	return line
}
