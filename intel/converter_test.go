package intel

import (
	"strings"
	"testing"
)

func TestExtractHTMLTitle(t *testing.T) {
	html := `<html><head><title>  Acme Pricing  </title></head><body><p>hi</p></body></html>`
	if got := extractHTMLTitle([]byte(html)); got != "Acme Pricing" {
		t.Errorf("extractHTMLTitle = %q", got)
	}

	if got := extractHTMLTitle([]byte(`<html><body>no title</body></html>`)); got != "" {
		t.Errorf("expected empty title, got %q", got)
	}
}

func TestCleanMarkdown(t *testing.T) {
	input := "# Header\n\n\n\n\n\nBody\n\n--------\n\ntail   \n"
	got := cleanMarkdown(input)

	if strings.Contains(got, "\n\n\n\n") {
		t.Error("excessive blank lines not collapsed")
	}
	if strings.Contains(got, "--------") {
		t.Error("long dash runs not collapsed")
	}
	if strings.HasSuffix(got, "\n") {
		t.Error("trailing whitespace not trimmed")
	}
}

func TestConvertBasicPage(t *testing.T) {
	html := `<html><head><title>Acme Pricing</title></head><body>
		<h1>Plans</h1>
		<p>Starter is free. Growth is $49 per month.</p>
	</body></html>`

	result, err := NewConverter().Convert([]byte(html), "https://example.com/pricing")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}

	if !strings.Contains(result.Markdown, "Plans") {
		t.Errorf("heading lost in conversion: %q", result.Markdown)
	}
	if !strings.Contains(result.Markdown, "$49 per month") {
		t.Errorf("body text lost in conversion: %q", result.Markdown)
	}
}

func TestDigestPromptBlock(t *testing.T) {
	d := &Digest{
		URL:      "https://example.com/pricing",
		Domain:   "example.com",
		Title:    "Acme Pricing",
		Markdown: "# Plans",
	}
	block := d.PromptBlock()
	if !strings.Contains(block, "Acme Pricing (example.com)") {
		t.Errorf("attribution header missing: %q", block)
	}
	if !strings.Contains(block, "# Plans") {
		t.Errorf("content missing: %q", block)
	}
}
