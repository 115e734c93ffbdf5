package intel

import (
	"context"
	"fmt"
	"time"
)

// maxDigestChars bounds how much page content is folded into a prompt.
const maxDigestChars = 4000

// Digest is the distilled content of one fetched page.
type Digest struct {
	// URL is the fetched page.
	URL string `json:"url"`

	// Domain is the page's host, for attribution in prompts.
	Domain string `json:"domain"`

	// Title is the page title, when one was found.
	Title string `json:"title,omitempty"`

	// Markdown is the distilled content, truncated to prompt budget.
	Markdown string `json:"markdown"`

	// FetchedAt is when the page was retrieved.
	FetchedAt time.Time `json:"fetched_at"`
}

// Service fetches and distills market-intel pages.
type Service struct {
	fetcher   *Fetcher
	converter *Converter
}

// NewService creates an intel service.
func NewService(timeout time.Duration, userAgent string, maxContentSize int64) *Service {
	return &Service{
		fetcher:   NewFetcher(timeout, userAgent, maxContentSize),
		converter: NewConverter(),
	}
}

// Gather fetches a page and distills it into a prompt-sized digest.
// Callers treat failures as non-fatal: the analysis round proceeds
// without intel.
func (s *Service) Gather(ctx context.Context, pageURL string) (*Digest, error) {
	result, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, fmt.Errorf("gather intel from %s: %w", pageURL, err)
	}

	converted, err := s.converter.Convert(result.Body, pageURL)
	if err != nil {
		return nil, fmt.Errorf("distill intel from %s: %w", pageURL, err)
	}

	markdown := converted.Markdown
	if len(markdown) > maxDigestChars {
		markdown = markdown[:maxDigestChars]
	}

	return &Digest{
		URL:       pageURL,
		Domain:    ExtractDomain(pageURL),
		Title:     converted.Title,
		Markdown:  markdown,
		FetchedAt: time.Now(),
	}, nil
}

// PromptBlock renders the digest for inclusion in a prompt.
func (d *Digest) PromptBlock() string {
	header := d.Domain
	if d.Title != "" {
		header = fmt.Sprintf("%s (%s)", d.Title, d.Domain)
	}
	return fmt.Sprintf("Source: %s\n\n%s", header, d.Markdown)
}
