package intel

import (
	"bytes"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

// Pre-compiled regexes; runtime compilation of user-influenced patterns risks ReDoS.
var (
	excessiveLinesRe = regexp.MustCompile(`\n{4,}`)
	excessiveDashes  = regexp.MustCompile(`-{4,}`)
)

// ConvertResult contains the distilled page content.
type ConvertResult struct {
	Title    string
	Markdown string
}

// Converter distills fetched HTML into markdown. Readability extraction
// isolates the article body first; pages it cannot handle fall back to
// whole-document conversion.
type Converter struct {
	converter *md.Converter
}

// NewConverter creates an HTML-to-markdown converter.
func NewConverter() *Converter {
	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	return &Converter{
		converter: converter,
	}
}

// Convert transforms HTML content to markdown. pageURL aids relative
// link resolution during readability extraction.
func (c *Converter) Convert(htmlContent []byte, pageURL string) (*ConvertResult, error) {
	parsedURL, _ := url.Parse(pageURL)

	source := string(htmlContent)
	title := ""

	article, err := readability.FromReader(bytes.NewReader(htmlContent), parsedURL)
	if err == nil && strings.TrimSpace(article.Content) != "" {
		source = article.Content
		title = article.Title
	}

	markdown, err := c.converter.ConvertString(source)
	if err != nil {
		return nil, fmt.Errorf("convert to markdown: %w", err)
	}

	markdown = cleanMarkdown(markdown)

	if title == "" {
		title = extractHTMLTitle(htmlContent)
	}

	return &ConvertResult{
		Title:    title,
		Markdown: markdown,
	}, nil
}

// extractHTMLTitle extracts the <title> element from HTML.
func extractHTMLTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if title != "" {
				return
			}
			extract(c)
		}
	}
	extract(doc)

	return title
}

// cleanMarkdown collapses artifacts of mechanical conversion.
func cleanMarkdown(markdown string) string {
	markdown = excessiveLinesRe.ReplaceAllString(markdown, "\n\n\n")
	markdown = excessiveDashes.ReplaceAllString(markdown, "---")
	return strings.TrimSpace(markdown)
}
