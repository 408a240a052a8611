package corpus

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/go-shiori/dom"
	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
	reWS = regexp.MustCompile(`[ \t\r\f\v]+`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>) so annotated words are not counted twice ("漢字かんじ").
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, nil)
	return reRP.ReplaceAll(cleaned, nil)
}

// LoadHTML extracts poems from a rendered viewer page. Every .poem-card
// becomes one poem; a page without cards is treated as a single article and
// run through readability.
func LoadHTML(r io.Reader, pageURL *url.URL) ([]Poem, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = SanitizeRuby(raw)

	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	cards := dom.QuerySelectorAll(doc, ".poem-card")
	if len(cards) == 0 {
		return articlePoem(raw, pageURL)
	}

	poems := make([]Poem, 0, len(cards))
	for i, card := range cards {
		p := Poem{
			ID:       i + 1,
			Title:    selectText(card, ".poem-title"),
			Body:     selectText(card, ".poem-body"),
			Category: selectText(card, ".poem-cat-name"),
			Number:   strings.TrimPrefix(selectText(card, ".poem-number"), "#"),
		}
		if p.Title == "" && p.Body == "" {
			p.Body = cleanText(dom.TextContent(card))
		}
		if p.Title == "" && p.Body == "" {
			continue
		}
		poems = append(poems, p)
	}
	return poems, nil
}

func articlePoem(raw []byte, pageURL *url.URL) ([]Poem, error) {
	article, err := readability.FromReader(bytes.NewReader(raw), pageURL)
	if err != nil {
		return nil, fmt.Errorf("extract article: %w", err)
	}
	body := cleanText(article.TextContent)
	if body == "" {
		return nil, nil
	}
	return []Poem{{ID: 1, Title: strings.TrimSpace(article.Title), Body: body}}, nil
}

func selectText(node *html.Node, selector string) string {
	n := dom.QuerySelector(node, selector)
	if n == nil {
		return ""
	}
	return cleanText(dom.TextContent(n))
}

// cleanText collapses runs of horizontal whitespace and blank lines while
// keeping line structure, which matters for poem bodies.
func cleanText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		l = strings.TrimSpace(reWS.ReplaceAllString(l, " "))
		if l == "" {
			continue
		}
		out = append(out, l)
	}
	return strings.Join(out, "\n")
}
