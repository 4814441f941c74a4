package news

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// SelectorConfig defines how to extract articles from a site that has no
// built-in parser.
type SelectorConfig struct {
	TitleSelector string `yaml:"title_selector"`
	// ContentSelector selects the elements whose lines form the article.
	// Defaults to "p".
	ContentSelector string `yaml:"content_selector"`
	AuthorSelector  string `yaml:"author_selector,omitempty"`
	DateSelector    string `yaml:"date_selector,omitempty"`
}

// SelectorParser is a Parser driven by CSS selectors.
type SelectorParser struct {
	name   string
	config SelectorConfig
}

// NewSelectorParser creates a parser called name from config.
func NewSelectorParser(name string, config SelectorConfig) (*SelectorParser, error) {
	if name == "" {
		return nil, fmt.Errorf("parser name is required")
	}
	if isBuiltin(name) {
		return nil, fmt.Errorf("parser %q is built in", name)
	}
	if config.TitleSelector == "" {
		config.TitleSelector = "title"
	}
	if config.ContentSelector == "" {
		config.ContentSelector = "p"
	}
	return &SelectorParser{name: name, config: config}, nil
}

// Name implements Parser.
func (p *SelectorParser) Name() string { return p.name }

// ParseArticle implements Parser.
func (p *SelectorParser) ParseArticle(doc *goquery.Document, url string) Article {
	lines := selectionLines(doc.Find(p.config.ContentSelector))
	article := Article{
		ID:        uuid.New(),
		URL:       url,
		Title:     normalizeSpace(doc.Find(p.config.TitleSelector).First().Text()),
		LineCount: len(lines),
		Lines:     lines,
	}
	if article.Title == "" {
		article.Title = NoTitle
	}

	if p.config.AuthorSelector != "" {
		article.Author = normalizeSpace(doc.Find(p.config.AuthorSelector).First().Text())
	}
	if p.config.DateSelector != "" {
		article.Date = normalizeSpace(doc.Find(p.config.DateSelector).First().Text())
	}

	return finishArticle(article)
}

// normalizeSpace collapses runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
