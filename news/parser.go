// Package news extracts article records from the supported Alabama news
// sites.
package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

// Placeholders used when a page lacks a field.
const (
	NoTitle       = "No Title"
	UnknownAuthor = "Unknown Author"
	UnknownDate   = "Unknown Date"
)

// Article holds the data extracted from a single article page.
type Article struct {
	ID        uuid.UUID `json:"id"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Date      string    `json:"date"`
	LineCount int       `json:"line_count"`
	Lines     []string  `json:"line_content"`
}

// Parser extracts an article from a page of one particular site.
type Parser interface {
	// Name identifies the parser on the command line.
	Name() string
	ParseArticle(doc *goquery.Document, url string) Article
}

// Parser1819 parses articles from 1819news.com.
type Parser1819 struct{}

// Name implements Parser.
func (Parser1819) Name() string { return "Parser1819" }

// ParseArticle implements Parser. Author and date share a div.author-date
// element with the date after a "|".
func (p Parser1819) ParseArticle(doc *goquery.Document, url string) Article {
	article := newArticle(doc, url)

	authorDate := doc.Find("div.author-date").First()
	if authorDate.Length() > 0 {
		if link := authorDate.Find("a").First(); link.Length() > 0 {
			article.Author = strings.TrimSpace(link.Text())
		}
		if _, date, found := strings.Cut(authorDate.Text(), "|"); found {
			article.Date = strings.TrimSpace(date)
		}
	}

	return finishArticle(article)
}

// ParserDailyNews parses articles from Alabama Daily News.
type ParserDailyNews struct{}

// Name implements Parser.
func (ParserDailyNews) Name() string { return "ParserDailyNews" }

// ParseArticle implements Parser.
func (p ParserDailyNews) ParseArticle(doc *goquery.Document, url string) Article {
	article := newArticle(doc, url)

	if link := doc.Find("span.author.vcard a").First(); link.Length() > 0 {
		article.Author = strings.TrimSpace(link.Text())
	}
	if link := doc.Find("span.post-date a").First(); link.Length() > 0 {
		article.Date = strings.TrimSpace(link.Text())
	}

	return finishArticle(article)
}

// Registry holds the parsers available to a run, keyed by name.
type Registry struct {
	parsers map[string]Parser
}

// builtinParsers returns the parsers shipped with opal.
func builtinParsers() []Parser {
	return []Parser{Parser1819{}, ParserDailyNews{}}
}

func isBuiltin(name string) bool {
	return slices.ContainsFunc(builtinParsers(), func(p Parser) bool { return p.Name() == name })
}

// NewRegistry returns a registry with the built-in parsers plus a
// SelectorParser for each entry of selectors.
func NewRegistry(selectors map[string]SelectorConfig) (*Registry, error) {
	r := &Registry{parsers: make(map[string]Parser)}
	for _, parser := range builtinParsers() {
		r.parsers[parser.Name()] = parser
	}

	for name, config := range selectors {
		parser, err := NewSelectorParser(name, config)
		if err != nil {
			return nil, fmt.Errorf("failed to register parser: %w", err)
		}
		r.parsers[name] = parser
	}

	return r, nil
}

// DefaultRegistry returns a registry with only the built-in parsers.
func DefaultRegistry() *Registry {
	r, _ := NewRegistry(nil)
	return r
}

// Names returns the registered parser names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the parser registered under name.
func (r *Registry) Lookup(name string) (Parser, error) {
	parser, ok := r.parsers[name]
	if !ok {
		return nil, fmt.Errorf("unknown parser %q: must be one of %s", name, strings.Join(r.Names(), ", "))
	}
	return parser, nil
}

// newArticle fills in the fields every site shares: the title and the
// paragraph lines.
func newArticle(doc *goquery.Document, url string) Article {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = NoTitle
	}

	lines := ParagraphLines(doc)

	return Article{
		ID:        uuid.New(),
		URL:       url,
		Title:     title,
		LineCount: len(lines),
		Lines:     lines,
	}
}

func finishArticle(article Article) Article {
	if article.Author == "" {
		article.Author = UnknownAuthor
	}
	if article.Date == "" {
		article.Date = UnknownDate
	}
	return article
}

// ParagraphLines returns the non-blank lines of every <p> element in
// document order, trimmed of surrounding whitespace.
func ParagraphLines(doc *goquery.Document) []string {
	return selectionLines(doc.Find("p"))
}

func selectionLines(sel *goquery.Selection) []string {
	lines := []string{}
	sel.Each(func(i int, s *goquery.Selection) {
		for line := range strings.SplitSeq(s.Text(), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				lines = append(lines, line)
			}
		}
	})
	return lines
}

// MarshalJSON writes Lines as an object keyed "line 1", "line 2", ... in
// line order.
func (a Article) MarshalJSON() ([]byte, error) {
	type article Article
	return json.Marshal(struct {
		article
		Lines lineContent `json:"line_content"`
	}{article(a), lineContent(a.Lines)})
}

// UnmarshalJSON reads an article written by MarshalJSON. A plain array of
// lines is accepted as well.
func (a *Article) UnmarshalJSON(data []byte) error {
	type article Article
	aux := struct {
		*article
		Lines lineContent `json:"line_content"`
	}{article: (*article)(a)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	a.Lines = []string(aux.Lines)
	return nil
}

// lineContent is the JSON form of an article's lines.
type lineContent []string

func (l lineContent) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, line := range l {
		if i > 0 {
			b.WriteByte(',')
		}
		key, _ := json.Marshal(fmt.Sprintf("line %d", i+1))
		value, err := json.Marshal(line)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		b.Write(value)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (l *lineContent) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var object map[string]string
	if err := json.Unmarshal(data, &object); err != nil {
		return fmt.Errorf("failed to parse line_content: %w", err)
	}

	lines := make([]string, len(object))
	for key, line := range object {
		n, err := strconv.Atoi(strings.TrimPrefix(key, "line "))
		if err != nil || n < 1 || n > len(object) || key != "line "+strconv.Itoa(n) {
			return fmt.Errorf("invalid line_content key %q", key)
		}
		lines[n-1] = line
	}
	*l = lines
	return nil
}
