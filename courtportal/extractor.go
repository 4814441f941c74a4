package courtportal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// ErrNoPage is returned when a renderer reports neither a page nor an error.
var ErrNoPage = errors.New("renderer returned no page")

// RenderedPage is a portal page after its scripts have run.
type RenderedPage struct {
	// URL is the address the page settled on, which can differ from the
	// requested one once the portal has filled in its pagination state.
	URL  string
	HTML string
}

// PageRenderer loads and renders portal pages.
type PageRenderer interface {
	Render(ctx context.Context, url string) (*RenderedPage, error)
}

// ExtractOptions controls a single extraction run.
type ExtractOptions struct {
	// BaseURL is the search URL for page 0.
	BaseURL string
	// MaxPages limits the number of pages processed; 0 means all.
	MaxPages int
	// Parameters is recorded in the result as given.
	Parameters map[string]any
	// OnPage, if set, is called before each page is processed.
	OnPage func(page, total int)
}

// ExtractionResult is the outcome of an extraction run.
type ExtractionResult struct {
	Status           string         `json:"status"`
	SearchParameters map[string]any `json:"search_parameters,omitempty"`
	TotalCases       int            `json:"total_cases"`
	ExtractionDate   string         `json:"extraction_date"`
	ExtractionTime   string         `json:"extraction_time"`
	PagesProcessed   int            `json:"pages_processed"`
	Cases            []CourtCase    `json:"cases"`
}

// Extractor walks every result page of a portal search and collects the
// cases listed on them.
type Extractor struct {
	renderer PageRenderer
	now      func() time.Time
}

// NewExtractor creates an extractor that loads pages through renderer.
func NewExtractor(renderer PageRenderer) *Extractor {
	return &Extractor{
		renderer: renderer,
		now:      time.Now,
	}
}

// Extract processes the search in opts.BaseURL page by page. It stops early
// at the first page without cases. Only a failure to render the first page
// is returned as an error; later failures end the run with what was
// collected so far.
func (e *Extractor) Extract(ctx context.Context, opts ExtractOptions) (*ExtractionResult, error) {
	loader := &firstPageLoader{renderer: e.renderer}

	urls := Sequence(ctx, opts.BaseURL, loader)
	if opts.MaxPages > 0 && opts.MaxPages < len(urls) {
		log.Info("Limiting pages", "max_pages", opts.MaxPages, "available", len(urls))
		urls = urls[:opts.MaxPages]
	}

	log.Info("Extracting court cases", "pages", len(urls))

	cases := []CourtCase{}
	processed := 0

	for i, pageURL := range urls {
		if opts.OnPage != nil {
			opts.OnPage(i, len(urls))
		}

		page, err := loader.page(ctx, i, pageURL)
		if err != nil {
			if i == 0 {
				return nil, fmt.Errorf("failed to load first page: %w", err)
			}
			log.Error("Failed to load page", "page", i+1, "err", err)
			break
		}
		processed++

		pageCases, err := ParseCasesHTML(page.HTML)
		if err != nil {
			log.Error("Failed to parse page", "page", i+1, "err", err)
			break
		}
		if len(pageCases) == 0 {
			log.Info("No cases found, stopping", "page", i+1)
			break
		}

		log.Debug("Parsed page", "page", i+1, "cases", len(pageCases))
		cases = append(cases, pageCases...)
	}

	now := e.now()
	return &ExtractionResult{
		Status:           "success",
		SearchParameters: opts.Parameters,
		TotalCases:       len(cases),
		ExtractionDate:   now.Format(time.DateOnly),
		ExtractionTime:   now.Format(time.TimeOnly),
		PagesProcessed:   processed,
		Cases:            cases,
	}, nil
}

// firstPageLoader adapts a PageRenderer to a PageLoader and keeps the page it
// rendered so that page 0 is not loaded twice.
type firstPageLoader struct {
	renderer PageRenderer
	first    *RenderedPage
}

func (l *firstPageLoader) Load(ctx context.Context, url string) (string, error) {
	page, err := l.renderer.Render(ctx, url)
	if err != nil {
		return "", err
	}
	if page == nil {
		return "", nil
	}
	l.first = page
	return page.URL, nil
}

// page returns the rendered page at index i, reusing the first render.
func (l *firstPageLoader) page(ctx context.Context, i int, url string) (*RenderedPage, error) {
	if i == 0 && l.first != nil {
		return l.first, nil
	}

	page, err := l.renderer.Render(ctx, url)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrNoPage
	}
	return page, nil
}
