package news

import (
	"context"
	"errors"
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
)

// ErrAllURLsFailed is returned when none of the requested pages could be
// fetched.
var ErrAllURLsFailed = errors.New("all URLs failed to process")

// DocumentFetcher fetches and parses an HTML page.
type DocumentFetcher interface {
	FetchHTML(ctx context.Context, url string) (*goquery.Document, error)
}

// LinkCollector finds article URLs on a news site.
type LinkCollector interface {
	CollectLinks(ctx context.Context, baseURL, suffix string, maxPages int) ([]string, error)
	CollectFeedLinks(ctx context.Context, feedURL, suffix string) ([]string, error)
}

// SiteOptions describes which articles of a site to process.
type SiteOptions struct {
	BaseURL string
	// Suffix must appear in an article URL for it to be collected.
	Suffix   string
	MaxPages int
	// FeedURL, if set, is used instead of the listing pages to find articles.
	FeedURL string
}

// SiteResult is the outcome of processing a site.
type SiteResult struct {
	Success       bool      `json:"success"`
	TotalArticles int       `json:"total_articles"`
	Articles      []Article `json:"articles,omitempty"`
	Error         string    `json:"error,omitempty"`
	URLsFound     int       `json:"urls_found,omitempty"`
}

// ParseArticles fetches each URL and parses it with parser. URLs that fail to
// load are skipped; ErrAllURLsFailed is returned when every URL failed.
func ParseArticles(ctx context.Context, fetcher DocumentFetcher, parser Parser, urls []string) ([]Article, error) {
	articles := []Article{}

	for _, url := range urls {
		log.Debug("Requesting", "url", url)
		doc, err := fetcher.FetchHTML(ctx, url)
		if err != nil {
			log.Warn("Skipping URL due to error", "url", url, "err", err)
			continue
		}
		articles = append(articles, parser.ParseArticle(doc, url))
	}

	if len(articles) == 0 {
		return nil, ErrAllURLsFailed
	}

	log.Info("Processed articles", "succeeded", len(articles), "requested", len(urls))
	return articles, nil
}

// ProcessSite collects the article URLs of a site and parses each article.
// Failures after collection are reported in the result rather than as an
// error; only a failed collection returns an error.
func ProcessSite(ctx context.Context, collector LinkCollector, fetcher DocumentFetcher, parser Parser, opts SiteOptions) (*SiteResult, error) {
	var (
		urls []string
		err  error
	)
	if opts.FeedURL != "" {
		urls, err = collector.CollectFeedLinks(ctx, opts.FeedURL, opts.Suffix)
	} else {
		urls, err = collector.CollectLinks(ctx, opts.BaseURL, opts.Suffix, opts.MaxPages)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to collect article URLs: %w", err)
	}

	log.Info("Found articles to process", "count", len(urls), "parser", parser.Name())

	articles, err := ParseArticles(ctx, fetcher, parser, urls)
	if err != nil {
		return &SiteResult{
			Success:   false,
			Error:     err.Error(),
			URLsFound: len(urls),
		}, nil
	}

	return &SiteResult{
		Success:       true,
		TotalArticles: len(articles),
		Articles:      articles,
	}, nil
}
