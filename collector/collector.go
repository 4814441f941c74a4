// Package collector gathers article URLs from a news site's listing pages or
// its RSS/Atom feed.
package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// DocumentFetcher fetches and parses an HTML page.
type DocumentFetcher interface {
	FetchHTML(ctx context.Context, url string) (*goquery.Document, error)
}

// Collector walks listing pages and collects the article links on them.
type Collector struct {
	fetcher DocumentFetcher
	limiter *rate.Limiter
	feed    *gofeed.Parser
}

// New creates a collector that waits at least delay between page requests.
// A zero delay disables pacing.
func New(fetcher DocumentFetcher, delay time.Duration) *Collector {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	return &Collector{
		fetcher: fetcher,
		limiter: rate.NewLimiter(limit, 1),
		feed:    gofeed.NewParser(),
	}
}

// CollectLinks returns the URLs under baseURL that contain suffix, in the
// order they were found. Page 1 is baseURL itself and page n is
// baseURL/page/n. Collection stops at the first page that fails to load or
// adds no new links, or after maxPages pages when maxPages is positive.
func (c *Collector) CollectLinks(ctx context.Context, baseURL, suffix string, maxPages int) ([]string, error) {
	seen := make(map[string]bool)
	links := []string{}

	for page := 1; maxPages <= 0 || page <= maxPages; page++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return links, fmt.Errorf("collection interrupted: %w", err)
		}

		pageURL := listingPageURL(baseURL, page)
		doc, err := c.fetcher.FetchHTML(ctx, pageURL)
		if err != nil {
			log.Info("Reached end of listing", "page", page-1, "err", err)
			break
		}

		found := 0
		for _, link := range pageLinks(doc, pageURL) {
			if seen[link] || !strings.HasPrefix(link, baseURL) || !strings.Contains(link, suffix) {
				continue
			}
			seen[link] = true
			links = append(links, link)
			found++
		}

		log.Info("Collected links", "page", page, "new", found)

		if found == 0 {
			break
		}
	}

	return links, nil
}

// CollectFeedLinks returns the item links of the RSS or Atom feed at feedURL
// that contain suffix.
func (c *Collector) CollectFeedLinks(ctx context.Context, feedURL, suffix string) ([]string, error) {
	feed, err := c.feed.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	seen := make(map[string]bool)
	links := []string{}
	for _, item := range feed.Items {
		link := strings.TrimSpace(item.Link)
		if link == "" || seen[link] || !strings.Contains(link, suffix) {
			continue
		}
		seen[link] = true
		links = append(links, link)
	}

	log.Info("Collected feed links", "feed", feed.Title, "items", len(feed.Items), "links", len(links))
	return links, nil
}

func listingPageURL(baseURL string, page int) string {
	if page == 1 {
		return baseURL
	}
	return fmt.Sprintf("%s/page/%d", strings.TrimSuffix(baseURL, "/"), page)
}

// pageLinks returns the absolute form of every href on the page, without
// fragments.
func pageLinks(doc *goquery.Document, pageURL string) []string {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		links = append(links, abs.String())
	})
	return links
}
