package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// httpFetcher is a minimal fetcher for the test servers
type httpFetcher struct {
	requests []string
}

func (f *httpFetcher) FetchHTML(ctx context.Context, url string) (*goquery.Document, error) {
	f.requests = append(f.requests, url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}
	return goquery.NewDocumentFromReader(resp.Body)
}

// Test helper: a listing with pages 1 and 2; page 3 repeats page 2
func createTestListing(t *testing.T) *httptest.Server {
	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="/news/item/a">A</a>
			<a href="/news/item/b#comments">B comments</a>
			<a href="/news/item/b">B</a>
			<a href="/news/tag/x">Tag</a>
			<a href="https://elsewhere.example/news/item/z">Elsewhere</a>
		</body></html>`)
	})
	mux.HandleFunc("/news/page/2", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `<html><body>
			<a href="%s/news/item/c">C</a>
			<a href="/news/item/a">A again</a>
		</body></html>`, server.URL)
	})
	mux.HandleFunc("/news/page/3", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><a href="/news/item/c">C again</a></body></html>`)
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestCollectLinks verifies filtering, de-duplication and stopping
func TestCollectLinks(t *testing.T) {
	server := createTestListing(t)
	fetcher := &httpFetcher{}

	links, err := New(fetcher, 0).CollectLinks(context.Background(), server.URL+"/news", "/item/", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		server.URL + "/news/item/a",
		server.URL + "/news/item/b",
		server.URL + "/news/item/c",
	}, links)
	assert.Len(t, fetcher.requests, 3, "should stop on the page with no new links")
}

// TestCollectLinks_MaxPages verifies the page limit
func TestCollectLinks_MaxPages(t *testing.T) {
	server := createTestListing(t)
	fetcher := &httpFetcher{}

	links, err := New(fetcher, 0).CollectLinks(context.Background(), server.URL+"/news", "/item/", 1)
	require.NoError(t, err)

	assert.Len(t, links, 2)
	assert.Equal(t, []string{server.URL + "/news"}, fetcher.requests)
}

// TestCollectLinks_StopsOnError verifies a missing page ends collection
func TestCollectLinks_StopsOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/blog" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body><a href="/blog/post-1">1</a></body></html>`)
	}))
	t.Cleanup(server.Close)

	links, err := New(&httpFetcher{}, 0).CollectLinks(context.Background(), server.URL+"/blog", "post", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{server.URL + "/blog/post-1"}, links)
}

// TestCollectLinks_Cancelled verifies the limiter honours cancellation
func TestCollectLinks_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(&httpFetcher{}, time.Hour).CollectLinks(ctx, "http://127.0.0.1/news", "/item/", 0)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "collection interrupted")
}

// TestCollectFeedLinks verifies links are taken from an RSS feed
func TestCollectFeedLinks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, `<?xml version="1.0"?>
<rss version="2.0"><channel>
	<title>Daily News</title>
	<link>https://aldailynews.com</link>
	<description>News</description>
	<item><title>One</title><link>https://aldailynews.com/one/</link></item>
	<item><title>Podcast</title><link>https://podcasts.example/ep1</link></item>
	<item><title>One again</title><link>https://aldailynews.com/one/</link></item>
	<item><title>Two</title><link> https://aldailynews.com/two/ </link></item>
</channel></rss>`)
	}))
	t.Cleanup(server.Close)

	links, err := New(&httpFetcher{}, 0).CollectFeedLinks(context.Background(), server.URL, "aldailynews.com")
	require.NoError(t, err)

	assert.Equal(t, []string{"https://aldailynews.com/one/", "https://aldailynews.com/two/"}, links)
}

// TestCollectFeedLinks_InvalidFeed verifies unparseable feeds are errors
func TestCollectFeedLinks_InvalidFeed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "not a feed")
	}))
	t.Cleanup(server.Close)

	_, err := New(&httpFetcher{}, 0).CollectFeedLinks(context.Background(), server.URL, "")

	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to parse feed"))
}

// TestListingPageURL verifies listing page numbering
func TestListingPageURL(t *testing.T) {
	assert.Equal(t, "https://1819news.com/news", listingPageURL("https://1819news.com/news", 1))
	assert.Equal(t, "https://1819news.com/news/page/2", listingPageURL("https://1819news.com/news/", 2))
}
