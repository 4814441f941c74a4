package news

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alabama-forward/opal/collector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: a small news site with one listing page and two articles
func createTestSite(t *testing.T) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/news", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body>
			<a href="/news/item/one">One</a>
			<a href="/news/item/two">Two</a>
			<a href="/news/item/gone">Gone</a>
			<a href="/about">About</a>
		</body></html>`)
	})
	mux.HandleFunc("/news/item/one", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>One</title></head><body>
			<div class="author-date"><a>Ann</a> | Jan 2, 2025</div><p>Body one.</p></body></html>`)
	})
	mux.HandleFunc("/news/item/two", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Two</title></head><body><p>Body two.</p></body></html>`)
	})
	mux.HandleFunc("/news/item/gone", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// TestFetcher_FetchHTML verifies pages are fetched with the user agent
func TestFetcher_FetchHTML(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.Header.Get("User-Agent")
		fmt.Fprint(w, "<html><head><title>Hello</title></head></html>")
	}))
	t.Cleanup(server.Close)

	doc, err := NewFetcher(time.Second, "opal-test").FetchHTML(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Equal(t, "Hello", doc.Find("title").Text())
	assert.Equal(t, "opal-test", userAgent)
}

// TestFetcher_HTTPError verifies non-200 responses are errors
func TestFetcher_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	t.Cleanup(server.Close)

	_, err := NewFetcher(time.Second, "").FetchHTML(context.Background(), server.URL)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP error: 404")
}

// TestParseArticles_SkipsFailures verifies failed URLs are skipped
func TestParseArticles_SkipsFailures(t *testing.T) {
	server := createTestSite(t)
	urls := []string{server.URL + "/news/item/one", server.URL + "/news/item/gone", server.URL + "/news/item/two"}

	articles, err := ParseArticles(context.Background(), NewFetcher(time.Second, ""), Parser1819{}, urls)
	require.NoError(t, err)

	require.Len(t, articles, 2)
	assert.Equal(t, "One", articles[0].Title)
	assert.Equal(t, "Ann", articles[0].Author)
	assert.Equal(t, "Two", articles[1].Title)
}

// TestParseArticles_AllFailed verifies the all-failed error
func TestParseArticles_AllFailed(t *testing.T) {
	server := createTestSite(t)

	_, err := ParseArticles(context.Background(), NewFetcher(time.Second, ""), Parser1819{},
		[]string{server.URL + "/news/item/gone"})
	assert.ErrorIs(t, err, ErrAllURLsFailed)

	_, err = ParseArticles(context.Background(), NewFetcher(time.Second, ""), Parser1819{}, nil)
	assert.ErrorIs(t, err, ErrAllURLsFailed)
}

// TestProcessSite verifies collection and parsing together
func TestProcessSite(t *testing.T) {
	server := createTestSite(t)
	fetcher := NewFetcher(time.Second, "")

	result, err := ProcessSite(context.Background(), collector.New(fetcher, 0), fetcher, Parser1819{}, SiteOptions{
		BaseURL:  server.URL + "/news",
		Suffix:   "/item/",
		MaxPages: 1,
	})
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 2, result.TotalArticles)
	assert.Empty(t, result.Error)
}

// TestProcessSite_NothingParsed verifies the failure result
func TestProcessSite_NothingParsed(t *testing.T) {
	server := createTestSite(t)
	fetcher := NewFetcher(time.Second, "")

	result, err := ProcessSite(context.Background(), collector.New(fetcher, 0), fetcher, Parser1819{}, SiteOptions{
		BaseURL:  server.URL + "/news",
		Suffix:   "/gone",
		MaxPages: 1,
	})
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Equal(t, 1, result.URLsFound)
	assert.Equal(t, ErrAllURLsFailed.Error(), result.Error)
}
