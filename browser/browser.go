// Package browser drives a headless Chrome instance to render court portal
// pages, whose results are only filled in by the portal's scripts.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/alabama-forward/opal/courtportal"
	"github.com/charmbracelet/log"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

// SearchPageURL is the portal page whose court selector lists the court IDs.
const SearchPageURL = courtportal.PortalBaseURL + "/portal/search/case"

// Config holds the browser settings.
type Config struct {
	Headless bool
	// Timeout bounds a single page render.
	Timeout time.Duration
	// SettleDelay is waited after the results table becomes visible.
	SettleDelay time.Duration
	// RateLimit is the minimum time between page loads; zero disables pacing.
	RateLimit time.Duration
	// ResultsSelector is waited for before the page is captured.
	ResultsSelector string
}

// DefaultConfig returns the settings used by the command line tool.
func DefaultConfig() Config {
	return Config{
		Headless:        true,
		Timeout:         30 * time.Second,
		SettleDelay:     2 * time.Second,
		RateLimit:       2 * time.Second,
		ResultsSelector: "table",
	}
}

// Browser renders pages in tabs of a single Chrome process.
type Browser struct {
	config        Config
	limiter       *rate.Limiter
	allocCancel   context.CancelFunc
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// New starts a Chrome process configured by cfg. Close must be called to
// stop it.
func New(cfg Config) (*Browser, error) {
	if cfg.ResultsSelector == "" {
		cfg.ResultsSelector = "table"
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(log.Debugf))

	// Start the browser now so a missing Chrome is reported up front
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log.Debug("Browser started", "headless", cfg.Headless)

	return &Browser{
		config:        cfg,
		limiter:       newLimiter(cfg.RateLimit),
		allocCancel:   allocCancel,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
	}, nil
}

// Close stops the browser.
func (b *Browser) Close() {
	b.browserCancel()
	b.allocCancel()
}

// Render loads url in a new tab, waits for the results table and returns the
// rendered HTML along with the URL the page settled on.
func (b *Browser) Render(ctx context.Context, url string) (*courtportal.RenderedPage, error) {
	var (
		html     string
		finalURL string
	)

	err := b.run(ctx, url,
		chromedp.Navigate(url),
		chromedp.WaitVisible(b.config.ResultsSelector, chromedp.ByQuery),
		chromedp.Sleep(b.config.SettleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.Location(&finalURL),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", url, err)
	}

	return &courtportal.RenderedPage{URL: finalURL, HTML: html}, nil
}

// Load implements courtportal.PageLoader.
func (b *Browser) Load(ctx context.Context, url string) (string, error) {
	page, err := b.Render(ctx, url)
	if err != nil {
		return "", err
	}
	return page.URL, nil
}

// Discover implements courtportal.CourtDiscoverer by reading the options of
// the court selector on the portal's search page.
func (b *Browser) Discover(ctx context.Context) (map[string]string, error) {
	var options []courtOption

	err := b.run(ctx, SearchPageURL,
		chromedp.Navigate(SearchPageURL),
		chromedp.WaitReady("select", chromedp.ByQuery),
		chromedp.Sleep(b.config.SettleDelay),
		chromedp.Evaluate(courtOptionsScript, &options),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read court options: %w", err)
	}

	return courtOptionMap(options), nil
}

// run executes actions in a fresh tab, paced by the rate limiter and bounded
// by the configured timeout and by ctx.
func (b *Browser) run(ctx context.Context, url string, actions ...chromedp.Action) error {
	if err := b.limiter.Wait(ctx); err != nil {
		return err
	}

	tabCtx, cancel := chromedp.NewContext(b.browserCtx)
	defer cancel()

	// The tab belongs to the browser, so tie it to the caller separately
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.config.Timeout)
	defer timeoutCancel()

	log.Debug("Rendering", "url", url)
	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}

func newLimiter(every time.Duration) *rate.Limiter {
	if every <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(every), 1)
}
