package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/alabama-forward/opal/collector"
	"github.com/alabama-forward/opal/config"
	"github.com/alabama-forward/opal/news"
	"github.com/alabama-forward/opal/output"
)

func handleNews(cfg *config.FileConfig, args []string) {
	registry, err := news.NewRegistry(cfg.News.Parsers)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Parse flags for news command
	fs := flag.NewFlagSet("news", flag.ExitOnError)
	siteURL := fs.String("url", "", "Base URL of the news listing (required)")
	parserName := fs.String("parser", "", "Parser to use: "+strings.Join(registry.Names(), ", ")+" (required)")
	suffix := fs.String("suffix", "", "Only collect article URLs containing this text")
	maxPages := fs.Int("max-pages", 5, "Maximum number of listing pages to walk")
	feedURL := fs.String("feed", "", "Collect article URLs from this RSS/Atom feed instead of the listing")
	prefix := fs.String("output-prefix", "", "Prefix for the output file (default: parser name)")
	saveToStore := fs.Bool("store", false, "Also save articles to the SQLite store")
	fs.Parse(args)

	if *siteURL == "" && *feedURL == "" {
		fmt.Fprintln(os.Stderr, "Error: --url or --feed is required")
		fs.Usage()
		os.Exit(1)
	}

	parser, err := registry.Lookup(*parserName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := checkStoreFlag(*saveToStore, cfg.Storage.DSN); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *prefix == "" {
		*prefix = parser.Name()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fetcher := news.NewFetcher(cfg.HTTP.Timeout, cfg.HTTP.UserAgent)
	links := collector.New(fetcher, cfg.HTTP.PageDelay)

	spin := newSpinner("Scraping " + parser.Name() + "...")
	spin.Start()
	result, err := news.ProcessSite(ctx, links, fetcher, parser, news.SiteOptions{
		BaseURL:  *siteURL,
		Suffix:   *suffix,
		MaxPages: *maxPages,
		FeedURL:  *feedURL,
	})
	spin.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	now := time.Now()
	writer, err := output.NewWriter(cfg.Output.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	path, err := writer.WriteJSON(*prefix, now, result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save results: %v\n", err)
		os.Exit(1)
	}

	if *saveToStore {
		st := openStore(cfg.Storage.DSN)
		defer st.Close()
		if err := st.SaveArticles(result.Articles, now); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to store articles: %v\n", err)
			os.Exit(1)
		}
	}

	printNewsSummary(result, path)
}
