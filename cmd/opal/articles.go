package main

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/alabama-forward/opal/config"
	"github.com/alabama-forward/opal/store"
)

func printArticlesUsage() {
	fmt.Println("opal articles - Browse stored news articles")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  opal articles <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  list       List stored articles")
	fmt.Println("  show       Show one stored article")
	fmt.Println("  help       Show this help message")
}

func handleArticlesCommand(cfg *config.FileConfig, action string, args []string) {
	if action == "help" || action == "--help" || action == "-h" {
		printArticlesUsage()
		return
	}

	st := requireStore(cfg)
	defer st.Close()

	switch action {
	case "list":
		handleArticlesList(st, args)
	case "show":
		handleArticlesShow(st, args)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown articles command: %s\n\n", action)
		printArticlesUsage()
		os.Exit(1)
	}
}

func handleArticlesList(st *store.Store, args []string) {
	// Parse flags for list command
	fs := flag.NewFlagSet("articles list", flag.ExitOnError)
	limit := fs.Int("limit", 20, "Maximum number of articles to show (0 for all)")
	fs.Parse(args)

	articles, err := st.ListArticles(*limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list articles: %v\n", err)
		os.Exit(1)
	}

	if len(articles) == 0 {
		fmt.Println("No stored articles.")
		return
	}

	printArticlesTable(articles)
}

func handleArticlesShow(st *store.Store, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: article URL is required\n")
		fmt.Fprintf(os.Stderr, "Usage: opal articles show <url>\n")
		os.Exit(1)
	}

	article, err := st.GetArticle(args[0])
	if errors.Is(err, store.ErrArticleNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no stored article %s\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get article: %v\n", err)
		os.Exit(1)
	}

	printArticleDetail(article)
}
