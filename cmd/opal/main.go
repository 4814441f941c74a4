package main

import (
	"fmt"
	"os"

	"github.com/alabama-forward/opal/config"
	"github.com/alabama-forward/opal/logging"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Get subcommand
	subcommand := os.Args[1]

	switch subcommand {
	case "news":
		handleNews(loadSettings(), os.Args[2:])
	case "court":
		handleCourt(loadSettings(), os.Args[2:])
	case "courts":
		handleCourts(os.Args[2:])
	case "cases":
		if len(os.Args) < 3 {
			printCasesUsage()
			os.Exit(1)
		}
		handleCasesCommand(loadSettings(), os.Args[2], os.Args[3:])
	case "articles":
		if len(os.Args) < 3 {
			printArticlesUsage()
			os.Exit(1)
		}
		handleArticlesCommand(loadSettings(), os.Args[2], os.Args[3:])
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", subcommand)
		printUsage()
		os.Exit(1)
	}
}

// loadSettings reads the config file, applies environment overrides and
// sets up logging.
func loadSettings() *config.FileConfig {
	cfg, err := config.Load(getEnv("OPAL_CONFIG", ""))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg.Storage.DSN = getEnv("OPAL_STORE_DSN", cfg.Storage.DSN)
	cfg.Output.Dir = getEnv("OPAL_OUTPUT_DIR", cfg.Output.Dir)
	cfg.Log.Level = getEnv("OPAL_LOG_LEVEL", cfg.Log.Level)

	logCfg := cfg.Log
	logCfg.Output = os.Stderr
	if _, err := logging.Setup(logCfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set up logging: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

func printUsage() {
	fmt.Println("opal - Alabama news and appeals court scraper")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  opal <command> [arguments]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  news       Scrape articles from a news site")
	fmt.Println("  court      Extract cases from the appeals court portal")
	fmt.Println("  courts     List searchable courts and their case categories")
	fmt.Println("  cases      Browse stored court cases")
	fmt.Println("  articles   Browse stored news articles")
	fmt.Println("  help       Show this help message")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  OPAL_CONFIG      Path to config file (default: ~/.opal/config.yaml)")
	fmt.Println("  OPAL_STORE_DSN   Path to SQLite database (default: none, storage disabled)")
	fmt.Println("  OPAL_OUTPUT_DIR  Directory for result files (default: .)")
	fmt.Println("  OPAL_LOG_LEVEL   Log level: debug, info, warn or error (default: info)")
}
