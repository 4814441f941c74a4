package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"time"

	"github.com/alabama-forward/opal/browser"
	"github.com/alabama-forward/opal/config"
	"github.com/alabama-forward/opal/courtportal"
	"github.com/alabama-forward/opal/output"
)

// courtOptions holds the search flags of the court command.
type courtOptions struct {
	URL           string
	Court         string
	DatePeriod    string
	StartDate     string
	EndDate       string
	CaseNumber    string
	CaseTitle     string
	CaseCategory  string
	ExcludeClosed bool
	SortBy        string
	Ascending     bool
	PageSize      int
}

// sortFieldPattern matches portal sort fields such as
// "caseHeader.filedDate". The field is written unescaped into the criteria.
var sortFieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9.]*$`)

// searchParameters returns the parameters recorded in the result file.
func (o courtOptions) searchParameters() map[string]any {
	if o.URL != "" {
		return map[string]any{
			"court":       "Custom URL",
			"date_period": "Custom URL",
			"custom_url":  o.URL,
		}
	}

	return map[string]any{
		"court":              o.Court,
		"date_period":        o.DatePeriod,
		"start_date":         o.StartDate,
		"end_date":           o.EndDate,
		"case_number_filter": o.CaseNumber,
		"case_title_filter":  o.CaseTitle,
		"case_category":      o.CaseCategory,
		"exclude_closed":     o.ExcludeClosed,
		"sort_by":            o.SortBy,
		"ascending":          o.Ascending,
		"page_size":          o.PageSize,
	}
}

// validate checks the options that can be checked without the portal.
func (o courtOptions) validate() error {
	if o.URL != "" {
		return nil
	}

	if o.SortBy != "" && !sortFieldPattern.MatchString(o.SortBy) {
		return fmt.Errorf("invalid sort field %q: use a field name such as caseHeader.filedDate", o.SortBy)
	}
	if o.PageSize < 0 {
		return fmt.Errorf("invalid page size %d: must be positive", o.PageSize)
	}

	court, err := courtportal.LookupCourt(o.Court)
	if err != nil {
		return err
	}

	params := courtportal.NewSearchParams(court, "", time.Now())
	if courtportal.DatePeriod(o.DatePeriod) == courtportal.PeriodCustom {
		_, err = params.WithCustomDateRange(o.StartDate, o.EndDate)
	} else {
		_, err = params.WithDatePeriod(courtportal.DatePeriod(o.DatePeriod), time.Now())
	}
	if err != nil {
		return err
	}

	if o.CaseCategory != "" {
		if err := court.ValidateCategory(o.CaseCategory); err != nil {
			return err
		}
	}

	return nil
}

// buildSearchURL returns the page 0 results URL for the options, using ids
// to find the court ID.
func buildSearchURL(o courtOptions, ids map[string]string, now time.Time) (string, error) {
	court, err := courtportal.LookupCourt(o.Court)
	if err != nil {
		return "", err
	}

	courtID := ids[court.Key]
	if courtID == "" {
		return "", fmt.Errorf("no court ID known for %s: set courts.fallback_ids.%s in the config file or use --url",
			court.Name, court.Key)
	}

	params := courtportal.NewSearchParams(court, courtID, now)

	if courtportal.DatePeriod(o.DatePeriod) == courtportal.PeriodCustom {
		params, err = params.WithCustomDateRange(o.StartDate, o.EndDate)
	} else {
		params, err = params.WithDatePeriod(courtportal.DatePeriod(o.DatePeriod), now)
	}
	if err != nil {
		return "", err
	}

	params, err = params.WithCategory(o.CaseCategory)
	if err != nil {
		return "", err
	}

	params = params.
		WithCaseNumber(o.CaseNumber).
		WithCaseTitle(o.CaseTitle).
		WithExcludeClosed(o.ExcludeClosed)

	if o.SortBy != "" || o.Ascending {
		sortBy := o.SortBy
		if sortBy == "" {
			sortBy = params.Sort.By
		}
		params = params.WithSort(sortBy, !o.Ascending)
	}

	if o.PageSize > 0 {
		page := params.Page
		page.Size = o.PageSize
		params = params.WithPage(page)
	}

	return params.URL(0), nil
}

func handleCourt(cfg *config.FileConfig, args []string) {
	// Parse flags for court command
	fs := flag.NewFlagSet("court", flag.ExitOnError)
	var opts courtOptions
	fs.StringVar(&opts.URL, "url", "", "Pre-built search URL (overrides all search options)")
	fs.StringVar(&opts.Court, "court", "civil", "Court to search: "+strings.Join(courtportal.CourtKeys(), ", "))
	fs.StringVar(&opts.DatePeriod, "date-period", "1y", "Filed date period: 7d, 1m, 3m, 6m, 1y or custom")
	fs.StringVar(&opts.StartDate, "start-date", "", "Start date for a custom range (YYYY-MM-DD)")
	fs.StringVar(&opts.EndDate, "end-date", "", "End date for a custom range (YYYY-MM-DD)")
	fs.StringVar(&opts.CaseNumber, "case-number", "", "Filter by case number (e.g. CL-2024-)")
	fs.StringVar(&opts.CaseTitle, "case-title", "", "Filter by case title (partial match)")
	fs.StringVar(&opts.CaseCategory, "case-category", "", "Filter by case category (see 'opal courts')")
	fs.BoolVar(&opts.ExcludeClosed, "exclude-closed", false, "Exclude closed cases")
	fs.StringVar(&opts.SortBy, "sort-by", "caseHeader.filedDate", "Field to sort results by")
	fs.BoolVar(&opts.Ascending, "ascending", false, "Sort oldest first instead of newest first")
	fs.IntVar(&opts.PageSize, "page-size", 25, "Number of cases per results page")
	maxPages := fs.Int("max-pages", 0, "Maximum number of pages to process (default: all)")
	prefix := fs.String("output-prefix", "court_cases", "Prefix for output files")
	save := fs.Bool("store", false, "Also save cases to the SQLite store")
	fs.Parse(args)

	if err := opts.validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := checkStoreFlag(*save, cfg.Storage.DSN); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.URL != "" {
		printCustomURLWarning(opts.URL)
	} else if opts.CaseNumber != "" {
		court, _ := courtportal.LookupCourt(opts.Court)
		fmt.Printf("Case number format for %s: %s\n", court.Name, court.CaseNumberSuggestion(time.Now().Year()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	b, err := browser.New(browser.Config{
		Headless:        cfg.Browser.Headless,
		Timeout:         cfg.Browser.PageTimeout,
		SettleDelay:     cfg.Browser.SettleDelay,
		RateLimit:       cfg.Browser.RateLimit,
		ResultsSelector: "table",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer b.Close()

	baseURL := opts.URL
	if baseURL == "" {
		var discoverer courtportal.CourtDiscoverer
		if cfg.Courts.Discover {
			discoverer = b
		}

		spin := newSpinner("Discovering court IDs...")
		spin.Start()
		ids := courtportal.ResolveCourtIDs(ctx, discoverer, cfg.Courts.FallbackIDs)
		spin.Stop()

		baseURL, err = buildSearchURL(opts, ids, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	printCourtHeader(opts, *maxPages)

	spin := newSpinner("Loading results...")
	spin.Start()
	result, err := courtportal.NewExtractor(b).Extract(ctx, courtportal.ExtractOptions{
		BaseURL:    baseURL,
		MaxPages:   *maxPages,
		Parameters: opts.searchParameters(),
		OnPage: func(page, total int) {
			spin.Lock()
			spin.Suffix = fmt.Sprintf(" Processing page %d of %d...", page+1, total)
			spin.Unlock()
		},
	})
	spin.Stop()
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "Interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}

	now := time.Now()
	writer, err := output.NewWriter(cfg.Output.Dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	jsonPath, err := writer.WriteJSON(*prefix, now, result)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save results: %v\n", err)
		os.Exit(1)
	}
	csvPath, err := writer.WriteCasesCSV(*prefix, now, result.Cases)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save CSV: %v\n", err)
		os.Exit(1)
	}

	if *save {
		st := openStore(cfg.Storage.DSN)
		defer st.Close()

		saved, err := st.SaveCases(result.Cases, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to store cases: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Stored %d cases\n", saved)
	}

	printCourtSummary(result, jsonPath, csvPath)
}

func handleCourts(args []string) {
	fs := flag.NewFlagSet("courts", flag.ExitOnError)
	year := fs.Int("year", time.Now().Year(), "Year used in case number suggestions")
	fs.Parse(args)

	printCourtsTable(*year)
}
