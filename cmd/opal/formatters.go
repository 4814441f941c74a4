package main

import (
	"fmt"
	"strings"

	"github.com/alabama-forward/opal/courtportal"
	"github.com/alabama-forward/opal/news"
	"github.com/alabama-forward/opal/store"
)

// printCustomURLWarning reminds the user that portal URLs expire
func printCustomURLWarning(url string) {
	fmt.Println("Using custom URL - all search parameter options will be ignored")
	fmt.Println("⚠️  Custom URLs are session-based and temporary!")
	fmt.Println("   Your URL may stop working when the court website session expires.")
	fmt.Println("   Use the search options for reliable, repeatable searches.")
	if !courtportal.IsCourtURL(url) {
		fmt.Printf("⚠️  %s does not look like a %s URL\n", url, courtportal.PortalHost)
	}
	fmt.Println()
}

// printCourtHeader prints the search being run
func printCourtHeader(opts courtOptions, maxPages int) {
	fmt.Println("Alabama Appeals Court - Data Extraction")
	fmt.Println(strings.Repeat("=", 40))

	if opts.URL != "" {
		fmt.Println("Court: Custom Search")
	} else {
		court, _ := courtportal.LookupCourt(opts.Court)
		fmt.Printf("Court: %s\n", court.Name)
		fmt.Printf("Date period: %s\n", opts.DatePeriod)
		if courtportal.DatePeriod(opts.DatePeriod) == courtportal.PeriodCustom {
			fmt.Printf("Date range: %s to %s\n", opts.StartDate, opts.EndDate)
		}
		if opts.CaseNumber != "" {
			fmt.Printf("Case number filter: %s\n", opts.CaseNumber)
		}
		if opts.CaseTitle != "" {
			fmt.Printf("Case title filter: %s\n", opts.CaseTitle)
		}
		if opts.CaseCategory != "" {
			fmt.Printf("Case category: %s\n", opts.CaseCategory)
		}
		fmt.Printf("Exclude closed: %t\n", opts.ExcludeClosed)
		order := "newest first"
		if opts.Ascending {
			order = "oldest first"
		}
		fmt.Printf("Sort: %s (%s)\n", opts.SortBy, order)
	}

	if maxPages > 0 {
		fmt.Printf("Max pages: %d\n", maxPages)
	} else {
		fmt.Println("Max pages: All available")
	}
	fmt.Println()
}

// printCourtSummary prints the outcome of an extraction
func printCourtSummary(result *courtportal.ExtractionResult, jsonPath, csvPath string) {
	fmt.Printf("✓ Extracted %d court cases from %d pages\n", result.TotalCases, result.PagesProcessed)
	fmt.Printf("✓ Results saved to %s\n", jsonPath)
	if csvPath != "" {
		fmt.Printf("✓ CSV table saved to %s\n", csvPath)
	}

	if len(result.Cases) == 0 {
		return
	}

	fmt.Println()
	fmt.Println("Sample cases:")
	for _, c := range result.Cases[:min(3, len(result.Cases))] {
		title := c.CaseTitle
		if len(title) > 60 {
			title = title[:57] + "..."
		}
		fmt.Printf("  %-16s %-10s %s\n", c.CaseNumber.Text, c.FiledDate, title)
	}
}

// printNewsSummary prints the outcome of a news scrape
func printNewsSummary(result *news.SiteResult, path string) {
	if !result.Success {
		fmt.Printf("✗ No articles parsed from %d URLs: %s\n", result.URLsFound, result.Error)
		fmt.Printf("  Results saved to %s\n", path)
		return
	}

	fmt.Printf("✓ Parsed %d articles\n", result.TotalArticles)
	fmt.Printf("✓ Results saved to %s\n", path)
}

// printCourtsTable prints each court with its categories and case number
// format
func printCourtsTable(year int) {
	fmt.Printf("%-10s %-36s %-16s %s\n", "KEY", "NAME", "CASE NUMBER", "CATEGORIES")
	fmt.Println(strings.Repeat("-", 110))

	for _, key := range courtportal.CourtKeys() {
		court := courtportal.Courts[key]
		fmt.Printf("%-10s %-36s %-16s %s\n",
			court.Key,
			court.Name,
			court.CaseNumberSuggestion(year),
			strings.Join(court.Categories, ", "),
		)
	}
}

// truncate shortens s to width, marking the cut with "..."
func truncate(s string, width int) string {
	if len(s) > width {
		return s[:width-3] + "..."
	}
	return s
}

// printCasesTable prints stored cases one per row
func printCasesTable(cases []store.StoredCase) {
	fmt.Printf("%-16s %-10s %-12s %s\n", "CASE NUMBER", "FILED", "STATUS", "TITLE")
	fmt.Println(strings.Repeat("-", 100))

	for _, c := range cases {
		fmt.Printf("%-16s %-10s %-12s %s\n",
			c.CaseNumber.Text,
			c.FiledDate,
			truncate(c.Status, 12),
			truncate(c.CaseTitle, 60),
		)
	}
}

// printCaseDetail prints everything stored about one case
func printCaseDetail(c *store.StoredCase) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(c.CaseTitle)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Case Number:     %s\n", c.CaseNumber.Text)
	fmt.Printf("Court:           %s\n", c.Court)
	fmt.Printf("Classification:  %s\n", c.Classification)
	fmt.Printf("Filed:           %s\n", c.FiledDate)
	fmt.Printf("Status:          %s\n", c.Status)
	if link := c.CaseLink(); link != "" {
		fmt.Printf("Link:            %s\n", link)
	}
	fmt.Println()

	fmt.Printf("First Seen:      %s\n", c.FirstSeenAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Last Seen:       %s\n", c.LastSeenAt.Format("2006-01-02 15:04:05"))
}

// printArticlesTable prints stored articles one per row
func printArticlesTable(articles []store.StoredArticle) {
	fmt.Printf("%-16s %-50s %s\n", "FETCHED", "TITLE", "URL")
	fmt.Println(strings.Repeat("-", 120))

	for _, a := range articles {
		fmt.Printf("%-16s %-50s %s\n",
			a.FetchedAt.Format("2006-01-02 15:04"),
			truncate(a.Title, 50),
			a.URL,
		)
	}
}

// printArticleDetail prints a stored article with its numbered lines
func printArticleDetail(a *store.StoredArticle) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println(a.Title)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	fmt.Printf("Author:      %s\n", a.Author)
	fmt.Printf("Date:        %s\n", a.Date)
	fmt.Printf("URL:         %s\n", a.URL)
	fmt.Printf("Fetched:     %s\n", a.FetchedAt.Format("2006-01-02 15:04:05"))
	fmt.Println()

	for i, line := range a.Lines {
		fmt.Printf("%3d  %s\n", i+1, line)
	}
	fmt.Println()

	fmt.Printf("ID:          %s\n", a.ID.String())
}
