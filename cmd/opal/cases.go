package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/alabama-forward/opal/config"
	"github.com/alabama-forward/opal/courtportal"
	"github.com/alabama-forward/opal/output"
	"github.com/alabama-forward/opal/store"
)

func printCasesUsage() {
	fmt.Println("opal cases - Browse stored court cases")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  opal cases <action> [arguments]")
	fmt.Println()
	fmt.Println("Actions:")
	fmt.Println("  list       List stored cases")
	fmt.Println("  show       Show one stored case")
	fmt.Println("  import     Store the cases of a saved court result file")
	fmt.Println("  help       Show this help message")
}

func handleCasesCommand(cfg *config.FileConfig, action string, args []string) {
	if action == "help" || action == "--help" || action == "-h" {
		printCasesUsage()
		return
	}

	st := requireStore(cfg)
	defer st.Close()

	switch action {
	case "list":
		handleCasesList(st, args)
	case "show":
		handleCasesShow(st, args)
	case "import":
		handleCasesImport(st, args)
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown cases command: %s\n\n", action)
		printCasesUsage()
		os.Exit(1)
	}
}

// caseFilter turns the list flags into a store filter. court is a court key
// such as "civil".
func caseFilter(court, status string, limit, offset int) (store.CaseFilter, error) {
	filter := store.CaseFilter{Status: status, Limit: limit, Offset: offset}
	if court != "" {
		c, err := courtportal.LookupCourt(court)
		if err != nil {
			return store.CaseFilter{}, err
		}
		filter.Court = c.Name
	}
	return filter, nil
}

func handleCasesList(st *store.Store, args []string) {
	// Parse flags for list command
	fs := flag.NewFlagSet("cases list", flag.ExitOnError)
	court := fs.String("court", "", "Only show cases from this court (civil, criminal, supreme)")
	status := fs.String("status", "", "Only show cases with this status")
	limit := fs.Int("limit", 20, "Maximum number of cases to show (0 for all)")
	offset := fs.Int("offset", 0, "Number of cases to skip")
	fs.Parse(args)

	filter, err := caseFilter(*court, *status, *limit, *offset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cases, err := st.ListCases(filter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to list cases: %v\n", err)
		os.Exit(1)
	}

	if len(cases) == 0 {
		fmt.Println("No stored cases.")
		return
	}

	printCasesTable(cases)
}

func handleCasesShow(st *store.Store, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: case number is required\n")
		fmt.Fprintf(os.Stderr, "Usage: opal cases show <case-number>\n")
		os.Exit(1)
	}

	c, err := st.GetCase(args[0])
	if errors.Is(err, store.ErrCaseNotFound) {
		fmt.Fprintf(os.Stderr, "Error: no stored case %s\n", args[0])
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to get case: %v\n", err)
		os.Exit(1)
	}

	printCaseDetail(c)
}

func handleCasesImport(st *store.Store, args []string) {
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Error: result file is required\n")
		fmt.Fprintf(os.Stderr, "Usage: opal cases import <court_cases_YYYYMMDD_HHMMSS.json>\n")
		os.Exit(1)
	}

	for _, path := range args {
		saved, err := importResult(st, path, time.Now())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✓ Stored %d cases from %s\n", saved, path)
	}
}

// importResult stores the cases of the court result file at path and
// returns how many were written.
func importResult(st *store.Store, path string, seenAt time.Time) (int, error) {
	result, err := output.ReadResult(path)
	if err != nil {
		return 0, err
	}

	saved, err := st.SaveCases(result.Cases, seenAt)
	if err != nil {
		return 0, fmt.Errorf("failed to store cases: %w", err)
	}
	return saved, nil
}
