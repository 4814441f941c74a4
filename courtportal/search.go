package courtportal

import (
	"errors"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"
)

// Errors returned while building search parameters.
var (
	ErrUnknownCourt      = errors.New("unknown court")
	ErrInvalidCategory   = errors.New("category not available for court")
	ErrInvalidDatePeriod = errors.New("invalid date period")
	ErrMissingDateRange  = errors.New("custom date range requires both start and end dates")
)

// Court describes one of the appellate courts searchable on the portal.
type Court struct {
	Key        string
	Name       string
	CasePrefix string
	Categories []string
}

// Courts lists the courts the portal serves, keyed by their CLI name.
var Courts = map[string]Court{
	"civil": {
		Key:        "civil",
		Name:       "Alabama Civil Court of Appeals",
		CasePrefix: "CL",
		Categories: []string{"Appeal", "Certiorari", "Original Proceeding", "Petition"},
	},
	"criminal": {
		Key:        "criminal",
		Name:       "Alabama Court of Criminal Appeals",
		CasePrefix: "CR",
		Categories: []string{"Appeal", "Certiorari", "Original Proceeding", "Petition"},
	},
	"supreme": {
		Key:        "supreme",
		Name:       "Alabama Supreme Court",
		CasePrefix: "SC",
		Categories: []string{"Appeal", "Certiorari", "Original Proceeding", "Petition", "Certified Question"},
	},
}

// CourtKeys returns the court keys in a stable order.
func CourtKeys() []string {
	keys := make([]string, 0, len(Courts))
	for key := range Courts {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}

// LookupCourt returns the court registered under key.
func LookupCourt(key string) (Court, error) {
	court, ok := Courts[key]
	if !ok {
		return Court{}, fmt.Errorf("%w: %s (must be one of %s)", ErrUnknownCourt, key, strings.Join(CourtKeys(), ", "))
	}
	return court, nil
}

// ValidateCategory checks that category can be searched in the court.
func (c Court) ValidateCategory(category string) error {
	if !slices.Contains(c.Categories, category) {
		return fmt.Errorf("%w: %q not available for %s (available: %s)",
			ErrInvalidCategory, category, c.Name, strings.Join(c.Categories, ", "))
	}
	return nil
}

// CaseNumberSuggestion returns the case number format used by the court for
// the given year, e.g. "CL-2025-####".
func (c Court) CaseNumberSuggestion(year int) string {
	return fmt.Sprintf("%s-%d-####", c.CasePrefix, year)
}

// Category IDs used by the portal's case category filter.
const (
	AllCategoriesID = 1000000

	caseNumberContainsID = 10463
	caseTitleContainsID  = 300054
)

var categoryIDs = map[string]int{
	"Appeal":              1000001,
	"Certiorari":          1000002,
	"Original Proceeding": 1000003,
	"Petition":            1000004,
	"Certified Question":  1000005,
}

// DatePeriod selects the filed-date window of a search.
type DatePeriod string

// Date periods understood by the portal.
const (
	PeriodWeek        DatePeriod = "7d"
	PeriodMonth       DatePeriod = "1m"
	PeriodThreeMonths DatePeriod = "3m"
	PeriodSixMonths   DatePeriod = "6m"
	PeriodYear        DatePeriod = "1y"
	PeriodCustom      DatePeriod = "custom"
)

// periodDays is the look-back used to fill in the displayed date range.
var periodDays = map[DatePeriod]int{
	PeriodWeek:        7,
	PeriodMonth:       30,
	PeriodThreeMonths: 90,
	PeriodSixMonths:   180,
	PeriodYear:        365,
}

// portalDateFormat is the filed-date layout; slashes are escaped on output.
const portalDateFormat = "01/02/2006"

// PageInfo is the page block of the criteria.
type PageInfo struct {
	Size          int
	Number        int
	TotalElements int
	TotalPages    int
}

// SortOrder is the sort block of the criteria.
type SortOrder struct {
	By   string
	Desc bool
}

// CaseFilter is the case block of the criteria.
type CaseFilter struct {
	CategoryID            int
	CaseNumberQueryTypeID int
	CaseTitleQueryTypeID  int
	FiledDateChoice       string
	FiledDateStart        time.Time
	FiledDateEnd          time.Time
	ExcludeClosed         bool
	CaseNumber            string
	CaseTitle             string
}

// SearchParams is an immutable description of a portal case search. The
// With methods return modified copies.
type SearchParams struct {
	Court    Court
	CourtID  string
	Advanced bool
	Page     PageInfo
	Sort     SortOrder
	Case     CaseFilter
}

// NewSearchParams returns the portal's default search for a court: the last
// year of filings, all categories, newest first, 25 results per page.
func NewSearchParams(court Court, courtID string, now time.Time) SearchParams {
	p := SearchParams{
		Court:   court,
		CourtID: courtID,
		Page:    PageInfo{Size: 25},
		Sort:    SortOrder{By: "caseHeader.filedDate", Desc: true},
		Case: CaseFilter{
			CategoryID:            AllCategoriesID,
			CaseNumberQueryTypeID: caseNumberContainsID,
			CaseTitleQueryTypeID:  caseTitleContainsID,
		},
	}

	p, _ = p.WithDatePeriod(PeriodYear, now)
	return p
}

// WithDatePeriod selects one of the predefined filed-date windows ending at
// now.
func (p SearchParams) WithDatePeriod(period DatePeriod, now time.Time) (SearchParams, error) {
	days, ok := periodDays[period]
	if !ok {
		return p, fmt.Errorf("%w: %s", ErrInvalidDatePeriod, period)
	}

	p.Case.FiledDateChoice = "-" + string(period)
	p.Case.FiledDateStart = now.AddDate(0, 0, -days)
	p.Case.FiledDateEnd = now
	return p, nil
}

// WithCustomDateRange selects filings between start and end, given as
// YYYY-MM-DD.
func (p SearchParams) WithCustomDateRange(start, end string) (SearchParams, error) {
	if start == "" || end == "" {
		return p, ErrMissingDateRange
	}

	startDate, err := time.Parse(time.DateOnly, start)
	if err != nil {
		return p, fmt.Errorf("invalid start date: %w", err)
	}
	endDate, err := time.Parse(time.DateOnly, end)
	if err != nil {
		return p, fmt.Errorf("invalid end date: %w", err)
	}

	p.Case.FiledDateChoice = string(PeriodCustom)
	p.Case.FiledDateStart = startDate
	p.Case.FiledDateEnd = endDate
	return p, nil
}

// WithCategory filters by case category. An empty name searches all
// categories.
func (p SearchParams) WithCategory(name string) (SearchParams, error) {
	if name == "" {
		p.Case.CategoryID = AllCategoriesID
		return p, nil
	}

	if err := p.Court.ValidateCategory(name); err != nil {
		return p, err
	}

	p.Case.CategoryID = categoryIDs[name]
	return p, nil
}

// WithCaseNumber filters by a partial case number.
func (p SearchParams) WithCaseNumber(caseNumber string) SearchParams {
	p.Case.CaseNumber = caseNumber
	return p
}

// WithCaseTitle filters by a partial case title.
func (p SearchParams) WithCaseTitle(title string) SearchParams {
	p.Case.CaseTitle = title
	return p
}

// WithExcludeClosed controls whether closed cases are left out.
func (p SearchParams) WithExcludeClosed(exclude bool) SearchParams {
	p.Case.ExcludeClosed = exclude
	return p
}

// WithSort sets the result ordering.
func (p SearchParams) WithSort(by string, desc bool) SearchParams {
	p.Sort = SortOrder{By: by, Desc: desc}
	return p
}

// WithPage sets the page block.
func (p SearchParams) WithPage(page PageInfo) SearchParams {
	p.Page = page
	return p
}

// Criteria renders the criteria query value in the portal dialect.
func (p SearchParams) Criteria() string {
	parts := []string{
		"advanced~" + strconv.FormatBool(p.Advanced),
		"courtID~%27" + p.CourtID,
		fmt.Sprintf("page~%%28size~%d~number~%d~totalElements~%d~totalPages~%d%%29",
			p.Page.Size, p.Page.Number, p.Page.TotalElements, p.Page.TotalPages),
		fmt.Sprintf("sort~%%28sortBy~%%27%s~sortDesc~%s%%29", p.Sort.By, strconv.FormatBool(p.Sort.Desc)),
		"case~%28" + strings.Join(p.caseParts(), "~") + "%29",
	}

	return "~%28" + strings.Join(parts, "~") + "%29"
}

// URL renders the full results URL for the given page.
func (p SearchParams) URL(page int) string {
	p.Page.Number = page
	return PortalBaseURL + ResultsPath + "?criteria=" + p.Criteria()
}

func (p SearchParams) caseParts() []string {
	c := p.Case
	parts := []string{
		fmt.Sprintf("caseCategoryID~%d", c.CategoryID),
		fmt.Sprintf("caseNumberQueryTypeID~%d", c.CaseNumberQueryTypeID),
		fmt.Sprintf("caseTitleQueryTypeID~%d", c.CaseTitleQueryTypeID),
		"filedDateChoice~%27" + c.FiledDateChoice,
		"filedDateStart~%27" + formatPortalDate(c.FiledDateStart),
		"filedDateEnd~%27" + formatPortalDate(c.FiledDateEnd),
		"excludeClosed~" + strconv.FormatBool(c.ExcludeClosed),
	}

	if c.CaseNumber != "" {
		parts = append(parts, "caseNumber~"+escapeValue(c.CaseNumber))
	}
	if c.CaseTitle != "" {
		parts = append(parts, "caseTitle~"+escapeValue(c.CaseTitle))
	}

	return parts
}

// escapeValue percent-encodes a free-text filter so that query separators
// such as "&", "=" and "+" stay inside the criteria value. Spaces become
// "%20".
func escapeValue(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

func formatPortalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return EncodeSensitiveChars(t.Format(portalDateFormat))
}
