package courtportal

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const (
	// PortalHost is the host of the Alabama Appeals Court public portal.
	PortalHost = "publicportal.alappeals.gov"

	// PortalBaseURL is the scheme and host used to build absolute links.
	PortalBaseURL = "https://" + PortalHost

	// ResultsPath is the path of the case search results page.
	ResultsPath = "/portal/search/case/results"
)

var (
	// pageNumberPattern matches the first page block up to and including its
	// number field. Group 1 is the prefix to keep, group 2 the page digits.
	pageNumberPattern = regexp.MustCompile(`(page~\(.*?number~)(\d+)`)
	totalPagesPattern = regexp.MustCompile(`totalPages~(\d+)`)
)

// PaginationState is the page position encoded in a portal URL. A nil field
// means the URL does not carry it.
type PaginationState struct {
	CurrentPage *int
	TotalPages  *int
}

// PageLoader renders a portal page and reports the URL the page ended up on.
// The portal rewrites its own URL after load, which is how the total page
// count of an unpaginated search becomes visible.
type PageLoader interface {
	Load(ctx context.Context, url string) (string, error)
}

// ExtractState reads the current page index and the total page count from a
// portal URL. The two fields are matched independently and neither is
// validated against the other.
func ExtractState(url string) PaginationState {
	decoded := Decode(url)

	var state PaginationState
	if m := pageNumberPattern.FindStringSubmatch(decoded); m != nil {
		state.CurrentPage = parseCount(m[2])
	}
	if m := totalPagesPattern.FindStringSubmatch(decoded); m != nil {
		state.TotalPages = parseCount(m[1])
	}

	return state
}

// RebuildURL returns baseURL pointed at targetPage. Only the number field of
// the first page block changes; size, totalElements and totalPages are kept.
// A URL without a page block comes back decoded and re-escaped but otherwise
// untouched. If the URL cannot be rebuilt, baseURL is returned verbatim.
// Only the query part after the first "?" has its slashes re-escaped; the
// scheme, host and path keep their literal "/".
func RebuildURL(baseURL string, targetPage int) string {
	if targetPage < 0 {
		return baseURL
	}

	decoded := Decode(baseURL)

	// Replace only the first match; an unrelated number~ token later in the
	// criteria must not move.
	rebuilt := decoded
	if loc := pageNumberPattern.FindStringSubmatchIndex(decoded); loc != nil {
		rebuilt = decoded[:loc[4]] + strconv.Itoa(targetPage) + decoded[loc[5]:]
	}

	return escapeQuery(rebuilt)
}

// Sequence returns one URL per result page of the search in baseURL, in page
// order starting at page 0.
//
// The total page count is read from baseURL. When it is missing or zero and
// a loader is supplied, the page is rendered once and the count is read from
// the URL the portal settled on. When the count still cannot be determined
// the result is just baseURL. Loader failures are logged, never returned.
func Sequence(ctx context.Context, baseURL string, loader PageLoader) []string {
	totalPages := resolveTotalPages(ctx, baseURL, loader)
	if totalPages <= 0 {
		return []string{baseURL}
	}

	urls := make([]string, 0, totalPages)
	for page := range totalPages {
		urls = append(urls, RebuildURL(baseURL, page))
	}

	return urls
}

// IsCourtURL reports whether url points at the portal's case search results.
func IsCourtURL(url string) bool {
	return strings.Contains(url, PortalHost) && strings.Contains(url, ResultsPath)
}

// resolveTotalPages determines how many pages a search has, returning 0 when
// it cannot be determined.
func resolveTotalPages(ctx context.Context, baseURL string, loader PageLoader) int {
	if total := ExtractState(baseURL).TotalPages; total != nil && *total > 0 {
		return *total
	}

	if loader == nil {
		return 0
	}

	loadedURL, err := loader.Load(ctx, baseURL)
	if err != nil {
		log.Warn("Could not load first page to count pages", "url", baseURL, "err", err)
		return 0
	}
	if loadedURL == "" {
		return 0
	}

	if total := ExtractState(loadedURL).TotalPages; total != nil && *total > 0 {
		log.Debug("Resolved page count from rendered page", "total_pages", *total)
		return *total
	}

	return 0
}

// escapeQuery re-escapes the slashes of the query portion of a decoded URL.
// The scheme, host and path keep their literal slashes.
func escapeQuery(decoded string) string {
	base, query, found := strings.Cut(decoded, "?")
	if !found {
		return EncodeSensitiveChars(decoded)
	}
	return base + "?" + EncodeSensitiveChars(query)
}

// parseCount parses a run of decimal digits, returning nil if it does not
// fit in an int.
func parseCount(digits string) *int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &n
}
