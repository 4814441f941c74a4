package courtportal

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const civilCourtID = "68f021c4-6a44-4735-9a76-5360b2e8af13"

// Test helper: a fixed reference time for date windows
func testNow() time.Time {
	return time.Date(2025, 6, 11, 9, 30, 0, 0, time.UTC)
}

// Test helper: default civil court search
func createCivilSearch(t *testing.T) SearchParams {
	court, err := LookupCourt("civil")
	require.NoError(t, err)
	return NewSearchParams(court, civilCourtID, testNow())
}

// TestNewSearchParams_URL verifies the default search matches the portal's
// own URL for the same search
func TestNewSearchParams_URL(t *testing.T) {
	params := createCivilSearch(t)

	assert.Equal(t, datedURL, params.URL(0))
}

// TestSearchParams_URLPaginates verifies URL sets the page number
func TestSearchParams_URLPaginates(t *testing.T) {
	params := createCivilSearch(t)

	state := ExtractState(params.URL(3))
	require.NotNil(t, state.CurrentPage)
	assert.Equal(t, 3, *state.CurrentPage)
	assert.Equal(t, 0, params.Page.Number, "URL should not modify the params")
}

// TestSearchParams_Immutable verifies With methods return copies
func TestSearchParams_Immutable(t *testing.T) {
	params := createCivilSearch(t)

	filtered := params.WithCaseNumber("CL-2024-").WithExcludeClosed(true).WithSort("caseHeader.caseNumber", false)

	assert.Empty(t, params.Case.CaseNumber)
	assert.False(t, params.Case.ExcludeClosed)
	assert.True(t, params.Sort.Desc)

	assert.Equal(t, "CL-2024-", filtered.Case.CaseNumber)
	criteria := filtered.Criteria()
	assert.Contains(t, criteria, "excludeClosed~true")
	assert.Contains(t, criteria, "caseNumber~CL-2024-")
	assert.Contains(t, criteria, "sort~%28sortBy~%27caseHeader.caseNumber~sortDesc~false%29")
}

// TestSearchParams_CaseTitleEscaped verifies free text is escaped
func TestSearchParams_CaseTitleEscaped(t *testing.T) {
	params := createCivilSearch(t).WithCaseTitle("Smith v. Jones")

	assert.Contains(t, params.Criteria(), "caseTitle~Smith%20v.%20Jones")
}

// TestSearchParams_QuerySeparatorsEscaped verifies "&", "+" and "=" in
// filters stay inside the criteria parameter
func TestSearchParams_QuerySeparatorsEscaped(t *testing.T) {
	params := createCivilSearch(t).
		WithCaseTitle("Smith & Jones").
		WithCaseNumber("A+B=C")

	assert.Contains(t, params.Criteria(), "caseTitle~Smith%20%26%20Jones")
	assert.Contains(t, params.Criteria(), "caseNumber~A%2BB%3DC")

	parsed, err := url.Parse(params.URL(0))
	require.NoError(t, err)

	query := parsed.Query()
	assert.Len(t, query, 1, "only the criteria parameter should be present")

	criteria := query.Get("criteria")
	assert.Contains(t, criteria, "caseNumber~A+B=C~")
	assert.True(t, strings.HasSuffix(criteria, "caseTitle~Smith & Jones))"), criteria)
}

// TestSearchParams_DatePeriods verifies predefined windows
func TestSearchParams_DatePeriods(t *testing.T) {
	params := createCivilSearch(t)

	week, err := params.WithDatePeriod(PeriodWeek, testNow())
	require.NoError(t, err)
	assert.Equal(t, "-7d", week.Case.FiledDateChoice)
	assert.Contains(t, week.Criteria(), "filedDateStart~%2706%2a2f04%2a2f2025")
	assert.Contains(t, week.Criteria(), "filedDateEnd~%2706%2a2f11%2a2f2025")

	_, err = params.WithDatePeriod("2w", testNow())
	assert.ErrorIs(t, err, ErrInvalidDatePeriod)

	_, err = params.WithDatePeriod(PeriodCustom, testNow())
	assert.ErrorIs(t, err, ErrInvalidDatePeriod, "custom needs explicit dates")
}

// TestSearchParams_CustomDateRange verifies explicit date ranges
func TestSearchParams_CustomDateRange(t *testing.T) {
	params, err := createCivilSearch(t).WithCustomDateRange("2024-01-05", "2024-02-10")
	require.NoError(t, err)

	criteria := params.Criteria()
	assert.Contains(t, criteria, "filedDateChoice~%27custom")
	assert.Contains(t, criteria, "filedDateStart~%2701%2a2f05%2a2f2024")
	assert.Contains(t, criteria, "filedDateEnd~%2702%2a2f10%2a2f2024")

	_, err = createCivilSearch(t).WithCustomDateRange("2024-01-05", "")
	assert.ErrorIs(t, err, ErrMissingDateRange)

	_, err = createCivilSearch(t).WithCustomDateRange("01/05/2024", "2024-02-10")
	assert.Error(t, err)
}

// TestSearchParams_Category verifies category filters are validated per
// court
func TestSearchParams_Category(t *testing.T) {
	params, err := createCivilSearch(t).WithCategory("Certiorari")
	require.NoError(t, err)
	assert.Contains(t, params.Criteria(), "caseCategoryID~1000002")

	_, err = createCivilSearch(t).WithCategory("Certified Question")
	assert.ErrorIs(t, err, ErrInvalidCategory)

	supreme, err := LookupCourt("supreme")
	require.NoError(t, err)
	params, err = NewSearchParams(supreme, "id", testNow()).WithCategory("Certified Question")
	require.NoError(t, err)
	assert.Equal(t, 1000005, params.Case.CategoryID)

	params, err = params.WithCategory("")
	require.NoError(t, err)
	assert.Equal(t, AllCategoriesID, params.Case.CategoryID)
}

// TestLookupCourt verifies court lookup
func TestLookupCourt(t *testing.T) {
	court, err := LookupCourt("criminal")
	require.NoError(t, err)
	assert.Equal(t, "Alabama Court of Criminal Appeals", court.Name)
	assert.Equal(t, "CR-2025-####", court.CaseNumberSuggestion(2025))

	_, err = LookupCourt("federal")
	assert.ErrorIs(t, err, ErrUnknownCourt)
	assert.Contains(t, err.Error(), "civil, criminal, supreme")
}
