package main

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/alabama-forward/opal/courtportal"
	"github.com/alabama-forward/opal/output"
	"github.com/alabama-forward/opal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper: create a temporary store
func createTestStore(t *testing.T) *store.Store {
	st, err := store.Open(filepath.Join(t.TempDir(), "opal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

// Test helper: write a court result file with two civil cases
func createTestResultFile(t *testing.T) string {
	writer, err := output.NewWriter(t.TempDir())
	require.NoError(t, err)

	result := &courtportal.ExtractionResult{
		Status:         "success",
		TotalCases:     2,
		PagesProcessed: 1,
		Cases: []courtportal.CourtCase{
			{
				Court:      "Alabama Court of Civil Appeals",
				CaseNumber: courtportal.CaseNumber{Text: "CL-2025-0001", Link: "/portal/case/1"},
				CaseTitle:  "Smith v. Jones",
				FiledDate:  "01/15/2025",
				Status:     "Active",
			},
			{
				Court:      "Alabama Court of Civil Appeals",
				CaseNumber: courtportal.CaseNumber{Text: "CL-2025-0002"},
				CaseTitle:  "Doe v. Roe",
				FiledDate:  "02/01/2025",
				Status:     "Closed",
			},
		},
	}

	path, err := writer.WriteJSON("court_cases", testNow, result)
	require.NoError(t, err)
	return path
}

// TestImportResult verifies a saved result file lands in the store and can
// be listed and shown
func TestImportResult(t *testing.T) {
	st := createTestStore(t)
	path := createTestResultFile(t)

	saved, err := importResult(st, path, testNow)
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	filter, err := caseFilter("civil", "", 0, 0)
	require.NoError(t, err)
	cases, err := st.ListCases(filter)
	require.NoError(t, err)
	require.Len(t, cases, 2)
	assert.Equal(t, "CL-2025-0002", cases[0].CaseNumber.Text, "most recently filed first")

	c, err := st.GetCase("CL-2025-0001")
	require.NoError(t, err)
	assert.Equal(t, "Smith v. Jones", c.CaseTitle)

	// Importing the same file again refreshes the cases in place
	saved, err = importResult(st, path, testNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, saved)

	c, err = st.GetCase("CL-2025-0001")
	require.NoError(t, err)
	assert.True(t, c.FirstSeenAt.Equal(testNow), "first seen time is kept")
	assert.True(t, c.LastSeenAt.Equal(testNow.Add(time.Hour)))
}

// TestImportResult_MissingFile verifies read errors are reported
func TestImportResult_MissingFile(t *testing.T) {
	st := createTestStore(t)

	_, err := importResult(st, filepath.Join(t.TempDir(), "missing.json"), testNow)
	assert.Error(t, err)
}

// TestCaseFilter verifies court keys become court names
func TestCaseFilter(t *testing.T) {
	filter, err := caseFilter("criminal", "Active", 10, 20)
	require.NoError(t, err)
	assert.Equal(t, store.CaseFilter{
		Court:  "Alabama Court of Criminal Appeals",
		Status: "Active",
		Limit:  10,
		Offset: 20,
	}, filter)

	filter, err = caseFilter("", "", 0, 0)
	require.NoError(t, err)
	assert.Empty(t, filter.Court)

	_, err = caseFilter("federal", "", 0, 0)
	assert.ErrorIs(t, err, courtportal.ErrUnknownCourt)
}
