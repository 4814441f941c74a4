// Package output writes extraction results to timestamped JSON and CSV files.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/alabama-forward/opal/courtportal"
)

// TimestampFormat is the layout of the timestamp in result file names.
const TimestampFormat = "20060102_150405"

// CSVHeader is the header row of the cases CSV.
var CSVHeader = []string{"Court", "Case Number", "Case Title", "Classification", "Filed Date", "Status", "Case Link"}

// Writer writes result files into a directory.
type Writer struct {
	dir string
}

// NewWriter creates a Writer for dir, creating the directory if needed.
func NewWriter(dir string) (*Writer, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Writer{dir: dir}, nil
}

// FileName returns <prefix>_<YYYYMMDD_HHMMSS>.<ext>.
func FileName(prefix string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, at.Format(TimestampFormat), ext)
}

// WriteJSON writes v as indented JSON to a timestamped file and returns its
// path.
func (w *Writer) WriteJSON(prefix string, at time.Time, v any) (string, error) {
	path := filepath.Join(w.dir, FileName(prefix, at, "json"))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "    ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(v); err != nil {
		return "", fmt.Errorf("failed to encode results: %w", err)
	}

	return path, nil
}

// WriteCasesCSV writes cases to a timestamped CSV file and returns its path.
// Nothing is written when there are no cases.
func (w *Writer) WriteCasesCSV(prefix string, at time.Time, cases []courtportal.CourtCase) (string, error) {
	if len(cases) == 0 {
		return "", nil
	}

	path := filepath.Join(w.dir, FileName(prefix, at, "csv"))

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := WriteCases(file, cases); err != nil {
		return "", err
	}

	return path, nil
}

// WriteCases writes the CSV header and one row per case to out.
func WriteCases(out io.Writer, cases []courtportal.CourtCase) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, c := range cases {
		row := []string{
			c.Court,
			c.CaseNumber.Text,
			c.CaseTitle,
			c.Classification,
			c.FiledDate,
			c.Status,
			c.CaseLink(),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}

// ReadResult loads an extraction result previously written by WriteJSON.
func ReadResult(path string) (*courtportal.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read result file: %w", err)
	}

	var result courtportal.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse result file: %w", err)
	}

	return &result, nil
}
