package courtportal

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CaseNumber is a case number cell: its text and the case detail link.
type CaseNumber struct {
	Text string `json:"text"`
	Link string `json:"link"`
}

// CourtCase is one row of the portal's search results table.
type CourtCase struct {
	Court          string     `json:"court"`
	CaseNumber     CaseNumber `json:"case_number"`
	CaseTitle      string     `json:"case_title"`
	Classification string     `json:"classification"`
	FiledDate      string     `json:"filed_date"`
	Status         string     `json:"status"`
}

// CaseLink returns the absolute URL of the case detail page, or "" if the
// row had no link.
func (c CourtCase) CaseLink() string {
	link := c.CaseNumber.Link
	if link == "" || strings.HasPrefix(link, "http://") || strings.HasPrefix(link, "https://") {
		return link
	}
	return PortalBaseURL + link
}

// resultColumns is the number of cells in a complete results row.
const resultColumns = 6

// ParseCases extracts court cases from the first table of a results page.
// The header row and incomplete rows are skipped.
func ParseCases(doc *goquery.Document) []CourtCase {
	cases := []CourtCase{}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return cases
	}

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		if i == 0 {
			return
		}
		if c, ok := parseCaseRow(row); ok {
			cases = append(cases, c)
		}
	})

	return cases
}

// ParseCasesHTML parses a rendered results page.
func ParseCasesHTML(html string) ([]CourtCase, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return ParseCases(doc), nil
}

func parseCaseRow(row *goquery.Selection) (CourtCase, bool) {
	cells := row.Find("td")
	if cells.Length() < resultColumns {
		return CourtCase{}, false
	}

	cell := func(i int) *goquery.Selection { return cells.Eq(i) }

	number := CaseNumber{Text: cellText(cell(1))}
	if a := cell(1).Find("a").First(); a.Length() > 0 {
		number.Text = cellText(a)
		number.Link, _ = a.Attr("href")
	}

	return CourtCase{
		Court:          cellText(cell(0)),
		CaseNumber:     number,
		CaseTitle:      cellText(cell(2)),
		Classification: cellText(cell(3)),
		FiledDate:      cellText(cell(4)),
		Status:         cellText(cell(5)),
	}, true
}

// cellText returns the text of s with whitespace collapsed.
func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
