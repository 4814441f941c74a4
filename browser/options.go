package browser

import "strings"

// courtOption is a single <option> of a select element.
type courtOption struct {
	Text  string `json:"text"`
	Value string `json:"value"`
}

// courtOptionsScript collects the options of every select on the page.
const courtOptionsScript = `
Array.from(document.querySelectorAll('select option')).map(o => ({
	text: (o.textContent || '').trim(),
	value: o.value || ''
}))
`

// courtOptionMap maps option labels to values, skipping placeholders such
// as "Select a court" that have no value.
func courtOptionMap(options []courtOption) map[string]string {
	ids := make(map[string]string)
	for _, option := range options {
		label := strings.TrimSpace(option.Text)
		value := strings.TrimSpace(option.Value)
		if label == "" || value == "" {
			continue
		}
		if _, seen := ids[label]; !seen {
			ids[label] = value
		}
	}
	return ids
}
