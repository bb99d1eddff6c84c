package tables

import "strings"

// Structured is a table produced by a layout-aware extractor rather than by the
// text heuristics.
type Structured struct {
	Source  string     `json:"source"`
	Page    int        `json:"page"`
	Index   int        `json:"table_index"`
	Rows    int        `json:"rows"`
	Columns int        `json:"columns"`
	Data    [][]string `json:"data"`
}

// FormatStructured renders a structured table as a pipe table. The separator
// row is only added when there is at least one data row below the header.
func FormatStructured(t Structured) string {
	rows := make([]string, 0, len(t.Data)+1)
	for _, row := range t.Data {
		if len(row) == 0 {
			continue
		}
		rows = append(rows, "| "+strings.Join(row, " | ")+" |")
	}
	if len(rows) == 0 {
		return ""
	}

	out := []string{rows[0]}
	if len(rows) > 1 {
		out = append(out, headerSeparator(rows[0]))
		out = append(out, rows[1:]...)
	}
	return strings.Join(out, "\n")
}
