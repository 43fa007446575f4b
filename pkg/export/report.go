// Package export renders progress reports to CSV and PDF.
package export

import "errors"

// ErrNoColumns is returned when a report has no table headers.
var ErrNoColumns = errors.New("report requires at least one column")

// Field is one labelled value in a report's summary block.
type Field struct {
	Label string
	Value string
}

// Report is a titled summary block followed by a table.
type Report struct {
	Title   string
	Summary []Field
	Headers []string
	Rows    [][]string
}

func (r Report) cell(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
