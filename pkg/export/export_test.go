package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() Report {
	return Report{
		Title:   "Recovery progress",
		Summary: []Field{{Label: "Weeks since baseline", Value: "6"}, {Label: "Time to MCID", Value: "21 days"}},
		Headers: []string{"Date", "ODI %", "Baseline"},
		Rows: [][]string{
			{"2026-04-20", "64.0", "yes"},
			{"2026-05-11", "52.0"},
		},
	}
}

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleReport())
	require.NoError(t, err)

	expected := "Recovery progress\nWeeks since baseline,6\nTime to MCID,21 days\n\nDate,ODI %,Baseline\n2026-04-20,64.0,yes\n2026-05-11,52.0,\n"
	assert.Equal(t, expected, string(out))
}

func TestCSVExporterWithoutSummary(t *testing.T) {
	report := sampleReport()
	report.Summary = nil
	out, err := NewCSVExporter().Render(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("Recovery progress\n\nDate,ODI %,Baseline\n")))

	report.Title = ""
	out, err = NewCSVExporter().Render(report)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("Date,ODI %,Baseline\n")))
}

func TestExportersRequireColumns(t *testing.T) {
	_, err := NewCSVExporter().Render(Report{})
	assert.ErrorIs(t, err, ErrNoColumns)

	_, err = NewPDFExporter().Render(Report{})
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleReport())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}
