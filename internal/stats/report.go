package stats

import (
	"fmt"
	"html/template"
	"io"

	"github.com/verte-zerg/tuichar/internal/ascii"
)

// Row is one character line of a report.
type Row struct {
	Char ascii.Char
	Summary
}

// Report is a consistent view of a store. Rows are sorted by character.
type Report struct {
	Rows        []Row
	TotalHits   int
	TotalMisses int
	// Trend holds hit durations in chronological order.
	Trend []int64
}

// Accuracy returns the overall hit ratio.
func (r Report) Accuracy() float64 {
	total := r.TotalHits + r.TotalMisses
	if total == 0 {
		return 0
	}
	return float64(r.TotalHits) / float64(total)
}

// Row returns the row for c, if present.
func (r Report) Row(c ascii.Char) (Row, bool) {
	for _, row := range r.Rows {
		if row.Char == c {
			return row, true
		}
	}
	return Row{}, false
}

// ReportColumns are the report columns in display order.
var ReportColumns = []string{"Char", "Hits", "Min (ms)", "Avg (ms)", "Max (ms)", "Misses"}

// Cells formats a row for ReportColumns.
func (r Row) Cells() []string {
	return []string{
		r.Char.String(),
		fmt.Sprintf("%d", r.Hits),
		fmt.Sprintf("%d", r.MinMs),
		fmt.Sprintf("%d", r.AvgMs),
		fmt.Sprintf("%d", r.MaxMs),
		fmt.Sprintf("%d", r.Misses),
	}
}

// RenderText prints the totals, the per-character table and the reaction
// trend. width bounds the trend line; 0 uses the terminal width.
func RenderText(w io.Writer, r Report, width int) error {
	if err := RenderTotals(w, r); err != nil {
		return err
	}
	if err := RenderCharTable(w, r.Rows); err != nil {
		return err
	}
	return RenderTrend(w, r.Trend, defaultTrendWindow, width)
}

// RenderTotals prints hit, miss and accuracy totals.
func RenderTotals(w io.Writer, r Report) error {
	if _, err := fmt.Fprintf(w, "Hits: %d\n", r.TotalHits); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Misses: %d\n", r.TotalMisses); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Accuracy: %.2f%%\n", r.Accuracy()*100); err != nil {
		return err
	}
	if slow := SlowestChars(r.Rows, defaultSlowest); len(slow) > 0 {
		if _, err := fmt.Fprintf(w, "Slowest: %s\n", joinChars(slow)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCharTable prints one aligned line per row.
func RenderCharTable(w io.Writer, rows []Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded.")
		return err
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, r.Cells())
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true}
	for _, line := range formatTable(ReportColumns, tableRows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

var htmlReport = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct": func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) },
}).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Stats Report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; }
th, td { border: 1px solid #888; padding: 0.25em 0.75em; text-align: right; }
th:first-child, td:first-child { text-align: center; font-family: monospace; }
</style>
</head>
<body>
<h1>Stats Report</h1>
<p>Hits: {{.TotalHits}} &middot; Misses: {{.TotalMisses}} &middot; Accuracy: {{pct .Accuracy}}</p>
<table>
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{- range .Rows}}
<tr><td>{{.Char}}</td><td>{{.Hits}}</td><td>{{.MinMs}}</td><td>{{.AvgMs}}</td><td>{{.MaxMs}}</td><td>{{.Misses}}</td></tr>
{{- end}}
</table>
</body>
</html>
`))

// RenderHTML writes the report as a standalone HTML document.
func RenderHTML(w io.Writer, r Report) error {
	data := struct {
		Report
		Columns []string
	}{Report: r, Columns: ReportColumns}
	if err := htmlReport.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render html report: %w", err)
	}
	return nil
}
