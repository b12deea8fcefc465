package stats

import (
	"bytes"
	"strings"
	"testing"
)

func TestReportRowsFollowCharOrder(t *testing.T) {
	st := NewStore()
	st.RecordHit('b', at(0), 100)
	st.RecordMiss('~', at(1))
	st.RecordHit('a', at(2), 200)
	st.RecordHit('!', at(3), 300)

	report := st.Report()
	got := make([]string, 0, len(report.Rows))
	for _, row := range report.Rows {
		got = append(got, row.Char.String())
	}
	if strings.Join(got, "") != "!ab~" {
		t.Fatalf("unexpected row order: %v", got)
	}
	if report.TotalHits != 3 || report.TotalMisses != 1 {
		t.Fatalf("unexpected totals %d/%d", report.TotalHits, report.TotalMisses)
	}
	if row, ok := report.Row('~'); !ok || row.Misses != 1 || row.Hits != 0 {
		t.Fatalf("unexpected row for ~: %+v", row)
	}
}

func TestRenderText(t *testing.T) {
	st := NewStore()
	st.RecordHit('b', at(0), 100)
	st.RecordHit('b', at(1), 300)
	st.RecordMiss('a', at(2))

	var buf bytes.Buffer
	if err := RenderText(&buf, st.Report(), 40); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Hits: 2", "Misses: 1", "Accuracy: 66.67%", "Slowest: b", "Char Hits", "Reaction trend: "} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	aIdx := strings.Index(out, "\na ")
	bIdx := strings.Index(out, "\nb ")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Fatalf("expected a row before b row:\n%s", out)
	}
}

func TestRenderTextEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderText(&buf, NewStore().Report(), 40); err != nil {
		t.Fatalf("RenderText failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No attempts recorded.") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}
}

func TestRenderHTML(t *testing.T) {
	st := NewStore()
	st.RecordHit('<', at(0), 120)
	st.RecordMiss('&', at(1))

	var buf bytes.Buffer
	if err := RenderHTML(&buf, st.Report()); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, "<!DOCTYPE html>") || !strings.Contains(out, "</html>") {
		t.Fatalf("expected a full document")
	}
	if strings.Count(out, "<tr><td>") != 2 {
		t.Fatalf("expected 2 data rows:\n%s", out)
	}
	if !strings.Contains(out, "<td>&lt;</td><td>1</td><td>120</td><td>120</td><td>120</td><td>0</td>") {
		t.Fatalf("expected escaped < row:\n%s", out)
	}
	if strings.Index(out, "<td>&amp;</td>") > strings.Index(out, "<td>&lt;</td>") {
		t.Fatalf("expected & row before < row")
	}
}

func TestRenderHTMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, NewStore().Report()); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	if strings.Contains(buf.String(), "<tr><td>") {
		t.Fatalf("expected no data rows")
	}
}
