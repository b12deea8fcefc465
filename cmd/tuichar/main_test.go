package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuichar/internal/ascii"
	"github.com/verte-zerg/tuichar/internal/model"
	"github.com/verte-zerg/tuichar/internal/session"
	"github.com/verte-zerg/tuichar/internal/timer"
)

func TestValidateConfig(t *testing.T) {
	valid := model.Config{WeakTop: 8, WeakFactor: 2, LogLevel: "info", DBPath: "x.db"}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	cases := []model.Config{
		{WeakTop: -1},
		{WeakFactor: -0.5},
		{LogLevel: "loud"},
		{Export: true},
	}
	for _, cfg := range cases {
		if err := validateConfig(cfg); err == nil {
			t.Fatalf("expected error for %+v", cfg)
		}
	}
}

func TestValidateReportConfig(t *testing.T) {
	if err := validateReportConfig(model.ReportConfig{Format: "html"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateReportConfig(model.ReportConfig{Format: "pdf"}); err == nil {
		t.Fatalf("expected format error")
	}
	if err := validateReportConfig(model.ReportConfig{Format: "text"}); err != nil {
		t.Fatalf("session 0 selects the latest: %v", err)
	}
	err := validateReportConfig(model.ReportConfig{Format: "text", SessionID: -3})
	if err == nil || !strings.Contains(err.Error(), ">= 0 (0 = latest)") {
		t.Fatalf("unexpected session error %v", err)
	}
}

func TestWriteCharsListsEveryCharacter(t *testing.T) {
	var buf bytes.Buffer
	if err := writeChars(&buf); err != nil {
		t.Fatalf("write chars: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != ascii.Count {
		t.Fatalf("expected %d lines, got %d", ascii.Count, len(lines))
	}
	if !strings.HasPrefix(lines[0], "!\t33\tShift+1") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
}

func TestWriteSessions(t *testing.T) {
	var buf bytes.Buffer
	if err := writeSessions(&buf, nil); err != nil {
		t.Fatalf("write sessions: %v", err)
	}
	if !strings.Contains(buf.String(), "No archived sessions") {
		t.Fatalf("expected empty notice, got %q", buf.String())
	}

	buf.Reset()
	start := time.Unix(0, 0)
	sessions := []model.SessionAggregate{{SessionID: 7, StartedAt: start, EndedAt: start.Add(90 * time.Second), Hits: 3, Misses: 1}}
	if err := writeSessions(&buf, sessions); err != nil {
		t.Fatalf("write sessions: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"7\t", "1m30s", "hits=3", "misses=1", "accuracy=75.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

type onePicker struct{}

func (onePicker) Pick() ascii.Char { return 'q' }

type tickClock struct{ now time.Time }

func (c *tickClock) Now() time.Time {
	c.now = c.now.Add(250 * time.Millisecond)
	return c.now
}

var _ timer.Clock = (*tickClock)(nil)

func TestExportAndLoadReport(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "archive.db")

	if _, _, err := loadReport(ctx, model.ReportConfig{DBPath: dbPath}); err == nil {
		t.Fatalf("expected error on empty archive")
	}

	sess := session.New(onePicker{}, session.WithClock(&tickClock{now: time.Unix(0, 0)}))
	sess.Submit('q')
	sess.Submit('w')
	id, err := exportSession(ctx, dbPath, sess)
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	report, gotID, err := loadReport(ctx, model.ReportConfig{DBPath: dbPath})
	if err != nil {
		t.Fatalf("load report: %v", err)
	}
	if gotID != id || report.TotalHits != 1 || report.TotalMisses != 1 {
		t.Fatalf("unexpected report %d: %+v", gotID, report)
	}
	row, ok := report.Row('q')
	if !ok || row.MinMs <= 0 || row.Misses != 1 {
		t.Fatalf("unexpected row %+v", row)
	}

	var text, html bytes.Buffer
	if err := renderReport(&text, "text", report); err != nil {
		t.Fatalf("render text: %v", err)
	}
	if !strings.Contains(text.String(), "Hits: 1") {
		t.Fatalf("unexpected text report:\n%s", text.String())
	}
	if err := renderReport(&html, "html", report); err != nil {
		t.Fatalf("render html: %v", err)
	}
	if !strings.Contains(html.String(), "<table") {
		t.Fatalf("expected html table")
	}
}
