package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/verte-zerg/tuichar/internal/stats"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "nested", "tuichar.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func TestInsertAndLoadSession(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	log := stats.NewStore()
	log.RecordHit('a', start.Add(time.Second), 300)
	log.RecordMiss('a', start.Add(2*time.Second))
	log.RecordHit('a', start.Add(3*time.Second), 0)
	log.RecordHit('}', start.Add(4*time.Second), 900)

	id, err := st.InsertSession(ctx, start, start.Add(time.Minute), log.Snapshot())
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}

	loaded, err := st.LoadAttempts(ctx, id)
	if err != nil {
		t.Fatalf("load attempts: %v", err)
	}
	restored := stats.Restore(loaded)
	if restored.TotalHits() != 3 || restored.TotalMisses() != 1 {
		t.Fatalf("unexpected totals %d/%d", restored.TotalHits(), restored.TotalMisses())
	}
	if restored.SummaryFor('a') != log.SummaryFor('a') {
		t.Fatalf("summary mismatch: %+v vs %+v", restored.SummaryFor('a'), log.SummaryFor('a'))
	}
	history := restored.History('a')
	if stats.Kind(history[0]) != "hit" || stats.Kind(history[1]) != "miss" || stats.Kind(history[2]) != "hit" {
		t.Fatalf("attempt order not preserved: %v", history)
	}
	if !history[1].At().Equal(start.Add(2 * time.Second)) {
		t.Fatalf("timestamp not preserved: %v", history[1].At())
	}
}

func TestListSessionsAndLatest(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	if _, err := st.LatestSessionID(ctx); !errors.Is(err, ErrNoSessions) {
		t.Fatalf("expected ErrNoSessions, got %v", err)
	}

	var ids []int64
	for i := 0; i < 3; i++ {
		start := time.Unix(0, 0).Add(time.Duration(i) * time.Hour)
		log := stats.NewStore()
		for j := 0; j <= i; j++ {
			log.RecordHit('x', start, 100)
		}
		log.RecordMiss('y', start)
		id, err := st.InsertSession(ctx, start, start.Add(30*time.Second), log.Snapshot())
		if err != nil {
			t.Fatalf("insert session: %v", err)
		}
		ids = append(ids, id)
	}

	sessions, err := st.ListSessions(ctx)
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(sessions))
	}
	for i, s := range sessions {
		if s.SessionID != ids[i] || s.Hits != i+1 || s.Misses != 1 {
			t.Fatalf("unexpected session %d: %+v", i, s)
		}
		if s.DurationMs() != 30000 {
			t.Fatalf("unexpected duration %d", s.DurationMs())
		}
	}

	latest, err := st.LatestSessionID(ctx)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest != ids[2] {
		t.Fatalf("expected latest %d, got %d", ids[2], latest)
	}
}

func TestInsertEmptySessionAndMissingLoad(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()
	now := time.Unix(100, 0)
	id, err := st.InsertSession(ctx, now, now, nil)
	if err != nil {
		t.Fatalf("insert empty session: %v", err)
	}
	loaded, err := st.LoadAttempts(ctx, id)
	if err != nil || len(loaded) != 0 {
		t.Fatalf("expected empty log, got %v (%v)", loaded, err)
	}
	if _, err := st.LoadAttempts(ctx, id+42); err == nil {
		t.Fatalf("expected error for unknown session")
	}
}
