package audit

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T, s LogStore) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	recs := []Record{
		{Timestamp: base, Kind: KindTransition, JobID: "j1", Action: "start", From: "scheduled", To: "in_progress"},
		{Timestamp: base.Add(time.Hour), Kind: KindAssignment, JobID: "j2", MemberID: "m1"},
		{Timestamp: base.Add(2 * time.Hour), Kind: KindUnassign, JobID: "j2"},
	}
	for _, r := range recs {
		if err := s.Append(ctx, r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	all, err := s.Query(ctx, Query{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 records got %d", len(all))
	}
	byJob, err := s.Query(ctx, Query{JobID: "j2"})
	if err != nil {
		t.Fatalf("query job: %v", err)
	}
	if len(byJob) != 2 {
		t.Fatalf("expected 2 records for j2 got %d", len(byJob))
	}
	byKind, err := s.Query(ctx, Query{Kind: KindTransition})
	if err != nil {
		t.Fatalf("query kind: %v", err)
	}
	if len(byKind) != 1 || byKind[0].Action != "start" {
		t.Fatalf("unexpected transition records: %#v", byKind)
	}
	windowed, err := s.Query(ctx, Query{Start: base.Add(30 * time.Minute)})
	if err != nil {
		t.Fatalf("query window: %v", err)
	}
	if len(windowed) != 2 {
		t.Fatalf("expected 2 records after window start got %d", len(windowed))
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestJSONLStore(t *testing.T) {
	s, err := NewJSONLStore(filepath.Join(t.TempDir(), "audit.log"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	testStore(t, s)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	testStore(t, s)
}
