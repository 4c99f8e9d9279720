package audit

import (
	"context"
	"testing"
	"time"
)

type stubRepo struct {
	windowRows []Entry
	allRows    []Entry
	pruned     int64

	lastLimit  int
	lastOffset int
	lastCutoff time.Time
}

func (s *stubRepo) TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	return s.windowRows, nil
}

func (s *stubRepo) TimelineAll(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	return s.allRows, nil
}

func (s *stubRepo) PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	s.lastCutoff = cutoff
	return s.pruned, nil
}

func mockEntry(id int64, action string) Entry {
	return Entry{ID: id, ActorID: 1, Action: action, Entity: "users", EntityID: "2", At: time.Now()}
}

func TestServiceTimelinePaging(t *testing.T) {
	repo := &stubRepo{
		windowRows: []Entry{
			mockEntry(1, "users.update"),
			mockEntry(2, "users.update"),
			mockEntry(3, "users.create"),
		},
	}
	svc := NewService(repo)
	result, err := svc.Timeline(context.Background(), TimelineFilters{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(result.Rows))
	}
	if !result.Paging.HasNext {
		t.Fatalf("expected hasNext true")
	}
	if repo.lastLimit != 3 {
		t.Fatalf("expected limit 3, got %d", repo.lastLimit)
	}
	if repo.lastOffset != 0 {
		t.Fatalf("expected offset 0, got %d", repo.lastOffset)
	}
}

func TestServiceTimelineClampsPageSize(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)
	if _, err := svc.Timeline(context.Background(), TimelineFilters{Page: 2, PageSize: 500}); err != nil {
		t.Fatalf("timeline: %v", err)
	}
	if repo.lastLimit != 51 {
		t.Fatalf("expected page size clamped to 50, got limit %d", repo.lastLimit)
	}
	if repo.lastOffset != 50 {
		t.Fatalf("expected offset 50, got %d", repo.lastOffset)
	}
}

func TestServiceExportReturnsAllRows(t *testing.T) {
	repo := &stubRepo{allRows: []Entry{mockEntry(1, "users.delete"), mockEntry(2, "users.create")}}
	svc := NewService(repo)
	rows, err := svc.Export(context.Background(), TimelineFilters{})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
}

func TestServicePrune(t *testing.T) {
	repo := &stubRepo{pruned: 12}
	svc := NewService(repo)
	dropped, err := svc.Prune(context.Background(), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if dropped != 12 {
		t.Fatalf("expected 12 dropped, got %d", dropped)
	}
	if time.Since(repo.lastCutoff) < 29*24*time.Hour {
		t.Fatalf("cutoff not pushed back by retention window")
	}
	if _, err := svc.Prune(context.Background(), 0); err == nil {
		t.Fatalf("zero retention must be rejected")
	}
}
