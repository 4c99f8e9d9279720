package audit

import (
	"context"
	"fmt"
	"time"
)

// Repository provides the queries the timeline needs.
type Repository interface {
	TimelineWindow(ctx context.Context, filters TimelineFilters, limit, offset int) ([]Entry, error)
	TimelineAll(ctx context.Context, filters TimelineFilters) ([]Entry, error)
	PruneOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Result wraps timeline rows with paging information.
type Result struct {
	Rows   []Entry
	Paging PagingInfo
}

// Service coordinates audit timeline reads.
type Service struct {
	repo Repository
}

// NewService builds a Service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Timeline returns a page of audit entries matching the filters. One
// extra row is fetched to detect whether a next page exists.
func (s *Service) Timeline(ctx context.Context, filters TimelineFilters) (Result, error) {
	if s.repo == nil {
		return Result{}, fmt.Errorf("audit: repository not configured")
	}
	pageSize := filters.PageSize
	if pageSize <= 0 {
		pageSize = 20
	}
	if pageSize > 50 {
		pageSize = 50
	}
	page := filters.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * pageSize
	rows, err := s.repo.TimelineWindow(ctx, filters, pageSize+1, offset)
	if err != nil {
		return Result{}, err
	}
	hasNext := len(rows) > pageSize
	if hasNext {
		rows = rows[:pageSize]
	}
	paging := PagingInfo{Page: page, PageSize: pageSize, HasNext: hasNext}
	if page > 1 {
		paging.PrevPage = page - 1
	}
	if hasNext {
		paging.NextPage = page + 1
	}
	return Result{Rows: rows, Paging: paging}, nil
}

// Export returns every entry matching the filters without paging.
func (s *Service) Export(ctx context.Context, filters TimelineFilters) ([]Entry, error) {
	if s.repo == nil {
		return nil, fmt.Errorf("audit: repository not configured")
	}
	return s.repo.TimelineAll(ctx, filters)
}

// Prune removes entries older than the retention window and reports
// how many rows were dropped.
func (s *Service) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if s.repo == nil {
		return 0, fmt.Errorf("audit: repository not configured")
	}
	if retention <= 0 {
		return 0, fmt.Errorf("audit: retention must be positive")
	}
	return s.repo.PruneOlderThan(ctx, time.Now().Add(-retention))
}
