package audit

import "time"

// Entry represents a record stored in audit_logs.
type Entry struct {
	ID       int64
	ActorID  int64
	Action   string
	Entity   string
	EntityID string
	Meta     map[string]any
	At       time.Time
}

// TimelineFilters narrows a timeline query.
type TimelineFilters struct {
	From     time.Time
	To       time.Time
	ActorID  int64
	Entity   string
	Action   string
	Page     int
	PageSize int
}

// PagingInfo captures cursorless paging state for the timeline.
type PagingInfo struct {
	Page     int
	PageSize int
	HasNext  bool
	PrevPage int
	NextPage int
}
