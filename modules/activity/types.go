package activity

import (
	"context"
	"time"
)

const (
	// DefaultListLimit is used when a list request carries no limit.
	DefaultListLimit = 100
	// MaxListLimit caps the number of entries returned by one request.
	MaxListLimit = 1000
)

// ListActivityRequest is the request for reading the activity log.
type ListActivityRequest struct {
	TaskID int64 `json:"task_id,omitempty"`
	Limit  int   `json:"limit,omitempty"`
}

// EntryResponse is a single activity entry.
type EntryResponse struct {
	ID         string    `json:"id"`
	TaskID     int64     `json:"task_id"`
	Type       string    `json:"type"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ListActivityResponse is the response for reading the activity log.
type ListActivityResponse struct {
	Entries []EntryResponse `json:"entries"`
	Total   int64           `json:"total"`
}

// GetActivityRequest is the request for a single activity entry.
type GetActivityRequest struct {
	ID string `json:"id"`
}

// GetActivityResponse carries the entry when it exists.
type GetActivityResponse struct {
	Found bool           `json:"found"`
	Entry *EntryResponse `json:"entry,omitempty"`
}

// ActivityPort defines the interface for reading the activity log (hexagonal port).
type ActivityPort interface {
	ListActivity(ctx context.Context, req ListActivityRequest) (*ListActivityResponse, error)
	GetActivity(ctx context.Context, id string) (*EntryResponse, error)
}
