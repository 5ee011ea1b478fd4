package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// activityAdapter wraps ServiceContainer for type-safe cross-module communication.
type activityAdapter struct {
	container mono.ServiceContainer
}

// NewActivityAdapter creates a new adapter for activity services.
func NewActivityAdapter(container mono.ServiceContainer) ActivityPort {
	if container == nil {
		panic("activity adapter requires non-nil ServiceContainer")
	}
	return &activityAdapter{container: container}
}

// ListActivity reads the activity log via the list-activity service.
func (a *activityAdapter) ListActivity(ctx context.Context, req ListActivityRequest) (*ListActivityResponse, error) {
	var resp ListActivityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("list-activity service call failed: %w", err)
	}
	return &resp, nil
}

// GetActivity reads one entry via the get-activity service.
// A missing entry is reported as ErrNotFound.
func (a *activityAdapter) GetActivity(ctx context.Context, id string) (*EntryResponse, error) {
	req := GetActivityRequest{ID: id}
	var resp GetActivityResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"get-activity",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("get-activity service call failed: %w", err)
	}
	return foundEntry(resp, id)
}

func foundEntry(resp GetActivityResponse, id string) (*EntryResponse, error) {
	if !resp.Found || resp.Entry == nil {
		return nil, fmt.Errorf("activity %s: %w", id, ErrNotFound)
	}
	return resp.Entry, nil
}
