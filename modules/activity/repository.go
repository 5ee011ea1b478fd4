package activity

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrNotFound is returned when an activity entry is not found.
var ErrNotFound = errors.New("activity entry not found")

// Repository provides access to activity storage.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new activity repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create appends an entry to the log.
func (r *Repository) Create(ctx context.Context, entry *Entry) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create activity entry: %w", err)
	}
	return nil
}

// FindByID retrieves an entry by its ID.
func (r *Repository) FindByID(ctx context.Context, id string) (*Entry, error) {
	var entry Entry
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find activity entry: %w", err)
	}
	return &entry, nil
}

// ListRecent returns up to limit entries, newest first.
// When taskID is non-zero only entries of that task are returned.
func (r *Repository) ListRecent(ctx context.Context, taskID int64, limit int) ([]*Entry, error) {
	query := r.db.WithContext(ctx).Order("occurred_at DESC").Order("created_at DESC").Limit(limit)
	if taskID != 0 {
		query = query.Where("task_id = ?", taskID)
	}

	var entries []*Entry
	if err := query.Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to list activity entries: %w", err)
	}
	return entries, nil
}

// Count returns the number of entries in the log.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Entry{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count activity entries: %w", err)
	}
	return count, nil
}
