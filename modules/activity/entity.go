package activity

import "time"

// Entry types, one per task event.
const (
	TypeTaskAdded     = "task_added"
	TypeTaskEdited    = "task_edited"
	TypeTaskCompleted = "task_completed"
	TypeTaskDeleted   = "task_deleted"
)

// Entry is one line of the activity log.
type Entry struct {
	ID         string    `gorm:"primarykey;size:36" json:"id"`
	TaskID     int64     `gorm:"index;not null" json:"task_id"`
	Type       string    `gorm:"size:32;not null" json:"type"`
	Message    string    `gorm:"size:500" json:"message"`
	OccurredAt time.Time `gorm:"index;not null" json:"occurred_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName returns the table name for Entry model.
func (Entry) TableName() string {
	return "activity_entries"
}
