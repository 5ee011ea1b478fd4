package events

import (
	"time"

	"github.com/go-monolith/mono/pkg/helper"
)

// TaskEvent is the payload shared by every task event.
// CompletionDate is set only for completed tasks (YYYY-MM-DD).
type TaskEvent struct {
	TaskID         int64     `json:"task_id"`
	Title          string    `json:"title"`
	Completed      bool      `json:"completed"`
	CompletionDate string    `json:"completion_date,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// TaskAddedV1 is emitted when a task is added to the "Todo List".
// Subject: events.todo.v1.task-added
var TaskAddedV1 = helper.EventDefinition[TaskEvent](
	"todo", "TaskAdded", "v1",
)

// TaskEditedV1 is emitted when an active task is renamed.
// Subject: events.todo.v1.task-edited
var TaskEditedV1 = helper.EventDefinition[TaskEvent](
	"todo", "TaskEdited", "v1",
)

// TaskCompletedV1 is emitted when a task moves to "Completed".
// Subject: events.todo.v1.task-completed
var TaskCompletedV1 = helper.EventDefinition[TaskEvent](
	"todo", "TaskCompleted", "v1",
)

// TaskDeletedV1 is emitted when an active task is deleted.
// Subject: events.todo.v1.task-deleted
var TaskDeletedV1 = helper.EventDefinition[TaskEvent](
	"todo", "TaskDeleted", "v1",
)
