package todo

import (
	"context"

	"github.com/example/todo-list-demo/domain/task"
)

// AddTaskRequest is the request for adding a task.
type AddTaskRequest struct {
	Title string `json:"title"`
}

// EditTaskRequest is the request for renaming an active task.
type EditTaskRequest struct {
	TaskID task.ID `json:"task_id"`
	Title  string  `json:"title"`
}

// CompleteTaskRequest is the request for completing a task.
type CompleteTaskRequest struct {
	TaskID task.ID `json:"task_id"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	TaskID task.ID `json:"task_id"`
}

// DeleteTaskResponse reports whether a task was removed.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// ListTasksRequest is the request for reading both collections.
type ListTasksRequest struct{}

// ListTasksResponse carries a snapshot of both collections.
type ListTasksResponse struct {
	Categories task.Snapshot `json:"categories"`
	Total      int           `json:"total"`
}

// TaskResult is the response of operations that may be no-ops.
// Task is nil when Found is false.
type TaskResult struct {
	Found bool       `json:"found"`
	Task  *task.Task `json:"task,omitempty"`
}

// TodoPort defines the task operations available to other modules (hexagonal port).
// EditTask and CompleteTask return ErrTaskNotFound when the id is not active.
type TodoPort interface {
	AddTask(ctx context.Context, title string) (*task.Task, error)
	EditTask(ctx context.Context, id task.ID, title string) (*task.Task, error)
	CompleteTask(ctx context.Context, id task.ID) (*task.Task, error)
	DeleteTask(ctx context.Context, id task.ID) (bool, error)
	ListTasks(ctx context.Context) (task.Snapshot, error)
}
