package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"golang.org/x/sync/singleflight"
)

// todoAdapter wraps ServiceContainer for type-safe cross-module communication.
// Concurrent ListTasks calls share one list-tasks round trip, but a caller only
// joins a round trip that started after it called, so it always sees its own writes.
type todoAdapter struct {
	container mono.ServiceContainer
	group     singleflight.Group
	// epoch advances each time a list-tasks round trip starts.
	epoch atomic.Uint64
	list  func(ctx context.Context) (task.Snapshot, error)
}

// NewTodoAdapter creates a new adapter for todo services.
// container is the ServiceContainer from the todo module received via SetDependencyServiceContainer.
func NewTodoAdapter(container mono.ServiceContainer) TodoPort {
	if container == nil {
		panic("todo adapter requires non-nil ServiceContainer")
	}
	a := &todoAdapter{container: container}
	a.list = a.callListTasks
	return a
}

// AddTask adds a task via the add-task service.
func (a *todoAdapter) AddTask(ctx context.Context, title string) (*task.Task, error) {
	req := AddTaskRequest{Title: title}
	var resp task.Task
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"add-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("add-task service call failed: %w", err)
	}
	return &resp, nil
}

// EditTask renames an active task via the edit-task service.
func (a *todoAdapter) EditTask(ctx context.Context, id task.ID, title string) (*task.Task, error) {
	req := EditTaskRequest{TaskID: id, Title: title}
	var resp TaskResult
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"edit-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("edit-task service call failed: %w", err)
	}
	return resultTask(resp, id)
}

// CompleteTask completes an active task via the complete-task service.
func (a *todoAdapter) CompleteTask(ctx context.Context, id task.ID) (*task.Task, error) {
	req := CompleteTaskRequest{TaskID: id}
	var resp TaskResult
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"complete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return nil, fmt.Errorf("complete-task service call failed: %w", err)
	}
	return resultTask(resp, id)
}

// DeleteTask deletes an active task via the delete-task service.
// Deleting an unknown id is not an error.
func (a *todoAdapter) DeleteTask(ctx context.Context, id task.ID) (bool, error) {
	req := DeleteTaskRequest{TaskID: id}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"delete-task",
		json.Marshal,
		json.Unmarshal,
		&req,
		&resp,
	); err != nil {
		return false, fmt.Errorf("delete-task service call failed: %w", err)
	}
	return resp.Deleted, nil
}

// ListTasks returns a snapshot of both collections via the list-tasks service.
func (a *todoAdapter) ListTasks(ctx context.Context) (task.Snapshot, error) {
	key := "list-tasks:" + strconv.FormatUint(a.epoch.Load(), 10)
	v, err, _ := a.group.Do(key, func() (any, error) {
		a.epoch.Add(1)
		return a.list(ctx)
	})
	if err != nil {
		return task.Snapshot{}, err
	}
	return copySnapshot(v.(task.Snapshot)), nil
}

func (a *todoAdapter) callListTasks(ctx context.Context) (task.Snapshot, error) {
	var resp ListTasksResponse
	if err := helper.CallRequestReplyService(
		ctx,
		a.container,
		"list-tasks",
		json.Marshal,
		json.Unmarshal,
		&ListTasksRequest{},
		&resp,
	); err != nil {
		return task.Snapshot{}, fmt.Errorf("list-tasks service call failed: %w", err)
	}
	return resp.Categories, nil
}

func resultTask(resp TaskResult, id task.ID) (*task.Task, error) {
	if !resp.Found || resp.Task == nil {
		return nil, fmt.Errorf("task %d: %w", id, ErrTaskNotFound)
	}
	return resp.Task, nil
}

// copySnapshot gives each singleflight caller its own slices.
func copySnapshot(s task.Snapshot) task.Snapshot {
	out := task.Snapshot{
		TodoList:  make([]task.Task, len(s.TodoList)),
		Completed: make([]task.Task, len(s.Completed)),
	}
	copy(out.TodoList, s.TodoList)
	copy(out.Completed, s.Completed)
	return out
}
