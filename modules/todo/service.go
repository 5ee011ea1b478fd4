package todo

import (
	"context"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/go-monolith/mono"
)

// addTask handles the add-task service request.
// Titles are not validated here; the store accepts any title.
func (m *Module) addTask(_ context.Context, req AddTaskRequest, _ *mono.Msg) (task.Task, error) {
	created := m.store.AddTask(req.Title)
	m.logger.Info("Task added", "taskID", int64(created.ID))
	return created, nil
}

// editTask handles the edit-task service request.
func (m *Module) editTask(_ context.Context, req EditTaskRequest, _ *mono.Msg) (TaskResult, error) {
	edited, ok := m.store.EditTask(req.TaskID, req.Title)
	if !ok {
		m.logger.Debug("Edit ignored, task not active", "taskID", int64(req.TaskID))
		return TaskResult{Found: false}, nil
	}
	m.logger.Info("Task edited", "taskID", int64(edited.ID))
	return TaskResult{Found: true, Task: &edited}, nil
}

// completeTask handles the complete-task service request.
func (m *Module) completeTask(_ context.Context, req CompleteTaskRequest, _ *mono.Msg) (TaskResult, error) {
	completed, ok := m.store.CompleteTask(req.TaskID)
	if !ok {
		m.logger.Debug("Complete ignored, task not active", "taskID", int64(req.TaskID))
		return TaskResult{Found: false}, nil
	}
	m.logger.Info("Task completed",
		"taskID", int64(completed.ID),
		"date", completed.CompletionDate.String())
	return TaskResult{Found: true, Task: &completed}, nil
}

// deleteTask handles the delete-task service request.
func (m *Module) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	deleted := m.store.DeleteTask(req.TaskID)
	if deleted {
		m.logger.Info("Task deleted", "taskID", int64(req.TaskID))
	}
	return DeleteTaskResponse{Deleted: deleted}, nil
}

// listTasks handles the list-tasks service request.
func (m *Module) listTasks(_ context.Context, _ ListTasksRequest, _ *mono.Msg) (ListTasksResponse, error) {
	snap := m.store.Snapshot()
	return ListTasksResponse{
		Categories: snap,
		Total:      len(snap.TodoList) + len(snap.Completed),
	}, nil
}
