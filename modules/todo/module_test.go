package todo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockLogger implements types.Logger for testing
type mockLogger struct{}

func (m *mockLogger) Debug(msg string, args ...any)         {}
func (m *mockLogger) Info(msg string, args ...any)          {}
func (m *mockLogger) Warn(msg string, args ...any)          {}
func (m *mockLogger) Error(msg string, args ...any)         {}
func (m *mockLogger) With(args ...any) types.Logger         { return m }
func (m *mockLogger) WithError(err error) types.Logger      { return m }
func (m *mockLogger) WithModule(module string) types.Logger { return m }

var testNow = time.Date(2026, time.October, 18, 9, 30, 0, 0, time.UTC)

func newTestModule(t *testing.T) *Module {
	t.Helper()
	store := task.NewStore(task.WithClock(func() time.Time { return testNow }))
	m := NewModule(store, &mockLogger{})
	m.now = func() time.Time { return testNow }
	return m
}

func TestNewModule_NilStorePanics(t *testing.T) {
	assert.Panics(t, func() { NewModule(nil, &mockLogger{}) })
}

func TestModule_Name(t *testing.T) {
	assert.Equal(t, "todo", newTestModule(t).Name())
}

func TestModule_EmitEvents(t *testing.T) {
	assert.Len(t, newTestModule(t).EmitEvents(), 4)
}

func TestAddTask(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	first, err := m.addTask(ctx, AddTaskRequest{Title: "Buy milk"}, nil)
	require.NoError(t, err)
	second, err := m.addTask(ctx, AddTaskRequest{Title: ""}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Buy milk", first.Title)
	assert.False(t, first.Completed)
	assert.Nil(t, first.CompletionDate)
	assert.Greater(t, second.ID, first.ID)

	snap := m.Store().Snapshot()
	assert.Len(t, snap.TodoList, 2)
	assert.Empty(t, snap.Completed)
}

func TestEditTask(t *testing.T) {
	tests := []struct {
		name      string
		complete  bool
		id        func(created task.Task) task.ID
		wantFound bool
		wantTitle string
	}{
		{
			name:      "active task",
			id:        func(created task.Task) task.ID { return created.ID },
			wantFound: true,
			wantTitle: "Y",
		},
		{
			name:      "unknown id",
			id:        func(task.Task) task.ID { return 404 },
			wantFound: false,
			wantTitle: "X",
		},
		{
			name:      "completed task",
			complete:  true,
			id:        func(created task.Task) task.ID { return created.ID },
			wantFound: false,
			wantTitle: "X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModule(t)
			created := m.Store().AddTask("X")
			if tt.complete {
				m.Store().CompleteTask(created.ID)
			}

			resp, err := m.editTask(context.Background(), EditTaskRequest{TaskID: tt.id(created), Title: "Y"}, nil)
			require.NoError(t, err)

			assert.Equal(t, tt.wantFound, resp.Found)
			if tt.wantFound {
				require.NotNil(t, resp.Task)
				assert.Equal(t, "Y", resp.Task.Title)
			} else {
				assert.Nil(t, resp.Task)
			}

			snap := m.Store().Snapshot()
			all := append(snap.TodoList, snap.Completed...)
			require.Len(t, all, 1)
			assert.Equal(t, tt.wantTitle, all[0].Title)
		})
	}
}

func TestCompleteTask(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()
	created := m.Store().AddTask("Buy milk")

	resp, err := m.completeTask(ctx, CompleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	require.True(t, resp.Found)
	require.NotNil(t, resp.Task)
	assert.True(t, resp.Task.Completed)
	require.NotNil(t, resp.Task.CompletionDate)
	assert.Equal(t, "2026-10-18", resp.Task.CompletionDate.String())

	again, err := m.completeTask(ctx, CompleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.False(t, again.Found)

	snap := m.Store().Snapshot()
	assert.Empty(t, snap.TodoList)
	assert.Len(t, snap.Completed, 1)
}

func TestDeleteTask(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()
	created := m.Store().AddTask("X")

	resp, err := m.deleteTask(ctx, DeleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Deleted)

	resp, err = m.deleteTask(ctx, DeleteTaskRequest{TaskID: created.ID}, nil)
	require.NoError(t, err)
	assert.False(t, resp.Deleted)

	assert.Empty(t, m.Store().Snapshot().TodoList)
}

func TestListTasks(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	empty, err := m.listTasks(ctx, ListTasksRequest{}, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty.Categories.TodoList)
	assert.NotNil(t, empty.Categories.Completed)
	assert.Equal(t, 0, empty.Total)

	a := m.Store().AddTask("A")
	m.Store().AddTask("B")
	m.Store().CompleteTask(a.ID)

	resp, err := m.listTasks(ctx, ListTasksRequest{}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Total)
	assert.Len(t, resp.Categories.TodoList, 1)
	assert.Len(t, resp.Categories.Completed, 1)
	assert.Equal(t, "B", resp.Categories.TodoList[0].Title)
}

func TestModule_StartStop(t *testing.T) {
	m := newTestModule(t)
	ctx := context.Background()

	require.NoError(t, m.Start(ctx))
	assert.NotNil(t, m.unsubscribe)

	// No event bus is set, so publishing is skipped without failing the mutation.
	m.Store().AddTask("A")

	require.NoError(t, m.Stop(ctx))
	assert.Nil(t, m.unsubscribe)
	require.NoError(t, m.Stop(ctx))
}

func TestModule_Health(t *testing.T) {
	m := newTestModule(t)
	a := m.Store().AddTask("A")
	m.Store().AddTask("B")
	m.Store().AddTask("C")
	m.Store().CompleteTask(a.ID)

	status := m.Health(context.Background())

	assert.True(t, status.Healthy)
	assert.Equal(t, 2, status.Details["todo_list"])
	assert.Equal(t, 1, status.Details["completed"])
}

func TestToTaskEvent(t *testing.T) {
	date := task.Date{Year: 2026, Month: time.October, Day: 18}

	tests := []struct {
		name     string
		in       task.Task
		wantDate string
	}{
		{
			name: "active task",
			in:   task.Task{ID: 3, Title: "open"},
		},
		{
			name:     "completed task",
			in:       task.Task{ID: 4, Title: "done", Completed: true, CompletionDate: &date},
			wantDate: "2026-10-18",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := toTaskEvent(tt.in, testNow)

			assert.Equal(t, int64(tt.in.ID), event.TaskID)
			assert.Equal(t, tt.in.Title, event.Title)
			assert.Equal(t, tt.in.Completed, event.Completed)
			assert.Equal(t, tt.wantDate, event.CompletionDate)
			assert.Equal(t, testNow, event.OccurredAt)
		})
	}
}

func TestResultTask(t *testing.T) {
	found := &task.Task{ID: 1, Title: "X"}

	got, err := resultTask(TaskResult{Found: true, Task: found}, 1)
	require.NoError(t, err)
	assert.Equal(t, found, got)

	_, err = resultTask(TaskResult{Found: false}, 7)
	assert.True(t, errors.Is(err, ErrTaskNotFound))
}

func TestCopySnapshot(t *testing.T) {
	src := task.Snapshot{
		TodoList:  []task.Task{{ID: 1, Title: "A"}},
		Completed: []task.Task{},
	}

	out := copySnapshot(src)
	out.TodoList[0].Title = "changed"

	assert.Equal(t, "A", src.TodoList[0].Title)
	assert.NotNil(t, out.Completed)
}
