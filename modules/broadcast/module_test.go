package broadcast

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/events"
	"github.com/example/todo-list-demo/modules/todo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTodoPort serves snapshots from an in-process store.
type fakeTodoPort struct {
	store   *task.Store
	listErr error
}

func (f *fakeTodoPort) AddTask(_ context.Context, title string) (*task.Task, error) {
	t := f.store.AddTask(title)
	return &t, nil
}

func (f *fakeTodoPort) EditTask(_ context.Context, id task.ID, title string) (*task.Task, error) {
	t, _ := f.store.EditTask(id, title)
	return &t, nil
}

func (f *fakeTodoPort) CompleteTask(_ context.Context, id task.ID) (*task.Task, error) {
	t, _ := f.store.CompleteTask(id)
	return &t, nil
}

func (f *fakeTodoPort) DeleteTask(_ context.Context, id task.ID) (bool, error) {
	return f.store.DeleteTask(id), nil
}

func (f *fakeTodoPort) ListTasks(_ context.Context) (task.Snapshot, error) {
	if f.listErr != nil {
		return task.Snapshot{}, f.listErr
	}
	return f.store.Snapshot(), nil
}

// slowFirstTodoPort reads the store, then holds its first ListTasks call
// until release is closed.
type slowFirstTodoPort struct {
	fakeTodoPort
	calls   atomic.Int32
	started chan struct{}
	release chan struct{}
}

func (p *slowFirstTodoPort) ListTasks(ctx context.Context) (task.Snapshot, error) {
	n := p.calls.Add(1)
	snap, err := p.fakeTodoPort.ListTasks(ctx)
	if n == 1 {
		close(p.started)
		<-p.release
	}
	return snap, err
}

func startTestModule(t *testing.T, port todo.TodoPort) *Module {
	t.Helper()

	m := NewModule(&mockLogger{})
	m.todoPort = port
	require.NoError(t, m.Start(context.Background()))
	t.Cleanup(func() {
		_ = m.Stop(context.Background())
	})
	return m
}

func TestModule_Metadata(t *testing.T) {
	m := NewModule(&mockLogger{})

	assert.Equal(t, "broadcast", m.Name())
	assert.Equal(t, []string{"todo"}, m.Dependencies())
	assert.NotNil(t, m.Hub())
}

func TestModule_StartRequiresTodoPort(t *testing.T) {
	m := NewModule(&mockLogger{})
	assert.Error(t, m.Start(context.Background()))
}

func TestModule_HandleTaskEventPushesSnapshot(t *testing.T) {
	port := &fakeTodoPort{store: task.NewStore()}
	m := startTestModule(t, port)

	conn := &fakeConn{}
	m.Hub().Register(&Client{ID: "viewer", Conn: conn})
	require.Eventually(t, func() bool { return m.Hub().ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	added := port.store.AddTask("Buy milk")
	port.store.AddTask("Walk dog")
	port.store.CompleteTask(added.ID)

	err := m.handleTaskEvent(context.Background(), events.TaskEvent{TaskID: int64(added.ID)}, nil)
	require.NoError(t, err)

	require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 5*time.Millisecond)

	var msg SnapshotMessage
	require.NoError(t, json.Unmarshal(conn.received()[0], &msg))
	assert.Equal(t, MessageTypeSnapshot, msg.Type)
	require.Len(t, msg.Categories.TodoList, 1)
	assert.Equal(t, "Walk dog", msg.Categories.TodoList[0].Title)
	require.Len(t, msg.Categories.Completed, 1)
	assert.Equal(t, "Buy milk", msg.Categories.Completed[0].Title)
	assert.NotNil(t, msg.Categories.Completed[0].CompletionDate)
}

func TestModule_HandleTaskEventEmptyCollections(t *testing.T) {
	port := &fakeTodoPort{store: task.NewStore()}
	m := startTestModule(t, port)

	conn := &fakeConn{}
	m.Hub().Register(&Client{ID: "viewer", Conn: conn})
	require.Eventually(t, func() bool { return m.Hub().ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, m.handleTaskEvent(context.Background(), events.TaskEvent{}, nil))

	require.Eventually(t, func() bool { return len(conn.received()) == 1 }, time.Second, 5*time.Millisecond)
	assert.JSONEq(t,
		`{"type":"snapshot","categories":{"Todo List":[],"Completed":[]}}`,
		string(conn.received()[0]))
}

func TestModule_HandleTaskEventListError(t *testing.T) {
	port := &fakeTodoPort{store: task.NewStore(), listErr: errors.New("unavailable")}
	m := startTestModule(t, port)

	err := m.handleTaskEvent(context.Background(), events.TaskEvent{TaskID: 1}, nil)
	assert.Error(t, err)
}

func TestModule_Health(t *testing.T) {
	m := startTestModule(t, &fakeTodoPort{store: task.NewStore()})

	status := m.Health(context.Background())
	assert.True(t, status.Healthy)
	assert.Equal(t, 0, status.Details["connected_clients"])
}

func TestModule_LastPushCarriesLatestState(t *testing.T) {
	port := &slowFirstTodoPort{
		fakeTodoPort: fakeTodoPort{store: task.NewStore()},
		started:      make(chan struct{}),
		release:      make(chan struct{}),
	}
	port.store.AddTask("first")
	m := startTestModule(t, port)

	conn := &fakeConn{}
	m.Hub().Register(&Client{ID: "viewer", Conn: conn})
	require.Eventually(t, func() bool { return m.Hub().ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		assert.NoError(t, m.handleTaskEvent(context.Background(), events.TaskEvent{TaskID: 1}, nil))
	}()
	<-port.started

	second := port.store.AddTask("second")
	go func() {
		defer wg.Done()
		assert.NoError(t, m.handleTaskEvent(context.Background(), events.TaskEvent{TaskID: int64(second.ID)}, nil))
	}()

	// Let the second event race the held read before releasing it.
	time.Sleep(20 * time.Millisecond)
	close(port.release)
	wg.Wait()

	require.Eventually(t, func() bool { return len(conn.received()) == 2 }, time.Second, 5*time.Millisecond)
	var last SnapshotMessage
	require.NoError(t, json.Unmarshal(conn.received()[1], &last))
	require.Len(t, last.Categories.TodoList, 2)
	assert.Equal(t, "second", last.Categories.TodoList[1].Title)
}
