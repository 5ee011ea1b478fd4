package broadcast

import (
	"context"
	"fmt"
	"sync"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/events"
	"github.com/example/todo-list-demo/modules/todo"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// MessageTypeSnapshot marks a full re-render push.
const MessageTypeSnapshot = "snapshot"

// SnapshotMessage is the structure sent to WebSocket clients after every task change.
type SnapshotMessage struct {
	Type       string        `json:"type"`
	Categories task.Snapshot `json:"categories"`
}

// NewSnapshotMessage wraps a snapshot for delivery to clients.
func NewSnapshotMessage(snap task.Snapshot) SnapshotMessage {
	return SnapshotMessage{Type: MessageTypeSnapshot, Categories: snap}
}

// Module pushes a fresh snapshot to every WebSocket client whenever a task event arrives.
type Module struct {
	hub       *Hub
	todoPort  todo.TodoPort
	cancelHub context.CancelFunc
	logger    types.Logger

	// pushMu orders pushes by the time their snapshot was read.
	pushMu sync.Mutex
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new broadcast module.
func NewModule(logger types.Logger) *Module {
	return &Module{
		hub:    NewHub(logger),
		logger: logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "broadcast"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"todo"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	if dependency == "todo" {
		m.todoPort = todo.NewTodoAdapter(container)
	}
}

// Start starts the hub loop.
func (m *Module) Start(_ context.Context) error {
	if m.todoPort == nil {
		return fmt.Errorf("todo adapter dependency not set")
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelHub = cancel
	go m.hub.Run(ctx)

	m.logger.Info("Broadcast module started, WebSocket hub running")
	return nil
}

// Stop shuts down the hub and closes all client connections.
func (m *Module) Stop(_ context.Context) error {
	clientCount := m.hub.ClientCount()
	if m.cancelHub != nil {
		m.cancelHub()
		m.hub.Wait()
		m.cancelHub = nil
	}
	m.logger.Info("Broadcast module stopped", "connectedClients", clientCount)
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"connected_clients": m.hub.ClientCount(),
		},
	}
}

// RegisterEventConsumers subscribes to every task event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskAddedV1, m.handleTaskEvent, m); err != nil {
		return fmt.Errorf("failed to register TaskAdded consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskEditedV1, m.handleTaskEvent, m); err != nil {
		return fmt.Errorf("failed to register TaskEdited consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskEvent, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskEvent, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "TaskAdded, TaskEdited, TaskCompleted, TaskDeleted")
	return nil
}

// handleTaskEvent re-reads both collections and pushes them to every client.
// The event payload itself is not forwarded; clients always re-render from a full snapshot.
// Reads and pushes run one at a time, so the last push always carries the latest read.
func (m *Module) handleTaskEvent(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	m.pushMu.Lock()
	defer m.pushMu.Unlock()

	snap, err := m.todoPort.ListTasks(ctx)
	if err != nil {
		m.logger.Error("Failed to load snapshot for broadcast", "taskID", event.TaskID, "error", err)
		return err
	}

	m.hub.Broadcast(NewSnapshotMessage(snap))
	return nil
}

// Hub returns the WebSocket hub for the API module to use.
func (m *Module) Hub() *Hub {
	return m.hub
}
