package todo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module exposes the task store to other modules (core domain).
// Every effective store mutation is published as a task event.
type Module struct {
	store       *task.Store
	eventBus    mono.EventBus
	unsubscribe func()
	logger      types.Logger
	now         func() time.Time
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventBusAwareModule   = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a todo module around store.
func NewModule(store *task.Store, logger types.Logger) *Module {
	if store == nil {
		panic("todo module requires non-nil task store")
	}
	return &Module{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "todo"
}

// SetEventBus receives the EventBus from the framework.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents declares the events this module can emit.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.TaskAddedV1.ToBase(),
		events.TaskEditedV1.ToBase(),
		events.TaskCompletedV1.ToBase(),
		events.TaskDeletedV1.ToBase(),
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "add-task", json.Unmarshal, json.Marshal, m.addTask,
	); err != nil {
		return fmt.Errorf("failed to register add-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "edit-task", json.Unmarshal, json.Marshal, m.editTask,
	); err != nil {
		return fmt.Errorf("failed to register edit-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "complete-task", json.Unmarshal, json.Marshal, m.completeTask,
	); err != nil {
		return fmt.Errorf("failed to register complete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "delete-task", json.Unmarshal, json.Marshal, m.deleteTask,
	); err != nil {
		return fmt.Errorf("failed to register delete-task service: %w", err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, "list-tasks", json.Unmarshal, json.Marshal, m.listTasks,
	); err != nil {
		return fmt.Errorf("failed to register list-tasks service: %w", err)
	}

	m.logger.Info("Registered services",
		"services", "add-task, edit-task, complete-task, delete-task, list-tasks")
	return nil
}

// Start subscribes to store changes so they are published as events.
func (m *Module) Start(_ context.Context) error {
	if m.eventBus == nil {
		m.logger.Warn("eventBus not set, task events will not be published")
	}
	m.unsubscribe = m.store.Subscribe(m.publishChange)

	snap := m.store.Snapshot()
	m.logger.Info("Todo module started",
		"todoList", len(snap.TodoList),
		"completed", len(snap.Completed))
	return nil
}

// Stop detaches the module from the store.
func (m *Module) Stop(_ context.Context) error {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.logger.Info("Todo module stopped")
	return nil
}

// Health reports the size of both collections.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	snap := m.store.Snapshot()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"todo_list": len(snap.TodoList),
			"completed": len(snap.Completed),
		},
	}
}

// Store returns the task store owned by the application.
func (m *Module) Store() *task.Store {
	return m.store
}
