package activity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/example/todo-list-demo/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Module records task events in a session-scoped activity log (driven adapter).
type Module struct {
	db      *gorm.DB
	repo    *Repository
	dbPath  string
	dbDebug bool
	logger  types.Logger
}

// Compile-time interface checks
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new activity module backed by the SQLite database at dbPath.
func NewModule(dbPath string, dbDebug bool, logger types.Logger) *Module {
	return &Module{
		dbPath:  dbPath,
		dbDebug: dbDebug,
		logger:  logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "activity"
}

// RegisterEventConsumers subscribes to every task event.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskAddedV1, m.handleTaskAdded, m); err != nil {
		return fmt.Errorf("failed to register TaskAdded consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskEditedV1, m.handleTaskEdited, m); err != nil {
		return fmt.Errorf("failed to register TaskEdited consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskCompletedV1, m.handleTaskCompleted, m); err != nil {
		return fmt.Errorf("failed to register TaskCompleted consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.TaskDeletedV1, m.handleTaskDeleted, m); err != nil {
		return fmt.Errorf("failed to register TaskDeleted consumer: %w", err)
	}

	m.logger.Info("Registered event consumers",
		"events", "TaskAdded, TaskEdited, TaskCompleted, TaskDeleted")
	return nil
}

// RegisterServices registers request-reply services in the service container.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, "list-activity", json.Unmarshal, json.Marshal, m.listActivity,
	); err != nil {
		return fmt.Errorf("failed to register list-activity service: %w", err)
	}
	if err := helper.RegisterTypedRequestReplyService(
		container, "get-activity", json.Unmarshal, json.Marshal, m.getActivity,
	); err != nil {
		return fmt.Errorf("failed to register get-activity service: %w", err)
	}

	m.logger.Info("Registered services", "services", "list-activity, get-activity")
	return nil
}

// Start opens the database and runs migrations.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Connecting to SQLite database", "path", m.dbPath)

	logLevel := logger.Silent
	if m.dbDebug {
		logLevel = logger.Info
	}

	db, err := openDB(m.dbPath, logLevel)
	if err != nil {
		return err
	}

	m.db = db
	m.repo = NewRepository(db)

	m.logger.Info("Activity module started")
	return nil
}

// Stop closes the database connection.
func (m *Module) Stop(_ context.Context) error {
	if m.db == nil {
		return nil
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	m.logger.Info("Activity module stopped")
	return nil
}

// Health pings the database.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.db == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}

	sqlDB, err := m.db.DB()
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("failed to get sql.DB: %v", err),
		}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}

	count, err := m.repo.Count(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: err.Error(),
		}
	}

	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"driver":  "sqlite",
			"path":    m.dbPath,
			"entries": count,
		},
	}
}

// openDB opens a SQLite database and migrates the activity schema.
// The pool holds a single connection so ":memory:" databases are not split.
func openDB(path string, level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func (m *Module) handleTaskAdded(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.record(ctx, TypeTaskAdded, event, fmt.Sprintf("New task '%s' added", event.Title))
}

func (m *Module) handleTaskEdited(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.record(ctx, TypeTaskEdited, event, fmt.Sprintf("Task %d renamed to '%s'", event.TaskID, event.Title))
}

func (m *Module) handleTaskCompleted(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.record(ctx, TypeTaskCompleted, event,
		fmt.Sprintf("Task '%s' completed on %s", event.Title, event.CompletionDate))
}

func (m *Module) handleTaskDeleted(ctx context.Context, event events.TaskEvent, _ *mono.Msg) error {
	return m.record(ctx, TypeTaskDeleted, event, fmt.Sprintf("Task '%s' deleted", event.Title))
}

func (m *Module) record(ctx context.Context, entryType string, event events.TaskEvent, message string) error {
	if m.repo == nil {
		return fmt.Errorf("activity module not started")
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	entry := &Entry{
		ID:         uuid.New().String(),
		TaskID:     event.TaskID,
		Type:       entryType,
		Message:    message,
		OccurredAt: occurredAt,
	}
	if err := m.repo.Create(ctx, entry); err != nil {
		m.logger.Error("Failed to record activity", "type", entryType, "taskID", event.TaskID, "error", err)
		return err
	}

	m.logger.Debug("Activity recorded", "type", entryType, "taskID", event.TaskID)
	return nil
}

// listActivity handles the list-activity service request.
func (m *Module) listActivity(ctx context.Context, req ListActivityRequest, _ *mono.Msg) (ListActivityResponse, error) {
	if m.repo == nil {
		return ListActivityResponse{}, fmt.Errorf("activity module not started")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	entries, err := m.repo.ListRecent(ctx, req.TaskID, limit)
	if err != nil {
		return ListActivityResponse{}, err
	}
	total, err := m.repo.Count(ctx)
	if err != nil {
		return ListActivityResponse{}, err
	}

	resp := ListActivityResponse{
		Entries: make([]EntryResponse, 0, len(entries)),
		Total:   total,
	}
	for _, e := range entries {
		resp.Entries = append(resp.Entries, toEntryResponse(e))
	}
	return resp, nil
}

// getActivity handles the get-activity service request.
func (m *Module) getActivity(ctx context.Context, req GetActivityRequest, _ *mono.Msg) (GetActivityResponse, error) {
	if m.repo == nil {
		return GetActivityResponse{}, fmt.Errorf("activity module not started")
	}

	entry, err := m.repo.FindByID(ctx, req.ID)
	if errors.Is(err, ErrNotFound) {
		return GetActivityResponse{Found: false}, nil
	}
	if err != nil {
		return GetActivityResponse{}, err
	}

	resp := toEntryResponse(entry)
	return GetActivityResponse{Found: true, Entry: &resp}, nil
}

func toEntryResponse(e *Entry) EntryResponse {
	return EntryResponse{
		ID:         e.ID,
		TaskID:     e.TaskID,
		Type:       e.Type,
		Message:    e.Message,
		OccurredAt: e.OccurredAt,
	}
}
