package api

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/modules/activity"
	"github.com/example/todo-list-demo/modules/broadcast"
	"github.com/example/todo-list-demo/modules/todo"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var errInvalidBody = errors.New("invalid request body")

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	// WebSocket endpoint
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(m.handleWebSocket))

	// REST API v1
	api := app.Group("/api/v1")

	api.Get("/tasks", m.listTasks)
	api.Post("/tasks", m.addTask)
	api.Put("/tasks/:id", m.editTask)
	api.Post("/tasks/:id/complete", m.completeTask)
	api.Delete("/tasks/:id", m.deleteTask)

	api.Get("/activity", m.listActivity)
	api.Get("/activity/:id", m.getActivity)
}

// healthHandler handles GET /health.
func (m *Module) healthHandler(c *fiber.Ctx) error {
	details := map[string]any{
		"module": "api",
	}
	if m.hub != nil {
		details["connected_clients"] = m.hub.ClientCount()
	}
	return c.JSON(HealthResponse{
		Status:  "healthy",
		Details: details,
	})
}

// listTasks handles GET /api/v1/tasks.
func (m *Module) listTasks(c *fiber.Ctx) error {
	snap, err := m.todoPort.ListTasks(c.UserContext())
	if err != nil {
		return m.internalError(c, "list_failed", "Failed to list tasks", err)
	}
	return c.JSON(snap)
}

// addTask handles POST /api/v1/tasks.
func (m *Module) addTask(c *fiber.Ctx) error {
	title, err := parseTitle(c)
	if err != nil {
		return titleError(c, err)
	}

	created, err := m.todoPort.AddTask(c.UserContext(), title)
	if err != nil {
		return m.internalError(c, "add_failed", "Failed to add task", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// editTask handles PUT /api/v1/tasks/:id.
func (m *Module) editTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return badRequest(c, "Task id must be an integer")
	}
	title, err := parseTitle(c)
	if err != nil {
		return titleError(c, err)
	}

	edited, err := m.todoPort.EditTask(c.UserContext(), id, title)
	if errors.Is(err, todo.ErrTaskNotFound) {
		return notFound(c, "Task not found in todo list")
	}
	if err != nil {
		return m.internalError(c, "edit_failed", "Failed to edit task", err)
	}
	return c.JSON(edited)
}

// completeTask handles POST /api/v1/tasks/:id/complete.
func (m *Module) completeTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return badRequest(c, "Task id must be an integer")
	}

	completed, err := m.todoPort.CompleteTask(c.UserContext(), id)
	if errors.Is(err, todo.ErrTaskNotFound) {
		return notFound(c, "Task not found in todo list")
	}
	if err != nil {
		return m.internalError(c, "complete_failed", "Failed to complete task", err)
	}
	return c.JSON(completed)
}

// deleteTask handles DELETE /api/v1/tasks/:id.
// Deleting an unknown or completed task succeeds without changing anything.
func (m *Module) deleteTask(c *fiber.Ctx) error {
	id, err := parseTaskID(c)
	if err != nil {
		return badRequest(c, "Task id must be an integer")
	}

	if _, err := m.todoPort.DeleteTask(c.UserContext(), id); err != nil {
		return m.internalError(c, "delete_failed", "Failed to delete task", err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// listActivity handles GET /api/v1/activity.
func (m *Module) listActivity(c *fiber.Ctx) error {
	req := activity.ListActivityRequest{Limit: m.cfg.ActivityLimit}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "Invalid limit")
		}
		req.Limit = limit
	}
	if raw := c.Query("task_id"); raw != "" {
		id, err := task.ParseID(raw)
		if err != nil {
			return badRequest(c, "Invalid task_id")
		}
		req.TaskID = int64(id)
	}
	if req.Limit <= 0 || req.Limit > activity.MaxListLimit {
		return badRequest(c, "limit must be between 1 and 1000")
	}

	resp, err := m.activityPort.ListActivity(c.UserContext(), req)
	if err != nil {
		return m.internalError(c, "list_failed", "Failed to list activity", err)
	}
	return c.JSON(resp)
}

// getActivity handles GET /api/v1/activity/:id.
func (m *Module) getActivity(c *fiber.Ctx) error {
	id := c.Params("id")

	entry, err := m.activityPort.GetActivity(c.UserContext(), id)
	if errors.Is(err, activity.ErrNotFound) {
		return notFound(c, "Activity entry not found")
	}
	if err != nil {
		return m.internalError(c, "get_failed", "Failed to get activity entry", err)
	}
	return c.JSON(entry)
}

// handleWebSocket handles WebSocket connections at /ws.
// The client receives the current snapshot, then a new one after every change.
// The snapshot is read by the hub after registration, so no change is missed in between.
// Incoming messages are read only to detect disconnects.
func (m *Module) handleWebSocket(c *websocket.Conn) {
	clientID := uuid.New().String()

	client := &broadcast.Client{
		ID:   clientID,
		Conn: c,
		Initial: func() (any, error) {
			snap, err := m.todoPort.ListTasks(context.Background())
			if err != nil {
				return nil, fmt.Errorf("load initial snapshot: %w", err)
			}
			return broadcast.NewSnapshotMessage(snap), nil
		},
	}
	m.hub.Register(client)
	defer func() {
		m.hub.Unregister(client)
		m.logger.Info("WebSocket client disconnected", "clientID", clientID)
	}()

	m.logger.Info("WebSocket client connected", "clientID", clientID)

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				m.logger.Debug("WebSocket read error", "clientID", clientID, "error", err)
			}
			return
		}
	}
}

// parseTaskID reads the :id route parameter.
func parseTaskID(c *fiber.Ctx) (task.ID, error) {
	return task.ParseID(c.Params("id"))
}

// parseTitle reads and validates the title from the request body.
func parseTitle(c *fiber.Ctx) (string, error) {
	var req TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return "", fmt.Errorf("%w: %v", errInvalidBody, err)
	}
	if err := task.ValidateTitle(req.Title); err != nil {
		return "", err
	}
	return req.Title, nil
}

func titleError(c *fiber.Ctx, err error) error {
	if errors.Is(err, task.ErrEmptyTitle) {
		return badRequest(c, "Task title is required")
	}
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: message,
	})
}

func notFound(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "not_found",
		Message: message,
	})
}

func (m *Module) internalError(c *fiber.Ctx, code, message string, err error) error {
	m.logger.Error(message, "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   code,
		Message: message,
	})
}
