package todo

import (
	"fmt"
	"time"

	"github.com/example/todo-list-demo/domain/task"
	"github.com/example/todo-list-demo/events"
)

// publishChange publishes the event matching a store change.
// Publishing is best-effort; failures are logged and never undo the mutation.
func (m *Module) publishChange(change task.Change) {
	if m.eventBus == nil {
		return
	}

	event := toTaskEvent(change.Task, m.now())

	var err error
	switch change.Kind {
	case task.ChangeAdded:
		err = events.TaskAddedV1.Publish(m.eventBus, event, nil)
	case task.ChangeEdited:
		err = events.TaskEditedV1.Publish(m.eventBus, event, nil)
	case task.ChangeCompleted:
		err = events.TaskCompletedV1.Publish(m.eventBus, event, nil)
	case task.ChangeDeleted:
		err = events.TaskDeletedV1.Publish(m.eventBus, event, nil)
	default:
		err = fmt.Errorf("unknown change kind %q", change.Kind)
	}

	if err != nil {
		m.logger.Warn("Failed to publish task event",
			"kind", string(change.Kind),
			"taskID", int64(change.Task.ID),
			"error", err)
	}
}

// toTaskEvent converts a task to its event payload.
func toTaskEvent(t task.Task, at time.Time) events.TaskEvent {
	event := events.TaskEvent{
		TaskID:     int64(t.ID),
		Title:      t.Title,
		Completed:  t.Completed,
		OccurredAt: at,
	}
	if t.CompletionDate != nil {
		event.CompletionDate = t.CompletionDate.String()
	}
	return event
}
