package tasks

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"mechanicflow/internal/clientid"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/services"
)

// Invalidator discards a derived cache after a mutation. Satisfied by the
// client registry.
type Invalidator interface {
	Invalidate()
}

// Manager performs task operations against client sidecars.
type Manager struct {
	base   string
	store  *metadata.Store
	cache  Invalidator
	logger *slog.Logger
	now    func() time.Time
}

// NewManager constructs a Manager rooted at the client base directory. cache
// may be nil when no listing cache needs invalidation.
func NewManager(base string, store *metadata.Store, cache Invalidator, logger *slog.Logger) *Manager {
	return &Manager{
		base:   base,
		store:  store,
		cache:  cache,
		logger: logging.NewComponentLogger(logger, "tasks"),
		now:    time.Now,
	}
}

// Fields carries the caller-supplied attributes of a new task.
type Fields struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Patch carries a partial task update; nil fields keep their prior value.
type Patch struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Status      *string `json:"status,omitempty"`
}

func (m *Manager) invalidate() {
	if m.cache != nil {
		m.cache.Invalidate()
	}
}

// newTaskID builds a task identifier from the current timestamp plus a short
// random suffix so two tasks created in the same instant stay distinct.
func (m *Manager) newTaskID() string {
	return fmt.Sprintf("%d-%s", m.now().UnixMilli(), uuid.NewString()[:8])
}

// Add appends a task to the client's list, defaulting status to pending.
func (m *Manager) Add(clientID string, fields Fields) (*metadata.Task, error) {
	dir, err := clientid.ResolvePath(m.base, clientID)
	if err != nil {
		return nil, err
	}

	status := fields.Status
	if status == "" {
		status = metadata.TaskPending
	}
	task := metadata.Task{
		ID:          m.newTaskID(),
		Title:       fields.Title,
		Description: fields.Description,
		Priority:    fields.Priority,
		Status:      status,
		CreatedAt:   m.now().UTC(),
	}

	_, err = m.store.Update(dir, func(rec *metadata.Record) error {
		rec.Tasks = append(rec.Tasks, task)
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.invalidate()
	m.logger.Info("task added",
		logging.String(logging.FieldClientID, clientID),
		logging.String("task_id", task.ID))
	return &task, nil
}

// Update merges the patch into the task with the given id. A client whose
// task list is absent or empty yields (nil, nil); a non-empty list without the
// id fails with ErrTaskNotFound.
func (m *Manager) Update(clientID, taskID string, patch Patch) (*metadata.Task, error) {
	dir, err := clientid.ResolvePath(m.base, clientID)
	if err != nil {
		return nil, err
	}

	rec, err := m.store.Read(dir)
	if err != nil {
		return nil, err
	}
	if len(rec.Tasks) == 0 {
		return nil, nil
	}

	var updated metadata.Task
	_, err = m.store.Update(dir, func(rec *metadata.Record) error {
		for i := range rec.Tasks {
			if rec.Tasks[i].ID != taskID {
				continue
			}
			task := &rec.Tasks[i]
			if patch.Title != nil {
				task.Title = *patch.Title
			}
			if patch.Description != nil {
				task.Description = *patch.Description
			}
			if patch.Priority != nil {
				task.Priority = *patch.Priority
			}
			if patch.Status != nil {
				task.Status = *patch.Status
			}
			task.UpdatedAt = m.now().UTC()
			updated = *task
			return nil
		}
		return services.Wrap(services.ErrTaskNotFound, "tasks", "update",
			fmt.Sprintf("task %s on client %s", taskID, clientID), nil)
	})
	if err != nil {
		return nil, err
	}

	m.invalidate()
	return &updated, nil
}

// Delete removes the task with the given id. A missing task or an absent list
// is a no-op, not an error.
func (m *Manager) Delete(clientID, taskID string) error {
	dir, err := clientid.ResolvePath(m.base, clientID)
	if err != nil {
		return err
	}

	rec, err := m.store.Read(dir)
	if err != nil {
		return err
	}
	if len(rec.Tasks) == 0 {
		return nil
	}

	_, err = m.store.Update(dir, func(rec *metadata.Record) error {
		kept := rec.Tasks[:0]
		for _, task := range rec.Tasks {
			if task.ID != taskID {
				kept = append(kept, task)
			}
		}
		rec.Tasks = kept
		return nil
	})
	if err != nil {
		return err
	}

	m.invalidate()
	return nil
}
