package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"mechanicflow/internal/config"
	"mechanicflow/internal/deps"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/queue"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/services/ffmpeg"
	"mechanicflow/internal/services/report"
	"mechanicflow/internal/tasks"
)

// Service exposes the command workflows behind the Envelope contract.
type Service struct {
	cfg      *config.Config
	registry *registry.Registry
	tasks    *tasks.Manager
	store    *queue.Store
	reports  *report.Generator
	logger   *slog.Logger
}

// NewService wires the command workflows together.
func NewService(cfg *config.Config, reg *registry.Registry, tm *tasks.Manager, store *queue.Store, reports *report.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		cfg:      cfg,
		registry: reg,
		tasks:    tm,
		store:    store,
		reports:  reports,
		logger:   logging.NewComponentLogger(logger, "api"),
	}
}

func (s *Service) opLogger(operation string) *slog.Logger {
	return s.logger.With(
		logging.String("operation", operation),
		logging.String(logging.FieldCorrelationID, uuid.NewString()))
}

func (s *Service) run(operation string, attrs []logging.Attr, call func() (any, error)) Envelope {
	logger := s.opLogger(operation)
	logger.Debug("command received", logging.Args(attrs...)...)
	payload, err := call()
	if err != nil {
		logger.Warn("command failed", logging.Error(err))
		return Fail(err)
	}
	logger.Debug("command completed")
	return OK(payload)
}

// ClientCreate provisions a new client folder.
func (s *Service) ClientCreate(name string) Envelope {
	return s.run("client_create", []logging.Attr{logging.String("name", name)}, func() (any, error) {
		return s.registry.Create(name)
	})
}

// ClientList returns the active client summaries.
func (s *Service) ClientList() Envelope {
	return s.run("client_list", nil, func() (any, error) {
		return s.registry.List()
	})
}

// ClientDetails returns the storage breakdown for one client.
func (s *Service) ClientDetails(id string) Envelope {
	return s.run("client_details", clientAttrs(id), func() (any, error) {
		return s.registry.Details(id)
	})
}

// ClientPath resolves a client id to its folder on disk, for callers that
// hand the path to a shell or file manager.
func (s *Service) ClientPath(id string) Envelope {
	return s.run("client_path", clientAttrs(id), func() (any, error) {
		dir, err := s.registry.Dir(id)
		if err != nil {
			return nil, err
		}
		return map[string]string{"path": dir}, nil
	})
}

// ClientAddFile records an existing file in the client's metadata.
func (s *Service) ClientAddFile(id string, file metadata.FileRecord) Envelope {
	return s.run("client_add_file", clientAttrs(id), func() (any, error) {
		return s.registry.AddFile(id, file)
	})
}

// ClientRename updates a client's display name and identity.
func (s *Service) ClientRename(id, newName string) Envelope {
	return s.run("client_rename", clientAttrs(id), func() (any, error) {
		return s.registry.Rename(id, newName)
	})
}

// ClientDuplicate deep-copies a client folder under a new identity.
func (s *Service) ClientDuplicate(id, newName string) Envelope {
	return s.run("client_duplicate", clientAttrs(id), func() (any, error) {
		return s.registry.Duplicate(id, newName)
	})
}

// ClientDelete soft-deletes a client into the trash folder.
func (s *Service) ClientDelete(id string) Envelope {
	return s.run("client_delete", clientAttrs(id), func() (any, error) {
		return s.registry.Delete(id)
	})
}

// StatusUpdate merges workflow flags into a client's status.
func (s *Service) StatusUpdate(id string, patch metadata.StatusPatch) Envelope {
	return s.run("status_update", clientAttrs(id), func() (any, error) {
		return s.registry.UpdateStatus(id, patch)
	})
}

// TaskAdd appends a task to a client's list.
func (s *Service) TaskAdd(clientID string, fields tasks.Fields) Envelope {
	return s.run("task_add", clientAttrs(clientID), func() (any, error) {
		return s.tasks.Add(clientID, fields)
	})
}

// TaskUpdate applies a partial update to one task.
func (s *Service) TaskUpdate(clientID, taskID string, patch tasks.Patch) Envelope {
	return s.run("task_update", clientAttrs(clientID), func() (any, error) {
		return s.tasks.Update(clientID, taskID, patch)
	})
}

// TaskDelete removes one task from a client's list.
func (s *Service) TaskDelete(clientID, taskID string) Envelope {
	return s.run("task_delete", clientAttrs(clientID), func() (any, error) {
		if err := s.tasks.Delete(clientID, taskID); err != nil {
			return nil, err
		}
		return nil, nil
	})
}

// CompressEnqueue validates and queues a compression job.
func (s *Service) CompressEnqueue(ctx context.Context, clientID, inputPath, profileName string) Envelope {
	attrs := append(clientAttrs(clientID), logging.String("profile", profileName))
	return s.run("compress_enqueue", attrs, func() (any, error) {
		profile, err := ffmpeg.LookupProfile(profileName)
		if err != nil {
			return nil, err
		}
		if _, err := s.registry.Dir(clientID); err != nil {
			return nil, err
		}
		info, err := os.Stat(inputPath)
		if err != nil {
			return nil, fmt.Errorf("input video: %w", err)
		}
		if info.IsDir() {
			return nil, errors.New("input video is a directory")
		}
		return s.store.Enqueue(ctx, clientID, inputPath, profile.Name)
	})
}

// JobList returns queued jobs, optionally filtered by status names.
func (s *Service) JobList(ctx context.Context, statuses []string) Envelope {
	return s.run("job_list", nil, func() (any, error) {
		parsed := make([]queue.Status, 0, len(statuses))
		for _, raw := range statuses {
			status, ok := queue.ParseStatus(raw)
			if !ok {
				return nil, fmt.Errorf("unknown job status %q", raw)
			}
			parsed = append(parsed, status)
		}
		jobs, err := s.store.List(ctx, parsed...)
		if err != nil {
			return nil, err
		}
		if jobs == nil {
			jobs = []*queue.Job{}
		}
		return jobs, nil
	})
}

// JobDescribe returns one job by id.
func (s *Service) JobDescribe(ctx context.Context, id int64) Envelope {
	return s.run("job_describe", []logging.Attr{logging.Int64(logging.FieldJobID, id)}, func() (any, error) {
		job, err := s.store.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if job == nil {
			return nil, fmt.Errorf("job %d not found", id)
		}
		return job, nil
	})
}

// JobsClear removes finished jobs from the queue.
func (s *Service) JobsClear(ctx context.Context) Envelope {
	return s.run("jobs_clear", nil, func() (any, error) {
		removed, err := s.store.ClearCompleted(ctx)
		if err != nil {
			return nil, err
		}
		return map[string]int64{"removed": removed}, nil
	})
}

// ReportGenerate builds the delivery ZIP for one client.
func (s *Service) ReportGenerate(ctx context.Context, clientID string) Envelope {
	return s.run("report_generate", clientAttrs(clientID), func() (any, error) {
		dir, err := s.registry.ResolvePath(clientID)
		if err != nil {
			return nil, err
		}
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("client folder: %w", err)
		}
		return s.reports.Generate(ctx, dir, nil)
	})
}

// DepsCheck reports availability of the external binaries.
func (s *Service) DepsCheck() Envelope {
	return s.run("deps_check", nil, func() (any, error) {
		return deps.CheckBinaries(deps.Defaults(s.cfg)), nil
	})
}

func clientAttrs(id string) []logging.Attr {
	return []logging.Attr{logging.String(logging.FieldClientID, id)}
}
