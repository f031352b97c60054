package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"mechanicflow/internal/config"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/queue"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/services/ffmpeg"
)

// Daemon coordinates the background compression worker and enforces
// single-instance execution.
type Daemon struct {
	cfg       *config.Config
	logger    *slog.Logger
	store     *queue.Store
	registry  *registry.Registry
	encoder   ffmpeg.Client
	sessionID string

	lockPath string
	lock     *flock.Flock

	running   atomic.Bool
	startedAt time.Time
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool        `json:"running"`
	SessionID    string      `json:"sessionId"`
	StartedAt    time.Time   `json:"startedAt,omitzero"`
	QueueDBPath  string      `json:"queueDbPath"`
	LockFilePath string      `json:"lockFilePath"`
	Jobs         queue.Stats `json:"jobs"`
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, reg *registry.Registry, encoder ffmpeg.Client, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil || reg == nil || encoder == nil {
		return nil, errors.New("daemon requires config, store, registry, and encoder")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:       cfg,
		logger:    logging.NewComponentLogger(logger, "daemon"),
		store:     store,
		registry:  reg,
		encoder:   encoder,
		sessionID: uuid.NewString(),
		lockPath:  lockPath,
		lock:      flock.New(lockPath),
	}, nil
}

// SessionID returns the identifier assigned to this daemon run.
func (d *Daemon) SessionID() string {
	return d.sessionID
}

// Start acquires the daemon lock, recovers interrupted jobs, and launches the
// compression worker.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another mechanicflowd instance is already running")
	}

	reset, err := d.store.ResetStuckRunning(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("recover interrupted jobs: %w", err)
	}
	if reset > 0 {
		d.logger.Warn("requeued interrupted jobs", logging.Int64("count", reset))
	}

	d.ctx, d.cancel = context.WithCancel(ctx)
	d.startedAt = time.Now().UTC()
	d.wg.Add(1)
	go d.runWorker(d.ctx)

	d.running.Store(true)
	d.logger.Info("daemon started",
		logging.String("session_id", d.sessionID),
		logging.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped", logging.String("session_id", d.sessionID))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports the current daemon state together with queue counts.
func (d *Daemon) Status(ctx context.Context) (Status, error) {
	stats, err := d.store.GetStats(ctx)
	if err != nil {
		return Status{}, err
	}
	status := Status{
		Running:      d.running.Load(),
		SessionID:    d.sessionID,
		QueueDBPath:  d.cfg.QueueDBPath(),
		LockFilePath: d.lockPath,
		Jobs:         stats,
	}
	if status.Running {
		status.StartedAt = d.startedAt
	}
	return status, nil
}
