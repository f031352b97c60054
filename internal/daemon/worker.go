package daemon

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"time"

	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/preflight"
	"mechanicflow/internal/queue"
	"mechanicflow/internal/services"
	"mechanicflow/internal/services/ffmpeg"
)

func (d *Daemon) pollInterval() time.Duration {
	seconds := d.cfg.Workflow.JobPollInterval
	if seconds <= 0 {
		seconds = 1
	}
	return time.Duration(seconds) * time.Second
}

// runWorker drains the job queue until the daemon context is cancelled. Jobs
// are processed one at a time; compression is CPU bound and parallel encodes
// only slow each other down.
func (d *Daemon) runWorker(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.pollInterval())
	defer ticker.Stop()

	for {
		for {
			job, err := d.store.ClaimNext(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				d.logger.Error("claim job", logging.Error(err))
				break
			}
			if job == nil {
				break
			}
			d.processJob(ctx, job)
			if ctx.Err() != nil {
				return
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (d *Daemon) processJob(ctx context.Context, job *queue.Job) {
	ctx = services.WithJobID(services.WithClientID(ctx, job.ClientID), job.ID)
	logger := logging.WithContext(ctx, d.logger).With(logging.String("profile", job.Profile))
	logger.Info("job started", logging.String("input", job.InputPath))

	result, err := d.compress(ctx, job)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			// Shutdown mid-encode; the startup recovery requeues it.
			logger.Info("job interrupted")
			return
		}
		logger.Error("job failed", logging.Error(err))
		if markErr := d.store.MarkFailed(ctx, job.ID, err.Error()); markErr != nil {
			logger.Error("record job failure", logging.Error(markErr))
		}
		return
	}

	if err := d.store.MarkCompleted(ctx, job.ID, result.OutputPath, result.InputSize, result.OutputSize, result.SavedPercent); err != nil {
		logger.Error("record job completion", logging.Error(err))
		return
	}

	file := metadata.FileRecord{
		Name:         filepath.Base(result.OutputPath),
		Path:         result.OutputPath,
		Type:         "video",
		Size:         result.OutputSize,
		Profile:      result.Profile,
		SavedPercent: int(math.Round(result.SavedPercent)),
	}
	if _, err := d.registry.AddFile(job.ClientID, file); err != nil {
		logger.Warn("register compressed file", logging.Error(err))
	}

	logger.Info("job completed",
		logging.String("output", result.OutputPath),
		logging.Float64("saved_percent", result.SavedPercent))
}

func (d *Daemon) compress(ctx context.Context, job *queue.Job) (*ffmpeg.Result, error) {
	profile, err := ffmpeg.LookupProfile(job.Profile)
	if err != nil {
		return nil, err
	}

	clientDir, err := d.registry.ResolvePath(job.ClientID)
	if err != nil {
		return nil, err
	}
	outputDir := filepath.Join(clientDir, metadata.SubfolderProcessed)

	required := uint64(d.cfg.Transcode.MinFreeMiB) * 1024 * 1024
	if err := preflight.CheckFreeSpace(clientDir, required); err != nil {
		return nil, err
	}

	var lastPercent float64 = -1
	return d.encoder.Compress(ctx, job.InputPath, outputDir, profile, func(update ffmpeg.ProgressUpdate) {
		if update.Percent-lastPercent < 1 {
			return
		}
		lastPercent = update.Percent
		if err := d.store.UpdateProgress(ctx, job.ID, update.Percent); err != nil {
			d.logger.Warn("update job progress", logging.Error(err))
		}
	})
}
