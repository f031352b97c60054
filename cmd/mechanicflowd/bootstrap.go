package main

import (
	"log/slog"

	"mechanicflow/internal/api"
	"mechanicflow/internal/config"
	"mechanicflow/internal/daemon"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/queue"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/services/ffmpeg"
	"mechanicflow/internal/services/report"
	"mechanicflow/internal/tasks"
)

func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", cfg.LogFilePath()},
	})
}

// bootstrap assembles the daemon and the shared command service from one
// config. Both sides must observe the same registry instance so cache
// invalidation after worker writes reaches IPC listings.
func bootstrap(cfg *config.Config, store *queue.Store, logger *slog.Logger) (*daemon.Daemon, *api.Service, error) {
	metaStore := metadata.NewStore(logger)
	reg := registry.New(cfg.Paths.BaseDir, metaStore, logger)
	taskManager := tasks.NewManager(cfg.Paths.BaseDir, metaStore, reg, logger)
	reports := report.NewGenerator(metaStore, cfg.Archive.CompressionLevel, logger)

	encoder := ffmpeg.NewCLI(
		ffmpeg.WithBinary(cfg.Transcode.FFmpegBinary),
		ffmpeg.WithProbeBinary(cfg.Transcode.FFprobeBinary),
	)

	d, err := daemon.New(cfg, store, reg, encoder, logger)
	if err != nil {
		return nil, nil, err
	}

	svc := api.NewService(cfg, reg, taskManager, store, reports, logger)
	return d, svc, nil
}
