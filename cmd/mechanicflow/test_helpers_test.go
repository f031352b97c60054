package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mechanicflow/internal/api"
	"mechanicflow/internal/daemon"
	"mechanicflow/internal/ipc"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/services/ffmpeg"
	"mechanicflow/internal/services/report"
	"mechanicflow/internal/tasks"
	"mechanicflow/internal/testsupport"
)

type cliTestEnv struct {
	socketPath string
	configPath string
	baseDir    string
}

type sleepEncoder struct{}

func (sleepEncoder) Compress(ctx context.Context, inputPath, outputDir string, profile ffmpeg.Profile, progress func(ffmpeg.ProgressUpdate)) (*ffmpeg.Result, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(10 * time.Millisecond):
	}
	return &ffmpeg.Result{Profile: profile.Name}, nil
}

// setupCLITestEnv starts an in-process IPC server backed by temp directories
// and returns the socket plus a config file pointing at them.
func setupCLITestEnv(t *testing.T) cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logger := logging.NewNop()

	metaStore := metadata.NewStore(logger)
	reg := registry.New(cfg.Paths.BaseDir, metaStore, logger)
	tm := tasks.NewManager(cfg.Paths.BaseDir, metaStore, reg, logger)
	reports := report.NewGenerator(metaStore, cfg.Archive.CompressionLevel, logger)
	svc := api.NewService(cfg, reg, tm, store, reports, logger)

	d, err := daemon.New(cfg, store, reg, sleepEncoder{}, logger)
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() { d.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.DataDir, "mechanicflowd.sock")
	srv, err := ipc.NewServer(ctx, socket, svc, d, func() {}, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(srv.Close)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	contents := fmt.Sprintf(`[paths]
base_dir = %q
data_dir = %q
log_dir = %q
`, cfg.Paths.BaseDir, cfg.Paths.DataDir, cfg.Paths.LogDir)
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	time.Sleep(50 * time.Millisecond)
	return cliTestEnv{socketPath: socket, configPath: configPath, baseDir: cfg.Paths.BaseDir}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()

	full := append([]string(nil), args...)
	if socket != "" {
		full = append(full, "--socket", socket)
	}
	if configPath != "" {
		full = append(full, "--config", configPath)
	}

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(full)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q, got:\n%s", needle, haystack)
	}
}
