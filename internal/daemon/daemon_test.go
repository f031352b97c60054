package daemon_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mechanicflow/internal/daemon"
	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/queue"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/services/ffmpeg"
	"mechanicflow/internal/testsupport"
)

type fakeEncoder struct {
	err   error
	calls int
}

func (f *fakeEncoder) Compress(ctx context.Context, inputPath, outputDir string, profile ffmpeg.Profile, progress func(ffmpeg.ProgressUpdate)) (*ffmpeg.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, err
	}
	outputPath := filepath.Join(outputDir, ffmpeg.OutputName(inputPath, profile))
	if err := os.WriteFile(outputPath, []byte("compressed"), 0o644); err != nil {
		return nil, err
	}
	if progress != nil {
		progress(ffmpeg.ProgressUpdate{Percent: 100})
	}
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}
	return &ffmpeg.Result{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		Profile:      profile.Name,
		InputSize:    info.Size(),
		OutputSize:   10,
		SavedPercent: 75,
	}, nil
}

func waitForTerminal(t *testing.T, store *queue.Store, id int64) *queue.Job {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job, err := store.GetByID(context.Background(), id)
		if err != nil {
			t.Fatalf("GetByID: %v", err)
		}
		if job != nil && job.IsTerminal() {
			return job
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal state")
	return nil
}

func TestDaemonProcessesQueuedJob(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPollInterval(1))
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(cfg.Paths.BaseDir, metadata.NewStore(logging.NewNop()), logging.NewNop())

	rec, err := reg.Create("Juan Pérez")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	clientDir, err := reg.ResolvePath(rec.ID)
	if err != nil {
		t.Fatalf("ResolvePath: %v", err)
	}
	input := filepath.Join(clientDir, metadata.SubfolderOriginals, "motor.mov")
	testsupport.WriteFile(t, input, 2048)

	job := testsupport.EnqueueJob(t, store, rec.ID, input, "GENERAL")

	encoder := &fakeEncoder{}
	d, err := daemon.New(cfg, store, reg, encoder, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	finished := waitForTerminal(t, store, job.ID)
	if finished.Status != queue.StatusCompleted {
		t.Fatalf("expected completed job, got %q (%s)", finished.Status, finished.ErrorMessage)
	}
	if finished.SavedPercent != 75 {
		t.Fatalf("expected saved percent 75, got %f", finished.SavedPercent)
	}
	if encoder.calls != 1 {
		t.Fatalf("expected a single encode, got %d", encoder.calls)
	}

	// Output registered in the client sidecar.
	deadline := time.Now().Add(2 * time.Second)
	for {
		recAfter, err := metadata.NewStore(logging.NewNop()).Read(clientDir)
		if err != nil {
			t.Fatalf("Read metadata: %v", err)
		}
		if len(recAfter.Files) == 1 {
			if recAfter.Files[0].Profile != "GENERAL" || recAfter.Files[0].SavedPercent != 75 {
				t.Fatalf("unexpected file record: %#v", recAfter.Files[0])
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expected file record in sidecar, got %#v", recAfter.Files)
		}
		time.Sleep(20 * time.Millisecond)
	}
}

func TestDaemonMarksFailedJobs(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPollInterval(1))
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(cfg.Paths.BaseDir, metadata.NewStore(logging.NewNop()), logging.NewNop())

	rec, err := reg.Create("Taller Norte")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	job := testsupport.EnqueueJob(t, store, rec.ID, "/videos/missing.mov", "RAPIDO")

	encoder := &fakeEncoder{err: errors.New("ffmpeg exited 1")}
	d, err := daemon.New(cfg, store, reg, encoder, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	finished := waitForTerminal(t, store, job.ID)
	if finished.Status != queue.StatusFailed {
		t.Fatalf("expected failed job, got %q", finished.Status)
	}
	if finished.ErrorMessage != "ffmpeg exited 1" {
		t.Fatalf("unexpected error message %q", finished.ErrorMessage)
	}
}

func TestDaemonRejectsUnknownProfile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithPollInterval(1))
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(cfg.Paths.BaseDir, metadata.NewStore(logging.NewNop()), logging.NewNop())

	rec, err := reg.Create("Chapa y Pintura")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	job := testsupport.EnqueueJob(t, store, rec.ID, "/videos/a.mov", "EXTREMO")

	d, err := daemon.New(cfg, store, reg, &fakeEncoder{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	finished := waitForTerminal(t, store, job.ID)
	if finished.Status != queue.StatusFailed {
		t.Fatalf("expected failed job, got %q", finished.Status)
	}
}

func TestDaemonSingleInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(cfg.Paths.BaseDir, metadata.NewStore(logging.NewNop()), logging.NewNop())

	first, err := daemon.New(cfg, store, reg, &fakeEncoder{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := first.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer first.Stop()

	second, err := daemon.New(cfg, store, reg, &fakeEncoder{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := second.Start(context.Background()); err == nil {
		second.Stop()
		t.Fatal("expected second instance to fail to start")
	}
}

func TestDaemonStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	reg := registry.New(cfg.Paths.BaseDir, metadata.NewStore(logging.NewNop()), logging.NewNop())

	d, err := daemon.New(cfg, store, reg, &fakeEncoder{}, logging.NewNop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	status, err := d.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.Running {
		t.Fatal("expected stopped daemon")
	}
	if status.SessionID == "" {
		t.Fatal("expected session id")
	}

	if err := d.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer d.Stop()

	status, err = d.Status(context.Background())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.Running || status.StartedAt.IsZero() {
		t.Fatalf("expected running status with start time, got %#v", status)
	}
}
