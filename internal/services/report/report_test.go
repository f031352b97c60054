package report

import (
	"archive/zip"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"mechanicflow/internal/logging"
	"mechanicflow/internal/metadata"
	"mechanicflow/internal/services"
)

func newClientDir(t *testing.T, store *metadata.Store, name string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name, "2026-03-14")
	for _, sub := range metadata.Subfolders {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	rec := &metadata.Record{
		ID:        name + "_2026-03-14_1700000000000",
		Name:      name,
		CreatedAt: time.Now().UTC(),
		Files:     []metadata.FileRecord{},
		Tasks:     []metadata.Task{},
	}
	if err := store.Write(dir, rec); err != nil {
		t.Fatalf("write metadata: %v", err)
	}
	return dir
}

func writeFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("payload-"+name), 0o644); err != nil {
			t.Fatalf("write file: %v", err)
		}
	}
}

func TestGenerateBundlesVideosPhotosAndSummary(t *testing.T) {
	store := metadata.NewStore(logging.NewNop())
	dir := newClientDir(t, store, "Juan Pérez")
	writeFiles(t, filepath.Join(dir, metadata.SubfolderProcessed), "motor_general.mp4")
	writeFiles(t, filepath.Join(dir, metadata.SubfolderPhotos), "frente.jpg", "lateral.jpg")

	gen := NewGenerator(store, 6, logging.NewNop())
	var updates []Progress
	result, err := gen.Generate(context.Background(), dir, func(p Progress) {
		updates = append(updates, p)
	})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}

	if result.Name != "Reporte_Juan Pérez_2026-03-14.zip" {
		t.Fatalf("unexpected archive name %q", result.Name)
	}
	if result.Entries != 4 {
		t.Fatalf("expected 4 entries, got %d", result.Entries)
	}
	if result.Size == 0 {
		t.Fatal("expected non-empty archive")
	}

	reader, err := zip.OpenReader(result.Path)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer reader.Close()

	got := map[string]bool{}
	for _, f := range reader.File {
		got[f.Name] = true
	}
	for _, want := range []string{"Videos/motor_general.mp4", "Fotos/frente.jpg", "Fotos/lateral.jpg", "resumen.json"} {
		if !got[want] {
			t.Fatalf("archive missing entry %q, got %v", want, got)
		}
	}

	if len(updates) != 4 {
		t.Fatalf("expected 4 progress updates, got %d", len(updates))
	}
	last := updates[len(updates)-1]
	if last.Percent != 100 || last.Processed != last.Total {
		t.Fatalf("expected completed progress, got %+v", last)
	}
}

func TestGenerateSanitizesClientNameInArchive(t *testing.T) {
	store := metadata.NewStore(logging.NewNop())
	dir := filepath.Join(t.TempDir(), "Taller", "2026-03-14")
	if err := os.MkdirAll(filepath.Join(dir, metadata.SubfolderPhotos), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFiles(t, filepath.Join(dir, metadata.SubfolderPhotos), "chapa.jpg")
	rec := &metadata.Record{ID: "x_2026-03-14_1", Name: `Taller "El Rayo"/Norte`, Files: []metadata.FileRecord{}, Tasks: []metadata.Task{}}
	if err := store.Write(dir, rec); err != nil {
		t.Fatalf("write metadata: %v", err)
	}

	gen := NewGenerator(store, 6, logging.NewNop())
	result, err := gen.Generate(context.Background(), dir, nil)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if result.Name != "Reporte_Taller _El Rayo__Norte_2026-03-14.zip" {
		t.Fatalf("unexpected archive name %q", result.Name)
	}
}

func TestGenerateFailsWithoutSources(t *testing.T) {
	store := metadata.NewStore(logging.NewNop())
	dir := filepath.Join(t.TempDir(), "Vacio", "2026-03-14")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	gen := NewGenerator(store, 6, logging.NewNop())
	if _, err := gen.Generate(context.Background(), dir, nil); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGenerateHonoursCancellation(t *testing.T) {
	store := metadata.NewStore(logging.NewNop())
	dir := newClientDir(t, store, "Cancelado")
	writeFiles(t, filepath.Join(dir, metadata.SubfolderPhotos), "a.jpg", "b.jpg")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	gen := NewGenerator(store, 6, logging.NewNop())
	if _, err := gen.Generate(ctx, dir, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "Reporte_Cancelado_2026-03-14.zip")); !os.IsNotExist(err) {
		t.Fatal("expected half-written archive to be removed")
	}
}
