package metadata

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"mechanicflow/internal/services"
)

func newTestStore() *Store {
	return NewStore(nil)
}

func seedRecord(t *testing.T, store *Store, dir string) *Record {
	t.Helper()
	rec := &Record{
		ID:        "Juan_2024-01-15_1705312800000",
		Name:      "Juan",
		CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		Files:     []FileRecord{},
		Tasks:     []Task{},
	}
	if err := store.Write(dir, rec); err != nil {
		t.Fatalf("seed write: %v", err)
	}
	return rec
}

func TestReadWriteRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore()
	want := seedRecord(t, store, dir)

	got, err := store.Read(dir)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if got.ID != want.ID || got.Name != want.Name {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if got.Files == nil || got.Tasks == nil {
		t.Fatal("empty slices should round-trip as empty, not nil")
	}
}

func TestReadMissingClient(t *testing.T) {
	store := newTestStore()
	_, err := store.Read(filepath.Join(t.TempDir(), "absent"))
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReadCorruptSidecar(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(Path(dir), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := newTestStore()
	_, err := store.Read(dir)
	if !errors.Is(err, services.ErrCorruptMetadata) {
		t.Fatalf("expected ErrCorruptMetadata, got %v", err)
	}
}

func TestWriteLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore()
	seedRecord(t, store, dir)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != FileName {
		t.Fatalf("expected only %s, got %v", FileName, entries)
	}
}

func TestMergeStatusAdditive(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore()
	rec := seedRecord(t, store, dir)
	rec.Status = StatusFlags{Recepcion: true}
	if err := store.Write(dir, rec); err != nil {
		t.Fatal(err)
	}

	yes := true
	flags, err := store.MergeStatus(dir, StatusPatch{Listo: &yes})
	if err != nil {
		t.Fatalf("MergeStatus: %v", err)
	}
	if !flags.Recepcion {
		t.Fatal("merge clobbered unspecified recepcion flag")
	}
	if flags.Desarme || flags.Reparacion {
		t.Fatal("merge set flags it should not touch")
	}
	if !flags.Listo {
		t.Fatal("merge missed the patched flag")
	}

	onDisk, err := store.Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if onDisk.UpdatedAt.IsZero() {
		t.Fatal("merge should stamp updatedAt")
	}
}

func TestUpdateStampsAndPersists(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore()
	seedRecord(t, store, dir)

	updated, err := store.Update(dir, func(r *Record) error {
		r.Name = "Renamed"
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != "Renamed" || updated.UpdatedAt.IsZero() {
		t.Fatalf("unexpected updated record: %+v", updated)
	}

	onDisk, err := store.Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if onDisk.Name != "Renamed" {
		t.Fatal("update not persisted")
	}
}

func TestUpdateMutationErrorSkipsWrite(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore()
	seedRecord(t, store, dir)

	boom := errors.New("boom")
	if _, err := store.Update(dir, func(*Record) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected mutation error, got %v", err)
	}

	onDisk, err := store.Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !onDisk.UpdatedAt.IsZero() {
		t.Fatal("failed mutation must not write")
	}
}

func TestConcurrentUpdatesSerialize(t *testing.T) {
	dir := t.TempDir()
	store := newTestStore()
	seedRecord(t, store, dir)

	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Update(dir, func(r *Record) error {
				r.Files = append(r.Files, FileRecord{Name: "f"})
				return nil
			})
			if err != nil {
				t.Errorf("Update: %v", err)
			}
		}()
	}
	wg.Wait()

	rec, err := store.Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Files) != writers {
		t.Fatalf("lost updates: got %d file records, want %d", len(rec.Files), writers)
	}
}
