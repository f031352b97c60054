package tasks

import (
	"errors"
	"testing"

	"mechanicflow/internal/metadata"
	"mechanicflow/internal/registry"
	"mechanicflow/internal/services"
)

type countingCache struct{ invalidations int }

func (c *countingCache) Invalidate() { c.invalidations++ }

func newTestManager(t *testing.T) (*Manager, *registry.Registry, string, *countingCache) {
	t.Helper()
	reg := registry.New(t.TempDir(), metadata.NewStore(nil), nil)
	rec, err := reg.Create("Juan Pérez")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	cache := &countingCache{}
	mgr := NewManager(reg.Base(), reg.Store(), cache, nil)
	return mgr, reg, rec.ID, cache
}

func TestAddDefaultsToPending(t *testing.T) {
	mgr, reg, clientID, cache := newTestManager(t)

	task, err := mgr.Add(clientID, Fields{Title: "Revisar frenos", Priority: metadata.PriorityHigh})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Status != metadata.TaskPending {
		t.Fatalf("status = %q, want pending", task.Status)
	}
	if task.ID == "" || task.CreatedAt.IsZero() {
		t.Fatalf("task missing id or creation stamp: %+v", task)
	}

	dir, err := reg.ResolvePath(clientID)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := reg.Store().Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Tasks) != 1 || rec.Tasks[0].Title != "Revisar frenos" {
		t.Fatalf("task not persisted: %+v", rec.Tasks)
	}
	if cache.invalidations == 0 {
		t.Fatal("add must invalidate the listing cache")
	}
}

func TestAddGeneratesDistinctIDs(t *testing.T) {
	mgr, _, clientID, _ := newTestManager(t)
	a, err := mgr.Add(clientID, Fields{Title: "a"})
	if err != nil {
		t.Fatal(err)
	}
	b, err := mgr.Add(clientID, Fields{Title: "b"})
	if err != nil {
		t.Fatal(err)
	}
	if a.ID == b.ID {
		t.Fatalf("task ids collided: %s", a.ID)
	}
}

func TestUpdateMergesFields(t *testing.T) {
	mgr, _, clientID, _ := newTestManager(t)
	task, err := mgr.Add(clientID, Fields{Title: "Cambiar aceite", Priority: metadata.PriorityMedium})
	if err != nil {
		t.Fatal(err)
	}

	done := metadata.TaskCompleted
	updated, err := mgr.Update(clientID, task.ID, Patch{Status: &done})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated == nil {
		t.Fatal("expected updated task")
	}
	if updated.Status != metadata.TaskCompleted {
		t.Fatalf("status not merged: %+v", updated)
	}
	if updated.Title != "Cambiar aceite" || updated.Priority != metadata.PriorityMedium {
		t.Fatalf("unspecified fields clobbered: %+v", updated)
	}
	if updated.UpdatedAt.IsZero() {
		t.Fatal("update should stamp updatedAt")
	}
}

func TestUpdateEmptyListReturnsNil(t *testing.T) {
	mgr, _, clientID, _ := newTestManager(t)
	task, err := mgr.Update(clientID, "whatever", Patch{})
	if err != nil {
		t.Fatalf("empty task list should not error, got %v", err)
	}
	if task != nil {
		t.Fatalf("expected nil task, got %+v", task)
	}
}

func TestUpdateMissingIDInNonEmptyList(t *testing.T) {
	mgr, _, clientID, _ := newTestManager(t)
	if _, err := mgr.Add(clientID, Fields{Title: "uno"}); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Add(clientID, Fields{Title: "dos"}); err != nil {
		t.Fatal(err)
	}

	_, err := mgr.Update(clientID, "no-such-task", Patch{})
	if !errors.Is(err, services.ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestDeleteRemovesTask(t *testing.T) {
	mgr, reg, clientID, _ := newTestManager(t)
	task, err := mgr.Add(clientID, Fields{Title: "borrar"})
	if err != nil {
		t.Fatal(err)
	}

	if err := mgr.Delete(clientID, task.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	dir, err := reg.ResolvePath(clientID)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := reg.Store().Read(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rec.Tasks) != 0 {
		t.Fatalf("task not removed: %+v", rec.Tasks)
	}
}

func TestDeleteMissingTaskIsNoop(t *testing.T) {
	mgr, _, clientID, _ := newTestManager(t)
	if err := mgr.Delete(clientID, "no-such-task"); err != nil {
		t.Fatalf("delete of missing task should be a no-op, got %v", err)
	}
}

func TestOperationsOnMissingClient(t *testing.T) {
	mgr, _, _, _ := newTestManager(t)
	missing := "Nadie_2024-01-01_1"
	if _, err := mgr.Add(missing, Fields{Title: "x"}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Add: expected ErrNotFound, got %v", err)
	}
	if _, err := mgr.Update(missing, "t", Patch{}); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Update: expected ErrNotFound, got %v", err)
	}
	if err := mgr.Delete(missing, "t"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("Delete: expected ErrNotFound, got %v", err)
	}
}
