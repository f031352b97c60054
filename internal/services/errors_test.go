package services

import (
	"errors"
	"testing"
)

func TestWrapPreservesMarker(t *testing.T) {
	base := errors.New("disk exploded")
	err := Wrap(ErrNotFound, "registry", "rename", "client missing", base)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound marker, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
}

func TestWrapWithoutCause(t *testing.T) {
	err := Wrap(ErrTaskNotFound, "tasks", "update", "", nil)
	if !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound marker, got %v", err)
	}
	want := "task not found: tasks: update"
	if err.Error() != want {
		t.Fatalf("unexpected message %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaults(t *testing.T) {
	err := Wrap(nil, "ffmpeg", "encode", "exit status 1", nil)
	if !errors.Is(err, ErrExternalTool) {
		t.Fatalf("expected ErrExternalTool default, got %v", err)
	}
}
