package deps

import (
	"os"
	"path/filepath"
	"testing"

	"mechanicflow/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available {
		t.Fatalf("expected first requirement available, got %#v", results[0])
	}
	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}
}

func TestCheckBinariesEmptyCommand(t *testing.T) {
	results := CheckBinaries([]Requirement{{Name: "Blank", Command: "  "}})
	if results[0].Available {
		t.Fatal("blank command should be unavailable")
	}
	if results[0].Detail != "command not configured" {
		t.Fatalf("unexpected detail %q", results[0].Detail)
	}
}

func TestDefaultsCoverTranscoder(t *testing.T) {
	cfg := config.Default()
	reqs := Defaults(&cfg)
	if len(reqs) != 2 {
		t.Fatalf("expected 2 requirements, got %d", len(reqs))
	}
	if reqs[0].Command != cfg.Transcode.FFmpegBinary || reqs[0].Optional {
		t.Fatalf("ffmpeg requirement wrong: %+v", reqs[0])
	}
	if !reqs[1].Optional {
		t.Fatal("ffprobe should be optional")
	}
}
