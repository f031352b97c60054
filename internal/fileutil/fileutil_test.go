package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.txt")
	dst := filepath.Join(dir, "dst.txt")

	content := []byte("hello world")
	if err := os.WriteFile(src, content, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CopyFile(src, dst); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Fatalf("content mismatch: got %q, want %q", got, content)
	}
}

func TestCopyFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	if err := CopyFile(filepath.Join(dir, "nope"), filepath.Join(dir, "dst")); err == nil {
		t.Fatal("expected error for missing source")
	}
}

func TestCopyDirFlat(t *testing.T) {
	src := t.TempDir()
	dst := t.TempDir()

	if err := os.WriteFile(filepath.Join(src, "a.mp4"), []byte("aaa"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "b.jpg"), []byte("bb"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(src, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "nested", "c.txt"), []byte("c"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := CopyDirFlat(src, dst); err != nil {
		t.Fatalf("CopyDirFlat: %v", err)
	}

	entries, err := os.ReadDir(dst)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 copied files, got %d", len(entries))
	}
	if _, err := os.Stat(filepath.Join(dst, "nested")); !os.IsNotExist(err) {
		t.Fatal("subdirectories should be skipped")
	}
}

func TestCopyDirFlat_MissingSource(t *testing.T) {
	if err := CopyDirFlat(filepath.Join(t.TempDir(), "absent"), t.TempDir()); err != nil {
		t.Fatalf("missing source should be a no-op, got %v", err)
	}
}

func TestDirStats(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "one"), make([]byte, 100), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "sub", "two"), make([]byte, 50), 0o644); err != nil {
		t.Fatal(err)
	}

	size, count, err := DirStats(root)
	if err != nil {
		t.Fatalf("DirStats: %v", err)
	}
	if size != 150 || count != 2 {
		t.Fatalf("got size=%d count=%d, want 150/2", size, count)
	}
}

func TestDirStats_Missing(t *testing.T) {
	size, count, err := DirStats(filepath.Join(t.TempDir(), "absent"))
	if err != nil || size != 0 || count != 0 {
		t.Fatalf("missing root should yield zeros, got %d/%d err=%v", size, count, err)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{512, "512 B"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{1048576, "1 MB"},
		{1572864, "1.5 MB"},
		{1073741824, "1 GB"},
		{5 << 40, "5120 GB"}, // past GB clamps to GB
	}
	for _, tc := range cases {
		if got := FormatBytes(tc.in); got != tc.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
