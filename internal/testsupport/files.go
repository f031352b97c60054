package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path, and any missing parent directories, with size
// bytes of content derived from the file name. Two fixtures with different
// names get different bytes, so duplicate and archive tests can tell a
// copied file from its source being picked up twice. A size <= 0 writes a
// single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	seed := []byte(filepath.Base(path))
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = seed[i%len(seed)]
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
