// Package fileutil provides file copying, directory statistics, and the
// human-readable size formatting used in client details.
package fileutil

import (
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// CopyFile streams src to dst using io.Copy with default permissions (0o644).
func CopyFile(src, dst string) error {
	return CopyFileMode(src, dst, 0o644)
}

// CopyFileMode streams src to dst, setting the given file mode on dst.
func CopyFileMode(src, dst string, mode os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

// CopyDirFlat copies the regular files directly inside srcDir into dstDir.
// Subdirectories are skipped. A missing srcDir is a no-op.
func CopyDirFlat(srcDir, dstDir string) error {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if err := CopyFile(filepath.Join(srcDir, entry.Name()), filepath.Join(dstDir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

// DirStats reports the recursive byte total and regular-file count under root.
// A missing root yields zeros.
func DirStats(root string) (totalSize int64, fileCount int, err error) {
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			return nil
		}
		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}
		totalSize += info.Size()
		fileCount++
		return nil
	})
	if err != nil && os.IsNotExist(err) {
		return 0, 0, nil
	}
	return totalSize, fileCount, err
}

// CountEntries returns the number of entries directly inside dir, or zero when
// the directory does not exist.
func CountEntries(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	return len(entries)
}

var sizeUnits = []string{"B", "KB", "MB", "GB"}

// FormatBytes renders a byte count with base-1024 units and at most two
// decimal places, trailing zeros trimmed. Counts past GB stay in GB.
func FormatBytes(b int64) string {
	if b == 0 {
		return "0 B"
	}
	i := int(math.Floor(math.Log(float64(b)) / math.Log(1024)))
	if i >= len(sizeUnits) {
		i = len(sizeUnits) - 1
	}
	value := float64(b) / math.Pow(1024, float64(i))
	s := strconv.FormatFloat(value, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s + " " + sizeUnits[i]
}
