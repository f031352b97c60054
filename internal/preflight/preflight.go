package preflight

import (
	"fmt"

	"golang.org/x/sys/unix"

	"mechanicflow/internal/fileutil"
)

// FreeSpace reports the bytes available to unprivileged writes on the
// filesystem containing path.
func FreeSpace(path string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return 0, fmt.Errorf("statfs %s: %w", path, err)
	}
	return stat.Bavail * uint64(stat.Bsize), nil
}

// CheckFreeSpace fails when the filesystem containing path has fewer than
// required bytes available.
func CheckFreeSpace(path string, required uint64) error {
	available, err := FreeSpace(path)
	if err != nil {
		return err
	}
	if available < required {
		return fmt.Errorf("insufficient disk space at %s: %s available, %s required",
			path, fileutil.FormatBytes(int64(available)), fileutil.FormatBytes(int64(required)))
	}
	return nil
}
