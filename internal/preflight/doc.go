// Package preflight runs cheap checks before expensive filesystem operations:
// free disk space ahead of a compression or duplication, so the work fails
// fast instead of dying halfway with a full disk.
package preflight
