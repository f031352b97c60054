// Package registry manages the on-disk client tree and its in-memory listing
// cache.
//
// The filesystem is the database: each client is a <base>/<Name>/<date>
// directory holding the three fixed subfolders and a metadata sidecar. The
// registry creates, renames, duplicates, soft-deletes, and summarizes those
// directories, and keeps a process-wide listing snapshot that every mutating
// operation invalidates. The snapshot is replaced with a single atomic pointer
// swap, so overlapping List calls and invalidations never observe a
// half-built cache.
package registry
