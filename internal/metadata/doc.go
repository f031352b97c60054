// Package metadata reads and writes the per-client JSON sidecar.
//
// The sidecar (metadata.json) is the single durable record for a client:
// identity, status flags, file records, and the embedded task list. Every
// mutation is a whole-file read-modify-write; Store serializes writers per
// client directory with an in-process mutex table and lands writes through a
// temp file plus rename so a crash never leaves a truncated sidecar. Two
// daemon processes writing the same sidecar are still unsynchronized; the
// daemon's flock guard is what rules that out in practice.
package metadata
