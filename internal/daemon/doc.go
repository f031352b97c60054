// Package daemon coordinates background compression work and enforces
// single-instance execution.
//
// The daemon owns a lock file, drains the job queue through a polling worker,
// and records finished outputs back into the client registry so the sidecar
// file list stays consistent with what lands in procesados/.
package daemon
