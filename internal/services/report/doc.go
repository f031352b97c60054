// Package report builds the delivery ZIP for a client folder.
//
// The archive bundles processed videos under Videos/, photos under Fotos/,
// and the client sidecar as resumen.json, compressed with a configurable
// deflate level. Generation walks a fixed entry list and reports per-entry
// progress so long archives stay observable.
package report
