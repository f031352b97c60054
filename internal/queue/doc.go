// Package queue persists compression jobs in SQLite and exposes helpers for
// driving their lifecycle.
//
// The Store manages database connections, schema initialization, claim and
// completion transitions, stats queries, and stuck-job recovery. Jobs capture
// the input video, the chosen compression profile, progress, and size
// accounting so the daemon worker and the CLI can coordinate without extra
// state.
//
// The database is transient storage for in-flight work rather than a long-term
// archive. Schema changes bump the version in schema.go; users clear the
// database to adopt the new schema.
package queue
