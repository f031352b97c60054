// Package logging builds slog loggers with console and JSON handlers plus the
// typed attribute helpers used across MechanicFlow.
//
// Components receive child loggers tagged with a component field. Context
// helpers lift client ids, job ids, and correlation ids out of a
// context.Context so handlers emit them uniformly. NewNop returns a logger
// that discards everything, used as the default in constructors and tests.
package logging
