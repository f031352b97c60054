// Package services defines the shared error taxonomy and context plumbing used
// across MechanicFlow components.
//
// Sentinel errors classify failures at the command boundary: the api package
// inspects them to decide which short message reaches the caller, and the
// daemon uses them to decide whether a transcode job is retryable. Wrap builds
// consistently formatted errors that carry component and operation context
// while remaining matchable with errors.Is.
//
// Context helpers attach client identifiers, job identifiers, and request
// correlation ids so the logging package can derive structured fields without
// every call site threading them manually.
package services
