// Package tasks manages the task list embedded in a client's metadata
// sidecar.
//
// Tasks never exist outside their parent client record; every operation is a
// sidecar read-modify-write through the metadata store. Update keeps a quirk
// callers depend on: with an absent or empty task list it returns nil without
// error, while an id missing from a non-empty list is ErrTaskNotFound.
package tasks
