// Package api hosts the command workflows shared by the IPC surface and the
// CLI.
//
// Every operation returns an Envelope so callers observe a uniform
// {success, data, error} shape regardless of transport. The Service wires
// the client registry, task manager, job queue, report generator, and
// dependency checks behind that contract and tags each call with a
// correlation id for log tracing.
package api
