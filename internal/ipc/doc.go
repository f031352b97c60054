// Package ipc exposes the command surface over JSON-RPC on a Unix domain
// socket.
//
// The daemon hosts the server; the CLI dials the socket and issues calls.
// Every method answers with an api.Envelope so transport errors and domain
// errors stay distinguishable: an RPC error means the daemon is unreachable,
// a failed envelope means the command ran and was rejected.
package ipc
