// Package ipc exposes run control over JSON-RPC Unix sockets and ships the
// matching client used by the CLI.
//
// It owns socket lifecycle management and the request/response DTOs. The
// server embeds the controller while the client dials with a short timeout
// so control commands fail fast when no run is serving the socket.
package ipc
