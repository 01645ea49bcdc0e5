// Package server wires configuration, logging, metrics, tracing, the desktop
// session manager and the HTTP and WebSocket handlers into one http.Server.
package server
