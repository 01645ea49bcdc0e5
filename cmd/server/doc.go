// Package main is the entry point for the WebDesk desktop backend.
//
// The server holds simulated desktop sessions in memory. A browser frontend
// sends user intents over REST and re-renders from the snapshots returned by
// every call and pushed over each session's WebSocket stream.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Production mode
//	./server -port 8000
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown within SHUTDOWN_TIMEOUT
package main
