/*
Package monitoring provides Prometheus metrics for the desktop backend.

# Overview

Each Metrics value owns a private registry. It tracks HTTP traffic, desktop
session lifecycle, window manager and explorer operations, lock screen
attempts and WebSocket connections.

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	metrics.RecordWindowOp("close", changed)
*/
package monitoring
