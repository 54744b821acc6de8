/*
Package monitoring provides Prometheus metrics for the demo service.

# Overview

Metrics live on a private registry so several servers (or tests) can coexist
in one process. The collector tracks:

- HTTP requests by method, route and status, with latency and response size
- open websocket sessions per endpoint
- websocket text messages per endpoint and direction
- websocket transport errors per endpoint
- process uptime

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
