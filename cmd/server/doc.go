// Package main is the entry point for the pipeline-demo server.
//
// The server demonstrates a gin request pipeline:
//
//	request → Recovery → Tracer (X-Request-Id, BEGIN/END) → Metrics → CORS → RateLimit → handler
//
// and provides:
//   - GET /api/hello and GET /api/http JSON greetings
//   - /ws and /ws-old websocket echo endpoints
//   - /health and /metrics
//
// Configuration:
//   - Optional YAML file (-config)
//   - Environment variables (12-factor)
//   - CLI flags (override both)
//
// Usage:
//
//	# Production mode
//	./server -port 8080
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# With a config file
//	./server -config ./config.yaml
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
