// Package server assembles the demo service.
//
// Middleware order, outermost first:
//  1. gin.Recovery
//  2. tracing.HTTPMiddleware (X-Request-Id, BEGIN/END)
//  3. monitoring.Middleware (when metrics are enabled)
//  4. CORS
//  5. per-IP rate limit (when enabled)
//
// Routes:
//   - GET /, /health, /api/hello, /api/http
//   - GET /ws, /ws-old (websocket echo)
//   - GET /metrics (when metrics are enabled)
//
// Example Usage:
//
//	cfg, err := config.LoadFile(path)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	srv, err := server.NewServer(cfg, nil) // logger built from cfg.Logging
//	if err != nil {
//	    log.Fatal(err)
//	}
//	go srv.Run()
//	defer srv.Close()
package server
