// Package http provides the JSON endpoints of the demo service.
//
// Endpoints:
//   - GET /           service banner
//   - GET /health     liveness plus open websocket sessions
//   - GET /api/hello  {"message":"hello","ts":<ISO-8601>}
//   - GET /api/http   {"message":"HTTP request received","timestamp":<ISO-8601>}
//
// The two greeting endpoints share one implementation and differ only in
// their message and timestamp key.
package http
