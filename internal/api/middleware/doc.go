// Package middleware provides the HTTP middleware that sits alongside the
// request tracer.
//
//   - CORS: cross-origin access with X-Request-Id exposed to browsers
//   - RateLimit: per-IP token bucket, idle clients evicted on access
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
//	router.Use(middleware.RateLimit(middleware.DefaultRateLimitConfig()))
package middleware
