/*
Package tracing provides per-request correlation and timing logs.

# Overview

Every request passing through HTTPMiddleware gets a fresh UUID correlation
id. The id is written to the X-Request-Id response header and stored in both
the request context and the gin context. The tracer logs a BEGIN line on entry
and an END line on exit:

	BEGIN request_id=... method=GET path=/api/hello
	END   request_id=... status=200 took_ms=0

END is emitted on every exit path. If a downstream handler panics, END is
logged with status 500, or with the status already sent if the handler had
written its headers, and the panic keeps unwinding to gin.Recovery.

# Usage

	tracer := tracing.New(logger.Component("tracer"))
	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))

	// Inside a handler
	rid := tracing.GetRequestID(c.Request.Context())
*/
package tracing
