package tracing

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HTTPMiddleware creates Gin middleware that tags each request with a fresh
// correlation id and logs BEGIN before and END after the rest of the chain.
//
// END is logged from a deferred call, so a panicking handler still produces
// it before the panic reaches gin.Recovery. The status is 500 unless the
// handler had already sent its headers, in which case it is what the client
// actually received.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec := tracer.Begin(c.Request.Method, c.Request.URL.Path)

		c.Header(HeaderRequestID, rec.RequestID.String())
		c.Set(ginRequestIDKey, rec.RequestID)
		c.Request = c.Request.WithContext(WithRequestID(c.Request.Context(), rec.RequestID))

		completed := false
		defer func() {
			status := c.Writer.Status()
			if !completed && !c.Writer.Written() {
				status = http.StatusInternalServerError
			}

			var err error
			if last := c.Errors.Last(); last != nil {
				err = last.Err
			}
			tracer.End(rec, status, err)
		}()

		c.Next()
		completed = true
	}
}
