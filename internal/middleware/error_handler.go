package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/SoyuzCL/pos-panchita/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// requestEvent tags a log event with the fields every request log shares.
func requestEvent(ev *zerolog.Event, c *gin.Context) *zerolog.Event {
	return ev.Str("request_id", c.GetString(RequestIDKey)).
		Str("method", c.Request.Method).
		Str("path", c.Request.URL.Path)
}

func abortInternal(c *gin.Context) {
	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, apierror.New(apierror.GenericMessage))
	}
}

// ErrorHandler turns errors attached with c.Error into the generic 500 body.
// Stack traces and SQL text never reach clients.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		requestEvent(log.Error(), c).
			Int("errors", len(c.Errors)).
			Err(last.Err).
			Msg("unhandled error")
		abortInternal(c)
	}
}

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			requestEvent(log.Error(), c).
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")
			abortInternal(c)
		}()
		c.Next()
	}
}

// Logger writes one line per request; 4xx log at warn, 5xx at error.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		ev := log.Info()
		if status >= http.StatusInternalServerError {
			ev = log.Error()
		} else if status >= http.StatusBadRequest {
			ev = log.Warn()
		}
		requestEvent(ev, c).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
