package middleware

import (
	"net/http"
	"time"

	"github.com/wasssssim/verger-du-coin/internal/apierror"
	"github.com/wasssssim/verger-du-coin/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var errInternal = apierror.New("Internal server error")

// requestLog starts an event carrying the request id and, once JWTAuth has
// run, the username of the till operator.
func requestLog(c *gin.Context, ev *zerolog.Event) *zerolog.Event {
	ev = ev.Str("request_id", c.GetString(RequestIDKey))
	if v, ok := c.Get(ClaimsKey); ok {
		if claims, ok := v.(*JWTClaims); ok {
			ev = ev.Str("user", claims.Username)
		}
	}
	return ev
}

// ErrorHandler answers 500 for errors a handler attached with c.Error
// without writing a response itself. Driver messages only reach the logs.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		requestLog(c, log.Error()).
			Str("route", c.FullPath()).
			Err(last.Err).
			Msg("request failed")

		if !c.Writer.Written() {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errInternal)
		}
	}
}

// Recovery converts a handler panic into a 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			metrics.PanicsRecovered.Inc()
			requestLog(c, log.Error()).
				Str("route", c.FullPath()).
				Interface("panic", r).
				Msg("panic recovered")
			c.AbortWithStatusJSON(http.StatusInternalServerError, errInternal)
		}()
		c.Next()
	}
}

// Logger writes one line per request: warn for 4xx, error for 5xx.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= http.StatusInternalServerError:
			ev = log.Error()
		case status >= http.StatusBadRequest:
			ev = log.Warn()
		default:
			ev = log.Info()
		}
		requestLog(c, ev).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}
