package web

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// GinLogger writes one access log event per request, 4xx at warn and 5xx at error.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		t := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if path == "/healthz" || path == "/metrics" {
			return
		}

		if raw != "" {
			path = path + "?" + raw
		}
		msg := c.Errors.String()
		if msg == "" {
			msg = "Request"
		}

		statusCode := c.Writer.Status()
		level := zerolog.InfoLevel
		switch {
		case statusCode >= 500:
			level = zerolog.ErrorLevel
		case statusCode >= 400:
			level = zerolog.WarnLevel
		}

		event := log.WithLevel(level).Str("logger", "access").Str("method", c.Request.Method).
			Str("path", path).Dur("resp_time", time.Since(t)).Int("status", statusCode).
			Int("bytes", c.Writer.Size()).Str("client_ip", c.ClientIP()).
			Str("user_agent", c.Request.Header.Get("User-Agent"))
		if rangeHeader := c.Request.Header.Get("Range"); rangeHeader != "" {
			event = event.Str("range", rangeHeader)
		}
		event.Msg(msg)
	}
}
