package middleware

import (
	"time"

	applogger "YieldSense/pkg/logger"

	"github.com/labstack/echo/v4"
)

// RequestLogging logs one line per request. 5xx responses are logged at
// error level and requests slower than slow at warn.
func RequestLogging(l *applogger.Logger, slow time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				// Let echo render the error so the logged status is final.
				c.Error(err)
			}

			if l == nil {
				return nil
			}

			req := c.Request()
			res := c.Response()
			latency := time.Since(start)
			fields := []applogger.Field{
				applogger.String("method", req.Method),
				applogger.String("path", req.URL.Path),
				applogger.String("route", c.Path()),
				applogger.Int("status", res.Status),
				applogger.Duration("latency_ms", latency),
				applogger.Int64("bytes", res.Size),
				applogger.String("request_id", RequestIDFrom(c)),
			}

			switch {
			case res.Status >= 500:
				l.Error("http.request failed", fields...)
			case slow > 0 && latency >= slow:
				l.Warn("http.request slow", fields...)
			default:
				l.Info("http.request", fields...)
			}
			return nil
		}
	}
}
