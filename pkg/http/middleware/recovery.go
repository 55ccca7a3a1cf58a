package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	applogger "YieldSense/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Recover turns a panic into a 500 with the standard error body.
func Recover(l *applogger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					perr, ok := r.(error)
					if !ok {
						perr = fmt.Errorf("%v", r)
					}
					if l != nil {
						l.Error("http.panic recovered",
							applogger.Error(perr),
							applogger.String("path", c.Path()),
							applogger.String("request_id", RequestIDFrom(c)),
							applogger.String("stack", string(debug.Stack())),
						)
					}
					if !c.Response().Committed {
						err = c.JSON(http.StatusInternalServerError, map[string]interface{}{
							"success": false,
							"code":    "ERR_INTERNAL",
							"message": "Internal Server Error",
						})
					}
				}
			}()
			return next(c)
		}
	}
}
