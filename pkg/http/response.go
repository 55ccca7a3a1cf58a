package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes v with the given status.
func JSONResponse(c echo.Context, status int, v interface{}) error {
	return c.JSON(status, v)
}

// BlobResponse writes an already-serialized JSON body unchanged.
func BlobResponse(c echo.Context, status int, b []byte) error {
	return c.JSONBlob(status, b)
}

// AppErrorResponse writes err as an ErrorBody. Errors that are not an
// AppError become a generic 500 so internals never leak.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = InternalError("Something went wrong")
	}
	return c.JSON(appErr.Status, ErrorBody{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Message,
		Field:   appErr.Field,
	})
}

// ErrorHandler renders echo's own errors (404, 405, bind failures) in the
// same shape as application errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		code := "ERR_HTTP"
		switch he.Code {
		case http.StatusNotFound:
			code = "ERR_NOT_FOUND"
		case http.StatusMethodNotAllowed:
			code = "ERR_METHOD_NOT_ALLOWED"
		case http.StatusBadRequest:
			code = "ERR_BAD_REQUEST"
		}
		_ = AppErrorResponse(c, NewAppError(code, "", msg, he.Code))
		return
	}

	_ = AppErrorResponse(c, err)
}
