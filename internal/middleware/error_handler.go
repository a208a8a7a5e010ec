package middleware

import (
	"net/http"

	"kneexEngine/pkg/logger"
	jsonres "kneexEngine/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the catch-all for errors that escape a handler. Engine
// handlers swallow their own failures, so anything landing here is a
// routing or binding problem.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := "internal server error"

	if httpErr, ok := err.(*echo.HTTPError); ok {
		code = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			message = msg
		}
	}

	if code >= http.StatusInternalServerError {
		logger.Error("Unhandled request error", err)
	}

	if err := c.JSON(code, jsonres.Error("REQUEST_FAILED", message, nil)); err != nil {
		logger.Error("Failed to write error response", err)
	}
}
