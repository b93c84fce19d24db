package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// GlobalErrorHandler maps errors escaping dashboard handlers to JSON
// responses. A ConfigError means the history backend is misconfigured or
// unreachable, so the endpoint is unavailable rather than broken.
func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ce *ConfigError
		if errors.As(err, &ce) {
			slog.Error("History backend error", "error", err)
			_ = c.JSON(http.StatusServiceUnavailable, map[string]string{"error": ce.Message, "title": "configuration error"})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
