package apperr

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/web_store/internal/logging"
)

// HTTPErrorHandler renders every failure as {"message": ...}. Store errors
// are logged with request context and surfaced as a generic message.
func HTTPErrorHandler(base *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		msg := "internal server error"

		if e, ok := As(err); ok {
			code = e.Code
			msg = e.Message
			if e.Err != nil {
				l := logging.FromContext(c.Request().Context())
				l.Error("request error", "status", code, "path", c.Path(), "error", e.Err)
			}
		} else if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			if m, ok := he.Message.(string); ok {
				msg = m
			}
		} else {
			base.Error("unhandled error", "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, echo.Map{"message": msg})
	}
}
