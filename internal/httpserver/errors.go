package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/vibe_commerce/internal/domain"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func validationReason(err error) string {
	_, detail, ok := strings.Cut(err.Error(), domain.ErrValidation.Error()+": ")
	if !ok || detail == "" {
		return "invalid request"
	}
	return detail
}

func fail(l *slog.Logger, op string, err error, notFound string) error {
	status := statusOf(err)
	var msg string
	switch status {
	case http.StatusBadRequest:
		msg = validationReason(err)
	case http.StatusNotFound:
		msg = notFound
	case http.StatusConflict:
		msg = "cart was modified concurrently, retry"
	case http.StatusServiceUnavailable:
		msg = "store unavailable"
	default:
		msg = "internal server error"
	}

	if status >= http.StatusInternalServerError {
		l.Error(op, "status", status, "reason", msg, "error", err)
	} else {
		l.Warn(op, "status", status, "reason", msg, "error", err)
	}
	return echo.NewHTTPError(status, msg).SetInternal(err)
}

func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, map[string]string{"error": msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}
