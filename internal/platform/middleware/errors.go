package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

const (
	internalMessage = "internal server error"
	timeoutMessage  = "request timed out"
)

// StatusOf maps a handler error to the status ErrorHandler will send.
func StatusOf(err error) int {
	var he *echo.HTTPError
	switch {
	case errors.As(err, &he):
		return he.Code
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ErrorHandler renders every failure as {"error": msg, "message": msg}.
// Only *echo.HTTPError messages reach the client; anything else is logged
// and replaced with a generic body.
func ErrorHandler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := StatusOf(err)
		msg := internalMessage

		var he *echo.HTTPError
		switch {
		case errors.As(err, &he):
			msg = httpErrorMessage(he)
			if he.Internal != nil {
				logger.Error().Err(he.Internal).
					Str("request_id", requestID(c)).
					Int("status", status).
					Msg("request failed")
			}
		case status == http.StatusGatewayTimeout:
			msg = timeoutMessage
		default:
			logger.Error().Err(err).
				Str("request_id", requestID(c)).
				Str("path", c.Request().URL.Path).
				Msg("unhandled error")
		}

		body := map[string]string{"error": msg, "message": msg}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			logger.Error().Err(werr).Msg("write error response")
		}
	}
}

func httpErrorMessage(he *echo.HTTPError) string {
	// 503 messages are written by handlers for callers to read.
	if he.Code >= 500 && he.Code != http.StatusServiceUnavailable {
		return internalMessage
	}
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}
