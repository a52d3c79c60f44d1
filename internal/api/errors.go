package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lockerhq/locker/pkg/types"
)

// errorHandler renders every failure as the {"detail": ...} envelope.
// Errors the handlers did not map to an HTTP status become a plain 500.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	detail := http.StatusText(http.StatusInternalServerError)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.Code
		if msg, ok := httpErr.Message.(string); ok {
			detail = msg
		} else {
			detail = http.StatusText(status)
		}
	} else {
		s.logger.Error("request failed", "err", err)
	}

	if c.Request().Method == http.MethodHead {
		if writeErr := c.NoContent(status); writeErr != nil {
			s.logger.Error("writing error response", "err", writeErr)
		}
		return
	}

	if writeErr := c.JSON(status, types.ErrorResponse{Detail: detail}); writeErr != nil {
		s.logger.Error("writing error response", "err", writeErr)
	}
}
