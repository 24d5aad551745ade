package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// JSONErrorHandler renders every error that escapes a handler as an
// ErrorResponse, including echo's own 404/405 and rate limiter errors.
func JSONErrorHandler(devMode bool, logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			_ = c.JSON(he.Code, ErrorResponse{
				Error: http.StatusText(he.Code),
				Code:  he.Code,
			})
			return
		}

		logger.WithError(err).WithField("path", c.Path()).Error("unhandled error")
		resp := ErrorResponse{
			Error: "internal server error",
			Code:  http.StatusInternalServerError,
		}
		if devMode {
			resp.Details = err.Error()
		}
		_ = c.JSON(http.StatusInternalServerError, resp)
	}
}
