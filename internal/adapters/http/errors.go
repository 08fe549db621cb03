package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskmaster/tasklists/internal/domain/entities"
	"github.com/taskmaster/tasklists/internal/infrastructure/logger"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

var clientErrors = []error{
	entities.ErrDueDateBeforePeriodEnd,
	entities.ErrInvalidPeriod,
	entities.ErrInvalidPeriodType,
	entities.ErrInvalidDueDate,
	entities.ErrInvalidID,
	entities.ErrInvalidPaging,
}

func isClientError(err error) bool {
	for _, target := range clientErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// serviceError maps domain errors to 400 and everything else to 500. Both
// carry the error message.
func serviceError(log *logger.Logger, msg string, err error) error {
	if isClientError(err) {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	log.WithError(err).Error(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error()).SetInternal(err)
}

// ErrorHandler renders every error as {"error": message}
func ErrorHandler(log *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := err.Error()

		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}

		if code == http.StatusInternalServerError {
			log.WithError(err).Errorw("Internal server error", "path", c.Request().URL.Path)
		}

		if c.Response().Committed {
			return
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, ErrorResponse{Error: msg})
		}
		if err != nil {
			log.WithError(err).Error("Error sending response")
		}
	}
}
