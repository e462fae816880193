// Package handler defines the HTTP handlers for the dashboard API.
// Handlers bind and validate input, delegate to repositories or the
// service engines, and translate domain errors into HTTP status codes.
package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/crmdesk/company-dashboard/internal/repository"
)

// getUserID extracts the authenticated user's ID from the echo context.
// The JWT middleware stores the subject claim, which arrives as a
// float64 from JSON decoding.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the named path parameter as an unsigned integer ID.
func pathID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// domainError translates repository and engine errors into JSON error
// responses. Returns false when the error is not a recognized domain
// error, in which case the caller decides the 500 message.
func domainError(c echo.Context, err error) (bool, error) {
	var dup *repository.DuplicateError
	switch {
	case errors.As(err, &dup):
		return true, c.JSON(http.StatusBadRequest, echo.Map{"error": dup.Error(), "field": dup.Field})
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return true, c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
	case errors.Is(err, repository.ErrRequestDecided):
		return true, c.JSON(http.StatusConflict, echo.Map{"error": "request already decided"})
	case errors.Is(err, repository.ErrForbidden):
		return true, c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return false, nil
}
