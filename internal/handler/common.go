// Package handler contains the HTTP layer: request DTOs, binding
// and validation, and the mapping from domain errors to status
// codes.  Handlers never touch database/sql directly; they call
// repositories for catalog resources and the booking service for
// everything reservation-related.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/abdulrafiuabro/restaurant-booking-system/internal/repository"
	"github.com/abdulrafiuabro/restaurant-booking-system/internal/service"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// reqContext derives a bounded context from the request.
func reqContext(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the authenticated user's id from the context.
// The JWT middleware stores it as uint64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
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

// getRole extracts the authenticated user's role from the context.
func getRole(c echo.Context) string {
	if r, ok := c.Get("role").(string); ok {
		return r
	}
	return ""
}

// paramID parses a numeric path parameter.
func paramID(c echo.Context, name string) (uint64, error) {
	return strconv.ParseUint(c.Param(name), 10, 64)
}

// parseUint parses a decimal uint64 from a query value.
func parseUint(raw string) (uint64, error) {
	return strconv.ParseUint(raw, 10, 64)
}

// queryInt parses an integer query parameter, falling back to def
// when absent or malformed.
func queryInt(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

// queryTime parses an RFC 3339 timestamp query parameter.
func queryTime(c echo.Context, name string) (time.Time, error) {
	return time.Parse(time.RFC3339, c.QueryParam(name))
}

// jsonError maps a domain error to an HTTP response.  Missing
// references become 404, contention and duplicates 409, malformed
// input 400, everything else 500.
func jsonError(c echo.Context, err error) error {
	switch {
	case service.IsNotFound(err):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrSlotUnavailable),
		errors.Is(err, repository.ErrConflict),
		errors.Is(err, repository.ErrDuplicateTable),
		errors.Is(err, repository.ErrEmailTaken):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrInvalidInterval),
		errors.Is(err, repository.ErrInvalidFilter),
		errors.Is(err, repository.ErrInvalidStatus):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
	}
}

// pageResponse is the envelope shared by every paginated listing.
type pageResponse struct {
	TotalCount int         `json:"total_count"`
	Limit      int         `json:"limit"`
	Offset     int         `json:"offset"`
	Items      interface{} `json:"items"`
}
