package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticker-calendar/internal/tracker/dto"
)

// respondError maps service errors onto HTTP status codes. Validation
// failures map to 400, missing records and exhausted provider lookups to
// 404, everything else to 500.
func respondError(c echo.Context, err error) error {
	var lookupErr *dto.LookupError

	switch {
	case errors.Is(err, dto.ErrEmptyTicker),
		errors.Is(err, dto.ErrEmptyName),
		errors.Is(err, dto.ErrNoEventTypes),
		errors.Is(err, dto.ErrInvalidEventType),
		errors.Is(err, dto.ErrEmptyToken),
		errors.Is(err, dto.ErrEmptyWatchlistName):
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, dto.ErrStockNotFound),
		errors.Is(err, dto.ErrWatchlistNotFound):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.As(err, &lookupErr):
		return c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: lookupErr.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}
