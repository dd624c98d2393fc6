package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"ticker-calendar/internal/tracker/service"
	"ticker-calendar/pkg/logger"
)

// CalendarHandler serves the iCalendar feeds of watchlists.
type CalendarHandler struct {
	calendarService service.CalendarService
	log             *logger.Logger
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService service.CalendarService, log *logger.Logger) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, log: log}
}

// RegisterRoutes registers the calendar routes to the Echo group.
func (h *CalendarHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/:token", h.GetCalendar)
}

// GetCalendar godoc
// @Summary Get a watchlist calendar feed
// @Description Serve the iCalendar document for a watchlist. Calendar clients subscribe to this URL; the no-cache headers make them revalidate on every poll.
// @Tags calendar
// @Produce  text/calendar
// @Param   token  path    string true    "Calendar token, with or without the .ics suffix"
// @Success 200 {string} string
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /calendar/{token} [get]
func (h *CalendarHandler) GetCalendar(c echo.Context) error {
	token := strings.TrimSuffix(c.Param("token"), ".ics")

	calendar, err := h.calendarService.GetCalendar(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err)
	}

	header := c.Response().Header()
	header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.ics\"", token))
	header.Set("Cache-Control", "no-cache, no-store, must-revalidate")
	header.Set("Pragma", "no-cache")
	header.Set("Expires", "0")

	return c.Blob(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar))
}
