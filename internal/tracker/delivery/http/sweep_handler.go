package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ticker-calendar/internal/tracker/service"
	"ticker-calendar/pkg/logger"
)

// SweepHandler exposes the staleness sweeper for operators.
type SweepHandler struct {
	sweeperService service.SweeperService
	log            *logger.Logger
}

// NewSweepHandler creates a new SweepHandler.
func NewSweepHandler(sweeperService service.SweeperService, log *logger.Logger) *SweepHandler {
	return &SweepHandler{sweeperService: sweeperService, log: log}
}

// RegisterRoutes registers the sweep routes to the Echo group.
func (h *SweepHandler) RegisterRoutes(g *echo.Group) {
	g.GET("", h.ListSweeps)
	g.POST("", h.TriggerSweep)
}

// ListSweeps godoc
// @Summary List past sweep runs
// @Description List recorded sweep runs, newest first.
// @Tags sweeps
// @Produce  json
// @Param   limit  query    int false    "Maximum number of runs to return"
// @Success 200 {array} dto.SweepRunResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /sweeps [get]
func (h *SweepHandler) ListSweeps(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	runs, err := h.sweeperService.History(c.Request().Context(), limit)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, runs)
}

// TriggerSweep godoc
// @Summary Trigger a sweep now
// @Description Run the staleness sweep immediately instead of waiting for the schedule. Responds when the sweep finishes.
// @Tags sweeps
// @Produce  json
// @Success 200 {object} dto.SweepReport
// @Failure 500 {object} dto.ErrorResponse
// @Router /sweeps [post]
func (h *SweepHandler) TriggerSweep(c echo.Context) error {
	report, err := h.sweeperService.Sweep(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, report)
}
