package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/service"
	"ticker-calendar/pkg/logger"
)

// WatchlistHandler handles HTTP requests for watchlists.
type WatchlistHandler struct {
	watchlistsService service.WatchlistsService
	log               *logger.Logger
}

// NewWatchlistHandler creates a new WatchlistHandler.
func NewWatchlistHandler(watchlistsService service.WatchlistsService, log *logger.Logger) *WatchlistHandler {
	return &WatchlistHandler{watchlistsService: watchlistsService, log: log}
}

// RegisterRoutes registers the watchlist routes to the Echo group.
func (h *WatchlistHandler) RegisterRoutes(g *echo.Group) {
	g.POST("", h.CreateWatchlist)
	g.GET("", h.ListWatchlists)
	g.GET("/:id", h.GetWatchlist)
	g.PUT("/:id", h.UpdateWatchlist)
	g.DELETE("/:id", h.DeleteWatchlist)
	g.GET("/:id/stocks", h.GetWatchlistStocks)
	g.POST("/:id/stocks", h.FollowStock)
	g.DELETE("/:id/stocks/:ticker", h.UnfollowStock)
}

// CreateWatchlist godoc
// @Summary Create a new watchlist
// @Description Create a watchlist with per-type event settings and a fresh calendar token.
// @Tags watchlists
// @Accept  json
// @Produce  json
// @Param   watchlist  body    dto.CreateWatchlistRequest   true    "Watchlist to create"
// @Success 201 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists [post]
func (h *WatchlistHandler) CreateWatchlist(c echo.Context) error {
	var req dto.CreateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}
	if req.UserID <= 0 {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	watchlist, err := h.watchlistsService.Create(c.Request().Context(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, watchlist)
}

// ListWatchlists godoc
// @Summary List watchlists
// @Description List all watchlists of a user, newest first.
// @Tags watchlists
// @Produce  json
// @Param   user_id  query    int true    "User ID"
// @Success 200 {array} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists [get]
func (h *WatchlistHandler) ListWatchlists(c echo.Context) error {
	userID, ok := userIDParam(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid user ID"})
	}

	watchlists, err := h.watchlistsService.List(c.Request().Context(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, watchlists)
}

// GetWatchlist godoc
// @Summary Get a watchlist
// @Description Get one watchlist of a user by ID.
// @Tags watchlists
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   user_id  query    int true    "User ID"
// @Success 200 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id} [get]
func (h *WatchlistHandler) GetWatchlist(c echo.Context) error {
	userID, id, err := scopeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	watchlist, err := h.watchlistsService.Get(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, watchlist)
}

// UpdateWatchlist godoc
// @Summary Update a watchlist
// @Description Rename a watchlist and/or change its event settings. Omitted fields are left untouched.
// @Tags watchlists
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   user_id  query    int true    "User ID"
// @Param   watchlist  body    dto.UpdateWatchlistRequest   true    "Fields to update"
// @Success 200 {object} dto.WatchlistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id} [put]
func (h *WatchlistHandler) UpdateWatchlist(c echo.Context) error {
	userID, id, err := scopeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	var req dto.UpdateWatchlistRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	watchlist, err := h.watchlistsService.Update(c.Request().Context(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, watchlist)
}

// DeleteWatchlist godoc
// @Summary Delete a watchlist
// @Description Delete a watchlist together with its settings and follows.
// @Tags watchlists
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   user_id  query    int true    "User ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id} [delete]
func (h *WatchlistHandler) DeleteWatchlist(c echo.Context) error {
	userID, id, err := scopeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	if err := h.watchlistsService.Delete(c.Request().Context(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetWatchlistStocks godoc
// @Summary List followed stocks
// @Description List the stocks a watchlist follows.
// @Tags watchlists
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   user_id  query    int true    "User ID"
// @Success 200 {array} dto.WatchlistStockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id}/stocks [get]
func (h *WatchlistHandler) GetWatchlistStocks(c echo.Context) error {
	userID, id, err := scopeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	stocks, err := h.watchlistsService.GetStocks(c.Request().Context(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stocks)
}

// FollowStock godoc
// @Summary Follow a stock
// @Description Add a stock to the watchlist by ticker. Unknown tickers are resolved and tracked on the way.
// @Tags watchlists
// @Accept  json
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   user_id  query    int true    "User ID"
// @Param   follow  body    dto.FollowRequest   true    "Stock to follow"
// @Success 201 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id}/stocks [post]
func (h *WatchlistHandler) FollowStock(c echo.Context) error {
	userID, id, err := scopeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	var req dto.FollowRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request payload"})
	}

	stock, err := h.watchlistsService.FollowStock(c.Request().Context(), userID, id, req.Ticker)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, stock)
}

// UnfollowStock godoc
// @Summary Unfollow a stock
// @Description Remove a stock from the watchlist. The stock stays tracked for other watchlists.
// @Tags watchlists
// @Produce  json
// @Param   id  path    int true    "Watchlist ID"
// @Param   ticker  path    string true    "Stock ticker symbol"
// @Param   user_id  query    int true    "User ID"
// @Success 204 {object} nil
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /watchlists/{id}/stocks/{ticker} [delete]
func (h *WatchlistHandler) UnfollowStock(c echo.Context) error {
	userID, id, err := scopeParams(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	}

	if err := h.watchlistsService.UnfollowStock(c.Request().Context(), userID, id, c.Param("ticker")); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func userIDParam(c echo.Context) (int64, bool) {
	userID, err := strconv.ParseInt(c.QueryParam("user_id"), 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// scopeParams extracts the watchlist ID path param and the user_id query
// param every scoped route requires.
func scopeParams(c echo.Context) (int64, uint, error) {
	userID, ok := userIDParam(c)
	if !ok {
		return 0, 0, errors.New("Invalid user ID")
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, 0, errors.New("Invalid watchlist ID")
	}
	return userID, uint(id), nil
}
