package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/service"
	"ticker-calendar/pkg/logger"
)

// StockHandler handles HTTP requests for stocks.
type StockHandler struct {
	stocksService service.StocksService
	log           *logger.Logger
}

// NewStockHandler creates a new StockHandler.
func NewStockHandler(stocksService service.StocksService, log *logger.Logger) *StockHandler {
	return &StockHandler{stocksService: stocksService, log: log}
}

// RegisterRoutes registers the stock routes to the Echo group.
func (h *StockHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/search", h.SearchStock)
	g.GET("/:ticker", h.GetStock)
	g.GET("/:ticker/events", h.GetStockEvents)
	g.GET("/:ticker/quote", h.GetQuote)
	g.POST("/:ticker/refresh", h.RefreshStock)
}

// GetStock godoc
// @Summary Get stock details
// @Description Get stock details by ticker. Unknown tickers are resolved through the market data providers and tracked from then on.
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string true    "Stock ticker symbol"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker} [get]
func (h *StockHandler) GetStock(c echo.Context) error {
	stock, err := h.stocksService.GetStock(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.StockResponse{
		Symbol:       stock.Symbol,
		Name:         stock.Name,
		LastSyncedAt: stock.LastSyncedAt,
	})
}

// SearchStock godoc
// @Summary Find a stock by company name
// @Description Resolve a company name to its primary ticker through the market data providers.
// @Tags stocks
// @Produce  json
// @Param   name  query    string true    "Company name"
// @Success 200 {object} dto.StockResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/search [get]
func (h *StockHandler) SearchStock(c echo.Context) error {
	stock, err := h.stocksService.GetStockByName(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.StockResponse{
		Symbol:       stock.Symbol,
		Name:         stock.Name,
		LastSyncedAt: stock.LastSyncedAt,
	})
}

// GetStockEvents godoc
// @Summary Get stored events for a stock
// @Description Get the corporate events currently stored for a tracked stock.
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string true    "Stock ticker symbol"
// @Success 200 {array} dto.StockEventResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/events [get]
func (h *StockHandler) GetStockEvents(c echo.Context) error {
	events, err := h.stocksService.GetEvents(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, events)
}

// GetQuote godoc
// @Summary Get a market quote
// @Description Get the current market quote for a symbol, cached for a short TTL.
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string true    "Stock ticker symbol"
// @Success 200 {object} dto.Quote
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/quote [get]
func (h *StockHandler) GetQuote(c echo.Context) error {
	quote, err := h.stocksService.GetQuote(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// RefreshStock godoc
// @Summary Re-sync events for a tracked stock
// @Description Fetch all event types from the providers again and upsert them for an already tracked stock.
// @Tags stocks
// @Produce  json
// @Param   ticker  path    string true    "Stock ticker symbol"
// @Success 200 {object} dto.RefreshResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /stocks/{ticker}/refresh [post]
func (h *StockHandler) RefreshStock(c echo.Context) error {
	result, err := h.stocksService.RefreshEvents(c.Request().Context(), c.Param("ticker"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
