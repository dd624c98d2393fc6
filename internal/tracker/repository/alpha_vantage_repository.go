package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/config"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/pkg/common"
	"ticker-calendar/pkg/logger"
	"ticker-calendar/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// AlphaVantageRepository is the fallback lookup provider and the only source
// of corporate events.
type AlphaVantageRepository interface {
	StockLookupProvider
	StockEventProvider
}

type alphaVantageRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	maxRetries     int
}

// NewAlphaVantageRepository creates an Alpha Vantage-backed provider.
func NewAlphaVantageRepository(cfg *config.Config, log *logger.Logger) AlphaVantageRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.AlphaVantage.MaxRequestPerMinute)
	timeout := cfg.AlphaVantage.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.AlphaVantage.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &alphaVantageRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		maxRetries:     maxRetries,
	}
}

func (r *alphaVantageRepository) Name() string {
	return common.ProviderAlphaVantage
}

// GetStockBySymbol resolves a ticker using SYMBOL_SEARCH. An exact symbol
// match is preferred, otherwise the first best match is accepted.
func (r *alphaVantageRepository) GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	matches, err := r.search(ctx, symbol)
	if err != nil {
		return nil, err
	}

	selected := matches[0]
	for _, m := range matches {
		if strings.EqualFold(m.Symbol, symbol) {
			selected = m
			break
		}
	}

	return &entity.Stock{
		Symbol: strings.ToUpper(selected.Symbol),
		Name:   selected.Name,
	}, nil
}

// GetStockByName resolves a company name to its first best match.
func (r *alphaVantageRepository) GetStockByName(ctx context.Context, name string) (*entity.Stock, error) {
	matches, err := r.search(ctx, name)
	if err != nil {
		return nil, err
	}
	return &entity.Stock{
		Symbol: strings.ToUpper(matches[0].Symbol),
		Name:   matches[0].Name,
	}, nil
}

// GetStockEvents fetches the requested event types for a stock. Only the
// endpoints needed for the requested types are called.
func (r *alphaVantageRepository) GetStockEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error) {
	requested := make(map[entity.EventType]bool, len(types))
	for _, t := range types {
		requested[t] = true
	}

	var events []entity.StockEvent

	if requested[entity.EventTypeEarningsAnnouncement] {
		earnings, err := r.fetchEarnings(ctx, stock.Symbol)
		if err != nil {
			return nil, err
		}
		events = append(events, earnings...)
	}

	if requested[entity.EventTypeDividendEx] || requested[entity.EventTypeDividendDeclaration] ||
		requested[entity.EventTypeDividendRecord] || requested[entity.EventTypeDividendPayment] {
		dividends, err := r.fetchDividends(ctx, stock.Symbol, requested)
		if err != nil {
			return nil, err
		}
		events = append(events, dividends...)
	}

	if requested[entity.EventTypeStockSplit] {
		splits, err := r.fetchSplits(ctx, stock.Symbol)
		if err != nil {
			return nil, err
		}
		events = append(events, splits...)
	}

	return events, nil
}

func (r *alphaVantageRepository) search(ctx context.Context, query string) ([]dto.AlphaVantageMatch, error) {
	requestURL := fmt.Sprintf("%s/query?function=SYMBOL_SEARCH&keywords=%s&apikey=%s", r.cfg.AlphaVantage.BaseURL, url.QueryEscape(query), r.cfg.AlphaVantage.APIKey)
	body, err := r.sendRequest(ctx, "search", requestURL)
	if err != nil {
		return nil, err
	}
	if perr := r.apiError("search", body); perr != nil {
		return nil, perr
	}

	var response dto.AlphaVantageSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "search", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(response.BestMatches) == 0 {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "search", StatusCode: http.StatusOK, Err: fmt.Errorf("no match for %q", query)}
	}

	return response.BestMatches, nil
}

// fetchEarnings reads the EARNINGS_CALENDAR CSV. Alpha Vantage reports soft
// failures for this endpoint as a JSON body instead of CSV.
func (r *alphaVantageRepository) fetchEarnings(ctx context.Context, symbol string) ([]entity.StockEvent, error) {
	requestURL := fmt.Sprintf("%s/query?function=EARNINGS_CALENDAR&symbol=%s&horizon=12month&apikey=%s", r.cfg.AlphaVantage.BaseURL, url.QueryEscape(symbol), r.cfg.AlphaVantage.APIKey)
	body, err := r.sendRequest(ctx, "earnings", requestURL)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if perr := r.apiError("earnings", trimmed); perr != nil {
			return nil, perr
		}
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "earnings", StatusCode: http.StatusOK, Err: errors.New("expected CSV response, got JSON")}
	}

	records, err := csv.NewReader(bytes.NewReader(trimmed)).ReadAll()
	if err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "earnings", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to parse CSV: %w", err)}
	}
	if len(records) < 2 {
		return nil, nil
	}

	symbolIdx, dateIdx := -1, -1
	for i, col := range records[0] {
		switch strings.TrimPrefix(strings.TrimSpace(col), "﻿") {
		case "symbol":
			symbolIdx = i
		case "reportDate":
			dateIdx = i
		}
	}
	if symbolIdx < 0 || dateIdx < 0 {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "earnings", StatusCode: http.StatusOK, Err: errors.New("missing symbol or reportDate column")}
	}

	var events []entity.StockEvent
	for _, record := range records[1:] {
		if len(record) <= symbolIdx || len(record) <= dateIdx {
			continue
		}
		if !strings.EqualFold(strings.TrimSpace(record[symbolIdx]), symbol) {
			continue
		}
		if event, ok := r.newEvent(ctx, symbol, entity.EventTypeEarningsAnnouncement, strings.TrimSpace(record[dateIdx])); ok {
			events = append(events, event)
		}
	}

	return events, nil
}

// fetchDividends reads the DIVIDENDS endpoint once and emits an event per
// requested dividend sub-type and row.
func (r *alphaVantageRepository) fetchDividends(ctx context.Context, symbol string, requested map[entity.EventType]bool) ([]entity.StockEvent, error) {
	requestURL := fmt.Sprintf("%s/query?function=DIVIDENDS&symbol=%s&apikey=%s", r.cfg.AlphaVantage.BaseURL, url.QueryEscape(symbol), r.cfg.AlphaVantage.APIKey)
	body, err := r.sendRequest(ctx, "dividends", requestURL)
	if err != nil {
		return nil, err
	}
	if perr := r.apiError("dividends", body); perr != nil {
		return nil, perr
	}

	var response dto.AlphaVantageDividendsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "dividends", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	var events []entity.StockEvent
	for _, d := range response.Data {
		dates := []struct {
			eventType entity.EventType
			value     string
		}{
			{entity.EventTypeDividendEx, d.ExDividendDate},
			{entity.EventTypeDividendDeclaration, d.DeclarationDate},
			{entity.EventTypeDividendRecord, d.RecordDate},
			{entity.EventTypeDividendPayment, d.PaymentDate},
		}
		for _, dd := range dates {
			if !requested[dd.eventType] {
				continue
			}
			if event, ok := r.newEvent(ctx, symbol, dd.eventType, dd.value); ok {
				events = append(events, event)
			}
		}
	}

	return events, nil
}

func (r *alphaVantageRepository) fetchSplits(ctx context.Context, symbol string) ([]entity.StockEvent, error) {
	requestURL := fmt.Sprintf("%s/query?function=SPLITS&symbol=%s&apikey=%s", r.cfg.AlphaVantage.BaseURL, url.QueryEscape(symbol), r.cfg.AlphaVantage.APIKey)
	body, err := r.sendRequest(ctx, "splits", requestURL)
	if err != nil {
		return nil, err
	}
	if perr := r.apiError("splits", body); perr != nil {
		return nil, perr
	}

	var response dto.AlphaVantageSplitsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "splits", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	var events []entity.StockEvent
	for _, s := range response.Data {
		if event, ok := r.newEvent(ctx, symbol, entity.EventTypeStockSplit, s.EffectiveDate); ok {
			events = append(events, event)
		}
	}

	return events, nil
}

// newEvent builds an event from a raw provider date. Placeholder dates are
// skipped silently, unparseable ones are logged and skipped.
func (r *alphaVantageRepository) newEvent(ctx context.Context, symbol string, eventType entity.EventType, rawDate string) (entity.StockEvent, bool) {
	if rawDate == "" || rawDate == "None" {
		return entity.StockEvent{}, false
	}
	date, err := utils.ParseDate(rawDate)
	if err != nil {
		r.log.WarnContext(ctx, "Skipping event with unparseable date",
			logger.StringField("symbol", symbol),
			logger.StringField("type", string(eventType)),
			logger.StringField("date", rawDate))
		return entity.StockEvent{}, false
	}
	return entity.StockEvent{
		StockSymbol: symbol,
		Type:        eventType,
		EventDate:   date,
		Source:      r.Name(),
	}, true
}

// apiError checks a 200 body for the soft failure keys Alpha Vantage uses.
// Information and Note mean the rate limit was hit.
func (r *alphaVantageRepository) apiError(operation string, body []byte) *dto.ProviderError {
	var status dto.AlphaVantageStatusResponse
	if err := json.Unmarshal(body, &status); err != nil {
		return nil
	}
	switch {
	case status.ErrorMessage != "":
		return &dto.ProviderError{Provider: r.Name(), Operation: operation, StatusCode: http.StatusOK, Err: errors.New(status.ErrorMessage)}
	case status.Information != "":
		return &dto.ProviderError{Provider: r.Name(), Operation: operation, StatusCode: http.StatusTooManyRequests, Err: errors.New(status.Information)}
	case status.Note != "":
		return &dto.ProviderError{Provider: r.Name(), Operation: operation, StatusCode: http.StatusTooManyRequests, Err: errors.New(status.Note)}
	}
	return nil
}

func (r *alphaVantageRepository) sendRequest(ctx context.Context, operation, requestURL string) ([]byte, error) {
	var lastErr *dto.ProviderError
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := waitRetry(ctx, attempt); err != nil {
				return nil, lastErr
			}
			r.log.WarnContext(ctx, "Retrying Alpha Vantage request",
				logger.StringField("operation", operation),
				logger.IntField("attempt", attempt),
				logger.ErrorField(lastErr))
		}

		body, perr := r.doRequest(ctx, operation, requestURL)
		if perr == nil {
			return body, nil
		}
		lastErr = perr
		if !perr.Retryable() || attempt >= r.maxRetries {
			return nil, lastErr
		}
	}
}

func (r *alphaVantageRepository) doRequest(ctx context.Context, operation, requestURL string) ([]byte, *dto.ProviderError) {
	fields := []zap.Field{
		logger.StringField("provider", r.Name()),
		logger.StringField("operation", operation),
	}

	if err := r.requestLimiter.Wait(ctx); err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to wait for request limit", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to create new http request", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to send request to Alpha Vantage API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Alpha Vantage API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, logger.IntField("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Alpha Vantage API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	return body, nil
}
