package repository

import (
	"context"
	"encoding/json"
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

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// FinnhubRepository is the primary stock lookup provider.
type FinnhubRepository interface {
	StockLookupProvider
}

type finnhubRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	maxRetries     int
}

// NewFinnhubRepository creates a Finnhub-backed stock lookup provider.
func NewFinnhubRepository(cfg *config.Config, log *logger.Logger) FinnhubRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.Finnhub.MaxRequestPerMinute)
	timeout := cfg.Finnhub.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.Finnhub.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &finnhubRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		maxRetries:     maxRetries,
	}
}

func (r *finnhubRepository) Name() string {
	return common.ProviderFinnhub
}

// GetStockBySymbol resolves a ticker symbol. An exact symbol match is
// preferred, otherwise the first search result is accepted.
func (r *finnhubRepository) GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
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

	return r.profile(ctx, selected.Symbol)
}

// GetStockByName resolves a company name to its best matching stock.
func (r *finnhubRepository) GetStockByName(ctx context.Context, name string) (*entity.Stock, error) {
	matches, err := r.search(ctx, name)
	if err != nil {
		return nil, err
	}
	return r.profile(ctx, matches[0].Symbol)
}

func (r *finnhubRepository) search(ctx context.Context, query string) ([]dto.FinnhubSearchResult, error) {
	requestURL := fmt.Sprintf("%s/search?q=%s&token=%s", r.cfg.Finnhub.BaseURL, url.QueryEscape(query), r.cfg.Finnhub.APIKey)
	body, err := r.sendRequest(ctx, "search", requestURL)
	if err != nil {
		return nil, err
	}

	var response dto.FinnhubSearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "search", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(response.Result) == 0 {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "search", StatusCode: http.StatusOK, Err: fmt.Errorf("no match for %q", query)}
	}

	return response.Result, nil
}

func (r *finnhubRepository) profile(ctx context.Context, symbol string) (*entity.Stock, error) {
	requestURL := fmt.Sprintf("%s/stock/profile2?symbol=%s&token=%s", r.cfg.Finnhub.BaseURL, url.QueryEscape(symbol), r.cfg.Finnhub.APIKey)
	body, err := r.sendRequest(ctx, "profile", requestURL)
	if err != nil {
		return nil, err
	}

	var profile dto.FinnhubProfileResponse
	if err := json.Unmarshal(body, &profile); err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "profile", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if profile.Ticker == "" {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "profile", StatusCode: http.StatusOK, Err: fmt.Errorf("no profile for symbol %q", symbol)}
	}

	return &entity.Stock{
		Symbol: strings.ToUpper(profile.Ticker),
		Name:   profile.Name,
	}, nil
}

func (r *finnhubRepository) sendRequest(ctx context.Context, operation, requestURL string) ([]byte, error) {
	var lastErr *dto.ProviderError
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := waitRetry(ctx, attempt); err != nil {
				return nil, lastErr
			}
			r.log.WarnContext(ctx, "Retrying Finnhub request",
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

func (r *finnhubRepository) doRequest(ctx context.Context, operation, requestURL string) ([]byte, *dto.ProviderError) {
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
	req.Header.Set("Accept", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to send request to Finnhub API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Finnhub API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("unexpected status %d", resp.StatusCode)
		var errResp dto.FinnhubErrorResponse
		if jsonErr := json.Unmarshal(body, &errResp); jsonErr == nil && errResp.Error != "" {
			apiErr = fmt.Errorf("unexpected status %d: %s", resp.StatusCode, errResp.Error)
		}
		fields = append(fields, logger.IntField("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Finnhub API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, StatusCode: resp.StatusCode, Err: apiErr}
	}

	return body, nil
}
