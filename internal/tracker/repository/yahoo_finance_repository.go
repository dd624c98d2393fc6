package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"ticker-calendar/internal/tracker/config"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/pkg/common"
	"ticker-calendar/pkg/logger"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// memoTTL bounds how long an identical quote request is answered from memory
// instead of hitting Yahoo again.
const memoTTL = 30 * time.Second

// YahooFinanceRepository serves point-in-time quotes.
type YahooFinanceRepository interface {
	QuoteProvider
}

type yahooFinanceRepository struct {
	cfg            *config.Config
	log            *logger.Logger
	httpClient     *http.Client
	requestLimiter *rate.Limiter
	memo           *gocache.Cache
	maxRetries     int
}

// NewYahooFinanceRepository creates a Yahoo Finance-backed quote provider.
func NewYahooFinanceRepository(cfg *config.Config, log *logger.Logger) YahooFinanceRepository {
	secondsPerRequest := time.Minute / time.Duration(cfg.YahooFinance.MaxRequestPerMinute)
	timeout := cfg.YahooFinance.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	maxRetries := cfg.YahooFinance.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &yahooFinanceRepository{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		requestLimiter: rate.NewLimiter(rate.Every(secondsPerRequest), 1),
		memo:           gocache.New(memoTTL, time.Minute),
		maxRetries:     maxRetries,
	}
}

func (r *yahooFinanceRepository) Name() string {
	return common.ProviderYahooFinance
}

// GetQuote fetches the latest quote for a symbol.
func (r *yahooFinanceRepository) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if cached, found := r.memo.Get(symbol); found {
		if quote, ok := cached.(*dto.Quote); ok {
			return quote, nil
		}
	}

	requestURL := fmt.Sprintf("%s/v8/finance/chart/%s?range=1d&interval=1d", r.cfg.YahooFinance.BaseURL, url.PathEscape(symbol))
	body, err := r.sendRequest(ctx, "quote", requestURL)
	if err != nil {
		return nil, err
	}

	var response dto.YahooChartResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "quote", StatusCode: http.StatusOK, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if response.Chart.Error != nil {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "quote", StatusCode: http.StatusOK, Err: fmt.Errorf("%s: %s", response.Chart.Error.Code, response.Chart.Error.Description)}
	}
	if len(response.Chart.Result) == 0 {
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: "quote", StatusCode: http.StatusOK, Err: errors.New("empty chart result")}
	}

	meta := response.Chart.Result[0].Meta
	quote := &dto.Quote{
		Symbol:        symbol,
		Current:       meta.RegularMarketPrice,
		High:          meta.RegularMarketHigh,
		Low:           meta.RegularMarketLow,
		PreviousClose: meta.ChartPreviousClose,
		Timestamp:     time.Unix(meta.RegularMarketTime, 0).UTC(),
	}
	quote.Change = quote.Current - quote.PreviousClose
	if quote.PreviousClose != 0 {
		quote.PercentChange = quote.Change / quote.PreviousClose * 100
	}

	r.memo.Set(symbol, quote, gocache.DefaultExpiration)

	return quote, nil
}

func (r *yahooFinanceRepository) sendRequest(ctx context.Context, operation, requestURL string) ([]byte, error) {
	var lastErr *dto.ProviderError
	for attempt := 0; ; attempt++ {
		if attempt > 0 {
			if err := waitRetry(ctx, attempt); err != nil {
				return nil, lastErr
			}
			r.log.WarnContext(ctx, "Retrying Yahoo Finance request",
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

func (r *yahooFinanceRepository) doRequest(ctx context.Context, operation, requestURL string) ([]byte, *dto.ProviderError) {
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
	// Yahoo rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to send request to Yahoo Finance API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		fields = append(fields, logger.ErrorField(err))
		r.log.ErrorContext(ctx, "Failed to read response body from Yahoo Finance API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		fields = append(fields, logger.IntField("status_code", resp.StatusCode))
		r.log.ErrorContext(ctx, "Received non-OK response from Yahoo Finance API", fields...)
		return nil, &dto.ProviderError{Provider: r.Name(), Operation: operation, StatusCode: resp.StatusCode, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	return body, nil
}
