package repository

import (
	"context"
	"math/rand"
	"time"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
)

// StockLookupProvider resolves a ticker or company name against one external
// market data source. Failures are reported as *dto.ProviderError so the
// caller can decide whether to fall through to the next source.
type StockLookupProvider interface {
	Name() string
	GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	GetStockByName(ctx context.Context, name string) (*entity.Stock, error)
}

// StockEventProvider fetches corporate events of the requested types for a
// stock.
type StockEventProvider interface {
	Name() string
	GetStockEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error)
}

// QuoteProvider fetches a point-in-time market quote for a symbol.
type QuoteProvider interface {
	Name() string
	GetQuote(ctx context.Context, symbol string) (*dto.Quote, error)
}

const (
	retryBaseDelay = 500 * time.Millisecond
	retryMaxDelay  = 8 * time.Second
)

// retryBackoff returns the delay before the given retry attempt, doubling
// per attempt with up to 50% jitter.
func retryBackoff(attempt int) time.Duration {
	delay := retryBaseDelay * (1 << uint(attempt-1))
	if delay > retryMaxDelay {
		delay = retryMaxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/2 + 1))
	return delay + jitter
}

// waitRetry sleeps until the next attempt may start or the context is done.
func waitRetry(ctx context.Context, attempt int) error {
	timer := time.NewTimer(retryBackoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
