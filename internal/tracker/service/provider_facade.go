package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/repository"
	"ticker-calendar/pkg/logger"
)

// ProviderFacade hides the market data providers behind a single surface.
// Lookups walk the configured providers in priority order and fall through
// to the next one on any failure; events and quotes each have a single
// serving provider.
type ProviderFacade interface {
	Lookup(ctx context.Context, ticker string) (*entity.Stock, error)
	LookupByName(ctx context.Context, name string) (*entity.Stock, error)
	FetchEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error)
	FetchQuote(ctx context.Context, symbol string) (*dto.Quote, error)
}

type providerFacade struct {
	lookups []repository.StockLookupProvider
	events  repository.StockEventProvider
	quotes  repository.QuoteProvider
	log     *logger.Logger
}

// NewProviderFacade creates a facade over the given providers. Lookup
// providers are consulted in the order they are passed in.
func NewProviderFacade(
	lookups []repository.StockLookupProvider,
	events repository.StockEventProvider,
	quotes repository.QuoteProvider,
	log *logger.Logger,
) ProviderFacade {
	return &providerFacade{
		lookups: lookups,
		events:  events,
		quotes:  quotes,
		log:     log,
	}
}

// Lookup resolves a ticker symbol to stock details through the provider
// chain. Validation failures return before any provider is called.
func (f *providerFacade) Lookup(ctx context.Context, ticker string) (*entity.Stock, error) {
	ticker = strings.TrimSpace(ticker)
	if ticker == "" {
		return nil, dto.ErrEmptyTicker
	}

	return f.resolve(ctx, ticker, func(p repository.StockLookupProvider) (*entity.Stock, error) {
		return p.GetStockBySymbol(ctx, ticker)
	})
}

// LookupByName resolves a company name to stock details through the
// provider chain.
func (f *providerFacade) LookupByName(ctx context.Context, name string) (*entity.Stock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dto.ErrEmptyName
	}

	return f.resolve(ctx, name, func(p repository.StockLookupProvider) (*entity.Stock, error) {
		return p.GetStockByName(ctx, name)
	})
}

func (f *providerFacade) resolve(ctx context.Context, query string, fetch func(repository.StockLookupProvider) (*entity.Stock, error)) (*entity.Stock, error) {
	attempts := make([]*dto.ProviderError, 0, len(f.lookups))
	for _, provider := range f.lookups {
		stock, err := fetch(provider)
		if err == nil {
			stock.Symbol = strings.ToUpper(stock.Symbol)
			return stock, nil
		}

		var provErr *dto.ProviderError
		if !errors.As(err, &provErr) {
			provErr = &dto.ProviderError{Provider: provider.Name(), Operation: "lookup", Err: err}
		}
		attempts = append(attempts, provErr)

		f.log.WarnContext(ctx, "Provider lookup failed, trying next source",
			logger.StringField("provider", provider.Name()),
			logger.StringField("query", query),
			logger.ErrorField(err),
		)
	}

	return nil, &dto.LookupError{Query: query, Attempts: attempts}
}

// FetchEvents fetches the requested corporate event types for a stock. The
// type list must be non-empty and contain only known types.
func (f *providerFacade) FetchEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error) {
	if len(types) == 0 {
		return nil, dto.ErrNoEventTypes
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, fmt.Errorf("%w: %q", dto.ErrInvalidEventType, t)
		}
	}

	return f.events.GetStockEvents(ctx, stock, types)
}

// FetchQuote fetches the current market quote for a symbol.
func (f *providerFacade) FetchQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, dto.ErrEmptyTicker
	}

	return f.quotes.GetQuote(ctx, strings.ToUpper(symbol))
}
