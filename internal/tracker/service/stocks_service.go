package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/repository"
	"ticker-calendar/pkg/common"
	"ticker-calendar/pkg/logger"
	"ticker-calendar/pkg/utils"
)

// StocksService keeps the local stock store in sync with the providers.
// Reads prefer the local store; misses go out through the provider facade
// and are persisted before returning, so every successful read leaves the
// stock tracked.
type StocksService interface {
	GetStock(ctx context.Context, ticker string) (*entity.Stock, error)
	GetStockByName(ctx context.Context, name string) (*entity.Stock, error)
	GetEvents(ctx context.Context, ticker string) ([]dto.StockEventResponse, error)
	RefreshEvents(ctx context.Context, ticker string) (*dto.RefreshResponse, error)
	SyncEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) (int, error)
	GetQuote(ctx context.Context, ticker string) (*dto.Quote, error)
}

type stocksService struct {
	stocksRepo repository.StocksRepository
	eventsRepo repository.StockEventsRepository
	providers  ProviderFacade
	redis      *redis.Client
	quoteTTL   time.Duration
	log        *logger.Logger
}

// NewStocksService creates the stock synchronization service. The redis
// client is optional; without it quote caching is disabled and every quote
// read goes to the provider.
func NewStocksService(
	stocksRepo repository.StocksRepository,
	eventsRepo repository.StockEventsRepository,
	providers ProviderFacade,
	redisClient *redis.Client,
	quoteTTL time.Duration,
	log *logger.Logger,
) StocksService {
	if quoteTTL <= 0 {
		quoteTTL = time.Minute
	}
	return &stocksService{
		stocksRepo: stocksRepo,
		eventsRepo: eventsRepo,
		providers:  providers,
		redis:      redisClient,
		quoteTTL:   quoteTTL,
		log:        log,
	}
}

// GetStock returns the stock for a ticker. Tracked stocks are served from
// the local store without touching any provider; unknown tickers are
// resolved through the facade, persisted together with their events, and
// then returned.
func (s *stocksService) GetStock(ctx context.Context, ticker string) (*entity.Stock, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, dto.ErrEmptyTicker
	}

	stock, err := s.stocksRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to query local stock cache", Err: err}
	}
	if stock != nil {
		return stock, nil
	}

	s.log.InfoContext(ctx, "Stock not tracked yet, fetching from providers",
		logger.StringField("symbol", symbol),
	)

	fetched, err := s.providers.Lookup(ctx, symbol)
	if err != nil {
		return nil, err
	}

	fetched.LastSyncedAt = time.Now().UTC()
	if err := s.stocksRepo.Upsert(ctx, fetched); err != nil {
		return nil, &dto.StoreError{Op: "failed to persist stock", Err: err}
	}

	if _, err := s.SyncEvents(ctx, fetched, entity.AllEventTypes()); err != nil {
		return nil, fmt.Errorf("failed to sync events for %s: %w", fetched.Symbol, err)
	}

	return fetched, nil
}

// GetStockByName resolves a company name to its primary symbol through the
// providers and then runs the regular symbol flow, so the stock ends up
// tracked either way.
func (s *stocksService) GetStockByName(ctx context.Context, name string) (*entity.Stock, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dto.ErrEmptyName
	}

	// The local store is keyed by symbol, so name lookups always consult
	// the providers first.
	resolved, err := s.providers.LookupByName(ctx, name)
	if err != nil {
		return nil, err
	}

	return s.GetStock(ctx, resolved.Symbol)
}

// GetEvents returns the stored events for a tracked stock.
func (s *stocksService) GetEvents(ctx context.Context, ticker string) ([]dto.StockEventResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, dto.ErrEmptyTicker
	}

	stock, err := s.stocksRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to query local stock cache", Err: err}
	}
	if stock == nil {
		return nil, dto.ErrStockNotFound
	}

	events, err := s.eventsRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to load stock events", Err: err}
	}

	responses := make([]dto.StockEventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, mapStockEventResponse(&event))
	}
	return responses, nil
}

// RefreshEvents re-fetches all event types for an already tracked stock and
// bumps its sync timestamp.
func (s *stocksService) RefreshEvents(ctx context.Context, ticker string) (*dto.RefreshResponse, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, dto.ErrEmptyTicker
	}

	stock, err := s.stocksRepo.FindBySymbol(ctx, symbol)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to query local stock cache", Err: err}
	}
	if stock == nil {
		return nil, dto.ErrStockNotFound
	}

	count, err := s.SyncEvents(ctx, stock, entity.AllEventTypes())
	if err != nil {
		return nil, err
	}

	if err := s.stocksRepo.TouchLastSynced(ctx, symbol, time.Now().UTC()); err != nil {
		return nil, &dto.StoreError{Op: "failed to update stock sync timestamp", Err: err}
	}

	return &dto.RefreshResponse{Symbol: symbol, EventsSynced: count}, nil
}

// SyncEvents fetches the given event types from the providers and upserts
// them into the store. Re-running it with unchanged provider data does not
// create duplicate rows.
func (s *stocksService) SyncEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) (int, error) {
	events, err := s.providers.FetchEvents(ctx, stock, types)
	if err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for i := range events {
		events[i].LastSyncedAt = now
	}

	if err := s.eventsRepo.UpsertBatch(ctx, events); err != nil {
		return 0, &dto.StoreError{Op: "failed to persist stock events", Err: err}
	}

	s.log.InfoContext(ctx, "Synced stock events",
		logger.StringField("symbol", stock.Symbol),
		logger.IntField("count", len(events)),
	)

	return len(events), nil
}

// GetQuote returns the current market quote for a symbol, served from the
// redis cache when a fresh entry exists.
func (s *stocksService) GetQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return nil, dto.ErrEmptyTicker
	}

	if quote := s.cachedQuote(ctx, symbol); quote != nil {
		return quote, nil
	}

	quote, err := s.providers.FetchQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	s.storeQuote(ctx, symbol, quote)
	return quote, nil
}

func (s *stocksService) cachedQuote(ctx context.Context, symbol string) *dto.Quote {
	if s.redis == nil {
		return nil
	}

	payload, err := s.redis.Get(ctx, common.RedisKeyQuotePrefix+symbol).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.log.WarnContext(ctx, "Failed to read quote cache",
				logger.StringField("symbol", symbol),
				logger.ErrorField(err),
			)
		}
		return nil
	}

	var quote dto.Quote
	if err := json.Unmarshal(payload, &quote); err != nil {
		s.log.WarnContext(ctx, "Failed to decode cached quote",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
		return nil
	}
	return &quote
}

func (s *stocksService) storeQuote(ctx context.Context, symbol string, quote *dto.Quote) {
	if s.redis == nil {
		return
	}

	payload, err := json.Marshal(quote)
	if err != nil {
		return
	}

	if err := s.redis.Set(ctx, common.RedisKeyQuotePrefix+symbol, payload, s.quoteTTL).Err(); err != nil {
		s.log.WarnContext(ctx, "Failed to write quote cache",
			logger.StringField("symbol", symbol),
			logger.ErrorField(err),
		)
	}
}

func mapStockEventResponse(event *entity.StockEvent) dto.StockEventResponse {
	return dto.StockEventResponse{
		StockSymbol:  event.StockSymbol,
		Type:         string(event.Type),
		EventDate:    utils.FormatDate(event.EventDate),
		Source:       event.Source,
		LastSyncedAt: event.LastSyncedAt,
	}
}
