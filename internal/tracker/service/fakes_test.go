package service

import (
	"context"
	"sync"
	"time"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
)

// Function-field fakes for the interfaces the services depend on. A nil
// field makes the call a no-op returning zero values.

type fakeStocksRepo struct {
	findBySymbol    func(ctx context.Context, symbol string) (*entity.Stock, error)
	upsert          func(ctx context.Context, stock *entity.Stock) error
	findStale       func(ctx context.Context, cutoff time.Time) ([]entity.Stock, error)
	touchLastSynced func(ctx context.Context, symbol string, syncedAt time.Time) error
}

func (f *fakeStocksRepo) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	if f.findBySymbol == nil {
		return nil, nil
	}
	return f.findBySymbol(ctx, symbol)
}

func (f *fakeStocksRepo) Upsert(ctx context.Context, stock *entity.Stock) error {
	if f.upsert == nil {
		return nil
	}
	return f.upsert(ctx, stock)
}

func (f *fakeStocksRepo) FindStale(ctx context.Context, cutoff time.Time) ([]entity.Stock, error) {
	if f.findStale == nil {
		return nil, nil
	}
	return f.findStale(ctx, cutoff)
}

func (f *fakeStocksRepo) TouchLastSynced(ctx context.Context, symbol string, syncedAt time.Time) error {
	if f.touchLastSynced == nil {
		return nil
	}
	return f.touchLastSynced(ctx, symbol, syncedAt)
}

type fakeEventsRepo struct {
	upsertBatch      func(ctx context.Context, events []entity.StockEvent) error
	findBySymbol     func(ctx context.Context, symbol string) ([]entity.StockEvent, error)
	findForWatchlist func(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error)
}

func (f *fakeEventsRepo) UpsertBatch(ctx context.Context, events []entity.StockEvent) error {
	if f.upsertBatch == nil {
		return nil
	}
	return f.upsertBatch(ctx, events)
}

func (f *fakeEventsRepo) FindBySymbol(ctx context.Context, symbol string) ([]entity.StockEvent, error) {
	if f.findBySymbol == nil {
		return nil, nil
	}
	return f.findBySymbol(ctx, symbol)
}

func (f *fakeEventsRepo) FindForWatchlist(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error) {
	if f.findForWatchlist == nil {
		return nil, nil
	}
	return f.findForWatchlist(ctx, watchlistID)
}

type fakeWatchlistsRepo struct {
	create         func(ctx context.Context, watchlist *entity.Watchlist) error
	findByID       func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error)
	findByToken    func(ctx context.Context, token string) (*entity.Watchlist, error)
	listByUser     func(ctx context.Context, userID int64) ([]entity.Watchlist, error)
	updateName     func(ctx context.Context, userID int64, id uint, name string) error
	updateSettings func(ctx context.Context, settings *entity.WatchlistSettings) error
	delete         func(ctx context.Context, userID int64, id uint) (bool, error)
	addFollow      func(ctx context.Context, follow *entity.Follow) error
	removeFollow   func(ctx context.Context, watchlistID uint, symbol string) (bool, error)
	getFollows     func(ctx context.Context, watchlistID uint) ([]entity.Follow, error)
}

func (f *fakeWatchlistsRepo) Create(ctx context.Context, watchlist *entity.Watchlist) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, watchlist)
}

func (f *fakeWatchlistsRepo) FindByID(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
	if f.findByID == nil {
		return nil, nil
	}
	return f.findByID(ctx, userID, id)
}

func (f *fakeWatchlistsRepo) FindByToken(ctx context.Context, token string) (*entity.Watchlist, error) {
	if f.findByToken == nil {
		return nil, nil
	}
	return f.findByToken(ctx, token)
}

func (f *fakeWatchlistsRepo) ListByUser(ctx context.Context, userID int64) ([]entity.Watchlist, error) {
	if f.listByUser == nil {
		return nil, nil
	}
	return f.listByUser(ctx, userID)
}

func (f *fakeWatchlistsRepo) UpdateName(ctx context.Context, userID int64, id uint, name string) error {
	if f.updateName == nil {
		return nil
	}
	return f.updateName(ctx, userID, id, name)
}

func (f *fakeWatchlistsRepo) UpdateSettings(ctx context.Context, settings *entity.WatchlistSettings) error {
	if f.updateSettings == nil {
		return nil
	}
	return f.updateSettings(ctx, settings)
}

func (f *fakeWatchlistsRepo) Delete(ctx context.Context, userID int64, id uint) (bool, error) {
	if f.delete == nil {
		return false, nil
	}
	return f.delete(ctx, userID, id)
}

func (f *fakeWatchlistsRepo) AddFollow(ctx context.Context, follow *entity.Follow) error {
	if f.addFollow == nil {
		return nil
	}
	return f.addFollow(ctx, follow)
}

func (f *fakeWatchlistsRepo) RemoveFollow(ctx context.Context, watchlistID uint, symbol string) (bool, error) {
	if f.removeFollow == nil {
		return false, nil
	}
	return f.removeFollow(ctx, watchlistID, symbol)
}

func (f *fakeWatchlistsRepo) GetFollows(ctx context.Context, watchlistID uint) ([]entity.Follow, error) {
	if f.getFollows == nil {
		return nil, nil
	}
	return f.getFollows(ctx, watchlistID)
}

type fakeSweepRunsRepo struct {
	create func(ctx context.Context, run *entity.SweepRun) error
	update func(ctx context.Context, run *entity.SweepRun) error
	list   func(ctx context.Context, limit int) ([]entity.SweepRun, error)
}

func (f *fakeSweepRunsRepo) Create(ctx context.Context, run *entity.SweepRun) error {
	if f.create == nil {
		return nil
	}
	return f.create(ctx, run)
}

func (f *fakeSweepRunsRepo) Update(ctx context.Context, run *entity.SweepRun) error {
	if f.update == nil {
		return nil
	}
	return f.update(ctx, run)
}

func (f *fakeSweepRunsRepo) List(ctx context.Context, limit int) ([]entity.SweepRun, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, limit)
}

type fakeLookupProvider struct {
	name             string
	getStockBySymbol func(ctx context.Context, symbol string) (*entity.Stock, error)
	getStockByName   func(ctx context.Context, name string) (*entity.Stock, error)
}

func (f *fakeLookupProvider) Name() string {
	return f.name
}

func (f *fakeLookupProvider) GetStockBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	if f.getStockBySymbol == nil {
		return nil, nil
	}
	return f.getStockBySymbol(ctx, symbol)
}

func (f *fakeLookupProvider) GetStockByName(ctx context.Context, name string) (*entity.Stock, error) {
	if f.getStockByName == nil {
		return nil, nil
	}
	return f.getStockByName(ctx, name)
}

type fakeEventProvider struct {
	name           string
	getStockEvents func(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error)
}

func (f *fakeEventProvider) Name() string {
	return f.name
}

func (f *fakeEventProvider) GetStockEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error) {
	if f.getStockEvents == nil {
		return nil, nil
	}
	return f.getStockEvents(ctx, stock, types)
}

type fakeQuoteProvider struct {
	name     string
	getQuote func(ctx context.Context, symbol string) (*dto.Quote, error)
}

func (f *fakeQuoteProvider) Name() string {
	return f.name
}

func (f *fakeQuoteProvider) GetQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if f.getQuote == nil {
		return nil, nil
	}
	return f.getQuote(ctx, symbol)
}

type fakeProviderFacade struct {
	lookup       func(ctx context.Context, ticker string) (*entity.Stock, error)
	lookupByName func(ctx context.Context, name string) (*entity.Stock, error)
	fetchEvents  func(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error)
	fetchQuote   func(ctx context.Context, symbol string) (*dto.Quote, error)
}

func (f *fakeProviderFacade) Lookup(ctx context.Context, ticker string) (*entity.Stock, error) {
	if f.lookup == nil {
		return nil, nil
	}
	return f.lookup(ctx, ticker)
}

func (f *fakeProviderFacade) LookupByName(ctx context.Context, name string) (*entity.Stock, error) {
	if f.lookupByName == nil {
		return nil, nil
	}
	return f.lookupByName(ctx, name)
}

func (f *fakeProviderFacade) FetchEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) ([]entity.StockEvent, error) {
	if f.fetchEvents == nil {
		return nil, nil
	}
	return f.fetchEvents(ctx, stock, types)
}

func (f *fakeProviderFacade) FetchQuote(ctx context.Context, symbol string) (*dto.Quote, error) {
	if f.fetchQuote == nil {
		return nil, nil
	}
	return f.fetchQuote(ctx, symbol)
}

type fakeStocksService struct {
	getStock       func(ctx context.Context, ticker string) (*entity.Stock, error)
	getStockByName func(ctx context.Context, name string) (*entity.Stock, error)
	getEvents      func(ctx context.Context, ticker string) ([]dto.StockEventResponse, error)
	refreshEvents  func(ctx context.Context, ticker string) (*dto.RefreshResponse, error)
	syncEvents     func(ctx context.Context, stock *entity.Stock, types []entity.EventType) (int, error)
	getQuote       func(ctx context.Context, ticker string) (*dto.Quote, error)
}

func (f *fakeStocksService) GetStock(ctx context.Context, ticker string) (*entity.Stock, error) {
	if f.getStock == nil {
		return nil, nil
	}
	return f.getStock(ctx, ticker)
}

func (f *fakeStocksService) GetStockByName(ctx context.Context, name string) (*entity.Stock, error) {
	if f.getStockByName == nil {
		return nil, nil
	}
	return f.getStockByName(ctx, name)
}

func (f *fakeStocksService) GetEvents(ctx context.Context, ticker string) ([]dto.StockEventResponse, error) {
	if f.getEvents == nil {
		return nil, nil
	}
	return f.getEvents(ctx, ticker)
}

func (f *fakeStocksService) RefreshEvents(ctx context.Context, ticker string) (*dto.RefreshResponse, error) {
	if f.refreshEvents == nil {
		return nil, nil
	}
	return f.refreshEvents(ctx, ticker)
}

func (f *fakeStocksService) SyncEvents(ctx context.Context, stock *entity.Stock, types []entity.EventType) (int, error) {
	if f.syncEvents == nil {
		return 0, nil
	}
	return f.syncEvents(ctx, stock, types)
}

func (f *fakeStocksService) GetQuote(ctx context.Context, ticker string) (*dto.Quote, error) {
	if f.getQuote == nil {
		return nil, nil
	}
	return f.getQuote(ctx, ticker)
}

// fakeNotifier records every message it is asked to send.
type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
	err      error
}

func (f *fakeNotifier) SendMessage(text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, text)
	return f.err
}

func (f *fakeNotifier) sent() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}
