package http

import (
	"context"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
)

// Function-field fakes for the service interfaces the handlers depend on. A
// nil field makes the call a no-op returning zero values.

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

type fakeWatchlistsService struct {
	create        func(ctx context.Context, req *dto.CreateWatchlistRequest) (*dto.WatchlistResponse, error)
	get           func(ctx context.Context, userID int64, id uint) (*dto.WatchlistResponse, error)
	list          func(ctx context.Context, userID int64) ([]dto.WatchlistResponse, error)
	update        func(ctx context.Context, userID int64, id uint, req *dto.UpdateWatchlistRequest) (*dto.WatchlistResponse, error)
	delete        func(ctx context.Context, userID int64, id uint) error
	followStock   func(ctx context.Context, userID int64, id uint, ticker string) (*dto.StockResponse, error)
	unfollowStock func(ctx context.Context, userID int64, id uint, ticker string) error
	getStocks     func(ctx context.Context, userID int64, id uint) ([]dto.WatchlistStockResponse, error)
}

func (f *fakeWatchlistsService) Create(ctx context.Context, req *dto.CreateWatchlistRequest) (*dto.WatchlistResponse, error) {
	if f.create == nil {
		return nil, nil
	}
	return f.create(ctx, req)
}

func (f *fakeWatchlistsService) Get(ctx context.Context, userID int64, id uint) (*dto.WatchlistResponse, error) {
	if f.get == nil {
		return nil, nil
	}
	return f.get(ctx, userID, id)
}

func (f *fakeWatchlistsService) List(ctx context.Context, userID int64) ([]dto.WatchlistResponse, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(ctx, userID)
}

func (f *fakeWatchlistsService) Update(ctx context.Context, userID int64, id uint, req *dto.UpdateWatchlistRequest) (*dto.WatchlistResponse, error) {
	if f.update == nil {
		return nil, nil
	}
	return f.update(ctx, userID, id, req)
}

func (f *fakeWatchlistsService) Delete(ctx context.Context, userID int64, id uint) error {
	if f.delete == nil {
		return nil
	}
	return f.delete(ctx, userID, id)
}

func (f *fakeWatchlistsService) FollowStock(ctx context.Context, userID int64, id uint, ticker string) (*dto.StockResponse, error) {
	if f.followStock == nil {
		return nil, nil
	}
	return f.followStock(ctx, userID, id, ticker)
}

func (f *fakeWatchlistsService) UnfollowStock(ctx context.Context, userID int64, id uint, ticker string) error {
	if f.unfollowStock == nil {
		return nil
	}
	return f.unfollowStock(ctx, userID, id, ticker)
}

func (f *fakeWatchlistsService) GetStocks(ctx context.Context, userID int64, id uint) ([]dto.WatchlistStockResponse, error) {
	if f.getStocks == nil {
		return nil, nil
	}
	return f.getStocks(ctx, userID, id)
}

type fakeCalendarService struct {
	getCalendar func(ctx context.Context, token string) (string, error)
}

func (f *fakeCalendarService) GetCalendar(ctx context.Context, token string) (string, error) {
	if f.getCalendar == nil {
		return "", nil
	}
	return f.getCalendar(ctx, token)
}

type fakeSweeperService struct {
	sweep   func(ctx context.Context) (*dto.SweepReport, error)
	history func(ctx context.Context, limit int) ([]dto.SweepRunResponse, error)
}

func (f *fakeSweeperService) Start(ctx context.Context) {}

func (f *fakeSweeperService) Stop() {}

func (f *fakeSweeperService) Sweep(ctx context.Context) (*dto.SweepReport, error) {
	if f.sweep == nil {
		return nil, nil
	}
	return f.sweep(ctx)
}

func (f *fakeSweeperService) History(ctx context.Context, limit int) ([]dto.SweepRunResponse, error) {
	if f.history == nil {
		return nil, nil
	}
	return f.history(ctx, limit)
}
