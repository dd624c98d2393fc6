package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchlistsService_Create_DefaultsAllTypesOn(t *testing.T) {
	var created *entity.Watchlist
	watchlistsRepo := &fakeWatchlistsRepo{
		create: func(ctx context.Context, watchlist *entity.Watchlist) error {
			watchlist.ID = 1
			created = watchlist
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	resp, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{UserID: 42, Name: "  My Stocks  "})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.Equal(t, "My Stocks", created.Name)
	assert.Equal(t, int64(42), created.UserID)
	// 32 random bytes encode to 43 base64url characters.
	assert.Len(t, created.CalendarToken, 43)

	require.NotNil(t, created.Settings)
	for _, eventType := range entity.AllEventTypes() {
		assert.True(t, created.Settings.Includes(eventType), "type %s", eventType)
	}
	assert.Nil(t, created.Settings.ReminderBeforeMinutes)

	assert.True(t, resp.Settings.IncludeEarningsAnnouncement)
	assert.True(t, resp.Settings.IncludeStockSplit)
	assert.Equal(t, created.CalendarToken, resp.CalendarToken)
}

func TestWatchlistsService_Create_AppliesSettingsOverrides(t *testing.T) {
	var created *entity.Watchlist
	watchlistsRepo := &fakeWatchlistsRepo{
		create: func(ctx context.Context, watchlist *entity.Watchlist) error {
			created = watchlist
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	reminder := int64(60)
	_, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{
		UserID:                42,
		Name:                  "Dividends",
		Settings:              map[string]bool{"EARNINGS_ANNOUNCEMENT": false, "STOCK_SPLIT": false},
		ReminderBeforeMinutes: &reminder,
	})
	require.NoError(t, err)

	require.NotNil(t, created)
	assert.False(t, created.Settings.IncludeEarningsAnnouncement)
	assert.False(t, created.Settings.IncludeStockSplit)
	assert.True(t, created.Settings.IncludeDividendEx)
	assert.True(t, created.Settings.IncludeDividendPayment)
	require.NotNil(t, created.Settings.ReminderBeforeMinutes)
	assert.Equal(t, int64(60), *created.Settings.ReminderBeforeMinutes)
}

func TestWatchlistsService_Create_EmptyName(t *testing.T) {
	svc := NewWatchlistsService(&fakeWatchlistsRepo{}, &fakeStocksService{}, logger.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{UserID: 42, Name: "   "})
	assert.ErrorIs(t, err, dto.ErrEmptyWatchlistName)
}

func TestWatchlistsService_Create_UnknownTypeKey(t *testing.T) {
	svc := NewWatchlistsService(&fakeWatchlistsRepo{}, &fakeStocksService{}, logger.NewNop())

	_, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{
		UserID:   42,
		Name:     "My Stocks",
		Settings: map[string]bool{"BOARD_MEETING": true},
	})
	assert.ErrorIs(t, err, dto.ErrInvalidEventType)
	assert.Contains(t, err.Error(), "BOARD_MEETING")
}

func TestWatchlistsService_Create_UniqueTokens(t *testing.T) {
	tokens := make(map[string]bool)
	watchlistsRepo := &fakeWatchlistsRepo{
		create: func(ctx context.Context, watchlist *entity.Watchlist) error {
			tokens[watchlist.CalendarToken] = true
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	for i := 0; i < 10; i++ {
		_, err := svc.Create(context.Background(), &dto.CreateWatchlistRequest{UserID: 42, Name: "My Stocks"})
		require.NoError(t, err)
	}
	assert.Len(t, tokens, 10)
}

func TestWatchlistsService_Get_NotFound(t *testing.T) {
	svc := NewWatchlistsService(&fakeWatchlistsRepo{}, &fakeStocksService{}, logger.NewNop())

	_, err := svc.Get(context.Background(), 42, 9)
	assert.ErrorIs(t, err, dto.ErrWatchlistNotFound)
}

func TestWatchlistsService_Get_NilSettingsReportAllIncluded(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Legacy"}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	resp, err := svc.Get(context.Background(), 42, 9)
	require.NoError(t, err)

	assert.True(t, resp.Settings.IncludeEarningsAnnouncement)
	assert.True(t, resp.Settings.IncludeDividendEx)
	assert.True(t, resp.Settings.IncludeDividendDeclaration)
	assert.True(t, resp.Settings.IncludeDividendRecord)
	assert.True(t, resp.Settings.IncludeDividendPayment)
	assert.True(t, resp.Settings.IncludeStockSplit)
	assert.Nil(t, resp.Settings.ReminderBeforeMinutes)
}

func TestWatchlistsService_List(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		listByUser: func(ctx context.Context, userID int64) ([]entity.Watchlist, error) {
			assert.Equal(t, int64(42), userID)
			return []entity.Watchlist{
				{ID: 2, UserID: 42, Name: "Tech", Follows: []entity.Follow{{StockSymbol: "AAPL"}, {StockSymbol: "MSFT"}}},
				{ID: 1, UserID: 42, Name: "Dividends"},
			}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	lists, err := svc.List(context.Background(), 42)
	require.NoError(t, err)

	require.Len(t, lists, 2)
	assert.Equal(t, "Tech", lists[0].Name)
	assert.Equal(t, 2, lists[0].StockCount)
	assert.Equal(t, "Dividends", lists[1].Name)
	assert.Zero(t, lists[1].StockCount)
}

func TestWatchlistsService_Update_Rename(t *testing.T) {
	settingsUpdates := 0
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Old"}, nil
		},
		updateName: func(ctx context.Context, userID int64, id uint, name string) error {
			assert.Equal(t, "New", name)
			return nil
		},
		updateSettings: func(ctx context.Context, settings *entity.WatchlistSettings) error {
			settingsUpdates++
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	name := "  New  "
	resp, err := svc.Update(context.Background(), 42, 9, &dto.UpdateWatchlistRequest{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "New", resp.Name)
	assert.Zero(t, settingsUpdates, "a name-only update must not touch settings")
}

func TestWatchlistsService_Update_EmptyName(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Old"}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	name := "   "
	_, err := svc.Update(context.Background(), 42, 9, &dto.UpdateWatchlistRequest{Name: &name})
	assert.ErrorIs(t, err, dto.ErrEmptyWatchlistName)
}

func TestWatchlistsService_Update_SettingsOnly(t *testing.T) {
	renames := 0
	var updated *entity.WatchlistSettings
	existing := &entity.WatchlistSettings{
		WatchlistID:                 9,
		IncludeEarningsAnnouncement: true,
		IncludeDividendEx:           true,
		IncludeDividendDeclaration:  true,
		IncludeDividendRecord:       true,
		IncludeDividendPayment:      true,
		IncludeStockSplit:           true,
	}
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech", Settings: existing}, nil
		},
		updateName: func(ctx context.Context, userID int64, id uint, name string) error {
			renames++
			return nil
		},
		updateSettings: func(ctx context.Context, settings *entity.WatchlistSettings) error {
			updated = settings
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	resp, err := svc.Update(context.Background(), 42, 9, &dto.UpdateWatchlistRequest{
		Settings: map[string]bool{"DIVIDEND_EX": false},
	})
	require.NoError(t, err)

	assert.Zero(t, renames)
	require.NotNil(t, updated)
	assert.False(t, updated.IncludeDividendEx)
	assert.True(t, updated.IncludeEarningsAnnouncement)
	assert.False(t, resp.Settings.IncludeDividendEx)
}

func TestWatchlistsService_Update_NegativeReminderClears(t *testing.T) {
	reminder := int64(30)
	var updated *entity.WatchlistSettings
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{
				ID: id, UserID: userID, Name: "Tech",
				Settings: &entity.WatchlistSettings{WatchlistID: id, ReminderBeforeMinutes: &reminder},
			}, nil
		},
		updateSettings: func(ctx context.Context, settings *entity.WatchlistSettings) error {
			updated = settings
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	minus := int64(-1)
	_, err := svc.Update(context.Background(), 42, 9, &dto.UpdateWatchlistRequest{ReminderBeforeMinutes: &minus})
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Nil(t, updated.ReminderBeforeMinutes)
}

func TestWatchlistsService_Update_CreatesSettingsWhenMissing(t *testing.T) {
	var updated *entity.WatchlistSettings
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Legacy"}, nil
		},
		updateSettings: func(ctx context.Context, settings *entity.WatchlistSettings) error {
			updated = settings
			return nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	_, err := svc.Update(context.Background(), 42, 9, &dto.UpdateWatchlistRequest{
		Settings: map[string]bool{"STOCK_SPLIT": false},
	})
	require.NoError(t, err)

	require.NotNil(t, updated)
	assert.Equal(t, uint(9), updated.WatchlistID)
	assert.False(t, updated.IncludeStockSplit)
	assert.True(t, updated.IncludeEarningsAnnouncement)
}

func TestWatchlistsService_Update_UnknownTypeKey(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech", Settings: &entity.WatchlistSettings{}}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	_, err := svc.Update(context.Background(), 42, 9, &dto.UpdateWatchlistRequest{
		Settings: map[string]bool{"BOARD_MEETING": false},
	})
	assert.ErrorIs(t, err, dto.ErrInvalidEventType)
}

func TestWatchlistsService_Delete(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		delete: func(ctx context.Context, userID int64, id uint) (bool, error) {
			assert.Equal(t, int64(42), userID)
			assert.Equal(t, uint(9), id)
			return true, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	assert.NoError(t, svc.Delete(context.Background(), 42, 9))
}

func TestWatchlistsService_Delete_NotFound(t *testing.T) {
	svc := NewWatchlistsService(&fakeWatchlistsRepo{}, &fakeStocksService{}, logger.NewNop())

	err := svc.Delete(context.Background(), 42, 9)
	assert.ErrorIs(t, err, dto.ErrWatchlistNotFound)
}

func TestWatchlistsService_FollowStock_TracksStock(t *testing.T) {
	var follow *entity.Follow
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech"}, nil
		},
		addFollow: func(ctx context.Context, f *entity.Follow) error {
			follow = f
			return nil
		},
	}
	stocks := &fakeStocksService{
		getStock: func(ctx context.Context, ticker string) (*entity.Stock, error) {
			assert.Equal(t, "aapl", ticker)
			return &entity.Stock{Symbol: "AAPL", Name: "Apple Inc", LastSyncedAt: time.Now().UTC()}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, stocks, logger.NewNop())

	resp, err := svc.FollowStock(context.Background(), 42, 9, "aapl")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", resp.Symbol)
	assert.Equal(t, "Apple Inc", resp.Name)
	require.NotNil(t, follow)
	assert.Equal(t, uint(9), follow.WatchlistID)
	assert.Equal(t, "AAPL", follow.StockSymbol)
}

func TestWatchlistsService_FollowStock_LookupFailurePropagates(t *testing.T) {
	follows := 0
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech"}, nil
		},
		addFollow: func(ctx context.Context, f *entity.Follow) error {
			follows++
			return nil
		},
	}
	stocks := &fakeStocksService{
		getStock: func(ctx context.Context, ticker string) (*entity.Stock, error) {
			return nil, &dto.LookupError{Query: ticker}
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, stocks, logger.NewNop())

	_, err := svc.FollowStock(context.Background(), 42, 9, "NOPE")
	require.Error(t, err)

	var lookupErr *dto.LookupError
	assert.True(t, errors.As(err, &lookupErr))
	assert.Zero(t, follows)
}

func TestWatchlistsService_FollowStock_WatchlistMissing(t *testing.T) {
	lookups := 0
	stocks := &fakeStocksService{
		getStock: func(ctx context.Context, ticker string) (*entity.Stock, error) {
			lookups++
			return nil, nil
		},
	}
	svc := NewWatchlistsService(&fakeWatchlistsRepo{}, stocks, logger.NewNop())

	_, err := svc.FollowStock(context.Background(), 42, 9, "AAPL")
	assert.ErrorIs(t, err, dto.ErrWatchlistNotFound)
	assert.Zero(t, lookups)
}

func TestWatchlistsService_UnfollowStock(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech"}, nil
		},
		removeFollow: func(ctx context.Context, watchlistID uint, symbol string) (bool, error) {
			assert.Equal(t, uint(9), watchlistID)
			assert.Equal(t, "AAPL", symbol)
			return true, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	assert.NoError(t, svc.UnfollowStock(context.Background(), 42, 9, " aapl "))
}

func TestWatchlistsService_UnfollowStock_NotFollowed(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech"}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	err := svc.UnfollowStock(context.Background(), 42, 9, "AAPL")
	assert.ErrorIs(t, err, dto.ErrStockNotFound)
}

func TestWatchlistsService_GetStocks(t *testing.T) {
	followedAt := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	syncedAt := time.Date(2026, 8, 20, 23, 0, 0, 0, time.UTC)
	watchlistsRepo := &fakeWatchlistsRepo{
		findByID: func(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: id, UserID: userID, Name: "Tech"}, nil
		},
		getFollows: func(ctx context.Context, watchlistID uint) ([]entity.Follow, error) {
			return []entity.Follow{
				{StockSymbol: "AAPL", CreatedAt: followedAt, Stock: &entity.Stock{Symbol: "AAPL", Name: "Apple Inc", LastSyncedAt: syncedAt}},
				{StockSymbol: "MSFT", CreatedAt: followedAt},
			}, nil
		},
	}
	svc := NewWatchlistsService(watchlistsRepo, &fakeStocksService{}, logger.NewNop())

	stocks, err := svc.GetStocks(context.Background(), 42, 9)
	require.NoError(t, err)

	require.Len(t, stocks, 2)
	assert.Equal(t, "AAPL", stocks[0].Symbol)
	assert.Equal(t, "Apple Inc", stocks[0].Name)
	assert.Equal(t, syncedAt, stocks[0].LastSyncedAt)
	assert.Equal(t, followedAt, stocks[0].FollowedAt)
	assert.Equal(t, "MSFT", stocks[1].Symbol)
	assert.Empty(t, stocks[1].Name)
}
