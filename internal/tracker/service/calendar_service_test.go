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

func TestCalendarService_GetCalendar(t *testing.T) {
	reminderMinutes := int64(30)
	watchlistsRepo := &fakeWatchlistsRepo{
		findByToken: func(ctx context.Context, token string) (*entity.Watchlist, error) {
			assert.Equal(t, "tok123", token)
			return &entity.Watchlist{
				ID:            5,
				Name:          "Tech Portfolio",
				CalendarToken: "tok123",
				Settings:      &entity.WatchlistSettings{ReminderBeforeMinutes: &reminderMinutes},
			}, nil
		},
	}
	eventsRepo := &fakeEventsRepo{
		findForWatchlist: func(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error) {
			assert.Equal(t, uint(5), watchlistID)
			return []entity.StockEvent{{
				StockSymbol:  "AAPL",
				Type:         entity.EventTypeEarningsAnnouncement,
				EventDate:    time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
				Source:       "Alpha Vantage",
				LastSyncedAt: time.Date(2026, 4, 20, 8, 30, 0, 0, time.UTC),
				Stock:        &entity.Stock{Symbol: "AAPL", Name: "Apple Inc"},
			}}, nil
		},
	}
	svc := NewCalendarService(watchlistsRepo, eventsRepo, logger.NewNop())

	calendar, err := svc.GetCalendar(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Contains(t, calendar, "X-WR-CALNAME:Tech Portfolio\r\n")
	assert.Contains(t, calendar, "UID:AAPL-EARNINGS_ANNOUNCEMENT-20260501@tickercaltracker.com\r\n")
	assert.Contains(t, calendar, "SUMMARY:AAPL: Earnings Announcement\r\n")
	assert.Contains(t, calendar, "Apple Inc (AAPL)")
	assert.Contains(t, calendar, "TRIGGER:-PT30M\r\n")
	assert.Contains(t, calendar, "X-SOURCE:Alpha Vantage\r\n")
}

func TestCalendarService_GetCalendar_EmptyToken(t *testing.T) {
	svc := NewCalendarService(&fakeWatchlistsRepo{}, &fakeEventsRepo{}, logger.NewNop())

	_, err := svc.GetCalendar(context.Background(), "  ")
	assert.ErrorIs(t, err, dto.ErrEmptyToken)
}

func TestCalendarService_GetCalendar_UnknownToken(t *testing.T) {
	svc := NewCalendarService(&fakeWatchlistsRepo{}, &fakeEventsRepo{}, logger.NewNop())

	_, err := svc.GetCalendar(context.Background(), "unknown")
	assert.ErrorIs(t, err, dto.ErrWatchlistNotFound)
}

func TestCalendarService_GetCalendar_NameFallback(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByToken: func(ctx context.Context, token string) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: 5, CalendarToken: token}, nil
		},
	}
	svc := NewCalendarService(watchlistsRepo, &fakeEventsRepo{}, logger.NewNop())

	calendar, err := svc.GetCalendar(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Contains(t, calendar, "X-WR-CALNAME:Stock Events\r\n")
}

func TestCalendarService_GetCalendar_NoReminderWithoutSettings(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByToken: func(ctx context.Context, token string) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: 5, Name: "Tech", CalendarToken: token}, nil
		},
	}
	eventsRepo := &fakeEventsRepo{
		findForWatchlist: func(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error) {
			return []entity.StockEvent{{
				StockSymbol: "AAPL",
				Type:        entity.EventTypeDividendEx,
				EventDate:   time.Date(2026, 2, 6, 0, 0, 0, 0, time.UTC),
				Source:      "Alpha Vantage",
			}}, nil
		},
	}
	svc := NewCalendarService(watchlistsRepo, eventsRepo, logger.NewNop())

	calendar, err := svc.GetCalendar(context.Background(), "tok123")
	require.NoError(t, err)

	assert.NotContains(t, calendar, "BEGIN:VALARM")
}

func TestCalendarService_GetCalendar_Deterministic(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByToken: func(ctx context.Context, token string) (*entity.Watchlist, error) {
			return &entity.Watchlist{ID: 5, Name: "Tech", CalendarToken: token}, nil
		},
	}
	eventsRepo := &fakeEventsRepo{
		findForWatchlist: func(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error) {
			return []entity.StockEvent{{
				StockSymbol:  "AAPL",
				Type:         entity.EventTypeStockSplit,
				EventDate:    time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
				Source:       "Alpha Vantage",
				LastSyncedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			}}, nil
		},
	}
	svc := NewCalendarService(watchlistsRepo, eventsRepo, logger.NewNop())

	first, err := svc.GetCalendar(context.Background(), "tok123")
	require.NoError(t, err)
	second, err := svc.GetCalendar(context.Background(), "tok123")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCalendarService_GetCalendar_StoreFailure(t *testing.T) {
	watchlistsRepo := &fakeWatchlistsRepo{
		findByToken: func(ctx context.Context, token string) (*entity.Watchlist, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := NewCalendarService(watchlistsRepo, &fakeEventsRepo{}, logger.NewNop())

	_, err := svc.GetCalendar(context.Background(), "tok123")
	require.Error(t, err)

	var storeErr *dto.StoreError
	require.True(t, errors.As(err, &storeErr))
	assert.Equal(t, "failed to look up watchlist by token", storeErr.Op)
}
