package service

import (
	"context"
	"strings"

	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/repository"
	"ticker-calendar/pkg/ical"
	"ticker-calendar/pkg/logger"
)

// CalendarService renders the subscribable iCalendar feed of a watchlist.
type CalendarService interface {
	GetCalendar(ctx context.Context, token string) (string, error)
}

type calendarService struct {
	watchlistsRepo repository.WatchlistsRepository
	eventsRepo     repository.StockEventsRepository
	log            *logger.Logger
}

// NewCalendarService creates the calendar feed service.
func NewCalendarService(watchlistsRepo repository.WatchlistsRepository, eventsRepo repository.StockEventsRepository, log *logger.Logger) CalendarService {
	return &calendarService{
		watchlistsRepo: watchlistsRepo,
		eventsRepo:     eventsRepo,
		log:            log,
	}
}

// GetCalendar resolves a calendar token to its watchlist and renders the
// events passing the watchlist settings as an iCalendar document. The same
// stored data always renders to the same bytes.
func (s *calendarService) GetCalendar(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", dto.ErrEmptyToken
	}

	watchlist, err := s.watchlistsRepo.FindByToken(ctx, token)
	if err != nil {
		return "", &dto.StoreError{Op: "failed to look up watchlist by token", Err: err}
	}
	if watchlist == nil {
		return "", dto.ErrWatchlistNotFound
	}

	events, err := s.eventsRepo.FindForWatchlist(ctx, watchlist.ID)
	if err != nil {
		return "", &dto.StoreError{Op: "failed to load watchlist events", Err: err}
	}

	name := watchlist.Name
	if name == "" {
		name = "Stock Events"
	}

	entries := make([]ical.Event, 0, len(events))
	for _, event := range events {
		entry := ical.Event{
			Symbol:      event.StockSymbol,
			Type:        event.Type,
			Date:        event.EventDate,
			LastUpdated: event.LastSyncedAt,
			Source:      event.Source,
		}
		if event.Stock != nil {
			entry.StockName = event.Stock.Name
		}
		entries = append(entries, entry)
	}

	s.log.DebugContext(ctx, "Rendering calendar feed",
		logger.Field("watchlist_id", watchlist.ID),
		logger.IntField("events", len(entries)),
	)

	return ical.Render(entries, name, watchlist.Settings.ReminderBefore()), nil
}
