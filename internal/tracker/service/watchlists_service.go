package service

import (
	"context"
	"fmt"
	"strings"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/repository"
	"ticker-calendar/pkg/logger"
	"ticker-calendar/pkg/utils"
)

// calendarTokenBytes is the entropy behind a calendar feed token.
const calendarTokenBytes = 32

// WatchlistsService manages user watchlists, their per-type event settings
// and the stocks they follow. Following a stock through this service also
// starts tracking it.
type WatchlistsService interface {
	Create(ctx context.Context, req *dto.CreateWatchlistRequest) (*dto.WatchlistResponse, error)
	Get(ctx context.Context, userID int64, id uint) (*dto.WatchlistResponse, error)
	List(ctx context.Context, userID int64) ([]dto.WatchlistResponse, error)
	Update(ctx context.Context, userID int64, id uint, req *dto.UpdateWatchlistRequest) (*dto.WatchlistResponse, error)
	Delete(ctx context.Context, userID int64, id uint) error
	FollowStock(ctx context.Context, userID int64, id uint, ticker string) (*dto.StockResponse, error)
	UnfollowStock(ctx context.Context, userID int64, id uint, ticker string) error
	GetStocks(ctx context.Context, userID int64, id uint) ([]dto.WatchlistStockResponse, error)
}

type watchlistsService struct {
	watchlistsRepo repository.WatchlistsRepository
	stocks         StocksService
	log            *logger.Logger
}

// NewWatchlistsService creates the watchlist management service.
func NewWatchlistsService(watchlistsRepo repository.WatchlistsRepository, stocks StocksService, log *logger.Logger) WatchlistsService {
	return &watchlistsService{
		watchlistsRepo: watchlistsRepo,
		stocks:         stocks,
		log:            log,
	}
}

// Create creates a watchlist with a fresh calendar token. Event types left
// out of the settings map default to included.
func (s *watchlistsService) Create(ctx context.Context, req *dto.CreateWatchlistRequest) (*dto.WatchlistResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, dto.ErrEmptyWatchlistName
	}

	settings, err := settingsFromMap(req.Settings)
	if err != nil {
		return nil, err
	}
	settings.ReminderBeforeMinutes = req.ReminderBeforeMinutes

	token, err := utils.GenerateToken(calendarTokenBytes)
	if err != nil {
		return nil, err
	}

	watchlist := &entity.Watchlist{
		UserID:        req.UserID,
		Name:          name,
		CalendarToken: token,
		Settings:      settings,
	}

	if err := s.watchlistsRepo.Create(ctx, watchlist); err != nil {
		return nil, &dto.StoreError{Op: "failed to create watchlist", Err: err}
	}

	s.log.InfoContext(ctx, "Created watchlist",
		logger.Field("watchlist_id", watchlist.ID),
		logger.Field("user_id", watchlist.UserID),
	)

	return mapWatchlistResponse(watchlist), nil
}

// Get returns one watchlist of the user.
func (s *watchlistsService) Get(ctx context.Context, userID int64, id uint) (*dto.WatchlistResponse, error) {
	watchlist, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	return mapWatchlistResponse(watchlist), nil
}

// List returns all watchlists of the user, newest first.
func (s *watchlistsService) List(ctx context.Context, userID int64) ([]dto.WatchlistResponse, error) {
	watchlists, err := s.watchlistsRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to list watchlists", Err: err}
	}

	responses := make([]dto.WatchlistResponse, 0, len(watchlists))
	for i := range watchlists {
		responses = append(responses, *mapWatchlistResponse(&watchlists[i]))
	}
	return responses, nil
}

// Update renames a watchlist and/or changes its event settings. Nil request
// fields leave the corresponding value untouched; a negative reminder value
// clears the reminder.
func (s *watchlistsService) Update(ctx context.Context, userID int64, id uint, req *dto.UpdateWatchlistRequest) (*dto.WatchlistResponse, error) {
	watchlist, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, dto.ErrEmptyWatchlistName
		}
		if err := s.watchlistsRepo.UpdateName(ctx, userID, id, name); err != nil {
			return nil, &dto.StoreError{Op: "failed to rename watchlist", Err: err}
		}
		watchlist.Name = name
	}

	if req.Settings != nil || req.ReminderBeforeMinutes != nil {
		settings := watchlist.Settings
		if settings == nil {
			settings, err = settingsFromMap(nil)
			if err != nil {
				return nil, err
			}
			settings.WatchlistID = watchlist.ID
		}

		for key, enabled := range req.Settings {
			if !settings.SetInclude(entity.EventType(key), enabled) {
				return nil, fmt.Errorf("%w: %q", dto.ErrInvalidEventType, key)
			}
		}
		if req.ReminderBeforeMinutes != nil {
			if *req.ReminderBeforeMinutes < 0 {
				settings.ReminderBeforeMinutes = nil
			} else {
				settings.ReminderBeforeMinutes = req.ReminderBeforeMinutes
			}
		}

		if err := s.watchlistsRepo.UpdateSettings(ctx, settings); err != nil {
			return nil, &dto.StoreError{Op: "failed to update watchlist settings", Err: err}
		}
		watchlist.Settings = settings
	}

	return mapWatchlistResponse(watchlist), nil
}

// Delete removes a watchlist together with its settings and follows.
func (s *watchlistsService) Delete(ctx context.Context, userID int64, id uint) error {
	deleted, err := s.watchlistsRepo.Delete(ctx, userID, id)
	if err != nil {
		return &dto.StoreError{Op: "failed to delete watchlist", Err: err}
	}
	if !deleted {
		return dto.ErrWatchlistNotFound
	}

	s.log.InfoContext(ctx, "Deleted watchlist",
		logger.Field("watchlist_id", id),
		logger.Field("user_id", userID),
	)
	return nil
}

// FollowStock adds a stock to the watchlist by ticker. Unknown tickers are
// resolved and tracked on the way; following the same stock twice is a no-op.
func (s *watchlistsService) FollowStock(ctx context.Context, userID int64, id uint, ticker string) (*dto.StockResponse, error) {
	watchlist, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	stock, err := s.stocks.GetStock(ctx, ticker)
	if err != nil {
		return nil, err
	}

	follow := &entity.Follow{WatchlistID: watchlist.ID, StockSymbol: stock.Symbol}
	if err := s.watchlistsRepo.AddFollow(ctx, follow); err != nil {
		return nil, &dto.StoreError{Op: "failed to follow stock", Err: err}
	}

	s.log.InfoContext(ctx, "Watchlist now follows stock",
		logger.Field("watchlist_id", watchlist.ID),
		logger.StringField("symbol", stock.Symbol),
	)

	return &dto.StockResponse{
		Symbol:       stock.Symbol,
		Name:         stock.Name,
		LastSyncedAt: stock.LastSyncedAt,
	}, nil
}

// UnfollowStock removes a stock from the watchlist. The stock itself stays
// tracked for other watchlists.
func (s *watchlistsService) UnfollowStock(ctx context.Context, userID int64, id uint, ticker string) error {
	watchlist, err := s.find(ctx, userID, id)
	if err != nil {
		return err
	}

	symbol := strings.ToUpper(strings.TrimSpace(ticker))
	if symbol == "" {
		return dto.ErrEmptyTicker
	}

	removed, err := s.watchlistsRepo.RemoveFollow(ctx, watchlist.ID, symbol)
	if err != nil {
		return &dto.StoreError{Op: "failed to unfollow stock", Err: err}
	}
	if !removed {
		return dto.ErrStockNotFound
	}
	return nil
}

// GetStocks returns the stocks the watchlist follows.
func (s *watchlistsService) GetStocks(ctx context.Context, userID int64, id uint) ([]dto.WatchlistStockResponse, error) {
	watchlist, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	follows, err := s.watchlistsRepo.GetFollows(ctx, watchlist.ID)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to load watchlist follows", Err: err}
	}

	responses := make([]dto.WatchlistStockResponse, 0, len(follows))
	for _, follow := range follows {
		item := dto.WatchlistStockResponse{
			Symbol:     follow.StockSymbol,
			FollowedAt: follow.CreatedAt,
		}
		if follow.Stock != nil {
			item.Name = follow.Stock.Name
			item.LastSyncedAt = follow.Stock.LastSyncedAt
		}
		responses = append(responses, item)
	}
	return responses, nil
}

func (s *watchlistsService) find(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
	watchlist, err := s.watchlistsRepo.FindByID(ctx, userID, id)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to load watchlist", Err: err}
	}
	if watchlist == nil {
		return nil, dto.ErrWatchlistNotFound
	}
	return watchlist, nil
}

func settingsFromMap(include map[string]bool) (*entity.WatchlistSettings, error) {
	settings := &entity.WatchlistSettings{
		IncludeEarningsAnnouncement: true,
		IncludeDividendEx:           true,
		IncludeDividendDeclaration:  true,
		IncludeDividendRecord:       true,
		IncludeDividendPayment:      true,
		IncludeStockSplit:           true,
	}
	for key, enabled := range include {
		if !settings.SetInclude(entity.EventType(key), enabled) {
			return nil, fmt.Errorf("%w: %q", dto.ErrInvalidEventType, key)
		}
	}
	return settings, nil
}

func mapWatchlistResponse(watchlist *entity.Watchlist) *dto.WatchlistResponse {
	settings := watchlist.Settings
	resp := &dto.WatchlistResponse{
		ID:            watchlist.ID,
		UserID:        watchlist.UserID,
		Name:          watchlist.Name,
		CalendarToken: watchlist.CalendarToken,
		StockCount:    len(watchlist.Follows),
		CreatedAt:     watchlist.CreatedAt,
		Settings: dto.WatchlistSettingsResponse{
			IncludeEarningsAnnouncement: settings.Includes(entity.EventTypeEarningsAnnouncement),
			IncludeDividendEx:           settings.Includes(entity.EventTypeDividendEx),
			IncludeDividendDeclaration:  settings.Includes(entity.EventTypeDividendDeclaration),
			IncludeDividendRecord:       settings.Includes(entity.EventTypeDividendRecord),
			IncludeDividendPayment:      settings.Includes(entity.EventTypeDividendPayment),
			IncludeStockSplit:           settings.Includes(entity.EventTypeStockSplit),
		},
	}
	if settings != nil {
		resp.Settings.ReminderBeforeMinutes = settings.ReminderBeforeMinutes
	}
	return resp
}
