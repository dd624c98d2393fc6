package dto

import "time"

// CreateWatchlistRequest is the DTO for creating a new watchlist. Settings
// maps event type values to an include flag, types left out default to true.
type CreateWatchlistRequest struct {
	UserID                int64           `json:"user_id"`
	Name                  string          `json:"name"`
	Settings              map[string]bool `json:"settings,omitempty"`
	ReminderBeforeMinutes *int64          `json:"reminder_before_minutes,omitempty"`
}

// UpdateWatchlistRequest is the DTO for updating name and/or settings of an
// existing watchlist. Nil fields are left untouched.
type UpdateWatchlistRequest struct {
	Name                  *string         `json:"name,omitempty"`
	Settings              map[string]bool `json:"settings,omitempty"`
	ReminderBeforeMinutes *int64          `json:"reminder_before_minutes,omitempty"`
}

// FollowRequest adds a stock to a watchlist by ticker.
type FollowRequest struct {
	Ticker string `json:"ticker"`
}

// WatchlistSettingsResponse mirrors the per-type include flags of a watchlist.
type WatchlistSettingsResponse struct {
	IncludeEarningsAnnouncement bool   `json:"include_earnings_announcement"`
	IncludeDividendEx           bool   `json:"include_dividend_ex"`
	IncludeDividendDeclaration  bool   `json:"include_dividend_declaration"`
	IncludeDividendRecord       bool   `json:"include_dividend_record"`
	IncludeDividendPayment      bool   `json:"include_dividend_payment"`
	IncludeStockSplit           bool   `json:"include_stock_split"`
	ReminderBeforeMinutes       *int64 `json:"reminder_before_minutes,omitempty"`
}

// WatchlistResponse is the API representation of a watchlist.
type WatchlistResponse struct {
	ID            uint                      `json:"id"`
	UserID        int64                     `json:"user_id"`
	Name          string                    `json:"name"`
	CalendarToken string                    `json:"calendar_token"`
	StockCount    int                       `json:"stock_count"`
	Settings      WatchlistSettingsResponse `json:"settings"`
	CreatedAt     time.Time                 `json:"created_at"`
}

// WatchlistStockResponse is one followed stock with its follow timestamp.
type WatchlistStockResponse struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	FollowedAt   time.Time `json:"followed_at"`
}
