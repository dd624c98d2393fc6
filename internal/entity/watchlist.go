package entity

import (
	"time"
)

// Watchlist groups followed stocks for one user. CalendarToken is the opaque
// handle its calendar feed is served under.
type Watchlist struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	UserID        int64     `gorm:"not null;index" json:"user_id"`
	Name          string    `gorm:"not null" json:"name"`
	CalendarToken string    `gorm:"uniqueIndex;not null" json:"calendar_token"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Settings *WatchlistSettings `gorm:"foreignKey:WatchlistID" json:"settings,omitempty"`
	Follows  []Follow           `gorm:"foreignKey:WatchlistID" json:"follows,omitempty"`
}

func (Watchlist) TableName() string {
	return "watchlists"
}

// WatchlistSettings controls which event types a watchlist calendar includes
// and the optional reminder lead time in minutes.
type WatchlistSettings struct {
	ID                          uint      `gorm:"primaryKey" json:"id"`
	WatchlistID                 uint      `gorm:"uniqueIndex;not null" json:"watchlist_id"`
	IncludeEarningsAnnouncement bool      `gorm:"default:true" json:"include_earnings_announcement"`
	IncludeDividendEx           bool      `gorm:"default:true" json:"include_dividend_ex"`
	IncludeDividendDeclaration  bool      `gorm:"default:true" json:"include_dividend_declaration"`
	IncludeDividendRecord       bool      `gorm:"default:true" json:"include_dividend_record"`
	IncludeDividendPayment      bool      `gorm:"default:true" json:"include_dividend_payment"`
	IncludeStockSplit           bool      `gorm:"default:true" json:"include_stock_split"`
	ReminderBeforeMinutes       *int64    `json:"reminder_before_minutes"`
	UpdatedAt                   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (WatchlistSettings) TableName() string {
	return "watchlist_settings"
}

// Includes reports whether events of type t belong in the calendar. A nil
// settings row means every type is included.
func (s *WatchlistSettings) Includes(t EventType) bool {
	if s == nil {
		return true
	}
	switch t {
	case EventTypeEarningsAnnouncement:
		return s.IncludeEarningsAnnouncement
	case EventTypeDividendEx:
		return s.IncludeDividendEx
	case EventTypeDividendDeclaration:
		return s.IncludeDividendDeclaration
	case EventTypeDividendRecord:
		return s.IncludeDividendRecord
	case EventTypeDividendPayment:
		return s.IncludeDividendPayment
	case EventTypeStockSplit:
		return s.IncludeStockSplit
	}
	return false
}

// SetInclude flips the include flag for events of type t and reports whether
// t is a known type.
func (s *WatchlistSettings) SetInclude(t EventType, include bool) bool {
	switch t {
	case EventTypeEarningsAnnouncement:
		s.IncludeEarningsAnnouncement = include
	case EventTypeDividendEx:
		s.IncludeDividendEx = include
	case EventTypeDividendDeclaration:
		s.IncludeDividendDeclaration = include
	case EventTypeDividendRecord:
		s.IncludeDividendRecord = include
	case EventTypeDividendPayment:
		s.IncludeDividendPayment = include
	case EventTypeStockSplit:
		s.IncludeStockSplit = include
	default:
		return false
	}
	return true
}

// ReminderBefore returns the reminder lead time, or nil when no reminder is
// configured. A configured zero renders as an immediate reminder.
func (s *WatchlistSettings) ReminderBefore() *time.Duration {
	if s == nil || s.ReminderBeforeMinutes == nil {
		return nil
	}
	d := time.Duration(*s.ReminderBeforeMinutes) * time.Minute
	return &d
}

// Follow links a watchlist to a tracked stock symbol.
type Follow struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WatchlistID uint      `gorm:"not null;uniqueIndex:idx_follows_watchlist_symbol" json:"watchlist_id"`
	StockSymbol string    `gorm:"not null;uniqueIndex:idx_follows_watchlist_symbol" json:"stock_symbol"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`

	Stock *Stock `gorm:"foreignKey:StockSymbol;references:Symbol" json:"-"`
}

func (Follow) TableName() string {
	return "follows"
}
