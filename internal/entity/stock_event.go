package entity

import (
	"time"
)

// EventType identifies the kind of corporate event tracked for a stock.
type EventType string

const (
	EventTypeEarningsAnnouncement EventType = "EARNINGS_ANNOUNCEMENT"
	EventTypeDividendEx           EventType = "DIVIDEND_EX"
	EventTypeDividendDeclaration  EventType = "DIVIDEND_DECLARATION"
	EventTypeDividendRecord       EventType = "DIVIDEND_RECORD"
	EventTypeDividendPayment      EventType = "DIVIDEND_PAYMENT"
	EventTypeStockSplit           EventType = "STOCK_SPLIT"
)

// AllEventTypes returns every supported event type in declaration order.
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeEarningsAnnouncement,
		EventTypeDividendEx,
		EventTypeDividendDeclaration,
		EventTypeDividendRecord,
		EventTypeDividendPayment,
		EventTypeStockSplit,
	}
}

// Valid reports whether t is a supported event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeEarningsAnnouncement,
		EventTypeDividendEx,
		EventTypeDividendDeclaration,
		EventTypeDividendRecord,
		EventTypeDividendPayment,
		EventTypeStockSplit:
		return true
	}
	return false
}

// StockEvent is a dated corporate event for a stock. A row is identified by
// the (stock_symbol, type, event_date, source) tuple; re-syncing the same
// event only refreshes LastSyncedAt.
type StockEvent struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	StockSymbol  string    `gorm:"not null;uniqueIndex:idx_stock_events_identity" json:"stock_symbol"`
	Type         EventType `gorm:"not null;uniqueIndex:idx_stock_events_identity" json:"type"`
	EventDate    time.Time `gorm:"not null;uniqueIndex:idx_stock_events_identity" json:"event_date"`
	Source       string    `gorm:"not null;uniqueIndex:idx_stock_events_identity" json:"source"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`

	Stock *Stock `gorm:"foreignKey:StockSymbol;references:Symbol" json:"-"`
}

func (StockEvent) TableName() string {
	return "stock_events"
}
