package dto

import "time"

// StockResponse is the API representation of a tracked stock.
type StockResponse struct {
	Symbol       string    `json:"symbol"`
	Name         string    `json:"name"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// StockEventResponse is the API representation of a corporate event.
type StockEventResponse struct {
	StockSymbol  string    `json:"stock_symbol"`
	Type         string    `json:"type"`
	EventDate    string    `json:"event_date"`
	Source       string    `json:"source"`
	LastSyncedAt time.Time `json:"last_synced_at"`
}

// RefreshResponse reports the outcome of a manual event resync.
type RefreshResponse struct {
	Symbol       string `json:"symbol"`
	EventsSynced int    `json:"events_synced"`
}
