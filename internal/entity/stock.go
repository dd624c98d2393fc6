package entity

import (
	"time"
)

// Stock is a tracked instrument. Symbol is the canonical upper-case ticker
// and the business identity of the row.
type Stock struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Symbol       string    `gorm:"uniqueIndex;not null" json:"symbol"`
	Name         string    `gorm:"not null" json:"name"`
	LastSyncedAt time.Time `json:"last_synced_at"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Events []StockEvent `gorm:"foreignKey:StockSymbol;references:Symbol" json:"events,omitempty"`
}

func (Stock) TableName() string {
	return "stocks"
}
