package repository

import (
	"context"

	"ticker-calendar/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockEventsRepository defines the interface for stock event data operations.
type StockEventsRepository interface {
	// UpsertBatch writes events idempotently. Rows whose identity tuple
	// already exists only get their last_synced_at refreshed.
	UpsertBatch(ctx context.Context, events []entity.StockEvent) error
	// FindBySymbol returns all stored events for a symbol ordered by date.
	FindBySymbol(ctx context.Context, symbol string) ([]entity.StockEvent, error)
	// FindForWatchlist returns the events of all followed stocks of a
	// watchlist, filtered by its per-type include flags. A watchlist
	// without a settings row includes every type. Ordering is fully
	// deterministic so a rendered calendar is reproducible.
	FindForWatchlist(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error)
}

// NewStockEventsRepository creates a new GORM-based stock events repository.
func NewStockEventsRepository(db *gorm.DB) StockEventsRepository {
	return &stockEventsRepository{db: db}
}

type stockEventsRepository struct {
	db *gorm.DB
}

func (r *stockEventsRepository) UpsertBatch(ctx context.Context, events []entity.StockEvent) error {
	if len(events) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "stock_symbol"},
			{Name: "type"},
			{Name: "event_date"},
			{Name: "source"},
		},
		DoUpdates: clause.AssignmentColumns([]string{"last_synced_at"}),
	}).Create(&events).Error
}

func (r *stockEventsRepository) FindBySymbol(ctx context.Context, symbol string) ([]entity.StockEvent, error) {
	var events []entity.StockEvent
	err := r.db.WithContext(ctx).
		Where("stock_symbol = ?", symbol).
		Order("event_date asc").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *stockEventsRepository) FindForWatchlist(ctx context.Context, watchlistID uint) ([]entity.StockEvent, error) {
	typeFilter := `(stock_events.type = 'EARNINGS_ANNOUNCEMENT' AND COALESCE(ws.include_earnings_announcement, TRUE))
		OR (stock_events.type = 'DIVIDEND_EX' AND COALESCE(ws.include_dividend_ex, TRUE))
		OR (stock_events.type = 'DIVIDEND_DECLARATION' AND COALESCE(ws.include_dividend_declaration, TRUE))
		OR (stock_events.type = 'DIVIDEND_RECORD' AND COALESCE(ws.include_dividend_record, TRUE))
		OR (stock_events.type = 'DIVIDEND_PAYMENT' AND COALESCE(ws.include_dividend_payment, TRUE))
		OR (stock_events.type = 'STOCK_SPLIT' AND COALESCE(ws.include_stock_split, TRUE))`

	var events []entity.StockEvent
	err := r.db.WithContext(ctx).
		Joins("JOIN follows f ON f.stock_symbol = stock_events.stock_symbol").
		Joins("LEFT JOIN watchlist_settings ws ON ws.watchlist_id = f.watchlist_id").
		Where("f.watchlist_id = ?", watchlistID).
		Where(typeFilter).
		Order("stock_events.event_date asc, stock_events.stock_symbol asc, stock_events.type asc, stock_events.source asc").
		Preload("Stock").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
