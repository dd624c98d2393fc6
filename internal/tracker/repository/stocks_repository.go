package repository

import (
	"context"
	"errors"
	"time"

	"ticker-calendar/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StocksRepository defines the interface for stock data operations.
type StocksRepository interface {
	// FindBySymbol returns the stock for a symbol, or nil when untracked.
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	// Upsert inserts the stock or, when the symbol exists, refreshes its
	// name and sync timestamp. Safe under concurrent callers.
	Upsert(ctx context.Context, stock *entity.Stock) error
	// FindStale returns stocks whose last sync is older than cutoff,
	// oldest first.
	FindStale(ctx context.Context, cutoff time.Time) ([]entity.Stock, error)
	// TouchLastSynced moves the sync timestamp of a symbol forward.
	TouchLastSynced(ctx context.Context, symbol string, syncedAt time.Time) error
}

// NewStocksRepository creates a new GORM-based stocks repository.
func NewStocksRepository(db *gorm.DB) StocksRepository {
	return &stocksRepository{db: db}
}

type stocksRepository struct {
	db *gorm.DB
}

func (r *stocksRepository) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var stock entity.Stock
	err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&stock).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &stock, nil
}

func (r *stocksRepository) Upsert(ctx context.Context, stock *entity.Stock) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "last_synced_at", "updated_at"}),
	}).Create(stock).Error
}

func (r *stocksRepository) FindStale(ctx context.Context, cutoff time.Time) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("last_synced_at < ?", cutoff).
		Order("last_synced_at asc").
		Find(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *stocksRepository) TouchLastSynced(ctx context.Context, symbol string, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entity.Stock{}).
		Where("symbol = ?", symbol).
		Update("last_synced_at", syncedAt).Error
}
