package repository

import (
	"context"
	"errors"

	"ticker-calendar/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WatchlistsRepository defines the interface for watchlist data operations.
// Lookups by id are always scoped to the owning user, lookups by calendar
// token are not since the token itself is the credential.
type WatchlistsRepository interface {
	Create(ctx context.Context, watchlist *entity.Watchlist) error
	FindByID(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error)
	FindByToken(ctx context.Context, token string) (*entity.Watchlist, error)
	ListByUser(ctx context.Context, userID int64) ([]entity.Watchlist, error)
	UpdateName(ctx context.Context, userID int64, id uint, name string) error
	UpdateSettings(ctx context.Context, settings *entity.WatchlistSettings) error
	Delete(ctx context.Context, userID int64, id uint) (bool, error)
	// AddFollow is a no-op when the watchlist already follows the symbol.
	AddFollow(ctx context.Context, follow *entity.Follow) error
	RemoveFollow(ctx context.Context, watchlistID uint, symbol string) (bool, error)
	GetFollows(ctx context.Context, watchlistID uint) ([]entity.Follow, error)
}

// NewWatchlistsRepository creates a new GORM-based watchlists repository.
func NewWatchlistsRepository(db *gorm.DB) WatchlistsRepository {
	return &watchlistsRepository{db: db}
}

type watchlistsRepository struct {
	db *gorm.DB
}

func (r *watchlistsRepository) Create(ctx context.Context, watchlist *entity.Watchlist) error {
	return r.db.WithContext(ctx).Create(watchlist).Error
}

func (r *watchlistsRepository) FindByID(ctx context.Context, userID int64, id uint) (*entity.Watchlist, error) {
	var watchlist entity.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Preload("Follows").
		Where("id = ? AND user_id = ?", id, userID).
		First(&watchlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &watchlist, nil
}

func (r *watchlistsRepository) FindByToken(ctx context.Context, token string) (*entity.Watchlist, error) {
	var watchlist entity.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Where("calendar_token = ?", token).
		First(&watchlist).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &watchlist, nil
}

func (r *watchlistsRepository) ListByUser(ctx context.Context, userID int64) ([]entity.Watchlist, error) {
	var watchlists []entity.Watchlist
	err := r.db.WithContext(ctx).
		Preload("Settings").
		Preload("Follows").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&watchlists).Error
	if err != nil {
		return nil, err
	}
	return watchlists, nil
}

func (r *watchlistsRepository) UpdateName(ctx context.Context, userID int64, id uint, name string) error {
	return r.db.WithContext(ctx).
		Model(&entity.Watchlist{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name).Error
}

func (r *watchlistsRepository) UpdateSettings(ctx context.Context, settings *entity.WatchlistSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}

func (r *watchlistsRepository) Delete(ctx context.Context, userID int64, id uint) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Watchlist{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *watchlistsRepository) AddFollow(ctx context.Context, follow *entity.Follow) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "watchlist_id"},
			{Name: "stock_symbol"},
		},
		DoNothing: true,
	}).Create(follow).Error
}

func (r *watchlistsRepository) RemoveFollow(ctx context.Context, watchlistID uint, symbol string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("watchlist_id = ? AND stock_symbol = ?", watchlistID, symbol).
		Delete(&entity.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *watchlistsRepository) GetFollows(ctx context.Context, watchlistID uint) ([]entity.Follow, error) {
	var follows []entity.Follow
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("watchlist_id = ?", watchlistID).
		Order("created_at desc").
		Find(&follows).Error
	if err != nil {
		return nil, err
	}
	return follows, nil
}
