package repository

import (
	"context"

	"ticker-calendar/internal/entity"

	"gorm.io/gorm"
)

// SweepRunsRepository defines the interface for sweep run bookkeeping.
type SweepRunsRepository interface {
	Create(ctx context.Context, run *entity.SweepRun) error
	Update(ctx context.Context, run *entity.SweepRun) error
	List(ctx context.Context, limit int) ([]entity.SweepRun, error)
}

// NewSweepRunsRepository creates a new GORM-based sweep runs repository.
func NewSweepRunsRepository(db *gorm.DB) SweepRunsRepository {
	return &sweepRunsRepository{db: db}
}

type sweepRunsRepository struct {
	db *gorm.DB
}

func (r *sweepRunsRepository) Create(ctx context.Context, run *entity.SweepRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *sweepRunsRepository) Update(ctx context.Context, run *entity.SweepRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

func (r *sweepRunsRepository) List(ctx context.Context, limit int) ([]entity.SweepRun, error) {
	if limit <= 0 {
		limit = 20
	}
	var runs []entity.SweepRun
	if err := r.db.WithContext(ctx).Order("started_at desc").Limit(limit).Find(&runs).Error; err != nil {
		return nil, err
	}
	return runs, nil
}
