package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"gorm.io/datatypes"

	"ticker-calendar/internal/entity"
	"ticker-calendar/internal/tracker/config"
	"ticker-calendar/internal/tracker/dto"
	"ticker-calendar/internal/tracker/repository"
	"ticker-calendar/pkg/common"
	"ticker-calendar/pkg/logger"
	"ticker-calendar/pkg/telegram"
)

const (
	defaultSweepSchedule  = "0 23 * * *"
	defaultStaleThreshold = 168 * time.Hour
	defaultLockTTL        = 30 * time.Minute
)

// SweeperService periodically re-syncs events for stocks whose data has gone
// stale. One failing stock never aborts the rest of a sweep; every run is
// recorded so operators can inspect past sweeps.
type SweeperService interface {
	Start(ctx context.Context)
	Stop()
	Sweep(ctx context.Context) (*dto.SweepReport, error)
	History(ctx context.Context, limit int) ([]dto.SweepRunResponse, error)
}

type sweeperService struct {
	stocksRepo repository.StocksRepository
	runsRepo   repository.SweepRunsRepository
	stocks     StocksService
	redis      *redis.Client
	notifier   telegram.Notifier
	log        *logger.Logger
	cron       *cron.Cron
	schedule   string
	threshold  time.Duration
	lockTTL    time.Duration
}

// NewSweeperService creates the staleness sweeper. The redis client and the
// notifier are both optional; without redis the sweep lock is skipped and
// concurrent sweeps are only prevented within this process.
func NewSweeperService(
	stocksRepo repository.StocksRepository,
	runsRepo repository.SweepRunsRepository,
	stocks StocksService,
	redisClient *redis.Client,
	notifier telegram.Notifier,
	cfg *config.Config,
	log *logger.Logger,
) SweeperService {
	schedule := cfg.Sweeper.CronSchedule
	if schedule == "" {
		schedule = defaultSweepSchedule
	}
	threshold := cfg.Sweeper.StalenessThreshold
	if threshold <= 0 {
		threshold = defaultStaleThreshold
	}
	lockTTL := cfg.Sweeper.LockTTL
	if lockTTL <= 0 {
		lockTTL = defaultLockTTL
	}

	return &sweeperService{
		stocksRepo: stocksRepo,
		runsRepo:   runsRepo,
		stocks:     stocks,
		redis:      redisClient,
		notifier:   notifier,
		log:        log,
		schedule:   schedule,
		threshold:  threshold,
		lockTTL:    lockTTL,
	}
}

// Start registers the sweep on its cron schedule and begins running it.
func (s *sweeperService) Start(ctx context.Context) {
	s.cron = cron.New(cron.WithLocation(time.UTC))

	_, err := s.cron.AddFunc(s.schedule, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.log.Error("Scheduled sweep failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		s.log.Error("Failed to register sweep schedule",
			logger.StringField("schedule", s.schedule),
			logger.ErrorField(err),
		)
		return
	}

	s.cron.Start()
	s.log.Info("Staleness sweeper started", logger.StringField("schedule", s.schedule))
}

// Stop halts the cron scheduler and waits for a running sweep to finish.
func (s *sweeperService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	s.log.Info("Staleness sweeper stopped")
}

// Sweep refreshes events for every stock whose last sync is older than the
// staleness threshold. Failures are recorded per stock and the sweep carries
// on; the returned report covers the whole run.
func (s *sweeperService) Sweep(ctx context.Context) (*dto.SweepReport, error) {
	started := time.Now().UTC()
	report := &dto.SweepReport{StartedAt: started}

	if !s.acquireLock(ctx) {
		report.Skipped = true
		report.Duration = time.Since(started).String()
		s.log.InfoContext(ctx, "Sweep lock held elsewhere, skipping this run")
		return report, nil
	}
	defer s.releaseLock(ctx)

	run := &entity.SweepRun{Status: entity.SweepStatusRunning, StartedAt: started}
	if err := s.runsRepo.Create(ctx, run); err != nil {
		return nil, &dto.StoreError{Op: "failed to record sweep run", Err: err}
	}

	cutoff := started.Add(-s.threshold)
	stale, err := s.stocksRepo.FindStale(ctx, cutoff)
	if err != nil {
		storeErr := &dto.StoreError{Op: "failed to list stale stocks", Err: err}
		s.finishRun(ctx, run, report, storeErr)
		s.notifyFailure(started, storeErr)
		return nil, storeErr
	}

	report.Scanned = len(stale)
	s.log.InfoContext(ctx, "Starting stale stock events update",
		logger.IntField("stale", len(stale)),
		logger.StringField("cutoff", cutoff.Format(time.RFC3339)),
	)

	for i := range stale {
		if ctx.Err() != nil {
			s.log.WarnContext(ctx, "Sweep interrupted", logger.ErrorField(ctx.Err()))
			break
		}

		stock := stale[i]
		if err := s.refreshStock(ctx, &stock); err != nil {
			report.Failed++
			report.FailedSymbols = append(report.FailedSymbols, stock.Symbol)
			s.log.ErrorContext(ctx, "Failed to refresh stale stock",
				logger.StringField("symbol", stock.Symbol),
				logger.ErrorField(err),
			)
			continue
		}
		report.Refreshed++
	}

	report.Duration = time.Since(started).String()
	s.finishRun(ctx, run, report, nil)

	s.log.InfoContext(ctx, "Completed stale stock events update",
		logger.IntField("success", report.Refreshed),
		logger.IntField("errors", report.Failed),
		logger.IntField("total", report.Scanned),
	)

	s.notifyReport(report)

	return report, nil
}

// History returns the most recent sweep runs, newest first.
func (s *sweeperService) History(ctx context.Context, limit int) ([]dto.SweepRunResponse, error) {
	runs, err := s.runsRepo.List(ctx, limit)
	if err != nil {
		return nil, &dto.StoreError{Op: "failed to list sweep runs", Err: err}
	}

	responses := make([]dto.SweepRunResponse, 0, len(runs))
	for _, run := range runs {
		responses = append(responses, dto.SweepRunResponse{
			ID:            run.ID,
			Status:        string(run.Status),
			StartedAt:     run.StartedAt,
			CompletedAt:   run.CompletedAt,
			Stats:         json.RawMessage(run.Stats),
			FailedSymbols: run.FailedSymbols,
			ErrorMessage:  run.ErrorMessage.String,
		})
	}
	return responses, nil
}

func (s *sweeperService) refreshStock(ctx context.Context, stock *entity.Stock) error {
	if _, err := s.stocks.SyncEvents(ctx, stock, entity.AllEventTypes()); err != nil {
		return err
	}
	if err := s.stocksRepo.TouchLastSynced(ctx, stock.Symbol, time.Now().UTC()); err != nil {
		return &dto.StoreError{Op: "failed to update stock sync timestamp", Err: err}
	}
	return nil
}

func (s *sweeperService) finishRun(ctx context.Context, run *entity.SweepRun, report *dto.SweepReport, cause error) {
	run.CompletedAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	run.FailedSymbols = report.FailedSymbols
	if stats, err := json.Marshal(report); err == nil {
		run.Stats = datatypes.JSON(stats)
	}

	if cause != nil {
		run.Status = entity.SweepStatusFailed
		run.ErrorMessage = sql.NullString{String: cause.Error(), Valid: true}
	} else {
		run.Status = entity.SweepStatusCompleted
	}

	if err := s.runsRepo.Update(ctx, run); err != nil {
		s.log.ErrorContext(ctx, "Failed to finalize sweep run record",
			logger.Field("run_id", run.ID),
			logger.ErrorField(err),
		)
	}
}

func (s *sweeperService) acquireLock(ctx context.Context) bool {
	if s.redis == nil {
		return true
	}

	acquired, err := s.redis.SetNX(ctx, common.RedisKeySweeperLock, time.Now().UTC().Format(time.RFC3339), s.lockTTL).Result()
	if err != nil {
		s.log.WarnContext(ctx, "Failed to acquire sweep lock, proceeding without it", logger.ErrorField(err))
		return true
	}
	return acquired
}

func (s *sweeperService) releaseLock(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, common.RedisKeySweeperLock).Err(); err != nil {
		s.log.WarnContext(ctx, "Failed to release sweep lock", logger.ErrorField(err))
	}
}

func (s *sweeperService) notifyReport(report *dto.SweepReport) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatSweepReportForTelegram(report)); err != nil {
		s.log.Warn("Failed to send sweep summary", logger.ErrorField(err))
	}
}

func (s *sweeperService) notifyFailure(startedAt time.Time, cause error) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.SendMessage(telegram.FormatSweepFailureForTelegram(startedAt, cause)); err != nil {
		s.log.Warn("Failed to send sweep failure alert", logger.ErrorField(err))
	}
}
