package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ticker-calendar/internal/tracker/config"
	delivery "ticker-calendar/internal/tracker/delivery/http"
	_ "ticker-calendar/internal/tracker/docs"
	"ticker-calendar/internal/tracker/repository"
	"ticker-calendar/internal/tracker/service"
	"ticker-calendar/pkg/logger"
	"ticker-calendar/pkg/postgres"
	"ticker-calendar/pkg/redis"
	"ticker-calendar/pkg/telegram"

	"github.com/labstack/echo/v4"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	swagger "github.com/swaggo/echo-swagger"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Starts the ticker calendar service",
	Run:   runServe,
}

func runServe(cmd *cobra.Command, args []string) {
	// Create a context that is canceled on interrupt signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(cfg.Logger.Level, cfg.Logger.Encoding)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Sync() }()

	appLogger.Info("Starting Ticker Calendar Service", logger.Field("name", cfg.App.Name))

	// Initialize database
	postgresCfg := postgres.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
	}
	db, err := postgres.NewDB(postgresCfg)
	if err != nil {
		appLogger.Fatal("Failed to initialize database", logger.ErrorField(err))
	}
	if sqlDB, err := db.DB.DB(); err == nil {
		defer sqlDB.Close()
	}

	// Initialize Redis. It is optional: without it the quote cache and the
	// sweep lock are disabled and everything else keeps working.
	var redisConn *redisv9.Client
	if cfg.Redis.Enabled {
		redisCfg := redis.Config{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		}
		redisClient, err := redis.NewClient(redisCfg)
		if err != nil {
			appLogger.Fatal("Failed to initialize Redis", logger.ErrorField(err))
		}
		defer redisClient.Close()
		redisConn = redisClient.Client
	} else {
		appLogger.Warn("Redis disabled, quote caching and the sweep lock are off")
	}

	// Initialize Telegram notifier
	var notifier telegram.Notifier
	if cfg.Telegram.Enabled {
		notifier, err = telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			appLogger.Fatal("Failed to initialize Telegram notifier", logger.ErrorField(err))
		}
	}

	// Initialize repositories
	stocksRepo := repository.NewStocksRepository(db.DB)
	eventsRepo := repository.NewStockEventsRepository(db.DB)
	watchlistsRepo := repository.NewWatchlistsRepository(db.DB)
	sweepRunsRepo := repository.NewSweepRunsRepository(db.DB)

	finnhubRepo := repository.NewFinnhubRepository(cfg, appLogger)
	alphaVantageRepo := repository.NewAlphaVantageRepository(cfg, appLogger)
	yahooRepo := repository.NewYahooFinanceRepository(cfg, appLogger)

	// Initialize services
	providers := service.NewProviderFacade(
		[]repository.StockLookupProvider{finnhubRepo, alphaVantageRepo},
		alphaVantageRepo,
		yahooRepo,
		appLogger,
	)
	stocksSvc := service.NewStocksService(stocksRepo, eventsRepo, providers, redisConn, cfg.Tracker.QuoteCacheTTL, appLogger)
	sweeperSvc := service.NewSweeperService(stocksRepo, sweepRunsRepo, stocksSvc, redisConn, notifier, cfg, appLogger)
	calendarSvc := service.NewCalendarService(watchlistsRepo, eventsRepo, appLogger)
	watchlistsSvc := service.NewWatchlistsService(watchlistsRepo, stocksSvc, appLogger)

	// Start the staleness sweeper
	sweeperSvc.Start(ctx)

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Initialize handlers and routes
	apiV1 := e.Group("/api/v1")

	stockHandler := delivery.NewStockHandler(stocksSvc, appLogger)
	stockHandler.RegisterRoutes(apiV1.Group("/stocks"))

	watchlistHandler := delivery.NewWatchlistHandler(watchlistsSvc, appLogger)
	watchlistHandler.RegisterRoutes(apiV1.Group("/watchlists"))

	calendarHandler := delivery.NewCalendarHandler(calendarSvc, appLogger)
	calendarHandler.RegisterRoutes(apiV1.Group("/calendar"))

	sweepHandler := delivery.NewSweepHandler(sweeperSvc, appLogger)
	sweepHandler.RegisterRoutes(apiV1.Group("/sweeps"))

	e.GET("/swagger/*", swagger.WrapHandler)

	// Start server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.API.Port)
		appLogger.Info("HTTP server starting", logger.Field("address", addr))
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			appLogger.Error("HTTP server failed to start", logger.ErrorField(err))
			stop() // trigger shutdown
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()

	appLogger.Info("Shutting down server...")

	sweeperSvc.Stop()

	// Gracefully shutdown the server
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("Server forced to shutdown", logger.ErrorField(err))
	}

	appLogger.Info("Server exiting")
}

// @title Ticker Calendar API
// @version 1.0
// @description Corporate event calendar tracking for stocks.
// @BasePath /api/v1
func main() {
	rootCmd := &cobra.Command{Use: "tracker-service"}

	serveCmd.Flags().StringVarP(&configPath, "config", "c", "configs/config.yaml", "Path to the configuration file")

	rootCmd.AddCommand(serveCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing tracker-service CLI: %s\n", err)
		os.Exit(1)
	}
}
