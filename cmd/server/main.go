package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	_ "github.com/tropicaldog17/folio/docs"
	"github.com/tropicaldog17/folio/internal/config"
	"github.com/tropicaldog17/folio/internal/db"
	"github.com/tropicaldog17/folio/internal/handlers"
	"github.com/tropicaldog17/folio/internal/logger"
	"github.com/tropicaldog17/folio/internal/models"
	"github.com/tropicaldog17/folio/internal/repositories"
	"github.com/tropicaldog17/folio/internal/scheduler"
	"github.com/tropicaldog17/folio/internal/services"
	"github.com/tropicaldog17/folio/internal/store"
)

// @title Folio API
// @version 1.0
// @description Portfolio holdings consolidation and contribution API
// @host localhost:8080
// @BasePath /api
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	zlog, err := logger.New(cfg.LogEnv)
	if err != nil {
		log.Fatal("Failed to create logger:", err)
	}
	defer zlog.Sync()

	repo, closeRepo, err := openRepository(cfg, zlog)
	if err != nil {
		zlog.Fatal("failed to open storage", zap.Error(err))
	}
	defer closeRepo()

	st := store.New(repo, zlog)
	if err := st.Load(context.Background()); err != nil {
		zlog.Fatal("failed to load portfolio", zap.Error(err))
	}

	// Initialize services
	providers := map[models.Category]services.PriceProvider{
		models.CategoryCrypto: services.NewCoinGeckoPriceProvider(cfg.Market.CoinGeckoBaseURL),
	}
	if cfg.Market.EquityQuoteURL != "" {
		equity := services.NewJSONQuoteProvider("equity", cfg.Market.EquityQuoteURL, cfg.Market.EquityQuotePath)
		providers[models.CategoryStock] = equity
		providers[models.CategoryETF] = equity
	}
	marketData := services.NewMarketDataService(providers, cfg.Market.QuoteTTL, zlog)
	schedule := services.NewScheduleService()
	holdingService := services.NewHoldingService(st, zlog)
	contributionService := services.NewContributionService(st, schedule, marketData, zlog)

	// Background jobs
	sched := scheduler.New(zlog)
	if cfg.Scheduler.Enabled {
		job := services.NewRecurringContributionJob(st, schedule, contributionService, zlog)
		if err := sched.AddJob(cfg.Scheduler.RecurringSchedule, job); err != nil {
			zlog.Fatal("failed to schedule recurring contributions", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
		// Catch up on occurrences that fell due while the server was down.
		go sched.RunNow(job)
	}

	// Initialize handlers
	router := handlers.NewRouter(
		handlers.NewHoldingHandler(holdingService, marketData, zlog),
		handlers.NewContributionHandler(contributionService, schedule, holdingService),
		zlog,
	)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handlers.CORS(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zlog.Info("server starting", zap.String("addr", cfg.Server.Addr), zap.String("storage", cfg.Storage.Backend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("graceful shutdown failed", zap.Error(err))
	}
}

// openRepository picks the snapshot backend named by the configuration.
func openRepository(cfg *config.Config, zlog *zap.Logger) (repositories.SnapshotRepository, func(), error) {
	if cfg.Storage.Backend == config.StorageFile {
		zlog.Info("using file storage", zap.String("path", cfg.Storage.FilePath))
		return repositories.NewFileSnapshotRepository(cfg.Storage.FilePath), func() {}, nil
	}

	database, err := db.Connect(&cfg.Storage.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Health(); err != nil {
		database.Close()
		return nil, nil, err
	}
	zlog.Info("database connection established", zap.String("driver", cfg.Storage.Database.Driver))

	repo, err := repositories.NewSnapshotRepository(database, repositories.DefaultSnapshotKey)
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return repo, func() { database.Close() }, nil
}
