package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/api-sage/invest-ledger/src/internal/adapter/http/controller"
	"github.com/api-sage/invest-ledger/src/internal/adapter/http/middleware"
	"github.com/api-sage/invest-ledger/src/internal/adapter/http/router"
	"github.com/api-sage/invest-ledger/src/internal/adapter/repository/implementations"
	"github.com/api-sage/invest-ledger/src/internal/adapter/repository/memory"
	"github.com/api-sage/invest-ledger/src/internal/config"
	"github.com/api-sage/invest-ledger/src/internal/domain"
	"github.com/api-sage/invest-ledger/src/internal/logger"
	"github.com/api-sage/invest-ledger/src/internal/usecase/services"
	"github.com/api-sage/invest-ledger/src/migrations"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	flag.Parse()

	if err := run(*envFile); err != nil {
		logger.Error("server exited", err, nil)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.Load(envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := logger.Configure(cfg.LogLevel); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, health, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	ledger := services.NewLedgerService(store)
	commissions := services.NewCommissionService(store, ledger, cfg.CommissionRate)
	investments := services.NewInvestmentService(store, ledger, commissions, services.SystemClock)
	sweeper := services.NewMaturitySweeper(investments, cfg.SweepInterval, services.SystemClock)

	handler := router.New(
		middleware.PrincipalAuth(cfg.JWTSecret),
		health,
		controller.NewPackController(services.NewPackService(store)),
		controller.NewInvestmentController(investments),
		controller.NewTransactionController(services.NewTransactionService(store, ledger, services.SystemClock)),
		controller.NewKYCController(services.NewKYCService(store, services.SystemClock)),
		controller.NewAccountController(services.NewAccountService(store)),
		controller.NewStatsController(services.NewReportingService(store, services.SystemClock)),
		controller.NewReferralController(commissions),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		sweeper.Run(ctx)
	}()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", logger.Fields{
			"port":          cfg.HTTPPort,
			"storage":       cfg.StorageDriver,
			"sweepInterval": cfg.SweepInterval.String(),
		})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		stop()
		wg.Wait()
		return err
	case <-ctx.Done():
	}

	logger.Info("server shutting down", logger.Fields{"grace": cfg.ShutdownGrace.String()})
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace)
	defer cancel()
	err = server.Shutdown(shutdownCtx)
	wg.Wait()
	return err
}

func openStore(ctx context.Context, cfg config.Config) (domain.Store, router.HealthCheck, func(), error) {
	if cfg.StorageDriver == config.StorageDriverMemory {
		logger.Warn("using in-memory storage; state is lost on restart", nil)
		return memory.NewStore(), nil, func() {}, nil
	}

	db, err := implementations.Open(ctx, cfg.DatabaseDSN, implementations.DefaultPoolSettings)
	if err != nil {
		return nil, nil, nil, err
	}

	applied, err := implementations.RunMigrations(ctx, db, migrationSource(cfg.MigrationsDir))
	if err != nil {
		_ = db.Close()
		return nil, nil, nil, err
	}
	logger.Info("migrations applied", logger.Fields{"count": applied})

	return implementations.NewStore(db), db.PingContext, closer(db), nil
}

// migrationSource prefers an on-disk directory so operators can ship extra
// migrations without rebuilding.
func migrationSource(dir string) fs.FS {
	if info, err := os.Stat(dir); err == nil && info.IsDir() {
		return os.DirFS(dir)
	}
	return migrations.Files
}

func closer(db *sql.DB) func() {
	return func() {
		if err := db.Close(); err != nil {
			logger.Error("close database failed", err, nil)
		}
	}
}
