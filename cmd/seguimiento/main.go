// Package main - punto de entrada del servicio de seguimiento de competencias.
//
// El servicio lleva el registro de estudiantes por grupo, la captura de
// niveles de rúbrica por actividad y el cálculo del porcentaje de logro por
// competencia, expuesto por una API REST.
//
// La arquitectura sigue Clean Architecture y DDD:
// - Domain: reglas de la rúbrica y de la evidencia, sin dependencias externas
// - Application: casos de uso (Commands/Queries)
// - Infrastructure: persistencia CSV o PostgreSQL, caché Redis
// - Interface: HTTP endpoints
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/competencias-hub/seguimiento/config"

	// Application layer
	"github.com/competencias-hub/seguimiento/internal/application/command"
	"github.com/competencias-hub/seguimiento/internal/application/query"

	// Domain layer
	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/student"

	// Infrastructure layer
	"github.com/competencias-hub/seguimiento/internal/infrastructure/persistence/csvfile"
	"github.com/competencias-hub/seguimiento/internal/infrastructure/persistence/postgres"
	"github.com/competencias-hub/seguimiento/internal/infrastructure/persistence/redis"
	"github.com/competencias-hub/seguimiento/internal/infrastructure/scheduler"
	"github.com/competencias-hub/seguimiento/internal/infrastructure/scheduler/jobs"

	// Interface layer
	httpserver "github.com/competencias-hub/seguimiento/internal/interface/http"

	// Packages
	"github.com/competencias-hub/seguimiento/pkg/logger"
	"github.com/competencias-hub/seguimiento/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN
// ══════════════════════════════════════════════════════════════════════════════

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// ─────────────────────────────────────────────────────────────────────────
	// 1. CONFIGURATION
	// ─────────────────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 2. LOGGING
	// ─────────────────────────────────────────────────────────────────────────
	log := setupLogger(cfg)
	log.Info("starting competency tracker",
		logger.String("env", string(cfg.App.Environment)),
		logger.String("backend", string(cfg.Storage.Backend)),
		logger.Bool("debug", cfg.App.Debug),
	)

	// ─────────────────────────────────────────────────────────────────────────
	// 3. STORAGE BACKEND
	// ─────────────────────────────────────────────────────────────────────────
	var (
		students  student.Repository
		store     evidence.Store
		lifecycle evidence.Lifecycle
		health    httpserver.HealthChecker
	)

	switch cfg.Storage.Backend {
	case config.StorageCSV:
		log.Info("opening flat-file store", logger.String("dir", cfg.Storage.DataDir))
		fileStore, err := csvfile.Open(cfg.Storage.DataDir)
		if err != nil {
			return fmt.Errorf("failed to open data directory: %w", err)
		}
		students = fileStore.Students()
		store = fileStore.Evidence()
		lifecycle = fileStore.Lifecycle()

	case config.StoragePostgres:
		log.Info("connecting to database...")

		// The database may still be starting up alongside the service.
		var dbConn *postgres.Connection
		err := retry.ConnectRetrier().Do(ctx, func(ctx context.Context) error {
			var connErr error
			dbConn, connErr = postgres.NewConnectionFromURL(ctx, cfg.Database.URL)
			if connErr != nil {
				log.Warn("database not ready, retrying...", logger.Err(connErr))
			}
			return connErr
		})
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer func() {
			log.Info("closing database connection...")
			dbConn.Close()
		}()

		log.Info("running database migrations...")
		migrator := postgres.NewMigrator(dbConn)
		if err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		students = postgres.NewStudentRepository(dbConn)
		store = postgres.NewEvidenceStore(dbConn)
		lifecycle = postgres.NewLifecycleManager(dbConn)
		health = dbConn

	default:
		return fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 4. REDIS REPORT CACHE (optional)
	// ─────────────────────────────────────────────────────────────────────────
	var reports evidence.ReportCache

	if !cfg.Redis.Disabled {
		log.Info("connecting to Redis...")
		cache, err := redis.NewCacheFromURL(cfg.Redis.URL)
		if err != nil {
			// The cache is an optimization; the tracker runs without it.
			log.Warn("failed to connect to Redis, report caching disabled", logger.Err(err))
		} else {
			defer cache.Close()
			reports = redis.NewReportCache(cache, cfg.Redis.ReportTTL)
			log.Info("Redis connection established")
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 5. APPLICATION LAYER (Commands, Queries)
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing application layer...")

	registerCmd := command.NewRegisterStudentHandler(students)
	captureCmd := command.NewCaptureActivityHandler(students, store, reports)
	closeCmd := command.NewCloseSemesterHandler(lifecycle, reports, cfg.Admin.PassphraseHash)

	groupsQuery := query.NewListGroupsHandler(students)
	studentsQuery := query.NewListStudentsHandler(students)
	achievementQuery := query.NewGetAchievementHandler(store, reports)
	exportQuery := query.NewExportEvidenceHandler(store, csvfile.MarshalRecords)

	// ─────────────────────────────────────────────────────────────────────────
	// 6. BACKGROUND JOBS
	// ─────────────────────────────────────────────────────────────────────────
	var sched *scheduler.Scheduler

	if reports != nil {
		sched = scheduler.New(log)

		// Re-warm each group report on the cache TTL cadence so dashboards
		// rarely hit a cold cache.
		warm := jobs.NewWarmReports(students, store, reports, log)
		if err := sched.Register(warm, scheduler.NewIntervalSchedule(cfg.Redis.ReportTTL)); err != nil {
			return fmt.Errorf("failed to register warm-reports job: %w", err)
		}

		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
	}

	// ─────────────────────────────────────────────────────────────────────────
	// 7. HTTP SERVER
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("initializing HTTP server...")

	httpConfig := httpserver.DefaultConfig()
	httpConfig.Host = cfg.HTTP.Host
	httpConfig.Port = cfg.HTTP.Port
	httpConfig.ReadTimeout = cfg.HTTP.ReadTimeout
	httpConfig.WriteTimeout = cfg.HTTP.WriteTimeout
	httpConfig.IdleTimeout = cfg.HTTP.IdleTimeout

	httpDeps := httpserver.Dependencies{
		RegisterStudentHandler: registerCmd,
		CaptureActivityHandler: captureCmd,
		CloseSemesterHandler:   closeCmd,
		ListGroupsHandler:      groupsQuery,
		ListStudentsHandler:    studentsQuery,
		GetAchievementHandler:  achievementQuery,
		ExportEvidenceHandler:  exportQuery,
		Logger:                 log,
		Storage:                health,
	}

	server := httpserver.NewServer(httpConfig, httpDeps)

	errCh := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	// ─────────────────────────────────────────────────────────────────────────
	// 8. GRACEFUL SHUTDOWN
	// ─────────────────────────────────────────────────────────────────────────
	log.Info("competency tracker is running", logger.String("address", server.Address()))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	select {
	case sig := <-sigCh:
		log.Info("received shutdown signal", logger.String("signal", sig.String()))
	case err := <-errCh:
		log.Error("service error", logger.Err(err))
		return err
	}

	log.Info("starting graceful shutdown...", logger.Duration("timeout", cfg.App.ShutdownTimeout))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to stop HTTP server gracefully", logger.Err(err))
		return err
	}

	if sched != nil {
		if err := sched.Stop(); err != nil {
			log.Warn("failed to stop scheduler", logger.Err(err))
		}
	}

	log.Info("shutdown completed successfully")
	return nil
}

// ══════════════════════════════════════════════════════════════════════════════
// HELPERS
// ══════════════════════════════════════════════════════════════════════════════

// setupLogger configures structured logging from the app settings.
func setupLogger(cfg *config.Config) *logger.Logger {
	level := logger.LevelInfo
	if cfg.App.Debug {
		level = logger.LevelDebug
	}

	return logger.New(logger.Options{
		Level:     level,
		Output:    os.Stdout,
		AddCaller: !cfg.IsProduction(),
	})
}
