package main // Entry point package

import (
	"context"   // context carries the shutdown signal
	"errors"    // errors distinguishes a clean server close
	"net/http"  // http.ErrServerClosed
	"os"        // os.Exit on startup failures
	"os/signal" // signal.NotifyContext for graceful shutdown
	"syscall"   // SIGTERM from container runtimes
	"time"      // shutdown deadline

	"github.com/iliyamo/movielist/internal/config"     // Internal config loader
	"github.com/iliyamo/movielist/internal/database"   // Database openers and schema
	"github.com/iliyamo/movielist/internal/handler"    // HTTP handlers
	"github.com/iliyamo/movielist/internal/logger"     // slog + lumberjack setup
	"github.com/iliyamo/movielist/internal/queue"      // Movie event consumer
	"github.com/iliyamo/movielist/internal/repository" // Storage gateways
	"github.com/iliyamo/movielist/internal/router"     // Internal router setup
	"github.com/iliyamo/movielist/internal/service"    // Movie service
)

func main() {
	cfg := config.Load()       // Load environment config
	log := logger.New(cfg.Log) // Structured application logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("open database", "driver", cfg.DBDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	rdb := config.NewRedisClient(cfg.Redis) // nil when Redis is unreachable
	if rdb != nil {
		defer rdb.Close()
	}

	var pub service.EventPublisher = service.NopPublisher{}
	if cfg.Events.Enabled {
		pub = service.NewRabbitPublisher(cfg.Events.URL, cfg.Events.Queue)

		audit := logger.RotatingFile(cfg.Events.LogPath, cfg.Log)
		defer audit.Close()
		consumer := queue.NewConsumer(cfg.Events.URL, cfg.Events.Queue, audit, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("movie-consumer stopped", "error", err)
			}
		}()
	}

	movies := service.NewMovieService(repo, pub, log)

	e := router.NewServer(cfg, log, rdb) // Create Echo instance
	router.RegisterRoutes(e)             // Register application routes
	router.RegisterMovies(e, handler.NewMovieHandler(movies, log), router.MovieRouteOptions{
		Cache: cfg.Cache,
		Redis: rdb,
		Auth:  cfg.Auth,
	})
	if cfg.Auth.Enabled() {
		router.RegisterAuth(e, handler.NewAuthHandler(cfg.Auth))
	}

	addr := ":" + cfg.Port // Address string with port
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}

// openStore opens the configured database, makes sure the movies table
// exists and returns the matching gateway with its close function.
func openStore(ctx context.Context, cfg config.Config) (service.MovieRepository, func(), error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		db, err := database.OpenPostgres(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBSSLMode)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, db.DB, cfg.DBDriver); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repository.NewPGMovieRepo(db), func() { _ = db.Close() }, nil

	case config.DriverSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		repo := repository.NewGormMovieRepo(db)
		if err := repo.AutoMigrate(); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return repo, func() { _ = sqlDB.Close() }, nil

	default:
		db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			return nil, nil, err
		}
		if err := database.EnsureSchema(ctx, db, cfg.DBDriver); err != nil {
			_ = db.Close()
			return nil, nil, err
		}
		return repository.NewMovieRepo(db), func() { _ = db.Close() }, nil
	}
}
