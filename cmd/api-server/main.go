package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"bookshelf/database"
	"bookshelf/internal/cache"
	"bookshelf/internal/config"
	"bookshelf/internal/http-api/middleware"
	"bookshelf/internal/http-api/repository"
	"bookshelf/internal/http-api/router"
	"bookshelf/internal/http-api/service"
	"bookshelf/internal/http-api/validation"
	applog "bookshelf/internal/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("could not load config: %v", err)
	}

	logger := applog.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	genreCache, err := cache.Connect(ctx, cfg.RedisURL, cfg.RedisPassword, cfg.CacheTTL)
	if err != nil {
		return err
	}
	defer genreCache.Close()
	logger.Info("genre cache", "enabled", genreCache.Enabled())

	genres := service.NewGenreService(store, genreCache, logger)
	books := service.NewBookService(store, genres, validation.New(nil))

	var limiter *middleware.RateLimiter
	if cfg.RateLimitEnabled() {
		limiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
		go limiter.Run(ctx)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: router.New(router.Deps{
			Store:   store,
			Books:   books,
			Genres:  genres,
			Log:     logger,
			Limiter: limiter,
			Timeout: cfg.RequestTimeout,
		}),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("starting_http_server", "addr", srv.Addr, "env", cfg.GoEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.CatalogueStore, func(), error) {
	if cfg.UsesMemoryStore() {
		logger.Warn("using in-memory store, data is lost on exit")
		return repository.NewMemoryStore(), func() {}, nil
	}

	db, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return repository.NewGormStore(db), func() {
		if err := database.Close(db); err != nil {
			logger.Error("closing database", "error", err)
		}
	}, nil
}
