package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"leads_service/internal/auth"
	"leads_service/internal/config"
	"leads_service/internal/handler"
	"leads_service/internal/metrics"
	"leads_service/internal/service"
	"leads_service/internal/storage"

	"github.com/gin-gonic/gin"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"

	shutdownTimeout = 5 * time.Second
)

func main() {
	//PARSE ARGS
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to YAML config; environment only when empty")

	flag.Parse()

	cfg := config.MustLoadConfig(configPath)

	//INIT LOGGER
	lgr := setupLogger(cfg.Env)
	lgr.Info("started leads service", slog.String("env", cfg.Env), slog.String("storage", cfg.Storage.Driver))

	if cfg.Env == envProd {
		gin.SetMode(gin.ReleaseMode)
	}

	//INIT DB
	st, err := setupStorage(cfg, lgr)
	if err != nil {
		lgr.Error("failed to init storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer st.Close()

	tokens, err := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.TTL)
	if err != nil {
		lgr.Error("failed to init token service", slog.Any("error", err))
		os.Exit(1)
	}

	h := handler.NewHandler(
		service.NewAuthService(st, tokens),
		service.NewLeadService(st),
		st,
		metrics.New("leads_service"),
		lgr,
	)

	//INIT SERVER
	srv := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      h.Handler(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		lgr.Info("starting http server", slog.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lgr.Error("http server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-done
	lgr.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		lgr.Error("server forced to shutdown", slog.Any("error", err))
	}

	lgr.Info("server exited")
}

func setupStorage(cfg *config.Config, lgr *slog.Logger) (storage.Storage, error) {
	if cfg.Storage.Driver == config.StorageDriverMemory {
		lgr.Warn("using in-memory storage, data is lost on restart")
		return storage.NewMemoryStorage(), nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pg, err := storage.NewPostgresStorage(ctx, cfg.DB.DSN())
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Migrate {
		if err := pg.Migrate(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		lgr.Debug("schema migrated")
	}

	return pg, nil
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}
	return log
}
