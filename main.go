package main

import (
	"Go_Assets/config"
	"Go_Assets/internal/mq"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/service"
	"Go_Assets/internal/storage"
	"Go_Assets/internal/task"
	"Go_Assets/pkg/logger"
	"Go_Assets/router"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// main initializes services and starts the HTTP server.
func main() {
	config.InitConfig()
	logger.InitLogger(config.AppConfig.LogLevel, config.AppConfig.LogFile)
	repo.InitDatabase()
	if config.AppConfig.RedisEnabled {
		repo.InitRedis()
	}
	storage.InitStorage()
	if config.AppConfig.JobsEnabled {
		service.SetJobDispatcher(task.NewDispatcher())
		defer mq.ClosePublisher()
	}

	srv := &http.Server{
		Addr:              config.AppConfig.HTTPAddr,
		Handler:           router.InitRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Log.Info().Str("addr", srv.Addr).Msg("http server started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal().Err(err).Msg("http server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("http server shutdown")
	}
}
