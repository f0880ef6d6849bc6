package main

import (
	"Go_Assets/config"
	"Go_Assets/internal/repo"
	"Go_Assets/internal/storage"
	"Go_Assets/internal/worker"
	"Go_Assets/pkg/logger"
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	config.InitConfig()
	logger.InitLogger(config.AppConfig.LogLevel, config.AppConfig.LogFile)
	repo.InitDatabase()
	storage.InitStorage()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := worker.RunJobWorker(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("job worker stopped")
	}
	logger.Log.Info().Msg("job worker stopped")
}
