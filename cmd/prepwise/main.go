package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"prepwise/internal/gateway/app"
	"prepwise/internal/logging"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		logging.L().Fatal("failed to initialize app", zap.Error(err))
	}

	go func() {
		if err := a.Start(); err != nil {
			logging.L().Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.L().Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		logging.L().Fatal("server forced to shutdown", zap.Error(err))
	}

	logging.L().Info("server exiting")
}
