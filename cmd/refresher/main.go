package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"stockprices-service/internal/bootstrap"
	"stockprices-service/internal/config"
	"stockprices-service/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	log := logx.L()
	cfg := config.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := bootstrap.BuildStore(ctx, cfg)
	if err != nil {
		log.Fatal("bootstrap store", zap.Error(err))
	}
	defer closeStore()

	cache, closeCache := bootstrap.BuildPriceCache(cfg)
	defer closeCache()

	svc := bootstrap.BuildService(cfg, cache, store)
	w := bootstrap.BuildRefresher(cfg, svc)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		cancel()
	}()

	w.Start(ctx)
	log.Info("refresher stopped")
}
