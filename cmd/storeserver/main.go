package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"avtoelon/internal/devstore"
	"avtoelon/internal/infra/config"
	"avtoelon/internal/infra/obs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		obs.NewLogger("dev").Error("configuration invalid", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env)

	var store devstore.Store
	if cfg.MongoURI != "" {
		mongoStore, err := devstore.NewMongoStore(cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			logger.Error("mongo connect failed", "error", err)
			os.Exit(1)
		}
		if err := mongoStore.Ping(ctx); err != nil {
			logger.Error("mongo ping failed", "error", err)
			os.Exit(1)
		}
		logger.Info("using mongo store", "db", cfg.MongoDB)
		store = mongoStore
	} else {
		logger.Info("using in-memory store")
		store = devstore.NewMemoryStore()
	}

	server := devstore.NewServer(cfg.HTTPAddr, cfg.Env, store, logger)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
	}()

	logger.Info("record store starting", "addr", cfg.HTTPAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	}
	logger.Info("record store stopped")
}
