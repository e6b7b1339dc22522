package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatali-fataliyev/expense_tracker/api"
	"github.com/fatali-fataliyev/expense_tracker/internal/config"
	"github.com/fatali-fataliyev/expense_tracker/internal/contextutil"
	"github.com/fatali-fataliyev/expense_tracker/internal/item"
	"github.com/fatali-fataliyev/expense_tracker/internal/storage"
	"github.com/fatali-fataliyev/expense_tracker/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		return
	}

	if err := logging.Init(cfg.LogLevel, cfg.IsProduction(), cfg.LogDir); err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		return
	}

	logging.Logger.Info("application starting...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := storage.Open(ctx, cfg)
	if err != nil {
		logging.Logger.Errorf("failed to initialize storage: %v", err)
		return
	}
	defer backend.Close()

	tracker, err := item.NewItemTracker(contextutil.WithTraceID(ctx, "startup"), backend)
	if err != nil {
		logging.Logger.Errorf("failed to create item tracker: %v", err)
		return
	}
	logging.Logger.Infof("using %s storage", tracker.StorageType)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: api.NewRouter(api.NewApi(tracker), cfg.APIKeyHash),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Errorf("failed to shutdown server: %v", err)
		}
	}()

	logging.Logger.Infof("Starting server on port: %s", cfg.Port)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Logger.Errorf("failed to start server: %v", err)
		return
	}
	logging.Logger.Info("server stopped")
}
