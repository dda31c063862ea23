package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/drrahee-lab/Fuelflow/internal/config"
	"github.com/drrahee-lab/Fuelflow/internal/form"
	apphttp "github.com/drrahee-lab/Fuelflow/internal/http"
	"github.com/drrahee-lab/Fuelflow/internal/ledger"
	applog "github.com/drrahee-lab/Fuelflow/internal/log"
	"github.com/drrahee-lab/Fuelflow/internal/recognizer"
	"github.com/drrahee-lab/Fuelflow/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := applog.Setup(applog.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	kv, err := storage.Open(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open storage", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer kv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := ledger.New(kv)
	if err := store.Load(ctx); err != nil {
		logger.Error("Failed to restore ledger", "error", err)
		os.Exit(1)
	}

	editor := form.NewEditor(kv)
	if err := editor.Load(ctx); err != nil {
		logger.Error("Failed to restore editor state", "error", err)
		os.Exit(1)
	}

	var recog apphttp.Recognizer
	if cfg.RecognizerURL != "" {
		recog = recognizer.NewClient(cfg.RecognizerURL, cfg.RecognizerTimeout)
		logger.Info("Receipt recognition enabled", "url", cfg.RecognizerURL)
	}

	srv := apphttp.NewServer(":"+cfg.Port, store, editor, recog)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 30 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting fuelflow server", "port", cfg.Port, "db", cfg.SQLiteDBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("Shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
