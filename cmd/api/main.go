package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hermesdeck/hermes/internal/api"
	"github.com/hermesdeck/hermes/internal/config"
	"github.com/hermesdeck/hermes/internal/document"
	"github.com/hermesdeck/hermes/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	// OCR is optional: without it, scanned pages are skipped with a warning.
	var ocrClient document.OCRClient
	if client, err := ocr.New(cfg.OCR.Languages); err != nil {
		if errors.Is(err, ocr.ErrNotEnabled) {
			slog.Info("OCR disabled, scanned pages will be skipped")
		} else {
			slog.Warn("OCR unavailable", "error", err)
		}
	} else {
		ocrClient = client
		defer client.Close()
	}

	router := api.NewRouter(cfg, ocrClient)
	handler, err := router.Setup()
	if err != nil {
		slog.Error("failed to set up router", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: handler,
		// Conversions wait on sequential model calls; give writes room.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "provider", cfg.Summarizer.Provider)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
