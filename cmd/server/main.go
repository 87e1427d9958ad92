package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	textextract "github.com/jpfrost94/universal-text-extractor"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML or JSON)")
	addr := flag.String("addr", ":8080", "Listen address")
	flag.Parse()

	// Structured JSON logging.
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	cfg := textextract.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = textextract.LoadConfig(*configPath)
		if err != nil {
			slog.Error("loading config", "error", err)
			os.Exit(1)
		}
	}

	// Override from environment variables.
	if v := os.Getenv("TEXTEXTRACT_DB_PATH"); v != "" {
		cfg.AnalyticsDBPath = v
	}
	if v := os.Getenv("TEXTEXTRACT_OCR_LANGUAGE"); v != "" {
		cfg.OCR.Language = v
	}
	if v := os.Getenv("TEXTEXTRACT_OCR_DISABLED"); v == "1" || v == "true" {
		cfg.OCR.Enabled = false
	}
	if v := os.Getenv("TEXTEXTRACT_DISABLE_ANALYTICS"); v == "1" || v == "true" {
		cfg.DisableAnalytics = true
	}

	apiKey := os.Getenv("TEXTEXTRACT_API_KEY")
	corsOrigins := os.Getenv("TEXTEXTRACT_CORS_ORIGINS")

	svc, err := textextract.New(cfg)
	if err != nil {
		slog.Error("creating service", "error", err)
		os.Exit(1)
	}
	defer svc.Close()

	caps := svc.Capabilities()
	slog.Info("capabilities probed",
		"tesseract_cli", caps.TesseractCLI,
		"gosseract", caps.GosseractOCR,
		"pdftoppm", caps.PDFToPPM,
	)

	h := newHandler(svc, apiKey, corsOrigins)
	mux := http.NewServeMux()

	mux.HandleFunc("POST /extract", h.handleExtract)
	mux.HandleFunc("GET /formats", h.handleFormats)
	mux.HandleFunc("GET /stats", h.handleStats)
	mux.HandleFunc("GET /stats/export", h.handleStatsExport)
	mux.HandleFunc("DELETE /stats", h.handleStatsReset)
	mux.HandleFunc("GET /health", h.handleHealth)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      h.chain(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // OCR on large documents can be long
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown on SIGTERM/SIGINT.
	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-done
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}
