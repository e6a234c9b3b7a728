package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/janasena/aadhaar-intake/internal/common"
	"github.com/janasena/aadhaar-intake/internal/export"
	"github.com/janasena/aadhaar-intake/internal/ocr"
	"github.com/janasena/aadhaar-intake/internal/pipeline"
	"github.com/janasena/aadhaar-intake/internal/repository"
	"github.com/janasena/aadhaar-intake/internal/server"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.Open(ctx, repository.Config{
		DSN:              cfg.Database.DSN,
		MaxConns:         cfg.Database.MaxConns,
		MinConns:         cfg.Database.MinConns,
		MaxConnLifetime:  cfg.Database.MaxConnLifetime,
		MaxConnIdleTime:  cfg.Database.MaxConnIdleTime,
		DialTimeout:      cfg.Database.DialTimeout,
		StatementTimeout: cfg.Database.StatementTimeout,
	}, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.HealthCheck(ctx, cfg.Database.DialTimeout); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	recognizer, err := buildRecognizer(cfg, logger)
	if err != nil {
		logger.Error("failed to build recognizer", "engine", cfg.OCR.Engine, "error", err)
		os.Exit(1)
	}
	defer recognizer.Close()

	persons := repository.NewPersonRepository(db, logger)
	jobs := repository.NewIntakeJobRepository(db, logger)
	intake := pipeline.New(recognizer, jobs, persons, logger)
	exporter := export.NewService(persons, logger)

	handler := server.NewHandler(intake, persons, exporter, db, logger)
	router := server.NewRouter(handler, cfg.Server.CORSAllowOrigin, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	go func() {
		logger.Info("aadhaard listening", "addr", cfg.Server.Addr, "ocr_engine", cfg.OCR.Engine)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", "error", err)
	}
}

func buildRecognizer(cfg *common.Config, logger *slog.Logger) (ocr.Recognizer, error) {
	switch cfg.OCR.Engine {
	case "tesseract":
		return ocr.NewTesseractClient(cfg.OCR.Language, logger)
	default:
		return ocr.NewRemoteClient(cfg.OCR.RemoteURL, cfg.OCR.Timeout, logger), nil
	}
}
