package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/voiceshield-labs/voiceshield/backend/internal/adapters/codec"
	"github.com/voiceshield-labs/voiceshield/backend/internal/adapters/rest"
	"github.com/voiceshield-labs/voiceshield/backend/internal/adapters/sqlite"
	"github.com/voiceshield-labs/voiceshield/backend/internal/auth"
	"github.com/voiceshield-labs/voiceshield/backend/internal/config"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/domain"
	"github.com/voiceshield-labs/voiceshield/backend/internal/core/services"
	"github.com/voiceshield-labs/voiceshield/backend/internal/dsp"
	"github.com/voiceshield-labs/voiceshield/backend/internal/worker"
)

func main() {
	// 1. Configuration
	cfg, err := config.Load(os.Getenv("VOICESHIELD_CONFIG"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	setupLogging(cfg.Log)

	if err := os.MkdirAll(cfg.Upload.Dir, 0o750); err != nil {
		log.Fatal().Err(err).Msg("failed to create upload directory")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0o750); err != nil {
		log.Fatal().Err(err).Msg("failed to create database directory")
	}

	// 2. Initialize driven adapters
	repo, err := sqlite.NewAdapter(cfg.Storage.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer repo.Close()

	decoder := codec.NewDecoder(cfg.Analysis.SampleRate)
	extractor := dsp.NewExtractor(dsp.Params{
		SampleRate: cfg.Analysis.SampleRate,
		NFFT:       cfg.Analysis.NFFT,
		HopLength:  cfg.Analysis.HopLength,
	})

	// 3. Initialize core services
	detectorCfg := services.DefaultDetectorConfig()
	detectorCfg.Detection = domain.DetectionConfig{
		Threshold:    cfg.Analysis.DetectionThreshold,
		PatternBonus: cfg.Analysis.PatternBonus,
	}
	detector := services.NewDetector(decoder, extractor, detectorCfg, log.With().Str("component", "detector").Logger())

	tokens := auth.NewTokenService(cfg.Auth.Secret, cfg.Auth.TokenTTL)
	accounts := services.NewAccounts(repo, tokens)
	library := services.NewLibrary(repo, detector, cfg.Upload.Dir, cfg.Upload.MaxBytes, cfg.Upload.AllowedExtensions)

	// 4. Background analysis pool + driving adapter
	pool := worker.NewPool(library, cfg.Upload.QueueSize, log.With().Str("component", "worker").Logger())
	pool.Start(cfg.Upload.Workers)
	defer pool.Stop()

	handler := rest.NewHandler(accounts, library, tokens, pool, cfg.Upload.AutoAnalyze, log.With().Str("component", "rest").Logger())

	// 5. Serve
	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
	}

	log.Info().Str("addr", cfg.Server.Addr).Msg("voiceshield API is running")

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-serverErr:
		if err != nil {
			log.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		log.Info().Msg("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("shutdown error")
		}
	}
}

func setupLogging(cfg config.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}
