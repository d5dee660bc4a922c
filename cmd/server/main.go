package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cartscout/backend/config"
	httpDelivery "github.com/cartscout/backend/internal/delivery/http"
	"github.com/cartscout/backend/internal/domain"
	"github.com/cartscout/backend/internal/infrastructure/history"
	"github.com/cartscout/backend/internal/infrastructure/sources/safeway"
	"github.com/cartscout/backend/internal/infrastructure/sources/walmart"
	"github.com/cartscout/backend/internal/logger"
	"github.com/cartscout/backend/internal/usecase"
)

func main() {
	// .env is optional; system env vars win either way.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logg, err := logger.New(cfg.Log.Level, cfg.Server.Environment == "development")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logg.Sync()

	logg.Info("starting cartscout backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.Strings("sources", cfg.Sources.Order),
	)

	normalizer := usecase.NewTitleNormalizer()
	ledger := history.NewLedger()

	var sources []domain.Source
	for _, name := range cfg.Sources.Order {
		switch name {
		case "walmart":
			sources = append(sources, walmart.New(normalizer, logg, cfg.Sources.Headless))
		case "safeway":
			sources = append(sources, safeway.New(normalizer, logg, safeway.DefaultBaseURL))
		}
	}

	credentials := make(map[string]domain.Credentials, len(cfg.Credentials))
	for id, c := range cfg.Credentials {
		credentials[id] = domain.Credentials{Username: c.Username, Password: c.Password}
	}
	logg.Info("credentials configured", zap.Int("sources", len(credentials)))

	comparisonService := usecase.NewComparisonService(
		sources,
		credentials,
		ledger,
		usecase.ComparisonServiceConfig{
			RelevanceThreshold: cfg.Matching.RelevanceThreshold,
			NameWeight:         cfg.Matching.NameWeight,
			BrandWeight:        cfg.Matching.BrandWeight,
			Pacing:             cfg.Sources.PacingDuration(),
		},
		logg,
	)

	handler := httpDelivery.NewHandler(comparisonService, ledger)
	router := httpDelivery.SetupRouter(cfg, handler, logg)

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		logg.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error("server stopped unexpectedly", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	logg.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logg.Error("server shutdown failed", zap.Error(err))
	}

	if ledger.Len() > 0 {
		if err := ledger.ExportFile(cfg.History.ExportPath); err != nil {
			logg.Error("price history export failed", zap.Error(err))
		} else {
			logg.Info("price history exported",
				zap.String("path", cfg.History.ExportPath),
				zap.Int("records", ledger.Len()),
			)
		}
	}

	logg.Info("shutdown complete")
}
