// Command compare runs a price comparison over a shopping list file and
// writes the accumulated price history to the export path.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cartscout/backend/config"
	"github.com/cartscout/backend/internal/domain"
	"github.com/cartscout/backend/internal/infrastructure/history"
	"github.com/cartscout/backend/internal/infrastructure/shoppinglist"
	"github.com/cartscout/backend/internal/infrastructure/sources/safeway"
	"github.com/cartscout/backend/internal/infrastructure/sources/walmart"
	"github.com/cartscout/backend/internal/logger"
	"github.com/cartscout/backend/internal/usecase"
)

func main() {
	listPath := flag.String("list", "shopping_list.json", "path to the shopping list file")
	flag.Parse()

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

	products, err := shoppinglist.Load(*listPath)
	if err != nil {
		logg.Error("cannot load shopping list", zap.String("path", *listPath), zap.Error(err))
		os.Exit(1)
	}
	logg.Info("shopping list loaded",
		zap.String("path", *listPath), zap.Int("products", len(products)))

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

	service := usecase.NewComparisonService(
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	results, err := service.CompareAll(ctx, products)
	if err != nil {
		logg.Error("comparison run aborted", zap.Error(err))
	}

	for _, result := range results {
		if result.BestMatch == nil {
			fmt.Printf("%-30s  no match\n", result.RequestedProduct.Name)
			continue
		}
		fmt.Printf("%-30s  $%s at %s  (%s)\n",
			result.RequestedProduct.Name,
			result.BestMatch.Price.StringFixed(2),
			result.BestMatch.SourceID,
			result.BestMatch.RawName,
		)
	}

	if ledger.Len() > 0 {
		if err := ledger.ExportFile(cfg.History.ExportPath); err != nil {
			logg.Error("price history export failed", zap.Error(err))
			os.Exit(1)
		}
		logg.Info("price history exported",
			zap.String("path", cfg.History.ExportPath),
			zap.Int("records", ledger.Len()),
		)
	}
}
