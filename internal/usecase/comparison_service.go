package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/cartscout/backend/internal/domain"
	"github.com/cartscout/backend/internal/logger"
)

// defaultPacing is the politeness delay between source queries and between
// product comparisons.
const defaultPacing = 2 * time.Second

// ComparisonServiceConfig holds configuration for the comparison service.
type ComparisonServiceConfig struct {
	RelevanceThreshold float64
	NameWeight         float64
	BrandWeight        float64
	Pacing             time.Duration
}

// ComparisonService coordinates retrieval across configured sources and
// assembles comparison results. Sources are queried sequentially in their
// configured order; no source's failure affects another.
type ComparisonService struct {
	sources     []domain.Source
	credentials map[string]domain.Credentials
	history     domain.HistoryStore
	ranker      *Ranker
	pacer       *rate.Limiter
	log         logger.Interface
}

// NewComparisonService creates a comparison service. The credentials map
// decides, per source ID, whether that source's Authenticate is invoked.
func NewComparisonService(
	sources []domain.Source,
	credentials map[string]domain.Credentials,
	history domain.HistoryStore,
	config ComparisonServiceConfig,
	log logger.Interface,
) *ComparisonService {
	scorer := NewRelevanceScorer(ScorerConfig{
		NameWeight:  config.NameWeight,
		BrandWeight: config.BrandWeight,
	})

	pacing := config.Pacing
	if pacing <= 0 {
		pacing = defaultPacing
	}
	if credentials == nil {
		credentials = map[string]domain.Credentials{}
	}

	return &ComparisonService{
		sources:     sources,
		credentials: credentials,
		history:     history,
		ranker:      NewRanker(scorer, config.RelevanceThreshold),
		pacer:       rate.NewLimiter(rate.Every(pacing), 1),
		log:         log,
	}
}

// Compare gathers candidate records for the product from every configured
// source, ranks them, and returns the ordered result with the best match.
//
// Only an invalid product surfaces as an error; per-source failures are
// isolated, and the worst outcome is an empty OrderedRecords with a nil
// BestMatch. Aggregated raw records are appended to the history ledger
// before ranking.
func (s *ComparisonService) Compare(ctx context.Context, product domain.RequestedProduct) (*domain.ComparisonResult, error) {
	if err := product.Validate(); err != nil {
		return nil, err
	}

	var aggregate []domain.ObservedRecord
	for i, source := range s.sources {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				return nil, err
			}
		}
		aggregate = append(aggregate, s.searchSource(ctx, source, product)...)
	}

	if len(aggregate) > 0 {
		s.history.Append(aggregate...)
	}

	ordered, best := s.ranker.Rank(product, aggregate)
	return &domain.ComparisonResult{
		ComparisonID:     uuid.NewString(),
		RequestedProduct: product,
		OrderedRecords:   ordered,
		BestMatch:        best,
		GeneratedAt:      time.Now(),
	}, nil
}

// searchSource runs one source through its authenticate/search lifecycle and
// returns whatever records it produced. Release is guaranteed exactly once.
// A failure here costs this comparison the source's records, nothing more.
func (s *ComparisonService) searchSource(ctx context.Context, source domain.Source, product domain.RequestedProduct) []domain.ObservedRecord {
	defer source.Release()

	if creds, configured := s.credentials[source.ID()]; configured {
		authenticated, err := source.Authenticate(ctx, creds)
		if err != nil {
			s.log.Warn("source authentication error, skipping source",
				zap.String("source", source.ID()), zap.Error(err))
			return nil
		}
		if !authenticated {
			s.log.Warn("source rejected credentials, skipping source",
				zap.String("source", source.ID()))
			return nil
		}
	}

	s.log.Info("searching source",
		zap.String("source", source.ID()), zap.String("product", product.Name))

	records, err := source.Search(ctx, product)
	if err != nil {
		s.log.Error("source search failed",
			zap.String("source", source.ID()), zap.Error(err))
		return nil
	}
	if len(records) == 0 {
		// Valid outcome: out of stock or no matches at this source.
		s.log.Debug("source returned no records", zap.String("source", source.ID()))
		return nil
	}

	s.log.Info("source contributed records",
		zap.String("source", source.ID()), zap.Int("count", len(records)))
	return records
}

// CompareAll runs Compare over a shopping list sequentially, pacing between
// products. Entries with an empty name are skipped with a warning rather
// than aborting the remainder of the list.
func (s *ComparisonService) CompareAll(ctx context.Context, products []domain.RequestedProduct) ([]domain.ComparisonResult, error) {
	results := make([]domain.ComparisonResult, 0, len(products))
	for i, product := range products {
		if i > 0 {
			if err := s.pacer.Wait(ctx); err != nil {
				return results, err
			}
		}

		result, err := s.Compare(ctx, product)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidProduct) {
				s.log.Warn("skipping invalid shopping list entry", zap.Int("index", i))
				continue
			}
			return results, err
		}
		results = append(results, *result)
	}
	return results, nil
}
