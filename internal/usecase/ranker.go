package usecase

import (
	"sort"

	"github.com/cartscout/backend/internal/domain"
)

// defaultRelevanceThreshold is the minimum confidence to surface a candidate
// as a plausible match. Deliberately conservative: a record scoring at or
// below it never appears in a comparison result.
const defaultRelevanceThreshold = 60.0

// Ranker orders scored records and filters out low-confidence matches.
// It performs no I/O, never mutates its input, and cannot fail.
type Ranker struct {
	scorer    *RelevanceScorer
	threshold float64
}

// NewRanker creates a ranker. A non-positive threshold falls back to the
// default.
func NewRanker(scorer *RelevanceScorer, threshold float64) *Ranker {
	if threshold <= 0 {
		threshold = defaultRelevanceThreshold
	}
	return &Ranker{scorer: scorer, threshold: threshold}
}

// Rank scores every record against the product, orders by highest relevance
// first with ties broken by lowest price, drops everything at or below the
// threshold, and returns the ordered survivors plus the best match (nil when
// none survived).
//
// Within equal relevance, zero-price records sort after real prices: a zero
// price means extraction failed, and an unknown price must not win a tie.
// The sort is stable, so records of identical score and price keep their
// aggregation order.
func (r *Ranker) Rank(product domain.RequestedProduct, records []domain.ObservedRecord) ([]domain.ObservedRecord, *domain.ObservedRecord) {
	scored := make([]domain.ScoredRecord, 0, len(records))
	for _, record := range records {
		scored = append(scored, domain.ScoredRecord{
			Record:         record,
			RelevanceScore: r.scorer.Score(product, record),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.RelevanceScore != b.RelevanceScore {
			return a.RelevanceScore > b.RelevanceScore
		}
		aZero := a.Record.Price.IsZero()
		bZero := b.Record.Price.IsZero()
		if aZero != bZero {
			return bZero
		}
		return a.Record.Price.LessThan(b.Record.Price)
	})

	ordered := make([]domain.ObservedRecord, 0, len(scored))
	for _, sr := range scored {
		if sr.RelevanceScore <= r.threshold {
			continue
		}
		ordered = append(ordered, sr.Record)
	}

	if len(ordered) == 0 {
		return ordered, nil
	}
	best := ordered[0]
	return ordered, &best
}

// Threshold reports the ranker's relevance cutoff.
func (r *Ranker) Threshold() float64 { return r.threshold }
