package usecase

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cartscout/backend/internal/domain"
)

// newTestRanker uses the real scorer with default weights; the tests choose
// raw names whose partial-ratio scores are predictable (exact containment
// gives 0.7*100+15 = 85, unrelated names stay near the floor).
func newTestRanker(threshold float64) *Ranker {
	return NewRanker(NewRelevanceScorer(ScorerConfig{}), threshold)
}

func record(source, rawName, price string) domain.ObservedRecord {
	p, err := decimal.NewFromString(price)
	if err != nil {
		panic(err)
	}
	return domain.ObservedRecord{
		SourceID:  source,
		RawName:   rawName,
		Price:     p,
		Available: true,
	}
}

func TestRank(t *testing.T) {
	product := domain.RequestedProduct{Name: "whole milk"}

	t.Run("orders by relevance then price", func(t *testing.T) {
		// A and B both fully contain the requested name (score 85); C has a
		// closer raw name only in price terms, so relevance ties are what
		// decide here: identical scores fall back to lowest price first.
		a := record("walmart", "Whole Milk Gallon Jug", "3.00")
		b := record("safeway", "Whole Milk Gallon Jug", "2.00")
		c := record("walmart", "Whole Milk Gallon Jug", "5.00")

		ordered, best := newTestRanker(60).Rank(product, []domain.ObservedRecord{a, b, c})
		if len(ordered) != 3 {
			t.Fatalf("len(ordered) = %d, want 3", len(ordered))
		}
		wantPrices := []string{"2.00", "3.00", "5.00"}
		for i, w := range wantPrices {
			want, _ := decimal.NewFromString(w)
			if !ordered[i].Price.Equal(want) {
				t.Errorf("ordered[%d].Price = %s, want %s", i, ordered[i].Price.String(), w)
			}
		}
		if best == nil || !best.Price.Equal(b.Price) {
			t.Errorf("best = %+v, want the 2.00 record", best)
		}
	})

	t.Run("higher relevance beats lower price", func(t *testing.T) {
		// Exact containment (score 85) vs. a noisier name: the cheap noisy
		// record must not outrank the precise expensive one.
		precise := record("walmart", "Whole Milk", "5.00")
		noisy := record("safeway", "Wholesome Oat Beverage Milk Alternative", "2.00")

		ordered, best := newTestRanker(60).Rank(product, []domain.ObservedRecord{noisy, precise})
		if len(ordered) == 0 {
			t.Fatal("expected at least the precise record to survive")
		}
		if ordered[0].RawName != precise.RawName {
			t.Errorf("ordered[0] = %q, want %q", ordered[0].RawName, precise.RawName)
		}
		if best == nil || best.RawName != precise.RawName {
			t.Errorf("best = %+v, want the precise record", best)
		}
	})

	t.Run("records at or below threshold never surface", func(t *testing.T) {
		unrelated := record("walmart", "Garden Hose 50 ft", "4.00")
		ordered, best := newTestRanker(60).Rank(product, []domain.ObservedRecord{unrelated})
		if len(ordered) != 0 {
			t.Errorf("len(ordered) = %d, want 0", len(ordered))
		}
		if best != nil {
			t.Errorf("best = %+v, want nil", best)
		}
	})

	t.Run("zero price loses equal-relevance ties", func(t *testing.T) {
		free := record("walmart", "Whole Milk Gallon", "0")
		paid := record("safeway", "Whole Milk Gallon", "3.49")

		ordered, best := newTestRanker(60).Rank(product, []domain.ObservedRecord{free, paid})
		if len(ordered) != 2 {
			t.Fatalf("len(ordered) = %d, want 2", len(ordered))
		}
		if !ordered[0].Price.Equal(paid.Price) {
			t.Errorf("ordered[0].Price = %s, want 3.49", ordered[0].Price.String())
		}
		if best == nil || best.Price.IsZero() {
			t.Error("zero-price record must not be the best match in a tie")
		}
	})

	t.Run("stable for identical score and price", func(t *testing.T) {
		first := record("walmart", "Whole Milk Gallon", "3.00")
		second := record("safeway", "Whole Milk Gallon", "3.00")

		ordered, _ := newTestRanker(60).Rank(product, []domain.ObservedRecord{first, second})
		if len(ordered) != 2 {
			t.Fatalf("len(ordered) = %d, want 2", len(ordered))
		}
		if ordered[0].SourceID != "walmart" || ordered[1].SourceID != "safeway" {
			t.Errorf("aggregation order not preserved: got [%s, %s]",
				ordered[0].SourceID, ordered[1].SourceID)
		}
	})

	t.Run("empty input yields empty output, not an error", func(t *testing.T) {
		ordered, best := newTestRanker(60).Rank(product, nil)
		if len(ordered) != 0 || best != nil {
			t.Errorf("got (%v, %v), want (empty, nil)", ordered, best)
		}
	})

	t.Run("does not mutate its input", func(t *testing.T) {
		input := []domain.ObservedRecord{
			record("walmart", "Whole Milk", "5.00"),
			record("safeway", "Whole Milk", "2.00"),
		}
		original := make([]domain.ObservedRecord, len(input))
		copy(original, input)

		newTestRanker(60).Rank(product, input)

		for i := range input {
			if input[i].RawName != original[i].RawName || !input[i].Price.Equal(original[i].Price) {
				t.Errorf("input[%d] mutated: %+v", i, input[i])
			}
		}
	})

	t.Run("non-positive threshold falls back to default", func(t *testing.T) {
		r := newTestRanker(0)
		if r.Threshold() != defaultRelevanceThreshold {
			t.Errorf("Threshold() = %v, want %v", r.Threshold(), defaultRelevanceThreshold)
		}
	})
}
