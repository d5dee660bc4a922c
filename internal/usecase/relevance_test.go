package usecase

import (
	"math"
	"testing"

	"github.com/cartscout/backend/internal/domain"
)

func TestNewRelevanceScorer(t *testing.T) {
	t.Run("uses provided weights", func(t *testing.T) {
		s := NewRelevanceScorer(ScorerConfig{NameWeight: 0.6, BrandWeight: 0.4})
		if s.nameWeight != 0.6 || s.brandWeight != 0.4 {
			t.Errorf("weights = (%v, %v), want (0.6, 0.4)", s.nameWeight, s.brandWeight)
		}
	})

	t.Run("falls back to defaults on zero config", func(t *testing.T) {
		s := NewRelevanceScorer(ScorerConfig{})
		if s.nameWeight != defaultNameWeight || s.brandWeight != defaultBrandWeight {
			t.Errorf("weights = (%v, %v), want (%v, %v)",
				s.nameWeight, s.brandWeight, defaultNameWeight, defaultBrandWeight)
		}
	})
}

func TestScore(t *testing.T) {
	scorer := NewRelevanceScorer(ScorerConfig{})

	t.Run("always in range for any pair of strings", func(t *testing.T) {
		pairs := []struct{ name, rawName, brand, recordBrand string }{
			{"", "", "", ""},
			{"milk", "", "", ""},
			{"", "milk", "", ""},
			{"whole milk", "Great Value Whole Vitamin D Milk, Gallon", "Great Value", "great value"},
			{"x", "completely unrelated description of another thing", "a", "zzzzzz"},
			{"日本のお茶", "tea from japan", "茶", "tea"},
		}
		for _, p := range pairs {
			score := scorer.Score(
				domain.RequestedProduct{Name: p.name, Brand: p.brand},
				domain.ObservedRecord{RawName: p.rawName, Brand: p.recordBrand},
			)
			if score < 0 || score > 100 {
				t.Errorf("Score(%q, %q) = %v, want in [0, 100]", p.name, p.rawName, score)
			}
		}
	})

	t.Run("empty record raw name scores zero name similarity", func(t *testing.T) {
		score := scorer.Score(
			domain.RequestedProduct{Name: "bananas"},
			domain.ObservedRecord{RawName: ""},
		)
		// Name contributes 0; neutral brand contributes 0.3*50.
		if score != 15 {
			t.Errorf("score = %v, want 15", score)
		}
	})

	t.Run("missing brand contributes exactly the neutral share", func(t *testing.T) {
		product := domain.RequestedProduct{Name: "whole milk"}
		record := domain.ObservedRecord{RawName: "Whole Milk 1 Gallon"}

		nameSim := partialRatio("whole milk", "whole milk 1 gallon")
		want := 0.7*nameSim + 15
		got := scorer.Score(product, record)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("score = %v, want %v", got, want)
		}
	})

	t.Run("contained name scores full name similarity", func(t *testing.T) {
		score := scorer.Score(
			domain.RequestedProduct{Name: "whole milk"},
			domain.ObservedRecord{RawName: "Great Value Whole Milk 1 Gallon"},
		)
		// 0.7*100 + 0.3*50
		if score != 85 {
			t.Errorf("score = %v, want 85", score)
		}
	})

	t.Run("matching brands raise the score over neutral", func(t *testing.T) {
		withBrand := scorer.Score(
			domain.RequestedProduct{Name: "whole milk", Brand: "Horizon"},
			domain.ObservedRecord{RawName: "Horizon Organic Whole Milk", Brand: "Horizon"},
		)
		neutral := scorer.Score(
			domain.RequestedProduct{Name: "whole milk"},
			domain.ObservedRecord{RawName: "Horizon Organic Whole Milk"},
		)
		if withBrand <= neutral {
			t.Errorf("brand match score %v not above neutral %v", withBrand, neutral)
		}
	})

	t.Run("mismatched brands lower the score below neutral", func(t *testing.T) {
		mismatch := scorer.Score(
			domain.RequestedProduct{Name: "whole milk", Brand: "Horizon"},
			domain.ObservedRecord{RawName: "Whole Milk", Brand: "Fairlife"},
		)
		neutral := scorer.Score(
			domain.RequestedProduct{Name: "whole milk"},
			domain.ObservedRecord{RawName: "Whole Milk"},
		)
		if mismatch >= neutral {
			t.Errorf("brand mismatch score %v not below neutral %v", mismatch, neutral)
		}
	})

	t.Run("pure: identical input yields identical output", func(t *testing.T) {
		product := domain.RequestedProduct{Name: "chicken breast", Brand: "Tyson"}
		record := domain.ObservedRecord{RawName: "Tyson Boneless Chicken Breast 2 lb", Brand: "Tyson"}
		first := scorer.Score(product, record)
		second := scorer.Score(product, record)
		if first != second {
			t.Errorf("two calls disagreed: %v vs %v", first, second)
		}
	})
}

func TestRatio(t *testing.T) {
	tests := []struct {
		name   string
		s1, s2 string
		want   float64
	}{
		{"identical", "horizon", "horizon", 100},
		{"both empty", "", "", 100},
		{"one empty", "horizon", "", 0},
		{"disjoint single runes", "a", "b", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ratio(tt.s1, tt.s2); got != tt.want {
				t.Errorf("ratio(%q, %q) = %v, want %v", tt.s1, tt.s2, got, tt.want)
			}
		})
	}

	t.Run("single edit on long strings stays high", func(t *testing.T) {
		got := ratio("fairlife", "fairlift")
		if got <= 80 || got >= 100 {
			t.Errorf("ratio = %v, want in (80, 100)", got)
		}
	})
}

func TestPartialRatio(t *testing.T) {
	t.Run("full containment scores 100", func(t *testing.T) {
		if got := partialRatio("whole milk", "great value whole milk gallon"); got != 100 {
			t.Errorf("partialRatio = %v, want 100", got)
		}
	})

	t.Run("symmetric in containment direction", func(t *testing.T) {
		if got := partialRatio("great value whole milk gallon", "whole milk"); got != 100 {
			t.Errorf("partialRatio = %v, want 100", got)
		}
	})

	t.Run("either side empty scores 0", func(t *testing.T) {
		if got := partialRatio("", "milk"); got != 0 {
			t.Errorf("partialRatio(\"\", milk) = %v, want 0", got)
		}
		if got := partialRatio("milk", ""); got != 0 {
			t.Errorf("partialRatio(milk, \"\") = %v, want 0", got)
		}
	})
}
