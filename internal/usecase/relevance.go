package usecase

import (
	"strings"

	"github.com/cartscout/backend/internal/domain"
)

// Scoring constants. Product identity is carried primarily by the descriptive
// name, hence the 70/30 split. Absent brand information must neither help nor
// penalize a match, hence the neutral midpoint.
const (
	defaultNameWeight  = 0.7
	defaultBrandWeight = 0.3
	neutralBrandScore  = 50.0
)

// ScorerConfig holds the similarity weights. Zero values fall back to the
// defaults; the weights are configuration, not per-call parameters.
type ScorerConfig struct {
	NameWeight  float64
	BrandWeight float64
}

// RelevanceScorer quantifies how likely an observed record refers to the same
// product as a request. Pure and stateless.
type RelevanceScorer struct {
	nameWeight  float64
	brandWeight float64
}

// NewRelevanceScorer creates a scorer with the given weights.
func NewRelevanceScorer(config ScorerConfig) *RelevanceScorer {
	nameWeight := config.NameWeight
	brandWeight := config.BrandWeight
	if nameWeight <= 0 || brandWeight <= 0 {
		nameWeight = defaultNameWeight
		brandWeight = defaultBrandWeight
	}
	return &RelevanceScorer{nameWeight: nameWeight, brandWeight: brandWeight}
}

// Score returns a 0-100 confidence that record and product are the same item.
//
// Name similarity is a partial ratio: the requested name scores 100 when it
// is (approximately) contained in the record's raw name or vice versa. Brand
// similarity is a full-string Levenshtein ratio when both brands are present,
// otherwise the neutral 50.
func (s *RelevanceScorer) Score(product domain.RequestedProduct, record domain.ObservedRecord) float64 {
	nameSimilarity := partialRatio(
		strings.ToLower(product.Name),
		strings.ToLower(record.RawName),
	)

	brandSimilarity := neutralBrandScore
	if product.Brand != "" && record.Brand != "" {
		brandSimilarity = ratio(
			strings.ToLower(product.Brand),
			strings.ToLower(record.Brand),
		)
	}

	score := s.nameWeight*nameSimilarity + s.brandWeight*brandSimilarity
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}
	return score
}

// ratio is a Levenshtein-derived full-string similarity on a 0-100 scale.
func ratio(s1, s2 string) float64 {
	if s1 == "" && s2 == "" {
		return 100
	}
	if s1 == "" || s2 == "" {
		return 0
	}

	r1 := []rune(s1)
	r2 := []rune(s2)
	longest := len(r1)
	if len(r2) > longest {
		longest = len(r2)
	}
	distance := levenshteinDistance(r1, r2)
	return 100 * (1 - float64(distance)/float64(longest))
}

// partialRatio slides the shorter string across every equal-length window of
// the longer one and keeps the best window ratio. Full containment scores
// 100; no shared structure scores near 0.
func partialRatio(s1, s2 string) float64 {
	if s1 == "" || s2 == "" {
		return 0
	}

	shorter := []rune(s1)
	longer := []rune(s2)
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	best := 0.0
	for start := 0; start+len(shorter) <= len(longer); start++ {
		window := longer[start : start+len(shorter)]
		distance := levenshteinDistance(shorter, window)
		r := 100 * (1 - float64(distance)/float64(len(shorter)))
		if r > best {
			best = r
		}
		if best == 100 {
			break
		}
	}
	return best
}

// levenshteinDistance calculates the edit distance between two rune slices
// using two rows instead of the full matrix.
func levenshteinDistance(r1, r2 []rune) int {
	if len(r1) == 0 {
		return len(r2)
	}
	if len(r2) == 0 {
		return len(r1)
	}

	m := len(r1)
	n := len(r2)
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}

	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			cost := 0
			if r1[i-1] != r2[j-1] {
				cost = 1
			}
			curr[j] = min(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}

	return prev[n]
}
