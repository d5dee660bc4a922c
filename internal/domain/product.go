package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RequestedProduct is the caller's description of the item to price.
// It is read-only input: construct it once and do not mutate it.
type RequestedProduct struct {
	Name        string   `json:"name"`
	Brand       string   `json:"brand,omitempty"`
	Size        string   `json:"size,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Category    string   `json:"category,omitempty"`
	SearchTerms []string `json:"searchTerms,omitempty"`
}

// Validate checks the caller contract: a product must have a non-empty name.
func (p RequestedProduct) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrInvalidProduct
	}
	return nil
}

// Queries returns the search phrasings to try against a source, in priority
// order: "brand name" first, then the bare name, then any alternate search
// terms. Empty and duplicate phrasings are dropped.
func (p RequestedProduct) Queries() []string {
	candidates := make([]string, 0, len(p.SearchTerms)+2)
	candidates = append(candidates, strings.TrimSpace(p.Brand+" "+p.Name), strings.TrimSpace(p.Name))
	for _, term := range p.SearchTerms {
		candidates = append(candidates, strings.TrimSpace(term))
	}

	seen := make(map[string]bool, len(candidates))
	queries := make([]string, 0, len(candidates))
	for _, q := range candidates {
		if q == "" || seen[q] {
			continue
		}
		seen[q] = true
		queries = append(queries, q)
	}
	return queries
}

// ObservedRecord is a single price observation from one source. Records are
// constructed by source implementations and immutable afterward.
//
// A zero Price is retained rather than dropped: it signals that price
// extraction failed at the source, not a free item, and the ranker orders it
// after real prices of equal relevance so it can never surface as the best
// deal.
type ObservedRecord struct {
	SourceID     string          `json:"sourceId"`
	RawName      string          `json:"rawName"`
	Brand        string          `json:"brand,omitempty"`
	SizeText     string          `json:"sizeText,omitempty"`
	UnitText     string          `json:"unitText,omitempty"`
	Price        decimal.Decimal `json:"price"`
	ReferenceURL string          `json:"referenceUrl,omitempty"`
	ObservedAt   time.Time       `json:"observedAt"`
	Available    bool            `json:"available"`
}

// ScoredRecord pairs an observation with its relevance score. Derived during
// ranking, never persisted.
type ScoredRecord struct {
	Record         ObservedRecord `json:"record"`
	RelevanceScore float64        `json:"relevanceScore"`
}

// ComparisonResult is the ordered outcome of one comparison call.
// BestMatch is nil when no record survived the relevance threshold.
type ComparisonResult struct {
	ComparisonID     string           `json:"comparisonId"`
	RequestedProduct RequestedProduct `json:"requestedProduct"`
	OrderedRecords   []ObservedRecord `json:"orderedRecords"`
	BestMatch        *ObservedRecord  `json:"bestMatch,omitempty"`
	GeneratedAt      time.Time        `json:"generatedAt"`
}
