// Package shoppinglist loads shopping list files into requested products.
package shoppinglist

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/cartscout/backend/internal/domain"
)

// entry mirrors one record of the shopping list file format.
type entry struct {
	Name     string   `json:"name"`
	Brand    string   `json:"brand"`
	Size     string   `json:"size"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
	Keywords []string `json:"keywords"`
}

// Load reads a JSON shopping list and converts it to requested products.
// Keywords become the product's SearchTerms. An entry with an empty name
// makes the whole file invalid: a list that silently drops items would
// mislead the caller.
func Load(path string) ([]domain.RequestedProduct, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read shopping list: %w", err)
	}

	var entries []entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse shopping list: %w", err)
	}

	products := make([]domain.RequestedProduct, 0, len(entries))
	for i, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			return nil, fmt.Errorf("shopping list entry %d: %w", i, domain.ErrInvalidProduct)
		}

		keywords := e.Keywords
		if keywords == nil {
			keywords = []string{}
		}

		products = append(products, domain.RequestedProduct{
			Name:        e.Name,
			Brand:       e.Brand,
			Size:        e.Size,
			Unit:        e.Unit,
			Category:    e.Category,
			SearchTerms: keywords,
		})
	}

	return products, nil
}
