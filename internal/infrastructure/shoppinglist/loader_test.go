package shoppinglist

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cartscout/backend/internal/domain"
)

func writeList(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.json")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	t.Run("converts entries with keywords as search terms", func(t *testing.T) {
		path := writeList(t, `[
			{"name": "Milk", "size": "1", "unit": "gallon", "category": "dairy", "keywords": ["whole milk", "2% milk"]},
			{"name": "Bread", "brand": "Wonder", "category": "bakery"}
		]`)

		products, err := Load(path)
		if err != nil {
			t.Fatalf("Load error = %v", err)
		}
		if len(products) != 2 {
			t.Fatalf("len = %d, want 2", len(products))
		}

		milk := products[0]
		if milk.Name != "Milk" || milk.Unit != "gallon" || milk.Category != "dairy" {
			t.Errorf("milk = %+v", milk)
		}
		if len(milk.SearchTerms) != 2 || milk.SearchTerms[0] != "whole milk" {
			t.Errorf("milk.SearchTerms = %v", milk.SearchTerms)
		}

		bread := products[1]
		if bread.Brand != "Wonder" {
			t.Errorf("bread.Brand = %q, want Wonder", bread.Brand)
		}
		if bread.SearchTerms == nil {
			t.Error("SearchTerms is nil, want empty slice")
		}
	})

	t.Run("entry with empty name invalidates the file", func(t *testing.T) {
		path := writeList(t, `[{"name": "Milk"}, {"name": "  "}]`)
		_, err := Load(path)
		if !errors.Is(err, domain.ErrInvalidProduct) {
			t.Errorf("err = %v, want ErrInvalidProduct", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := Load(filepath.Join(t.TempDir(), "missing.json")); err == nil {
			t.Error("expected an error for a missing file")
		}
	})

	t.Run("malformed JSON", func(t *testing.T) {
		path := writeList(t, `{"not": "a list"`)
		if _, err := Load(path); err == nil {
			t.Error("expected an error for malformed JSON")
		}
	})
}
