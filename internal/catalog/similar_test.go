package catalog

import (
	"fmt"
	"testing"

	"github.com/vietddude/storecore/internal/core/domain"
)

func TestSimilarIn_ExcludesTarget(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Green Tea 250g", Category: "Beverages"},
		{ID: "2", Name: "Green Tea 500g", Category: "Beverages"},
	}

	got := SimilarIn(products, "Green Tea 250g", "Beverages", "1")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected only product 2, got %v", got)
	}
}

func TestSimilarIn_NameSubstringBothDirections(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Green Tea", Category: "A"},
		{ID: "2", Name: "Premium Green Tea 250g", Category: "B"},
	}

	// Candidate name contained in target
	got := SimilarIn(products, "Premium Green Tea 250g", "none", "2")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected candidate-in-target match, got %v", got)
	}

	// Target name contained in candidate
	got = SimilarIn(products, "Green Tea", "none", "1")
	if len(got) != 1 || got[0].ID != "2" {
		t.Errorf("expected target-in-candidate match, got %v", got)
	}
}

func TestSimilarIn_CategoryMatch(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Fish Sauce", Category: "Grocery"},
		{ID: "2", Name: "Soy Milk", Category: "Beverages"},
	}

	got := SimilarIn(products, "Red Rice", "Grocery", "")
	if len(got) != 1 || got[0].ID != "1" {
		t.Errorf("expected category match only, got %v", got)
	}
}

func TestSimilarIn_CapsAndPreservesOrder(t *testing.T) {
	var products []domain.Product
	for i := 0; i < 15; i++ {
		products = append(products, domain.Product{
			ID:       fmt.Sprintf("p%d", i),
			Name:     fmt.Sprintf("Item %d", i),
			Category: "Grocery",
		})
	}

	got := SimilarIn(products, "Anything", "Grocery", "")
	if len(got) != similarLimit {
		t.Fatalf("expected %d results, got %d", similarLimit, len(got))
	}
	for i, p := range got {
		if p.ID != fmt.Sprintf("p%d", i) {
			t.Errorf("expected source order preserved at %d, got %s", i, p.ID)
		}
	}
}

func TestSimilarIn_EmptyNameNeverMatchesByName(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Green Tea", Category: "Beverages"},
	}

	got := SimilarIn(products, "", "Grocery", "")
	if len(got) != 0 {
		t.Errorf("expected no matches for empty name and foreign category, got %v", got)
	}
}

func TestNormalizeName(t *testing.T) {
	cases := map[string]string{
		"Green Tea 250g":   "green-tea-250g",
		"  Red   Rice  ":   "red-rice",
		"UPPER\tCase Name": "upper-case-name",
		"":                 "",
	}
	for in, want := range cases {
		if got := normalizeName(in); got != want {
			t.Errorf("normalizeName(%q) = %q, want %q", in, got, want)
		}
	}
}
