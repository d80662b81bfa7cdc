package catalog

import (
	"time"

	"github.com/vietddude/storecore/internal/core/domain"
)

// FallbackProducts is the compiled-in product bundle served when the
// backing store is unreachable or quota-exhausted. Every field the
// storefront dereferences is present and non-null.
func FallbackProducts() []domain.Product {
	stamped := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return []domain.Product{
		{
			ID:          "fallback-rice-5kg",
			Slug:        "red-rice-5kg",
			Name:        "Red Rice 5kg",
			Category:    "Grocery",
			Description: "Whole-grain red rice, 5kg bag.",
			PriceCents:  185000,
			Currency:    "VND",
			ImageURL:    "https://cdn.storecore.local/static/red-rice-5kg.jpg",
			InStock:     true,
			CreatedAt:   stamped,
			UpdatedAt:   stamped,
		},
		{
			ID:          "fallback-green-tea",
			Slug:        "green-tea-250g",
			Name:        "Green Tea 250g",
			Category:    "Beverages",
			Description: "Loose-leaf green tea, 250g tin.",
			PriceCents:  95000,
			Currency:    "VND",
			ImageURL:    "https://cdn.storecore.local/static/green-tea-250g.jpg",
			InStock:     true,
			CreatedAt:   stamped,
			UpdatedAt:   stamped,
		},
		{
			ID:          "fallback-fish-sauce",
			Slug:        "fish-sauce-500ml",
			Name:        "Fish Sauce 500ml",
			Category:    "Grocery",
			Description: "First-press fish sauce, 500ml bottle.",
			PriceCents:  62000,
			Currency:    "VND",
			ImageURL:    "https://cdn.storecore.local/static/fish-sauce-500ml.jpg",
			InStock:     true,
			CreatedAt:   stamped,
			UpdatedAt:   stamped,
		},
	}
}
