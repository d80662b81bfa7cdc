package catalog

import (
	"strings"

	"github.com/vietddude/storecore/internal/core/domain"
)

// similarLimit caps the similar-products result.
const similarLimit = 10

// SimilarIn filters products similar to the target name/category.
// A product matches when its normalized name is a substring of the
// target's normalized name or vice versa, or when its category equals
// the target's. The product with excludeID is always skipped and
// source order is preserved.
func SimilarIn(products []domain.Product, name, category, excludeID string) []domain.Product {
	target := normalizeName(name)

	matched := make([]domain.Product, 0, similarLimit)
	for _, p := range products {
		if p.ID == excludeID {
			continue
		}
		candidate := normalizeName(p.Name)
		nameMatch := candidate != "" && target != "" &&
			(strings.Contains(target, candidate) || strings.Contains(candidate, target))
		if nameMatch || p.Category == category {
			matched = append(matched, p)
			if len(matched) == similarLimit {
				break
			}
		}
	}
	return matched
}

// normalizeName lowercases and collapses whitespace runs to hyphens.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
