package memory

import (
	"context"
	"testing"

	"github.com/vietddude/storecore/internal/core/domain"
	"github.com/vietddude/storecore/internal/infra/store"
)

func TestSettingsRepo_UpsertMergesFields(t *testing.T) {
	repo := NewSettingsRepo(NewMemoryStorage())
	ctx := context.Background()

	if _, err := repo.Get(ctx, "store"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	merged, err := repo.Upsert(ctx, "store", map[string]any{"a": 1, "b": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["a"] != 1 || merged["b"] != "x" {
		t.Errorf("unexpected merge result %v", merged)
	}

	// Partial update keeps untouched fields
	merged, err = repo.Upsert(ctx, "store", map[string]any{"b": "y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged["a"] != 1 || merged["b"] != "y" {
		t.Errorf("expected merge to keep a and replace b, got %v", merged)
	}
}

func TestSettingsRepo_GetReturnsCopy(t *testing.T) {
	repo := NewSettingsRepo(NewMemoryStorage())
	ctx := context.Background()

	if _, err := repo.Upsert(ctx, "store", map[string]any{"a": 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := repo.Get(ctx, "store")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc["a"] = 99

	fresh, err := repo.Get(ctx, "store")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fresh["a"] != 1 {
		t.Errorf("expected stored document isolated from caller mutation, got %v", fresh["a"])
	}
}

func TestProductRepo_Lookups(t *testing.T) {
	mem := NewMemoryStorage()
	mem.SeedProducts([]domain.Product{
		{ID: "1", Slug: "green-tea", Name: "Green Tea"},
	})
	repo := NewProductRepo(mem)
	ctx := context.Background()

	if _, err := repo.GetByID(ctx, "1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := repo.GetBySlug(ctx, "green-tea"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if _, err := repo.GetByID(ctx, "ghost"); err != store.ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestOrderRepo_InsertIsolatesCaller(t *testing.T) {
	repo := NewOrderRepo(NewMemoryStorage())
	ctx := context.Background()

	order := &domain.Order{ID: "o1", Origin: "storefront-api", TotalCents: 100}
	if err := repo.Insert(ctx, order); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order.TotalCents = 999

	stored, err := repo.GetByID(ctx, "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.TotalCents != 100 {
		t.Errorf("expected stored order isolated from caller mutation, got %d", stored.TotalCents)
	}
}
