package usecase

import (
	"context"
	"log"
	"sync"

	"github.com/forkflame/backend/internal/domain"
)

// Aggregator builds the unified catalog from the per-category endpoints.
type Aggregator struct {
	client domain.MenuClient
}

// NewAggregator creates an aggregator over the given menu client.
func NewAggregator(client domain.MenuClient) *Aggregator {
	return &Aggregator{client: client}
}

// FetchCatalog fetches every category concurrently and merges the results
// into one deduplicated catalog. It never fails: a category that errors
// contributes zero items and is logged, and total failure yields an empty
// catalog. Output order is category order, then item order within each
// category's response.
func (a *Aggregator) FetchCatalog(ctx context.Context) []domain.CatalogItem {
	categories := domain.AllCategories()

	type settled struct {
		items []domain.CatalogItem
		err   error
	}
	results := make([]settled, len(categories))

	// Settle-all join: every request runs to completion regardless of
	// sibling failures.
	var wg sync.WaitGroup
	for i, category := range categories {
		wg.Add(1)
		go func(i int, category domain.Category) {
			defer wg.Done()
			items, err := a.client.FetchCategory(ctx, category)
			results[i] = settled{items: items, err: err}
		}(i, category)
	}
	wg.Wait()

	merged := make([]domain.CatalogItem, 0, 64)
	for i, category := range categories {
		if results[i].err != nil {
			log.Printf("[AGGREGATOR] category %s failed: %v", category, results[i].err)
			continue
		}
		merged = append(merged, results[i].items...)
	}

	return dedupeItems(merged)
}

// FetchFeatured fetches the best-foods subset. Unlike the full catalog there
// is no partial-success concept here, so the error is surfaced to the caller.
func (a *Aggregator) FetchFeatured(ctx context.Context) ([]domain.CatalogItem, error) {
	items, err := a.client.FetchFeatured(ctx)
	if err != nil {
		return nil, err
	}
	return dedupeItems(items), nil
}

// dedupeItems drops re-encountered UniqueIDs while preserving first-seen
// order. Guards against upstream categories reusing raw IDs.
func dedupeItems(items []domain.CatalogItem) []domain.CatalogItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item.UniqueID]; dup {
			continue
		}
		seen[item.UniqueID] = struct{}{}
		out = append(out, item)
	}
	return out
}
