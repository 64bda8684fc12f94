package usecase

import (
	"sort"
	"strings"

	"github.com/forkflame/backend/internal/domain"
)

// Stateless transforms consumed by the filtering/sorting screens. None of
// them mutate the input slice.

// SortField selects the key for SortItems.
type SortField string

const (
	SortByName   SortField = "name"
	SortByPrice  SortField = "price"
	SortByRating SortField = "rating"
)

// SortOrder selects the direction for SortItems.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// SearchItems returns the items whose name or description contains the query,
// case-insensitively. An empty query matches everything.
func SearchItems(items []domain.CatalogItem, query string) []domain.CatalogItem {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return append([]domain.CatalogItem(nil), items...)
	}

	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.Name), query) ||
			strings.Contains(strings.ToLower(item.Description), query) {
			out = append(out, item)
		}
	}
	return out
}

// FilterByPriceRange keeps items with min <= price <= max. A max of zero or
// below means unbounded above.
func FilterByPriceRange(items []domain.CatalogItem, min, max float64) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Price < min {
			continue
		}
		if max > 0 && item.Price > max {
			continue
		}
		out = append(out, item)
	}
	return out
}

// FilterByMinRating keeps items rated at or above the threshold.
func FilterByMinRating(items []domain.CatalogItem, min float64) []domain.CatalogItem {
	out := make([]domain.CatalogItem, 0, len(items))
	for _, item := range items {
		if item.Rating >= min {
			out = append(out, item)
		}
	}
	return out
}

// SortItems returns a copy sorted by the given field and order. Equal keys
// keep their relative input order. An unknown field returns the copy
// unsorted.
func SortItems(items []domain.CatalogItem, field SortField, order SortOrder) []domain.CatalogItem {
	out := append([]domain.CatalogItem(nil), items...)

	var less func(a, b domain.CatalogItem) bool
	switch field {
	case SortByName:
		less = func(a, b domain.CatalogItem) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case SortByPrice:
		less = func(a, b domain.CatalogItem) bool { return a.Price < b.Price }
	case SortByRating:
		less = func(a, b domain.CatalogItem) bool { return a.Rating < b.Rating }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool {
		if order == SortDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}
