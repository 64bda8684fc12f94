package domain

import "context"

// KVStore defines the persistent key-value store backing the validation
// cache. Implementations are best-effort: a broken backing store degrades to
// misses and no-ops rather than surfacing errors into the pipeline.
type KVStore interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MenuClient defines the interface for fetching raw menu data from the food API.
type MenuClient interface {
	FetchCategory(ctx context.Context, category Category) ([]CatalogItem, error)
	FetchFeatured(ctx context.Context) ([]CatalogItem, error)
}

// ImageProber checks whether an image resource actually loads. A probe never
// returns an error; failure to load for any reason is simply false. Callers
// bound the probe through the context deadline.
type ImageProber interface {
	Probe(ctx context.Context, imageURL string) bool
}
