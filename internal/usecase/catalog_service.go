package usecase

import (
	"context"
	"sync"

	"github.com/forkflame/backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogKind selects which logical catalog a service instance serves.
type CatalogKind string

const (
	KindFull     CatalogKind = "full"
	KindFeatured CatalogKind = "featured"
)

// CatalogState is the facade's lifecycle state for one catalog.
type CatalogState string

const (
	StateEmpty      CatalogState = "empty"
	StateFetching   CatalogState = "fetching"
	StateFetched    CatalogState = "fetched"
	StateValidating CatalogState = "validating"
	StateValidated  CatalogState = "validated"
)

// Snapshot is the read model the UI consumes. It is a point-in-time copy;
// callers never observe facade internals mid-mutation.
type Snapshot struct {
	Data               []domain.CatalogItem `json:"data"`
	State              CatalogState         `json:"state"`
	IsLoading          bool                 `json:"isLoading"`
	IsValidating       bool                 `json:"isValidating"`
	ValidationProgress float64              `json:"validationProgress"`
	ValidCount         int                  `json:"validCount"`
	TotalCount         int                  `json:"totalCount"`
	HasValidated       bool                 `json:"hasValidated"`
	Error              string               `json:"error,omitempty"`
}

// CatalogServiceConfig holds per-kind facade configuration.
type CatalogServiceConfig struct {
	Kind    CatalogKind
	Desktop Profile
	Mobile  Profile
}

// CatalogService is the single entry point the UI layer calls. It merges the
// aggregator, validator and cache into one read model and drives the
// EMPTY -> FETCHING -> (FETCHED, VALIDATING) -> VALIDATED state machine, with
// VALIDATED -> VALIDATING re-entrant on Revalidate.
type CatalogService struct {
	kind      CatalogKind
	cacheKey  string
	agg       *Aggregator
	validator *ImageValidator
	cache     *ValidationCache
	desktop   Profile
	mobile    Profile

	sf singleflight.Group

	mu           sync.Mutex
	state        CatalogState
	items        []domain.CatalogItem
	fetched      []domain.CatalogItem
	progress     float64
	validCount   int
	hasValidated bool
	err          error
	// gen is bumped by Revalidate; a validation pass only applies its result
	// while its captured generation is still current. A superseded or
	// torn-down pass becomes a no-op instead of a stale write.
	gen uint64
}

// NewCatalogService creates a facade for one catalog kind.
func NewCatalogService(
	agg *Aggregator,
	validator *ImageValidator,
	cache *ValidationCache,
	cfg CatalogServiceConfig,
) *CatalogService {
	cacheKey := CacheKeyCatalog
	if cfg.Kind == KindFeatured {
		cacheKey = CacheKeyFeatured
	}
	return &CatalogService{
		kind:      cfg.Kind,
		cacheKey:  cacheKey,
		agg:       agg,
		validator: validator,
		cache:     cache,
		desktop:   cfg.Desktop,
		mobile:    cfg.Mobile,
		state:     StateEmpty,
	}
}

// Load returns the current snapshot, first driving the pipeline forward if
// this catalog has not been loaded yet: cached-and-unexpired data serves
// immediately as VALIDATED; otherwise a fetch runs synchronously and a
// validation pass is started in the background.
func (s *CatalogService) Load(ctx context.Context, device domain.DeviceProfile) Snapshot {
	s.mu.Lock()
	switch s.state {
	case StateFetching, StateFetched, StateValidating, StateValidated:
		defer s.mu.Unlock()
		return s.snapshotLocked()
	}
	s.mu.Unlock()

	// Concurrent first loads collapse into one pipeline run.
	s.sf.Do("load:"+s.cacheKey, func() (interface{}, error) {
		s.load(ctx, device)
		return nil, nil
	})

	return s.Snapshot()
}

// Snapshot returns the current read model without driving the pipeline.
func (s *CatalogService) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Revalidate clears the cache record, resets validation state and re-runs
// the validator over the already-fetched catalog. No network refetch happens
// when a fetch result is already held; with nothing fetched it behaves like
// a fresh Load. A pass already in flight is left alone.
func (s *CatalogService) Revalidate(ctx context.Context, device domain.DeviceProfile) Snapshot {
	s.cache.Clear(s.cacheKey)

	s.mu.Lock()
	if s.state == StateFetching || s.state == StateValidating {
		defer s.mu.Unlock()
		return s.snapshotLocked()
	}
	if len(s.fetched) == 0 {
		s.state = StateEmpty
		s.mu.Unlock()
		return s.Load(ctx, device)
	}

	s.gen++
	gen := s.gen
	s.hasValidated = false
	s.validCount = 0
	s.progress = 0
	s.err = nil
	s.state = StateValidating
	s.mu.Unlock()

	go s.runValidation(gen, device)

	return s.Snapshot()
}

// load runs the fetch stage and kicks off validation. Idempotent: a second
// caller that slipped past Load's fast path becomes a no-op here.
func (s *CatalogService) load(ctx context.Context, device domain.DeviceProfile) {
	s.mu.Lock()
	if s.state != StateEmpty {
		s.mu.Unlock()
		return
	}
	s.state = StateFetching
	s.err = nil
	s.mu.Unlock()

	// Stale-while-revalidate: an unexpired record serves as-is.
	if record, ok := s.cache.ReadValid(s.cacheKey); ok {
		s.mu.Lock()
		s.items = record.Items
		s.fetched = record.Items
		s.validCount = record.ValidCount
		s.hasValidated = true
		s.progress = 100
		s.state = StateValidated
		s.mu.Unlock()
		return
	}

	var fetched []domain.CatalogItem
	if s.kind == KindFeatured {
		var err error
		fetched, err = s.agg.FetchFeatured(ctx)
		if err != nil {
			s.mu.Lock()
			s.state = StateEmpty
			s.err = err
			s.mu.Unlock()
			return
		}
	} else {
		// Never fails; total failure is an empty catalog (soft failure).
		fetched = s.agg.FetchCatalog(ctx)
	}

	s.mu.Lock()
	s.fetched = fetched
	s.items = fetched
	s.progress = 0
	s.state = StateValidating
	gen := s.gen
	s.mu.Unlock()

	go s.runValidation(gen, device)
}

// runValidation executes one validation pass and applies the result unless
// the pass was superseded. The pass is detached from any request context:
// navigation away never cancels it, per the probe timeout being the only
// bounded-completion guarantee.
func (s *CatalogService) runValidation(gen uint64, device domain.DeviceProfile) {
	s.sf.Do("validate:"+s.cacheKey, func() (interface{}, error) {
		s.mu.Lock()
		items := append([]domain.CatalogItem(nil), s.fetched...)
		s.mu.Unlock()

		result := s.validator.Validate(context.Background(), items, s.profileFor(device), device, func(percent float64) {
			s.mu.Lock()
			if s.gen == gen && percent > s.progress {
				s.progress = percent
			}
			s.mu.Unlock()
		})

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen {
			return nil, nil
		}
		// Persist before exposing VALIDATED so observers never see a
		// completed pass with no record behind it.
		s.cache.Write(s.cacheKey, result.Items, result.ValidCount)
		s.items = result.Items
		s.validCount = result.ValidCount
		s.hasValidated = true
		s.progress = 100
		s.state = StateValidated
		return nil, nil
	})
}

func (s *CatalogService) profileFor(device domain.DeviceProfile) Profile {
	if device.Class == domain.DeviceMobile {
		return s.mobile
	}
	return s.desktop
}

// snapshotLocked builds the read model. Caller holds the mutex. Output is
// deduplicated by UniqueID: cache and validator are independent writers, so
// the facade guards the invariant itself.
func (s *CatalogService) snapshotLocked() Snapshot {
	data := dedupeItems(s.items)

	snap := Snapshot{
		Data:               data,
		State:              s.state,
		IsLoading:          s.state == StateFetching && len(data) == 0,
		IsValidating:       s.state == StateValidating,
		ValidationProgress: s.progress,
		ValidCount:         s.validCount,
		TotalCount:         len(data),
		HasValidated:       s.hasValidated,
	}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}
