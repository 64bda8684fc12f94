package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/forkflame/backend/internal/domain"
)

// Profile sizes one validation pass: how many items to probe, how many
// concurrent probes per batch, and the per-probe deadline.
type Profile struct {
	Window       int
	BatchSize    int
	ProbeTimeout time.Duration
}

// Default profiles, used when configuration leaves a field zero.
const (
	defaultWindow       = 80
	defaultBatchSize    = 50
	defaultProbeTimeout = 5 * time.Second
)

// normalized fills zero fields with defaults.
func (p Profile) normalized() Profile {
	if p.Window <= 0 {
		p.Window = defaultWindow
	}
	if p.BatchSize <= 0 {
		p.BatchSize = defaultBatchSize
	}
	if p.ProbeTimeout <= 0 {
		p.ProbeTimeout = defaultProbeTimeout
	}
	return p
}

// ValidationResult is the outcome of one validation pass.
type ValidationResult struct {
	// Items is the full input set, reordered valid-first within the window.
	// Never smaller than the input.
	Items []domain.CatalogItem
	// ValidCount is the number of probes that confirmed a loadable image.
	ValidCount int
	// Probed is how many items were actually probed.
	Probed int
	// Skipped is true when the constrained-network policy skipped probing.
	Skipped bool
}

// ProgressFunc receives the running completion percentage, 0-100.
type ProgressFunc func(percent float64)

// ImageValidator probes a bounded prefix of a catalog for image loadability
// and reorders it valid-first without dropping anything.
type ImageValidator struct {
	prober domain.ImageProber
}

// NewImageValidator creates a validator over the given prober.
func NewImageValidator(prober domain.ImageProber) *ImageValidator {
	return &ImageValidator{prober: prober}
}

// ShouldSkip reports whether validation should be skipped entirely: a
// mobile-class device on a constrained network keeps its bandwidth.
func (v *ImageValidator) ShouldSkip(device domain.DeviceProfile) bool {
	return device.Class == domain.DeviceMobile && device.Constrained()
}

// Validate runs one validation pass over items. Only the first
// profile.Window items are probed; the tail passes through unexamined in its
// original order. Probes run concurrently within sequential batches, each
// bounded by profile.ProbeTimeout. onProgress (optional) observes a
// monotonically non-decreasing percentage that ends at exactly 100.
//
// When ShouldSkip(device) holds, no probes run and the input order is
// preserved; the pass still reports completion.
func (v *ImageValidator) Validate(
	ctx context.Context,
	items []domain.CatalogItem,
	profile Profile,
	device domain.DeviceProfile,
	onProgress ProgressFunc,
) ValidationResult {
	profile = profile.normalized()

	report := func(percent float64) {
		if onProgress != nil {
			onProgress(percent)
		}
	}

	if v.ShouldSkip(device) {
		report(100)
		return ValidationResult{Items: items, Skipped: true}
	}

	window := profile.Window
	if window > len(items) {
		window = len(items)
	}
	if window == 0 {
		report(100)
		return ValidationResult{Items: items}
	}

	valid := make([]domain.CatalogItem, 0, window)
	invalid := make([]domain.CatalogItem, 0)

	for start := 0; start < window; start += profile.BatchSize {
		end := start + profile.BatchSize
		if end > window {
			end = window
		}
		batch := items[start:end]

		outcomes := make([]bool, len(batch))
		var wg sync.WaitGroup
		for j, item := range batch {
			wg.Add(1)
			go func(j int, imageURL string) {
				defer wg.Done()
				outcomes[j] = v.probeWithDeadline(ctx, imageURL, profile.ProbeTimeout)
			}(j, item.ImageURL)
		}
		wg.Wait()

		// Classification order follows input order, not probe completion order.
		for j, item := range batch {
			if outcomes[j] {
				valid = append(valid, item)
			} else {
				invalid = append(invalid, item)
			}
		}

		report(float64(end) / float64(window) * 100)
	}

	ordered := make([]domain.CatalogItem, 0, len(items))
	ordered = append(ordered, valid...)
	ordered = append(ordered, invalid...)
	ordered = append(ordered, items[window:]...)

	return ValidationResult{
		Items:      ordered,
		ValidCount: len(valid),
		Probed:     window,
	}
}

// probeWithDeadline races the probe against its deadline. It always returns;
// a probe that outlives the deadline counts as invalid and its goroutine is
// left to finish against the canceled context.
func (v *ImageValidator) probeWithDeadline(ctx context.Context, imageURL string, timeout time.Duration) bool {
	probeCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan bool, 1)
	go func() {
		done <- v.prober.Probe(probeCtx, imageURL)
	}()

	select {
	case ok := <-done:
		return ok
	case <-probeCtx.Done():
		return false
	}
}
