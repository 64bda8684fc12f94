package usecase

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkflame/backend/internal/domain"
)

// stubProber classifies URLs via a predicate, with an optional delay to
// exercise the deadline race.
type stubProber struct {
	invalid map[string]bool
	delay   time.Duration
	probes  int32
}

func (p *stubProber) Probe(ctx context.Context, imageURL string) bool {
	atomic.AddInt32(&p.probes, 1)
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return false
		}
	}
	return !p.invalid[imageURL]
}

func desktopDevice() domain.DeviceProfile {
	return domain.DeviceProfile{Class: domain.DeviceDesktop}
}

func makeItems(n int) []domain.CatalogItem {
	items := make([]domain.CatalogItem, 0, n)
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		items = append(items, domain.CatalogItem{
			ID:       id,
			UniqueID: id + "-burgers",
			ImageURL: "https://img.example/" + id + ".jpg",
			Category: domain.CategoryBurgers,
		})
	}
	return items
}

func TestValidate_ReordersValidFirstWithoutLoss(t *testing.T) {
	items := makeItems(10)
	prober := &stubProber{invalid: map[string]bool{
		items[1].ImageURL: true, // b
		items[4].ImageURL: true, // e
	}}
	v := NewImageValidator(prober)

	result := v.Validate(context.Background(), items, Profile{Window: 8, BatchSize: 4, ProbeTimeout: time.Second}, desktopDevice(), nil)

	require.Len(t, result.Items, len(items), "validation must never drop items")
	assert.Equal(t, 6, result.ValidCount)
	assert.Equal(t, 8, result.Probed)
	assert.False(t, result.Skipped)

	ids := func(items []domain.CatalogItem) []string {
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}
	// valid-in-window, then invalid-in-window, then untouched tail
	assert.Equal(t, []string{"a", "c", "d", "f", "g", "h", "b", "e", "i", "j"}, ids(result.Items))
}

func TestValidate_ProgressMonotonicEndsAt100(t *testing.T) {
	items := makeItems(9)
	v := NewImageValidator(&stubProber{})

	var reported []float64
	v.Validate(context.Background(), items, Profile{Window: 8, BatchSize: 3, ProbeTimeout: time.Second}, desktopDevice(), func(p float64) {
		reported = append(reported, p)
	})

	require.NotEmpty(t, reported)
	for i := 1; i < len(reported); i++ {
		assert.GreaterOrEqual(t, reported[i], reported[i-1], "progress must be non-decreasing")
	}
	assert.Equal(t, float64(100), reported[len(reported)-1])
}

func TestValidate_WindowCapsProbes(t *testing.T) {
	items := makeItems(10)
	prober := &stubProber{}
	v := NewImageValidator(prober)

	result := v.Validate(context.Background(), items, Profile{Window: 4, BatchSize: 2, ProbeTimeout: time.Second}, desktopDevice(), nil)

	assert.Equal(t, int32(4), atomic.LoadInt32(&prober.probes))
	assert.Equal(t, 4, result.Probed)
	// Tail keeps original order.
	assert.Equal(t, "e", result.Items[4].ID)
	assert.Equal(t, "j", result.Items[9].ID)
}

func TestValidate_SkipsOnConstrainedMobile(t *testing.T) {
	items := makeItems(6)
	prober := &stubProber{}
	v := NewImageValidator(prober)
	device := domain.DeviceProfile{Class: domain.DeviceMobile, SaveData: true}

	var reported []float64
	result := v.Validate(context.Background(), items, Profile{Window: 6, BatchSize: 3, ProbeTimeout: time.Second}, device, func(p float64) {
		reported = append(reported, p)
	})

	assert.True(t, result.Skipped)
	assert.Equal(t, int32(0), atomic.LoadInt32(&prober.probes), "skip must perform zero probes")
	assert.Equal(t, items, result.Items, "skip must preserve input order")
	assert.Equal(t, []float64{100}, reported)
}

func TestValidate_SlowConnectionAloneDoesNotSkipDesktop(t *testing.T) {
	v := NewImageValidator(&stubProber{})

	assert.False(t, v.ShouldSkip(domain.DeviceProfile{Class: domain.DeviceDesktop, EffectiveType: "slow-2g"}))
	assert.True(t, v.ShouldSkip(domain.DeviceProfile{Class: domain.DeviceMobile, EffectiveType: "slow-2g"}))
	assert.False(t, v.ShouldSkip(domain.DeviceProfile{Class: domain.DeviceMobile, EffectiveType: "4g"}))
}

func TestValidate_StuckProbeResolvesInvalidWithinTimeout(t *testing.T) {
	items := makeItems(2)
	prober := &stubProber{delay: 5 * time.Second}
	v := NewImageValidator(prober)

	start := time.Now()
	result := v.Validate(context.Background(), items, Profile{Window: 2, BatchSize: 2, ProbeTimeout: 50 * time.Millisecond}, desktopDevice(), nil)
	elapsed := time.Since(start)

	assert.Equal(t, 0, result.ValidCount)
	require.Len(t, result.Items, 2)
	assert.Less(t, elapsed, time.Second, "a stuck probe must not block past its deadline")
}

func TestValidate_EmptyCatalog(t *testing.T) {
	v := NewImageValidator(&stubProber{})

	var reported []float64
	result := v.Validate(context.Background(), nil, Profile{}, desktopDevice(), func(p float64) {
		reported = append(reported, p)
	})

	assert.Empty(t, result.Items)
	assert.Equal(t, []float64{100}, reported)
}

func TestValidate_BatchCompletionOrderDoesNotAffectOutput(t *testing.T) {
	// Mixed per-probe timing: output order must follow input order within the
	// validity classes regardless of completion order.
	items := makeItems(4)
	prober := &stubProber{invalid: map[string]bool{items[0].ImageURL: true}, delay: 10 * time.Millisecond}
	v := NewImageValidator(prober)

	result := v.Validate(context.Background(), items, Profile{Window: 4, BatchSize: 4, ProbeTimeout: time.Second}, desktopDevice(), nil)

	assert.Equal(t, "b", result.Items[0].ID)
	assert.Equal(t, "c", result.Items[1].ID)
	assert.Equal(t, "d", result.Items[2].ID)
	assert.Equal(t, "a", result.Items[3].ID)
}
