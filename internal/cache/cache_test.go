package cache

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/ShipPack/internal/model"
)

func TestGetOrCompute_CachesValue(t *testing.T) {
	c := New(10, time.Hour, time.Second, nil)
	calls := 0

	for i := 0; i < 3; i++ {
		value, hit, err := c.GetOrCompute("k", func() (any, error) {
			calls++
			return 42, nil
		})
		require.NoError(t, err)
		assert.Equal(t, 42, value)
		assert.Equal(t, i > 0, hit)
	}
	assert.Equal(t, 1, calls)

	// The compute path re-checks the cache inside the flight; that
	// re-check must not count the same logical miss twice.
	hits, misses := c.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(1), misses)
}

func TestGetOrCompute_TTLExpiry(t *testing.T) {
	c := New(10, time.Hour, time.Second, nil)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	calls := 0
	compute := func() (any, error) {
		calls++
		return "v", nil
	}

	_, _, err := c.GetOrCompute("k", compute)
	require.NoError(t, err)
	_, hit, _ := c.GetOrCompute("k", compute)
	assert.True(t, hit)

	now = now.Add(2 * time.Hour)
	_, hit, _ = c.GetOrCompute("k", compute)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_NegativeTTL(t *testing.T) {
	c := New(10, time.Hour, 30*time.Second, nil)
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	calls := 0
	failing := func() (any, error) {
		calls++
		return nil, model.ErrInfeasible
	}

	_, _, err := c.GetOrCompute("k", failing)
	require.ErrorIs(t, err, model.ErrInfeasible)

	// Within the negative TTL the failure is served from cache.
	_, hit, err := c.GetOrCompute("k", failing)
	assert.True(t, hit)
	require.ErrorIs(t, err, model.ErrInfeasible)
	assert.Equal(t, 1, calls)

	// After it the computation reruns.
	now = now.Add(time.Minute)
	_, _, _ = c.GetOrCompute("k", failing)
	assert.Equal(t, 2, calls)
}

func TestGetOrCompute_ZeroNegativeTTLSkipsFailures(t *testing.T) {
	c := New(10, time.Hour, 0, nil)
	calls := 0
	failing := func() (any, error) {
		calls++
		return nil, errors.New("boom")
	}

	_, _, _ = c.GetOrCompute("k", failing)
	_, hit, _ := c.GetOrCompute("k", failing)
	assert.False(t, hit)
	assert.Equal(t, 2, calls)
}

func TestCache_LRUEviction(t *testing.T) {
	c := New(2, time.Hour, time.Second, nil)

	set := func(key string) {
		_, _, _ = c.GetOrCompute(key, func() (any, error) { return key, nil })
	}

	set("a")
	set("b")
	// Touch "a" so "b" becomes the eviction victim.
	_, hit, _ := c.GetOrCompute("a", func() (any, error) { return nil, nil })
	require.True(t, hit)

	set("c")
	assert.Equal(t, 2, c.Len())

	_, hit, _ = c.Get("a")
	assert.True(t, hit)
	_, hit, _ = c.Get("b")
	assert.False(t, hit)
	_, hit, _ = c.Get("c")
	assert.True(t, hit)
}

func TestGetOrCompute_SingleFlight(t *testing.T) {
	c := New(10, time.Hour, time.Second, nil)

	var calls int32
	release := make(chan struct{})
	compute := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]any, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			value, _, err := c.GetOrCompute("k", compute)
			require.NoError(t, err)
			results[i] = value
		}(i)
	}

	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent callers share one computation")
	for _, r := range results {
		assert.Equal(t, "shared", r)
	}
}

func TestCache_Purge(t *testing.T) {
	c := New(10, time.Hour, time.Second, nil)
	_, _, _ = c.GetOrCompute("k", func() (any, error) { return 1, nil })
	require.Equal(t, 1, c.Len())

	c.Purge()
	assert.Equal(t, 0, c.Len())
}

func TestFingerprint_OrderAndIDInsensitive(t *testing.T) {
	a := model.Item{ID: "a", Length: 15, Width: 10, Height: 8, Weight: 0.5, Stackable: true}
	b := model.Item{ID: "b", Length: 20, Width: 15, Height: 12, Weight: 1.2, Stackable: true}
	renamed := a
	renamed.ID = "zz"

	box := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, decimal.NewFromInt(120))
	boxes := []model.Box{box}

	base := Fingerprint([]model.Item{a, b}, boxes, "kanto", "firstfit")

	assert.Equal(t, base, Fingerprint([]model.Item{b, a}, boxes, "kanto", "firstfit"),
		"item order must not change the key")
	assert.Equal(t, base, Fingerprint([]model.Item{renamed, b}, boxes, "kanto", "firstfit"),
		"item IDs must not change the key")
}

func TestFingerprint_SensitiveInputs(t *testing.T) {
	a := model.Item{ID: "a", Length: 15, Width: 10, Height: 8, Weight: 0.5, Stackable: true}
	box := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, decimal.NewFromInt(120))
	boxes := []model.Box{box}
	items := []model.Item{a}

	base := Fingerprint(items, boxes, "kanto", "firstfit")

	assert.NotEqual(t, base, Fingerprint(items, boxes, "kansai", "firstfit"), "zone")
	assert.NotEqual(t, base, Fingerprint(items, boxes, "kanto", "bestfit"), "strategy")
	assert.NotEqual(t, base, Fingerprint([]model.Item{a, a}, boxes, "kanto", "firstfit"), "quantity")

	fragile := a
	fragile.Fragile = true
	assert.NotEqual(t, base, Fingerprint([]model.Item{fragile}, boxes, "kanto", "firstfit"), "flags")

	repriced := box
	repriced.UnitCost = decimal.NewFromInt(999)
	assert.NotEqual(t, base, Fingerprint(items, []model.Box{repriced}, "kanto", "firstfit"), "box cost")
}

func TestLayoutFingerprint(t *testing.T) {
	a := model.Item{ID: "a", Length: 15, Width: 10, Height: 8, Weight: 0.5, Stackable: true}
	box := model.NewBox("No.1", 37.5, 37.0, 24.0, 10.0, decimal.NewFromInt(120))

	base := LayoutFingerprint(box, []model.Item{a}, "firstfit")
	assert.Equal(t, base, LayoutFingerprint(box, []model.Item{a}, "firstfit"))
	assert.NotEqual(t, base, LayoutFingerprint(box, []model.Item{a}, "bestfit"))
	assert.NotEqual(t, base, LayoutFingerprint(box, []model.Item{a, a}, "firstfit"))
}
