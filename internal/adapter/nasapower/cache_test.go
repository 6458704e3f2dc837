package nasapower

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/turf-risk/internal/domain"
)

// --- mock for cache tests ---

type countingProvider struct {
	calls  int
	result domain.WeatherSummary
	err    error
}

func (m *countingProvider) FiveDayMeans(_ context.Context, _, _ float64, _ time.Time) (domain.WeatherSummary, error) {
	m.calls++
	return m.result, m.err
}

// --- CachedProvider tests ---

func TestCachedProvider_CacheHit(t *testing.T) {
	inner := &countingProvider{
		result: domain.WeatherSummary{MeanTemperatureC: 25.5, MeanHumidityPct: 76, DataDays: 5},
	}
	cached := NewCachedProvider(inner, 10, testMetrics())

	s1, err := cached.FiveDayMeans(context.Background(), 35.6895, 139.6917, testDate)
	require.NoError(t, err)
	assert.Equal(t, 25.5, s1.MeanTemperatureC)

	s2, err := cached.FiveDayMeans(context.Background(), 35.6895, 139.6917, testDate)
	require.NoError(t, err)
	assert.Equal(t, s1, s2)

	assert.Equal(t, 1, inner.calls, "should only call inner once")
}

func TestCachedProvider_KeyRoundsCoordinates(t *testing.T) {
	inner := &countingProvider{result: domain.WeatherSummary{DataDays: 5}}
	cached := NewCachedProvider(inner, 10, testMetrics())

	// Differences past the 4th decimal (~11m) collapse to one key.
	_, _ = cached.FiveDayMeans(context.Background(), 35.68951, 139.69171, testDate)
	_, _ = cached.FiveDayMeans(context.Background(), 35.68949, 139.69169, testDate)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedProvider_DifferentKeysMiss(t *testing.T) {
	inner := &countingProvider{result: domain.WeatherSummary{DataDays: 5}}
	cached := NewCachedProvider(inner, 10, testMetrics())

	_, _ = cached.FiveDayMeans(context.Background(), 35.0, 139.0, testDate)
	_, _ = cached.FiveDayMeans(context.Background(), 36.0, 139.0, testDate)
	_, _ = cached.FiveDayMeans(context.Background(), 35.0, 139.0, testDate.AddDate(0, 0, 1))

	assert.Equal(t, 3, inner.calls)
}

func TestCachedProvider_ErrorsNotCached(t *testing.T) {
	inner := &countingProvider{err: errors.New("power API down")}
	cached := NewCachedProvider(inner, 10, testMetrics())

	_, err := cached.FiveDayMeans(context.Background(), 35.0, 139.0, testDate)
	require.Error(t, err)

	_, err = cached.FiveDayMeans(context.Background(), 35.0, 139.0, testDate)
	require.Error(t, err)

	assert.Equal(t, 2, inner.calls, "failures must be retried, not served from cache")
}

// --- LRU cache unit tests ---

func TestLRUCache_BasicGetPut(t *testing.T) {
	c := newLRUCache(3)

	c.put("a", domain.WeatherSummary{MeanTemperatureC: 1})
	c.put("b", domain.WeatherSummary{MeanTemperatureC: 2})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 1.0, result.MeanTemperatureC)

	_, ok = c.get("missing")
	assert.False(t, ok)
}

func TestLRUCache_Eviction(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.WeatherSummary{MeanTemperatureC: 1})
	c.put("b", domain.WeatherSummary{MeanTemperatureC: 2})
	c.put("c", domain.WeatherSummary{MeanTemperatureC: 3}) // evicts "a"

	_, ok := c.get("a")
	assert.False(t, ok, "a should have been evicted")

	result, ok := c.get("b")
	assert.True(t, ok)
	assert.Equal(t, 2.0, result.MeanTemperatureC)

	result, ok = c.get("c")
	assert.True(t, ok)
	assert.Equal(t, 3.0, result.MeanTemperatureC)
}

func TestLRUCache_AccessPromotesEntry(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.WeatherSummary{MeanTemperatureC: 1})
	c.put("b", domain.WeatherSummary{MeanTemperatureC: 2})

	// Access "a" to promote it
	c.get("a")

	// Insert "c": should evict "b" (LRU), not "a"
	c.put("c", domain.WeatherSummary{MeanTemperatureC: 3})

	_, ok := c.get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRUCache_UpdateExisting(t *testing.T) {
	c := newLRUCache(2)

	c.put("a", domain.WeatherSummary{MeanTemperatureC: 1})
	c.put("a", domain.WeatherSummary{MeanTemperatureC: 9})

	result, ok := c.get("a")
	assert.True(t, ok)
	assert.Equal(t, 9.0, result.MeanTemperatureC)
}
