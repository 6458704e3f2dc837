package nasapower

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/couchcryptid/turf-risk/internal/domain"
	"github.com/couchcryptid/turf-risk/internal/observability"
)

// CachedProvider wraps a WeatherProvider with an in-memory LRU cache.
// POWER data is daily, so a coordinate rounded to 4 decimals plus the
// observation date identifies a stable answer.
type CachedProvider struct {
	inner   domain.WeatherProvider
	cache   *lruCache
	metrics *observability.Metrics
}

// NewCachedProvider creates a cache decorator around a weather provider.
func NewCachedProvider(inner domain.WeatherProvider, maxEntries int, metrics *observability.Metrics) *CachedProvider {
	return &CachedProvider{
		inner:   inner,
		cache:   newLRUCache(maxEntries),
		metrics: metrics,
	}
}

func (c *CachedProvider) FiveDayMeans(ctx context.Context, lat, lng float64, date time.Time) (domain.WeatherSummary, error) {
	key := fmt.Sprintf("%.4f,%.4f|%s", lat, lng, date.UTC().Format("2006-01-02"))
	if summary, ok := c.cache.get(key); ok {
		c.metrics.WeatherCache.WithLabelValues("hit").Inc()
		return summary, nil
	}
	c.metrics.WeatherCache.WithLabelValues("miss").Inc()

	summary, err := c.inner.FiveDayMeans(ctx, lat, lng, date)
	if err != nil {
		return summary, err
	}
	c.cache.put(key, summary)
	return summary, nil
}

// lruCache is a simple thread-safe LRU cache for weather summaries.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry
	head       *entry // most recently used
	tail       *entry // least recently used
}

type entry struct {
	key   string
	value domain.WeatherSummary
	prev  *entry
	next  *entry
}

func newLRUCache(maxEntries int) *lruCache {
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry),
	}
}

func (c *lruCache) get(key string) (domain.WeatherSummary, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return domain.WeatherSummary{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value domain.WeatherSummary) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *entry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *entry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *entry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
