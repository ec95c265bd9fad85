// ShopSense - Personalized Shopping Recommendations
// Copyright 2026 The ShopSense Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/shopsense/shopsense

package recommend

import (
	"container/list"
	"sync"
	"time"

	"github.com/shopsense/shopsense/internal/metrics"
	"github.com/shopsense/shopsense/internal/models"
)

const cacheType = "recommendations"

type cacheEntry struct {
	key       string
	result    models.RecommendationResult
	expiresAt time.Time
}

// resultCache is a TTL cache for recommendation results with LRU eviction
// when full. A zero TTL or zero capacity disables caching.
type resultCache struct {
	ttl        time.Duration
	maxEntries int

	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List

	now func() time.Time
}

func newResultCache(ttl time.Duration, maxEntries int) *resultCache {
	return &resultCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

func (c *resultCache) enabled() bool {
	return c.ttl > 0 && c.maxEntries > 0
}

// get returns a copy of the cached result, or false on a miss or expired
// entry.
func (c *resultCache) get(key string) (models.RecommendationResult, bool) {
	if !c.enabled() {
		return models.RecommendationResult{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.entries[key]
	if !ok {
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return models.RecommendationResult{}, false
	}

	entry := elem.Value.(*cacheEntry)
	if c.now().After(entry.expiresAt) {
		c.removeLocked(elem)
		metrics.CacheMisses.WithLabelValues(cacheType).Inc()
		return models.RecommendationResult{}, false
	}

	c.lru.MoveToFront(elem)
	metrics.CacheHits.WithLabelValues(cacheType).Inc()
	return entry.result, true
}

// put stores a result, evicting the least recently used entry when full.
func (c *resultCache) put(key string, result models.RecommendationResult) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.entries[key]; ok {
		entry := elem.Value.(*cacheEntry)
		entry.result = result
		entry.expiresAt = c.now().Add(c.ttl)
		c.lru.MoveToFront(elem)
		return
	}

	for len(c.entries) >= c.maxEntries {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		metrics.CacheEvictions.WithLabelValues(cacheType).Inc()
	}

	elem := c.lru.PushFront(&cacheEntry{
		key:       key,
		result:    result,
		expiresAt: c.now().Add(c.ttl),
	})
	c.entries[key] = elem
}

// invalidate drops every cached result for one customer. Called when
// feedback changes the customer's strategy.
func (c *resultCache) invalidate(customerID string) {
	if !c.enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var stale []*list.Element
	for elem := c.lru.Front(); elem != nil; elem = elem.Next() {
		if elem.Value.(*cacheEntry).result.CustomerID == customerID {
			stale = append(stale, elem)
		}
	}
	for _, elem := range stale {
		c.removeLocked(elem)
		metrics.CacheEvictions.WithLabelValues(cacheType).Inc()
	}
}

func (c *resultCache) removeLocked(elem *list.Element) {
	entry := elem.Value.(*cacheEntry)
	delete(c.entries, entry.key)
	c.lru.Remove(elem)
}
