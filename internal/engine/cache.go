package engine

import (
	"sync"
	"time"
)

// CachedScore is one cached scoring result.
type CachedScore struct {
	Explanation string
	Score       float64
}

type cacheEntry struct {
	expiry time.Time
	score  CachedScore
}

// ScoreCache provides thread-safe TTL caching for LLM match scores, keyed
// by library fingerprint plus candidate identifier. It is created once at
// process start and shared across requests; tests inject a fresh instance
// to avoid cross-test leakage. There is no single-flight deduplication:
// concurrent requests may both miss and both compute, and the last writer
// wins, which is acceptable because scores for a fixed (library, candidate)
// pair are stable.
type ScoreCache struct {
	entries  map[string]cacheEntry
	stopCh   chan struct{}
	ttl      time.Duration
	capacity int
	mu       sync.RWMutex
}

// NewScoreCache creates a cache with the given TTL and capacity bound.
// Zero values select the defaults (1 hour, 1000 entries).
func NewScoreCache(ttl time.Duration, capacity int) *ScoreCache {
	if ttl == 0 {
		ttl = time.Hour
	}
	if capacity <= 0 {
		capacity = 1000
	}

	cache := &ScoreCache{
		entries:  make(map[string]cacheEntry),
		ttl:      ttl,
		capacity: capacity,
		stopCh:   make(chan struct{}),
	}

	go cache.cleanup()

	return cache
}

// Key builds the cache key for a (library fingerprint, candidate) pair.
func (c *ScoreCache) Key(libraryFingerprint, candidateID string) string {
	return libraryFingerprint + ":" + candidateID
}

// Get retrieves a score if it exists and hasn't expired.
func (c *ScoreCache) Get(key string) (CachedScore, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return CachedScore{}, false
	}

	if time.Now().After(entry.expiry) {
		return CachedScore{}, false
	}

	return entry.score, true
}

// Set stores a score. When the cache is full, the entry closest to expiry
// is evicted first, so entries can be dropped before their TTL elapses
// under capacity pressure.
func (c *ScoreCache) Set(key string, score CachedScore) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.capacity {
		c.evictOldestLocked()
	}

	c.entries[key] = cacheEntry{
		score:  score,
		expiry: time.Now().Add(c.ttl),
	}
}

func (c *ScoreCache) evictOldestLocked() {
	var oldestKey string
	var oldestExpiry time.Time
	for key, entry := range c.entries {
		if oldestKey == "" || entry.expiry.Before(oldestExpiry) {
			oldestKey = key
			oldestExpiry = entry.expiry
		}
	}
	if oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// cleanup periodically removes expired entries.
func (c *ScoreCache) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.mu.Lock()
			now := time.Now()
			for key, entry := range c.entries {
				if now.After(entry.expiry) {
					delete(c.entries, key)
				}
			}
			c.mu.Unlock()
		}
	}
}

// Clear removes all entries from the cache.
func (c *ScoreCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Size returns the number of entries in the cache.
func (c *ScoreCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close stops the cleanup goroutine.
func (c *ScoreCache) Close() {
	close(c.stopCh)
}
