package infra

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Cache size limits to prevent unbounded memory growth
const (
	DefaultMaxPayloads    = 256             // Maximum number of cached payloads
	DefaultPayloadCleanup = 5 * time.Minute // How often to run cache cleanup
)

// payloadEntry holds one raw response payload with expiration and LRU tracking
type payloadEntry struct {
	Raw        string
	ExpiresAt  time.Time
	AccessedAt time.Time // For LRU eviction
	Key        string    // Store key for eviction
	mu         sync.Mutex
}

// PayloadCache is an LRU cache with TTL support for raw API payloads.
// It stores the unparsed JSON text, never parsed bodies, so every cache
// hit yields a fresh single-use body after parsing.
type PayloadCache struct {
	entries    sync.Map // key (string) -> *payloadEntry
	count      int64    // Atomic counter for cache size
	maxEntries int64
	mu         sync.Mutex // Protects eviction operations

	// Graceful shutdown
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewPayloadCache creates a new LRU payload cache with the specified max entries
func NewPayloadCache(maxEntries int) *PayloadCache {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxPayloads
	}
	c := &PayloadCache{
		maxEntries: int64(maxEntries),
		stopCh:     make(chan struct{}),
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached payload if it exists and hasn't expired
func (c *PayloadCache) Get(key string) (string, bool) {
	if entry, ok := c.entries.Load(key); ok {
		pe := entry.(*payloadEntry)
		now := time.Now()
		if now.Before(pe.ExpiresAt) {
			// Update access time for LRU tracking
			pe.mu.Lock()
			pe.AccessedAt = now
			pe.mu.Unlock()
			return pe.Raw, true
		}
		// Expired, delete it
		c.entries.Delete(key)
		atomic.AddInt64(&c.count, -1)
	}
	return "", false
}

// Set stores a payload in the cache with the specified TTL
func (c *PayloadCache) Set(key, raw string, ttl time.Duration) {
	now := time.Now()

	// Check if this is a new entry or update
	_, existed := c.entries.Load(key)

	c.entries.Store(key, &payloadEntry{
		Raw:        raw,
		ExpiresAt:  now.Add(ttl),
		AccessedAt: now,
		Key:        key,
	})

	// Only increment count for new entries
	if !existed {
		newCount := atomic.AddInt64(&c.count, 1)

		// Trigger eviction if over limit (async to not block caller)
		if newCount > c.maxEntries {
			go c.evictLRU(int(newCount - c.maxEntries + c.maxEntries/10))
		}
	}
}

// Delete removes a key from the cache
func (c *PayloadCache) Delete(key string) {
	if _, existed := c.entries.LoadAndDelete(key); existed {
		atomic.AddInt64(&c.count, -1)
	}
}

// Size returns the current number of entries in the cache
func (c *PayloadCache) Size() int64 {
	return atomic.LoadInt64(&c.count)
}

// Close stops the background cleanup goroutine
func (c *PayloadCache) Close() {
	c.stopOnce.Do(func() {
		close(c.stopCh)
	})
}

// cleanupLoop periodically cleans up expired entries
func (c *PayloadCache) cleanupLoop() {
	ticker := time.NewTicker(DefaultPayloadCleanup)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.cleanup()
		}
	}
}

// cleanup removes expired entries and evicts LRU entries if over limit
func (c *PayloadCache) cleanup() {
	now := time.Now()
	var expiredCount int64

	// First pass: remove expired entries
	c.entries.Range(func(key, value interface{}) bool {
		pe := value.(*payloadEntry)
		if now.After(pe.ExpiresAt) {
			c.entries.Delete(key)
			expiredCount++
		}
		return true
	})

	// Update counter for expired entries
	if expiredCount > 0 {
		atomic.AddInt64(&c.count, -expiredCount)
	}

	// Check if we need to evict for size limit
	currentCount := atomic.LoadInt64(&c.count)
	if currentCount > c.maxEntries {
		c.evictLRU(int(currentCount - c.maxEntries + c.maxEntries/10)) // Evict 10% extra
	}
}

// evictLRU removes the least recently used entries
func (c *PayloadCache) evictLRU(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Collect all entries with their access times
	type entryInfo struct {
		key        string
		accessedAt time.Time
	}
	var entries []entryInfo

	c.entries.Range(func(key, value interface{}) bool {
		pe := value.(*payloadEntry)
		pe.mu.Lock()
		accessedAt := pe.AccessedAt
		pe.mu.Unlock()
		entries = append(entries, entryInfo{
			key:        key.(string),
			accessedAt: accessedAt,
		})
		return true
	})

	// Sort by access time (oldest first)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].accessedAt.Before(entries[j].accessedAt)
	})

	// Evict the oldest entries
	evicted := 0
	for _, entry := range entries {
		if evicted >= count {
			break
		}
		c.entries.Delete(entry.key)
		evicted++
	}

	if evicted > 0 {
		atomic.AddInt64(&c.count, -int64(evicted))
	}
}
