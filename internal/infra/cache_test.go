package infra

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestNewPayloadCache(t *testing.T) {
	cache := NewPayloadCache(100)
	defer cache.Close()

	if cache == nil {
		t.Fatal("NewPayloadCache returned nil")
	}
	if cache.maxEntries != 100 {
		t.Errorf("Expected maxEntries 100, got %d", cache.maxEntries)
	}
}

func TestNewPayloadCache_DefaultMaxEntries(t *testing.T) {
	tests := []struct {
		name       string
		maxEntries int
	}{
		{"zero entries", 0},
		{"negative entries", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := NewPayloadCache(tt.maxEntries)
			defer cache.Close()

			if cache.maxEntries != DefaultMaxPayloads {
				t.Errorf("Expected default maxEntries %d, got %d", DefaultMaxPayloads, cache.maxEntries)
			}
		})
	}
}

func TestPayloadCache_SetAndGet(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	cache.Set("links:Waffle", `{"query":{}}`, time.Minute)

	raw, found := cache.Get("links:Waffle")
	if !found {
		t.Fatal("Expected to find cached payload")
	}
	if raw != `{"query":{}}` {
		t.Errorf("Expected cached payload, got %q", raw)
	}
}

func TestPayloadCache_Get_NotFound(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	raw, found := cache.Get("links:Missing")
	if found {
		t.Error("Expected cache miss for unknown key")
	}
	if raw != "" {
		t.Errorf("Expected empty payload on miss, got %q", raw)
	}
}

func TestPayloadCache_Get_Expired(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	cache.Set("links:Waffle", "{}", time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	if _, found := cache.Get("links:Waffle"); found {
		t.Error("Expected expired entry to be a miss")
	}
	if cache.Size() != 0 {
		t.Errorf("Expected expired entry to be deleted, size %d", cache.Size())
	}
}

func TestPayloadCache_Set_Update(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	cache.Set("links:Waffle", "old", time.Minute)
	cache.Set("links:Waffle", "new", time.Minute)

	raw, found := cache.Get("links:Waffle")
	if !found || raw != "new" {
		t.Errorf("Expected updated payload 'new', got %q (found=%v)", raw, found)
	}
	if cache.Size() != 1 {
		t.Errorf("Expected size 1 after update, got %d", cache.Size())
	}
}

func TestPayloadCache_Delete(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	cache.Set("links:Waffle", "{}", time.Minute)
	cache.Delete("links:Waffle")

	if _, found := cache.Get("links:Waffle"); found {
		t.Error("Expected deleted entry to be a miss")
	}
	if cache.Size() != 0 {
		t.Errorf("Expected size 0 after delete, got %d", cache.Size())
	}
}

func TestPayloadCache_Delete_NonExistent(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	// Should not panic or corrupt the counter
	cache.Delete("links:Missing")

	if cache.Size() != 0 {
		t.Errorf("Expected size 0, got %d", cache.Size())
	}
}

func TestPayloadCache_Size(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("links:Page%d", i), "{}", time.Minute)
	}

	if cache.Size() != 5 {
		t.Errorf("Expected size 5, got %d", cache.Size())
	}
}

func TestPayloadCache_LRUEviction(t *testing.T) {
	cache := NewPayloadCache(5)
	defer cache.Close()

	for i := 0; i < 5; i++ {
		cache.Set(fmt.Sprintf("links:Page%d", i), "{}", time.Minute)
		time.Sleep(time.Millisecond)
	}

	// Touch the oldest entry so it becomes the most recently used
	cache.Get("links:Page0")

	cache.evictLRU(2)

	if _, found := cache.Get("links:Page0"); !found {
		t.Error("Expected recently accessed entry to survive eviction")
	}
	if _, found := cache.Get("links:Page1"); found {
		t.Error("Expected least recently used entry to be evicted")
	}
	if cache.Size() != 3 {
		t.Errorf("Expected size 3 after evicting 2, got %d", cache.Size())
	}
}

func TestPayloadCache_Cleanup(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	cache.Set("links:Stale", "{}", time.Millisecond)
	cache.Set("links:Fresh", "{}", time.Minute)
	time.Sleep(5 * time.Millisecond)

	cache.cleanup()

	if _, found := cache.Get("links:Fresh"); !found {
		t.Error("Expected unexpired entry to survive cleanup")
	}
	if cache.Size() != 1 {
		t.Errorf("Expected size 1 after cleanup, got %d", cache.Size())
	}
}

func TestPayloadCache_Close(t *testing.T) {
	cache := NewPayloadCache(10)

	// Should be safe to call multiple times
	cache.Close()
	cache.Close()
}

func TestPayloadCache_ConcurrencySafety(t *testing.T) {
	cache := NewPayloadCache(100)
	defer cache.Close()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("links:Page%d", (n+j)%20)
				cache.Set(key, "{}", time.Minute)
				cache.Get(key)
				if j%10 == 0 {
					cache.Delete(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if cache.Size() < 0 {
		t.Errorf("Cache size went negative: %d", cache.Size())
	}
}

func TestPayloadCache_TTLRenewal(t *testing.T) {
	cache := NewPayloadCache(10)
	defer cache.Close()

	cache.Set("links:Waffle", "{}", 10*time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	// Re-setting renews the TTL
	cache.Set("links:Waffle", "{}", time.Minute)
	time.Sleep(10 * time.Millisecond)

	if _, found := cache.Get("links:Waffle"); !found {
		t.Error("Expected renewed entry to still be cached")
	}
}
