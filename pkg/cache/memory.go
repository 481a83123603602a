package cache

import (
	"context"
	"sync"
	"time"
)

// item represents a cached item with expiration
type item struct {
	value      string
	expiration int64
}

// expired checks if the cache item has expired
func (it item) expired() bool {
	if it.expiration == 0 {
		return false
	}
	return time.Now().UnixNano() > it.expiration
}

// Memory is a thread-safe in-memory cache with expiration
type Memory struct {
	items           map[string]item
	mu              sync.RWMutex
	cleanupInterval time.Duration
	maxItems        int
}

// MemoryOptions configures the in-memory cache
type MemoryOptions struct {
	CleanupInterval time.Duration
	MaxItems        int
}

// NewMemory creates a new in-memory cache
func NewMemory(opts MemoryOptions) *Memory {
	if opts.CleanupInterval == 0 {
		opts.CleanupInterval = 10 * time.Minute
	}
	if opts.MaxItems == 0 {
		opts.MaxItems = 1000
	}

	c := &Memory{
		items:           make(map[string]item),
		cleanupInterval: opts.CleanupInterval,
		maxItems:        opts.MaxItems,
	}

	go c.startCleanupTimer()

	return c
}

// Get retrieves a value by key
func (c *Memory) Get(_ context.Context, key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	it, found := c.items[key]
	if !found || it.expired() {
		return "", false
	}
	return it.value, true
}

// Set stores a value with the given TTL
func (c *Memory) Set(_ context.Context, key, value string, ttl time.Duration) {
	var expiration int64
	if ttl > 0 {
		expiration = time.Now().Add(ttl).UnixNano()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Evict expired entries before refusing new ones
	if len(c.items) >= c.maxItems {
		for k, it := range c.items {
			if it.expired() {
				delete(c.items, k)
			}
		}
		if len(c.items) >= c.maxItems {
			return
		}
	}

	c.items[key] = item{value: value, expiration: expiration}
}

// Delete removes a key
func (c *Memory) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
}

func (c *Memory) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for k, it := range c.items {
			if it.expired() {
				delete(c.items, k)
			}
		}
		c.mu.Unlock()
	}
}
