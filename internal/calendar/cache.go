package calendar

import "sync"

// IDCache is the in-process branch-name to calendar-id cache. It is injected
// into the Registry rather than held as package state so each test run (and
// each process) starts cold; durable storage stays authoritative.
type IDCache struct {
	mu  sync.RWMutex
	ids map[string]string
}

func NewIDCache() *IDCache {
	return &IDCache{ids: make(map[string]string)}
}

func (c *IDCache) Get(sanitizedName string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	id, ok := c.ids[sanitizedName]
	return id, ok
}

func (c *IDCache) Put(sanitizedName, calendarID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ids[sanitizedName] = calendarID
}

func (c *IDCache) Invalidate(sanitizedName string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.ids, sanitizedName)
}
