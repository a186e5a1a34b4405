package market

import (
	"sync"
	"time"
)

// ttlCache es un cache en memoria con TTL y desalojo por orden de inserción
// (no LRU): al superar el tope se descarta la entrada más antigua. Get con
// fresh=false sigue devolviendo el valor, que sirve como fallback cuando el
// upstream falla. Todo el estado vive en el proceso y se pierde al reiniciar.
type ttlCache struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	entries    map[string]cacheEntry
	order      []string
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

func newTTLCache(ttl time.Duration, maxEntries int) *ttlCache {
	return &ttlCache{
		ttl:        ttl,
		maxEntries: maxEntries,
		entries:    make(map[string]cacheEntry),
	}
}

// Get devuelve el valor y si sigue fresco (edad < TTL).
func (c *ttlCache) Get(key string, now time.Time) (value any, fresh, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	return entry.value, now.Sub(entry.storedAt) < c.ttl, true
}

// Set sobreescribe la entrada; una clave existente conserva su posición de
// inserción. Si el mapa supera el tope se elimina la entrada más vieja.
func (c *ttlCache) Set(key string, value any, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.entries[key]; !exists {
		c.order = append(c.order, key)
	}
	c.entries[key] = cacheEntry{value: value, storedAt: now}

	if c.maxEntries > 0 && len(c.entries) > c.maxEntries {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
}

// Len devuelve la cantidad de entradas vivas.
func (c *ttlCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
