package navigator

import "sync"

// Cache holds nodes already resolved for one session.
// It is safe for concurrent use.
type Cache struct {
	mu    sync.RWMutex
	nodes map[string]Node
}

// NewCache creates an empty node cache.
func NewCache() *Cache {
	return &Cache{nodes: make(map[string]Node)}
}

// Get returns the node cached under id.
func (c *Cache) Get(id string) (Node, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n, ok := c.nodes[id]
	return n, ok
}

// Put caches n under its canonical id and any extra lookup ids.
func (c *Cache) Put(n Node, lookupIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes[n.ID()] = n
	for _, id := range lookupIDs {
		c.nodes[id] = n
	}
}

// Len returns the number of cached ids.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.nodes)
}

// Clear drops every cached node.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.nodes)
}
