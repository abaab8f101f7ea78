package network

import (
	"container/list"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// defaultFreshness applies to responses that carry no expiry of their own.
const defaultFreshness = 5 * time.Minute

// Cache is an LRU cache of HTTP responses keyed by normalized URL. Entries
// expire as their Cache-Control or Expires headers say. It is safe for
// concurrent use.
type Cache struct {
	mu      sync.Mutex
	maxSize int
	items   map[string]*list.Element
	lru     *list.List
	now     func() time.Time
}

type cacheEntry struct {
	key     string
	resp    *Response
	expires time.Time
}

// NewCache creates a cache holding at most maxSize responses. A size of zero
// or less selects 100.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		maxSize = 100
	}
	return &Cache{
		maxSize: maxSize,
		items:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get returns the fresh response stored for key. Stale entries are dropped.
func (c *Cache) Get(key string) (*Response, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if !c.now().Before(entry.expires) {
		c.remove(elem)
		return nil, false
	}
	c.lru.MoveToFront(elem)
	return entry.resp, true
}

// Put stores resp under key unless its headers forbid storing it.
func (c *Cache) Put(key string, resp *Response) {
	now := c.now()
	ttl, ok := freshness(resp.Headers, now)
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, exists := c.items[key]; exists {
		c.lru.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		entry.resp, entry.expires = resp, now.Add(ttl)
		return
	}
	if c.lru.Len() >= c.maxSize {
		c.remove(c.lru.Back())
	}
	c.items[key] = c.lru.PushFront(&cacheEntry{key: key, resp: resp, expires: now.Add(ttl)})
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the number of stored entries, stale ones included.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// remove must be called with c.mu held.
func (c *Cache) remove(elem *list.Element) {
	if elem == nil {
		return
	}
	c.lru.Remove(elem)
	delete(c.items, elem.Value.(*cacheEntry).key)
}

// freshness reports how long a response may be served from the cache, and
// false when it must not be stored at all. max-age wins over Expires.
func freshness(h http.Header, now time.Time) (time.Duration, bool) {
	var maxAge time.Duration
	hasMaxAge := false
	for _, d := range strings.Split(h.Get("Cache-Control"), ",") {
		d = strings.ToLower(strings.TrimSpace(d))
		switch {
		case d == "no-store" || d == "no-cache":
			return 0, false
		case strings.HasPrefix(d, "max-age="):
			if seconds, err := strconv.Atoi(d[len("max-age="):]); err == nil && seconds >= 0 {
				maxAge, hasMaxAge = time.Duration(seconds)*time.Second, true
			}
		}
	}
	if hasMaxAge {
		return maxAge, maxAge > 0
	}
	if expires := h.Get("Expires"); expires != "" {
		t, err := http.ParseTime(expires)
		if err != nil || !t.After(now) {
			return 0, false
		}
		return t.Sub(now), true
	}
	return defaultFreshness, true
}
