package cache

import (
	"container/list"
	"sync"

	"github.com/davronov/qrdesk/internal/models"
)

// LRUCache keeps the hottest QR records in process memory so scan
// resolution skips both Redis and Postgres for them.
type LRUCache struct {
	capacity int
	cache    map[string]*list.Element
	lruList  *list.List
	mu       sync.RWMutex
}

type entry struct {
	id string
	qr *models.QRCode
}

func NewLRUCache(capacity int) *LRUCache {
	return &LRUCache{
		capacity: capacity,
		cache:    make(map[string]*list.Element),
		lruList:  list.New(),
	}
}

func (c *LRUCache) Get(id string) (*models.QRCode, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.cache[id]; found {
		c.lruList.MoveToFront(elem)
		return elem.Value.(*entry).qr, true
	}
	return nil, false
}

func (c *LRUCache) Set(id string, qr *models.QRCode) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.cache[id]; found {
		c.lruList.MoveToFront(elem)
		elem.Value.(*entry).qr = qr
		return
	}

	elem := c.lruList.PushFront(&entry{id, qr})
	c.cache[id] = elem

	if c.lruList.Len() > c.capacity {
		c.evict()
	}
}

func (c *LRUCache) Delete(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, found := c.cache[id]; found {
		c.lruList.Remove(elem)
		delete(c.cache, id)
	}
}

// evict drops the least recently scanned record.
func (c *LRUCache) evict() {
	elem := c.lruList.Back()
	if elem != nil {
		c.lruList.Remove(elem)
		delete(c.cache, elem.Value.(*entry).id)
	}
}

func (c *LRUCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lruList.Len()
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = make(map[string]*list.Element)
	c.lruList = list.New()
}
