package utils

import (
	"container/list"
	"sync"
	"time"
)

// entry lưu value + hạn sống, kèm con trỏ vào list LRU
type entry struct {
	key       string
	value     interface{}
	expiresAt time.Time
}

// TTLCache là cache in-process có TTL và giới hạn capacity (evict theo LRU).
// Không có API invalidate chủ động: dữ liệu catalog thay đổi chậm,
// hết TTL hoặc restart process là đủ.
type TTLCache struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List // front = mới dùng gần nhất
	capacity int
	ttl      time.Duration
}

// capacity: ví dụ 128, ttl: 24h cho catalog
func NewTTLCache(capacity int, ttl time.Duration) *TTLCache {
	c := &TTLCache{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		capacity: capacity,
		ttl:      ttl,
	}
	// chạy nền dọn entry hết hạn
	go c.cleanupExpired()
	return c
}

// Get trả về (value, true) nếu key còn sống; entry hết hạn coi như miss và bị xoá luôn.
func (c *TTLCache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	en := el.Value.(*entry)
	if time.Now().After(en.expiresAt) {
		c.order.Remove(el)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(el)
	return en.value, true
}

// Set ghi đè value cho key và reset TTL; đầy capacity thì evict entry cũ nhất.
func (c *TTLCache) Set(key string, value interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		en := el.Value.(*entry)
		en.value = value
		en.expiresAt = time.Now().Add(c.ttl)
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}

	el := c.order.PushFront(&entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	})
	c.items[key] = el
}

// Len trả về số entry hiện có (kể cả entry hết hạn chưa bị dọn)
func (c *TTLCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

func (c *TTLCache) cleanupExpired() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.mu.Lock()
		for key, el := range c.items {
			if time.Now().After(el.Value.(*entry).expiresAt) {
				c.order.Remove(el)
				delete(c.items, key)
			}
		}
		c.mu.Unlock()
	}
}
