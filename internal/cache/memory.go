package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process LRU Store with per-entry expiry
type MemoryStore struct {
	mu       sync.Mutex
	maxSize  int
	items    map[string]*list.Element
	lru      *list.List
	versions map[string]int64
	now      func() time.Time
}

type memoryItem struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates a store holding at most maxSize entries
func NewMemoryStore(maxSize int) *MemoryStore {
	return &MemoryStore{
		maxSize:  maxSize,
		items:    make(map[string]*list.Element),
		lru:      list.New(),
		versions: make(map[string]int64),
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, ok := m.items[key]
	if !ok {
		return nil, ErrMiss
	}

	item := elem.Value.(*memoryItem)
	if m.now().After(item.expiresAt) {
		m.removeElement(elem)
		return nil, ErrMiss
	}

	m.lru.MoveToFront(elem)
	return item.value, nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := &memoryItem{
		key:       key,
		value:     append([]byte(nil), value...),
		expiresAt: m.now().Add(ttl),
	}

	if elem, ok := m.items[key]; ok {
		elem.Value = item
		m.lru.MoveToFront(elem)
		return nil
	}

	m.items[key] = m.lru.PushFront(item)
	if m.lru.Len() > m.maxSize {
		m.removeElement(m.lru.Back())
	}
	return nil
}

func (m *MemoryStore) Version(_ context.Context, scope string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[scope], nil
}

func (m *MemoryStore) Bump(_ context.Context, scope string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.versions[scope]++
	return m.versions[scope], nil
}

// CleanExpired removes all expired entries and returns how many were removed
func (m *MemoryStore) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var expired []*list.Element
	for elem := m.lru.Front(); elem != nil; elem = elem.Next() {
		if now.After(elem.Value.(*memoryItem).expiresAt) {
			expired = append(expired, elem)
		}
	}
	for _, elem := range expired {
		m.removeElement(elem)
	}
	return len(expired)
}

// StartCleanup evicts expired entries every interval until ctx is done
func (m *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				m.CleanExpired()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Len returns the number of entries, expired or not
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *MemoryStore) Close() error {
	return nil
}

func (m *MemoryStore) removeElement(elem *list.Element) {
	delete(m.items, elem.Value.(*memoryItem).key)
	m.lru.Remove(elem)
}
