package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/yungbote/materials-advisor/internal/platform/logger"
)

type memoryItem struct {
	raw     []byte
	expires time.Time
}

// MemoryStore is a process-local Store. Entries are stored encoded so callers
// never share state with the store.
type MemoryStore struct {
	log *logger.Logger
	ttl time.Duration
	now func() time.Time

	mu    sync.Mutex
	items map[string]memoryItem
}

func NewMemoryStore(log *logger.Logger, ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		log:   log.With("service", "MemorySessionStore"),
		ttl:   ttl,
		now:   time.Now,
		items: map[string]memoryItem{},
	}
}

func (m *MemoryStore) Put(ctx context.Context, a *Analysis) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.items[a.ID] = memoryItem{raw: raw, expires: m.now().Add(m.ttl)}
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Analysis, error) {
	m.mu.Lock()
	it, ok := m.items[id]
	if ok && !m.now().Before(it.expires) {
		delete(m.items, id)
		ok = false
	}
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotFound
	}
	var a Analysis
	if err := json.Unmarshal(it.raw, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Purge drops expired entries and returns how many were removed.
func (m *MemoryStore) Purge() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, it := range m.items {
		if !now.Before(it.expires) {
			delete(m.items, id)
			n++
		}
	}
	return n
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// RunJanitor purges expired entries every interval until ctx is done.
func (m *MemoryStore) RunJanitor(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := m.Purge(); n > 0 {
				m.log.Debug("purged expired analyses", "count", n)
			}
		}
	}
}

func (m *MemoryStore) Close() error { return nil }
