package cache

import (
	"context"
	"sync"
	"time"
)

type MapStoreOptions struct {
	// DefaultTTL Set 未指定过期时间时使用，0 表示不过期
	DefaultTTL time.Duration `cfg:"defaultTTL"`
}

type mapEntry[V any] struct {
	value    V
	expireAt time.Time
}

// MapStore 进程内存储，过期的 key 在 Get 时惰性删除
type MapStore[K comparable, V any] struct {
	mu         sync.RWMutex
	data       map[K]mapEntry[V]
	defaultTTL time.Duration
	now        func() time.Time
}

func NewMapStoreWithOptions[K comparable, V any](options *MapStoreOptions) (*MapStore[K, V], error) {
	return &MapStore[K, V]{
		data:       make(map[K]mapEntry[V]),
		defaultTTL: options.DefaultTTL,
		now:        time.Now,
	}, nil
}

func (s *MapStore[K, V]) expired(entry mapEntry[V], now time.Time) bool {
	return !entry.expireAt.IsZero() && !now.Before(entry.expireAt)
}

func (s *MapStore[K, V]) Set(ctx context.Context, key K, value V, opts ...setOption) error {
	options := newSetOptions(opts)
	ttl := options.Expiration
	if ttl == 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if options.IfNotExist {
		if entry, ok := s.data[key]; ok && !s.expired(entry, now) {
			return ErrConditionFailed
		}
	}

	entry := mapEntry[V]{value: value}
	if ttl > 0 {
		entry.expireAt = now.Add(ttl)
	}
	s.data[key] = entry
	return nil
}

func (s *MapStore[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	s.mu.RLock()
	entry, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return zero, ErrKeyNotFound
	}

	if s.expired(entry, s.now()) {
		s.mu.Lock()
		if cur, ok := s.data[key]; ok && s.expired(cur, s.now()) {
			delete(s.data, key)
		}
		s.mu.Unlock()
		return zero, ErrKeyNotFound
	}
	return entry.value, nil
}

func (s *MapStore[K, V]) Del(ctx context.Context, key K) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MapStore[K, V]) Close() error {
	return nil
}
