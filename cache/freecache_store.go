package cache

import (
	"context"
	"time"

	"github.com/coocood/freecache"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
)

type FreeCacheStoreOptions struct {
	// Size 缓存大小（字节），freecache 最小 512KB
	Size       int           `cfg:"size" def:"67108864"`
	DefaultTTL time.Duration `cfg:"defaultTTL"`

	KeySerializer *ref.TypeOptions `cfg:"keySerializer"`
	ValSerializer *ref.TypeOptions `cfg:"valSerializer"`
}

// FreeCacheStore 基于 freecache 的进程内存储，值序列化后存放，不受 GC 扫描影响
type FreeCacheStore[K, V any] struct {
	cache         *freecache.Cache
	keySerializer Serializer[K]
	valSerializer Serializer[V]
	defaultTTL    time.Duration
}

func NewFreeCacheStoreWithOptions[K, V any](options *FreeCacheStoreOptions) (*FreeCacheStore[K, V], error) {
	keySerializer, valSerializer, err := newSerializers[K, V](options.KeySerializer, options.ValSerializer)
	if err != nil {
		return nil, err
	}

	size := options.Size
	if size <= 0 {
		size = 64 * 1024 * 1024
	}

	return &FreeCacheStore[K, V]{
		cache:         freecache.NewCache(size),
		keySerializer: keySerializer,
		valSerializer: valSerializer,
		defaultTTL:    options.DefaultTTL,
	}, nil
}

// freecache 过期时间精度为秒，不足一秒按一秒处理
func expireSeconds(ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}
	seconds := int(ttl / time.Second)
	if ttl%time.Second != 0 {
		seconds++
	}
	return seconds
}

func (s *FreeCacheStore[K, V]) Set(ctx context.Context, key K, value V, opts ...setOption) error {
	options := newSetOptions(opts)
	ttl := options.Expiration
	if ttl == 0 {
		ttl = s.defaultTTL
	}

	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return errors.Wrap(err, "marshal key failed")
	}
	valueBytes, err := s.valSerializer.Serialize(value)
	if err != nil {
		return errors.Wrap(err, "marshal value failed")
	}

	if options.IfNotExist {
		existing, err := s.cache.GetOrSet(keyBytes, valueBytes, expireSeconds(ttl))
		if err != nil {
			return errors.Wrap(err, "freecache.GetOrSet failed")
		}
		if existing != nil {
			return ErrConditionFailed
		}
		return nil
	}

	if err := s.cache.Set(keyBytes, valueBytes, expireSeconds(ttl)); err != nil {
		return errors.Wrap(err, "freecache.Set failed")
	}
	return nil
}

func (s *FreeCacheStore[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return zero, errors.Wrap(err, "marshal key failed")
	}

	valueBytes, err := s.cache.Get(keyBytes)
	if err != nil {
		if errors.Is(err, freecache.ErrNotFound) {
			return zero, ErrKeyNotFound
		}
		return zero, errors.Wrap(err, "freecache.Get failed")
	}

	value, err := s.valSerializer.Deserialize(valueBytes)
	if err != nil {
		return zero, errors.Wrap(err, "unmarshal value failed")
	}
	return value, nil
}

func (s *FreeCacheStore[K, V]) Del(ctx context.Context, key K) error {
	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return errors.Wrap(err, "marshal key failed")
	}
	s.cache.Del(keyBytes)
	return nil
}

func (s *FreeCacheStore[K, V]) Close() error {
	s.cache.Clear()
	return nil
}
