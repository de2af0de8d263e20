package source

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hatlonely/tablex/cache"
	"github.com/hatlonely/tablex/log"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
)

type CachedSourceOptions struct {
	Source *ref.TypeOptions `cfg:"source" validate:"required"`
	// Cache 为空时使用进程内 MapStore
	Cache  *ref.TypeOptions `cfg:"cache"`
	TTL    time.Duration    `cfg:"ttl" def:"1m"`
	Logger *ref.TypeOptions `cfg:"logger"`
}

// CachedSource 以 ListOptions 的摘要为 key 缓存数据源的结果
// 缓存读写失败时退化为直接读取数据源
type CachedSource[T any] struct {
	source Source[T]
	store  cache.Store[string, []T]
	ttl    time.Duration
	logger logger.Logger
}

func NewCachedSourceWithOptions[T any](options *CachedSourceOptions) (*CachedSource[T], error) {
	if options.Source == nil {
		return nil, errors.New("source is required")
	}

	src, err := NewSourceWithOptions[T](options.Source)
	if err != nil {
		return nil, errors.WithMessage(err, "create underlying source failed")
	}
	store, err := cache.NewStoreWithOptions[string, []T](options.Cache)
	if err != nil {
		_ = src.Close()
		return nil, errors.WithMessage(err, "create cache store failed")
	}
	l, err := log.NewLoggerWithOptions(options.Logger)
	if err != nil {
		_ = src.Close()
		_ = store.Close()
		return nil, errors.WithMessage(err, "create logger failed")
	}

	ttl := options.TTL
	if ttl == 0 {
		ttl = time.Minute
	}
	return NewCachedSource(src, store, ttl, l), nil
}

func NewCachedSource[T any](src Source[T], store cache.Store[string, []T], ttl time.Duration, l logger.Logger) *CachedSource[T] {
	if l == nil {
		l = log.Default()
	}
	return &CachedSource[T]{
		source: src,
		store:  store,
		ttl:    ttl,
		logger: l.WithGroup("cachedSource"),
	}
}

// CacheKey 相同的过滤、排序和分页条件得到相同的 key
func CacheKey(options *ListOptions) (string, error) {
	key := struct {
		Query     map[string]any `json:"query,omitempty"`
		OrderBy   string         `json:"orderBy,omitempty"`
		OrderDesc bool           `json:"orderDesc,omitempty"`
		Limit     int            `json:"limit,omitempty"`
		Offset    int            `json:"offset,omitempty"`
	}{}
	if options != nil {
		if options.Query != nil {
			key.Query = options.Query.ToES()
		}
		key.OrderBy = options.OrderBy
		key.OrderDesc = options.OrderDesc
		key.Limit = options.Limit
		key.Offset = options.Offset
	}

	buf, err := json.Marshal(key)
	if err != nil {
		return "", errors.Wrap(err, "marshal cache key failed")
	}
	sum := sha1.Sum(buf)
	return hex.EncodeToString(sum[:]), nil
}

func (s *CachedSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	key, err := CacheKey(options)
	if err != nil {
		return nil, err
	}

	rows, err := s.store.Get(ctx, key)
	if err == nil {
		return rows, nil
	}
	if !errors.Is(err, cache.ErrKeyNotFound) {
		s.logger.WarnContext(ctx, "cache get failed", "key", key, "error", err)
	}

	rows, err = s.source.List(ctx, options)
	if err != nil {
		return nil, err
	}
	if err := s.store.Set(ctx, key, rows, cache.WithExpiration(s.ttl)); err != nil {
		s.logger.WarnContext(ctx, "cache set failed", "key", key, "error", err)
	}
	return rows, nil
}

// Invalidate 删除 options 对应的缓存
func (s *CachedSource[T]) Invalidate(ctx context.Context, options *ListOptions) error {
	key, err := CacheKey(options)
	if err != nil {
		return err
	}
	return s.store.Del(ctx, key)
}

func (s *CachedSource[T]) Close() error {
	var errs []error
	if err := s.source.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.store.Close(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return errors.Errorf("close cached source failed: %v", errs)
	}
	return nil
}
