package cache

import (
	"context"
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/tablex/cache"

var (
	ErrKeyNotFound     = errors.New("key not found")
	ErrConditionFailed = errors.New("condition failed")
)

type setOptions struct {
	Expiration time.Duration
	IfNotExist bool
}

type setOption func(*setOptions)

// WithExpiration 设置过期时间，0 表示使用存储的默认过期时间
func WithExpiration(expiration time.Duration) setOption {
	return func(o *setOptions) {
		o.Expiration = expiration
	}
}

// WithIfNotExist key 已存在时返回 ErrConditionFailed
func WithIfNotExist() setOption {
	return func(o *setOptions) {
		o.IfNotExist = true
	}
}

func newSetOptions(opts []setOption) *setOptions {
	options := &setOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// Store 键值存储，实现需要保证并发安全
type Store[K, V any] interface {
	Set(ctx context.Context, key K, value V, opts ...setOption) error
	// Get key 不存在或已过期时返回 ErrKeyNotFound
	Get(ctx context.Context, key K) (V, error)
	Del(ctx context.Context, key K) error
	Close() error
}

var registered sync.Map

// 泛型构造函数按 K,V 实例化后注册到独立的 namespace 下，配置中只需要写 type
func instanceNamespace[K, V any]() string {
	return fmt.Sprintf("%s[%s,%s]", Namespace, typeName[K](), typeName[V]())
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func registerStores[K comparable, V any](namespace string) {
	if _, loaded := registered.LoadOrStore(namespace, struct{}{}); loaded {
		return
	}
	ref.MustRegister(namespace, "MapStore", NewMapStoreWithOptions[K, V])
	ref.MustRegister(namespace, "FreeCacheStore", NewFreeCacheStoreWithOptions[K, V])
	ref.MustRegister(namespace, "RedisStore", NewRedisStoreWithOptions[K, V])
	ref.MustRegister(namespace, "BoltDBStore", NewBoltDBStoreWithOptions[K, V])
	ref.MustRegister(namespace, "LevelDBStore", NewLevelDBStoreWithOptions[K, V])
}

// NewStoreWithOptions 根据 TypeOptions 创建存储
// Namespace 为空时使用本包内置的存储，Type 为空时使用 MapStore
func NewStoreWithOptions[K comparable, V any](options *ref.TypeOptions) (Store[K, V], error) {
	namespace := instanceNamespace[K, V]()
	registerStores[K, V](namespace)

	type_ := "MapStore"
	var opts any
	if options != nil {
		if options.Namespace != "" && options.Namespace != Namespace {
			namespace = options.Namespace
		}
		if options.Type != "" {
			type_ = options.Type
		}
		opts = options.Options
	}

	obj, err := ref.New(namespace, type_, opts)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	store, ok := obj.(Store[K, V])
	if !ok {
		return nil, errors.Errorf("%s:%s does not implement Store interface", namespace, type_)
	}
	return store, nil
}
