package cache

import (
	"context"
	"time"

	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type RedisStoreOptions struct {
	// Endpoint 单机地址，和 Endpoints 二选一
	Endpoint string `cfg:"endpoint"`
	// Endpoints 集群地址
	Endpoints []string `cfg:"endpoints"`

	Username string `cfg:"username"`
	Password string `cfg:"password"`
	DB       int    `cfg:"db"`

	// KeyPrefix 拼接在序列化后的 key 前面，多个表共用一个 redis 时区分
	KeyPrefix  string        `cfg:"keyPrefix"`
	DefaultTTL time.Duration `cfg:"defaultTTL"`

	MaxRetries   int           `cfg:"maxRetries" def:"3"`
	DialTimeout  time.Duration `cfg:"dialTimeout" def:"5s"`
	ReadTimeout  time.Duration `cfg:"readTimeout" def:"3s"`
	WriteTimeout time.Duration `cfg:"writeTimeout" def:"3s"`
	PoolSize     int           `cfg:"poolSize" def:"100"`
	MinIdleConns int           `cfg:"minIdleConns"`

	KeySerializer *ref.TypeOptions `cfg:"keySerializer"`
	ValSerializer *ref.TypeOptions `cfg:"valSerializer"`
}

type RedisStore[K, V any] struct {
	client redis.UniversalClient

	keySerializer Serializer[K]
	valSerializer Serializer[V]
	keyPrefix     string
	defaultTTL    time.Duration
}

func NewRedisStoreWithOptions[K, V any](options *RedisStoreOptions) (*RedisStore[K, V], error) {
	keySerializer, valSerializer, err := newSerializers[K, V](options.KeySerializer, options.ValSerializer)
	if err != nil {
		return nil, err
	}

	var client redis.UniversalClient
	if options.Endpoint != "" {
		client = redis.NewClient(&redis.Options{
			Addr:         options.Endpoint,
			Username:     options.Username,
			Password:     options.Password,
			DB:           options.DB,
			MaxRetries:   options.MaxRetries,
			DialTimeout:  options.DialTimeout,
			ReadTimeout:  options.ReadTimeout,
			WriteTimeout: options.WriteTimeout,
			PoolSize:     options.PoolSize,
			MinIdleConns: options.MinIdleConns,
		})
	} else if len(options.Endpoints) > 0 {
		client = redis.NewClusterClient(&redis.ClusterOptions{
			Addrs:        options.Endpoints,
			Username:     options.Username,
			Password:     options.Password,
			MaxRetries:   options.MaxRetries,
			DialTimeout:  options.DialTimeout,
			ReadTimeout:  options.ReadTimeout,
			WriteTimeout: options.WriteTimeout,
			PoolSize:     options.PoolSize,
			MinIdleConns: options.MinIdleConns,
		})
	} else {
		return nil, errors.Errorf("Endpoint or Endpoints must be set")
	}

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, errors.WithMessage(err, "redis.client.Ping failed")
	}

	return &RedisStore[K, V]{
		client:        client,
		keySerializer: keySerializer,
		valSerializer: valSerializer,
		keyPrefix:     options.KeyPrefix,
		defaultTTL:    options.DefaultTTL,
	}, nil
}

func (s *RedisStore[K, V]) key(key K) (string, error) {
	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return "", errors.Wrap(err, "marshal key failed")
	}
	return s.keyPrefix + string(keyBytes), nil
}

func (s *RedisStore[K, V]) Set(ctx context.Context, key K, value V, opts ...setOption) error {
	options := newSetOptions(opts)
	ttl := options.Expiration
	if ttl == 0 {
		ttl = s.defaultTTL
	}

	k, err := s.key(key)
	if err != nil {
		return err
	}
	valueBytes, err := s.valSerializer.Serialize(value)
	if err != nil {
		return errors.Wrap(err, "marshal value failed")
	}

	if options.IfNotExist {
		ok, err := s.client.SetNX(ctx, k, valueBytes, ttl).Result()
		if err != nil {
			return errors.Wrap(err, "redis.SetNX failed")
		}
		if !ok {
			return ErrConditionFailed
		}
		return nil
	}

	if err := s.client.Set(ctx, k, valueBytes, ttl).Err(); err != nil {
		return errors.Wrap(err, "redis.Set failed")
	}
	return nil
}

func (s *RedisStore[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	k, err := s.key(key)
	if err != nil {
		return zero, err
	}

	valueBytes, err := s.client.Get(ctx, k).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrKeyNotFound
		}
		return zero, errors.Wrap(err, "redis.Get failed")
	}

	value, err := s.valSerializer.Deserialize(valueBytes)
	if err != nil {
		return zero, errors.Wrap(err, "unmarshal value failed")
	}
	return value, nil
}

func (s *RedisStore[K, V]) Del(ctx context.Context, key K) error {
	k, err := s.key(key)
	if err != nil {
		return err
	}
	if err := s.client.Del(ctx, k).Err(); err != nil {
		return errors.Wrap(err, "redis.Del failed")
	}
	return nil
}

func (s *RedisStore[K, V]) Close() error {
	return s.client.Close()
}
