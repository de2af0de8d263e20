package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
)

type BoltDBStoreOptions struct {
	DBPath     string        `cfg:"dbPath" validate:"required"`
	BucketName string        `cfg:"bucketName" def:"default"`
	Timeout    time.Duration `cfg:"timeout" def:"1s"`
	NoSync     bool          `cfg:"noSync"`
	DefaultTTL time.Duration `cfg:"defaultTTL"`

	KeySerializer *ref.TypeOptions `cfg:"keySerializer"`
	ValSerializer *ref.TypeOptions `cfg:"valSerializer"`
}

// BoltDBStore 基于 bbolt 的本地持久化存储，过期时间写在值的头部
type BoltDBStore[K, V any] struct {
	db            *bolt.DB
	bucketName    []byte
	keySerializer Serializer[K]
	valSerializer Serializer[V]
	defaultTTL    time.Duration
	now           func() time.Time
}

func NewBoltDBStoreWithOptions[K, V any](options *BoltDBStoreOptions) (*BoltDBStore[K, V], error) {
	if options.DBPath == "" {
		return nil, errors.New("DBPath is required")
	}

	keySerializer, valSerializer, err := newSerializers[K, V](options.KeySerializer, options.ValSerializer)
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(options.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "create directory %s failed", dir)
		}
	}

	timeout := options.Timeout
	if timeout == 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(options.DBPath, 0600, &bolt.Options{
		Timeout: timeout,
		NoSync:  options.NoSync,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "bolt.Open %s failed", options.DBPath)
	}

	bucketName := options.BucketName
	if bucketName == "" {
		bucketName = "default"
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "create bucket failed")
	}

	return &BoltDBStore[K, V]{
		db:            db,
		bucketName:    []byte(bucketName),
		keySerializer: keySerializer,
		valSerializer: valSerializer,
		defaultTTL:    options.DefaultTTL,
		now:           time.Now,
	}, nil
}

func (s *BoltDBStore[K, V]) Set(ctx context.Context, key K, value V, opts ...setOption) error {
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

	now := s.now()
	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucketName)
		if bucket == nil {
			return errors.New("bucket not found")
		}

		if options.IfNotExist {
			if existing := bucket.Get(keyBytes); existing != nil {
				if _, expired, err := decodeEntry(existing, now); err != nil || !expired {
					return ErrConditionFailed
				}
			}
		}

		return bucket.Put(keyBytes, encodeEntry(valueBytes, expireAt(now, ttl)))
	})
}

func (s *BoltDBStore[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return zero, errors.Wrap(err, "marshal key failed")
	}

	var valueBytes []byte
	err = s.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucketName)
		if bucket == nil {
			return errors.New("bucket not found")
		}

		data := bucket.Get(keyBytes)
		if data == nil {
			return ErrKeyNotFound
		}
		payload, expired, err := decodeEntry(data, s.now())
		if err != nil {
			return err
		}
		if expired {
			return ErrKeyNotFound
		}

		// bolt 的内存只在事务内有效
		valueBytes = make([]byte, len(payload))
		copy(valueBytes, payload)
		return nil
	})
	if err != nil {
		return zero, err
	}

	value, err := s.valSerializer.Deserialize(valueBytes)
	if err != nil {
		return zero, errors.Wrap(err, "unmarshal value failed")
	}
	return value, nil
}

func (s *BoltDBStore[K, V]) Del(ctx context.Context, key K) error {
	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return errors.Wrap(err, "marshal key failed")
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket(s.bucketName)
		if bucket == nil {
			return errors.New("bucket not found")
		}
		return bucket.Delete(keyBytes)
	})
}

func (s *BoltDBStore[K, V]) Close() error {
	return s.db.Close()
}
