package cache

import (
	"context"
	"time"

	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

type LevelDBStoreOptions struct {
	DBPath string `cfg:"dbPath" validate:"required"`

	BlockCacheCapacity int           `cfg:"blockCacheCapacity"`
	WriteBuffer        int           `cfg:"writeBuffer"`
	Sync               bool          `cfg:"sync"`
	DefaultTTL         time.Duration `cfg:"defaultTTL"`

	KeySerializer *ref.TypeOptions `cfg:"keySerializer"`
	ValSerializer *ref.TypeOptions `cfg:"valSerializer"`
}

// LevelDBStore 基于 goleveldb 的本地持久化存储
type LevelDBStore[K, V any] struct {
	db            *leveldb.DB
	keySerializer Serializer[K]
	valSerializer Serializer[V]
	writeOptions  *opt.WriteOptions
	defaultTTL    time.Duration
	now           func() time.Time
}

func NewLevelDBStoreWithOptions[K, V any](options *LevelDBStoreOptions) (*LevelDBStore[K, V], error) {
	if options.DBPath == "" {
		return nil, errors.New("DBPath is required")
	}

	keySerializer, valSerializer, err := newSerializers[K, V](options.KeySerializer, options.ValSerializer)
	if err != nil {
		return nil, err
	}

	db, err := leveldb.OpenFile(options.DBPath, &opt.Options{
		BlockCacheCapacity: options.BlockCacheCapacity,
		WriteBuffer:        options.WriteBuffer,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "leveldb.OpenFile %s failed", options.DBPath)
	}

	return &LevelDBStore[K, V]{
		db:            db,
		keySerializer: keySerializer,
		valSerializer: valSerializer,
		writeOptions:  &opt.WriteOptions{Sync: options.Sync},
		defaultTTL:    options.DefaultTTL,
		now:           time.Now,
	}, nil
}

func (s *LevelDBStore[K, V]) Set(ctx context.Context, key K, value V, opts ...setOption) error {
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
	if options.IfNotExist {
		// leveldb 没有条件写入，用事务保证检查和写入的原子性
		tx, err := s.db.OpenTransaction()
		if err != nil {
			return errors.Wrap(err, "leveldb.OpenTransaction failed")
		}
		existing, err := tx.Get(keyBytes, nil)
		if err == nil {
			if _, expired, derr := decodeEntry(existing, now); derr != nil || !expired {
				tx.Discard()
				return ErrConditionFailed
			}
		} else if !errors.Is(err, leveldb.ErrNotFound) {
			tx.Discard()
			return errors.Wrap(err, "leveldb.Get failed")
		}
		if err := tx.Put(keyBytes, encodeEntry(valueBytes, expireAt(now, ttl)), s.writeOptions); err != nil {
			tx.Discard()
			return errors.Wrap(err, "leveldb.Put failed")
		}
		return errors.Wrap(tx.Commit(), "leveldb.Commit failed")
	}

	if err := s.db.Put(keyBytes, encodeEntry(valueBytes, expireAt(now, ttl)), s.writeOptions); err != nil {
		return errors.Wrap(err, "leveldb.Put failed")
	}
	return nil
}

func (s *LevelDBStore[K, V]) Get(ctx context.Context, key K) (V, error) {
	var zero V

	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return zero, errors.Wrap(err, "marshal key failed")
	}

	data, err := s.db.Get(keyBytes, nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return zero, ErrKeyNotFound
		}
		return zero, errors.Wrap(err, "leveldb.Get failed")
	}

	payload, expired, err := decodeEntry(data, s.now())
	if err != nil {
		return zero, err
	}
	if expired {
		_ = s.db.Delete(keyBytes, s.writeOptions)
		return zero, ErrKeyNotFound
	}

	value, err := s.valSerializer.Deserialize(payload)
	if err != nil {
		return zero, errors.Wrap(err, "unmarshal value failed")
	}
	return value, nil
}

func (s *LevelDBStore[K, V]) Del(ctx context.Context, key K) error {
	keyBytes, err := s.keySerializer.Serialize(key)
	if err != nil {
		return errors.Wrap(err, "marshal key failed")
	}
	if err := s.db.Delete(keyBytes, s.writeOptions); err != nil {
		return errors.Wrap(err, "leveldb.Delete failed")
	}
	return nil
}

func (s *LevelDBStore[K, V]) Close() error {
	return s.db.Close()
}
