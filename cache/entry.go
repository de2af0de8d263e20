package cache

import (
	"encoding/binary"
	"time"

	"github.com/pkg/errors"
)

// 没有原生过期能力的后端（boltdb/leveldb）在值前面写入 8 字节的过期时间（UnixNano，0 表示不过期）
const entryHeaderSize = 8

func encodeEntry(value []byte, expireAt time.Time) []byte {
	buf := make([]byte, entryHeaderSize+len(value))
	if !expireAt.IsZero() {
		binary.BigEndian.PutUint64(buf, uint64(expireAt.UnixNano()))
	}
	copy(buf[entryHeaderSize:], value)
	return buf
}

// decodeEntry 返回值和是否已过期
func decodeEntry(data []byte, now time.Time) ([]byte, bool, error) {
	if len(data) < entryHeaderSize {
		return nil, false, errors.Errorf("invalid entry, length %d", len(data))
	}
	expireAt := int64(binary.BigEndian.Uint64(data))
	if expireAt != 0 && now.UnixNano() >= expireAt {
		return nil, true, nil
	}
	return data[entryHeaderSize:], false, nil
}

func expireAt(now time.Time, ttl time.Duration) time.Time {
	if ttl <= 0 {
		return time.Time{}
	}
	return now.Add(ttl)
}
