package decoder

import (
	"github.com/BurntSushi/toml"
	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/pkg/errors"
)

// TomlDecoder TOML 格式解码器
type TomlDecoder struct{}

func NewTomlDecoder() *TomlDecoder {
	return &TomlDecoder{}
}

func (d *TomlDecoder) Decode(data []byte) (storage.Storage, error) {
	var result map[string]any
	if err := toml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode TOML")
	}
	return storage.NewMapStorage(normalizeToml(result)), nil
}

// toml 的表数组解析为 []map[string]any，转换为 []any 以便按下标访问
func normalizeToml(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalizeToml(item)
		}
		return val
	case []map[string]any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalizeToml(item)
		}
		return out
	case []any:
		for i, item := range val {
			val[i] = normalizeToml(item)
		}
		return val
	case int64:
		return int(val)
	}
	return v
}
