package decoder

import (
	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// YamlDecoder YAML 格式解码器
type YamlDecoder struct{}

func NewYamlDecoder() *YamlDecoder {
	return &YamlDecoder{}
}

func (d *YamlDecoder) Decode(data []byte) (storage.Storage, error) {
	var result any
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, errors.Wrap(err, "failed to decode YAML")
	}
	return storage.NewMapStorage(normalize(result)), nil
}

// normalize 将 yaml 解析出的 map[any]any 统一为 map[string]any
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		for k, item := range val {
			val[k] = normalize(item)
		}
		return val
	case map[any]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[toString(k)] = normalize(item)
		}
		return m
	case []any:
		for i, item := range val {
			val[i] = normalize(item)
		}
		return val
	}
	return v
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	out, _ := yaml.Marshal(v)
	return string(trimNewline(out))
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
