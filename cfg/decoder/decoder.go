package decoder

import (
	"path/filepath"
	"strings"

	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/tablex/cfg/decoder"

func init() {
	ref.MustRegister(Namespace, "JsonDecoder", NewJsonDecoder)
	ref.MustRegister(Namespace, "YamlDecoder", NewYamlDecoder)
	ref.MustRegister(Namespace, "TomlDecoder", NewTomlDecoder)
	ref.MustRegister(Namespace, "IniDecoder", NewIniDecoder)
}

// Decoder 将原始配置数据解码为 Storage
type Decoder interface {
	Decode(data []byte) (storage.Storage, error)
}

// NewDecoderWithOptions 根据 TypeOptions 创建解码器
func NewDecoderWithOptions(options *ref.TypeOptions) (Decoder, error) {
	if options == nil {
		return NewYamlDecoder(), nil
	}
	namespace := options.Namespace
	if namespace == "" {
		namespace = Namespace
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	d, ok := obj.(Decoder)
	if !ok {
		return nil, errors.Errorf("%s:%s is not a Decoder", namespace, options.Type)
	}
	return d, nil
}

// NewDecoderForPath 根据文件扩展名选择解码器
func NewDecoderForPath(path string) (Decoder, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJsonDecoder(), nil
	case ".yaml", ".yml":
		return NewYamlDecoder(), nil
	case ".toml":
		return NewTomlDecoder(), nil
	case ".ini", ".conf":
		return NewIniDecoder(), nil
	}
	return nil, errors.Errorf("unsupported config file extension: %q", filepath.Ext(path))
}
