package cfg

import (
	"os"

	"github.com/hatlonely/tablex/cfg/decoder"
	"github.com/hatlonely/tablex/cfg/storage"
	"github.com/hatlonely/tablex/cfg/validator"
	"github.com/pkg/errors"
)

// Config 配置对象，封装解码后的 Storage
type Config struct {
	storage storage.Storage
}

// NewConfig 读取配置文件，按扩展名选择解码器，文件内容中的 ${VAR} 会被环境变量替换
func NewConfig(path string) (*Config, error) {
	d, err := decoder.NewDecoderForPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read config file %s failed", path)
	}
	return Parse([]byte(os.ExpandEnv(string(data))), d)
}

// Parse 使用指定解码器解析配置内容
func Parse(data []byte, d decoder.Decoder) (*Config, error) {
	s, err := d.Decode(data)
	if err != nil {
		return nil, errors.WithMessage(err, "decoder.Decode failed")
	}
	return &Config{storage: s}, nil
}

// NewConfigWithStorage 直接使用 Storage 创建配置
func NewConfigWithStorage(s storage.Storage) *Config {
	return &Config{storage: s}
}

// Sub 获取子配置，key 不存在时返回空配置
func (c *Config) Sub(key string) *Config {
	if c == nil || c.storage == nil {
		return &Config{}
	}
	return &Config{storage: c.storage.Sub(key)}
}

// Storage 返回底层存储
func (c *Config) Storage() storage.Storage {
	return c.storage
}

// ConvertTo 转换到结构体并校验 validate 标签
func (c *Config) ConvertTo(object any) error {
	s := c.storage
	if s == nil {
		s = storage.NewMapStorage(nil)
	}
	if err := s.ConvertTo(object); err != nil {
		return errors.WithMessage(err, "storage.ConvertTo failed")
	}
	if err := validator.ValidateStruct(object); err != nil {
		return errors.Wrap(err, "validate failed")
	}
	return nil
}

// Load 读取配置文件并转换到 object
func Load(path string, object any) error {
	c, err := NewConfig(path)
	if err != nil {
		return err
	}
	return c.ConvertTo(object)
}
