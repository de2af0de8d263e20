package main

import (
	"os"
	"time"

	"github.com/hatlonely/tablex/cfg"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/page"
	"github.com/hatlonely/tablex/ref"
	"github.com/hatlonely/tablex/source"
	"github.com/pkg/errors"
)

// Config 命令行的配置文件，支持 yaml/json/toml/ini
type Config struct {
	Log    logger.SLogOptions `cfg:"log"`
	Source *ref.TypeOptions   `cfg:"source"`
	// Cache 不为空时用缓存包装数据源
	Cache    *ref.TypeOptions `cfg:"cache"`
	CacheTTL time.Duration    `cfg:"cacheTTL" def:"1m"`
	Table    page.Options     `cfg:"table"`
	Metrics  bool             `cfg:"metrics"`
}

// loadConfig path 为空时使用默认配置：从 REST 接口读取，apiKey 取自环境变量 PATRON_API_KEY
func loadConfig(path string, resourcePath string) (*Config, error) {
	var conf Config
	if path != "" {
		if err := cfg.Load(path, &conf); err != nil {
			return nil, errors.WithMessagef(err, "load config %s failed", path)
		}
	} else if err := cfg.NewConfigWithStorage(nil).ConvertTo(&conf); err != nil {
		return nil, errors.WithMessage(err, "apply default config failed")
	}

	if conf.Source == nil {
		conf.Source = &ref.TypeOptions{
			Namespace: source.Namespace,
			Type:      "HTTPSource",
			Options: &source.HTTPSourceOptions{
				BaseURL: source.DefaultBaseURL,
				APIKey:  os.Getenv("PATRON_API_KEY"),
				Path:    resourcePath,
				Timeout: 30 * time.Second,
			},
		}
	}
	return &conf, nil
}
