package log

import (
	"sync/atomic"

	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/tablex/log/logger"

var defaultLogger atomic.Value

func init() {
	// 默认向 stderr 输出 text 格式日志
	l, err := logger.NewSLogWithOptions(&logger.SLogOptions{
		Level:  "info",
		Format: "text",
	})
	if err != nil {
		panic("failed to initialize default logger: " + err.Error())
	}
	defaultLogger.Store(holder{l})
}

// atomic.Value 要求每次存入的具体类型一致
type holder struct {
	logger.Logger
}

func Default() logger.Logger {
	return defaultLogger.Load().(holder).Logger
}

func SetDefault(l logger.Logger) {
	if l != nil {
		defaultLogger.Store(holder{l})
	}
}

// NewLoggerWithOptions 根据 TypeOptions 创建日志器，options 为 nil 时返回默认日志器
// Namespace 为空时使用 logger 包，Type 为空时使用 SLog
func NewLoggerWithOptions(options *ref.TypeOptions) (logger.Logger, error) {
	if options == nil {
		return Default(), nil
	}

	namespace, type_ := options.Namespace, options.Type
	if namespace == "" {
		namespace = Namespace
	}
	if type_ == "" {
		type_ = "SLog"
	}

	obj, err := ref.New(namespace, type_, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	l, ok := obj.(logger.Logger)
	if !ok {
		return nil, errors.Errorf("%s:%s does not implement Logger interface", namespace, type_)
	}
	return l, nil
}
