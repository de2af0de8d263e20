package writer

import (
	"io"

	"github.com/hatlonely/tablex/ref"
)

const Namespace = "github.com/hatlonely/tablex/log/writer"

func init() {
	ref.MustRegister(Namespace, "ConsoleWriter", NewConsoleWriterWithOptions)
	ref.MustRegister(Namespace, "FileWriter", NewFileWriterWithOptions)
	ref.MustRegister(Namespace, "MultiWriter", NewMultiWriterWithOptions)
}

// Writer 日志输出器接口
type Writer interface {
	io.Writer
	io.Closer
}

// NewWriterWithOptions 根据 TypeOptions 创建输出器，Namespace 为空时使用本包
func NewWriterWithOptions(options *ref.TypeOptions) (Writer, error) {
	if options == nil {
		return NewConsoleWriterWithOptions(nil)
	}
	namespace := options.Namespace
	if namespace == "" {
		namespace = Namespace
	}
	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, err
	}
	w, ok := obj.(Writer)
	if !ok {
		return nil, ErrNotWriter
	}
	return w, nil
}
