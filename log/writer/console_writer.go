package writer

import (
	"errors"
	"io"
	"os"
)

var ErrNotWriter = errors.New("object does not implement Writer interface")

// ConsoleWriterOptions 控制台输出配置
type ConsoleWriterOptions struct {
	// 输出目标：stdout, stderr
	Target string `cfg:"target" def:"stderr" validate:"omitempty,oneof=stdout stderr"`
}

// ConsoleWriter 控制台输出器
// 交互式表格占用 stdout，日志默认写到 stderr
type ConsoleWriter struct {
	writer io.Writer
}

func NewConsoleWriterWithOptions(options *ConsoleWriterOptions) (*ConsoleWriter, error) {
	if options != nil && options.Target == "stdout" {
		return &ConsoleWriter{writer: os.Stdout}, nil
	}
	return &ConsoleWriter{writer: os.Stderr}, nil
}

func (c *ConsoleWriter) Write(p []byte) (int, error) {
	return c.writer.Write(p)
}

// Close 控制台不需要关闭
func (c *ConsoleWriter) Close() error {
	return nil
}
