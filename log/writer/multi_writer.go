package writer

import (
	"fmt"

	"github.com/hatlonely/tablex/ref"
)

// MultiWriterOptions 多输出配置
type MultiWriterOptions struct {
	Writers []*ref.TypeOptions `cfg:"writers" validate:"required,min=1"`
}

// MultiWriter 将日志同时写入多个输出器
type MultiWriter struct {
	writers []Writer
}

func NewMultiWriterWithOptions(options *MultiWriterOptions) (*MultiWriter, error) {
	if options == nil || len(options.Writers) == 0 {
		return nil, fmt.Errorf("at least one writer is required")
	}

	writers := make([]Writer, 0, len(options.Writers))
	for i, opts := range options.Writers {
		w, err := NewWriterWithOptions(opts)
		if err != nil {
			return nil, fmt.Errorf("failed to create writer %d: %w", i, err)
		}
		writers = append(writers, w)
	}
	return NewMultiWriter(writers...), nil
}

func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write 依次写入所有输出器，遇到错误立即返回
func (m *MultiWriter) Write(p []byte) (int, error) {
	for i, w := range m.writers {
		if _, err := w.Write(p); err != nil {
			return 0, fmt.Errorf("writer %d failed: %w", i, err)
		}
	}
	return len(p), nil
}

func (m *MultiWriter) Close() error {
	var lastErr error
	for i, w := range m.writers {
		if err := w.Close(); err != nil {
			lastErr = fmt.Errorf("failed to close writer %d: %w", i, err)
		}
	}
	return lastErr
}
