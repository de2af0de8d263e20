package page

import (
	"context"
	"sync"

	"github.com/hatlonely/tablex/source"
)

// Status 资源的加载状态
type Status int

const (
	StatusLoading Status = iota
	StatusError
	StatusReady
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusError:
		return "error"
	case StatusReady:
		return "ready"
	}
	return "unknown"
}

// Resource 数据源读取结果，表格本身从不读取数据
type Resource[T any] struct {
	mu     sync.RWMutex
	status Status
	rows   []T
	err    error
}

// Load 读取失败时保留上一次成功读取的行
func (r *Resource[T]) Load(ctx context.Context, src source.Source[T], options *source.ListOptions) ([]T, error) {
	r.mu.Lock()
	r.status = StatusLoading
	r.mu.Unlock()

	rows, err := src.List(ctx, options)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err != nil {
		r.status, r.err = StatusError, err
		return nil, err
	}
	r.status, r.rows, r.err = StatusReady, rows, nil
	return rows, nil
}

func (r *Resource[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Resource[T]) Rows() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.rows
}

func (r *Resource[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}
