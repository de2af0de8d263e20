package source

import (
	"context"
	"sync"

	"github.com/hatlonely/tablex/query"
	"github.com/hatlonely/tablex/ref"
	"github.com/pkg/errors"
)

const Namespace = "github.com/hatlonely/tablex/source"

// ListOptions 数据源支持时下推的过滤、排序和分页，表格在内存中始终会再执行一遍
type ListOptions struct {
	Query     query.Query
	OrderBy   string
	OrderDesc bool
	Limit     int
	Offset    int
}

// Source 行数据源，实现需要保证并发安全
type Source[T any] interface {
	List(ctx context.Context, options *ListOptions) ([]T, error)
	Close() error
}

var registered sync.Map

func registerSources[T any](namespace string) {
	if _, loaded := registered.LoadOrStore(namespace, struct{}{}); loaded {
		return
	}
	ref.MustRegister(namespace, "SliceSource", NewSliceSourceWithOptions[T])
	ref.MustRegister(namespace, "HTTPSource", NewHTTPSourceWithOptions[T])
	ref.MustRegister(namespace, "GormSource", NewGormSourceWithOptions[T])
	ref.MustRegister(namespace, "MongoSource", NewMongoSourceWithOptions[T])
	ref.MustRegister(namespace, "ESSource", NewESSourceWithOptions[T])
	ref.MustRegister(namespace, "FileSource", NewFileSourceWithOptions[T])
	ref.MustRegister(namespace, "CachedSource", NewCachedSourceWithOptions[T])
	ref.MustRegister(namespace, "ObservableSource", NewObservableSourceWithOptions[T])
}

// NewSourceWithOptions 根据 TypeOptions 创建数据源，Namespace 为空时使用本包内置的数据源
func NewSourceWithOptions[T any](options *ref.TypeOptions) (Source[T], error) {
	if options == nil {
		return nil, errors.New("source options is nil")
	}

	namespace := Namespace + "[" + typeName[T]() + "]"
	registerSources[T](namespace)
	if options.Namespace != "" && options.Namespace != Namespace {
		namespace = options.Namespace
	}

	obj, err := ref.New(namespace, options.Type, options.Options)
	if err != nil {
		return nil, errors.WithMessage(err, "ref.New failed")
	}
	src, ok := obj.(Source[T])
	if !ok {
		return nil, errors.Errorf("%s:%s does not implement Source interface", namespace, options.Type)
	}
	return src, nil
}
