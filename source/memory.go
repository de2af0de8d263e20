package source

import (
	"context"
	"reflect"
	"slices"

	"github.com/hatlonely/tablex/query"
	"github.com/hatlonely/tablex/table"
)

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}

func document(row any) query.Document {
	return query.DocumentFunc(func(field string) (any, bool) {
		return table.FieldValue(row, field)
	})
}

// applyInMemory 对不支持下推的数据源在内存中执行过滤、排序和分页，不修改 rows
func applyInMemory[T any](rows []T, options *ListOptions) []T {
	if options == nil {
		return slices.Clone(rows)
	}

	result := make([]T, 0, len(rows))
	for _, row := range rows {
		if options.Query == nil || options.Query.Match(document(row)) {
			result = append(result, row)
		}
	}

	if options.OrderBy != "" {
		slices.SortStableFunc(result, func(a, b T) int {
			va, _ := table.FieldValue(a, options.OrderBy)
			vb, _ := table.FieldValue(b, options.OrderBy)
			if options.OrderDesc {
				return table.DefaultComparator(vb, va)
			}
			return table.DefaultComparator(va, vb)
		})
	}

	if options.Offset > 0 {
		if options.Offset >= len(result) {
			return result[:0]
		}
		result = result[options.Offset:]
	}
	if options.Limit > 0 && options.Limit < len(result) {
		result = result[:options.Limit]
	}
	return result
}

type SliceSourceOptions[T any] struct {
	Rows []T `cfg:"rows"`
}

// SliceSource 固定数据的数据源
type SliceSource[T any] struct {
	rows []T
}

func NewSliceSource[T any](rows []T) *SliceSource[T] {
	return &SliceSource[T]{rows: slices.Clone(rows)}
}

func NewSliceSourceWithOptions[T any](options *SliceSourceOptions[T]) (*SliceSource[T], error) {
	return NewSliceSource(options.Rows), nil
}

func (s *SliceSource[T]) List(ctx context.Context, options *ListOptions) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return applyInMemory(s.rows, options), nil
}

func (s *SliceSource[T]) Close() error {
	return nil
}
