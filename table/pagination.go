package table

import "github.com/pkg/errors"

// PageCount 页数，至少为 1
func (t *Table[T]) PageCount() int {
	if !t.options.EnablePagination {
		return 1
	}
	n := len(t.FilteredRows())
	return max(1, (n+t.pageSize-1)/t.pageSize)
}

func (t *Table[T]) PageIndex() int {
	return t.pageIndex
}

func (t *Table[T]) PageSize() int {
	return t.pageSize
}

// SetPageIndex 设置页码，超出范围时修正到最近的有效页
func (t *Table[T]) SetPageIndex(index int) {
	t.pageIndex = index
	t.clampPageIndex()
}

// SetPageSize 修改每页行数，尽量保持当前页的第一行可见
func (t *Table[T]) SetPageSize(size int) error {
	if size < 1 {
		return errors.Wrapf(ErrInvalidOptions, "page size must be positive, got %d", size)
	}
	top := t.pageIndex * t.pageSize
	t.pageSize = size
	t.pageIndex = top / size
	t.clampPageIndex()
	return nil
}

func (t *Table[T]) CanPreviousPage() bool {
	return t.pageIndex > 0
}

func (t *Table[T]) CanNextPage() bool {
	return t.pageIndex < t.PageCount()-1
}

func (t *Table[T]) NextPage() {
	if t.CanNextPage() {
		t.pageIndex++
	}
}

func (t *Table[T]) PreviousPage() {
	if t.CanPreviousPage() {
		t.pageIndex--
	}
}

func (t *Table[T]) clampPageIndex() {
	t.pageIndex = max(0, min(t.pageIndex, t.PageCount()-1))
}
