package table

import "github.com/pkg/errors"

func (t *Table[T]) sortableColumn(id string) (*Column[T], error) {
	c, err := t.Column(id)
	if err != nil {
		return nil, err
	}
	if !t.options.EnableSorting || !c.Sortable || !c.isData() {
		return nil, errors.Wrapf(ErrColumnNotSortable, "%q", id)
	}
	return c, nil
}

// ToggleSorting 在列上切换排序，同一列 升序 -> 降序 -> 升序，切换到其他列时从升序开始
func (t *Table[T]) ToggleSorting(columnID string) error {
	if _, err := t.sortableColumn(columnID); err != nil {
		return err
	}
	desc := t.sorting.ColumnID == columnID && !t.sorting.Desc
	t.applySorting(Sorting{ColumnID: columnID, Desc: desc})
	return nil
}

// SetSorting 设置排序，columnID 为空时取消排序
func (t *Table[T]) SetSorting(columnID string, desc bool) error {
	if columnID == "" {
		t.applySorting(Sorting{})
		return nil
	}
	if _, err := t.sortableColumn(columnID); err != nil {
		return err
	}
	t.applySorting(Sorting{ColumnID: columnID, Desc: desc})
	return nil
}

func (t *Table[T]) Sorting() Sorting {
	return t.sorting
}

func (t *Table[T]) applySorting(sorting Sorting) {
	if sorting == t.sorting {
		return
	}
	t.sorting = sorting
	t.pageIndex = 0
	t.logger.Debug("table sorting changed", "column", sorting.ColumnID, "desc", sorting.Desc)
}
