package table

import "github.com/pkg/errors"

// SetColumnVisibility 设置列是否显示，不可隐藏的列不能设为隐藏
func (t *Table[T]) SetColumnVisibility(id string, visible bool) error {
	c, err := t.Column(id)
	if err != nil {
		return err
	}
	if !visible && !c.Hideable {
		return errors.Wrapf(ErrColumnNotHideable, "%q", id)
	}
	if visible {
		delete(t.visibility, id)
	} else {
		t.visibility[id] = false
	}
	return nil
}

func (t *Table[T]) IsColumnVisible(id string) bool {
	visible, ok := t.visibility[id]
	return !ok || visible
}

// VisibleColumns 可见的列，保持定义顺序
func (t *Table[T]) VisibleColumns() []*Column[T] {
	columns := make([]*Column[T], 0, len(t.columns))
	for _, c := range t.columns {
		if t.IsColumnVisible(c.ID) {
			columns = append(columns, c)
		}
	}
	return columns
}
