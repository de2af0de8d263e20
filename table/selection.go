package table

// IsRowSelected 行是否选中
func (t *Table[T]) IsRowSelected(id string) bool {
	return t.selection[id]
}

// ToggleRowSelected 切换行的选中状态，未开启复选框时忽略
func (t *Table[T]) ToggleRowSelected(id string) error {
	return t.SetRowSelected(id, !t.selection[id])
}

func (t *Table[T]) SetRowSelected(id string, selected bool) error {
	if _, err := t.Row(id); err != nil {
		return err
	}
	if !t.options.EnableCheckboxes {
		return nil
	}
	if selected {
		t.selection[id] = true
	} else {
		delete(t.selection, id)
	}
	return nil
}

// scopeRows 全选作用范围内的行
func (t *Table[T]) scopeRows() []Row[T] {
	switch t.options.SelectAllScope {
	case SelectAllPage:
		return t.PageRows()
	case SelectAllRows:
		return t.CoreRows()
	}
	return t.FilteredRows()
}

// ToggleAllRowsSelected 将作用范围内的行全部设为 value，范围外的行不变
func (t *Table[T]) ToggleAllRowsSelected(value bool) {
	if !t.options.EnableCheckboxes {
		return
	}
	for _, row := range t.scopeRows() {
		if value {
			t.selection[row.ID] = true
		} else {
			delete(t.selection, row.ID)
		}
	}
	t.logger.Debug("table toggle all rows", "value", value, "scope", string(t.options.SelectAllScope))
}

// IsAllRowsSelected 作用范围非空且全部选中
func (t *Table[T]) IsAllRowsSelected() bool {
	rows := t.scopeRows()
	if len(rows) == 0 {
		return false
	}
	for _, row := range rows {
		if !t.selection[row.ID] {
			return false
		}
	}
	return true
}

// IsSomeRowsSelected 作用范围内部分选中
func (t *Table[T]) IsSomeRowsSelected() bool {
	some, all := false, true
	for _, row := range t.scopeRows() {
		if t.selection[row.ID] {
			some = true
		} else {
			all = false
		}
	}
	return some && !all
}

// SelectedRows 所有选中的行，按原始顺序
func (t *Table[T]) SelectedRows() []Row[T] {
	var rows []Row[T]
	for _, row := range t.rows {
		if t.selection[row.ID] {
			rows = append(rows, row)
		}
	}
	return rows
}

// FilteredSelectedRows 满足过滤条件的选中行
func (t *Table[T]) FilteredSelectedRows() []Row[T] {
	var rows []Row[T]
	for _, row := range t.FilteredRows() {
		if t.selection[row.ID] {
			rows = append(rows, row)
		}
	}
	return rows
}
