package table

import "github.com/hatlonely/tablex/query"

// SetFilterValue 设置过滤文本，页码回到第一页，并同步到绑定的输入框
// 未开启过滤时忽略
func (t *Table[T]) SetFilterValue(value string) {
	t.setFilterValue(value, true)
}

func (t *Table[T]) setFilterValue(value string, syncInput bool) {
	if t.filterColumn == nil {
		return
	}
	if syncInput && t.options.FilterInput != nil && t.options.FilterInput.Value() != value {
		t.options.FilterInput.SetValue(value)
	}
	if value == t.filterValue {
		return
	}
	t.filterValue = value
	t.pageIndex = 0
	t.logger.Debug("table filter changed", "column", t.filterColumn.ID, "value", value)
}

func (t *Table[T]) FilterValue() string {
	return t.filterValue
}

// FilterQuery 当前过滤条件，没有过滤时返回 nil
// 字段为过滤列的 Key，可以下推到数据源
func (t *Table[T]) FilterQuery() query.Query {
	if t.filterColumn == nil || t.filterValue == "" {
		return nil
	}
	return &query.MatchQuery{Field: t.filterField(), Value: t.filterValue}
}

func (t *Table[T]) filterField() string {
	if t.filterColumn.Key != "" {
		return t.filterColumn.Key
	}
	return t.filterColumn.ID
}
