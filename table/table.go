package table

import (
	"slices"
	"strconv"

	"github.com/hatlonely/tablex/log"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/query"
	"github.com/pkg/errors"
)

// Row 表格中的一行
type Row[T any] struct {
	ID string
	// Index 为行在原始数据中的下标
	Index    int
	Original T
}

// Table 组合列描述、行数据和交互状态（排序、过滤、分页、选择、列可见性）
// 行模型每次调用时从原始数据完整计算，Table 不是并发安全的
type Table[T any] struct {
	options Options[T]
	logger  logger.Logger

	columns     []*Column[T]
	columnIndex map[string]*Column[T]

	rows     []Row[T]
	rowIndex map[string]int

	sorting      Sorting
	filterColumn *Column[T]
	filterValue  string
	pageIndex    int
	pageSize     int
	selection    map[string]bool
	visibility   map[string]bool

	unsubscribe func()
}

func New[T any](rows []T, columns []Column[T], options *Options[T]) (*Table[T], error) {
	if options == nil {
		options = DefaultOptions[T]()
	}

	t := &Table[T]{
		options:     *options,
		logger:      options.Logger,
		columnIndex: map[string]*Column[T]{},
		selection:   map[string]bool{},
		visibility:  map[string]bool{},
		pageSize:    options.PageSize,
	}
	if t.logger == nil {
		t.logger = log.Default()
	}
	if t.options.SelectAllScope == "" {
		t.options.SelectAllScope = SelectAllFiltered
	}
	switch t.options.SelectAllScope {
	case SelectAllFiltered, SelectAllPage, SelectAllRows:
	default:
		return nil, errors.Wrapf(ErrInvalidOptions, "unknown select all scope %q", t.options.SelectAllScope)
	}
	if t.pageSize == 0 {
		t.pageSize = DefaultPageSize
	}
	if t.pageSize < 0 {
		return nil, errors.Wrapf(ErrInvalidOptions, "page size must be positive, got %d", t.pageSize)
	}

	for i := range columns {
		c := columns[i]
		if c.ID == "" {
			c.ID = c.Key
		}
		if c.ID == "" {
			return nil, errors.Wrapf(ErrInvalidOptions, "column %d has neither id nor key", i)
		}
		if _, ok := t.columnIndex[c.ID]; ok {
			return nil, errors.Wrapf(ErrInvalidOptions, "duplicate column id %q", c.ID)
		}
		if c.Cell == nil {
			c.Cell = defaultCell[T]
		}
		t.columns = append(t.columns, &c)
		t.columnIndex[c.ID] = &c
	}

	if t.options.EnableColumnFilters && t.options.FilterColumn != "" {
		c, ok := t.columnIndex[t.options.FilterColumn]
		if !ok || !c.isData() {
			return nil, errors.Wrapf(ErrColumnNotFound, "filter column %q", t.options.FilterColumn)
		}
		t.filterColumn = c
	}

	if err := t.SetData(rows); err != nil {
		return nil, err
	}

	// 从绑定的输入框初始化过滤值，并订阅后续输入
	if input := t.options.FilterInput; input != nil && t.filterColumn != nil {
		t.setFilterValue(input.Value(), false)
		t.unsubscribe = input.OnInput(func(value string) {
			t.setFilterValue(value, false)
		})
	}

	if t.options.OnTableReady != nil {
		t.options.OnTableReady(t)
	}
	return t, nil
}

// Close 取消对过滤输入框的订阅
func (t *Table[T]) Close() error {
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	return nil
}

func (t *Table[T]) Options() Options[T] {
	return t.options
}

// SetData 替换行数据，清理已不存在的选中行，并修正页码
func (t *Table[T]) SetData(data []T) error {
	rows := make([]Row[T], len(data))
	index := make(map[string]int, len(data))
	for i, item := range data {
		id := t.rowID(item, i)
		if _, ok := index[id]; ok {
			return errors.Wrapf(ErrDuplicateRowID, "%q", id)
		}
		index[id] = i
		rows[i] = Row[T]{ID: id, Index: i, Original: item}
	}
	t.rows = rows
	t.rowIndex = index

	for id := range t.selection {
		if _, ok := index[id]; !ok {
			delete(t.selection, id)
		}
	}
	t.clampPageIndex()
	t.logger.Debug("table data set", "rows", len(rows))
	return nil
}

func (t *Table[T]) rowID(row T, index int) string {
	if t.options.RowID != nil {
		return t.options.RowID(row, index)
	}
	if v, ok := FieldValue(row, "id"); ok && v != nil {
		return query.Text(v)
	}
	return strconv.Itoa(index)
}

// Columns 返回所有列，包括隐藏的列
func (t *Table[T]) Columns() []*Column[T] {
	return t.columns
}

func (t *Table[T]) Column(id string) (*Column[T], error) {
	c, ok := t.columnIndex[id]
	if !ok {
		return nil, errors.Wrapf(ErrColumnNotFound, "%q", id)
	}
	return c, nil
}

// Row 按 ID 查找行
func (t *Table[T]) Row(id string) (Row[T], error) {
	i, ok := t.rowIndex[id]
	if !ok {
		return Row[T]{}, errors.Wrapf(ErrRowNotFound, "%q", id)
	}
	return t.rows[i], nil
}

// document 将行转换为查询文档
// 过滤列的字段总是读取过滤列自身的值，其余字段按列 ID 解析，找不到列时按字段读取
func (t *Table[T]) document(row Row[T]) query.Document {
	return query.DocumentFunc(func(field string) (any, bool) {
		if t.filterColumn != nil && field == t.filterField() {
			return t.filterColumn.value(row.Original)
		}
		if c, ok := t.columnIndex[field]; ok && c.isData() {
			return c.value(row.Original)
		}
		return FieldValue(row.Original, field)
	})
}

// CoreRows 原始数据的全部行
func (t *Table[T]) CoreRows() []Row[T] {
	return slices.Clone(t.rows)
}

// FilteredRows 满足过滤条件的行，保持原始顺序
func (t *Table[T]) FilteredRows() []Row[T] {
	q := t.FilterQuery()
	if q == nil {
		return t.CoreRows()
	}
	rows := make([]Row[T], 0, len(t.rows))
	for _, row := range t.rows {
		if q.Match(t.document(row)) {
			rows = append(rows, row)
		}
	}
	return rows
}

// SortedRows 过滤后按当前排序列稳定排序的行
func (t *Table[T]) SortedRows() []Row[T] {
	rows := t.FilteredRows()
	if !t.options.EnableSorting || t.sorting.ColumnID == "" {
		return rows
	}
	c, ok := t.columnIndex[t.sorting.ColumnID]
	if !ok {
		return rows
	}

	values := make(map[string]any, len(rows))
	for _, row := range rows {
		v, _ := c.value(row.Original)
		values[row.ID] = v
	}
	desc := t.sorting.Desc
	slices.SortStableFunc(rows, func(a, b Row[T]) int {
		if desc {
			return c.compare(values[b.ID], values[a.ID])
		}
		return c.compare(values[a.ID], values[b.ID])
	})
	return rows
}

// PageRows 当前页的行，未开启分页时为全部排序后的行
func (t *Table[T]) PageRows() []Row[T] {
	rows := t.SortedRows()
	if !t.options.EnablePagination {
		return rows
	}
	start := t.pageIndex * t.pageSize
	if start >= len(rows) {
		return []Row[T]{}
	}
	end := min(start+t.pageSize, len(rows))
	return rows[start:end]
}

// InvokeAction 对行执行操作菜单中的第 index 项，处理函数的错误原样返回
func (t *Table[T]) InvokeAction(rowID string, index int) error {
	row, err := t.Row(rowID)
	if err != nil {
		return err
	}
	c, ok := t.columnIndex[ActionsColumnID]
	if !ok {
		return errors.Wrapf(ErrColumnNotFound, "%q", ActionsColumnID)
	}
	if index < 0 || index >= len(c.Actions) {
		return errors.Wrapf(ErrActionNotFound, "index %d", index)
	}
	action := c.Actions[index]
	t.logger.Debug("invoke action", "row", rowID, "action", action.Label)
	if action.Handler == nil {
		return nil
	}
	return action.Handler(row.Original)
}
