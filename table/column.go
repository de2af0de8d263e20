package table

import "github.com/hatlonely/tablex/query"

const (
	SelectColumnID  = "select"
	ActionsColumnID = "actions"
)

// CellContext 单元格渲染上下文
type CellContext[T any] struct {
	Table  *Table[T]
	Column *Column[T]
	Row    Row[T]
	// Value 为单元格的值，字段不存在时 Present 为 false
	Value   any
	Present bool
}

// HeaderContext 表头渲染上下文
type HeaderContext[T any] struct {
	Table  *Table[T]
	Column *Column[T]
}

type CellFunc[T any] func(ctx CellContext[T]) Node

type HeaderFunc[T any] func(ctx HeaderContext[T]) Node

// Action 操作菜单中的一项
type Action[T any] struct {
	Label       string
	Icon        string
	Handler     func(row T) error
	Destructive bool
}

// Column 列描述
type Column[T any] struct {
	// ID 为空时使用 Key
	ID string
	// Key 为行字段名，select 和 actions 等非数据列为空
	Key    string
	Header string
	Cell   CellFunc[T]
	// HeaderFunc 不为空时替代默认表头
	HeaderFunc HeaderFunc[T]
	// Accessor 不为空时替代按 Key 读取字段
	Accessor   func(row T) (any, bool)
	Comparator Comparator
	Sortable   bool
	Hideable   bool
	Actions    []Action[T]
}

type ColumnOption[T any] func(c *Column[T])

// WithComparator 自定义排序比较函数
func WithComparator[T any](comparator Comparator) ColumnOption[T] {
	return func(c *Column[T]) {
		c.Comparator = comparator
	}
}

// WithHiding 设置列是否可以隐藏
func WithHiding[T any](hideable bool) ColumnOption[T] {
	return func(c *Column[T]) {
		c.Hideable = hideable
	}
}

func WithHeaderFunc[T any](fn HeaderFunc[T]) ColumnOption[T] {
	return func(c *Column[T]) {
		c.HeaderFunc = fn
	}
}

func WithAccessor[T any](accessor func(row T) (any, bool)) ColumnOption[T] {
	return func(c *Column[T]) {
		c.Accessor = accessor
	}
}

// NewSelectColumn 复选框列，表头为全选框，单元格为行选择框
func NewSelectColumn[T any](opts ...ColumnOption[T]) Column[T] {
	c := Column[T]{
		ID: SelectColumnID,
		HeaderFunc: func(ctx HeaderContext[T]) Node {
			t := ctx.Table
			all := t.IsAllRowsSelected()
			return CheckboxNode{
				Label:         "Select all",
				Checked:       all,
				Indeterminate: !all && t.IsSomeRowsSelected(),
				Disabled:      !t.options.EnableCheckboxes,
				Toggle:        func() { t.ToggleAllRowsSelected(!all) },
			}
		},
		Cell: func(ctx CellContext[T]) Node {
			t, id := ctx.Table, ctx.Row.ID
			return CheckboxNode{
				Label:    "Select row",
				Checked:  t.IsRowSelected(id),
				Disabled: !t.options.EnableCheckboxes,
				Toggle:   func() { _ = t.ToggleRowSelected(id) },
			}
		},
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewSimpleColumn 按 key 读取字段的列，cell 为空时显示值的文本
func NewSimpleColumn[T any](key string, header string, sortable bool, cell CellFunc[T], opts ...ColumnOption[T]) Column[T] {
	c := Column[T]{
		ID:       key,
		Key:      key,
		Header:   header,
		Cell:     cell,
		Sortable: sortable,
		Hideable: true,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// NewSortableColumn 可排序的列，表头显示当前排序方向，点击切换升序降序
func NewSortableColumn[T any](key string, header string, cell CellFunc[T], opts ...ColumnOption[T]) Column[T] {
	return NewSimpleColumn(key, header, true, cell, opts...)
}

// NewActionsColumn 操作菜单列
func NewActionsColumn[T any](actions ...Action[T]) Column[T] {
	return Column[T]{
		ID:      ActionsColumnID,
		Actions: actions,
		Cell: func(ctx CellContext[T]) Node {
			t, id := ctx.Table, ctx.Row.ID
			items := make([]MenuItem, len(ctx.Column.Actions))
			for i, action := range ctx.Column.Actions {
				i := i
				items[i] = MenuItem{
					Label:       action.Label,
					Icon:        action.Icon,
					Destructive: action.Destructive,
					Invoke:      func() error { return t.InvokeAction(id, i) },
				}
			}
			return MenuNode{Label: "Open menu", Items: items}
		},
	}
}

// value 读取行中该列的值
func (c *Column[T]) value(row T) (any, bool) {
	if c.Accessor != nil {
		return c.Accessor(row)
	}
	if c.Key == "" {
		return nil, false
	}
	return FieldValue(row, c.Key)
}

func (c *Column[T]) compare(a, b any) int {
	if c.Comparator != nil {
		return c.Comparator(a, b)
	}
	return DefaultComparator(a, b)
}

func (c *Column[T]) isData() bool {
	return c.Key != "" || c.Accessor != nil
}

func defaultCell[T any](ctx CellContext[T]) Node {
	if !ctx.Present {
		return TextNode{}
	}
	return TextNode{Text: query.Text(ctx.Value)}
}
