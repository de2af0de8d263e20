package table

import "github.com/hatlonely/tablex/log/logger"

// SelectAllScope 全选作用的行范围
type SelectAllScope string

const (
	// SelectAllFiltered 过滤后的所有行（跨页）
	SelectAllFiltered SelectAllScope = "filtered"
	// SelectAllPage 当前页的行
	SelectAllPage SelectAllScope = "page"
	// SelectAllRows 全部行，忽略过滤条件
	SelectAllRows SelectAllScope = "all"
)

// FilterInput 绑定到过滤条件的文本输入
// SetValue 由表格在过滤值变化时回写，实现不应再触发 OnInput 的回调
type FilterInput interface {
	Value() string
	SetValue(value string)
	// OnInput 订阅用户输入，返回取消订阅的函数
	OnInput(fn func(value string)) (unsubscribe func())
}

// Options 表格选项，nil 时使用 DefaultOptions
type Options[T any] struct {
	EnableSorting       bool           `cfg:"enableSorting" def:"true"`
	EnableCheckboxes    bool           `cfg:"enableCheckboxes"`
	EnablePagination    bool           `cfg:"enablePagination" def:"true"`
	EnableColumnFilters bool           `cfg:"enableColumnFilters"`
	FilterColumn        string         `cfg:"filterColumn"`
	PageSize            int            `cfg:"pageSize" def:"10" validate:"gte=0"`
	SelectAllScope      SelectAllScope `cfg:"selectAllScope" def:"filtered" validate:"omitempty,oneof=filtered page all"`

	FilterInput FilterInput `cfg:"-"`
	// RowID 生成行的唯一标识，默认取 id 字段，没有时使用下标
	RowID        func(row T, index int) string `cfg:"-"`
	OnTableReady func(t *Table[T])             `cfg:"-"`
	Logger       logger.Logger                 `cfg:"-"`
}

const DefaultPageSize = 10

func DefaultOptions[T any]() *Options[T] {
	return &Options[T]{
		EnableSorting:    true,
		EnablePagination: true,
		PageSize:         DefaultPageSize,
		SelectAllScope:   SelectAllFiltered,
	}
}
