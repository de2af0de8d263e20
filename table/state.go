package table

import "maps"

// SortDirection 排序方向
type SortDirection string

const (
	SortNone SortDirection = ""
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Sorting 排序状态，ColumnID 为空表示不排序
type Sorting struct {
	ColumnID string
	Desc     bool
}

func (s Sorting) Direction(columnID string) SortDirection {
	switch {
	case s.ColumnID == "" || s.ColumnID != columnID:
		return SortNone
	case s.Desc:
		return SortDesc
	}
	return SortAsc
}

type FilterState struct {
	ColumnID string
	Value    string
}

type PaginationState struct {
	PageIndex int
	PageSize  int
}

// State 表格交互状态的快照
type State struct {
	Sorting    Sorting
	Filter     FilterState
	Pagination PaginationState
	Selection  map[string]bool
	Visibility map[string]bool
}

func (t *Table[T]) State() State {
	state := State{
		Sorting:    t.sorting,
		Pagination: PaginationState{PageIndex: t.pageIndex, PageSize: t.pageSize},
		Selection:  maps.Clone(t.selection),
		Visibility: maps.Clone(t.visibility),
	}
	if t.filterColumn != nil {
		state.Filter = FilterState{ColumnID: t.filterColumn.ID, Value: t.filterValue}
	}
	return state
}
