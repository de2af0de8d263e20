package table

import "fmt"

const NoResultsText = "No results."

// HeaderCell 表头单元格
type HeaderCell struct {
	ColumnID string
	Node     Node
}

// Cell 数据单元格
type Cell struct {
	ColumnID   string
	Node       Node
	AlignRight bool
}

// ViewRow 数据行
type ViewRow struct {
	ID       string
	Selected bool
	Cells    []Cell
}

// Footer 分页区域，开启复选框时 SelectionText 为 "N of M row(s) selected."
type Footer struct {
	SelectionText string
	PageIndex     int
	PageCount     int
	CanPrevious   bool
	CanNext       bool
	Previous      func()
	Next          func()
}

// View 渲染结果，Empty 为 true 时 Rows 为空，渲染器显示 EmptyText
type View struct {
	Headers   []HeaderCell
	Rows      []ViewRow
	Empty     bool
	EmptyText string
	// Footer 未开启分页时为 nil
	Footer *Footer
}

// Render 渲染当前页
func (t *Table[T]) Render() View {
	columns := t.VisibleColumns()

	view := View{Headers: make([]HeaderCell, 0, len(columns))}
	for _, c := range columns {
		view.Headers = append(view.Headers, HeaderCell{ColumnID: c.ID, Node: t.renderHeader(c)})
	}

	for _, row := range t.PageRows() {
		vr := ViewRow{
			ID:       row.ID,
			Selected: t.options.EnableCheckboxes && t.selection[row.ID],
			Cells:    make([]Cell, 0, len(columns)),
		}
		for _, c := range columns {
			ctx := CellContext[T]{Table: t, Column: c, Row: row}
			ctx.Value, ctx.Present = c.value(row.Original)
			vr.Cells = append(vr.Cells, Cell{
				ColumnID:   c.ID,
				Node:       c.Cell(ctx),
				AlignRight: c.ID == ActionsColumnID,
			})
		}
		view.Rows = append(view.Rows, vr)
	}
	if len(view.Rows) == 0 {
		view.Empty = true
		view.EmptyText = NoResultsText
	}

	if t.options.EnablePagination {
		footer := &Footer{
			PageIndex:   t.pageIndex,
			PageCount:   t.PageCount(),
			CanPrevious: t.CanPreviousPage(),
			CanNext:     t.CanNextPage(),
			Previous:    t.PreviousPage,
			Next:        t.NextPage,
		}
		if t.options.EnableCheckboxes {
			footer.SelectionText = SelectionText(len(t.FilteredSelectedRows()), len(t.FilteredRows()))
		}
		view.Footer = footer
	}
	return view
}

// SelectionText 选中行数的提示文本
func SelectionText(selected int, total int) string {
	return fmt.Sprintf("%d of %d row(s) selected.", selected, total)
}

func (t *Table[T]) renderHeader(c *Column[T]) Node {
	if c.HeaderFunc != nil {
		return c.HeaderFunc(HeaderContext[T]{Table: t, Column: c})
	}
	if t.options.EnableSorting && c.Sortable && c.isData() {
		id := c.ID
		return SortHeaderNode{
			Label:     c.Header,
			Direction: t.sorting.Direction(id),
			Toggle:    func() error { return t.ToggleSorting(id) },
		}
	}
	return TextNode{Text: c.Header}
}
