package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hatlonely/tablex/table"
)

const (
	checkboxChecked       = "[x]"
	checkboxIndeterminate = "[-]"
	checkboxUnchecked     = "[ ]"
	sortAsc               = "▲"
	sortDesc              = "▼"
	menuTrigger           = "…"
	cursorMarker          = "›"
)

// NodeText 节点的文本表示
func NodeText(node table.Node) string {
	switch n := node.(type) {
	case table.TextNode:
		return n.Text
	case table.CheckboxNode:
		switch {
		case n.Checked:
			return checkboxChecked
		case n.Indeterminate:
			return checkboxIndeterminate
		}
		return checkboxUnchecked
	case table.SortHeaderNode:
		switch n.Direction {
		case table.SortAsc:
			return n.Label + " " + sortAsc
		case table.SortDesc:
			return n.Label + " " + sortDesc
		}
		return n.Label
	case table.MenuNode:
		return menuTrigger
	case nil:
		return ""
	}
	return fmt.Sprint(node)
}

// Text 将表格渲染为文本
func Text(view table.View, styles Styles) string {
	return renderView(view, styles, -1)
}

// renderView cursor 为高亮行的下标，-1 表示没有光标
func renderView(view table.View, styles Styles, cursor int) string {
	headers := make([]string, len(view.Headers))
	widths := make([]int, len(view.Headers))
	for i, h := range view.Headers {
		headers[i] = NodeText(h.Node)
		widths[i] = lipgloss.Width(headers[i])
	}

	cells := make([][]string, len(view.Rows))
	for r, row := range view.Rows {
		cells[r] = make([]string, len(row.Cells))
		for i, cell := range row.Cells {
			cells[r][i] = NodeText(cell.Node)
			if i < len(widths) {
				widths[i] = max(widths[i], lipgloss.Width(cells[r][i]))
			}
		}
	}
	// 左右各留一个空格
	for i := range widths {
		widths[i] += 2
	}
	totalWidth := len(widths) - 1
	for _, w := range widths {
		totalWidth += w
	}

	var sb strings.Builder
	sep := styles.Divider.Render("|")
	marker := func(active bool) string {
		if cursor < 0 {
			return ""
		}
		if active {
			return styles.Cursor.Render(cursorMarker) + " "
		}
		return "  "
	}

	sb.WriteString(marker(false))
	for i, h := range headers {
		if i > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(styles.Header.Padding(0, 1).Width(widths[i]).Render(h))
	}
	sb.WriteString("\n")
	sb.WriteString(marker(false))
	sb.WriteString(styles.Divider.Render(strings.Repeat("-", max(totalWidth, 0))))
	sb.WriteString("\n")

	if view.Empty {
		sb.WriteString(marker(false))
		sb.WriteString(styles.Muted.Width(max(totalWidth, lipgloss.Width(view.EmptyText))).Align(lipgloss.Center).Render(view.EmptyText))
		sb.WriteString("\n")
	}

	for r, row := range view.Rows {
		sb.WriteString(marker(r == cursor))
		for i, text := range cells[r] {
			if i >= len(widths) {
				break
			}
			if i > 0 {
				sb.WriteString(sep)
			}
			style := styles.Cell
			if row.Selected {
				style = styles.Selected
			}
			style = style.Padding(0, 1).Width(widths[i])
			if row.Cells[i].AlignRight {
				style = style.Align(lipgloss.Right)
			}
			sb.WriteString(style.Render(text))
		}
		sb.WriteString("\n")
	}

	if view.Footer != nil {
		sb.WriteString(renderFooter(view.Footer, styles))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderFooter(footer *table.Footer, styles Styles) string {
	button := func(label string, enabled bool) string {
		if enabled {
			return "[" + label + "]"
		}
		return styles.Muted.Render("(" + label + ")")
	}

	var parts []string
	if footer.SelectionText != "" {
		parts = append(parts, footer.SelectionText)
	}
	parts = append(parts,
		fmt.Sprintf("Page %d of %d", footer.PageIndex+1, footer.PageCount),
		button("Previous", footer.CanPrevious),
		button("Next", footer.CanNext),
	)
	return styles.Footer.Render(strings.Join(parts, "  "))
}

// MenuText 操作菜单的展开文本，破坏性操作使用 Destructive 样式
func MenuText(menu table.MenuNode, styles Styles, selected int) string {
	items := make([]string, len(menu.Items))
	for i, item := range menu.Items {
		label := item.Label
		if item.Icon != "" {
			label = item.Icon + " " + label
		}
		if item.Destructive {
			label = styles.Destructive.Render(label)
		}
		if i == selected {
			label = styles.Cursor.Render(cursorMarker) + " " + label
		} else {
			label = "  " + label
		}
		items[i] = label
	}
	return strings.Join(items, "\n")
}
