package render

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hatlonely/tablex/table"
)

const helpText = "↑/↓ move · space select · a select all · 1-9 sort · ←/→ page · tab action · enter run · / filter · q quit"

// Model 交互式表格，所有事件在 bubbletea 的事件循环中串行处理
type Model[T any] struct {
	table  *table.Table[T]
	input  *TextInput
	styles Styles
	title  string

	cursor int
	action int
	status string
	err    error
}

// NewModel input 为绑定到表格过滤条件的输入框，可以为 nil
func NewModel[T any](t *table.Table[T], input *TextInput, styles Styles) *Model[T] {
	return &Model[T]{table: t, input: input, styles: styles}
}

func (m *Model[T]) WithTitle(title string) *Model[T] {
	m.title = title
	return m
}

func (m *Model[T]) Init() tea.Cmd {
	return nil
}

func (m *Model[T]) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.input != nil && m.input.Focused() {
		switch keyMsg.String() {
		case "esc", "enter":
			m.input.Blur()
			return m, nil
		case "ctrl+c":
			return m, tea.Quit
		}
		cmd := m.input.Update(msg)
		m.clampCursor()
		return m, cmd
	}

	m.err = nil
	m.status = ""
	switch key := keyMsg.String(); key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		m.cursor--
	case "down", "j":
		m.cursor++
	case "left", "h":
		m.table.PreviousPage()
		m.cursor = 0
	case "right", "l":
		m.table.NextPage()
		m.cursor = 0
	case " ":
		if row, ok := m.cursorRow(); ok {
			m.setErr(m.table.ToggleRowSelected(row.ID))
		}
	case "a":
		m.table.ToggleAllRowsSelected(!m.table.IsAllRowsSelected())
	case "tab":
		m.cycleAction()
	case "enter":
		m.invokeAction()
	case "/":
		if m.input != nil {
			return m, m.input.Focus()
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			m.toggleSorting(int(key[0] - '1'))
		}
	}
	m.clampCursor()
	return m, nil
}

func (m *Model[T]) View() string {
	var sb strings.Builder
	if m.title != "" {
		sb.WriteString(m.styles.Header.Render(m.title))
		sb.WriteString("\n\n")
	}
	if m.input != nil {
		sb.WriteString(m.input.View())
		sb.WriteString("\n\n")
	}
	sb.WriteString(renderView(m.table.Render(), m.styles, m.cursor))
	if actions := m.actions(); len(actions) > 0 {
		sb.WriteString(m.styles.Status.Render("action: " + actions[m.action%len(actions)].Label))
		sb.WriteString("\n")
	}
	switch {
	case m.err != nil:
		sb.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		sb.WriteString("\n")
	case m.status != "":
		sb.WriteString(m.styles.Status.Render(m.status))
		sb.WriteString("\n")
	}
	sb.WriteString(m.styles.Muted.Render(helpText))
	sb.WriteString("\n")
	return sb.String()
}

// Err 最近一次操作的错误，渲染在状态栏
func (m *Model[T]) Err() error {
	return m.err
}

func (m *Model[T]) Status() string {
	return m.status
}

func (m *Model[T]) Cursor() int {
	return m.cursor
}

func (m *Model[T]) setErr(err error) {
	m.err = err
}

func (m *Model[T]) cursorRow() (table.Row[T], bool) {
	rows := m.table.PageRows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return table.Row[T]{}, false
	}
	return rows[m.cursor], true
}

func (m *Model[T]) clampCursor() {
	n := len(m.table.PageRows())
	m.cursor = max(0, min(m.cursor, n-1))
}

func (m *Model[T]) actions() []table.Action[T] {
	c, err := m.table.Column(table.ActionsColumnID)
	if err != nil {
		return nil
	}
	return c.Actions
}

func (m *Model[T]) cycleAction() {
	if actions := m.actions(); len(actions) > 0 {
		m.action = (m.action + 1) % len(actions)
	}
}

func (m *Model[T]) invokeAction() {
	row, ok := m.cursorRow()
	if !ok {
		return
	}
	actions := m.actions()
	if len(actions) == 0 {
		return
	}
	index := m.action % len(actions)
	if err := m.table.InvokeAction(row.ID, index); err != nil {
		m.setErr(err)
		return
	}
	m.status = actions[index].Label + ": done"
}

// toggleSorting 切换第 n 个可见列的排序
func (m *Model[T]) toggleSorting(n int) {
	columns := m.table.VisibleColumns()
	if n >= len(columns) {
		return
	}
	m.setErr(m.table.ToggleSorting(columns[n].ID))
	m.cursor = 0
}
