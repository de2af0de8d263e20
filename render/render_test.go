package render

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/table"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type user struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

var errRemove = errors.New("cannot remove owner")

func users() []user {
	return []user{
		{ID: "1", Name: "Bob", Email: "bob@example.com"},
		{ID: "2", Name: "Ann", Email: "ann@example.com"},
		{ID: "3", Name: "Cid", Email: "cid@example.com"},
	}
}

func newTable(input table.FilterInput) *table.Table[user] {
	columns := []table.Column[user]{
		table.NewSelectColumn[user](),
		table.NewSimpleColumn[user]("name", "Name", true, nil),
		table.NewSimpleColumn[user]("email", "Email", false, nil),
		table.NewActionsColumn(
			table.Action[user]{Label: "View"},
			table.Action[user]{Label: "Remove", Destructive: true, Handler: func(u user) error { return errRemove }},
		),
	}
	opts := table.DefaultOptions[user]()
	opts.EnableCheckboxes = true
	opts.EnableColumnFilters = true
	opts.FilterColumn = "name"
	opts.PageSize = 2
	opts.FilterInput = input
	opts.Logger = logger.NewNop()
	t, err := table.New(users(), columns, opts)
	So(err, ShouldBeNil)
	return t
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "space":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNodeText(t *testing.T) {
	Convey("节点文本", t, func() {
		So(NodeText(table.TextNode{Text: "Ann"}), ShouldEqual, "Ann")
		So(NodeText(table.CheckboxNode{Checked: true}), ShouldEqual, "[x]")
		So(NodeText(table.CheckboxNode{Indeterminate: true}), ShouldEqual, "[-]")
		So(NodeText(table.CheckboxNode{}), ShouldEqual, "[ ]")
		So(NodeText(table.SortHeaderNode{Label: "Name"}), ShouldEqual, "Name")
		So(NodeText(table.SortHeaderNode{Label: "Name", Direction: table.SortAsc}), ShouldEqual, "Name ▲")
		So(NodeText(table.SortHeaderNode{Label: "Name", Direction: table.SortDesc}), ShouldEqual, "Name ▼")
		So(NodeText(table.MenuNode{}), ShouldEqual, "…")
		So(NodeText(nil), ShouldEqual, "")
	})
}

func TestText(t *testing.T) {
	Convey("文本渲染", t, func() {
		tbl := newTable(nil)

		Convey("表头、行和分页", func() {
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			So(tbl.ToggleRowSelected("2"), ShouldBeNil)
			out := Text(tbl.Render(), PlainStyles())
			lines := strings.Split(out, "\n")
			So(lines[0], ShouldContainSubstring, "[-]")
			So(lines[0], ShouldContainSubstring, "Name ▲")
			So(lines[0], ShouldContainSubstring, "Email")
			So(lines[1], ShouldStartWith, "---")
			So(lines[2], ShouldContainSubstring, "[x]")
			So(lines[2], ShouldContainSubstring, "Ann")
			So(lines[2], ShouldContainSubstring, "…")
			So(lines[3], ShouldContainSubstring, "Bob")
			So(out, ShouldNotContainSubstring, "Cid")
			So(out, ShouldContainSubstring, "1 of 3 row(s) selected.")
			So(out, ShouldContainSubstring, "Page 1 of 2")
			So(out, ShouldContainSubstring, "(Previous)")
			So(out, ShouldContainSubstring, "[Next]")

			// 列宽对齐
			So(strings.Index(lines[2], "|"), ShouldEqual, strings.Index(lines[0], "|"))
		})

		Convey("没有结果", func() {
			tbl.SetFilterValue("zzz")
			out := Text(tbl.Render(), PlainStyles())
			So(out, ShouldContainSubstring, table.NoResultsText)
			So(out, ShouldContainSubstring, "0 of 0 row(s) selected.")
		})

		Convey("菜单", func() {
			menu := tbl.Render().Rows[0].Cells[3].Node.(table.MenuNode)
			out := MenuText(menu, PlainStyles(), 1)
			So(out, ShouldEqual, "  View\n› Remove")
		})
	})
}

func TestTextInput(t *testing.T) {
	Convey("输入框", t, func() {
		input := NewTextInput("filter")
		var got []string
		unsubscribe := input.OnInput(func(v string) { got = append(got, v) })

		input.Focus()
		input.Update(key("a"))
		input.Update(key("n"))
		So(input.Value(), ShouldEqual, "an")
		So(got, ShouldResemble, []string{"a", "an"})

		input.SetValue("bob")
		So(input.Value(), ShouldEqual, "bob")
		So(got, ShouldHaveLength, 2)

		unsubscribe()
		input.Update(key("x"))
		So(got, ShouldHaveLength, 2)

		input.Blur()
		So(input.Focused(), ShouldBeFalse)
	})
}

func TestModel(t *testing.T) {
	Convey("交互", t, func() {
		input := NewTextInput("filter")
		tbl := newTable(input)
		m := NewModel(tbl, input, PlainStyles()).WithTitle("Members")

		update := func(keys ...string) tea.Cmd {
			var cmd tea.Cmd
			for _, k := range keys {
				_, cmd = m.Update(key(k))
			}
			return cmd
		}

		Convey("光标和选择", func() {
			update("down", "space")
			So(m.Cursor(), ShouldEqual, 1)
			So(tbl.IsRowSelected("2"), ShouldBeTrue)
			update("down", "down")
			So(m.Cursor(), ShouldEqual, 1)
			update("up", "up")
			So(m.Cursor(), ShouldEqual, 0)
		})

		Convey("全选", func() {
			update("a")
			So(tbl.SelectedRows(), ShouldHaveLength, 3)
			update("a")
			So(tbl.SelectedRows(), ShouldBeEmpty)
		})

		Convey("排序", func() {
			update("2")
			So(tbl.Sorting(), ShouldResemble, table.Sorting{ColumnID: "name"})
			update("2")
			So(tbl.Sorting(), ShouldResemble, table.Sorting{ColumnID: "name", Desc: true})
			update("3")
			So(errors.Is(m.Err(), table.ErrColumnNotSortable), ShouldBeTrue)
			So(m.View(), ShouldContainSubstring, "error:")
		})

		Convey("翻页", func() {
			update("right")
			So(tbl.PageIndex(), ShouldEqual, 1)
			update("left")
			So(tbl.PageIndex(), ShouldEqual, 0)
		})

		Convey("过滤", func() {
			update("/", "c", "i")
			So(input.Focused(), ShouldBeTrue)
			So(tbl.FilterValue(), ShouldEqual, "ci")
			So(tbl.FilteredRows(), ShouldHaveLength, 1)
			update("esc")
			So(input.Focused(), ShouldBeFalse)
			So(m.View(), ShouldContainSubstring, "Cid")
		})

		Convey("执行操作", func() {
			update("enter")
			So(m.Err(), ShouldBeNil)
			So(m.Status(), ShouldEqual, "View: done")

			update("tab", "enter")
			So(m.Err(), ShouldEqual, errRemove)
			view := m.View()
			So(view, ShouldContainSubstring, "error: cannot remove owner")
			So(view, ShouldContainSubstring, "action: Remove")
		})

		Convey("退出", func() {
			So(update("q"), ShouldNotBeNil)
		})

		Convey("其他消息忽略", func() {
			_, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
			So(cmd, ShouldBeNil)
			So(m.Init(), ShouldBeNil)
			So(m.View(), ShouldContainSubstring, "Members")
		})
	})
}
