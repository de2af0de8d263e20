package table

import (
	"fmt"
	"testing"
	"time"

	"github.com/hatlonely/tablex/log/logger"
	"github.com/hatlonely/tablex/query"
	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

type person struct {
	ID     string     `json:"id"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Age    int        `json:"age"`
	Joined *time.Time `json:"joined"`
}

func people(names ...string) []person {
	rows := make([]person, len(names))
	for i, name := range names {
		rows[i] = person{ID: fmt.Sprintf("p%d", i), Name: name, Email: fmt.Sprintf("%s@example.com", name), Age: 20 + i}
	}
	return rows
}

func personColumns() []Column[person] {
	return []Column[person]{
		NewSelectColumn[person](),
		NewSimpleColumn[person]("name", "Name", true, nil),
		NewSimpleColumn[person]("email", "Email", false, nil),
		NewSortableColumn[person]("age", "Age", nil),
	}
}

func newTable(rows []person, options *Options[person]) *Table[person] {
	if options.Logger == nil {
		options.Logger = logger.NewNop()
	}
	t, err := New(rows, personColumns(), options)
	So(err, ShouldBeNil)
	return t
}

func names(rows []Row[person]) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.Original.Name
	}
	return out
}

func ids(rows []Row[person]) []string {
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row.ID
	}
	return out
}

// fakeInput 模拟文本输入框，SetValue 不触发订阅回调
type fakeInput struct {
	value     string
	listeners map[int]func(string)
	next      int
}

func newFakeInput(value string) *fakeInput {
	return &fakeInput{value: value, listeners: map[int]func(string){}}
}

func (f *fakeInput) Value() string         { return f.value }
func (f *fakeInput) SetValue(value string) { f.value = value }

func (f *fakeInput) OnInput(fn func(string)) func() {
	id := f.next
	f.next++
	f.listeners[id] = fn
	return func() { delete(f.listeners, id) }
}

func (f *fakeInput) Type(value string) {
	f.value = value
	for _, fn := range f.listeners {
		fn(value)
	}
}

func TestNew(t *testing.T) {
	Convey("创建表格", t, func() {
		Convey("nil 选项使用默认值", func() {
			tbl, err := New(people("Ann"), personColumns(), nil)
			So(err, ShouldBeNil)
			opts := tbl.Options()
			So(opts.EnableSorting, ShouldBeTrue)
			So(opts.EnablePagination, ShouldBeTrue)
			So(opts.EnableCheckboxes, ShouldBeFalse)
			So(tbl.PageSize(), ShouldEqual, DefaultPageSize)
			So(opts.SelectAllScope, ShouldEqual, SelectAllFiltered)
		})

		Convey("过滤列不存在", func() {
			_, err := New(people("Ann"), personColumns(), &Options[person]{EnableColumnFilters: true, FilterColumn: "phone"})
			So(errors.Is(err, ErrColumnNotFound), ShouldBeTrue)

			_, err = New(people("Ann"), personColumns(), &Options[person]{EnableColumnFilters: true, FilterColumn: SelectColumnID})
			So(errors.Is(err, ErrColumnNotFound), ShouldBeTrue)
		})

		Convey("未开启过滤时忽略过滤列", func() {
			_, err := New(people("Ann"), personColumns(), &Options[person]{FilterColumn: "phone"})
			So(err, ShouldBeNil)
		})

		Convey("列 ID 重复", func() {
			columns := append(personColumns(), NewSimpleColumn[person]("name", "Again", false, nil))
			_, err := New(people("Ann"), columns, nil)
			So(errors.Is(err, ErrInvalidOptions), ShouldBeTrue)
		})

		Convey("列没有 ID", func() {
			_, err := New(people("Ann"), []Column[person]{{Header: "x"}}, nil)
			So(errors.Is(err, ErrInvalidOptions), ShouldBeTrue)
		})

		Convey("非法分页和全选范围", func() {
			_, err := New(people("Ann"), personColumns(), &Options[person]{EnablePagination: true, PageSize: -1})
			So(errors.Is(err, ErrInvalidOptions), ShouldBeTrue)
			_, err = New(people("Ann"), personColumns(), &Options[person]{SelectAllScope: "visible"})
			So(errors.Is(err, ErrInvalidOptions), ShouldBeTrue)
		})

		Convey("行 ID 重复", func() {
			rows := people("Ann", "Bob")
			rows[1].ID = rows[0].ID
			_, err := New(rows, personColumns(), nil)
			So(errors.Is(err, ErrDuplicateRowID), ShouldBeTrue)
		})

		Convey("行 ID", func() {
			tbl, err := New(people("Ann", "Bob"), personColumns(), nil)
			So(err, ShouldBeNil)
			So(ids(tbl.CoreRows()), ShouldResemble, []string{"p0", "p1"})

			type anon struct{ Name string }
			tbl2, err := New([]anon{{"a"}, {"b"}}, []Column[anon]{NewSimpleColumn[anon]("name", "Name", false, nil)}, nil)
			So(err, ShouldBeNil)
			So(tbl2.CoreRows()[1].ID, ShouldEqual, "1")

			tbl3, err := New(people("Ann"), personColumns(), &Options[person]{
				RowID: func(p person, _ int) string { return p.Email },
			})
			So(err, ShouldBeNil)
			So(tbl3.CoreRows()[0].ID, ShouldEqual, "Ann@example.com")
		})

		Convey("OnTableReady", func() {
			var ready *Table[person]
			tbl, err := New(people("Ann"), personColumns(), &Options[person]{
				OnTableReady: func(t *Table[person]) { ready = t },
			})
			So(err, ShouldBeNil)
			So(ready, ShouldEqual, tbl)
		})
	})
}

func TestSorting(t *testing.T) {
	Convey("排序", t, func() {
		tbl := newTable(people("Bob", "Ann", "Cid"), DefaultOptions[person]())

		Convey("升序", func() {
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Ann", "Bob", "Cid"})
			So(tbl.Sorting(), ShouldResemble, Sorting{ColumnID: "name"})
		})

		Convey("升序 -> 降序 -> 升序", func() {
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			asc := names(tbl.SortedRows())
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			desc := names(tbl.SortedRows())
			So(desc, ShouldResemble, []string{"Cid", "Bob", "Ann"})
			for i := range asc {
				So(desc[i], ShouldEqual, asc[len(asc)-1-i])
			}
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, asc)
		})

		Convey("排序幂等", func() {
			So(tbl.SetSorting("age", true), ShouldBeNil)
			first := ids(tbl.SortedRows())
			So(tbl.SetSorting("age", true), ShouldBeNil)
			So(ids(tbl.SortedRows()), ShouldResemble, first)
		})

		Convey("切换到其他列从升序开始", func() {
			So(tbl.SetSorting("name", true), ShouldBeNil)
			So(tbl.ToggleSorting("age"), ShouldBeNil)
			So(tbl.Sorting(), ShouldResemble, Sorting{ColumnID: "age"})
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Bob", "Ann", "Cid"})
		})

		Convey("不可排序的列", func() {
			So(errors.Is(tbl.ToggleSorting("email"), ErrColumnNotSortable), ShouldBeTrue)
			So(errors.Is(tbl.ToggleSorting(SelectColumnID), ErrColumnNotSortable), ShouldBeTrue)
			So(errors.Is(tbl.ToggleSorting("phone"), ErrColumnNotFound), ShouldBeTrue)
			So(tbl.Sorting(), ShouldResemble, Sorting{})
		})

		Convey("取消排序", func() {
			So(tbl.SetSorting("name", false), ShouldBeNil)
			So(tbl.SetSorting("", false), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Bob", "Ann", "Cid"})
		})

		Convey("关闭排序", func() {
			opts := DefaultOptions[person]()
			opts.EnableSorting = false
			tbl := newTable(people("Bob", "Ann"), opts)
			So(errors.Is(tbl.ToggleSorting("name"), ErrColumnNotSortable), ShouldBeTrue)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Bob", "Ann"})
		})

		Convey("相等的值保持原始顺序", func() {
			rows := people("Ann", "Bob", "Cid", "Dan")
			rows[0].Age, rows[1].Age, rows[2].Age, rows[3].Age = 30, 20, 30, 20
			tbl := newTable(rows, DefaultOptions[person]())
			So(tbl.SetSorting("age", false), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Bob", "Dan", "Ann", "Cid"})
			So(tbl.SetSorting("age", true), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Ann", "Cid", "Bob", "Dan"})
		})

		Convey("nil 值升序在前降序在后", func() {
			joined := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
			rows := people("Ann", "Bob", "Cid")
			rows[0].Joined = &joined
			rows[2].Joined = new(time.Time)
			*rows[2].Joined = joined.AddDate(-1, 0, 0)
			columns := append(personColumns(), NewSortableColumn[person]("joined", "Joined", nil))
			tbl, err := New(rows, columns, &Options[person]{EnableSorting: true, Logger: logger.NewNop()})
			So(err, ShouldBeNil)

			So(tbl.SetSorting("joined", false), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Bob", "Cid", "Ann"})
			So(tbl.SetSorting("joined", true), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Ann", "Cid", "Bob"})
		})

		Convey("自定义比较函数", func() {
			byLength := func(a, b any) int { return len(a.(string)) - len(b.(string)) }
			columns := []Column[person]{
				NewSortableColumn[person]("name", "Name", nil, WithComparator[person](byLength)),
			}
			tbl, err := New(people("Anna", "Bo", "Cid"), columns, nil)
			So(err, ShouldBeNil)
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Bo", "Cid", "Anna"})
		})
	})
}

func TestFiltering(t *testing.T) {
	Convey("过滤", t, func() {
		opts := DefaultOptions[person]()
		opts.EnableColumnFilters = true
		opts.FilterColumn = "name"
		tbl := newTable(people("Bob", "Ann", "Cid", "Joanna", "Dan"), opts)

		Convey("忽略大小写的子串匹配", func() {
			tbl.SetFilterValue("ann")
			So(names(tbl.FilteredRows()), ShouldResemble, []string{"Ann", "Joanna"})
			tbl.SetFilterValue("ANN")
			So(names(tbl.FilteredRows()), ShouldResemble, []string{"Ann", "Joanna"})
		})

		Convey("过滤结果是原始数据的保序子序列", func() {
			tbl.SetFilterValue("n")
			filtered := tbl.FilteredRows()
			So(names(filtered), ShouldResemble, []string{"Ann", "Joanna", "Dan"})
			included := map[string]bool{}
			last := -1
			for _, row := range filtered {
				So(row.Index, ShouldBeGreaterThan, last)
				last = row.Index
				included[row.ID] = true
			}
			for _, row := range tbl.CoreRows() {
				So(tbl.FilterQuery().Match(tbl.document(row)), ShouldEqual, included[row.ID])
			}
		})

		Convey("空文本不过滤", func() {
			tbl.SetFilterValue("ann")
			tbl.SetFilterValue("")
			So(tbl.FilteredRows(), ShouldHaveLength, 5)
			So(tbl.FilterQuery(), ShouldBeNil)
		})

		Convey("FilterQuery", func() {
			tbl.SetFilterValue("bo")
			q := tbl.FilterQuery()
			So(q, ShouldNotBeNil)
			sql, args, err := q.ToSQL()
			So(err, ShouldBeNil)
			So(sql, ShouldEqual, "LOWER(name) LIKE ? ESCAPE '!'")
			So(args, ShouldResemble, []any{"%bo%"})
		})

		Convey("过滤后排序", func() {
			tbl.SetFilterValue("n")
			So(tbl.SetSorting("name", true), ShouldBeNil)
			So(names(tbl.SortedRows()), ShouldResemble, []string{"Joanna", "Dan", "Ann"})
		})

		Convey("缺失的字段不匹配", func() {
			rows := []map[string]any{{"id": "1", "name": "Ann"}, {"id": "2"}, {"id": "3", "name": nil}}
			columns := []Column[map[string]any]{NewSimpleColumn[map[string]any]("name", "Name", true, nil)}
			tbl, err := New(rows, columns, &Options[map[string]any]{EnableColumnFilters: true, FilterColumn: "name"})
			So(err, ShouldBeNil)
			tbl.SetFilterValue("a")
			So(tbl.FilteredRows(), ShouldHaveLength, 1)
		})

		Convey("未开启过滤时忽略", func() {
			tbl := newTable(people("Bob", "Ann"), DefaultOptions[person]())
			tbl.SetFilterValue("ann")
			So(tbl.FilterValue(), ShouldEqual, "")
			So(tbl.FilteredRows(), ShouldHaveLength, 2)
		})

		Convey("自定义取值函数参与过滤", func() {
			columns := []Column[person]{
				NewSimpleColumn[person]("label", "Label", false, nil, WithAccessor(func(p person) (any, bool) {
					return p.Name + " <" + p.Email + ">", true
				})),
			}
			tbl, err := New(people("Ann", "Bob"), columns, &Options[person]{EnableColumnFilters: true, FilterColumn: "label"})
			So(err, ShouldBeNil)
			tbl.SetFilterValue("bob@")
			So(names(tbl.FilteredRows()), ShouldResemble, []string{"Bob"})
		})

		Convey("列 ID 与字段名不同", func() {
			type nicknamed struct {
				ID       string `json:"id"`
				Name     string `json:"name"`
				Nickname string `json:"nickname"`
			}
			rows := []nicknamed{{ID: "1", Name: "Ann", Nickname: "zed"}, {ID: "2", Name: "Bob", Nickname: "ann"}}

			Convey("过滤列读取自己的字段", func() {
				columns := []Column[nicknamed]{
					{ID: "name", Key: "nickname", Header: "Nickname"},
					{ID: "full", Key: "name", Header: "Name"},
				}
				tbl, err := New(rows, columns, &Options[nicknamed]{EnableColumnFilters: true, FilterColumn: "full"})
				So(err, ShouldBeNil)
				tbl.SetFilterValue("ann")
				filtered := tbl.FilteredRows()
				So(filtered, ShouldHaveLength, 1)
				So(filtered[0].Original.Name, ShouldEqual, "Ann")

				q := tbl.FilterQuery().(*query.MatchQuery)
				So(q.Field, ShouldEqual, "name")
			})

			Convey("过滤列使用自己的取值函数", func() {
				column := NewSimpleColumn[nicknamed]("name", "Display", false, nil, WithAccessor(func(n nicknamed) (any, bool) {
					return n.Nickname, true
				}))
				column.ID = "display"
				tbl, err := New(rows, []Column[nicknamed]{column}, &Options[nicknamed]{EnableColumnFilters: true, FilterColumn: "display"})
				So(err, ShouldBeNil)
				tbl.SetFilterValue("zed")
				filtered := tbl.FilteredRows()
				So(filtered, ShouldHaveLength, 1)
				So(filtered[0].ID, ShouldEqual, "1")
			})
		})
	})
}

func TestFilterInput(t *testing.T) {
	Convey("绑定输入框", t, func() {
		input := newFakeInput("cid")
		opts := DefaultOptions[person]()
		opts.EnableColumnFilters = true
		opts.FilterColumn = "name"
		opts.FilterInput = input
		tbl := newTable(people("Bob", "Ann", "Cid"), opts)

		Convey("初始化时读取输入框的值", func() {
			So(tbl.FilterValue(), ShouldEqual, "cid")
			So(names(tbl.FilteredRows()), ShouldResemble, []string{"Cid"})
		})

		Convey("输入时更新过滤条件", func() {
			input.Type("b")
			So(tbl.FilterValue(), ShouldEqual, "b")
			So(names(tbl.FilteredRows()), ShouldResemble, []string{"Bob"})
		})

		Convey("过滤条件变化时回写输入框", func() {
			tbl.SetFilterValue("an")
			So(input.Value(), ShouldEqual, "an")
		})

		Convey("Close 后不再响应输入", func() {
			So(tbl.Close(), ShouldBeNil)
			So(input.listeners, ShouldBeEmpty)
			input.Type("b")
			So(tbl.FilterValue(), ShouldEqual, "cid")
			So(tbl.Close(), ShouldBeNil)
		})
	})
}

func TestPagination(t *testing.T) {
	Convey("分页", t, func() {
		opts := DefaultOptions[person]()
		opts.PageSize = 2
		opts.EnableColumnFilters = true
		opts.FilterColumn = "name"
		tbl := newTable(people("Bob", "Ann", "Cid"), opts)
		So(tbl.SetSorting("name", false), ShouldBeNil)

		Convey("按页切分", func() {
			So(tbl.PageCount(), ShouldEqual, 2)
			So(names(tbl.PageRows()), ShouldResemble, []string{"Ann", "Bob"})
			So(tbl.CanPreviousPage(), ShouldBeFalse)
			So(tbl.CanNextPage(), ShouldBeTrue)

			tbl.NextPage()
			So(names(tbl.PageRows()), ShouldResemble, []string{"Cid"})
			So(tbl.CanNextPage(), ShouldBeFalse)
			tbl.NextPage()
			So(tbl.PageIndex(), ShouldEqual, 1)

			tbl.PreviousPage()
			tbl.PreviousPage()
			So(tbl.PageIndex(), ShouldEqual, 0)
		})

		Convey("所有页拼接等于排序结果", func() {
			tbl := newTable(people("g", "c", "a", "f", "b", "e", "d"), &Options[person]{EnableSorting: true, EnablePagination: true, PageSize: 3})
			So(tbl.ToggleSorting("name"), ShouldBeNil)
			var all []Row[person]
			for i := 0; i < tbl.PageCount(); i++ {
				tbl.SetPageIndex(i)
				all = append(all, tbl.PageRows()...)
			}
			So(tbl.PageCount(), ShouldEqual, 3)
			So(ids(all), ShouldResemble, ids(tbl.SortedRows()))
		})

		Convey("页码超出范围时修正", func() {
			tbl.SetPageIndex(10)
			So(tbl.PageIndex(), ShouldEqual, 1)
			tbl.SetPageIndex(-1)
			So(tbl.PageIndex(), ShouldEqual, 0)
		})

		Convey("过滤条件变化回到第一页", func() {
			tbl.NextPage()
			tbl.SetFilterValue("i")
			So(tbl.PageIndex(), ShouldEqual, 0)
			So(names(tbl.PageRows()), ShouldResemble, []string{"Cid"})
		})

		Convey("修改每页行数", func() {
			tbl.NextPage()
			So(tbl.SetPageSize(1), ShouldBeNil)
			So(tbl.PageIndex(), ShouldEqual, 2)
			So(names(tbl.PageRows()), ShouldResemble, []string{"Cid"})
			So(tbl.SetPageSize(5), ShouldBeNil)
			So(tbl.PageIndex(), ShouldEqual, 0)
			So(errors.Is(tbl.SetPageSize(0), ErrInvalidOptions), ShouldBeTrue)
		})

		Convey("数据变少时修正页码", func() {
			tbl.NextPage()
			So(tbl.SetData(people("Ann")), ShouldBeNil)
			So(tbl.PageIndex(), ShouldEqual, 0)
		})

		Convey("没有数据时只有一页", func() {
			So(tbl.SetData(nil), ShouldBeNil)
			So(tbl.PageCount(), ShouldEqual, 1)
			So(tbl.PageRows(), ShouldBeEmpty)
			So(tbl.CanNextPage(), ShouldBeFalse)
		})

		Convey("关闭分页", func() {
			tbl := newTable(people("a", "b", "c"), &Options[person]{PageSize: 1})
			So(tbl.PageRows(), ShouldHaveLength, 3)
			So(tbl.PageCount(), ShouldEqual, 1)
		})
	})
}

func TestSelection(t *testing.T) {
	Convey("行选择", t, func() {
		opts := DefaultOptions[person]()
		opts.EnableCheckboxes = true
		opts.EnableColumnFilters = true
		opts.FilterColumn = "name"
		opts.PageSize = 2
		tbl := newTable(people("Bob", "Ann", "Cid", "Joanna"), opts)

		Convey("切换单行", func() {
			So(tbl.ToggleRowSelected("p1"), ShouldBeNil)
			So(tbl.IsRowSelected("p1"), ShouldBeTrue)
			So(names(tbl.SelectedRows()), ShouldResemble, []string{"Ann"})
			So(tbl.ToggleRowSelected("p1"), ShouldBeNil)
			So(tbl.SelectedRows(), ShouldBeEmpty)
			So(errors.Is(tbl.ToggleRowSelected("nope"), ErrRowNotFound), ShouldBeTrue)
		})

		Convey("全选过滤后的行", func() {
			tbl.SetFilterValue("n")
			tbl.ToggleAllRowsSelected(true)
			So(ids(tbl.SelectedRows()), ShouldResemble, ids(tbl.FilteredRows()))
			So(tbl.IsAllRowsSelected(), ShouldBeTrue)
			So(tbl.IsSomeRowsSelected(), ShouldBeFalse)

			tbl.ToggleAllRowsSelected(false)
			So(tbl.SelectedRows(), ShouldBeEmpty)
		})

		Convey("全选不影响范围外已选中的行", func() {
			So(tbl.SetRowSelected("p0", true), ShouldBeNil)
			tbl.SetFilterValue("ann")
			tbl.ToggleAllRowsSelected(true)
			So(names(tbl.SelectedRows()), ShouldResemble, []string{"Bob", "Ann", "Joanna"})
			So(names(tbl.FilteredSelectedRows()), ShouldResemble, []string{"Ann", "Joanna"})
			tbl.ToggleAllRowsSelected(false)
			So(names(tbl.SelectedRows()), ShouldResemble, []string{"Bob"})
		})

		Convey("部分选中", func() {
			So(tbl.SetRowSelected("p2", true), ShouldBeNil)
			So(tbl.IsAllRowsSelected(), ShouldBeFalse)
			So(tbl.IsSomeRowsSelected(), ShouldBeTrue)
		})

		Convey("选择与排序过滤分页无关", func() {
			So(tbl.SetRowSelected("p3", true), ShouldBeNil)
			So(tbl.SetSorting("name", true), ShouldBeNil)
			tbl.NextPage()
			tbl.SetFilterValue("bob")
			So(tbl.IsRowSelected("p3"), ShouldBeTrue)
		})

		Convey("按页全选", func() {
			opts.SelectAllScope = SelectAllPage
			tbl := newTable(people("Bob", "Ann", "Cid"), opts)
			tbl.ToggleAllRowsSelected(true)
			So(names(tbl.SelectedRows()), ShouldResemble, []string{"Bob", "Ann"})
			So(tbl.IsAllRowsSelected(), ShouldBeTrue)
			tbl.NextPage()
			So(tbl.IsAllRowsSelected(), ShouldBeFalse)
			So(tbl.IsSomeRowsSelected(), ShouldBeFalse)
		})

		Convey("全选所有行", func() {
			opts.SelectAllScope = SelectAllRows
			tbl := newTable(people("Bob", "Ann", "Cid"), opts)
			tbl.SetFilterValue("bob")
			tbl.ToggleAllRowsSelected(true)
			So(tbl.SelectedRows(), ShouldHaveLength, 3)
		})

		Convey("更新数据时清理不存在的行", func() {
			So(tbl.SetRowSelected("p0", true), ShouldBeNil)
			So(tbl.SetRowSelected("p3", true), ShouldBeNil)
			So(tbl.SetData(people("Bob", "Ann")), ShouldBeNil)
			So(tbl.State().Selection, ShouldResemble, map[string]bool{"p0": true})
		})

		Convey("未开启复选框时忽略", func() {
			tbl := newTable(people("Bob", "Ann"), DefaultOptions[person]())
			So(tbl.ToggleRowSelected("p0"), ShouldBeNil)
			tbl.ToggleAllRowsSelected(true)
			So(tbl.SelectedRows(), ShouldBeEmpty)
		})

		Convey("空表不是全选", func() {
			So(tbl.SetData(nil), ShouldBeNil)
			So(tbl.IsAllRowsSelected(), ShouldBeFalse)
		})
	})
}

func TestVisibility(t *testing.T) {
	Convey("列可见性", t, func() {
		tbl := newTable(people("Ann"), DefaultOptions[person]())

		So(tbl.SetColumnVisibility("email", false), ShouldBeNil)
		So(tbl.IsColumnVisible("email"), ShouldBeFalse)
		So(tbl.VisibleColumns(), ShouldHaveLength, 3)

		So(errors.Is(tbl.SetColumnVisibility(SelectColumnID, false), ErrColumnNotHideable), ShouldBeTrue)
		So(errors.Is(tbl.SetColumnVisibility("phone", false), ErrColumnNotFound), ShouldBeTrue)

		So(tbl.SetColumnVisibility("email", true), ShouldBeNil)
		So(tbl.VisibleColumns(), ShouldHaveLength, 4)
		So(tbl.State().Visibility, ShouldBeEmpty)
	})
}

func TestInvokeAction(t *testing.T) {
	Convey("操作菜单", t, func() {
		errRemove := errors.New("remove failed")
		var copied []string
		columns := append(personColumns(), NewActionsColumn(
			Action[person]{Label: "Copy email", Handler: func(p person) error {
				copied = append(copied, p.Email)
				return nil
			}},
			Action[person]{Label: "Remove", Destructive: true, Handler: func(p person) error { return errRemove }},
			Action[person]{Label: "Noop"},
		))
		tbl, err := New(people("Ann", "Bob"), columns, &Options[person]{Logger: logger.NewNop()})
		So(err, ShouldBeNil)

		So(tbl.InvokeAction("p1", 0), ShouldBeNil)
		So(copied, ShouldResemble, []string{"Bob@example.com"})

		// 处理函数的错误原样返回
		So(tbl.InvokeAction("p0", 1), ShouldEqual, errRemove)
		So(tbl.InvokeAction("p0", 2), ShouldBeNil)

		So(errors.Is(tbl.InvokeAction("p9", 0), ErrRowNotFound), ShouldBeTrue)
		So(errors.Is(tbl.InvokeAction("p0", 3), ErrActionNotFound), ShouldBeTrue)

		Convey("没有操作列", func() {
			tbl := newTable(people("Ann"), DefaultOptions[person]())
			So(errors.Is(tbl.InvokeAction("p0", 0), ErrColumnNotFound), ShouldBeTrue)
		})

		Convey("处理函数的 panic 不被捕获", func() {
			columns := []Column[person]{NewActionsColumn(Action[person]{Label: "Boom", Handler: func(person) error { panic("boom") }})}
			tbl, err := New(people("Ann"), columns, nil)
			So(err, ShouldBeNil)
			So(func() { _ = tbl.InvokeAction("p0", 0) }, ShouldPanicWith, "boom")
		})
	})
}
