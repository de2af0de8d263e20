package page

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/hatlonely/tablex/query"
	"github.com/hatlonely/tablex/table"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// timeCell 相对时间，例如 "3 days ago"，值不存在时显示 empty
func timeCell[T any](now func() time.Time, empty string) table.CellFunc[T] {
	return func(ctx table.CellContext[T]) table.Node {
		t, ok := query.Time(ctx.Value)
		if !ctx.Present || !ok || t.IsZero() {
			return table.TextNode{Text: empty}
		}
		return table.TextNode{Text: humanize.RelTime(t, now(), "ago", "from now")}
	}
}

func titleCell[T any](ctx table.CellContext[T]) table.Node {
	if !ctx.Present || ctx.Value == nil {
		return table.TextNode{}
	}
	return table.TextNode{Text: cases.Title(language.English).String(query.Text(ctx.Value))}
}

func boolCell[T any](ctx table.CellContext[T]) table.Node {
	if v, ok := ctx.Value.(bool); ok && v {
		return table.TextNode{Text: "Yes"}
	}
	return table.TextNode{Text: "No"}
}
