package table

import (
	"strings"
	"sync"

	"github.com/hatlonely/tablex/query"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Comparator 比较两个单元格的值，返回负数、0、正数
type Comparator func(a, b any) int

var (
	collatorMu sync.Mutex
	collator   = collate.New(language.English, collate.IgnoreCase)
)

func compareString(a, b string) int {
	collatorMu.Lock()
	c := collator.CompareString(a, b)
	collatorMu.Unlock()
	if c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

// DefaultComparator 默认比较规则
//   - nil 最小
//   - 数字按数值比较
//   - time.Time 以及双方都是 RFC3339 字符串时按时间先后比较
//   - bool 中 false < true
//   - 字符串按英文排序规则比较，忽略大小写，相同时再区分大小写
//   - 其他类型按文本表示比较
func DefaultComparator(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	if x, ok := query.Number(a); ok {
		if y, ok := query.Number(b); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	}
	if x, ok := query.Time(a); ok {
		if y, ok := query.Time(b); ok {
			return x.Compare(y)
		}
	}
	if x, ok := a.(bool); ok {
		if y, ok := b.(bool); ok {
			switch {
			case x == y:
				return 0
			case !x:
				return -1
			}
			return 1
		}
	}
	return compareString(query.Text(a), query.Text(b))
}
