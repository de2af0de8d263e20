package query

import (
	"fmt"
	"regexp"
	"strings"
)

// WildcardQuery 通配符查询，* 匹配任意数量字符，? 匹配单个字符
type WildcardQuery struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (q *WildcardQuery) Type() QueryType {
	return QueryTypeWildcard
}

func (q *WildcardQuery) Match(doc Document) bool {
	v, ok := get(doc, q.Field)
	if !ok {
		return false
	}
	return regexp.MustCompile("(?is)" + q.pattern()).MatchString(Text(v))
}

func (q *WildcardQuery) ToES() map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			q.Field: q.Value,
		},
	}
}

func (q *WildcardQuery) ToSQL() (string, []any, error) {
	if err := CheckField(q.Field); err != nil {
		return "", nil, err
	}
	var sb strings.Builder
	for _, r := range q.Value {
		switch r {
		case '*':
			sb.WriteByte('%')
		case '?':
			sb.WriteByte('_')
		case '!', '%', '_':
			sb.WriteByte('!')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return fmt.Sprintf("%s LIKE ? ESCAPE '!'", q.Field), []any{sb.String()}, nil
}

func (q *WildcardQuery) ToMongo() (map[string]any, error) {
	return map[string]any{
		q.Field: map[string]any{
			"$regex":   q.pattern(),
			"$options": "i",
		},
	}, nil
}

// pattern 转换为锚定的正则表达式，其他字符原样转义
func (q *WildcardQuery) pattern() string {
	var sb strings.Builder
	sb.WriteByte('^')
	for _, r := range q.Value {
		switch r {
		case '*':
			sb.WriteString(".*")
		case '?':
			sb.WriteByte('.')
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteByte('$')
	return sb.String()
}
