package query

import (
	"fmt"
	"regexp"
	"strings"
)

// MatchQuery 全文搜索查询，字段的文本表示忽略大小写包含 Value 时匹配
type MatchQuery struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (q *MatchQuery) Type() QueryType {
	return QueryTypeMatch
}

func (q *MatchQuery) Match(doc Document) bool {
	v, ok := get(doc, q.Field)
	if !ok {
		return false
	}
	return contains(Text(v), Text(q.Value))
}

// ToES 使用 wildcard 实现子串匹配，保持与内存求值一致
func (q *MatchQuery) ToES() map[string]any {
	return map[string]any{
		"wildcard": map[string]any{
			q.Field: map[string]any{
				"value":            "*" + Text(q.Value) + "*",
				"case_insensitive": true,
			},
		},
	}
}

func (q *MatchQuery) ToSQL() (string, []any, error) {
	if err := CheckField(q.Field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", q.Field), []any{"%" + escapeLike(strings.ToLower(Text(q.Value))) + "%"}, nil
}

func (q *MatchQuery) ToMongo() (map[string]any, error) {
	return map[string]any{
		q.Field: map[string]any{
			"$regex":   regexp.QuoteMeta(Text(q.Value)),
			"$options": "i",
		},
	}, nil
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
