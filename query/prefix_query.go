package query

import (
	"fmt"
	"regexp"
	"strings"
)

// PrefixQuery 前缀查询，忽略大小写
type PrefixQuery struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (q *PrefixQuery) Type() QueryType {
	return QueryTypePrefix
}

func (q *PrefixQuery) Match(doc Document) bool {
	v, ok := get(doc, q.Field)
	if !ok {
		return false
	}
	return strings.HasPrefix(strings.ToLower(Text(v)), strings.ToLower(q.Value))
}

func (q *PrefixQuery) ToES() map[string]any {
	return map[string]any{
		"prefix": map[string]any{
			q.Field: map[string]any{
				"value":            q.Value,
				"case_insensitive": true,
			},
		},
	}
}

func (q *PrefixQuery) ToSQL() (string, []any, error) {
	if err := CheckField(q.Field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("LOWER(%s) LIKE ? ESCAPE '!'", q.Field), []any{escapeLike(strings.ToLower(q.Value)) + "%"}, nil
}

func (q *PrefixQuery) ToMongo() (map[string]any, error) {
	return map[string]any{
		q.Field: map[string]any{
			"$regex":   "^" + regexp.QuoteMeta(q.Value),
			"$options": "i",
		},
	}, nil
}
