package query

import (
	"fmt"
	"regexp"
)

// RegexpQuery 正则表达式查询，忽略大小写
type RegexpQuery struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

func (q *RegexpQuery) Type() QueryType {
	return QueryTypeRegexp
}

// Match 非法的正则表达式不匹配任何文档
func (q *RegexpQuery) Match(doc Document) bool {
	v, ok := get(doc, q.Field)
	if !ok {
		return false
	}
	re, err := regexp.Compile("(?i)" + q.Value)
	if err != nil {
		return false
	}
	return re.MatchString(Text(v))
}

func (q *RegexpQuery) ToES() map[string]any {
	return map[string]any{
		"regexp": map[string]any{
			q.Field: map[string]any{
				"value":            q.Value,
				"case_insensitive": true,
			},
		},
	}
}

// ToSQL 使用 REGEXP 关键字，mysql 原生支持，sqlite 需要注册 regexp 函数
func (q *RegexpQuery) ToSQL() (string, []any, error) {
	if err := CheckField(q.Field); err != nil {
		return "", nil, err
	}
	if _, err := regexp.Compile(q.Value); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s REGEXP ?", q.Field), []any{q.Value}, nil
}

func (q *RegexpQuery) ToMongo() (map[string]any, error) {
	if _, err := regexp.Compile(q.Value); err != nil {
		return nil, err
	}
	return map[string]any{
		q.Field: map[string]any{
			"$regex":   q.Value,
			"$options": "i",
		},
	}, nil
}
