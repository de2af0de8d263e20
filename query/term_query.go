package query

import "fmt"

// TermQuery 精确匹配查询
type TermQuery struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (q *TermQuery) Type() QueryType {
	return QueryTypeTerm
}

func (q *TermQuery) Match(doc Document) bool {
	v, ok := get(doc, q.Field)
	if !ok || q.Value == nil {
		return false
	}
	return compare(v, q.Value) == 0
}

func (q *TermQuery) ToES() map[string]any {
	return map[string]any{
		"term": map[string]any{
			q.Field: q.Value,
		},
	}
}

func (q *TermQuery) ToSQL() (string, []any, error) {
	if err := CheckField(q.Field); err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s = ?", q.Field), []any{q.Value}, nil
}

func (q *TermQuery) ToMongo() (map[string]any, error) {
	return map[string]any{
		q.Field: q.Value,
	}, nil
}
