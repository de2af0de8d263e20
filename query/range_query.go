package query

import (
	"fmt"
	"strings"
)

// RangeQuery 范围查询，数字按数值比较，时间按先后比较
type RangeQuery struct {
	Field string         `json:"field"`
	Gt    any            `json:"gt,omitempty"`
	Gte   any            `json:"gte,omitempty"`
	Lt    any            `json:"lt,omitempty"`
	Lte   any            `json:"lte,omitempty"`
	Extra map[string]any `json:"extra,omitempty"`
}

func (q *RangeQuery) Type() QueryType {
	return QueryTypeRange
}

func (q *RangeQuery) Match(doc Document) bool {
	v, ok := get(doc, q.Field)
	if !ok {
		return false
	}
	if q.Gt != nil && compare(v, q.Gt) <= 0 {
		return false
	}
	if q.Gte != nil && compare(v, q.Gte) < 0 {
		return false
	}
	if q.Lt != nil && compare(v, q.Lt) >= 0 {
		return false
	}
	if q.Lte != nil && compare(v, q.Lte) > 0 {
		return false
	}
	return true
}

func (q *RangeQuery) ToES() map[string]any {
	rangeQuery := make(map[string]any)

	if q.Gt != nil {
		rangeQuery["gt"] = q.Gt
	}
	if q.Gte != nil {
		rangeQuery["gte"] = q.Gte
	}
	if q.Lt != nil {
		rangeQuery["lt"] = q.Lt
	}
	if q.Lte != nil {
		rangeQuery["lte"] = q.Lte
	}
	// format、time_zone 等
	for k, v := range q.Extra {
		rangeQuery[k] = v
	}

	return map[string]any{
		"range": map[string]any{
			q.Field: rangeQuery,
		},
	}
}

func (q *RangeQuery) ToSQL() (string, []any, error) {
	if err := CheckField(q.Field); err != nil {
		return "", nil, err
	}

	var conditions []string
	var args []any
	for _, c := range []struct {
		op    string
		value any
	}{{">", q.Gt}, {">=", q.Gte}, {"<", q.Lt}, {"<=", q.Lte}} {
		if c.value == nil {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s %s ?", q.Field, c.op))
		args = append(args, c.value)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}

func (q *RangeQuery) ToMongo() (map[string]any, error) {
	condition := make(map[string]any)

	if q.Gt != nil {
		condition["$gt"] = q.Gt
	}
	if q.Gte != nil {
		condition["$gte"] = q.Gte
	}
	if q.Lt != nil {
		condition["$lt"] = q.Lt
	}
	if q.Lte != nil {
		condition["$lte"] = q.Lte
	}

	return map[string]any{
		q.Field: condition,
	}, nil
}
