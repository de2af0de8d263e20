package query

import (
	"fmt"
	"strings"
)

// BoolQuery 布尔查询
// 没有 Must 和 Filter 时 Should 至少匹配一个，否则 Should 只在设置 MinShouldMatch 时生效
type BoolQuery struct {
	Must           []Query `json:"must,omitempty"`
	Should         []Query `json:"should,omitempty"`
	MustNot        []Query `json:"must_not,omitempty"`
	Filter         []Query `json:"filter,omitempty"`
	MinShouldMatch *int    `json:"minimum_should_match,omitempty"`
}

// And 所有条件都满足，忽略 nil 条件
func And(queries ...Query) Query {
	var must []Query
	for _, q := range queries {
		if q != nil {
			must = append(must, q)
		}
	}
	switch len(must) {
	case 0:
		return nil
	case 1:
		return must[0]
	}
	return &BoolQuery{Must: must}
}

func (q *BoolQuery) Type() QueryType {
	return QueryTypeBool
}

func (q *BoolQuery) Match(doc Document) bool {
	for _, sub := range q.Must {
		if !sub.Match(doc) {
			return false
		}
	}
	for _, sub := range q.Filter {
		if !sub.Match(doc) {
			return false
		}
	}
	for _, sub := range q.MustNot {
		if sub.Match(doc) {
			return false
		}
	}

	minShould := q.minShouldMatch()
	if minShould == 0 {
		return true
	}
	matched := 0
	for _, sub := range q.Should {
		if sub.Match(doc) {
			matched++
			if matched >= minShould {
				return true
			}
		}
	}
	return false
}

func (q *BoolQuery) minShouldMatch() int {
	if q.MinShouldMatch != nil {
		return *q.MinShouldMatch
	}
	if len(q.Should) > 0 && len(q.Must) == 0 && len(q.Filter) == 0 {
		return 1
	}
	return 0
}

func (q *BoolQuery) ToES() map[string]any {
	boolQuery := make(map[string]any)

	for name, queries := range map[string][]Query{
		"must":     q.Must,
		"should":   q.Should,
		"must_not": q.MustNot,
		"filter":   q.Filter,
	} {
		if len(queries) == 0 {
			continue
		}
		items := make([]any, len(queries))
		for i, query := range queries {
			items[i] = query.ToES()
		}
		boolQuery[name] = items
	}

	if q.MinShouldMatch != nil {
		boolQuery["minimum_should_match"] = *q.MinShouldMatch
	}

	return map[string]any{"bool": boolQuery}
}

func toSQLList(queries []Query, wrap string) ([]string, []any, error) {
	conditions := make([]string, 0, len(queries))
	var args []any
	for _, query := range queries {
		sql, queryArgs, err := query.ToSQL()
		if err != nil {
			return nil, nil, err
		}
		if wrap != "" {
			sql = fmt.Sprintf(wrap, sql)
		}
		conditions = append(conditions, sql)
		args = append(args, queryArgs...)
	}
	return conditions, args, nil
}

func (q *BoolQuery) ToSQL() (string, []any, error) {
	var conditions []string
	var args []any

	for _, queries := range [][]Query{q.Must, q.Filter} {
		if len(queries) == 0 {
			continue
		}
		list, listArgs, err := toSQLList(queries, "")
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, "("+strings.Join(list, " AND ")+")")
		args = append(args, listArgs...)
	}

	if minShould := q.minShouldMatch(); len(q.Should) > 0 && minShould > 0 {
		if minShould == 1 {
			list, listArgs, err := toSQLList(q.Should, "")
			if err != nil {
				return "", nil, err
			}
			conditions = append(conditions, "("+strings.Join(list, " OR ")+")")
			args = append(args, listArgs...)
		} else {
			// 条件计数
			list, listArgs, err := toSQLList(q.Should, "CASE WHEN (%s) THEN 1 ELSE 0 END")
			if err != nil {
				return "", nil, err
			}
			conditions = append(conditions, fmt.Sprintf("(%s) >= %d", strings.Join(list, " + "), minShould))
			args = append(args, listArgs...)
		}
	}

	if len(q.MustNot) > 0 {
		list, listArgs, err := toSQLList(q.MustNot, "NOT (%s)")
		if err != nil {
			return "", nil, err
		}
		conditions = append(conditions, "("+strings.Join(list, " AND ")+")")
		args = append(args, listArgs...)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " AND "), args, nil
}

func toMongoList(queries []Query) ([]any, error) {
	conditions := make([]any, 0, len(queries))
	for _, query := range queries {
		condition, err := query.ToMongo()
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, condition)
	}
	return conditions, nil
}

func (q *BoolQuery) ToMongo() (map[string]any, error) {
	var andConditions []any

	for _, queries := range [][]Query{q.Must, q.Filter} {
		list, err := toMongoList(queries)
		if err != nil {
			return nil, err
		}
		andConditions = append(andConditions, list...)
	}

	if minShould := q.minShouldMatch(); len(q.Should) > 0 && minShould > 0 {
		orConditions, err := toMongoList(q.Should)
		if err != nil {
			return nil, err
		}
		if minShould == 1 {
			andConditions = append(andConditions, map[string]any{"$or": orConditions})
		} else {
			condArray := make([]any, len(orConditions))
			for i, condition := range orConditions {
				condArray[i] = map[string]any{"$cond": []any{condition, 1, 0}}
			}
			andConditions = append(andConditions, map[string]any{
				"$expr": map[string]any{
					"$gte": []any{map[string]any{"$add": condArray}, minShould},
				},
			})
		}
	}

	if len(q.MustNot) > 0 {
		norConditions, err := toMongoList(q.MustNot)
		if err != nil {
			return nil, err
		}
		andConditions = append(andConditions, map[string]any{"$nor": norConditions})
	}

	switch len(andConditions) {
	case 0:
		return map[string]any{}, nil
	case 1:
		return andConditions[0].(map[string]any), nil
	}
	return map[string]any{"$and": andConditions}, nil
}
