package query

import (
	"regexp"

	"github.com/pkg/errors"
)

// QueryType 查询类型
type QueryType string

const (
	QueryTypeBool     QueryType = "bool"
	QueryTypeTerm     QueryType = "term"
	QueryTypeMatch    QueryType = "match"
	QueryTypeRange    QueryType = "range"
	QueryTypeExists   QueryType = "exists"
	QueryTypeWildcard QueryType = "wildcard"
	QueryTypePrefix   QueryType = "prefix"
	QueryTypeRegexp   QueryType = "regexp"
)

// Query 查询节点接口
// Match 在内存中求值，ToES/ToSQL/ToMongo 用于下推到数据源
type Query interface {
	Type() QueryType
	Match(doc Document) bool
	ToES() map[string]any
	ToSQL() (string, []any, error)
	ToMongo() (map[string]any, error)
}

// Document 按字段名读取值，字段不存在时返回 false
type Document interface {
	Get(field string) (any, bool)
}

// DocumentFunc 函数形式的 Document
type DocumentFunc func(field string) (any, bool)

func (f DocumentFunc) Get(field string) (any, bool) {
	return f(field)
}

// MapDocument map 形式的 Document
type MapDocument map[string]any

func (d MapDocument) Get(field string) (any, bool) {
	v, ok := d[field]
	return v, ok
}

var ErrInvalidField = errors.New("invalid field name")

var fieldPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)*$`)

// CheckField 字段名会直接拼接到 SQL 中，只允许标识符
func CheckField(field string) error {
	if !fieldPattern.MatchString(field) {
		return errors.Wrapf(ErrInvalidField, "%q", field)
	}
	return nil
}

// get 读取字段，nil 值视为不存在
func get(doc Document, field string) (any, bool) {
	if doc == nil {
		return nil, false
	}
	v, ok := doc.Get(field)
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}
