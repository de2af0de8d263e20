package table

import (
	"reflect"
	"strings"
	"sync"
)

// fieldCache 缓存结构体类型的字段索引，key 为 reflect.Type
var fieldCache sync.Map

type structFields struct {
	byTag  map[string][]int
	byJSON map[string][]int
	byName map[string][]int
}

// FieldValue 按 key 读取行中的字段
//   - 结构体依次匹配 table 标签、json 标签、字段名（不区分大小写）
//   - map[string]T 直接按 key 读取
//   - 指针自动解引用，key 可以用点号访问嵌套字段
//
// 字段不存在时返回 false
func FieldValue(row any, key string) (any, bool) {
	if key == "" {
		return nil, false
	}
	current := reflect.ValueOf(row)
	for _, part := range strings.Split(key, ".") {
		v, ok := field(current, part)
		if !ok {
			return nil, false
		}
		current = v
	}
	return value(current), true
}

func field(rv reflect.Value, key string) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Value{}, false
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return reflect.Value{}, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return reflect.Value{}, false
		}
		return v, true
	case reflect.Struct:
		index, ok := lookupField(rv.Type(), key)
		if !ok {
			return reflect.Value{}, false
		}
		v, err := rv.FieldByIndexErr(index)
		if err != nil {
			return reflect.Value{}, false
		}
		return v, true
	}
	return reflect.Value{}, false
}

// value 将字段转为 any，nil 指针和 nil 接口返回 nil，非 nil 指针解引用
func value(rv reflect.Value) any {
	for rv.IsValid() && (rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() || !rv.CanInterface() {
		return nil
	}
	return rv.Interface()
}

func lookupField(rt reflect.Type, key string) ([]int, bool) {
	fields := cachedFields(rt)
	if index, ok := fields.byTag[key]; ok {
		return index, true
	}
	if index, ok := fields.byJSON[key]; ok {
		return index, true
	}
	index, ok := fields.byName[strings.ToLower(key)]
	return index, ok
}

func cachedFields(rt reflect.Type) *structFields {
	if v, ok := fieldCache.Load(rt); ok {
		return v.(*structFields)
	}

	fields := &structFields{
		byTag:  map[string][]int{},
		byJSON: map[string][]int{},
		byName: map[string][]int{},
	}
	for _, f := range reflect.VisibleFields(rt) {
		if !f.IsExported() || f.Anonymous {
			continue
		}
		if name := tagName(f.Tag.Get("table")); name != "" {
			fields.byTag[name] = f.Index
		}
		if name := tagName(f.Tag.Get("json")); name != "" {
			fields.byJSON[name] = f.Index
		}
		lower := strings.ToLower(f.Name)
		// 外层字段优先于嵌入结构体的同名字段
		if old, ok := fields.byName[lower]; !ok || len(f.Index) < len(old) {
			fields.byName[lower] = f.Index
		}
	}

	v, _ := fieldCache.LoadOrStore(rt, fields)
	return v.(*structFields)
}

func tagName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}
