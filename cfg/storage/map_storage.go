package storage

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	durationType = reflect.TypeOf(time.Duration(0))
	timeType     = reflect.TypeOf(time.Time{})
	storageType  = reflect.TypeOf((*Storage)(nil)).Elem()
)

// MapStorage 基于 map 和 slice 的存储实现，decoder 解析出的数据都包装成 MapStorage
//
// ConvertTo 的字段映射规则：
//   - 字段名取 `cfg` 标签，没有标签时不区分大小写匹配字段名，`cfg:"-"` 跳过
//   - 源数据没有该字段时使用 `def` 标签的默认值
//   - 类型为 any 的字段保存为 *MapStorage，由使用方（如 ref）按需转换
type MapStorage struct {
	data any
}

func NewMapStorage(data any) *MapStorage {
	return &MapStorage{data: data}
}

// Data 获取存储的原始数据
func (ms *MapStorage) Data() any {
	return ms.data
}

func (ms *MapStorage) Sub(key string) Storage {
	if key == "" {
		return ms
	}

	current := ms.data
	for _, k := range parseKey(key) {
		current = lookup(current, k)
		if current == nil {
			break
		}
	}
	return NewMapStorage(current)
}

func (ms *MapStorage) ConvertTo(object any) error {
	rv := reflect.ValueOf(object)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return errors.Errorf("object must be a non-nil pointer, got %T", object)
	}
	return convert(ms.data, rv.Elem(), "")
}

func parseKey(key string) []string {
	var keys []string
	for _, part := range strings.Split(key, ".") {
		for part != "" {
			open := strings.IndexByte(part, '[')
			if open == -1 {
				keys = append(keys, part)
				break
			}
			if open > 0 {
				keys = append(keys, part[:open])
			}
			end := strings.IndexByte(part[open:], ']')
			if end == -1 {
				keys = append(keys, part[open+1:])
				break
			}
			keys = append(keys, part[open+1:open+end])
			part = part[open+end+1:]
		}
	}
	return keys
}

func lookup(data any, key string) any {
	switch v := data.(type) {
	case map[string]any:
		if val, ok := v[key]; ok {
			return val
		}
		for k, val := range v {
			if strings.EqualFold(k, key) {
				return val
			}
		}
	case []any:
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 || idx >= len(v) {
			return nil
		}
		return v[idx]
	}
	return nil
}

func convert(src any, dst reflect.Value, path string) error {
	if src == nil {
		// 空节点只填充结构体的默认值
		if dst.Kind() == reflect.Struct && dst.Type() != timeType {
			return convertStruct(map[string]any{}, dst, path)
		}
		if dst.Kind() == reflect.Ptr && dst.Type().Elem().Kind() == reflect.Struct && dst.Type().Elem() != timeType {
			if dst.IsNil() {
				dst.Set(reflect.New(dst.Type().Elem()))
			}
			return convertStruct(map[string]any{}, dst.Elem(), path)
		}
		return nil
	}

	if dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return convert(src, dst.Elem(), path)
	}

	switch dst.Type() {
	case durationType:
		return convertDuration(src, dst, path)
	case timeType:
		return convertTime(src, dst, path)
	}

	if dst.Kind() == reflect.Interface {
		switch {
		case dst.Type() == storageType:
			dst.Set(reflect.ValueOf(NewMapStorage(src)))
		case dst.Type().NumMethod() == 0:
			dst.Set(reflect.ValueOf(src))
		default:
			return errors.Errorf("%s: cannot convert to interface %v", path, dst.Type())
		}
		return nil
	}

	sv := reflect.ValueOf(src)
	switch dst.Kind() {
	case reflect.Struct:
		m, ok := src.(map[string]any)
		if !ok {
			return errors.Errorf("%s: expect object, got %T", path, src)
		}
		return convertStruct(m, dst, path)
	case reflect.Map:
		m, ok := src.(map[string]any)
		if !ok {
			return errors.Errorf("%s: expect object, got %T", path, src)
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMapWithSize(dst.Type(), len(m)))
		}
		for k, v := range m {
			key := reflect.New(dst.Type().Key()).Elem()
			if err := convertScalar(k, key, path); err != nil {
				return err
			}
			val := reflect.New(dst.Type().Elem()).Elem()
			if err := convert(v, val, join(path, k)); err != nil {
				return err
			}
			dst.SetMapIndex(key, val)
		}
		return nil
	case reflect.Slice:
		if sv.Kind() != reflect.Slice {
			// 单个值视为只有一个元素的数组
			sv = reflect.ValueOf([]any{src})
		}
		out := reflect.MakeSlice(dst.Type(), sv.Len(), sv.Len())
		for i := 0; i < sv.Len(); i++ {
			if err := convert(sv.Index(i).Interface(), out.Index(i), path+"["+strconv.Itoa(i)+"]"); err != nil {
				return err
			}
		}
		dst.Set(out)
		return nil
	}

	return convertScalar(src, dst, path)
}

func convertStruct(src map[string]any, dst reflect.Value, path string) error {
	dt := dst.Type()
	for i := 0; i < dt.NumField(); i++ {
		field := dt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("cfg")
		if name == "-" {
			continue
		}

		// 匿名结构体字段展开到当前层级
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			if err := convertStruct(src, dst.Field(i), path); err != nil {
				return err
			}
			continue
		}

		if name == "" {
			name = field.Name
		}

		val, ok := src[name]
		if !ok {
			for k, v := range src {
				if strings.EqualFold(k, name) {
					val, ok = v, true
					break
				}
			}
		}
		if !ok {
			def, hasDef := field.Tag.Lookup("def")
			if !hasDef {
				if field.Type.Kind() == reflect.Struct && field.Type != timeType {
					if err := convertStruct(map[string]any{}, dst.Field(i), join(path, name)); err != nil {
						return err
					}
				}
				continue
			}
			if err := applyDefault(def, dst.Field(i), join(path, name)); err != nil {
				return err
			}
			continue
		}
		// 结构体中的 any 字段保留配置节点，延迟转换
		if field.Type.Kind() == reflect.Interface && field.Type.NumMethod() == 0 {
			if val != nil {
				dst.Field(i).Set(reflect.ValueOf(NewMapStorage(val)))
			}
			continue
		}
		if err := convert(val, dst.Field(i), join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

// applyDefault 解析 def 标签，slice/map/struct 使用 json 格式
func applyDefault(def string, dst reflect.Value, path string) error {
	kind := dst.Kind()
	if kind == reflect.Ptr {
		kind = dst.Type().Elem().Kind()
	}
	switch kind {
	case reflect.Slice, reflect.Map, reflect.Struct:
		if dst.Type() != timeType {
			var v any
			if err := json.Unmarshal([]byte(def), &v); err != nil {
				return errors.Wrapf(err, "%s: invalid default %q", path, def)
			}
			return convert(v, dst, path)
		}
	}
	return convert(def, dst, path)
}

func convertScalar(src any, dst reflect.Value, path string) error {
	sv := reflect.ValueOf(src)
	if sv.Type().AssignableTo(dst.Type()) {
		dst.Set(sv)
		return nil
	}

	switch dst.Kind() {
	case reflect.String:
		switch v := src.(type) {
		case string:
			dst.SetString(v)
		case float64:
			dst.SetString(strconv.FormatFloat(v, 'f', -1, 64))
		default:
			dst.SetString(toString(src))
		}
		return nil
	case reflect.Bool:
		switch v := src.(type) {
		case bool:
			dst.SetBool(v)
			return nil
		case string:
			b, err := strconv.ParseBool(v)
			if err != nil {
				return errors.Wrapf(err, "%s: invalid bool %q", path, v)
			}
			dst.SetBool(b)
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if s, ok := src.(string); ok {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "%s: invalid int %q", path, s)
			}
			dst.SetInt(n)
			return nil
		}
		if sv.CanConvert(dst.Type()) && isNumber(sv.Kind()) {
			dst.Set(sv.Convert(dst.Type()))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if s, ok := src.(string); ok {
			n, err := strconv.ParseUint(s, 10, 64)
			if err != nil {
				return errors.Wrapf(err, "%s: invalid uint %q", path, s)
			}
			dst.SetUint(n)
			return nil
		}
		if sv.CanConvert(dst.Type()) && isNumber(sv.Kind()) {
			dst.Set(sv.Convert(dst.Type()))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		if s, ok := src.(string); ok {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return errors.Wrapf(err, "%s: invalid float %q", path, s)
			}
			dst.SetFloat(f)
			return nil
		}
		if sv.CanConvert(dst.Type()) && isNumber(sv.Kind()) {
			dst.Set(sv.Convert(dst.Type()))
			return nil
		}
	}

	return errors.Errorf("%s: cannot convert %T to %v", path, src, dst.Type())
}

func convertDuration(src any, dst reflect.Value, path string) error {
	switch v := src.(type) {
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid duration %q", path, v)
		}
		dst.SetInt(int64(d))
	case int:
		dst.SetInt(int64(v))
	case int64:
		dst.SetInt(v)
	case float64:
		// 数字视为秒
		dst.SetInt(int64(v * float64(time.Second)))
	case time.Duration:
		dst.SetInt(int64(v))
	default:
		return errors.Errorf("%s: cannot convert %T to time.Duration", path, src)
	}
	return nil
}

func convertTime(src any, dst reflect.Value, path string) error {
	switch v := src.(type) {
	case time.Time:
		dst.Set(reflect.ValueOf(v))
		return nil
	case string:
		for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if t, err := time.Parse(layout, v); err == nil {
				dst.Set(reflect.ValueOf(t))
				return nil
			}
		}
		return errors.Errorf("%s: invalid time %q", path, v)
	case int:
		dst.Set(reflect.ValueOf(time.Unix(int64(v), 0)))
		return nil
	case int64:
		dst.Set(reflect.ValueOf(time.Unix(v, 0)))
		return nil
	case float64:
		dst.Set(reflect.ValueOf(time.Unix(int64(v), 0)))
		return nil
	}
	return errors.Errorf("%s: cannot convert %T to time.Time", path, src)
}

func isNumber(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toString(v any) string {
	buf, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return strings.Trim(string(buf), `"`)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}
