package ref

import (
	"fmt"
	"reflect"
	"sync"
)

// TypeOptions 通过 namespace + type 定位构造函数，Options 为构造参数
// Options 可以是构造函数需要的参数类型本身，也可以是实现了 Convertable 的配置节点
type TypeOptions struct {
	Namespace string `cfg:"namespace"`
	Type      string `cfg:"type"`
	Options   any    `cfg:"options"`
}

// Convertable 可以转换成任意结构的配置数据
// 配置系统中的 Storage 实现了该接口，registry 会将其转换为构造函数的参数类型
type Convertable interface {
	ConvertTo(object any) error
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

type constructor struct {
	fn           reflect.Value
	paramType    reflect.Type
	returnsError bool
}

func newConstructor(fn any) (*constructor, error) {
	fv := reflect.ValueOf(fn)
	if fv.Kind() != reflect.Func {
		return nil, fmt.Errorf("constructor must be a function, got %T", fn)
	}

	ft := fv.Type()
	if ft.NumIn() > 1 {
		return nil, fmt.Errorf("constructor must have 0 or 1 input parameters, got %d", ft.NumIn())
	}
	if ft.NumOut() != 1 && ft.NumOut() != 2 {
		return nil, fmt.Errorf("constructor must have 1 or 2 return values, got %d", ft.NumOut())
	}
	if ft.NumOut() == 2 && !ft.Out(1).Implements(errorType) {
		return nil, fmt.Errorf("second return value must be error type")
	}

	c := &constructor{
		fn:           fv,
		returnsError: ft.NumOut() == 2,
	}
	if ft.NumIn() == 1 {
		c.paramType = ft.In(0)
	}
	return c, nil
}

func (c *constructor) call(options any) (any, error) {
	var args []reflect.Value
	if c.paramType != nil {
		arg, err := c.prepare(options)
		if err != nil {
			return nil, err
		}
		args = []reflect.Value{arg}
	}

	results := c.fn.Call(args)
	if c.returnsError && !results[1].IsNil() {
		return nil, results[1].Interface().(error)
	}
	return results[0].Interface(), nil
}

// prepare 将 options 转成构造函数的参数
//   - nil: 参数类型的零值（指针类型则分配一个零值对象）
//   - Convertable: 转换成参数类型
//   - 其他: 要求类型可以直接赋值
func (c *constructor) prepare(options any) (reflect.Value, error) {
	pt := c.paramType

	if options == nil {
		if pt.Kind() == reflect.Ptr {
			return reflect.New(pt.Elem()), nil
		}
		return reflect.Zero(pt), nil
	}

	if conv, ok := options.(Convertable); ok {
		// 构造函数本身就需要一个 Convertable
		if reflect.TypeOf(options).AssignableTo(pt) {
			return reflect.ValueOf(options), nil
		}
		if pt.Kind() == reflect.Ptr {
			target := reflect.New(pt.Elem())
			if err := conv.ConvertTo(target.Interface()); err != nil {
				return reflect.Value{}, fmt.Errorf("failed to convert options to %v: %w", pt, err)
			}
			return target, nil
		}
		target := reflect.New(pt)
		if err := conv.ConvertTo(target.Interface()); err != nil {
			return reflect.Value{}, fmt.Errorf("failed to convert options to %v: %w", pt, err)
		}
		return target.Elem(), nil
	}

	ov := reflect.ValueOf(options)
	if !ov.Type().AssignableTo(pt) {
		return reflect.Value{}, fmt.Errorf("options type %v is not assignable to %v", ov.Type(), pt)
	}
	return ov, nil
}

var (
	mu           sync.RWMutex
	constructors = map[string]*constructor{}
	// 注册时的原始函数，用于判断重复注册
	originals = map[string]uintptr{}
)

func key(namespace string, type_ string) string {
	return namespace + ":" + type_
}

// Register 注册构造函数，同一个 key 重复注册同一个函数时忽略，注册不同函数时报错
func Register(namespace string, type_ string, fn any) error {
	c, err := newConstructor(fn)
	if err != nil {
		return fmt.Errorf("failed to register %s:%s: %w", namespace, type_, err)
	}

	k := key(namespace, type_)
	ptr := c.fn.Pointer()

	mu.Lock()
	defer mu.Unlock()
	if old, ok := originals[k]; ok {
		if old == ptr {
			return nil
		}
		return fmt.Errorf("constructor for %s already registered with different function", k)
	}
	constructors[k] = c
	originals[k] = ptr
	return nil
}

// RegisterT 以 T 的包路径和类型名作为 namespace 和 type 注册
func RegisterT[T any](fn any) error {
	namespace, type_, err := typeKey[T]()
	if err != nil {
		return err
	}
	return Register(namespace, type_, fn)
}

func MustRegister(namespace string, type_ string, fn any) {
	if err := Register(namespace, type_, fn); err != nil {
		panic(err)
	}
}

func MustRegisterT[T any](fn any) {
	if err := RegisterT[T](fn); err != nil {
		panic(err)
	}
}

// New 调用 namespace:type 对应的构造函数
func New(namespace string, type_ string, options any) (any, error) {
	k := key(namespace, type_)

	mu.RLock()
	c, ok := constructors[k]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("constructor not found for %s", k)
	}

	return c.call(options)
}

// NewWithOptions 根据 TypeOptions 创建对象
func NewWithOptions(options *TypeOptions) (any, error) {
	if options == nil {
		return nil, fmt.Errorf("type options is nil")
	}
	return New(options.Namespace, options.Type, options.Options)
}

// NewT 以 T 的包路径和类型名查找构造函数，并将结果断言为 T
func NewT[T any](options any) (T, error) {
	var zero T
	namespace, type_, err := typeKey[T]()
	if err != nil {
		return zero, err
	}

	obj, err := New(namespace, type_, options)
	if err != nil {
		return zero, err
	}

	result, ok := obj.(T)
	if !ok {
		return zero, fmt.Errorf("created object %T is not of type %T", obj, zero)
	}
	return result, nil
}

func typeKey[T any]() (string, string, error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.PkgPath() == "" || t.Name() == "" {
		return "", "", fmt.Errorf("cannot determine package path or type name for type %v", t)
	}
	return t.PkgPath(), t.Name(), nil
}
