package generic

import "reflect"

// NewInstance 返回类型 T 的可用实例。
// map、slice 返回非 nil 的空值，指针（含多级指针）逐级分配，其余类型返回零值。
//
// 示例：
//
//	NewInstance[*Args]()        // &Args{}
//	NewInstance[map[string]any]() // map[string]any{}
func NewInstance[T any]() T {
	typ := TypeOf[T]()

	switch typ.Kind() {
	case reflect.Map:
		return reflect.MakeMap(typ).Interface().(T)
	case reflect.Slice:
		return reflect.MakeSlice(typ, 0, 0).Interface().(T)
	case reflect.Ptr:
		typ = typ.Elem()
		origin := reflect.New(typ)
		inst := origin

		for typ.Kind() == reflect.Ptr {
			typ = typ.Elem()
			inst = inst.Elem()
			inst.Set(reflect.New(typ))
		}

		return origin.Interface().(T)
	default:
		var t T
		return t
	}
}

// TypeOf 返回 T 的 reflect.Type，接口类型同样适用。
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// PtrOf 返回 v 的指针，便于为可选配置项赋值。
func PtrOf[T any](v T) *T {
	return &v
}

// IsNil 判断 v 是否为 nil，包括持有 nil 指针、nil 函数等的接口值。
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Func, reflect.Map, reflect.Slice, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	default:
		return false
	}
}
