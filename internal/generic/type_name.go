package generic

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

var (
	regOfAnonymousFunc = regexp.MustCompile(`^func[0-9]+`)
	regOfNumber        = regexp.MustCompile(`^\d+$`)
)

// TypeName 返回行为值的类型标识，用于图的展示与回调信息。
// 指针会被解引用；具名函数与方法值返回函数名，
// 匿名函数返回其函数类型的名称，函数类型未命名时返回空串。
//
// 示例:
//
//	TypeName(&FetchNode{})                   // "FetchNode"
//	TypeName(strings.ToUpper)                // "ToUpper"
//	TypeName(n.Fetch)                        // "Fetch"
//	TypeName(compose.NodeFunc(func(...){}))  // "NodeFunc"
//	TypeName(func() {})                      // ""
func TypeName(v any) string {
	if v == nil {
		return ""
	}
	val := reflect.ValueOf(v)
	typ := val.Type()

	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}

	if typ.Kind() != reflect.Func {
		return typ.Name()
	}

	// 具名函数类型（如 compose.NodeFunc）只能从 PC 中取到真实的函数名
	if val.IsNil() {
		return typ.Name()
	}
	funcName := runtime.FuncForPC(val.Pointer()).Name()
	idx := strings.LastIndex(funcName, ".")
	if idx < 0 {
		return funcName
	}

	name := strings.TrimSuffix(funcName[idx+1:], "-fm")
	if regOfAnonymousFunc.MatchString(name) || regOfNumber.MatchString(name) {
		return typ.Name()
	}
	return name
}
