package gmap

// Concat 合并多个 map，键冲突时后者覆盖前者，总是返回新的 map。
//
// 示例：
//
//	m := Concat(map[string]any{"a": 1}, map[string]any{"a": 2, "b": 3}) // {"a": 2, "b": 3}
func Concat[K comparable, V any](ms ...map[K]V) map[K]V {
	var maxLen int
	for _, m := range ms {
		if len(m) > maxLen {
			maxLen = len(m)
		}
	}
	ret := make(map[K]V, maxLen)
	for _, m := range ms {
		for k, v := range m {
			ret[k] = v
		}
	}
	return ret
}

// Clone 浅拷贝 map，nil 输入返回 nil。
func Clone[K comparable, V any, M ~map[K]V](m M) M {
	if m == nil {
		return nil
	}
	r := make(M, len(m))
	for k, v := range m {
		r[k] = v
	}
	return r
}
