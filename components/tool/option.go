package tool

// Option 工具的调用选项。
//
// 各工具实现在自己的包中定义选项结构体，再通过 WrapImplSpecificOptFn 包装，
// 在 InvokableRun 内用 GetImplSpecificOptions 取回。
type Option struct {
	implSpecificOptFn any
}

// WrapImplSpecificOptFn 将实现特定的选项函数包装为 Option。
//
// 示例：
//
//	func WithRegion(region string) tool.Option {
//		return tool.WrapImplSpecificOptFn(func(o *lookupOptions) {
//			o.region = region
//		})
//	}
func WrapImplSpecificOptFn[T any](optFn func(*T)) Option {
	return Option{
		implSpecificOptFn: optFn,
	}
}

// GetImplSpecificOptions 在 base 的基础上应用类型为 func(*T) 的选项，base 为 nil 时新建。
func GetImplSpecificOptions[T any](base *T, opts ...Option) *T {
	if base == nil {
		base = new(T)
	}

	for i := range opts {
		if optFn, ok := opts[i].implSpecificOptFn.(func(*T)); ok {
			optFn(base)
		}
	}

	return base
}
