package compose

import (
	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/internal/gmap"
)

type runOptions struct {
	maxSteps int
	handlers []callbacks.Handler
	values   map[string]any
}

// RunOption 单次执行的函数式选项。
//
// 使用示例：
//
//	result, err := graph.Execute(ctx,
//		compose.WithMaxSteps(20),
//		compose.WithValues(map[string]any{"alert": alert}),
//		compose.WithCallbacks(logHandler))
type RunOption func(o *runOptions)

// WithMaxSteps 设置本次运行最多访问的节点次数。
// 默认情况下，存在经过路由的环路时上限为节点数 + 10，无环的图不设上限。
func WithMaxSteps(n int) RunOption {
	return func(o *runOptions) {
		o.maxSteps = n
	}
}

// WithCallbacks 为本次运行追加回调处理器，在全局处理器之后触发。
func WithCallbacks(handlers ...callbacks.Handler) RunOption {
	return func(o *runOptions) {
		o.handlers = append(o.handlers, handlers...)
	}
}

// WithValues 设置本次运行的初始值，按键覆盖图的 WithInitialValues。
func WithValues(values map[string]any) RunOption {
	return func(o *runOptions) {
		o.values = gmap.Concat(o.values, values)
	}
}

func getRunOptions(opts ...RunOption) *runOptions {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
