package compose

import "github.com/favbox/avalon/internal/gmap"

// graphAddNodeOpts 添加节点时的选项。
type graphAddNodeOpts struct {
	// nodeName 展示名称，不要求唯一
	nodeName string
	// options 节点选项，原样传给该节点的钩子，核心不做解释
	options map[string]any

	preHooks  []PreNodeHook
	postHooks []PostNodeHook
}

// GraphAddNodeOpt 添加节点的函数式选项。
//
// 使用示例：
//
//	graph.AddNode("fetch", fetchNode,
//		compose.WithNodeName("拉取告警"),
//		compose.WithNodeOptions(map[string]any{"timeout": "5s"}),
//		compose.WithPreNodeHooks(audit))
type GraphAddNodeOpt func(o *graphAddNodeOpts)

// WithNodeName 设置节点的展示名称，用于图示和回调。
func WithNodeName(n string) GraphAddNodeOpt {
	return func(o *graphAddNodeOpts) {
		o.nodeName = n
	}
}

// WithNodeOptions 设置节点选项，多次设置时按键合并。
func WithNodeOptions(opts map[string]any) GraphAddNodeOpt {
	return func(o *graphAddNodeOpts) {
		o.options = gmap.Concat(o.options, opts)
	}
}

// WithPreNodeHooks 追加节点的 pre 钩子，按添加顺序执行。
func WithPreNodeHooks(hooks ...PreNodeHook) GraphAddNodeOpt {
	return func(o *graphAddNodeOpts) {
		o.preHooks = append(o.preHooks, hooks...)
	}
}

// WithPostNodeHooks 追加节点的 post 钩子，按添加顺序执行。
func WithPostNodeHooks(hooks ...PostNodeHook) GraphAddNodeOpt {
	return func(o *graphAddNodeOpts) {
		o.postHooks = append(o.postHooks, hooks...)
	}
}

func getGraphAddNodeOpts(opts ...GraphAddNodeOpt) *graphAddNodeOpts {
	o := &graphAddNodeOpts{
		options: map[string]any{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
