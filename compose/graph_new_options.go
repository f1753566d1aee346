package compose

import "github.com/favbox/avalon/internal/gmap"

type newGraphOptions struct {
	name          string
	metadata      map[string]any
	initialValues map[string]any

	preWorkflowHooks  []PreWorkflowHook
	postWorkflowHooks []PostWorkflowHook
}

// NewGraphOption 创建图的函数式选项。
type NewGraphOption func(o *newGraphOptions)

// WithGraphName 设置图的名称，用于图示与回调。
func WithGraphName(name string) NewGraphOption {
	return func(o *newGraphOptions) {
		o.name = name
	}
}

// WithMetadata 设置图的元数据。核心不解释元数据，只将其作为 opts 传给工作流级钩子。
func WithMetadata(metadata map[string]any) NewGraphOption {
	return func(o *newGraphOptions) {
		o.metadata = gmap.Concat(o.metadata, metadata)
	}
}

// WithInitialValues 设置每次运行的初始状态，每次运行都会得到一份独立的拷贝。
func WithInitialValues(values map[string]any) NewGraphOption {
	return func(o *newGraphOptions) {
		o.initialValues = gmap.Concat(o.initialValues, values)
	}
}

// WithPreWorkflowHooks 追加工作流 pre 钩子。
func WithPreWorkflowHooks(hooks ...PreWorkflowHook) NewGraphOption {
	return func(o *newGraphOptions) {
		o.preWorkflowHooks = append(o.preWorkflowHooks, hooks...)
	}
}

// WithPostWorkflowHooks 追加工作流 post 钩子。
func WithPostWorkflowHooks(hooks ...PostWorkflowHook) NewGraphOption {
	return func(o *newGraphOptions) {
		o.postWorkflowHooks = append(o.postWorkflowHooks, hooks...)
	}
}
