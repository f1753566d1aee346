package callbacks

import (
	"context"

	"github.com/favbox/avalon/components"
)

// RunInfo 回调运行信息，描述正在被观测的对象。
type RunInfo struct {
	// Name 展示用名称，节点默认为节点 key，可通过 compose.WithNodeName 设置。
	Name string
	// Key 节点 key；工作流级别的回调中为空。
	Key string
	// Type 行为的实现类型名称。
	Type string
	// Component 组件类别，如 Graph、Node、Router、ChatModel。
	Component components.Component
	// Graph 所在工作流的名称。
	Graph string
}

// CallbackInput 组件交给回调的输入，具体类型由组件约定。
type CallbackInput any

// CallbackOutput 组件交给回调的输出，具体类型由组件约定。
type CallbackOutput any

// Handler 回调处理器。返回的 ctx 会传给同一次运行的后续回调。
type Handler interface {
	OnStart(ctx context.Context, info *RunInfo, input CallbackInput) context.Context
	OnEnd(ctx context.Context, info *RunInfo, output CallbackOutput) context.Context
	OnError(ctx context.Context, info *RunInfo, err error) context.Context
}

// CallbackTiming 回调时机。
type CallbackTiming uint8

// TimingChecker 由处理器可选实现，用于跳过不关心的时机。
type TimingChecker interface {
	Needed(ctx context.Context, info *RunInfo, timing CallbackTiming) bool
}

const (
	TimingOnStart CallbackTiming = iota
	TimingOnEnd
	TimingOnError
)
