package callbacks

import (
	"context"

	"github.com/favbox/avalon/internal/callbacks"
)

// RunInfo 回调运行信息。
type RunInfo = callbacks.RunInfo

// CallbackInput 组件交给回调的输入。
//
// 节点与路由的输入为 *compose.State，工作流的输入为初始 *compose.State，
// 聊天模型的输入为 []*schema.Message。
type CallbackInput = callbacks.CallbackInput

// CallbackOutput 组件交给回调的输出。
//
// 普通节点输出 *compose.State，路由输出 compose.Decision，工作流输出 *compose.Result。
type CallbackOutput = callbacks.CallbackOutput

// Handler 回调处理器。
type Handler = callbacks.Handler

// CallbackTiming 回调时机。
type CallbackTiming = callbacks.CallbackTiming

const (
	TimingOnStart = callbacks.TimingOnStart
	TimingOnEnd   = callbacks.TimingOnEnd
	TimingOnError = callbacks.TimingOnError
)

// TimingChecker 处理器可选实现，返回 false 的时机会被跳过。
// 通过 HandlerBuilder 构建的处理器自动实现该接口。
type TimingChecker = callbacks.TimingChecker

// AppendGlobalHandlers 追加全局处理器，全局处理器先于运行级处理器触发。
// 非线程安全，只应在进程初始化时调用。
func AppendGlobalHandlers(handlers ...Handler) {
	callbacks.GlobalHandlers = append(callbacks.GlobalHandlers, handlers...)
}

// InitCallbacks 以给定的运行信息和处理器初始化 ctx。
func InitCallbacks(ctx context.Context, info *RunInfo, handlers ...Handler) context.Context {
	return callbacks.InitCallbacks(ctx, info, handlers...)
}

// ReuseHandlers 沿用 ctx 中的处理器并替换运行信息，常用于节点内部调用的组件。
func ReuseHandlers(ctx context.Context, info *RunInfo) context.Context {
	return callbacks.ReuseHandlers(ctx, info)
}

// OnStart 触发 ctx 中处理器的 OnStart。
func OnStart(ctx context.Context, input CallbackInput) context.Context {
	return callbacks.OnStart(ctx, input)
}

// OnEnd 触发 ctx 中处理器的 OnEnd。
func OnEnd(ctx context.Context, output CallbackOutput) context.Context {
	return callbacks.OnEnd(ctx, output)
}

// OnError 触发 ctx 中处理器的 OnError。
func OnError(ctx context.Context, err error) context.Context {
	return callbacks.OnError(ctx, err)
}
