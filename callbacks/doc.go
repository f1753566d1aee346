// Package callbacks 提供工作流执行过程中的观测回调。
//
// 回调只用于观测，不能改变执行流程：修改状态或中止执行请使用 compose 的钩子。
// 工作流整体、每个节点和路由都会触发 OnStart / OnEnd / OnError，
// 节点内部调用的组件（如聊天模型、工具）也可以通过 ReuseHandlers 与 OnStart 等函数接入同一组处理器。
//
// 用法：
//
//	handler := callbacks.NewHandlerBuilder().
//		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, input callbacks.CallbackInput) context.Context {
//			return ctx
//		}).
//		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
//			return ctx
//		}).
//		Build()
//
//	result, err := graph.Execute(ctx, compose.WithCallbacks(handler))
package callbacks
