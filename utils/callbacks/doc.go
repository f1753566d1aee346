// Package callbacks 提供开箱即用的回调处理器：基于 log/slog 的结构化日志，
// 以及基于 OpenTelemetry 的链路与指标。
//
// 使用示例：
//
//	logHandler := callbacks.NewLogHandler(slog.Default())
//	otelHandler, err := callbacks.NewOTelHandler(nil, nil)
//	if err != nil {
//		return err
//	}
//	result, err := graph.Execute(ctx, compose.WithCallbacks(logHandler, otelHandler))
package callbacks
