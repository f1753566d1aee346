package callbacks

import (
	"context"
	"log/slog"

	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/compose"
)

// NewLogHandler 创建结构化日志处理器，logger 为 nil 时使用 slog.Default()。
//
// 节点的开始与结束记为 Debug，工作流结束记为 Info，任何错误记为 Error。
// 每条记录都带有 graph、node、name、kind、type 字段，结束与出错记录带有 duration。
func NewLogHandler(logger *slog.Logger) callbacks.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return callbacks.NewHandlerBuilder().
		OnStartFn(func(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
			logger.DebugContext(ctx, "run_start", runInfoAttrs(info)...)
			return withStartTime(ctx)
		}).
		OnEndFn(func(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
			level := slog.LevelDebug
			attrs := append(runInfoAttrs(info), slog.Duration("duration", elapsed(ctx)))

			switch out := output.(type) {
			case *compose.Result:
				level = slog.LevelInfo
				attrs = append(attrs, slog.String("status", string(out.Status)), slog.Int("steps", len(out.Path)))
				if out.HaltedAt != "" {
					attrs = append(attrs, slog.String("halted_at", out.HaltedAt))
				}
			case compose.Decision:
				attrs = append(attrs, slog.String("decision", out.String()))
			}

			logger.Log(ctx, level, "run_end", attrs...)
			return ctx
		}).
		OnErrorFn(func(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
			attrs := append(runInfoAttrs(info),
				slog.Duration("duration", elapsed(ctx)),
				slog.Any("error", err))
			logger.ErrorContext(ctx, "run_error", attrs...)
			return ctx
		}).
		Build()
}

func runInfoAttrs(info *callbacks.RunInfo) []any {
	if info == nil {
		return nil
	}
	return []any{
		slog.String("graph", info.Graph),
		slog.String("node", info.Key),
		slog.String("name", info.Name),
		slog.String("kind", string(info.Component)),
		slog.String("type", info.Type),
	}
}
