package callbacks

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/compose"
)

const instrumentationName = "github.com/favbox/avalon"

const (
	attrGraph     = attribute.Key("avalon.graph")
	attrNode      = attribute.Key("avalon.node")
	attrComponent = attribute.Key("avalon.component")
	attrType      = attribute.Key("avalon.type")
	attrStatus    = attribute.Key("avalon.status")
	attrDecision  = attribute.Key("avalon.decision")
)

type otelHandler struct {
	tracer trace.Tracer

	duration metric.Float64Histogram
	calls    metric.Int64Counter
	errors   metric.Int64Counter
}

// NewOTelHandler 创建 OpenTelemetry 处理器：每次工作流与节点执行对应一个 span，
// 节点 span 是工作流 span 的子 span；同时记录调用次数、错误次数与耗时。
//
// tracer 或 meter 为 nil 时使用全局 provider。
func NewOTelHandler(tracer trace.Tracer, meter metric.Meter) (callbacks.Handler, error) {
	if tracer == nil {
		tracer = otel.Tracer(instrumentationName)
	}
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	duration, err := meter.Float64Histogram(
		"avalon_run_duration_seconds",
		metric.WithDescription("Workflow and node run duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run duration histogram: %w", err)
	}

	calls, err := meter.Int64Counter(
		"avalon_run_calls_total",
		metric.WithDescription("Total workflow and node runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run calls counter: %w", err)
	}

	errs, err := meter.Int64Counter(
		"avalon_run_errors_total",
		metric.WithDescription("Total failed workflow and node runs"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run errors counter: %w", err)
	}

	h := &otelHandler{
		tracer:   tracer,
		duration: duration,
		calls:    calls,
		errors:   errs,
	}

	return callbacks.NewHandlerBuilder().
		OnStartFn(h.onStart).
		OnEndFn(h.onEnd).
		OnErrorFn(h.onError).
		Build(), nil
}

func (h *otelHandler) onStart(ctx context.Context, info *callbacks.RunInfo, _ callbacks.CallbackInput) context.Context {
	ctx, _ = h.tracer.Start(ctx, spanName(info),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(runInfoAttributes(info)...))
	return withStartTime(ctx)
}

func (h *otelHandler) onEnd(ctx context.Context, info *callbacks.RunInfo, output callbacks.CallbackOutput) context.Context {
	span := trace.SpanFromContext(ctx)
	attrs := runInfoAttributes(info)

	switch out := output.(type) {
	case *compose.Result:
		span.SetAttributes(attrStatus.String(string(out.Status)))
		attrs = append(attrs, attrStatus.String(string(out.Status)))
	case compose.Decision:
		span.SetAttributes(attrDecision.String(out.String()))
	}
	span.SetStatus(codes.Ok, "")
	span.End()

	h.record(ctx, attrs, false)
	return ctx
}

func (h *otelHandler) onError(ctx context.Context, info *callbacks.RunInfo, err error) context.Context {
	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	span.End()

	h.record(ctx, runInfoAttributes(info), true)
	return ctx
}

func (h *otelHandler) record(ctx context.Context, attrs []attribute.KeyValue, failed bool) {
	opt := metric.WithAttributes(attrs...)
	h.calls.Add(ctx, 1, opt)
	if failed {
		h.errors.Add(ctx, 1, opt)
	}
	h.duration.Record(ctx, elapsed(ctx).Seconds(), opt)
}

func spanName(info *callbacks.RunInfo) string {
	if info == nil {
		return "avalon.run"
	}
	return string(info.Component) + "." + info.Name
}

func runInfoAttributes(info *callbacks.RunInfo) []attribute.KeyValue {
	if info == nil {
		return nil
	}
	return []attribute.KeyValue{
		attrGraph.String(info.Graph),
		attrNode.String(info.Key),
		attrComponent.String(string(info.Component)),
		attrType.String(info.Type),
	}
}
