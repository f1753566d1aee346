package callbacks

import "context"

type ctxManagerKey struct{}

// GlobalHandlers 全局处理器，在每次运行中先于运行级处理器生效。
var GlobalHandlers []Handler

type manager struct {
	handlers []Handler
	runInfo  *RunInfo
}

func newManager(runInfo *RunInfo, handlers ...Handler) (*manager, bool) {
	if len(handlers)+len(GlobalHandlers) == 0 {
		return nil, false
	}

	hs := make([]Handler, 0, len(GlobalHandlers)+len(handlers))
	hs = append(hs, GlobalHandlers...)
	hs = append(hs, handlers...)

	return &manager{
		handlers: hs,
		runInfo:  runInfo,
	}, true
}

func (m *manager) withRunInfo(runInfo *RunInfo) *manager {
	n := *m
	n.runInfo = runInfo
	return &n
}

func managerFromCtx(ctx context.Context) (*manager, bool) {
	m, ok := ctx.Value(ctxManagerKey{}).(*manager)
	return m, ok && m != nil
}

func ctxWithManager(ctx context.Context, m *manager) context.Context {
	return context.WithValue(ctx, ctxManagerKey{}, m)
}

// InitCallbacks 以给定的运行信息和处理器初始化 ctx 中的回调管理器。
func InitCallbacks(ctx context.Context, info *RunInfo, handlers ...Handler) context.Context {
	m, ok := newManager(info, handlers...)
	if !ok {
		return ctxWithManager(ctx, nil)
	}
	return ctxWithManager(ctx, m)
}

// ReuseHandlers 沿用 ctx 中已有的处理器，替换运行信息。
// ctx 中没有管理器时仅使用全局处理器。
func ReuseHandlers(ctx context.Context, info *RunInfo) context.Context {
	m, ok := managerFromCtx(ctx)
	if !ok {
		return InitCallbacks(ctx, info)
	}
	return ctxWithManager(ctx, m.withRunInfo(info))
}

// RunInfoFromCtx 返回 ctx 中当前的运行信息。
func RunInfoFromCtx(ctx context.Context) (*RunInfo, bool) {
	m, ok := managerFromCtx(ctx)
	if !ok || m.runInfo == nil {
		return nil, false
	}
	return m.runInfo, true
}

func (m *manager) needed(ctx context.Context, timing CallbackTiming) []Handler {
	hs := make([]Handler, 0, len(m.handlers))
	for _, h := range m.handlers {
		checker, ok := h.(TimingChecker)
		if !ok || checker.Needed(ctx, m.runInfo, timing) {
			hs = append(hs, h)
		}
	}
	return hs
}

// OnStart 按注册顺序触发 OnStart。
func OnStart(ctx context.Context, input CallbackInput) context.Context {
	m, ok := managerFromCtx(ctx)
	if !ok {
		return ctx
	}
	for _, h := range m.needed(ctx, TimingOnStart) {
		ctx = h.OnStart(ctx, m.runInfo, input)
	}
	return ctx
}

// OnEnd 按注册的逆序触发 OnEnd，与 OnStart 形成嵌套。
func OnEnd(ctx context.Context, output CallbackOutput) context.Context {
	m, ok := managerFromCtx(ctx)
	if !ok {
		return ctx
	}
	hs := m.needed(ctx, TimingOnEnd)
	for i := len(hs) - 1; i >= 0; i-- {
		ctx = hs[i].OnEnd(ctx, m.runInfo, output)
	}
	return ctx
}

// OnError 按注册的逆序触发 OnError。
func OnError(ctx context.Context, err error) context.Context {
	m, ok := managerFromCtx(ctx)
	if !ok {
		return ctx
	}
	hs := m.needed(ctx, TimingOnError)
	for i := len(hs) - 1; i >= 0; i-- {
		ctx = hs[i].OnError(ctx, m.runInfo, err)
	}
	return ctx
}
