package compose

/*
 * graph_run.go - 图执行器
 *
 * 一次运行的状态流转：Idle → Running → Completed | Halted | Failed
 *
 * 执行流程：
 *   1. 校验图结构（构建错误或校验失败直接以 Failed 结束），独立计算唯一根节点
 *   2. 执行工作流 pre 钩子
 *   3. 从根节点深度优先遍历：
 *      - 普通节点：pre 钩子 → 输入校验 → Execute → post 钩子 → 按添加顺序依次走出边
 *      - 路由节点：pre 钩子 → Route → post 钩子 → 按决策继续或终止
 *   4. 遍历完整结束后执行工作流 post 钩子
 *
 * 扇出分支串行执行，第一个终止或失败的分支结束整个运行，其余分支不再执行。
 */

import (
	"context"
	"fmt"

	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/components"
	"github.com/favbox/avalon/internal/gmap"
)

// Status 运行状态。
type Status string

const (
	StatusIdle      Status = "Idle"
	StatusRunning   Status = "Running"
	StatusCompleted Status = "Completed"
	StatusHalted    Status = "Halted"
	StatusFailed    Status = "Failed"
)

// IsTerminal 是否为终止状态。
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusHalted || s == StatusFailed
}

// Result 一次运行的结果。
type Result struct {
	Status Status
	// State 运行结束时的状态。校验失败时为 nil。
	State *State
	// HaltResult 路由以 Halt(result) 终止时携带的结果；经由 HALT 边或路由目标终止时为 nil。
	HaltResult any
	// HaltedAt 发出终止的节点。
	HaltedAt string
	// Path 按访问顺序记录的节点，同一节点可能出现多次。
	Path []string
	// Err 失败原因，仅 Failed 时非空。
	Err error
}

// Execute 在 g 上执行一次完整运行。
//
// 返回的错误仅在运行以 Failed 结束时非空，此时与 Result.Err 相同；
// Halted 不是错误。同一个已校验的图可以被多个协程同时执行，每次运行拥有独立的 State。
func Execute(ctx context.Context, g *Graph, opts ...RunOption) (*Result, error) {
	return g.Execute(ctx, opts...)
}

// Execute 见包级函数 Execute。
func (g *Graph) Execute(ctx context.Context, opts ...RunOption) (*Result, error) {
	o := getRunOptions(opts...)
	result := &Result{Status: StatusIdle}

	if err := g.Validate(); err != nil {
		return result.fail(nil, err)
	}

	// 校验通过后结构已冻结，以下只读访问无需加锁
	roots := g.roots()
	switch {
	case len(roots) == 0:
		return result.fail(nil, newStructuralError(KindNoRoot, ""))
	case len(roots) > 1:
		return result.fail(nil, newStructuralError(KindMultipleRoots, "", roots...))
	}

	maxSteps := o.maxSteps
	if maxSteps <= 0 && g.routeCycle {
		maxSteps = len(g.nodes) + 10
	}

	r := &runner{
		g:        g,
		maxSteps: maxSteps,
	}

	state := newState(g, gmap.Concat(g.initialValues, o.values))
	ctx = initGraphCallbacks(ctx, g, o.handlers)
	ctx = callbacks.OnStart(ctx, state)

	result.Status = StatusRunning
	result, err := r.run(ctx, roots[0], state, result)
	if err != nil {
		_ = callbacks.OnError(ctx, err)
		return result, err
	}
	_ = callbacks.OnEnd(ctx, result)
	return result, nil
}

// initGraphCallbacks 未指定运行级处理器时沿用 ctx 中已有的处理器，
// 使节点内部执行的子图与外层图共享同一组处理器。
func initGraphCallbacks(ctx context.Context, g *Graph, handlers []callbacks.Handler) context.Context {
	info := &callbacks.RunInfo{
		Name:      g.name,
		Type:      string(components.ComponentOfGraph),
		Component: components.ComponentOfGraph,
		Graph:     g.name,
	}
	if len(handlers) == 0 {
		return callbacks.ReuseHandlers(ctx, info)
	}
	return callbacks.InitCallbacks(ctx, info, handlers...)
}

func (r *Result) fail(state *State, err error) (*Result, error) {
	r.Status = StatusFailed
	r.State = state
	r.Err = err
	return r, err
}

// runner 一次运行的可变部分，不在运行之间共享。
type runner struct {
	g *Graph

	path     []string
	steps    int
	maxSteps int

	haltedAt   string
	haltResult any
}

func (r *runner) run(ctx context.Context, root string, state *State, result *Result) (*Result, error) {
	g := r.g

	state, err := runPreWorkflowHooks(ctx, g.preWorkflowHooks, state, g.metadata)
	if err != nil {
		return r.finish(result, state).fail(state, err)
	}

	state, halted, err := r.visit(ctx, root, state)
	if err != nil {
		return r.finish(result, state).fail(state, err)
	}
	if halted {
		result = r.finish(result, state)
		result.Status = StatusHalted
		result.HaltedAt = r.haltedAt
		result.HaltResult = r.haltResult
		return result, nil
	}

	result = r.finish(result, state)
	result.Status = StatusCompleted
	state, err = runPostWorkflowHooks(ctx, g.postWorkflowHooks, state, result, g.metadata)
	if err != nil {
		return result.fail(state, err)
	}
	result.State = state
	return result, nil
}

func (r *runner) finish(result *Result, state *State) *Result {
	result.State = state
	result.Path = append([]string(nil), r.path...)
	return result
}

// visit 执行 key 及其下游，返回最新状态以及是否已终止。
func (r *runner) visit(ctx context.Context, key string, state *State) (*State, bool, error) {
	select {
	case <-ctx.Done():
		return state, false, newExecutionError(PhaseTraverse, key, -1,
			fmt.Errorf("context has been canceled: %w", ctx.Err()))
	default:
	}

	r.steps++
	if r.maxSteps > 0 && r.steps > r.maxSteps {
		return state, false, newExecutionError(PhaseTraverse, key, -1,
			fmt.Errorf("%w: %d", ErrExceedMaxSteps, r.maxSteps))
	}

	gn := r.g.nodes[key]
	r.path = append(r.path, key)

	nodeCtx := callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      gn.displayName(),
		Key:       key,
		Type:      gn.typ,
		Component: gn.kind.component(),
		Graph:     r.g.name,
	})
	nodeCtx = callbacks.OnStart(nodeCtx, state)

	var (
		next   []string
		halted bool
		output callbacks.CallbackOutput
		err    error
	)
	switch gn.kind {
	case NodeKindRouter:
		var d Decision
		state, d, next, err = r.route(nodeCtx, gn, state)
		halted = d.IsHalt()
		output = d
	default:
		state, err = r.execute(nodeCtx, gn, state)
		next = r.g.successors[key]
		output = state
	}
	if err != nil {
		_ = callbacks.OnError(nodeCtx, err)
		return state, false, err
	}
	_ = callbacks.OnEnd(nodeCtx, output)

	if halted {
		return state, true, nil
	}

	for _, succ := range next {
		if succ == HALT {
			r.haltedAt = key
			return state, true, nil
		}
		state, halted, err = r.visit(ctx, succ, state)
		if err != nil || halted {
			return state, halted, err
		}
	}
	return state, false, nil
}

func (r *runner) execute(ctx context.Context, gn *graphNode, state *State) (*State, error) {
	opts := gn.opts.options

	state, err := runPreNodeHooks(ctx, gn.opts.preHooks, state, gn.key, opts)
	if err != nil {
		return state, err
	}

	if validator, ok := gn.node.(InputValidator); ok {
		err = safeCall(func() error {
			return validator.ValidateInput(ctx, state)
		})
		if err != nil {
			return state, newExecutionError(PhaseValidateInput, gn.key, -1, err)
		}
	}

	var out *State
	err = safeCall(func() error {
		var e error
		out, e = gn.node.Execute(ctx, state)
		return e
	})
	if err != nil {
		return state, newExecutionError(PhaseExecute, gn.key, -1, err)
	}
	state = r.adopt(state, out)

	return runPostNodeHooks(ctx, gn.opts.postHooks, state, gn.key, state, opts)
}

// route 执行路由节点，返回决策与下一跳。
func (r *runner) route(ctx context.Context, gn *graphNode, state *State) (*State, Decision, []string, error) {
	opts := gn.opts.options

	state, err := runPreNodeHooks(ctx, gn.opts.preHooks, state, gn.key, opts)
	if err != nil {
		return state, Decision{}, nil, err
	}

	var d Decision
	err = safeCall(func() error {
		var e error
		d, e = gn.router.Route(ctx, state)
		return e
	})
	if err != nil {
		return state, Decision{}, nil, newExecutionError(PhaseRoute, gn.key, -1, err)
	}

	target, err := r.resolve(gn.key, d)
	if err != nil {
		return state, Decision{}, nil, newExecutionError(PhaseRoute, gn.key, -1, err)
	}

	state, err = runPostNodeHooks(ctx, gn.opts.postHooks, state, gn.key, d, opts)
	if err != nil {
		return state, Decision{}, nil, err
	}

	if d.IsHalt() {
		r.haltedAt = gn.key
		r.haltResult = d.Result()
		return state, d, nil, nil
	}
	return state, d, []string{target}, nil
}

// resolve 将继续决策解析为目标节点。next 先按结果标签查找，再按路由表声明的目标查找。
func (r *runner) resolve(router string, d Decision) (string, error) {
	switch {
	case d.IsHalt():
		return "", nil
	case !d.IsContinue():
		return "", newRoutingAmbiguity(router, "returned an invalid decision")
	}

	table := r.g.routes[router]
	if target, ok := table.Get(d.Next()); ok {
		return target, nil
	}
	for pair := table.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value == d.Next() {
			return pair.Value, nil
		}
	}
	return "", newRoutingAmbiguity(router, "chose '%s', which is neither a route label nor a declared target", d.Next())
}

// adopt 节点返回 nil 时沿用输入状态；返回的新状态归属到当前图。
func (r *runner) adopt(in, out *State) *State {
	if out == nil {
		return in
	}
	if out.graph == nil {
		out.graph = r.g
	}
	return out
}
