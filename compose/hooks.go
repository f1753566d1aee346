package compose

import (
	"context"
	"runtime/debug"

	"github.com/favbox/avalon/internal/safe"
)

// PreNodeHook 节点执行前的钩子，可以改写节点看到的状态，返回错误则中止运行。
// opts 为该节点的 WithNodeOptions。
type PreNodeHook func(ctx context.Context, state *State, node string, opts map[string]any) (*State, error)

// PostNodeHook 节点执行后的钩子，可以改写后续节点看到的状态。
// 普通节点的 result 为节点返回的 *State，路由节点的 result 为其 Decision。
type PostNodeHook func(ctx context.Context, state *State, node string, result any, opts map[string]any) (*State, error)

// PreWorkflowHook 遍历开始前的钩子，opts 为图的元数据。
type PreWorkflowHook func(ctx context.Context, state *State, opts map[string]any) (*State, error)

// PostWorkflowHook 完整遍历成功后的钩子，result 为状态尚为 Completed 的运行结果。
// 运行以 Halted 或 Failed 结束时不会执行。
type PostWorkflowHook func(ctx context.Context, state *State, result *Result, opts map[string]any) (*State, error)

// runHooks 依次执行钩子列表，第一个错误中止其余钩子。
// 钩子返回 nil 状态时沿用当前状态。
func runHooks[H any](state *State, hooks []H, phase Phase, node string,
	call func(h H, s *State) (*State, error)) (*State, error) {

	for i, h := range hooks {
		var (
			next *State
			err  error
		)
		err = safeCall(func() error {
			next, err = call(h, state)
			return err
		})
		if err != nil {
			return state, newExecutionError(phase, node, i, err)
		}
		if next != nil {
			state = next
		}
	}
	return state, nil
}

func runPreNodeHooks(ctx context.Context, hooks []PreNodeHook, state *State, node string, opts map[string]any) (*State, error) {
	return runHooks(state, hooks, PhasePreNode, node, func(h PreNodeHook, s *State) (*State, error) {
		return h(ctx, s, node, opts)
	})
}

func runPostNodeHooks(ctx context.Context, hooks []PostNodeHook, state *State, node string, result any, opts map[string]any) (*State, error) {
	return runHooks(state, hooks, PhasePostNode, node, func(h PostNodeHook, s *State) (*State, error) {
		return h(ctx, s, node, result, opts)
	})
}

func runPreWorkflowHooks(ctx context.Context, hooks []PreWorkflowHook, state *State, opts map[string]any) (*State, error) {
	return runHooks(state, hooks, PhasePreWorkflow, "", func(h PreWorkflowHook, s *State) (*State, error) {
		return h(ctx, s, opts)
	})
}

func runPostWorkflowHooks(ctx context.Context, hooks []PostWorkflowHook, state *State, result *Result, opts map[string]any) (*State, error) {
	return runHooks(state, hooks, PhasePostWorkflow, "", func(h PostWorkflowHook, s *State) (*State, error) {
		return h(ctx, s, result, opts)
	})
}

// safeCall 执行 fn，将其中的 panic 转为错误。
func safeCall(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = safe.NewPanicErr(p, debug.Stack())
		}
	}()
	return fn()
}
