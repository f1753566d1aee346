package compose

import (
	"context"

	"github.com/favbox/avalon/components"
	"github.com/favbox/avalon/internal/generic"
)

// Node 普通节点的行为。
//
// Execute 接收当前运行状态，返回更新后的状态；返回 nil 状态表示沿用输入状态。
// 返回错误会使整个运行以 Failed 结束。
type Node interface {
	Execute(ctx context.Context, state *State) (*State, error)
}

// InputValidator 节点可选实现，在 Execute 之前校验输入状态。
type InputValidator interface {
	ValidateInput(ctx context.Context, state *State) error
}

// Router 路由节点的行为。
//
// Route 返回 Continue(next) 或 Halt(result)；返回错误即以 Failed 结束。
// 路由不沿静态边继续，只按决策前进。
type Router interface {
	Route(ctx context.Context, state *State) (Decision, error)
}

// NodeFunc 将函数适配为 Node。
type NodeFunc func(ctx context.Context, state *State) (*State, error)

// Execute 调用 f。
func (f NodeFunc) Execute(ctx context.Context, state *State) (*State, error) {
	return f(ctx, state)
}

// RouterFunc 将函数适配为 Router。
type RouterFunc func(ctx context.Context, state *State) (Decision, error)

// Route 调用 f。
func (f RouterFunc) Route(ctx context.Context, state *State) (Decision, error) {
	return f(ctx, state)
}

// NodeKind 节点的静态类别，在添加节点时确定，执行器据此选择执行分支。
type NodeKind string

const (
	NodeKindPlain  NodeKind = "Plain"
	NodeKindRouter NodeKind = "Router"
)

// component 返回回调中使用的组件类别。
func (k NodeKind) component() components.Component {
	if k == NodeKindRouter {
		return components.ComponentOfRouter
	}
	return components.ComponentOfNode
}

// graphNode 图中的一个节点条目。
type graphNode struct {
	key  string
	kind NodeKind

	node   Node
	router Router

	// typ 行为的类型标识，用于图示与回调
	typ  string
	opts *graphAddNodeOpts
}

func newGraphNode(key string, kind NodeKind, behavior any, opts *graphAddNodeOpts) *graphNode {
	gn := &graphNode{
		key:  key,
		kind: kind,
		opts: opts,
	}
	switch kind {
	case NodeKindRouter:
		gn.router = behavior.(Router)
	default:
		gn.node = behavior.(Node)
	}

	if typ, ok := components.GetType(behavior); ok {
		gn.typ = typ
	} else {
		gn.typ = generic.TypeName(behavior)
	}
	return gn
}

func (gn *graphNode) behavior() any {
	if gn.kind == NodeKindRouter {
		return gn.router
	}
	return gn.node
}

// displayName 节点的展示名称，默认为节点 key。
func (gn *graphNode) displayName() string {
	if gn.opts.nodeName != "" {
		return gn.opts.nodeName
	}
	return gn.key
}
