package compose

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/favbox/avalon/internal/generic"
	"github.com/favbox/avalon/internal/gmap"
)

// Edge 静态边，To 可以是 HALT。
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph 工作流图。
//
// 构建方法在失败时保持图的结构不变，并记录该错误；此后所有构建、校验和执行都返回同一个错误。
// 校验通过后结构被冻结，可以被多个协程同时执行。
type Graph struct {
	mu sync.Mutex

	id   string
	name string

	nodes     map[string]*graphNode
	nodeOrder []string

	// edges 按添加顺序保存，successors 为每个源节点的出边目标，同样保序
	edges      []Edge
	edgeSet    map[Edge]struct{}
	successors map[string][]string

	routes map[string]*orderedmap.OrderedMap[string, string]

	metadata      map[string]any
	initialValues map[string]any

	preWorkflowHooks  []PreWorkflowHook
	postWorkflowHooks []PostWorkflowHook

	// routeCycle 校验时确定：是否存在经过路由的环路
	routeCycle bool
	buildError error
	validated  bool
}

// NewGraph 创建空图，并为其分配唯一 ID。
func NewGraph(opts ...NewGraphOption) *Graph {
	o := &newGraphOptions{}
	for _, opt := range opts {
		opt(o)
	}

	id := uuid.NewString()
	name := o.name
	if name == "" {
		name = "graph-" + id[:8]
	}

	return &Graph{
		id:                id,
		name:              name,
		nodes:             make(map[string]*graphNode),
		edgeSet:           make(map[Edge]struct{}),
		successors:        make(map[string][]string),
		routes:            make(map[string]*orderedmap.OrderedMap[string, string]),
		metadata:          gmap.Clone(o.metadata),
		initialValues:     gmap.Clone(o.initialValues),
		preWorkflowHooks:  o.preWorkflowHooks,
		postWorkflowHooks: o.postWorkflowHooks,
	}
}

// ID 图的唯一标识。
func (g *Graph) ID() string {
	return g.id
}

// Name 图的名称。
func (g *Graph) Name() string {
	return g.name
}

// Metadata 返回元数据的拷贝。
func (g *Graph) Metadata() map[string]any {
	return gmap.Clone(g.metadata)
}

// AddNode 添加普通节点。
//
// key 不能为空或 HALT（ErrInvalidNodeKey），不能重复（ErrDuplicateNodeID）；
// node 不能为 nil 或持有 nil 的接口值（ErrInvalidBehavior）。
func (g *Graph) AddNode(key string, node Node, opts ...GraphAddNodeOpt) error {
	return g.addNode(key, NodeKindPlain, node, nil, getGraphAddNodeOpts(opts...))
}

// AddRouter 添加路由节点及其路由表。
//
// 路由表按给定顺序保存；标签不能为空或重复，目标必须是已存在的节点或 HALT（ErrInvalidRouteTarget）。
func (g *Graph) AddRouter(key string, router Router, routes []Route, opts ...GraphAddNodeOpt) error {
	return g.addNode(key, NodeKindRouter, router, routes, getGraphAddNodeOpts(opts...))
}

func (g *Graph) addNode(key string, kind NodeKind, behavior any, routes []Route, options *graphAddNodeOpts) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.buildError != nil {
		return g.buildError
	}
	if g.validated {
		return ErrGraphValidated
	}

	defer func() {
		if err != nil {
			g.buildError = err
		}
	}()

	if key == "" || key == HALT {
		return newStructuralError(KindInvalidNodeKey, fmt.Sprintf("node key '%s' is empty or reserved", key))
	}
	if _, ok := g.nodes[key]; ok {
		return newStructuralError(KindDuplicateNodeID, "", key)
	}
	if generic.IsNil(behavior) {
		return newStructuralError(KindInvalidBehavior, fmt.Sprintf("%s behavior is nil", kind), key)
	}

	var table *orderedmap.OrderedMap[string, string]
	if kind == NodeKindRouter {
		if table, err = g.newRouteTable(key, routes); err != nil {
			return err
		}
	}

	g.nodes[key] = newGraphNode(key, kind, behavior, options)
	g.nodeOrder = append(g.nodeOrder, key)
	if table != nil {
		g.routes[key] = table
	}

	return nil
}

func (g *Graph) newRouteTable(router string, routes []Route) (*orderedmap.OrderedMap[string, string], error) {
	table := orderedmap.New[string, string](len(routes))
	for _, r := range routes {
		if r.Label == "" {
			return nil, newStructuralError(KindInvalidRouteTarget, "route label is empty", router)
		}
		if _, ok := table.Get(r.Label); ok {
			return nil, newStructuralError(KindInvalidRouteTarget, fmt.Sprintf("route label '%s' is duplicated", r.Label), router)
		}
		if r.Target != HALT {
			if _, ok := g.nodes[r.Target]; !ok {
				return nil, newStructuralError(KindInvalidRouteTarget,
					fmt.Sprintf("route '%s' targets unknown node '%s'", r.Label, r.Target), router)
			}
		}
		table.Set(r.Label, r.Target)
	}
	return table, nil
}

// AddEdge 添加静态边 from → to，to 可以是 HALT。重复添加同一条边不产生效果。
//
// 端点不存在时返回 ErrUnknownNode；from 为 HALT 或路由节点时返回 ErrInvalidEdge，
// 路由节点只能通过路由表继续。
func (g *Graph) AddEdge(from, to string) (err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.buildError != nil {
		return g.buildError
	}
	if g.validated {
		return ErrGraphValidated
	}

	defer func() {
		if err != nil {
			g.buildError = err
		}
	}()

	if from == HALT {
		return newStructuralError(KindInvalidEdge, "HALT cannot be an edge source")
	}
	fromNode, ok := g.nodes[from]
	if !ok {
		return newStructuralError(KindUnknownNode, fmt.Sprintf("edge start node '%s' needs to be added to graph first", from), from)
	}
	if to != HALT {
		if _, ok = g.nodes[to]; !ok {
			return newStructuralError(KindUnknownNode, fmt.Sprintf("edge end node '%s' needs to be added to graph first", to), to)
		}
	}
	if fromNode.kind == NodeKindRouter {
		return newStructuralError(KindInvalidEdge, fmt.Sprintf("router '%s' continues only through its routes", from), from)
	}

	e := Edge{From: from, To: to}
	if _, ok = g.edgeSet[e]; ok {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)
	g.successors[from] = append(g.successors[from], to)

	return nil
}

// routeTargets 返回路由表中全部目标，按路由表顺序，可能重复。
func (g *Graph) routeTargets(router string) []string {
	table, ok := g.routes[router]
	if !ok {
		return nil
	}
	targets := make([]string, 0, table.Len())
	for pair := table.Oldest(); pair != nil; pair = pair.Next() {
		targets = append(targets, pair.Value)
	}
	return targets
}

// forwardTargets 返回节点在边与路由上的全部后继。
func (g *Graph) forwardTargets(key string) []string {
	if g.nodes[key].kind == NodeKindRouter {
		return g.routeTargets(key)
	}
	return g.successors[key]
}
