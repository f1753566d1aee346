package compose

import "github.com/favbox/avalon/internal/gmap"

// GraphInfo 图结构的只读快照，用于图示导出与外部工具。
type GraphInfo struct {
	ID       string
	Name     string
	Nodes    []NodeInfo
	Edges    []Edge
	Metadata map[string]any
}

// NodeInfo 节点的只读快照。
type NodeInfo struct {
	Key  string
	Name string
	// Type 行为的实现类型名称，实现了 components.Typer 时取 GetType 的返回值。
	Type    string
	Kind    NodeKind
	Options map[string]any
	// Routes 路由节点的路由表，按声明顺序；普通节点为空。
	Routes []Route
}

// Info 返回图结构的快照，节点与边均按添加顺序排列。
func (g *Graph) Info() *GraphInfo {
	g.mu.Lock()
	defer g.mu.Unlock()

	info := &GraphInfo{
		ID:       g.id,
		Name:     g.name,
		Nodes:    make([]NodeInfo, 0, len(g.nodeOrder)),
		Edges:    append([]Edge(nil), g.edges...),
		Metadata: gmap.Clone(g.metadata),
	}

	for _, key := range g.nodeOrder {
		gn := g.nodes[key]
		ni := NodeInfo{
			Key:     key,
			Name:    gn.displayName(),
			Type:    gn.typ,
			Kind:    gn.kind,
			Options: gmap.Clone(gn.opts.options),
		}
		if table, ok := g.routes[key]; ok {
			ni.Routes = make([]Route, 0, table.Len())
			for pair := table.Oldest(); pair != nil; pair = pair.Next() {
				ni.Routes = append(ni.Routes, Route{Label: pair.Key, Target: pair.Value})
			}
		}
		info.Nodes = append(info.Nodes, ni)
	}

	return info
}
