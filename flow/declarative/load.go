package declarative

import (
	"errors"

	"github.com/favbox/avalon/compose"
)

// Load 解析 YAML 定义并构建已校验的图。opts 在定义之后生效，可覆盖名称或追加元数据与钩子。
func Load(data []byte, reg *Registry, opts ...compose.NewGraphOption) (*compose.Graph, error) {
	def, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return def.Build(reg, opts...)
}

// LoadFile 从文件加载，见 Load。
func LoadFile(path string, reg *Registry, opts ...compose.NewGraphOption) (*compose.Graph, error) {
	def, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return def.Build(reg, opts...)
}

// Build 按定义构建图并校验。
//
// 先添加普通节点，路由节点在其路由目标都已存在后添加，最后添加静态边。
func (d *Definition) Build(reg *Registry, opts ...compose.NewGraphOption) (*compose.Graph, error) {
	if reg == nil {
		return nil, errors.New("building a workflow definition requires a registry")
	}

	graphOpts := make([]compose.NewGraphOption, 0, len(opts)+3)
	graphOpts = append(graphOpts,
		compose.WithGraphName(d.Name),
		compose.WithMetadata(d.Metadata),
		compose.WithInitialValues(d.Values))
	graphOpts = append(graphOpts, opts...)
	g := compose.NewGraph(graphOpts...)

	for _, n := range d.Nodes {
		node, err := reg.node(n.Key, n.Behavior, n.Options)
		if err != nil {
			return nil, err
		}
		if err = g.AddNode(n.Key, node, nodeOpts(n.Name, n.Behavior, n.Options)...); err != nil {
			return nil, err
		}
	}

	if err := d.addRouters(g, reg); err != nil {
		return nil, err
	}

	for _, e := range d.Edges {
		if err := g.AddEdge(e.From, e.To); err != nil {
			return nil, err
		}
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// addRouters 路由的目标可以是另一个路由，按依赖顺序逐轮添加；
// 某一轮无法推进时按定义顺序添加下一个，由 compose 报告无效的目标。
func (d *Definition) addRouters(g *compose.Graph, reg *Registry) error {
	added := make(map[string]bool, len(d.Nodes)+len(d.Routers))
	for _, n := range d.Nodes {
		added[n.Key] = true
	}

	ready := func(r RouterDef) bool {
		for _, route := range r.Routes {
			if route.Target != compose.HALT && !added[route.Target] {
				return false
			}
		}
		return true
	}

	pending := append([]RouterDef(nil), d.Routers...)
	for len(pending) > 0 {
		idx := 0
		for i, r := range pending {
			if ready(r) {
				idx = i
				break
			}
		}

		r := pending[idx]
		router, err := reg.router(r.Key, r.Behavior, r.Options)
		if err != nil {
			return err
		}
		if err = g.AddRouter(r.Key, router, r.Routes, nodeOpts(r.Name, r.Behavior, r.Options)...); err != nil {
			return err
		}
		added[r.Key] = true
		pending = append(pending[:idx], pending[idx+1:]...)
	}
	return nil
}

func nodeOpts(name, behavior string, options map[string]any) []compose.GraphAddNodeOpt {
	if name == "" {
		name = behavior
	}
	opts := []compose.GraphAddNodeOpt{compose.WithNodeName(name)}
	if len(options) > 0 {
		opts = append(opts, compose.WithNodeOptions(options))
	}
	return opts
}
