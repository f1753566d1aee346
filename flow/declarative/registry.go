package declarative

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/favbox/avalon/compose"
)

// NodeFactory 按节点配置创建普通节点行为，options 为定义中该节点的 options。
type NodeFactory func(options map[string]any) (compose.Node, error)

// RouterFactory 按节点配置创建路由行为。
type RouterFactory func(options map[string]any) (compose.Router, error)

// ErrDuplicateBehavior 同名行为重复注册。
var ErrDuplicateBehavior = errors.New("behavior is already registered")

// Registry 行为名称到工厂函数的注册表，并发安全。
type Registry struct {
	mu      sync.RWMutex
	nodes   map[string]NodeFactory
	routers map[string]RouterFactory
}

func NewRegistry() *Registry {
	return &Registry{
		nodes:   make(map[string]NodeFactory),
		routers: make(map[string]RouterFactory),
	}
}

// RegisterNode 注册普通节点行为。
func (r *Registry) RegisterNode(name string, factory NodeFactory) error {
	if name == "" || factory == nil {
		return errors.New("node behavior requires a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.nodes[name]; ok {
		return fmt.Errorf("%w: node behavior '%s'", ErrDuplicateBehavior, name)
	}
	r.nodes[name] = factory
	return nil
}

// RegisterRouter 注册路由行为。节点行为与路由行为的名称空间相互独立。
func (r *Registry) RegisterRouter(name string, factory RouterFactory) error {
	if name == "" || factory == nil {
		return errors.New("router behavior requires a name and a factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.routers[name]; ok {
		return fmt.Errorf("%w: router behavior '%s'", ErrDuplicateBehavior, name)
	}
	r.routers[name] = factory
	return nil
}

// RegisterNodeFunc 注册不需要配置的节点函数。
func (r *Registry) RegisterNodeFunc(name string, fn compose.NodeFunc) error {
	return r.RegisterNode(name, func(map[string]any) (compose.Node, error) {
		return fn, nil
	})
}

// RegisterRouterFunc 注册不需要配置的路由函数。
func (r *Registry) RegisterRouterFunc(name string, fn compose.RouterFunc) error {
	return r.RegisterRouter(name, func(map[string]any) (compose.Router, error) {
		return fn, nil
	})
}

// Behaviors 返回已注册的节点行为与路由行为名称，均按字典序。
func (r *Registry) Behaviors() (nodes, routers []string) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for name := range r.nodes {
		nodes = append(nodes, name)
	}
	for name := range r.routers {
		routers = append(routers, name)
	}
	sort.Strings(nodes)
	sort.Strings(routers)
	return nodes, routers
}

func (r *Registry) node(key, name string, options map[string]any) (compose.Node, error) {
	r.mu.RLock()
	factory, ok := r.nodes[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: node '%s' uses unregistered behavior '%s'", compose.ErrInvalidBehavior, key, name)
	}
	n, err := factory(options)
	if err != nil {
		return nil, fmt.Errorf("create behavior '%s' of node '%s' failed: %w", name, key, err)
	}
	return n, nil
}

func (r *Registry) router(key, name string, options map[string]any) (compose.Router, error) {
	r.mu.RLock()
	factory, ok := r.routers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: router '%s' uses unregistered behavior '%s'", compose.ErrInvalidBehavior, key, name)
	}
	rt, err := factory(options)
	if err != nil {
		return nil, fmt.Errorf("create behavior '%s' of router '%s' failed: %w", name, key, err)
	}
	return rt, nil
}
