package compose

import (
	"sort"

	"github.com/favbox/avalon/internal/gmap"
)

// State 一次运行的上下文，由该次运行独占。
//
// 节点、路由和钩子都可以读写 State；它不是并发安全的，
// 执行器保证同一次运行中不会有两个调用同时持有它。
type State struct {
	graph  *Graph
	values map[string]any
}

// NewState 以给定的初始值创建不属于任何图的状态，主要用于单独测试节点行为。
func NewState(values map[string]any) *State {
	return newState(nil, values)
}

func newState(g *Graph, values map[string]any) *State {
	v := gmap.Clone(values)
	if v == nil {
		v = map[string]any{}
	}
	return &State{graph: g, values: v}
}

// Graph 返回正在执行的图，只读。
func (s *State) Graph() *Graph {
	return s.graph
}

// Get 读取 key 对应的值。
func (s *State) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set 写入 key 对应的值并返回 s，便于节点写完直接返回。
func (s *State) Set(key string, value any) *State {
	s.values[key] = value
	return s
}

// Delete 删除 key 并返回 s。
func (s *State) Delete(key string) *State {
	delete(s.values, key)
	return s
}

// Len 返回值的个数。
func (s *State) Len() int {
	return len(s.values)
}

// Keys 返回排序后的全部 key。
func (s *State) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Values 返回全部值的浅拷贝。
func (s *State) Values() map[string]any {
	return gmap.Clone(s.values)
}

// Clone 返回状态的浅拷贝，两者之后的写入互不影响。
func (s *State) Clone() *State {
	return &State{graph: s.graph, values: gmap.Clone(s.values)}
}

// GetValue 读取 key 并断言为 T，不存在或类型不符时返回 false。
func GetValue[T any](s *State, key string) (T, bool) {
	var zero T
	v, ok := s.values[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
