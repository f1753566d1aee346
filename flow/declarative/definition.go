package declarative

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/favbox/avalon/compose"
)

// Definition 工作流图的声明式定义。
type Definition struct {
	Name     string         `yaml:"name"`
	Metadata map[string]any `yaml:"metadata,omitempty"`
	// Values 每次运行的初始状态。
	Values  map[string]any `yaml:"values,omitempty"`
	Nodes   []NodeDef      `yaml:"nodes"`
	Routers []RouterDef    `yaml:"routers,omitempty"`
	Edges   []EdgeDef      `yaml:"edges,omitempty"`
}

// NodeDef 普通节点定义。
type NodeDef struct {
	Key      string         `yaml:"key"`
	Name     string         `yaml:"name,omitempty"`
	Behavior string         `yaml:"behavior"`
	Options  map[string]any `yaml:"options,omitempty"`
}

// RouterDef 路由节点定义，routes 的顺序即路由表顺序。
type RouterDef struct {
	Key      string          `yaml:"key"`
	Name     string          `yaml:"name,omitempty"`
	Behavior string          `yaml:"behavior"`
	Options  map[string]any  `yaml:"options,omitempty"`
	Routes   []compose.Route `yaml:"routes"`
}

// EdgeDef 静态边定义，to 可以是 halt。
type EdgeDef struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// ErrEmptyDefinition 定义内容为空。
var ErrEmptyDefinition = errors.New("workflow definition is empty")

// Parse 解析 YAML 定义。未知字段视为错误；节点 options 中的字符串支持 ${VAR}、${VAR:-default} 与 $VAR 环境变量展开。
func Parse(data []byte) (*Definition, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	def := &Definition{}
	if err := dec.Decode(def); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDefinition
		}
		return nil, fmt.Errorf("parse workflow definition failed: %w", err)
	}

	for i := range def.Nodes {
		def.Nodes[i].Options = expandEnvVars(def.Nodes[i].Options)
	}
	for i := range def.Routers {
		def.Routers[i].Options = expandEnvVars(def.Routers[i].Options)
	}

	if err := def.check(); err != nil {
		return nil, err
	}
	return def, nil
}

// ParseFile 读取并解析 YAML 定义文件。
func ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workflow definition failed: %w", err)
	}
	return Parse(data)
}

// check 检查定义本身的完整性，图结构的检查交给 compose。
func (d *Definition) check() error {
	for i, n := range d.Nodes {
		if n.Key == "" {
			return fmt.Errorf("nodes[%d]: key is required", i)
		}
		if n.Behavior == "" {
			return fmt.Errorf("node '%s': behavior is required", n.Key)
		}
	}
	for i, r := range d.Routers {
		if r.Key == "" {
			return fmt.Errorf("routers[%d]: key is required", i)
		}
		if r.Behavior == "" {
			return fmt.Errorf("router '%s': behavior is required", r.Key)
		}
		if len(r.Routes) == 0 {
			return fmt.Errorf("router '%s': at least one route is required", r.Key)
		}
	}
	for i, e := range d.Edges {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("edges[%d]: from and to are required", i)
		}
	}
	return nil
}

func expandEnvVars(input map[string]any) map[string]any {
	if input == nil {
		return nil
	}
	result := make(map[string]any, len(input))
	for k, v := range input {
		result[k] = expandValue(v)
	}
	return result
}

func expandValue(v any) any {
	switch val := v.(type) {
	case string:
		return expandEnvString(val)
	case map[string]any:
		return expandEnvVars(val)
	case []any:
		result := make([]any, len(val))
		for i, item := range val {
			result[i] = expandValue(item)
		}
		return result
	default:
		return v
	}
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

func expandEnvString(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if !strings.HasPrefix(match, "${") {
			return os.Getenv(match[1:])
		}
		inner := match[2 : len(match)-1]
		if name, def, ok := strings.Cut(inner, ":-"); ok {
			if val := os.Getenv(name); val != "" {
				return val
			}
			return def
		}
		return os.Getenv(inner)
	})
}
