package schema

import (
	"sort"

	"github.com/eino-contrib/jsonschema"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// DataType 工具参数的数据类型，遵循 OpenAPI 3.0 规范。
type DataType string

const (
	Object  DataType = "object"
	Number  DataType = "number"
	Integer DataType = "integer"
	String  DataType = "string"
	Array   DataType = "array"
	Null    DataType = "null"
	Boolean DataType = "boolean"
)

// ToolChoice 模型调用工具的策略。
type ToolChoice string

const (
	// ToolChoiceForbidden 禁止调用工具，对应 OpenAI 的 "none"。
	ToolChoiceForbidden ToolChoice = "forbidden"
	// ToolChoiceAllowed 由模型自行决定，对应 OpenAI 的 "auto"。
	ToolChoiceAllowed ToolChoice = "allowed"
	// ToolChoiceForced 必须调用工具，对应 OpenAI 的 "required"。
	ToolChoiceForced ToolChoice = "forced"
)

// ToolInfo 工具的描述信息，提供给模型用于选择和调用工具。
type ToolInfo struct {
	// Name 工具的唯一名称。
	Name string
	// Desc 工具的用途说明，指导模型何时以及如何使用该工具。
	Desc string
	// Extra 自定义元数据。
	Extra map[string]any

	// ParamsOneOf 参数定义，为 nil 时表示工具无需参数。
	*ParamsOneOf
}

// ParameterInfo 单个参数的描述。
type ParameterInfo struct {
	Type DataType
	// ElemInfo 数组元素描述，仅用于 Array。
	ElemInfo *ParameterInfo
	// SubParams 子参数，仅用于 Object。
	SubParams map[string]*ParameterInfo
	Desc      string
	// Enum 可选值，仅用于 String。
	Enum     []string
	Required bool
}

// ParamsOneOf 参数描述的联合类型，二选一：
//  1. NewParamsOneOfByParams：以 ParameterInfo 直观描述
//  2. NewParamsOneOfByJSONSchema：直接给出 JSON Schema
type ParamsOneOf struct {
	params     map[string]*ParameterInfo
	jsonschema *jsonschema.Schema
}

// NewParamsOneOfByParams 以参数映射创建参数描述。
func NewParamsOneOfByParams(params map[string]*ParameterInfo) *ParamsOneOf {
	return &ParamsOneOf{
		params: params,
	}
}

// NewParamsOneOfByJSONSchema 以 JSON Schema 创建参数描述。
func NewParamsOneOfByJSONSchema(s *jsonschema.Schema) *ParamsOneOf {
	return &ParamsOneOf{
		jsonschema: s,
	}
}

// ToJSONSchema 将参数描述统一转换为 JSON Schema。
// 由 ParameterInfo 转换时属性按名称排序，保证输出稳定。
func (p *ParamsOneOf) ToJSONSchema() (*jsonschema.Schema, error) {
	if p == nil {
		return nil, nil
	}

	if p.params != nil {
		return objectSchema(p.params), nil
	}

	return p.jsonschema, nil
}

// RequiredParams 返回顶层必填参数名。
func (p *ParamsOneOf) RequiredParams() ([]string, error) {
	js, err := p.ToJSONSchema()
	if err != nil || js == nil {
		return nil, err
	}
	return js.Required, nil
}

func objectSchema(params map[string]*ParameterInfo) *jsonschema.Schema {
	sc := &jsonschema.Schema{
		Properties: orderedmap.New[string, *jsonschema.Schema](),
		Type:       string(Object),
		Required:   make([]string, 0, len(params)),
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := params[k]
		sc.Properties.Set(k, paramInfoToJSONSchema(v))
		if v.Required {
			sc.Required = append(sc.Required, k)
		}
	}
	return sc
}

func paramInfoToJSONSchema(paramInfo *ParameterInfo) *jsonschema.Schema {
	if paramInfo.Type == Object && len(paramInfo.SubParams) > 0 {
		js := objectSchema(paramInfo.SubParams)
		js.Description = paramInfo.Desc
		return js
	}

	js := &jsonschema.Schema{
		Type:        string(paramInfo.Type),
		Description: paramInfo.Desc,
	}

	if len(paramInfo.Enum) > 0 {
		js.Enum = make([]any, len(paramInfo.Enum))
		for i, enum := range paramInfo.Enum {
			js.Enum[i] = enum
		}
	}

	if paramInfo.ElemInfo != nil {
		js.Items = paramInfoToJSONSchema(paramInfo.ElemInfo)
	}

	return js
}
