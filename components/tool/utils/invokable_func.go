package utils

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/eino-contrib/jsonschema"

	"github.com/favbox/avalon/components/tool"
	"github.com/favbox/avalon/internal/generic"
	"github.com/favbox/avalon/schema"
)

// InvokeFunc 工具的业务函数，T 为参数结构体，D 为返回值。
type InvokeFunc[T, D any] func(ctx context.Context, input T) (output D, err error)

// MarshalOutput 将工具返回值序列化为写回对话的字符串。
type MarshalOutput func(ctx context.Context, output any) (string, error)

type toolOptions struct {
	marshalOutput MarshalOutput
	skipRequired  bool
}

// Option InferTool / NewTool 的构造选项。
type Option func(o *toolOptions)

// WithMarshalOutput 自定义返回值的序列化方式，默认字符串原样返回，其余类型用 sonic 编码为 JSON。
func WithMarshalOutput(m MarshalOutput) Option {
	return func(o *toolOptions) {
		o.marshalOutput = m
	}
}

// WithSkipRequiredCheck 调用前不校验必填参数。
func WithSkipRequiredCheck() Option {
	return func(o *toolOptions) {
		o.skipRequired = true
	}
}

// InferTool 由参数结构体 T 推断 JSON Schema，并把 fn 包装为 InvokableTool。
//
// 参数结构体使用 json 与 jsonschema 标签描述参数：
//
//	type lookupArgs struct {
//		Service string `json:"service" jsonschema:"description=service name"`
//		Limit   int    `json:"limit,omitempty"`
//	}
//
// 没有 omitempty 的字段视为必填。
func InferTool[T, D any](toolName, toolDesc string, fn InvokeFunc[T, D], opts ...Option) (tool.InvokableTool, error) {
	info, err := goStruct2ToolInfo[T](toolName, toolDesc)
	if err != nil {
		return nil, err
	}
	return NewTool(info, fn, opts...), nil
}

// NewTool 以给定的工具信息包装 fn。
func NewTool[T, D any](info *schema.ToolInfo, fn InvokeFunc[T, D], opts ...Option) tool.InvokableTool {
	o := &toolOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &invokableTool[T, D]{
		info: info,
		fn:   fn,
		opts: o,
	}
}

func goStruct2ToolInfo[T any](toolName, toolDesc string) (*schema.ToolInfo, error) {
	r := &jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
	}
	js := r.Reflect(generic.NewInstance[T]())
	if js == nil {
		return nil, fmt.Errorf("failed to infer json schema of tool %s", toolName)
	}
	js.Version = ""

	return &schema.ToolInfo{
		Name:        toolName,
		Desc:        toolDesc,
		ParamsOneOf: schema.NewParamsOneOfByJSONSchema(js),
	}, nil
}

type invokableTool[T, D any] struct {
	info *schema.ToolInfo
	fn   InvokeFunc[T, D]
	opts *toolOptions
}

func (i *invokableTool[T, D]) Info(_ context.Context) (*schema.ToolInfo, error) {
	return i.info, nil
}

// InvokableRun 校验必填参数后解码为 T 并调用业务函数。
func (i *invokableTool[T, D]) InvokableRun(ctx context.Context, arguments string, _ ...tool.Option) (string, error) {
	if !i.opts.skipRequired {
		if err := i.checkRequired(arguments); err != nil {
			return "", err
		}
	}

	inst := generic.NewInstance[T]()
	if err := sonic.UnmarshalString(arguments, &inst); err != nil {
		return "", fmt.Errorf("[LocalFunc] failed to unmarshal arguments of tool %s: %w", i.info.Name, err)
	}

	resp, err := i.fn(ctx, inst)
	if err != nil {
		return "", fmt.Errorf("[LocalFunc] failed to invoke tool %s: %w", i.info.Name, err)
	}

	if i.opts.marshalOutput != nil {
		return i.opts.marshalOutput(ctx, resp)
	}
	if s, ok := any(resp).(string); ok {
		return s, nil
	}
	output, err := sonic.MarshalString(resp)
	if err != nil {
		return "", fmt.Errorf("[LocalFunc] failed to marshal output of tool %s: %w", i.info.Name, err)
	}
	return output, nil
}

func (i *invokableTool[T, D]) checkRequired(arguments string) error {
	required, err := i.info.RequiredParams()
	if err != nil || len(required) == 0 {
		return err
	}

	args := map[string]any{}
	if err = sonic.UnmarshalString(arguments, &args); err != nil {
		return fmt.Errorf("[LocalFunc] arguments of tool %s are not a json object: %w", i.info.Name, err)
	}
	for _, name := range required {
		if _, ok := args[name]; !ok {
			return fmt.Errorf("[LocalFunc] tool %s missing required parameter: %s", i.info.Name, name)
		}
	}
	return nil
}
