package schema

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"text/template"

	"github.com/nikolalohinski/gonja"
	"github.com/nikolalohinski/gonja/config"
	"github.com/nikolalohinski/gonja/nodes"
	"github.com/nikolalohinski/gonja/parser"
	"github.com/slongfield/pyfmt"
)

// FormatType 消息模板的格式化类型。
type FormatType uint8

const (
	// FString Python 风格的字符串格式化 (PEP-3101)，由 pyfmt 实现。
	FString FormatType = 0
	// GoTemplate Go 标准库 text/template 格式化。
	GoTemplate FormatType = 1
	// Jinja2 Jinja2 模板格式化，由 gonja 实现。
	Jinja2 FormatType = 2
)

// String 返回格式化类型的名称。
func (f FormatType) String() string {
	switch f {
	case FString:
		return "fstring"
	case GoTemplate:
		return "gotemplate"
	case Jinja2:
		return "jinja2"
	default:
		return fmt.Sprintf("FormatType(%d)", uint8(f))
	}
}

// ParseFormatType 按名称解析格式化类型，空串视为 FString。
func ParseFormatType(name string) (FormatType, error) {
	switch strings.ToLower(name) {
	case "", "fstring":
		return FString, nil
	case "gotemplate", "go_template":
		return GoTemplate, nil
	case "jinja2", "jinja":
		return Jinja2, nil
	default:
		return 0, fmt.Errorf("unknown format type: %s", name)
	}
}

// RoleType 消息角色类型。
type RoleType string

const (
	// Assistant 助手角色，消息由聊天模型返回。
	Assistant RoleType = "assistant"
	// User 用户角色，消息来自用户输入。
	User RoleType = "user"
	// System 系统角色。
	System RoleType = "system"
	// Tool 工具角色，消息为工具调用的输出。
	Tool RoleType = "tool"
)

// FunctionCall 助手消息中的函数调用。
type FunctionCall struct {
	// Name 函数名称。
	Name string `json:"name,omitempty"`
	// Arguments JSON 格式的参数。
	Arguments string `json:"arguments,omitempty"`
}

// ToolCall 助手消息中的一次工具调用。
type ToolCall struct {
	// ID 工具调用的唯一标识，工具消息通过 ToolCallID 与之对应。
	ID string `json:"id"`
	// Type 工具调用类型，默认 "function"。
	Type string `json:"type"`
	// Function 要调用的函数。
	Function FunctionCall `json:"function"`

	Extra map[string]any `json:"extra,omitempty"`
}

// TokenUsage 一次模型请求的 token 用量。
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ResponseMeta 模型响应的元信息。
type ResponseMeta struct {
	// FinishReason 结束原因，如 "stop"、"tool_calls"。
	FinishReason string      `json:"finish_reason,omitempty"`
	Usage        *TokenUsage `json:"usage,omitempty"`
}

// Message 对话中的一条消息。
type Message struct {
	Role    RoleType `json:"role"`
	Content string   `json:"content"`

	// Name 消息发送方名称。
	Name string `json:"name,omitempty"`

	// ToolCalls 工具调用列表，仅用于 Assistant 消息。
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`

	// ToolCallID 对应的工具调用 ID，仅用于 Tool 消息。
	ToolCallID string `json:"tool_call_id,omitempty"`
	// ToolName 工具名称，仅用于 Tool 消息。
	ToolName string `json:"tool_name,omitempty"`

	ResponseMeta *ResponseMeta `json:"response_meta,omitempty"`

	// Extra 模型实现的自定义信息。
	Extra map[string]any `json:"extra,omitempty"`
}

var _ MessagesTemplate = &Message{}
var _ MessagesTemplate = MessagesPlaceholder("", false)

// MessagesTemplate 可渲染为消息列表的模板。
//
// 使用示例：
//
//	tpl := schema.SystemMessage("you are {role}")
//	msgs, err := tpl.Format(ctx, map[string]any{"role": "a triage assistant"}, schema.FString)
type MessagesTemplate interface {
	Format(ctx context.Context, vs map[string]any, formatType FormatType) ([]*Message, error)
}

type messagesPlaceholder struct {
	key      string
	optional bool
}

// MessagesPlaceholder 创建消息占位符，渲染时直接取参数中 key 对应的消息列表。
// optional 为 true 时，缺失的 key 渲染为空列表。
func MessagesPlaceholder(key string, optional bool) MessagesTemplate {
	return &messagesPlaceholder{
		key:      key,
		optional: optional,
	}
}

func (p *messagesPlaceholder) Format(_ context.Context, vs map[string]any, _ FormatType) ([]*Message, error) {
	v, ok := vs[p.key]
	if !ok {
		if p.optional {
			return []*Message{}, nil
		}

		return nil, fmt.Errorf("message placeholder format: %s not found", p.key)
	}

	msgs, ok := v.([]*Message)
	if !ok {
		return nil, fmt.Errorf("only messages can be used to format message placeholder, key: %v, actual type: %v", p.key, reflect.TypeOf(v))
	}

	return msgs, nil
}

// FormatMessages 依次渲染多个模板并拼接结果。
func FormatMessages(ctx context.Context, vs map[string]any, formatType FormatType, templates ...MessagesTemplate) ([]*Message, error) {
	var result []*Message
	for _, tpl := range templates {
		msgs, err := tpl.Format(ctx, vs, formatType)
		if err != nil {
			return nil, err
		}
		result = append(result, msgs...)
	}
	return result, nil
}

func formatContent(content string, vs map[string]any, formatType FormatType) (string, error) {
	switch formatType {
	case FString:
		return pyfmt.Fmt(content, vs)
	case GoTemplate:
		parsedTmpl, err := template.New("template").
			Option("missingkey=error").
			Parse(content)
		if err != nil {
			return "", err
		}
		sb := new(strings.Builder)
		if err = parsedTmpl.Execute(sb, vs); err != nil {
			return "", err
		}
		return sb.String(), nil
	case Jinja2:
		env, err := getJinjaEnv()
		if err != nil {
			return "", err
		}
		tpl, err := env.FromString(content)
		if err != nil {
			return "", err
		}
		return tpl.Execute(vs)
	default:
		return "", fmt.Errorf("unknown format type: %v", formatType)
	}
}

// Format 渲染消息内容并返回副本，原消息不变。
//
// 使用示例：
//
//	msg := schema.UserMessage("hello world, {name}")
//	msgs, err := msg.Format(ctx, map[string]any{"name": "avalon"}, schema.FString)
//	// msgs[0].Content == "hello world, avalon"
func (m *Message) Format(_ context.Context, vs map[string]any, formatType FormatType) ([]*Message, error) {
	c, err := formatContent(m.Content, vs, formatType)
	if err != nil {
		return nil, err
	}
	copied := *m
	copied.Content = c

	return []*Message{&copied}, nil
}

// String 返回便于日志输出的消息文本。
func (m *Message) String() string {
	sb := &strings.Builder{}
	sb.WriteString(fmt.Sprintf("%s: %s", m.Role, m.Content))
	if len(m.ToolCalls) > 0 {
		sb.WriteString("\ntool_calls:\n")
		for _, tc := range m.ToolCalls {
			sb.WriteString(fmt.Sprintf("%+v\n", tc))
		}
	}
	if m.ToolCallID != "" {
		sb.WriteString(fmt.Sprintf("\ntool_call_id: %s", m.ToolCallID))
	}
	if m.ToolName != "" {
		sb.WriteString(fmt.Sprintf("\ntool_call_name: %s", m.ToolName))
	}
	if m.ResponseMeta != nil {
		sb.WriteString(fmt.Sprintf("\nfinish_reason: %s", m.ResponseMeta.FinishReason))
		if m.ResponseMeta.Usage != nil {
			sb.WriteString(fmt.Sprintf("\nusage: %v", m.ResponseMeta.Usage))
		}
	}

	return sb.String()
}

// SystemMessage 创建系统消息。
func SystemMessage(content string) *Message {
	return &Message{
		Role:    System,
		Content: content,
	}
}

// AssistantMessage 创建助手消息。
func AssistantMessage(content string, toolCalls []ToolCall) *Message {
	return &Message{
		Role:      Assistant,
		Content:   content,
		ToolCalls: toolCalls,
	}
}

// UserMessage 创建用户消息。
func UserMessage(content string) *Message {
	return &Message{
		Role:    User,
		Content: content,
	}
}

type toolMessageOptions struct {
	toolName string
}

// ToolMessageOption 工具消息选项。
type ToolMessageOption func(*toolMessageOptions)

// WithToolName 设置工具消息对应的工具名称。
func WithToolName(name string) ToolMessageOption {
	return func(o *toolMessageOptions) {
		o.toolName = name
	}
}

// ToolMessage 创建工具消息。
func ToolMessage(content string, toolCallID string, opts ...ToolMessageOption) *Message {
	o := &toolMessageOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return &Message{
		Role:       Tool,
		Content:    content,
		ToolCallID: toolCallID,
		ToolName:   o.toolName,
	}
}

var (
	jinjaEnvOnce sync.Once
	jinjaEnv     *gonja.Environment
	envInitErr   error
)

// 在模板中禁用的语句，避免渲染时读取文件系统。
var jinjaDisabledStatements = []string{"include", "extends", "import", "from"}

func getJinjaEnv() (*gonja.Environment, error) {
	jinjaEnvOnce.Do(func() {
		jinjaEnv = gonja.NewEnvironment(config.DefaultConfig, gonja.DefaultLoader)
		for _, keyword := range jinjaDisabledStatements {
			if !jinjaEnv.Statements.Exists(keyword) {
				continue
			}
			keyword := keyword
			err := jinjaEnv.Statements.Replace(keyword, func(parser *parser.Parser, args *parser.Parser) (nodes.Statement, error) {
				return nil, fmt.Errorf("keyword[%s] has been disabled", keyword)
			})
			if err != nil {
				envInitErr = fmt.Errorf("init jinja env fail: %w", err)
				return
			}
		}
	})
	return jinjaEnv, envInitErr
}
