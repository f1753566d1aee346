package react

import (
	"github.com/favbox/avalon/components/model"
	"github.com/favbox/avalon/components/tool"
	"github.com/favbox/avalon/compose"
	"github.com/favbox/avalon/conversation"
	"github.com/favbox/avalon/internal/gmap"
)

type agentOptions struct {
	modelOptions []model.Option
	toolOptions  []tool.Option
	runOptions   []compose.RunOption
	conversation *conversation.Conversation
	values       map[string]any
}

// AgentOption Generate 的调用选项。
type AgentOption func(o *agentOptions)

// WithChatModelOptions 本次调用中传给聊天模型的选项。
func WithChatModelOptions(opts ...model.Option) AgentOption {
	return func(o *agentOptions) {
		o.modelOptions = append(o.modelOptions, opts...)
	}
}

// WithToolOptions 本次调用中传给工具的选项。
func WithToolOptions(opts ...tool.Option) AgentOption {
	return func(o *agentOptions) {
		o.toolOptions = append(o.toolOptions, opts...)
	}
}

// WithComposeOptions 本次调用的图执行选项，如 compose.WithCallbacks。
func WithComposeOptions(opts ...compose.RunOption) AgentOption {
	return func(o *agentOptions) {
		o.runOptions = append(o.runOptions, opts...)
	}
}

// WithConversation 在已有对话上继续，输入消息追加到该对话末尾。
// 对话为空时会先写入系统提示词。
func WithConversation(conv *conversation.Conversation) AgentOption {
	return func(o *agentOptions) {
		o.conversation = conv
	}
}

// WithPromptValues 渲染系统提示词时使用的变量，覆盖 AgentConfig.PromptValues 中的同名变量。
func WithPromptValues(values map[string]any) AgentOption {
	return func(o *agentOptions) {
		o.values = gmap.Concat(o.values, values)
	}
}
