package model

import (
	"context"

	"github.com/favbox/avalon/schema"
)

//go:generate  mockgen -destination ../../internal/mock/components/model/ChatModel_mock.go --package model -source interface.go

// BaseChatModel 聊天模型的基础接口。
//
// Generate 根据消息列表生成一条助手消息。实现自行负责超时与重试，
// 工作流核心不做任何重试。
type BaseChatModel interface {
	Generate(ctx context.Context, input []*schema.Message, opts ...Option) (*schema.Message, error)
}

// ToolCallingChatModel 支持工具调用的聊天模型。
//
// WithTools 返回绑定了工具的新实例，不修改原实例，便于并发复用。
type ToolCallingChatModel interface {
	BaseChatModel

	WithTools(tools []*schema.ToolInfo) (ToolCallingChatModel, error)
}
