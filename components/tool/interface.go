package tool

import (
	"context"

	"github.com/favbox/avalon/schema"
)

//go:generate  mockgen -destination ../../internal/mock/components/tool/Tool_mock.go --package tool -source interface.go

// BaseTool 提供工具的描述信息，供模型选择工具。
type BaseTool interface {
	Info(ctx context.Context) (*schema.ToolInfo, error)
}

// InvokableTool 可同步调用的工具。
//
// argumentsInJSON 为模型给出的 JSON 参数，结构由 Info 中的参数描述约定；
// 返回值为写回对话的工具结果。
type InvokableTool interface {
	BaseTool

	InvokableRun(ctx context.Context, argumentsInJSON string, opts ...Option) (string, error)
}
