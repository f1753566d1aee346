package model

import "github.com/favbox/avalon/schema"

// Options 聊天模型的通用选项。
type Options struct {
	Temperature *float32
	MaxTokens   *int
	Model       *string
	TopP        *float32
	Stop        []string
	Tools       []*schema.ToolInfo
	ToolChoice  *schema.ToolChoice
}

// Option 聊天模型的调用选项，既可以是通用选项，也可以是实现特定的选项。
type Option struct {
	apply func(opts *Options)

	implSpecificOptFn any
}

// WithTemperature 设置采样温度。
func WithTemperature(temperature float32) Option {
	return Option{
		apply: func(opts *Options) {
			opts.Temperature = &temperature
		},
	}
}

// WithMaxTokens 设置最大输出 token 数。
func WithMaxTokens(maxTokens int) Option {
	return Option{
		apply: func(opts *Options) {
			opts.MaxTokens = &maxTokens
		},
	}
}

// WithModel 设置模型名称。
func WithModel(name string) Option {
	return Option{
		apply: func(opts *Options) {
			opts.Model = &name
		},
	}
}

// WithTopP 设置 top p。
func WithTopP(topP float32) Option {
	return Option{
		apply: func(opts *Options) {
			opts.TopP = &topP
		},
	}
}

// WithStop 设置停止词。
func WithStop(stop []string) Option {
	return Option{
		apply: func(opts *Options) {
			opts.Stop = stop
		},
	}
}

// WithTools 设置本次调用可用的工具。
func WithTools(tools []*schema.ToolInfo) Option {
	if tools == nil {
		tools = []*schema.ToolInfo{}
	}
	return Option{
		apply: func(opts *Options) {
			opts.Tools = tools
		},
	}
}

// WithToolChoice 设置工具调用策略。
func WithToolChoice(toolChoice schema.ToolChoice) Option {
	return Option{
		apply: func(opts *Options) {
			opts.ToolChoice = &toolChoice
		},
	}
}

// WrapImplSpecificOptFn 将实现特定的选项函数包装为 Option。
func WrapImplSpecificOptFn[T any](optFn func(*T)) Option {
	return Option{
		implSpecificOptFn: optFn,
	}
}

// GetCommonOptions 在 base 的基础上应用通用选项，base 为 nil 时新建。
func GetCommonOptions(base *Options, opts ...Option) *Options {
	if base == nil {
		base = &Options{}
	}

	for i := range opts {
		if opts[i].apply != nil {
			opts[i].apply(base)
		}
	}

	return base
}

// GetImplSpecificOptions 在 base 的基础上应用类型为 func(*T) 的实现特定选项。
func GetImplSpecificOptions[T any](base *T, opts ...Option) *T {
	if base == nil {
		base = new(T)
	}

	for i := range opts {
		if optFn, ok := opts[i].implSpecificOptFn.(func(*T)); ok {
			optFn(base)
		}
	}

	return base
}
