package conversation

import "github.com/favbox/avalon/schema"

type options struct {
	id        string
	messages  []*schema.Message
	preHooks  []PreAddHook
	postHooks []PostAddHook
}

// Option 创建对话记录的函数式选项。
type Option func(o *options)

// WithID 指定对话 ID，默认随机生成。
func WithID(id string) Option {
	return func(o *options) {
		o.id = id
	}
}

// WithMessages 设置初始消息，初始消息不经过钩子。
func WithMessages(msgs ...*schema.Message) Option {
	return func(o *options) {
		o.messages = append(o.messages, msgs...)
	}
}

// WithPreAddHooks 追加 pre 钩子，按添加顺序执行。
func WithPreAddHooks(hooks ...PreAddHook) Option {
	return func(o *options) {
		o.preHooks = append(o.preHooks, hooks...)
	}
}

// WithPostAddHooks 追加 post 钩子，按添加顺序执行。
func WithPostAddHooks(hooks ...PostAddHook) Option {
	return func(o *options) {
		o.postHooks = append(o.postHooks, hooks...)
	}
}
