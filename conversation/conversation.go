package conversation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/favbox/avalon/callbacks"
	"github.com/favbox/avalon/components"
	"github.com/favbox/avalon/schema"
)

var (
	// ErrNilMessage 追加了 nil 消息。
	ErrNilMessage = errors.New("message is nil")
	// ErrRejected 消息被 pre 钩子拒绝时，钩子可以返回包装了它的错误。
	ErrRejected = errors.New("message rejected")
)

// PreAddHook 消息追加前的钩子。返回的消息替代原消息，返回 nil 消息时沿用原消息；
// 返回错误则拒绝追加。
type PreAddHook func(ctx context.Context, conv *Conversation, msg *schema.Message) (*schema.Message, error)

// PostAddHook 消息追加后的钩子，msg 为实际追加的消息。
// 返回错误不会撤销追加。
type PostAddHook func(ctx context.Context, conv *Conversation, msg *schema.Message) error

// Conversation 只追加的对话记录，可以被多个协程同时使用。
type Conversation struct {
	mu       sync.RWMutex
	id       string
	messages []*schema.Message

	preHooks  []PreAddHook
	postHooks []PostAddHook
}

// New 创建对话记录并分配唯一 ID。
func New(opts ...Option) *Conversation {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	id := o.id
	if id == "" {
		id = uuid.NewString()
	}

	return &Conversation{
		id:        id,
		messages:  append([]*schema.Message(nil), o.messages...),
		preHooks:  o.preHooks,
		postHooks: o.postHooks,
	}
}

// ID 对话的唯一标识。
func (c *Conversation) ID() string {
	return c.id
}

// AddMessage 依次执行 pre 钩子、追加消息、执行 post 钩子。
// 任一 pre 钩子失败时消息不会被追加。
func (c *Conversation) AddMessage(ctx context.Context, msg *schema.Message) (err error) {
	ctx = callbacks.ReuseHandlers(ctx, &callbacks.RunInfo{
		Name:      c.id,
		Type:      "Conversation",
		Component: components.ComponentOfConversation,
	})
	ctx = callbacks.OnStart(ctx, msg)
	defer func() {
		if err != nil {
			_ = callbacks.OnError(ctx, err)
		}
	}()

	if msg == nil {
		return ErrNilMessage
	}

	for i, hook := range c.preHooks {
		next, hookErr := hook(ctx, c, msg)
		if hookErr != nil {
			return fmt.Errorf("[conversation] pre add hook #%d failed: %w", i, hookErr)
		}
		if next != nil {
			msg = next
		}
	}

	c.mu.Lock()
	c.messages = append(c.messages, msg)
	c.mu.Unlock()

	for i, hook := range c.postHooks {
		if err = hook(ctx, c, msg); err != nil {
			return fmt.Errorf("[conversation] post add hook #%d failed: %w", i, err)
		}
	}

	_ = callbacks.OnEnd(ctx, msg)
	return nil
}

// AddMessages 依次追加多条消息，遇到第一个错误即返回。
func (c *Conversation) AddMessages(ctx context.Context, msgs ...*schema.Message) error {
	for _, msg := range msgs {
		if err := c.AddMessage(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// Messages 返回消息列表的拷贝，调用方可以自由追加或截断。
func (c *Conversation) Messages() []*schema.Message {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*schema.Message(nil), c.messages...)
}

// Len 消息条数。
func (c *Conversation) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.messages)
}

// Last 最后一条消息。
func (c *Conversation) Last() (*schema.Message, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.messages) == 0 {
		return nil, false
	}
	return c.messages[len(c.messages)-1], true
}

type snapshot struct {
	ID       string            `json:"id"`
	Messages []*schema.Message `json:"messages"`
}

// MarshalJSON 导出对话 ID 与全部消息。
func (c *Conversation) MarshalJSON() ([]byte, error) {
	return sonic.Marshal(snapshot{ID: c.id, Messages: c.Messages()})
}

// Unmarshal 从 MarshalJSON 的输出恢复对话记录，钩子等选项需要重新指定。
func Unmarshal(data []byte, opts ...Option) (*Conversation, error) {
	var s snapshot
	if err := sonic.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("[conversation] unmarshal failed: %w", err)
	}
	opts = append([]Option{WithID(s.ID), WithMessages(s.Messages...)}, opts...)
	return New(opts...), nil
}
