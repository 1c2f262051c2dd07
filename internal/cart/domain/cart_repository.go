package domain

import "context"

// SessionRepository 购物会话存储
type SessionRepository interface {
	// Get 返回会话快照，不存在时返回空会话
	Get(ctx context.Context, sessionID string) (*Session, error)
	// Update 以当前会话调用 fn，并原子地保存 fn 修改后的会话
	Update(ctx context.Context, sessionID string, fn func(s *Session) error) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	// Count 当前保存的会话数
	Count(ctx context.Context) (int, error)
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
