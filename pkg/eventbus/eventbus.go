// Package eventbus 进程内领域事件总线，基于 asaskevich/EventBus
package eventbus

import (
	"context"
	"time"

	EventBus "github.com/asaskevich/EventBus"
	"github.com/go-faster/errors"

	"github.com/wyfcoding/storefront/pkg/logger"
)

// Message 在总线上传递的事件信封
type Message struct {
	Topic     string    `json:"topic"`
	Key       string    `json:"key"`
	Event     any       `json:"event"`
	RequestID string    `json:"request_id,omitempty"`
	At        time.Time `json:"at"`
}

// Handler 订阅者回调
type Handler func(Message)

// Bus 领域事件总线
type Bus struct {
	bus EventBus.Bus
}

// New 创建事件总线
func New() *Bus {
	return &Bus{bus: EventBus.New()}
}

// Publish 发布事件，签名与各上下文 domain.EventPublisher 一致
func (b *Bus) Publish(ctx context.Context, topic, key string, event any) error {
	if topic == "" {
		return errors.New("eventbus: empty topic")
	}
	if !b.HasSubscribers(topic) {
		logger.Debug(ctx, "domain event dropped, no subscribers", "topic", topic, "key", key)
		return nil
	}
	msg := Message{
		Topic:     topic,
		Key:       key,
		Event:     event,
		RequestID: logger.RequestID(ctx),
		At:        time.Now(),
	}
	b.bus.Publish(topic, msg)
	logger.Debug(ctx, "domain event published", "topic", topic, "key", key)
	return nil
}

// Subscribe 同步订阅一个主题
func (b *Bus) Subscribe(topic string, h Handler) error {
	if err := b.bus.Subscribe(topic, func(m Message) { h(m) }); err != nil {
		return errors.Wrapf(err, "subscribe %s", topic)
	}
	return nil
}

// SubscribeAsync 异步订阅一个主题，同一订阅者的回调串行执行
func (b *Bus) SubscribeAsync(topic string, h Handler) error {
	if err := b.bus.SubscribeAsync(topic, func(m Message) { h(m) }, true); err != nil {
		return errors.Wrapf(err, "subscribe async %s", topic)
	}
	return nil
}

// SubscribeAll 为多个主题注册同一个同步回调
func (b *Bus) SubscribeAll(topics []string, h Handler) error {
	for _, topic := range topics {
		if err := b.Subscribe(topic, h); err != nil {
			return err
		}
	}
	return nil
}

// HasSubscribers 主题是否有订阅者
func (b *Bus) HasSubscribers(topic string) bool {
	return b.bus.HasCallback(topic)
}

// Wait 等待所有异步回调执行完毕
func (b *Bus) Wait() {
	b.bus.WaitAsync()
}

// Recorder 事件计数接口，由 metrics.MetricsCollector 实现
type Recorder interface {
	RecordEvent(topic string)
}

// Audit 异步订阅给定主题，逐条记录日志并计数，不占用请求路径；关闭前调用 Wait 排空
func (b *Bus) Audit(topics []string, rec Recorder) error {
	for _, topic := range topics {
		err := b.SubscribeAsync(topic, func(m Message) {
			ctx := logger.ContextWithIDs(context.Background(), m.RequestID, "", "")
			logger.Info(ctx, "domain event", "topic", m.Topic, "key", m.Key, "event", m.Event)
			rec.RecordEvent(m.Topic)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
