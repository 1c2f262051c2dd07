package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	"github.com/wyfcoding/storefront/pkg/eventbus"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// Subscriber 事件订阅接口，由 *eventbus.Bus 实现
type Subscriber interface {
	Subscribe(topic string, h eventbus.Handler) error
}

// Recorder 购物车相关的指标
type Recorder interface {
	RecordCouponApplied(discountType string)
	RecordQuantityClamped()
	UpdateActiveSessions(count int)
}

// Observer 把购物车事件转换为指标
type Observer struct {
	repo domain.SessionRepository
	rec  Recorder
}

// NewObserver 创建购物车事件观察者
func NewObserver(repo domain.SessionRepository, rec Recorder) *Observer {
	return &Observer{repo: repo, rec: rec}
}

// Register 订阅购物车事件
func (o *Observer) Register(sub Subscriber) error {
	handlers := map[string]eventbus.Handler{
		domain.TopicCartItemAdded:       o.refreshSessions,
		domain.TopicCartCleared:         o.refreshSessions,
		domain.TopicCartQuantityUpdated: o.onQuantityUpdated,
		domain.TopicCartCouponApplied:   o.onCouponApplied,
	}
	for topic, h := range handlers {
		if err := sub.Subscribe(topic, h); err != nil {
			return err
		}
	}
	return nil
}

func (o *Observer) refreshSessions(eventbus.Message) {
	n, err := o.repo.Count(context.Background())
	if err != nil {
		logger.Warn(context.Background(), "count sessions failed", "error", err)
		return
	}
	o.rec.UpdateActiveSessions(n)
}

func (o *Observer) onQuantityUpdated(m eventbus.Message) {
	if e, ok := m.Event.(domain.CartQuantityUpdatedEvent); ok && e.Clamped {
		o.rec.RecordQuantityClamped()
	}
}

func (o *Observer) onCouponApplied(m eventbus.Message) {
	if e, ok := m.Event.(domain.CartCouponAppliedEvent); ok && e.DiscountType != "" {
		o.rec.RecordCouponApplied(e.DiscountType)
	}
}
