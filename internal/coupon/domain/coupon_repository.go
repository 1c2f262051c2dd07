package domain

import "context"

// CouponRepository 优惠券存储，按添加顺序返回
type CouponRepository interface {
	List(ctx context.Context) ([]Coupon, error)
	GetByCode(ctx context.Context, code string) (Coupon, bool, error)
	Add(ctx context.Context, coupon Coupon) error
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
