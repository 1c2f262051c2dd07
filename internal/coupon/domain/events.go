package domain

import "time"

const TopicCouponCreated = "coupon.created"

// CouponCreatedEvent 优惠券创建事件
type CouponCreatedEvent struct {
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	DiscountType  DiscountType `json:"discount_type"`
	DiscountValue int64        `json:"discount_value"`
	Timestamp     time.Time    `json:"timestamp"`
}
