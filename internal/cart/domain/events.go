package domain

import "time"

const (
	TopicCartItemAdded       = "cart.item.added"
	TopicCartItemRemoved     = "cart.item.removed"
	TopicCartQuantityUpdated = "cart.quantity.updated"
	TopicCartCouponApplied   = "cart.coupon.applied"
	TopicCartCleared         = "cart.cleared"
)

// CartItemAddedEvent 购物车添加商品事件
type CartItemAddedEvent struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件
type CartItemRemovedEvent struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartQuantityUpdatedEvent 购物车数量变更事件
// Clamped 表示请求数量超过库存被截断
type CartQuantityUpdatedEvent struct {
	SessionID string    `json:"session_id"`
	ProductID string    `json:"product_id"`
	Requested int       `json:"requested"`
	Quantity  int       `json:"quantity"`
	Clamped   bool      `json:"clamped"`
	Timestamp time.Time `json:"timestamp"`
}

// CartCouponAppliedEvent 选择或取消优惠券事件，Code 为空表示取消
type CartCouponAppliedEvent struct {
	SessionID    string    `json:"session_id"`
	Code         string    `json:"code"`
	DiscountType string    `json:"discount_type,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// CartClearedEvent 清空购物车事件，会话随之删除
type CartClearedEvent struct {
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
