package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	TopicProductCreated         = "product.created"
	TopicProductUpdated         = "product.updated"
	TopicProductStockChanged    = "product.stock.changed"
	TopicProductDiscountAdded   = "product.discount.added"
	TopicProductDiscountRemoved = "product.discount.removed"
)

// ProductCreatedEvent 商品创建事件
type ProductCreatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductUpdatedEvent 商品更新事件
type ProductUpdatedEvent struct {
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"`
	Stock     int       `json:"stock"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductStockChangedEvent 商品库存变更事件
type ProductStockChangedEvent struct {
	ProductID string    `json:"product_id"`
	OldStock  int       `json:"old_stock"`
	NewStock  int       `json:"new_stock"`
	Timestamp time.Time `json:"timestamp"`
}

// ProductDiscountAddedEvent 阶梯折扣新增事件
type ProductDiscountAddedEvent struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
}

// ProductDiscountRemovedEvent 阶梯折扣删除事件
type ProductDiscountRemovedEvent struct {
	ProductID string    `json:"product_id"`
	Index     int       `json:"index"`
	Removed   bool      `json:"removed"`
	Timestamp time.Time `json:"timestamp"`
}
