package domain

import "context"

// ProductRepository 商品目录存储
// 实现方需保证 Update 中的读改写对其他调用方是原子的
type ProductRepository interface {
	List(ctx context.Context) ([]Product, error)
	Get(ctx context.Context, id string) (Product, bool, error)
	Add(ctx context.Context, product Product) error
	// Update 以当前快照调用 fn，并原子地安装 fn 返回的新快照
	Update(ctx context.Context, fn func(products []Product) ([]Product, error)) error
}

// EventPublisher 事件发布者接口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
