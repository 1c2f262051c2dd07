package application

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// CreateProductCommand 创建商品命令，ID 为空时自动生成
type CreateProductCommand struct {
	ID        string
	Name      string
	Price     int64
	Stock     int
	Discounts []domain.Discount
}

// UpdateProductCommand 更新商品命令，只修改名称、价格和库存，阶梯折扣保持不变
type UpdateProductCommand struct {
	ID    string
	Name  string
	Price int64
	Stock int
}

// AddDiscountCommand 追加阶梯折扣命令
type AddDiscountCommand struct {
	ProductID string
	Quantity  int
	Rate      decimal.Decimal
}

// RemoveDiscountCommand 删除阶梯折扣命令
type RemoveDiscountCommand struct {
	ProductID string
	Index     int
}

// IDGenerator 商品 ID 生成器
type IDGenerator interface {
	NewString() string
}

// CatalogCommandService 商品目录命令服务
type CatalogCommandService struct {
	repo      domain.ProductRepository
	publisher domain.EventPublisher
	ids       IDGenerator
	opts      domain.MutatorOptions
}

// NewCatalogCommandService 创建商品目录命令服务实例
func NewCatalogCommandService(
	repo domain.ProductRepository,
	publisher domain.EventPublisher,
	ids IDGenerator,
	opts domain.MutatorOptions,
) *CatalogCommandService {
	return &CatalogCommandService{
		repo:      repo,
		publisher: publisher,
		ids:       ids,
		opts:      opts,
	}
}

// CreateProduct 处理创建商品
func (s *CatalogCommandService) CreateProduct(ctx context.Context, cmd CreateProductCommand) (domain.Product, error) {
	id := cmd.ID
	if id == "" {
		id = s.ids.NewString()
	}
	product := domain.NewProduct(id, cmd.Name, cmd.Price, cmd.Stock, cmd.Discounts...)
	if err := s.validate(product); err != nil {
		return domain.Product{}, err
	}

	if err := s.repo.Add(ctx, product); err != nil {
		return domain.Product{}, errors.Wrapf(err, "create product %s", id)
	}

	// 发布商品创建事件
	s.publish(ctx, domain.TopicProductCreated, product.ID, domain.ProductCreatedEvent{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Stock:     product.Stock,
		Timestamp: time.Now(),
	})

	return product, nil
}

// UpdateProduct 处理更新商品，按 ID 整体替换
func (s *CatalogCommandService) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (domain.Product, error) {
	var oldStock int
	var updated domain.Product

	err := s.repo.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		current, ok := domain.FindProductByID(products, cmd.ID)
		if !ok {
			return nil, errors.Wrapf(domain.ErrProductNotFound, "update product %s", cmd.ID)
		}
		oldStock = current.Stock

		next := current.Clone()
		next.Name = cmd.Name
		next.Price = cmd.Price
		next.Stock = cmd.Stock
		if err := s.validate(next); err != nil {
			return nil, err
		}
		updated = next
		return domain.ReplaceProduct(products, next), nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	// 发布商品更新事件
	s.publish(ctx, domain.TopicProductUpdated, updated.ID, domain.ProductUpdatedEvent{
		ProductID: updated.ID,
		Name:      updated.Name,
		Price:     updated.Price,
		Stock:     updated.Stock,
		Timestamp: time.Now(),
	})

	// 如果库存发生变化，发布库存变更事件
	if oldStock != updated.Stock {
		s.publish(ctx, domain.TopicProductStockChanged, updated.ID, domain.ProductStockChangedEvent{
			ProductID: updated.ID,
			OldStock:  oldStock,
			NewStock:  updated.Stock,
			Timestamp: time.Now(),
		})
	}

	return updated, nil
}

// AddDiscount 处理追加阶梯折扣
func (s *CatalogCommandService) AddDiscount(ctx context.Context, cmd AddDiscountCommand) (domain.Product, error) {
	discount := domain.Discount{Quantity: cmd.Quantity, Rate: cmd.Rate}

	updated, err := s.mutate(ctx, cmd.ProductID, func(p domain.Product) (domain.Product, error) {
		return domain.AddDiscountToProduct(p, discount, s.opts)
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.publish(ctx, domain.TopicProductDiscountAdded, updated.ID, domain.ProductDiscountAddedEvent{
		ProductID: updated.ID,
		Quantity:  discount.Quantity,
		Rate:      discount.Rate,
		Timestamp: time.Now(),
	})
	return updated, nil
}

// RemoveDiscount 处理删除阶梯折扣，下标越界时商品保持不变
func (s *CatalogCommandService) RemoveDiscount(ctx context.Context, cmd RemoveDiscountCommand) (domain.Product, error) {
	var removed bool
	updated, err := s.mutate(ctx, cmd.ProductID, func(p domain.Product) (domain.Product, error) {
		out := domain.RemoveDiscountFromProduct(p, cmd.Index)
		removed = len(out.Discounts) < len(p.Discounts)
		return out, nil
	})
	if err != nil {
		return domain.Product{}, err
	}

	s.publish(ctx, domain.TopicProductDiscountRemoved, updated.ID, domain.ProductDiscountRemovedEvent{
		ProductID: updated.ID,
		Index:     cmd.Index,
		Removed:   removed,
		Timestamp: time.Now(),
	})
	return updated, nil
}

// mutate 在仓储的原子更新中对单个商品应用 fn
func (s *CatalogCommandService) mutate(ctx context.Context, id string, fn func(domain.Product) (domain.Product, error)) (domain.Product, error) {
	var updated domain.Product
	err := s.repo.Update(ctx, func(products []domain.Product) ([]domain.Product, error) {
		current, ok := domain.FindProductByID(products, id)
		if !ok {
			return nil, errors.Wrapf(domain.ErrProductNotFound, "product %s", id)
		}
		next, err := fn(current)
		if err != nil {
			return nil, err
		}
		updated = next
		return domain.ReplaceProduct(products, next), nil
	})
	return updated, err
}

// validate 校验基础字段，按选项决定是否校验阶梯折扣
func (s *CatalogCommandService) validate(p domain.Product) error {
	base := p
	base.Discounts = nil
	if err := base.Validate(); err != nil {
		return err
	}
	if !s.opts.ValidateDiscounts {
		return nil
	}
	for _, d := range p.Discounts {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (s *CatalogCommandService) publish(ctx context.Context, topic, key string, event any) {
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "failed to publish catalog event", "topic", topic, "key", key, "error", err)
	}
}
