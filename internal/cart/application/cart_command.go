package application

import (
	"context"
	"time"

	"github.com/go-faster/errors"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	coupon "github.com/wyfcoding/storefront/internal/coupon/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// AddItemCommand 加入一件商品
type AddItemCommand struct {
	SessionID string
	ProductID string
}

// RemoveItemCommand 移除购物车行
type RemoveItemCommand struct {
	SessionID string
	ProductID string
}

// UpdateQuantityCommand 修改购物车行数量
type UpdateQuantityCommand struct {
	SessionID string
	ProductID string
	Quantity  int
}

// ApplyCouponCommand 选择优惠券，Code 为空表示取消选择
type ApplyCouponCommand struct {
	SessionID string
	Code      string
}

// ProductReader 读取商品目录中的最新商品
type ProductReader interface {
	Get(ctx context.Context, id string) (catalog.Product, bool, error)
}

// CouponReader 按编码读取优惠券
type CouponReader interface {
	GetByCode(ctx context.Context, code string) (coupon.Coupon, bool, error)
}

// CartCommandService 购物车命令服务
type CartCommandService struct {
	repo      domain.SessionRepository
	products  ProductReader
	coupons   CouponReader
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.SessionRepository,
	products ProductReader,
	coupons CouponReader,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		products:  products,
		coupons:   coupons,
		publisher: publisher,
	}
}

// AddItem 处理加入商品，库存用尽时购物车保持不变
func (s *CartCommandService) AddItem(ctx context.Context, cmd AddItemCommand) (*domain.Session, error) {
	product, ok, err := s.products.Get(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Wrapf(catalog.ErrProductNotFound, "product %s", cmd.ProductID)
	}

	var before, after int
	session, err := s.repo.Update(ctx, cmd.SessionID, func(sess *domain.Session) error {
		sess.Cart = domain.SyncStock(sess.Cart, product)
		before = quantityOf(sess.Cart, product.ID)
		sess.Cart = domain.AddToCart(sess.Cart, product)
		after = quantityOf(sess.Cart, product.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if after <= before {
		logger.Debug(ctx, "add to cart ignored, no remaining stock", "session_id", cmd.SessionID, "product_id", product.ID)
		return session, nil
	}

	// 发布添加商品事件
	s.publish(ctx, domain.TopicCartItemAdded, cmd.SessionID, domain.CartItemAddedEvent{
		SessionID: cmd.SessionID,
		ProductID: product.ID,
		Quantity:  after,
		Timestamp: time.Now(),
	})
	return session, nil
}

// RemoveItem 处理移除商品，商品不在购物车中时不变
func (s *CartCommandService) RemoveItem(ctx context.Context, cmd RemoveItemCommand) (*domain.Session, error) {
	var existed bool
	session, err := s.repo.Update(ctx, cmd.SessionID, func(sess *domain.Session) error {
		_, existed = sess.Cart.Find(cmd.ProductID)
		sess.Cart = domain.RemoveFromCart(sess.Cart, cmd.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if existed {
		s.publish(ctx, domain.TopicCartItemRemoved, cmd.SessionID, domain.CartItemRemovedEvent{
			SessionID: cmd.SessionID,
			ProductID: cmd.ProductID,
			Timestamp: time.Now(),
		})
	}
	return session, nil
}

// UpdateQuantity 处理数量变更，数量被截断到商品目录中的当前库存
func (s *CartCommandService) UpdateQuantity(ctx context.Context, cmd UpdateQuantityCommand) (*domain.Session, error) {
	product, found, err := s.products.Get(ctx, cmd.ProductID)
	if err != nil {
		return nil, err
	}

	var existed bool
	var stock, quantity int
	session, err := s.repo.Update(ctx, cmd.SessionID, func(sess *domain.Session) error {
		if found {
			sess.Cart = domain.SyncStock(sess.Cart, product)
		}
		var item domain.CartItem
		item, existed = sess.Cart.Find(cmd.ProductID)
		stock = item.Product.Stock
		sess.Cart = domain.UpdateQuantity(sess.Cart, cmd.ProductID, cmd.Quantity)
		quantity = quantityOf(sess.Cart, cmd.ProductID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !existed {
		return session, nil
	}

	event := domain.CartQuantityUpdatedEvent{
		SessionID: cmd.SessionID,
		ProductID: cmd.ProductID,
		Requested: cmd.Quantity,
		Quantity:  quantity,
		Clamped:   cmd.Quantity > stock,
		Timestamp: time.Now(),
	}
	s.publish(ctx, domain.TopicCartQuantityUpdated, cmd.SessionID, event)
	if quantity == 0 {
		s.publish(ctx, domain.TopicCartItemRemoved, cmd.SessionID, domain.CartItemRemovedEvent{
			SessionID: cmd.SessionID,
			ProductID: cmd.ProductID,
			Timestamp: event.Timestamp,
		})
	}
	return session, nil
}

// ApplyCoupon 选择优惠券，替换之前的选择；Code 为空时取消选择
func (s *CartCommandService) ApplyCoupon(ctx context.Context, cmd ApplyCouponCommand) (*domain.Session, error) {
	var selected *coupon.Coupon
	if cmd.Code != "" {
		c, ok, err := s.coupons.GetByCode(ctx, cmd.Code)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.Wrapf(coupon.ErrCouponNotFound, "coupon %s", cmd.Code)
		}
		if !c.DiscountType.Valid() {
			return nil, errors.Wrapf(coupon.ErrInvalidCouponType, "coupon %s: %q", cmd.Code, c.DiscountType)
		}
		selected = &c
	}

	session, err := s.repo.Update(ctx, cmd.SessionID, func(sess *domain.Session) error {
		sess.Coupon = selected
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := domain.CartCouponAppliedEvent{
		SessionID: cmd.SessionID,
		Code:      cmd.Code,
		Timestamp: time.Now(),
	}
	if selected != nil {
		event.DiscountType = string(selected.DiscountType)
	}
	s.publish(ctx, domain.TopicCartCouponApplied, cmd.SessionID, event)
	return session, nil
}

// ClearCart 删除整个会话
func (s *CartCommandService) ClearCart(ctx context.Context, sessionID string) error {
	if err := s.repo.Delete(ctx, sessionID); err != nil {
		return err
	}
	s.publish(ctx, domain.TopicCartCleared, sessionID, domain.CartClearedEvent{
		SessionID: sessionID,
		Timestamp: time.Now(),
	})
	return nil
}

func (s *CartCommandService) publish(ctx context.Context, topic, key string, event any) {
	if err := s.publisher.Publish(ctx, topic, key, event); err != nil {
		logger.Warn(ctx, "failed to publish cart event", "topic", topic, "key", key, "error", err)
	}
}

func quantityOf(cart domain.Cart, productID string) int {
	item, _ := cart.Find(productID)
	return item.Quantity
}
