// Package application 购物车应用层：命令、查询、服务门面与事件观察者
package application

import (
	"context"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
)

// CartApplicationService 购物车服务门面，整合命令服务和查询服务
// 所有命令都返回变更后的购物车视图
type CartApplicationService struct {
	commandService *CartCommandService
	queryService   *CartQueryService
}

// NewCartApplicationService 创建购物车服务门面实例
func NewCartApplicationService(
	repo domain.SessionRepository,
	products ProductReader,
	coupons CouponReader,
	publisher domain.EventPublisher,
	opts domain.PricingOptions,
) *CartApplicationService {
	return &CartApplicationService{
		commandService: NewCartCommandService(repo, products, coupons, publisher),
		queryService:   NewCartQueryService(repo, opts),
	}
}

// GetCart 获取购物车
func (s *CartApplicationService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	return s.queryService.GetCart(ctx, sessionID)
}

// RemainingStock 商品剩余可加入数量
func (s *CartApplicationService) RemainingStock(ctx context.Context, sessionID string, product catalog.Product) (int, error) {
	return s.queryService.RemainingStock(ctx, sessionID, product)
}

// AddItem 加入一件商品
func (s *CartApplicationService) AddItem(ctx context.Context, sessionID, productID string) (*CartView, error) {
	return s.render(s.commandService.AddItem(ctx, AddItemCommand{SessionID: sessionID, ProductID: productID}))
}

// RemoveItem 移除购物车行
func (s *CartApplicationService) RemoveItem(ctx context.Context, sessionID, productID string) (*CartView, error) {
	return s.render(s.commandService.RemoveItem(ctx, RemoveItemCommand{SessionID: sessionID, ProductID: productID}))
}

// UpdateQuantity 修改数量
func (s *CartApplicationService) UpdateQuantity(ctx context.Context, sessionID, productID string, quantity int) (*CartView, error) {
	cmd := UpdateQuantityCommand{
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
	}
	return s.render(s.commandService.UpdateQuantity(ctx, cmd))
}

// ApplyCoupon 选择优惠券
func (s *CartApplicationService) ApplyCoupon(ctx context.Context, sessionID, code string) (*CartView, error) {
	return s.render(s.commandService.ApplyCoupon(ctx, ApplyCouponCommand{SessionID: sessionID, Code: code}))
}

// ClearCoupon 取消选择优惠券
func (s *CartApplicationService) ClearCoupon(ctx context.Context, sessionID string) (*CartView, error) {
	return s.ApplyCoupon(ctx, sessionID, "")
}

// ClearCart 清空购物车
func (s *CartApplicationService) ClearCart(ctx context.Context, sessionID string) error {
	return s.commandService.ClearCart(ctx, sessionID)
}

func (s *CartApplicationService) render(session *domain.Session, err error) (*CartView, error) {
	if err != nil {
		return nil, err
	}
	return s.queryService.View(session)
}
