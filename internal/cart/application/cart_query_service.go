package application

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/storefront/internal/cart/domain"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	coupon "github.com/wyfcoding/storefront/internal/coupon/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
)

// LineView 购物车行展示数据
type LineView struct {
	Product        catalog.Product `json:"product"`
	Quantity       int             `json:"quantity"`
	AppliedRate    decimal.Decimal `json:"appliedRate"`
	ListTotal      decimal.Decimal `json:"listTotal"`
	LineTotal      decimal.Decimal `json:"lineTotal"`
	RemainingStock int             `json:"remainingStock"`
}

// CartView 购物车展示数据，金额每次实时计算
type CartView struct {
	SessionID     string            `json:"sessionId"`
	Items         []LineView        `json:"items"`
	Coupon        *coupon.Coupon    `json:"selectedCoupon"`
	TotalQuantity int               `json:"totalQuantity"`
	Totals        domain.CartTotals `json:"totals"`
}

// CartQueryService 购物车查询服务
type CartQueryService struct {
	repo domain.SessionRepository
	opts domain.PricingOptions
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(
	repo domain.SessionRepository,
	opts domain.PricingOptions,
) *CartQueryService {
	return &CartQueryService{
		repo: repo,
		opts: opts,
	}
}

// GetCart 获取会话的购物车及金额汇总
func (s *CartQueryService) GetCart(ctx context.Context, sessionID string) (*CartView, error) {
	defer logger.LogDuration(ctx, "cart priced", "session_id", sessionID)()

	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.View(session)
}

// View 把会话渲染为展示数据
func (s *CartQueryService) View(session *domain.Session) (*CartView, error) {
	totals, err := domain.CalculateCartTotal(session.Cart, session.Coupon, s.opts)
	if err != nil {
		return nil, err
	}

	items := make([]LineView, 0, len(session.Cart))
	for _, item := range session.Cart {
		items = append(items, LineView{
			Product:        item.Product,
			Quantity:       item.Quantity,
			AppliedRate:    domain.ApplicableDiscountRate(item),
			ListTotal:      item.ListTotal(),
			LineTotal:      domain.LineTotal(item),
			RemainingStock: domain.RemainingStock(session.Cart, item.Product),
		})
	}

	return &CartView{
		SessionID:     session.ID,
		Items:         items,
		Coupon:        session.Coupon,
		TotalQuantity: session.Cart.TotalQuantity(),
		Totals:        totals,
	}, nil
}

// RemainingStock 商品在该会话下还可加入的数量
func (s *CartQueryService) RemainingStock(ctx context.Context, sessionID string, product catalog.Product) (int, error) {
	session, err := s.repo.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return domain.RemainingStock(session.Cart, product), nil
}
