// Package application 优惠券应用层
package application

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cast"

	"github.com/wyfcoding/storefront/internal/coupon/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// CreateCouponCommand 创建优惠券命令
type CreateCouponCommand struct {
	Name          string
	Code          string
	DiscountType  domain.DiscountType
	DiscountValue int64
}

// CouponForm 管理端优惠券表单，数值字段接受数字或数字字符串
type CouponForm struct {
	Name          any    `json:"name"`
	Code          any    `json:"code"`
	DiscountType  string `json:"discountType"`
	DiscountValue any    `json:"discountValue"`
}

// ToCommand 把表单转换为创建命令，缺失的抵扣方式默认为百分比
func (f CouponForm) ToCommand() (CreateCouponCommand, error) {
	defaults := domain.NewCoupon()
	cmd := CreateCouponCommand{
		Name:          cast.ToString(f.Name),
		Code:          cast.ToString(f.Code),
		DiscountType:  defaults.DiscountType,
		DiscountValue: defaults.DiscountValue,
	}
	if f.DiscountType != "" {
		cmd.DiscountType = domain.DiscountType(f.DiscountType)
	}
	if f.DiscountValue != nil && f.DiscountValue != "" {
		v, err := utils.ToWholeNumberE(f.DiscountValue)
		if err != nil {
			return CreateCouponCommand{}, errors.Wrap(domain.ErrInvalidCoupon, "discount value must be a whole number")
		}
		cmd.DiscountValue = v
	}
	return cmd, nil
}

// CouponApplicationService 优惠券应用服务
type CouponApplicationService struct {
	repo      domain.CouponRepository
	publisher domain.EventPublisher
}

// NewCouponApplicationService 创建优惠券应用服务实例
func NewCouponApplicationService(repo domain.CouponRepository, publisher domain.EventPublisher) *CouponApplicationService {
	return &CouponApplicationService{repo: repo, publisher: publisher}
}

// CreateCoupon 校验并追加优惠券
func (s *CouponApplicationService) CreateCoupon(ctx context.Context, cmd CreateCouponCommand) (domain.Coupon, error) {
	c := domain.Coupon{
		Name:          cmd.Name,
		Code:          cmd.Code,
		DiscountType:  cmd.DiscountType,
		DiscountValue: cmd.DiscountValue,
	}
	if err := c.Validate(); err != nil {
		return domain.Coupon{}, err
	}
	if err := s.repo.Add(ctx, c); err != nil {
		return domain.Coupon{}, errors.Wrapf(err, "create coupon %s", c.Code)
	}

	event := domain.CouponCreatedEvent{
		Code:          c.Code,
		Name:          c.Name,
		DiscountType:  c.DiscountType,
		DiscountValue: c.DiscountValue,
		Timestamp:     time.Now(),
	}
	if err := s.publisher.Publish(ctx, domain.TopicCouponCreated, c.Code, event); err != nil {
		logger.Warn(ctx, "failed to publish coupon event", "code", c.Code, "error", err)
	}
	return c, nil
}

// ListCoupons 按添加顺序列出优惠券
func (s *CouponApplicationService) ListCoupons(ctx context.Context) ([]domain.Coupon, error) {
	return s.repo.List(ctx)
}

// GetCoupon 按编码查找优惠券
func (s *CouponApplicationService) GetCoupon(ctx context.Context, code string) (domain.Coupon, error) {
	c, ok, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return domain.Coupon{}, err
	}
	if !ok {
		return domain.Coupon{}, errors.Wrapf(domain.ErrCouponNotFound, "coupon %s", code)
	}
	return c, nil
}
