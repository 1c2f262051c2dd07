// Package http 优惠券的 HTTP 接口
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/wyfcoding/storefront/internal/coupon/application"
	"github.com/wyfcoding/storefront/internal/coupon/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/response"
)

// CouponHandler HTTP 处理器
type CouponHandler struct {
	app *application.CouponApplicationService
}

// NewCouponHandler 创建 HTTP 处理器实例
func NewCouponHandler(app *application.CouponApplicationService) *CouponHandler {
	return &CouponHandler{app: app}
}

// RegisterRoutes 注册路由，api 为 /api/v1 分组
func (h *CouponHandler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/coupons", h.ListCoupons)
	api.GET("/coupons/:code", h.GetCoupon)
	api.POST("/admin/coupons", h.CreateCoupon)
}

// ListCoupons 优惠券选择列表
func (h *CouponHandler) ListCoupons(c *gin.Context) {
	coupons, err := h.app.ListCoupons(c.Request.Context())
	if err != nil {
		Fail(c, err)
		return
	}
	response.Success(c, coupons)
}

// GetCoupon 按编码查找优惠券
func (h *CouponHandler) GetCoupon(c *gin.Context) {
	coupon, err := h.app.GetCoupon(c.Request.Context(), c.Param("code"))
	if err != nil {
		Fail(c, err)
		return
	}
	response.Success(c, coupon)
}

// CreateCoupon 创建优惠券
func (h *CouponHandler) CreateCoupon(c *gin.Context) {
	var form application.CouponForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	cmd, err := form.ToCommand()
	if err != nil {
		Fail(c, err)
		return
	}

	coupon, err := h.app.CreateCoupon(c.Request.Context(), cmd)
	if err != nil {
		Fail(c, err)
		return
	}
	response.Created(c, coupon)
}

// Fail 把优惠券错误映射为 HTTP 状态码
func Fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoupon):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrCouponNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrDuplicateCoupon):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	case errors.Is(err, domain.ErrInvalidCouponType):
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		logger.Error(c.Request.Context(), "coupon request failed", "path", c.FullPath(), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", logger.RequestID(c.Request.Context()))
	}
}
