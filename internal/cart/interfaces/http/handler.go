// Package http 购物车的 HTTP 接口，会话由 X-Session-ID 区分
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"

	"github.com/wyfcoding/storefront/internal/cart/application"
	catalog "github.com/wyfcoding/storefront/internal/catalog/domain"
	coupon "github.com/wyfcoding/storefront/internal/coupon/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// AddItemRequest 加入购物车请求
type AddItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// UpdateQuantityRequest 修改数量请求，数量接受数字或数字字符串
type UpdateQuantityRequest struct {
	Quantity any `json:"quantity"`
}

// ApplyCouponRequest 选择优惠券请求
type ApplyCouponRequest struct {
	Code string `json:"code" binding:"required"`
}

// CartHandler HTTP 处理器
type CartHandler struct {
	app *application.CartApplicationService
}

// NewCartHandler 创建 HTTP 处理器实例
func NewCartHandler(app *application.CartApplicationService) *CartHandler {
	return &CartHandler{app: app}
}

// RegisterRoutes 注册路由，api 为挂载了会话中间件的 /api/v1 分组
func (h *CartHandler) RegisterRoutes(api *gin.RouterGroup) {
	cart := api.Group("/cart")
	{
		cart.GET("", h.GetCart)
		cart.DELETE("", h.ClearCart)
		cart.POST("/items", h.AddItem)
		cart.PUT("/items/:product_id", h.UpdateQuantity)
		cart.DELETE("/items/:product_id", h.RemoveItem)
		cart.POST("/coupon", h.ApplyCoupon)
		cart.DELETE("/coupon", h.ClearCoupon)
	}
}

// GetCart 购物车行、每行折扣率与金额汇总
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.app.GetCart(c.Request.Context(), middleware.SessionID(c))
	h.reply(c, view, err)
}

// ClearCart 清空购物车
func (h *CartHandler) ClearCart(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := h.app.ClearCart(c.Request.Context(), sessionID); err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.app.GetCart(c.Request.Context(), sessionID)
	h.reply(c, view, err)
}

// AddItem 加入一件商品
func (h *CartHandler) AddItem(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	view, err := h.app.AddItem(c.Request.Context(), middleware.SessionID(c), req.ProductID)
	h.reply(c, view, err)
}

// UpdateQuantity 修改数量，<= 0 删除该行，超过库存时截断
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	quantity, err := utils.ToWholeNumberE(req.Quantity)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "quantity must be a whole number", err.Error())
		return
	}

	view, err := h.app.UpdateQuantity(c.Request.Context(), middleware.SessionID(c), c.Param("product_id"), int(quantity))
	h.reply(c, view, err)
}

// RemoveItem 移除购物车行
func (h *CartHandler) RemoveItem(c *gin.Context) {
	view, err := h.app.RemoveItem(c.Request.Context(), middleware.SessionID(c), c.Param("product_id"))
	h.reply(c, view, err)
}

// ApplyCoupon 选择优惠券
func (h *CartHandler) ApplyCoupon(c *gin.Context) {
	var req ApplyCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	view, err := h.app.ApplyCoupon(c.Request.Context(), middleware.SessionID(c), req.Code)
	h.reply(c, view, err)
}

// ClearCoupon 取消选择优惠券
func (h *CartHandler) ClearCoupon(c *gin.Context) {
	view, err := h.app.ClearCoupon(c.Request.Context(), middleware.SessionID(c))
	h.reply(c, view, err)
}

func (h *CartHandler) reply(c *gin.Context, view *application.CartView, err error) {
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, view)
}

func (h *CartHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalog.ErrProductNotFound), errors.Is(err, coupon.ErrCouponNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, coupon.ErrInvalidCouponType):
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error(), "")
	default:
		logger.Error(c.Request.Context(), "cart request failed", "path", c.FullPath(), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", logger.RequestID(c.Request.Context()))
	}
}
