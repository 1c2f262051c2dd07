// Package http 商品目录的 HTTP 接口：商品浏览与管理端商品维护
package http

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/spf13/cast"

	"github.com/wyfcoding/storefront/internal/catalog/application"
	"github.com/wyfcoding/storefront/internal/catalog/domain"
	"github.com/wyfcoding/storefront/pkg/logger"
	"github.com/wyfcoding/storefront/pkg/middleware"
	"github.com/wyfcoding/storefront/pkg/response"
	"github.com/wyfcoding/storefront/pkg/utils"
)

// StockView 计算商品在某个购物会话下的剩余库存
type StockView interface {
	RemainingStock(ctx context.Context, sessionID string, product domain.Product) (int, error)
}

// ProductView 商品及其在当前会话下的剩余库存
type ProductView struct {
	domain.Product
	RemainingStock int `json:"remainingStock"`
}

// CatalogHandler HTTP 处理器
type CatalogHandler struct {
	app   *application.CatalogApplicationService
	stock StockView
}

// NewCatalogHandler 创建 HTTP 处理器实例
func NewCatalogHandler(app *application.CatalogApplicationService, stock StockView) *CatalogHandler {
	return &CatalogHandler{app: app, stock: stock}
}

// RegisterRoutes 注册路由，api 为 /api/v1 分组
func (h *CatalogHandler) RegisterRoutes(api *gin.RouterGroup) {
	products := api.Group("/products")
	{
		products.GET("", h.ListProducts)
		products.GET("/:id", h.GetProduct)
	}

	admin := api.Group("/admin/products")
	{
		admin.POST("", h.CreateProduct)
		admin.PUT("/:id", h.UpdateProduct)
		admin.POST("/:id/discounts", h.AddDiscount)
		admin.DELETE("/:id/discounts/:index", h.RemoveDiscount)
	}
}

// ListProducts 列出商品，附带剩余库存
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	page, size := utils.ParsePagination(c.Query("page"), c.Query("size"))

	products, p, err := h.app.ListProducts(c.Request.Context(), page, size)
	if err != nil {
		h.fail(c, err)
		return
	}

	views := make([]ProductView, 0, len(products))
	for _, product := range products {
		view, err := h.view(c, product)
		if err != nil {
			h.fail(c, err)
			return
		}
		views = append(views, view)
	}
	response.SuccessWithPagination(c, views, p.Total, p.Page, p.PageSize)
}

// GetProduct 获取商品
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.app.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	view, err := h.view(c, product)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, view)
}

// CreateProduct 创建商品
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var form application.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	cmd, err := form.ToCreateCommand()
	if err != nil {
		h.fail(c, err)
		return
	}

	product, err := h.app.CreateProduct(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, product)
}

// UpdateProduct 更新商品名称、价格与库存
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var form application.ProductForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	cmd, err := form.ToUpdateCommand(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	product, err := h.app.UpdateProduct(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, product)
}

// AddDiscount 追加阶梯折扣
func (h *CatalogHandler) AddDiscount(c *gin.Context) {
	var form application.DiscountForm
	if err := c.ShouldBindJSON(&form); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	cmd, err := form.ToCommand(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	product, err := h.app.AddDiscount(c.Request.Context(), cmd)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, product)
}

// RemoveDiscount 删除阶梯折扣，下标越界时商品不变
func (h *CatalogHandler) RemoveDiscount(c *gin.Context) {
	index, err := cast.ToIntE(c.Param("index"))
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, "invalid index", c.Param("index"))
		return
	}

	product, err := h.app.RemoveDiscount(c.Request.Context(), c.Param("id"), index)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, product)
}

func (h *CatalogHandler) view(c *gin.Context, product domain.Product) (ProductView, error) {
	remaining, err := h.stock.RemainingStock(c.Request.Context(), middleware.SessionID(c), product)
	if err != nil {
		return ProductView{}, err
	}
	return ProductView{Product: product, RemainingStock: remaining}, nil
}

func (h *CatalogHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, domain.ErrProductNotFound):
		response.ErrorWithStatus(c, http.StatusNotFound, err.Error(), "")
	case errors.Is(err, domain.ErrDuplicateProduct):
		response.ErrorWithStatus(c, http.StatusConflict, err.Error(), "")
	default:
		logger.Error(c.Request.Context(), "catalog request failed", "path", c.FullPath(), "error", err)
		response.ErrorWithStatus(c, http.StatusInternalServerError, "internal server error", logger.RequestID(c.Request.Context()))
	}
}
