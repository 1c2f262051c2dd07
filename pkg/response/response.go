// Package response 统一的 HTTP JSON 响应格式
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response 响应信封
type Response struct {
	Code    int    `json:"code"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

// PageData 分页数据
type PageData struct {
	List     any   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
}

// Success 200 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Msg: "success", Data: data})
}

// Created 201 创建成功响应
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Msg: "created", Data: data})
}

// SuccessWithPagination 分页成功响应
func SuccessWithPagination(c *gin.Context, list any, total int64, page, pageSize int) {
	Success(c, PageData{List: list, Total: total, Page: page, PageSize: pageSize})
}

// ErrorWithStatus 以给定 HTTP 状态码返回错误，业务码与状态码一致
func ErrorWithStatus(c *gin.Context, status int, msg, details string) {
	c.AbortWithStatusJSON(status, Response{Code: status, Msg: msg, Details: details})
}
