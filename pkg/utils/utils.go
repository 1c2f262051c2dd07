// Package utils 提供 ID（雪花）生成与分页等通用工具
package utils

import (
	"strconv"

	"github.com/bwmarrin/snowflake"
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
)

// ErrNotWholeNumber 值不是整数（含小数部分或无法解析）
var ErrNotWholeNumber = errors.New("not a whole number")

// IDGenerator 雪花算法 ID 生成器
type IDGenerator struct {
	node *snowflake.Node
}

// NewIDGenerator 创建雪花 ID 生成器，nodeID 取值 [0,1023]
func NewIDGenerator(nodeID int64) (*IDGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, errors.Wrapf(err, "snowflake node %d", nodeID)
	}
	return &IDGenerator{node: node}, nil
}

// Generate 生成数值 ID
func (g *IDGenerator) Generate() int64 {
	return g.node.Generate().Int64()
}

// NewString 生成 base36 字符串 ID，适合作为商品 ID
func (g *IDGenerator) NewString() string {
	return strconv.FormatInt(g.Generate(), 36)
}

// ToWholeNumberE 把数字或数字字符串转换为 int64，带小数部分的值返回 ErrNotWholeNumber
// 与 cast.ToInt64E 不同，2.7 与 "2.7" 不会被截断为 2
func ToWholeNumberE(v any) (int64, error) {
	s, err := cast.ToStringE(v)
	if err != nil {
		return 0, errors.Wrapf(ErrNotWholeNumber, "%v", v)
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsInteger() {
		return 0, errors.Wrapf(ErrNotWholeNumber, "%q", s)
	}
	if !d.BigInt().IsInt64() {
		return 0, errors.Wrapf(ErrNotWholeNumber, "%q out of range", s)
	}
	return d.IntPart(), nil
}

// Pagination 分页信息
type Pagination struct {
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
	Pages    int64 `json:"pages"`
}

// NewPagination 创建分页信息
func NewPagination(page, pageSize int, total int64) *Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	if pageSize > 1000 {
		pageSize = 1000
	}

	pages := (total + int64(pageSize) - 1) / int64(pageSize)

	return &Pagination{
		Page:     page,
		PageSize: pageSize,
		Total:    total,
		Pages:    pages,
	}
}

// ParsePagination 从查询参数解析分页，pageSize 为 0 表示不分页
func ParsePagination(page, pageSize string) (int, int) {
	return max(cast.ToInt(page), 1), max(cast.ToInt(pageSize), 0)
}

// Offset 获取偏移量
func (p *Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit 获取页大小
func (p *Pagination) Limit() int {
	return p.PageSize
}

// Paginate 按分页截取切片，返回原切片的子切片
func Paginate[T any](items []T, p *Pagination) []T {
	start := min(p.Offset(), len(items))
	end := min(start+p.Limit(), len(items))
	return items[start:end]
}
