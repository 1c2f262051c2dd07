package domain

import (
	"fmt"

	"github.com/go-faster/errors"
)

var (
	// ErrValidation 数据录入校验失败
	ErrValidation = errors.New("validation failed")
	// ErrProductNotFound 商品不存在
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateProduct 商品 ID 已存在
	ErrDuplicateProduct = errors.New("product already exists")
)

// ValidationError 字段级校验错误，errors.Is(err, ErrValidation) 为真
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}
