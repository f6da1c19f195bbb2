package validator

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"
)

// Validator 定义校验器接口
type Validator interface {
	// Struct 校验结构体
	Struct(s any) error

	// StructCtx 带上下文校验结构体
	StructCtx(ctx context.Context, s any) error

	// GetValidator 获取底层的validator实例
	GetValidator() *validator.Validate
}

// Validate 全局校验器实例
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

// validatorImpl 校验器实现
type validatorImpl struct {
	validator *validator.Validate
}

// Option 校验器选项
type Option func(*validatorImpl)

// WithTagName 设置校验标签名
func WithTagName(tagName string) Option {
	return func(v *validatorImpl) {
		v.validator.SetTagName(tagName)
	}
}

// New 创建新的校验器实例
func New(opts ...Option) Validator {
	v := &validatorImpl{
		validator: validator.New(validator.WithRequiredStructEnabled()),
	}

	for _, opt := range opts {
		opt(v)
	}

	return v
}

// Struct 校验结构体
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.validator.Struct(s)
}

// StructCtx 带上下文校验结构体
func (v *validatorImpl) StructCtx(ctx context.Context, s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}
	return v.validator.StructCtx(ctx, s)
}

// GetValidator 获取底层的validator实例
func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}
