package tag

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrTargetMustBePointer target 必须为指针
	ErrTargetMustBePointer = errors.New("tag: target must be a pointer")

	// ErrTargetIsNil target 为空指针
	ErrTargetIsNil = errors.New("tag: target is nil")

	// ErrUnsupportedType 不支持的字段类型
	ErrUnsupportedType = errors.New("tag: unsupported type")
)

// FieldError 字段默认值应用失败时的错误信息
type FieldError struct {
	Field    string
	Kind     reflect.Kind
	TagValue string
	Err      error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("tag: field %s (%s) default %q: %v", e.Field, e.Kind, e.TagValue, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func newFieldError(field string, kind reflect.Kind, tagValue string, err error) error {
	if err == nil {
		return nil
	}
	return &FieldError{Field: field, Kind: kind, TagValue: tagValue, Err: err}
}
