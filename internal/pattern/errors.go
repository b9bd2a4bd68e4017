package pattern

import (
	"errors"
	"fmt"
)

// ErrorKind 是编译错误的封闭枚举。
type ErrorKind string

const (
	DuplicateField      ErrorKind = "duplicate_field"
	MalformedFieldToken ErrorKind = "malformed_field_token"
	InvalidInnerRegex   ErrorKind = "invalid_inner_regex"
)

// CompileError 是特定模式编译失败的结构化错误。
type CompileError struct {
	Kind    ErrorKind
	Pattern string

	Field string // DuplicateField
	Token string // MalformedFieldToken
	Err   error  // InvalidInnerRegex
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case DuplicateField:
		return fmt.Sprintf("模式 %q 中字段 %q 重复", e.Pattern, e.Field)
	case MalformedFieldToken:
		return fmt.Sprintf("模式 %q 中字段 %q 缺少名字或正则", e.Pattern, e.Token)
	case InvalidInnerRegex:
		return fmt.Sprintf("模式 %q 不是合法的正则表达式：%v", e.Pattern, e.Err)
	default:
		return fmt.Sprintf("模式 %q 无效", e.Pattern)
	}
}

func (e *CompileError) Unwrap() error { return e.Err }

// KindOf 从 error 中提取编译错误类型；若不是 *CompileError 则返回空串。
func KindOf(err error) ErrorKind {
	var e *CompileError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
