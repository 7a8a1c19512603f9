package errs

import (
	stderrors "errors"

	"github.com/pkg/errors"
)

// 业务错误码
const (
	CodeInternal           = 500
	CodeTargetNotFound     = 10001 // 成员/角色解析失败
	CodeWrongUsage         = 10002 // 命令格式错误
	CodeNoQuestionsDefined = 10003 // start 前未定义问题
	CodeTokenInvalid       = 10101 // 网关令牌无效/过期
	CodeStoreUnavailable   = 10201 // 存储未就绪
)

// 预定义错误（handler 层直接比较使用）
var (
	ErrTokenInvalid     = NewCodeError(CodeTokenInvalid, "token invalid or expired")
	ErrStoreUnavailable = NewCodeError(CodeStoreUnavailable, "store not ready")
)

type CodeError struct {
	Code   int    `json:"code"`
	Msg    string `json:"msg"`
	Detail string `json:"detail,omitempty"`
}

func NewCodeError(code int, msg string) *CodeError {
	return &CodeError{Code: code, Msg: msg}
}

func (e *CodeError) Error() string {
	if e.Detail == "" {
		return e.Msg
	}
	return e.Msg + ": " + e.Detail
}

func (e *CodeError) WithDetail(detail string) *CodeError {
	d := detail
	if e.Detail != "" {
		d = e.Detail + ", " + detail
	}
	return &CodeError{Code: e.Code, Msg: e.Msg, Detail: d}
}

// Is 让 errors.Is 按 code 匹配
func (e *CodeError) Is(target error) bool {
	var ce *CodeError
	if stderrors.As(target, &ce) {
		return ce.Code == e.Code
	}
	return false
}

// CodeOf 返回错误链上的业务码；非业务错误归为 CodeInternal
func CodeOf(err error) int {
	var ce *CodeError
	if stderrors.As(err, &ce) {
		return ce.Code
	}
	return CodeInternal
}

// New / Wrap / WrapMsg：统一走 pkg/errors，带调用栈
func New(msg string) error {
	return errors.New(msg)
}

func Wrap(err error) error {
	return errors.WithStack(err)
}

func WrapMsg(err error, msg string, kv ...string) error {
	if err == nil {
		return nil
	}
	detail := msg
	for i := 0; i+1 < len(kv); i += 2 {
		detail += " " + kv[i] + "=" + kv[i+1]
	}
	return errors.Wrap(err, detail)
}
