// Package apperr 业务错误定义
//
// 服务层与仓储层在检测到错误条件的位置直接抛出带状态码的 *Error，
// HTTP 层由统一的终端处理器映射为状态码 + 对用户安全的消息。
// 内部细节（堆栈、驱动错误）只记录日志，生产环境不得写入响应。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error 带 HTTP 状态码的业务错误
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

// New 创建业务错误
func New(status int, format string, args ...any) *Error {
	return &Error{Status: status, Message: fmt.Sprintf(format, args...)}
}

// BadRequest 400：输入格式错误 / 一次性验证码校验失败
func BadRequest(format string, args ...any) *Error {
	return New(http.StatusBadRequest, format, args...)
}

// Unauthorized 401：凭证无效、账户未激活、令牌过期或非法
func Unauthorized(format string, args ...any) *Error {
	return New(http.StatusUnauthorized, format, args...)
}

// Forbidden 403：角色不在许可列表
func Forbidden(format string, args ...any) *Error {
	return New(http.StatusForbidden, format, args...)
}

// NotFound 404：按过滤条件未命中实体
func NotFound(format string, args ...any) *Error {
	return New(http.StatusNotFound, format, args...)
}

// Conflict 409：唯一字段重复、新旧密码相同
func Conflict(format string, args ...any) *Error {
	return New(http.StatusConflict, format, args...)
}

// TooManyRequests 429：触发限流
func TooManyRequests(format string, args ...any) *Error {
	return New(http.StatusTooManyRequests, format, args...)
}

// StatusOf 返回错误对应的 HTTP 状态码，未知错误一律 500
func StatusOf(err error) int {
	var ae *Error
	if errors.As(err, &ae) && ae.Status >= 100 && ae.Status < 600 {
		return ae.Status
	}
	return http.StatusInternalServerError
}

// IsStatus 判断错误是否携带指定状态码
func IsStatus(err error, status int) bool {
	return StatusOf(err) == status
}
