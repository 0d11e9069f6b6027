package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind 标识应用错误的类别，决定了它如何被上层呈现。
type Kind string

const (
	// KindQuotaExhausted 表示游玩配额已用尽，属于预期的限流信号而非故障。
	KindQuotaExhausted Kind = "QUOTA_EXHAUSTED"
	// KindValidation 表示请求在触碰任何状态之前就被判定为非法。
	KindValidation Kind = "VALIDATION_ERROR"
	// KindNotFound 用于不自动建档的读路径。
	KindNotFound Kind = "NOT_FOUND"
	// KindInfrastructure 表示数据库/缓存等基础设施故障。
	KindInfrastructure Kind = "INFRASTRUCTURE_ERROR"
	// KindDataInconsistency 表示检测到历史部分写入造成的数据偏斜，已被钳制修正。
	KindDataInconsistency Kind = "DATA_INCONSISTENCY"
	// KindUnavailable 表示游戏处于维护或停用状态。
	KindUnavailable Kind = "GAME_UNAVAILABLE"
)

// AppError 是贯穿服务层和HTTP层的统一错误形态。
// Detail 携带可直接渲染给用户的附加信息（例如距下次可玩的秒数）。
type AppError struct {
	Kind    Kind
	Message string
	Detail  map[string]interface{}
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// New 创建一个不包装底层错误的AppError。
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Wrap 包装底层错误，保留错误链供errors.Is/As使用。
func Wrap(kind Kind, message string, err error) *AppError {
	return &AppError{Kind: kind, Message: message, Err: err}
}

// WithDetail 附加一个面向调用方的细节字段，返回自身便于链式调用。
func (e *AppError) WithDetail(key string, value interface{}) *AppError {
	if e.Detail == nil {
		e.Detail = make(map[string]interface{})
	}
	e.Detail[key] = value
	return e
}

// KindOf 提取err链上的错误类别，非AppError一律视为基础设施错误。
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInfrastructure
}

// HTTPStatus 将错误类别映射到HTTP状态码。
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindQuotaExhausted:
		return http.StatusTooManyRequests
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Payload 生成统一的JSON错误响应体。
func Payload(err error) map[string]interface{} {
	body := map[string]interface{}{"error": err.Error()}
	var appErr *AppError
	if errors.As(err, &appErr) {
		body["error"] = appErr.Message
		body["code"] = string(appErr.Kind)
		for k, v := range appErr.Detail {
			body[k] = v
		}
	}
	return body
}
