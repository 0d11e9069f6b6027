package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"配额耗尽", New(KindQuotaExhausted, "no plays"), http.StatusTooManyRequests},
		{"参数非法", New(KindValidation, "bad wallet"), http.StatusBadRequest},
		{"未找到", New(KindNotFound, "no player"), http.StatusNotFound},
		{"维护中", New(KindUnavailable, "maintenance"), http.StatusServiceUnavailable},
		{"基础设施", New(KindInfrastructure, "db down"), http.StatusInternalServerError},
		{"普通错误", errors.New("plain"), http.StatusInternalServerError},
		{"fmt包装后仍可识别", fmt.Errorf("ctx: %w", New(KindQuotaExhausted, "no plays")), http.StatusTooManyRequests},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Fatalf("HTTPStatus = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(KindInfrastructure, "redis查询失败", cause)

	if !errors.Is(err, cause) {
		t.Fatalf("errors.Is无法穿透AppError")
	}
	if KindOf(err) != KindInfrastructure {
		t.Fatalf("KindOf = %v", KindOf(err))
	}
}

func TestPayloadIncludesDetail(t *testing.T) {
	err := New(KindQuotaExhausted, "今日游玩次数已用完").
		WithDetail("secondsToNextPlay", int64(70)).
		WithDetail("nextAvailableAt", "2025-01-01T00:02:00Z")

	body := Payload(err)
	if body["error"] != "今日游玩次数已用完" {
		t.Fatalf("error字段错误: %v", body["error"])
	}
	if body["code"] != string(KindQuotaExhausted) {
		t.Fatalf("code字段错误: %v", body["code"])
	}
	if body["secondsToNextPlay"] != int64(70) {
		t.Fatalf("detail字段丢失: %v", body)
	}
}

func TestPayloadPlainError(t *testing.T) {
	body := Payload(errors.New("boom"))
	if body["error"] != "boom" {
		t.Fatalf("普通错误的payload错误: %v", body)
	}
	if _, ok := body["code"]; ok {
		t.Fatalf("普通错误不应带code字段")
	}
}
