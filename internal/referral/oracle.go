package referral

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SlpAus/daily-play-backend/internal/platform/config"
)

// Oracle 是推荐码有效性的外部裁决接口。
// 只在新建Grant时咨询一次，读路径从不触达它。
type Oracle interface {
	Validate(ctx context.Context, code string) (bool, error)
}

// NewOracle 根据配置构造Oracle实现。
func NewOracle(cfg config.ReferralConfig) Oracle {
	if cfg.Mode == "http" && cfg.OracleURL != "" {
		return &httpOracle{
			baseURL: cfg.OracleURL,
			client:  &http.Client{Timeout: cfg.OracleTimeout()},
		}
	}
	codes := make(map[string]bool, len(cfg.StaticCodes))
	for _, code := range cfg.StaticCodes {
		codes[code] = true
	}
	return &staticOracle{codes: codes}
}

// httpOracle 咨询外部内容服务： GET {base}?code=xxx → {"valid": bool}
type httpOracle struct {
	baseURL string
	client  *http.Client
}

type oracleResponse struct {
	Valid bool `json:"valid"`
}

func (o *httpOracle) Validate(ctx context.Context, code string) (bool, error) {
	reqURL := fmt.Sprintf("%s?code=%s", o.baseURL, url.QueryEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := o.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("推荐码校验服务不可达: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("推荐码校验服务返回异常状态: %d", resp.StatusCode)
	}

	var body oracleResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("推荐码校验响应无法解析: %w", err)
	}
	return body.Valid, nil
}

// staticOracle 是开发/测试用的白名单实现。
type staticOracle struct {
	codes map[string]bool
}

func (o *staticOracle) Validate(_ context.Context, code string) (bool, error) {
	return o.codes[code], nil
}
