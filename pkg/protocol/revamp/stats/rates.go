package stats

import (
	"context"
	"time"

	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

// RatesClientConfig 汇率快照客户端配置
type RatesClientConfig struct {
	BaseURL     string
	Timeout     time.Duration
	ProxyString string
}

// RatesClient 跨链汇率快照客户端，读取官方定期发布的
// 各链最优回收汇率汇总
type RatesClient struct {
	client *common.HTTPClient
}

// NewRatesClient 创建汇率快照客户端
func NewRatesClient(cfg RatesClientConfig) *RatesClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = common.RateSnapshotBaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &RatesClient{
		client: common.NewHTTPClient(common.HTTPClientConfig{
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			ProxyString: cfg.ProxyString,
		}),
	}
}

// RateSnapshot 汇率快照
type RateSnapshot struct {
	LastUpdated string         `json:"lastUpdated"`
	Disclaimer  string         `json:"disclaimer"`
	Assets      []SnapshotItem `json:"assets"`
}

// SnapshotItem 快照中的一项资产，Rates 按网络显示名索引
type SnapshotItem struct {
	Name   string                 `json:"name"`
	Symbol string                 `json:"symbol"`
	Logo   string                 `json:"logo"`
	Rates  map[string]NetworkRate `json:"rates"`
}

// NetworkRate 某网络上的汇率与入口链接
type NetworkRate struct {
	Rate string `json:"rate"`
	Link string `json:"link"`
}

// GetTopRates 获取最新的跨链汇率快照
func (c *RatesClient) GetTopRates(ctx context.Context) (*RateSnapshot, error) {
	var snapshot RateSnapshot
	if err := c.client.GetJSON(ctx, "/top_revamp_rates.json", &snapshot); err != nil {
		return nil, err
	}
	return &snapshot, nil
}
