package main

import "time"

// Account 单个执行账户
type Account struct {
	Index      int
	Address    string
	PrivateKey string
}

// Config 策略配置（从 JSON 读取）
type Config struct {
	AccountsFile  string `json:"accountsFile"`  // 账户配置文件路径
	ChainID       int64  `json:"chainId"`       // 目标链 ID
	RPCURL        string `json:"rpcUrl"`        // 自定义 RPC，留空用网络默认
	MinPending    string `json:"minPending"`    // 最小复投门槛（原生币数量，十进制）
	DryRun        bool   `json:"dryRun"`        // 只评估不发交易
	RetryDelaySec int    `json:"retryDelaySec"` // 账户启动间隔(秒)
	MaxParallel   int    `json:"maxParallel"`   // 并发执行的账户数上限，<=1 为串行
}

// GetAccountDelay 获取账户间的启动间隔
func (c *Config) GetAccountDelay() time.Duration {
	if c.RetryDelaySec <= 0 {
		return 3 * time.Second
	}
	return time.Duration(c.RetryDelaySec) * time.Second
}

// GetMaxParallel 获取账户并发上限
func (c *Config) GetMaxParallel() int {
	if c.MaxParallel <= 1 {
		return 1
	}
	return c.MaxParallel
}

// Result 执行结果
type Result struct {
	Index      int
	Success    bool
	Skipped    bool   // 无待领取奖励或无合格资产
	Symbol     string // 选中的复投资产
	Amount     string // 复投消耗的代币数量
	Reinvested string // 复投的奖励数量（原生币）
	TxHash     string
	Error      string
	Duration   time.Duration
}

// DefaultConfig 默认配置
func DefaultConfig() Config {
	return Config{
		AccountsFile:  "data/01_auto_reinvest_accounts_example.csv",
		ChainID:       56,
		MinPending:    "0.001",
		RetryDelaySec: 3,
	}
}
