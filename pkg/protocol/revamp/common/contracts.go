package common

// 合约地址（CREATE2 部署，各链地址一致）
const (
	// Revamp 核心合约
	ContractRevamp = "0x3d1f6a7c95be8e2a40c7d9e41b8a06c2f54d9b1e"

	// ShareHolding 分红池合约
	ContractShareholding = "0x84c2a9f03dd170b6a3b5e86df41c7e2a91f0d857"
)

// 精度常量
const (
	// NativeDecimals 原生币精度
	NativeDecimals = 18

	// RateDecimals 汇率定点精度（资产→原生币，1e18 = 1.0）
	RateDecimals = 18

	// DefaultTokenDecimals 元数据获取失败时的代币精度占位值
	DefaultTokenDecimals = 18
)

// RateSnapshotBaseURL 跨链汇率快照发布地址
const RateSnapshotBaseURL = "https://rvnwl.com"

// 事件签名
const (
	// PriceHistoryEventSig 份额价格历史事件：price, volume, timestamp
	PriceHistoryEventSig = "PriceHistory(uint256,uint256,uint256)"
)

// ABI 定义
const (
	ERC20ABI = `[
		{"constant":true,"inputs":[],"name":"name","outputs":[{"name":"","type":"string"}],"type":"function"},
		{"constant":true,"inputs":[],"name":"symbol","outputs":[{"name":"","type":"string"}],"type":"function"},
		{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"},
		{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},
		{"constant":true,"inputs":[{"name":"owner","type":"address"},{"name":"spender","type":"address"}],"name":"allowance","outputs":[{"name":"","type":"uint256"}],"type":"function"},
		{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}
	]`

	// RevampABI 核心合约中需要复杂解码的只读方法
	RevampABI = `[
		{"constant":true,"inputs":[],"name":"getAllListedTokens","outputs":[{"components":[{"name":"token","type":"address"},{"name":"rate","type":"uint256"},{"name":"logoUrl","type":"string"},{"name":"lister","type":"address"},{"name":"listedAt","type":"uint256"},{"name":"blacklisted","type":"bool"}],"name":"","type":"tuple[]"}],"type":"function"},
		{"constant":true,"inputs":[],"name":"getTopParticipants","outputs":[{"name":"addrs","type":"address[]"},{"name":"amounts","type":"uint256[]"}],"type":"function"}
	]`
)
