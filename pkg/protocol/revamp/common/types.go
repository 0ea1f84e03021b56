package common

import "math/big"

// ListedAsset 已上架资产（链上记录 + 代币元数据）
type ListedAsset struct {
	Network      string   // 网络显示名
	TokenAddress string   // 代币合约地址（网络内唯一键）
	Name         string   // 代币名称，获取失败为 "?"
	Symbol       string   // 代币符号，获取失败为 "?"
	Decimals     uint8    // 代币精度，获取失败为 18
	Rate         *big.Int // 资产→原生币汇率，1e18 定点
	LogoURL      string
	Lister       string
	ListedAt     int64
	Blacklisted  bool
}

// AccountSnapshot 账户快照，每次刷新整体重建，不做增量更新
type AccountSnapshot struct {
	Address            string
	NativeBalance      *big.Int
	TotalContributed   *big.Int
	PendingReward      *big.Int
	MaxPotential       *big.Int // 2 × TotalContributed
	RemainingPotential *big.Int // max(0, MaxPotential - PendingReward)
}

// Participant 贡献榜条目
type Participant struct {
	Address     string
	Contributed *big.Int
}

// GlobalStats 核心合约全局统计
type GlobalStats struct {
	TotalNativeContributed *big.Int
	TotalListingFees       *big.Int
	TopParticipants        []Participant
}

// FeePercents 入金手续费比例，单位为基点的 1/100（250 = 2.50%）
type FeePercents struct {
	Native       *big.Int
	Shareholding *big.Int
}

// PoolStats 分红池全局统计
type PoolStats struct {
	CurrentPrice         *big.Int // 当前份额价格（wei）
	LastPurchasePrice    *big.Int
	TotalVolumePurchased *big.Int
	TotalHolders         *big.Int
}

// PoolUserStats 分红池用户统计
type PoolUserStats struct {
	Shares        *big.Int // 持有份额（1e18 定点，总量 100）
	SalesRewards  *big.Int // 未领取的销售分成（wei）
	SystemRewards *big.Int // 未领取的协议费分成（wei）
}

// HistoricalPoint 历史价格点，按 Timestamp 升序排列后不再修改
type HistoricalPoint struct {
	Timestamp int64
	Price     *big.Int
	Volume    *big.Int
}
