package rate

import (
	"fmt"
	"math/big"

	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

// Candidate 复投候选资产及钱包余额
type Candidate struct {
	Asset   common.ListedAsset
	Balance *big.Int // nil 表示余额查询失败，直接视为不合格
}

// RequiredAmount 计算用该资产复投 pending 奖励所需的代币数量（进一取整，不能少付）
func RequiredAmount(pendingWei *big.Int, asset common.ListedAsset) (*big.Int, error) {
	if pendingWei == nil || pendingWei.Sign() < 0 {
		return nil, fmt.Errorf("invalid pending reward")
	}
	return NativeToAsset(pendingWei, asset.Decimals, asset.Rate)
}

// Eligible 过滤出余额足以覆盖所需数量的候选资产。
// 单个资产的汇率非法或余额缺失只会剔除该资产，不会让整体评估失败。
func Eligible(pendingWei *big.Int, candidates []Candidate) []Candidate {
	var out []Candidate
	for _, cand := range candidates {
		if cand.Balance == nil {
			continue
		}
		required, err := RequiredAmount(pendingWei, cand.Asset)
		if err != nil {
			continue
		}
		if cand.Balance.Cmp(required) >= 0 {
			out = append(out, cand)
		}
	}
	return out
}
