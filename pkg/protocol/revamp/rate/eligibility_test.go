package rate

import (
	"math/big"
	"testing"

	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asset(symbol string, rateWhole int64) common.ListedAsset {
	return common.ListedAsset{
		Symbol:   symbol,
		Decimals: 18,
		Rate:     e18(rateWhole),
	}
}

func TestRequiredAmount(t *testing.T) {
	// 奖励 10，汇率 2，需要 5 个代币
	required, err := RequiredAmount(e18(10), asset("AAA", 2))
	require.NoError(t, err)
	assert.Equal(t, e18(5), required)

	// 除不尽时进一
	required, err = RequiredAmount(big.NewInt(10), common.ListedAsset{Decimals: 0, Rate: e18(3)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), required.Int64())

	_, err = RequiredAmount(nil, asset("AAA", 2))
	assert.Error(t, err)
}

func TestEligibleAllInsufficient(t *testing.T) {
	// 奖励 10：汇率 2 需要 5 个但只有 4 个，汇率 5 需要 2 个但只有 1 个
	candidates := []Candidate{
		{Asset: asset("AAA", 2), Balance: e18(4)},
		{Asset: asset("BBB", 5), Balance: e18(1)},
	}
	assert.Empty(t, Eligible(e18(10), candidates))
}

func TestEligiblePicksCovered(t *testing.T) {
	candidates := []Candidate{
		{Asset: asset("AAA", 2), Balance: e18(5)}, // 刚好够
		{Asset: asset("BBB", 5), Balance: e18(1)}, // 不够
		{Asset: asset("CCC", 1), Balance: e18(50)},
	}
	eligible := Eligible(e18(10), candidates)
	require.Len(t, eligible, 2)
	assert.Equal(t, "AAA", eligible[0].Asset.Symbol)
	assert.Equal(t, "CCC", eligible[1].Asset.Symbol)
}

func TestEligibleSkipsBroken(t *testing.T) {
	candidates := []Candidate{
		{Asset: asset("AAA", 2), Balance: nil},                                         // 余额查询失败
		{Asset: common.ListedAsset{Symbol: "BBB", Decimals: 18}, Balance: e18(100)},    // 汇率缺失
		{Asset: common.ListedAsset{Symbol: "CCC", Decimals: 18, Rate: big.NewInt(0)}, Balance: e18(100)}, // 汇率非法
		{Asset: asset("DDD", 1), Balance: e18(100)},
	}
	eligible := Eligible(e18(10), candidates)
	require.Len(t, eligible, 1)
	assert.Equal(t, "DDD", eligible[0].Asset.Symbol)
}

func TestEligibleZeroPending(t *testing.T) {
	// 奖励为 0 时所有持仓都能覆盖
	candidates := []Candidate{
		{Asset: asset("AAA", 2), Balance: big.NewInt(0)},
	}
	eligible := Eligible(big.NewInt(0), candidates)
	assert.Len(t, eligible, 1)
}
