package rate

import (
	"fmt"
	"math/big"

	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

// 汇率为 1e18 定点：rate = 每 1 个完整资产可兑换的原生币数量（wei）。
// 换算全程走大整数，只在展示时截断小数位。

// AssetToNative 资产数量换算为原生币数量：native = asset * rate / 10^decimals，向下取整
func AssetToNative(assetUnits *big.Int, decimals uint8, rate *big.Int) (*big.Int, error) {
	if err := validate(assetUnits, rate); err != nil {
		return nil, err
	}
	native := new(big.Int).Mul(assetUnits, rate)
	return native.Div(native, common.Pow10(int(decimals))), nil
}

// NativeToAsset 原生币数量换算为资产数量：asset = native * 10^decimals / rate，向上取整。
// 换算结果用作交易金额时不能少付，所以这里进一。
func NativeToAsset(nativeWei *big.Int, decimals uint8, rate *big.Int) (*big.Int, error) {
	if err := validate(nativeWei, rate); err != nil {
		return nil, err
	}
	num := new(big.Int).Mul(nativeWei, common.Pow10(int(decimals)))
	quo, rem := new(big.Int).DivMod(num, rate, new(big.Int))
	if rem.Sign() != 0 {
		quo.Add(quo, big.NewInt(1))
	}
	return quo, nil
}

// ParseRate 解析十进制汇率字符串为 1e18 定点，拒绝非正数和非法格式
func ParseRate(s string) (*big.Int, error) {
	r, err := common.ParseUnits(s, common.RateDecimals)
	if err != nil {
		return nil, fmt.Errorf("parse rate: %w", err)
	}
	if r.Sign() <= 0 {
		return nil, fmt.Errorf("rate must be positive: %s", s)
	}
	return r, nil
}

// FormatRate 格式化汇率，places 为最多保留的小数位
func FormatRate(rate *big.Int, places int) string {
	return common.FormatUnitsPrec(rate, common.RateDecimals, places)
}

func validate(amount, rate *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("invalid amount")
	}
	if rate == nil || rate.Sign() <= 0 {
		return fmt.Errorf("invalid rate")
	}
	return nil
}
