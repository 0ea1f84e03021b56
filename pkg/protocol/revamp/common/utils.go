package common

import (
	"fmt"
	"math/big"
	"strings"
)

// Pow10 计算 10^n
func Pow10(n int) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(n)), nil)
}

// ParseUnits 将十进制字符串精确换算为定点整数。
// 小数位多于 decimals 的部分直接截断；交易金额必须保留全精度，
// 所以这里不走浮点数。
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	if strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("negative amount: %s", amount)
	}

	intPart := s
	fracPart := ""
	if idx := strings.Index(s, "."); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx+1:]
	}
	if intPart == "" {
		intPart = "0"
	}
	if len(fracPart) > decimals {
		fracPart = fracPart[:decimals]
	}
	fracPart += strings.Repeat("0", decimals-len(fracPart))

	result, ok := new(big.Int).SetString(intPart+fracPart, 10)
	if !ok {
		return nil, fmt.Errorf("invalid amount: %s", amount)
	}
	return result, nil
}

// FormatUnits 将定点整数格式化为十进制字符串（去掉小数尾零）。
// 负数按绝对值格式化后补符号，避免欧几里得除法把小数部分算错。
func FormatUnits(amount *big.Int, decimals int) string {
	if amount == nil {
		return "0"
	}
	if amount.Sign() < 0 {
		return "-" + FormatUnits(new(big.Int).Neg(amount), decimals)
	}
	divisor := Pow10(decimals)
	whole := new(big.Int).Div(amount, divisor)
	frac := new(big.Int).Mod(amount, divisor)
	if frac.Sign() == 0 {
		return whole.String()
	}
	fracStr := fmt.Sprintf("%0*s", decimals, frac.String())
	fracStr = strings.TrimRight(fracStr, "0")
	return fmt.Sprintf("%s.%s", whole.String(), fracStr)
}

// FormatUnitsPrec 格式化并截断到最多 places 位小数（仅用于展示，
// 内部计算始终保留全精度）
func FormatUnitsPrec(amount *big.Int, decimals, places int) string {
	s := FormatUnits(amount, decimals)
	idx := strings.Index(s, ".")
	if idx < 0 {
		return s
	}
	if places <= 0 {
		return s[:idx]
	}
	if len(s)-idx-1 <= places {
		return s
	}
	return s[:idx+1+places]
}
