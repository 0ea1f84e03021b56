package common

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUnits(t *testing.T) {
	v, err := ParseUnits("1.5", 18)
	require.NoError(t, err)
	assert.Equal(t, "1500000000000000000", v.String())

	v, err = ParseUnits("0.000000000000000001", 18)
	require.NoError(t, err)
	assert.Equal(t, "1", v.String())

	// 超出精度的小数位截断
	v, err = ParseUnits("1.123456789", 6)
	require.NoError(t, err)
	assert.Equal(t, "1123456", v.String())

	v, err = ParseUnits(".5", 2)
	require.NoError(t, err)
	assert.Equal(t, "50", v.String())

	_, err = ParseUnits("", 18)
	assert.Error(t, err)
	_, err = ParseUnits("-1", 18)
	assert.Error(t, err)
	_, err = ParseUnits("abc", 18)
	assert.Error(t, err)
	_, err = ParseUnits("1.2.3", 18)
	assert.Error(t, err)
}

func TestFormatUnits(t *testing.T) {
	assert.Equal(t, "1.5", FormatUnits(big.NewInt(1500000), 6))
	assert.Equal(t, "1", FormatUnits(big.NewInt(1000000), 6))
	assert.Equal(t, "0.000001", FormatUnits(big.NewInt(1), 6))
	assert.Equal(t, "0", FormatUnits(nil, 6))

	// 负数带符号且小数部分按绝对值计算
	assert.Equal(t, "-1.5", FormatUnits(big.NewInt(-1500000), 6))
	assert.Equal(t, "-1", FormatUnits(big.NewInt(-1000000), 6))
	assert.Equal(t, "-0.000001", FormatUnits(big.NewInt(-1), 6))
}

func TestFormatUnitsPrec(t *testing.T) {
	v := big.NewInt(1234567)
	assert.Equal(t, "1.23", FormatUnitsPrec(v, 6, 2))
	assert.Equal(t, "1", FormatUnitsPrec(v, 6, 0))
	// 实际小数位不足时原样返回
	assert.Equal(t, "1.5", FormatUnitsPrec(big.NewInt(1500000), 6, 8))
}
