package rate

import (
	"math/big"
	"testing"

	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func e18(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), common.Pow10(18))
}

func TestAssetToNative(t *testing.T) {
	// 2 个代币 × 0.5 = 1 个原生币
	rate := new(big.Int).Div(e18(1), big.NewInt(2))
	out, err := AssetToNative(e18(2), 18, rate)
	require.NoError(t, err)
	assert.Equal(t, e18(1), out)

	// 6 位精度代币
	out, err = AssetToNative(big.NewInt(3_000_000), 6, e18(2))
	require.NoError(t, err)
	assert.Equal(t, e18(6), out)

	// 除不尽时向下取整
	out, err = AssetToNative(big.NewInt(1), 18, big.NewInt(1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), out.Int64())
}

func TestNativeToAsset(t *testing.T) {
	// 1 个原生币 ÷ 0.5 = 2 个代币
	rate := new(big.Int).Div(e18(1), big.NewInt(2))
	out, err := NativeToAsset(e18(1), 18, rate)
	require.NoError(t, err)
	assert.Equal(t, e18(2), out)

	// 除不尽时进一，交易金额不能少付
	out, err = NativeToAsset(big.NewInt(10), 0, e18(3))
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Int64())
}

func TestRoundTrip(t *testing.T) {
	// 整除场景下往返换算不损失精度
	rate := e18(4)
	asset := e18(25)

	native, err := AssetToNative(asset, 18, rate)
	require.NoError(t, err)
	back, err := NativeToAsset(native, 18, rate)
	require.NoError(t, err)
	assert.Equal(t, asset, back)
}

func TestConversionRejectsInvalid(t *testing.T) {
	_, err := AssetToNative(nil, 18, e18(1))
	assert.Error(t, err)
	_, err = AssetToNative(big.NewInt(-1), 18, e18(1))
	assert.Error(t, err)
	_, err = AssetToNative(e18(1), 18, nil)
	assert.Error(t, err)
	_, err = AssetToNative(e18(1), 18, big.NewInt(0))
	assert.Error(t, err)
	_, err = NativeToAsset(e18(1), 18, big.NewInt(-5))
	assert.Error(t, err)
}

func TestParseRate(t *testing.T) {
	r, err := ParseRate("0.5")
	require.NoError(t, err)
	assert.Equal(t, "500000000000000000", r.String())

	r, err = ParseRate("2")
	require.NoError(t, err)
	assert.Equal(t, e18(2), r)

	_, err = ParseRate("0")
	assert.Error(t, err)
	_, err = ParseRate("-1")
	assert.Error(t, err)
	_, err = ParseRate("")
	assert.Error(t, err)
	_, err = ParseRate("1,5")
	assert.Error(t, err)
}

func TestFormatRate(t *testing.T) {
	rate, err := ParseRate("0.123456789")
	require.NoError(t, err)
	assert.Equal(t, "0.12345678", FormatRate(rate, 8))
	assert.Equal(t, "0.12", FormatRate(rate, 2))
}
