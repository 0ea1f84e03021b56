package registry

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func selector(sig string) []byte {
	return crypto.Keccak256([]byte(sig))[:4]
}

// encString 编码 ABI string 返回值
func encString(s string) []byte {
	out := make([]byte, 0, 96)
	out = append(out, ethcommon.LeftPadBytes(big.NewInt(32).Bytes(), 32)...)
	out = append(out, ethcommon.LeftPadBytes(big.NewInt(int64(len(s))).Bytes(), 32)...)
	padded := (len(s) + 31) / 32 * 32
	out = append(out, ethcommon.RightPadBytes([]byte(s), padded)...)
	return out
}

func encWord(n int64) []byte {
	return ethcommon.LeftPadBytes(big.NewInt(n).Bytes(), 32)
}

type tokenMeta struct {
	name     string
	symbol   string
	decimals int64
}

// fakeCaller 按选择器分发预设响应
type fakeCaller struct {
	assets       []rawListedToken
	meta         map[ethcommon.Address]tokenMeta
	contributed  int64
	pending      int64
	native       int64
	code         []byte
	failList     bool
	failTop      bool
	bytes32Names bool
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	sel := msg.Data[:4]
	switch {
	case bytes.Equal(sel, selector("getAllListedTokens()")):
		if f.failList {
			return nil, fmt.Errorf("rpc unavailable")
		}
		return revampABI.Methods["getAllListedTokens"].Outputs.Pack(f.assets)
	case bytes.Equal(sel, selector("getTopParticipants()")):
		if f.failTop {
			return nil, fmt.Errorf("execution reverted")
		}
		addrs := []ethcommon.Address{ethcommon.HexToAddress("0xaa")}
		amounts := []*big.Int{big.NewInt(777)}
		return revampABI.Methods["getTopParticipants"].Outputs.Pack(addrs, amounts)
	case bytes.Equal(sel, selector("name()")):
		meta, ok := f.meta[*msg.To]
		if !ok {
			return nil, fmt.Errorf("execution reverted")
		}
		return encString(meta.name), nil
	case bytes.Equal(sel, selector("symbol()")):
		meta, ok := f.meta[*msg.To]
		if !ok {
			return nil, fmt.Errorf("execution reverted")
		}
		if f.bytes32Names {
			return ethcommon.RightPadBytes([]byte(meta.symbol), 32), nil
		}
		return encString(meta.symbol), nil
	case bytes.Equal(sel, selector("decimals()")):
		meta, ok := f.meta[*msg.To]
		if !ok {
			return nil, fmt.Errorf("execution reverted")
		}
		return encWord(meta.decimals), nil
	case bytes.Equal(sel, selector("users(address)")):
		return encWord(f.contributed), nil
	case bytes.Equal(sel, selector("pendingReward(address)")):
		return encWord(f.pending), nil
	case bytes.Equal(sel, selector("balanceOf(address)")):
		return encWord(42), nil
	case bytes.Equal(sel, selector("totalListingFees()")):
		return encWord(111), nil
	case bytes.Equal(sel, selector("totalNativeContributed()")):
		return encWord(222), nil
	}
	return make([]byte, 32), nil
}

func (f *fakeCaller) CodeAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) ([]byte, error) {
	return f.code, nil
}

func (f *fakeCaller) BalanceAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) (*big.Int, error) {
	return big.NewInt(f.native), nil
}

func newTestClient(t *testing.T, caller *fakeCaller) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Network: common.ResolveChainID(56),
		Caller:  caller,
	})
	require.NoError(t, err)
	return client
}

func TestNewClientRejectsUnsupported(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)

	_, err = NewClient(Config{Network: &common.Network{ChainID: 99, Label: "Testnet"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Testnet")
}

func TestCheckDeployed(t *testing.T) {
	caller := &fakeCaller{}
	client := newTestClient(t, caller)

	err := client.CheckDeployed(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BSC Mainnet")

	caller.code = []byte{0x60, 0x80}
	assert.NoError(t, client.CheckDeployed(context.Background()))
}

func TestListAssets(t *testing.T) {
	tokenA := ethcommon.HexToAddress("0x01")
	tokenB := ethcommon.HexToAddress("0x02")
	caller := &fakeCaller{
		assets: []rawListedToken{
			{Token: tokenA, Rate: big.NewInt(100), LogoUrl: "https://a.png", Lister: ethcommon.HexToAddress("0x0a"), ListedAt: big.NewInt(1700000000)},
			{Token: tokenB, Rate: big.NewInt(200), ListedAt: big.NewInt(1700000100), Blacklisted: true},
		},
		meta: map[ethcommon.Address]tokenMeta{
			tokenA: {name: "Alpha Token", symbol: "ALPHA", decimals: 6},
			// tokenB 无元数据，模拟读取失败
		},
	}
	client := newTestClient(t, caller)

	assets, err := client.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 2)

	assert.Equal(t, "Alpha Token", assets[0].Name)
	assert.Equal(t, "ALPHA", assets[0].Symbol)
	assert.Equal(t, uint8(6), assets[0].Decimals)
	assert.Equal(t, "BSC Mainnet", assets[0].Network)
	assert.Equal(t, int64(100), assets[0].Rate.Int64())
	assert.Equal(t, "https://a.png", assets[0].LogoURL)
	assert.False(t, assets[0].Blacklisted)

	// 元数据读取失败时占位，链上字段照常返回
	assert.Equal(t, "?", assets[1].Name)
	assert.Equal(t, "?", assets[1].Symbol)
	assert.Equal(t, uint8(18), assets[1].Decimals)
	assert.True(t, assets[1].Blacklisted)

	// 重复调用结果一致
	again, err := client.ListAssets(context.Background())
	require.NoError(t, err)
	assert.Equal(t, assets, again)
}

func TestListAssetsBytes32Symbol(t *testing.T) {
	token := ethcommon.HexToAddress("0x01")
	caller := &fakeCaller{
		assets: []rawListedToken{
			{Token: token, Rate: big.NewInt(100), ListedAt: big.NewInt(0)},
		},
		meta: map[ethcommon.Address]tokenMeta{
			token: {name: "Maker", symbol: "MKR", decimals: 18},
		},
		bytes32Names: true,
	}
	client := newTestClient(t, caller)

	assets, err := client.ListAssets(context.Background())
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "MKR", assets[0].Symbol)
}

func TestListAssetsPrimaryFailure(t *testing.T) {
	client := newTestClient(t, &fakeCaller{failList: true})

	_, err := client.ListAssets(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list assets")
}

func TestUserSnapshot(t *testing.T) {
	caller := &fakeCaller{contributed: 10, pending: 5, native: 900}
	client := newTestClient(t, caller)

	snapshot, err := client.UserSnapshot(context.Background(), "0x0a")
	require.NoError(t, err)
	assert.Equal(t, int64(10), snapshot.TotalContributed.Int64())
	assert.Equal(t, int64(5), snapshot.PendingReward.Int64())
	assert.Equal(t, int64(20), snapshot.MaxPotential.Int64())
	assert.Equal(t, int64(15), snapshot.RemainingPotential.Int64())
	assert.Equal(t, int64(900), snapshot.NativeBalance.Int64())
}

func TestUserSnapshotRemainingFloor(t *testing.T) {
	// 奖励超过 2 倍上限时剩余额度归零
	caller := &fakeCaller{contributed: 10, pending: 25}
	client := newTestClient(t, caller)

	snapshot, err := client.UserSnapshot(context.Background(), "0x0a")
	require.NoError(t, err)
	assert.Equal(t, int64(0), snapshot.RemainingPotential.Int64())
}

func TestGlobalStatsDegradesTopList(t *testing.T) {
	client := newTestClient(t, &fakeCaller{failTop: true})

	stats, err := client.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(111), stats.TotalListingFees.Int64())
	assert.Equal(t, int64(222), stats.TotalNativeContributed.Int64())
	assert.Empty(t, stats.TopParticipants)
}

func TestGlobalStatsWithTopList(t *testing.T) {
	client := newTestClient(t, &fakeCaller{})

	stats, err := client.GlobalStats(context.Background())
	require.NoError(t, err)
	require.Len(t, stats.TopParticipants, 1)
	assert.Equal(t, int64(777), stats.TopParticipants[0].Contributed.Int64())
}

func TestFeeUnknownKind(t *testing.T) {
	client := newTestClient(t, &fakeCaller{})
	_, err := client.Fee(context.Background(), FeeKind("bogus"))
	assert.Error(t, err)
}

// 恶意代币合约可以在 name()/symbol() 里返回任意偏移量和长度，
// 解码必须返回空串而不是越界 panic
func TestDecodeStringHostilePayloads(t *testing.T) {
	word := func(v *big.Int) []byte {
		return ethcommon.LeftPadBytes(v.Bytes(), 32)
	}
	maxUint64 := new(big.Int).SetUint64(^uint64(0))

	// 偏移量接近 2^64，加 32 后回绕
	overflowOffset := append(word(new(big.Int).Sub(maxUint64, big.NewInt(31))), make([]byte, 64)...)
	assert.Equal(t, "", decodeString(overflowOffset))

	// 长度接近 2^64，offset+32+length 回绕
	overflowLength := append(word(big.NewInt(32)), word(new(big.Int).Sub(maxUint64, big.NewInt(63)))...)
	overflowLength = append(overflowLength, make([]byte, 32)...)
	assert.Equal(t, "", decodeString(overflowLength))

	// 偏移量超出 uint64 表示范围
	hugeOffset := append(word(new(big.Int).Lsh(big.NewInt(1), 64)), make([]byte, 64)...)
	assert.Equal(t, "", decodeString(hugeOffset))

	// 长度指向响应之外
	outOfRange := append(word(big.NewInt(32)), word(big.NewInt(1000))...)
	outOfRange = append(outOfRange, make([]byte, 32)...)
	assert.Equal(t, "", decodeString(outOfRange))

	// 偏移量指向响应之外
	badOffset := append(word(big.NewInt(96)), make([]byte, 32)...)
	assert.Equal(t, "", decodeString(badOffset))

	// 正常编码不受影响
	assert.Equal(t, "ALPHA", decodeString(encString("ALPHA")))
}
