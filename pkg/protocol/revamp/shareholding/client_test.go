package shareholding

import (
	"bytes"
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller 按选择器返回预设的 32 字节字序列
type fakeCaller struct {
	responses map[string][]int64
	lastArg   []byte
}

func (f *fakeCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if len(msg.Data) > 4 {
		f.lastArg = msg.Data[4:]
	}
	for sig, words := range f.responses {
		if bytes.Equal(msg.Data[:4], crypto.Keccak256([]byte(sig))[:4]) {
			out := make([]byte, 0, len(words)*32)
			for _, w := range words {
				out = append(out, ethcommon.LeftPadBytes(big.NewInt(w).Bytes(), 32)...)
			}
			return out, nil
		}
	}
	return nil, nil
}

func newTestClient(t *testing.T, caller *fakeCaller) *Client {
	t.Helper()
	client, err := NewClient(Config{
		Network: common.ResolveChainID(137),
		Caller:  caller,
	})
	require.NoError(t, err)
	return client
}

func TestGlobalStats(t *testing.T) {
	caller := &fakeCaller{responses: map[string][]int64{
		"getGlobalStats()": {1000, 900, 50000, 12},
	}}
	client := newTestClient(t, caller)

	stats, err := client.GlobalStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1000), stats.CurrentPrice.Int64())
	assert.Equal(t, int64(900), stats.LastPurchasePrice.Int64())
	assert.Equal(t, int64(50000), stats.TotalVolumePurchased.Int64())
	assert.Equal(t, int64(12), stats.TotalHolders.Int64())
}

func TestUserStats(t *testing.T) {
	caller := &fakeCaller{responses: map[string][]int64{
		"getUserStats(address)": {7, 300, 400},
	}}
	client := newTestClient(t, caller)

	account := "0x7f69983eb28245bba0d5083502a78744a8f66162"
	stats, err := client.UserStats(context.Background(), account)
	require.NoError(t, err)
	assert.Equal(t, int64(7), stats.Shares.Int64())
	assert.Equal(t, int64(300), stats.SalesRewards.Int64())
	assert.Equal(t, int64(400), stats.SystemRewards.Int64())

	// 地址参数按 32 字节左补零传入
	expected := ethcommon.LeftPadBytes(ethcommon.HexToAddress(account).Bytes(), 32)
	assert.Equal(t, expected, caller.lastArg)
}

func TestStartBlock(t *testing.T) {
	caller := &fakeCaller{responses: map[string][]int64{
		"startBlock()": {12345678},
	}}
	client := newTestClient(t, caller)

	block, err := client.StartBlock(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(12345678), block)
}

func TestShortResponse(t *testing.T) {
	// 响应长度不足时报错而不是返回残缺数据
	client := newTestClient(t, &fakeCaller{responses: map[string][]int64{
		"getGlobalStats()": {1000, 900},
	}})

	_, err := client.GlobalStats(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "short response")
}
