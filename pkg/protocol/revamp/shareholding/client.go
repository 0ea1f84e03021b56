package shareholding

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

// Caller 链上只读访问接口
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Config 客户端配置
type Config struct {
	Network *common.Network
	RPCURL  string
	Caller  Caller
}

// Client ShareHolding 分红池合约只读客户端
type Client struct {
	caller   Caller
	network  *common.Network
	contract ethcommon.Address
}

// NewClient 创建分红池客户端，目标链未部署合约时报错
func NewClient(cfg Config) (*Client, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("network required")
	}
	if !cfg.Network.PoolSupported() {
		return nil, fmt.Errorf("shareholding contract not deployed on %s", cfg.Network.Label)
	}

	caller := cfg.Caller
	if caller == nil {
		rpcURL := cfg.RPCURL
		if rpcURL == "" {
			rpcURL = cfg.Network.RPCURL
		}
		ec, err := ethclient.Dial(rpcURL)
		if err != nil {
			return nil, fmt.Errorf("dial rpc: %w", err)
		}
		caller = ec
	}

	return &Client{
		caller:   caller,
		network:  cfg.Network,
		contract: ethcommon.HexToAddress(cfg.Network.ShareholdingAddress),
	}, nil
}

// Network 返回客户端绑定的网络
func (c *Client) Network() *common.Network {
	return c.network
}

// GlobalStats 读取分红池全局统计：当前价格、上次成交价、累计成交量、持有人数
func (c *Client) GlobalStats(ctx context.Context) (*common.PoolStats, error) {
	words, err := c.callWords(ctx, "getGlobalStats()", nil, 4)
	if err != nil {
		return nil, err
	}
	return &common.PoolStats{
		CurrentPrice:         words[0],
		LastPurchasePrice:    words[1],
		TotalVolumePurchased: words[2],
		TotalHolders:         words[3],
	}, nil
}

// UserStats 读取账户在分红池中的统计：份额、销售分成、协议费分成
func (c *Client) UserStats(ctx context.Context, account string) (*common.PoolUserStats, error) {
	arg := ethcommon.LeftPadBytes(ethcommon.HexToAddress(account).Bytes(), 32)
	words, err := c.callWords(ctx, "getUserStats(address)", arg, 3)
	if err != nil {
		return nil, err
	}
	return &common.PoolUserStats{
		Shares:        words[0],
		SalesRewards:  words[1],
		SystemRewards: words[2],
	}, nil
}

// StartBlock 读取合约部署起始区块，用于限定历史日志扫描范围
func (c *Client) StartBlock(ctx context.Context) (uint64, error) {
	words, err := c.callWords(ctx, "startBlock()", nil, 1)
	if err != nil {
		return 0, err
	}
	return words[0].Uint64(), nil
}

// callWords 调用只读方法并按 32 字节切出 n 个 uint256 返回值
func (c *Client) callWords(ctx context.Context, sig string, arg []byte, n int) ([]*big.Int, error) {
	data := crypto.Keccak256([]byte(sig))[:4]
	if arg != nil {
		data = append(data, arg...)
	}
	result, err := c.caller.CallContract(ctx, ethereum.CallMsg{To: &c.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", sig, err)
	}
	if len(result) < n*32 {
		return nil, fmt.Errorf("call %s: short response (%d bytes)", sig, len(result))
	}
	words := make([]*big.Int, n)
	for i := 0; i < n; i++ {
		words[i] = new(big.Int).SetBytes(result[i*32 : (i+1)*32])
	}
	return words, nil
}
