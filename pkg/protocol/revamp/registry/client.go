package registry

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

// Caller 链上只读访问接口，ethclient.Client 天然满足，测试时注入假实现
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	CodeAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account ethcommon.Address, blockNumber *big.Int) (*big.Int, error)
}

// Config 客户端配置
type Config struct {
	Network *common.Network
	RPCURL  string // 留空使用网络默认 RPC
	Caller  Caller // 留空时按 RPCURL 创建 ethclient
}

// Client Revamp 核心合约只读客户端
type Client struct {
	caller   Caller
	network  *common.Network
	contract ethcommon.Address
}

// FeeKind 手续费类型
type FeeKind string

const (
	FeeListing FeeKind = "listing"
	FeeDelist  FeeKind = "delist"
	FeeClaim   FeeKind = "claim"
)

// NewClient 创建只读客户端，目标链未部署核心合约时直接报错
func NewClient(cfg Config) (*Client, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("network required")
	}
	if !cfg.Network.Supported() {
		return nil, fmt.Errorf("revamp contract not deployed on %s", cfg.Network.Label)
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
		contract: ethcommon.HexToAddress(cfg.Network.RevampAddress),
	}, nil
}

// Network 返回客户端绑定的网络
func (c *Client) Network() *common.Network {
	return c.network
}

// CheckDeployed 校验合约代码确实存在于目标链
func (c *Client) CheckDeployed(ctx context.Context) error {
	code, err := c.caller.CodeAt(ctx, c.contract, nil)
	if err != nil {
		return fmt.Errorf("get code: %w", err)
	}
	if len(code) == 0 {
		return fmt.Errorf("contract not found on %s", c.network.Label)
	}
	return nil
}

// Fee 读取指定类型的手续费金额
func (c *Client) Fee(ctx context.Context, kind FeeKind) (*big.Int, error) {
	switch kind {
	case FeeListing:
		return c.callUint(ctx, c.contract, "listingFee()")
	case FeeDelist:
		return c.callUint(ctx, c.contract, "delistFee()")
	case FeeClaim:
		return c.callUint(ctx, c.contract, "claimFee()")
	default:
		return nil, fmt.Errorf("unknown fee kind: %s", kind)
	}
}

// PendingReward 读取账户的待领取奖励（wei）
func (c *Client) PendingReward(ctx context.Context, account string) (*big.Int, error) {
	return c.callUint(ctx, c.contract, "pendingReward(address)", padAddress(account))
}

// NativeBalance 读取账户的原生币余额
func (c *Client) NativeBalance(ctx context.Context, account string) (*big.Int, error) {
	balance, err := c.caller.BalanceAt(ctx, ethcommon.HexToAddress(account), nil)
	if err != nil {
		return nil, fmt.Errorf("get balance: %w", err)
	}
	return balance, nil
}

// TokenBalance 读取账户持有的代币余额
func (c *Client) TokenBalance(ctx context.Context, account, token string) (*big.Int, error) {
	return c.callUint(ctx, ethcommon.HexToAddress(token), "balanceOf(address)", padAddress(account))
}

// AccumulatedBalance 读取合约已累积的某资产数量
func (c *Client) AccumulatedBalance(ctx context.Context, token string) (*big.Int, error) {
	return c.callUint(ctx, ethcommon.HexToAddress(token), "balanceOf(address)", ethcommon.LeftPadBytes(c.contract.Bytes(), 32))
}

// FeePercents 读取入金手续费比例（250 = 2.50%）
func (c *Client) FeePercents(ctx context.Context) (*common.FeePercents, error) {
	native, err := c.callUint(ctx, c.contract, "nativeFeePercent()")
	if err != nil {
		return nil, err
	}
	shareholding, err := c.callUint(ctx, c.contract, "shareholdingFeePercent()")
	if err != nil {
		return nil, err
	}
	return &common.FeePercents{Native: native, Shareholding: shareholding}, nil
}

// Totals 读取全局累计值：上架手续费总额与原生币贡献总额
func (c *Client) Totals(ctx context.Context) (fees, contributed *big.Int, err error) {
	fees, err = c.callUint(ctx, c.contract, "totalListingFees()")
	if err != nil {
		return nil, nil, err
	}
	contributed, err = c.callUint(ctx, c.contract, "totalNativeContributed()")
	if err != nil {
		return nil, nil, err
	}
	return fees, contributed, nil
}

// UserSnapshot 构建账户快照：累计贡献、待领取奖励、2 倍回报上限及剩余额度
func (c *Client) UserSnapshot(ctx context.Context, account string) (*common.AccountSnapshot, error) {
	contributed, err := c.callUint(ctx, c.contract, "users(address)", padAddress(account))
	if err != nil {
		return nil, fmt.Errorf("get user record: %w", err)
	}
	pending, err := c.PendingReward(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("get pending reward: %w", err)
	}
	balance, err := c.NativeBalance(ctx, account)
	if err != nil {
		return nil, err
	}

	maxPotential := new(big.Int).Mul(contributed, big.NewInt(2))
	remaining := new(big.Int).Sub(maxPotential, pending)
	if remaining.Sign() < 0 {
		remaining.SetInt64(0)
	}

	return &common.AccountSnapshot{
		Address:            account,
		NativeBalance:      balance,
		TotalContributed:   contributed,
		PendingReward:      pending,
		MaxPotential:       maxPotential,
		RemainingPotential: remaining,
	}, nil
}

// call 执行只读合约调用
func (c *Client) call(ctx context.Context, to ethcommon.Address, data []byte) ([]byte, error) {
	return c.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
}

// callUint 调用方法并取首个 uint256 返回值
func (c *Client) callUint(ctx context.Context, to ethcommon.Address, sig string, args ...[]byte) (*big.Int, error) {
	result, err := c.call(ctx, to, encodeCall(sig, args...))
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", sig, err)
	}
	if len(result) < 32 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(result[:32]), nil
}

// encodeCall 拼接方法选择器与 32 字节对齐的参数
func encodeCall(sig string, args ...[]byte) []byte {
	data := crypto.Keccak256([]byte(sig))[:4]
	for _, arg := range args {
		data = append(data, arg...)
	}
	return data
}

func padAddress(addr string) []byte {
	return ethcommon.LeftPadBytes(ethcommon.HexToAddress(addr).Bytes(), 32)
}
