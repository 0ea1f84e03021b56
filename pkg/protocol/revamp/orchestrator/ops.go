package orchestrator

import (
	"context"
	"fmt"
	"math/big"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Deposit 把资产回收进核心合约换取销毁额度。
// tokenAmount 为代币数量，contributionWei 为随交易附带的原生币
// 数量（复投场景传待领取奖励）。授权额度不足时先发一笔等额
// approve，授权被拒或回滚则整个操作终止，不会提交主交易。
func (c *Client) Deposit(ctx context.Context, token string, tokenAmount, contributionWei *big.Int) (*Attempt, error) {
	if tokenAmount == nil || tokenAmount.Sign() <= 0 {
		return nil, fmt.Errorf("invalid token amount")
	}
	attempt := &Attempt{Op: OpDeposit, State: StateIdle}

	tokenAddr := ethcommon.HexToAddress(token)
	contract := ethcommon.HexToAddress(c.network.RevampAddress)

	data := crypto.Keccak256([]byte("deposit(address,uint256)"))[:4]
	data = append(data, ethcommon.LeftPadBytes(tokenAddr.Bytes(), 32)...)
	data = append(data, ethcommon.LeftPadBytes(tokenAmount.Bytes(), 32)...)

	leg := &approveLeg{token: tokenAddr, amount: tokenAmount}
	return c.run(ctx, attempt, leg, contract, contributionWei, data)
}

// ListAsset 上架新资产，汇率为 1e18 定点，上架手续费实时读取后随交易附带
func (c *Client) ListAsset(ctx context.Context, token string, rate *big.Int, logoURL string) (*Attempt, error) {
	if rate == nil || rate.Sign() <= 0 {
		return nil, fmt.Errorf("invalid rate")
	}
	attempt := &Attempt{Op: OpListAsset, State: StateIdle}

	fee, err := c.feeValue(ctx, "listingFee()")
	if err != nil {
		return attempt, c.fail(attempt, fmt.Errorf("get listing fee: %w", err))
	}

	contract := ethcommon.HexToAddress(c.network.RevampAddress)
	data := encodeListAsset(ethcommon.HexToAddress(token), rate, logoURL)
	return c.run(ctx, attempt, nil, contract, fee, data)
}

// DelistAsset 下架资产，下架手续费随交易附带
func (c *Client) DelistAsset(ctx context.Context, token string) (*Attempt, error) {
	attempt := &Attempt{Op: OpDelistAsset, State: StateIdle}

	fee, err := c.feeValue(ctx, "delistFee()")
	if err != nil {
		return attempt, c.fail(attempt, fmt.Errorf("get delist fee: %w", err))
	}

	contract := ethcommon.HexToAddress(c.network.RevampAddress)
	data := crypto.Keccak256([]byte("delistAsset(address)"))[:4]
	data = append(data, ethcommon.LeftPadBytes(ethcommon.HexToAddress(token).Bytes(), 32)...)
	return c.run(ctx, attempt, nil, contract, fee, data)
}

// Claim 领取核心合约的待领取奖励，领取手续费随交易附带
func (c *Client) Claim(ctx context.Context) (*Attempt, error) {
	attempt := &Attempt{Op: OpClaim, State: StateIdle}

	fee, err := c.feeValue(ctx, "claimFee()")
	if err != nil {
		return attempt, c.fail(attempt, fmt.Errorf("get claim fee: %w", err))
	}

	contract := ethcommon.HexToAddress(c.network.RevampAddress)
	data := crypto.Keccak256([]byte("claim()"))[:4]
	return c.run(ctx, attempt, nil, contract, fee, data)
}

// BuyShares 按当前价格购入分红池份额，valueWei 为支付的原生币数量
func (c *Client) BuyShares(ctx context.Context, valueWei *big.Int) (*Attempt, error) {
	if valueWei == nil || valueWei.Sign() <= 0 {
		return nil, fmt.Errorf("invalid value")
	}
	if !c.network.PoolSupported() {
		return nil, fmt.Errorf("shareholding contract not deployed on %s", c.network.Label)
	}
	attempt := &Attempt{Op: OpBuyShares, State: StateIdle}

	contract := ethcommon.HexToAddress(c.network.ShareholdingAddress)
	data := crypto.Keccak256([]byte("buyShares()"))[:4]
	return c.run(ctx, attempt, nil, contract, valueWei, data)
}

// ClaimRewards 领取分红池累积的分成
func (c *Client) ClaimRewards(ctx context.Context) (*Attempt, error) {
	if !c.network.PoolSupported() {
		return nil, fmt.Errorf("shareholding contract not deployed on %s", c.network.Label)
	}
	attempt := &Attempt{Op: OpClaimRewards, State: StateIdle}

	contract := ethcommon.HexToAddress(c.network.ShareholdingAddress)
	data := crypto.Keccak256([]byte("claimRewards()"))[:4]
	return c.run(ctx, attempt, nil, contract, nil, data)
}

// ReinvestRewards 把分红池分成直接复投成份额
func (c *Client) ReinvestRewards(ctx context.Context) (*Attempt, error) {
	if !c.network.PoolSupported() {
		return nil, fmt.Errorf("shareholding contract not deployed on %s", c.network.Label)
	}
	attempt := &Attempt{Op: OpReinvestRewards, State: StateIdle}

	contract := ethcommon.HexToAddress(c.network.ShareholdingAddress)
	data := crypto.Keccak256([]byte("reinvestRewards()"))[:4]
	return c.run(ctx, attempt, nil, contract, nil, data)
}

// encodeListAsset 编码 listNewAsset(address,uint256,string) 调用数据。
// string 为动态类型，头部放偏移量，尾部放长度和补齐到 32 字节的内容。
func encodeListAsset(token ethcommon.Address, rate *big.Int, logoURL string) []byte {
	data := crypto.Keccak256([]byte("listNewAsset(address,uint256,string)"))[:4]
	data = append(data, ethcommon.LeftPadBytes(token.Bytes(), 32)...)
	data = append(data, ethcommon.LeftPadBytes(rate.Bytes(), 32)...)
	data = append(data, ethcommon.LeftPadBytes(big.NewInt(96).Bytes(), 32)...)

	logo := []byte(logoURL)
	data = append(data, ethcommon.LeftPadBytes(big.NewInt(int64(len(logo))).Bytes(), 32)...)
	padded := (len(logo) + 31) / 32 * 32
	data = append(data, ethcommon.RightPadBytes(logo, padded)...)
	return data
}
