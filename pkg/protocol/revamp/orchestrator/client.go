package orchestrator

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

var erc20ABI = mustParseABI(common.ERC20ABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("parse abi: %v", err))
	}
	return parsed
}

// Config 编排器配置
type Config struct {
	Network        *common.Network
	RPCURL         string        // 留空使用网络默认 RPC
	PrivateKey     string        // 账户私钥（hex，可带 0x 前缀）
	Backend        Backend       // 留空时按 RPCURL 创建 ethclient
	PollInterval   time.Duration // 回执轮询间隔，默认 3s
	ConfirmTimeout time.Duration // 确认超时，默认 3min
	GasLimitBuffer uint64        // 预估 gas 上浮百分比，默认 20
}

// Client 交易编排器：串起授权前置、主交易提交和回执确认
type Client struct {
	backend        Backend
	network        *common.Network
	privateKey     *ecdsa.PrivateKey
	address        ethcommon.Address
	chainID        *big.Int
	pollInterval   time.Duration
	confirmTimeout time.Duration
	gasBuffer      uint64

	// OnState 状态变更回调，每次迁移都会触发
	OnState func(attempt *Attempt)
	// OnConfirmed 主交易确认回调
	OnConfirmed func(attempt *Attempt)
}

// NewClient 创建交易编排器
func NewClient(cfg Config) (*Client, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("network required")
	}
	if !cfg.Network.Supported() {
		return nil, fmt.Errorf("revamp contract not deployed on %s", cfg.Network.Label)
	}

	// 解析私钥
	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}

	publicKey := privateKey.Public()
	publicKeyECDSA, ok := publicKey.(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("invalid public key")
	}
	address := crypto.PubkeyToAddress(*publicKeyECDSA)

	backend := cfg.Backend
	if backend == nil {
		rpcURL := cfg.RPCURL
		if rpcURL == "" {
			rpcURL = cfg.Network.RPCURL
		}
		ec, err := ethclient.Dial(rpcURL)
		if err != nil {
			return nil, fmt.Errorf("dial rpc: %w", err)
		}
		backend = ec
	}

	if cfg.PollInterval == 0 {
		cfg.PollInterval = 3 * time.Second
	}
	if cfg.ConfirmTimeout == 0 {
		cfg.ConfirmTimeout = 3 * time.Minute
	}
	if cfg.GasLimitBuffer == 0 {
		cfg.GasLimitBuffer = 20
	}

	return &Client{
		backend:        backend,
		network:        cfg.Network,
		privateKey:     privateKey,
		address:        address,
		chainID:        big.NewInt(cfg.Network.ChainID),
		pollInterval:   cfg.PollInterval,
		confirmTimeout: cfg.ConfirmTimeout,
		gasBuffer:      cfg.GasLimitBuffer,
	}, nil
}

// Address 返回签名账户地址
func (c *Client) Address() string {
	return c.address.Hex()
}

// transition 迁移状态并触发回调
func (c *Client) transition(attempt *Attempt, state State) {
	attempt.State = state
	if c.OnState != nil {
		c.OnState(attempt)
	}
}

// fail 标记失败并返回包装后的错误
func (c *Client) fail(attempt *Attempt, err error) error {
	attempt.Err = err
	c.transition(attempt, StateFailed)
	return err
}

// run 执行一次操作：可选的授权前置，然后提交主交易并等待确认
func (c *Client) run(ctx context.Context, attempt *Attempt, approve *approveLeg, to ethcommon.Address, value *big.Int, data []byte) (*Attempt, error) {
	c.transition(attempt, StateIdle)

	if approve != nil {
		c.transition(attempt, StateCheckingAllowance)
		allowance, err := c.allowance(ctx, approve.token, to)
		if err != nil {
			return attempt, c.fail(attempt, fmt.Errorf("check allowance: %w", err))
		}

		if allowance.Cmp(approve.amount) < 0 {
			c.transition(attempt, StateAwaitingApproval)
			approveData, err := encodeApprove(to, approve.amount)
			if err != nil {
				return attempt, c.fail(attempt, err)
			}
			hash, err := c.sendTx(ctx, approve.token, nil, approveData)
			if err != nil {
				return attempt, c.fail(attempt, fmt.Errorf("send approval: %w", err))
			}
			attempt.ApproveTxHash = hash.Hex()

			receipt, err := c.waitMined(ctx, hash)
			if err != nil {
				return attempt, c.fail(attempt, fmt.Errorf("wait approval: %w", err))
			}
			if receipt.Status != types.ReceiptStatusSuccessful {
				return attempt, c.fail(attempt, fmt.Errorf("approval rejected or reverted: %s", hash.Hex()))
			}
		}
	}

	c.transition(attempt, StateAwaitingSubmission)
	hash, err := c.sendTx(ctx, to, value, data)
	if err != nil {
		return attempt, c.fail(attempt, fmt.Errorf("send transaction: %w", err))
	}
	attempt.TxHash = hash.Hex()

	c.transition(attempt, StateAwaitingConfirmation)
	receipt, err := c.waitMined(ctx, hash)
	if err != nil {
		return attempt, c.fail(attempt, fmt.Errorf("wait confirmation: %w", err))
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return attempt, c.fail(attempt, fmt.Errorf("transaction reverted: %s", hash.Hex()))
	}

	c.transition(attempt, StateConfirmed)
	if c.OnConfirmed != nil {
		c.OnConfirmed(attempt)
	}
	return attempt, nil
}

// approveLeg ERC20 授权前置参数
type approveLeg struct {
	token  ethcommon.Address
	amount *big.Int
}

// allowance 读取账户对 spender 的实时授权额度
func (c *Client) allowance(ctx context.Context, token, spender ethcommon.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("allowance", c.address, spender)
	if err != nil {
		return nil, fmt.Errorf("pack allowance: %w", err)
	}

	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, err
	}
	if len(result) < 32 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(result[:32]), nil
}

// sendTx 组装、签名并提交交易，返回交易哈希
func (c *Client) sendTx(ctx context.Context, to ethcommon.Address, value *big.Int, data []byte) (ethcommon.Hash, error) {
	if value == nil {
		value = new(big.Int)
	}
	nonce, err := c.backend.PendingNonceAt(ctx, c.address)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("get nonce: %w", err)
	}
	gasPrice, err := c.backend.SuggestGasPrice(ctx)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("get gas price: %w", err)
	}
	gasLimit, err := c.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  c.address,
		To:    &to,
		Value: value,
		Data:  data,
	})
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("estimate gas: %w", err)
	}
	gasLimit = gasLimit * (100 + c.gasBuffer) / 100

	tx := types.NewTransaction(nonce, to, value, gasLimit, gasPrice, data)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(c.chainID), c.privateKey)
	if err != nil {
		return ethcommon.Hash{}, fmt.Errorf("sign transaction: %w", err)
	}
	if err := c.backend.SendTransaction(ctx, signedTx); err != nil {
		return ethcommon.Hash{}, fmt.Errorf("send transaction: %w", err)
	}
	return signedTx.Hash(), nil
}

// waitMined 轮询回执直到交易上链或超时
func (c *Client) waitMined(ctx context.Context, hash ethcommon.Hash) (*types.Receipt, error) {
	deadline := time.Now().Add(c.confirmTimeout)
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		receipt, err := c.backend.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("transaction not mined within %s: %s", c.confirmTimeout, hash.Hex())
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

// feeValue 读取核心合约上的手续费金额
func (c *Client) feeValue(ctx context.Context, sig string) (*big.Int, error) {
	contract := ethcommon.HexToAddress(c.network.RevampAddress)
	data := crypto.Keccak256([]byte(sig))[:4]
	result, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", sig, err)
	}
	if len(result) < 32 {
		return big.NewInt(0), nil
	}
	return new(big.Int).SetBytes(result[:32]), nil
}

// encodeApprove 编码 ERC20 approve 调用数据
func encodeApprove(spender ethcommon.Address, amount *big.Int) ([]byte, error) {
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("pack approve: %w", err)
	}
	return data, nil
}
