package orchestrator

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// State 交易编排状态。带 ERC20 授权前置的操作会经过
// CheckingAllowance / AwaitingApproval，纯原生币操作直接从
// AwaitingSubmission 开始。
type State string

const (
	StateIdle                 State = "idle"
	StateCheckingAllowance    State = "checking_allowance"
	StateAwaitingApproval     State = "awaiting_approval"
	StateAwaitingSubmission   State = "awaiting_submission"
	StateAwaitingConfirmation State = "awaiting_confirmation"
	StateConfirmed            State = "confirmed"
	StateFailed               State = "failed"
)

// Op 操作类型
type Op string

const (
	OpDeposit         Op = "deposit"
	OpListAsset       Op = "list_asset"
	OpDelistAsset     Op = "delist_asset"
	OpClaim           Op = "claim"
	OpBuyShares       Op = "buy_shares"
	OpClaimRewards    Op = "claim_rewards"
	OpReinvestRewards Op = "reinvest_rewards"
)

// Attempt 一次操作的执行记录
type Attempt struct {
	Op            Op
	State         State
	ApproveTxHash string // 授权交易哈希，未走授权为空
	TxHash        string // 主交易哈希
	Err           error
}

// Backend 交易编排所需的链上接口，ethclient.Client 天然满足
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	PendingNonceAt(ctx context.Context, account ethcommon.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash ethcommon.Hash) (*types.Receipt, error)
}
