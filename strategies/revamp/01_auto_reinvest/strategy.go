package main

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/orchestrator"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/rate"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/registry"
)

// Strategy 自动复投策略：把账户的待领取奖励换算成代币数量，
// 从钱包里余额足够的已上架资产中挑选消耗最少的一只回收进合约
type Strategy struct {
	cfg        Config
	network    *common.Network
	registry   *registry.Client
	minPending *big.Int
}

// NewStrategy 创建策略
func NewStrategy(cfg Config) (*Strategy, error) {
	network := common.ResolveChainID(cfg.ChainID)
	if network == nil {
		return nil, fmt.Errorf("不支持的链 ID: %d", cfg.ChainID)
	}

	reg, err := registry.NewClient(registry.Config{
		Network: network,
		RPCURL:  cfg.RPCURL,
	})
	if err != nil {
		return nil, fmt.Errorf("创建只读客户端失败: %w", err)
	}

	minPending := big.NewInt(0)
	if cfg.MinPending != "" {
		minPending, err = common.ParseUnits(cfg.MinPending, common.NativeDecimals)
		if err != nil {
			return nil, fmt.Errorf("解析复投门槛失败: %w", err)
		}
	}

	return &Strategy{
		cfg:        cfg,
		network:    network,
		registry:   reg,
		minPending: minPending,
	}, nil
}

// Execute 对单个账户执行一轮复投
func (s *Strategy) Execute(ctx context.Context, account Account) *Result {
	startTime := time.Now()
	result := &Result{Index: account.Index}

	defer func() {
		result.Duration = time.Since(startTime)
	}()

	// 1. 账户快照
	orch, err := orchestrator.NewClient(orchestrator.Config{
		Network:    s.network,
		RPCURL:     s.cfg.RPCURL,
		PrivateKey: account.PrivateKey,
	})
	if err != nil {
		result.Error = fmt.Sprintf("创建编排器失败: %v", err)
		return result
	}
	address := orch.Address()

	snapshot, err := s.registry.UserSnapshot(ctx, address)
	if err != nil {
		result.Error = fmt.Sprintf("获取账户快照失败: %v", err)
		return result
	}

	pending := snapshot.PendingReward
	fmt.Printf("[%d] 地址: %s\n", account.Index, address)
	fmt.Printf("[%d] 待领取奖励: %s %s\n", account.Index,
		common.FormatUnitsPrec(pending, common.NativeDecimals, 6), s.network.Currency)

	if pending.Sign() == 0 || pending.Cmp(s.minPending) < 0 {
		result.Success = true
		result.Skipped = true
		fmt.Printf("[%d] 奖励低于门槛，跳过\n", account.Index)
		return result
	}

	// 2. 拉取已上架资产并查询钱包余额
	assets, err := s.registry.ListAssets(ctx)
	if err != nil {
		result.Error = fmt.Sprintf("获取资产列表失败: %v", err)
		return result
	}

	var candidates []rate.Candidate
	for _, asset := range assets {
		if asset.Blacklisted {
			continue
		}
		balance, err := s.registry.TokenBalance(ctx, address, asset.TokenAddress)
		if err != nil {
			fmt.Printf("[%d] 查询 %s 余额失败: %v\n", account.Index, asset.Symbol, err)
			balance = nil
		}
		candidates = append(candidates, rate.Candidate{Asset: asset, Balance: balance})
	}

	// 3. 筛选余额足够覆盖复投所需数量的资产
	eligible := rate.Eligible(pending, candidates)
	if len(eligible) == 0 {
		result.Success = true
		result.Skipped = true
		fmt.Printf("[%d] 没有余额足够的合格资产，跳过\n", account.Index)
		return result
	}

	// 4. 挑选汇率最低（单价最便宜）的资产
	chosen := eligible[0]
	for _, cand := range eligible[1:] {
		if cand.Asset.Rate.Cmp(chosen.Asset.Rate) < 0 {
			chosen = cand
		}
	}
	required, err := rate.RequiredAmount(pending, chosen.Asset)
	if err != nil {
		result.Error = fmt.Sprintf("计算所需数量失败: %v", err)
		return result
	}

	result.Symbol = chosen.Asset.Symbol
	result.Amount = common.FormatUnits(required, int(chosen.Asset.Decimals))
	result.Reinvested = common.FormatUnits(pending, common.NativeDecimals)

	fmt.Printf("[%d] 选中资产: %s, 需要数量: %s, 汇率: %s\n", account.Index,
		chosen.Asset.Symbol, result.Amount, rate.FormatRate(chosen.Asset.Rate, 8))

	if s.cfg.DryRun {
		result.Success = true
		fmt.Printf("[%d] DryRun 模式，不发送交易\n", account.Index)
		return result
	}

	// 5. 授权并提交复投交易
	orch.OnState = func(attempt *orchestrator.Attempt) {
		fmt.Printf("[%d] 状态: %s\n", account.Index, attempt.State)
	}

	attempt, err := orch.Deposit(ctx, chosen.Asset.TokenAddress, required, pending)
	if err != nil {
		result.Error = fmt.Sprintf("复投失败: %v", err)
		if attempt != nil && attempt.TxHash != "" {
			result.TxHash = attempt.TxHash
		}
		return result
	}

	result.Success = true
	result.TxHash = attempt.TxHash
	fmt.Printf("[%d] 复投成功: %s\n", account.Index, s.network.TxURL(attempt.TxHash))
	return result
}
