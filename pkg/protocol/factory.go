package protocol

import (
	"fmt"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/history"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/registry"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/shareholding"
)

// Service 按网络组装的协议客户端集合，共享同一个 RPC 连接
type Service struct {
	Network      *common.Network
	Registry     *registry.Client
	Shareholding *shareholding.Client
	History      *history.Aggregator
}

// Options 创建选项
type Options struct {
	RPCURL       string // 留空使用网络默认 RPC
	LookbackDays uint64 // 历史回溯天数，留空用默认值
}

// New 按链 ID 创建协议客户端集合，不支持的链直接报错。
// 分红池未部署的链上 Shareholding 和 History 为 nil。
func New(chainID int64, opts Options) (*Service, error) {
	network := common.ResolveChainID(chainID)
	if network == nil {
		return nil, fmt.Errorf("unsupported chain id: %d", chainID)
	}

	rpcURL := opts.RPCURL
	if rpcURL == "" {
		rpcURL = network.RPCURL
	}
	ec, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}

	reg, err := registry.NewClient(registry.Config{Network: network, Caller: ec})
	if err != nil {
		return nil, err
	}

	svc := &Service{Network: network, Registry: reg}

	if network.PoolSupported() {
		pool, err := shareholding.NewClient(shareholding.Config{Network: network, Caller: ec})
		if err != nil {
			return nil, err
		}
		svc.Shareholding = pool

		agg, err := history.NewAggregator(history.Config{
			Network:      network,
			Filterer:     ec,
			LookbackDays: opts.LookbackDays,
		})
		if err != nil {
			return nil, err
		}
		svc.History = agg
	}

	return svc, nil
}

// SupportedChainIDs 返回支持的链 ID 列表
func SupportedChainIDs() []int64 {
	ids := make([]int64, 0, len(common.AvailableNetworks))
	for _, n := range common.AvailableNetworks {
		ids = append(ids, n.ChainID)
	}
	return ids
}
