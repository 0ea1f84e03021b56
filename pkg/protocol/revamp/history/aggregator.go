package history

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"sort"
	"sync"

	"github.com/ethereum/go-ethereum"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

const (
	// PageSize 单次日志查询的区块跨度上限，对齐公共 RPC 的限制
	PageSize = 5000

	// BlocksPerDay 估算用的日均出块数
	BlocksPerDay = 6500

	// LookbackDays 默认回溯天数
	LookbackDays = 90
)

// LogFilterer 日志查询接口，ethclient.Client 天然满足
type LogFilterer interface {
	FilterLogs(ctx context.Context, q ethereum.FilterQuery) ([]types.Log, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

// Config 聚合器配置
type Config struct {
	Network      *common.Network
	RPCURL       string
	Filterer     LogFilterer
	LookbackDays uint64 // 默认 90
}

// Aggregator 份额价格历史聚合器：按区块窗口分页拉取
// PriceHistory 事件日志并按时间升序汇总
type Aggregator struct {
	filterer LogFilterer
	network  *common.Network
	contract ethcommon.Address
	topic    ethcommon.Hash
	lookback uint64
}

// Window 一段闭区间的区块查询窗口
type Window struct {
	From uint64
	To   uint64
}

// NewAggregator 创建历史聚合器
func NewAggregator(cfg Config) (*Aggregator, error) {
	if cfg.Network == nil {
		return nil, fmt.Errorf("network required")
	}
	if !cfg.Network.PoolSupported() {
		return nil, fmt.Errorf("shareholding contract not deployed on %s", cfg.Network.Label)
	}

	filterer := cfg.Filterer
	if filterer == nil {
		rpcURL := cfg.RPCURL
		if rpcURL == "" {
			rpcURL = cfg.Network.RPCURL
		}
		ec, err := ethclient.Dial(rpcURL)
		if err != nil {
			return nil, fmt.Errorf("dial rpc: %w", err)
		}
		filterer = ec
	}

	if cfg.LookbackDays == 0 {
		cfg.LookbackDays = LookbackDays
	}

	return &Aggregator{
		filterer: filterer,
		network:  cfg.Network,
		contract: ethcommon.HexToAddress(cfg.Network.ShareholdingAddress),
		topic:    crypto.Keccak256Hash([]byte(common.PriceHistoryEventSig)),
		lookback: cfg.LookbackDays,
	}, nil
}

// Windows 把 [earliest, latest] 切成跨度不超过 page 的闭区间窗口
func Windows(earliest, latest, page uint64) []Window {
	if page == 0 || earliest > latest {
		return nil
	}
	var windows []Window
	for from := earliest; from <= latest; from += page {
		to := from + page - 1
		if to > latest {
			to = latest
		}
		windows = append(windows, Window{From: from, To: to})
	}
	return windows
}

// Load 拉取价格历史。起点取部署区块与回溯窗口起点的较大者，
// 各窗口并发查询，失败的窗口记录日志后跳过，结果按时间升序。
func (a *Aggregator) Load(ctx context.Context, deploymentBlock uint64) ([]common.HistoricalPoint, error) {
	latest, err := a.filterer.BlockNumber(ctx)
	if err != nil {
		return nil, fmt.Errorf("get block number: %w", err)
	}

	earliest := deploymentBlock
	span := a.lookback * BlocksPerDay
	if latest > span && latest-span > earliest {
		earliest = latest - span
	}

	windows := Windows(earliest, latest, PageSize)

	var (
		mu     sync.Mutex
		points []common.HistoricalPoint
		wg     sync.WaitGroup
	)
	for _, w := range windows {
		wg.Add(1)
		go func(w Window) {
			defer wg.Done()
			logs, err := a.filterer.FilterLogs(ctx, ethereum.FilterQuery{
				FromBlock: new(big.Int).SetUint64(w.From),
				ToBlock:   new(big.Int).SetUint64(w.To),
				Addresses: []ethcommon.Address{a.contract},
				Topics:    [][]ethcommon.Hash{{a.topic}},
			})
			if err != nil {
				log.Printf("filter logs [%d, %d] on %s: %v", w.From, w.To, a.network.Label, err)
				return
			}
			decoded := make([]common.HistoricalPoint, 0, len(logs))
			for _, l := range logs {
				point, ok := decodePoint(l)
				if !ok {
					continue
				}
				decoded = append(decoded, point)
			}
			mu.Lock()
			points = append(points, decoded...)
			mu.Unlock()
		}(w)
	}
	wg.Wait()

	sort.Slice(points, func(i, j int) bool {
		return points[i].Timestamp < points[j].Timestamp
	})
	return points, nil
}

// decodePoint 解码 PriceHistory 事件的三个非索引字段
func decodePoint(l types.Log) (common.HistoricalPoint, bool) {
	if len(l.Data) < 96 {
		return common.HistoricalPoint{}, false
	}
	return common.HistoricalPoint{
		Price:     new(big.Int).SetBytes(l.Data[0:32]),
		Volume:    new(big.Int).SetBytes(l.Data[32:64]),
		Timestamp: new(big.Int).SetBytes(l.Data[64:96]).Int64(),
	}, true
}
