package registry

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/shuail0/revamp-client/pkg/protocol/revamp/common"
)

var revampABI = mustParseABI(common.RevampABI)

func mustParseABI(s string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		panic(fmt.Sprintf("parse abi: %v", err))
	}
	return parsed
}

// rawListedToken getAllListedTokens 返回的链上记录
type rawListedToken struct {
	Token       ethcommon.Address
	Rate        *big.Int
	LogoUrl     string
	Lister      ethcommon.Address
	ListedAt    *big.Int
	Blacklisted bool
}

// ListAssets 拉取全部已上架资产并并发补全代币元数据。
// 主列表读取失败直接返回错误；单个代币的元数据失败只记录日志，
// 该资产名称和符号用 "?" 占位，精度按 18 处理。
func (c *Client) ListAssets(ctx context.Context) ([]common.ListedAsset, error) {
	result, err := c.call(ctx, c.contract, encodeCall("getAllListedTokens()"))
	if err != nil {
		return nil, fmt.Errorf("list assets: %w", err)
	}

	out, err := revampABI.Unpack("getAllListedTokens", result)
	if err != nil {
		return nil, fmt.Errorf("decode assets: %w", err)
	}
	raw := *abi.ConvertType(out[0], new([]rawListedToken)).(*[]rawListedToken)

	assets := make([]common.ListedAsset, len(raw))
	var wg sync.WaitGroup
	for i, item := range raw {
		assets[i] = common.ListedAsset{
			Network:      c.network.Label,
			TokenAddress: item.Token.Hex(),
			Name:         "?",
			Symbol:       "?",
			Decimals:     common.DefaultTokenDecimals,
			Rate:         item.Rate,
			LogoURL:      item.LogoUrl,
			Lister:       item.Lister.Hex(),
			ListedAt:     item.ListedAt.Int64(),
			Blacklisted:  item.Blacklisted,
		}

		wg.Add(1)
		go func(i int, token ethcommon.Address) {
			defer wg.Done()
			name, symbol, decimals, err := c.tokenMetadata(ctx, token)
			if err != nil {
				log.Printf("token metadata %s: %v", token.Hex(), err)
				return
			}
			assets[i].Name = name
			assets[i].Symbol = symbol
			assets[i].Decimals = decimals
		}(i, item.Token)
	}
	wg.Wait()

	return assets, nil
}

// TopParticipants 读取贡献排行榜（合约侧最多返回前 20 名）
func (c *Client) TopParticipants(ctx context.Context) ([]common.Participant, error) {
	result, err := c.call(ctx, c.contract, encodeCall("getTopParticipants()"))
	if err != nil {
		return nil, fmt.Errorf("get top participants: %w", err)
	}

	out, err := revampABI.Unpack("getTopParticipants", result)
	if err != nil {
		return nil, fmt.Errorf("decode top participants: %w", err)
	}
	addrs := *abi.ConvertType(out[0], new([]ethcommon.Address)).(*[]ethcommon.Address)
	amounts := *abi.ConvertType(out[1], new([]*big.Int)).(*[]*big.Int)

	participants := make([]common.Participant, 0, len(addrs))
	for i, addr := range addrs {
		if i >= len(amounts) {
			break
		}
		participants = append(participants, common.Participant{
			Address:     addr.Hex(),
			Contributed: amounts[i],
		})
	}
	return participants, nil
}

// GlobalStats 汇总全局统计。排行榜读取失败只记录日志并留空，
// 不影响累计值的返回。
func (c *Client) GlobalStats(ctx context.Context) (*common.GlobalStats, error) {
	fees, contributed, err := c.Totals(ctx)
	if err != nil {
		return nil, fmt.Errorf("get totals: %w", err)
	}

	stats := &common.GlobalStats{
		TotalListingFees:       fees,
		TotalNativeContributed: contributed,
	}

	participants, err := c.TopParticipants(ctx)
	if err != nil {
		log.Printf("top participants unavailable on %s: %v", c.network.Label, err)
	} else {
		stats.TopParticipants = participants
	}
	return stats, nil
}

// tokenMetadata 读取代币的 name/symbol/decimals
func (c *Client) tokenMetadata(ctx context.Context, token ethcommon.Address) (string, string, uint8, error) {
	name, err := c.callString(ctx, token, "name()")
	if err != nil {
		return "", "", 0, fmt.Errorf("name: %w", err)
	}
	symbol, err := c.callString(ctx, token, "symbol()")
	if err != nil {
		return "", "", 0, fmt.Errorf("symbol: %w", err)
	}
	decimals, err := c.callUint(ctx, token, "decimals()")
	if err != nil {
		return "", "", 0, fmt.Errorf("decimals: %w", err)
	}
	return name, symbol, uint8(decimals.Uint64()), nil
}

// callString 调用返回 string 的方法。部分老代币把 name/symbol
// 声明为 bytes32，这里做兼容解码。
func (c *Client) callString(ctx context.Context, to ethcommon.Address, sig string) (string, error) {
	result, err := c.call(ctx, to, encodeCall(sig))
	if err != nil {
		return "", fmt.Errorf("call %s: %w", sig, err)
	}
	return decodeString(result), nil
}

// decodeString 解码 ABI string 返回值，单字返回按 bytes32 处理。
// 偏移量和长度来自不受信任的代币合约，比较前先做防溢出校验，
// 任何不一致都返回空串而不是 panic。
func decodeString(result []byte) string {
	if len(result) == 32 {
		return string(bytes.TrimRight(result, "\x00"))
	}
	if len(result) < 64 {
		return ""
	}
	total := uint64(len(result))
	offsetWord := new(big.Int).SetBytes(result[:32])
	if !offsetWord.IsUint64() || offsetWord.Uint64() > total-32 {
		return ""
	}
	offset := offsetWord.Uint64()
	lengthWord := new(big.Int).SetBytes(result[offset : offset+32])
	if !lengthWord.IsUint64() || lengthWord.Uint64() > total-offset-32 {
		return ""
	}
	length := lengthWord.Uint64()
	return string(result[offset+32 : offset+32+length])
}
