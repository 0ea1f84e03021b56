package common

import "fmt"

// Network 网络描述信息（静态配置，进程启动后不可变）
type Network struct {
	ChainID             int64
	Label               string
	Currency            string
	RPCURL              string
	ExplorerURL         string
	RevampAddress       string // 为空表示该链未部署核心合约
	ShareholdingAddress string // 为空表示该链未部署分红池合约
}

// AvailableNetworks 支持的网络列表
var AvailableNetworks = []Network{
	{
		ChainID:             56,
		Label:               "BSC Mainnet",
		Currency:            "BNB",
		RPCURL:              "https://bsc-dataseed.binance.org",
		ExplorerURL:         "https://bscscan.com",
		RevampAddress:       ContractRevamp,
		ShareholdingAddress: ContractShareholding,
	},
	{
		ChainID:             137,
		Label:               "Polygon Mainnet",
		Currency:            "POL",
		RPCURL:              "https://polygon-rpc.com",
		ExplorerURL:         "https://polygonscan.com",
		RevampAddress:       ContractRevamp,
		ShareholdingAddress: ContractShareholding,
	},
	{
		ChainID:             1,
		Label:               "Ethereum Mainnet",
		Currency:            "ETH",
		RPCURL:              "https://eth.llamarpc.com",
		ExplorerURL:         "https://etherscan.io",
		RevampAddress:       ContractRevamp,
		ShareholdingAddress: ContractShareholding,
	},
	{
		ChainID:             8453,
		Label:               "Base Mainnet",
		Currency:            "ETH",
		RPCURL:              "https://mainnet.base.org",
		ExplorerURL:         "https://basescan.org",
		RevampAddress:       ContractRevamp,
		ShareholdingAddress: ContractShareholding,
	},
	{
		ChainID:             42161,
		Label:               "Arbitrum One",
		Currency:            "ETH",
		RPCURL:              "https://arb1.arbitrum.io/rpc",
		ExplorerURL:         "https://arbiscan.io",
		RevampAddress:       ContractRevamp,
		ShareholdingAddress: ContractShareholding,
	},
	{
		ChainID:             10,
		Label:               "Optimism Mainnet",
		Currency:            "ETH",
		RPCURL:              "https://mainnet.optimism.io",
		ExplorerURL:         "https://optimistic.etherscan.io",
		RevampAddress:       ContractRevamp,
		ShareholdingAddress: ContractShareholding,
	},
}

// ResolveChainID 按链 ID 查找网络，未收录返回 nil（nil 表示"不支持"，不是错误）
func ResolveChainID(chainID int64) *Network {
	for i := range AvailableNetworks {
		if AvailableNetworks[i].ChainID == chainID {
			return &AvailableNetworks[i]
		}
	}
	return nil
}

// Matches 判断选中网络与钱包上报网络是否一致，任一方为 nil 均为 false
func Matches(selected, active *Network) bool {
	return selected != nil && active != nil && selected.ChainID == active.ChainID
}

// Supported 核心合约是否已在该链部署
func (n *Network) Supported() bool {
	return n != nil && n.RevampAddress != ""
}

// PoolSupported 分红池合约是否已在该链部署
func (n *Network) PoolSupported() bool {
	return n != nil && n.ShareholdingAddress != ""
}

// TxURL 构造交易的区块浏览器链接
func (n *Network) TxURL(hash string) string {
	if n == nil || n.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/tx/%s", n.ExplorerURL, hash)
}

// AddressURL 构造地址的区块浏览器链接
func (n *Network) AddressURL(addr string) string {
	if n == nil || n.ExplorerURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/address/%s", n.ExplorerURL, addr)
}
