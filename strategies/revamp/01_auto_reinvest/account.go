package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// LoadAccounts 从 CSV 文件加载账户
// CSV 格式: index,evmAddress,evmPrivateKey
func LoadAccounts(path string) ([]Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开文件失败: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("读取CSV失败: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("CSV文件为空或只有表头")
	}

	// 解析表头，获取列索引
	header := records[0]
	colIndex := make(map[string]int)
	for i, col := range header {
		colIndex[strings.TrimSpace(strings.ToLower(col))] = i
	}

	if _, ok := colIndex["evmprivatekey"]; !ok {
		return nil, fmt.Errorf("缺少必需列: evmprivatekey")
	}

	var accounts []Account
	for i, row := range records[1:] {
		if len(row) < len(header) {
			continue
		}

		account := Account{Index: i + 1}

		// 解析索引
		if idx, ok := colIndex["index"]; ok && idx < len(row) {
			if n, err := strconv.Atoi(strings.TrimSpace(row[idx])); err == nil {
				account.Index = n
			}
		}

		if idx, ok := colIndex["evmaddress"]; ok && idx < len(row) {
			account.Address = strings.TrimSpace(row[idx])
		}
		if idx, ok := colIndex["evmprivatekey"]; ok && idx < len(row) {
			account.PrivateKey = strings.TrimSpace(row[idx])
		}

		// 验证必需字段
		if account.PrivateKey == "" {
			continue
		}

		accounts = append(accounts, account)
	}

	if len(accounts) == 0 {
		return nil, fmt.Errorf("未找到有效账户")
	}

	return accounts, nil
}
