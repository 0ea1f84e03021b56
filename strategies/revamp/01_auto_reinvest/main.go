package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

func main() {
	// 命令行参数
	configFile := flag.String("config", "config.json", "配置文件路径(JSON)")
	flag.Parse()

	// 加载配置
	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("配置文件: %s\n", *configFile)
	fmt.Printf("账户文件: %s\n", cfg.AccountsFile)
	fmt.Printf("目标链: %d\n", cfg.ChainID)
	fmt.Printf("复投门槛: %s\n", cfg.MinPending)
	if p := cfg.GetMaxParallel(); p > 1 {
		fmt.Printf("并发数: %d\n", p)
	}
	if cfg.DryRun {
		fmt.Println("模式: DryRun（只评估不发交易）")
	}

	// 加载账户
	accounts, err := LoadAccounts(cfg.AccountsFile)
	if err != nil {
		fmt.Printf("加载账户失败: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("已加载 %d 个账户\n\n", len(accounts))

	// 创建策略
	strategy, err := NewStrategy(*cfg)
	if err != nil {
		fmt.Printf("创建策略失败: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	startTime := time.Now()

	// 工作池执行，结果按账户输入顺序汇总
	results := runAccounts(ctx, accounts, cfg.GetMaxParallel(), cfg.GetAccountDelay(),
		func(ctx context.Context, account Account) *Result {
			fmt.Printf("\n========== 账户 Index: %d ==========\n", account.Index)
			return strategy.Execute(ctx, account)
		})

	// 执行结果统计
	var successCount, skipCount, failCount int
	for _, result := range results {
		switch {
		case result.Skipped:
			skipCount++
		case result.Success:
			successCount++
			fmt.Printf("[%d] 成功: 资产=%s, 消耗=%s, 复投=%s, 耗时=%v\n",
				result.Index, result.Symbol, result.Amount, result.Reinvested, result.Duration)
		default:
			failCount++
			fmt.Printf("[%d] 失败: %s, 耗时=%v\n", result.Index, result.Error, result.Duration)
		}
	}

	// 输出汇总
	fmt.Printf("\n========== 执行汇总 ==========\n")
	fmt.Printf("总账户: %d\n", len(accounts))
	fmt.Printf("成功: %d\n", successCount)
	fmt.Printf("跳过: %d\n", skipCount)
	fmt.Printf("失败: %d\n", failCount)
	fmt.Printf("总耗时: %v\n", time.Since(startTime))

	if failCount > 0 {
		fmt.Println("\n失败详情:")
		for _, r := range results {
			if !r.Success {
				fmt.Printf("  [%d] %s\n", r.Index, r.Error)
			}
		}
	}
}

// loadConfig 从 JSON 文件加载配置
// 如果是相对路径，优先在可执行文件所在目录查找
func loadConfig(path string) (*Config, error) {
	// 如果是相对路径，尝试在可执行文件目录查找
	if !filepath.IsAbs(path) {
		if exePath, err := os.Executable(); err == nil {
			exeDir := filepath.Dir(exePath)
			absPath := filepath.Join(exeDir, path)
			if _, err := os.Stat(absPath); err == nil {
				path = absPath
			}
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	return &cfg, nil
}
