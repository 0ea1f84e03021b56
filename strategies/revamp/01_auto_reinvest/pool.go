package main

import (
	"context"
	"sync"
	"time"
)

// runAccounts 用固定大小的工作池并发执行账户，结果按输入顺序返回。
// 相邻两次启动之间间隔 delay，避免瞬时打满同一个 RPC 节点。
func runAccounts(ctx context.Context, accounts []Account, parallel int, delay time.Duration, exec func(context.Context, Account) *Result) []*Result {
	if parallel < 1 {
		parallel = 1
	}

	results := make([]*Result, len(accounts))
	sem := make(chan struct{}, parallel)
	var wg sync.WaitGroup

	for i, account := range accounts {
		sem <- struct{}{}
		wg.Add(1)
		go func(i int, account Account) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = exec(ctx, account)
		}(i, account)

		if delay > 0 && i < len(accounts)-1 {
			time.Sleep(delay)
		}
	}
	wg.Wait()

	return results
}
