package stats

import (
	"context"
	"log"
	"math/big"
	"sync"
	"time"
)

const (
	// DefaultInterval 默认采样间隔
	DefaultInterval = 15 * time.Second

	// DefaultKeep 默认保留的采样点数量
	DefaultKeep = 10
)

// Source 采样数据来源，registry.Client 天然满足
type Source interface {
	Totals(ctx context.Context) (fees, contributed *big.Int, err error)
}

// Sample 一次全局累计值采样
type Sample struct {
	At               time.Time
	TotalListingFees *big.Int
	TotalContributed *big.Int
}

// SamplerConfig 采样器配置
type SamplerConfig struct {
	Source   Source
	Interval time.Duration // 默认 15s
	Keep     int           // 环形保留数量，默认 10
}

// Sampler 周期性采样全局累计值，只保留最近的若干个点
type Sampler struct {
	source   Source
	interval time.Duration
	keep     int

	mu      sync.RWMutex
	samples []Sample
	cancel  context.CancelFunc
}

// NewSampler 创建采样器
func NewSampler(cfg SamplerConfig) *Sampler {
	if cfg.Interval == 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Keep == 0 {
		cfg.Keep = DefaultKeep
	}
	return &Sampler{
		source:   cfg.Source,
		interval: cfg.Interval,
		keep:     cfg.Keep,
	}
}

// Start 启动后台采样，重复调用只生效一次
func (s *Sampler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return
	}
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	go s.loop(ctx)
}

// Stop 停止采样
func (s *Sampler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Sampler) loop(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.sampleOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sampleOnce(ctx)
		}
	}
}

// sampleOnce 执行一次采样，失败只记录日志，保留已有数据
func (s *Sampler) sampleOnce(ctx context.Context) {
	fees, contributed, err := s.source.Totals(ctx)
	if err != nil {
		log.Printf("sample totals: %v", err)
		return
	}
	s.Record(Sample{
		At:               time.Now(),
		TotalListingFees: fees,
		TotalContributed: contributed,
	})
}

// Record 追加一个采样点，超出保留数量时丢弃最旧的
func (s *Sampler) Record(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples = append(s.samples, sample)
	if len(s.samples) > s.keep {
		s.samples = s.samples[len(s.samples)-s.keep:]
	}
}

// Samples 返回当前保留的采样点副本（按时间先后排列）
func (s *Sampler) Samples() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// Latest 返回最近一个采样点，没有数据时返回 nil
func (s *Sampler) Latest() *Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.samples) == 0 {
		return nil
	}
	sample := s.samples[len(s.samples)-1]
	return &sample
}

// FeeRatio 最近采样点中手续费总额占贡献总额的比例，
// 没有数据或贡献为零时返回 0
func (s *Sampler) FeeRatio() float64 {
	latest := s.Latest()
	if latest == nil || latest.TotalContributed == nil || latest.TotalContributed.Sign() == 0 {
		return 0
	}
	fees := new(big.Float).SetInt(latest.TotalListingFees)
	contributed := new(big.Float).SetInt(latest.TotalContributed)
	ratio, _ := new(big.Float).Quo(fees, contributed).Float64()
	return ratio
}
