/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-23 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\scheduler.go
 * @Description: 负载曲线调度 - 目标并发计算、worker 生命周期编排
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"math"
	"net/http"
	"sync"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
	"golang.org/x/sync/semaphore"
)

const (
	// 爬坡调度轮询间隔
	rampPollInterval = 20 * time.Millisecond

	// 在途请求上限 = clamp(users*2, 50, 1000)
	inFlightMultiplier = 2
	minInFlightLimit   = 50
	maxInFlightLimit   = 1000
)

// ComputeActiveUsers 计算某时刻的目标并发数，纯函数
// worker 启动循环与进度展示共用这一份真相
func ComputeActiveUsers(cfg *types.RunConfig, elapsedSeconds float64) int {
	if elapsedSeconds < 0 {
		return 0
	}
	switch cfg.Scenario {
	case types.ScenarioConstant:
		return cfg.Users

	case types.ScenarioGradual:
		return rampUsers(cfg.Users, cfg.RampUpSeconds, elapsedSeconds)

	case types.ScenarioSpike:
		mid := math.Max(0, (cfg.DurationSeconds-2*cfg.SpikeDurationSeconds)/2)
		spikeStart := cfg.RampUpSeconds + mid
		spikeEnd := spikeStart + cfg.SpikeDurationSeconds
		if elapsedSeconds < cfg.RampUpSeconds {
			return rampUsers(cfg.Users, cfg.RampUpSeconds, elapsedSeconds)
		}
		if elapsedSeconds >= spikeStart && elapsedSeconds < spikeEnd {
			return cfg.Users + cfg.SpikeUsers
		}
		return cfg.Users

	default:
		return cfg.Users
	}
}

// rampUsers 线性爬坡插值：至少 1 人，爬坡结束后恒为 users
func rampUsers(users int, rampUpSeconds, elapsedSeconds float64) int {
	if rampUpSeconds <= 0 {
		return users
	}
	fraction := math.Min(1, elapsedSeconds/rampUpSeconds)
	return mathx.Max(1, int(math.Floor(float64(users)*fraction)))
}

// InFlightLimit 全局在途请求上限
func InFlightLimit(users int) int {
	return mathx.Min(mathx.Max(users*inFlightMultiplier, minInFlightLimit), maxInFlightLimit)
}

// SchedulerConfig 调度器参数
type SchedulerConfig struct {
	Config   *types.RunConfig
	Requests []*types.ParsedRequest
	Queue    chan<- *types.RequestResult
	Client   *http.Client // 所有 worker 共享
	Logger   logger.ILogger
}

// Scheduler 按负载曲线编排 worker 生命周期
type Scheduler struct {
	cfg     *types.RunConfig
	reqs    []*types.ParsedRequest
	queue   chan<- *types.RequestResult
	client  *http.Client
	logger  logger.ILogger
	spawned int // Run 返回后有效
}

// NewScheduler 创建调度器
func NewScheduler(sc SchedulerConfig) *Scheduler {
	log := sc.Logger
	if log == nil {
		log = logger.Default
	}
	return &Scheduler{
		cfg:    sc.Config,
		reqs:   sc.Requests,
		queue:  sc.Queue,
		client: sc.Client,
		logger: log,
	}
}

// WorkersSpawned Run 期间实际启动的 worker 总数（哨兵预期值）
func (s *Scheduler) WorkersSpawned() int {
	return s.spawned
}

// Run 按配置的负载曲线发压，阻塞到所有 worker 退出
// 请求列表为空时立即返回，start == end
func (s *Scheduler) Run(ctx context.Context) (start, end time.Time) {
	start = time.Now()
	if len(s.reqs) == 0 {
		return start, start
	}

	workerCtx, stop := context.WithCancel(ctx)
	defer stop()

	limiter := semaphore.NewWeighted(int64(InFlightLimit(s.cfg.Users)))
	var wg sync.WaitGroup

	spawn := func() {
		s.spawned++
		id := s.spawned
		wg.Add(1)
		go func() {
			defer wg.Done()
			RunWorker(workerCtx, WorkerConfig{
				ID:         id,
				Client:     s.client,
				Requests:   s.reqs,
				ThinkTime:  s.cfg.ThinkTime(),
				Iterations: s.cfg.Iterations,
				Limiter:    limiter,
				Queue:      s.queue,
			})
		}()
	}

	// duration_seconds 是整场时长，爬坡包含在内
	total := s.cfg.DurationSeconds

	switch s.cfg.Scenario {
	case types.ScenarioConstant:
		s.logger.Infof("🚀 constant 场景: 立即启动 %d 个并发用户", s.cfg.Users)
		for i := 0; i < s.cfg.Users; i++ {
			spawn()
		}
		sleepCtx(ctx, s.cfg.Duration())

	case types.ScenarioGradual:
		s.logger.Infof("🚀 gradual 场景: %v 内爬坡至 %d 个并发用户", s.cfg.RampUp(), s.cfg.Users)
		s.runRamp(ctx, start, total, spawn, nil)

	case types.ScenarioSpike:
		mid := math.Max(0, (s.cfg.DurationSeconds-2*s.cfg.SpikeDurationSeconds)/2)
		spikeStart := s.cfg.RampUpSeconds + mid
		s.logger.Infof("🚀 spike 场景: 基线 %d 并发，第 %.1fs 突增 %d 并发",
			s.cfg.Users, spikeStart, s.cfg.SpikeUsers)
		spikeFired := false
		s.runRamp(ctx, start, total, spawn, func(elapsed float64) {
			if !spikeFired && elapsed >= spikeStart {
				spikeFired = true
				s.logger.Warnf("⚡ 触发突发峰值: +%d 并发", s.cfg.SpikeUsers)
				for i := 0; i < s.cfg.SpikeUsers; i++ {
					spawn()
				}
			}
		})

	default:
		// 未识别场景降级为空跑
		s.logger.Warnf("⚠️  未识别的负载曲线 %q，空跑 %v", s.cfg.Scenario, s.cfg.Duration())
		sleepCtx(ctx, s.cfg.Duration())
	}

	stop()
	wg.Wait()
	return start, time.Now()
}

// runRamp 爬坡调度循环：按固定间隔轮询，到点逐个补充 worker
// extra 钩子在每轮轮询时回调（spike 峰值注入用）
func (s *Scheduler) runRamp(ctx context.Context, start time.Time, totalSeconds float64, spawn func(), extra func(elapsed float64)) {
	interval := 0.0
	if s.cfg.Users > 0 {
		interval = s.cfg.RampUpSeconds / float64(s.cfg.Users)
	}

	started := 0
	ticker := time.NewTicker(rampPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		elapsed := time.Since(start).Seconds()
		for started < s.cfg.Users && elapsed >= float64(started)*interval {
			spawn()
			started++
		}
		if extra != nil {
			extra(elapsed)
		}
		if elapsed >= totalSeconds {
			return
		}
	}
}

// sleepCtx 可被取消的睡眠
func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}

// RunScenario 便捷入口：自建共享客户端并执行完整负载曲线
// 返回起止时刻与启动的 worker 数（哨兵预期值）
func RunScenario(ctx context.Context, cfg *types.RunConfig, requests []*types.ParsedRequest,
	queue chan<- *types.RequestResult, log logger.ILogger) (start, end time.Time, workers int) {
	client := NewHTTPClient(cfg.Timeout(), nil)
	defer client.CloseIdleConnections()

	s := NewScheduler(SchedulerConfig{
		Config:   cfg,
		Requests: requests,
		Queue:    queue,
		Client:   client,
		Logger:   log,
	})
	start, end = s.Run(ctx)
	return start, end, s.WorkersSpawned()
}
