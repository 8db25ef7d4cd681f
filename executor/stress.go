/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-24 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\stress.go
 * @Description: 压力测试 - 分阶段加压直至 SLA 击穿，拐点检测
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/statistics"
	"github.com/kamalyes/go-deli/types"
	"golang.org/x/sync/semaphore"
)

const (
	phaseQueueSize         = 20000
	phaseCollectorCapacity = 50000
	phaseConsumerTimeout   = 15 * time.Second
	phaseDrainSleep        = 200 * time.Millisecond
	phaseDrainIterations   = 3

	// P95 斜率超过前一段 2 倍视为非线性劣化
	nonlinearSlopeThreshold = 2.0
)

// StressRunnerConfig 压力测试运行参数
type StressRunnerConfig struct {
	Config         *types.StressConfig
	Requests       []*types.ParsedRequest
	CollectionName string
	Logger         logger.ILogger
}

// StressOutcome 压力测试产出：结果 + 汇总收集器 + 报告用推导配置
type StressOutcome struct {
	Result       *types.StressTestResult
	Collector    *statistics.Collector // 全阶段累计明细
	ReportConfig *types.RunConfig      // 报告层沿用负载测试口径
	StartTime    time.Time
	EndTime      time.Time
}

// StressRunner 分阶段压力测试控制器
type StressRunner struct {
	cfg        *types.StressConfig
	reqs       []*types.ParsedRequest
	collection string
	logger     logger.ILogger
}

// NewStressRunner 创建压力测试控制器
func NewStressRunner(sc StressRunnerConfig) *StressRunner {
	log := sc.Logger
	if log == nil {
		log = logger.Default
	}
	return &StressRunner{
		cfg:        sc.Config,
		reqs:       sc.Requests,
		collection: sc.CollectionName,
		logger:     log,
	}
}

// Run 执行压力测试状态机
// spike_stress 只跑一个峰值阶段；soak_stress 先浸泡再进入线性加压；
// linear_overload 逐阶段加压，首次击穿 SLA 或达到 max_users 时停止
func (r *StressRunner) Run(ctx context.Context) (*StressOutcome, error) {
	if len(r.reqs) == 0 {
		return nil, types.NewRunnerError("压力测试没有可执行的请求")
	}

	r.logger.Infof("🔥 压力测试开始: 集合=%s 场景=%s 起始并发=%d 上限=%d",
		r.collection, r.cfg.Scenario, r.cfg.InitialUsers, r.cfg.MaxUsers)

	testStart := time.Now()
	total := statistics.NewMemoryCollector(0, r.logger)

	var phases []types.StressPhaseResult
	maxSustainable := r.cfg.InitialUsers
	breakingPoint := 0
	currentUsers := r.cfg.InitialUsers

	// runAndRecord 跑一个阶段并归档结果，返回阶段指标
	runAndRecord := func(users int, duration time.Duration, label string) types.StressPhaseResult {
		r.logger.Infof("📶 阶段 %d (%s): %d 并发，%v", len(phases), label, users, duration)
		collector, start, end := r.runPhase(ctx, users, duration)

		results := collector.Results()
		total.AddBatch(results)
		total.SetEndTime(end)
		collector.Close()

		pr := phaseMetrics(results, start, end, len(phases), users, duration, r.cfg)
		pr.Label = label
		if pr.ThresholdExceeded {
			r.logger.Warnf("💥 阈值击穿: %s", pr.ExceededReason)
		}
		return pr
	}

	switch {
	case r.cfg.Scenario == types.StressSpike && r.cfg.SpikeUsers > 0:
		// 单个峰值阶段，不再续跑线性加压
		pr := runAndRecord(r.cfg.SpikeUsers, r.cfg.SpikeHold(), "spike")
		phases = append(phases, pr)
		if pr.ThresholdExceeded {
			breakingPoint = r.cfg.SpikeUsers
			maxSustainable = 0
		} else {
			maxSustainable = r.cfg.SpikeUsers
		}
		currentUsers = r.cfg.MaxUsers + 1

	case r.cfg.Scenario == types.StressSoak && r.cfg.SoakUsers > 0 && r.cfg.SoakDurationSeconds > 0:
		// 浸泡阶段作为第 0 阶段，通过后从 initial_users 进入线性加压
		pr := runAndRecord(r.cfg.SoakUsers, r.cfg.SoakDuration(), "soak")
		phases = append(phases, pr)
		if pr.ThresholdExceeded {
			breakingPoint = r.cfg.SoakUsers
			maxSustainable = 0
			currentUsers = r.cfg.MaxUsers + 1
		} else {
			maxSustainable = r.cfg.SoakUsers
			currentUsers = r.cfg.InitialUsers
		}
	}

	for currentUsers <= r.cfg.MaxUsers && ctx.Err() == nil {
		phaseIdx := len(phases)
		pr := runAndRecord(currentUsers, r.cfg.StepInterval(), "ramp")
		phases = append(phases, pr)

		if pr.ThresholdExceeded {
			breakingPoint = currentUsers
			if phaseIdx > 0 {
				maxSustainable = int(math.Max(0, float64(currentUsers-r.cfg.StepUsers)))
			} else {
				maxSustainable = 0
			}
			break
		}

		maxSustainable = currentUsers
		currentUsers += r.cfg.StepUsers
	}

	testEnd := time.Now()
	result := &types.StressTestResult{
		Scenario:                string(r.cfg.Scenario),
		CollectionName:          r.collection,
		StartTime:               testStart.UTC().Format(time.RFC3339),
		EndTime:                 testEnd.UTC().Format(time.RFC3339),
		Phases:                  phases,
		MaxSustainableUsers:     maxSustainable,
		BreakingPointUsers:      breakingPoint,
		FirstErrorAtUsers:       firstErrorUsers(phases),
		NonlinearLatencyAtUsers: detectNonlinearLatency(phases),
		RecoverySeconds:         0, // 当前设计不测量恢复时间
	}

	r.logger.Infof("🏁 压力测试结束: 最大可持续并发=%d 拐点并发=%d",
		result.MaxSustainableUsers, result.BreakingPointUsers)

	// 报告层沿用负载测试口径的推导配置
	reportUsers := maxSustainable
	if reportUsers <= 0 {
		reportUsers = breakingPoint
	}
	if reportUsers <= 0 {
		reportUsers = r.cfg.InitialUsers
	}
	reportCfg := &types.RunConfig{
		Users:           reportUsers,
		DurationSeconds: math.Round(testEnd.Sub(testStart).Seconds()*10) / 10,
		ThinkTimeMs:     r.cfg.ThinkTimeMs,
		Scenario:        types.ScenarioConstant,
		SLAP95Ms:        &r.cfg.SLAP95Ms,
		SLAP99Ms:        &r.cfg.SLAP99Ms,
		SLAErrorRatePct: &r.cfg.SLAErrorRatePct,
	}

	return &StressOutcome{
		Result:       result,
		Collector:    total,
		ReportConfig: reportCfg,
		StartTime:    testStart,
		EndTime:      testEnd,
	}, nil
}

// runPhase 跑一个固定并发阶段，返回该阶段的收集器与起止时刻
// 阶段终点固定为 start+duration，聚合窗口与之对齐
func (r *StressRunner) runPhase(ctx context.Context, users int, duration time.Duration) (*statistics.Collector, time.Time, time.Time) {
	queue := make(chan *types.RequestResult, phaseQueueSize)
	collector := statistics.NewMemoryCollector(phaseCollectorCapacity, r.logger)
	consumer := NewConsumer(queue, collector, r.logger)
	consumer.Start()

	client := NewHTTPClient(r.cfg.Timeout(), nil)
	defer client.CloseIdleConnections()

	workerCtx, stop := context.WithCancel(ctx)
	limiter := semaphore.NewWeighted(int64(InFlightLimit(users)))

	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < users; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			RunWorker(workerCtx, WorkerConfig{
				ID:        id,
				Client:    client,
				Requests:  r.reqs,
				ThinkTime: r.cfg.ThinkTime(),
				Limiter:   limiter,
				Queue:     queue,
			})
		}(i)
	}

	sleepCtx(ctx, duration)
	stop()
	wg.Wait()

	end := start.Add(duration)
	collector.SetEndTime(end)

	consumer.Finish(users)
	if err := consumer.Wait(phaseConsumerTimeout); err != nil {
		r.logger.Warnf("⚠️  %v", err)
	}

	// 消费循环退出后可能仍有残留结果，兜底汲取
	for i := 0; i < phaseDrainIterations; i++ {
		time.Sleep(phaseDrainSleep)
		drainQueue(queue, collector)
	}
	return collector, start, end
}

// drainQueue 非阻塞汲取队列残余结果
func drainQueue(queue <-chan *types.RequestResult, collector *statistics.Collector) {
	var batch []*types.RequestResult
	for {
		select {
		case item := <-queue:
			if item != nil {
				batch = append(batch, item)
			}
		default:
			if len(batch) > 0 {
				collector.AddBatch(batch)
			}
			return
		}
	}
}

// phaseMetrics 由阶段结果集构建阶段指标并做 SLA 判定
// 判定优先级: P95 → P99 → 错误率 → 超时率，首个命中即为击穿原因
func phaseMetrics(results []*types.RequestResult, start, end time.Time,
	phase, users int, duration time.Duration, cfg *types.StressConfig) types.StressPhaseResult {

	agg := statistics.ComputeAggregate(results, start, end, false)
	timeouts := timeoutCount(results)
	timeoutRate := 0.0
	if agg.TotalRequests > 0 {
		timeoutRate = 100.0 * float64(timeouts) / float64(agg.TotalRequests)
	}

	exceeded := false
	reason := ""
	switch {
	case agg.P95Ms > cfg.SLAP95Ms:
		exceeded = true
		reason = fmt.Sprintf("P95 %.1fms > SLA %gms", agg.P95Ms, cfg.SLAP95Ms)
	case agg.P99Ms > cfg.SLAP99Ms:
		exceeded = true
		reason = fmt.Sprintf("P99 %.1fms > SLA %gms", agg.P99Ms, cfg.SLAP99Ms)
	case agg.ErrorRatePct > cfg.SLAErrorRatePct:
		exceeded = true
		reason = fmt.Sprintf("Error rate %.2f%% > SLA %g%%", agg.ErrorRatePct, cfg.SLAErrorRatePct)
	case timeoutRate > cfg.SLATimeoutRatePct:
		exceeded = true
		reason = fmt.Sprintf("Timeout rate %.2f%% > SLA %g%%", timeoutRate, cfg.SLATimeoutRatePct)
	}

	return types.StressPhaseResult{
		Phase:              phase,
		Users:              users,
		DurationSeconds:    duration.Seconds(),
		TotalRequests:      agg.TotalRequests,
		SuccessfulRequests: agg.SuccessfulRequests,
		FailedRequests:     agg.FailedRequests,
		TPS:                round2(agg.TPS),
		AvgResponseTimeMs:  round2(agg.AvgResponseTimeMs),
		P50Ms:              round2(agg.P50Ms),
		P95Ms:              round2(agg.P95Ms),
		P99Ms:              round2(agg.P99Ms),
		ErrorRatePct:       round2(agg.ErrorRatePct),
		TimeoutCount:       timeouts,
		TimeoutRatePct:     round2(timeoutRate),
		ThresholdExceeded:  exceeded,
		ExceededReason:     reason,
	}
}

// timeoutCount 统计超时请求数
// 判定口径: 失败且（无状态码 或 错误文本含 "timeout"，不区分大小写）
func timeoutCount(results []*types.RequestResult) int {
	count := 0
	for _, r := range results {
		if r == nil || r.Success {
			continue
		}
		if !r.HasStatus() || strings.Contains(strings.ToLower(r.Error), "timeout") {
			count++
		}
	}
	return count
}

// detectNonlinearLatency 检测 P95 非线性劣化起点
// 某阶段斜率超过前一段斜率 2 倍时返回该阶段并发数，首个命中生效
func detectNonlinearLatency(phases []types.StressPhaseResult) int {
	if len(phases) < 3 {
		return 0
	}
	for i := 2; i < len(phases); i++ {
		slopePrev := phases[i-1].P95Ms - phases[i-2].P95Ms
		slopeCurr := phases[i].P95Ms - phases[i-1].P95Ms
		if slopePrev > 0 && slopeCurr > nonlinearSlopeThreshold*slopePrev {
			return phases[i].Users
		}
	}
	return 0
}

// firstErrorUsers 首个出现错误的阶段并发数
func firstErrorUsers(phases []types.StressPhaseResult) int {
	for _, p := range phases {
		if p.ErrorRatePct > 0 {
			return p.Users
		}
	}
	return 0
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
