/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-24 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\progress.go
 * @Description: 实时进度展示 - 每秒输出缓存聚合指标与系统资源
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/statistics"
	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// 进度刷新读取聚合指标的缓存 TTL
const progressCacheTTL = 500 * time.Millisecond

// ProgressTracker 实时进度跟踪器
// 只读 CachedAggregate 与 ComputeActiveUsers 两个查询，保证热路径开销可控
type ProgressTracker struct {
	collector *statistics.Collector
	config    *types.RunConfig
	startTime time.Time
	logger    logger.ILogger

	headerPrinted bool
}

// NewProgressTracker 创建进度跟踪器
func NewProgressTracker(collector *statistics.Collector, cfg *types.RunConfig, log logger.ILogger) *ProgressTracker {
	if log == nil {
		log = logger.Default
	}
	return &ProgressTracker{
		collector: collector,
		config:    cfg,
		logger:    log,
	}
}

// Start 启动每秒刷新循环，阻塞到 ctx 取消
func (pt *ProgressTracker) Start(ctx context.Context) {
	pt.startTime = time.Now()
	syncx.NewEventLoop(ctx).OnTicker(time.Second, func() {
		pt.printRow()
	}).Run()
}

// printRow 输出一行进度
func (pt *ProgressTracker) printRow() {
	if !pt.headerPrinted {
		pt.headerPrinted = true
		pt.logger.Info("┌──────────┬──────────┬──────────┬──────────┬──────────┬──────────┬──────────┬──────────┐")
		pt.logger.Info("│   耗时   │ 预期并发 │  总请求  │   TPS    │  平均ms  │  P95ms   │  错误率  │ CPU/内存 │")
		pt.logger.Info("├──────────┼──────────┼──────────┼──────────┼──────────┼──────────┼──────────┼──────────┤")
	}

	elapsed := time.Since(pt.startTime)
	agg := pt.collector.CachedAggregate(progressCacheTTL)
	expected := ComputeActiveUsers(pt.config, elapsed.Seconds())

	cpuPct, memPct := systemUsage()
	pt.logger.Infof("│ %8s │ %8d │ %8d │ %8.1f │ %8.1f │ %8.1f │ %7.2f%% │ %3.0f%%/%2.0f%% │",
		formatElapsed(elapsed), expected, agg.TotalRequests, agg.TPS,
		agg.AvgResponseTimeMs, agg.P95Ms, agg.ErrorRatePct, cpuPct, memPct)
}

// Complete 收尾输出
func (pt *ProgressTracker) Complete() {
	if pt.headerPrinted {
		pt.logger.Info("└──────────┴──────────┴──────────┴──────────┴──────────┴──────────┴──────────┴──────────┘")
	}
	pt.logger.Info("🎉 发压结束，正在汇总统计...")
}

// systemUsage 读取 CPU 与内存占用百分比，读取失败时返回 0
func systemUsage() (cpuPct, memPct float64) {
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		cpuPct = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		memPct = vm.UsedPercent
	}
	return cpuPct, memPct
}

func formatElapsed(d time.Duration) string {
	return d.Truncate(time.Second).String()
}
