/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-24 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\runner.go
 * @Description: 负载测试编排 - 队列、消费者、调度器、报告串联
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/statistics"
	"github.com/kamalyes/go-deli/storage"
	"github.com/kamalyes/go-deli/types"
)

const (
	resultQueueSize      = 50000
	consumerWaitTimeout  = 30 * time.Second
	runnerDrainSleep     = 200 * time.Millisecond
	runnerDrainIntervals = 3
)

// RunOptions 负载测试运行参数
type RunOptions struct {
	Config         *types.RunConfig
	Requests       []*types.ParsedRequest
	CollectionName string

	ReportPath string // HTML 报告路径，空跳过
	JUnitPath  string // JUnit 报告路径，空跳过
	JSONPath   string // JSON 报告路径，空跳过

	StorageMode     types.StorageMode // 明细存储模式，默认 memory
	StoragePath     string            // sqlite 模式的库文件路径
	StorageCapacity int               // memory 模式容量，0 使用默认

	ShowProgress bool
	Logger       logger.ILogger
}

// RunLoadTest 执行完整负载测试并产出报告
// 返回最终报告元信息；SLA 违规不作为错误返回，由调用方检查 meta.SLAViolations
func RunLoadTest(ctx context.Context, opts RunOptions) (*statistics.ReportMeta, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}
	if len(opts.Requests) == 0 {
		return nil, types.NewRunnerError("没有可执行的请求")
	}

	store, err := storage.NewFactory(log).Create(&storage.Config{
		Mode:     opts.StorageMode,
		Path:     opts.StoragePath,
		Capacity: opts.StorageCapacity,
	})
	if err != nil {
		return nil, types.WrapRunnerError(err, "初始化明细存储失败")
	}
	collector := statistics.NewCollector(store, log)
	defer collector.Close()

	queue := make(chan *types.RequestResult, resultQueueSize)
	consumer := NewConsumer(queue, collector, log)
	consumer.Start()

	client := NewHTTPClient(opts.Config.Timeout(), nil)
	defer client.CloseIdleConnections()

	scheduler := NewScheduler(SchedulerConfig{
		Config:   opts.Config,
		Requests: opts.Requests,
		Queue:    queue,
		Client:   client,
		Logger:   log,
	})

	var tracker *ProgressTracker
	progressCtx, stopProgress := context.WithCancel(context.Background())
	if opts.ShowProgress {
		tracker = NewProgressTracker(collector, opts.Config, log)
		go tracker.Start(progressCtx)
	}

	testStart := time.Now()
	log.Infof("🚦 开始负载测试: 集合=%s 并发=%d 时长=%v 曲线=%s",
		opts.CollectionName, opts.Config.Users, opts.Config.Duration(), opts.Config.Scenario)

	_, end := scheduler.Run(ctx)
	collector.SetEndTime(end)

	stopProgress()
	if tracker != nil {
		tracker.Complete()
	}

	consumer.Finish(scheduler.WorkersSpawned())
	if err := consumer.Wait(consumerWaitTimeout); err != nil {
		log.Warnf("⚠️  %v", err)
	}
	for i := 0; i < runnerDrainIntervals; i++ {
		time.Sleep(runnerDrainSleep)
		drainQueue(queue, collector)
	}

	if ctx.Err() != nil {
		log.Warn("⚠️  收到中断信号，基于已完成请求生成报告")
	}

	meta := &statistics.ReportMeta{
		RunID:          uuid.NewString(),
		CollectionName: opts.CollectionName,
		Scenario:       string(opts.Config.Scenario),
		StartTime:      testStart,
		EndTime:        time.Now(),
		Config:         opts.Config,
		SLAViolations:  statistics.CheckSLA(collector.FullAggregate(false), opts.Config),
	}

	statistics.PrintSummary(log, collector, meta)
	writeReports(log, collector, meta, opts.ReportPath, opts.JUnitPath, opts.JSONPath)
	return meta, nil
}

// RunStressTest 执行压力测试并产出报告
func RunStressTest(ctx context.Context, opts RunOptions, stressCfg *types.StressConfig) (*types.StressTestResult, error) {
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	runner := NewStressRunner(StressRunnerConfig{
		Config:         stressCfg,
		Requests:       opts.Requests,
		CollectionName: opts.CollectionName,
		Logger:         log,
	})
	outcome, err := runner.Run(ctx)
	if err != nil {
		return nil, err
	}
	defer outcome.Collector.Close()

	statistics.PrintStressSummary(log, outcome.Result)

	meta := &statistics.ReportMeta{
		RunID:          uuid.NewString(),
		CollectionName: opts.CollectionName,
		Scenario:       string(stressCfg.Scenario),
		StartTime:      outcome.StartTime,
		EndTime:        outcome.EndTime,
		Config:         outcome.ReportConfig,
		SLAViolations:  statistics.CheckSLA(outcome.Collector.FullAggregate(false), outcome.ReportConfig),
		Stress:         outcome.Result,
	}
	writeReports(log, outcome.Collector, meta, opts.ReportPath, opts.JUnitPath, opts.JSONPath)
	return outcome.Result, nil
}

// writeReports 按需落盘各格式报告，单个失败不阻断其余
func writeReports(log logger.ILogger, c *statistics.Collector, meta *statistics.ReportMeta,
	htmlPath, junitPath, jsonPath string) {
	if htmlPath != "" {
		if err := statistics.WriteHTMLReport(htmlPath, c, meta); err != nil {
			log.Errorf("❌ 生成 HTML 报告失败: %v", err)
		} else {
			log.Infof("📄 HTML 报告: %s", htmlPath)
		}
	}
	if junitPath != "" {
		if err := statistics.WriteJUnitReport(junitPath, c, meta); err != nil {
			log.Errorf("❌ 生成 JUnit 报告失败: %v", err)
		} else {
			log.Infof("📄 JUnit 报告: %s", junitPath)
		}
	}
	if jsonPath != "" {
		if err := statistics.WriteJSONReport(jsonPath, c, meta); err != nil {
			log.Errorf("❌ 生成 JSON 报告失败: %v", err)
		} else {
			log.Infof("📄 JSON 报告: %s", jsonPath)
		}
	}
}

// NewSignalContext 包装一个随 SIGINT/SIGTERM 取消的 context
// 第二次信号直接退出进程
func NewSignalContext(parent context.Context, log logger.ILogger) (context.Context, context.CancelFunc) {
	if log == nil {
		log = logger.Default
	}
	ctx, cancel := context.WithCancel(parent)

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			log.Warnf("⚠️  收到信号 %v，优雅停止中（再次发送立即退出）", sig)
			cancel()
			<-sigCh
			log.Error("❌ 收到第二次信号，立即退出")
			os.Exit(1)
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
