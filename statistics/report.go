/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 14:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\report.go
 * @Description: 统计报告 - 控制台汇总输出
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"fmt"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/units"
)

// ReportMeta 报告元信息
type ReportMeta struct {
	RunID          string                  // 本次运行的唯一标识
	CollectionName string                  // 集合名
	Scenario       string                  // 负载曲线/压力场景
	StartTime      time.Time               // 运行起点
	EndTime        time.Time               // 运行终点
	Config         *types.RunConfig        // 负载配置（压力测试时为推导配置）
	SLAViolations  []string                // SLA 违规描述
	Stress         *types.StressTestResult // 压力测试结果（普通负载测试为 nil）
}

// PrintSummary 打印压测统计汇总
func PrintSummary(log logger.ILogger, c *Collector, meta *ReportMeta) {
	if log == nil {
		log = logger.Default
	}
	agg := c.FullAggregate(false)

	log.Info("")
	log.Infof("📊 压测统计报告 [%s]", meta.CollectionName)
	log.Info("")

	reportData := []map[string]interface{}{
		{
			"分类": "📈 基础统计", "指标": "总请求数", "值": fmt.Sprintf("%d", agg.TotalRequests),
			"分类2": "⏱️  响应时间", "指标2": "平均耗时", "值2": fmt.Sprintf("%.1fms", agg.AvgResponseTimeMs),
		},
		{
			"分类": "📈 基础统计", "指标": "成功请求", "值": fmt.Sprintf("%d", agg.SuccessfulRequests),
			"分类2": "⏱️  响应时间", "指标2": "P50", "值2": fmt.Sprintf("%.1fms", agg.P50Ms),
		},
		{
			"分类": "📈 基础统计", "指标": "失败请求", "值": fmt.Sprintf("%d", agg.FailedRequests),
			"分类2": "⏱️  响应时间", "指标2": "P95", "值2": fmt.Sprintf("%.1fms", agg.P95Ms),
		},
		{
			"分类": "📈 基础统计", "指标": "成功率", "值": fmt.Sprintf("%.2f%%", agg.SuccessRatePct()),
			"分类2": "⏱️  响应时间", "指标2": "P99", "值2": fmt.Sprintf("%.1fms", agg.P99Ms),
		},
		{
			"分类": "⚡ 性能指标", "指标": "TPS", "值": fmt.Sprintf("%.2f", agg.TPS),
			"分类2": "🎯 质量指标", "指标2": "Apdex", "值2": fmt.Sprintf("%.3f", agg.ApdexScore),
		},
		{
			"分类": "⚡ 性能指标", "指标": "总耗时", "值": fmt.Sprintf("%.1fs", agg.DurationSeconds),
			"分类2": "🎯 质量指标", "指标2": "错误率", "值2": fmt.Sprintf("%.2f%%", agg.ErrorRatePct),
		},
		{
			"分类": "⚡ 性能指标", "指标": "总数据量", "值": units.BytesSize(float64(agg.TotalBytes)),
			"分类2": "🎯 质量指标", "指标2": "负载曲线", "值2": meta.Scenario,
		},
	}
	log.ConsoleTable(reportData)

	printStatusCodes(log, agg)
	printTopErrors(log, agg)
	printEndpoints(log, c)

	if overflow := c.OverflowCount(); overflow > 0 {
		log.Warnf("⚠️  明细缓冲淘汰了 %d 条最早的记录，原始明细不完整（聚合统计不受影响）", overflow)
	}

	if len(meta.SLAViolations) > 0 {
		log.Info("")
		log.Error("❌ SLA 检查未通过:")
		for _, v := range meta.SLAViolations {
			log.Errorf("   - %s", v)
		}
	} else if meta.Config != nil && meta.Config.HasSLA() {
		log.Info("")
		log.Info("✅ SLA 检查通过")
	}
}

// printStatusCodes 打印状态码分布
func printStatusCodes(log logger.ILogger, agg *types.AggregateMetrics) {
	if len(agg.StatusCodeCounts) == 0 {
		return
	}
	log.Info("")
	log.Info("🌐 状态码分布")
	rows := make([]map[string]interface{}, 0, len(agg.StatusCodeCounts))
	for code, count := range agg.StatusCodeCounts {
		rows = append(rows, map[string]interface{}{
			"状态码": code,
			"次数":  fmt.Sprintf("%d", count),
			"占比":  fmt.Sprintf("%.2f%%", float64(count)/float64(agg.TotalRequests)*100),
		})
	}
	log.ConsoleTable(rows)
}

// printTopErrors 打印高频错误
func printTopErrors(log logger.ILogger, agg *types.AggregateMetrics) {
	if len(agg.TopErrors) == 0 {
		return
	}
	log.Info("")
	log.Info("💥 高频错误 TOP5")
	rows := make([]map[string]interface{}, 0, len(agg.TopErrors))
	for i, e := range agg.TopErrors {
		rows = append(rows, map[string]interface{}{
			"排名": fmt.Sprintf("%d", i+1),
			"次数": fmt.Sprintf("%d", e.Count),
			"错误": e.Message,
		})
	}
	log.ConsoleTable(rows)
}

// printEndpoints 打印按端点分组的统计
func printEndpoints(log logger.ILogger, c *Collector) {
	endpoints := c.EndpointAggregates()
	if len(endpoints) <= 1 {
		return
	}
	log.Info("")
	log.Info("🧩 端点统计")
	rows := make([]map[string]interface{}, 0, len(endpoints))
	for name, agg := range endpoints {
		rows = append(rows, map[string]interface{}{
			"端点":  name,
			"请求数": fmt.Sprintf("%d", agg.TotalRequests),
			"TPS": fmt.Sprintf("%.2f", agg.TPS),
			"平均":  fmt.Sprintf("%.1fms", agg.AvgResponseTimeMs),
			"P95": fmt.Sprintf("%.1fms", agg.P95Ms),
			"错误率": fmt.Sprintf("%.2f%%", agg.ErrorRatePct),
		})
	}
	log.ConsoleTable(rows)
}

// PrintStressSummary 打印压力测试结果汇总
func PrintStressSummary(log logger.ILogger, result *types.StressTestResult) {
	if log == nil {
		log = logger.Default
	}
	log.Info("")
	log.Infof("📊 压力测试报告 [%s] 场景: %s", result.CollectionName, result.Scenario)
	log.Info("")

	rows := make([]map[string]interface{}, 0, len(result.Phases))
	for _, p := range result.Phases {
		status := "✅"
		if p.ThresholdExceeded {
			status = "❌"
		}
		rows = append(rows, map[string]interface{}{
			"阶段":  fmt.Sprintf("%d (%s)", p.Phase, p.Label),
			"并发":  fmt.Sprintf("%d", p.Users),
			"请求数": fmt.Sprintf("%d", p.TotalRequests),
			"TPS": fmt.Sprintf("%.2f", p.TPS),
			"P95": fmt.Sprintf("%.1fms", p.P95Ms),
			"P99": fmt.Sprintf("%.1fms", p.P99Ms),
			"错误率": fmt.Sprintf("%.2f%%", p.ErrorRatePct),
			"超时率": fmt.Sprintf("%.2f%%", p.TimeoutRatePct),
			"结果":  status,
		})
	}
	log.ConsoleTable(rows)

	log.Info("")
	if result.MaxSustainableUsers > 0 {
		log.Infof("💪 最大可持续并发: %d", result.MaxSustainableUsers)
	}
	if result.BreakingPointUsers > 0 {
		log.Warnf("💥 系统拐点并发: %d", result.BreakingPointUsers)
	} else {
		log.Info("💪 在测试范围内未达到系统拐点")
	}
	if result.FirstErrorAtUsers > 0 {
		log.Warnf("⚠️  首次出错并发: %d", result.FirstErrorAtUsers)
	}
	if result.NonlinearLatencyAtUsers > 0 {
		log.Warnf("📈 延迟非线性拐点并发: %d", result.NonlinearLatencyAtUsers)
	}
}
