/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 11:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\statistics.go
 * @Description: 统计结果类型 - 聚合指标、时间序列、压力测试结果
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

// ErrorCount 错误消息及出现次数
type ErrorCount struct {
	Message string `json:"message"`
	Count   uint64 `json:"count"`
}

// AggregateMetrics 聚合统计指标
type AggregateMetrics struct {
	TotalRequests      uint64            `json:"total_requests"`
	SuccessfulRequests uint64            `json:"successful_requests"`
	FailedRequests     uint64            `json:"failed_requests"`
	DurationSeconds    float64           `json:"duration_seconds"`     // 统计窗口时长
	TPS                float64           `json:"tps"`                  // 每秒事务数
	AvgResponseTimeMs  float64           `json:"avg_response_time_ms"` // 平均响应时间
	MinResponseTimeMs  float64           `json:"min_response_time_ms"`
	MaxResponseTimeMs  float64           `json:"max_response_time_ms"`
	P50Ms              float64           `json:"p50_ms"`
	P95Ms              float64           `json:"p95_ms"`
	P99Ms              float64           `json:"p99_ms"`
	ErrorRatePct       float64           `json:"error_rate_pct"`
	ApdexScore         float64           `json:"apdex_score"`
	TotalBytes         uint64            `json:"total_bytes"` // 响应体总字节数
	StatusCodeCounts   map[string]uint64 `json:"status_code_counts"` // 状态码分布，无状态码记为 "Error"
	TopErrors          []ErrorCount      `json:"top_errors"`         // 按次数降序的前 5 类错误
	ResponseTimesMs    []float64         `json:"-"`                  // 原始响应时间（仅按需填充）
}

// SuccessRatePct 成功率百分比，无请求时视为 100
func (m *AggregateMetrics) SuccessRatePct() float64 {
	if m.TotalRequests == 0 {
		return 100.0
	}
	return float64(m.SuccessfulRequests) / float64(m.TotalRequests) * 100.0
}

// TimeSeriesPoint 按秒聚合的时间序列采样点
type TimeSeriesPoint struct {
	OffsetSeconds int     `json:"offset_seconds"` // 相对起始时刻的秒偏移
	Requests      int     `json:"requests"`       // 该秒内完成的请求数
	TPS           float64 `json:"tps"`
	AvgMs         float64 `json:"avg_ms"`
	P95Ms         float64 `json:"p95_ms"`
	ErrorRatePct  float64 `json:"error_rate_pct"`
}

// StressPhaseResult 单个压力阶段的结果
type StressPhaseResult struct {
	Phase              int     `json:"phase"` // 阶段序号（从 0 开始）
	Label              string  `json:"label"`
	Users              int     `json:"users"`
	DurationSeconds    float64 `json:"duration_seconds"`
	TotalRequests      uint64  `json:"total_requests"`
	SuccessfulRequests uint64  `json:"successful_requests"`
	FailedRequests     uint64  `json:"failed_requests"`
	TPS                float64 `json:"tps"`
	AvgResponseTimeMs  float64 `json:"avg_response_time_ms"`
	P50Ms              float64 `json:"p50_ms"`
	P95Ms              float64 `json:"p95_ms"`
	P99Ms              float64 `json:"p99_ms"`
	ErrorRatePct       float64 `json:"error_rate_pct"`
	TimeoutCount       int     `json:"timeout_count"`
	TimeoutRatePct     float64 `json:"timeout_rate_pct"`
	ThresholdExceeded  bool    `json:"threshold_exceeded"`
	ExceededReason     string  `json:"exceeded_reason"`
}

// StressTestResult 压力测试整体结果
// 各 *AtUsers 字段为 0 表示未检测到对应拐点
type StressTestResult struct {
	Scenario                string              `json:"scenario"`
	CollectionName          string              `json:"collection_name"`
	StartTime               string              `json:"start_time"` // RFC3339
	EndTime                 string              `json:"end_time"`
	Phases                  []StressPhaseResult `json:"phases"`
	MaxSustainableUsers     int                 `json:"max_sustainable_users"`     // 最后一个未超阈阶段的并发
	BreakingPointUsers      int                 `json:"breaking_point_users"`      // 首个超阈阶段的并发
	FirstErrorAtUsers       int                 `json:"first_error_at_users"`      // 首次出现失败请求的并发
	NonlinearLatencyAtUsers int                 `json:"nonlinear_latency_at_users"` // 延迟非线性拐点并发
	RecoverySeconds         float64             `json:"recovery_seconds"`          // 恢复耗时（当前未测量，恒为 0）
}
