/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\stress_test.go
 * @Description: 压力测试阶段指标与拐点检测测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stressResult(success bool, status int, d time.Duration, errText string, ts time.Time) *types.RequestResult {
	return &types.RequestResult{
		RequestName: "压测接口",
		Method:      "GET",
		URL:         "http://example.local/api",
		StatusCode:  status,
		Duration:    d,
		Success:     success,
		Error:       errText,
		Timestamp:   ts,
	}
}

// 测试超时统计 - 无状态码或错误含 timeout 才算
func TestTimeoutCount(t *testing.T) {
	now := time.Now()
	results := []*types.RequestResult{
		stressResult(true, 200, 10*time.Millisecond, "", now),
		stressResult(false, 500, 10*time.Millisecond, "", now),                            // 有状态码且非 timeout，不算
		stressResult(false, 0, time.Second, "Get \"x\": context deadline exceeded", now),  // 无状态码，算
		stressResult(false, 0, time.Second, "net/http: TIMEOUT awaiting headers", now),    // 大小写不敏感
		stressResult(false, 504, time.Second, "upstream timeout", now),                    // 有状态码但文本含 timeout，算
		nil,
	}

	assert.Equal(t, 3, timeoutCount(results))
}

// 测试阶段指标 - P95 击穿优先于其他阈值
func TestPhaseMetrics_P95Breach(t *testing.T) {
	cfg := types.DefaultStressConfig()
	cfg.SLAP95Ms = 50

	start := time.Now()
	end := start.Add(10 * time.Second)
	var results []*types.RequestResult
	for i := 0; i < 100; i++ {
		results = append(results, stressResult(true, 200, 100*time.Millisecond, "", start.Add(time.Second)))
	}

	pm := phaseMetrics(results, start, end, 2, 15, 10*time.Second, cfg)
	assert.True(t, pm.ThresholdExceeded)
	assert.Contains(t, pm.ExceededReason, "P95")
	assert.Equal(t, 2, pm.Phase)
	assert.Equal(t, 15, pm.Users)
	assert.Equal(t, uint64(100), pm.TotalRequests)
}

// 测试阶段指标 - 错误率击穿
func TestPhaseMetrics_ErrorRateBreach(t *testing.T) {
	cfg := types.DefaultStressConfig()
	cfg.SLAP95Ms = 10000
	cfg.SLAP99Ms = 10000
	cfg.SLAErrorRatePct = 5

	start := time.Now()
	end := start.Add(5 * time.Second)
	var results []*types.RequestResult
	for i := 0; i < 90; i++ {
		results = append(results, stressResult(true, 200, 5*time.Millisecond, "", start.Add(time.Second)))
	}
	for i := 0; i < 10; i++ {
		results = append(results, stressResult(false, 500, 5*time.Millisecond, "", start.Add(time.Second)))
	}

	pm := phaseMetrics(results, start, end, 0, 5, 5*time.Second, cfg)
	assert.True(t, pm.ThresholdExceeded)
	assert.Contains(t, pm.ExceededReason, "Error rate")
	assert.InDelta(t, 10.0, pm.ErrorRatePct, 0.01)
}

// 测试阶段指标 - 全部达标时不击穿
func TestPhaseMetrics_WithinSLA(t *testing.T) {
	cfg := types.DefaultStressConfig()

	start := time.Now()
	end := start.Add(5 * time.Second)
	var results []*types.RequestResult
	for i := 0; i < 50; i++ {
		results = append(results, stressResult(true, 200, 20*time.Millisecond, "", start.Add(time.Second)))
	}

	pm := phaseMetrics(results, start, end, 1, 10, 5*time.Second, cfg)
	assert.False(t, pm.ThresholdExceeded)
	assert.Empty(t, pm.ExceededReason)
	assert.InDelta(t, 10.0, pm.TPS, 0.01) // 50 请求 / 5 秒窗口
}

// 测试非线性检测 - 斜率翻倍即命中
func TestDetectNonlinearLatency(t *testing.T) {
	phases := []types.StressPhaseResult{
		{Users: 5, P95Ms: 10},
		{Users: 10, P95Ms: 20},  // 斜率 10
		{Users: 15, P95Ms: 100}, // 斜率 80 > 2×10
		{Users: 20, P95Ms: 500},
	}
	assert.Equal(t, 15, detectNonlinearLatency(phases))
}

// 测试非线性检测 - 线性增长不误报
func TestDetectNonlinearLatency_Linear(t *testing.T) {
	phases := []types.StressPhaseResult{
		{Users: 5, P95Ms: 10},
		{Users: 10, P95Ms: 20},
		{Users: 15, P95Ms: 30},
		{Users: 20, P95Ms: 40},
	}
	assert.Equal(t, 0, detectNonlinearLatency(phases))
}

// 测试非线性检测 - 前段斜率为 0 或负时跳过
func TestDetectNonlinearLatency_FlatPrev(t *testing.T) {
	phases := []types.StressPhaseResult{
		{Users: 5, P95Ms: 50},
		{Users: 10, P95Ms: 50}, // 斜率 0
		{Users: 15, P95Ms: 200},
	}
	assert.Equal(t, 0, detectNonlinearLatency(phases))
}

// 测试非线性检测 - 不足 3 个阶段直接 0
func TestDetectNonlinearLatency_TooFewPhases(t *testing.T) {
	phases := []types.StressPhaseResult{
		{Users: 5, P95Ms: 10},
		{Users: 10, P95Ms: 1000},
	}
	assert.Equal(t, 0, detectNonlinearLatency(phases))
}

// 测试首次出错定位
func TestFirstErrorUsers(t *testing.T) {
	phases := []types.StressPhaseResult{
		{Users: 5, ErrorRatePct: 0},
		{Users: 10, ErrorRatePct: 0.5},
		{Users: 15, ErrorRatePct: 8},
	}
	assert.Equal(t, 10, firstErrorUsers(phases))
	assert.Equal(t, 0, firstErrorUsers(phases[:1]))
}

// 测试压力测试 - spike_stress 单阶段且达标时峰值即为可持续并发
func TestStressRunner_SpikeWithinSLA(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	cfg := types.DefaultStressConfig()
	cfg.Scenario = types.StressSpike
	cfg.SpikeUsers = 2
	cfg.SpikeHoldSeconds = 0.5
	cfg.SLAP95Ms = 10000
	cfg.SLAP99Ms = 10000
	cfg.SLAErrorRatePct = 100
	cfg.SLATimeoutRatePct = 100

	runner := NewStressRunner(StressRunnerConfig{
		Config:         cfg,
		Requests:       []*types.ParsedRequest{{Name: "峰值", Method: "GET", URL: server.URL}},
		CollectionName: "峰值集合",
		Logger:         logger.Default,
	})

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	defer outcome.Collector.Close()

	result := outcome.Result
	require.Len(t, result.Phases, 1)
	assert.Equal(t, "spike", result.Phases[0].Label)
	assert.Equal(t, 2, result.MaxSustainableUsers)
	assert.Equal(t, 0, result.BreakingPointUsers)
	assert.Greater(t, result.Phases[0].TotalRequests, uint64(0))
	assert.Equal(t, "峰值集合", result.CollectionName)
}

// 测试压力测试 - 首阶段击穿时可持续并发为 0
func TestStressRunner_FirstPhaseBreach(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := types.DefaultStressConfig()
	cfg.InitialUsers = 2
	cfg.StepUsers = 2
	cfg.StepIntervalSeconds = 0.5
	cfg.MaxUsers = 10
	cfg.SLAP95Ms = 10000
	cfg.SLAP99Ms = 10000
	cfg.SLAErrorRatePct = 1 // 全 500 必击穿

	runner := NewStressRunner(StressRunnerConfig{
		Config:   cfg,
		Requests: []*types.ParsedRequest{{Name: "必挂", Method: "GET", URL: server.URL}},
		Logger:   logger.Default,
	})

	outcome, err := runner.Run(context.Background())
	require.NoError(t, err)
	defer outcome.Collector.Close()

	result := outcome.Result
	require.Len(t, result.Phases, 1)
	assert.True(t, result.Phases[0].ThresholdExceeded)
	assert.Equal(t, 2, result.BreakingPointUsers)
	assert.Equal(t, 0, result.MaxSustainableUsers)
	assert.Equal(t, 2, result.FirstErrorAtUsers)
	assert.Equal(t, 2, outcome.ReportConfig.Users) // 回退到拐点并发
}

// 测试压力测试 - 空请求列表报错
func TestStressRunner_NoRequests(t *testing.T) {
	runner := NewStressRunner(StressRunnerConfig{
		Config: types.DefaultStressConfig(),
		Logger: logger.Default,
	})
	_, err := runner.Run(context.Background())
	assert.Error(t, err)
}
