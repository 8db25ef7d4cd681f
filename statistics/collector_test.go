/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 14:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\collector_test.go
 * @Description: 流式统计收集器测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"strings"
	"testing"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeResult(name string, success bool, status int, ms float64, errText string, ts time.Time) *types.RequestResult {
	return &types.RequestResult{
		RequestName: name,
		Method:      "GET",
		URL:         "http://example.local/" + name,
		StatusCode:  status,
		Duration:    time.Duration(ms * float64(time.Millisecond)),
		BytesRead:   100,
		Success:     success,
		Error:       errText,
		Timestamp:   ts,
	}
}

// 测试收集器 - 基础计数与均值
func TestCollector_BasicCounts(t *testing.T) {
	c := NewMemoryCollector(100, logger.Default)
	defer c.Close()

	now := time.Now()
	c.Add(makeResult("a", true, 200, 10, "", now))
	c.Add(makeResult("b", true, 200, 20, "", now.Add(time.Second)))
	c.Add(makeResult("c", false, 500, 30, "", now.Add(2*time.Second)))

	agg := c.FullAggregate(false)
	assert.Equal(t, uint64(3), agg.TotalRequests)
	assert.Equal(t, uint64(2), agg.SuccessfulRequests)
	assert.Equal(t, uint64(1), agg.FailedRequests)
	assert.InDelta(t, 20.0, agg.AvgResponseTimeMs, 0.01)
	assert.InDelta(t, 10.0, agg.MinResponseTimeMs, 0.01)
	assert.InDelta(t, 30.0, agg.MaxResponseTimeMs, 0.01)
	assert.InDelta(t, 33.33, agg.ErrorRatePct, 0.01)
	assert.Equal(t, uint64(300), agg.TotalBytes)
	assert.Equal(t, uint64(3), c.TotalCount())
}

// 测试收集器 - AddBatch 与逐个 Add 统计一致
func TestCollector_AddBatchMatchesAdd(t *testing.T) {
	now := time.Now()
	var results []*types.RequestResult
	for i := 0; i < 20; i++ {
		results = append(results, makeResult("x", i%4 != 0, 200, float64(i+1), "", now.Add(time.Duration(i)*time.Second)))
	}

	one := NewMemoryCollector(100, logger.Default)
	defer one.Close()
	for _, r := range results {
		one.Add(r)
	}

	batch := NewMemoryCollector(100, logger.Default)
	defer batch.Close()
	batch.AddBatch(results)

	aggOne := one.FullAggregate(false)
	aggBatch := batch.FullAggregate(false)
	assert.Equal(t, aggOne.TotalRequests, aggBatch.TotalRequests)
	assert.Equal(t, aggOne.FailedRequests, aggBatch.FailedRequests)
	assert.InDelta(t, aggOne.AvgResponseTimeMs, aggBatch.AvgResponseTimeMs, 0.001)
	assert.InDelta(t, aggOne.P95Ms, aggBatch.P95Ms, 0.001)
	assert.InDelta(t, aggOne.TPS, aggBatch.TPS, 0.001)
}

// 测试收集器 - Apdex 只看成功请求，500ms/2000ms 分档
func TestCollector_Apdex(t *testing.T) {
	c := NewMemoryCollector(100, logger.Default)
	defer c.Close()

	now := time.Now()
	c.Add(makeResult("fast", true, 200, 100, "", now))     // 满意
	c.Add(makeResult("meh", true, 200, 1000, "", now))     // 可容忍
	c.Add(makeResult("slow", true, 200, 3000, "", now))    // 不满意
	c.Add(makeResult("fail", false, 500, 50, "", now))     // 失败不计入满意档

	agg := c.FullAggregate(false)
	// (1 + 0.5) / 4
	assert.InDelta(t, 0.375, agg.ApdexScore, 0.001)
}

// 测试收集器 - 状态码分布，无响应记为 Error
func TestCollector_StatusCodeCounts(t *testing.T) {
	c := NewMemoryCollector(100, logger.Default)
	defer c.Close()

	now := time.Now()
	c.Add(makeResult("a", true, 200, 10, "", now))
	c.Add(makeResult("b", true, 200, 10, "", now))
	c.Add(makeResult("c", false, 503, 10, "", now))
	c.Add(makeResult("d", false, 0, 10, "connection refused", now))

	agg := c.FullAggregate(false)
	assert.Equal(t, uint64(2), agg.StatusCodeCounts["200"])
	assert.Equal(t, uint64(1), agg.StatusCodeCounts["503"])
	assert.Equal(t, uint64(1), agg.StatusCodeCounts["Error"])
}

// 测试收集器 - Top 错误按数量降序、首见顺序稳定，最多 5 条
func TestCollector_TopErrors(t *testing.T) {
	c := NewMemoryCollector(1000, logger.Default)
	defer c.Close()

	now := time.Now()
	errs := []string{"err-A", "err-B", "err-C", "err-D", "err-E", "err-F"}
	for i, msg := range errs {
		for j := 0; j <= i; j++ { // err-A 1 次 ... err-F 6 次
			c.Add(makeResult("x", false, 0, 10, msg, now))
		}
	}

	agg := c.FullAggregate(false)
	require.Len(t, agg.TopErrors, 5)
	assert.Equal(t, "err-F", agg.TopErrors[0].Message)
	assert.Equal(t, uint64(6), agg.TopErrors[0].Count)
	assert.Equal(t, "err-B", agg.TopErrors[4].Message)
}

// 测试收集器 - 错误文本截断 200 字符，空文本回退 HTTP 码
func TestCollector_ErrorMessageNormalization(t *testing.T) {
	c := NewMemoryCollector(100, logger.Default)
	defer c.Close()

	now := time.Now()
	long := strings.Repeat("x", 300)
	c.Add(makeResult("a", false, 0, 10, long, now))
	c.Add(makeResult("b", false, 502, 10, "", now))
	c.Add(makeResult("c", false, 0, 10, "", now))

	agg := c.FullAggregate(false)
	messages := make(map[string]uint64)
	for _, e := range agg.TopErrors {
		messages[e.Message] = e.Count
	}
	assert.Contains(t, messages, strings.Repeat("x", 200))
	assert.Contains(t, messages, "HTTP 502")
	assert.Contains(t, messages, "unknown error")
}

// 测试收集器 - 缓存聚合 TTL 内复用同一份结果
func TestCollector_CachedAggregate(t *testing.T) {
	c := NewMemoryCollector(100, logger.Default)
	defer c.Close()

	now := time.Now()
	c.Add(makeResult("a", true, 200, 10, "", now))

	first := c.CachedAggregate(time.Minute)
	c.Add(makeResult("b", true, 200, 10, "", now))
	second := c.CachedAggregate(time.Minute)
	assert.Same(t, first, second) // TTL 内不重算

	third := c.CachedAggregate(time.Nanosecond)
	assert.Equal(t, uint64(2), third.TotalRequests)
}

// 测试收集器 - 显式窗口优先于样本时间戳
func TestCollector_ExplicitWindow(t *testing.T) {
	c := NewMemoryCollector(100, logger.Default)
	defer c.Close()

	start := time.Now()
	c.SetStartTime(start)
	c.Add(makeResult("a", true, 200, 10, "", start.Add(time.Second)))
	c.SetEndTime(start.Add(10 * time.Second))

	agg := c.FullAggregate(false)
	assert.InDelta(t, 10.0, agg.DurationSeconds, 0.01)
	assert.InDelta(t, 0.1, agg.TPS, 0.001)
}

// 测试收集器 - 空收集器聚合不崩溃
func TestCollector_Empty(t *testing.T) {
	c := NewMemoryCollector(10, logger.Default)
	defer c.Close()

	agg := c.FullAggregate(true)
	assert.Equal(t, uint64(0), agg.TotalRequests)
	assert.Equal(t, 0.0, agg.P95Ms)
	assert.Equal(t, 0.0, agg.TPS)
	assert.Empty(t, agg.ResponseTimesMs)
	assert.Equal(t, 100.0, agg.SuccessRatePct())
}
