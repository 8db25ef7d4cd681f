/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\collector.go
 * @Description: 流式统计收集器 - t-digest 百分位、Apdex、状态码与错误分布
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"math"
	"strconv"
	"time"

	"github.com/influxdata/tdigest"
	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/storage"
	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

const (
	// Apdex 阈值：满意 < 500ms，可容忍 < 2000ms（仅统计成功请求）
	ApdexSatisfiedMs  = 500.0
	ApdexToleratingMs = 2000.0

	// 错误消息截断长度
	maxErrorMessageLen = 200

	// 聚合缓存 TTL
	DefaultCacheTTL = 500 * time.Millisecond

	// Top 错误条数
	topErrorLimit = 5
)

// Collector 流式统计收集器
// 聚合指标（计数、t-digest、Apdex、分布）随每条结果增量更新，
// 原始明细交由 storage.Interface 保留
type Collector struct {
	storage storage.Interface

	successCount *syncx.Uint64
	failedCount  *syncx.Uint64
	totalBytes   *syncx.Uint64

	mu *syncx.RWLock // 保护以下字段
	sumMs        float64
	minMs        float64
	maxMs        float64
	digest       *tdigest.TDigest
	statusCounts map[string]uint64
	errorCounts  map[string]uint64
	errorOrder   []string // 错误首次出现顺序，Top 排序平局时保持稳定
	satisfied    uint64   // Apdex 满意数
	tolerating   uint64   // Apdex 可容忍数

	startSet  bool
	startTime time.Time
	endSet    bool
	endTime   time.Time

	cachedAgg *types.AggregateMetrics
	cachedAt  time.Time
}

// NewCollector 创建统计收集器
func NewCollector(store storage.Interface, log logger.ILogger) *Collector {
	if store == nil {
		store = storage.NewMemoryStorage(0, log)
	}
	return &Collector{
		storage:      store,
		successCount: syncx.NewUint64(0),
		failedCount:  syncx.NewUint64(0),
		totalBytes:   syncx.NewUint64(0),
		mu:           syncx.NewRWLock(),
		minMs:        math.MaxFloat64,
		digest:       tdigest.New(),
		statusCounts: make(map[string]uint64),
		errorCounts:  make(map[string]uint64),
	}
}

// NewMemoryCollector 创建带内存环形缓冲的收集器（容量 0 使用默认值）
func NewMemoryCollector(capacity int, log logger.ILogger) *Collector {
	return NewCollector(storage.NewMemoryStorage(capacity, log), log)
}

// Add 摄入单条请求结果
func (c *Collector) Add(result *types.RequestResult) {
	if result == nil {
		return
	}
	if result.Success {
		c.successCount.Add(1)
	} else {
		c.failedCount.Add(1)
	}
	if result.BytesRead > 0 {
		c.totalBytes.Add(uint64(result.BytesRead))
	}
	c.storage.Write(result)

	ms := result.ResponseTimeMs()

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ingestLocked(result, ms)
}

// AddBatch 批量摄入，等价于逐条 Add，但只加一次锁
func (c *Collector) AddBatch(results []*types.RequestResult) {
	if len(results) == 0 {
		return
	}
	for _, r := range results {
		if r == nil {
			continue
		}
		if r.Success {
			c.successCount.Add(1)
		} else {
			c.failedCount.Add(1)
		}
		if r.BytesRead > 0 {
			c.totalBytes.Add(uint64(r.BytesRead))
		}
		c.storage.Write(r)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, r := range results {
		if r == nil {
			continue
		}
		c.ingestLocked(r, r.ResponseTimeMs())
	}
}

// ingestLocked 更新流式累加器，调用方须持有写锁
func (c *Collector) ingestLocked(result *types.RequestResult, ms float64) {
	c.sumMs += ms
	if ms < c.minMs {
		c.minMs = ms
	}
	if ms > c.maxMs {
		c.maxMs = ms
	}
	c.digest.Add(ms, 1)

	// 状态码分布：未收到响应记为 "Error"
	key := "Error"
	if result.HasStatus() {
		key = strconv.Itoa(result.StatusCode)
	}
	c.statusCounts[key]++

	// Apdex 仅统计成功请求
	if result.Success {
		if ms < ApdexSatisfiedMs {
			c.satisfied++
		} else if ms < ApdexToleratingMs {
			c.tolerating++
		}
	} else {
		msg := errorMessage(result)
		if _, seen := c.errorCounts[msg]; !seen {
			c.errorOrder = append(c.errorOrder, msg)
		}
		c.errorCounts[msg]++
	}

	if !c.startSet {
		c.startSet = true
		c.startTime = result.Timestamp
	}
	c.endTime = result.Timestamp

	// 摄入后缓存失效由 TTL 自然过期，避免热路径写缓存字段
}

// errorMessage 归一化错误消息：截断到 200 字符，空错误回退为 "HTTP {code}"
func errorMessage(result *types.RequestResult) string {
	msg := result.Error
	if msg == "" {
		if result.HasStatus() {
			return "HTTP " + strconv.Itoa(result.StatusCode)
		}
		return "unknown error"
	}
	if len(msg) > maxErrorMessageLen {
		return msg[:maxErrorMessageLen]
	}
	return msg
}

// SetEndTime 显式固定统计窗口终点（压测结束时调用）
func (c *Collector) SetEndTime(t time.Time) {
	syncx.WithLock(c.mu, func() {
		c.endSet = true
		c.endTime = t
	})
}

// SetStartTime 显式固定统计窗口起点
func (c *Collector) SetStartTime(t time.Time) {
	syncx.WithLock(c.mu, func() {
		c.startSet = true
		c.startTime = t
	})
}

// StartTime 统计窗口起点（首条结果时间或显式设置值）
func (c *Collector) StartTime() time.Time {
	return syncx.WithRLockReturnValue(c.mu, func() time.Time {
		return c.startTime
	})
}

// EndTime 统计窗口终点
func (c *Collector) EndTime() time.Time {
	return syncx.WithRLockReturnValue(c.mu, func() time.Time {
		return c.endTime
	})
}

// TotalCount 已摄入的结果总数
func (c *Collector) TotalCount() uint64 {
	return c.successCount.Load() + c.failedCount.Load()
}

// Results 原始明细快照（受存储容量限制）
func (c *Collector) Results() []*types.RequestResult {
	return c.storage.Snapshot()
}

// OverflowCount 因存储容量被淘汰的明细条数
func (c *Collector) OverflowCount() uint64 {
	return c.storage.OverflowCount()
}

// Storage 底层明细存储
func (c *Collector) Storage() storage.Interface {
	return c.storage
}

// Close 释放底层存储资源
func (c *Collector) Close() error {
	return c.storage.Close()
}

// FullAggregate 计算完整聚合指标
// includeRaw 为 true 时附带原始响应时间序列（仅报告导出用）
func (c *Collector) FullAggregate(includeRaw bool) *types.AggregateMetrics {
	success := c.successCount.Load()
	failed := c.failedCount.Load()
	total := success + failed

	c.mu.RLock()
	agg := &types.AggregateMetrics{
		TotalRequests:      total,
		SuccessfulRequests: success,
		FailedRequests:     failed,
		TotalBytes:         c.totalBytes.Load(),
		StatusCodeCounts:   copyCounts(c.statusCounts),
		TopErrors:          topErrorsLocked(c.errorCounts, c.errorOrder),
	}

	if total > 0 {
		agg.AvgResponseTimeMs = c.sumMs / float64(total)
		agg.MinResponseTimeMs = c.minMs
		agg.MaxResponseTimeMs = c.maxMs
		agg.P50Ms = quantileMs(c.digest, 0.50)
		agg.P95Ms = quantileMs(c.digest, 0.95)
		agg.P99Ms = quantileMs(c.digest, 0.99)
		agg.ErrorRatePct = float64(failed) / float64(total) * 100.0
		agg.ApdexScore = (float64(c.satisfied) + float64(c.tolerating)/2.0) / float64(total)
	}

	elapsed := 0.0
	if c.startSet {
		elapsed = c.endTime.Sub(c.startTime).Seconds()
	}
	c.mu.RUnlock()

	// 窗口时长下限 1ms，避免除零
	agg.DurationSeconds = math.Max(elapsed, 0.001)
	if total > 0 {
		agg.TPS = float64(total) / agg.DurationSeconds
	}

	if includeRaw {
		snapshot := c.storage.Snapshot()
		times := make([]float64, 0, len(snapshot))
		for _, r := range snapshot {
			times = append(times, r.ResponseTimeMs())
		}
		agg.ResponseTimesMs = times
	}
	return agg
}

// CachedAggregate 带 TTL 缓存的聚合指标（进度展示等高频读取场景）
func (c *Collector) CachedAggregate(ttl time.Duration) *types.AggregateMetrics {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	cached := syncx.WithRLockReturnValue(c.mu, func() *types.AggregateMetrics {
		if c.cachedAgg != nil && time.Since(c.cachedAt) < ttl {
			return c.cachedAgg
		}
		return nil
	})
	if cached != nil {
		return cached
	}

	agg := c.FullAggregate(false)
	syncx.WithLock(c.mu, func() {
		c.cachedAgg = agg
		c.cachedAt = time.Now()
	})
	return agg
}

// EndpointAggregates 对存量明细按「METHOD URL」分组聚合，窗口取整体起止时刻
func (c *Collector) EndpointAggregates() map[string]*types.AggregateMetrics {
	return EndpointAggregates(c.Results(), c.StartTime(), c.EndTime())
}

// TimeSeries 按秒聚合的时间序列，起点为整体统计窗口起点
func (c *Collector) TimeSeries() []types.TimeSeriesPoint {
	return TimeSeries(c.Results(), c.StartTime())
}

// quantileMs 读取 t-digest 分位点，空摘要返回 0
func quantileMs(d *tdigest.TDigest, q float64) float64 {
	v := d.Quantile(q)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// topErrorsLocked 按次数降序取前 5 类错误，平局按首次出现顺序
func topErrorsLocked(counts map[string]uint64, order []string) []types.ErrorCount {
	if len(counts) == 0 {
		return nil
	}
	out := make([]types.ErrorCount, 0, len(order))
	for _, msg := range order {
		out = append(out, types.ErrorCount{Message: msg, Count: counts[msg]})
	}
	// 插入排序保持稳定（错误类别通常很少）
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Count > out[j-1].Count; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if len(out) > topErrorLimit {
		out = out[:topErrorLimit]
	}
	return out
}

func copyCounts(src map[string]uint64) map[string]uint64 {
	dst := make(map[string]uint64, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
