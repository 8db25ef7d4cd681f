/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\aggregate.go
 * @Description: 窗口聚合 - 对结果切片做单遍精确聚合（阶段/端点统计用）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"math"
	"strconv"
	"time"

	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// ComputeAggregate 对结果切片单遍聚合
// windowStart/windowEnd 非零时仅统计窗口内（闭区间）的结果，
// 百分位走精确排序计算（数据量受存储容量约束，可承受）
func ComputeAggregate(results []*types.RequestResult, windowStart, windowEnd time.Time, includeRaw bool) *types.AggregateMetrics {
	agg := &types.AggregateMetrics{
		StatusCodeCounts: make(map[string]uint64),
	}

	var (
		sumMs       float64
		minMs       = math.MaxFloat64
		maxMs       float64
		satisfied   uint64
		tolerating  uint64
		times       []float64
		errorCounts = make(map[string]uint64)
		errorOrder  []string
		firstTs     time.Time
		lastTs      time.Time
	)

	filter := !windowStart.IsZero() || !windowEnd.IsZero()

	for _, r := range results {
		if r == nil {
			continue
		}
		if filter {
			if !windowStart.IsZero() && r.Timestamp.Before(windowStart) {
				continue
			}
			if !windowEnd.IsZero() && r.Timestamp.After(windowEnd) {
				continue
			}
		}

		ms := r.ResponseTimeMs()
		agg.TotalRequests++
		if r.BytesRead > 0 {
			agg.TotalBytes += uint64(r.BytesRead)
		}
		sumMs += ms
		if ms < minMs {
			minMs = ms
		}
		if ms > maxMs {
			maxMs = ms
		}
		times = append(times, ms)

		key := "Error"
		if r.HasStatus() {
			key = strconv.Itoa(r.StatusCode)
		}
		agg.StatusCodeCounts[key]++

		if r.Success {
			agg.SuccessfulRequests++
			if ms < ApdexSatisfiedMs {
				satisfied++
			} else if ms < ApdexToleratingMs {
				tolerating++
			}
		} else {
			agg.FailedRequests++
			msg := errorMessage(r)
			if _, seen := errorCounts[msg]; !seen {
				errorOrder = append(errorOrder, msg)
			}
			errorCounts[msg]++
		}

		if firstTs.IsZero() || r.Timestamp.Before(firstTs) {
			firstTs = r.Timestamp
		}
		if r.Timestamp.After(lastTs) {
			lastTs = r.Timestamp
		}
	}

	elapsed := 0.0
	switch {
	case !windowStart.IsZero() && !windowEnd.IsZero():
		elapsed = windowEnd.Sub(windowStart).Seconds()
	case !firstTs.IsZero():
		elapsed = lastTs.Sub(firstTs).Seconds()
	}
	agg.DurationSeconds = math.Max(elapsed, 0.001)

	if agg.TotalRequests > 0 {
		total := float64(agg.TotalRequests)
		agg.AvgResponseTimeMs = sumMs / total
		agg.MinResponseTimeMs = minMs
		agg.MaxResponseTimeMs = maxMs
		agg.TPS = total / agg.DurationSeconds
		agg.ErrorRatePct = mathx.Percentage(agg.FailedRequests, agg.TotalRequests)
		agg.ApdexScore = (float64(satisfied) + float64(tolerating)/2.0) / total

		percentiles := mathx.Percentiles(times, 50, 95, 99)
		agg.P50Ms = percentiles[50]
		agg.P95Ms = percentiles[95]
		agg.P99Ms = percentiles[99]
	}

	agg.TopErrors = topErrorsLocked(errorCounts, errorOrder)
	if includeRaw {
		agg.ResponseTimesMs = times
	}
	return agg
}

// EndpointAggregates 按「METHOD URL」分组聚合
// 窗口边界沿用整体统计窗口，保证各端点 TPS 与总体口径一致
func EndpointAggregates(results []*types.RequestResult, windowStart, windowEnd time.Time) map[string]*types.AggregateMetrics {
	groups := make(map[string][]*types.RequestResult)
	for _, r := range results {
		if r == nil {
			continue
		}
		key := r.Method + " " + r.URL
		groups[key] = append(groups[key], r)
	}

	out := make(map[string]*types.AggregateMetrics, len(groups))
	for key, group := range groups {
		out[key] = ComputeAggregate(group, windowStart, windowEnd, false)
	}
	return out
}
