/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\timeseries.go
 * @Description: 按秒聚合的时间序列 - 报告图表数据源
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"sort"
	"time"

	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/mathx"
)

// secondBucket 单秒聚合桶
type secondBucket struct {
	count  int
	failed int
	sumMs  float64
	times  []float64
}

// TimeSeries 将明细按秒分桶聚合，返回按偏移升序的采样点
// start 为统计窗口起点，早于 start 的结果落入 0 号桶
func TimeSeries(results []*types.RequestResult, start time.Time) []types.TimeSeriesPoint {
	if len(results) == 0 {
		return nil
	}

	buckets := make(map[int]*secondBucket)
	for _, r := range results {
		if r == nil {
			continue
		}
		offset := int(r.Timestamp.Sub(start) / time.Second)
		if offset < 0 {
			offset = 0
		}
		b := buckets[offset]
		if b == nil {
			b = &secondBucket{}
			buckets[offset] = b
		}
		ms := r.ResponseTimeMs()
		b.count++
		b.sumMs += ms
		b.times = append(b.times, ms)
		if !r.Success {
			b.failed++
		}
	}

	offsets := make([]int, 0, len(buckets))
	for offset := range buckets {
		offsets = append(offsets, offset)
	}
	sort.Ints(offsets)

	points := make([]types.TimeSeriesPoint, 0, len(offsets))
	for _, offset := range offsets {
		b := buckets[offset]
		point := types.TimeSeriesPoint{
			OffsetSeconds: offset,
			Requests:      b.count,
			TPS:           float64(b.count), // 桶宽 1 秒
			AvgMs:         b.sumMs / float64(b.count),
			P95Ms:         mathx.Percentiles(b.times, 95)[95],
			ErrorRatePct:  mathx.Percentage(uint64(b.failed), uint64(b.count)),
		}
		points = append(points, point)
	}
	return points
}
