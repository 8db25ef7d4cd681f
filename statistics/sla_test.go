/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 15:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\sla_test.go
 * @Description: SLA 检查测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"testing"

	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slaConfig(p95, p99, errRate *float64) *types.RunConfig {
	cfg := types.DefaultRunConfig()
	cfg.SLAP95Ms = p95
	cfg.SLAP99Ms = p99
	cfg.SLAErrorRatePct = errRate
	return cfg
}

func f64(v float64) *float64 { return &v }

// 测试 SLA - 未配置阈值时不产生违规
func TestCheckSLA_NoThresholds(t *testing.T) {
	agg := &types.AggregateMetrics{P95Ms: 9999, ErrorRatePct: 50}
	assert.Nil(t, CheckSLA(agg, slaConfig(nil, nil, nil)))
	assert.Nil(t, CheckSLA(nil, slaConfig(f64(100), nil, nil)))
	assert.Nil(t, CheckSLA(agg, nil))
}

// 测试 SLA - 各阈值独立判定并收集全部违规
func TestCheckSLA_AllViolations(t *testing.T) {
	agg := &types.AggregateMetrics{P95Ms: 800, P99Ms: 1500, ErrorRatePct: 3.5}
	violations := CheckSLA(agg, slaConfig(f64(500), f64(1000), f64(1)))

	require.Len(t, violations, 3)
	assert.Contains(t, violations[0], "P95")
	assert.Contains(t, violations[0], "800.0ms")
	assert.Contains(t, violations[1], "P99")
	assert.Contains(t, violations[2], "Error rate")
	assert.Contains(t, violations[2], "3.50%")
}

// 测试 SLA - 等于阈值不算违规
func TestCheckSLA_AtThreshold(t *testing.T) {
	agg := &types.AggregateMetrics{P95Ms: 500, P99Ms: 1000, ErrorRatePct: 1}
	assert.Empty(t, CheckSLA(agg, slaConfig(f64(500), f64(1000), f64(1))))
}

// 测试 SLA - 只配置单个阈值
func TestCheckSLA_PartialThresholds(t *testing.T) {
	agg := &types.AggregateMetrics{P95Ms: 800, P99Ms: 5000, ErrorRatePct: 99}
	violations := CheckSLA(agg, slaConfig(f64(500), nil, nil))

	require.Len(t, violations, 1)
	assert.Contains(t, violations[0], "P95")
}
