/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\stress.go
 * @Description: 压力测试配置
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "time"

// 压力测试默认值
const (
	DefaultStressInitialUsers = 5
	DefaultStressStepUsers    = 5
	DefaultStressStepSeconds  = 30.0
	DefaultStressMaxUsers     = 200
	DefaultSpikeHoldSeconds   = 30.0
	DefaultSoakSeconds        = 60.0
	DefaultSLAP95Ms           = 500.0
	DefaultSLAP99Ms           = 1000.0
	DefaultSLAErrorRatePct    = 1.0
	DefaultSLATimeoutRatePct  = 5.0
)

// StressConfig 压力测试配置
// 分阶段加压，每阶段结束后对照 SLA 阈值判定是否继续
type StressConfig struct {
	Scenario            StressScenario `yaml:"scenario"`              // 压力场景
	InitialUsers        int            `yaml:"initial_users"`         // 线性加压起始并发
	StepUsers           int            `yaml:"step_users"`            // 每阶段并发增量
	StepIntervalSeconds float64        `yaml:"step_interval_seconds"` // 每阶段时长（秒）
	MaxUsers            int            `yaml:"max_users"`             // 并发上限
	SpikeUsers          int            `yaml:"spike_users"`           // spike_stress 峰值并发
	SpikeHoldSeconds    float64        `yaml:"spike_hold_seconds"`    // spike_stress 峰值保持时长（秒）
	SoakUsers           int            `yaml:"soak_users"`            // soak_stress 浸泡并发
	SoakDurationSeconds float64        `yaml:"soak_duration_seconds"` // soak_stress 浸泡时长（秒）
	ThinkTimeMs         float64        `yaml:"think_time_ms"`         // 思考时间（毫秒）
	TimeoutSeconds      float64        `yaml:"timeout_seconds"`       // 单请求超时（秒）
	SLAP95Ms            float64        `yaml:"sla_p95_ms"`            // P95 上限（毫秒）
	SLAP99Ms            float64        `yaml:"sla_p99_ms"`            // P99 上限（毫秒）
	SLAErrorRatePct     float64        `yaml:"sla_error_rate_pct"`    // 错误率上限（百分比）
	SLATimeoutRatePct   float64        `yaml:"sla_timeout_rate_pct"`  // 超时率上限（百分比）
}

// DefaultStressConfig 返回带默认值的压力测试配置
func DefaultStressConfig() *StressConfig {
	return &StressConfig{
		Scenario:            StressLinearOverload,
		InitialUsers:        DefaultStressInitialUsers,
		StepUsers:           DefaultStressStepUsers,
		StepIntervalSeconds: DefaultStressStepSeconds,
		MaxUsers:            DefaultStressMaxUsers,
		SpikeHoldSeconds:    DefaultSpikeHoldSeconds,
		SoakDurationSeconds: DefaultSoakSeconds,
		SLAP95Ms:            DefaultSLAP95Ms,
		SLAP99Ms:            DefaultSLAP99Ms,
		SLAErrorRatePct:     DefaultSLAErrorRatePct,
		SLATimeoutRatePct:   DefaultSLATimeoutRatePct,
	}
}

// StepInterval 每阶段时长
func (c *StressConfig) StepInterval() time.Duration {
	return secondsToDuration(c.StepIntervalSeconds)
}

// SpikeHold spike_stress 峰值保持时长
func (c *StressConfig) SpikeHold() time.Duration {
	return secondsToDuration(c.SpikeHoldSeconds)
}

// SoakDuration soak_stress 浸泡时长
func (c *StressConfig) SoakDuration() time.Duration {
	return secondsToDuration(c.SoakDurationSeconds)
}

// ThinkTime 思考时间
func (c *StressConfig) ThinkTime() time.Duration {
	return time.Duration(c.ThinkTimeMs * float64(time.Millisecond))
}

// Timeout 单请求超时，未配置时返回默认 30s
func (c *StressConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return secondsToDuration(DefaultTimeoutSeconds)
	}
	return secondsToDuration(c.TimeoutSeconds)
}
