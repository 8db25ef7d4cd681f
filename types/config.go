/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\config.go
 * @Description: 负载测试运行配置
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "time"

// 运行配置默认值
const (
	DefaultUsers          = 10
	DefaultRampUpSeconds  = 10.0
	DefaultDurationSecond = 60.0
	DefaultTimeoutSeconds = 30.0
)

// RunConfig 负载测试运行配置
// SLA 阈值为可选项，nil 表示不检查
type RunConfig struct {
	Users                int          `yaml:"users"`                  // 目标并发用户数
	RampUpSeconds        float64      `yaml:"ramp_up_seconds"`        // 爬坡时长（秒）
	DurationSeconds      float64      `yaml:"duration_seconds"`       // 整场时长（秒，含爬坡）
	Iterations           int          `yaml:"iterations"`             // 每个用户的循环轮数，0 表示按时长运行
	ThinkTimeMs          float64      `yaml:"think_time_ms"`          // 请求间思考时间（毫秒）
	TimeoutSeconds       float64      `yaml:"timeout_seconds"`        // 单请求超时（秒）
	Scenario             LoadScenario `yaml:"scenario"`               // 负载曲线
	SpikeUsers           int          `yaml:"spike_users"`            // spike 峰值额外用户数
	SpikeDurationSeconds float64      `yaml:"spike_duration_seconds"` // spike 峰值持续时长（秒）
	SLAP95Ms             *float64     `yaml:"sla_p95_ms"`             // P95 响应时间上限（毫秒）
	SLAP99Ms             *float64     `yaml:"sla_p99_ms"`             // P99 响应时间上限（毫秒）
	SLAErrorRatePct      *float64     `yaml:"sla_error_rate_pct"`     // 错误率上限（百分比）
}

// DefaultRunConfig 返回带默认值的运行配置
func DefaultRunConfig() *RunConfig {
	return &RunConfig{
		Users:           DefaultUsers,
		RampUpSeconds:   DefaultRampUpSeconds,
		DurationSeconds: DefaultDurationSecond,
		TimeoutSeconds:  DefaultTimeoutSeconds,
		Scenario:        ScenarioConstant,
	}
}

// Duration 整场时长（爬坡包含在内）
func (c *RunConfig) Duration() time.Duration {
	return secondsToDuration(c.DurationSeconds)
}

// RampUp 爬坡时长
func (c *RunConfig) RampUp() time.Duration {
	return secondsToDuration(c.RampUpSeconds)
}

// ThinkTime 思考时间
func (c *RunConfig) ThinkTime() time.Duration {
	return time.Duration(c.ThinkTimeMs * float64(time.Millisecond))
}

// Timeout 单请求超时，未配置时返回默认 30s
func (c *RunConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return secondsToDuration(DefaultTimeoutSeconds)
	}
	return secondsToDuration(c.TimeoutSeconds)
}

// HasSLA 是否配置了任意 SLA 阈值
func (c *RunConfig) HasSLA() bool {
	return c.SLAP95Ms != nil || c.SLAP99Ms != nil || c.SLAErrorRatePct != nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
