/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 14:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\config\stress.go
 * @Description: 压力测试配置加载 - YAML 解析、默认值、校验
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"os"
	"strings"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"gopkg.in/yaml.v3"
)

// LoadStressConfig 从 YAML 文件加载压力测试配置
func LoadStressConfig(path string, log logger.ILogger) (*types.StressConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapConfigError(err, "读取压力配置文件失败: %s", path)
	}
	return ParseStressConfig(data, log)
}

// ParseStressConfig 解析 YAML 内容为压力测试配置
func ParseStressConfig(data []byte, log logger.ILogger) (*types.StressConfig, error) {
	cfg := types.DefaultStressConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, types.WrapConfigError(err, "解析压力 YAML 配置失败")
	}

	raw := strings.ToLower(strings.TrimSpace(string(cfg.Scenario)))
	if raw == "" {
		cfg.Scenario = types.StressLinearOverload
	} else {
		scenario := types.StressScenario(raw)
		if !scenario.Valid() {
			if log != nil {
				log.Debugf("未知压力场景 %q，回退为 linear_overload", raw)
			}
			scenario = types.StressLinearOverload
		}
		cfg.Scenario = scenario
	}

	if err := ValidateStressConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ValidateStressConfig 校验压力测试配置
func ValidateStressConfig(cfg *types.StressConfig) error {
	if cfg.InitialUsers <= 0 {
		return types.NewConfigError("initial_users 必须大于 0，当前: %d", cfg.InitialUsers)
	}
	if cfg.StepUsers <= 0 {
		return types.NewConfigError("step_users 必须大于 0，当前: %d", cfg.StepUsers)
	}
	if cfg.StepIntervalSeconds <= 0 {
		return types.NewConfigError("step_interval_seconds 必须大于 0，当前: %v", cfg.StepIntervalSeconds)
	}
	if cfg.MaxUsers < cfg.InitialUsers {
		return types.NewConfigError("max_users 不能小于 initial_users，当前: %d < %d", cfg.MaxUsers, cfg.InitialUsers)
	}
	if cfg.ThinkTimeMs < 0 {
		return types.NewConfigError("think_time_ms 不能为负数，当前: %v", cfg.ThinkTimeMs)
	}
	if cfg.Scenario == types.StressSpike && (cfg.SpikeUsers <= 0 || cfg.SpikeHoldSeconds <= 0) {
		return types.NewConfigError("spike_stress 场景要求 spike_users 与 spike_hold_seconds 均大于 0")
	}
	if cfg.Scenario == types.StressSoak && (cfg.SoakUsers <= 0 || cfg.SoakDurationSeconds <= 0) {
		return types.NewConfigError("soak_stress 场景要求 soak_users 与 soak_duration_seconds 均大于 0")
	}
	if cfg.SLAP95Ms <= 0 {
		return types.NewConfigError("sla_p95_ms 必须大于 0，当前: %v", cfg.SLAP95Ms)
	}
	if cfg.SLAP99Ms <= 0 {
		return types.NewConfigError("sla_p99_ms 必须大于 0，当前: %v", cfg.SLAP99Ms)
	}
	if cfg.SLAErrorRatePct < 0 || cfg.SLAErrorRatePct > 100 {
		return types.NewConfigError("sla_error_rate_pct 必须在 [0, 100] 区间，当前: %v", cfg.SLAErrorRatePct)
	}
	if cfg.SLATimeoutRatePct < 0 || cfg.SLATimeoutRatePct > 100 {
		return types.NewConfigError("sla_timeout_rate_pct 必须在 [0, 100] 区间，当前: %v", cfg.SLATimeoutRatePct)
	}
	return nil
}
