/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 14:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\config\loader.go
 * @Description: 运行配置加载 - YAML 解析、默认值、校验
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

// LoadRunConfig 从 YAML 文件加载运行配置
// 缺失字段使用默认值，未知的 scenario 回退为 constant
func LoadRunConfig(path string, log logger.ILogger) (*types.RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapConfigError(err, "读取配置文件失败: %s", path)
	}
	return ParseRunConfig(data, log)
}

// ParseRunConfig 解析 YAML 内容为运行配置
func ParseRunConfig(data []byte, log logger.ILogger) (*types.RunConfig, error) {
	cfg := types.DefaultRunConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, types.WrapConfigError(err, "解析 YAML 配置失败")
	}

	normalizeScenario(cfg, log)

	if err := ValidateRunConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeScenario 归一化负载曲线取值，非法值回退为 constant
func normalizeScenario(cfg *types.RunConfig, log logger.ILogger) {
	raw := strings.ToLower(strings.TrimSpace(string(cfg.Scenario)))
	if raw == "" {
		cfg.Scenario = types.ScenarioConstant
		return
	}
	scenario := types.LoadScenario(raw)
	if !scenario.Valid() {
		if log != nil {
			log.Debugf("未知负载曲线 %q，回退为 constant", raw)
		}
		scenario = types.ScenarioConstant
	}
	cfg.Scenario = scenario
}

// ValidateRunConfig 校验运行配置
func ValidateRunConfig(cfg *types.RunConfig) error {
	if cfg.Users <= 0 {
		return types.NewConfigError("users 必须大于 0，当前: %d", cfg.Users)
	}
	if cfg.RampUpSeconds < 0 {
		return types.NewConfigError("ramp_up_seconds 不能为负数，当前: %v", cfg.RampUpSeconds)
	}
	if cfg.DurationSeconds <= 0 {
		return types.NewConfigError("duration_seconds 必须大于 0，当前: %v", cfg.DurationSeconds)
	}
	if cfg.Iterations < 0 {
		return types.NewConfigError("iterations 不能为负数，当前: %d", cfg.Iterations)
	}
	if cfg.ThinkTimeMs < 0 {
		return types.NewConfigError("think_time_ms 不能为负数，当前: %v", cfg.ThinkTimeMs)
	}
	if cfg.Scenario == types.ScenarioSpike {
		if cfg.SpikeUsers <= 0 {
			return types.NewConfigError("spike 场景要求 spike_users 大于 0，当前: %d", cfg.SpikeUsers)
		}
		if cfg.SpikeDurationSeconds <= 0 {
			return types.NewConfigError("spike 场景要求 spike_duration_seconds 大于 0，当前: %v", cfg.SpikeDurationSeconds)
		}
	}
	if cfg.SLAP95Ms != nil && *cfg.SLAP95Ms <= 0 {
		return types.NewConfigError("sla_p95_ms 必须大于 0，当前: %v", *cfg.SLAP95Ms)
	}
	if cfg.SLAP99Ms != nil && *cfg.SLAP99Ms <= 0 {
		return types.NewConfigError("sla_p99_ms 必须大于 0，当前: %v", *cfg.SLAP99Ms)
	}
	if cfg.SLAErrorRatePct != nil && (*cfg.SLAErrorRatePct < 0 || *cfg.SLAErrorRatePct > 100) {
		return types.NewConfigError("sla_error_rate_pct 必须在 [0, 100] 区间，当前: %v", *cfg.SLAErrorRatePct)
	}
	return nil
}
