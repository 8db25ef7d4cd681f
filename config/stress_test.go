/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 17:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\config\stress_test.go
 * @Description: 压力测试配置加载测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"testing"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试压力配置解析 - 默认值
func TestParseStressConfig_Defaults(t *testing.T) {
	cfg, err := ParseStressConfig([]byte("{}"), logger.Default)
	require.NoError(t, err)

	assert.Equal(t, types.StressLinearOverload, cfg.Scenario)
	assert.Equal(t, 5, cfg.InitialUsers)
	assert.Equal(t, 5, cfg.StepUsers)
	assert.Equal(t, 30*time.Second, cfg.StepInterval())
	assert.Equal(t, 200, cfg.MaxUsers)
	assert.Equal(t, 500.0, cfg.SLAP95Ms)
	assert.Equal(t, 1000.0, cfg.SLAP99Ms)
}

// 测试压力配置解析 - 场景覆盖与校验
func TestParseStressConfig_SpikeScenario(t *testing.T) {
	yaml := `
scenario: spike_stress
initial_users: 10
spike_users: 300
spike_hold_seconds: 45
`
	cfg, err := ParseStressConfig([]byte(yaml), logger.Default)
	require.NoError(t, err)

	assert.Equal(t, types.StressSpike, cfg.Scenario)
	assert.Equal(t, 300, cfg.SpikeUsers)
	assert.Equal(t, 45*time.Second, cfg.SpikeHold())
}

// 测试压力配置解析 - 未知场景回退 linear_overload
func TestParseStressConfig_UnknownFallback(t *testing.T) {
	cfg, err := ParseStressConfig([]byte("scenario: mega_stress\n"), logger.Default)
	require.NoError(t, err)
	assert.Equal(t, types.StressLinearOverload, cfg.Scenario)
}

// 测试压力配置校验 - 非法取值逐项拒绝
func TestValidateStressConfig_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.StressConfig)
	}{
		{"初始用户为 0", func(c *types.StressConfig) { c.InitialUsers = 0 }},
		{"步长为 0", func(c *types.StressConfig) { c.StepUsers = 0 }},
		{"步长间隔为 0", func(c *types.StressConfig) { c.StepIntervalSeconds = 0 }},
		{"上限小于初始", func(c *types.StressConfig) { c.MaxUsers = 2 }},
		{"spike 缺参数", func(c *types.StressConfig) { c.Scenario = types.StressSpike; c.SpikeUsers = 0 }},
		{"soak 缺参数", func(c *types.StressConfig) { c.Scenario = types.StressSoak; c.SoakUsers = 0 }},
		{"P95 阈值非正", func(c *types.StressConfig) { c.SLAP95Ms = 0 }},
		{"超时率越界", func(c *types.StressConfig) { c.SLATimeoutRatePct = 200 }},
	}

	for _, tc := range cases {
		cfg := types.DefaultStressConfig()
		tc.mutate(cfg)
		assert.Error(t, ValidateStressConfig(cfg), tc.name)
	}
}

// 测试压力配置加载 - 文件不存在
func TestLoadStressConfig_MissingFile(t *testing.T) {
	_, err := LoadStressConfig("/nonexistent/stress.yaml", logger.Default)
	assert.Error(t, err)
}
