/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 17:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\config\loader_test.go
 * @Description: 运行配置加载测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试配置解析 - 缺失字段落默认值
func TestParseRunConfig_Defaults(t *testing.T) {
	cfg, err := ParseRunConfig([]byte("users: 25\n"), logger.Default)
	require.NoError(t, err)

	assert.Equal(t, 25, cfg.Users)
	assert.Equal(t, 10.0, cfg.RampUpSeconds)
	assert.Equal(t, 60.0, cfg.DurationSeconds)
	assert.Equal(t, types.ScenarioConstant, cfg.Scenario)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.False(t, cfg.HasSLA())
}

// 测试配置解析 - 完整字段
func TestParseRunConfig_FullConfig(t *testing.T) {
	yaml := `
users: 100
ramp_up_seconds: 20
duration_seconds: 120
iterations: 5
think_time_ms: 250
timeout_seconds: 10
scenario: gradual
sla_p95_ms: 500
sla_error_rate_pct: 1.5
`
	cfg, err := ParseRunConfig([]byte(yaml), logger.Default)
	require.NoError(t, err)

	assert.Equal(t, 100, cfg.Users)
	assert.Equal(t, 20.0, cfg.RampUpSeconds)
	assert.Equal(t, types.ScenarioGradual, cfg.Scenario)
	assert.Equal(t, 250*time.Millisecond, cfg.ThinkTime())
	require.NotNil(t, cfg.SLAP95Ms)
	assert.Equal(t, 500.0, *cfg.SLAP95Ms)
	assert.Nil(t, cfg.SLAP99Ms)
	assert.True(t, cfg.HasSLA())
}

// 测试配置解析 - 未知场景回退 constant
func TestParseRunConfig_UnknownScenarioFallback(t *testing.T) {
	cfg, err := ParseRunConfig([]byte("users: 10\nscenario: Chaos\n"), logger.Default)
	require.NoError(t, err)
	assert.Equal(t, types.ScenarioConstant, cfg.Scenario)
}

// 测试配置解析 - 场景大小写与空白归一化
func TestParseRunConfig_ScenarioNormalized(t *testing.T) {
	cfg, err := ParseRunConfig([]byte("users: 10\nscenario: '  SPIKE '\nspike_users: 5\nspike_duration_seconds: 10\n"), logger.Default)
	require.NoError(t, err)
	assert.Equal(t, types.ScenarioSpike, cfg.Scenario)
}

// 测试配置校验 - 非法取值逐项拒绝
func TestValidateRunConfig_Invalid(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*types.RunConfig)
	}{
		{"users 为 0", func(c *types.RunConfig) { c.Users = 0 }},
		{"爬坡为负", func(c *types.RunConfig) { c.RampUpSeconds = -1 }},
		{"时长为 0", func(c *types.RunConfig) { c.DurationSeconds = 0 }},
		{"迭代为负", func(c *types.RunConfig) { c.Iterations = -1 }},
		{"思考时间为负", func(c *types.RunConfig) { c.ThinkTimeMs = -10 }},
		{"spike 缺峰值用户", func(c *types.RunConfig) { c.Scenario = types.ScenarioSpike; c.SpikeDurationSeconds = 10 }},
		{"spike 缺峰值时长", func(c *types.RunConfig) { c.Scenario = types.ScenarioSpike; c.SpikeUsers = 5 }},
		{"SLA P95 非正", func(c *types.RunConfig) { v := 0.0; c.SLAP95Ms = &v }},
		{"SLA 错误率越界", func(c *types.RunConfig) { v := 150.0; c.SLAErrorRatePct = &v }},
	}

	for _, tc := range cases {
		cfg := types.DefaultRunConfig()
		tc.mutate(cfg)
		err := ValidateRunConfig(cfg)
		assert.Error(t, err, tc.name)
		var cfgErr *types.ConfigError
		assert.ErrorAs(t, err, &cfgErr, tc.name)
	}
}

// 测试配置加载 - 文件不存在报配置错误
func TestLoadRunConfig_MissingFile(t *testing.T) {
	_, err := LoadRunConfig("/nonexistent/load.yaml", logger.Default)
	assert.Error(t, err)
}

// 测试配置加载 - 从文件读取
func TestLoadRunConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "load.yaml")
	require.NoError(t, os.WriteFile(path, []byte("users: 8\nduration_seconds: 30\n"), 0644))

	cfg, err := LoadRunConfig(path, logger.Default)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Users)
	assert.Equal(t, 30.0, cfg.DurationSeconds)
}

// 测试配置解析 - 坏 YAML 报错
func TestParseRunConfig_BadYAML(t *testing.T) {
	_, err := ParseRunConfig([]byte("users: [not a number"), logger.Default)
	assert.Error(t, err)
}
