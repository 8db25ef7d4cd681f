/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 19:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\request_test.go
 * @Description: 请求预处理与枚举测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试请求预处理 - 带体缺 Content-Type 时补默认值
func TestParsedRequest_PreparedHeaders(t *testing.T) {
	req := &ParsedRequest{
		Method:  "POST",
		URL:     "http://x/login",
		Headers: map[string]string{"Authorization": "Bearer t"},
		Body:    `{"a":1}`,
	}

	headers := req.PreparedHeaders()
	assert.Equal(t, DefaultContentType, headers["Content-Type"])
	assert.Equal(t, "Bearer t", headers["Authorization"])
	assert.Equal(t, []byte(`{"a":1}`), req.BodyBytes())
	assert.True(t, req.HasBody())
}

// 测试请求预处理 - 已声明 Content-Type 不覆盖（大小写不敏感）
func TestParsedRequest_ContentTypePreserved(t *testing.T) {
	req := &ParsedRequest{
		Method:  "POST",
		URL:     "http://x/upload",
		Headers: map[string]string{"content-type": "text/plain"},
		Body:    "hello",
	}

	headers := req.PreparedHeaders()
	assert.Equal(t, "text/plain", headers["content-type"])
	assert.NotContains(t, headers, "Content-Type")
}

// 测试请求预处理 - 无体不补 Content-Type
func TestParsedRequest_NoBody(t *testing.T) {
	req := &ParsedRequest{Method: "GET", URL: "http://x/health"}

	assert.NotContains(t, req.PreparedHeaders(), "Content-Type")
	assert.Nil(t, req.BodyBytes())
	assert.False(t, req.HasBody())
}

// 测试负载场景枚举 - flag.Value 解析
func TestLoadScenario_FlagValue(t *testing.T) {
	var s LoadScenario
	require.NoError(t, s.Set("gradual"))
	assert.Equal(t, ScenarioGradual, s)
	assert.Equal(t, "gradual", s.String())

	assert.Error(t, s.Set("chaos"))
}

// 测试存储模式枚举 - flag.Value 解析
func TestStorageMode_FlagValue(t *testing.T) {
	var m StorageMode
	require.NoError(t, m.Set("sqlite"))
	assert.Equal(t, StorageModeSQLite, m)

	assert.Error(t, m.Set("redis"))
}

// 测试结果辅助方法
func TestRequestResult_Helpers(t *testing.T) {
	r := &RequestResult{StatusCode: 200, Duration: 1500000} // 1.5ms
	assert.True(t, r.HasStatus())
	assert.InDelta(t, 1.5, r.ResponseTimeMs(), 0.001)

	none := &RequestResult{}
	assert.False(t, none.HasStatus())
}

// 测试聚合指标 - 成功率空集为 100
func TestAggregateMetrics_SuccessRate(t *testing.T) {
	empty := &AggregateMetrics{}
	assert.Equal(t, 100.0, empty.SuccessRatePct())

	half := &AggregateMetrics{TotalRequests: 10, SuccessfulRequests: 5}
	assert.Equal(t, 50.0, half.SuccessRatePct())
}
