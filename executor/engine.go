/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-23 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\engine.go
 * @Description: 单请求执行 - 思考时间、计时、结果归一化
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/kamalyes/go-deli/types"
)

// ExecuteRequest 执行单次请求，永不返回错误
// 传输失败（连接拒绝、超时、DNS 失败等）归一化为失败结果，
// HTTP 4xx/5xx 正常记录状态码；耗时只覆盖网络往返，不含思考时间
func ExecuteRequest(client *http.Client, req *types.ParsedRequest, thinkTime time.Duration) *types.RequestResult {
	if thinkTime > 0 {
		time.Sleep(thinkTime)
	}

	result := &types.RequestResult{
		RequestName: req.Name,
		FolderPath:  req.FolderPath,
		Method:      req.Method,
		URL:         req.URL,
	}

	var bodyReader io.Reader
	if body := req.BodyBytes(); body != nil {
		bodyReader = bytes.NewReader(body)
	}

	start := time.Now()
	result.Timestamp = start

	httpReq, err := http.NewRequest(req.Method, req.URL, bodyReader)
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err.Error()
		return result
	}
	for k, v := range req.PreparedHeaders() {
		httpReq.Header.Set(k, v)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		result.Duration = time.Since(start)
		result.Error = err.Error()
		return result
	}

	// 读空响应体保证连接可复用
	n, _ := io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	result.Duration = time.Since(start)
	result.StatusCode = resp.StatusCode
	result.BytesRead = n
	result.Success = resp.StatusCode >= 200 && resp.StatusCode < 400
	return result
}
