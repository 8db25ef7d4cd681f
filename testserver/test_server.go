/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-25 14:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\testserver\test_server.go
 * @Description: 测试服务器 - 可控延迟/错误注入，用于验证负载与压力测试行为
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
	Service   string `json:"service"`
}

type EchoResponse struct {
	RequestID string            `json:"request_id"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	Headers   map[string]string `json:"headers"`
	Body      json.RawMessage   `json:"body,omitempty"`
}

var requestCount atomic.Uint64

func main() {
	http.HandleFunc("/api/health", handleHealth)
	http.HandleFunc("/api/echo", handleEcho)
	http.HandleFunc("/api/slow", handleSlow)
	http.HandleFunc("/api/error", handleError)
	http.HandleFunc("/api/flaky", handleFlaky)
	http.HandleFunc("/api/degrade", handleDegrade)

	fmt.Println("🚀 测试服务器启动在 http://localhost:3000")
	fmt.Println("   - /api/health               健康检查")
	fmt.Println("   - /api/echo                 回显请求")
	fmt.Println("   - /api/slow?ms=200          固定延迟")
	fmt.Println("   - /api/error?code=500       指定状态码")
	fmt.Println("   - /api/flaky?rate=0.1       按比例随机失败")
	fmt.Println("   - /api/degrade?per=1000     随请求量递增延迟")
	log.Fatal(http.ListenAndServe(":3000", nil))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Unix(),
		Service:   "deli-testserver",
	})
}

// handleEcho 回显请求方法、路径、请求头与请求体
func handleEcho(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	headers := make(map[string]string, len(r.Header))
	for key := range r.Header {
		headers[key] = r.Header.Get(key)
	}

	var body json.RawMessage
	if r.Body != nil {
		decoder := json.NewDecoder(r.Body)
		if err := decoder.Decode(&body); err != nil {
			body = nil
		}
	}

	resp := EchoResponse{
		RequestID: uuid.New().String(),
		Method:    r.Method,
		Path:      r.URL.Path,
		Headers:   headers,
		Body:      body,
	}
	json.NewEncoder(w).Encode(resp)
}

// handleSlow 按 ms 参数延迟后返回，默认 100ms
func handleSlow(w http.ResponseWriter, r *http.Request) {
	ms := queryInt(r, "ms", 100)
	time.Sleep(time.Duration(ms) * time.Millisecond)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"delayed_ms": ms,
		"timestamp":  time.Now().Unix(),
	})
}

// handleError 按 code 参数返回指定状态码，默认 500
func handleError(w http.ResponseWriter, r *http.Request) {
	code := queryInt(r, "code", http.StatusInternalServerError)
	if code < 400 || code > 599 {
		code = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf("injected error %d", code),
	})
}

// handleFlaky 按 rate 参数（0~1）随机返回 503，默认 0.1
func handleFlaky(w http.ResponseWriter, r *http.Request) {
	rate := 0.1
	if raw := r.URL.Query().Get("rate"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil && parsed >= 0 && parsed <= 1 {
			rate = parsed
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if rand.Float64() < rate {
		w.WriteHeader(http.StatusServiceUnavailable)
		json.NewEncoder(w).Encode(map[string]string{"error": "flaky failure"})
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// handleDegrade 模拟过载：每累计 per 个请求延迟增加 10ms
// 压力测试的拐点检测可用它稳定复现非线性劣化
func handleDegrade(w http.ResponseWriter, r *http.Request) {
	per := queryInt(r, "per", 1000)
	if per <= 0 {
		per = 1000
	}

	count := requestCount.Add(1)
	delay := time.Duration(count/uint64(per)) * 10 * time.Millisecond
	if delay > 5*time.Second {
		delay = 5 * time.Second
	}
	time.Sleep(delay)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"request_count": count,
		"delayed_ms":    delay.Milliseconds(),
	})
}

// queryInt 解析整型查询参数，缺省或非法取默认值
func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
