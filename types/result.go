/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\result.go
 * @Description: 单次请求执行结果
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "time"

// RequestResult 单次请求的执行结果
// 传输层失败（连接拒绝、超时等）时 StatusCode 为 0，Error 记录原因；
// HTTP 层失败（4xx/5xx）时 StatusCode 正常记录，Error 为空
type RequestResult struct {
	RequestName string        // 请求名称
	FolderPath  string        // 所属目录路径
	Method      string        // HTTP 方法
	URL         string        // 请求 URL
	StatusCode  int           // HTTP 状态码，0 表示未收到响应
	Duration    time.Duration // 耗时（失败同样记录）
	BytesRead   int64         // 响应体字节数
	Success     bool          // 状态码在 [200, 400) 区间视为成功
	Error       string        // 传输错误描述
	Timestamp   time.Time     // 请求发起时刻
}

// ResponseTimeMs 返回毫秒级响应时间
func (r *RequestResult) ResponseTimeMs() float64 {
	return float64(r.Duration) / float64(time.Millisecond)
}

// HasStatus 是否收到了 HTTP 响应
func (r *RequestResult) HasStatus() bool {
	return r.StatusCode > 0
}
