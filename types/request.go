/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\request.go
 * @Description: 解析后的请求定义 - 发送前预处理缓存
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import (
	"strings"
	"sync"
)

// DefaultContentType 带请求体但未声明 Content-Type 时的默认值
const DefaultContentType = "application/json"

// ParsedRequest 解析后的请求定义（来自 Postman 集合或手动指定）
// Body 为空字符串表示无请求体
type ParsedRequest struct {
	Name       string            // 请求名称
	Method     string            // HTTP 方法（大写）
	URL        string            // 完整 URL（变量已解析）
	Headers    map[string]string // 原始请求头
	Body       string            // 请求体文本
	FolderPath string            // Postman 目录路径（如 "用户/登录"）

	prepOnce sync.Once
	prepared map[string]string // 预处理后的请求头
	bodyData []byte            // 预编码请求体
}

// prepare 预处理请求头与请求体，仅执行一次
// 发压热路径上直接复用缓存，避免每次请求重复拼装
func (r *ParsedRequest) prepare() {
	headers := make(map[string]string, len(r.Headers)+1)
	for k, v := range r.Headers {
		headers[k] = v
	}
	if r.Body != "" {
		hasContentType := false
		for k := range r.Headers {
			if strings.EqualFold(k, "Content-Type") {
				hasContentType = true
				break
			}
		}
		if !hasContentType {
			headers["Content-Type"] = DefaultContentType
		}
		r.bodyData = []byte(r.Body)
	}
	r.prepared = headers
}

// PreparedHeaders 返回预处理后的请求头（含默认 Content-Type 补全）
// 返回值为共享缓存，调用方不可修改
func (r *ParsedRequest) PreparedHeaders() map[string]string {
	r.prepOnce.Do(r.prepare)
	return r.prepared
}

// BodyBytes 返回预编码的请求体字节，无请求体时为 nil
func (r *ParsedRequest) BodyBytes() []byte {
	r.prepOnce.Do(r.prepare)
	return r.bodyData
}

// HasBody 是否携带请求体
func (r *ParsedRequest) HasBody() bool {
	return r.Body != ""
}
