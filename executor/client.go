/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-23 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\client.go
 * @Description: 压测 HTTP 客户端 - 连接池调优
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"net"
	"net/http"
	"time"
)

// HTTP 客户端默认参数
const (
	DefaultMaxConnections  = 1000             // 最大连接数
	DefaultMaxKeepalive    = 200              // 最大空闲连接数
	DefaultKeepaliveExpiry = 30 * time.Second // 空闲连接过期时间
	DefaultRequestTimeout  = 30 * time.Second // 单请求超时
	dialTimeout            = 5 * time.Second
	tlsHandshakeTimeout    = 5 * time.Second
)

// ClientLimits 连接池参数，零值字段使用默认值
type ClientLimits struct {
	MaxConnections  int
	MaxKeepalive    int
	KeepaliveExpiry time.Duration
}

// NewHTTPClient 创建压测用 HTTP 客户端
// 连接池放大到压测级别，所有 worker 共享同一实例以复用连接
func NewHTTPClient(timeout time.Duration, limits *ClientLimits) *http.Client {
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	maxConns := DefaultMaxConnections
	maxKeepalive := DefaultMaxKeepalive
	keepaliveExpiry := DefaultKeepaliveExpiry
	if limits != nil {
		if limits.MaxConnections > 0 {
			maxConns = limits.MaxConnections
		}
		if limits.MaxKeepalive > 0 {
			maxKeepalive = limits.MaxKeepalive
		}
		if limits.KeepaliveExpiry > 0 {
			keepaliveExpiry = limits.KeepaliveExpiry
		}
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   dialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxConnsPerHost:     maxConns,
		MaxIdleConns:        maxKeepalive,
		MaxIdleConnsPerHost: maxKeepalive,
		IdleConnTimeout:     keepaliveExpiry,
		TLSHandshakeTimeout: tlsHandshakeTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   timeout,
	}
}
