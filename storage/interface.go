/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\storage\interface.go
 * @Description: 请求明细存储接口定义
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package storage

import "github.com/kamalyes/go-deli/types"

// Interface 请求明细存储接口（统一内存环形缓冲与 SQLite 实现）
type Interface interface {
	// Write 写入一条请求明细
	Write(result *types.RequestResult)

	// Snapshot 按写入顺序（旧→新）返回当前保留的全部明细副本
	Snapshot() []*types.RequestResult

	// Len 当前保留的明细条数
	Len() int

	// OverflowCount 因容量上限被淘汰的明细条数
	OverflowCount() uint64

	// Close 关闭存储并释放资源
	Close() error
}
