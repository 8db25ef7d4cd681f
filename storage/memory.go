/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\storage\memory.go
 * @Description: 内存环形缓冲存储 - 固定容量，满后淘汰最旧明细
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package storage

import (
	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
)

// DefaultMemoryCapacity 默认环形缓冲容量
const DefaultMemoryCapacity = 100000

// 接近容量上限的预警水位
const nearCapacityRatio = 0.95

// MemoryStorage 内存环形缓冲存储
// 写满后覆盖最旧记录，统计精度不受影响（聚合指标走流式累加器），
// 仅原始明细会丢失最早的部分
type MemoryStorage struct {
	mu            *syncx.RWLock
	buf           []*types.RequestResult
	head          int // 下一个写入位置
	full          bool
	capacity      int
	overflow      *syncx.Uint64
	warnedNearCap bool
	warnedEvict   bool
	logger        logger.ILogger
}

// NewMemoryStorage 创建内存存储，capacity <= 0 时使用默认容量
func NewMemoryStorage(capacity int, log logger.ILogger) *MemoryStorage {
	if capacity <= 0 {
		capacity = DefaultMemoryCapacity
	}
	if log == nil {
		log = logger.Default
	}
	return &MemoryStorage{
		mu:       syncx.NewRWLock(),
		buf:      make([]*types.RequestResult, 0, capacity),
		capacity: capacity,
		overflow: syncx.NewUint64(0),
		logger:   log,
	}
}

// Write 写入一条明细，容量满后覆盖最旧记录
func (s *MemoryStorage) Write(result *types.RequestResult) {
	if result == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.full {
		s.buf = append(s.buf, result)
		if len(s.buf) == s.capacity {
			s.full = true
		}
		if !s.warnedNearCap && float64(len(s.buf)) >= float64(s.capacity)*nearCapacityRatio {
			s.warnedNearCap = true
			s.logger.Warnf("⚠️  明细缓冲已达容量 %d 的 95%%，写满后将淘汰最旧记录", s.capacity)
		}
		return
	}

	if !s.warnedEvict {
		s.warnedEvict = true
		s.logger.Warnf("⚠️  明细缓冲已满（容量 %d），开始淘汰最旧记录，聚合统计不受影响", s.capacity)
	}
	s.buf[s.head] = result
	s.head = (s.head + 1) % s.capacity
	s.overflow.Add(1)
}

// Snapshot 返回按时间顺序（旧→新）排列的明细副本
func (s *MemoryStorage) Snapshot() []*types.RequestResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.full {
		out := make([]*types.RequestResult, len(s.buf))
		copy(out, s.buf)
		return out
	}
	out := make([]*types.RequestResult, 0, s.capacity)
	out = append(out, s.buf[s.head:]...)
	out = append(out, s.buf[:s.head]...)
	return out
}

// Len 当前保留的明细条数
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.buf)
}

// OverflowCount 被淘汰的明细条数
func (s *MemoryStorage) OverflowCount() uint64 {
	return s.overflow.Load()
}

// Capacity 环形缓冲容量
func (s *MemoryStorage) Capacity() int {
	return s.capacity
}

// Close 内存存储无资源需要释放
func (s *MemoryStorage) Close() error {
	return nil
}
