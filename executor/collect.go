/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-23 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\collect.go
 * @Description: 结果消费 - 哨兵计数、批量摄入统计收集器
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"sync/atomic"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/statistics"
	"github.com/kamalyes/go-deli/types"
)

const (
	consumerPollInterval = 100 * time.Millisecond
	consumerBatchLimit   = 1000
)

// CollectResults 阻塞消费队列直到收到 expectedSentinels 个 nil 哨兵
// 返回全部非哨兵结果（简单场景与测试用；大规模压测走 Consumer）
func CollectResults(queue <-chan *types.RequestResult, expectedSentinels int) []*types.RequestResult {
	var results []*types.RequestResult
	seen := 0
	for seen < expectedSentinels {
		item := <-queue
		if item == nil {
			seen++
			continue
		}
		results = append(results, item)
	}
	return results
}

// Consumer 后台结果消费者
// 批量汲取队列并摄入收集器，通过哨兵计数感知 worker 全部退出
type Consumer struct {
	queue     <-chan *types.RequestResult
	collector *statistics.Collector
	logger    logger.ILogger

	sentinels atomic.Uint64
	expected  atomic.Int64 // -1 表示尚未设定
	done      chan struct{}
}

// NewConsumer 创建结果消费者
func NewConsumer(queue <-chan *types.RequestResult, collector *statistics.Collector, log logger.ILogger) *Consumer {
	if log == nil {
		log = logger.Default
	}
	c := &Consumer{
		queue:     queue,
		collector: collector,
		logger:    log,
		done:      make(chan struct{}),
	}
	c.expected.Store(-1)
	return c
}

// Start 启动后台消费循环
func (c *Consumer) Start() {
	go c.loop()
}

// loop 主消费循环：收一条后非阻塞汲取一批，减少锁竞争
func (c *Consumer) loop() {
	defer close(c.done)

	batch := make([]*types.RequestResult, 0, consumerBatchLimit)
	for {
		select {
		case item := <-c.queue:
			c.take(item, &batch)
		drain:
			for len(batch) < consumerBatchLimit {
				select {
				case item := <-c.queue:
					c.take(item, &batch)
				default:
					break drain
				}
			}
		case <-time.After(consumerPollInterval):
		}

		if len(batch) > 0 {
			c.collector.AddBatch(batch)
			batch = batch[:0]
		}

		if exp := c.expected.Load(); exp >= 0 && c.sentinels.Load() >= uint64(exp) {
			return
		}
	}
}

func (c *Consumer) take(item *types.RequestResult, batch *[]*types.RequestResult) {
	if item == nil {
		c.sentinels.Add(1)
		return
	}
	*batch = append(*batch, item)
}

// Finish 设定预期哨兵数（所有 worker 启动完成后调用）
func (c *Consumer) Finish(expectedSentinels int) {
	c.expected.Store(int64(expectedSentinels))
}

// Wait 等待消费循环结束，超时返回错误
func (c *Consumer) Wait(timeout time.Duration) error {
	select {
	case <-c.done:
		return nil
	case <-time.After(timeout):
		return types.NewRunnerError("等待结果消费超时（已收哨兵 %d/%d）",
			c.sentinels.Load(), c.expected.Load())
	}
}

// SentinelCount 已收到的哨兵数
func (c *Consumer) SentinelCount() uint64 {
	return c.sentinels.Load()
}
