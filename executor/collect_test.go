/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\collect_test.go
 * @Description: 结果队列消费测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"fmt"
	"testing"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/statistics"
	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(name string, success bool) *types.RequestResult {
	return &types.RequestResult{
		RequestName: name,
		Method:      "GET",
		URL:         "http://example.local/" + name,
		StatusCode:  200,
		Duration:    10 * time.Millisecond,
		Success:     success,
		Timestamp:   time.Now(),
	}
}

// 测试消费者 - 哨兵齐全后结束并吃掉全部结果
func TestConsumer_DrainsAllResults(t *testing.T) {
	queue := make(chan *types.RequestResult, 64)
	collector := statistics.NewMemoryCollector(1000, logger.Default)
	defer collector.Close()

	consumer := NewConsumer(queue, collector, logger.Default)
	consumer.Start()

	const workers = 3
	for w := 0; w < workers; w++ {
		for i := 0; i < 10; i++ {
			queue <- sampleResult(fmt.Sprintf("req-%d-%d", w, i), true)
		}
		queue <- nil // 哨兵
	}

	consumer.Finish(workers)
	require.NoError(t, consumer.Wait(5*time.Second))

	assert.Equal(t, uint64(workers), consumer.SentinelCount())
	assert.Equal(t, uint64(30), collector.TotalCount())
}

// 测试消费者 - 哨兵不足时等待超时
func TestConsumer_WaitTimeout(t *testing.T) {
	queue := make(chan *types.RequestResult, 8)
	collector := statistics.NewMemoryCollector(100, logger.Default)
	defer collector.Close()

	consumer := NewConsumer(queue, collector, logger.Default)
	consumer.Start()

	queue <- sampleResult("solo", true)
	queue <- nil

	consumer.Finish(2) // 预期 2 个哨兵但只会来 1 个
	err := consumer.Wait(300 * time.Millisecond)
	assert.Error(t, err)
}

// 测试阻塞收集 - 数到指定哨兵数为止
func TestCollectResults(t *testing.T) {
	queue := make(chan *types.RequestResult, 16)
	queue <- sampleResult("a", true)
	queue <- nil
	queue <- sampleResult("b", false)
	queue <- nil

	results := CollectResults(queue, 2)
	assert.Len(t, results, 2)
	assert.Equal(t, "a", results[0].RequestName)
	assert.Equal(t, "b", results[1].RequestName)
}
