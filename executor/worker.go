/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-23 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\executor\worker.go
 * @Description: 虚拟用户 worker - 循环发压、哨兵收尾
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package executor

import (
	"context"
	"net/http"
	"time"

	"github.com/kamalyes/go-deli/types"
	"golang.org/x/sync/semaphore"
)

// 请求列表为空时的等待间隔
const emptyRequestsPause = 100 * time.Millisecond

// WorkerConfig 单个 worker 的运行参数
type WorkerConfig struct {
	ID         int                    // worker 序号
	Client     *http.Client           // 共享 HTTP 客户端
	Requests   []*types.ParsedRequest // 轮询的请求列表
	ThinkTime  time.Duration          // 请求间思考时间
	Iterations int                    // 完整轮数上限，0 表示不限
	Limiter    *semaphore.Weighted    // 全局在途请求限流器，可为 nil
	Queue      chan<- *types.RequestResult
}

// RunWorker 虚拟用户主循环
// 按顺序轮询请求列表；退出前必然向队列投递一个 nil 哨兵，
// 取消信号只在请求间检查，在途请求跑完才退出
func RunWorker(ctx context.Context, cfg WorkerConfig) {
	defer func() {
		// 哨兵必达：消费者依赖哨兵计数判断所有 worker 结束
		cfg.Queue <- nil
	}()

	idx := 0
	cycles := 0
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if len(cfg.Requests) == 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(emptyRequestsPause):
			}
			continue
		}

		req := cfg.Requests[idx]
		var result *types.RequestResult
		if cfg.Limiter != nil {
			if err := cfg.Limiter.Acquire(ctx, 1); err != nil {
				return // 取消期间不再发新请求
			}
			result = ExecuteRequest(cfg.Client, req, cfg.ThinkTime)
			cfg.Limiter.Release(1)
		} else {
			result = ExecuteRequest(cfg.Client, req, cfg.ThinkTime)
		}

		// 队列有空位时立即入队，满时退化为阻塞投递（不丢结果）
		select {
		case cfg.Queue <- result:
		default:
			cfg.Queue <- result
		}

		idx++
		if idx >= len(cfg.Requests) {
			idx = 0
			cycles++
			if cfg.Iterations > 0 && cycles >= cfg.Iterations {
				return
			}
		}
	}
}
