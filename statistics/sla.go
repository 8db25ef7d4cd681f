/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\sla.go
 * @Description: SLA 阈值检查 - 生成违规描述列表
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"fmt"

	"github.com/kamalyes/go-deli/types"
)

// CheckSLA 对照运行配置的 SLA 阈值检查聚合指标
// 按 P95 → P99 → 错误率 的顺序收集全部违规项，无违规返回 nil
func CheckSLA(agg *types.AggregateMetrics, cfg *types.RunConfig) []string {
	if agg == nil || cfg == nil || !cfg.HasSLA() {
		return nil
	}

	var violations []string
	if cfg.SLAP95Ms != nil && agg.P95Ms > *cfg.SLAP95Ms {
		violations = append(violations,
			fmt.Sprintf("P95 response time %.1fms exceeds SLA %.1fms", agg.P95Ms, *cfg.SLAP95Ms))
	}
	if cfg.SLAP99Ms != nil && agg.P99Ms > *cfg.SLAP99Ms {
		violations = append(violations,
			fmt.Sprintf("P99 response time %.1fms exceeds SLA %.1fms", agg.P99Ms, *cfg.SLAP99Ms))
	}
	if cfg.SLAErrorRatePct != nil && agg.ErrorRatePct > *cfg.SLAErrorRatePct {
		violations = append(violations,
			fmt.Sprintf("Error rate %.2f%% exceeds SLA %.2f%%", agg.ErrorRatePct, *cfg.SLAErrorRatePct))
	}
	return violations
}
