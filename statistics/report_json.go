/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 15:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\report_json.go
 * @Description: JSON 报告导出 - 机器可读的完整结果
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/kamalyes/go-deli/types"
)

// jsonReport JSON 报告结构
type jsonReport struct {
	RunID          string                             `json:"run_id"`
	CollectionName string                             `json:"collection_name"`
	Scenario       string                             `json:"scenario"`
	StartTime      string                             `json:"start_time"`
	EndTime        string                             `json:"end_time"`
	Summary        *types.AggregateMetrics            `json:"summary"`
	Endpoints      map[string]*types.AggregateMetrics `json:"endpoints,omitempty"`
	TimeSeries     []types.TimeSeriesPoint            `json:"time_series,omitempty"`
	SLAViolations  []string                           `json:"sla_violations,omitempty"`
	Stress         *types.StressTestResult            `json:"stress,omitempty"`
	OverflowCount  uint64                             `json:"detail_overflow_count"`
}

// WriteJSONReport 导出 JSON 报告
func WriteJSONReport(path string, c *Collector, meta *ReportMeta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	report := &jsonReport{
		RunID:          meta.RunID,
		CollectionName: meta.CollectionName,
		Scenario:       meta.Scenario,
		StartTime:      meta.StartTime.Format(time.RFC3339),
		EndTime:        meta.EndTime.Format(time.RFC3339),
		Summary:        c.FullAggregate(false),
		Endpoints:      c.EndpointAggregates(),
		TimeSeries:     c.TimeSeries(),
		SLAViolations:  meta.SLAViolations,
		Stress:         meta.Stress,
		OverflowCount:  c.OverflowCount(),
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 JSON 报告失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("写入 JSON 报告失败: %w", err)
	}
	return nil
}
