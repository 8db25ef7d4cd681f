/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 15:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\report_junit.go
 * @Description: JUnit XML 报告导出 - CI 流水线集成
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kamalyes/go-deli/types"
)

// junitTestSuite JUnit XML 结构
type junitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Time      string          `xml:"time,attr"`
	Timestamp string          `xml:"timestamp,attr"`
	Cases     []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitFailure `xml:"failure,omitempty"`
}

type junitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

// WriteJUnitReport 导出 JUnit XML 报告
// 每个端点一个 testcase，SLA 违规单独生成失败用例
func WriteJUnitReport(path string, c *Collector, meta *ReportMeta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	agg := c.FullAggregate(false)
	endpoints := c.EndpointAggregates()

	suite := junitTestSuite{
		Name:      "go-deli: " + meta.CollectionName,
		Timestamp: meta.StartTime.Format("2006-01-02T15:04:05"),
		Time:      fmt.Sprintf("%.3f", agg.DurationSeconds),
	}

	for name, m := range endpoints {
		tc := junitTestCase{
			Name:      name,
			ClassName: meta.CollectionName,
			Time:      fmt.Sprintf("%.3f", m.AvgResponseTimeMs/1000.0),
		}
		if m.FailedRequests > 0 {
			tc.Failure = &junitFailure{
				Message: fmt.Sprintf("%d/%d requests failed", m.FailedRequests, m.TotalRequests),
				Content: formatTopErrors(m),
			}
		}
		suite.Cases = append(suite.Cases, tc)
	}

	for _, v := range meta.SLAViolations {
		suite.Cases = append(suite.Cases, junitTestCase{
			Name:      "SLA: " + v,
			ClassName: meta.CollectionName,
			Time:      "0",
			Failure:   &junitFailure{Message: v},
		})
	}

	suite.Tests = len(suite.Cases)
	for _, tc := range suite.Cases {
		if tc.Failure != nil {
			suite.Failures++
		}
	}

	data, err := xml.MarshalIndent(suite, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化 JUnit 报告失败: %w", err)
	}
	content := append([]byte(xml.Header), data...)
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("写入 JUnit 报告失败: %w", err)
	}
	return nil
}

func formatTopErrors(m *types.AggregateMetrics) string {
	out := ""
	for _, e := range m.TopErrors {
		out += fmt.Sprintf("%s (x%d)\n", e.Message, e.Count)
	}
	return out
}
