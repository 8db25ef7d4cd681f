/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-22 15:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\statistics\report_html.go
 * @Description: HTML 报告导出 - 自包含单文件
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package statistics

import (
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"time"

	"github.com/kamalyes/go-deli/types"
)

// htmlReportData 模板数据
type htmlReportData struct {
	Meta        *ReportMeta
	Agg         *types.AggregateMetrics
	SuccessRate float64
	Endpoints   map[string]*types.AggregateMetrics
	TimeSeries  []types.TimeSeriesPoint
	GeneratedAt string
}

const htmlReportTemplate = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="UTF-8">
<title>压测报告 - {{.Meta.CollectionName}}</title>
<style>
body { font-family: "Helvetica Neue", Arial, sans-serif; margin: 0; background: #f5f6fa; color: #2f3542; }
.container { max-width: 1100px; margin: 0 auto; padding: 24px; }
h1 { font-size: 22px; } h2 { font-size: 17px; margin-top: 32px; }
.meta { color: #747d8c; font-size: 13px; }
.cards { display: flex; flex-wrap: wrap; gap: 12px; margin-top: 16px; }
.card { background: #fff; border-radius: 8px; padding: 14px 20px; min-width: 130px; box-shadow: 0 1px 3px rgba(0,0,0,.08); }
.card .label { font-size: 12px; color: #747d8c; }
.card .value { font-size: 20px; font-weight: 600; margin-top: 4px; }
.card.bad .value { color: #e84118; }
.card.good .value { color: #44bd32; }
table { border-collapse: collapse; width: 100%; background: #fff; margin-top: 10px; font-size: 13px; }
th, td { border: 1px solid #dfe4ea; padding: 7px 10px; text-align: left; }
th { background: #f1f2f6; }
.violation { color: #e84118; }
</style>
</head>
<body>
<div class="container">
<h1>📊 压测报告 - {{.Meta.CollectionName}}</h1>
<p class="meta">运行ID: {{.Meta.RunID}} ｜ 场景: {{.Meta.Scenario}} ｜
{{.Meta.StartTime.Format "2006-01-02 15:04:05"}} ~ {{.Meta.EndTime.Format "15:04:05"}} ｜
生成时间: {{.GeneratedAt}}</p>

<div class="cards">
<div class="card"><div class="label">总请求数</div><div class="value">{{.Agg.TotalRequests}}</div></div>
<div class="card good"><div class="label">成功率</div><div class="value">{{printf "%.2f%%" .SuccessRate}}</div></div>
<div class="card"><div class="label">TPS</div><div class="value">{{printf "%.1f" .Agg.TPS}}</div></div>
<div class="card"><div class="label">平均耗时</div><div class="value">{{printf "%.1fms" .Agg.AvgResponseTimeMs}}</div></div>
<div class="card"><div class="label">P95</div><div class="value">{{printf "%.1fms" .Agg.P95Ms}}</div></div>
<div class="card"><div class="label">P99</div><div class="value">{{printf "%.1fms" .Agg.P99Ms}}</div></div>
<div class="card{{if gt .Agg.ErrorRatePct 0.0}} bad{{end}}"><div class="label">错误率</div><div class="value">{{printf "%.2f%%" .Agg.ErrorRatePct}}</div></div>
<div class="card"><div class="label">Apdex</div><div class="value">{{printf "%.3f" .Agg.ApdexScore}}</div></div>
</div>

{{if .Meta.SLAViolations}}
<h2>❌ SLA 违规</h2>
<ul>{{range .Meta.SLAViolations}}<li class="violation">{{.}}</li>{{end}}</ul>
{{end}}

{{if .Agg.StatusCodeCounts}}
<h2>🌐 状态码分布</h2>
<table><tr><th>状态码</th><th>次数</th></tr>
{{range $code, $count := .Agg.StatusCodeCounts}}<tr><td>{{$code}}</td><td>{{$count}}</td></tr>{{end}}
</table>
{{end}}

{{if .Agg.TopErrors}}
<h2>💥 高频错误</h2>
<table><tr><th>错误</th><th>次数</th></tr>
{{range .Agg.TopErrors}}<tr><td>{{.Message}}</td><td>{{.Count}}</td></tr>{{end}}
</table>
{{end}}

{{if .Endpoints}}
<h2>🧩 端点统计</h2>
<table><tr><th>端点</th><th>请求数</th><th>TPS</th><th>平均</th><th>P95</th><th>错误率</th></tr>
{{range $name, $m := .Endpoints}}
<tr><td>{{$name}}</td><td>{{$m.TotalRequests}}</td><td>{{printf "%.2f" $m.TPS}}</td>
<td>{{printf "%.1fms" $m.AvgResponseTimeMs}}</td><td>{{printf "%.1fms" $m.P95Ms}}</td>
<td>{{printf "%.2f%%" $m.ErrorRatePct}}</td></tr>
{{end}}
</table>
{{end}}

{{if .Meta.Stress}}
<h2>🔥 压力阶段</h2>
<table><tr><th>阶段</th><th>并发</th><th>请求数</th><th>TPS</th><th>P95</th><th>P99</th><th>错误率</th><th>超时率</th><th>结果</th></tr>
{{range .Meta.Stress.Phases}}
<tr><td>{{.Phase}} ({{.Label}})</td><td>{{.Users}}</td><td>{{.TotalRequests}}</td>
<td>{{printf "%.2f" .TPS}}</td><td>{{printf "%.1fms" .P95Ms}}</td><td>{{printf "%.1fms" .P99Ms}}</td>
<td>{{printf "%.2f%%" .ErrorRatePct}}</td><td>{{printf "%.2f%%" .TimeoutRatePct}}</td>
<td>{{if .ThresholdExceeded}}❌ {{.ExceededReason}}{{else}}✅{{end}}</td></tr>
{{end}}
</table>
{{end}}

{{if .TimeSeries}}
<h2>📈 每秒趋势</h2>
<table><tr><th>秒</th><th>请求数</th><th>TPS</th><th>平均</th><th>P95</th><th>错误率</th></tr>
{{range .TimeSeries}}
<tr><td>{{.OffsetSeconds}}</td><td>{{.Requests}}</td><td>{{printf "%.1f" .TPS}}</td>
<td>{{printf "%.1fms" .AvgMs}}</td><td>{{printf "%.1fms" .P95Ms}}</td>
<td>{{printf "%.2f%%" .ErrorRatePct}}</td></tr>
{{end}}
</table>
{{end}}

</div>
</body>
</html>`

// WriteHTMLReport 生成自包含 HTML 报告
func WriteHTMLReport(path string, c *Collector, meta *ReportMeta) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建报告目录失败: %w", err)
	}

	tmpl, err := template.New("report").Parse(htmlReportTemplate)
	if err != nil {
		return fmt.Errorf("解析报告模板失败: %w", err)
	}

	data := &htmlReportData{
		Meta:        meta,
		Agg:         c.FullAggregate(false),
		Endpoints:   c.EndpointAggregates(),
		TimeSeries:  c.TimeSeries(),
		GeneratedAt: time.Now().Format(time.DateTime),
	}
	data.SuccessRate = data.Agg.SuccessRatePct()

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建报告文件失败: %w", err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, data); err != nil {
		return fmt.Errorf("渲染报告失败: %w", err)
	}
	return nil
}
