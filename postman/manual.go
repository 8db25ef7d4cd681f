/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\postman\manual.go
 * @Description: 手动指定 URL 的请求源 - 免集合文件快速发压
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package postman

import (
	"net/url"
	"strings"

	"github.com/kamalyes/go-deli/types"
)

// BuildManualRequest 从命令行参数构造单请求列表
// URL 必须带 http/https 协议头且含主机名
func BuildManualRequest(rawURL, method string, headers map[string]string, body string) ([]*types.ParsedRequest, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, types.WrapRunnerError(err, "无效的 URL: %s", rawURL)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, types.NewRunnerError("URL 必须以 http:// 或 https:// 开头: %s", rawURL)
	}
	if parsed.Host == "" {
		return nil, types.NewRunnerError("URL 缺少主机名: %s", rawURL)
	}

	m := strings.ToUpper(strings.TrimSpace(method))
	if m == "" {
		m = "GET"
	}

	req := &types.ParsedRequest{
		Name:    m + " " + parsed.Path,
		Method:  m,
		URL:     parsed.String(),
		Headers: headers,
		Body:    body,
	}
	if parsed.Path == "" || parsed.Path == "/" {
		req.Name = m + " /"
	}
	return []*types.ParsedRequest{req}, nil
}
