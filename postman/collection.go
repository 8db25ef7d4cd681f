/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\postman\collection.go
 * @Description: Postman Collection v2.1 解析器 - 递归展开目录、变量替换
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package postman

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
)

// 变量占位符 {{var}}
var varPattern = regexp.MustCompile(`\{\{([^{}]+)\}\}`)

// collectionFile Postman 集合文件顶层结构
type collectionFile struct {
	Info struct {
		Name   string `json:"name"`
		Schema string `json:"schema"`
	} `json:"info"`
	Item     []collectionItem `json:"item"`
	Variable []variableEntry  `json:"variable"`
}

// collectionItem 集合条目：请求或嵌套目录
type collectionItem struct {
	Name    string           `json:"name"`
	Request *itemRequest     `json:"request"`
	Item    []collectionItem `json:"item"`
}

type itemRequest struct {
	Method string          `json:"method"`
	URL    json.RawMessage `json:"url"`
	Header []itemHeader    `json:"header"`
	Body   *itemBody       `json:"body"`
}

type itemHeader struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Disabled bool   `json:"disabled"`
}

type itemBody struct {
	Mode string `json:"mode"`
	Raw  string `json:"raw"`
}

// urlObject 对象形式的 URL（v2.1 允许字符串或对象）
type urlObject struct {
	Raw      string          `json:"raw"`
	Protocol string          `json:"protocol"`
	Host     json.RawMessage `json:"host"`
	Port     string          `json:"port"`
	Path     json.RawMessage `json:"path"`
	Query    []struct {
		Key      string `json:"key"`
		Value    string `json:"value"`
		Disabled bool   `json:"disabled"`
	} `json:"query"`
}

type variableEntry struct {
	Key      string `json:"key"`
	Value    string `json:"value"`
	Enabled  *bool  `json:"enabled"`
	Disabled bool   `json:"disabled"`
}

// Collection 解析后的集合
type Collection struct {
	Name     string
	Requests []*types.ParsedRequest
}

// LoadCollection 加载并解析 Postman 集合文件
// 若同目录存在 <集合名>_env.json（Postman 环境导出格式）会自动载入，
// vars 为外部变量（环境文件、命令行覆盖），优先级高于自动载入与集合内置变量
func LoadCollection(path string, vars map[string]string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapCollectionError(err, "读取集合文件失败: %s", path)
	}

	merged := siblingEnvVars(path)
	for k, v := range vars {
		merged[k] = v
	}

	col, err := ParseCollection(data, merged)
	if err != nil {
		return nil, err
	}
	if col.Name == "" {
		col.Name = collectionNameFromPath(path)
	}
	return col, nil
}

// ParseCollection 解析集合 JSON 内容
func ParseCollection(data []byte, vars map[string]string) (*Collection, error) {
	var file collectionFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, types.WrapCollectionError(err, "解析集合 JSON 失败")
	}

	// 集合内置变量打底，外部变量覆盖
	merged := make(map[string]string, len(file.Variable)+len(vars))
	for _, v := range file.Variable {
		if v.Disabled || (v.Enabled != nil && !*v.Enabled) {
			continue
		}
		merged[v.Key] = v.Value
	}
	for k, v := range vars {
		merged[k] = v
	}

	col := &Collection{Name: file.Info.Name}
	walkItems(file.Item, nil, merged, &col.Requests)
	if len(col.Requests) == 0 {
		return nil, types.NewCollectionError("集合中没有可执行的请求")
	}
	return col, nil
}

// walkItems 深度优先展开目录树，保持集合内的出现顺序
func walkItems(items []collectionItem, folders []string, vars map[string]string, out *[]*types.ParsedRequest) {
	for _, item := range items {
		if item.Request != nil {
			if req := buildRequest(item, folders, vars); req != nil {
				*out = append(*out, req)
			}
			continue
		}
		if len(item.Item) > 0 {
			walkItems(item.Item, append(folders, item.Name), vars, out)
		}
	}
}

// buildRequest 将单个条目转换为 ParsedRequest，URL 为空的条目跳过
func buildRequest(item collectionItem, folders []string, vars map[string]string) *types.ParsedRequest {
	rawURL := decodeURL(item.Request.URL)
	if rawURL == "" {
		return nil
	}

	headers := make(map[string]string, len(item.Request.Header))
	for _, h := range item.Request.Header {
		if h.Disabled || h.Key == "" {
			continue
		}
		headers[ResolveVars(h.Key, vars)] = ResolveVars(h.Value, vars)
	}

	body := ""
	if item.Request.Body != nil && item.Request.Body.Mode == "raw" {
		body = ResolveVars(item.Request.Body.Raw, vars)
	}

	method := strings.ToUpper(strings.TrimSpace(item.Request.Method))
	if method == "" {
		method = "GET"
	}

	return &types.ParsedRequest{
		Name:       item.Name,
		Method:     method,
		URL:        ResolveVars(rawURL, vars),
		Headers:    headers,
		Body:       body,
		FolderPath: strings.Join(folders, "/"),
	}
}

// decodeURL 兼容字符串与对象两种 URL 形态
func decodeURL(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}

	var obj urlObject
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	if obj.Raw != "" {
		return strings.TrimSpace(obj.Raw)
	}

	host := strings.Join(decodeStringOrSlice(obj.Host), ".")
	if host == "" {
		return ""
	}
	var sb strings.Builder
	if obj.Protocol != "" {
		sb.WriteString(obj.Protocol)
		sb.WriteString("://")
	}
	sb.WriteString(host)
	if obj.Port != "" {
		sb.WriteString(":")
		sb.WriteString(obj.Port)
	}
	if path := strings.Join(decodeStringOrSlice(obj.Path), "/"); path != "" {
		sb.WriteString("/")
		sb.WriteString(path)
	}
	var query []string
	for _, q := range obj.Query {
		if q.Disabled {
			continue
		}
		query = append(query, q.Key+"="+q.Value)
	}
	if len(query) > 0 {
		sb.WriteString("?")
		sb.WriteString(strings.Join(query, "&"))
	}
	return sb.String()
}

// decodeStringOrSlice 兼容 "host" 与 ["api", "example", "com"] 两种形态
func decodeStringOrSlice(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if s == "" {
			return nil
		}
		return []string{s}
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	return nil
}

// ResolveVars 替换 {{var}} 占位符，未定义的变量原样保留
func ResolveVars(s string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(s, "{{") {
		return s
	}
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := strings.TrimSpace(match[2 : len(match)-2])
		if v, ok := vars[key]; ok {
			return v
		}
		return match
	})
}

// collectionNameFromPath 从文件名推导集合名（去扩展名）
func collectionNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// siblingEnvVars 自动载入集合旁的 <集合名>_env.json 环境文件
// 文件不存在或格式错误时静默降级为空变量集
func siblingEnvVars(collectionPath string) map[string]string {
	base := filepath.Base(collectionPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	envPath := filepath.Join(filepath.Dir(collectionPath), stem+"_env.json")

	if _, err := os.Stat(envPath); err != nil {
		return map[string]string{}
	}
	vars, err := LoadEnvironment(envPath)
	if err != nil {
		logger.Default.Debugf("📄 环境文件 %s 载入失败，忽略: %v", envPath, err)
		return map[string]string{}
	}
	logger.Default.Infof("🌍 自动载入环境文件: %s（%d 个变量）", envPath, len(vars))
	return vars
}
