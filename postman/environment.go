/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 09:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\postman\environment.go
 * @Description: Postman 环境文件解析 - 变量键值提取
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package postman

import (
	"encoding/json"
	"os"

	"github.com/kamalyes/go-deli/types"
)

// environmentFile Postman 环境导出文件结构
type environmentFile struct {
	Name   string          `json:"name"`
	Values []variableEntry `json:"values"`
}

// LoadEnvironment 加载 Postman 环境文件，返回启用的变量键值对
func LoadEnvironment(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapCollectionError(err, "读取环境文件失败: %s", path)
	}

	var env environmentFile
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, types.WrapCollectionError(err, "解析环境文件失败: %s", path)
	}

	vars := make(map[string]string, len(env.Values))
	for _, v := range env.Values {
		if v.Disabled || (v.Enabled != nil && !*v.Enabled) {
			continue
		}
		vars[v.Key] = v.Value
	}
	return vars, nil
}
