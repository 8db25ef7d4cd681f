/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 10:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\enums.go
 * @Description: 枚举类型定义 - 负载曲线、压力场景、存储模式
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import (
	"fmt"
	"strings"
)

// LoadScenario 负载曲线类型
type LoadScenario string

const (
	ScenarioConstant LoadScenario = "constant" // 恒定并发
	ScenarioGradual  LoadScenario = "gradual"  // 线性爬坡
	ScenarioSpike    LoadScenario = "spike"    // 基线+突发峰值
)

// Valid 检查负载曲线类型是否合法
func (s LoadScenario) Valid() bool {
	switch s {
	case ScenarioConstant, ScenarioGradual, ScenarioSpike:
		return true
	default:
		return false
	}
}

// String 实现 flag.Value 接口
func (s *LoadScenario) String() string {
	return string(*s)
}

// Set 实现 flag.Value 接口
func (s *LoadScenario) Set(value string) error {
	v := LoadScenario(strings.ToLower(strings.TrimSpace(value)))
	if !v.Valid() {
		return fmt.Errorf("无效的负载曲线: %s (可选: constant, gradual, spike)", value)
	}
	*s = v
	return nil
}

// StressScenario 压力测试场景类型
type StressScenario string

const (
	StressLinearOverload StressScenario = "linear_overload" // 线性递增直至过载
	StressSpike          StressScenario = "spike_stress"    // 基线→峰值→基线
	StressSoak           StressScenario = "soak_stress"     // 恒定负载浸泡
)

// Valid 检查压力场景类型是否合法
func (s StressScenario) Valid() bool {
	switch s {
	case StressLinearOverload, StressSpike, StressSoak:
		return true
	default:
		return false
	}
}

// String 实现 flag.Value 接口
func (s *StressScenario) String() string {
	return string(*s)
}

// Set 实现 flag.Value 接口
func (s *StressScenario) Set(value string) error {
	v := StressScenario(strings.ToLower(strings.TrimSpace(value)))
	if !v.Valid() {
		return fmt.Errorf("无效的压力场景: %s (可选: linear_overload, spike_stress, soak_stress)", value)
	}
	*s = v
	return nil
}

// StorageMode 请求明细存储模式
type StorageMode string

const (
	StorageModeMemory StorageMode = "memory" // 内存环形缓冲
	StorageModeSQLite StorageMode = "sqlite" // SQLite 持久化
)

// Valid 检查存储模式是否合法
func (m StorageMode) Valid() bool {
	return m == StorageModeMemory || m == StorageModeSQLite
}

// String 实现 flag.Value 接口
func (m *StorageMode) String() string {
	return string(*m)
}

// Set 实现 flag.Value 接口
func (m *StorageMode) Set(value string) error {
	v := StorageMode(strings.ToLower(strings.TrimSpace(value)))
	if !v.Valid() {
		return fmt.Errorf("无效的存储模式: %s (可选: memory, sqlite)", value)
	}
	*m = v
	return nil
}
