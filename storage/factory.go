/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 11:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\storage\factory.go
 * @Description: 存储工厂 - 统一创建不同类型的明细存储
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package storage

import (
	"fmt"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
)

// Config 存储配置
type Config struct {
	Mode     types.StorageMode // 存储类型
	Path     string            // 存储路径（sqlite）
	Capacity int               // 内存模式容量，0 使用默认值
}

// Factory 存储工厂
type Factory struct {
	logger logger.ILogger
}

// NewFactory 创建存储工厂
func NewFactory(log logger.ILogger) *Factory {
	if log == nil {
		log = logger.Default
	}
	return &Factory{logger: log}
}

// Create 创建存储实例，SQLite 初始化失败时回退到内存存储
func (f *Factory) Create(config *Config) (Interface, error) {
	if config == nil {
		config = &Config{Mode: types.StorageModeMemory}
	}

	switch config.Mode {
	case types.StorageModeSQLite:
		if config.Path == "" {
			return nil, fmt.Errorf("SQLite 存储需要指定 path 参数")
		}
		f.logger.Infof("🗄️  创建 SQLite 存储: %s", config.Path)
		s, err := NewSQLiteStorage(config.Path, f.logger)
		if err != nil {
			f.logger.Warnf("⚠️  SQLite 存储创建失败，回退到内存存储: %v", err)
			return NewMemoryStorage(config.Capacity, f.logger), nil
		}
		return s, nil

	case types.StorageModeMemory, "":
		return NewMemoryStorage(config.Capacity, f.logger), nil

	default:
		return nil, fmt.Errorf("不支持的存储类型: %s (支持: memory, sqlite)", config.Mode)
	}
}
