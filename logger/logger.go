/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 12:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\logger\logger.go
 * @Description: go-deli 日志接口，直接复用 go-logger
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package logger

import (
	"io"
	"time"

	"github.com/kamalyes/go-logger"
)

// 类型别名
type (
	ILogger   = logger.ILogger
	LogConfig = logger.Logger
	LogLevel  = logger.LogLevel
)

// 常量别名 - 日志级别
const (
	DEBUG = logger.DEBUG
	INFO  = logger.INFO
	WARN  = logger.WARN
	ERROR = logger.ERROR
	FATAL = logger.FATAL
)

// 函数别名
var (
	NewLogger = logger.NewLogger
)

// NewRotateWriter 创建轮转文件输出器
func NewRotateWriter(filePath string, maxSize int64, maxFiles int) logger.IWriter {
	return logger.NewRotateWriter(
		logger.WithFilePath(filePath),
		logger.WithMaxSize(maxSize),
		logger.WithMaxFiles(maxFiles),
	)
}

// Default 全局默认 logger 实例
var Default logger.ILogger

func init() {
	Default = New()
}

func DefaultConfig() *LogConfig {
	config := logger.NewLogger().
		WithPrefix("[DELI] ").
		WithShowCaller(false).
		WithColorful(true).
		WithTimeFormat(time.DateTime)
	return config
}

// New 创建 logger，未指定配置时使用默认配置（带 DELI 前缀）
func New(config ...*LogConfig) *logger.Logger {
	if len(config) > 0 && config[0] != nil {
		return config[0]
	}
	return DefaultConfig()
}

// ParseLogLevel 解析日志级别字符串，非法值回退 INFO
func ParseLogLevel(value string) logger.LogLevel {
	level, err := logger.ParseLevel(value)
	if err != nil {
		return logger.INFO
	}
	return level
}

// SetDefault 设置全局默认 logger
func SetDefault(l logger.ILogger) {
	Default = l
}

// NewLoggerWithWriter 创建新日志器（便捷函数）
func NewLoggerWithWriter(prefix string, writer io.Writer) *logger.Logger {
	return logger.NewLogger().
		WithPrefix(prefix).
		WithOutput(writer)
}

// LogLevelFlag 日志级别标志（实现 flag.Value 接口）
type LogLevelFlag struct {
	Level logger.LogLevel
}

// String 返回日志级别的字符串表示（实现 flag.Value 接口）
func (f *LogLevelFlag) String() string {
	return f.Level.String()
}

// Set 从字符串设置日志级别（实现 flag.Value 接口）
func (f *LogLevelFlag) Set(value string) error {
	level, err := logger.ParseLevel(value)
	if err != nil {
		return err
	}
	f.Level = level
	return nil
}
