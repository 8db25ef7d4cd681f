/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-20 11:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\types\errors.go
 * @Description: 分层错误类型 - 配置、集合解析、运行期
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package types

import "fmt"

// ConfigError 配置加载或校验错误
type ConfigError struct {
	Message string
	Cause   error
}

// NewConfigError 创建配置错误
func NewConfigError(format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...)}
}

// WrapConfigError 包装底层错误为配置错误
func WrapConfigError(cause error, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// CollectionError Postman 集合解析错误
type CollectionError struct {
	Message string
	Cause   error
}

// NewCollectionError 创建集合解析错误
func NewCollectionError(format string, args ...interface{}) *CollectionError {
	return &CollectionError{Message: fmt.Sprintf(format, args...)}
}

// WrapCollectionError 包装底层错误为集合解析错误
func WrapCollectionError(cause error, format string, args ...interface{}) *CollectionError {
	return &CollectionError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *CollectionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CollectionError) Unwrap() error { return e.Cause }

// RunnerError 运行期错误（无可执行请求、存储初始化失败等）
type RunnerError struct {
	Message string
	Cause   error
}

// NewRunnerError 创建运行期错误
func NewRunnerError(format string, args ...interface{}) *RunnerError {
	return &RunnerError{Message: fmt.Sprintf(format, args...)}
}

// WrapRunnerError 包装底层错误为运行期错误
func WrapRunnerError(cause error, format string, args ...interface{}) *RunnerError {
	return &RunnerError{Message: fmt.Sprintf(format, args...), Cause: cause}
}

func (e *RunnerError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *RunnerError) Unwrap() error { return e.Cause }
