/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-26 16:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\storage\sqlite_test.go
 * @Description: SQLite 明细存储测试
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 测试 SQLite 存储 - 写入后可完整读回
func TestSQLiteStorage_WriteAndSnapshot(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	s, err := NewSQLiteStorage(dbPath, logger.Default)
	require.NoError(t, err)
	defer s.Close()

	now := time.Now()
	s.Write(&types.RequestResult{
		RequestName: "登录",
		FolderPath:  "认证",
		Method:      "POST",
		URL:         "http://example.local/login",
		StatusCode:  200,
		Duration:    42 * time.Millisecond,
		Success:     true,
		Timestamp:   now,
	})
	s.Write(&types.RequestResult{
		RequestName: "超时接口",
		Method:      "GET",
		URL:         "http://example.local/slow",
		Duration:    time.Second,
		Success:     false,
		Error:       "context deadline exceeded",
		Timestamp:   now.Add(time.Second),
	})

	assert.Equal(t, 2, s.Len())

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "登录", snap[0].RequestName)
	assert.Equal(t, "认证", snap[0].FolderPath)
	assert.Equal(t, 42*time.Millisecond, snap[0].Duration)
	assert.True(t, snap[0].Success)
	assert.Equal(t, now.UnixNano(), snap[0].Timestamp.UnixNano())

	assert.False(t, snap[1].Success)
	assert.Equal(t, 0, snap[1].StatusCode)
	assert.Equal(t, "context deadline exceeded", snap[1].Error)
	assert.Equal(t, uint64(0), s.OverflowCount())
}

// 测试 SQLite 存储 - Close 幂等
func TestSQLiteStorage_CloseIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "results.db")
	s, err := NewSQLiteStorage(dbPath, logger.Default)
	require.NoError(t, err)

	assert.NoError(t, s.Close())
	assert.NoError(t, s.Close())
}
