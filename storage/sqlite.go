/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-21 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\storage\sqlite.go
 * @Description: SQLite 持久化明细存储 - 异步批量写入（支持无限存储）
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
	"github.com/kamalyes/go-toolbox/pkg/syncx"
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteWriteChanSize = 10000
	sqliteBatchSize     = 500
	sqliteFlushInterval = 500 * time.Millisecond
)

// SQLiteStorage SQLite 持久化明细存储
// 写入走异步通道批量落库，通道满时丢弃并计数
type SQLiteStorage struct {
	db        *sql.DB
	writeChan chan *types.RequestResult
	wg        sync.WaitGroup
	mu        sync.Mutex
	closed    bool
	dropped   *syncx.Uint64
	logger    logger.ILogger
}

// NewSQLiteStorage 创建 SQLite 存储实例
func NewSQLiteStorage(dbPath string, log logger.ILogger) (*SQLiteStorage, error) {
	if log == nil {
		log = logger.Default
	}
	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("创建目录失败: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开数据库失败: %w", err)
	}

	// SQLite 仅支持单写多读
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// 优化 SQLite 性能
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = 10000",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			log.Warnf("⚠️  执行 %s 失败: %v", pragma, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS request_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		request_name TEXT,
		folder_path TEXT,
		method TEXT,
		url TEXT,
		status_code INTEGER NOT NULL,
		duration_ns INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error TEXT,
		timestamp_ns INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_results_timestamp ON request_results(timestamp_ns);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("创建表结构失败: %w", err)
	}

	s := &SQLiteStorage{
		db:        db,
		writeChan: make(chan *types.RequestResult, sqliteWriteChanSize),
		dropped:   syncx.NewUint64(0),
		logger:    log,
	}

	s.wg.Add(1)
	go s.writeLoop()

	return s, nil
}

// Write 异步写入一条明细，通道满时丢弃
func (s *SQLiteStorage) Write(result *types.RequestResult) {
	if result == nil {
		return
	}
	select {
	case s.writeChan <- result:
	default:
		if s.dropped.Add(1) == 1 {
			s.logger.Warn("⚠️  SQLite 写入通道已满，开始丢弃明细")
		}
	}
}

// writeLoop 批量落库循环
func (s *SQLiteStorage) writeLoop() {
	defer s.wg.Done()

	batch := make([]*types.RequestResult, 0, sqliteBatchSize)
	ticker := time.NewTicker(sqliteFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.flushBatch(batch); err != nil {
			s.logger.Errorf("❌ SQLite 批量写入失败: %v", err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case result, ok := <-s.writeChan:
			if !ok {
				flush()
				return
			}
			batch = append(batch, result)
			if len(batch) >= sqliteBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// flushBatch 单事务写入一批明细
func (s *SQLiteStorage) flushBatch(batch []*types.RequestResult) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO request_results
		(request_name, folder_path, method, url, status_code, duration_ns, success, error, timestamp_ns)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range batch {
		success := 0
		if r.Success {
			success = 1
		}
		if _, err := stmt.Exec(r.RequestName, r.FolderPath, r.Method, r.URL,
			r.StatusCode, int64(r.Duration), success, r.Error, r.Timestamp.UnixNano()); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// drain 等待通道排空并落库（Snapshot/Len 前调用，保证读到已写数据）
func (s *SQLiteStorage) drain() {
	for len(s.writeChan) > 0 {
		time.Sleep(10 * time.Millisecond)
	}
	// 等一个刷新周期，让批量缓冲落库
	time.Sleep(sqliteFlushInterval + 50*time.Millisecond)
}

// Snapshot 按写入顺序返回全部明细
func (s *SQLiteStorage) Snapshot() []*types.RequestResult {
	s.drain()

	rows, err := s.db.Query(`SELECT request_name, folder_path, method, url,
		status_code, duration_ns, success, error, timestamp_ns
		FROM request_results ORDER BY id`)
	if err != nil {
		s.logger.Errorf("❌ SQLite 查询失败: %v", err)
		return nil
	}
	defer rows.Close()

	var out []*types.RequestResult
	for rows.Next() {
		var r types.RequestResult
		var durationNs, timestampNs int64
		var success int
		if err := rows.Scan(&r.RequestName, &r.FolderPath, &r.Method, &r.URL,
			&r.StatusCode, &durationNs, &success, &r.Error, &timestampNs); err != nil {
			s.logger.Errorf("❌ SQLite 扫描失败: %v", err)
			return out
		}
		r.Duration = time.Duration(durationNs)
		r.Success = success == 1
		r.Timestamp = time.Unix(0, timestampNs)
		out = append(out, &r)
	}
	return out
}

// Len 当前已落库的明细条数
func (s *SQLiteStorage) Len() int {
	s.drain()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM request_results").Scan(&count); err != nil {
		s.logger.Errorf("❌ SQLite 计数失败: %v", err)
		return 0
	}
	return count
}

// OverflowCount 因通道满被丢弃的明细条数
func (s *SQLiteStorage) OverflowCount() uint64 {
	return s.dropped.Load()
}

// Close 关闭写入循环并释放数据库连接
func (s *SQLiteStorage) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	close(s.writeChan)
	s.wg.Wait()

	if dropped := s.dropped.Load(); dropped > 0 {
		s.logger.Warnf("⚠️  SQLite 存储共丢弃 %d 条明细", dropped)
	}
	return s.db.Close()
}
