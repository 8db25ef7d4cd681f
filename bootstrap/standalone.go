/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-25 09:00:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\bootstrap\standalone.go
 * @Description: 单机模式引导 - 配置合并、请求源加载、执行入口
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package bootstrap

import (
	"context"
	"strings"

	"github.com/kamalyes/go-deli/config"
	"github.com/kamalyes/go-deli/executor"
	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/postman"
	"github.com/kamalyes/go-deli/types"
)

// Options 单机运行参数（命令行与配置文件合并后的完整输入）
type Options struct {
	// 请求源（二选一，collection 优先）
	CollectionFile string
	ManualURL      string
	ManualMethod   string
	ManualHeaders  map[string]string
	ManualBody     string
	EnvFile        string            // Postman 环境文件
	Vars           map[string]string // 命令行变量覆盖，优先级最高

	// 负载配置
	ConfigFile string // YAML 配置文件，空则用命令行覆盖值
	Users      int
	Duration   float64
	RampUp     float64
	Iterations int
	ThinkTime  float64
	Scenario   string

	// 压力测试
	StressConfigFile string // 非空进入压力测试模式

	// 输出
	ReportPath string
	JUnitPath  string
	JSONPath   string

	// 明细存储
	StorageMode types.StorageMode
	StoragePath string

	NoProgress bool
	Logger     logger.ILogger
}

// Run 单机模式入口：加载请求源与配置，执行负载或压力测试
// SLA 违规时返回 RunnerError，供 main 设置非零退出码
func Run(opts *Options) error {
	log := opts.Logger
	if log == nil {
		log = logger.Default
	}

	requests, collectionName, err := loadRequests(opts, log)
	if err != nil {
		return err
	}
	log.Infof("📚 已加载 %d 个请求（集合: %s）", len(requests), collectionName)

	ctx, cancel := executor.NewSignalContext(context.Background(), log)
	defer cancel()

	runOpts := executor.RunOptions{
		Requests:       requests,
		CollectionName: collectionName,
		ReportPath:     opts.ReportPath,
		JUnitPath:      opts.JUnitPath,
		JSONPath:       opts.JSONPath,
		StorageMode:    opts.StorageMode,
		StoragePath:    opts.StoragePath,
		ShowProgress:   !opts.NoProgress,
		Logger:         log,
	}

	if opts.StressConfigFile != "" {
		stressCfg, err := config.LoadStressConfig(opts.StressConfigFile, log)
		if err != nil {
			return err
		}
		result, err := executor.RunStressTest(ctx, runOpts, stressCfg)
		if err != nil {
			return err
		}
		if result.BreakingPointUsers > 0 {
			return types.NewRunnerError("压力测试在 %d 并发时击穿 SLA", result.BreakingPointUsers)
		}
		return nil
	}

	runCfg, err := buildRunConfig(opts, log)
	if err != nil {
		return err
	}
	runOpts.Config = runCfg

	meta, err := executor.RunLoadTest(ctx, runOpts)
	if err != nil {
		return err
	}
	if len(meta.SLAViolations) > 0 {
		return types.NewRunnerError("SLA 检查未通过（%d 项违规）", len(meta.SLAViolations))
	}
	return nil
}

// loadRequests 加载请求源：Postman 集合优先，其次手动 URL
func loadRequests(opts *Options, log logger.ILogger) ([]*types.ParsedRequest, string, error) {
	vars := map[string]string{}
	if opts.EnvFile != "" {
		envVars, err := postman.LoadEnvironment(opts.EnvFile)
		if err != nil {
			return nil, "", err
		}
		vars = envVars
		log.Infof("🌍 已加载环境文件: %s（%d 个变量）", opts.EnvFile, len(vars))
	}
	for k, v := range opts.Vars {
		vars[k] = v
	}

	if opts.CollectionFile != "" {
		col, err := postman.LoadCollection(opts.CollectionFile, vars)
		if err != nil {
			return nil, "", err
		}
		return col.Requests, col.Name, nil
	}

	if opts.ManualURL != "" {
		requests, err := postman.BuildManualRequest(opts.ManualURL, opts.ManualMethod, opts.ManualHeaders, opts.ManualBody)
		if err != nil {
			return nil, "", err
		}
		return requests, manualCollectionName(opts.ManualURL), nil
	}

	return nil, "", types.NewRunnerError("必须通过 -collection 或 -url 指定请求源")
}

// buildRunConfig 构建运行配置：配置文件打底，命令行非零值覆盖
func buildRunConfig(opts *Options, log logger.ILogger) (*types.RunConfig, error) {
	var cfg *types.RunConfig
	if opts.ConfigFile != "" {
		loaded, err := config.LoadRunConfig(opts.ConfigFile, log)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = types.DefaultRunConfig()
	}

	if opts.Users > 0 {
		cfg.Users = opts.Users
	}
	if opts.Duration > 0 {
		cfg.DurationSeconds = opts.Duration
	}
	if opts.RampUp >= 0 {
		cfg.RampUpSeconds = opts.RampUp
	}
	if opts.Iterations > 0 {
		cfg.Iterations = opts.Iterations
	}
	if opts.ThinkTime > 0 {
		cfg.ThinkTimeMs = opts.ThinkTime
	}
	if opts.Scenario != "" {
		var s types.LoadScenario
		if err := s.Set(opts.Scenario); err != nil {
			return nil, types.NewConfigError("%v", err)
		}
		cfg.Scenario = s
	}

	if err := config.ValidateRunConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// manualCollectionName 手动 URL 模式的集合名（取主机名）
func manualCollectionName(rawURL string) string {
	name := rawURL
	if i := strings.Index(name, "://"); i >= 0 {
		name = name[i+3:]
	}
	if i := strings.IndexAny(name, "/?"); i >= 0 {
		name = name[:i]
	}
	if name == "" {
		return "manual"
	}
	return name
}
