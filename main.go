/*
 * @Author: kamalyes 501893067@qq.com
 * @Date: 2026-08-25 10:30:00
 * @LastEditors: kamalyes 501893067@qq.com
 * @LastEditTime: 2026-08-27 18:30:00
 * @FilePath: \go-deli\main.go
 * @Description: go-deli 命令行入口 - Postman 集合负载测试工具
 *
 * Copyright (c) 2026 by kamalyes, All Rights Reserved.
 */
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"github.com/kamalyes/go-deli/bootstrap"
	"github.com/kamalyes/go-deli/logger"
	"github.com/kamalyes/go-deli/types"
)

const version = "1.0.0"

// arrayFlags 支持重复指定的命令行参数（如 -H）
type arrayFlags []string

func (a *arrayFlags) String() string {
	return strings.Join(*a, ", ")
}

func (a *arrayFlags) Set(value string) error {
	*a = append(*a, value)
	return nil
}

var (
	// 请求源
	collectionFile string
	manualURL      string
	manualMethod   string
	manualBody     string
	headerFlags    arrayFlags
	envFile        string
	varFlags       arrayFlags

	// 负载配置
	configFile string
	users      int
	duration   float64
	rampUp     float64
	iterations int
	thinkTime  float64
	scenario   types.LoadScenario

	// 压力测试
	stressConfigFile string

	// 报告输出
	reportPath string
	junitPath  string
	jsonPath   string

	// 明细存储
	storageMode types.StorageMode
	storagePath string

	// 运行控制
	noProgress bool
	logLevel   string
	logFile    string
	quiet      bool
	verbose    bool
)

func init() {
	flag.StringVar(&collectionFile, "collection", "", "Postman 集合文件路径 (v2.1 JSON)")
	flag.StringVar(&manualURL, "url", "", "手动模式目标 URL（与 -collection 二选一）")
	flag.StringVar(&manualMethod, "method", "GET", "手动模式 HTTP 方法")
	flag.StringVar(&manualBody, "data", "", "手动模式请求体")
	flag.Var(&headerFlags, "H", "请求头，格式 'Key: Value'，可重复")
	flag.StringVar(&envFile, "env", "", "Postman 环境文件路径")
	flag.Var(&varFlags, "var", "变量覆盖，格式 KEY=VALUE，可重复，优先级最高")

	flag.StringVar(&configFile, "config", "", "负载配置文件 (YAML)")
	flag.IntVar(&users, "users", 0, "并发用户数（覆盖配置文件）")
	flag.Float64Var(&duration, "duration", 0, "整场时长（秒，含爬坡，覆盖配置文件）")
	flag.Float64Var(&rampUp, "ramp-up", -1, "爬坡时长（秒，覆盖配置文件）")
	flag.IntVar(&iterations, "iterations", 0, "每用户迭代次数，0 表示跑满时长")
	flag.Float64Var(&thinkTime, "think-time", 0, "请求间思考时间（毫秒）")
	flag.Var(&scenario, "scenario", "负载场景: constant/gradual/spike")

	flag.StringVar(&stressConfigFile, "stress-config", "", "压力测试配置文件 (YAML)，指定后进入压力测试模式")

	flag.StringVar(&reportPath, "report", "", "HTML 报告输出路径")
	flag.StringVar(&junitPath, "junit", "", "JUnit XML 报告输出路径")
	flag.StringVar(&jsonPath, "json", "", "JSON 报告输出路径")

	flag.Var(&storageMode, "storage", "明细存储模式: memory/sqlite")
	flag.StringVar(&storagePath, "db-path", "", "SQLite 数据库文件路径（storage=sqlite 时必填）")

	flag.BoolVar(&noProgress, "no-progress", false, "关闭实时进度表")
	flag.StringVar(&logLevel, "log-level", "info", "日志级别: debug/info/warning/error")
	flag.StringVar(&logFile, "log-file", "", "日志文件路径（按 100MB 滚动）")
	flag.BoolVar(&quiet, "quiet", false, "静默模式，仅输出错误")
	flag.BoolVar(&verbose, "verbose", false, "详细模式，等价 -log-level debug")
}

func main() {
	// 子命令优先于 flag 解析
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "help", "-help", "--help":
			printBanner()
			flag.Usage()
			printExamplesHelp()
			return
		case "version", "-version", "--version":
			printVersion()
			return
		case "examples":
			printExamplesHelp()
			return
		}
	}

	flag.Parse()

	if collectionFile == "" && manualURL == "" {
		printBanner()
		printSimpleUsage()
		return
	}

	log := initLogger()

	opts := &bootstrap.Options{
		CollectionFile:   collectionFile,
		ManualURL:        manualURL,
		ManualMethod:     manualMethod,
		ManualHeaders:    parseHeaders(headerFlags),
		ManualBody:       manualBody,
		EnvFile:          envFile,
		Vars:             parseVars(varFlags),
		ConfigFile:       configFile,
		Users:            users,
		Duration:         duration,
		RampUp:           rampUp,
		Iterations:       iterations,
		ThinkTime:        thinkTime,
		Scenario:         scenario.String(),
		StressConfigFile: stressConfigFile,
		ReportPath:       reportPath,
		JUnitPath:        junitPath,
		JSONPath:         jsonPath,
		StorageMode:      storageMode,
		StoragePath:      storagePath,
		NoProgress:       noProgress,
		Logger:           log,
	}

	if err := bootstrap.Run(opts); err != nil {
		log.Errorf("❌ %v", err)
		os.Exit(1)
	}
}

// initLogger 初始化全局日志，优先级：verbose > quiet > log-level
func initLogger() logger.ILogger {
	config := logger.DefaultConfig()

	switch {
	case verbose:
		config = config.WithLevel(logger.DEBUG).WithShowCaller(true).WithTimeFormat("2006-01-02 15:04:05.000")
	case quiet:
		config = config.WithLevel(logger.ERROR)
	default:
		config = config.WithLevel(logger.ParseLogLevel(logLevel))
	}

	if logFile != "" {
		rotateWriter := logger.NewRotateWriter(logFile, 100*1024*1024, 5)
		config = config.WithOutput(rotateWriter).WithColorful(false)
	}

	log := logger.New(config)
	logger.SetDefault(log)
	return log
}

// parseHeaders 解析形如 "Key: Value" 的请求头参数
func parseHeaders(raw []string) map[string]string {
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		if key != "" {
			headers[key] = value
		}
	}
	return headers
}

// parseVars 解析形如 "KEY=VALUE" 的变量覆盖参数
func parseVars(raw []string) map[string]string {
	vars := make(map[string]string, len(raw))
	for _, v := range raw {
		parts := strings.SplitN(v, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		if key != "" {
			vars[key] = strings.TrimSpace(parts[1])
		}
	}
	return vars
}

func printBanner() {
	fmt.Println(`
╔═══════════════════════════════════════════════╗
║                                               ║
║     ██████╗  ███████╗ ██╗      ██╗            ║
║     ██╔══██╗ ██╔════╝ ██║      ██║            ║
║     ██║  ██║ █████╗   ██║      ██║            ║
║     ██║  ██║ ██╔══╝   ██║      ██║            ║
║     ██████╔╝ ███████╗ ███████╗ ██║            ║
║     ╚═════╝  ╚══════╝ ╚══════╝ ╚═╝            ║
║                                               ║
║     go-deli · Postman 集合负载测试工具        ║
║                                               ║
╚═══════════════════════════════════════════════╝`)
}

func printVersion() {
	fmt.Printf("go-deli v%s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func printSimpleUsage() {
	fmt.Println(`
用法:
  go-deli -collection <文件.json> [选项]     # Postman 集合模式
  go-deli -url <URL> [选项]                  # 手动 URL 模式
  go-deli help                               # 完整帮助
  go-deli examples                           # 使用示例
  go-deli version                            # 版本信息`)
}

func printExamplesHelp() {
	fmt.Println(`
使用示例:

  # 50 并发跑 Postman 集合 60 秒
  go-deli -collection api.postman_collection.json -users 50 -duration 60

  # 带环境文件与变量覆盖，生成 HTML 报告
  go-deli -collection api.json -env prod.postman_environment.json \
     -var host=staging.example.com -report report.html

  # 手动模式压单个接口
  go-deli -url https://api.example.com/health -method GET -users 20 -duration 30

  # POST 请求带请求头与请求体
  go-deli -url https://api.example.com/login -method POST \
     -H 'Content-Type: application/json' -data '{"user":"a","pass":"b"}'

  # 渐进加压场景 + SQLite 明细存储
  go-deli -collection api.json -scenario gradual -storage sqlite -db-path results.db

  # YAML 配置文件驱动
  go-deli -collection api.json -config load.yaml -junit junit.xml -json result.json

  # 压力测试：阶梯加压直到 SLA 击穿
  go-deli -collection api.json -stress-config stress.yaml`)
}
