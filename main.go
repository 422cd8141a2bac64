package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/database"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/generator"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/logger"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/router"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/service"
	"go.uber.org/zap"
)

func main() {
	// 用法: salespulse <gen|etl|serve> [配置文件路径]
	if len(os.Args) < 2 {
		fmt.Println("用法: salespulse <gen|etl|serve> [config]")
		fmt.Println("  gen   - 生成合成订单原始数据")
		fmt.Println("  etl   - 运行批处理（清洗/聚合/RFM评分/写快照）")
		fmt.Println("  serve - 启动仪表盘 API")
		os.Exit(1)
	}
	cmd := os.Args[1]

	// 加载配置
	// 配置文件可通过第二个参数指定，否则按环境变量 APP_ENV 自动选择
	configPath := ""
	if len(os.Args) > 2 {
		configPath = os.Args[2]
	}
	if err := config.Load(configPath); err != nil {
		panic(fmt.Sprintf("加载配置失败: %v", err))
	}

	// 初始化日志
	if err := logger.InitLogger(); err != nil {
		panic(fmt.Sprintf("初始化日志失败: %v", err))
	}
	defer logger.Sync()

	switch cmd {
	case "gen":
		runGenerate()
	case "etl":
		runEtl()
	case "serve":
		runServe()
	default:
		logger.Logger.Fatal("未知命令", zap.String("cmd", cmd))
	}
}

// runGenerate 生成合成订单并写入原始 CSV
func runGenerate() {
	start := time.Now()
	gen := generator.NewGenerator(config.Cfg.Generator)
	orders := gen.Generate()

	if err := generator.WriteCSV(config.Cfg.Data.RawPath, orders); err != nil {
		logger.Logger.Fatal("写入原始数据失败", zap.Error(err))
	}

	logger.Logger.Info("原始数据已生成",
		zap.String("path", config.Cfg.Data.RawPath),
		zap.Int("orders", len(orders)),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// runEtl 运行一次完整批处理
func runEtl() {
	// 运行记录库不可用时批处理仍然继续，只是缺少运行历史
	if err := database.InitSQLite(); err != nil {
		logger.Logger.Warn("初始化运行记录库失败", zap.Error(err))
	}
	defer database.CloseSQLite()

	start := time.Now()
	etl := service.NewEtlService()
	run, err := etl.Run(context.Background())
	if err != nil {
		logger.Logger.Fatal("批处理失败", zap.Error(err))
	}

	logger.Logger.Info("批处理完成",
		zap.String("run_id", run.RunID),
		zap.Int64("rows_kept", run.RowsKept),
		zap.Int64("rows_dropped", run.RowsDropped),
		zap.Int64("daily_rows", run.DailyRows),
		zap.Int64("category_rows", run.CategoryRows),
		zap.Int64("rfm_rows", run.RFMRows),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// runServe 启动仪表盘 API，支持优雅关闭
func runServe() {
	// Redis 不是必须的，连不上继续运行（无缓存）
	if err := database.InitRedis(); err != nil {
		logger.Logger.Warn("初始化 Redis 失败", zap.Error(err))
	}
	defer database.CloseRedis()

	r := router.SetupRouter()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", config.Cfg.App.Port),
		Handler:        r,
		ReadTimeout:    config.Cfg.App.ReadTimeout,
		WriteTimeout:   config.Cfg.App.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	// 启动服务器（在 goroutine 中）
	go func() {
		logger.Logger.Info("仪表盘启动",
			zap.String("address", srv.Addr),
			zap.String("mode", config.Cfg.App.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Logger.Fatal("仪表盘启动失败", zap.Error(err))
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info("正在关闭仪表盘...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Logger.Fatal("仪表盘强制关闭", zap.Error(err))
	}

	logger.Logger.Info("仪表盘已关闭")
}
