package router

import (
	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/controller"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/middleware"
	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	// 设置运行模式
	gin.SetMode(config.Cfg.App.Mode)

	r := gin.New()

	// 全局中间件
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.Metrics())

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": config.Cfg.App.Name,
			"version": config.Cfg.App.Version,
		})
	})

	// Prometheus 指标
	r.GET("/metrics", middleware.PrometheusHandler())

	// API 路由组
	api := r.Group("/api/v1")
	{
		dashboardController := controller.NewDashboardController()

		api.GET("/meta", dashboardController.Meta) // 快照元信息

		kpis := api.Group("/kpis")
		{
			kpis.GET("/daily", dashboardController.DailyKPIs) // 日度KPI
		}

		categories := api.Group("/categories")
		{
			categories.GET("/daily", dashboardController.CategoryDaily) // 品类日度
			categories.GET("/share", dashboardController.CategoryShare) // 品类收入份额
		}

		api.GET("/summary", dashboardController.Summary) // 汇总指标

		rfm := api.Group("/rfm")
		{
			rfm.GET("/scores", dashboardController.RFMScores)   // 完整RFM表
			rfm.GET("/heatmap", dashboardController.RFMHeatmap) // 热力图
			rfm.GET("/top", dashboardController.TopCustomers)   // Top客户
		}
	}

	return r
}
