package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/internal/response"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/service"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/warehouse"
	"github.com/gin-gonic/gin"
)

// DashboardController 仪表盘控制器
type DashboardController struct {
	dashboardService *service.DashboardService
}

// NewDashboardController 创建仪表盘控制器
func NewDashboardController() *DashboardController {
	return &DashboardController{
		dashboardService: service.NewDashboardService(),
	}
}

// Meta 当前快照元信息与过滤器默认值
func (c *DashboardController) Meta(ctx *gin.Context) {
	meta, err := c.dashboardService.Meta(ctx.Request.Context())
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, meta)
}

// DailyKPIs 过滤后的日度KPI
func (c *DashboardController) DailyKPIs(ctx *gin.Context) {
	filter, ok := c.parseFilter(ctx)
	if !ok {
		return
	}
	rows, err := c.dashboardService.DailyKPIs(ctx.Request.Context(), filter)
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// CategoryDaily 过滤后的品类日度行
func (c *DashboardController) CategoryDaily(ctx *gin.Context) {
	filter, ok := c.parseFilter(ctx)
	if !ok {
		return
	}
	rows, err := c.dashboardService.CategoryDaily(ctx.Request.Context(), filter)
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// CategoryShare 过滤后的品类收入份额
func (c *DashboardController) CategoryShare(ctx *gin.Context) {
	filter, ok := c.parseFilter(ctx)
	if !ok {
		return
	}
	rows, err := c.dashboardService.CategoryShare(ctx.Request.Context(), filter)
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// Summary 过滤后的汇总指标
func (c *DashboardController) Summary(ctx *gin.Context) {
	filter, ok := c.parseFilter(ctx)
	if !ok {
		return
	}
	sum, err := c.dashboardService.Summarize(ctx.Request.Context(), filter)
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, sum)
}

// RFMScores 完整 RFM 表（运行时点快照，不做日期过滤）
func (c *DashboardController) RFMScores(ctx *gin.Context) {
	rows, err := c.dashboardService.RFMScores(ctx.Request.Context())
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// RFMHeatmap RFM 热力图数据
func (c *DashboardController) RFMHeatmap(ctx *gin.Context) {
	cells, err := c.dashboardService.RFMHeatmap(ctx.Request.Context())
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, cells)
}

// TopCustomers 消费额 Top N 客户
func (c *DashboardController) TopCustomers(ctx *gin.Context) {
	limit := 20
	if v := ctx.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.Fail(ctx, http.StatusBadRequest, "参数错误: limit 必须为正整数")
			return
		}
		limit = n
	}
	rows, err := c.dashboardService.TopCustomers(ctx.Request.Context(), limit)
	if err != nil {
		failLoad(ctx, err)
		return
	}
	response.Success(ctx, rows)
}

// parseFilter 解析日期区间与品类多选过滤参数
func (c *DashboardController) parseFilter(ctx *gin.Context) (service.KPIFilter, bool) {
	filter := service.KPIFilter{
		Start:      ctx.Query("start"),
		End:        ctx.Query("end"),
		Categories: ctx.QueryArray("category"),
	}
	for _, d := range []string{filter.Start, filter.End} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			response.Fail(ctx, http.StatusBadRequest, "参数错误: 日期格式应为 YYYY-MM-DD")
			return filter, false
		}
	}
	if filter.Start != "" && filter.End != "" && filter.Start > filter.End {
		response.Fail(ctx, http.StatusBadRequest, "参数错误: start 不能晚于 end")
		return filter, false
	}
	return filter, true
}

// failLoad 快照读取失败的统一出口
// 快照缺失时明确提示操作者重新运行批处理，而不是猜测
func failLoad(ctx *gin.Context, err error) {
	if errors.Is(err, warehouse.ErrNoSnapshot) {
		response.Fail(ctx, http.StatusServiceUnavailable, err.Error())
		return
	}
	response.Fail(ctx, http.StatusInternalServerError, err.Error())
}
