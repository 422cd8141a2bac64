package service

import (
	"context"
	"testing"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/warehouse"
	"github.com/stretchr/testify/assert"
)

// seedSnapshot 写入一份固定快照并切换 CURRENT
func seedSnapshot(t *testing.T) string {
	store := warehouse.NewStore(config.Cfg.Data.CuratedDir)
	runID := warehouse.NewRunID()

	daily := []models.DailyKPI{
		{Date: "2025-06-01", Revenue: 100, Orders: 2, ActiveUsers: 2, AOV: 50},
		{Date: "2025-06-02", Revenue: 300, Orders: 3, ActiveUsers: 2, AOV: 100},
		{Date: "2025-06-03", Revenue: 200, Orders: 1, ActiveUsers: 1, AOV: 200},
	}
	catDaily := []models.CategoryDaily{
		{Date: "2025-06-01", Category: "Books", Revenue: 60, Orders: 1},
		{Date: "2025-06-01", Category: "Home", Revenue: 40, Orders: 1},
		{Date: "2025-06-02", Category: "Books", Revenue: 300, Orders: 3},
		{Date: "2025-06-03", Category: "Home", Revenue: 200, Orders: 1},
	}
	rfm := []models.RFMScore{
		{UserID: 1, RecencyDays: 0, Frequency: 3, Monetary: 400, R: 5, F: 5, M: 5, RFM: "555"},
		{UserID: 2, RecencyDays: 1, Frequency: 2, Monetary: 150, R: 3, F: 3, M: 3, RFM: "333"},
		{UserID: 3, RecencyDays: 2, Frequency: 1, Monetary: 50, R: 1, F: 1, M: 1, RFM: "111"},
		{UserID: 4, RecencyDays: 0.5, Frequency: 3, Monetary: 300, R: 5, F: 5, M: 4, RFM: "554"},
	}

	if err := store.WriteSnapshot(runID, nil, daily, catDaily, rfm); err != nil {
		t.Fatalf("Failed to seed snapshot: %v", err)
	}
	if err := store.Promote(runID); err != nil {
		t.Fatalf("Failed to promote snapshot: %v", err)
	}
	return runID
}

// TestDashboardService_NoSnapshot 没有快照时给出重跑批处理的明确指引
func TestDashboardService_NoSnapshot(t *testing.T) {
	setupTestEnv(t)
	svc := NewDashboardService()

	_, err := svc.Meta(context.Background())
	assert.ErrorIs(t, err, warehouse.ErrNoSnapshot)

	_, err = svc.Summarize(context.Background(), KPIFilter{})
	assert.ErrorIs(t, err, warehouse.ErrNoSnapshot)
}

// TestDashboardService_Meta 元信息包含日期边界与品类列表
func TestDashboardService_Meta(t *testing.T) {
	setupTestEnv(t)
	runID := seedSnapshot(t)

	svc := NewDashboardService()
	meta, err := svc.Meta(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, runID, meta.RunID)
	assert.Equal(t, "2025-06-01", meta.MinDate)
	assert.Equal(t, "2025-06-03", meta.MaxDate)
	assert.Equal(t, []string{"Books", "Home"}, meta.Categories)
}

// TestDashboardService_DateFilter 日期过滤为闭区间
func TestDashboardService_DateFilter(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	rows, err := svc.DailyKPIs(context.Background(), KPIFilter{Start: "2025-06-02", End: "2025-06-03"})
	assert.NoError(t, err)
	assert.Len(t, rows, 2)
	assert.Equal(t, "2025-06-02", rows[0].Date)
	assert.Equal(t, "2025-06-03", rows[1].Date)
}

// TestDashboardService_Summarize 汇总指标
// active_users 为各日去重数之和，口径与上游一致（不做跨天去重）
func TestDashboardService_Summarize(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	sum, err := svc.Summarize(context.Background(), KPIFilter{})
	assert.NoError(t, err)
	assert.Equal(t, 600.0, sum.Revenue)
	assert.Equal(t, int64(6), sum.Orders)
	assert.Equal(t, int64(5), sum.ActiveUsers)
	assert.Equal(t, 100.0, sum.AOV)
}

// TestDashboardService_SummarizeEmpty 过滤后空结果是显式无数据状态，AOV 取 0
func TestDashboardService_SummarizeEmpty(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	sum, err := svc.Summarize(context.Background(), KPIFilter{Start: "2030-01-01", End: "2030-12-31"})
	assert.NoError(t, err)
	assert.Equal(t, 0.0, sum.Revenue)
	assert.Equal(t, int64(0), sum.Orders)
	assert.Equal(t, 0.0, sum.AOV)
}

// TestDashboardService_CategoryFilter 品类多选过滤，默认全选
func TestDashboardService_CategoryFilter(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()

	all, err := svc.CategoryDaily(context.Background(), KPIFilter{})
	assert.NoError(t, err)
	assert.Len(t, all, 4)

	books, err := svc.CategoryDaily(context.Background(), KPIFilter{Categories: []string{"Books"}})
	assert.NoError(t, err)
	assert.Len(t, books, 2)
	for _, r := range books {
		assert.Equal(t, "Books", r.Category)
	}
}

// TestDashboardService_CategoryShare 份额按收入降序
func TestDashboardService_CategoryShare(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	share, err := svc.CategoryShare(context.Background(), KPIFilter{})
	assert.NoError(t, err)
	assert.Equal(t, []CategoryShare{
		{Category: "Books", Revenue: 360},
		{Category: "Home", Revenue: 240},
	}, share)
}

// TestDashboardService_RFMSnapshot RFM 是运行时点快照，不受日期过滤影响
func TestDashboardService_RFMSnapshot(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	scores, err := svc.RFMScores(context.Background())
	assert.NoError(t, err)
	assert.Len(t, scores, 4)
}

// TestDashboardService_RFMHeatmap (R,F) 单元格的人数之和等于用户总数
func TestDashboardService_RFMHeatmap(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	cells, err := svc.RFMHeatmap(context.Background())
	assert.NoError(t, err)

	var users int64
	for _, c := range cells {
		users += c.Users
	}
	assert.Equal(t, int64(4), users)

	// R 降序排列，(5,5) 格聚合了用户 1 和 4
	assert.Equal(t, int32(5), cells[0].R)
	assert.Equal(t, int64(2), cells[0].Users)
	assert.Equal(t, 350.0, cells[0].AvgMonetary)
}

// TestDashboardService_TopCustomers 按消费额降序取前 N
func TestDashboardService_TopCustomers(t *testing.T) {
	setupTestEnv(t)
	seedSnapshot(t)

	svc := NewDashboardService()
	top, err := svc.TopCustomers(context.Background(), 2)
	assert.NoError(t, err)
	assert.Len(t, top, 2)
	assert.Equal(t, int64(1), top[0].UserID)
	assert.Equal(t, int64(4), top[1].UserID)
}
