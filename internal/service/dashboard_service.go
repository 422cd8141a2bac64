package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/database"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/logger"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/warehouse"
	"go.uber.org/zap"
)

// KPIFilter 仪表盘过滤条件
// 日期边界为闭区间，格式 YYYY-MM-DD，为空表示不限
// Categories 为空表示全部品类
type KPIFilter struct {
	Start      string
	End        string
	Categories []string
}

// Summary 过滤后日度KPI的汇总指标
// ActiveUsers 为各日去重用户数之和（跨天同一用户会重复计数，口径与上游一致）
type Summary struct {
	Revenue     float64 `json:"revenue"`
	Orders      int64   `json:"orders"`
	ActiveUsers int64   `json:"active_users"`
	AOV         float64 `json:"aov"`
}

// CategoryShare 品类收入份额（饼图数据）
type CategoryShare struct {
	Category string  `json:"category"`
	Revenue  float64 `json:"revenue"`
}

// HeatmapCell RFM 热力图单元格：按 (R, F) 分组的平均客单与人数
type HeatmapCell struct {
	R           int32   `json:"R"`
	F           int32   `json:"F"`
	AvgMonetary float64 `json:"avg_monetary"`
	Users       int64   `json:"users"`
}

// Meta 仪表盘元信息：当前快照与过滤器默认值
type Meta struct {
	RunID      string   `json:"run_id"`
	MinDate    string   `json:"min_date"`
	MaxDate    string   `json:"max_date"`
	Categories []string `json:"categories"`
}

// DashboardService 展示层服务
// 只读当前快照，同步过滤，绝不修改存储数据；Redis 可用时做读穿缓存
type DashboardService struct {
	store *warehouse.Store
}

// NewDashboardService 创建展示层服务
func NewDashboardService() *DashboardService {
	return &DashboardService{
		store: warehouse.NewStore(config.Cfg.Data.CuratedDir),
	}
}

// Meta 返回当前快照元信息与过滤器默认值
func (s *DashboardService) Meta(ctx context.Context) (*Meta, error) {
	runID, err := s.store.CurrentID()
	if err != nil {
		return nil, err
	}
	daily, err := s.loadDailyKPIs(ctx, runID)
	if err != nil {
		return nil, err
	}
	catDaily, err := s.loadCategoryDaily(ctx, runID)
	if err != nil {
		return nil, err
	}

	meta := &Meta{RunID: runID}
	if len(daily) > 0 {
		// 日度KPI按日期升序持久化
		meta.MinDate = daily[0].Date
		meta.MaxDate = daily[len(daily)-1].Date
	}

	seen := make(map[string]struct{})
	for i := range catDaily {
		if c := catDaily[i].Category; c != "" {
			seen[c] = struct{}{}
		}
	}
	for c := range seen {
		meta.Categories = append(meta.Categories, c)
	}
	sort.Strings(meta.Categories)
	return meta, nil
}

// DailyKPIs 返回过滤后的日度KPI行
func (s *DashboardService) DailyKPIs(ctx context.Context, filter KPIFilter) ([]models.DailyKPI, error) {
	runID, err := s.store.CurrentID()
	if err != nil {
		return nil, err
	}
	daily, err := s.loadDailyKPIs(ctx, runID)
	if err != nil {
		return nil, err
	}

	out := make([]models.DailyKPI, 0, len(daily))
	for i := range daily {
		if filter.matchDate(daily[i].Date) {
			out = append(out, daily[i])
		}
	}
	return out, nil
}

// CategoryDaily 返回过滤后的品类日度行
func (s *DashboardService) CategoryDaily(ctx context.Context, filter KPIFilter) ([]models.CategoryDaily, error) {
	runID, err := s.store.CurrentID()
	if err != nil {
		return nil, err
	}
	rows, err := s.loadCategoryDaily(ctx, runID)
	if err != nil {
		return nil, err
	}

	out := make([]models.CategoryDaily, 0, len(rows))
	for i := range rows {
		if filter.matchDate(rows[i].Date) && filter.matchCategory(rows[i].Category) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

// CategoryShare 返回过滤后的品类收入份额，按收入降序
func (s *DashboardService) CategoryShare(ctx context.Context, filter KPIFilter) ([]CategoryShare, error) {
	rows, err := s.CategoryDaily(ctx, filter)
	if err != nil {
		return nil, err
	}

	byCat := make(map[string]float64)
	for i := range rows {
		byCat[rows[i].Category] += rows[i].Revenue
	}
	share := make([]CategoryShare, 0, len(byCat))
	for c, rev := range byCat {
		share = append(share, CategoryShare{Category: c, Revenue: rev})
	}
	sort.Slice(share, func(i, j int) bool {
		if share[i].Revenue != share[j].Revenue {
			return share[i].Revenue > share[j].Revenue
		}
		return share[i].Category < share[j].Category
	})
	return share, nil
}

// Summarize 对过滤后的日度KPI求汇总指标
// orders 为 0 时 AOV 取 0，空结果集是显式的 "无数据" 状态而非错误
func (s *DashboardService) Summarize(ctx context.Context, filter KPIFilter) (*Summary, error) {
	daily, err := s.DailyKPIs(ctx, filter)
	if err != nil {
		return nil, err
	}

	sum := &Summary{}
	for i := range daily {
		sum.Revenue += daily[i].Revenue
		sum.Orders += daily[i].Orders
		sum.ActiveUsers += daily[i].ActiveUsers
	}
	if sum.Orders > 0 {
		sum.AOV = round2(sum.Revenue / float64(sum.Orders))
	}
	return sum, nil
}

// RFMScores 返回完整 RFM 表
// RFM 是本次运行时点的快照，不做日期过滤
func (s *DashboardService) RFMScores(ctx context.Context) ([]models.RFMScore, error) {
	runID, err := s.store.CurrentID()
	if err != nil {
		return nil, err
	}
	return s.loadRFMScores(ctx, runID)
}

// RFMHeatmap 按 (R, F) 分组的平均客单与人数，R 降序 F 升序
func (s *DashboardService) RFMHeatmap(ctx context.Context) ([]HeatmapCell, error) {
	scores, err := s.RFMScores(ctx)
	if err != nil {
		return nil, err
	}

	type key struct{ r, f int32 }
	type acc struct {
		total float64
		users int64
	}
	byCell := make(map[key]*acc)
	for i := range scores {
		k := key{r: scores[i].R, f: scores[i].F}
		a, ok := byCell[k]
		if !ok {
			a = &acc{}
			byCell[k] = a
		}
		a.total += scores[i].Monetary
		a.users++
	}

	cells := make([]HeatmapCell, 0, len(byCell))
	for k, a := range byCell {
		cells = append(cells, HeatmapCell{
			R:           k.r,
			F:           k.f,
			AvgMonetary: float64(int64(a.total/float64(a.users) + 0.5)),
			Users:       a.users,
		})
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].R != cells[j].R {
			return cells[i].R > cells[j].R
		}
		return cells[i].F < cells[j].F
	})
	return cells, nil
}

// TopCustomers 按消费额降序取前 limit 名客户
func (s *DashboardService) TopCustomers(ctx context.Context, limit int) ([]models.RFMScore, error) {
	scores, err := s.RFMScores(ctx)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	sorted := make([]models.RFMScore, len(scores))
	copy(sorted, scores)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Monetary != sorted[j].Monetary {
			return sorted[i].Monetary > sorted[j].Monetary
		}
		return sorted[i].UserID < sorted[j].UserID
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// matchDate 日期是否落在闭区间内
func (f *KPIFilter) matchDate(date string) bool {
	if f.Start != "" && date < f.Start {
		return false
	}
	if f.End != "" && date > f.End {
		return false
	}
	return true
}

// matchCategory 品类是否命中多选过滤
func (f *KPIFilter) matchCategory(category string) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, c := range f.Categories {
		if c == category {
			return true
		}
	}
	return false
}

// loadDailyKPIs 读日度KPI工件，优先走缓存
func (s *DashboardService) loadDailyKPIs(ctx context.Context, runID string) ([]models.DailyKPI, error) {
	return cacheLoad(ctx, runID, warehouse.ArtifactDailyKPIs, func() ([]models.DailyKPI, error) {
		return s.store.LoadDailyKPIs(runID)
	})
}

// loadCategoryDaily 读品类日度工件，优先走缓存
func (s *DashboardService) loadCategoryDaily(ctx context.Context, runID string) ([]models.CategoryDaily, error) {
	return cacheLoad(ctx, runID, warehouse.ArtifactCategoryDaily, func() ([]models.CategoryDaily, error) {
		return s.store.LoadCategoryDaily(runID)
	})
}

// loadRFMScores 读RFM工件，优先走缓存
func (s *DashboardService) loadRFMScores(ctx context.Context, runID string) ([]models.RFMScore, error) {
	return cacheLoad(ctx, runID, warehouse.ArtifactRFMScores, func() ([]models.RFMScore, error) {
		return s.store.LoadRFMScores(runID)
	})
}

// cacheLoad Redis 读穿缓存，Redis 未启用时直接回源
// 快照不可变，键带 runID，切换快照后旧键自然过期
func cacheLoad[T any](ctx context.Context, runID, artifact string, load func() ([]T, error)) ([]T, error) {
	if database.RDB == nil {
		return load()
	}

	cacheKey := fmt.Sprintf("salespulse:artifact:%s:%s", runID, artifact)
	if val, err := database.RDB.Get(ctx, cacheKey).Bytes(); err == nil {
		var rows []T
		if err := json.Unmarshal(val, &rows); err == nil {
			return rows, nil
		}
		// 缓存损坏则删掉回源
		database.RDB.Del(ctx, cacheKey)
	}

	rows, err := load()
	if err != nil {
		return nil, err
	}
	if data, err := json.Marshal(rows); err == nil {
		ttl := config.Cfg.Redis.CacheTTL
		if ttl <= 0 {
			ttl = 10 * time.Minute
		}
		if err := database.RDB.Set(ctx, cacheKey, data, ttl).Err(); err != nil {
			logger.Logger.Warn("写入缓存失败", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return rows, nil
}
