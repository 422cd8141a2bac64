package service

import (
	"math"
	"sort"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
)

// AggregationService 聚合服务：从清洗订单计算三张派生表
// 纯内存 group-by，输入不变则输出不变，可重复执行
type AggregationService struct{}

// NewAggregationService 创建聚合服务
func NewAggregationService() *AggregationService {
	return &AggregationService{}
}

// BuildDailyKPIs 计算日度KPI，按日期升序
// active_users 为当日去重用户数，aov = revenue/orders 保留两位小数
func (s *AggregationService) BuildDailyKPIs(orders []models.Order) []models.DailyKPI {
	type acc struct {
		revenue float64
		orders  int64
		users   map[int64]struct{}
	}

	byDate := make(map[string]*acc)
	for i := range orders {
		o := &orders[i]
		date := o.Date()
		a, ok := byDate[date]
		if !ok {
			a = &acc{users: make(map[int64]struct{})}
			byDate[date] = a
		}
		a.revenue += o.Amount
		a.orders++
		a.users[o.UserID] = struct{}{}
	}

	kpis := make([]models.DailyKPI, 0, len(byDate))
	for date, a := range byDate {
		kpis = append(kpis, models.DailyKPI{
			Date:        date,
			Revenue:     a.revenue,
			Orders:      a.orders,
			ActiveUsers: int64(len(a.users)),
			AOV:         round2(a.revenue / float64(a.orders)),
		})
	}
	sort.Slice(kpis, func(i, j int) bool { return kpis[i].Date < kpis[j].Date })
	return kpis
}

// BuildCategoryDaily 计算 (日期, 品类) 日度汇总，按 (日期, 品类) 升序
// 品类为空的订单保留为独立分组
func (s *AggregationService) BuildCategoryDaily(orders []models.Order) []models.CategoryDaily {
	type key struct {
		date     string
		category string
	}
	type acc struct {
		revenue float64
		orders  int64
	}

	byKey := make(map[key]*acc)
	for i := range orders {
		o := &orders[i]
		k := key{date: o.Date(), category: o.Category}
		a, ok := byKey[k]
		if !ok {
			a = &acc{}
			byKey[k] = a
		}
		a.revenue += o.Amount
		a.orders++
	}

	rows := make([]models.CategoryDaily, 0, len(byKey))
	for k, a := range byKey {
		rows = append(rows, models.CategoryDaily{
			Date:     k.date,
			Category: k.category,
			Revenue:  a.revenue,
			Orders:   a.orders,
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		return rows[i].Category < rows[j].Category
	})
	return rows
}

// BuildUserFeatures 计算每用户 RFM 特征，按用户ID升序
// recency_days 以批次内全局最大时间戳为锚点，下限 0，保留两位小数
func (s *AggregationService) BuildUserFeatures(orders []models.Order) []models.UserFeature {
	if len(orders) == 0 {
		return nil
	}

	type acc struct {
		lastTs    int64 // UnixMilli
		frequency int64
		monetary  float64
	}

	var maxTs int64
	byUser := make(map[int64]*acc)
	for i := range orders {
		o := &orders[i]
		ts := o.Ts.UnixMilli()
		if ts > maxTs {
			maxTs = ts
		}
		a, ok := byUser[o.UserID]
		if !ok {
			a = &acc{}
			byUser[o.UserID] = a
		}
		if ts > a.lastTs {
			a.lastTs = ts
		}
		a.frequency++
		a.monetary += o.Amount
	}

	features := make([]models.UserFeature, 0, len(byUser))
	for userID, a := range byUser {
		recency := round2(float64(maxTs-a.lastTs) / 86400000.0)
		if recency < 0 {
			recency = 0
		}
		features = append(features, models.UserFeature{
			UserID:      userID,
			LastTs:      time.UnixMilli(a.lastTs).UTC(),
			Frequency:   a.frequency,
			Monetary:    a.monetary,
			RecencyDays: recency,
		})
	}
	sort.Slice(features, func(i, j int) bool { return features[i].UserID < features[j].UserID })
	return features
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
