package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/database"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/logger"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/warehouse"
	"go.uber.org/zap"
)

// 原始时间戳可接受的格式
var tsLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// EtlService 批处理服务
// 单次单写者批任务：读原始订单 → 清洗 → 聚合 → 评分 → 写快照 → 切换 CURRENT
// 任一阶段失败即终止，不会切换 CURRENT，失败的运行对读取方不可见
type EtlService struct {
	store *warehouse.Store
	agg   *AggregationService
	rfm   *RFMService
}

// NewEtlService 创建批处理服务
func NewEtlService() *EtlService {
	return &EtlService{
		store: warehouse.NewStore(config.Cfg.Data.CuratedDir),
		agg:   NewAggregationService(),
		rfm:   NewRFMService(),
	}
}

// Run 执行一次完整批处理，返回运行记录
// 原始输入缺失是前置条件失败：立即报错，不写任何输出
func (s *EtlService) Run(ctx context.Context) (*models.EtlRun, error) {
	rawPath := config.Cfg.Data.RawPath
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("原始输入缺失 [%s]，请先运行: salespulse gen", rawPath)
	}

	run := &models.EtlRun{
		RunID:     warehouse.NewRunID(),
		Status:    models.RunStatusRunning,
		StartedAt: time.Now(),
	}
	s.recordRun(run)

	result, err := s.execute(ctx, rawPath, run)
	now := time.Now()
	run.FinishedAt = &now
	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
		s.recordRun(run)
		return run, err
	}
	run.Status = models.RunStatusSuccess
	run.DailyRows = int64(len(result.daily))
	run.CategoryRows = int64(len(result.catDaily))
	run.RFMRows = int64(len(result.rfm))
	s.recordRun(run)
	return run, nil
}

type etlResult struct {
	daily    []models.DailyKPI
	catDaily []models.CategoryDaily
	rfm      []models.RFMScore
}

func (s *EtlService) execute(ctx context.Context, rawPath string, run *models.EtlRun) (*etlResult, error) {
	orders, read, dropped, err := ReadRawOrders(rawPath)
	if err != nil {
		return nil, err
	}
	run.RowsRead = read
	run.RowsDropped = dropped
	run.RowsKept = int64(len(orders))

	logger.Logger.Info("订单清洗完成",
		zap.String("run_id", run.RunID),
		zap.Int64("rows_read", read),
		zap.Int64("rows_dropped", dropped),
		zap.Int64("rows_kept", run.RowsKept),
	)

	daily := s.agg.BuildDailyKPIs(orders)
	catDaily := s.agg.BuildCategoryDaily(orders)
	features := s.agg.BuildUserFeatures(orders)
	rfm := s.rfm.Score(features)

	logger.Logger.Info("聚合完成",
		zap.String("run_id", run.RunID),
		zap.Int("daily_rows", len(daily)),
		zap.Int("category_rows", len(catDaily)),
		zap.Int("rfm_rows", len(rfm)),
	)

	if err := s.store.WriteSnapshot(run.RunID, orders, daily, catDaily, rfm); err != nil {
		return nil, err
	}
	if err := s.store.Promote(run.RunID); err != nil {
		return nil, err
	}

	logger.Logger.Info("快照已切换",
		zap.String("run_id", run.RunID),
		zap.String("dir", s.store.SnapshotDir(run.RunID)),
	)
	return &etlResult{daily: daily, catDaily: catDaily, rfm: rfm}, nil
}

// recordRun 写入/更新运行记录，记录库不可用时仅记日志
func (s *EtlService) recordRun(run *models.EtlRun) {
	if database.DB == nil {
		return
	}
	if err := database.DB.Save(run).Error; err != nil {
		logger.Logger.Warn("写入运行记录失败", zap.Error(err))
	}
}

// ReadRawOrders 读取并清洗原始订单 CSV
// 返回 (保留订单, 总行数, 丢弃行数)。整行不可解析、时间戳非法、金额非正、
// 必填字段缺失的行静默丢弃，丢弃数对外暴露用于观测
func ReadRawOrders(path string) ([]models.Order, int64, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, fmt.Errorf("打开原始输入失败: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	// 表头
	if _, err := r.Read(); err != nil {
		if err == io.EOF {
			return nil, 0, 0, nil
		}
		return nil, 0, 0, fmt.Errorf("读取表头失败: %w", err)
	}

	var orders []models.Order
	var read, dropped int64
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// 结构坏行同样按清洗丢弃处理
			read++
			dropped++
			continue
		}
		read++

		o, ok := parseRawOrder(record)
		if !ok {
			dropped++
			continue
		}
		orders = append(orders, o)
	}
	return orders, read, dropped, nil
}

// parseRawOrder 解析单行原始订单，违反清洗不变量时返回 false
func parseRawOrder(record []string) (models.Order, bool) {
	var o models.Order
	if len(record) < 7 {
		return o, false
	}

	orderID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
	if err != nil || orderID <= 0 {
		return o, false
	}
	userID, err := strconv.ParseInt(strings.TrimSpace(record[1]), 10, 64)
	if err != nil || userID <= 0 {
		return o, false
	}
	ts, ok := parseTimestamp(strings.TrimSpace(record[2]))
	if !ok {
		return o, false
	}
	amount, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
	if err != nil || amount <= 0 {
		return o, false
	}

	o.OrderID = orderID
	o.UserID = userID
	o.Ts = ts
	o.Amount = amount
	o.Category = strings.TrimSpace(record[4])
	o.UsedPromo = record[5] == "1" || strings.EqualFold(record[5], "true")
	o.PaymentType = strings.TrimSpace(record[6])
	return o, true
}

func parseTimestamp(v string) (time.Time, bool) {
	if v == "" {
		return time.Time{}, false
	}
	for _, layout := range tsLayouts {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts.UTC(), true
		}
	}
	return time.Time{}, false
}
