// Package warehouse 负责管护数据的快照式存储。
// 每次 ETL 运行写入独立的快照目录，全部工件落盘后才原子切换 CURRENT 指针，
// 读取方只通过 CURRENT 解析当前快照，失败的运行不会暴露半成品。
package warehouse

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
	"github.com/google/uuid"
	"github.com/parquet-go/parquet-go"
)

// 工件文件名
const (
	ArtifactOrders        = "orders_clean.parquet"
	ArtifactDailyKPIs     = "kpis_by_day.parquet"
	ArtifactCategoryDaily = "category_daily.parquet"
	ArtifactRFMScores     = "rfm_scores.parquet"

	currentPointer = "CURRENT"
)

// ErrNoSnapshot 当前没有可用快照
var ErrNoSnapshot = fmt.Errorf("没有可用快照，请先运行批处理: salespulse etl")

// Store 快照存储
type Store struct {
	dir string
}

// NewStore 创建快照存储，dir 为管护数据根目录
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// NewRunID 生成快照运行ID（时间前缀 + 短 uuid，便于按时间排序）
func NewRunID() string {
	return fmt.Sprintf("%s-%s", time.Now().Format("20060102T150405"), uuid.NewString()[:8])
}

// SnapshotDir 指定运行的快照目录
func (s *Store) SnapshotDir(runID string) string {
	return filepath.Join(s.dir, runID)
}

// WriteSnapshot 将四个工件写入运行专属目录，不切换 CURRENT
func (s *Store) WriteSnapshot(runID string, orders []models.Order, daily []models.DailyKPI, catDaily []models.CategoryDaily, rfm []models.RFMScore) error {
	dir := s.SnapshotDir(runID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建快照目录失败: %w", err)
	}

	if err := writeParquet(filepath.Join(dir, ArtifactOrders), orders); err != nil {
		return fmt.Errorf("写入清洗订单失败: %w", err)
	}
	if err := writeParquet(filepath.Join(dir, ArtifactDailyKPIs), daily); err != nil {
		return fmt.Errorf("写入日度KPI失败: %w", err)
	}
	if err := writeParquet(filepath.Join(dir, ArtifactCategoryDaily), catDaily); err != nil {
		return fmt.Errorf("写入品类日度汇总失败: %w", err)
	}
	if err := writeParquet(filepath.Join(dir, ArtifactRFMScores), rfm); err != nil {
		return fmt.Errorf("写入RFM评分失败: %w", err)
	}

	return nil
}

// Promote 原子切换 CURRENT 指针到指定运行
func (s *Store) Promote(runID string) error {
	tmp := filepath.Join(s.dir, currentPointer+".tmp")
	if err := os.WriteFile(tmp, []byte(runID+"\n"), 0644); err != nil {
		return fmt.Errorf("写入 CURRENT 临时文件失败: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, currentPointer)); err != nil {
		return fmt.Errorf("切换 CURRENT 指针失败: %w", err)
	}
	return nil
}

// CurrentID 解析当前快照的运行ID
func (s *Store) CurrentID() (string, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, currentPointer))
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSnapshot
		}
		return "", fmt.Errorf("读取 CURRENT 指针失败: %w", err)
	}
	id := strings.TrimSpace(string(data))
	if id == "" {
		return "", ErrNoSnapshot
	}
	return id, nil
}

// LoadOrders 读取清洗订单工件
func (s *Store) LoadOrders(runID string) ([]models.Order, error) {
	return readParquet[models.Order](s.artifactPath(runID, ArtifactOrders))
}

// LoadDailyKPIs 读取日度KPI工件
func (s *Store) LoadDailyKPIs(runID string) ([]models.DailyKPI, error) {
	return readParquet[models.DailyKPI](s.artifactPath(runID, ArtifactDailyKPIs))
}

// LoadCategoryDaily 读取品类日度汇总工件
func (s *Store) LoadCategoryDaily(runID string) ([]models.CategoryDaily, error) {
	return readParquet[models.CategoryDaily](s.artifactPath(runID, ArtifactCategoryDaily))
}

// LoadRFMScores 读取RFM评分工件
func (s *Store) LoadRFMScores(runID string) ([]models.RFMScore, error) {
	return readParquet[models.RFMScore](s.artifactPath(runID, ArtifactRFMScores))
}

func (s *Store) artifactPath(runID, name string) string {
	return filepath.Join(s.SnapshotDir(runID), name)
}

func writeParquet[T any](path string, rows []T) error {
	return parquet.WriteFile(path, rows)
}

func readParquet[T any](path string) ([]T, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("工件缺失 [%s]，请重新运行批处理: salespulse etl", filepath.Base(path))
	}
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("读取工件失败 [%s]: %w", filepath.Base(path), err)
	}
	return rows, nil
}
