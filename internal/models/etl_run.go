package models

import (
	"time"
)

// ETL 运行状态
const (
	RunStatusRunning = "running"
	RunStatusSuccess = "success"
	RunStatusFailed  = "failed"
)

// EtlRun 批处理运行记录
type EtlRun struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	RunID        string     `gorm:"uniqueIndex;type:varchar(64);not null;comment:快照运行ID" json:"run_id"`
	Status       string     `gorm:"index;type:varchar(16);not null;comment:运行状态" json:"status"`
	RowsRead     int64      `gorm:"not null;default:0;comment:读取行数" json:"rows_read"`
	RowsDropped  int64      `gorm:"not null;default:0;comment:清洗丢弃行数" json:"rows_dropped"`
	RowsKept     int64      `gorm:"not null;default:0;comment:保留行数" json:"rows_kept"`
	DailyRows    int64      `gorm:"not null;default:0;comment:日度KPI行数" json:"daily_rows"`
	CategoryRows int64      `gorm:"not null;default:0;comment:品类日度行数" json:"category_rows"`
	RFMRows      int64      `gorm:"not null;default:0;comment:RFM行数" json:"rfm_rows"`
	Error        string     `gorm:"type:text;comment:失败原因" json:"error,omitempty"`
	StartedAt    time.Time  `gorm:"index;not null;comment:开始时间" json:"started_at"`
	FinishedAt   *time.Time `gorm:"comment:结束时间" json:"finished_at,omitempty"`
}

// TableName 指定表名
func (EtlRun) TableName() string {
	return "etl_runs"
}
