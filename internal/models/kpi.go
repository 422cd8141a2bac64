package models

// DailyKPI 全局日度指标，清洗集中出现的每个日期一行
type DailyKPI struct {
	Date        string  `parquet:"date" json:"date"`
	Revenue     float64 `parquet:"revenue" json:"revenue"`
	Orders      int64   `parquet:"orders" json:"orders"`
	ActiveUsers int64   `parquet:"active_users" json:"active_users"`
	AOV         float64 `parquet:"aov" json:"aov"`
}

// CategoryDaily 按 (日期, 品类) 的日度汇总
// 品类为空的行保留为独立分组
type CategoryDaily struct {
	Date     string  `parquet:"date" json:"date"`
	Category string  `parquet:"category" json:"category"`
	Revenue  float64 `parquet:"revenue" json:"revenue"`
	Orders   int64   `parquet:"orders" json:"orders"`
}
