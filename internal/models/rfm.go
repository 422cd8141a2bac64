package models

import (
	"time"
)

// UserFeature 每个用户的 RFM 特征（中间表）
// RecencyDays 以批次内全局最大时间戳为锚点，不用 "当前时间"，保证结果可复现
type UserFeature struct {
	UserID      int64     `parquet:"user_id" json:"user_id"`
	LastTs      time.Time `parquet:"last_ts,timestamp(millisecond)" json:"last_ts"`
	Frequency   int64     `parquet:"frequency" json:"frequency"`
	Monetary    float64   `parquet:"monetary" json:"monetary"`
	RecencyDays float64   `parquet:"recency_days" json:"recency_days"`
}

// RFMScore 每个用户的最终 RFM 评分
// R/F/M 均为 [1,5] 的整数，RFM 为三者按序拼接的 3 位字符串，如 "541"
type RFMScore struct {
	UserID      int64   `parquet:"user_id" json:"user_id"`
	RecencyDays float64 `parquet:"recency_days" json:"recency_days"`
	Frequency   int64   `parquet:"frequency" json:"frequency"`
	Monetary    float64 `parquet:"monetary" json:"monetary"`
	R           int32   `parquet:"r" json:"R"`
	F           int32   `parquet:"f" json:"F"`
	M           int32   `parquet:"m" json:"M"`
	RFM         string  `parquet:"rfm" json:"RFM"`
}
