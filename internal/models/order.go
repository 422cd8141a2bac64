package models

import (
	"time"
)

// Order 订单记录（清洗后不可变）
type Order struct {
	OrderID     int64     `parquet:"order_id" json:"order_id"`
	UserID      int64     `parquet:"user_id" json:"user_id"`
	Ts          time.Time `parquet:"ts,timestamp(millisecond)" json:"ts"`
	Amount      float64   `parquet:"amount" json:"amount"`
	Category    string    `parquet:"category" json:"category"`
	UsedPromo   bool      `parquet:"used_promo" json:"used_promo"`
	PaymentType string    `parquet:"payment_type" json:"payment_type"`
}

// Date 订单所属日期（截断到天）
func (o *Order) Date() string {
	return o.Ts.Format("2006-01-02")
}

// RawHeader 原始 CSV 列顺序
var RawHeader = []string{"order_id", "user_id", "ts", "amount", "category", "used_promo", "payment_type"}
