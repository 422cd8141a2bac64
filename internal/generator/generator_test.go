package generator

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/stretchr/testify/assert"
)

// testGeneratorConfig 小规模生成器配置，保证单测速度
func testGeneratorConfig() config.GeneratorConfig {
	return config.GeneratorConfig{
		Seed:         42,
		Days:         7,
		UserMin:      1001,
		UserMax:      1100,
		WeekdayMean:  50,
		WeekendMean:  80,
		VolumeStdDev: 10,
		MinPerDay:    20,
		PromoRate:    0.3,
		StartHour:    8,
		EndHour:      22,
	}
}

// TestGenerator_Invariants 测试生成订单的基本不变量
func TestGenerator_Invariants(t *testing.T) {
	gen := NewGenerator(testGeneratorConfig())
	orders := gen.GenerateFrom(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	assert.NotEmpty(t, orders)

	var lastID int64
	for i := range orders {
		o := &orders[i]
		// 金额恒为正且不低于下限
		assert.Greater(t, o.Amount, 0.0)
		assert.GreaterOrEqual(t, o.Amount, 50.0)
		// 订单ID 唯一且严格递增
		assert.Greater(t, o.OrderID, lastID)
		lastID = o.OrderID
		// 用户落在用户池内
		assert.GreaterOrEqual(t, o.UserID, int64(1001))
		assert.LessOrEqual(t, o.UserID, int64(1100))
		// 下单时间落在 [08:00, 22:00)
		assert.GreaterOrEqual(t, o.Ts.Hour(), 8)
		assert.Less(t, o.Ts.Hour(), 22)
		assert.Contains(t, Categories, o.Category)
		assert.Contains(t, PaymentMethods, o.PaymentType)
	}
}

// TestGenerator_DailyVolumeFloor 测试日订单量下限
func TestGenerator_DailyVolumeFloor(t *testing.T) {
	cfg := testGeneratorConfig()
	cfg.WeekdayMean = 5 // 均值远低于下限，验证兜底
	cfg.WeekendMean = 5
	gen := NewGenerator(cfg)
	orders := gen.GenerateFrom(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	perDay := make(map[string]int)
	for i := range orders {
		perDay[orders[i].Date()]++
	}
	assert.Len(t, perDay, cfg.Days)
	for date, n := range perDay {
		assert.GreaterOrEqual(t, n, cfg.MinPerDay, "日期 %s 订单量低于下限", date)
	}
}

// TestGenerator_Reproducible 相同种子产生相同序列
func TestGenerator_Reproducible(t *testing.T) {
	start := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	a := NewGenerator(testGeneratorConfig()).GenerateFrom(start)
	b := NewGenerator(testGeneratorConfig()).GenerateFrom(start)
	assert.Equal(t, a, b)

	cfg := testGeneratorConfig()
	cfg.Seed = 7
	c := NewGenerator(cfg).GenerateFrom(start)
	assert.NotEqual(t, a, c)
}

// TestWriteCSV 原始 CSV 落盘
func TestWriteCSV(t *testing.T) {
	gen := NewGenerator(testGeneratorConfig())
	orders := gen.GenerateFrom(time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC))

	path := filepath.Join(t.TempDir(), "raw", "orders.csv")
	err := WriteCSV(path, orders)
	assert.NoError(t, err)
	assert.FileExists(t, path)
}
