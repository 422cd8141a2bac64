package generator

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Srushti-98/sales-pulse-dashboard/config"
	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
)

// priceBand 品类价格区间
type priceBand struct {
	Low  float64
	High float64
}

// 固定品类集合及抽样权重
var (
	Categories      = []string{"Electronics", "Beauty", "Fashion", "Grocery", "Sports", "Books", "Home"}
	CategoryWeights = []float64{0.20, 0.12, 0.22, 0.18, 0.10, 0.08, 0.10}

	PaymentMethods = []string{"CARD", "UPI", "WALLET", "COD"}
	PaymentWeights = []float64{0.55, 0.25, 0.15, 0.05}

	categoryPrices = map[string]priceBand{
		"Electronics": {2500, 9000},
		"Beauty":      {300, 1200},
		"Fashion":     {700, 2500},
		"Grocery":     {200, 900},
		"Sports":      {600, 3000},
		"Books":       {250, 1200},
		"Home":        {400, 2500},
	}
)

// Generator 合成订单生成器
type Generator struct {
	cfg config.GeneratorConfig
	rng *rand.Rand
}

// NewGenerator 创建生成器，相同种子产生相同订单序列
func NewGenerator(cfg config.GeneratorConfig) *Generator {
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Generate 生成全部合成订单
// 按天生成：订单量服从正态分布（周末均值更高），订单ID 全程严格递增
func (g *Generator) Generate() []models.Order {
	end := time.Now().Truncate(24 * time.Hour)
	return g.GenerateFrom(end.AddDate(0, 0, -(g.cfg.Days - 1)))
}

// GenerateFrom 从指定起始日期生成 cfg.Days 天的订单
func (g *Generator) GenerateFrom(start time.Time) []models.Order {
	start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)

	var orders []models.Order
	orderID := int64(1)
	userSpan := g.cfg.UserMax - g.cfg.UserMin + 1
	windowSec := (g.cfg.EndHour - g.cfg.StartHour) * 3600

	for d := 0; d < g.cfg.Days; d++ {
		day := start.AddDate(0, 0, d)

		// 工作日/周末的日订单量均值不同，下限兜底
		mean := g.cfg.WeekdayMean
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			mean = g.cfg.WeekendMean
		}
		n := int(g.rng.NormFloat64()*g.cfg.VolumeStdDev + mean)
		if n < g.cfg.MinPerDay {
			n = g.cfg.MinPerDay
		}

		for i := 0; i < n; i++ {
			cat := Categories[g.weightedIndex(CategoryWeights)]
			band := categoryPrices[cat]

			// 金额：品类价格区间上的 Gamma 分布，带下限并保留两位小数
			amount := g.gamma(2.0, (band.High-band.Low)/6.0) + band.Low
			if amount < 50.0 {
				amount = 50.0
			}
			amount = round2(amount)

			// 下单时间落在当天 [start_hour, end_hour) 内
			sec := g.rng.Intn(windowSec) + g.cfg.StartHour*3600

			orders = append(orders, models.Order{
				OrderID:     orderID,
				UserID:      g.cfg.UserMin + g.rng.Int63n(userSpan),
				Ts:          day.Add(time.Duration(sec) * time.Second),
				Amount:      amount,
				Category:    cat,
				UsedPromo:   g.rng.Float64() < g.cfg.PromoRate,
				PaymentType: PaymentMethods[g.weightedIndex(PaymentWeights)],
			})
			orderID++
		}
	}

	return orders
}

// weightedIndex 按权重抽取下标
func (g *Generator) weightedIndex(weights []float64) int {
	u := g.rng.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if u < acc {
			return i
		}
	}
	return len(weights) - 1
}

// gamma Gamma(shape, scale) 抽样，Marsaglia-Tsang 方法，shape >= 1
func (g *Generator) gamma(shape, scale float64) float64 {
	d := shape - 1.0/3.0
	c := 1.0 / (3.0 * math.Sqrt(d))
	for {
		x := g.rng.NormFloat64()
		v := 1.0 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := g.rng.Float64()
		if u < 1.0-0.0331*x*x*x*x {
			return d * v * scale
		}
		if math.Log(u) < 0.5*x*x+d*(1.0-v+math.Log(v)) {
			return d * v * scale
		}
	}
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// WriteCSV 将订单写为原始 CSV 文件（批处理的输入）
func WriteCSV(path string, orders []models.Order) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("创建原始数据目录失败: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("创建原始数据文件失败: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(models.RawHeader); err != nil {
		return fmt.Errorf("写入表头失败: %w", err)
	}

	for i := range orders {
		o := &orders[i]
		promo := "0"
		if o.UsedPromo {
			promo = "1"
		}
		record := []string{
			strconv.FormatInt(o.OrderID, 10),
			strconv.FormatInt(o.UserID, 10),
			o.Ts.Format("2006-01-02T15:04:05"),
			strconv.FormatFloat(o.Amount, 'f', 2, 64),
			o.Category,
			promo,
			o.PaymentType,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("写入订单行失败: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("刷新 CSV 失败: %w", err)
	}
	return nil
}
