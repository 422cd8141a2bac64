package service

import (
	"math"
	"sort"
)

// 评分用的四个分位点（20/40/60/80 分位）
var scoringQuantiles = [4]float64{0.2, 0.4, 0.6, 0.8}

// quantileCutoffs 计算四个分位切点
// 对排序后的样本在秩 q*(n-1) 处做线性插值，空输入返回全 0 切点
func quantileCutoffs(values []float64) [4]float64 {
	var cuts [4]float64
	if len(values) == 0 {
		return cuts
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	for i, q := range scoringQuantiles {
		rank := q * float64(n-1)
		lo := int(math.Floor(rank))
		hi := int(math.Ceil(rank))
		if lo == hi {
			cuts[i] = sorted[lo]
			continue
		}
		frac := rank - float64(lo)
		cuts[i] = sorted[lo] + frac*(sorted[hi]-sorted[lo])
	}
	return cuts
}

// scoreValue 将取值映射到 1-5 分
// 分箱边界规则: v <= c0 → 1, c0 < v <= c1 → 2, c1 < v <= c2 → 3, c2 < v <= c3 → 4, v > c3 → 5
// higherIsBetter 为 false 时反向（6 - 箱号），用于 recency（越近得分越高）
// 缺失值（NaN）一律得 1 分：这是刻意的低置信度默认值，不是错误
// 所有切点重合（常数列）时只会落在 1 或 5 箱，属于分位数退化的预期行为
func scoreValue(v float64, cuts [4]float64, higherIsBetter bool) int32 {
	if math.IsNaN(v) {
		return 1
	}

	var bin int32
	switch {
	case v <= cuts[0]:
		bin = 1
	case v <= cuts[1]:
		bin = 2
	case v <= cuts[2]:
		bin = 3
	case v <= cuts[3]:
		bin = 4
	default:
		bin = 5
	}

	if higherIsBetter {
		return bin
	}
	return 6 - bin
}
