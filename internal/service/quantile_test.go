package service

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestQuantileCutoffs 20/40/60/80 分位切点按秩线性插值
func TestQuantileCutoffs(t *testing.T) {
	cuts := quantileCutoffs([]float64{10, 20, 30, 40, 50})
	assert.InDelta(t, 18.0, cuts[0], 1e-9)
	assert.InDelta(t, 26.0, cuts[1], 1e-9)
	assert.InDelta(t, 34.0, cuts[2], 1e-9)
	assert.InDelta(t, 42.0, cuts[3], 1e-9)
}

// TestQuantileCutoffs_Unsorted 输入顺序不影响切点
func TestQuantileCutoffs_Unsorted(t *testing.T) {
	a := quantileCutoffs([]float64{50, 10, 40, 20, 30})
	b := quantileCutoffs([]float64{10, 20, 30, 40, 50})
	assert.Equal(t, b, a)
}

// TestScoreValue_BoundaryRule 分箱遵循文档化的 <= 边界规则
// 对 [10,20,30,40,50]，值 25 落在 (18, 26] 即第 2 箱
func TestScoreValue_BoundaryRule(t *testing.T) {
	cuts := quantileCutoffs([]float64{10, 20, 30, 40, 50})

	assert.Equal(t, int32(2), scoreValue(25, cuts, true))

	// 边界本身归属左箱
	assert.Equal(t, int32(1), scoreValue(18, cuts, true))
	assert.Equal(t, int32(2), scoreValue(26, cuts, true))
	assert.Equal(t, int32(5), scoreValue(42.01, cuts, true))
	assert.Equal(t, int32(1), scoreValue(5, cuts, true))
}

// TestScoreValue_Reversed recency 反向：值越小得分越高
func TestScoreValue_Reversed(t *testing.T) {
	cuts := quantileCutoffs([]float64{10, 20, 30, 40, 50})

	assert.Equal(t, int32(5), scoreValue(5, cuts, false))
	assert.Equal(t, int32(1), scoreValue(50, cuts, false))
	assert.Equal(t, int32(4), scoreValue(25, cuts, false))
}

// TestScoreValue_Missing 缺失值一律 1 分（低置信度默认，非错误）
func TestScoreValue_Missing(t *testing.T) {
	cuts := quantileCutoffs([]float64{10, 20, 30, 40, 50})
	assert.Equal(t, int32(1), scoreValue(math.NaN(), cuts, true))
	assert.Equal(t, int32(1), scoreValue(math.NaN(), cuts, false))
}

// TestScoreValue_DegenerateColumn 常数列：四个切点重合，只会落在 1 或 5 箱
func TestScoreValue_DegenerateColumn(t *testing.T) {
	cuts := quantileCutoffs([]float64{7, 7, 7, 7})
	assert.Equal(t, [4]float64{7, 7, 7, 7}, cuts)

	assert.Equal(t, int32(1), scoreValue(7, cuts, true))
	assert.Equal(t, int32(1), scoreValue(6, cuts, true))
	assert.Equal(t, int32(5), scoreValue(8, cuts, true))
}

// TestQuantileCutoffs_Empty 空列返回全零切点
func TestQuantileCutoffs_Empty(t *testing.T) {
	assert.Equal(t, [4]float64{}, quantileCutoffs(nil))
}
