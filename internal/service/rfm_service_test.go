package service

import (
	"fmt"
	"testing"

	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
)

// TestRFMService_ScoreInvariants R/F/M ∈ [1,5]，RFM 恰为三位数字拼接
func TestRFMService_ScoreInvariants(t *testing.T) {
	rfm := NewRFMService()

	features := make([]models.UserFeature, 0, 25)
	for i := 1; i <= 25; i++ {
		features = append(features, models.UserFeature{
			UserID:      int64(i),
			RecencyDays: float64(i),
			Frequency:   int64(26 - i),
			Monetary:    float64(i * 100),
		})
	}

	scores := rfm.Score(features)
	assert.Len(t, scores, 25)
	for _, sc := range scores {
		assert.GreaterOrEqual(t, sc.R, int32(1))
		assert.LessOrEqual(t, sc.R, int32(5))
		assert.GreaterOrEqual(t, sc.F, int32(1))
		assert.LessOrEqual(t, sc.F, int32(5))
		assert.GreaterOrEqual(t, sc.M, int32(1))
		assert.LessOrEqual(t, sc.M, int32(5))
		assert.Len(t, sc.RFM, 3)
		assert.Equal(t, fmt.Sprintf("%d%d%d", sc.R, sc.F, sc.M), sc.RFM)
	}
}

// TestRFMService_Direction R 对 recency 反向，F/M 正向
func TestRFMService_Direction(t *testing.T) {
	rfm := NewRFMService()

	features := make([]models.UserFeature, 0, 25)
	for i := 1; i <= 25; i++ {
		features = append(features, models.UserFeature{
			UserID:      int64(i),
			RecencyDays: float64(i),
			Frequency:   int64(i),
			Monetary:    float64(i * 10),
		})
	}

	scores := rfm.Score(features)

	// 最近下单的用户（recency 最小）R 最高，频次/金额最低的 F/M 最低
	first := scores[0]
	assert.Equal(t, int32(5), first.R)
	assert.Equal(t, int32(1), first.F)
	assert.Equal(t, int32(1), first.M)

	// 最久未下单的用户 R 最低，频次/金额最高的 F/M 最高
	last := scores[len(scores)-1]
	assert.Equal(t, int32(1), last.R)
	assert.Equal(t, int32(5), last.F)
	assert.Equal(t, int32(5), last.M)
}

// TestRFMService_DegenerateColumn 常数列不报错，分数只会是 1 或 5
func TestRFMService_DegenerateColumn(t *testing.T) {
	rfm := NewRFMService()

	features := []models.UserFeature{
		{UserID: 1, RecencyDays: 3, Frequency: 2, Monetary: 100},
		{UserID: 2, RecencyDays: 3, Frequency: 2, Monetary: 100},
		{UserID: 3, RecencyDays: 3, Frequency: 2, Monetary: 100},
	}

	scores := rfm.Score(features)
	assert.Len(t, scores, 3)
	for _, sc := range scores {
		// recency 反向后 1 箱变 5 分
		assert.Equal(t, int32(5), sc.R)
		assert.Equal(t, int32(1), sc.F)
		assert.Equal(t, int32(1), sc.M)
		assert.Equal(t, "511", sc.RFM)
	}
}

// TestRFMService_Empty 空特征表返回空结果
func TestRFMService_Empty(t *testing.T) {
	rfm := NewRFMService()
	assert.Empty(t, rfm.Score(nil))
}
