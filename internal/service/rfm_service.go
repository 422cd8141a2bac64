package service

import (
	"fmt"

	"github.com/Srushti-98/sales-pulse-dashboard/internal/models"
)

// RFMService RFM 评分服务
// 对 recency/frequency/monetary 各算一次全局分位切点，再对每行做无状态分箱
type RFMService struct{}

// NewRFMService 创建 RFM 评分服务
func NewRFMService() *RFMService {
	return &RFMService{}
}

// Score 对全部用户特征打分，每用户一行，不做任何过滤
// R 对 recency 反向（越近越高），F/M 正向，RFM 为三位数字拼接
func (s *RFMService) Score(features []models.UserFeature) []models.RFMScore {
	if len(features) == 0 {
		return nil
	}

	recency := make([]float64, len(features))
	frequency := make([]float64, len(features))
	monetary := make([]float64, len(features))
	for i := range features {
		recency[i] = features[i].RecencyDays
		frequency[i] = float64(features[i].Frequency)
		monetary[i] = features[i].Monetary
	}

	recCuts := quantileCutoffs(recency)
	freqCuts := quantileCutoffs(frequency)
	monCuts := quantileCutoffs(monetary)

	scores := make([]models.RFMScore, len(features))
	for i := range features {
		f := &features[i]
		r := scoreValue(f.RecencyDays, recCuts, false)
		fq := scoreValue(float64(f.Frequency), freqCuts, true)
		m := scoreValue(f.Monetary, monCuts, true)
		scores[i] = models.RFMScore{
			UserID:      f.UserID,
			RecencyDays: f.RecencyDays,
			Frequency:   f.Frequency,
			Monetary:    f.Monetary,
			R:           r,
			F:           fq,
			M:           m,
			RFM:         fmt.Sprintf("%d%d%d", r, fq, m),
		}
	}
	return scores
}
