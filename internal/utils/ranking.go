package utils

import (
	"math"
	"time"
)

type RankConfig struct {
	Gravity        float64 // 时间重力
	WeightComment  float64
	WeightUpvote   float64
	WeightDownvote float64
	ScaleFactor    float64 // 放大系数
}

var DefaultRankConfig = RankConfig{
	Gravity:        1.2,
	WeightComment:  2.0,
	WeightUpvote:   1.0,
	WeightDownvote: 1.5,
	ScaleFactor:    100.0,
}

// CalculateScore ranks an idea by log-smoothed weighted engagement divided by
// a time decay, so fresh well-received ideas float to the top.
func CalculateScore(t time.Time, up, down, comment int) float64 {
	return DefaultRankConfig.Score(time.Since(t), up, down, comment)
}

func (cfg RankConfig) Score(age time.Duration, up, down, comment int) float64 {
	weightedSum := (float64(up) * cfg.WeightUpvote) +
		(float64(comment) * cfg.WeightComment) -
		(float64(down) * cfg.WeightDownvote)

	// 防止负数无法取对数
	if weightedSum < 0 {
		weightedSum = 0
	}

	logScore := math.Log10(weightedSum + 1)
	numerator := logScore * cfg.ScaleFactor

	hours := age.Hours()
	if hours < 0 {
		hours = 0
	}
	decay := math.Pow(hours/24+1, cfg.Gravity)

	return numerator / decay
}
