package engine

// #region trend
// Trend classifies the direction of a measured value between two readings.
type Trend string

const (
	TrendIncreasing Trend = "INCREASING"
	TrendDecreasing Trend = "DECREASING"
	TrendStable     Trend = "STABLE"
)

// ClassifyTrend compares the current reading against the previous one.
// An unknown previous reading is STABLE. When an explicit rate of change
// is supplied, its sign wins over the pairwise comparison.
func ClassifyTrend(current float64, previous, rateOfChange *float64) Trend {
	if previous == nil {
		return TrendStable
	}
	if rateOfChange != nil {
		if *rateOfChange > 0 {
			return TrendIncreasing
		}
		if *rateOfChange < 0 {
			return TrendDecreasing
		}
	}
	if current < *previous {
		return TrendDecreasing
	}
	if current > *previous {
		return TrendIncreasing
	}
	return TrendStable
}

// #endregion trend
