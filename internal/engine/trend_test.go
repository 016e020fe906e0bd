package engine

import "testing"

func f(v float64) *float64 { return &v }

func TestClassifyTrend(t *testing.T) {
	cases := []struct {
		name     string
		current  float64
		previous *float64
		rate     *float64
		want     Trend
	}{
		{"unknown previous is stable", 50, nil, nil, TrendStable},
		{"rising pair", 60, f(50), nil, TrendIncreasing},
		{"falling pair", 40, f(50), nil, TrendDecreasing},
		{"equal pair", 50, f(50), nil, TrendStable},
		{"positive rate wins", 40, f(50), f(1.5), TrendIncreasing},
		{"negative rate wins", 60, f(50), f(-1.5), TrendDecreasing},
		{"zero rate falls back to pair", 60, f(50), f(0), TrendIncreasing},
		{"rate without previous is stable", 60, nil, f(2), TrendStable},
	}
	for _, tc := range cases {
		if got := ClassifyTrend(tc.current, tc.previous, tc.rate); got != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, got)
		}
	}
}
