package glucose

import (
	"sort"
	"time"
)

// Band thresholds in mg/dL, following the standard consensus ranges.
const (
	VeryLowThreshold  = 54.0
	LowThreshold      = 70.0
	HighThreshold     = 180.0
	VeryHighThreshold = 250.0
)

// MmolToMgDl converts mmol/L glucose concentrations to mg/dL.
const MmolToMgDl = 18.0182

type Range string

const (
	RangeVeryLow  Range = "very_low"
	RangeLow      Range = "low"
	RangeNormal   Range = "normal"
	RangeHigh     Range = "high"
	RangeVeryHigh Range = "very_high"
)

type Source string

const (
	SourceHistoric    Source = "historic"
	SourceScan        Source = "scan"
	SourceFingerstick Source = "fingerstick"
)

type Trend string

const (
	TrendRisingFast  Trend = "rising_fast"
	TrendRising      Trend = "rising"
	TrendStable      Trend = "stable"
	TrendFalling     Trend = "falling"
	TrendFallingFast Trend = "falling_fast"
)

// Reading is a single glucose measurement. Range is always derived from
// Value via Classify and is never set independently.
type Reading struct {
	Time         time.Time
	Value        float64
	Source       Source
	Trend        *Trend
	Range        Range
	RateOfChange *float64
}

func NewReading(t time.Time, value float64, source Source) Reading {
	return Reading{
		Time:   t,
		Value:  value,
		Source: source,
		Range:  Classify(value),
	}
}

// Classify maps a glucose value in mg/dL to its range band. The low
// thresholds are exclusive and the high thresholds inclusive, so 54 is low,
// 70 and 180 are normal, and 250 is high.
func Classify(value float64) Range {
	switch {
	case value < VeryLowThreshold:
		return RangeVeryLow
	case value < LowThreshold:
		return RangeLow
	case value <= HighThreshold:
		return RangeNormal
	case value <= VeryHighThreshold:
		return RangeHigh
	default:
		return RangeVeryHigh
	}
}

// TrendFromRate buckets a rate of change in mg/dL per minute.
func TrendFromRate(rate float64) Trend {
	switch {
	case rate > 2:
		return TrendRisingFast
	case rate >= 1:
		return TrendRising
	case rate < -2:
		return TrendFallingFast
	case rate <= -1:
		return TrendFalling
	default:
		return TrendStable
	}
}

// AnnotateTrends computes the rate of change and trend of each reading from
// its predecessor. The slice must be sorted by time. The first reading, and
// any reading sharing a timestamp with its predecessor, keeps nil values.
func AnnotateTrends(readings []Reading) {
	for i := 1; i < len(readings); i++ {
		minutes := readings[i].Time.Sub(readings[i-1].Time).Minutes()
		if minutes <= 0 {
			continue
		}
		rate := (readings[i].Value - readings[i-1].Value) / minutes
		trend := TrendFromRate(rate)
		readings[i].RateOfChange = &rate
		readings[i].Trend = &trend
	}
}

// SortByTime sorts readings ascending by timestamp, preserving the input
// order of readings with equal timestamps.
func SortByTime(readings []Reading) {
	sort.SliceStable(readings, func(i, j int) bool {
		return readings[i].Time.Before(readings[j].Time)
	})
}

// FilterByPeriod returns the readings with Time in the half-open interval
// [start, end). Input must be sorted by time; the result shares storage.
func FilterByPeriod(readings []Reading, start time.Time, end time.Time) []Reading {
	lo := sort.Search(len(readings), func(i int) bool {
		return !readings[i].Time.Before(start)
	})
	hi := sort.Search(len(readings), func(i int) bool {
		return !readings[i].Time.Before(end)
	})
	return readings[lo:hi]
}
