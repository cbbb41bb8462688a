package summary

import (
	"math"
	"time"

	"github.com/glucolog/glucolog/glucose"
)

// PeriodStatistics holds the aggregate glucose metrics of a date window.
// Statistical fields are nil when the window holds no readings; the
// coefficient of variation is additionally nil when the mean is zero.
type PeriodStatistics struct {
	DateStart time.Time
	DateEnd   time.Time

	TotalReadings int

	TimeVeryLowPercent  *float64
	TimeLowPercent      *float64
	TimeInRangePercent  *float64
	TimeHighPercent     *float64
	TimeVeryHighPercent *float64

	VeryLowReadings  int
	LowReadings      int
	InRangeReadings  int
	HighReadings     int
	VeryHighReadings int

	AverageGlucose       *float64
	GlucoseStd           *float64
	CoefficientVariation *float64
}

// TimeInAnyLowPercent is the share of readings below range, both bands
// combined.
func (s *PeriodStatistics) TimeInAnyLowPercent() *float64 {
	return sumPercents(s.TimeVeryLowPercent, s.TimeLowPercent)
}

// TimeInAnyHighPercent is the share of readings above range, both bands
// combined.
func (s *PeriodStatistics) TimeInAnyHighPercent() *float64 {
	return sumPercents(s.TimeHighPercent, s.TimeVeryHighPercent)
}

// Calculate computes PeriodStatistics over the readings whose timestamp
// falls in [start, end). Classification is recomputed from the value so the
// result agrees with the loader regardless of what was stored. The standard
// deviation is the population standard deviation.
func Calculate(readings []glucose.Reading, start time.Time, end time.Time) PeriodStatistics {
	stats := PeriodStatistics{
		DateStart: start,
		DateEnd:   end,
	}

	window := glucose.FilterByPeriod(readings, start, end)
	stats.TotalReadings = len(window)
	if stats.TotalReadings == 0 {
		return stats
	}

	var sum float64
	for _, reading := range window {
		switch glucose.Classify(reading.Value) {
		case glucose.RangeVeryLow:
			stats.VeryLowReadings++
		case glucose.RangeLow:
			stats.LowReadings++
		case glucose.RangeNormal:
			stats.InRangeReadings++
		case glucose.RangeHigh:
			stats.HighReadings++
		case glucose.RangeVeryHigh:
			stats.VeryHighReadings++
		}
		sum += reading.Value
	}

	total := float64(stats.TotalReadings)
	stats.TimeVeryLowPercent = percent(stats.VeryLowReadings, total)
	stats.TimeLowPercent = percent(stats.LowReadings, total)
	stats.TimeInRangePercent = percent(stats.InRangeReadings, total)
	stats.TimeHighPercent = percent(stats.HighReadings, total)
	stats.TimeVeryHighPercent = percent(stats.VeryHighReadings, total)

	mean := sum / total
	stats.AverageGlucose = &mean

	var sumSquares float64
	for _, reading := range window {
		deviation := reading.Value - mean
		sumSquares += deviation * deviation
	}
	std := math.Sqrt(sumSquares / total)
	stats.GlucoseStd = &std

	if mean != 0 {
		cv := std / mean * 100
		stats.CoefficientVariation = &cv
	}

	return stats
}

// CalculateDaily slices the full span of the readings into civil days in
// loc and computes one PeriodStatistics per day that has readings, using
// the same window logic as any other range.
func CalculateDaily(readings []glucose.Reading, loc *time.Location) []PeriodStatistics {
	if len(readings) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.UTC
	}

	first := readings[0].Time.In(loc)
	last := readings[len(readings)-1].Time.In(loc)

	var daily []PeriodStatistics
	day := time.Date(first.Year(), first.Month(), first.Day(), 0, 0, 0, 0, loc)
	for !day.After(last) {
		next := day.AddDate(0, 0, 1)
		stats := Calculate(readings, day, next)
		if stats.TotalReadings > 0 {
			daily = append(daily, stats)
		}
		day = next
	}

	return daily
}

func percent(count int, total float64) *float64 {
	p := float64(count) / total * 100
	return &p
}

func sumPercents(a *float64, b *float64) *float64 {
	if a == nil || b == nil {
		return nil
	}
	s := *a + *b
	return &s
}
