package summary

import (
	"time"

	"github.com/glucolog/glucolog/glucose"
)

// Bucket is one interval of resampled glucose data.
type Bucket struct {
	Time         time.Time
	AverageValue *float64
	Readings     int
}

// forwardFillLimit bounds how many consecutive empty buckets inherit the
// previous average before gaps are left as nil.
const forwardFillLimit = 2

// Resample downsamples readings to fixed intervals, averaging the values in
// each bucket. Empty buckets between populated ones are forward-filled up
// to the fill limit. Input must be sorted by time.
func Resample(readings []glucose.Reading, interval time.Duration) []Bucket {
	if len(readings) == 0 || interval <= 0 {
		return nil
	}

	first := readings[0].Time.Truncate(interval)
	last := readings[len(readings)-1].Time.Truncate(interval)
	count := int(last.Sub(first)/interval) + 1

	buckets := make([]Bucket, count)
	for i := range buckets {
		buckets[i].Time = first.Add(time.Duration(i) * interval)
	}

	for _, reading := range readings {
		i := int(reading.Time.Truncate(interval).Sub(first) / interval)
		if buckets[i].AverageValue == nil {
			buckets[i].AverageValue = new(float64)
		}
		*buckets[i].AverageValue += reading.Value
		buckets[i].Readings++
	}
	for i := range buckets {
		if buckets[i].Readings > 0 {
			*buckets[i].AverageValue /= float64(buckets[i].Readings)
		}
	}

	filled := 0
	for i := 1; i < len(buckets); i++ {
		if buckets[i].Readings > 0 {
			filled = 0
			continue
		}
		if filled < forwardFillLimit && buckets[i-1].AverageValue != nil {
			value := *buckets[i-1].AverageValue
			buckets[i].AverageValue = &value
			filled++
		}
	}

	return buckets
}
