package merge

import (
	"time"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
)

// Merger joins health records to glucose readings by nearest timestamp.
// A Tolerance of zero means every nearest match is accepted; a positive
// Tolerance drops pairs further apart than the window. Unconstrained joins
// against sparse health data pair records with readings hours away, so
// callers working with patchy exports should always set a window.
type Merger struct {
	Tolerance time.Duration
}

func NewMerger(tolerance time.Duration) *Merger {
	return &Merger{Tolerance: tolerance}
}

// Merge pairs each health record with the glucose reading minimizing the
// absolute distance to the record's start time, ties broken by the earlier
// reading. Records without an in-tolerance match produce nothing. Both
// inputs must be sorted ascending; the scan is a single forward pass over
// each, so the cost is linear in the two lengths.
func (m *Merger) Merge(records []health.Record, readings []glucose.Reading) []MergedRecord {
	merged := make([]MergedRecord, 0, len(records))
	if len(readings) == 0 {
		return merged
	}

	j := 0
	for _, record := range records {
		// First reading at or after the record; its predecessor is the
		// only other nearest-neighbor candidate.
		for j < len(readings) && readings[j].Time.Before(record.Start) {
			j++
		}

		best := -1
		if j < len(readings) {
			best = j
		}
		if j > 0 {
			if best == -1 || distance(record.Start, readings[j-1].Time) <= distance(record.Start, readings[j].Time) {
				best = j - 1
			}
		}

		gap := distance(record.Start, readings[best].Time)
		if m.Tolerance > 0 && gap > m.Tolerance {
			continue
		}

		merged = append(merged, newMergedRecord(record, readings[best]))
	}

	return merged
}

func newMergedRecord(record health.Record, reading glucose.Reading) MergedRecord {
	return MergedRecord{
		HealthTime:      record.Start,
		GlucoseTime:     reading.Time,
		TimeDiffMinutes: record.Start.Sub(reading.Time).Minutes(),
		RecordType:      record.Type,
		HealthValue:     record.Value,
		HealthUnit:      record.Unit,
		SourceName:      record.SourceName,
		GlucoseValue:    reading.Value,
		GlucoseSource:   reading.Source,
		GlucoseTrend:    reading.Trend,
		GlucoseRange:    reading.Range,
		Context:         NewContext(reading.Time),
	}
}

func distance(a time.Time, b time.Time) time.Duration {
	d := a.Sub(b)
	if d < 0 {
		return -d
	}
	return d
}
