package quality

import (
	"fmt"
	"time"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
)

// Physiologically plausible glucose bounds in mg/dL. Values outside are
// flagged, never rejected.
const (
	MinPhysiologicalValue = 20.0
	MaxPhysiologicalValue = 600.0
)

// Gap severity tiers between consecutive readings, in minutes.
const (
	GapWarningMinutes = 60.0
	GapFailureMinutes = 360.0
)

const (
	glucoseTable = "glucose_readings"
	healthTable  = "health_records"
)

var (
	validSources = mapset.NewSet(
		string(glucose.SourceHistoric),
		string(glucose.SourceScan),
		string(glucose.SourceFingerstick),
	)
	validTrends = mapset.NewSet(
		string(glucose.TrendRisingFast),
		string(glucose.TrendRising),
		string(glucose.TrendStable),
		string(glucose.TrendFalling),
		string(glucose.TrendFallingFast),
	)
	validRanges = mapset.NewSet(
		string(glucose.RangeVeryLow),
		string(glucose.RangeLow),
		string(glucose.RangeNormal),
		string(glucose.RangeHigh),
		string(glucose.RangeVeryHigh),
	)
)

// Checker runs the validation battery. Every check is stateless and yields
// exactly one CheckResult; the aggregate report is the union of all of them
// in no particular order.
type Checker struct{}

func NewChecker() *Checker {
	return &Checker{}
}

func (c *Checker) RunAll(readings []glucose.Reading, records []health.Record) []CheckResult {
	return []CheckResult{
		c.CheckGlucoseRecordCount(readings),
		c.CheckGlucoseDateRange(readings),
		c.CheckHealthNullRates(records),
		c.CheckOutOfRangeValues(readings),
		c.CheckDuplicateKeys(readings),
		c.CheckReadingGaps(readings, GapWarningMinutes, ResultWarning),
		c.CheckReadingGaps(readings, GapFailureMinutes, ResultFail),
		c.CheckEnumDomains(readings),
		c.CheckCoverageOverlap(readings, records),
	}
}

func (c *Checker) CheckGlucoseRecordCount(readings []glucose.Reading) CheckResult {
	if len(readings) == 0 {
		return NewCheckResult(glucoseTable, "record_count", ResultFail, "no glucose readings loaded", 0)
	}
	details := fmt.Sprintf("%d readings", len(readings))
	return NewCheckResult(glucoseTable, "record_count", ResultPass, details, int64(len(readings)))
}

// CheckGlucoseDateRange verifies the readings span a sane window: sorted
// input, no timestamps in the future.
func (c *Checker) CheckGlucoseDateRange(readings []glucose.Reading) CheckResult {
	if len(readings) == 0 {
		return NewCheckResult(glucoseTable, "date_range", ResultFail, "no readings to derive a date range from", 0)
	}

	first := readings[0].Time
	last := readings[len(readings)-1].Time
	details := fmt.Sprintf("%s to %s", first.Format(time.RFC3339), last.Format(time.RFC3339))

	if last.Before(first) {
		return NewCheckResult(glucoseTable, "date_range", ResultFail, "readings are not sorted: "+details, int64(len(readings)))
	}
	if last.After(time.Now().Add(24 * time.Hour)) {
		return NewCheckResult(glucoseTable, "date_range", ResultWarning, "readings dated in the future: "+details, int64(len(readings)))
	}
	return NewCheckResult(glucoseTable, "date_range", ResultPass, details, int64(len(readings)))
}

func (c *Checker) CheckHealthNullRates(records []health.Record) CheckResult {
	if len(records) == 0 {
		return NewCheckResult(healthTable, "null_rates", ResultWarning, "no health records loaded", 0)
	}

	nullValues := 0
	for _, record := range records {
		if record.Value == nil {
			nullValues++
		}
	}
	rate := float64(nullValues) / float64(len(records)) * 100
	details := fmt.Sprintf("null_value_percent=%.1f", rate)

	result := ResultPass
	if rate > 50 {
		result = ResultWarning
	}
	return NewCheckResult(healthTable, "null_rates", result, details, int64(nullValues))
}

func (c *Checker) CheckOutOfRangeValues(readings []glucose.Reading) CheckResult {
	if len(readings) == 0 {
		return NewCheckResult(glucoseTable, "out_of_physiological_range", ResultPass, "no readings", 0)
	}

	outOfRange := 0
	for _, reading := range readings {
		if reading.Value < MinPhysiologicalValue || reading.Value > MaxPhysiologicalValue {
			outOfRange++
		}
	}
	rate := float64(outOfRange) / float64(len(readings)) * 100
	details := fmt.Sprintf("out_of_range_percent=%.2f", rate)

	result := ResultPass
	if outOfRange > 0 {
		result = ResultWarning
	}
	return NewCheckResult(glucoseTable, "out_of_physiological_range", result, details, int64(outOfRange))
}

func (c *Checker) CheckDuplicateKeys(readings []glucose.Reading) CheckResult {
	if len(readings) == 0 {
		return NewCheckResult(glucoseTable, "duplicate_keys", ResultPass, "no readings", 0)
	}

	seen := make(map[int64]int, len(readings))
	duplicates := 0
	for _, reading := range readings {
		key := reading.Time.Unix()
		if seen[key] > 0 {
			duplicates++
		}
		seen[key]++
	}
	rate := float64(duplicates) / float64(len(readings)) * 100
	details := fmt.Sprintf("duplicate_percent=%.2f", rate)

	result := ResultPass
	if duplicates > 0 {
		result = ResultWarning
	}
	return NewCheckResult(glucoseTable, "duplicate_keys", result, details, int64(duplicates))
}

// CheckReadingGaps counts inter-reading gaps above the threshold. The
// severity is supplied by the caller so the 60 and 360 minute tiers each
// produce their own result.
func (c *Checker) CheckReadingGaps(readings []glucose.Reading, thresholdMinutes float64, severity Result) CheckResult {
	checkName := fmt.Sprintf("reading_gaps_over_%.0fm", thresholdMinutes)
	if len(readings) < 2 {
		return NewCheckResult(glucoseTable, checkName, ResultPass, "not enough readings for gap analysis", 0)
	}

	gaps := 0
	longest := 0.0
	for i := 1; i < len(readings); i++ {
		gap := readings[i].Time.Sub(readings[i-1].Time).Minutes()
		if gap > thresholdMinutes {
			gaps++
		}
		if gap > longest {
			longest = gap
		}
	}
	details := fmt.Sprintf("gaps=%d longest_minutes=%.0f", gaps, longest)

	result := ResultPass
	if gaps > 0 {
		result = severity
	}
	return NewCheckResult(glucoseTable, checkName, result, details, int64(gaps))
}

func (c *Checker) CheckEnumDomains(readings []glucose.Reading) CheckResult {
	invalid := 0
	for _, reading := range readings {
		if !validSources.Contains(string(reading.Source)) {
			invalid++
			continue
		}
		if !validRanges.Contains(string(reading.Range)) {
			invalid++
			continue
		}
		if reading.Trend != nil && !validTrends.Contains(string(*reading.Trend)) {
			invalid++
		}
	}
	details := fmt.Sprintf("invalid_enum_values=%d", invalid)

	result := ResultPass
	if invalid > 0 {
		result = ResultFail
	}
	return NewCheckResult(glucoseTable, "enum_domains", result, details, int64(invalid))
}

// CheckCoverageOverlap reports how much of the health record span is covered
// by glucose readings. Without overlap the temporal merge cannot produce
// anything.
func (c *Checker) CheckCoverageOverlap(readings []glucose.Reading, records []health.Record) CheckResult {
	if len(readings) == 0 || len(records) == 0 {
		return NewCheckResult(glucoseTable, "coverage_overlap", ResultWarning, "one of the datasets is empty", 0)
	}

	glucoseStart, glucoseEnd := readings[0].Time, readings[len(readings)-1].Time
	healthStart, healthEnd := records[0].Start, records[len(records)-1].Start

	overlapStart := maxTime(glucoseStart, healthStart)
	overlapEnd := minTime(glucoseEnd, healthEnd)
	if !overlapStart.Before(overlapEnd) {
		return NewCheckResult(glucoseTable, "coverage_overlap", ResultFail, "datasets do not overlap in time", 0)
	}

	overlap := overlapEnd.Sub(overlapStart)
	details := fmt.Sprintf("overlap=%s from %s to %s", overlap, overlapStart.Format(time.RFC3339), overlapEnd.Format(time.RFC3339))
	return NewCheckResult(glucoseTable, "coverage_overlap", ResultPass, details, 0)
}

func maxTime(a time.Time, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a time.Time, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
