package health

import (
	"sort"
	"time"
)

// Record is a single normalized entry from the physiological export.
// Records are immutable once loaded.
type Record struct {
	Type       string
	Value      *float64
	Unit       *string
	SourceName *string
	Start      time.Time
	End        *time.Time
}

// Workout is a normalized workout session from the physiological export.
type Workout struct {
	ActivityType    string
	DurationMinutes *float64
	TotalDistanceKm *float64
	TotalEnergyKcal *float64
	SourceName      *string
	Start           time.Time
	End             *time.Time
}

// Record type identifiers used by the export format.
const (
	TypeBloodGlucose    = "HKQuantityTypeIdentifierBloodGlucose"
	TypeInsulinDelivery = "HKCategoryTypeIdentifierInsulinDelivery"
	TypeStepCount       = "HKQuantityTypeIdentifierStepCount"
	TypeDistanceWalking = "HKQuantityTypeIdentifierDistanceWalkingRunning"
	TypeActiveEnergy    = "HKQuantityTypeIdentifierActiveEnergyBurned"
	TypeBasalEnergy     = "HKQuantityTypeIdentifierBasalEnergyBurned"
	TypeFlightsClimbed  = "HKQuantityTypeIdentifierFlightsClimbed"
	TypeSleepAnalysis   = "HKCategoryTypeIdentifierSleepAnalysis"
)

var (
	GlucoseTypes  = []string{TypeBloodGlucose, TypeInsulinDelivery}
	ActivityTypes = []string{TypeStepCount, TypeDistanceWalking, TypeActiveEnergy, TypeBasalEnergy, TypeFlightsClimbed}
	SleepTypes    = []string{TypeSleepAnalysis}
)

// FilterByType returns the records whose Type is in types. A nil or empty
// filter returns the input unchanged.
func FilterByType(records []Record, types []string) []Record {
	if len(types) == 0 {
		return records
	}

	wanted := make(map[string]struct{}, len(types))
	for _, t := range types {
		wanted[t] = struct{}{}
	}

	filtered := make([]Record, 0, len(records))
	for _, record := range records {
		if _, ok := wanted[record.Type]; ok {
			filtered = append(filtered, record)
		}
	}
	return filtered
}

// SortByStart sorts records ascending by start time, preserving the input
// order of records with equal timestamps.
func SortByStart(records []Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Start.Before(records[j].Start)
	})
}
