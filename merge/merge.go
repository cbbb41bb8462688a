package merge

import (
	"time"

	"github.com/glucolog/glucolog/glucose"
)

// Context carries the features derived from the glucose timestamp of a
// merged record.
type Context struct {
	Hour           int
	DayOfWeek      int
	IsWeekend      bool
	IsNight        bool
	IsMorning      bool
	IsAfternoon    bool
	IsEvening      bool
	LikelyMealTime bool
}

// MergedRecord pairs a health record with its nearest glucose reading.
type MergedRecord struct {
	HealthTime      time.Time
	GlucoseTime     time.Time
	TimeDiffMinutes float64

	RecordType  string
	HealthValue *float64
	HealthUnit  *string
	SourceName  *string

	GlucoseValue  float64
	GlucoseSource glucose.Source
	GlucoseTrend  *glucose.Trend
	GlucoseRange  glucose.Range

	Context Context
}

// NewContext derives the contextual features for a timestamp.
//
// DayOfWeek follows the Monday=0 .. Sunday=6 convention. The day partitions
// into night [22,24)+[0,6), morning [6,12), afternoon [12,18) and evening
// [18,22). LikelyMealTime covers ±60 minutes around the conventional meals
// at 08:00, 13:00 and 19:00, i.e. the whole hours 7-9, 12-14 and 18-20.
func NewContext(t time.Time) Context {
	hour := t.Hour()
	dayOfWeek := (int(t.Weekday()) + 6) % 7

	return Context{
		Hour:           hour,
		DayOfWeek:      dayOfWeek,
		IsWeekend:      dayOfWeek == 5 || dayOfWeek == 6,
		IsNight:        hour >= 22 || hour < 6,
		IsMorning:      hour >= 6 && hour < 12,
		IsAfternoon:    hour >= 12 && hour < 18,
		IsEvening:      hour >= 18 && hour < 22,
		LikelyMealTime: isMealHour(hour),
	}
}

func isMealHour(hour int) bool {
	switch {
	case hour >= 7 && hour <= 9: // breakfast
		return true
	case hour >= 12 && hour <= 14: // lunch
		return true
	case hour >= 18 && hour <= 20: // dinner
		return true
	default:
		return false
	}
}
