package merge

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/glucolog/glucolog/pointer"
)

// ExportCSV writes merged records as a flat CSV table.
func ExportCSV(w io.Writer, records []MergedRecord) error {
	writer := csv.NewWriter(w)

	header := []string{
		"health_timestamp", "glucose_timestamp", "time_diff_minutes",
		"record_type", "health_value", "health_unit", "source_name",
		"glucose_value", "glucose_source", "glucose_trend", "glucose_range",
		"hour", "day_of_week", "is_weekend",
		"is_night", "is_morning", "is_afternoon", "is_evening",
		"likely_meal_time",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, record := range records {
		row := []string{
			record.HealthTime.Format(time.RFC3339),
			record.GlucoseTime.Format(time.RFC3339),
			strconv.FormatFloat(record.TimeDiffMinutes, 'f', 2, 64),
			record.RecordType,
			floatField(record.HealthValue),
			pointer.ToString(record.HealthUnit),
			pointer.ToString(record.SourceName),
			strconv.FormatFloat(record.GlucoseValue, 'f', 1, 64),
			string(record.GlucoseSource),
			trendField(record),
			string(record.GlucoseRange),
			strconv.Itoa(record.Context.Hour),
			strconv.Itoa(record.Context.DayOfWeek),
			strconv.FormatBool(record.Context.IsWeekend),
			strconv.FormatBool(record.Context.IsNight),
			strconv.FormatBool(record.Context.IsMorning),
			strconv.FormatBool(record.Context.IsAfternoon),
			strconv.FormatBool(record.Context.IsEvening),
			strconv.FormatBool(record.Context.LikelyMealTime),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportJSON writes merged records as a JSON array.
func ExportJSON(w io.Writer, records []MergedRecord) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(records)
}

// Export dispatches by format name.
func Export(w io.Writer, records []MergedRecord, format string) error {
	switch format {
	case "csv":
		return ExportCSV(w, records)
	case "json":
		return ExportJSON(w, records)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

func floatField(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func trendField(record MergedRecord) string {
	if record.GlucoseTrend == nil {
		return ""
	}
	return string(*record.GlucoseTrend)
}
