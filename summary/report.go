package summary

import (
	"fmt"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/glucolog/glucolog/pointer"
)

const (
	ReportSheetNameOverview     = "Overview"
	ReportSheetNameDaily        = "Daily Statistics"
	ReportSheetNameCorrelations = "Correlations"
)

// Report renders period statistics and correlations into a workbook.
type Report struct {
	overall      PeriodStatistics
	daily        []PeriodStatistics
	correlations []Correlation
}

func NewReport(overall PeriodStatistics, daily []PeriodStatistics, correlations []Correlation) Report {
	return Report{
		overall:      overall,
		daily:        daily,
		correlations: correlations,
	}
}

func (r Report) Generate() (*xlsx.File, error) {
	report := xlsx.NewFile()

	components := []func(report *xlsx.File) error{
		r.addOverviewSheet,
		r.addDailySheet,
		r.addCorrelationsSheet,
	}
	for _, fn := range components {
		if err := fn(report); err != nil {
			return nil, err
		}
	}

	return report, nil
}

func (r Report) addOverviewSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameOverview)
	if err != nil {
		return err
	}

	addKeyValue(sh, "Period Start", r.overall.DateStart.Format(time.DateOnly))
	addKeyValue(sh, "Period End", r.overall.DateEnd.Format(time.DateOnly))
	addKeyValue(sh, "Total Readings", fmt.Sprintf("%d", r.overall.TotalReadings))
	sh.AddRow()

	addKeyValue(sh, "Time Very Low %", percentCell(r.overall.TimeVeryLowPercent))
	addKeyValue(sh, "Time Low %", percentCell(r.overall.TimeLowPercent))
	addKeyValue(sh, "Time In Range %", percentCell(r.overall.TimeInRangePercent))
	addKeyValue(sh, "Time High %", percentCell(r.overall.TimeHighPercent))
	addKeyValue(sh, "Time Very High %", percentCell(r.overall.TimeVeryHighPercent))
	sh.AddRow()

	addKeyValue(sh, "Average Glucose (mg/dL)", floatCell(r.overall.AverageGlucose))
	addKeyValue(sh, "Std Deviation (mg/dL)", floatCell(r.overall.GlucoseStd))
	addKeyValue(sh, "Coefficient of Variation %", floatCell(r.overall.CoefficientVariation))

	return nil
}

func (r Report) addDailySheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameDaily)
	if err != nil {
		return err
	}

	header := sh.AddRow()
	for _, title := range []string{
		"Date", "Readings",
		"Very Low %", "Low %", "In Range %", "High %", "Very High %",
		"Average", "Std", "CV %",
	} {
		header.AddCell().SetValue(title)
	}

	for _, day := range r.daily {
		row := sh.AddRow()
		row.AddCell().SetValue(day.DateStart.Format(time.DateOnly))
		row.AddCell().SetValue(day.TotalReadings)
		row.AddCell().SetValue(percentCell(day.TimeVeryLowPercent))
		row.AddCell().SetValue(percentCell(day.TimeLowPercent))
		row.AddCell().SetValue(percentCell(day.TimeInRangePercent))
		row.AddCell().SetValue(percentCell(day.TimeHighPercent))
		row.AddCell().SetValue(percentCell(day.TimeVeryHighPercent))
		row.AddCell().SetValue(floatCell(day.AverageGlucose))
		row.AddCell().SetValue(floatCell(day.GlucoseStd))
		row.AddCell().SetValue(floatCell(day.CoefficientVariation))
	}

	return nil
}

func (r Report) addCorrelationsSheet(report *xlsx.File) error {
	sh, err := report.AddSheet(ReportSheetNameCorrelations)
	if err != nil {
		return err
	}

	header := sh.AddRow()
	for _, title := range []string{"Record Type", "Correlation", "Samples"} {
		header.AddCell().SetValue(title)
	}

	for _, correlation := range r.correlations {
		row := sh.AddRow()
		row.AddCell().SetValue(correlation.RecordType)
		row.AddCell().SetValue(fmt.Sprintf("%.3f", correlation.Coefficient))
		row.AddCell().SetValue(correlation.Samples)
	}

	return nil
}

func addKeyValue(sh *xlsx.Sheet, key string, value string) {
	row := sh.AddRow()
	row.AddCell().SetValue(key)
	row.AddCell().SetValue(value)
}

func percentCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f", pointer.ToFloat64(v))
}

func floatCell(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", pointer.ToFloat64(v))
}
