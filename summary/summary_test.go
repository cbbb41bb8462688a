package summary_test

import (
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/merge"
	"github.com/glucolog/glucolog/summary"
	"github.com/glucolog/glucolog/test"
)

func reading(t time.Time, value float64) glucose.Reading {
	return glucose.NewReading(t, value, glucose.SourceHistoric)
}

var _ = Describe("Calculate", func() {
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	It("leaves every statistical field nil for an empty window", func() {
		stats := summary.Calculate(nil, base, base.AddDate(0, 0, 1))

		Expect(stats.TotalReadings).To(Equal(0))
		Expect(stats.TimeInRangePercent).To(BeNil())
		Expect(stats.AverageGlucose).To(BeNil())
		Expect(stats.GlucoseStd).To(BeNil())
		Expect(stats.CoefficientVariation).To(BeNil())
	})

	It("splits one reading per band into equal thirds", func() {
		readings := []glucose.Reading{
			reading(base.Add(8*time.Hour), 90),
			reading(base.Add(12*time.Hour+5*time.Minute), 210),
			reading(base.Add(18*time.Hour), 50),
		}

		stats := summary.Calculate(readings, base, base.AddDate(0, 0, 1))

		Expect(stats.TotalReadings).To(Equal(3))
		Expect(*stats.TimeInRangePercent).To(BeNumerically("~", 33.3, 0.1))
		Expect(*stats.TimeHighPercent).To(BeNumerically("~", 33.3, 0.1))
		Expect(*stats.TimeInAnyLowPercent()).To(BeNumerically("~", 33.3, 0.1))
		Expect(*stats.AverageGlucose).To(BeNumerically("~", 116.67, 0.01))
	})

	It("splits a day of alternating normal, high and low readings into equal thirds", func() {
		values := []float64{90, 210, 50}
		var readings []glucose.Reading
		for i := 0; i < 96; i++ {
			readings = append(readings, reading(base.Add(time.Duration(i)*15*time.Minute), values[i%3]))
		}

		stats := summary.Calculate(readings, base, base.AddDate(0, 0, 1))

		Expect(stats.TotalReadings).To(Equal(96))
		Expect(*stats.TimeInRangePercent).To(BeNumerically("~", 33.3, 0.1))
		Expect(*stats.TimeInAnyHighPercent()).To(BeNumerically("~", 33.3, 0.1))
		Expect(*stats.TimeInAnyLowPercent()).To(BeNumerically("~", 33.3, 0.1))
		Expect(*stats.AverageGlucose).To(BeNumerically("~", 116.67, 0.01))
	})

	It("counts 50 mg/dL in the very low band, not the low band", func() {
		readings := []glucose.Reading{
			reading(base, 50),
			reading(base.Add(time.Minute), 60),
		}
		stats := summary.Calculate(readings, base, base.AddDate(0, 0, 1))

		Expect(stats.VeryLowReadings).To(Equal(1))
		Expect(stats.LowReadings).To(Equal(1))
		Expect(*stats.TimeVeryLowPercent).To(Equal(50.0))
		Expect(*stats.TimeLowPercent).To(Equal(50.0))
	})

	It("sums the band percentages to one hundred", func() {
		var readings []glucose.Reading
		for i := 0; i < 30; i++ {
			t := test.RandomTimeBetween(base, base.AddDate(0, 0, 1))
			readings = append(readings, reading(t, test.Faker.Float64(1, 20, 600)))
		}
		glucose.SortByTime(readings)

		stats := summary.Calculate(readings, base, base.AddDate(0, 0, 1))

		total := *stats.TimeVeryLowPercent + *stats.TimeLowPercent + *stats.TimeInRangePercent +
			*stats.TimeHighPercent + *stats.TimeVeryHighPercent
		Expect(total).To(BeNumerically("~", 100.0, 0.1))
	})

	It("computes the population standard deviation", func() {
		readings := []glucose.Reading{
			reading(base, 100),
			reading(base.Add(time.Minute), 120),
		}
		stats := summary.Calculate(readings, base, base.AddDate(0, 0, 1))

		Expect(*stats.AverageGlucose).To(Equal(110.0))
		Expect(*stats.GlucoseStd).To(Equal(10.0))
		Expect(*stats.CoefficientVariation).To(BeNumerically("~", 10.0/110.0*100, 1e-9))
	})

	It("omits the coefficient of variation when the mean is zero", func() {
		readings := []glucose.Reading{
			reading(base, 0),
			reading(base.Add(time.Minute), 0),
		}
		stats := summary.Calculate(readings, base, base.AddDate(0, 0, 1))

		Expect(stats.GlucoseStd).ToNot(BeNil())
		Expect(stats.CoefficientVariation).To(BeNil())
	})

	It("only counts readings inside the half-open window", func() {
		end := base.AddDate(0, 0, 1)
		readings := []glucose.Reading{
			reading(base.Add(-time.Second), 100),
			reading(base, 100),
			reading(end.Add(-time.Second), 100),
			reading(end, 100),
		}
		stats := summary.Calculate(readings, base, end)

		Expect(stats.TotalReadings).To(Equal(2))
	})
})

var _ = Describe("CalculateDaily", func() {
	It("produces one entry per civil day with readings", func() {
		day1 := time.Date(2024, 3, 4, 23, 30, 0, 0, time.UTC)
		day3 := time.Date(2024, 3, 6, 8, 0, 0, 0, time.UTC)
		readings := []glucose.Reading{
			reading(day1, 100),
			reading(day3, 150),
		}

		daily := summary.CalculateDaily(readings, time.UTC)

		Expect(daily).To(HaveLen(2))
		Expect(daily[0].DateStart).To(Equal(time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)))
		Expect(daily[0].TotalReadings).To(Equal(1))
		Expect(daily[1].DateStart).To(Equal(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)))
	})

	It("assigns readings to days in the requested location", func() {
		loc := time.FixedZone("plus2", 2*3600)
		// 23:00 UTC is 01:00 the next day at +02:00.
		readings := []glucose.Reading{
			reading(time.Date(2024, 3, 4, 23, 0, 0, 0, time.UTC), 100),
		}

		daily := summary.CalculateDaily(readings, loc)

		Expect(daily).To(HaveLen(1))
		Expect(daily[0].DateStart.Day()).To(Equal(5))
	})

	It("returns nothing for no readings", func() {
		Expect(summary.CalculateDaily(nil, time.UTC)).To(BeEmpty())
	})
})

var _ = Describe("Resample", func() {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	It("averages the readings falling in each bucket", func() {
		readings := []glucose.Reading{
			reading(base, 100),
			reading(base.Add(5*time.Minute), 120),
			reading(base.Add(15*time.Minute), 140),
		}

		buckets := summary.Resample(readings, 15*time.Minute)

		Expect(buckets).To(HaveLen(2))
		Expect(*buckets[0].AverageValue).To(Equal(110.0))
		Expect(buckets[0].Readings).To(Equal(2))
		Expect(*buckets[1].AverageValue).To(Equal(140.0))
	})

	It("forward fills short gaps and leaves long gaps empty", func() {
		readings := []glucose.Reading{
			reading(base, 100),
			reading(base.Add(75*time.Minute), 150),
		}

		buckets := summary.Resample(readings, 15*time.Minute)

		Expect(buckets).To(HaveLen(6))
		Expect(*buckets[1].AverageValue).To(Equal(100.0))
		Expect(*buckets[2].AverageValue).To(Equal(100.0))
		Expect(buckets[3].AverageValue).To(BeNil())
		Expect(buckets[4].AverageValue).To(BeNil())
		Expect(*buckets[5].AverageValue).To(Equal(150.0))
	})

	It("returns nothing for empty input or a non-positive interval", func() {
		Expect(summary.Resample(nil, 15*time.Minute)).To(BeEmpty())
		Expect(summary.Resample([]glucose.Reading{reading(base, 100)}, 0)).To(BeEmpty())
	})
})

var _ = Describe("Correlations", func() {
	base := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

	mergedRecord := func(recordType string, healthValue float64, glucoseValue float64) merge.MergedRecord {
		return merge.MergedRecord{
			RecordType:   recordType,
			HealthValue:  &healthValue,
			GlucoseValue: glucoseValue,
			HealthTime:   base,
			GlucoseTime:  base,
		}
	}

	It("reports a perfect linear relationship as one", func() {
		var records []merge.MergedRecord
		for i := 0; i < 12; i++ {
			records = append(records, mergedRecord("steps", float64(i), float64(i)*2+80))
		}

		correlations := summary.Correlations(records)

		Expect(correlations).To(HaveLen(1))
		Expect(correlations[0].RecordType).To(Equal("steps"))
		Expect(correlations[0].Coefficient).To(BeNumerically("~", 1.0, 1e-9))
		Expect(correlations[0].Samples).To(Equal(12))
	})

	It("omits types with fewer than ten pairs", func() {
		var records []merge.MergedRecord
		for i := 0; i < 9; i++ {
			records = append(records, mergedRecord("steps", float64(i), float64(i)))
		}
		Expect(summary.Correlations(records)).To(BeEmpty())
	})

	It("omits types without variance", func() {
		var records []merge.MergedRecord
		for i := 0; i < 12; i++ {
			records = append(records, mergedRecord("steps", 5, float64(i)))
		}
		Expect(summary.Correlations(records)).To(BeEmpty())
	})

	It("skips records without a health value", func() {
		records := []merge.MergedRecord{{RecordType: "steps", GlucoseValue: 100}}
		Expect(summary.Correlations(records)).To(BeEmpty())
	})

	It("sorts by absolute coefficient, strongest first", func() {
		var records []merge.MergedRecord
		for i := 0; i < 12; i++ {
			records = append(records, mergedRecord("linear", float64(i), float64(i)))
		}
		noisy := []float64{3, 9, 1, 7, 5, 2, 8, 4, 6, 0, 10, 11}
		for i, v := range noisy {
			records = append(records, mergedRecord("noisy", float64(i), v))
		}

		correlations := summary.Correlations(records)

		Expect(correlations).To(HaveLen(2))
		Expect(correlations[0].RecordType).To(Equal("linear"))
		Expect(math.Abs(correlations[0].Coefficient)).To(BeNumerically(">=", math.Abs(correlations[1].Coefficient)))
	})
})
