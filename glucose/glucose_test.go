package glucose_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/test"
)

var _ = Describe("Classify", func() {
	It("maps each band boundary to exactly one band", func() {
		Expect(glucose.Classify(53.9)).To(Equal(glucose.RangeVeryLow))
		Expect(glucose.Classify(54)).To(Equal(glucose.RangeLow))
		Expect(glucose.Classify(69.9)).To(Equal(glucose.RangeLow))
		Expect(glucose.Classify(70)).To(Equal(glucose.RangeNormal))
		Expect(glucose.Classify(180)).To(Equal(glucose.RangeNormal))
		Expect(glucose.Classify(180.1)).To(Equal(glucose.RangeHigh))
		Expect(glucose.Classify(250)).To(Equal(glucose.RangeHigh))
		Expect(glucose.Classify(250.1)).To(Equal(glucose.RangeVeryHigh))
	})

	It("classifies every value into exactly one band", func() {
		bands := map[glucose.Range]struct{}{}
		for i := 0; i < 1000; i++ {
			value := test.Rand.Float64() * 700
			bands[glucose.Classify(value)] = struct{}{}
		}
		for band := range bands {
			Expect(band).To(BeElementOf(
				glucose.RangeVeryLow, glucose.RangeLow, glucose.RangeNormal,
				glucose.RangeHigh, glucose.RangeVeryHigh,
			))
		}
	})

	It("is deterministic", func() {
		for i := 0; i < 100; i++ {
			value := test.Rand.Float64() * 700
			Expect(glucose.Classify(value)).To(Equal(glucose.Classify(value)))
		}
	})
})

var _ = Describe("NewReading", func() {
	It("derives the range band from the value", func() {
		at := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
		reading := glucose.NewReading(at, 95, glucose.SourceHistoric)
		Expect(reading.Range).To(Equal(glucose.RangeNormal))
		Expect(reading.Trend).To(BeNil())
		Expect(reading.RateOfChange).To(BeNil())
	})
})

var _ = Describe("TrendFromRate", func() {
	It("buckets rates by mg/dL per minute", func() {
		Expect(glucose.TrendFromRate(2.5)).To(Equal(glucose.TrendRisingFast))
		Expect(glucose.TrendFromRate(2)).To(Equal(glucose.TrendRising))
		Expect(glucose.TrendFromRate(1)).To(Equal(glucose.TrendRising))
		Expect(glucose.TrendFromRate(0.5)).To(Equal(glucose.TrendStable))
		Expect(glucose.TrendFromRate(-0.5)).To(Equal(glucose.TrendStable))
		Expect(glucose.TrendFromRate(-1)).To(Equal(glucose.TrendFalling))
		Expect(glucose.TrendFromRate(-2)).To(Equal(glucose.TrendFalling))
		Expect(glucose.TrendFromRate(-2.5)).To(Equal(glucose.TrendFallingFast))
	})
})

var _ = Describe("AnnotateTrends", func() {
	It("computes the rate of change from the preceding reading", func() {
		base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
		readings := []glucose.Reading{
			glucose.NewReading(base, 100, glucose.SourceHistoric),
			glucose.NewReading(base.Add(10*time.Minute), 130, glucose.SourceHistoric),
			glucose.NewReading(base.Add(20*time.Minute), 125, glucose.SourceHistoric),
		}

		glucose.AnnotateTrends(readings)

		Expect(readings[0].RateOfChange).To(BeNil())
		Expect(readings[1].RateOfChange).To(HaveValue(BeNumerically("~", 3.0, 1e-9)))
		Expect(readings[1].Trend).To(HaveValue(Equal(glucose.TrendRisingFast)))
		Expect(readings[2].RateOfChange).To(HaveValue(BeNumerically("~", -0.5, 1e-9)))
		Expect(readings[2].Trend).To(HaveValue(Equal(glucose.TrendStable)))
	})

	It("leaves readings sharing a timestamp unannotated", func() {
		base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
		readings := []glucose.Reading{
			glucose.NewReading(base, 100, glucose.SourceHistoric),
			glucose.NewReading(base, 104, glucose.SourceScan),
		}

		glucose.AnnotateTrends(readings)

		Expect(readings[1].RateOfChange).To(BeNil())
		Expect(readings[1].Trend).To(BeNil())
	})
})

var _ = Describe("FilterByPeriod", func() {
	It("returns the readings in the half-open window", func() {
		base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		readings := []glucose.Reading{
			glucose.NewReading(base.Add(1*time.Hour), 90, glucose.SourceHistoric),
			glucose.NewReading(base.Add(12*time.Hour), 110, glucose.SourceHistoric),
			glucose.NewReading(base.Add(24*time.Hour), 130, glucose.SourceHistoric),
		}

		window := glucose.FilterByPeriod(readings, base, base.AddDate(0, 0, 1))
		Expect(window).To(HaveLen(2))
		Expect(window[0].Value).To(Equal(90.0))
		Expect(window[1].Value).To(Equal(110.0))
	})
})
