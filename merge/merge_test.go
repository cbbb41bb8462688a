package merge_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/merge"
)

func record(t time.Time) health.Record {
	return health.Record{Type: health.TypeStepCount, Start: t}
}

func reading(t time.Time, value float64) glucose.Reading {
	return glucose.NewReading(t, value, glucose.SourceHistoric)
}

var _ = Describe("Merger", func() {
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	It("pairs each record with the reading nearest in time", func() {
		readings := []glucose.Reading{
			reading(base.Add(-40*time.Minute), 90),
			reading(base.Add(5*time.Minute), 110),
		}
		merged := merge.NewMerger(0).Merge([]health.Record{record(base)}, readings)

		Expect(merged).To(HaveLen(1))
		Expect(merged[0].GlucoseValue).To(Equal(110.0))
		Expect(merged[0].TimeDiffMinutes).To(Equal(-5.0))
	})

	It("breaks distance ties toward the earlier reading", func() {
		readings := []glucose.Reading{
			reading(base.Add(-10*time.Minute), 90),
			reading(base.Add(10*time.Minute), 110),
		}
		merged := merge.NewMerger(0).Merge([]health.Record{record(base)}, readings)

		Expect(merged).To(HaveLen(1))
		Expect(merged[0].GlucoseValue).To(Equal(90.0))
	})

	It("drops records whose nearest reading is outside the tolerance", func() {
		readings := []glucose.Reading{
			reading(base.Add(45*time.Minute), 100),
		}
		records := []health.Record{record(base), record(base.Add(40 * time.Minute))}
		merged := merge.NewMerger(15 * time.Minute).Merge(records, readings)

		Expect(merged).To(HaveLen(1))
		Expect(merged[0].HealthTime).To(Equal(base.Add(40 * time.Minute)))
	})

	It("accepts every nearest match when the tolerance is zero", func() {
		readings := []glucose.Reading{
			reading(base.Add(6*time.Hour), 100),
		}
		merged := merge.NewMerger(0).Merge([]health.Record{record(base)}, readings)

		Expect(merged).To(HaveLen(1))
	})

	It("produces nothing without readings", func() {
		merged := merge.NewMerger(0).Merge([]health.Record{record(base)}, nil)
		Expect(merged).To(BeEmpty())
	})

	It("carries the reading classification and trend through", func() {
		readings := []glucose.Reading{
			reading(base.Add(-10*time.Minute), 60),
			reading(base, 60),
		}
		glucose.AnnotateTrends(readings)
		merged := merge.NewMerger(0).Merge([]health.Record{record(base)}, readings)

		Expect(merged).To(HaveLen(1))
		Expect(merged[0].GlucoseRange).To(Equal(glucose.RangeLow))
		Expect(merged[0].GlucoseTrend).ToNot(BeNil())
		Expect(*merged[0].GlucoseTrend).To(Equal(glucose.TrendStable))
	})

	It("is deterministic across repeated runs on the same inputs", func() {
		records := []health.Record{
			record(base),
			record(base.Add(20 * time.Minute)),
			record(base.Add(45 * time.Minute)),
		}
		readings := []glucose.Reading{
			reading(base.Add(-5*time.Minute), 80),
			reading(base.Add(15*time.Minute), 120),
			reading(base.Add(50*time.Minute), 160),
		}

		first := merge.NewMerger(30 * time.Minute).Merge(records, readings)
		second := merge.NewMerger(30 * time.Minute).Merge(records, readings)
		Expect(second).To(Equal(first))
	})
})

var _ = Describe("NewContext", func() {
	It("numbers days Monday first", func() {
		monday := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
		sunday := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

		Expect(merge.NewContext(monday).DayOfWeek).To(Equal(0))
		Expect(merge.NewContext(sunday).DayOfWeek).To(Equal(6))
	})

	It("flags Saturday and Sunday as weekend", func() {
		saturday := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
		friday := time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)

		Expect(merge.NewContext(saturday).IsWeekend).To(BeTrue())
		Expect(merge.NewContext(friday).IsWeekend).To(BeFalse())
	})

	It("partitions the day into exactly one segment per hour", func() {
		day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		for hour := 0; hour < 24; hour++ {
			ctx := merge.NewContext(day.Add(time.Duration(hour) * time.Hour))

			segments := 0
			for _, set := range []bool{ctx.IsNight, ctx.IsMorning, ctx.IsAfternoon, ctx.IsEvening} {
				if set {
					segments++
				}
			}
			Expect(segments).To(Equal(1), "hour %d", hour)
		}
	})

	It("places the segment boundaries", func() {
		day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

		Expect(merge.NewContext(day.Add(5 * time.Hour)).IsNight).To(BeTrue())
		Expect(merge.NewContext(day.Add(6 * time.Hour)).IsMorning).To(BeTrue())
		Expect(merge.NewContext(day.Add(12 * time.Hour)).IsAfternoon).To(BeTrue())
		Expect(merge.NewContext(day.Add(18 * time.Hour)).IsEvening).To(BeTrue())
		Expect(merge.NewContext(day.Add(22 * time.Hour)).IsNight).To(BeTrue())
	})

	It("marks the conventional meal hours", func() {
		day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		mealHours := map[int]bool{7: true, 8: true, 9: true, 12: true, 13: true, 14: true, 18: true, 19: true, 20: true}

		for hour := 0; hour < 24; hour++ {
			ctx := merge.NewContext(day.Add(time.Duration(hour) * time.Hour))
			Expect(ctx.LikelyMealTime).To(Equal(mealHours[hour]), "hour %d", hour)
		}
	})
})
