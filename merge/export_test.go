package merge_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/health"
	"github.com/glucolog/glucolog/merge"
)

var _ = Describe("Export", func() {
	base := time.Date(2024, 3, 4, 8, 0, 0, 0, time.UTC)

	var records []merge.MergedRecord

	BeforeEach(func() {
		value := 523.0
		readings := []glucose.Reading{
			glucose.NewReading(base.Add(-5*time.Minute), 95, glucose.SourceHistoric),
			glucose.NewReading(base.Add(10*time.Minute), 110, glucose.SourceScan),
		}
		glucose.AnnotateTrends(readings)
		records = merge.NewMerger(0).Merge([]health.Record{
			{Type: health.TypeStepCount, Value: &value, Start: base},
		}, readings)
		Expect(records).To(HaveLen(1))
	})

	It("writes one CSV row per record plus a header", func() {
		var buf bytes.Buffer
		Expect(merge.ExportCSV(&buf, records)).To(Succeed())

		lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
		Expect(lines).To(HaveLen(2))
		Expect(lines[0]).To(HavePrefix("health_timestamp,glucose_timestamp"))
		Expect(lines[1]).To(ContainSubstring(health.TypeStepCount))
		Expect(lines[1]).To(ContainSubstring("95.0"))
	})

	It("produces byte-identical output across repeated runs", func() {
		var first, second bytes.Buffer
		Expect(merge.ExportCSV(&first, records)).To(Succeed())
		Expect(merge.ExportCSV(&second, records)).To(Succeed())
		Expect(second.Bytes()).To(Equal(first.Bytes()))
	})

	It("round-trips through JSON", func() {
		var buf bytes.Buffer
		Expect(merge.ExportJSON(&buf, records)).To(Succeed())

		var decoded []merge.MergedRecord
		Expect(json.Unmarshal(buf.Bytes(), &decoded)).To(Succeed())
		Expect(decoded).To(HaveLen(1))
		Expect(decoded[0].GlucoseValue).To(Equal(95.0))
	})

	It("rejects unknown formats", func() {
		var buf bytes.Buffer
		err := merge.Export(&buf, records, "xml")
		Expect(err).To(MatchError("unsupported export format: xml"))
	})
})
