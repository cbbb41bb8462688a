package glucose_test

import (
	"bytes"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/glucolog/glucolog/glucose"
	"github.com/glucolog/glucolog/test"
)

var _ = Describe("Loader", func() {
	var loader *glucose.Loader
	var libreExport string

	BeforeEach(func() {
		loader = glucose.NewLoader(nil)

		fixture, err := test.LoadFixture("testdata/libre_export.csv")
		Expect(err).ToNot(HaveOccurred())
		libreExport = string(fixture)
	})

	It("parses readings and sorts them by timestamp", func() {
		result, err := loader.Load(strings.NewReader(libreExport))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Readings).To(HaveLen(4))
		Expect(result.Readings[0].Value).To(Equal(92.0))
		Expect(result.Readings[1].Value).To(Equal(95.0))
		Expect(result.Readings[2].Value).To(Equal(101.0))
		Expect(result.Readings[3].Value).To(Equal(99.0))
	})

	It("skips and counts malformed rows without failing the batch", func() {
		result, err := loader.Load(strings.NewReader(libreExport))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Skipped).To(Equal(2))
	})

	It("records the reading source by column precedence", func() {
		result, err := loader.Load(strings.NewReader(libreExport))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Readings[0].Source).To(Equal(glucose.SourceHistoric))
		Expect(result.Readings[2].Source).To(Equal(glucose.SourceScan))
		Expect(result.Readings[3].Source).To(Equal(glucose.SourceFingerstick))
	})

	It("classifies every reading at load time", func() {
		result, err := loader.Load(strings.NewReader(libreExport))
		Expect(err).ToNot(HaveOccurred())
		for _, reading := range result.Readings {
			Expect(reading.Range).To(Equal(glucose.Classify(reading.Value)))
		}
	})

	It("converts mmol/L exports to mg/dL", func() {
		export := "header\n" +
			"Device Timestamp,Historic Glucose mmol/L\n" +
			"2024-03-01 08:00,5.5\n"
		result, err := loader.Load(strings.NewReader(export))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Readings).To(HaveLen(1))
		Expect(result.Readings[0].Value).To(BeNumerically("~", 5.5*18.0182, 1e-9))
	})

	It("retains duplicate timestamps", func() {
		export := "header\n" +
			"Device Timestamp,Historic Glucose mg/dL\n" +
			"2024-03-01 08:00,95\n" +
			"2024-03-01 08:00,95\n"
		result, err := loader.Load(strings.NewReader(export))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Readings).To(HaveLen(2))
	})

	It("retains out-of-physiological-range values for the quality checker", func() {
		export := "header\n" +
			"Device Timestamp,Historic Glucose mg/dL\n" +
			"2024-03-01 08:00,700\n"
		result, err := loader.Load(strings.NewReader(export))
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Readings).To(HaveLen(1))
		Expect(result.Readings[0].Range).To(Equal(glucose.RangeVeryHigh))
	})

	It("decodes ISO-8859-1 exports", func() {
		fixture, err := test.LoadFixture("testdata/libre_latin1.csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(bytes.IndexByte(fixture, 0xFC)).To(BeNumerically(">=", 0))

		result, err := loader.LoadFile("testdata/libre_latin1.csv")
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Readings).To(HaveLen(1))
		Expect(result.Readings[0].Value).To(Equal(95.0))
	})
})
