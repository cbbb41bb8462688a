package summary

import (
	"math"
	"sort"

	"github.com/glucolog/glucolog/merge"
)

// minCorrelationSamples is the smallest pair count worth reporting.
const minCorrelationSamples = 10

// Correlation is the Pearson correlation between glucose values and one
// health metric across merged records.
type Correlation struct {
	RecordType  string
	Coefficient float64
	Samples     int
}

// Correlations computes, per health record type, the correlation between
// the record values and the glucose values they merged against. Types with
// fewer than ten usable pairs, or with no variance on either side, are
// omitted. Results are sorted by absolute coefficient, strongest first.
func Correlations(records []merge.MergedRecord) []Correlation {
	type pairs struct {
		health  []float64
		glucose []float64
	}
	byType := make(map[string]*pairs)

	for _, record := range records {
		if record.HealthValue == nil {
			continue
		}
		p := byType[record.RecordType]
		if p == nil {
			p = &pairs{}
			byType[record.RecordType] = p
		}
		p.health = append(p.health, *record.HealthValue)
		p.glucose = append(p.glucose, record.GlucoseValue)
	}

	var correlations []Correlation
	for recordType, p := range byType {
		if len(p.health) < minCorrelationSamples {
			continue
		}
		if r, ok := pearson(p.health, p.glucose); ok {
			correlations = append(correlations, Correlation{
				RecordType:  recordType,
				Coefficient: r,
				Samples:     len(p.health),
			})
		}
	}

	sort.Slice(correlations, func(i, j int) bool {
		return math.Abs(correlations[i].Coefficient) > math.Abs(correlations[j].Coefficient)
	})
	return correlations
}

func pearson(xs []float64, ys []float64) (float64, bool) {
	n := float64(len(xs))

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for i := range xs {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	if varX == 0 || varY == 0 {
		return 0, false
	}
	return cov / math.Sqrt(varX*varY), true
}
