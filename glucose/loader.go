package glucose

import (
	"bytes"
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/glucolog/glucolog/errors"
)

// Libre exports label their columns differently depending on the region and
// application version. Headers are standardized before rows are interpreted.
var columnAliases = map[string]string{
	"Device Timestamp":                  "timestamp",
	"Timestamp (YYYY-MM-DD HH:MM:SS)":   "timestamp",
	"Time":                              "timestamp",
	"Historic Glucose mg/dL":            "glucose_mg_dl",
	"Historic Glucose (mg/dL)":          "glucose_mg_dl",
	"Glucose Value (mg/dL)":             "glucose_mg_dl",
	"Historic Glucose mmol/L":           "glucose_mmol_l",
	"Glucose Value (mmol/L)":            "glucose_mmol_l",
	"Scan Glucose mg/dL":                "scan_glucose_mg_dl",
	"Scan Glucose (mg/dL)":              "scan_glucose_mg_dl",
	"Scan Glucose mmol/L":               "scan_glucose_mmol_l",
	"Strip Glucose mg/dL":               "strip_glucose_mg_dl",
	"Strip Glucose (mg/dL)":             "strip_glucose_mg_dl",
	"Strip Glucose mmol/L":              "strip_glucose_mmol_l",
	"Record Type":                       "record_type",
	"Serial Number":                     "serial_number",
	"Device":                            "device",
	"Notes":                             "notes",
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01-02-2006 03:04 PM",
	"02-01-2006 15:04",
	time.RFC3339,
}

// LoadResult reports what a loader produced and what it had to skip.
type LoadResult struct {
	Readings []Reading
	Skipped  int
}

type Loader struct {
	logger *zap.SugaredLogger
}

func NewLoader(logger *zap.SugaredLogger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return l.Load(bytes.NewReader(decode(raw)))
}

// Load parses a Libre CSV export. The first line is a device banner and is
// discarded; the second line holds the column names. Unparseable rows are
// skipped and counted, never fatal. The result is sorted ascending by
// timestamp with duplicates retained.
func (l *Loader) Load(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Device banner line
	if _, err := reader.Read(); err != nil {
		return nil, errors.ParseErrorf("missing header line: %v", err)
	}

	header, err := reader.Read()
	if err != nil {
		return nil, errors.ParseErrorf("missing column line: %v", err)
	}
	columns := standardizeColumns(header)

	result := &LoadResult{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Skipped++
			continue
		}

		reading, err := parseRow(columns, row)
		if err != nil {
			result.Skipped++
			continue
		}
		result.Readings = append(result.Readings, *reading)
	}

	SortByTime(result.Readings)
	AnnotateTrends(result.Readings)

	if l.logger != nil {
		l.logger.Infow("loaded glucose export",
			"readings", len(result.Readings),
			"skipped", result.Skipped,
		)
	}

	return result, nil
}

func standardizeColumns(header []string) map[string]int {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if canonical, ok := columnAliases[name]; ok {
			columns[canonical] = i
		} else {
			columns[name] = i
		}
	}
	return columns
}

func parseRow(columns map[string]int, row []string) (*Reading, error) {
	ts, ok := field(columns, row, "timestamp")
	if !ok {
		return nil, errors.ParseErrorf("row has no timestamp")
	}
	t, err := parseTimestamp(ts)
	if err != nil {
		return nil, err
	}

	value, source, err := glucoseValue(columns, row)
	if err != nil {
		return nil, err
	}

	reading := NewReading(t, value, source)
	return &reading, nil
}

// glucoseValue picks the measurement for a row. Historic readings take
// precedence over scans, scans over fingersticks; mmol/L columns are
// converted when the mg/dL variant is absent.
func glucoseValue(columns map[string]int, row []string) (float64, Source, error) {
	type candidate struct {
		mgdl   string
		mmol   string
		source Source
	}
	candidates := []candidate{
		{"glucose_mg_dl", "glucose_mmol_l", SourceHistoric},
		{"scan_glucose_mg_dl", "scan_glucose_mmol_l", SourceScan},
		{"strip_glucose_mg_dl", "strip_glucose_mmol_l", SourceFingerstick},
	}

	for _, c := range candidates {
		if raw, ok := field(columns, row, c.mgdl); ok {
			if value, err := strconv.ParseFloat(raw, 64); err == nil {
				return value, c.source, nil
			}
		}
		if raw, ok := field(columns, row, c.mmol); ok {
			if value, err := strconv.ParseFloat(raw, 64); err == nil {
				return value * MmolToMgDl, c.source, nil
			}
		}
	}

	return 0, "", errors.ParseErrorf("row has no glucose value")
}

func parseTimestamp(value string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.ParseErrorf("unparseable timestamp %q", value)
}

func field(columns map[string]int, row []string, name string) (string, bool) {
	i, ok := columns[name]
	if !ok || i >= len(row) {
		return "", false
	}
	value := strings.TrimSpace(row[i])
	return value, value != ""
}

// decode converts a raw export to UTF-8. Libre files are produced in UTF-8,
// ISO-8859-1 or Windows-1252 depending on the exporting system.
func decode(raw []byte) []byte {
	if utf8.Valid(raw) {
		return raw
	}
	for _, cm := range []*charmap.Charmap{charmap.ISO8859_1, charmap.Windows1252} {
		if decoded, err := cm.NewDecoder().Bytes(raw); err == nil {
			return decoded
		}
	}
	return raw
}
