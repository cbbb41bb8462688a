package health

import (
	"encoding/xml"
	"io"
	"os"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/glucolog/glucolog/errors"
	"github.com/glucolog/glucolog/pointer"
)

// The export encodes all timestamps with an explicit zone offset.
const timestampLayout = "2006-01-02 15:04:05 -0700"

// LoadResult reports what a loader produced and what it had to skip.
type LoadResult struct {
	Records  []Record
	Workouts []Workout
	Skipped  int
}

type Loader struct {
	logger *zap.SugaredLogger
}

func NewLoader(logger *zap.SugaredLogger) *Loader {
	return &Loader{logger: logger}
}

func (l *Loader) LoadFile(path string) (*LoadResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return l.Load(f)
}

// Load parses a health export document. Record and Workout elements are
// decoded as a stream so exports of hundreds of megabytes never have to be
// held in memory as a tree. Elements with an unparseable start timestamp are
// skipped and counted; the batch never fails on a bad row. Records and
// workouts are returned sorted ascending by start time.
func (l *Loader) Load(r io.Reader) (*LoadResult, error) {
	decoder := xml.NewDecoder(r)
	result := &LoadResult{}

	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.ParseErrorf("malformed document: %v", err)
		}

		element, ok := token.(xml.StartElement)
		if !ok {
			continue
		}

		switch element.Name.Local {
		case "Record":
			record, err := parseRecord(element)
			if err != nil {
				result.Skipped++
				continue
			}
			result.Records = append(result.Records, *record)
			decoder.Skip()
		case "Workout":
			workout, err := parseWorkout(element)
			if err != nil {
				result.Skipped++
				continue
			}
			result.Workouts = append(result.Workouts, *workout)
			decoder.Skip()
		}
	}

	SortByStart(result.Records)
	sort.SliceStable(result.Workouts, func(i, j int) bool {
		return result.Workouts[i].Start.Before(result.Workouts[j].Start)
	})

	if l.logger != nil {
		l.logger.Infow("loaded health export",
			"records", len(result.Records),
			"workouts", len(result.Workouts),
			"skipped", result.Skipped,
		)
	}

	return result, nil
}

func parseRecord(element xml.StartElement) (*Record, error) {
	attrs := attributeMap(element)

	recordType := attrs["type"]
	if recordType == "" {
		return nil, errors.ParseErrorf("record has no type")
	}

	start, err := time.Parse(timestampLayout, attrs["startDate"])
	if err != nil {
		return nil, errors.ParseErrorf("unparseable start date %q", attrs["startDate"])
	}

	record := &Record{
		Type:       recordType,
		Value:      optionalFloat(attrs["value"]),
		Unit:       optionalString(attrs["unit"]),
		SourceName: optionalString(attrs["sourceName"]),
		Start:      start,
		End:        optionalTime(attrs["endDate"]),
	}
	return record, nil
}

func parseWorkout(element xml.StartElement) (*Workout, error) {
	attrs := attributeMap(element)

	activityType := attrs["workoutActivityType"]
	if activityType == "" {
		return nil, errors.ParseErrorf("workout has no activity type")
	}

	start, err := time.Parse(timestampLayout, attrs["startDate"])
	if err != nil {
		return nil, errors.ParseErrorf("unparseable start date %q", attrs["startDate"])
	}

	workout := &Workout{
		ActivityType:    activityType,
		DurationMinutes: optionalFloat(attrs["duration"]),
		TotalDistanceKm: optionalFloat(attrs["totalDistance"]),
		TotalEnergyKcal: optionalFloat(attrs["totalEnergyBurned"]),
		SourceName:      optionalString(attrs["sourceName"]),
		Start:           start,
		End:             optionalTime(attrs["endDate"]),
	}
	return workout, nil
}

func attributeMap(element xml.StartElement) map[string]string {
	attrs := make(map[string]string, len(element.Attr))
	for _, attr := range element.Attr {
		attrs[attr.Name.Local] = attr.Value
	}
	return attrs
}

func optionalString(value string) *string {
	if value == "" {
		return nil
	}
	return pointer.FromAny(value)
}

func optionalFloat(value string) *float64 {
	if value == "" {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func optionalTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	t, err := time.Parse(timestampLayout, value)
	if err != nil {
		return nil
	}
	return &t
}
