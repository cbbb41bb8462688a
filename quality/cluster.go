package quality

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/eapache/queue"

	"github.com/glucolog/glucolog/glucose"
)

const (
	ConflictCategoryExactDuplicate     = "exact_duplicate"
	ConflictCategoryDuplicateTimestamp = "duplicate_timestamp"

	conflictAttributeKey = "conflict"
)

// indexedReading keys a reading by its position so identical rows remain
// distinct graph vertices.
type indexedReading struct {
	Index   int
	Reading glucose.Reading
}

type ReadingClusters []ReadingCluster

type ReadingCluster struct {
	Readings []ReadingConflicts
}

type ReadingConflicts struct {
	Reading glucose.Reading

	// Conflicts maps a conflict category to the indices of the other
	// cluster members sharing it.
	Conflicts map[string][]int
}

// ReadingClusterReporter groups duplicate readings into connected clusters.
// Readings sharing a timestamp are linked; sharing timestamp and value makes
// the link an exact duplicate.
type ReadingClusterReporter struct {
	graph       graph.Graph[string, indexedReading]
	readings    []indexedReading
	byTimestamp map[int64][]indexedReading
}

func NewReadingClusterReporter(readings []glucose.Reading) *ReadingClusterReporter {
	indexed := make([]indexedReading, len(readings))
	byTimestamp := make(map[int64][]indexedReading)
	for i, reading := range readings {
		indexed[i] = indexedReading{Index: i, Reading: reading}
		key := reading.Time.Unix()
		byTimestamp[key] = append(byTimestamp[key], indexed[i])
	}

	return &ReadingClusterReporter{
		graph:       graph.New(vertexKey),
		readings:    indexed,
		byTimestamp: byTimestamp,
	}
}

func (r *ReadingClusterReporter) GetReadingClusters() (ReadingClusters, error) {
	for _, reading := range r.readings {
		if err := r.graph.AddVertex(reading); err != nil {
			return nil, err
		}
	}
	for _, reading := range r.readings {
		if err := r.addDuplicateEdges(reading); err != nil {
			return nil, err
		}
	}

	visited := map[string]struct{}{}
	clusters := make(ReadingClusters, 0)
	adjacencyMap, err := r.graph.AdjacencyMap()
	if err != nil {
		return nil, err
	}

	// BFS traversal to collect each connected cluster
	for key := range adjacencyMap {
		cluster := ReadingCluster{}
		q := queue.New()
		q.Add(key)
		for q.Length() != 0 {
			id := q.Remove().(string)
			if _, ok := visited[id]; ok {
				continue
			}

			vertex, err := r.graph.Vertex(id)
			if err != nil {
				return nil, err
			}

			conflicts := map[string][]int{}
			for duplicate, edge := range adjacencyMap[id] {
				q.Add(duplicate)
				conflict := edge.Properties.Attributes[conflictAttributeKey]
				index, _ := strconv.Atoi(duplicate)
				conflicts[conflict] = append(conflicts[conflict], index)
			}

			cluster.Readings = append(cluster.Readings, ReadingConflicts{
				Reading:   vertex.Reading,
				Conflicts: conflicts,
			})

			visited[id] = struct{}{}
		}

		if len(cluster.Readings) > 1 {
			clusters = append(clusters, cluster)
		}
	}

	return clusters, nil
}

// Summarize condenses the clusters into a single check result.
func (r *ReadingClusterReporter) Summarize() (CheckResult, error) {
	clusters, err := r.GetReadingClusters()
	if err != nil {
		return CheckResult{}, err
	}

	duplicated := 0
	for _, cluster := range clusters {
		duplicated += len(cluster.Readings)
	}
	details := fmt.Sprintf("clusters=%d readings_in_clusters=%d", len(clusters), duplicated)

	result := ResultPass
	if len(clusters) > 0 {
		result = ResultWarning
	}
	return NewCheckResult(glucoseTable, "duplicate_clusters", result, details, int64(duplicated)), nil
}

func (r *ReadingClusterReporter) addDuplicateEdges(reading indexedReading) error {
	for _, duplicate := range r.byTimestamp[reading.Reading.Time.Unix()] {
		if duplicate.Index == reading.Index {
			continue
		}

		category := ConflictCategoryDuplicateTimestamp
		if duplicate.Reading.Value == reading.Reading.Value {
			category = ConflictCategoryExactDuplicate
		}

		edgeAttributes := graph.EdgeAttribute(conflictAttributeKey, category)
		err := r.graph.AddEdge(vertexKey(reading), vertexKey(duplicate), edgeAttributes)
		if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
			return err
		}
	}

	return nil
}

func vertexKey(reading indexedReading) string {
	return strconv.Itoa(reading.Index)
}
