package cluster

import (
	"fmt"
	"math/rand"
)

// MetadataSummary aggregates the properties of a FeatureCollection returned
// by a query, the way an API consumer would want to render a legend or
// summary panel alongside a rendered tile.
type MetadataSummary struct {
	TotalPoints     int                           `json:"totalPoints"`
	NumClusters     int                           `json:"numClusters"`
	NumSinglePoints int                           `json:"numSinglePoints"`
	MetricsSummary  map[string]MetricStats        `json:"metricsSummary"`
	CategorySummary map[string]map[string]float64 `json:"categorySummary"`
}

type MetricStats struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Sum     float64 `json:"sum"`
	Average float64 `json:"average"`
}

// administrativeKeys are synthesized by recordProperties for cluster
// features and are not sample data, so they are excluded from the
// metric/category rollup below.
var administrativeKeys = map[string]bool{
	"cluster":                 true,
	"cluster_id":              true,
	"point_count":             true,
	"point_count_abbreviated": true,
}

// CalculateMetadataSummary rolls up the properties of fc's features into
// per-numeric-key min/max/sum/average and per-string-key value
// distributions, skipping the administrative cluster properties.
func CalculateMetadataSummary(fc FeatureCollection) MetadataSummary {
	summary := MetadataSummary{
		MetricsSummary:  make(map[string]MetricStats),
		CategorySummary: make(map[string]map[string]float64),
	}
	if len(fc.Features) == 0 {
		return summary
	}

	metrics := make(map[string]*metricAcc)
	categories := make(map[string]map[string]int)

	for _, f := range fc.Features {
		pointCount := 1
		if n, ok := f.Properties["point_count"].(uint32); ok {
			pointCount = int(n)
		}
		if pointCount > 1 {
			summary.NumClusters++
		} else {
			summary.NumSinglePoints++
		}
		summary.TotalPoints += pointCount

		for key, raw := range f.Properties {
			if administrativeKeys[key] {
				continue
			}
			switch v := raw.(type) {
			case float64:
				addMetric(metrics, key, v)
			case int:
				addMetric(metrics, key, float64(v))
			case string:
				if categories[key] == nil {
					categories[key] = make(map[string]int)
				}
				categories[key][v]++
			}
		}
	}

	for key, a := range metrics {
		summary.MetricsSummary[key] = MetricStats{
			Min:     a.min,
			Max:     a.max,
			Sum:     a.sum,
			Average: a.sum / float64(a.count),
		}
	}

	for key, freq := range categories {
		total := 0
		for _, n := range freq {
			total += n
		}
		dist := make(map[string]float64, len(freq))
		for value, n := range freq {
			dist[value] = float64(n) / float64(total) * 100
		}
		summary.CategorySummary[key] = dist
	}

	return summary
}

type metricAcc struct {
	min, max, sum float64
	count         int
}

func addMetric(metrics map[string]*metricAcc, key string, v float64) {
	a, ok := metrics[key]
	if !ok {
		a = &metricAcc{min: v, max: v}
		metrics[key] = a
	}
	if v < a.min {
		a.min = v
	}
	if v > a.max {
		a.max = v
	}
	a.sum += v
	a.count++
}

// GenerateTestFeatureCollection synthesizes n uniformly distributed point
// features within bounds = [west, south, east, north], for use by
// benchmarks and property tests that don't depend on a fixture file.
func GenerateTestFeatureCollection(n int, bounds [4]float64, rng *rand.Rand) FeatureCollection {
	west, south, east, north := bounds[0], bounds[1], bounds[2], bounds[3]
	categories := []string{"A", "B", "C"}

	fc := FeatureCollection{Type: "FeatureCollection", Features: make([]Feature, n)}
	for i := 0; i < n; i++ {
		lon := west + rng.Float64()*(east-west)
		lat := south + rng.Float64()*(north-south)
		fc.Features[i] = Feature{
			Type: "Feature",
			Geometry: Geometry{
				Type:        "Point",
				Coordinates: []float64{lon, lat},
			},
			Properties: map[string]interface{}{
				"value":    rng.Float64() * 100,
				"category": categories[rng.Intn(len(categories))],
				"name":     fmt.Sprintf("point-%d", i),
			},
		}
	}
	return fc
}
