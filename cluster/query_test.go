package cluster

import (
	"errors"
	"math"
	"testing"
)

func buildSmallIndex(t *testing.T) *Index {
	t.Helper()
	fc := FeatureCollection{Features: []Feature{
		pointFeature(0, 0),
		pointFeature(0.0005, 0.0005),
		pointFeature(0.0006, 0.0004),
		pointFeature(50, 50),
	}}
	idx, err := NewIndex(fc, Options{MinZoom: 0, MaxZoom: 10, MinPoints: 2, Radius: 60, Extent: 512})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	return idx
}

func TestGetTileReturnsIntegerPixelCoordinates(t *testing.T) {
	idx := buildSmallIndex(t)
	fc := idx.GetTile(0, 0, 0)
	for _, f := range fc.Features {
		x, y := f.Geometry.Coordinates[0], f.Geometry.Coordinates[1]
		if x != math.Trunc(x) || y != math.Trunc(y) {
			t.Errorf("tile feature coordinate (%v, %v) should be integer pixel space", x, y)
		}
		if x < 0 || y < 0 {
			t.Errorf("tile feature coordinate (%v, %v) should be non-negative pixel space", x, y)
		}
	}
}

func TestGetClustersRejectsInvalidLatitude(t *testing.T) {
	idx := buildSmallIndex(t)
	_, err := idx.GetClusters([4]float64{-180, -95, 180, 90}, 0)
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestGetChildrenUnknownClusterNotFound(t *testing.T) {
	idx := buildSmallIndex(t)
	_, err := idx.GetChildren(encodeID(9999, 3))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGetLeavesRecoversAllOriginalPoints(t *testing.T) {
	idx := buildSmallIndex(t)
	clusters, err := idx.GetClusters([4]float64{-180, -90, 180, 90}, 0)
	if err != nil {
		t.Fatalf("GetClusters: %v", err)
	}

	total := 0
	for _, f := range clusters.Features {
		if n, ok := f.Properties["cluster_id"]; ok {
			clusterID, ok := n.(uint32)
			if !ok {
				t.Fatalf("cluster_id has unexpected type %T", n)
			}
			leaves, err := idx.GetLeaves(clusterID, 1000, 0)
			if err != nil {
				t.Fatalf("GetLeaves: %v", err)
			}
			total += len(leaves.Features)
		} else {
			total++
		}
	}
	if total != 4 {
		t.Errorf("recovered %d leaves across all top clusters, want 4", total)
	}
}

func TestAbbreviate(t *testing.T) {
	cases := map[uint32]string{
		5:     "5",
		999:   "999",
		1000:  "1.0k",
		1500:  "1.5k",
		9999:  "10.0k",
		10000: "10k",
		25000: "25k",
	}
	for n, want := range cases {
		if got := abbreviate(n); got != want {
			t.Errorf("abbreviate(%d) = %q, want %q", n, got, want)
		}
	}
}
