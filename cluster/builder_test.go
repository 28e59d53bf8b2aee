package cluster

import "testing"

func pointFeature(lon, lat float64) Feature {
	return Feature{
		Type:     "Feature",
		Geometry: Geometry{Type: "Point", Coordinates: []float64{lon, lat}},
	}
}

func TestBuildEmptyCollection(t *testing.T) {
	idx, err := NewIndex(FeatureCollection{}, Options{})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	fc, err := idx.GetClusters([4]float64{-180, -90, 180, 90}, 0)
	if err != nil {
		t.Fatalf("GetClusters: %v", err)
	}
	if len(fc.Features) != 0 {
		t.Errorf("GetClusters on empty index returned %d features, want 0", len(fc.Features))
	}
}

func TestBuildTwoNearbyPointsCluster(t *testing.T) {
	fc := FeatureCollection{Features: []Feature{
		pointFeature(0, 0),
		pointFeature(0.001, 0.001),
	}}
	idx, err := NewIndex(fc, Options{MinZoom: 0, MaxZoom: 4, MinPoints: 2, Radius: 200, Extent: 512})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	clusters, err := idx.GetClusters([4]float64{-180, -90, 180, 90}, 0)
	if err != nil {
		t.Fatalf("GetClusters: %v", err)
	}
	if len(clusters.Features) != 1 {
		t.Fatalf("got %d features at zoom 0, want 1 merged cluster", len(clusters.Features))
	}
	if clusters.Features[0].Properties["point_count"] != uint32(2) {
		t.Errorf("point_count = %v, want 2", clusters.Features[0].Properties["point_count"])
	}
}

func TestBuildDistantPointsStaySeparate(t *testing.T) {
	fc := FeatureCollection{Features: []Feature{
		pointFeature(-120, 40),
		pointFeature(120, -40),
	}}
	idx, err := NewIndex(fc, Options{MinZoom: 0, MaxZoom: 8, MinPoints: 2, Radius: 40, Extent: 512})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	clusters, err := idx.GetClusters([4]float64{-180, -90, 180, 90}, 0)
	if err != nil {
		t.Fatalf("GetClusters: %v", err)
	}
	if len(clusters.Features) != 2 {
		t.Fatalf("got %d features, want 2 unmerged singletons", len(clusters.Features))
	}
}

func TestMinPointsGateCarriesSeedForward(t *testing.T) {
	// A single isolated point with minPoints=3 never has enough
	// neighbors to form a cluster, so it must be carried forward as a
	// singleton at every zoom rather than dropped.
	fc := FeatureCollection{Features: []Feature{pointFeature(10, 10)}}
	idx, err := NewIndex(fc, Options{MinZoom: 0, MaxZoom: 8, MinPoints: 3, Radius: 40, Extent: 512})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	for z := 0; z <= 8; z++ {
		layer := idx.layerAt(z)
		if layer == nil || len(layer.records) != 1 {
			t.Fatalf("zoom %d: expected exactly 1 record carried forward", z)
		}
		if layer.records[0].NumPoints != 1 {
			t.Errorf("zoom %d: NumPoints = %d, want 1", z, layer.records[0].NumPoints)
		}
	}
}

func TestLeafZoomHasOneRecordPerFeature(t *testing.T) {
	fc := FeatureCollection{Features: []Feature{
		pointFeature(0, 0),
		pointFeature(10, 10),
		pointFeature(-10, -10),
	}}
	idx, err := NewIndex(fc, Options{MinZoom: 0, MaxZoom: 4, MinPoints: 2, Radius: 40, Extent: 512})
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}

	leaf := idx.layerAt(5) // maxZoom + 1
	if leaf == nil {
		t.Fatal("leaf layer at maxZoom+1 missing")
	}
	if len(leaf.records) != len(fc.Features) {
		t.Errorf("leaf layer has %d records, want %d", len(leaf.records), len(fc.Features))
	}
}
