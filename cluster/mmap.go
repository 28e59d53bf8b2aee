package cluster

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edsrzf/mmap-go"
)

// LoadFeatureCollectionFile reads and decodes a GeoJSON FeatureCollection
// from disk. Parsing the input document itself is outside the index's
// concern (spec §1); this is ingestion plumbing that hands NewIndex a
// FeatureCollection.
func LoadFeatureCollectionFile(path string) (FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("cluster: read %s: %w", path, err)
	}
	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("cluster: decode %s: %w", path, err)
	}
	return fc, nil
}

// LoadFeatureCollectionMMap decodes a GeoJSON FeatureCollection from a
// memory-mapped file, avoiding a full read-into-heap copy for large input
// documents. The mapping is unmapped before returning; json.Unmarshal
// still needs the whole document materialized as Go values, but the
// kernel handles paging the source bytes in rather than a single
// os.ReadFile allocation.
func LoadFeatureCollectionMMap(path string) (FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("cluster: open %s: %w", path, err)
	}
	defer f.Close()

	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return FeatureCollection{}, fmt.Errorf("cluster: mmap %s: %w", path, err)
	}
	defer data.Unmap()

	var fc FeatureCollection
	if err := json.Unmarshal(data, &fc); err != nil {
		return FeatureCollection{}, fmt.Errorf("cluster: decode %s: %w", path, err)
	}
	return fc, nil
}
