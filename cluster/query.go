package cluster

import (
	"fmt"
	"math"
)

// GetTile returns the features intersecting slippy-map tile (z, tx, ty),
// scaled to Options.Extent, per spec §4.5. Coordinates near the
// antimeridian are overscanned so tiles at x==0 and x==z2-1 render
// seamlessly.
func (idx *Index) GetTile(z uint8, tx, ty uint32) FeatureCollection {
	zoom := idx.limitZoom(int(z))
	layer := idx.layerAt(zoom)
	fc := FeatureCollection{Type: "FeatureCollection"}
	if layer == nil {
		return fc
	}

	z2 := math.Pow(2, float64(z))
	rTile := idx.opts.Radius / float64(idx.opts.Extent)

	appendRange := func(txf float64) {
		top := (float64(ty) - rTile) / z2
		bottom := (float64(ty) + 1 + rTile) / z2
		left := (txf - rTile) / z2
		right := (txf + 1 + rTile) / z2
		layer.rangeQuery(left, top, right, bottom, func(idxInLayer int) {
			r := layer.records[idxInLayer]
			fc.Features = append(fc.Features, idx.tileFeature(r, txf, float64(ty), z2))
		})
	}

	appendRange(float64(tx))

	z2i := uint32(z2)
	if tx == 0 && z2i > 0 {
		appendRange(z2)
	}
	if z2i > 0 && tx == z2i-1 {
		appendRange(-1)
	}

	return fc
}

func (idx *Index) tileFeature(r *Record, tx, ty, z2 float64) Feature {
	x := int(math.Round(float64(idx.opts.Extent) * (r.Pos.X*z2 - tx)))
	y := int(math.Round(float64(idx.opts.Extent) * (r.Pos.Y*z2 - ty)))

	props, id := idx.recordProperties(r)
	return Feature{
		Type:       "Feature",
		ID:         id,
		Geometry:   Geometry{Type: "Point", Coordinates: []float64{float64(x), float64(y)}},
		Properties: props,
	}
}

// GetClusters returns the clusters intersecting bbox = [west, south, east,
// north] (degrees) at zoom z, per spec §4.5. A box that spans 360° or more
// of longitude covers the whole world; otherwise a box that crosses the
// antimeridian (east < west) is split into two range queries.
func (idx *Index) GetClusters(bbox [4]float64, z uint8) (FeatureCollection, error) {
	west, south, east, north := bbox[0], bbox[1], bbox[2], bbox[3]
	if south < -90 || south > 90 || north < -90 || north > 90 {
		return FeatureCollection{}, fmt.Errorf("%w: latitude out of [-90, 90]", ErrInvalidArgument)
	}

	fc := FeatureCollection{Type: "FeatureCollection"}
	layer := idx.layerAt(idx.limitZoom(int(z)))
	if layer == nil {
		return fc, nil
	}

	minY := latY(north)
	maxY := latY(south)

	query := func(w, e float64) {
		minX := lngX(w)
		maxX := lngX(e)
		layer.rangeQuery(minX, minY, maxX, maxY, func(i int) {
			fc.Features = append(fc.Features, idx.plainFeature(layer.records[i]))
		})
	}

	w := normalizeLng(west)
	e := normalizeLng(east)
	if east-west >= 360 {
		query(-180, 180)
	} else if e < w {
		query(w, 180)
		query(-180, e)
	} else {
		query(w, e)
	}

	return fc, nil
}

// normalizeLng wraps a longitude of any magnitude into [-180, 180), the
// range project/unproject expect.
func normalizeLng(lng float64) float64 {
	lng = math.Mod(lng+180, 360)
	if lng < 0 {
		lng += 360
	}
	return lng - 180
}

func (idx *Index) plainFeature(r *Record) Feature {
	lon, lat := unproject(r.Pos.X, r.Pos.Y)
	props, id := idx.recordProperties(r)
	return Feature{
		Type:       "Feature",
		ID:         id,
		Geometry:   Geometry{Type: "Point", Coordinates: []float64{lon, lat}},
		Properties: props,
	}
}

// recordProperties builds the output property map and feature id for r,
// per spec §4.5: singletons copy the original feature's properties,
// multi-point clusters synthesize cluster/cluster_id/point_count/
// point_count_abbreviated merged with the map/reduce aggregate.
func (idx *Index) recordProperties(r *Record) (map[string]interface{}, interface{}) {
	if r.NumPoints == 1 {
		f := idx.features[r.Origin.Index]
		var id interface{}
		if idx.opts.GenerateID {
			id = r.Origin.Index
		} else if f.ID != nil {
			id = f.ID
		}
		return f.Properties, id
	}

	props := map[string]interface{}{
		"cluster":                 true,
		"cluster_id":              r.ID,
		"point_count":             r.NumPoints,
		"point_count_abbreviated": abbreviate(r.NumPoints),
	}
	for k, v := range r.Properties {
		props[k] = v
	}
	return props, r.ID
}

// abbreviate renders a point count the way spec §4.5 describes:
// n<1000 as a plain integer, 1000<=n<10000 as one decimal place with a
// "k" suffix, n>=10000 as integer thousands with a "k" suffix.
func abbreviate(n uint32) string {
	switch {
	case n < 1000:
		return fmt.Sprintf("%d", n)
	case n < 10000:
		return fmt.Sprintf("%.1fk", float64(n)/1000)
	default:
		return fmt.Sprintf("%dk", n/1000)
	}
}

// GetChildren returns the direct children of the cluster identified by
// clusterID, per spec §4.5. It returns ErrNotFound if the id decodes out
// of range, or if no record in that neighborhood has a matching ParentID.
func (idx *Index) GetChildren(clusterID uint32) (FeatureCollection, error) {
	records, err := idx.childRecords(clusterID)
	if err != nil {
		return FeatureCollection{}, err
	}
	fc := FeatureCollection{Type: "FeatureCollection"}
	for _, r := range records {
		fc.Features = append(fc.Features, idx.plainFeature(r))
	}
	return fc, nil
}

// childRecords is the internal, record-level counterpart of GetChildren,
// used directly by GetLeaves and GetClusterExpansionZoom to avoid
// round-tripping through GeoJSON.
func (idx *Index) childRecords(clusterID uint32) ([]*Record, error) {
	originIndex, originZoom := decodeID(clusterID)
	if originZoom < 0 || originZoom >= 32 {
		return nil, fmt.Errorf("%w: zoom %d out of [0, 32)", ErrInvalidArgument, originZoom)
	}

	fineLayer := idx.layerAt(originZoom)
	ownerLayer := idx.layerAt(originZoom - 1)
	if fineLayer == nil || ownerLayer == nil || int(originIndex) >= len(ownerLayer.records) {
		return nil, ErrNotFound
	}
	origin := ownerLayer.records[originIndex]

	// Children were gathered within the clustering radius of the seed
	// record, and the cluster sits at their weighted centroid, so every
	// child lies within twice that radius of origin.Pos.
	r := 2 * idx.opts.Radius / (float64(idx.opts.Extent) * math.Pow(2, float64(originZoom-1)))

	var children []*Record
	fineLayer.withinQuery(origin.Pos.X, origin.Pos.Y, r, func(i int) {
		c := fineLayer.records[i]
		if c.ParentID == clusterID {
			children = append(children, c)
		}
	})

	if len(children) == 0 {
		return nil, ErrNotFound
	}
	return children, nil
}

// GetLeaves returns up to limit original point features (skipping the
// first offset), found via depth-first traversal of GetChildren, per
// spec §4.5. limit and offset are taken as given: a limit of 0 returns no
// features. The HTTP handler supplies limit 10 and offset 0 when the
// request omits them.
func (idx *Index) GetLeaves(clusterID uint32, limit, offset uint32) (FeatureCollection, error) {
	fc := FeatureCollection{Type: "FeatureCollection"}
	skipped := uint32(0)
	limitLeft := limit
	err := idx.collectLeaves(clusterID, offset, &skipped, &limitLeft, &fc)
	if err != nil {
		return FeatureCollection{}, err
	}
	return fc, nil
}

func (idx *Index) collectLeaves(clusterID, offset uint32, skipped, limitLeft *uint32, fc *FeatureCollection) error {
	children, err := idx.childRecords(clusterID)
	if err != nil {
		return err
	}
	for _, child := range children {
		if *limitLeft == 0 {
			return nil
		}
		if child.NumPoints > 1 {
			if *skipped+child.NumPoints <= offset {
				*skipped += child.NumPoints
				continue
			}
			if err := idx.collectLeaves(child.ID, offset, skipped, limitLeft, fc); err != nil {
				return err
			}
			continue
		}
		if *skipped < offset {
			*skipped++
			continue
		}
		fc.Features = append(fc.Features, idx.plainFeature(child))
		*limitLeft--
	}
	return nil
}

// GetClusterExpansionZoom returns the smallest zoom at which the given
// cluster splits into two or more entities, per spec §4.5.
func (idx *Index) GetClusterExpansionZoom(clusterID uint32) (int, error) {
	_, originZoom := decodeID(clusterID)
	z := originZoom - 1
	id := clusterID

	for z < idx.opts.MaxZoom {
		children, err := idx.childRecords(id)
		if err != nil {
			return 0, err
		}
		if len(children) != 1 {
			return z + 1, nil
		}
		id = children[0].ID
		z++
	}
	return z + 1, nil
}
