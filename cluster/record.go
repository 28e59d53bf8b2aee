package cluster

import "github.com/MadAppGang/kdbush"

// point is a projected Web-Mercator position in the unit square.
type point struct {
	X, Y float64
}

// Record is the per-level cluster entity described in spec §3. Records are
// created during index construction; the only later write is ParentID,
// which coarsenLayer (builder.go) sets on a finer layer's records as they
// are absorbed into a coarser cluster. Nothing changes once NewIndex
// returns. A record the minPoints gate carries forward unchanged is the
// same *Record in both layers.
type Record struct {
	Pos    point
	Origin FeatureRef

	NumPoints       uint32
	NumPointsOrigin uint32

	ID       uint32
	ParentID uint32

	// Properties holds the map/reduce aggregation output. Nil when no
	// MapFunc/ReduceFunc was configured.
	Properties map[string]interface{}
}

// FeatureRef points back at the original input feature index for
// singleton records (NumPoints == 1); it is unused for multi-point
// clusters.
type FeatureRef struct {
	Index uint32
}

// Coordinates implements kdbush.Point so a Record can be indexed directly.
func (r *Record) Coordinates() (float64, float64) {
	return r.Pos.X, r.Pos.Y
}

// zoomLayer is the immutable ordered vector of records produced at one
// zoom level, plus the KD-tree indexing them by position (spec §4.2). The
// generic KD-tree primitive itself is treated as an external dependency;
// zoomLayer only adapts it to Record's shape.
type zoomLayer struct {
	records []*Record
	tree    *kdbush.KDBush
}

func newZoomLayer(records []*Record, nodeSize int) *zoomLayer {
	pts := make([]kdbush.Point, len(records))
	for i, r := range records {
		pts[i] = r
	}
	return &zoomLayer{
		records: records,
		tree:    kdbush.NewBush(pts, nodeSize),
	}
}

// rangeQuery invokes visit for every record index whose point lies in the
// closed rectangle [minX,minY]-[maxX,maxY].
func (l *zoomLayer) rangeQuery(minX, minY, maxX, maxY float64, visit func(idx int)) {
	for _, idx := range l.tree.Range(minX, minY, maxX, maxY) {
		visit(idx)
	}
}

// withinQuery invokes visit for every record index within radius r of
// (qx, qy).
func (l *zoomLayer) withinQuery(qx, qy, r float64, visit func(idx int)) {
	for _, idx := range l.tree.Within(&kdbush.SimplePoint{X: qx, Y: qy}, r) {
		visit(idx)
	}
}
