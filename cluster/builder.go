package cluster

import "math"

// build runs the strict coarsening pass described in spec §4.4: a leaf
// layer at zoom maxZoom+1 is projected once from the input features, then
// each coarser zoom down to minZoom is derived by a single greedy scan
// over the next-finer layer.
func (idx *Index) build() {
	o := idx.opts
	numLayers := o.MaxZoom + 1 - o.MinZoom + 1
	idx.layers = make([]*zoomLayer, numLayers)

	leaf := idx.buildLeafLayer()
	idx.logf("clustopher: %d input features", len(leaf.records))
	idx.setLayer(o.MaxZoom+1, leaf)

	prev := leaf
	for z := o.MaxZoom; z >= o.MinZoom; z-- {
		r := o.Radius / (float64(o.Extent) * math.Pow(2, float64(z)))
		next := idx.coarsenLayer(prev, z, r)
		idx.logf("clustopher: zoom %d -> %d clusters (r=%.6f)", z, len(next.records), r)
		idx.setLayer(z, next)
		prev = next
	}
}

// buildLeafLayer projects every input feature into a singleton Record, in
// input order, and indexes them (spec §4.4 step 1).
func (idx *Index) buildLeafLayer() *zoomLayer {
	records := make([]*Record, len(idx.features))
	for i, f := range idx.features {
		x, y := project(f.Lon(), f.Lat())
		r := &Record{
			Pos:             point{X: x, Y: y},
			Origin:          FeatureRef{Index: uint32(i)},
			NumPoints:       1,
			NumPointsOrigin: 1,
			ID:              uint32(i),
			ParentID:        0,
		}
		if idx.opts.hasMapReduce() {
			r.Properties = idx.opts.Map(f.Properties)
		}
		records[i] = r
	}
	return newZoomLayer(records, idx.opts.NodeSize)
}

// coarsenLayer performs one greedy single-pass clustering scan over prev
// (the zoom z+1 layer), producing the zoom z layer. See spec §4.4 and the
// Open Question resolution in SPEC_FULL.md for the exact minPoints gate
// semantics implemented here.
func (idx *Index) coarsenLayer(prev *zoomLayer, z int, r float64) *zoomLayer {
	o := idx.opts
	visited := make([]bool, len(prev.records))
	next := make([]*Record, 0, len(prev.records))

	for i, p := range prev.records {
		if visited[i] {
			continue
		}
		visited[i] = true

		var candidates []int
		candidateTotal := p.NumPoints
		prev.withinQuery(p.Pos.X, p.Pos.Y, r, func(j int) {
			if visited[j] {
				return
			}
			candidates = append(candidates, j)
			candidateTotal += prev.records[j].NumPoints
		})

		if candidateTotal < uint32(o.MinPoints) {
			// Gate fails: carry p forward unchanged, and leave the
			// candidates unvisited so a later record may still absorb
			// them.
			next = append(next, p)
			continue
		}

		newID := encodeID(uint32(len(next)), z+1)

		wx := p.Pos.X * float64(p.NumPoints)
		wy := p.Pos.Y * float64(p.NumPoints)
		total := p.NumPoints
		totalOrigin := p.NumPointsOrigin

		var aggProps map[string]interface{}
		if o.hasMapReduce() {
			aggProps = cloneProps(p.Properties)
		}

		for _, j := range candidates {
			b := prev.records[j]
			visited[j] = true
			b.ParentID = newID

			wx += b.Pos.X * float64(b.NumPoints)
			wy += b.Pos.Y * float64(b.NumPoints)
			total += b.NumPoints
			totalOrigin += b.NumPointsOrigin

			if o.hasMapReduce() {
				o.Reduce(aggProps, b.Properties)
			}
		}

		p.ParentID = newID

		next = append(next, &Record{
			Pos:             point{X: wx / float64(total), Y: wy / float64(total)},
			Origin:          p.Origin,
			NumPoints:       total,
			NumPointsOrigin: totalOrigin,
			ID:              newID,
			ParentID:        0,
			Properties:      aggProps,
		})
	}

	return newZoomLayer(next, o.NodeSize)
}

func cloneProps(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
