package cluster

// The 32-bit cluster id packs the record's index within the zoom layer that
// created it into the upper 27 bits, and the zoom level that produced it
// (offset by one, so 0 means "no cluster") into the low 5 bits. See spec
// §4.3. Singleton ids (num_points == 1) are never run through this codec —
// they are simply the original input feature index — so the two id spaces
// never collide in practice; callers distinguish them via NumPoints.
const (
	idZoomBits = 5
	idZoomMask = 1<<idZoomBits - 1
)

// encodeID packs the record's position in the zoom layer it belongs to
// (index) together with the zoom that produced it (zoom, the finer zoom
// number the cluster was built from, i.e. z+1 in builder terms) into a
// cluster id.
func encodeID(index uint32, zoom int) uint32 {
	return index<<idZoomBits | uint32(zoom)&idZoomMask
}

// decodeID reverses encodeID. originZoom is the finer zoom layer the
// cluster was built from (not the zoom at which the cluster itself lives).
func decodeID(id uint32) (originIndex uint32, originZoom int) {
	return id >> idZoomBits, int(id & idZoomMask)
}
