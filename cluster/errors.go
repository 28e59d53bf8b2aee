package cluster

import "errors"

// ErrNotFound is returned by GetChildren, GetLeaves, and
// GetClusterExpansionZoom when a cluster id decodes to an out-of-range
// (index, zoom) pair, or its neighborhood contains no record whose
// ParentID matches.
var ErrNotFound = errors.New("cluster: not found")

// ErrInvalidArgument is returned for bbox latitudes outside [-90, 90] and
// for zoom values outside [0, 32) passed to id decoding.
var ErrInvalidArgument = errors.New("cluster: invalid argument")
