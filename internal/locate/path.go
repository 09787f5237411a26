//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Point is a fixed 2-D node position in deployment coordinates.
type Point struct {
	X float64 `json:"x" toml:"x"`
	Y float64 `json:"y" toml:"y"`
}

// Path is the estimated trajectory of one device: one (X[i], Y[i]) pair
// per bucket, aligned with the bucket start sequence. NaN at an index
// means there was not enough signal to estimate a position in that window.
type Path struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
}

// UnknownNodeLocationError reports a node that appears in the aggregates
// but has no entry in the node location table. Skipping such a node would
// silently bias the centroid, so localization fails instead.
type UnknownNodeLocationError struct {
	Node string
}

func (e UnknownNodeLocationError) Error() string {
	return fmt.Sprintf("no location configured for node %q", e.Node)
}

// minUsableWeight is the total weight below which a bucket is treated as
// having no usable signal and yields a NaN position.
const minUsableWeight = 1.0

// Paths estimates a trajectory for every device in the aggregates. Per
// bucket, each node that saw the device contributes weight
// (avgRSSI+105)^2, so averages at the no-signal sentinel contribute
// (almost) nothing and stronger signals count quadratically more. The
// position is the weighted centroid of the contributing node locations, a
// convex combination; buckets whose total weight is below 1 get (NaN, NaN).
func Paths(freqs, avgs map[string]map[string][]float64, starts []float64, locations map[string]Point) (map[string]Path, error) {
	// Validate the location table up front so a bad table fails before any
	// partial result is built.
	for _, perNode := range freqs {
		for nodeAddr := range perNode {
			if _, ok := locations[nodeAddr]; !ok {
				return nil, UnknownNodeLocationError{Node: nodeAddr}
			}
		}
	}

	paths := make(map[string]Path, len(freqs))
	for devAddr, perNode := range freqs {
		path := Path{
			X: make([]float64, len(starts)),
			Y: make([]float64, len(starts)),
		}

		weights := make(map[string]float64, len(perNode))
		for i := range starts {
			var weightSum float64
			for nodeAddr := range perNode {
				w := avgs[devAddr][nodeAddr][i] - NoSignalRSSI
				w *= w
				weights[nodeAddr] = w
				weightSum += w
			}

			if weightSum < minUsableWeight {
				// Effectively nothing saw the device in this window; an
				// explicit non-estimate beats carrying the last position.
				path.X[i] = math.NaN()
				path.Y[i] = math.NaN()
				continue
			}

			for nodeAddr, w := range weights {
				loc := locations[nodeAddr]
				path.X[i] += (w / weightSum) * loc.X
				path.Y[i] += (w / weightSum) * loc.Y
			}
		}

		paths[devAddr] = path
	}
	return paths, nil
}

// MarshalJSON encodes NaN entries as null, since JSON has no NaN literal
// and downstream consumers expect an explicit "no estimate" marker.
func (p Path) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"x":`)
	writeFloatSlice(&buf, p.X)
	buf.WriteString(`,"y":`)
	writeFloatSlice(&buf, p.Y)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeFloatSlice(buf *bytes.Buffer, vals []float64) {
	buf.WriteByte('[')
	for i, v := range vals {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) {
			buf.WriteString("null")
		} else {
			buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	buf.WriteByte(']')
}
