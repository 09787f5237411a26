//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

// Package locate turns an indexed scan dataset into regular time-bucketed
// aggregates and a smoothed 2-D trajectory per device.
package locate

import (
	"math"

	"github.com/pkg/errors"
)

// Starts generates the sequence of bucket start times covering the range
// [start, end]. Bucket i begins at floor(start) + i*step and spans window
// seconds; only buckets that fit entirely inside the range are produced,
// so a range shorter than one window yields an empty (non-error) result.
//
// When step is smaller than window the buckets overlap and a scan can
// contribute to more than one of them; the overlap is intentional
// smoothing of the downstream series.
//
// Bucket membership is half-open: a scan at time t belongs to bucket i iff
// starts[i] <= t < starts[i]+window.
func Starts(start, end, window, step float64) ([]float64, error) {
	if window <= 0 {
		return nil, errors.Errorf("window size must be positive, got %v", window)
	}
	if step <= 0 {
		return nil, errors.Errorf("step size must be positive, got %v", step)
	}

	first := math.Floor(start)
	limit := math.Floor(end) - window

	var starts []float64
	for i := 0; ; i++ {
		t := first + float64(i)*step
		if t > limit {
			break
		}
		starts = append(starts, t)
	}
	return starts, nil
}

// inBucket reports whether t falls inside the window starting at bucketStart.
func inBucket(t, bucketStart, window float64) bool {
	return bucketStart <= t && t < bucketStart+window
}
