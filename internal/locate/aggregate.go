//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"gonum.org/v1/gonum/stat"

	"bletrack/ble-rssi-locator/internal/scans"
)

// NoSignalRSSI is the average-RSSI value reported for a bucket in which a
// node recorded no scans of a device. It stands for "no signal / far away"
// and is weaker than any plausible measured value, so the localizer gives
// such buckets near-zero weight.
const NoSignalRSSI = -105.0

// DefaultFastScanDivisor is the calibration divisor applied to scan counts
// from nodes configured as fast-scanning.
const DefaultFastScanDivisor = 6.0

// FastNodeSet holds the addresses of nodes known to scan faster than the
// rest of the deployment, along with the divisor that normalizes their
// counts. The set is deployment configuration, never hard-coded.
type FastNodeSet struct {
	nodes   map[string]struct{}
	divisor float64
}

// NewFastNodeSet builds a FastNodeSet from the configured addresses. A
// divisor of zero or less falls back to DefaultFastScanDivisor.
func NewFastNodeSet(addrs []string, divisor float64) FastNodeSet {
	if divisor <= 0 {
		divisor = DefaultFastScanDivisor
	}
	s := FastNodeSet{
		nodes:   make(map[string]struct{}, len(addrs)),
		divisor: divisor,
	}
	for _, a := range addrs {
		s.nodes[a] = struct{}{}
	}
	return s
}

// Contains reports whether the node is configured as fast-scanning.
func (s FastNodeSet) Contains(nodeAddr string) bool {
	_, ok := s.nodes[nodeAddr]
	return ok
}

func (s FastNodeSet) divisorFor(nodeAddr string) float64 {
	if s.Contains(nodeAddr) {
		return s.divisor
	}
	return 1.0
}

// Frequencies counts, for each (device, node) pair in the index, how many
// scans fall into each bucket. Counts from fast-scanning nodes are divided
// by the set's divisor to normalize their higher native scan rate.
//
// All series start at bucket index 0 and have exactly len(starts) entries,
// the same alignment as AverageRSSI and Paths. (An earlier generation of
// this pipeline left frequency index 0 unpopulated, which made frequency
// series one entry shorter than every other series; that off-by-one is
// gone.)
func Frequencies(idx *scans.DeviceIndex, starts []float64, window float64, fast FastNodeSet) map[string]map[string][]float64 {
	freqs := make(map[string]map[string][]float64, len(idx.ScansPerDevice))
	for devAddr, perNode := range idx.ScansPerDevice {
		freqs[devAddr] = make(map[string][]float64, len(perNode))
		for nodeAddr, readings := range perNode {
			counts := make([]float64, len(starts))
			for i, bucketStart := range starts {
				var n float64
				for _, r := range readings {
					if inBucket(r.Time, bucketStart, window) {
						n++
					}
				}
				counts[i] = n / fast.divisorFor(nodeAddr)
			}
			freqs[devAddr][nodeAddr] = counts
		}
	}
	return freqs
}

// AverageRSSI computes, for each (device, node) pair in the index, the
// arithmetic mean RSSI of the scans in each bucket. Buckets with no scans
// report NoSignalRSSI; every pair present in the index gets a full-length
// series, so absent data is always explicit.
func AverageRSSI(idx *scans.DeviceIndex, starts []float64, window float64) map[string]map[string][]float64 {
	avgs := make(map[string]map[string][]float64, len(idx.ScansPerDevice))
	for devAddr, perNode := range idx.ScansPerDevice {
		avgs[devAddr] = make(map[string][]float64, len(perNode))
		for nodeAddr, readings := range perNode {
			series := make([]float64, len(starts))
			var bucket []float64
			for i, bucketStart := range starts {
				bucket = bucket[:0]
				for _, r := range readings {
					if inBucket(r.Time, bucketStart, window) {
						bucket = append(bucket, float64(r.RSSI))
					}
				}
				if len(bucket) > 0 {
					series[i] = stat.Mean(bucket, nil)
				} else {
					series[i] = NoSignalRSSI
				}
			}
			avgs[devAddr][nodeAddr] = series
		}
	}
	return avgs
}
