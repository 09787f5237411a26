//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bletrack/ble-rssi-locator/internal/scans"
)

func mustIndex(t *testing.T, ds scans.Dataset) *scans.DeviceIndex {
	t.Helper()
	idx, err := scans.Index(ds)
	require.NoError(t, err)
	return idx
}

func TestFrequenciesCountsPerBucket(t *testing.T) {
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 1, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 5, RSSI: -61},
				{DeviceAddress: "dev-1", Time: 25, RSSI: -62},
			},
		},
		StartTimestamp: 0,
		EndTimestamp:   40,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 40, 20, 20)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 20}, starts)

	freqs := Frequencies(idx, starts, 20, NewFastNodeSet(nil, 0))

	require.Contains(t, freqs, "dev-1")
	// all series start at bucket index 0 and span every bucket
	assert.Equal(t, []float64{2, 1}, freqs["dev-1"]["node-a"])
}

func TestFrequenciesFastNodeDivisor(t *testing.T) {
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"fast-node": {
				{DeviceAddress: "dev-1", Time: 1, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 2, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 3, RSSI: -60},
			},
			"slow-node": {
				{DeviceAddress: "dev-1", Time: 1, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 2, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 3, RSSI: -60},
			},
		},
		StartTimestamp: 0,
		EndTimestamp:   20,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 20, 20, 20)
	require.NoError(t, err)

	fast := NewFastNodeSet([]string{"fast-node"}, 6.0)
	freqs := Frequencies(idx, starts, 20, fast)

	assert.InDelta(t, 0.5, freqs["dev-1"]["fast-node"][0], epsilon)
	assert.InDelta(t, 3.0, freqs["dev-1"]["slow-node"][0], epsilon)
}

func TestFrequenciesNeverNegative(t *testing.T) {
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {{DeviceAddress: "dev-1", Time: 100, RSSI: -60}},
		},
		StartTimestamp: 0,
		EndTimestamp:   40,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 40, 20, 10)
	require.NoError(t, err)

	freqs := Frequencies(idx, starts, 20, NewFastNodeSet(nil, 0))
	for _, counts := range freqs["dev-1"] {
		require.Len(t, counts, len(starts))
		for _, c := range counts {
			assert.GreaterOrEqual(t, c, 0.0)
		}
	}
}

func TestAverageRSSISingleScan(t *testing.T) {
	// spec scenario: one node, one scan {time:10, rssi:-60}, window=20
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {{DeviceAddress: "dev-1", Time: 10, RSSI: -60}},
		},
		StartTimestamp: 0,
		EndTimestamp:   20,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 20, 20, 20)
	require.NoError(t, err)
	require.Len(t, starts, 1)

	avgs := AverageRSSI(idx, starts, 20)
	assert.Equal(t, []float64{-60}, avgs["dev-1"]["node-a"])
}

func TestAverageRSSISentinelFill(t *testing.T) {
	// a (device, node) pair with no scans in a bucket reports the sentinel
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {{DeviceAddress: "dev-1", Time: 30, RSSI: -64}},
		},
		StartTimestamp: 0,
		EndTimestamp:   60,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 60, 20, 20)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 20, 40}, starts)

	avgs := AverageRSSI(idx, starts, 20)
	assert.Equal(t, []float64{NoSignalRSSI, -64, NoSignalRSSI}, avgs["dev-1"]["node-a"])
}

func TestAverageRSSIMeanOfBucket(t *testing.T) {
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 2, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 4, RSSI: -70},
				{DeviceAddress: "dev-1", Time: 6, RSSI: -65},
			},
		},
		StartTimestamp: 0,
		EndTimestamp:   20,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 20, 20, 20)
	require.NoError(t, err)

	avgs := AverageRSSI(idx, starts, 20)
	assert.InDelta(t, -65.0, avgs["dev-1"]["node-a"][0], epsilon)
}

func TestAverageRSSIBoundaryScanFallsInNextBucket(t *testing.T) {
	// half-open windows: a scan exactly at starts[i]+window is in bucket i+1
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {{DeviceAddress: "dev-1", Time: 20, RSSI: -60}},
		},
		StartTimestamp: 0,
		EndTimestamp:   40,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 40, 20, 20)
	require.NoError(t, err)
	require.Equal(t, []float64{0, 20}, starts)

	avgs := AverageRSSI(idx, starts, 20)
	assert.Equal(t, NoSignalRSSI, avgs["dev-1"]["node-a"][0])
	assert.Equal(t, -60.0, avgs["dev-1"]["node-a"][1])
}

func TestAggregateSeriesShareLength(t *testing.T) {
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 5, RSSI: -60},
				{DeviceAddress: "dev-2", Time: 15, RSSI: -70},
			},
			"node-b": {
				{DeviceAddress: "dev-1", Time: 35, RSSI: -75},
			},
		},
		StartTimestamp: 0,
		EndTimestamp:   55,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 55, 20, 5)
	require.NoError(t, err)

	freqs := Frequencies(idx, starts, 20, NewFastNodeSet(nil, 0))
	avgs := AverageRSSI(idx, starts, 20)

	for dev, perNode := range freqs {
		for node, counts := range perNode {
			assert.Len(t, counts, len(starts))
			assert.Len(t, avgs[dev][node], len(starts))
		}
	}
}

func TestAverageRSSIValuesInRange(t *testing.T) {
	ds := scans.Dataset{
		ScansByNode: map[string][]scans.Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 1, RSSI: -127},
				{DeviceAddress: "dev-1", Time: 2, RSSI: 127},
				{DeviceAddress: "dev-1", Time: 30, RSSI: -90},
			},
		},
		StartTimestamp: 0,
		EndTimestamp:   60,
	}
	idx := mustIndex(t, ds)

	starts, err := Starts(0, 60, 20, 10)
	require.NoError(t, err)

	avgs := AverageRSSI(idx, starts, 20)
	for _, series := range avgs["dev-1"] {
		for _, v := range series {
			inRange := v >= -127 && v <= 127
			assert.True(t, inRange || v == NoSignalRSSI, "avg %v out of range", v)
		}
	}
}
