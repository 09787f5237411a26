//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package scans

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexEmptyDataset(t *testing.T) {
	idx, err := Index(Dataset{ScansByNode: map[string][]Scan{}})
	require.NoError(t, err)

	assert.Empty(t, idx.ScansPerDevice)
	assert.Equal(t, EmptyMinRSSI, idx.MinRSSI)
	assert.Equal(t, EmptyMaxRSSI, idx.MaxRSSI)
}

func TestIndexRoutesPerDevicePerNode(t *testing.T) {
	ds := Dataset{
		ScansByNode: map[string][]Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 1.0, RSSI: -60},
				{DeviceAddress: "dev-2", Time: 1.5, RSSI: -70},
				{DeviceAddress: "dev-1", Time: 2.0, RSSI: -62},
			},
			"node-b": {
				{DeviceAddress: "dev-1", Time: 1.2, RSSI: -80},
			},
		},
		StartTimestamp: 1.0,
		EndTimestamp:   2.0,
	}

	idx, err := Index(ds)
	require.NoError(t, err)

	require.Contains(t, idx.ScansPerDevice, "dev-1")
	require.Contains(t, idx.ScansPerDevice, "dev-2")

	// nodes seeing the same device stay separate keys
	require.Len(t, idx.ScansPerDevice["dev-1"], 2)
	assert.Equal(t, []Reading{{Time: 1.0, RSSI: -60}, {Time: 2.0, RSSI: -62}},
		idx.ScansPerDevice["dev-1"]["node-a"])
	assert.Equal(t, []Reading{{Time: 1.2, RSSI: -80}},
		idx.ScansPerDevice["dev-1"]["node-b"])

	assert.Equal(t, -80, idx.MinRSSI)
	assert.Equal(t, -60, idx.MaxRSSI)
	assert.LessOrEqual(t, idx.MinRSSI, idx.MaxRSSI)
}

func TestIndexPreservesReadingOrder(t *testing.T) {
	// out-of-order times still keep source order within a (device, node) list
	ds := Dataset{
		ScansByNode: map[string][]Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 5.0, RSSI: -50},
				{DeviceAddress: "dev-1", Time: 3.0, RSSI: -55},
				{DeviceAddress: "dev-1", Time: 4.0, RSSI: -52},
			},
		},
		StartTimestamp: 3.0,
		EndTimestamp:   5.0,
	}

	idx, err := Index(ds)
	require.NoError(t, err)

	got := idx.ScansPerDevice["dev-1"]["node-a"]
	require.Len(t, got, 3)
	assert.Equal(t, 5.0, got[0].Time)
	assert.Equal(t, 3.0, got[1].Time)
	assert.Equal(t, 4.0, got[2].Time)
}

func TestIndexMalformedRecord(t *testing.T) {
	ds := Dataset{
		ScansByNode: map[string][]Scan{
			"node-a": {
				{DeviceAddress: "", Time: 1.0, RSSI: -60},
			},
		},
	}

	_, err := Index(ds)
	require.Error(t, err)

	var malformed MalformedRecordError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, "address", malformed.Field)
}

func TestIndexIdempotent(t *testing.T) {
	ds := Dataset{
		ScansByNode: map[string][]Scan{
			"node-a": {
				{DeviceAddress: "dev-1", Time: 1.0, RSSI: -60},
				{DeviceAddress: "dev-1", Time: 2.0, RSSI: -65},
			},
		},
		StartTimestamp: 1.0,
		EndTimestamp:   2.0,
	}

	first, err := Index(ds)
	require.NoError(t, err)
	second, err := Index(ds)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
