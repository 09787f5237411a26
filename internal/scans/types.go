//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package scans

import "fmt"

const (
	// EmptyMinRSSI and EmptyMaxRSSI are the min/max values reported for an
	// index built from a dataset with no scans at all. They are deliberately
	// inverted (127 > -127) so that any real scan replaces both.
	EmptyMinRSSI = 127
	EmptyMaxRSSI = -127
)

// Scan is a single sighting of a mobile device by a receiver node.
type Scan struct {
	// DeviceAddress is the MAC-style address of the device that was seen.
	DeviceAddress string `json:"address"`
	// Time is the moment of the sighting, in seconds. Times are monotonic
	// within a dataset and always lie inside the dataset's time range.
	Time float64 `json:"time"`
	// RSSI is the received signal strength of the sighting, in [-127, 127].
	RSSI int `json:"rssi"`
}

// Dataset is a batch of scans over a closed time range, keyed by the
// address of the receiver node which recorded them.
type Dataset struct {
	ScansByNode    map[string][]Scan `json:"scans"`
	StartTimestamp float64           `json:"start_timestamp"`
	EndTimestamp   float64           `json:"end_timestamp"`
}

// Reading is a sighting with the device and node addresses factored out
// into the surrounding index keys.
type Reading struct {
	Time float64 `json:"time"`
	RSSI int     `json:"rssi"`
}

// DeviceIndex reorganizes a Dataset per device per node. Readings within a
// (device, node) list keep the order they appear in the source node lists.
type DeviceIndex struct {
	ScansPerDevice map[string]map[string][]Reading `json:"scans_per_device"`
	// MinRSSI and MaxRSSI are the extremes over every scan in the dataset,
	// or the Empty sentinels if the dataset holds no scans.
	MinRSSI int `json:"min_rssi"`
	MaxRSSI int `json:"max_rssi"`
}

// MalformedRecordError reports a scan record missing a required field.
// It is a precondition violation: the dataset it came from is rejected
// rather than the record being silently dropped.
type MalformedRecordError struct {
	Field string
}

func (e MalformedRecordError) Error() string {
	return fmt.Sprintf("scan record is missing required field %q", e.Field)
}
