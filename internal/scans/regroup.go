//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package scans

import (
	"math"
	"strconv"
)

// NoTimestamp is the StartTimestamp/EndTimestamp value of a regrouped view
// which accepted no readings at all.
const NoTimestamp = -1

// TimeFilter optionally restricts a regrouped view to an inclusive time
// range. A nil bound leaves that side open.
type TimeFilter struct {
	Start *float64
	End   *float64
}

func (f TimeFilter) accepts(t float64) bool {
	if f.Start != nil && t < *f.Start {
		return false
	}
	if f.End != nil && t > *f.End {
		return false
	}
	return true
}

// TimedMeasurements is a timestamp-keyed view of one or more datasets,
// intended for tabular export. Keys are scan times rounded to one decimal
// place and formatted with exactly that decimal ("12.3"), so the structure
// marshals directly to JSON. Multiple readings at the same rounded time,
// node and device are all retained, in source order.
type TimedMeasurements struct {
	Data           map[string]map[string]map[string][]int `json:"data"`
	StartTimestamp float64                                `json:"start_timestamp"`
	EndTimestamp   float64                                `json:"end_timestamp"`
}

// TimestampKey formats a scan time as a Data key: rounded to one decimal
// place, always with one digit after the point.
func TimestampKey(t float64) string {
	return strconv.FormatFloat(math.Round(t*10)/10, 'f', 1, 64)
}

// Regroup merges the given datasets into a timestamp-keyed view. The
// filter bounds are inclusive; readings outside them are skipped and do
// not affect the reported time range.
func Regroup(filter TimeFilter, datasets ...Dataset) TimedMeasurements {
	out := TimedMeasurements{
		Data:           make(map[string]map[string]map[string][]int),
		StartTimestamp: NoTimestamp,
		EndTimestamp:   NoTimestamp,
	}

	for _, ds := range datasets {
		for nodeAddr, nodeScans := range ds.ScansByNode {
			for _, scan := range nodeScans {
				if !filter.accepts(scan.Time) {
					continue
				}

				if scan.Time < out.StartTimestamp || out.StartTimestamp == NoTimestamp {
					out.StartTimestamp = scan.Time
				}
				if scan.Time > out.EndTimestamp || out.EndTimestamp == NoTimestamp {
					out.EndTimestamp = scan.Time
				}

				key := TimestampKey(scan.Time)
				perNode, ok := out.Data[key]
				if !ok {
					perNode = make(map[string]map[string][]int)
					out.Data[key] = perNode
				}
				perDevice, ok := perNode[nodeAddr]
				if !ok {
					perDevice = make(map[string][]int)
					perNode[nodeAddr] = perDevice
				}
				perDevice[scan.DeviceAddress] = append(perDevice[scan.DeviceAddress], scan.RSSI)
			}
		}
	}

	return out
}
