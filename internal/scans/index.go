//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package scans

// Index reorganizes a dataset's per-node scan lists into a per-device,
// per-node index and records the dataset-wide min and max RSSI.
//
// Sightings of the same device by different nodes are never merged; each
// node stays a separate key under the device. Within a (device, node) list
// the readings keep their source order, processed node-by-node in the
// dataset's iteration order and scan-by-scan within each node.
func Index(ds Dataset) (*DeviceIndex, error) {
	idx := &DeviceIndex{
		ScansPerDevice: make(map[string]map[string][]Reading),
		MinRSSI:        EmptyMinRSSI,
		MaxRSSI:        EmptyMaxRSSI,
	}

	for nodeAddr, nodeScans := range ds.ScansByNode {
		if nodeAddr == "" {
			return nil, MalformedRecordError{Field: "node"}
		}
		for _, scan := range nodeScans {
			if scan.DeviceAddress == "" {
				return nil, MalformedRecordError{Field: "address"}
			}

			perNode, ok := idx.ScansPerDevice[scan.DeviceAddress]
			if !ok {
				perNode = make(map[string][]Reading)
				idx.ScansPerDevice[scan.DeviceAddress] = perNode
			}
			perNode[nodeAddr] = append(perNode[nodeAddr], Reading{Time: scan.Time, RSSI: scan.RSSI})

			if scan.RSSI > idx.MaxRSSI {
				idx.MaxRSSI = scan.RSSI
			}
			if scan.RSSI < idx.MinRSSI {
				idx.MinRSSI = scan.RSSI
			}
		}
	}

	return idx, nil
}
