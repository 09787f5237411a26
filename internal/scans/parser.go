//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package scans

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// logRecord mirrors one line of a scan log. Fields are pointers so that a
// key missing from the JSON can be told apart from a zero value.
type logRecord struct {
	Node    *string  `json:"node"`
	Address *string  `json:"address"`
	Time    *float64 `json:"time"`
	RSSI    *int     `json:"rssi"`
}

// ParseScanLog reads a JSON-lines scan log, one sighting per line:
//
//	{"node":"<node address>","address":"<device address>","time":12.3,"rssi":-60}
//
// Blank lines are skipped. A record missing any of the four fields fails
// the whole parse with a MalformedRecordError; partial datasets are never
// returned. The dataset's time range is the min/max time seen, or (0, 0)
// for an empty log.
func ParseScanLog(r io.Reader) (Dataset, error) {
	ds := Dataset{ScansByNode: make(map[string][]Scan)}

	var sawAny bool
	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec logRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return Dataset{}, errors.Wrapf(err, "scan log line %d", lineNum)
		}
		if err := rec.validate(); err != nil {
			return Dataset{}, errors.Wrapf(err, "scan log line %d", lineNum)
		}

		ds.ScansByNode[*rec.Node] = append(ds.ScansByNode[*rec.Node], Scan{
			DeviceAddress: *rec.Address,
			Time:          *rec.Time,
			RSSI:          *rec.RSSI,
		})

		if !sawAny || *rec.Time < ds.StartTimestamp {
			ds.StartTimestamp = *rec.Time
		}
		if !sawAny || *rec.Time > ds.EndTimestamp {
			ds.EndTimestamp = *rec.Time
		}
		sawAny = true
	}
	if err := scanner.Err(); err != nil {
		return Dataset{}, errors.Wrap(err, "reading scan log")
	}

	return ds, nil
}

func (rec logRecord) validate() error {
	switch {
	case rec.Node == nil || *rec.Node == "":
		return MalformedRecordError{Field: "node"}
	case rec.Address == nil || *rec.Address == "":
		return MalformedRecordError{Field: "address"}
	case rec.Time == nil:
		return MalformedRecordError{Field: "time"}
	case rec.RSSI == nil:
		return MalformedRecordError{Field: "rssi"}
	}
	return nil
}
