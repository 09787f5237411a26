//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locatorapp

import (
	"database/sql"
	_ "embed"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"bletrack/ble-rssi-locator/internal/scans"
)

//go:embed schema.sql
var schemaSQL string

// ErrDatasetNotFound is returned when a dataset id has no stored dataset.
var ErrDatasetNotFound = errors.New("dataset not found")

// Store persists uploaded scan datasets in sqlite so analysis requests can
// be re-run without re-uploading the logs.
type Store struct {
	*sql.DB
}

// DatasetSummary describes a stored dataset without its scans.
type DatasetSummary struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	StartTimestamp float64 `json:"start_timestamp"`
	EndTimestamp   float64 `json:"end_timestamp"`
	ScanCount      int     `json:"scan_count"`
	CreatedUnix    int64   `json:"created_unix"`
}

// NewStore opens (creating if needed) the sqlite database at path and
// applies the schema. The parent directory is created as well; sqlite
// cannot create the file inside a directory that does not exist.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrap(err, "creating database directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dataset database")
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return nil, errors.Wrap(err, "applying dataset schema")
	}
	return &Store{db}, nil
}

// AddDataset stores a parsed dataset under a fresh id and returns the id.
func (s *Store) AddDataset(name string, ds scans.Dataset) (string, error) {
	id := uuid.NewString()

	tx, err := s.Begin()
	if err != nil {
		return "", errors.Wrap(err, "beginning dataset insert")
	}
	defer tx.Rollback() // no-op after a successful commit

	var scanCount int
	for _, nodeScans := range ds.ScansByNode {
		scanCount += len(nodeScans)
	}

	_, err = tx.Exec(
		`INSERT INTO datasets (id, name, start_timestamp, end_timestamp, scan_count, created_unix)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, name, ds.StartTimestamp, ds.EndTimestamp, scanCount, time.Now().Unix())
	if err != nil {
		return "", errors.Wrap(err, "inserting dataset")
	}

	stmt, err := tx.Prepare(
		`INSERT INTO dataset_scans (dataset_id, node_address, device_address, scan_time, rssi, seq)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", errors.Wrap(err, "preparing scan insert")
	}
	defer stmt.Close()

	for nodeAddr, nodeScans := range ds.ScansByNode {
		for seq, scan := range nodeScans {
			if _, err := stmt.Exec(id, nodeAddr, scan.DeviceAddress, scan.Time, scan.RSSI, seq); err != nil {
				return "", errors.Wrap(err, "inserting scan")
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return "", errors.Wrap(err, "committing dataset insert")
	}
	return id, nil
}

// Datasets lists the stored datasets, newest first.
func (s *Store) Datasets() ([]DatasetSummary, error) {
	rows, err := s.Query(
		`SELECT id, name, start_timestamp, end_timestamp, scan_count, created_unix
		 FROM datasets ORDER BY created_unix DESC, id`)
	if err != nil {
		return nil, errors.Wrap(err, "listing datasets")
	}
	defer rows.Close()

	var summaries []DatasetSummary
	for rows.Next() {
		var d DatasetSummary
		if err := rows.Scan(&d.ID, &d.Name, &d.StartTimestamp, &d.EndTimestamp, &d.ScanCount, &d.CreatedUnix); err != nil {
			return nil, errors.Wrap(err, "scanning dataset row")
		}
		summaries = append(summaries, d)
	}
	return summaries, rows.Err()
}

// Dataset loads a stored dataset by id, rebuilding the per-node scan lists
// in their original order.
func (s *Store) Dataset(id string) (scans.Dataset, error) {
	var ds scans.Dataset
	err := s.QueryRow(
		`SELECT start_timestamp, end_timestamp FROM datasets WHERE id = ?`, id).
		Scan(&ds.StartTimestamp, &ds.EndTimestamp)
	if err == sql.ErrNoRows {
		return scans.Dataset{}, ErrDatasetNotFound
	}
	if err != nil {
		return scans.Dataset{}, errors.Wrap(err, "loading dataset")
	}

	rows, err := s.Query(
		`SELECT node_address, device_address, scan_time, rssi
		 FROM dataset_scans WHERE dataset_id = ? ORDER BY node_address, seq`, id)
	if err != nil {
		return scans.Dataset{}, errors.Wrap(err, "loading dataset scans")
	}
	defer rows.Close()

	ds.ScansByNode = make(map[string][]scans.Scan)
	for rows.Next() {
		var nodeAddr string
		var scan scans.Scan
		if err := rows.Scan(&nodeAddr, &scan.DeviceAddress, &scan.Time, &scan.RSSI); err != nil {
			return scans.Dataset{}, errors.Wrap(err, "scanning scan row")
		}
		ds.ScansByNode[nodeAddr] = append(ds.ScansByNode[nodeAddr], scan)
	}
	return ds, rows.Err()
}
