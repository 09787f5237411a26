//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locatorapp

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"bletrack/ble-rssi-locator/internal/locate"
	"bletrack/ble-rssi-locator/internal/scans"
)

// uploadDataset accepts a JSON-lines scan log as the request body, parses
// and stores it, and replies with the new dataset's id. A malformed record
// rejects the whole upload.
func (app *LocatorApp) uploadDataset(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer body.Close()

	ds, err := scans.ParseScanLog(body)
	if err != nil {
		app.lc.Error("Failed to parse uploaded scan log.", "error", err.Error())
		app.writeErrorReply(w, http.StatusBadRequest, err.Error())
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = "dataset"
	}

	id, err := app.store.AddDataset(name, ds)
	if err != nil {
		app.lc.Error("Failed to store dataset.", "error", err.Error())
		app.writeErrorReply(w, http.StatusInternalServerError, "failed to store dataset")
		return
	}

	app.lc.Info("Stored dataset.", "id", id, "name", name, "nodes", len(ds.ScansByNode))
	app.writeJSONStatusReply(w, http.StatusCreated, map[string]string{"id": id})
}

func (app *LocatorApp) listDatasets(w http.ResponseWriter, _ *http.Request) {
	summaries, err := app.store.Datasets()
	if err != nil {
		app.lc.Error("Failed to list datasets.", "error", err.Error())
		app.writeErrorReply(w, http.StatusInternalServerError, "failed to list datasets")
		return
	}
	app.writeJSONReply(w, summaries)
}

func (app *LocatorApp) getDataset(w http.ResponseWriter, r *http.Request) {
	ds, ok := app.loadDataset(w, r)
	if !ok {
		return
	}

	idx, err := scans.Index(ds)
	if err != nil {
		app.writeErrorReply(w, http.StatusInternalServerError, err.Error())
		return
	}
	app.writeJSONReply(w, idx)
}

// bucketedInput is everything the aggregate handlers need: the indexed
// dataset and the bucket sequence, honoring window/step query overrides.
type bucketedInput struct {
	idx    *scans.DeviceIndex
	starts []float64
	window float64
}

func (app *LocatorApp) bucketedInput(w http.ResponseWriter, r *http.Request) (bucketedInput, bool) {
	ds, ok := app.loadDataset(w, r)
	if !ok {
		return bucketedInput{}, false
	}

	as := app.config.ApplicationSettings
	window, ok := app.floatQueryParam(w, r, "window", as.WindowSizeSeconds)
	if !ok {
		return bucketedInput{}, false
	}
	step, ok := app.floatQueryParam(w, r, "step", as.StepSizeSeconds)
	if !ok {
		return bucketedInput{}, false
	}

	starts, err := locate.Starts(ds.StartTimestamp, ds.EndTimestamp, window, step)
	if err != nil {
		app.writeErrorReply(w, http.StatusBadRequest, err.Error())
		return bucketedInput{}, false
	}

	idx, err := scans.Index(ds)
	if err != nil {
		app.writeErrorReply(w, http.StatusInternalServerError, err.Error())
		return bucketedInput{}, false
	}

	return bucketedInput{idx: idx, starts: starts, window: window}, true
}

func (app *LocatorApp) getFrequencies(w http.ResponseWriter, r *http.Request) {
	in, ok := app.bucketedInput(w, r)
	if !ok {
		return
	}

	freqs := locate.Frequencies(in.idx, in.starts, in.window, app.config.FastNodeSet())
	app.writeJSONReply(w, map[string]interface{}{
		"start_times":        in.starts,
		"num_scans_per_dev":  freqs,
		"fast_scan_adjusted": true,
	})
}

func (app *LocatorApp) getAverages(w http.ResponseWriter, r *http.Request) {
	in, ok := app.bucketedInput(w, r)
	if !ok {
		return
	}

	avgs := locate.AverageRSSI(in.idx, in.starts, in.window)
	app.writeJSONReply(w, map[string]interface{}{
		"start_times":      in.starts,
		"avg_rssi_per_dev": avgs,
	})
}

func (app *LocatorApp) getPaths(w http.ResponseWriter, r *http.Request) {
	in, ok := app.bucketedInput(w, r)
	if !ok {
		return
	}

	paths, err := app.computePaths(in)
	if err != nil {
		app.lc.Error("Failed to localize dataset.", "error", err.Error())
		app.writeErrorReply(w, http.StatusConflict, err.Error())
		return
	}

	app.writeJSONReply(w, map[string]interface{}{
		"start_times":     in.starts,
		"path_per_device": paths,
	})
}

func (app *LocatorApp) getPathChart(w http.ResponseWriter, r *http.Request) {
	in, ok := app.bucketedInput(w, r)
	if !ok {
		return
	}

	device := mux.Vars(r)["device"]
	paths, err := app.computePaths(in)
	if err != nil {
		app.lc.Error("Failed to localize dataset.", "error", err.Error())
		app.writeErrorReply(w, http.StatusConflict, err.Error())
		return
	}

	path, ok := paths[device]
	if !ok {
		app.writeErrorReply(w, http.StatusNotFound, "device not present in dataset")
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := renderPathChart(w, device, path, app.config.NodeLocations); err != nil {
		app.lc.Error("Failed to render path chart.", "error", err.Error())
	}
}

func (app *LocatorApp) computePaths(in bucketedInput) (map[string]locate.Path, error) {
	freqs := locate.Frequencies(in.idx, in.starts, in.window, app.config.FastNodeSet())
	avgs := locate.AverageRSSI(in.idx, in.starts, in.window)
	return locate.Paths(freqs, avgs, in.starts, app.config.NodeLocations)
}

func (app *LocatorApp) getMeasurements(w http.ResponseWriter, r *http.Request) {
	ds, ok := app.loadDataset(w, r)
	if !ok {
		return
	}

	var filter scans.TimeFilter
	if raw := r.URL.Query().Get("start"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			app.writeErrorReply(w, http.StatusBadRequest, "invalid start parameter")
			return
		}
		filter.Start = &v
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			app.writeErrorReply(w, http.StatusBadRequest, "invalid end parameter")
			return
		}
		filter.End = &v
	}

	app.writeJSONReply(w, scans.Regroup(filter, ds))
}

func (app *LocatorApp) loadDataset(w http.ResponseWriter, r *http.Request) (scans.Dataset, bool) {
	id := mux.Vars(r)["id"]
	ds, err := app.store.Dataset(id)
	if errors.Is(err, ErrDatasetNotFound) {
		app.writeErrorReply(w, http.StatusNotFound, "dataset not found")
		return scans.Dataset{}, false
	}
	if err != nil {
		app.lc.Error("Failed to load dataset.", "id", id, "error", err.Error())
		app.writeErrorReply(w, http.StatusInternalServerError, "failed to load dataset")
		return scans.Dataset{}, false
	}
	return ds, true
}
