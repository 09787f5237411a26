//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locatorapp

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const maxBodyBytes = 10 * 1024 * 1024

func (app *LocatorApp) writeJSONReply(w http.ResponseWriter, payload interface{}) {
	app.writeJSONStatusReply(w, http.StatusOK, payload)
}

// writeJSONStatusReply owns the reply headers: Content-Type must be set
// before the status is written, never after.
func (app *LocatorApp) writeJSONStatusReply(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		app.lc.Error("Failed to write reply.", "error", err.Error())
	}
}

func (app *LocatorApp) writeErrorReply(w http.ResponseWriter, status int, msg string) {
	app.writeJSONStatusReply(w, status, map[string]string{"error": msg})
}

// floatQueryParam parses an optional float query parameter, falling back
// to def when the parameter is absent. The bool result reports whether the
// value (present or defaulted) is usable.
func (app *LocatorApp) floatQueryParam(w http.ResponseWriter, r *http.Request, name string, def float64) (float64, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		app.writeErrorReply(w, http.StatusBadRequest, "invalid "+name+" parameter")
		return 0, false
	}
	return v, true
}
