//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locatorapp

import "net/http"

const (
	apiBase = "/api/v1"

	datasetsRoute     = apiBase + "/datasets"
	datasetRoute      = apiBase + "/datasets/{id}"
	frequenciesRoute  = apiBase + "/datasets/{id}/frequencies"
	averagesRoute     = apiBase + "/datasets/{id}/averages"
	pathsRoute        = apiBase + "/datasets/{id}/paths"
	pathChartRoute    = apiBase + "/datasets/{id}/paths/{device}/chart"
	measurementsRoute = apiBase + "/datasets/{id}/measurements"
)

func (app *LocatorApp) addRoutes() {
	app.addRoute(datasetsRoute, http.MethodPost, app.uploadDataset)
	app.addRoute(datasetsRoute, http.MethodGet, app.listDatasets)
	app.addRoute(datasetRoute, http.MethodGet, app.getDataset)
	app.addRoute(frequenciesRoute, http.MethodGet, app.getFrequencies)
	app.addRoute(averagesRoute, http.MethodGet, app.getAverages)
	app.addRoute(pathsRoute, http.MethodGet, app.getPaths)
	app.addRoute(pathChartRoute, http.MethodGet, app.getPathChart)
	app.addRoute(measurementsRoute, http.MethodGet, app.getMeasurements)
}

func (app *LocatorApp) addRoute(path, method string, f http.HandlerFunc) {
	app.router.HandleFunc(path, f).Methods(method)
}
