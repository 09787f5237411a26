//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locatorapp

import (
	"io"
	"math"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"bletrack/ble-rssi-locator/internal/locate"
)

// renderPathChart writes an HTML scatter plot of one device's estimated
// trajectory over the fixed node positions. Buckets without an estimate
// (NaN) are simply not plotted.
func renderPathChart(w io.Writer, device string, path locate.Path, locations map[string]locate.Point) error {
	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Estimated path",
			Subtitle: "device " + device,
		}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "x"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "y"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	nodeData := make([]opts.ScatterData, 0, len(locations))
	for nodeAddr, loc := range locations {
		nodeData = append(nodeData, opts.ScatterData{
			Name:       nodeAddr,
			Value:      []interface{}{loc.X, loc.Y},
			Symbol:     "diamond",
			SymbolSize: 14,
		})
	}

	pathData := make([]opts.ScatterData, 0, len(path.X))
	for i := range path.X {
		if math.IsNaN(path.X[i]) || math.IsNaN(path.Y[i]) {
			continue
		}
		pathData = append(pathData, opts.ScatterData{
			Value:      []interface{}{path.X[i], path.Y[i]},
			SymbolSize: 6,
		})
	}

	scatter.AddSeries("nodes", nodeData)
	scatter.AddSeries("path", pathData)

	return scatter.Render(w)
}
