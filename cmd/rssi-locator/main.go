//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"flag"
	"fmt"
	"os"

	locatorapp "bletrack/ble-rssi-locator/internal/locate/app"
)

func main() {
	configPath := flag.String("config", "res/configuration.toml", "path to the service configuration file")
	flag.Parse()

	app := locatorapp.NewLocatorApp()
	if err := app.Initialize(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		os.Exit(1)
	}

	if err := app.RunUntilCancelled(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
