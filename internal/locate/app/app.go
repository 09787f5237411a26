//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

// Package locatorapp wires the scan-analysis pipeline into a small HTTP
// service: upload scan logs, persist them, and query bucketed aggregates
// and estimated device trajectories.
package locatorapp

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/edgexfoundry/go-mod-core-contracts/v2/clients/logger"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"bletrack/ble-rssi-locator/internal/locate"
)

const (
	serviceKey = "ble-rssi-locator"

	shutdownTimeout = 5 * time.Second
)

// LocatorApp owns the service's long-lived state: configuration, the
// dataset store, and the HTTP router.
type LocatorApp struct {
	lc     logger.LoggingClient
	config locate.ServiceConfig
	store  *Store
	router *mux.Router
	server *http.Server
}

func NewLocatorApp() *LocatorApp {
	return &LocatorApp{}
}

// Initialize loads the configuration, opens the dataset store and builds
// the route table. It must be called before RunUntilCancelled.
func (app *LocatorApp) Initialize(configPath string) error {
	cfg, err := locate.LoadServiceConfig(configPath)
	if err != nil {
		return errors.Wrap(err, "loading service config")
	}
	app.config = cfg

	logLevel := cfg.ApplicationSettings.LogLevel
	if logLevel == "" {
		logLevel = "INFO"
	}
	app.lc = logger.NewClient(serviceKey, logLevel)
	app.lc.Info("Starting.")

	app.store, err = NewStore(cfg.ApplicationSettings.DatabasePath)
	if err != nil {
		return errors.Wrap(err, "opening dataset store")
	}

	app.router = mux.NewRouter()
	app.addRoutes()

	app.server = &http.Server{
		Addr: fmt.Sprintf("%s:%d",
			cfg.ApplicationSettings.ServiceHost, cfg.ApplicationSettings.ServicePort),
		Handler:      app.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return nil
}

// RunUntilCancelled serves HTTP until SIGINT or SIGTERM, then shuts the
// server down cleanly and closes the store.
func (app *LocatorApp) RunUntilCancelled() error {
	errCh := make(chan error, 1)
	go func() {
		app.lc.Info("Listening.", "address", app.server.Addr)
		errCh <- app.server.ListenAndServe()
	}()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case s := <-signals:
		app.lc.Info(fmt.Sprintf("Received '%s' signal from OS.", s.String()))
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "http server failed")
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := app.server.Shutdown(ctx); err != nil {
		app.lc.Error("Server shutdown failed.", "error", err.Error())
	}

	if err := app.store.Close(); err != nil {
		app.lc.Error("Failed to close dataset store.", "error", err.Error())
	}

	app.lc.Info("Exiting.")
	return nil
}
