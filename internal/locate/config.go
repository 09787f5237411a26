//
// Copyright (C) 2021 Intel Corporation
//
// SPDX-License-Identifier: Apache-2.0

package locate

import (
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// ApplicationSettings holds the scalar service settings.
type ApplicationSettings struct {
	ServiceHost string
	ServicePort int
	LogLevel    string

	// WindowSizeSeconds and StepSizeSeconds define the default bucket
	// sequence used when a request does not override them.
	WindowSizeSeconds float64
	StepSizeSeconds   float64

	// FastScanDivisor normalizes counts from the FastNodes set.
	FastScanDivisor float64

	DatabasePath string
}

// ServiceConfig is the full deployment configuration, loaded from a TOML
// file. NodeLocations must cover every node that will ever appear in a
// localized dataset; a miss at localization time is a hard error.
type ServiceConfig struct {
	ApplicationSettings ApplicationSettings
	// FastNodes lists receiver nodes known to scan faster than the rest of
	// the deployment (their counts get divided by FastScanDivisor).
	FastNodes     []string
	NodeLocations map[string]Point
}

// LoadServiceConfig reads and validates a ServiceConfig from a TOML file.
func LoadServiceConfig(path string) (ServiceConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ServiceConfig{}, errors.Wrap(err, "reading config file")
	}

	var cfg ServiceConfig
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return ServiceConfig{}, errors.Wrap(err, "parsing config file")
	}
	if err := cfg.Validate(); err != nil {
		return ServiceConfig{}, err
	}
	return cfg, nil
}

// Validate checks the settings that would otherwise only fail deep inside
// a request.
func (cfg ServiceConfig) Validate() error {
	as := cfg.ApplicationSettings
	if as.WindowSizeSeconds <= 0 {
		return errors.Errorf("WindowSizeSeconds must be positive, got %v", as.WindowSizeSeconds)
	}
	if as.StepSizeSeconds <= 0 {
		return errors.Errorf("StepSizeSeconds must be positive, got %v", as.StepSizeSeconds)
	}
	if as.FastScanDivisor < 0 {
		return errors.Errorf("FastScanDivisor must not be negative, got %v", as.FastScanDivisor)
	}
	if as.ServicePort <= 0 || as.ServicePort > 65535 {
		return errors.Errorf("ServicePort out of range: %d", as.ServicePort)
	}
	if as.DatabasePath == "" {
		return errors.New("DatabasePath must be set")
	}
	for _, node := range cfg.FastNodes {
		if node == "" {
			return errors.New("FastNodes must not contain an empty address")
		}
	}
	return nil
}

// FastNodeSet builds the aggregator's fast-node set from the configured
// addresses and divisor.
func (cfg ServiceConfig) FastNodeSet() FastNodeSet {
	return NewFastNodeSet(cfg.FastNodes, cfg.ApplicationSettings.FastScanDivisor)
}
