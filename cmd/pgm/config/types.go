// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AleutianAI/AleutianPGM/pkg/logging"
	"github.com/AleutianAI/AleutianPGM/pkg/telemetry"
)

// PGMConfig is the content of pgm.yaml.
type PGMConfig struct {
	// Logging: console and file logging
	Logging LoggingConfig `yaml:"logging"`

	// Telemetry: where spans and metrics go
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Projection: defaults for potential projection
	Projection ProjectionConfig `yaml:"projection"`

	// Server: the HTTP API of "pgm serve"
	Server ServerConfig `yaml:"server"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" validate:"required,loglevel"` // debug, info, warn, error
	JSON   bool   `yaml:"json"`
	LogDir string `yaml:"log_dir,omitempty"` // e.g. ~/.pgm/logs
}

type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"required,oneof=none stdout otlp"`
	MetricExporter string `yaml:"metric_exporter" validate:"required,oneof=none stdout prometheus"`
	OTLPEndpoint   string `yaml:"otlp_endpoint,omitempty" validate:"required_if=TraceExporter otlp"`

	// MetricsFile receives the Prometheus metrics when a command finishes.
	MetricsFile string `yaml:"metrics_file,omitempty" validate:"excluded_unless=MetricExporter prometheus"`
}

type ProjectionConfig struct {
	// Workers bounds concurrent projection; 0 means one per CPU.
	Workers         int  `yaml:"workers" validate:"gte=0,lte=1024"`
	DropUncertainty bool `yaml:"drop_uncertainty"`
}

type ServerConfig struct {
	Addr string `yaml:"addr" validate:"required,hostname_port"`

	// RateLimit is requests per second on /v1; 0 disables limiting.
	RateLimit       float64       `yaml:"rate_limit" validate:"gte=0"`
	Burst           int           `yaml:"burst" validate:"gte=0"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gte=0"`

	// WatchConfig reloads the log level when this file changes.
	WatchConfig bool `yaml:"watch_config"`
}

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() PGMConfig {
	return PGMConfig{
		Logging: LoggingConfig{
			Level: "info",
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  telemetry.ExporterNone,
			MetricExporter: telemetry.ExporterNone,
		},
		Projection: ProjectionConfig{
			Workers: 0,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8650",
			RateLimit:       50,
			Burst:           100,
			ShutdownTimeout: 10 * time.Second,
			WatchConfig:     true,
		},
	}
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("loglevel", validateLogLevel)
}

func validateLogLevel(fl validator.FieldLevel) bool {
	_, err := logging.ParseLevel(fl.Field().String())
	return err == nil
}

// Validate checks the field constraints.
func (c PGMConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoggingLevel returns the parsed log level. Call after Validate.
func (c PGMConfig) LoggingLevel() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return logging.LevelInfo
	}
	return level
}

// TelemetryConfig converts the telemetry section for telemetry.Init.
func (c PGMConfig) TelemetryConfig() telemetry.Config {
	cfg := telemetry.DefaultConfig()
	cfg.TraceExporter = c.Telemetry.TraceExporter
	cfg.MetricExporter = c.Telemetry.MetricExporter
	if c.Telemetry.OTLPEndpoint != "" {
		cfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	}
	return cfg
}
