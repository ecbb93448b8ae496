// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package telemetry bootstraps OpenTelemetry tracing and metrics for the
// pgm command.
//
// # Philosophy
//
// OpenTelemetry is the abstraction layer. Library packages use otel.Tracer
// and otel.Meter directly; this package only decides where spans and
// measurements go.
//
// # Exporters
//
// Traces: "stdout", "otlp" or "none". Metrics: "stdout", "prometheus" or
// "none". The Prometheus exporter registers on a private registry, which
// can be scraped through MetricsHandler or dumped once with
// WriteMetricsFile. A short-lived CLI run usually wants the file.
//
// # Usage
//
//	shutdown, err := telemetry.Init(ctx, telemetry.DefaultConfig())
//	if err != nil {
//	    return fmt.Errorf("init telemetry: %w", err)
//	}
//	defer shutdown(context.Background())
//
// # Environment Variables
//
//   - OTEL_TRACES_EXPORTER: stdout, otlp or none (default: none)
//   - OTEL_METRICS_EXPORTER: stdout, prometheus or none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint (default: localhost:4317)
//   - PGM_ENV: environment name (default: development)
//
// # Thread Safety
//
// Init is called once at startup. Everything else is safe for concurrent
// use.
package telemetry
