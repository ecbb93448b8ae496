// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/AleutianPGM/cmd/pgm/config"
	"github.com/AleutianAI/AleutianPGM/pkg/logging"
	"github.com/AleutianAI/AleutianPGM/pkg/telemetry"
	"github.com/AleutianAI/AleutianPGM/pkg/ux"
	"github.com/AleutianAI/AleutianPGM/services/pgm/operations"
)

const tracerName = "aleutian.pgm.cli"

// app holds what every subcommand needs once the root pre-run is done.
type app struct {
	configPath  string
	configFile  string
	personality string
	verbose     bool

	cfg      config.PGMConfig
	logger   *logging.Logger
	printer  *ux.Printer
	shutdown func(context.Context) error
	ctx      context.Context
	span     trace.Span
}

// run executes one pgm invocation and releases its resources.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root, a := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.ExecuteContext(ctx)
	if cerr := a.close(ctx, err); cerr != nil && err == nil {
		err = cerr
	}
	return err
}

// newRootCmd builds the command tree. Every run gets a fresh tree.
func newRootCmd() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:   "pgm",
		Short: "Inspect and prepare probabilistic graphical models",
		Long: `pgm builds example Bayesian networks, influence diagrams and Markov
networks and runs the structural operations that prepare them for
inference: topological sorting, pruning, evidence extension, projection
and variable conversion. "pgm serve" offers the same over HTTP.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default ~/.pgm/pgm.yaml)")
	root.PersistentFlags().StringVar(&a.personality, "personality", "", "output style: standard, minimal or machine")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		a.catalogCmd(),
		a.infoCmd(),
		a.sortCmd(),
		a.pruneCmd(),
		a.extendCmd(),
		a.projectCmd(),
		a.convertCmd(),
		a.serveCmd(),
	)
	return root, a
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, created, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.configFile = a.configPath
	if a.configFile == "" {
		if a.configFile, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	level := cfg.LoggingLevel()
	if a.verbose {
		level = logging.LevelDebug
	}
	a.logger = logging.New(logging.Config{
		Level:   level,
		LogDir:  cfg.Logging.LogDir,
		Service: "pgm",
		JSON:    cfg.Logging.JSON,
		Output:  cmd.ErrOrStderr(),
	})
	if created {
		a.logger.Info("first run, created default config")
	}

	if a.personality != "" {
		a.printer = ux.NewPrinter(cmd.OutOrStdout(), ux.ParsePersonalityLevel(a.personality))
	} else {
		a.printer = ux.NewPrinter(cmd.OutOrStdout(), ux.DetectPersonality(cmd.OutOrStdout()))
	}

	tcfg := cfg.TelemetryConfig()
	tcfg.Output = cmd.ErrOrStderr()
	shutdown, err := telemetry.Init(cmd.Context(), tcfg)
	if err != nil {
		return err
	}
	a.shutdown = shutdown

	ctx, span := telemetry.StartSpan(cmd.Context(), tracerName, "pgm."+cmd.Name(),
		trace.WithAttributes(attribute.StringSlice("pgm.args", args)))
	a.ctx, a.span = ctx, span
	cmd.SetContext(ctx)
	return nil
}

// close ends the command span, dumps metrics, flushes telemetry and
// closes the logger. Parts that setup never reached are skipped. cmdErr is
// the outcome of the command; failures were already recorded by fail.
func (a *app) close(ctx context.Context, cmdErr error) error {
	var errs []error
	if a.span != nil {
		if cmdErr == nil {
			telemetry.SetSpanOK(a.span)
		}
		a.span.End()
	}
	if path := a.cfg.Telemetry.MetricsFile; path != "" && a.shutdown != nil {
		if err := telemetry.WriteMetricsFile(path); err != nil {
			errs = append(errs, err)
		}
	}
	if a.shutdown != nil {
		if err := a.shutdown(context.WithoutCancel(ctx)); err != nil {
			errs = append(errs, err)
		}
	}
	if a.logger != nil {
		if err := a.logger.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("closing pgm: %w", errors.Join(errs...))
	}
	return nil
}

// fail records err on the command span and returns it.
func (a *app) fail(err error) error {
	telemetry.RecordError(a.span, err)
	a.logger.Error("command failed", "error", err, "trace_id", telemetry.TraceID(a.ctx))
	return err
}

func (a *app) options() []operations.Option {
	opts := []operations.Option{
		operations.WithLogger(a.logger),
		operations.WithWorkers(a.cfg.Projection.Workers),
	}
	if a.cfg.Projection.DropUncertainty {
		opts = append(opts, operations.WithDropUncertainty())
	}
	return opts
}
