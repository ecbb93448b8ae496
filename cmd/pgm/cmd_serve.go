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
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AleutianAI/AleutianPGM/cmd/pgm/config"
	"github.com/AleutianAI/AleutianPGM/services/pgm/api"
)

func (a *app) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog and the operations over HTTP",
		Long: `serve exposes the example networks and the structural operations as a
JSON API until interrupted. With server.watch_config set, edits to the
config file change the log level without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			scfg := a.cfg.Server
			if addr != "" {
				scfg.Addr = addr
			}
			if !a.verbose {
				gin.SetMode(gin.ReleaseMode)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.New(api.Config{
				ServiceName:     "pgm",
				RateLimit:       scfg.RateLimit,
				Burst:           scfg.Burst,
				ShutdownTimeout: scfg.ShutdownTimeout,
			}, a.logger, a.options()...)

			ln, err := net.Listen("tcp", scfg.Addr)
			if err != nil {
				return a.fail(fmt.Errorf("listening on %s: %w", scfg.Addr, err))
			}

			g, ctx := errgroup.WithContext(ctx)
			if scfg.WatchConfig {
				w, err := config.NewWatcher(a.configFile, a.logger, a.reload)
				if err != nil {
					ln.Close()
					return a.fail(err)
				}
				g.Go(func() error { return w.Run(ctx) })
			}
			a.printer.Success(fmt.Sprintf("serving on http://%s", ln.Addr()))
			g.Go(func() error { return srv.Serve(ctx, ln) })

			if err := g.Wait(); err != nil {
				return a.fail(err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default server.addr)")
	return cmd
}

// reload applies the parts of a changed config that a running server can
// take without a restart.
func (a *app) reload(cfg config.PGMConfig) {
	if a.verbose {
		return
	}
	if level := cfg.LoggingLevel(); level != a.logger.Level() {
		a.logger.SetLevel(level)
		a.logger.Info("log level changed", "level", level.String())
	}
}
