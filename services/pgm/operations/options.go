// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package operations

import (
	"runtime"

	"github.com/AleutianAI/AleutianPGM/pkg/logging"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
)

type config struct {
	logger          *logging.Logger
	workers         int
	dropUncertainty bool
}

// Option configures an operation.
type Option func(*config)

// WithLogger sets the logger. Default: logging.Nop().
func WithLogger(l *logging.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithWorkers bounds the goroutines used by ProjectPotentials. Values below
// one select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithDropUncertainty skips uncertain-value arrays during projection.
func WithDropUncertainty() Option {
	return func(c *config) {
		c.dropUncertainty = true
	}
}

func newConfig(opts []Option) config {
	c := config{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&c)
	}
	if c.workers < 1 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	return c
}

func (c config) projectOptions() potential.ProjectOptions {
	return potential.ProjectOptions{DropUncertainty: c.dropUncertainty}
}
