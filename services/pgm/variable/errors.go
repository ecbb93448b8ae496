// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package variable provides the domain model for the quantities a
// probabilistic graphical model reasons about.
//
// A Variable is either finite-states (an ordered list of named States),
// numeric (a real value inside a domain interval), or discretized (a numeric
// domain split into subintervals, each one mapped to a State).
//
// # Identity
//
// Variables are identity-bearing: the *Variable pointer is the key used by
// evidence cases, potentials and networks. Two variables with the same name
// in different networks are different variables. Copying a variable into
// another network or shifting it in time produces a clone, never an alias.
//
// # Thread Safety
//
// A Variable is not mutated after the network that owns it has been built.
// Under that contract it can be read from multiple goroutines.
package variable

import "errors"

// Sentinel errors for variable operations.
var (
	// ErrInvalidState is returned when a state name, state index or numeric
	// value does not identify a state of the variable.
	ErrInvalidState = errors.New("invalid state")

	// ErrMalformedConfiguration is returned when a partitioned interval or a
	// state list cannot be built from the supplied arrays (mismatched
	// lengths, decreasing limits, duplicated state names).
	ErrMalformedConfiguration = errors.New("malformed configuration")
)
