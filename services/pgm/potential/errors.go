// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package potential

import (
	"errors"
	"fmt"
)

// Sentinel errors for potential operations.
var (
	// ErrNonProjectable is returned when a potential cannot be reduced to a
	// table under the given evidence: an opaque family without a table
	// projector, a super-value combinator, or a numeric variable that the
	// evidence does not fix.
	ErrNonProjectable = errors.New("potential cannot be projected to a table")

	// ErrWrongCriterion is returned when a utility potential refers to a
	// decision criterion that is unknown to the caller.
	ErrWrongCriterion = errors.New("wrong decision criterion")

	// ErrOutOfResources is returned when the table required by a set of
	// variables is larger than MaxTableSize or its size overflows int.
	ErrOutOfResources = errors.New("table too large")

	// ErrVariableNotFound is returned when a variable cannot be resolved by
	// name in a target network, or is not a variable of the potential.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrNotDiscrete is returned when a numeric variable is used to index a
	// table.
	ErrNotDiscrete = errors.New("variable is not discrete")

	// ErrInvalidConfiguration is returned when arrays do not match the
	// shape of the table (values length, state counts, coordinates).
	ErrInvalidConfiguration = errors.New("invalid table configuration")
)

// errorf wraps sentinel with a formatted detail message.
func errorf(sentinel error, format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{sentinel}, args...)...)
}
