// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package evidence

import "errors"

// Sentinel errors for evidence operations.
var (
	// ErrIncompatibleEvidence is returned when a finding contradicts the
	// finding already recorded for the same variable, or when the evidence
	// has zero probability under a deterministic potential.
	ErrIncompatibleEvidence = errors.New("incompatible evidence")

	// ErrInvalidFinding is returned when a finding cannot be built for a
	// variable (nil variable, numeric value on a finite-states variable).
	ErrInvalidFinding = errors.New("invalid finding")
)
