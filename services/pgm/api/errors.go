// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package api

import (
	"errors"
	"net/http"

	"github.com/AleutianAI/AleutianPGM/services/pgm/catalog"
	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/network"
	"github.com/AleutianAI/AleutianPGM/services/pgm/operations"
	"github.com/AleutianAI/AleutianPGM/services/pgm/potential"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// statusFor maps an operation error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrUnknownNetwork):
		return http.StatusNotFound
	case errors.Is(err, network.ErrNodeNotFound),
		errors.Is(err, evidence.ErrInvalidFinding),
		errors.Is(err, variable.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, evidence.ErrIncompatibleEvidence),
		errors.Is(err, operations.ErrCyclicNetwork),
		errors.Is(err, potential.ErrNonProjectable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, potential.ErrOutOfResources):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}
