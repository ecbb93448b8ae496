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

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// ParseFinding builds a finding for v from its text form.
//
// Description:
//
//	A finite-states variable takes a state name. A discretized variable
//	takes a state name or a number, which selects the subinterval holding
//	it. A numeric variable takes a number.
//
// Errors:
//
//	ErrInvalidFinding - value is empty, or neither a state nor a number.
//	variable.ErrInvalidState - the state or number is outside v's domain.
func ParseFinding(v *variable.Variable, value string) (Finding, error) {
	if v == nil {
		return Finding{}, fmt.Errorf("%w: nil variable", ErrInvalidFinding)
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return Finding{}, fmt.Errorf("%w: empty value for %s", ErrInvalidFinding, v.Name())
	}

	switch v.Type() {
	case variable.FiniteStates:
		return NewStateNameFinding(v, value)
	case variable.Discretized:
		if _, err := v.StateIndex(value); err == nil {
			return NewStateNameFinding(v, value)
		}
	}

	x, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return Finding{}, fmt.Errorf("%w: %q is neither a state of %s nor a number",
			ErrInvalidFinding, value, v.Name())
	}
	return NewNumericFinding(v, x)
}
