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

import "sync"

var zeroProbability = sync.OnceValue(func() *TablePotential {
	t := NewConstant(0, RoleJointProbability)
	t.Freeze()
	return t
})

// ZeroProbability returns the shared constant table of value 0. It is what
// projection returns when the evidence is impossible. The table is frozen;
// any mutation panics.
func ZeroProbability() *TablePotential { return zeroProbability() }

// IsZeroProbability reports whether t is the ZeroProbability sentinel.
func IsZeroProbability(t *TablePotential) bool { return t == zeroProbability() }
