// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package variable

import (
	"fmt"
	"math"
	"strings"
)

// PartitionedInterval splits a real domain into consecutive subintervals.
//
// limits holds the breakpoints in non-decreasing order. belongsToLeftSide
// has one flag per limit and tells which side a value equal to that limit
// falls on:
//
//   - For an inner limit, true puts the value in the subinterval on the left.
//   - For the first limit, true means the domain is open on the left.
//   - For the last limit, true means the domain is closed on the right.
//
// A partition with n limits has n-1 subintervals.
type PartitionedInterval struct {
	limits            []float64
	belongsToLeftSide []bool
}

// NewPartitionedInterval validates and builds a partition.
//
// Errors:
//
//	ErrMalformedConfiguration - fewer than two limits, len(limits) differs
//	from len(belongsToLeftSide), a NaN limit, or decreasing limits.
func NewPartitionedInterval(limits []float64, belongsToLeftSide []bool) (*PartitionedInterval, error) {
	if len(limits) != len(belongsToLeftSide) {
		return nil, fmt.Errorf("%w: %d limits but %d side flags",
			ErrMalformedConfiguration, len(limits), len(belongsToLeftSide))
	}
	if len(limits) < 2 {
		return nil, fmt.Errorf("%w: a partition needs at least two limits", ErrMalformedConfiguration)
	}
	for i, l := range limits {
		if math.IsNaN(l) {
			return nil, fmt.Errorf("%w: limit %d is NaN", ErrMalformedConfiguration, i)
		}
		if i > 0 && l < limits[i-1] {
			return nil, fmt.Errorf("%w: limit %d (%g) is lower than limit %d (%g)",
				ErrMalformedConfiguration, i, l, i-1, limits[i-1])
		}
	}

	p := &PartitionedInterval{
		limits:            make([]float64, len(limits)),
		belongsToLeftSide: make([]bool, len(belongsToLeftSide)),
	}
	copy(p.limits, limits)
	copy(p.belongsToLeftSide, belongsToLeftSide)
	return p, nil
}

// Limits returns a copy of the breakpoints.
func (p *PartitionedInterval) Limits() []float64 {
	out := make([]float64, len(p.limits))
	copy(out, p.limits)
	return out
}

// BelongsToLeftSide returns a copy of the closure flags.
func (p *PartitionedInterval) BelongsToLeftSide() []bool {
	out := make([]bool, len(p.belongsToLeftSide))
	copy(out, p.belongsToLeftSide)
	return out
}

// NumSubintervals returns len(limits)-1.
func (p *PartitionedInterval) NumSubintervals() int {
	return len(p.limits) - 1
}

// Min returns the lowest limit.
func (p *PartitionedInterval) Min() float64 { return p.limits[0] }

// Max returns the highest limit.
func (p *PartitionedInterval) Max() float64 { return p.limits[len(p.limits)-1] }

// Contains reports whether value lies in the partitioned domain.
func (p *PartitionedInterval) Contains(value float64) bool {
	_, err := p.IndexOf(value)
	return err == nil
}

// IndexOf returns the index of the subinterval that contains value.
//
// Description:
//
//	Walks the inner limits from left to right. A value strictly between two
//	limits belongs to that subinterval; a value equal to an inner limit is
//	resolved with belongsToLeftSide.
//
// Errors:
//
//	ErrInvalidState - value is NaN, outside [Min, Max], or on an open outer
//	boundary.
func (p *PartitionedInterval) IndexOf(value float64) (int, error) {
	last := len(p.limits) - 1
	if math.IsNaN(value) || value < p.limits[0] || value > p.limits[last] {
		return -1, fmt.Errorf("%w: %g is outside %s", ErrInvalidState, value, p)
	}
	if value == p.limits[0] && p.belongsToLeftSide[0] {
		return -1, fmt.Errorf("%w: %g is on the open lower bound of %s", ErrInvalidState, value, p)
	}
	if value == p.limits[last] && !p.belongsToLeftSide[last] {
		return -1, fmt.Errorf("%w: %g is on the open upper bound of %s", ErrInvalidState, value, p)
	}

	for i := 1; i < last; i++ {
		if value < p.limits[i] {
			return i - 1, nil
		}
		if value == p.limits[i] {
			if p.belongsToLeftSide[i] {
				return i - 1, nil
			}
			return i, nil
		}
	}
	return last - 1, nil
}

// Equal reports whether both partitions have identical limits and flags.
func (p *PartitionedInterval) Equal(other *PartitionedInterval) bool {
	if p == nil || other == nil {
		return p == other
	}
	if len(p.limits) != len(other.limits) {
		return false
	}
	for i := range p.limits {
		if p.limits[i] != other.limits[i] || p.belongsToLeftSide[i] != other.belongsToLeftSide[i] {
			return false
		}
	}
	return true
}

// String renders the partition in interval notation, e.g. "(0, 10] (10, 20]".
func (p *PartitionedInterval) String() string {
	var sb strings.Builder
	last := len(p.limits) - 1
	for i := 0; i < last; i++ {
		if i > 0 {
			sb.WriteByte(' ')
		}
		// A subinterval is closed on the left when the left limit does not
		// belong to the previous subinterval.
		if p.belongsToLeftSide[i] {
			sb.WriteByte('(')
		} else {
			sb.WriteByte('[')
		}
		fmt.Fprintf(&sb, "%g, %g", p.limits[i], p.limits[i+1])
		if p.belongsToLeftSide[i+1] {
			sb.WriteByte(']')
		} else {
			sb.WriteByte(')')
		}
	}
	return sb.String()
}
