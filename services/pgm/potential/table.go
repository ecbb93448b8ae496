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
	"fmt"
	"strconv"
	"strings"

	"github.com/AleutianAI/AleutianPGM/services/pgm/evidence"
	"github.com/AleutianAI/AleutianPGM/services/pgm/variable"
)

// MaxTableSize is the largest number of cells a table may hold.
const MaxTableSize = 1 << 28

// UncertainValue is a second-order description of one table cell, e.g. a
// Beta or Dirichlet component used by sensitivity analysis.
type UncertainValue struct {
	Function  string
	Arguments []float64
	Name      string
}

// TablePotential is a dense potential over discrete variables.
//
// Invariants:
//
//	len(values) == product of dimensions (1 when there are no variables)
//	offsets are derived from dimensions (see package doc)
//	uncertain is nil or has len(values) entries
type TablePotential struct {
	variables  []*variable.Variable
	role       Role
	criterion  *Criterion
	values     []float64
	dimensions []int
	offsets    []int
	uncertain  []*UncertainValue
	frozen     bool
}

// TableOption configures a TablePotential at construction.
type TableOption func(*tableOptions)

type tableOptions struct {
	values    []float64
	criterion *Criterion
	uncertain []*UncertainValue
}

// WithValues sets the initial cell values. The slice is copied.
func WithValues(values ...float64) TableOption {
	return func(o *tableOptions) {
		o.values = values
	}
}

// WithCriterion makes the table a utility for the given criterion.
func WithCriterion(c *Criterion) TableOption {
	return func(o *tableOptions) {
		o.criterion = c
	}
}

// WithUncertainValues attaches the uncertain-value array. The slice is copied.
func WithUncertainValues(u []*UncertainValue) TableOption {
	return func(o *tableOptions) {
		o.uncertain = u
	}
}

// NewTablePotential creates a table over vars. Cells start at zero unless
// WithValues is given.
//
// Description:
//
//	Computes dimensions and offsets from the variables' state counts. The
//	table size is checked against MaxTableSize before anything is allocated,
//	so an oversized variable set never overflows int.
//
// Errors:
//
//	ErrNotDiscrete - a variable is numeric.
//	ErrOutOfResources - the table would exceed MaxTableSize.
//	ErrInvalidConfiguration - values or uncertain have the wrong length, or a
//	variable is repeated.
func NewTablePotential(vars []*variable.Variable, role Role, opts ...TableOption) (*TablePotential, error) {
	var o tableOptions
	for _, opt := range opts {
		opt(&o)
	}

	dims, size, err := shape(vars)
	if err != nil {
		return nil, err
	}

	t := &TablePotential{
		variables:  append([]*variable.Variable(nil), vars...),
		role:       role,
		criterion:  o.criterion,
		dimensions: dims,
		offsets:    offsetsOf(dims),
	}

	if o.values != nil {
		if len(o.values) != size {
			return nil, errorf(ErrInvalidConfiguration, "%d values for a table of %d cells", len(o.values), size)
		}
		t.values = append([]float64(nil), o.values...)
	} else {
		t.values = make([]float64, size)
	}

	if o.uncertain != nil {
		if len(o.uncertain) != size {
			return nil, errorf(ErrInvalidConfiguration, "%d uncertain values for a table of %d cells", len(o.uncertain), size)
		}
		t.uncertain = append([]*UncertainValue(nil), o.uncertain...)
	}
	return t, nil
}

// NewConstant creates a table with no variables and a single value.
func NewConstant(value float64, role Role) *TablePotential {
	return &TablePotential{
		role:       role,
		values:     []float64{value},
		dimensions: []int{},
		offsets:    []int{},
	}
}

// shape validates vars and returns their cardinalities and the table size.
func shape(vars []*variable.Variable) ([]int, int, error) {
	dims := make([]int, len(vars))
	seen := make(map[*variable.Variable]bool, len(vars))
	size := 1
	for i, v := range vars {
		if v == nil {
			return nil, 0, errorf(ErrInvalidConfiguration, "nil variable at %d", i)
		}
		if seen[v] {
			return nil, 0, errorf(ErrInvalidConfiguration, "variable %q is repeated", v.Name())
		}
		seen[v] = true
		if !v.IsDiscrete() {
			return nil, 0, errorf(ErrNotDiscrete, "%q", v.Name())
		}
		d := v.NumStates()
		if size > MaxTableSize/d {
			return nil, 0, errorf(ErrOutOfResources, "more than %d cells over %d variables", MaxTableSize, len(vars))
		}
		size *= d
		dims[i] = d
	}
	return dims, size, nil
}

func offsetsOf(dims []int) []int {
	offsets := make([]int, len(dims))
	if len(dims) == 0 {
		return offsets
	}
	offsets[0] = 1
	for i := 1; i < len(dims); i++ {
		offsets[i] = offsets[i-1] * dims[i-1]
	}
	return offsets
}

// Strides returns the offsets a table over vars would use. Numeric
// variables count as one state.
func Strides(vars []*variable.Variable) []int {
	dims := make([]int, len(vars))
	for i, v := range vars {
		dims[i] = max(v.NumStates(), 1)
	}
	return offsetsOf(dims)
}

// Variables implements Potential.
func (t *TablePotential) Variables() []*variable.Variable { return t.variables }

// ConditionedVariable implements Potential.
func (t *TablePotential) ConditionedVariable() *variable.Variable {
	return conditionedVariable(t.variables, t.role, t.IsUtility())
}

// Role implements Potential.
func (t *TablePotential) Role() Role { return t.role }

// Criterion implements Potential.
func (t *TablePotential) Criterion() *Criterion { return t.criterion }

// IsUtility implements Potential.
func (t *TablePotential) IsUtility() bool { return t.criterion != nil }

// Kind implements Potential.
func (t *TablePotential) Kind() Kind { return KindTable }

// Combinator implements Potential.
func (t *TablePotential) Combinator() Combinator { return CombinatorNone }

// SetCriterion changes the decision criterion; nil turns a utility into a
// plain table.
func (t *TablePotential) SetCriterion(c *Criterion) {
	t.mustBeMutable()
	t.criterion = c
}

// Dimensions returns the state count of each variable. Callers must not
// modify the returned slice.
func (t *TablePotential) Dimensions() []int { return t.dimensions }

// Offsets returns the stride of each variable. Callers must not modify the
// returned slice.
func (t *TablePotential) Offsets() []int { return t.offsets }

// Values returns the cell array. Callers must not modify the returned slice;
// use SetValue or SetValues.
func (t *TablePotential) Values() []float64 { return t.values }

// Uncertain returns the uncertain-value array, nil if there is none.
func (t *TablePotential) Uncertain() []*UncertainValue { return t.uncertain }

// Size returns the number of cells.
func (t *TablePotential) Size() int { return len(t.values) }

// Position maps a configuration to a cell index.
//
// Precondition: len(coords) equals the number of variables and every
// coordinate is within its dimension. Violations panic, like an out of range
// slice index.
func (t *TablePotential) Position(coords []int) int {
	if len(coords) != len(t.dimensions) {
		panic(fmt.Sprintf("potential: %d coordinates for %d variables", len(coords), len(t.dimensions)))
	}
	pos := 0
	for i, c := range coords {
		if c < 0 || c >= t.dimensions[i] {
			panic(fmt.Sprintf("potential: coordinate %d out of range [0,%d) for %q", c, t.dimensions[i], t.variables[i].Name()))
		}
		pos += c * t.offsets[i]
	}
	return pos
}

// Configuration maps a cell index back to its coordinates. It is the
// inverse of Position.
//
// Precondition: 0 <= pos < Size().
func (t *TablePotential) Configuration(pos int) []int {
	if pos < 0 || pos >= len(t.values) {
		panic(fmt.Sprintf("potential: position %d out of range [0,%d)", pos, len(t.values)))
	}
	coords := make([]int, len(t.dimensions))
	for i := len(t.dimensions) - 1; i >= 0; i-- {
		coords[i] = pos / t.offsets[i]
		pos %= t.offsets[i]
	}
	return coords
}

// Value returns the cell at coords.
func (t *TablePotential) Value(coords ...int) float64 {
	return t.values[t.Position(coords)]
}

// IsFrozen reports whether the table rejects mutation.
func (t *TablePotential) IsFrozen() bool { return t.frozen }

// Freeze makes every later mutation panic.
func (t *TablePotential) Freeze() { t.frozen = true }

func (t *TablePotential) mustBeMutable() {
	if t.frozen {
		panic("potential: mutation of a frozen table")
	}
}

// SetValue stores v at coords.
func (t *TablePotential) SetValue(v float64, coords ...int) {
	t.mustBeMutable()
	t.values[t.Position(coords)] = v
}

// SetValues replaces every cell.
//
// Errors:
//
//	ErrInvalidConfiguration - len(values) differs from Size().
func (t *TablePotential) SetValues(values []float64) error {
	t.mustBeMutable()
	if len(values) != len(t.values) {
		return errorf(ErrInvalidConfiguration, "%d values for a table of %d cells", len(values), len(t.values))
	}
	copy(t.values, values)
	return nil
}

// SetUniform fills the table with a uniform distribution: over the
// conditioned variable for conditional and policy tables, over all cells
// otherwise.
func (t *TablePotential) SetUniform() {
	t.mustBeMutable()
	n := len(t.values)
	if (t.role == RoleConditionalProbability || t.role == RolePolicy) && len(t.dimensions) > 0 {
		n = t.dimensions[0]
	}
	for i := range t.values {
		t.values[i] = 1 / float64(n)
	}
}

// Scale multiplies every cell by f.
func (t *TablePotential) Scale(f float64) {
	t.mustBeMutable()
	for i := range t.values {
		t.values[i] *= f
	}
}

// Normalize rescales a probability table so it sums to one: per parent
// configuration for conditional and policy tables (the conditioned variable
// has stride 1, so each block is contiguous), as a whole otherwise. Blocks
// that sum to zero are left untouched.
func (t *TablePotential) Normalize() {
	t.mustBeMutable()
	block := len(t.values)
	if (t.role == RoleConditionalProbability || t.role == RolePolicy) && len(t.dimensions) > 0 {
		block = t.dimensions[0]
	}
	for start := 0; start < len(t.values); start += block {
		sum := 0.0
		for _, v := range t.values[start : start+block] {
			sum += v
		}
		if sum == 0 {
			continue
		}
		for i := start; i < start+block; i++ {
			t.values[i] /= sum
		}
	}
}

// IsAllZero reports whether every cell is zero.
func (t *TablePotential) IsAllZero() bool {
	for _, v := range t.values {
		if v != 0 {
			return false
		}
	}
	return true
}

// Equal reports whether both tables have the same variables in the same
// order, the same role and elementwise-equal values.
func (t *TablePotential) Equal(other *TablePotential) bool {
	if other == nil || t.role != other.role || len(t.variables) != len(other.variables) ||
		len(t.values) != len(other.values) {
		return false
	}
	for i, v := range t.variables {
		if other.variables[i] != v {
			return false
		}
	}
	for i, v := range t.values {
		if other.values[i] != v {
			return false
		}
	}
	return true
}

// Copy implements Potential. The copy shares variables and is never frozen.
func (t *TablePotential) Copy() Potential { return t.clone(t.variables) }

func (t *TablePotential) clone(vars []*variable.Variable) *TablePotential {
	c := &TablePotential{
		variables:  append([]*variable.Variable(nil), vars...),
		role:       t.role,
		criterion:  t.criterion,
		values:     append([]float64(nil), t.values...),
		dimensions: append([]int(nil), t.dimensions...),
		offsets:    append([]int(nil), t.offsets...),
	}
	if t.uncertain != nil {
		c.uncertain = append([]*UncertainValue(nil), t.uncertain...)
	}
	return c
}

// DeepCopy implements Potential.
//
// Errors:
//
//	ErrVariableNotFound - a variable has no namesake in resolver.
//	ErrInvalidConfiguration - the namesake has another number of states.
func (t *TablePotential) DeepCopy(resolver VariableResolver) (Potential, error) {
	vars, err := resolveAll(t.variables, resolver)
	if err != nil {
		return nil, err
	}
	return t.clone(vars), nil
}

// ReplaceVariable implements Potential. The replacement must have the same
// number of states.
func (t *TablePotential) ReplaceVariable(old, replacement *variable.Variable) error {
	t.mustBeMutable()
	i := indexOf(t.variables, old)
	if i < 0 {
		return errorf(ErrVariableNotFound, "%q is not in %s", old.Name(), t)
	}
	if !replacement.IsDiscrete() {
		return errorf(ErrNotDiscrete, "%q", replacement.Name())
	}
	if replacement.NumStates() != t.dimensions[i] {
		return errorf(ErrInvalidConfiguration, "%q has %d states, %q has %d",
			replacement.Name(), replacement.NumStates(), old.Name(), t.dimensions[i])
	}
	t.variables[i] = replacement
	return nil
}

// Project implements Potential. A table always projects to exactly one
// table.
func (t *TablePotential) Project(ev *evidence.Case, opts ProjectOptions, _ []*TablePotential) ([]*TablePotential, error) {
	p, err := t.ProjectTable(ev, opts)
	if err != nil {
		return nil, err
	}
	return []*TablePotential{p}, nil
}

// ProjectTable fixes the observed variables and returns the table over the
// unobserved ones.
//
// Description:
//
//	The result keeps the unobserved variables in their original order. An
//	odometer walks the unobserved coordinates while the source position is
//	kept incrementally, starting from the base offset of the observed
//	states. When uncertainty is kept it is projected in lockstep and dropped
//	if every projected entry is nil. Projecting again with the same
//	evidence yields an equal table.
//
// Errors:
//
//	ErrInvalidConfiguration - a finding has no state index within the
//	variable's dimension (numeric value on a table variable).
func (t *TablePotential) ProjectTable(ev *evidence.Case, opts ProjectOptions) (*TablePotential, error) {
	var unobserved []int
	base := 0
	for i, v := range t.variables {
		f, ok := ev.Finding(v)
		if !ok {
			unobserved = append(unobserved, i)
			continue
		}
		idx := f.StateIndex()
		if idx < 0 || idx >= t.dimensions[i] {
			return nil, errorf(ErrInvalidConfiguration, "finding %s has no state of %q", f, v.Name())
		}
		base += idx * t.offsets[i]
	}

	vars := make([]*variable.Variable, len(unobserved))
	dims := make([]int, len(unobserved))
	size := 1
	for j, i := range unobserved {
		vars[j] = t.variables[i]
		dims[j] = t.dimensions[i]
		size *= dims[j]
	}

	out := &TablePotential{
		variables:  vars,
		role:       t.role,
		criterion:  t.criterion,
		values:     make([]float64, size),
		dimensions: dims,
		offsets:    offsetsOf(dims),
	}
	keepUncertain := t.uncertain != nil && !opts.DropUncertainty
	if keepUncertain {
		out.uncertain = make([]*UncertainValue, size)
	}

	coords := make([]int, len(unobserved))
	pos := base
	for cell := 0; cell < size; cell++ {
		out.values[cell] = t.values[pos]
		if keepUncertain {
			out.uncertain[cell] = t.uncertain[pos]
		}
		for j, i := range unobserved {
			coords[j]++
			pos += t.offsets[i]
			if coords[j] < t.dimensions[i] {
				break
			}
			pos -= t.dimensions[i] * t.offsets[i]
			coords[j] = 0
		}
	}

	if keepUncertain && allNil(out.uncertain) {
		out.uncertain = nil
	}
	return out, nil
}

func allNil(u []*UncertainValue) bool {
	for _, x := range u {
		if x != nil {
			return false
		}
	}
	return true
}

// AccumulatedOffsets returns, for each variable of t, the jump in position
// of a table over other when t's configuration advances with a carry into
// that variable.
//
// Description:
//
//	Let offXY[j] be the stride of t's j-th variable in a table over other,
//	0 if other does not contain it. Then acc[0] = offXY[0] and
//	acc[j] = acc[j-1] + offXY[j] - dims[j-1]*offXY[j-1]. When the odometer
//	over t increments variable j (resetting variables 0..j-1), the position
//	in the other table moves by acc[j]. It lets binary operations co-iterate
//	two tables without recomputing positions.
func (t *TablePotential) AccumulatedOffsets(other []*variable.Variable) []int {
	strides := Strides(other)
	offXY := make([]int, len(t.variables))
	for j, v := range t.variables {
		if k := indexOf(other, v); k >= 0 {
			offXY[j] = strides[k]
		}
	}
	acc := make([]int, len(t.variables))
	if len(acc) == 0 {
		return acc
	}
	acc[0] = offXY[0]
	for j := 1; j < len(acc); j++ {
		acc[j] = acc[j-1] + offXY[j] - t.dimensions[j-1]*offXY[j-1]
	}
	return acc
}

// InducedFindings implements Potential.
//
// Description:
//
//	Only probability tables (conditional, joint, policy) induce findings.
//	The table is projected on ev; when exactly one cell of the projection is
//	nonzero, its configuration is implied and returned as findings for the
//	unobserved variables.
//
// Errors:
//
//	evidence.ErrIncompatibleEvidence - every cell of the projection is zero,
//	i.e. the evidence has zero probability.
func (t *TablePotential) InducedFindings(ev *evidence.Case) ([]evidence.Finding, error) {
	switch {
	case t.IsUtility():
		return nil, nil
	case t.role != RoleConditionalProbability && t.role != RoleJointProbability && t.role != RolePolicy:
		return nil, nil
	}

	projected, err := t.ProjectTable(ev, ProjectOptions{DropUncertainty: true})
	if err != nil {
		return nil, err
	}

	nonZero := -1
	for i, v := range projected.values {
		if v == 0 {
			continue
		}
		if nonZero >= 0 {
			return nil, nil
		}
		nonZero = i
	}
	if nonZero < 0 {
		return nil, fmt.Errorf("%w: %s is zero for %s", evidence.ErrIncompatibleEvidence, t, ev)
	}

	coords := projected.Configuration(nonZero)
	findings := make([]evidence.Finding, 0, len(coords))
	for j, v := range projected.variables {
		f, err := evidence.NewStateFinding(v, coords[j])
		if err != nil {
			return nil, err
		}
		findings = append(findings, f)
	}
	return findings, nil
}

// String renders the table header, e.g. "P(Dyspnea | Cancer, Bronchitis)".
func (t *TablePotential) String() string {
	switch {
	case t.IsUtility():
		return formatVariables("U", t.variables, false)
	case t.role == RoleConditionalProbability:
		return formatVariables("P", t.variables, true)
	case t.role == RolePolicy:
		return formatVariables("Policy", t.variables, true)
	default:
		return formatVariables("P", t.variables, false)
	}
}

// Dump renders every cell as "configuration: value", one per line.
func (t *TablePotential) Dump() string {
	var b strings.Builder
	b.WriteString(t.String())
	b.WriteByte('\n')
	for pos, v := range t.values {
		coords := t.Configuration(pos)
		for i, c := range coords {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(t.variables[i].Name())
			b.WriteByte('=')
			s, _ := t.variables[i].State(c)
			b.WriteString(s.Name)
		}
		b.WriteString(": ")
		b.WriteString(strconv.FormatFloat(v, 'g', 6, 64))
		b.WriteByte('\n')
	}
	return b.String()
}
