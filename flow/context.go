// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"go.resolvecore.dev/report"
	"go.resolvecore.dev/syntax"
)

// A LabelStack records, for each label reached so far, the vectors
// with which it was reached.
type LabelStack map[syntax.Stmt][]*DefiniteAssignmentBitSet

// A Context is the state of the flow analysis of one body.
type Context struct {
	report *report.Report

	// DefiniteAssignment is the live vector: the slots assigned at the
	// current point.
	DefiniteAssignment *DefiniteAssignmentBitSet

	// DefiniteAssignmentOnTrue and DefiniteAssignmentOnFalse are the
	// vectors after the condition just analyzed, on each of its
	// outcomes.
	DefiniteAssignmentOnTrue  *DefiniteAssignmentBitSet
	DefiniteAssignmentOnFalse *DefiniteAssignmentBitSet

	labels LabelStack

	ParametersBlock *syntax.Block

	SwitchInitialDefinitiveAssignment *DefiniteAssignmentBitSet

	// TryFinally is the innermost try statement with a finally clause
	// whose body is being analyzed, or nil.
	TryFinally *syntax.TryStmt

	UnreachableReported bool
}

// NewContext returns the context for analyzing the body params, whose
// variables occupy length slots.
func NewContext(r *report.Report, params *syntax.Block, length int) *Context {
	da := Empty
	if length != 0 {
		da = NewBitSet(length)
	}
	return &Context{report: r, ParametersBlock: params, DefiniteAssignment: da}
}

func (fc *Context) Report() *report.Report { return fc.report }

// AddReachedLabel records that label is reached with the live vector.
// It reports whether a vector already recorded for label is included
// in the live one, in which case nothing new is known at the label and
// nothing is recorded.
func (fc *Context) AddReachedLabel(label syntax.Stmt) bool {
	if fc.labels == nil {
		fc.labels = make(LabelStack)
	}
	das, ok := fc.labels[label]
	if !ok {
		fc.labels[label] = []*DefiniteAssignmentBitSet{fc.DefiniteAssignment.Copy()}
		return false
	}

	for _, existing := range das {
		if IsIncluded(existing, fc.DefiniteAssignment) {
			return true
		}
	}

	da := fc.DefiniteAssignment
	if da != Empty {
		da = da.Copy()
	}
	fc.labels[label] = append(das, da)
	return false
}

// LabelVectors returns the vectors label was reached with.
func (fc *Context) LabelVectors(label syntax.Stmt) []*DefiniteAssignmentBitSet {
	return fc.labels[label]
}

// BranchDefiniteAssignment starts a branch from the live vector.
// See BranchDefiniteAssignmentFrom.
func (fc *Context) BranchDefiniteAssignment() *DefiniteAssignmentBitSet {
	return fc.BranchDefiniteAssignmentFrom(fc.DefiniteAssignment)
}

// BranchDefiniteAssignmentFrom starts a branch from da: a copy of da
// becomes the live vector, and da itself is returned, unaffected by
// what the branch assigns. Empty is never copied.
func (fc *Context) BranchDefiniteAssignmentFrom(da *DefiniteAssignmentBitSet) *DefiniteAssignmentBitSet {
	if da != Empty {
		fc.DefiniteAssignment = da.Copy()
	}
	return da
}

// CopyLabelStack returns a copy of the label stack, or nil if no label
// has been reached. The lists are copied, the vectors in them are
// shared.
func (fc *Context) CopyLabelStack() LabelStack {
	if fc.labels == nil {
		return nil
	}
	dest := make(LabelStack, len(fc.labels))
	for label, das := range fc.labels {
		dest[label] = append([]*DefiniteAssignmentBitSet(nil), das...)
	}
	return dest
}

// SetLabelStack replaces the label stack, typically with one saved by
// CopyLabelStack.
func (fc *Context) SetLabelStack(ls LabelStack) { fc.labels = ls }

func (fc *Context) LabelStack() LabelStack { return fc.labels }

func (fc *Context) IsDefinitelyAssigned(vi *VariableInfo) bool {
	return vi.IsAssigned(fc.DefiniteAssignment)
}

func (fc *Context) IsStructFieldDefinitelyAssigned(vi *VariableInfo, name string) bool {
	return vi.IsStructFieldAssigned(fc.DefiniteAssignment, name)
}

// SetVariableAssigned marks vi assigned in the live vector.
func (fc *Context) SetVariableAssigned(vi *VariableInfo) {
	fc.DefiniteAssignment = vi.SetAssigned(fc.DefiniteAssignment)
}

// SetVariableAssignedIn marks vi assigned in da, and returns the vector
// holding the result.
func (fc *Context) SetVariableAssignedIn(vi *VariableInfo, da *DefiniteAssignmentBitSet) *DefiniteAssignmentBitSet {
	return vi.SetAssigned(da)
}

func (fc *Context) SetStructFieldAssigned(vi *VariableInfo, name string) {
	fc.DefiniteAssignment = vi.SetStructFieldAssigned(fc.DefiniteAssignment, name)
}

// ReportUnreachable warns about unreachable code at pos, once per body.
func (fc *Context) ReportUnreachable(pos syntax.Position) {
	if fc.UnreachableReported {
		return
	}
	fc.UnreachableReported = true
	fc.report.Warning(pos, 162, "Unreachable code detected")
}
