// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

import (
	"fmt"

	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// A VariableInfo maps a local variable to its definite-assignment
// slots. A variable of struct type with fields has one slot for the
// whole variable followed by one per field, so that it may be
// assigned field by field.
type VariableInfo struct {
	Var    *syntax.Variable
	Offset int // first slot
	Length int

	fields []string
}

// NewVariableInfo allocates the slots of v from bc.
func NewVariableInfo(bc *resolve.BlockContext, v *syntax.Variable) *VariableInfo {
	fields := StructFields(v.Type)
	n := 1 + len(fields)
	return &VariableInfo{Var: v, Offset: bc.AllocateAssignmentSlots(n), Length: n, fields: fields}
}

// StructFields returns the names of the instance fields tracked
// separately for a variable of type t: those of a struct, none for any
// other kind of type.
func StructFields(t types.Type) []string {
	if t == nil || t.Kind() != types.Struct {
		return nil
	}
	var fields []string
	for _, m := range t.Members() {
		if m.Kind == types.Field && !m.Static {
			fields = append(fields, m.Name)
		}
	}
	return fields
}

func (vi *VariableInfo) String() string {
	return fmt.Sprintf("%s[%d:%d]", vi.Var.Name, vi.Offset, vi.Offset+vi.Length)
}

// Fields returns the names of the separately tracked fields.
func (vi *VariableInfo) Fields() []string { return vi.fields }

func (vi *VariableInfo) field(name string) int {
	for i, f := range vi.fields {
		if f == name {
			return i
		}
	}
	return -1
}

// IsAssigned reports whether the variable is assigned in da, as a
// whole or through every one of its fields.
func (vi *VariableInfo) IsAssigned(da *DefiniteAssignmentBitSet) bool {
	if da.Get(vi.Offset) {
		return true
	}
	if len(vi.fields) == 0 {
		return false
	}
	for i := range vi.fields {
		if !da.Get(vi.Offset + 1 + i) {
			return false
		}
	}
	return true
}

// SetAssigned marks the whole variable, and so every field, assigned.
func (vi *VariableInfo) SetAssigned(da *DefiniteAssignmentBitSet) *DefiniteAssignmentBitSet {
	return da.SetRange(vi.Offset, vi.Length)
}

// IsStructFieldAssigned reports whether field name of the variable is
// assigned in da. A name that is not a tracked field is assigned when
// the whole variable is.
func (vi *VariableInfo) IsStructFieldAssigned(da *DefiniteAssignmentBitSet, name string) bool {
	if vi.IsAssigned(da) {
		return true
	}
	i := vi.field(name)
	return i >= 0 && da.Get(vi.Offset+1+i)
}

// SetStructFieldAssigned marks field name of the variable assigned.
// Assigning the last unassigned field assigns the whole variable.
func (vi *VariableInfo) SetStructFieldAssigned(da *DefiniteAssignmentBitSet, name string) *DefiniteAssignmentBitSet {
	i := vi.field(name)
	if i < 0 {
		return da
	}
	da = da.Set(vi.Offset + 1 + i)
	if vi.IsAssigned(da) {
		da = da.Set(vi.Offset)
	}
	return da
}
