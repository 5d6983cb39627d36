// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package flow performs definite-assignment analysis of resolved
// function bodies.
//
// Each local variable owns one or more slots in a bit vector, a
// DefiniteAssignmentBitSet, whose set bits are the slots certainly
// assigned at the current point of the analysis. A Context threads the
// current vector through the statements of one body, keeping aside
// the vectors that reached each label so that the state at a merge
// point is the intersection of the states of every path reaching it.
//
// Check runs the analysis over a body resolved by package resolve.
package flow // import "go.resolvecore.dev/flow"

import "github.com/bits-and-blooms/bitset"

// A DefiniteAssignmentBitSet is the set of assigned slots at some
// point of a body.
//
// Vectors are mutated in place by Set and SetRange, except Empty,
// which is shared and never changes: setting a bit of Empty yields a
// new vector. Callers therefore always use the vector returned by Set.
type DefiniteAssignmentBitSet struct {
	bits *bitset.BitSet
}

// Empty is the vector of a body without tracked variables.
var Empty = &DefiniteAssignmentBitSet{bits: bitset.New(0)}

// NewBitSet returns a vector of n unassigned slots.
func NewBitSet(n int) *DefiniteAssignmentBitSet {
	return &DefiniteAssignmentBitSet{bits: bitset.New(uint(n))}
}

// Copy returns an independent copy of da.
func (da *DefiniteAssignmentBitSet) Copy() *DefiniteAssignmentBitSet {
	return &DefiniteAssignmentBitSet{bits: da.bits.Clone()}
}

// Get reports whether slot i is assigned.
func (da *DefiniteAssignmentBitSet) Get(i int) bool { return da.bits.Test(uint(i)) }

// Set marks slot i assigned and returns the vector holding the result.
func (da *DefiniteAssignmentBitSet) Set(i int) *DefiniteAssignmentBitSet {
	return da.SetRange(i, 1)
}

// SetRange marks n slots starting at i assigned and returns the vector
// holding the result.
func (da *DefiniteAssignmentBitSet) SetRange(i, n int) *DefiniteAssignmentBitSet {
	if n == 0 {
		return da
	}
	if da == Empty {
		da = da.Copy()
	}
	for j := i; j < i+n; j++ {
		da.bits.Set(uint(j))
	}
	return da
}

// Len returns the number of slots of da.
func (da *DefiniteAssignmentBitSet) Len() int { return int(da.bits.Len()) }

func (da *DefiniteAssignmentBitSet) String() string { return da.bits.String() }

// IsIncluded reports whether every slot assigned in a is assigned in b.
func IsIncluded(a, b *DefiniteAssignmentBitSet) bool {
	return b.bits.IsSuperSet(a.bits)
}

// And returns the slots assigned in both a and b: the state where the
// paths that produced a and b meet.
func And(a, b *DefiniteAssignmentBitSet) *DefiniteAssignmentBitSet {
	if a == Empty || b == Empty {
		return Empty
	}
	return &DefiniteAssignmentBitSet{bits: a.bits.Intersection(b.bits)}
}

// Or returns the slots assigned in a or in b: the state after code
// producing a is followed by code producing b.
func Or(a, b *DefiniteAssignmentBitSet) *DefiniteAssignmentBitSet {
	if a == Empty {
		return b.Copy()
	}
	if b == Empty {
		return a.Copy()
	}
	return &DefiniteAssignmentBitSet{bits: a.bits.Union(b.bits)}
}
