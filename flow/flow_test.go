// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.resolvecore.dev/flow"
	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/resolvetest"
	"go.resolvecore.dev/syntax"
)

func TestAssign(t *testing.T) {
	filename := resolvetest.DataFile("flow", "testdata/assign.body")
	resolvetest.RunChunks(t, filename, "Update")
}

func TestBitSet(t *testing.T) {
	a := flow.NewBitSet(4).Set(0).Set(2)
	b := flow.NewBitSet(4).SetRange(1, 2)

	if got, want := bits(flow.And(a, b), 4), "0010"; got != want {
		t.Errorf("And = %s, want %s", got, want)
	}
	if got, want := bits(flow.Or(a, b), 4), "1110"; got != want {
		t.Errorf("Or = %s, want %s", got, want)
	}
	if !flow.IsIncluded(flow.And(a, b), a) || flow.IsIncluded(a, b) {
		t.Errorf("IsIncluded: wrong answer")
	}

	c := a.Copy().Set(3)
	if a.Get(3) || !c.Get(3) {
		t.Errorf("Copy shares storage with the original")
	}

	// Setting a bit of Empty yields a new vector.
	e := flow.Empty.Set(1)
	if e == flow.Empty || flow.Empty.Get(1) {
		t.Errorf("Empty was modified")
	}
	if got := flow.And(flow.Empty, a); got != flow.Empty {
		t.Errorf("And(Empty, a) = %s, want Empty", got)
	}
}

func bits(da *flow.DefiniteAssignmentBitSet, n int) string {
	var s []byte
	for i := 0; i < n; i++ {
		if da.Get(i) {
			s = append(s, '1')
		} else {
			s = append(s, '0')
		}
	}
	return string(s)
}

// updateBody returns the body of App.Program.Update and a context for
// it, with no variable slot allocated yet.
func updateBody(t *testing.T) (*syntax.Block, *resolve.BlockContext) {
	t.Helper()
	e, err := resolvetest.LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	m := e.Member("Update")
	body := m.Body()
	return body, m.BlockContext(body)
}

func lookup(t *testing.T, b *syntax.Block, name string) *syntax.Variable {
	t.Helper()
	v := b.Lookup(name)
	if v == nil {
		t.Fatalf("no variable %s", name)
	}
	return v
}

func TestVariableInfo(t *testing.T) {
	body, bc := updateBody(t)
	flag := flow.NewVariableInfo(bc, lookup(t, body, "flag"))
	p := flow.NewVariableInfo(bc, lookup(t, body, "p"))

	if flag.Offset != 0 || flag.Length != 1 {
		t.Errorf("flag occupies %s, want flag[0:1]", flag)
	}
	if p.Offset != 1 || p.Length != 3 {
		t.Errorf("p occupies %s, want p[1:4]", p)
	}
	if diff := cmp.Diff([]string{"X", "Y"}, p.Fields()); diff != "" {
		t.Errorf("fields of p (-want +got):\n%s", diff)
	}
	if bc.AssignmentInfoOffset != 4 {
		t.Errorf("AssignmentInfoOffset = %d, want 4", bc.AssignmentInfoOffset)
	}

	da := flow.NewBitSet(4)
	da = p.SetStructFieldAssigned(da, "X")
	if p.IsAssigned(da) || !p.IsStructFieldAssigned(da, "X") || p.IsStructFieldAssigned(da, "Y") {
		t.Errorf("after p.X: %s", da)
	}
	da = p.SetStructFieldAssigned(da, "Y")
	if !p.IsAssigned(da) || !da.Get(p.Offset) {
		t.Errorf("assigning every field should assign p: %s", da)
	}
	if flag.IsAssigned(da) {
		t.Errorf("flag assigned by a field of p")
	}

	// Static members are not tracked.
	if got := flow.StructFields(lookup(t, body, "w").Type); got != nil {
		t.Errorf("StructFields(App.Widget) = %v, want none", got)
	}
}

func TestContextLabels(t *testing.T) {
	body, bc := updateBody(t)
	vi := flow.NewVariableInfo(bc, lookup(t, body, "flag"))
	fc := flow.NewContext(bc.Report(), body, bc.AssignmentInfoOffset)
	label := &syntax.LabeledStmt{Label: &syntax.Ident{Name: "L"}}

	if fc.AddReachedLabel(label) {
		t.Errorf("first AddReachedLabel reported an included vector")
	}
	fc.SetVariableAssigned(vi)
	if !fc.AddReachedLabel(label) {
		t.Errorf("a superset of a recorded vector should be included")
	}
	if n := len(fc.LabelVectors(label)); n != 1 {
		t.Errorf("label has %d vectors, want 1", n)
	}

	saved := fc.CopyLabelStack()
	fc.BranchDefiniteAssignmentFrom(flow.NewBitSet(bc.AssignmentInfoOffset))
	fc.AddReachedLabel(label) // included: nothing new
	other := &syntax.LabeledStmt{Label: &syntax.Ident{Name: "M"}}
	fc.AddReachedLabel(other)
	fc.SetLabelStack(saved)
	if fc.LabelVectors(other) != nil {
		t.Errorf("SetLabelStack did not restore the saved labels")
	}
}

func TestBranch(t *testing.T) {
	body, bc := updateBody(t)
	vi := flow.NewVariableInfo(bc, lookup(t, body, "flag"))
	fc := flow.NewContext(bc.Report(), body, bc.AssignmentInfoOffset)

	start := fc.BranchDefiniteAssignment()
	fc.SetVariableAssigned(vi)
	if vi.IsAssigned(start) {
		t.Errorf("assignment in a branch leaked into its start vector")
	}
	if !fc.IsDefinitelyAssigned(vi) {
		t.Errorf("assignment lost in the branch")
	}
	fc.BranchDefiniteAssignmentFrom(start)
	if fc.IsDefinitelyAssigned(vi) {
		t.Errorf("branching again from the start should forget the assignment")
	}
}

func TestUnreachableReportedOnce(t *testing.T) {
	e, err := resolvetest.LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	_, diags, err := e.Member("Update").Check("body", "return true; Log(1); return false; Log(2);")
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 1 || diags[0].Code != 162 {
		t.Errorf("got diagnostics %v, want one CS0162", diags)
	}
}

func TestProbingSkipsAnalysis(t *testing.T) {
	body, bc := updateBody(t)
	defer bc.Set(resolve.ProbingMode).Release()
	if fc := flow.Check(bc, body); fc != nil {
		t.Errorf("Check in probing mode returned %v, want nil", fc)
	}
}
