// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"testing"

	"go.resolvecore.dev/syntax"
)

// loopBody builds
//
//	method(p) { int x; while (c) { L: x = p; if (x) { break; } goto L; } }
//
// where the break refers back to the loop body, an ancestor of the
// block containing it.
func loopBody() (method, loop, inner *syntax.Block) {
	method = syntax.NewParametersBlock(nil, syntax.Position{})
	p := method.AddParameter("p", syntax.Position{}, nil)
	decl := method.Declare("x", syntax.Position{}, nil, nil)

	loop = syntax.NewExplicitBlock(method, syntax.Position{})
	inner = syntax.NewExplicitBlock(loop, syntax.Position{})
	inner.Add(&syntax.BranchStmt{Token: syntax.BREAK, Loop: loop})

	label := &syntax.LabeledStmt{Label: ident("L")}
	loop.Add(
		label,
		&syntax.AssignStmt{LHS: &syntax.Ident{Name: "x", Var: decl.Var}, RHS: &syntax.Ident{Name: "p", Var: p}},
		&syntax.IfStmt{Cond: &syntax.Ident{Name: "x", Var: decl.Var}, True: inner},
		&syntax.GotoStmt{Label: ident("L"), Target: label},
	)
	method.Add(decl, &syntax.WhileStmt{Cond: ident("c"), Body: loop})
	return method, loop, inner
}

func TestCloneBackReference(t *testing.T) {
	method, loop, inner := loopBody()

	cc := syntax.NewCloneContext()
	clone := cc.LookupBlock(method)

	if clone == method {
		t.Fatal("LookupBlock returned the original")
	}
	if again := cc.LookupBlock(method); again != clone {
		t.Errorf("second LookupBlock produced a distinct clone")
	}

	loopClone := cc.RemapBlockCopy(loop)
	innerClone := cc.RemapBlockCopy(inner)
	if loopClone == loop || innerClone == inner {
		t.Fatalf("nested blocks were not cloned")
	}
	if got := clone.Stmts[1].(*syntax.WhileStmt).Body; got != loopClone {
		t.Errorf("while body is not the registered loop clone")
	}
	brk := innerClone.Stmts[0].(*syntax.BranchStmt)
	if brk.Loop != loopClone {
		t.Errorf("break refers to %p, want clone %p (original %p)", brk.Loop, loopClone, loop)
	}
	if innerClone.Parent != loopClone || loopClone.Parent != clone {
		t.Errorf("parent links not remapped")
	}
	if innerClone.ParametersBlock() != clone || innerClone.Explicit() != innerClone {
		t.Errorf("explicit/parameters links not remapped")
	}
	if clone.Original() != method {
		t.Errorf("clone.Original() = %p, want %p", clone.Original(), method)
	}

	// Variables are remapped to the copies declared in the clone.
	assign := loopClone.Stmts[1].(*syntax.AssignStmt)
	x := assign.LHS.(*syntax.Ident).Var
	if x == method.Vars[1] || x != clone.Vars[1] || x.Block != clone {
		t.Errorf("assignment target not remapped to cloned variable")
	}
	if p := assign.RHS.(*syntax.Ident).Var; p != clone.Vars[0] || !p.IsParameter {
		t.Errorf("parameter reference not remapped")
	}

	// Gotos target the cloned label.
	gt := loopClone.Stmts[3].(*syntax.GotoStmt)
	if gt.Target != loopClone.Stmts[0] {
		t.Errorf("goto target not remapped")
	}
}

func TestCloneSubtreeKeepsOuterLinks(t *testing.T) {
	method, loop, _ := loopBody()

	cc := syntax.NewCloneContext()
	loopClone := cc.LookupBlock(loop)

	if loopClone.Parent != method {
		t.Errorf("parent outside the cloned subtree should stay shared")
	}
	if cc.RemapBlockCopy(method) != method {
		t.Errorf("RemapBlockCopy cloned an unregistered block")
	}
	// x is declared outside the subtree, so references keep the original.
	assign := loopClone.Stmts[1].(*syntax.AssignStmt)
	if assign.LHS.(*syntax.Ident).Var != method.Vars[1] {
		t.Errorf("variable declared outside the subtree was remapped")
	}
}

func TestCloneInsideLoopKeepsLoop(t *testing.T) {
	_, loop, inner := loopBody()

	cc := syntax.NewCloneContext()
	innerClone := cc.LookupBlock(inner)

	brk := innerClone.Stmts[0].(*syntax.BranchStmt)
	if brk.Loop != loop {
		t.Errorf("break refers to %p, want the enclosing loop %p", brk.Loop, loop)
	}
	if cc.RemapBlockCopy(loop) != loop {
		t.Errorf("the enclosing loop was cloned along with the inner block")
	}
}

func TestClonedLambdaKeepsOriginalParameters(t *testing.T) {
	method := syntax.NewParametersBlock(nil, syntax.Position{})
	lambda := syntax.NewParametersBlock(method, syntax.Position{})
	method.Add(&syntax.ExprStmt{X: &syntax.LambdaExpr{Body: lambda}})

	first := syntax.NewCloneContext().LookupBlock(method)
	second := syntax.NewCloneContext().LookupBlock(first)

	body := second.Stmts[0].(*syntax.ExprStmt).X.(*syntax.LambdaExpr).Body
	if body == lambda || body.Original() != lambda {
		t.Errorf("clone of a clone should remember the first original")
	}
	if body.Parent != second {
		t.Errorf("lambda body parent not remapped")
	}
}

func TestAddBlockMapTwicePanics(t *testing.T) {
	b := syntax.NewParametersBlock(nil, syntax.Position{})
	cc := syntax.NewCloneContext()
	cc.AddBlockMap(b, b)
	defer func() {
		if recover() == nil {
			t.Error("AddBlockMap did not panic")
		}
	}()
	cc.AddBlockMap(b, b)
}
