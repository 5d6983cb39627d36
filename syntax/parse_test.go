// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"testing"

	"go.resolvecore.dev/syntax"
)

func TestParseBody(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, `{}`},
		{`int x = 1; x = y;`, `{(DeclStmt int x 1) (AssignStmt x y)}`},
		{`if (a && !b) f(out x); else { return; }`,
			`{(IfStmt (&& a (! b)) {(CallExpr f (out x))} {(return)})}`},
		{`while (a || b && c) { break; continue; }`, `{(WhileStmt (|| a (&& b c)) {break continue})}`},
		{`a == b != c;`, `{(!= (== a b) c)}`},
		{`switch (k) { case 1: f(); break; default: return; }`,
			`{(SwitchStmt k case 1 {(CallExpr f) break} default {(return)})}`},
		{`L: goto L;`, `{L: (goto L)}`},
		{`try { f(); } catch { } finally { g(); }`,
			`{(TryStmt {(CallExpr f)} catch {} finally {(CallExpr g)})}`},
		{`Sys.Action a = async delegate (int x, Sys.T y) { return x; };`,
			`{(DeclStmt (DotExpr Sys Action) a (LambdaExpr async int x (DotExpr Sys T) y {(return x)}))}`},
		{`o = new P { X = 1, Y = a.b };`,
			`{(AssignStmt o (NewExpr P (ElementInit X 1) (ElementInit Y (DotExpr a b))))}`},
		{`a.b.c(); // call`, `{(CallExpr (DotExpr (DotExpr a b) c))}`},
		{`x = ;`, `body:1:5: got ';', want identifier`},
		{`if (a) {`, `body:1:9: got end of input, want '}'`},
		{`try { }`, `body:1:8: got end of input, want catch or finally`},
		{`f() g();`, `body:1:5: got identifier, want ';'`},
	} {
		body := syntax.NewParametersBlock(nil, syntax.Position{})
		var got string
		if err := syntax.ParseBody("body", test.input, body); err != nil {
			got = err.Error()
		} else {
			got = treeString(body)
		}
		if got != test.want {
			t.Errorf("ParseBody(%q) = %s, want %s", test.input, got, test.want)
		}
	}
}

func TestParseBodyScopes(t *testing.T) {
	const src = `
int y;
{
	int x;
}
if (c)
	int z = 1;
A f = delegate (int p) { int q; };
`
	body := syntax.NewParametersBlock(nil, syntax.Position{})
	if err := syntax.ParseBody("body", src, body); err != nil {
		t.Fatal(err)
	}
	if got := varNames(body); got != "y f" {
		t.Errorf("body vars = %q, want %q", got, "y f")
	}

	inner := body.Stmts[1].(*syntax.Block)
	if got := varNames(inner); got != "x" {
		t.Errorf("inner block vars = %q, want %q", got, "x")
	}
	if !inner.IsExplicit() || inner.Parent != body {
		t.Errorf("inner block is not an explicit child of the body")
	}

	embedded := body.Stmts[2].(*syntax.IfStmt).True
	if got := varNames(embedded); got != "z" {
		t.Errorf("embedded block vars = %q, want %q", got, "z")
	}
	if embedded.IsExplicit() || embedded.Explicit() != body {
		t.Errorf("embedded statement block should be implicit, within the body")
	}

	lambda := body.Stmts[3].(*syntax.DeclStmt).Init.(*syntax.LambdaExpr)
	if got := varNames(lambda.Body); got != "p q" {
		t.Errorf("lambda vars = %q, want %q", got, "p q")
	}
	if !lambda.Body.Vars[0].IsParameter || lambda.Body.Vars[1].IsParameter {
		t.Errorf("only p should be a parameter")
	}
	if lambda.Body.ParametersBlock() != lambda.Body || lambda.Body.Parent != body {
		t.Errorf("lambda body is not a parameters block nested in the body")
	}
}

func TestParseBodyPositions(t *testing.T) {
	const src = "int x;\n// comment\n  x = 1;\n"
	body := syntax.NewParametersBlock(nil, syntax.Position{})
	if err := syntax.ParseBody("body", src, body); err != nil {
		t.Fatal(err)
	}
	assign := body.Stmts[1].(*syntax.AssignStmt)
	if got, want := syntax.Start(assign).String(), "body:3:3"; got != want {
		t.Errorf("assignment starts at %s, want %s", got, want)
	}
	if got, want := body.Rbrace.String(), "body:4:1"; got != want {
		t.Errorf("body ends at %s, want %s", got, want)
	}
}

func varNames(b *syntax.Block) string {
	var s string
	for i, v := range b.Vars {
		if i > 0 {
			s += " "
		}
		s += v.Name
	}
	return s
}
