// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve_test

import (
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.resolvecore.dev/env"
	"go.resolvecore.dev/report"
	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/resolvetest"
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

func TestResolve(t *testing.T) {
	filename := resolvetest.DataFile("resolve", "testdata/resolve.body")
	resolvetest.RunChunks(t, filename, "Update")
}

func member(t *testing.T, name string) (*env.Environment, *env.Member) {
	t.Helper()
	e, err := resolvetest.LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	m := e.Member(name)
	if m == nil {
		t.Fatalf("no member %s", name)
	}
	return e, m
}

func TestFlagsRestored(t *testing.T) {
	_, m := member(t, "Update")
	rc := resolve.NewContext(m, 0)
	rng := rand.New(rand.NewSource(1))

	for i := 0; i < 1000; i++ {
		start := rc.Flags()
		mask := resolve.Options(rng.Uint32())
		func() {
			defer rc.With(mask, rng.Intn(2) == 0).Release()
			if rc.Flags()&^mask != start&^mask {
				t.Fatalf("With(%s) changed flags outside its mask", mask)
			}
		}()
		if got := rc.Flags(); got != start {
			t.Fatalf("flags after Release = %s, want %s", got, start)
		}
		// Start the next round from other flags.
		rc.With(resolve.Options(rng.Uint32()), rng.Intn(2) == 0)
	}
}

func TestFlagsRestoredOnPanic(t *testing.T) {
	_, m := member(t, "Update")
	rc := resolve.NewContext(m, resolve.CatchScope)
	before := rc.Flags()
	func() {
		defer func() { recover() }()
		defer rc.Set(resolve.UnsafeScope | resolve.FinallyScope).Release()
		defer rc.With(resolve.CatchScope, false).Release()
		if rc.HasAny(resolve.CatchScope) || !rc.HasSet(resolve.UnsafeScope|resolve.FinallyScope) {
			t.Errorf("flags not set: %s", rc.Flags())
		}
		panic("oops")
	}()
	if got := rc.Flags(); got != before {
		t.Errorf("flags after panic = %s, want %s", got, before)
	}
}

func TestNewContextDefaults(t *testing.T) {
	e, m := member(t, "Update")
	if rc := resolve.NewContext(m, 0); !rc.ConstantCheckState() || rc.HasAny(resolve.CheckedScope) {
		t.Errorf("default flags = %s", rc.Flags())
	}
	e.Settings().Checked = true
	if rc := resolve.NewContext(m, 0); !rc.HasSet(resolve.CheckedScope | resolve.ConstantCheckState) {
		t.Errorf("flags with checked settings = %s", rc.Flags())
	}
}

func TestChildBlockContextInheritance(t *testing.T) {
	_, m := member(t, "Update")
	body := m.Body()
	bc := m.BlockContext(body)
	defer bc.Set(resolve.UnsafeScope | resolve.ProbingMode | resolve.CatchScope | resolve.FinallyScope).Release()
	defer bc.With(resolve.ConstantCheckState, false).Release()

	inner := syntax.NewParametersBlock(body, syntax.Position{})
	child := resolve.NewChildBlockContext(bc.Context, inner, types.VoidType)
	if !child.HasSet(resolve.UnsafeScope | resolve.ProbingMode) {
		t.Errorf("child lost inherited flags: %s", child.Flags())
	}
	if child.HasAny(resolve.CatchScope | resolve.FinallyScope) {
		t.Errorf("child inherited local flags: %s", child.Flags())
	}
	if child.ConstantCheckState() {
		t.Errorf("child should inherit the absence of ConstantCheckState")
	}
	if child.ReturnType() != types.VoidType || child.CurrentBlock != inner {
		t.Errorf("child has the wrong return type or block")
	}
}

func TestCapturedVariables(t *testing.T) {
	_, m := member(t, "Update")
	const src = `
int x = 1;
Sys.Action a = delegate (int n) {
	Log(x);
	Log(n);
	Log(flag);
};
Log(x);
`
	body, diags, err := m.Check("body", src)
	if err != nil {
		t.Fatal(err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	lambda := body.Stmts[1].(*syntax.DeclStmt).Init.(*syntax.LambdaExpr)
	n := lambda.Body.Vars[0]

	for _, test := range []struct {
		v    *syntax.Variable
		want syntax.Scope
	}{
		{body.Lookup("x"), syntax.CellScope},
		{body.Lookup("a"), syntax.LocalScope},
		{body.Lookup("flag"), syntax.CellScope},
		{n, syntax.LocalScope},
	} {
		if test.v.Scope != test.want {
			t.Errorf("%s has scope %s, want %s", test.v.Name, test.v.Scope, test.want)
		}
	}
}

func TestMustCaptureVariableIsPure(t *testing.T) {
	_, m := member(t, "Update")
	body := m.Body()
	bc := m.BlockContext(body)
	x := body.Lookup("flag")

	inner := syntax.NewParametersBlock(body, syntax.Position{})
	am := &resolve.AnonymousMethod{Block: inner}
	restore := bc.EnterAnonymousMethod(am)
	if !bc.MustCaptureVariable(x) || !bc.MustCaptureVariable(x) {
		t.Errorf("an outer variable must be captured from an anonymous method")
	}
	restore()
	if bc.MustCaptureVariable(x) {
		t.Errorf("no capture outside anonymous methods")
	}
	if len(am.Captured) != 0 || x.Scope != syntax.UndefinedScope {
		t.Errorf("MustCaptureVariable had side effects")
	}

	am.IsAsync = true
	defer bc.EnterAnonymousMethod(am)()
	p := inner.AddParameter("p", syntax.Position{}, types.Int)
	if !bc.MustCaptureVariable(p) {
		t.Errorf("an async body captures its parameters")
	}
}

// complete resolves the completion query src in the body of member.
func complete(t *testing.T, e *env.Environment, m *env.Member, src string) resolve.Outcome {
	t.Helper()
	x, err := syntax.ParseQuery("query", src)
	if err != nil {
		t.Fatal(err)
	}
	bc := m.BlockContext(m.Body())
	return resolve.Expr(bc.Context, x)
}

func TestCompletion(t *testing.T) {
	for _, test := range []struct {
		src  string
		want []string
	}{
		{"", []string{}},
		{"Fo", []string{"Foo", "Foobar"}},
		{"fla", []string{"flag"}},
		{"TI", []string{"TItem"}},
		{"Sys.Net.H", []string{"Http"}},
		{"Net.H", []string{"Http"}},
		{"Sys.N", []string{"Net"}},
		{"Sys.", []string{"Action", "Collections", "IDisposable", "IEnumerable", "Linq", "Net", "Object"}},
		{"Sys.Net.", []string{"Dns", "Http", "Mail"}},
		{"w.Fo", []string{"Foo", "Foobar"}},
		{"w.", []string{"Foo", "Foobar", "Frob", "Instances", "Kind", "ToString", "Equals", "Describe"}},
		{"client.C", []string{"Create", "Close"}},
		{"items.", []string{"Count", "Add", "ToString", "Equals", "First", "Describe"}},
		{"Widget.K", []string{"Kind"}},
		{"flag.", []string{}},
		{"new Point { X = 1, ", []string{"X", "Y", "Origin"}},
		{"new Widget { Fo", []string{"Foo", "Foobar"}},
	} {
		e, m := member(t, "Update")
		out := complete(t, e, m, test.src)
		if !out.IsCompletion() {
			t.Errorf("%q: got %s, want a completion", test.src, out)
			continue
		}
		if diff := cmp.Diff(test.want, out.Candidates); diff != "" {
			t.Errorf("%q: candidates (-want +got):\n%s", test.src, diff)
		}
	}
}

func TestCompletionInvalidReceiver(t *testing.T) {
	for _, src := range []string{"missing.", "Sys.Nope.", "TItem.", "w.Nope."} {
		e, m := member(t, "Update")
		session := new(report.SessionPrinter)
		e.Report().SetPrinter(session)

		out := complete(t, e, m, src)
		if !out.IsFailed() {
			t.Errorf("%q: got %s, want failed", src, out)
		}
		if src != "TItem." && session.ErrorsCount() != 0 {
			t.Errorf("%q: receiver errors were shown: %v", src, session.Errors())
		}
	}
}

func TestCompletionPassesThrough(t *testing.T) {
	_, m := member(t, "Update")

	// Probing does not stop a completion.
	bc := m.BlockContext(m.Body())
	x, err := syntax.ParseQuery("query", "w.Fr")
	if err != nil {
		t.Fatal(err)
	}
	out, _ := bc.Probe(func() resolve.Outcome { return resolve.Expr(bc.Context, x) })
	if !out.IsCompletion() || out.Prefix != "Fr" {
		t.Errorf("probed completion = %s", out)
	}

	// Nor does a statement, or a failure in an earlier one.
	body := m.Body()
	bc = m.BlockContext(body)
	loop := &syntax.WhileStmt{
		Cond: &syntax.Ident{Name: "flag"},
		Body: syntax.NewBlock(body, syntax.Position{}),
	}
	loop.Body.Add(&syntax.IfStmt{
		Cond: &syntax.CompletionName{Prefix: "fl"},
		True: syntax.NewBlock(loop.Body, syntax.Position{}),
	})
	body.Add(&syntax.ExprStmt{X: &syntax.Ident{Name: "missing"}}, loop)
	out = resolve.Block(bc, body)
	if diff := cmp.Diff([]string{"flag"}, out.Candidates); !out.IsCompletion() || diff != "" {
		t.Errorf("completion in a body = %s", out)
	}
}

func TestAppendResults(t *testing.T) {
	got := resolve.AppendResults([]string{"Foo"}, "f", []string{"", "Foo", "frob", "Bar", "FOO"})
	if diff := cmp.Diff([]string{"Foo", "frob", "FOO"}, got); diff != "" {
		t.Errorf("AppendResults (-want +got):\n%s", diff)
	}
}
