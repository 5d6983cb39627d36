// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.resolvecore.dev/syntax"
)

func TestWalk(t *testing.T) {
	// { int x; if (x == y) { x = f(out z); } while (!ok) { break; } }
	body := syntax.NewParametersBlock(nil, syntax.Position{})
	decl := body.Declare("x", syntax.Position{}, nil, nil)
	then := syntax.NewExplicitBlock(body, syntax.Position{})
	then.Add(&syntax.AssignStmt{
		LHS: ident("x"),
		RHS: &syntax.CallExpr{Fn: ident("f"), Args: []syntax.Expr{&syntax.OutExpr{X: ident("z")}}},
	})
	loop := syntax.NewExplicitBlock(body, syntax.Position{})
	loop.Add(&syntax.BranchStmt{Token: syntax.BREAK, Loop: loop})
	body.Add(
		decl,
		&syntax.IfStmt{Cond: &syntax.BinaryExpr{X: ident("x"), Op: syntax.EQL, Y: ident("y")}, True: then},
		&syntax.WhileStmt{Cond: &syntax.UnaryExpr{Op: syntax.NOT, X: ident("ok")}, Body: loop},
	)

	var buf bytes.Buffer
	var depth int
	syntax.Walk(body, func(n syntax.Node) bool {
		if n == nil {
			depth--
			return true
		}
		fmt.Fprintf(&buf, "%s%s\n",
			strings.Repeat("  ", depth),
			strings.TrimPrefix(reflect.TypeOf(n).String(), "*syntax."))
		depth++
		return true
	})
	got := strings.TrimSpace(buf.String())
	want := strings.TrimSpace(`
Block
  DeclStmt
  IfStmt
    BinaryExpr
      Ident
      Ident
    Block
      AssignStmt
        Ident
        CallExpr
          Ident
          OutExpr
            Ident
  WhileStmt
    UnaryExpr
      Ident
    Block
      BranchStmt`)
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}
}

// ExampleWalk demonstrates the use of Walk to
// enumerate the identifiers in a completion query.
func ExampleWalk() {
	expr, err := syntax.ParseQuery("query", "new App.Widget { Size = limits.Max, Na")
	if err != nil {
		fmt.Println(err)
		return
	}
	var idents []string
	syntax.Walk(expr, func(n syntax.Node) bool {
		if id, ok := n.(*syntax.Ident); ok {
			idents = append(idents, id.Name)
		}
		return true
	})
	fmt.Println(strings.Join(idents, " "))

	// Output:
	// App Widget Size limits Max
}

func ident(name string) *syntax.Ident { return &syntax.Ident{Name: name} }
