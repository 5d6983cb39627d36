// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax_test

import (
	"fmt"
	"strings"
	"testing"

	"go.resolvecore.dev/syntax"
)

func TestParseQuery(t *testing.T) {
	for _, test := range []struct {
		input, want string
	}{
		{``, `(EmptyCompletion)`},
		{`   `, `(EmptyCompletion)`},
		{`Fo`, `(CompletionName "Fo")`},
		{`x.`, `(CompletionMemberAccess x "")`},
		{`x.Le`, `(CompletionMemberAccess x "Le")`},
		{`Sys.Net.H`, `(CompletionMemberAccess (DotExpr Sys Net) "H")`},
		{`a.b.c.`, `(CompletionMemberAccess (DotExpr (DotExpr a b) c) "")`},
		{`list.Sel<int, Sys.X>`, `(CompletionMemberAccess list "Sel" int (DotExpr Sys X))`},
		{`list.Sel<T`, `(CompletionMemberAccess list "Sel" T)`},
		{`new T {`, `(NewExpr T (CompletionElementInitializer ""))`},
		{`new A.T { Na`, `(NewExpr (DotExpr A T) (CompletionElementInitializer "Na"))`},
		{`new T<int> { X = 1, Y = "s", Z = null, W = a.b, V = true, `,
			`(NewExpr T (ElementInit X 1) (ElementInit Y "s") (ElementInit Z null) (ElementInit W (DotExpr a b)) (ElementInit V true) (CompletionElementInitializer ""))`},
		{`new`, `query:1:4: got end of input, want identifier`},
		{`a b`, `query:1:3: got identifier after query, want end of query`},
		{`a..`, `query:1:3: got '.' after query, want end of query`},
		{`new T { X = 1 Y`, `query:1:15: got identifier, want ','`},
		{`a.b#`, `query:1:4: unexpected input character '#'`},
		{`new T { X = "abc`, `query:1:13: unterminated string literal`},
	} {
		expr, err := syntax.ParseQuery("query", test.input)
		var got string
		if err != nil {
			got = err.Error()
		} else {
			got = treeString(expr)
		}
		if got != test.want {
			t.Errorf("ParseQuery(%q) = %s, want %s", test.input, got, test.want)
		}
	}
}

// treeString prints a query tree in s-expression form.
func treeString(n syntax.Node) string {
	var sb strings.Builder
	writeTree(&sb, n)
	return sb.String()
}

func writeTree(sb *strings.Builder, n syntax.Node) {
	switch n := n.(type) {
	case *syntax.Ident:
		sb.WriteString(n.Name)
	case *syntax.Literal:
		sb.WriteString(n.Raw)
	case *syntax.DotExpr:
		sb.WriteString("(DotExpr ")
		writeTree(sb, n.X)
		sb.WriteString(" ")
		writeTree(sb, n.Name)
		sb.WriteString(")")
	case *syntax.EmptyCompletion:
		sb.WriteString("(EmptyCompletion)")
	case *syntax.CompletionName:
		fmt.Fprintf(sb, "(CompletionName %q)", n.Prefix)
	case *syntax.CompletionElementInitializer:
		fmt.Fprintf(sb, "(CompletionElementInitializer %q)", n.Partial)
	case *syntax.CompletionMemberAccess:
		sb.WriteString("(CompletionMemberAccess ")
		writeTree(sb, n.X)
		fmt.Fprintf(sb, " %q", n.Partial)
		for _, arg := range n.TypeArgs {
			sb.WriteString(" ")
			writeTree(sb, arg)
		}
		sb.WriteString(")")
	case *syntax.NewExpr:
		sb.WriteString("(NewExpr ")
		writeTree(sb, n.Type)
		for _, e := range n.Elems {
			sb.WriteString(" ")
			writeTree(sb, e)
		}
		sb.WriteString(")")
	case *syntax.ElementInit:
		sb.WriteString("(ElementInit ")
		writeTree(sb, n.Name)
		sb.WriteString(" ")
		writeTree(sb, n.Value)
		sb.WriteString(")")
	case *syntax.CallExpr:
		sb.WriteString("(CallExpr ")
		writeTree(sb, n.Fn)
		for _, arg := range n.Args {
			sb.WriteString(" ")
			writeTree(sb, arg)
		}
		sb.WriteString(")")
	case *syntax.OutExpr:
		sb.WriteString("(out ")
		writeTree(sb, n.X)
		sb.WriteString(")")
	case *syntax.UnaryExpr:
		fmt.Fprintf(sb, "(%s ", n.Op)
		writeTree(sb, n.X)
		sb.WriteString(")")
	case *syntax.BinaryExpr:
		fmt.Fprintf(sb, "(%s ", n.Op)
		writeTree(sb, n.X)
		sb.WriteString(" ")
		writeTree(sb, n.Y)
		sb.WriteString(")")
	case *syntax.LambdaExpr:
		sb.WriteString("(LambdaExpr")
		if n.Async {
			sb.WriteString(" async")
		}
		for _, v := range n.Body.Vars {
			sb.WriteString(" ")
			writeTree(sb, v.TypeExpr)
			sb.WriteString(" " + v.Name)
		}
		sb.WriteString(" ")
		writeTree(sb, n.Body)
		sb.WriteString(")")
	case *syntax.Block:
		sb.WriteString("{")
		for i, s := range n.Stmts {
			if i > 0 {
				sb.WriteString(" ")
			}
			writeTree(sb, s)
		}
		sb.WriteString("}")
	case *syntax.DeclStmt:
		sb.WriteString("(DeclStmt ")
		writeTree(sb, n.Var.TypeExpr)
		sb.WriteString(" " + n.Var.Name)
		if n.Init != nil {
			sb.WriteString(" ")
			writeTree(sb, n.Init)
		}
		sb.WriteString(")")
	case *syntax.AssignStmt:
		sb.WriteString("(AssignStmt ")
		writeTree(sb, n.LHS)
		sb.WriteString(" ")
		writeTree(sb, n.RHS)
		sb.WriteString(")")
	case *syntax.ExprStmt:
		writeTree(sb, n.X)
	case *syntax.IfStmt:
		sb.WriteString("(IfStmt ")
		writeTree(sb, n.Cond)
		sb.WriteString(" ")
		writeTree(sb, n.True)
		if n.False != nil {
			sb.WriteString(" ")
			writeTree(sb, n.False)
		}
		sb.WriteString(")")
	case *syntax.WhileStmt:
		sb.WriteString("(WhileStmt ")
		writeTree(sb, n.Cond)
		sb.WriteString(" ")
		writeTree(sb, n.Body)
		sb.WriteString(")")
	case *syntax.SwitchStmt:
		sb.WriteString("(SwitchStmt ")
		writeTree(sb, n.Tag)
		for _, c := range n.Cases {
			if c.IsDefault() {
				sb.WriteString(" default")
			} else {
				sb.WriteString(" case ")
				writeTree(sb, c.Values[0])
			}
			sb.WriteString(" ")
			writeTree(sb, c.Body)
		}
		sb.WriteString(")")
	case *syntax.TryStmt:
		sb.WriteString("(TryStmt ")
		writeTree(sb, n.Body)
		if n.Catch != nil {
			sb.WriteString(" catch ")
			writeTree(sb, n.Catch)
		}
		if n.Finally != nil {
			sb.WriteString(" finally ")
			writeTree(sb, n.Finally)
		}
		sb.WriteString(")")
	case *syntax.LabeledStmt:
		sb.WriteString(n.Label.Name + ":")
	case *syntax.GotoStmt:
		sb.WriteString("(goto " + n.Label.Name + ")")
	case *syntax.BranchStmt:
		sb.WriteString(n.Token.String())
	case *syntax.ReturnStmt:
		sb.WriteString("(return")
		if n.Result != nil {
			sb.WriteString(" ")
			writeTree(sb, n.Result)
		}
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "%T", n)
	}
}
