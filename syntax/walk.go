// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Walk traverses a syntax tree in depth-first order.
// It starts by calling f(n); n must not be nil.
// If f returns true, Walk calls itself
// recursively for each non-nil child of n.
// Walk then calls f(nil).
func Walk(n Node, f func(Node) bool) {
	if n == nil {
		panic("nil")
	}
	if !f(n) {
		return
	}

	switch n := n.(type) {
	case *Block:
		walkStmts(n.Stmts, f)

	case *DeclStmt:
		if n.Init != nil {
			Walk(n.Init, f)
		}

	case *AssignStmt:
		Walk(n.LHS, f)
		Walk(n.RHS, f)

	case *ExprStmt:
		Walk(n.X, f)

	case *IfStmt:
		Walk(n.Cond, f)
		Walk(n.True, f)
		if n.False != nil {
			Walk(n.False, f)
		}

	case *WhileStmt:
		Walk(n.Cond, f)
		Walk(n.Body, f)

	case *LabeledStmt:
		Walk(n.Label, f)

	case *GotoStmt:
		Walk(n.Label, f)

	case *BranchStmt:
		// no-op

	case *ReturnStmt:
		if n.Result != nil {
			Walk(n.Result, f)
		}

	case *SwitchStmt:
		Walk(n.Tag, f)
		for _, c := range n.Cases {
			Walk(c, f)
		}

	case *CaseClause:
		walkExprs(n.Values, f)
		Walk(n.Body, f)

	case *TryStmt:
		Walk(n.Body, f)
		if n.Catch != nil {
			Walk(n.Catch, f)
		}
		if n.Finally != nil {
			Walk(n.Finally, f)
		}

	case *Ident, *Literal, *CompletionName, *CompletionElementInitializer, *EmptyCompletion:
		// no-op

	case *DotExpr:
		Walk(n.X, f)
		Walk(n.Name, f)

	case *CallExpr:
		Walk(n.Fn, f)
		walkExprs(n.Args, f)

	case *OutExpr:
		Walk(n.X, f)

	case *UnaryExpr:
		Walk(n.X, f)

	case *BinaryExpr:
		Walk(n.X, f)
		Walk(n.Y, f)

	case *LambdaExpr:
		Walk(n.Body, f)

	case *NewExpr:
		Walk(n.Type, f)
		walkExprs(n.Elems, f)

	case *ElementInit:
		Walk(n.Name, f)
		Walk(n.Value, f)

	case *CompletionMemberAccess:
		Walk(n.X, f)
		walkExprs(n.TypeArgs, f)

	default:
		panic(n)
	}

	f(nil)
}

func walkStmts(stmts []Stmt, f func(Node) bool) {
	for _, stmt := range stmts {
		Walk(stmt, f)
	}
}

func walkExprs(exprs []Expr, f func(Node) bool) {
	for _, expr := range exprs {
		Walk(expr, f)
	}
}
