// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// Completion nodes stand where a real expression is expected but the
// user has not finished typing. They are ordinary expressions as far
// as the tree is concerned, so they may appear anywhere an expression
// or expression statement may; resolving one never yields a value.

// A CompletionName is a bare identifier prefix: Fo|
type CompletionName struct {
	NamePos Position
	Prefix  string
}

func (x *CompletionName) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Prefix)
}

// A CompletionMemberAccess is a member access with a partial member
// name: X.Partial| (Partial may be empty, as in X.|).
type CompletionMemberAccess struct {
	X        Expr
	Dot      Position
	Partial  string
	TypeArgs []Expr // optional generic arguments of X
}

func (x *CompletionMemberAccess) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Dot.add("." + x.Partial)
}

// A CompletionElementInitializer is a partial member name inside an
// object initializer: new T { Pa| }.
type CompletionElementInitializer struct {
	NamePos Position
	Partial string
}

func (x *CompletionElementInitializer) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Partial)
}

// An EmptyCompletion stands where nothing has been typed yet.
type EmptyCompletion struct {
	Pos Position
}

func (x *EmptyCompletion) Span() (start, end Position) {
	return x.Pos, x.Pos
}

// IsCompletion reports whether e is a completion node.
func IsCompletion(e Expr) bool {
	switch e.(type) {
	case *CompletionName, *CompletionMemberAccess, *CompletionElementInitializer, *EmptyCompletion:
		return true
	}
	return false
}
