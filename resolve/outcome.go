// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"

	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// OutcomeKind tells which variant an Outcome holds.
type OutcomeKind uint8

const (
	Failed     OutcomeKind = iota // diagnostics were reported; do not continue
	Resolved                      // Expr holds the result
	Completion                    // Prefix and Candidates hold a completion request
)

var outcomeKindNames = [...]string{
	Failed:     "failed",
	Resolved:   "resolved",
	Completion: "completion",
}

func (k OutcomeKind) String() string { return outcomeKindNames[k] }

// An Outcome is the result of resolving a node.
//
// A Failed outcome means the errors have already been reported; the
// caller gives up on the node and continues with its siblings. A
// Completion outcome is not a failure: every resolution step that
// receives one from a sub-resolution must return it unchanged, so that
// it reaches the completion driver whatever the nesting.
type Outcome struct {
	Kind OutcomeKind

	Expr Expression // Resolved only; nil for statements

	Prefix     string   // Completion only: the text typed so far
	Candidates []string // Completion only: deduplicated, in first-seen order
}

var failed = Outcome{}

func resolved(e Expression) Outcome { return Outcome{Kind: Resolved, Expr: e} }

func completion(prefix string, candidates []string) Outcome {
	if candidates == nil {
		candidates = []string{}
	}
	return Outcome{Kind: Completion, Prefix: prefix, Candidates: candidates}
}

func (o Outcome) IsResolved() bool   { return o.Kind == Resolved }
func (o Outcome) IsFailed() bool     { return o.Kind == Failed }
func (o Outcome) IsCompletion() bool { return o.Kind == Completion }

func (o Outcome) String() string {
	switch o.Kind {
	case Resolved:
		if o.Expr == nil {
			return "resolved"
		}
		return fmt.Sprintf("resolved %s", o.Expr)
	case Completion:
		return fmt.Sprintf("completion %q %q", o.Prefix, o.Candidates)
	}
	return "failed"
}

// An Expression is a resolved expression.
type Expression interface {
	// Type returns the type of the value denoted by the expression,
	// or nil for a namespace.
	Type() types.Type
	Pos() syntax.Position
	String() string
}

// A VariableReference denotes a local variable or parameter.
type VariableReference struct {
	Var     *syntax.Variable
	NamePos syntax.Position

	// Captured records whether the reference goes through the
	// captured storage of the enclosing anonymous function.
	Captured bool
}

// A Constant is a literal value.
type Constant struct {
	Value    interface{} // string | int64 | bool | nil
	T        types.Type
	TokenPos syntax.Position
}

// A NamespaceExpr denotes a namespace.
type NamespaceExpr struct {
	Namespace types.Namespace
	NamePos   syntax.Position
}

// A TypeExpr denotes a type used as a qualifier or in a creation.
type TypeExpr struct {
	T       types.Type
	NamePos syntax.Position
}

// A TypeParameterExpr denotes a generic type parameter in scope.
type TypeParameterExpr struct {
	T       types.Type
	NamePos syntax.Position
}

// A MemberExpr denotes a member of a value or a type.
// Receiver is nil for a member of the current type accessed by its
// simple name.
type MemberExpr struct {
	Receiver  Expression
	Member    types.Member
	Extension bool // Member is an extension method applied to Receiver
	NamePos   syntax.Position
}

// An AnonymousMethodExpr is a lambda whose body has been resolved.
// Its type is the anonymous method pseudo-type until converted to a
// delegate.
type AnonymousMethodExpr struct {
	Method *AnonymousMethod
	Lambda syntax.Position
}

// An ObjectCreation is a new expression: the object that member
// initializers in braces refer to.
type ObjectCreation struct {
	T   types.Type
	New syntax.Position
}

func (x *VariableReference) Type() types.Type   { return x.Var.Type }
func (x *Constant) Type() types.Type            { return x.T }
func (x *NamespaceExpr) Type() types.Type       { return nil }
func (x *TypeExpr) Type() types.Type            { return x.T }
func (x *TypeParameterExpr) Type() types.Type   { return x.T }
func (x *MemberExpr) Type() types.Type          { return x.Member.Type }
func (x *AnonymousMethodExpr) Type() types.Type { return types.AnonymousMethod }
func (x *ObjectCreation) Type() types.Type      { return x.T }

func (x *VariableReference) Pos() syntax.Position   { return x.NamePos }
func (x *Constant) Pos() syntax.Position            { return x.TokenPos }
func (x *NamespaceExpr) Pos() syntax.Position       { return x.NamePos }
func (x *TypeExpr) Pos() syntax.Position            { return x.NamePos }
func (x *TypeParameterExpr) Pos() syntax.Position   { return x.NamePos }
func (x *MemberExpr) Pos() syntax.Position          { return x.NamePos }
func (x *AnonymousMethodExpr) Pos() syntax.Position { return x.Lambda }
func (x *ObjectCreation) Pos() syntax.Position      { return x.New }

func (x *VariableReference) String() string {
	if x.Captured {
		return "captured variable " + x.Var.Name
	}
	return "variable " + x.Var.Name
}

func (x *Constant) String() string {
	if x.Value == nil {
		return "null"
	}
	return fmt.Sprintf("constant %#v", x.Value)
}

func (x *NamespaceExpr) String() string       { return "namespace " + x.Namespace.FullName() }
func (x *TypeExpr) String() string            { return "type " + x.T.FullName() }
func (x *TypeParameterExpr) String() string   { return "type parameter " + x.T.Name() }
func (x *AnonymousMethodExpr) String() string { return "anonymous method" }
func (x *ObjectCreation) String() string      { return "new " + x.T.FullName() }

func (x *MemberExpr) String() string {
	if x.Extension {
		return "extension method " + x.Member.Name
	}
	return fmt.Sprintf("%s %s", x.Member.Kind, x.Member.Name)
}
