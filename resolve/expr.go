// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"

	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// MemberLookupRestrictions narrow what a name lookup may find.
type MemberLookupRestrictions uint8

const (
	NoRestrictions MemberLookupRestrictions = 0
	InvocableOnly  MemberLookupRestrictions = 1 << 0
	ExactArity     MemberLookupRestrictions = 1 << 2
	ReadAccess     MemberLookupRestrictions = 1 << 3
)

// Expr resolves the expression e.
func Expr(rc *Context, e syntax.Expr) Outcome {
	switch e := e.(type) {
	case *syntax.Ident:
		out := LookupNameExpression(rc, e, ReadAccess)
		if !out.IsResolved() {
			return out
		}
		return resolveLookedUp(rc, out.Expr)

	case *syntax.Literal:
		return resolved(literal(e))

	case *syntax.DotExpr:
		out := Expr(rc, e.X)
		if !out.IsResolved() {
			return out
		}
		return memberAccess(rc, out.Expr, e.Dot, e.Name)

	case *syntax.CallExpr:
		return call(rc, e)

	case *syntax.OutExpr:
		out := Expr(rc, e.X)
		if !out.IsResolved() {
			return out
		}
		if _, ok := out.Expr.(*VariableReference); !ok {
			rc.Error(e.X.NamePos, 1510, "A ref or out argument must be an assignable variable")
			return failed
		}
		return out

	case *syntax.UnaryExpr:
		out := Expr(rc, e.X)
		if !out.IsResolved() {
			return out
		}
		return resolved(&Constant{T: types.Bool, TokenPos: e.OpPos})

	case *syntax.BinaryExpr:
		x := Expr(rc, e.X)
		if x.IsCompletion() {
			return x
		}
		y := Expr(rc, e.Y)
		if y.IsCompletion() {
			return y
		}
		if x.IsFailed() || y.IsFailed() {
			return failed
		}
		return resolved(&Constant{T: types.Bool, TokenPos: e.OpPos})

	case *syntax.NewExpr:
		return newExpr(rc, e)

	case *syntax.LambdaExpr:
		return lambda(rc, e)

	case *syntax.ElementInit:
		panic("resolve: member initializer outside an object creation")

	case *syntax.CompletionName:
		return completeName(rc, e)

	case *syntax.CompletionMemberAccess:
		return completeMemberAccess(rc, e)

	case *syntax.CompletionElementInitializer:
		return completeElementInitializer(rc, e)

	case *syntax.EmptyCompletion:
		return completion("", nil)
	}
	panic(fmt.Sprintf("unexpected expr %T", e))
}

// LookupNameExpression finds what the simple name id denotes, without
// resolving it further: a variable reference does not yet record its
// capture. Names are searched in order among the variables of the
// enclosing blocks, the members of the current type, the type
// parameters in scope, and the namespaces and types of the module.
func LookupNameExpression(rc *Context, id *syntax.Ident, restrictions MemberLookupRestrictions) Outcome {
	if b := rc.CurrentBlock; b != nil {
		if v := b.Lookup(id.Name); v != nil {
			id.Var = v
			return resolved(&VariableReference{Var: v, NamePos: id.NamePos})
		}
	}

	if t := rc.CurrentType(); t != nil {
		if m, ok := findMember(t, id.Name, restrictions); ok {
			return currentTypeMember(rc, id, m)
		}
	}

	for _, tp := range rc.CurrentTypeParameters() {
		if tp.Name() == id.Name {
			return resolved(&TypeParameterExpr{T: tp, NamePos: id.NamePos})
		}
	}

	mode := NormalLookup
	if rc.IsInProbingMode() {
		mode = ProbingLookup
	}
	if ent := rc.LookupNamespaceOrType(id.Name, 0, mode, id.NamePos); ent != nil {
		return resolved(entityExpr(ent, id.NamePos))
	}
	if ent := rc.LookupNamespaceAlias(id.Name); ent != nil {
		return resolved(entityExpr(ent, id.NamePos))
	}

	rc.Error(id.NamePos, 103, "The name `%s' does not exist in the current context", id.Name)
	return failed
}

// resolveLookedUp completes the resolution of the result of a name
// lookup.
func resolveLookedUp(rc *Context, e Expression) Outcome {
	if vr, ok := e.(*VariableReference); ok {
		rc.useVariable(vr)
	}
	return resolved(e)
}

// useVariable records whether vr goes through captured storage.
// The variable and the anonymous method are only marked when
// resolution is not speculative.
func (rc *Context) useVariable(vr *VariableReference) {
	v := vr.Var
	vr.Captured = rc.MustCaptureVariable(v)
	if vr.Captured && rc.IsVariableCapturingRequired() {
		v.Scope = syntax.CellScope
		rc.CurrentAnonymousMethod.capture(v)
	}
}

func currentTypeMember(rc *Context, id *syntax.Ident, m types.Member) Outcome {
	if m.Kind == types.NestedType {
		return resolved(&TypeExpr{T: m.Type, NamePos: id.NamePos})
	}
	if !m.Static {
		if rc.HasSet(FieldInitializerScope) {
			rc.Error(id.NamePos, 236, "A field initializer cannot reference the nonstatic field, method, or property `%s.%s'",
				rc.CurrentType().FullName(), m.Name)
			return failed
		}
		if rc.IsStatic() {
			rc.Error(id.NamePos, 120, "An object reference is required to access non-static member `%s.%s'",
				rc.CurrentType().FullName(), m.Name)
			return failed
		}
	}
	return resolved(&MemberExpr{Member: m, NamePos: id.NamePos})
}

func entityExpr(ent types.Entity, pos syntax.Position) Expression {
	switch ent := ent.(type) {
	case types.Type:
		if ent.Kind() == types.TypeParameter {
			return &TypeParameterExpr{T: ent, NamePos: pos}
		}
		return &TypeExpr{T: ent, NamePos: pos}
	case types.Namespace:
		return &NamespaceExpr{Namespace: ent, NamePos: pos}
	}
	panic(fmt.Sprintf("unexpected entity %T", ent))
}

func findMember(t types.Type, name string, restrictions MemberLookupRestrictions) (types.Member, bool) {
	for _, m := range t.Members() {
		if m.Name != name {
			continue
		}
		if restrictions&InvocableOnly != 0 && m.Kind != types.Method {
			continue
		}
		return m, true
	}
	return types.Member{}, false
}

func literal(lit *syntax.Literal) *Constant {
	c := &Constant{Value: lit.Value, TokenPos: lit.TokenPos}
	switch lit.Token {
	case syntax.INT:
		c.T = types.Int
	case syntax.STRING:
		c.T = types.String
	case syntax.TRUE, syntax.FALSE:
		c.T = types.Bool
	case syntax.NULL:
		c.T = types.NullLiteral
	default:
		panic(fmt.Sprintf("unexpected literal %s", lit.Token))
	}
	return c
}

// canAccessMembers reports whether the member access operator is
// defined on values of type t.
func canAccessMembers(t types.Type) bool {
	if t == nil || types.IsInternal(t) {
		return false
	}
	return t.Kind() != types.Pointer && t.Kind() != types.Void
}

func memberAccess(rc *Context, left Expression, dot syntax.Position, name *syntax.Ident) Outcome {
	switch left := left.(type) {
	case *NamespaceExpr:
		if ent := left.Namespace.Lookup(name.Name, 0); ent != nil {
			return resolved(entityExpr(ent, name.NamePos))
		}
		rc.Error(name.NamePos, 234, "The type or namespace name `%s' does not exist in the namespace `%s'. Are you missing an assembly reference?",
			name.Name, left.Namespace.FullName())
		return failed

	case *TypeParameterExpr:
		rc.Error(name.NamePos, 704, "A nested type cannot be specified through a type parameter `%s'", left.T.Name())
		return failed

	case *TypeExpr:
		m, ok := findMember(left.T, name.Name, NoRestrictions)
		if !ok {
			rc.Error(name.NamePos, 117, "`%s' does not contain a definition for `%s'", left.T.FullName(), name.Name)
			return failed
		}
		if m.Kind == types.NestedType {
			return resolved(&TypeExpr{T: m.Type, NamePos: name.NamePos})
		}
		if !m.Static {
			rc.Error(name.NamePos, 120, "An object reference is required to access non-static member `%s.%s'",
				left.T.FullName(), m.Name)
			return failed
		}
		return resolved(&MemberExpr{Receiver: left, Member: m, NamePos: name.NamePos})
	}

	t := left.Type()
	if !canAccessMembers(t) {
		rc.Error(dot, 23, "The `.' operator cannot be applied to operand of type `%s'", typeName(t))
		return failed
	}
	if m, ok := findMember(t, name.Name, NoRestrictions); ok {
		if m.Static {
			rc.Error(name.NamePos, 176, "Static member `%s.%s' cannot be accessed with an instance reference, qualify it with a type name instead",
				t.FullName(), m.Name)
			return failed
		}
		return resolved(&MemberExpr{Receiver: left, Member: m, NamePos: name.NamePos})
	}
	for _, em := range rc.LookupExtensionMethod(name.Name, 0, false) {
		if ExtensionApplies(em, t) {
			m := types.Member{Name: em.Name, Kind: types.Method, Static: true}
			return resolved(&MemberExpr{Receiver: left, Member: m, Extension: true, NamePos: name.NamePos})
		}
	}
	rc.Error(name.NamePos, 1061, "Type `%[1]s' does not contain a definition for `%[2]s' and no extension method `%[2]s' of type `%[1]s' could be found. Are you missing an assembly reference?",
		t.FullName(), name.Name)
	return failed
}

// ExtensionApplies reports whether the extension method m can be
// called on a receiver of type t. An interface first parameter must
// be implemented by t; any other first parameter must accept t.
func ExtensionApplies(m *types.ExtensionMethod, t types.Type) bool {
	p := m.Receiver()
	if p == nil {
		return false
	}
	if p.Kind() == types.Interface {
		if sameType(p, t) {
			return true
		}
		for _, y := range t.Interfaces() {
			if sameType(p, y) || p.AssignableFrom(y) {
				return true
			}
		}
		return false
	}
	return p.AssignableFrom(t)
}

func sameType(t, u types.Type) bool {
	return t == u || t.FullName() == u.FullName()
}

func typeName(t types.Type) string {
	if t == nil {
		return types.VoidType.Name()
	}
	return t.FullName()
}

// describe returns the name and the kind of entity that e denotes,
// for error messages.
func describe(e Expression) (name, kind string) {
	switch e := e.(type) {
	case *NamespaceExpr:
		return e.Namespace.FullName(), "namespace"
	case *TypeExpr:
		return e.T.FullName(), "type"
	case *TypeParameterExpr:
		return e.T.Name(), "type parameter"
	case *VariableReference:
		return e.Var.Name, "variable"
	case *MemberExpr:
		return e.Member.Name, e.Member.Kind.String()
	case *Constant:
		return fmt.Sprint(e.Value), "value"
	}
	return e.String(), "expression"
}

// typeOperand resolves an expression that must denote a type.
func typeOperand(rc *Context, e syntax.Expr) (types.Type, Outcome) {
	out := Expr(rc, e)
	if !out.IsResolved() {
		return nil, out
	}
	switch te := out.Expr.(type) {
	case *TypeExpr:
		return te.T, out
	case *TypeParameterExpr:
		return te.T, out
	}
	name, kind := describe(out.Expr)
	rc.Error(syntax.Start(e), 118, "`%s' is a `%s' but a `type' was expected", name, kind)
	return nil, failed
}

func call(rc *Context, x *syntax.CallExpr) Outcome {
	fn := Expr(rc, x.Fn)
	if fn.IsCompletion() {
		return fn
	}
	ok := fn.IsResolved()
	for _, arg := range x.Args {
		out := Expr(rc, arg)
		if out.IsCompletion() {
			return out
		}
		ok = ok && out.IsResolved()
	}
	if !ok {
		return failed
	}
	m, isMember := fn.Expr.(*MemberExpr)
	if !isMember || m.Member.Kind != types.Method {
		name, _ := describe(fn.Expr)
		rc.Error(x.Lparen, 1955, "The member `%s' cannot be used as method or delegate", name)
		return failed
	}
	return resolved(&Invocation{Method: m, Lparen: x.Lparen})
}

// An Invocation is a resolved method call.
type Invocation struct {
	Method *MemberExpr
	Lparen syntax.Position
}

func (x *Invocation) Type() types.Type {
	if x.Method.Member.Type == nil {
		return types.VoidType
	}
	return x.Method.Member.Type
}

func (x *Invocation) Pos() syntax.Position { return x.Lparen }
func (x *Invocation) String() string       { return "call " + x.Method.Member.Name }

func newExpr(rc *Context, x *syntax.NewExpr) Outcome {
	t, out := typeOperand(rc, x.Type)
	if t == nil {
		return out
	}
	obj := &ObjectCreation{T: t, New: x.New}
	defer rc.EnterInitializer(obj)()

	ok := true
	for _, elem := range x.Elems {
		var out Outcome
		if init, isInit := elem.(*syntax.ElementInit); isInit {
			out = elementInit(rc, obj, init)
		} else {
			out = Expr(rc, elem)
		}
		if out.IsCompletion() {
			return out
		}
		ok = ok && out.IsResolved()
	}
	if !ok {
		return failed
	}
	return resolved(obj)
}

func elementInit(rc *Context, obj *ObjectCreation, init *syntax.ElementInit) Outcome {
	m, found := findMember(obj.T, init.Name.Name, NoRestrictions)
	switch {
	case !found:
		rc.Error(init.Name.NamePos, 117, "`%s' does not contain a definition for `%s'", obj.T.FullName(), init.Name.Name)
	case m.Kind&(types.Field|types.Property) == 0:
		rc.Error(init.Name.NamePos, 1913, "Member `%s.%s' cannot be initialized. An object initializer may only be used for fields, or properties",
			obj.T.FullName(), m.Name)
		found = false
	case m.Static:
		rc.Error(init.Name.NamePos, 1914, "Static field or property `%s.%s' cannot be assigned in an object initializer",
			obj.T.FullName(), m.Name)
		found = false
	}
	value := Expr(rc, init.Value)
	if value.IsCompletion() {
		return value
	}
	if !found || !value.IsResolved() {
		return failed
	}
	return resolved(&MemberExpr{Receiver: obj, Member: m, NamePos: init.Name.NamePos})
}

// lambda resolves the body of an anonymous function in a nested
// block context. Return statements in the body infer the result type.
func lambda(rc *Context, x *syntax.LambdaExpr) Outcome {
	am := &AnonymousMethod{Block: x.Body, IsIterator: x.Iterator, IsAsync: x.Async}
	bc := NewChildBlockContext(rc, x.Body, types.VoidType)
	defer bc.Set(InferReturnType).Release()
	defer bc.EnterAnonymousMethod(am)()

	if out := Block(bc, x.Body); !out.IsResolved() {
		return out
	}
	return resolved(&AnonymousMethodExpr{Method: am, Lambda: x.Lambda})
}
