// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolve binds the identifiers and member accesses of a
// syntax tree to variables, types, namespaces and members.
//
// Every resolution call receives a *Context carrying the scope flags
// of the enclosing code (checked arithmetic, unsafe, probing...), the
// current block, the current anonymous function and the target of the
// object initializer being resolved, if any. A BlockContext adds what
// statements need: a return type, the enclosing try/loop/switch, and
// the allocator of definite-assignment slots used by package flow.
//
// Resolution returns an Outcome rather than a plain value. Besides a
// resolved expression or a failure (whose diagnostics have already
// been reported), an Outcome may carry a completion request: the
// candidate names produced by a completion node. A completion outcome
// is not an error. It passes unchanged through every enclosing call,
// including speculative ones, up to the completion driver.
package resolve // import "go.resolvecore.dev/resolve"

import (
	"fmt"

	"go.resolvecore.dev/report"
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// An AnonymousMethod describes the anonymous function (lambda,
// iterator or async body) whose code is being resolved.
type AnonymousMethod struct {
	Block      *syntax.Block // parameters block of the body
	IsIterator bool
	IsAsync    bool

	// Captured lists, in first-reference order, the variables of
	// enclosing scopes that the body must access through captured
	// storage.
	Captured []*syntax.Variable
}

func (am *AnonymousMethod) capture(v *syntax.Variable) {
	for _, c := range am.Captured {
		if c == v {
			return
		}
	}
	am.Captured = append(am.Captured, v)
}

// A Context is the expression resolving context.
type Context struct {
	flags Options

	// MemberContext provides lookups; it outlives the Context.
	MemberContext MemberContext

	// CurrentBlock is the innermost block being resolved.
	CurrentBlock *syntax.Block

	// CurrentAnonymousMethod is the innermost anonymous function
	// being resolved, or nil.
	CurrentAnonymousMethod *AnonymousMethod

	// CurrentInitializerVariable is the object being initialized by
	// the enclosing object or collection initializer, or nil.
	CurrentInitializerVariable Expression
}

// NewContext returns a context for resolving code of the member mc
// with the given scope flags in addition to the defaults: checked
// arithmetic if the settings ask for it, and ConstantCheckState.
func NewContext(mc MemberContext, options Options) *Context {
	if mc == nil {
		panic("resolve: nil MemberContext")
	}
	rc := &Context{MemberContext: mc, flags: options | ConstantCheckState}
	if s := mc.Module().Settings(); s != nil && s.Checked {
		rc.flags |= CheckedScope
	}
	return rc
}

func (rc *Context) Module() Module            { return rc.MemberContext.Module() }
func (rc *Context) Report() *report.Report    { return rc.Module().Report() }
func (rc *Context) Settings() *Settings       { return rc.Module().Settings() }
func (rc *Context) CurrentType() types.Type   { return rc.MemberContext.CurrentType() }
func (rc *Context) IsObsolete() bool          { return rc.MemberContext.IsObsolete() }
func (rc *Context) IsStatic() bool            { return rc.MemberContext.IsStatic() }
func (rc *Context) SignatureForError() string { return rc.MemberContext.SignatureForError() }
func (rc *Context) ConstantCheckState() bool  { return rc.flags&ConstantCheckState != 0 }
func (rc *Context) IsInProbingMode() bool     { return rc.flags&ProbingMode != 0 }

func (rc *Context) CurrentTypeParameters() []types.Type {
	return rc.MemberContext.CurrentTypeParameters()
}

func (rc *Context) CurrentMemberDefinition() MemberDefinition {
	return rc.MemberContext.CurrentMemberDefinition()
}

// ConstructorBlock returns the explicit block enclosing the current block.
func (rc *Context) ConstructorBlock() *syntax.Block { return rc.CurrentBlock.Explicit() }

// IsUnsafe reports whether unsafe code is permitted, either by an
// enclosing unsafe block or by the member itself.
func (rc *Context) IsUnsafe() bool {
	return rc.HasSet(UnsafeScope) || rc.MemberContext.IsUnsafe()
}

// IsVariableCapturingRequired reports whether variable references
// must record their capture. Speculative resolution must not.
func (rc *Context) IsVariableCapturingRequired() bool {
	return !rc.IsInProbingMode()
}

// CurrentIterator returns the enclosing anonymous function if it is an
// iterator, and nil otherwise.
func (rc *Context) CurrentIterator() *AnonymousMethod {
	if am := rc.CurrentAnonymousMethod; am != nil && am.IsIterator {
		return am
	}
	return nil
}

func (rc *Context) LookupExtensionMethod(name string, arity int, nameIsPrefix bool) []*types.ExtensionMethod {
	return rc.MemberContext.LookupExtensionMethod(name, arity, nameIsPrefix)
}

func (rc *Context) LookupNamespaceOrType(name string, arity int, mode LookupMode, pos syntax.Position) types.Entity {
	return rc.MemberContext.LookupNamespaceOrType(name, arity, mode, pos)
}

func (rc *Context) LookupNamespaceAlias(name string) types.Entity {
	return rc.MemberContext.LookupNamespaceAlias(name)
}

// MustCaptureVariable reports whether a reference to v from the
// current position must go through captured storage. It has no side
// effects, so it may be asked during probing.
func (rc *Context) MustCaptureVariable(v *syntax.Variable) bool {
	am := rc.CurrentAnonymousMethod
	if am == nil {
		return false
	}

	// An iterator captures its parameters and every variable whose
	// block may be suspended by a yield.
	if am.IsIterator {
		return v.IsParameter || v.Block.HasYield()
	}

	outer := v.Block.ParametersBlock() != rc.CurrentBlock.ParametersBlock().Original()

	// An async body also captures what lives across an await.
	if am.IsAsync {
		return v.IsParameter || v.Block.HasAwait() || rc.CurrentBlock.HasAwait() || outer
	}

	return outer
}

// Error reports an error at pos. In probing mode the error is counted
// but not shown.
func (rc *Context) Error(pos syntax.Position, code int, format string, args ...interface{}) {
	if rc.IsInProbingMode() {
		rc.Report().Suppress()
		return
	}
	rc.Report().Error(pos, code, format, args...)
}

// Warning reports a warning at pos unless probing.
func (rc *Context) Warning(pos syntax.Position, code int, format string, args ...interface{}) {
	if rc.IsInProbingMode() {
		return
	}
	rc.Report().Warning(pos, code, format, args...)
}

// Probe resolves speculatively: fn runs in probing mode, and the
// errors it causes are counted and discarded. A completion outcome is
// returned as is.
func (rc *Context) Probe(fn func() Outcome) (out Outcome, errors int) {
	defer rc.Set(ProbingMode).Release()
	before := rc.Report().Errors()
	out = fn()
	return out, rc.Report().Errors() - before
}

// EnterBlock makes b the current block until the returned function
// is called.
func (rc *Context) EnterBlock(b *syntax.Block) (restore func()) {
	old := rc.CurrentBlock
	rc.CurrentBlock = b
	return func() { rc.CurrentBlock = old }
}

// EnterAnonymousMethod makes am the current anonymous function, and
// its body the current block, until the returned function is called.
func (rc *Context) EnterAnonymousMethod(am *AnonymousMethod) (restore func()) {
	oldAM, oldBlock := rc.CurrentAnonymousMethod, rc.CurrentBlock
	rc.CurrentAnonymousMethod, rc.CurrentBlock = am, am.Block
	return func() { rc.CurrentAnonymousMethod, rc.CurrentBlock = oldAM, oldBlock }
}

// EnterInitializer makes v the object under initialization until the
// returned function is called.
func (rc *Context) EnterInitializer(v Expression) (restore func()) {
	old := rc.CurrentInitializerVariable
	rc.CurrentInitializerVariable = v
	return func() { rc.CurrentInitializerVariable = old }
}

func (rc *Context) String() string {
	return fmt.Sprintf("resolve.Context{%s, flags=%s}", rc.SignatureForError(), rc.flags)
}
