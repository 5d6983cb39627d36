// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// A BlockContext is the context for resolving the statements of a
// block. In addition to a Context it knows the return type of the
// enclosing function and which try, loop and switch statements
// enclose the statement being resolved.
type BlockContext struct {
	*Context

	returnType types.Type

	// AssignmentInfoOffset is the number of definite-assignment slots
	// allocated so far. It never decreases.
	AssignmentInfoOffset int

	CurrentTryBlock       *syntax.TryStmt // innermost try with a finally, or nil
	CurrentTryCatch       *syntax.TryStmt // innermost try with a catch, or nil
	EnclosingLoop         *syntax.WhileStmt
	EnclosingLoopOrSwitch syntax.Stmt // *syntax.WhileStmt or *syntax.SwitchStmt
	Switch                *syntax.SwitchStmt

	// Number of finally clauses enclosing the statement, and enclosing
	// the targets of continue and break.
	finallyDepth, loopFinallyDepth, breakFinallyDepth int
}

// NewBlockContext returns the context for resolving block, a body of
// the member mc. It panics if returnType is nil; a function without a
// result has return type types.VoidType.
func NewBlockContext(mc MemberContext, block *syntax.Block, returnType types.Type) *BlockContext {
	if returnType == nil {
		panic("resolve: nil return type")
	}
	bc := &BlockContext{Context: NewContext(mc, 0), returnType: returnType}
	bc.CurrentBlock = block
	return bc
}

// NewChildBlockContext returns the context for resolving block, nested
// in the code resolved by rc. Only the flags in InheritedOptions carry
// over; the unsafe state follows rc.IsUnsafe, and ConstantCheckState
// is dropped if rc dropped it.
func NewChildBlockContext(rc *Context, block *syntax.Block, returnType types.Type) *BlockContext {
	bc := NewBlockContext(rc.MemberContext, block, returnType)
	if rc.IsUnsafe() {
		bc.flags |= UnsafeScope
	}
	if !rc.ConstantCheckState() {
		bc.flags &^= ConstantCheckState
	}
	bc.flags |= rc.flags & (InheritedOptions &^ UnsafeScope)
	return bc
}

func (bc *BlockContext) ReturnType() types.Type { return bc.returnType }

// AllocateAssignmentSlots reserves n consecutive definite-assignment
// slots and returns the first.
func (bc *BlockContext) AllocateAssignmentSlots(n int) int {
	first := bc.AssignmentInfoOffset
	bc.AssignmentInfoOffset += n
	return first
}

// EnterTry records s as the enclosing try statement while its body is
// resolved, and sets TryScope (and TryWithCatchScope if s has a catch
// clause), until the returned function is called.
func (bc *BlockContext) EnterTry(s *syntax.TryStmt) (restore func()) {
	oldTry, oldCatch := bc.CurrentTryBlock, bc.CurrentTryCatch
	if s.Finally != nil {
		bc.CurrentTryBlock = s
	}
	if s.Catch != nil {
		bc.CurrentTryCatch = s
	}
	val := TryScope
	if s.Catch != nil {
		val |= TryWithCatchScope
	}
	h := newFlagsHandle(&bc.flags, TryScope|TryWithCatchScope, val)
	return func() {
		h.Release()
		bc.CurrentTryBlock, bc.CurrentTryCatch = oldTry, oldCatch
	}
}

// EnterLoop records s as the enclosing loop until the returned
// function is called.
func (bc *BlockContext) EnterLoop(s *syntax.WhileStmt) (restore func()) {
	oldLoop, oldLS := bc.EnclosingLoop, bc.EnclosingLoopOrSwitch
	oldLoopDepth, oldBreakDepth := bc.loopFinallyDepth, bc.breakFinallyDepth
	bc.EnclosingLoop, bc.EnclosingLoopOrSwitch = s, s
	bc.loopFinallyDepth, bc.breakFinallyDepth = bc.finallyDepth, bc.finallyDepth
	return func() {
		bc.EnclosingLoop, bc.EnclosingLoopOrSwitch = oldLoop, oldLS
		bc.loopFinallyDepth, bc.breakFinallyDepth = oldLoopDepth, oldBreakDepth
	}
}

// EnterSwitch records s as the enclosing switch until the returned
// function is called. A break inside s leaves s, a continue still
// restarts the enclosing loop.
func (bc *BlockContext) EnterSwitch(s *syntax.SwitchStmt) (restore func()) {
	oldSwitch, oldLS, oldBreakDepth := bc.Switch, bc.EnclosingLoopOrSwitch, bc.breakFinallyDepth
	bc.Switch, bc.EnclosingLoopOrSwitch = s, s
	bc.breakFinallyDepth = bc.finallyDepth
	return func() {
		bc.Switch, bc.EnclosingLoopOrSwitch = oldSwitch, oldLS
		bc.breakFinallyDepth = oldBreakDepth
	}
}

// EnterFinally sets FinallyScope while a finally clause is resolved,
// until the returned function is called.
func (bc *BlockContext) EnterFinally() (restore func()) {
	h := bc.Set(FinallyScope)
	bc.finallyDepth++
	return func() {
		bc.finallyDepth--
		h.Release()
	}
}

// LeavesFinally reports whether a jump out of the innermost loop
// (continue) or loop or switch (break) would leave a finally clause.
func (bc *BlockContext) LeavesFinally(tok syntax.Token) bool {
	if tok == syntax.CONTINUE {
		return bc.finallyDepth > bc.loopFinallyDepth
	}
	return bc.finallyDepth > bc.breakFinallyDepth
}
