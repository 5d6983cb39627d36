// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"fmt"

	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// Block resolves the statements of b, after the written types of the
// variables it declares. Errors in one statement do not
// stop the resolution of the following ones; the outcome is Failed if
// any statement failed, and a completion outcome is returned as soon
// as one is produced.
func Block(bc *BlockContext, b *syntax.Block) Outcome {
	defer bc.EnterBlock(b)()

	ok := true
	for _, v := range b.Vars {
		if v.Scope == syntax.UndefinedScope {
			v.Scope = syntax.LocalScope
		}
		if v.Type == nil && v.TypeExpr != nil {
			t, out := typeOperand(bc.Context, v.TypeExpr)
			if out.IsCompletion() {
				return out
			}
			v.Type = t
			ok = ok && t != nil
		}
	}

	for _, s := range b.Stmts {
		out := stmt(bc, s)
		if out.IsCompletion() {
			return out
		}
		ok = ok && out.IsResolved()
	}
	if !ok {
		return failed
	}
	return resolved(nil)
}

func stmt(bc *BlockContext, s syntax.Stmt) Outcome {
	switch s := s.(type) {
	case *syntax.Block:
		return Block(bc, s)

	case *syntax.DeclStmt:
		if s.Init == nil {
			return resolved(nil)
		}
		return statementOf(Expr(bc.Context, s.Init))

	case *syntax.AssignStmt:
		return assign(bc, s)

	case *syntax.ExprStmt:
		switch s.X.(type) {
		case *syntax.CallExpr, *syntax.NewExpr:
		default:
			if !IsCodeless(s.X) {
				bc.Error(syntax.Start(s.X), 201, "Only assignment, call, increment, decrement, await, and new object expressions can be used as a statement")
				return failed
			}
		}
		return statementOf(Expr(bc.Context, s.X))

	case *syntax.IfStmt:
		return all(
			func() Outcome { return Expr(bc.Context, s.Cond) },
			func() Outcome { return Block(bc, s.True) },
			func() Outcome {
				if s.False == nil {
					return resolved(nil)
				}
				return Block(bc, s.False)
			})

	case *syntax.WhileStmt:
		cond := Expr(bc.Context, s.Cond)
		if cond.IsCompletion() {
			return cond
		}
		body := scoped(bc.EnterLoop(s), func() Outcome { return Block(bc, s.Body) })
		if body.IsCompletion() {
			return body
		}
		return statementOf(cond, body)

	case *syntax.SwitchStmt:
		return switchStmt(bc, s)

	case *syntax.LabeledStmt:
		return resolved(nil)

	case *syntax.GotoStmt:
		s.Target = bc.CurrentBlock.LookupLabel(s.Label.Name)
		if s.Target == nil {
			bc.Error(s.Label.NamePos, 159, "The label `%s:' could not be found within the scope of the goto statement", s.Label.Name)
			return failed
		}
		return resolved(nil)

	case *syntax.BranchStmt:
		return branch(bc, s)

	case *syntax.ReturnStmt:
		return returnStmt(bc, s)

	case *syntax.TryStmt:
		return tryStmt(bc, s)
	}
	panic(fmt.Sprintf("unexpected stmt %T", s))
}

// statementOf combines the outcomes of the parts of a statement,
// whose resolved values are of no further use.
func statementOf(outs ...Outcome) Outcome {
	for _, out := range outs {
		if out.IsCompletion() {
			return out
		}
	}
	for _, out := range outs {
		if out.IsFailed() {
			return failed
		}
	}
	return resolved(nil)
}

// scoped calls fn and then restore, however fn returns.
func scoped(restore func(), fn func() Outcome) Outcome {
	defer restore()
	return fn()
}

// all resolves each part in turn, stopping early only for a
// completion outcome.
func all(parts ...func() Outcome) Outcome {
	outs := make([]Outcome, 0, len(parts))
	for _, part := range parts {
		out := part()
		if out.IsCompletion() {
			return out
		}
		outs = append(outs, out)
	}
	return statementOf(outs...)
}

func assign(bc *BlockContext, s *syntax.AssignStmt) Outcome {
	lhs := Expr(bc.Context, s.LHS)
	if lhs.IsCompletion() {
		return lhs
	}
	if lhs.IsResolved() {
		switch x := lhs.Expr.(type) {
		case *VariableReference:
		case *MemberExpr:
			if x.Member.Kind&(types.Field|types.Property) == 0 {
				lhs = notAssignable(bc, s)
			}
		default:
			lhs = notAssignable(bc, s)
		}
	}
	return statementOf(lhs, Expr(bc.Context, s.RHS))
}

func notAssignable(bc *BlockContext, s *syntax.AssignStmt) Outcome {
	bc.Error(syntax.Start(s.LHS), 131, "The left-hand side of an assignment must be a variable, a property or an indexer")
	return failed
}

func switchStmt(bc *BlockContext, s *syntax.SwitchStmt) Outcome {
	tag := Expr(bc.Context, s.Tag)
	if tag.IsCompletion() {
		return tag
	}
	defer bc.EnterSwitch(s)()

	outs := []Outcome{tag}
	seenDefault := false
	seen := make(map[[2]interface{}]bool) // token and value of literal labels
	for _, c := range s.Cases {
		if c.IsDefault() {
			if seenDefault {
				bc.Error(c.Case, 152, "The label `default:' already occurs in this switch statement")
				outs = append(outs, failed)
			}
			seenDefault = true
		}
		for _, v := range c.Values {
			out := Expr(bc.Context, v)
			if out.IsCompletion() {
				return out
			}
			if lit, ok := v.(*syntax.Literal); ok {
				key := [2]interface{}{lit.Token, lit.Value}
				if seen[key] {
					bc.Error(lit.TokenPos, 152, "The label `case %s:' already occurs in this switch statement", lit.Raw)
					out = failed
				}
				seen[key] = true
			}
			outs = append(outs, out)
		}
		out := Block(bc, c.Body)
		if out.IsCompletion() {
			return out
		}
		outs = append(outs, out)
	}
	return statementOf(outs...)
}

func branch(bc *BlockContext, s *syntax.BranchStmt) Outcome {
	if s.Token == syntax.CONTINUE {
		if bc.EnclosingLoop == nil {
			bc.Error(s.TokenPos, 139, "No enclosing loop out of which to break or continue")
			return failed
		}
		s.Loop = bc.EnclosingLoop.Body
		if bc.LeavesFinally(s.Token) {
			bc.Error(s.TokenPos, 157, "Control cannot leave the body of a finally clause")
			return failed
		}
		return resolved(nil)
	}

	switch target := bc.EnclosingLoopOrSwitch.(type) {
	case *syntax.WhileStmt:
		s.Loop = target.Body
	case *syntax.SwitchStmt:
		s.Loop = nil
	default:
		bc.Error(s.TokenPos, 139, "No enclosing loop out of which to break or continue")
		return failed
	}
	if bc.LeavesFinally(s.Token) {
		bc.Error(s.TokenPos, 157, "Control cannot leave the body of a finally clause")
		return failed
	}
	return resolved(nil)
}

func returnStmt(bc *BlockContext, s *syntax.ReturnStmt) Outcome {
	if bc.HasSet(FinallyScope) {
		bc.Error(s.Return, 157, "Control cannot leave the body of a finally clause")
		return failed
	}
	if s.Result == nil {
		if bc.ReturnType() != types.VoidType && !bc.HasSet(InferReturnType) {
			bc.Error(s.Return, 126, "An object of a type convertible to `%s' is required for the return statement",
				bc.ReturnType().FullName())
			return failed
		}
		return resolved(nil)
	}
	out := Expr(bc.Context, s.Result)
	if !out.IsResolved() {
		return out
	}
	if bc.ReturnType() == types.VoidType && !bc.HasSet(InferReturnType) {
		bc.Error(s.Return, 127, "`%s': A return keyword must not be followed by any expression when method returns void",
			bc.SignatureForError())
		return failed
	}
	return resolved(nil)
}

func tryStmt(bc *BlockContext, s *syntax.TryStmt) Outcome {
	body := scoped(bc.EnterTry(s), func() Outcome { return Block(bc, s.Body) })
	if body.IsCompletion() {
		return body
	}
	outs := []Outcome{body}

	if s.Catch != nil {
		out := scoped(bc.Set(CatchScope).Release, func() Outcome { return Block(bc, s.Catch) })
		if out.IsCompletion() {
			return out
		}
		outs = append(outs, out)
	}
	if s.Finally != nil {
		out := scoped(bc.EnterFinally(), func() Outcome { return Block(bc, s.Finally) })
		if out.IsCompletion() {
			return out
		}
		outs = append(outs, out)
	}
	return statementOf(outs...)
}
