// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package flow

// This file defines the statement analyzer.
//
// The analyzer walks a body in execution order, threading the live
// vector through each statement. A jump (break, continue, goto)
// records the live vector at its target and makes the following code
// unreachable; the target later resumes from the intersection of all
// vectors that reached it.
//
// Backward gotos reach labels that have already been analyzed, so a
// body that contains gotos is analyzed repeatedly, without
// diagnostics, until the vectors recorded at labels stop changing.
// A final pass then reports. The same holds for the two passes over a
// loop body: only the last one reports.

import (
	"fmt"

	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/syntax"
)

// Check analyzes body, resolved in bc, and reports reads of locals
// that are not definitely assigned and unreachable code. It returns
// the analysis context, or nil in probing mode, where nothing is
// analyzed.
func Check(bc *resolve.BlockContext, body *syntax.Block) *Context {
	if bc.IsInProbingMode() {
		return nil
	}

	a := &analyzer{bc: bc, vars: make(map[*syntax.Variable]*VariableInfo)}
	hasGoto := false
	syntax.Walk(body, func(n syntax.Node) bool {
		switch n := n.(type) {
		case *syntax.Block:
			for _, v := range n.Vars {
				if a.vars[v] == nil {
					a.vars[v] = NewVariableInfo(bc, v)
				}
			}
		case *syntax.GotoStmt:
			hasGoto = true
		}
		return true
	})

	a.length = bc.AssignmentInfoOffset
	a.fc = NewContext(bc.Report(), body.ParametersBlock(), a.length)
	a.assignParameters(body)
	entry := a.fc.DefiniteAssignment

	if hasGoto {
		for {
			a.pass(entry, body, true)
			if !a.changed {
				break
			}
		}
	}
	a.pass(entry, body, false)
	return a.fc
}

// A truth is the static value of a condition.
type truth int8

const (
	alwaysFalse truth = -1
	unknown     truth = 0
	alwaysTrue  truth = 1
)

// jumps holds the vectors that left a loop or switch by break, and
// restarted a loop by continue.
type jumps struct {
	breaks    *DefiniteAssignmentBitSet
	continues *DefiniteAssignmentBitSet
}

type analyzer struct {
	bc   *resolve.BlockContext
	fc   *Context
	vars map[*syntax.Variable]*VariableInfo

	length    int  // slots in use
	quiet     bool // suppress diagnostics
	reachable bool
	changed   bool // a backward goto added a vector to a visited label
	visited   map[*syntax.LabeledStmt]bool
	jumps     map[syntax.Stmt]*jumps
}

func (a *analyzer) pass(entry *DefiniteAssignmentBitSet, body *syntax.Block, quiet bool) {
	a.fc.BranchDefiniteAssignmentFrom(entry)
	a.quiet = quiet
	a.reachable = true
	a.changed = false
	a.visited = make(map[*syntax.LabeledStmt]bool)
	a.jumps = make(map[syntax.Stmt]*jumps)
	a.block(body)
}

func (a *analyzer) assignParameters(b *syntax.Block) {
	for _, v := range b.Vars {
		if vi := a.vars[v]; vi != nil && v.IsParameter {
			a.fc.SetVariableAssigned(vi)
		}
	}
}

func (a *analyzer) errorf(pos syntax.Position, code int, format string, args ...interface{}) {
	if !a.quiet {
		a.fc.Report().Error(pos, code, format, args...)
	}
}

// full returns a vector with every slot assigned: the state on a path
// that cannot be taken, neutral for intersection.
func (a *analyzer) full() *DefiniteAssignmentBitSet {
	if a.length == 0 {
		return Empty
	}
	return NewBitSet(a.length).SetRange(0, a.length)
}

// meet adds da to the set of vectors merged in acc.
// A nil acc stands for no vector at all.
func meet(acc, da *DefiniteAssignmentBitSet) *DefiniteAssignmentBitSet {
	if acc == nil {
		return da.Copy()
	}
	return And(acc, da)
}

// resume continues after a merge point from da, or makes the code
// unreachable if no path reached it (da == nil).
func (a *analyzer) resume(da *DefiniteAssignmentBitSet) {
	if da == nil {
		a.reachable = false
		return
	}
	a.fc.BranchDefiniteAssignmentFrom(da)
	a.reachable = true
}

// live returns the live vector if the current point is reachable, and
// nil otherwise.
func (a *analyzer) live() *DefiniteAssignmentBitSet {
	if !a.reachable {
		return nil
	}
	return a.fc.DefiniteAssignment
}

func (a *analyzer) block(b *syntax.Block) {
	defer a.bc.EnterBlock(b)()

	for _, s := range b.Stmts {
		if !a.reachable {
			switch s := s.(type) {
			case *syntax.LabeledStmt:
				// may be reached by a goto
			case *syntax.DeclStmt:
				if s.Init == nil {
					continue
				}
				a.unreachable(s)
				continue
			default:
				a.unreachable(s)
				continue
			}
		}
		a.stmt(s)
	}
}

func (a *analyzer) unreachable(s syntax.Stmt) {
	if b, ok := s.(*syntax.Block); ok && len(b.Stmts) == 0 {
		return
	}
	if !a.quiet {
		a.fc.ReportUnreachable(syntax.Start(s))
	}
}

func (a *analyzer) stmt(s syntax.Stmt) {
	switch s := s.(type) {
	case *syntax.Block:
		a.block(s)

	case *syntax.DeclStmt:
		if s.Init != nil {
			a.expr(s.Init)
			if vi := a.vars[s.Var]; vi != nil {
				a.fc.SetVariableAssigned(vi)
			}
		}

	case *syntax.AssignStmt:
		a.assign(s)

	case *syntax.ExprStmt:
		a.expr(s.X)

	case *syntax.IfStmt:
		a.ifStmt(s)

	case *syntax.WhileStmt:
		a.whileStmt(s)

	case *syntax.SwitchStmt:
		a.switchStmt(s)

	case *syntax.LabeledStmt:
		a.labeled(s)

	case *syntax.GotoStmt:
		if s.Target != nil && !a.fc.AddReachedLabel(s.Target) && a.visited[s.Target] {
			a.changed = true
		}
		a.reachable = false

	case *syntax.BranchStmt:
		a.branch(s)

	case *syntax.ReturnStmt:
		if s.Result != nil {
			a.expr(s.Result)
		}
		a.reachable = false

	case *syntax.TryStmt:
		a.tryStmt(s)

	default:
		panic(fmt.Sprintf("unexpected stmt %T", s))
	}
}

func (a *analyzer) assign(s *syntax.AssignStmt) {
	switch lhs := s.LHS.(type) {
	case *syntax.Ident:
		a.expr(s.RHS)
		if vi := a.vars[lhs.Var]; lhs.Var != nil && vi != nil {
			a.fc.SetVariableAssigned(vi)
		}
		return

	case *syntax.DotExpr:
		if vi, field := a.structField(lhs); vi != nil {
			a.expr(s.RHS)
			a.fc.SetStructFieldAssigned(vi, field)
			return
		}
	}
	a.expr(s.LHS)
	a.expr(s.RHS)
}

// structField returns the variable and field name of x if x selects a
// separately tracked field of a local.
func (a *analyzer) structField(x *syntax.DotExpr) (*VariableInfo, string) {
	id, ok := x.X.(*syntax.Ident)
	if !ok || id.Var == nil {
		return nil, ""
	}
	vi := a.vars[id.Var]
	if vi == nil || vi.field(x.Name.Name) < 0 {
		return nil, ""
	}
	return vi, x.Name.Name
}

func (a *analyzer) ifStmt(s *syntax.IfStmt) {
	t := a.cond(s.Cond)
	onTrue, onFalse := a.fc.DefiniteAssignmentOnTrue, a.fc.DefiniteAssignmentOnFalse
	reachable := a.reachable

	a.fc.BranchDefiniteAssignmentFrom(onTrue)
	a.reachable = reachable && t != alwaysFalse
	a.block(s.True)
	end := a.live()

	a.fc.BranchDefiniteAssignmentFrom(onFalse)
	a.reachable = reachable && t != alwaysTrue
	if s.False != nil {
		a.block(s.False)
	}
	if da := a.live(); da != nil {
		if end == nil {
			end = da.Copy()
		} else {
			end = And(end, da)
		}
	}
	a.resume(end)
}

func (a *analyzer) whileStmt(s *syntax.WhileStmt) {
	entry := a.fc.DefiniteAssignment.Copy()
	saved := a.fc.CopyLabelStack()

	// A first, quiet pass finds the vector at the back edge; the loop
	// head is its intersection with the entry vector.
	quiet := a.quiet
	a.quiet = true
	back, _ := a.loop(s, entry)
	a.quiet = quiet
	a.fc.SetLabelStack(saved)

	head := entry
	if back != nil {
		head = And(entry, back)
	}
	_, exit := a.loop(s, head)
	a.resume(exit)
}

// loop analyzes one iteration of s starting from head, and returns
// the vectors at the back edge and at the exit (nil if not reached).
func (a *analyzer) loop(s *syntax.WhileStmt, head *DefiniteAssignmentBitSet) (back, exit *DefiniteAssignmentBitSet) {
	a.fc.BranchDefiniteAssignmentFrom(head)
	a.reachable = true
	t := a.cond(s.Cond)
	onTrue, onFalse := a.fc.DefiniteAssignmentOnTrue, a.fc.DefiniteAssignmentOnFalse

	j := &jumps{}
	a.jumps[s] = j
	defer delete(a.jumps, s)
	defer a.bc.EnterLoop(s)()

	a.fc.BranchDefiniteAssignmentFrom(onTrue)
	a.reachable = t != alwaysFalse
	a.block(s.Body)

	back = j.continues
	if da := a.live(); da != nil {
		back = meet(back, da)
	}
	exit = j.breaks
	if t != alwaysTrue {
		exit = meet(exit, onFalse)
	}
	return back, exit
}

func (a *analyzer) switchStmt(s *syntax.SwitchStmt) {
	a.expr(s.Tag)
	init := a.fc.DefiniteAssignment.Copy()

	oldInit := a.fc.SwitchInitialDefinitiveAssignment
	a.fc.SwitchInitialDefinitiveAssignment = init
	defer func() { a.fc.SwitchInitialDefinitiveAssignment = oldInit }()

	j := &jumps{}
	a.jumps[s] = j
	defer delete(a.jumps, s)
	defer a.bc.EnterSwitch(s)()

	hasDefault := false
	for _, c := range s.Cases {
		a.fc.BranchDefiniteAssignmentFrom(init)
		a.reachable = true
		for _, v := range c.Values {
			a.expr(v)
		}
		hasDefault = hasDefault || c.IsDefault()
		a.block(c.Body)
		if a.reachable {
			a.errorf(c.Case, 163, "Control cannot fall through from one case label `%s' to another", caseLabel(c))
		}
	}

	exit := j.breaks
	if !hasDefault {
		exit = meet(exit, init)
	}
	a.resume(exit)
}

func caseLabel(c *syntax.CaseClause) string {
	if c.IsDefault() {
		return "default:"
	}
	switch v := c.Values[0].(type) {
	case *syntax.Literal:
		return "case " + v.Raw + ":"
	case *syntax.Ident:
		return "case " + v.Name + ":"
	}
	return "case:"
}

func (a *analyzer) labeled(s *syntax.LabeledStmt) {
	a.visited[s] = true
	if a.reachable {
		a.fc.AddReachedLabel(s)
	}
	var da *DefiniteAssignmentBitSet
	for _, v := range a.fc.LabelVectors(s) {
		da = meet(da, v)
	}
	a.resume(da)
}

func (a *analyzer) branch(s *syntax.BranchStmt) {
	var target syntax.Stmt
	if s.Token == syntax.CONTINUE {
		if a.bc.EnclosingLoop != nil {
			target = a.bc.EnclosingLoop
		}
	} else {
		target = a.bc.EnclosingLoopOrSwitch
	}
	if j := a.jumps[target]; j != nil {
		if s.Token == syntax.CONTINUE {
			j.continues = meet(j.continues, a.fc.DefiniteAssignment)
		} else {
			j.breaks = meet(j.breaks, a.fc.DefiniteAssignment)
		}
	}
	a.reachable = false
}

func (a *analyzer) tryStmt(s *syntax.TryStmt) {
	start := a.fc.DefiniteAssignment.Copy()
	reachable := a.reachable

	func() {
		defer a.bc.EnterTry(s)()
		old := a.fc.TryFinally
		a.fc.TryFinally = a.bc.CurrentTryBlock
		defer func() { a.fc.TryFinally = old }()
		a.block(s.Body)
	}()
	var end *DefiniteAssignmentBitSet
	if da := a.live(); da != nil {
		end = da.Copy()
	}

	// The catch clause may start anywhere in the body: only what was
	// assigned before the try is certain.
	if s.Catch != nil {
		a.fc.BranchDefiniteAssignmentFrom(start)
		a.reachable = reachable
		a.block(s.Catch)
		if da := a.live(); da != nil {
			end = meet(end, da)
		}
	}

	if s.Finally == nil {
		a.resume(end)
		return
	}
	a.fc.BranchDefiniteAssignmentFrom(start)
	a.reachable = reachable
	a.block(s.Finally)
	finallyEnd := a.live()
	if end == nil || finallyEnd == nil {
		a.reachable = false
		return
	}
	a.resume(Or(end, finallyEnd))
}

// cond analyzes the condition e, setting the vectors on its true and
// false outcomes, and returns its static value.
func (a *analyzer) cond(e syntax.Expr) truth {
	fc := a.fc
	switch e := e.(type) {
	case *syntax.Literal:
		switch e.Token {
		case syntax.TRUE:
			fc.DefiniteAssignmentOnTrue = fc.DefiniteAssignment.Copy()
			fc.DefiniteAssignmentOnFalse = a.full()
			return alwaysTrue
		case syntax.FALSE:
			fc.DefiniteAssignmentOnTrue = a.full()
			fc.DefiniteAssignmentOnFalse = fc.DefiniteAssignment.Copy()
			return alwaysFalse
		}

	case *syntax.UnaryExpr:
		if e.Op == syntax.NOT {
			t := a.cond(e.X)
			fc.DefiniteAssignmentOnTrue, fc.DefiniteAssignmentOnFalse = fc.DefiniteAssignmentOnFalse, fc.DefiniteAssignmentOnTrue
			return -t
		}

	case *syntax.BinaryExpr:
		switch e.Op {
		case syntax.ANDAND:
			tx := a.cond(e.X)
			xFalse := fc.DefiniteAssignmentOnFalse
			fc.BranchDefiniteAssignmentFrom(fc.DefiniteAssignmentOnTrue)
			ty := a.cond(e.Y)
			fc.DefiniteAssignmentOnFalse = And(xFalse, fc.DefiniteAssignmentOnFalse)
			switch {
			case tx == alwaysFalse || ty == alwaysFalse:
				return alwaysFalse
			case tx == alwaysTrue && ty == alwaysTrue:
				return alwaysTrue
			}
			return unknown

		case syntax.OROR:
			tx := a.cond(e.X)
			xTrue := fc.DefiniteAssignmentOnTrue
			fc.BranchDefiniteAssignmentFrom(fc.DefiniteAssignmentOnFalse)
			ty := a.cond(e.Y)
			fc.DefiniteAssignmentOnTrue = And(xTrue, fc.DefiniteAssignmentOnTrue)
			switch {
			case tx == alwaysTrue || ty == alwaysTrue:
				return alwaysTrue
			case tx == alwaysFalse && ty == alwaysFalse:
				return alwaysFalse
			}
			return unknown
		}
	}

	a.expr(e)
	fc.DefiniteAssignmentOnTrue = fc.DefiniteAssignment
	fc.DefiniteAssignmentOnFalse = fc.DefiniteAssignment.Copy()
	return unknown
}

func (a *analyzer) expr(e syntax.Expr) {
	fc := a.fc
	switch e := e.(type) {
	case *syntax.Ident:
		a.use(e)

	case *syntax.DotExpr:
		if vi, field := a.structField(e); vi != nil {
			if !fc.IsStructFieldDefinitelyAssigned(vi, field) {
				a.errorf(e.Name.NamePos, 170, "Use of possibly unassigned field `%s'", field)
				fc.SetStructFieldAssigned(vi, field)
			}
			return
		}
		a.expr(e.X)

	case *syntax.CallExpr:
		a.expr(e.Fn)
		var outs []*syntax.Ident
		for _, arg := range e.Args {
			if out, ok := arg.(*syntax.OutExpr); ok {
				outs = append(outs, out.X)
				continue
			}
			a.expr(arg)
		}
		for _, id := range outs {
			if vi := a.vars[id.Var]; id.Var != nil && vi != nil {
				fc.SetVariableAssigned(vi)
			}
		}

	case *syntax.UnaryExpr, *syntax.BinaryExpr:
		if b, ok := e.(*syntax.BinaryExpr); ok && b.Op != syntax.ANDAND && b.Op != syntax.OROR {
			a.expr(b.X)
			a.expr(b.Y)
			return
		}
		a.cond(e)
		fc.DefiniteAssignment = And(fc.DefiniteAssignmentOnTrue, fc.DefiniteAssignmentOnFalse)

	case *syntax.NewExpr:
		for _, elem := range e.Elems {
			if init, ok := elem.(*syntax.ElementInit); ok {
				a.expr(init.Value)
			}
		}

	case *syntax.LambdaExpr:
		a.lambda(e)

	case *syntax.Literal, *syntax.OutExpr:
		// no reads

	default:
		if !syntax.IsCompletion(e) {
			panic(fmt.Sprintf("unexpected expr %T", e))
		}
	}
}

func (a *analyzer) use(id *syntax.Ident) {
	if id.Var == nil {
		return
	}
	vi := a.vars[id.Var]
	if vi == nil || a.fc.IsDefinitelyAssigned(vi) {
		return
	}
	a.errorf(id.NamePos, 165, "Use of unassigned local variable `%s'", id.Name)
	// One report per variable and path.
	a.fc.SetVariableAssigned(vi)
}

// lambda analyzes the body of an anonymous function, which may run
// whenever it is invoked: it starts from the vector where it is
// written and leaves the enclosing state unchanged.
func (a *analyzer) lambda(e *syntax.LambdaExpr) {
	fc, bc := a.fc, a.bc
	saved := fc.BranchDefiniteAssignment()
	reachable, tryFinally := a.reachable, fc.TryFinally
	loop, loopOrSwitch, sw := bc.EnclosingLoop, bc.EnclosingLoopOrSwitch, bc.Switch
	defer func() {
		fc.DefiniteAssignment = saved
		a.reachable, fc.TryFinally = reachable, tryFinally
		bc.EnclosingLoop, bc.EnclosingLoopOrSwitch, bc.Switch = loop, loopOrSwitch, sw
	}()

	fc.TryFinally = nil
	bc.EnclosingLoop, bc.EnclosingLoopOrSwitch, bc.Switch = nil, nil, nil
	a.reachable = true
	a.assignParameters(e.Body)
	a.block(e.Body)
}
