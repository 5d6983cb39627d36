// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// A CloneContext remaps references while a subtree is duplicated.
//
// Blocks are cloned by Block.Clone, and nodes that refer to a block
// (a branch statement's loop, a variable's declaring block) must point
// at the clone rather than the original. Each block is registered
// exactly once, before its children are cloned, so back-references to
// an ancestor being cloned resolve to that ancestor's clone.
type CloneContext struct {
	blocks map[*Block]*Block
	vars   map[*Variable]*Variable
	labels map[*LabeledStmt]*LabeledStmt
}

func NewCloneContext() *CloneContext {
	return &CloneContext{
		blocks: make(map[*Block]*Block),
		vars:   make(map[*Variable]*Variable),
		labels: make(map[*LabeledStmt]*LabeledStmt),
	}
}

// AddBlockMap records that to is the clone of from.
// It panics if from was already registered.
func (cc *CloneContext) AddBlockMap(from, to *Block) {
	if _, ok := cc.blocks[from]; ok {
		panic("syntax: block cloned twice")
	}
	cc.blocks[from] = to
}

// LookupBlock returns the clone of from, cloning it now if needed.
func (cc *CloneContext) LookupBlock(from *Block) *Block {
	if from == nil {
		return nil
	}
	if to, ok := cc.blocks[from]; ok {
		return to
	}
	return from.Clone(cc)
}

// RemapBlockCopy returns the clone of from if one has been made,
// and from itself otherwise.
func (cc *CloneContext) RemapBlockCopy(from *Block) *Block {
	if to, ok := cc.blocks[from]; ok {
		return to
	}
	return from
}

// RemapVariable returns the clone of v if its declaring block has been
// cloned, and v itself otherwise.
func (cc *CloneContext) RemapVariable(v *Variable) *Variable {
	if to, ok := cc.vars[v]; ok {
		return to
	}
	return v
}

// Clone returns a deep copy of b registered in cc.
// The parent of the copy is the parent's clone if the parent is being
// cloned too, and the original parent otherwise.
func (b *Block) Clone(cc *CloneContext) *Block {
	nb := &Block{Lbrace: b.Lbrace, Rbrace: b.Rbrace, flags: b.flags}
	cc.AddBlockMap(b, nb)

	if b.Parent != nil {
		nb.Parent = cc.RemapBlockCopy(b.Parent)
	}
	if b.explicit == b {
		nb.explicit = nb
	} else {
		nb.explicit = cc.RemapBlockCopy(b.explicit)
	}
	if b.params == b {
		nb.params = nb
		nb.original = b.original
	} else {
		nb.params = cc.RemapBlockCopy(b.params)
	}

	for _, v := range b.Vars {
		nv := *v
		nv.Block = nb
		nv.Scope = UndefinedScope
		nv.TypeExpr = CloneExpr(cc, v.TypeExpr)
		cc.vars[v] = &nv
		nb.Vars = append(nb.Vars, &nv)
	}
	// Labels first, so that forward gotos find their clone.
	for _, s := range b.Stmts {
		if l, ok := s.(*LabeledStmt); ok {
			cc.labels[l] = &LabeledStmt{Label: cloneIdent(cc, l.Label), Colon: l.Colon}
		}
	}
	for _, s := range b.Stmts {
		nb.Stmts = append(nb.Stmts, cloneStmt(cc, s))
	}
	return nb
}

func cloneStmt(cc *CloneContext, s Stmt) Stmt {
	switch s := s.(type) {
	case *AssignStmt:
		return &AssignStmt{LHS: CloneExpr(cc, s.LHS), OpPos: s.OpPos, RHS: CloneExpr(cc, s.RHS)}
	case *Block:
		return cc.LookupBlock(s)
	case *BranchStmt:
		c := *s
		c.Loop = cc.RemapBlockCopy(s.Loop)
		return &c
	case *DeclStmt:
		return &DeclStmt{Var: cc.RemapVariable(s.Var), Init: CloneExpr(cc, s.Init)}
	case *ExprStmt:
		return &ExprStmt{X: CloneExpr(cc, s.X)}
	case *GotoStmt:
		c := &GotoStmt{Goto: s.Goto, Label: cloneIdent(cc, s.Label), Target: s.Target}
		if t, ok := cc.labels[s.Target]; ok {
			c.Target = t
		}
		return c
	case *IfStmt:
		return &IfStmt{
			If:    s.If,
			Cond:  CloneExpr(cc, s.Cond),
			True:  cc.LookupBlock(s.True),
			False: cc.LookupBlock(s.False),
		}
	case *LabeledStmt:
		return cc.labels[s]
	case *ReturnStmt:
		return &ReturnStmt{Return: s.Return, Result: CloneExpr(cc, s.Result)}
	case *SwitchStmt:
		c := &SwitchStmt{Switch: s.Switch, Tag: CloneExpr(cc, s.Tag), Rbrace: s.Rbrace}
		for _, cl := range s.Cases {
			c.Cases = append(c.Cases, &CaseClause{
				Case:   cl.Case,
				Values: cloneExprs(cc, cl.Values),
				Body:   cc.LookupBlock(cl.Body),
			})
		}
		return c
	case *TryStmt:
		return &TryStmt{
			Try:     s.Try,
			Body:    cc.LookupBlock(s.Body),
			Catch:   cc.LookupBlock(s.Catch),
			Finally: cc.LookupBlock(s.Finally),
		}
	case *WhileStmt:
		return &WhileStmt{While: s.While, Cond: CloneExpr(cc, s.Cond), Body: cc.LookupBlock(s.Body)}
	}
	panic("syntax: unexpected statement type")
}

// CloneExpr returns a deep copy of e, remapping variables and blocks
// through cc. It returns nil for a nil expression.
func CloneExpr(cc *CloneContext, e Expr) Expr {
	switch e := e.(type) {
	case nil:
		return nil
	case *BinaryExpr:
		return &BinaryExpr{X: CloneExpr(cc, e.X), OpPos: e.OpPos, Op: e.Op, Y: CloneExpr(cc, e.Y)}
	case *CallExpr:
		return &CallExpr{Fn: CloneExpr(cc, e.Fn), Lparen: e.Lparen, Args: cloneExprs(cc, e.Args), Rparen: e.Rparen}
	case *CompletionElementInitializer:
		c := *e
		return &c
	case *CompletionMemberAccess:
		return &CompletionMemberAccess{
			X:        CloneExpr(cc, e.X),
			Dot:      e.Dot,
			Partial:  e.Partial,
			TypeArgs: cloneExprs(cc, e.TypeArgs),
		}
	case *CompletionName:
		c := *e
		return &c
	case *DotExpr:
		return &DotExpr{X: CloneExpr(cc, e.X), Dot: e.Dot, Name: cloneIdent(cc, e.Name)}
	case *ElementInit:
		return &ElementInit{Name: cloneIdent(cc, e.Name), Eq: e.Eq, Value: CloneExpr(cc, e.Value)}
	case *EmptyCompletion:
		c := *e
		return &c
	case *Ident:
		return cloneIdent(cc, e)
	case *LambdaExpr:
		c := *e
		c.Body = cc.LookupBlock(e.Body)
		return &c
	case *Literal:
		c := *e
		return &c
	case *NewExpr:
		return &NewExpr{
			New:    e.New,
			Type:   CloneExpr(cc, e.Type),
			Lbrace: e.Lbrace,
			Elems:  cloneExprs(cc, e.Elems),
			Rbrace: e.Rbrace,
		}
	case *OutExpr:
		return &OutExpr{Out: e.Out, X: cloneIdent(cc, e.X)}
	case *UnaryExpr:
		return &UnaryExpr{OpPos: e.OpPos, Op: e.Op, X: CloneExpr(cc, e.X)}
	}
	panic("syntax: unexpected expression type")
}

func cloneExprs(cc *CloneContext, list []Expr) []Expr {
	if list == nil {
		return nil
	}
	out := make([]Expr, len(list))
	for i, e := range list {
		out[i] = CloneExpr(cc, e)
	}
	return out
}

func cloneIdent(cc *CloneContext, id *Ident) *Ident {
	if id == nil {
		return nil
	}
	c := &Ident{NamePos: id.NamePos, Name: id.Name}
	if id.Var != nil {
		c.Var = cc.RemapVariable(id.Var)
	}
	return c
}
