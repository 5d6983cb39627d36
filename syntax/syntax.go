// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package syntax defines the syntax tree consumed by the resolver.
//
// Parsing full source text is the job of a front end; this package
// only holds the node types, the block and variable structure that the
// resolver and flow analysis walk, and small readers for completion
// queries (ParseQuery) and function bodies (ParseBody).
package syntax // import "go.resolvecore.dev/syntax"

// A Node is a node in a syntax tree.
type Node interface {
	// Span returns the start and end position of the node.
	Span() (start, end Position)
}

// Start returns the start position of the node.
func Start(n Node) Position {
	start, _ := n.Span()
	return start
}

// End returns the end position of the node.
func End(n Node) Position {
	_, end := n.Span()
	return end
}

// A Stmt is a statement.
type Stmt interface {
	Node
	stmt()
}

func (*AssignStmt) stmt()  {}
func (*Block) stmt()       {}
func (*BranchStmt) stmt()  {}
func (*DeclStmt) stmt()    {}
func (*ExprStmt) stmt()    {}
func (*GotoStmt) stmt()    {}
func (*IfStmt) stmt()      {}
func (*LabeledStmt) stmt() {}
func (*ReturnStmt) stmt()  {}
func (*SwitchStmt) stmt()  {}
func (*TryStmt) stmt()     {}
func (*WhileStmt) stmt()   {}

// A DeclStmt declares a local variable, with an optional initializer:
//	T x;
//	T x = Init;
type DeclStmt struct {
	Var  *Variable
	Init Expr // may be nil
}

func (x *DeclStmt) Span() (start, end Position) {
	start = x.Var.NamePos
	if x.Init != nil {
		_, end = x.Init.Span()
	} else {
		end = start.add(x.Var.Name)
	}
	return
}

// An AssignStmt represents a simple assignment: LHS = RHS.
// LHS is an *Ident or, for a field of a struct local, a *DotExpr.
type AssignStmt struct {
	LHS   Expr
	OpPos Position
	RHS   Expr
}

func (x *AssignStmt) Span() (start, end Position) {
	start, _ = x.LHS.Span()
	_, end = x.RHS.Span()
	return
}

// An ExprStmt is an expression evaluated for its effects.
type ExprStmt struct {
	X Expr
}

func (x *ExprStmt) Span() (start, end Position) {
	return x.X.Span()
}

// An IfStmt is a conditional: if (Cond) True else False.
type IfStmt struct {
	If    Position
	Cond  Expr
	True  *Block
	False *Block // optional
}

func (x *IfStmt) Span() (start, end Position) {
	body := x.False
	if body == nil {
		body = x.True
	}
	_, end = body.Span()
	return x.If, end
}

// A WhileStmt is a loop: while (Cond) Body.
type WhileStmt struct {
	While Position
	Cond  Expr
	Body  *Block
}

func (x *WhileStmt) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.While, end
}

// A LabeledStmt marks a goto target: Label:
type LabeledStmt struct {
	Label *Ident
	Colon Position
}

func (x *LabeledStmt) Span() (start, end Position) {
	return x.Label.NamePos, x.Colon.add(":")
}

// A GotoStmt jumps to a label in an enclosing block.
type GotoStmt struct {
	Goto  Position
	Label *Ident

	// set by resolver:
	Target *LabeledStmt
}

func (x *GotoStmt) Span() (start, end Position) {
	return x.Goto, End(x.Label)
}

// A BranchStmt leaves or restarts the innermost loop: break, continue.
type BranchStmt struct {
	Token    Token // = BREAK | CONTINUE
	TokenPos Position

	// Loop is the body block of the loop the statement leaves or
	// restarts; nil for a break out of a switch. Set by the resolver.
	Loop *Block
}

func (x *BranchStmt) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Token.String())
}

// A ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	Return Position
	Result Expr // may be nil
}

func (x *ReturnStmt) Span() (start, end Position) {
	if x.Result == nil {
		return x.Return, x.Return.add("return")
	}
	_, end = x.Result.Span()
	return x.Return, end
}

// A SwitchStmt selects one of its cases by the value of Tag.
// Cases do not fall through: each body ends in break, return or goto.
type SwitchStmt struct {
	Switch Position
	Tag    Expr
	Cases  []*CaseClause
	Rbrace Position
}

func (x *SwitchStmt) Span() (start, end Position) {
	return x.Switch, x.Rbrace.add("}")
}

// A CaseClause is one case of a SwitchStmt.
// Values is empty for the default case.
type CaseClause struct {
	Case   Position
	Values []Expr
	Body   *Block
}

func (x *CaseClause) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Case, end
}

// IsDefault reports whether c is the default case.
func (c *CaseClause) IsDefault() bool { return len(c.Values) == 0 }

// A TryStmt is try Body [catch Catch] [finally Finally].
type TryStmt struct {
	Try     Position
	Body    *Block
	Catch   *Block // optional
	Finally *Block // optional
}

func (x *TryStmt) Span() (start, end Position) {
	last := x.Body
	if x.Catch != nil {
		last = x.Catch
	}
	if x.Finally != nil {
		last = x.Finally
	}
	_, end = last.Span()
	return x.Try, end
}

// An Expr is an expression.
type Expr interface {
	Node
	expr()
}

func (*BinaryExpr) expr()                   {}
func (*CallExpr) expr()                     {}
func (*CompletionElementInitializer) expr() {}
func (*CompletionMemberAccess) expr()       {}
func (*CompletionName) expr()               {}
func (*DotExpr) expr()                      {}
func (*ElementInit) expr()                  {}
func (*EmptyCompletion) expr()              {}
func (*Ident) expr()                        {}
func (*LambdaExpr) expr()                   {}
func (*Literal) expr()                      {}
func (*NewExpr) expr()                      {}
func (*OutExpr) expr()                      {}
func (*UnaryExpr) expr()                    {}

// An Ident represents an identifier.
type Ident struct {
	NamePos Position
	Name    string

	// set by resolver:
	Var *Variable // the local variable denoted, if any
}

func (x *Ident) Span() (start, end Position) {
	return x.NamePos, x.NamePos.add(x.Name)
}

// A Literal represents a literal: a string, an integer, true, false
// or null.
type Literal struct {
	Token    Token // = STRING | INT | TRUE | FALSE | NULL
	TokenPos Position
	Raw      string      // uninterpreted text
	Value    interface{} // = string | int64 | bool | nil
}

func (x *Literal) Span() (start, end Position) {
	return x.TokenPos, x.TokenPos.add(x.Raw)
}

// A DotExpr represents a member access: X.Name.
type DotExpr struct {
	X    Expr
	Dot  Position
	Name *Ident
}

func (x *DotExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Name.Span()
	return
}

// A CallExpr represents a call: Fn(Args).
type CallExpr struct {
	Fn     Expr
	Lparen Position
	Args   []Expr
	Rparen Position
}

func (x *CallExpr) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen.add(")")
}

// An OutExpr is an argument passed by reference for output: out X.
// The callee definitely assigns X.
type OutExpr struct {
	Out Position
	X   *Ident
}

func (x *OutExpr) Span() (start, end Position) {
	return x.Out, End(x.X)
}

// A UnaryExpr represents a unary expression: Op X.
type UnaryExpr struct {
	OpPos Position
	Op    Token // = NOT
	X     Expr
}

func (x *UnaryExpr) Span() (start, end Position) {
	_, end = x.X.Span()
	return x.OpPos, end
}

// A BinaryExpr represents a binary expression: X Op Y.
type BinaryExpr struct {
	X     Expr
	OpPos Position
	Op    Token // = ANDAND | OROR | EQL | NEQ
	Y     Expr
}

func (x *BinaryExpr) Span() (start, end Position) {
	start, _ = x.X.Span()
	_, end = x.Y.Span()
	return start, end
}

// A LambdaExpr represents an anonymous function. Iterator and Async
// record whether the body suspends with yield or await.
type LambdaExpr struct {
	Lambda   Position
	Body     *Block // a parameters block
	Iterator bool
	Async    bool
}

func (x *LambdaExpr) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Lambda, end
}

// A NewExpr is an object creation with an initializer:
//	new Type { Elems }
type NewExpr struct {
	New    Position
	Type   Expr
	Lbrace Position
	Elems  []Expr // *ElementInit or a completion node
	Rbrace Position
}

func (x *NewExpr) Span() (start, end Position) {
	return x.New, x.Rbrace.add("}")
}

// An ElementInit is a member initializer inside a NewExpr: Name = Value.
type ElementInit struct {
	Name  *Ident
	Eq    Position
	Value Expr
}

func (x *ElementInit) Span() (start, end Position) {
	start, _ = x.Name.Span()
	_, end = x.Value.Span()
	return
}
