// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file reads function bodies written in a small statement
// language, enough to exercise the resolver and the flow analysis:
//
//	body     = { stmt }
//	stmt     = block
//	         | "if" "(" expr ")" embedded [ "else" embedded ]
//	         | "while" "(" expr ")" embedded
//	         | "switch" "(" expr ")" "{" { clause } "}"
//	         | "try" block [ "catch" block ] [ "finally" block ]
//	         | "goto" IDENT ";" | "break" ";" | "continue" ";"
//	         | "return" [ expr ] ";"
//	         | IDENT ":"
//	         | dotted IDENT [ "=" expr ] ";"
//	         | expr [ "=" expr ] ";"
//	clause   = ( "case" expr | "default" ) ":" { stmt }
//	expr     = unary { ( "||" | "&&" | "==" | "!=" ) unary }
//	unary    = "!" unary | primary
//	primary  = operand { "." IDENT | "(" [ arg { "," arg } ] ")" }
//	arg      = "out" IDENT | expr
//	operand  = IDENT | INT | STRING | "true" | "false" | "null" | "(" expr ")"
//	         | "new" dotted "{" [ IDENT "=" expr { "," IDENT "=" expr } ] "}"
//	         | [ "async" ] "delegate" "(" [ dotted IDENT { "," dotted IDENT } ] ")" block
//
// Comments start with // and run to the end of the line.
// Declared variables and parameters get a TypeExpr and no Type.

// ParseBody parses the statements of a function body and appends them
// to body, which must be a parameters block.
func ParseBody(filename, src string, body *Block) (err error) {
	if !body.IsParametersBlock() {
		panic("syntax: ParseBody on a block without parameters")
	}
	r := &bodyReader{queryReader{sc: newScanner(filename, src)}, body}
	defer r.sc.recover(&err)
	r.nextToken()
	if !body.Lbrace.IsValid() {
		body.Lbrace = r.tokval.pos
	}
	for r.tok != EOF {
		body.Add(r.stmt())
	}
	body.Rbrace = r.tokval.pos
	return nil
}

type bodyReader struct {
	queryReader
	block *Block // innermost enclosing block
}

// enter makes b the current block until the returned function is
// called.
func (r *bodyReader) enter(b *Block) (restore func()) {
	old := r.block
	r.block = b
	return func() { r.block = old }
}

func (r *bodyReader) stmt() Stmt {
	switch r.tok {
	case LBRACE:
		return r.braced(NewExplicitBlock(r.block, r.tokval.pos))
	case IF:
		s := &IfStmt{If: r.nextToken()}
		s.Cond = r.paren()
		s.True = r.embedded()
		if r.tok == ELSE {
			r.nextToken()
			s.False = r.embedded()
		}
		return s
	case WHILE:
		s := &WhileStmt{While: r.nextToken()}
		s.Cond = r.paren()
		s.Body = r.embedded()
		return s
	case SWITCH:
		return r.switchStmt()
	case TRY:
		s := &TryStmt{Try: r.nextToken()}
		s.Body = r.braced(NewExplicitBlock(r.block, r.tokval.pos))
		if r.tok == CATCH {
			r.nextToken()
			s.Catch = r.braced(NewExplicitBlock(r.block, r.tokval.pos))
		}
		if r.tok == FINALLY {
			r.nextToken()
			s.Finally = r.braced(NewExplicitBlock(r.block, r.tokval.pos))
		}
		if s.Catch == nil && s.Finally == nil {
			r.sc.errorf(r.tokval.pos, "got %#v, want catch or finally", r.tok)
		}
		return s
	case GOTO:
		s := &GotoStmt{Goto: r.nextToken(), Label: r.ident()}
		r.consume(SEMI)
		return s
	case BREAK, CONTINUE:
		tok := r.tok
		s := &BranchStmt{Token: tok, TokenPos: r.nextToken()}
		r.consume(SEMI)
		return s
	case RETURN:
		s := &ReturnStmt{Return: r.nextToken()}
		if r.tok != SEMI {
			s.Result = r.expr()
		}
		r.consume(SEMI)
		return s
	}

	x := r.primary()
	if id, ok := x.(*Ident); ok && r.tok == COLON {
		return &LabeledStmt{Label: id, Colon: r.nextToken()}
	}
	if r.tok == IDENT && isDotted(x) {
		name := r.ident()
		var init Expr
		if r.tok == EQ {
			r.nextToken()
			init = r.expr()
		}
		r.consume(SEMI)
		d := r.block.Declare(name.Name, name.NamePos, nil, init)
		d.Var.TypeExpr = x
		return d
	}
	x = r.binary(x, 1)
	if r.tok == EQ {
		s := &AssignStmt{LHS: x, OpPos: r.nextToken()}
		s.RHS = r.expr()
		r.consume(SEMI)
		return s
	}
	r.consume(SEMI)
	return &ExprStmt{X: x}
}

// braced reads a braced block into b.
func (r *bodyReader) braced(b *Block) *Block {
	defer r.enter(b)()
	r.consume(LBRACE)
	for r.tok != RBRACE {
		if r.tok == EOF {
			r.sc.errorf(r.tokval.pos, "got %#v, want '}'", r.tok)
		}
		b.Add(r.stmt())
	}
	b.Rbrace = r.nextToken()
	return b
}

// embedded reads the body of an if or while statement: a braced
// block, or a single statement in a block of its own.
func (r *bodyReader) embedded() *Block {
	if r.tok == LBRACE {
		return r.braced(NewExplicitBlock(r.block, r.tokval.pos))
	}
	b := NewBlock(r.block, r.tokval.pos)
	defer r.enter(b)()
	s := r.stmt()
	b.Add(s)
	b.Rbrace = End(s)
	return b
}

func (r *bodyReader) switchStmt() *SwitchStmt {
	s := &SwitchStmt{Switch: r.nextToken()}
	s.Tag = r.paren()
	r.consume(LBRACE)
	for r.tok == CASE || r.tok == DEFAULT {
		tok := r.tok
		c := &CaseClause{Case: r.nextToken()}
		if tok == CASE {
			c.Values = []Expr{r.expr()}
		}
		r.consume(COLON)
		c.Body = NewBlock(r.block, r.tokval.pos)
		restore := r.enter(c.Body)
		for r.tok != CASE && r.tok != DEFAULT && r.tok != RBRACE {
			if r.tok == EOF {
				r.sc.errorf(r.tokval.pos, "got %#v, want '}'", r.tok)
			}
			c.Body.Add(r.stmt())
		}
		restore()
		c.Body.Rbrace = r.tokval.pos
		s.Cases = append(s.Cases, c)
	}
	s.Rbrace = r.consume(RBRACE)
	return s
}

func (r *bodyReader) paren() Expr {
	r.consume(LPAREN)
	x := r.expr()
	r.consume(RPAREN)
	return x
}

func (r *bodyReader) expr() Expr { return r.binary(r.unary(), 1) }

var precedence = map[Token]int{
	OROR:   1,
	ANDAND: 2,
	EQL:    3,
	NEQ:    3,
}

// binary parses the binary operators of precedence at least prec that
// follow the operand x.
func (r *bodyReader) binary(x Expr, prec int) Expr {
	for {
		op := r.tok
		p := precedence[op]
		if p == 0 || p < prec {
			return x
		}
		pos := r.nextToken()
		y := r.unary()
		for precedence[r.tok] > p {
			y = r.binary(y, precedence[r.tok])
		}
		x = &BinaryExpr{X: x, OpPos: pos, Op: op, Y: y}
	}
}

func (r *bodyReader) unary() Expr {
	if r.tok == NOT {
		pos := r.nextToken()
		return &UnaryExpr{OpPos: pos, Op: NOT, X: r.unary()}
	}
	return r.primary()
}

func (r *bodyReader) primary() Expr {
	x := r.operand()
	for {
		switch r.tok {
		case DOT:
			dot := r.nextToken()
			x = &DotExpr{X: x, Dot: dot, Name: r.ident()}
		case LPAREN:
			call := &CallExpr{Fn: x, Lparen: r.nextToken()}
			for r.tok != RPAREN {
				if len(call.Args) > 0 {
					r.consume(COMMA)
				}
				if r.tok == OUT {
					call.Args = append(call.Args, &OutExpr{Out: r.nextToken(), X: r.ident()})
				} else {
					call.Args = append(call.Args, r.expr())
				}
			}
			call.Rparen = r.nextToken()
			x = call
		default:
			return x
		}
	}
}

func (r *bodyReader) operand() Expr {
	switch r.tok {
	case IDENT:
		id := r.ident()
		if id.Name == "async" && r.tok == DELEGATE {
			lambda := r.delegate()
			lambda.Lambda = id.NamePos
			lambda.Async = true
			return lambda
		}
		return id
	case DELEGATE:
		return r.delegate()
	case LPAREN:
		return r.paren()
	case NEW:
		x := &NewExpr{New: r.nextToken()}
		x.Type = r.dotted()
		x.Lbrace = r.consume(LBRACE)
		for r.tok != RBRACE {
			if len(x.Elems) > 0 {
				r.consume(COMMA)
			}
			name := r.ident()
			eq := r.consume(EQ)
			x.Elems = append(x.Elems, &ElementInit{Name: name, Eq: eq, Value: r.expr()})
		}
		x.Rbrace = r.nextToken()
		return x
	}
	return r.queryReader.operand()
}

// delegate reads an anonymous method. Its body is a parameters block
// nested in the current block.
func (r *bodyReader) delegate() *LambdaExpr {
	x := &LambdaExpr{Lambda: r.nextToken()}
	r.consume(LPAREN)
	type param struct {
		typ  Expr
		name *Ident
	}
	var params []param
	for r.tok != RPAREN {
		if len(params) > 0 {
			r.consume(COMMA)
		}
		typ := r.dotted()
		params = append(params, param{typ, r.ident()})
	}
	r.nextToken()

	x.Body = NewParametersBlock(r.block, r.tokval.pos)
	for _, p := range params {
		v := x.Body.AddParameter(p.name.Name, p.name.NamePos, nil)
		v.TypeExpr = p.typ
	}
	r.braced(x.Body)
	return x
}

// isDotted reports whether x is a possibly qualified name.
func isDotted(x Expr) bool {
	for {
		switch e := x.(type) {
		case *Ident:
			return true
		case *DotExpr:
			x = e.X
		default:
			return false
		}
	}
}
