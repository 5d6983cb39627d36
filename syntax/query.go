// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

// This file reads completion queries: the text to the left of the
// cursor in an editor or REPL. The grammar is tiny:
//
//	query    = [ "new" dotted [ targs ] "{" { init "," } [ IDENT ] ]
//	         | dotted "." [ IDENT ] [ targs ]
//	         | [ IDENT ]
//	dotted   = IDENT { "." IDENT }
//	targs    = "<" dotted { "," dotted } [ ">" ]
//	init     = IDENT "=" operand
//	operand  = INT | STRING | "true" | "false" | "null" | dotted
//
// The result always ends in a completion node.

// ParseQuery parses a completion query and returns the expression
// whose resolution yields the completion candidates.
func ParseQuery(filename, src string) (expr Expr, err error) {
	r := &queryReader{sc: newScanner(filename, src)}
	defer r.sc.recover(&err)
	r.nextToken()
	expr = r.query()
	if r.tok != EOF {
		r.sc.errorf(r.tokval.pos, "got %#v after query, want end of query", r.tok)
	}
	return expr, nil
}

type queryReader struct {
	sc     *scanner
	tok    Token
	tokval tokenValue
}

// nextToken advances the scanner and returns the position of the
// previous token.
func (r *queryReader) nextToken() Position {
	oldpos := r.tokval.pos
	r.tok = r.sc.nextToken(&r.tokval)
	return oldpos
}

func (r *queryReader) consume(t Token) Position {
	if r.tok != t {
		r.sc.errorf(r.tokval.pos, "got %#v, want %#v", r.tok, t)
	}
	return r.nextToken()
}

func (r *queryReader) query() Expr {
	switch r.tok {
	case EOF:
		return &EmptyCompletion{Pos: r.tokval.pos}
	case NEW:
		return r.newExpr()
	}

	id := r.ident()
	if r.tok != DOT {
		return &CompletionName{NamePos: id.NamePos, Prefix: id.Name}
	}
	var x Expr = id
	for {
		dot := r.nextToken()
		if r.tok != IDENT {
			// X.|
			return &CompletionMemberAccess{X: x, Dot: dot}
		}
		name := r.ident()
		switch r.tok {
		case DOT:
			x = &DotExpr{X: x, Dot: dot, Name: name}
			continue
		case LT:
			return &CompletionMemberAccess{X: x, Dot: dot, Partial: name.Name, TypeArgs: r.typeArgs()}
		}
		return &CompletionMemberAccess{X: x, Dot: dot, Partial: name.Name}
	}
}

func (r *queryReader) newExpr() Expr {
	x := &NewExpr{New: r.nextToken()}
	x.Type = r.dotted()
	if r.tok == LT {
		// Generic arguments of the created type do not change the
		// set of initializable members.
		r.typeArgs()
	}
	x.Lbrace = r.consume(LBRACE)
	for {
		if r.tok != IDENT {
			x.Elems = append(x.Elems, &CompletionElementInitializer{NamePos: r.tokval.pos})
			break
		}
		name := r.ident()
		if r.tok != EQ {
			x.Elems = append(x.Elems, &CompletionElementInitializer{NamePos: name.NamePos, Partial: name.Name})
			break
		}
		eq := r.nextToken()
		x.Elems = append(x.Elems, &ElementInit{Name: name, Eq: eq, Value: r.operand()})
		r.consume(COMMA)
	}
	x.Rbrace = r.tokval.pos
	return x
}

func (r *queryReader) operand() Expr {
	switch r.tok {
	case INT:
		lit := &Literal{Token: INT, TokenPos: r.tokval.pos, Raw: r.tokval.raw, Value: r.tokval.int}
		r.nextToken()
		return lit
	case STRING:
		lit := &Literal{Token: STRING, TokenPos: r.tokval.pos, Raw: r.tokval.raw, Value: r.tokval.string}
		r.nextToken()
		return lit
	case TRUE, FALSE:
		lit := &Literal{Token: r.tok, TokenPos: r.tokval.pos, Raw: r.tokval.raw, Value: r.tok == TRUE}
		r.nextToken()
		return lit
	case NULL:
		lit := &Literal{Token: NULL, TokenPos: r.tokval.pos, Raw: r.tokval.raw}
		r.nextToken()
		return lit
	}
	return r.dotted()
}

func (r *queryReader) dotted() Expr {
	var x Expr = r.ident()
	for r.tok == DOT {
		dot := r.nextToken()
		x = &DotExpr{X: x, Dot: dot, Name: r.ident()}
	}
	return x
}

func (r *queryReader) typeArgs() []Expr {
	r.consume(LT)
	args := []Expr{r.dotted()}
	for r.tok == COMMA {
		r.nextToken()
		args = append(args, r.dotted())
	}
	if r.tok == GT {
		r.nextToken()
	}
	return args
}

func (r *queryReader) ident() *Ident {
	if r.tok != IDENT {
		r.sc.errorf(r.tokval.pos, "got %#v, want identifier", r.tok)
	}
	id := &Ident{NamePos: r.tokval.pos, Name: r.tokval.raw}
	r.nextToken()
	return id
}
