// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import "go.resolvecore.dev/types"

// blockFlags records structural facts about a block.
type blockFlags uint8

const (
	explicitBlock   blockFlags = 1 << iota // has its own braces
	parametersBlock                        // owns a parameter list (method or lambda body)
	hasYield                               // contains a yield
	hasAwait                               // contains an await
)

// A Block is a statement block. Blocks form a tree through Parent.
//
// Every block belongs to an explicit block (one written with braces;
// possibly itself) and to a parameters block, the body of the
// innermost enclosing method or anonymous function. A parameters block
// produced by cloning remembers the block it was cloned from in
// Original, so that cloned and uncloned code agree on which parameter
// scope a variable belongs to.
type Block struct {
	Lbrace Position
	Rbrace Position
	Parent *Block
	Stmts  []Stmt
	Vars   []*Variable // declared directly in this block, parameters first

	flags    blockFlags
	explicit *Block
	params   *Block
	original *Block
}

// NewParametersBlock returns the body block of a method or anonymous
// function. parent is nil for a method body.
func NewParametersBlock(parent *Block, lbrace Position) *Block {
	b := &Block{Lbrace: lbrace, Parent: parent, flags: explicitBlock | parametersBlock}
	b.explicit, b.params, b.original = b, b, b
	return b
}

// NewExplicitBlock returns a braced block nested in parent.
func NewExplicitBlock(parent *Block, lbrace Position) *Block {
	b := &Block{Lbrace: lbrace, Parent: parent, flags: explicitBlock}
	b.explicit, b.params = b, parent.params
	return b
}

// NewBlock returns an implicit block nested in parent,
// such as the scope of a single embedded statement.
func NewBlock(parent *Block, start Position) *Block {
	return &Block{
		Lbrace:   start,
		Parent:   parent,
		explicit: parent.explicit,
		params:   parent.params,
	}
}

func (b *Block) Span() (start, end Position) {
	return b.Lbrace, b.Rbrace
}

// Explicit returns the innermost explicit block containing b.
func (b *Block) Explicit() *Block { return b.explicit }

// ParametersBlock returns the body block of the method or anonymous
// function containing b.
func (b *Block) ParametersBlock() *Block { return b.params }

// Original returns, for a parameters block, the block it was
// ultimately cloned from (itself if never cloned). It is nil for other
// blocks.
func (b *Block) Original() *Block { return b.original }

func (b *Block) IsExplicit() bool        { return b.flags&explicitBlock != 0 }
func (b *Block) IsParametersBlock() bool { return b.flags&parametersBlock != 0 }

// HasYield reports whether the explicit block of b, or one of its
// ancestors within the same function, contains a yield.
func (b *Block) HasYield() bool { return b.anyExplicit(hasYield) }

// HasAwait is like HasYield for await.
func (b *Block) HasAwait() bool { return b.anyExplicit(hasAwait) }

func (b *Block) anyExplicit(f blockFlags) bool {
	for e := b.explicit; e != nil; e = e.Parent {
		if e.flags&f != 0 {
			return true
		}
		if e.IsParametersBlock() {
			break
		}
	}
	return false
}

// MarkYield records that a yield occurs in b.
func (b *Block) MarkYield() { b.explicit.flags |= hasYield }

// MarkAwait records that an await occurs in b.
func (b *Block) MarkAwait() { b.explicit.flags |= hasAwait }

// AddParameter declares a parameter of the parameters block b.
func (b *Block) AddParameter(name string, pos Position, t types.Type) *Variable {
	if !b.IsParametersBlock() {
		panic("syntax: AddParameter on a block without parameters")
	}
	v := &Variable{Name: name, NamePos: pos, Type: t, Block: b, IsParameter: true}
	b.Vars = append(b.Vars, v)
	return v
}

// Declare declares a local variable in b and returns its declaration
// statement, which the caller places in b.Stmts.
func (b *Block) Declare(name string, pos Position, t types.Type, init Expr) *DeclStmt {
	v := &Variable{Name: name, NamePos: pos, Type: t, Block: b}
	b.Vars = append(b.Vars, v)
	return &DeclStmt{Var: v, Init: init}
}

// Add appends statements to b.
func (b *Block) Add(stmts ...Stmt) *Block {
	b.Stmts = append(b.Stmts, stmts...)
	return b
}

// Lookup returns the variable called name visible from b,
// searching enclosing blocks, including those of enclosing functions.
func (b *Block) Lookup(name string) *Variable {
	for s := b; s != nil; s = s.Parent {
		for _, v := range s.Vars {
			if v.Name == name {
				return v
			}
		}
	}
	return nil
}

// LookupLabel returns the labeled statement called name visible from
// b. Labels are not visible across function boundaries.
func (b *Block) LookupLabel(name string) *LabeledStmt {
	for s := b; s != nil; s = s.Parent {
		for _, stmt := range s.Stmts {
			if l, ok := stmt.(*LabeledStmt); ok && l.Label.Name == name {
				return l
			}
		}
		if s.IsParametersBlock() {
			break
		}
	}
	return nil
}
