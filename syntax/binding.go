package syntax

import "go.resolvecore.dev/types"

// This file defines resolver data types referenced by the syntax tree.
// We cannot guarantee API stability for these types
// as they are closely tied to the implementation.

// A Variable is a local variable or parameter declared in a Block.
// All identifiers that denote it share the same *Variable.
type Variable struct {
	Name        string
	NamePos     Position
	Type        types.Type
	Block       *Block // declaring block
	IsParameter bool

	// TypeExpr is the written type of a variable declared by a parser,
	// which leaves Type nil for the resolver to set.
	TypeExpr Expr

	// set by resolver:
	Scope Scope
}

// The Scope of a Variable indicates how it is stored.
type Scope uint8

const (
	UndefinedScope Scope = iota // not yet resolved
	LocalScope                  // name is local to its function
	CellScope                   // name is local but captured by a nested function
	FreeScope                   // name is a cell of some enclosing function
)

var scopeNames = [...]string{
	UndefinedScope: "undefined",
	LocalScope:     "local",
	CellScope:      "cell",
	FreeScope:      "free",
}

func (scope Scope) String() string { return scopeNames[scope] }
