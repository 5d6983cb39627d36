// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package types

// Compiler pseudo-types. The member-access operator is undefined on
// all of them.
var (
	VoidType        Type = &internalType{"void", Void}
	NullLiteral     Type = &internalType{"null", InternalKind}
	AnonymousMethod Type = &internalType{"anonymous method", InternalKind}
)

// Built-in value types used for literals.
var (
	Bool   Type = &internalType{"bool", Struct}
	Int    Type = &internalType{"int", Struct}
	String Type = &internalType{"string", Class}
)

type internalType struct {
	name string
	kind Kind
}

func (t *internalType) FullName() string           { return t.name }
func (t *internalType) Name() string               { return t.name }
func (t *internalType) Kind() Kind                 { return t.kind }
func (t *internalType) Members() []Member          { return nil }
func (t *internalType) Interfaces() []Type         { return nil }
func (t *internalType) AssignableFrom(u Type) bool { return Type(t) == u }
func (t *internalType) String() string             { return t.name }

// IsInternal reports whether t is one of the compiler pseudo-types on
// which member access is undefined.
func IsInternal(t Type) bool {
	return t == VoidType || t == NullLiteral || t == AnonymousMethod
}
