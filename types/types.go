// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package types declares the capabilities the resolver needs from a
// type system: types, namespaces, members and extension methods.
//
// The resolver never builds types itself. A front end supplies them
// through these interfaces; package env provides an in-memory
// implementation loaded from a description file.
package types // import "go.resolvecore.dev/types"

import "strings"

// An Entity is anything a name can resolve to at namespace level:
// a Namespace or a Type.
type Entity interface {
	// FullName returns the dotted, fully qualified name.
	FullName() string
}

// A Type describes a type known to the compiler.
type Type interface {
	Entity
	Name() string
	Kind() Kind

	// Members returns the members of the type in declaration order,
	// followed by the inherited members it does not hide.
	Members() []Member

	// Interfaces returns every interface the type implements,
	// including inherited ones.
	Interfaces() []Type

	// AssignableFrom reports whether a value of type t may be
	// assigned to a location of this type.
	AssignableFrom(t Type) bool
}

// A Namespace groups types and nested namespaces.
type Namespace interface {
	Entity

	// Lookup returns the nested namespace or type called name with
	// the given generic arity, or nil.
	Lookup(name string, arity int) Entity

	// TypesStartingWith returns the simple names of the namespace's
	// types whose name starts with prefix (case-insensitively).
	TypesStartingWith(prefix string) []string
}

// Kind classifies types.
type Kind uint8

const (
	InvalidKind Kind = iota
	Class
	Struct
	Interface
	Enum
	Delegate
	TypeParameter
	Pointer
	Void
	ArrayType
	InternalKind // compiler pseudo-types: null literal, anonymous method
)

var kindNames = [...]string{
	InvalidKind:   "invalid",
	Class:         "class",
	Struct:        "struct",
	Interface:     "interface",
	Enum:          "enum",
	Delegate:      "delegate",
	TypeParameter: "type parameter",
	Pointer:       "pointer",
	Void:          "void",
	ArrayType:     "array",
	InternalKind:  "internal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "invalid"
}

// ParseKind returns the Kind whose String is s.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return InvalidKind, false
}

// MemberKind is a bit set so that callers can filter for several
// kinds at once, e.g. Field|Property.
type MemberKind uint16

const (
	Field MemberKind = 1 << iota
	Property
	Method
	Event
	Constructor
	Operator
	Indexer
	NestedType
)

var memberKindNames = [...]string{
	"field", "property", "method", "event",
	"constructor", "operator", "indexer", "type",
}

func (k MemberKind) String() string {
	var names []string
	for i, name := range memberKindNames {
		if k&(1<<uint(i)) != 0 {
			names = append(names, name)
		}
	}
	if names == nil {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseMemberKind returns the single MemberKind whose String is s.
func ParseMemberKind(s string) (MemberKind, bool) {
	for i, name := range memberKindNames {
		if name == s {
			return MemberKind(1 << uint(i)), true
		}
	}
	return 0, false
}

// A Member is a named member of a type.
type Member struct {
	Name   string
	Kind   MemberKind
	Static bool
	Type   Type // field/property type, method result type; may be nil
}

// An ExtensionMethod is a static method usable with instance syntax
// on values assignable to its first parameter.
type ExtensionMethod struct {
	Name      string
	Declaring Type
	Params    []Type
}

// Receiver returns the type of the first parameter, or nil.
func (m *ExtensionMethod) Receiver() Type {
	if len(m.Params) == 0 {
		return nil
	}
	return m.Params[0]
}

// HasPrefixFold reports whether s begins with prefix, ignoring case.
// An empty prefix matches everything.
func HasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}
