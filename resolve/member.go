// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import (
	"go.resolvecore.dev/report"
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// LookupMode modifies namespace and type lookups.
type LookupMode int

const (
	NormalLookup        LookupMode = 0
	ProbingLookup       LookupMode = 1
	IgnoreAccessibility LookupMode = 2
	IgnoreStaticUsing   LookupMode = 1 << 10
)

// Settings are the compiler settings that influence resolution.
type Settings struct {
	// Checked makes arithmetic overflow-checked by default.
	Checked bool

	// Unsafe permits unsafe code in every member.
	Unsafe bool
}

// A Module is the compilation unit being resolved.
type Module interface {
	Settings() *Settings
	Report() *report.Report

	// CompletionMembers returns the members of t accessible from mc
	// whose name starts with prefix (case-insensitively). An empty
	// prefix selects every accessible member.
	CompletionMembers(mc MemberContext, t types.Type, prefix string) []types.Member

	// LookupExtensionMethods searches the global namespace for
	// extension methods called name, or whose name starts with name
	// if prefix is set.
	LookupExtensionMethods(mc MemberContext, name string, arity int, prefix bool) []*types.ExtensionMethod
}

// A MemberDefinition is the member (method, property, field
// initializer...) whose body is being resolved.
type MemberDefinition interface {
	// CompletionStartingWith returns every name lexically visible in
	// the member that starts with prefix, ignoring case. Names of
	// namespaces and types are returned fully qualified.
	CompletionStartingWith(prefix string) []string
}

// A MemberContext is implemented by elements which can act as
// independent contexts during resolution; it is used mostly for
// lookups and does not depend on any resolution state.
type MemberContext interface {
	Module() Module

	// CurrentType is the type whose member is being resolved.
	// It may be an instantiated generic type.
	CurrentType() types.Type

	// CurrentTypeParameters are the type parameters in scope,
	// of the type and of the member.
	CurrentTypeParameters() []types.Type

	// CurrentMemberDefinition is the member being resolved.
	CurrentMemberDefinition() MemberDefinition

	IsObsolete() bool
	IsUnsafe() bool
	IsStatic() bool

	SignatureForError() string

	LookupExtensionMethod(name string, arity int, nameIsPrefix bool) []*types.ExtensionMethod
	LookupNamespaceOrType(name string, arity int, mode LookupMode, pos syntax.Position) types.Entity
	LookupNamespaceAlias(name string) types.Entity
}
