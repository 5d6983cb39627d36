// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env provides an in-memory module for the resolver: the
// namespaces, types, extension methods and members of a program,
// described by a YAML file (see Load).
//
// An Environment implements resolve.Module, and each of its members
// implements resolve.MemberContext and resolve.MemberDefinition, so a
// member's body can be resolved and analyzed without a compiler front
// end.
package env // import "go.resolvecore.dev/env"

import (
	"fmt"
	"sort"
	"strings"

	"go.resolvecore.dev/report"
	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// An Environment is a module described in memory.
type Environment struct {
	settings   resolve.Settings
	report     *report.Report
	global     *Namespace
	types      map[string]*Type // by full name
	extensions []*types.ExtensionMethod
	usings     []*Namespace
	aliases    map[string]types.Entity
	members    []*Member
}

// New returns an empty environment whose diagnostics are discarded.
func New() *Environment {
	return &Environment{
		report:  report.New(nil),
		global:  newNamespace(nil, ""),
		types:   make(map[string]*Type),
		aliases: make(map[string]types.Entity),
	}
}

func (e *Environment) Settings() *resolve.Settings { return &e.settings }
func (e *Environment) Report() *report.Report      { return e.report }

// SetReport directs the diagnostics of e to r.
func (e *Environment) SetReport(r *report.Report) { e.report = r }

// Global returns the global namespace.
func (e *Environment) Global() *Namespace { return e.global }

// Type returns the type with the given full name, or nil.
func (e *Environment) Type(name string) *Type { return e.types[name] }

// Namespace returns the namespace with the given full name, or nil.
// The empty name denotes the global namespace.
func (e *Environment) Namespace(name string) *Namespace {
	ns := e.global
	if name == "" {
		return ns
	}
	for _, part := range strings.Split(name, ".") {
		if ns = ns.namespaces[part]; ns == nil {
			return nil
		}
	}
	return ns
}

// Members returns the members of e in declaration order.
func (e *Environment) Members() []*Member { return e.members }

// Member returns the member called name, or nil.
// A member is named by its declaring type and its own name,
// as in "App.Program.Main".
func (e *Environment) Member(name string) *Member {
	for _, m := range e.members {
		if m.FullName() == name || m.name == name {
			return m
		}
	}
	return nil
}

// CompletionMembers implements resolve.Module. Constructors, operators
// and indexers are never offered.
func (e *Environment) CompletionMembers(mc resolve.MemberContext, t types.Type, prefix string) []types.Member {
	var members []types.Member
	for _, m := range t.Members() {
		if m.Kind&(types.Constructor|types.Operator|types.Indexer) != 0 {
			continue
		}
		if types.HasPrefixFold(m.Name, prefix) {
			members = append(members, m)
		}
	}
	return members
}

// LookupExtensionMethods implements resolve.Module.
// An arity of zero matches methods of any arity.
func (e *Environment) LookupExtensionMethods(mc resolve.MemberContext, name string, arity int, prefix bool) []*types.ExtensionMethod {
	var found []*types.ExtensionMethod
	for _, m := range e.extensions {
		if prefix && !types.HasPrefixFold(m.Name, name) || !prefix && m.Name != name {
			continue
		}
		if arity > 0 && len(m.Params)-1 != arity {
			continue
		}
		found = append(found, m)
	}
	return found
}

// fullNames returns the full names of every namespace and type of e
// that start with prefix, sorted.
func (e *Environment) fullNames(prefix string) []string {
	var names []string
	var visit func(ns *Namespace)
	visit = func(ns *Namespace) {
		if ns != e.global && types.HasPrefixFold(ns.fullName, prefix) {
			names = append(names, ns.fullName)
		}
		for _, sub := range ns.namespaces {
			visit(sub)
		}
	}
	visit(e.global)
	for name := range e.types {
		if types.HasPrefixFold(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// A Namespace is a node of the namespace tree of an Environment.
type Namespace struct {
	name       string
	fullName   string
	parent     *Namespace
	namespaces map[string]*Namespace
	types      map[string][]*Type // by simple name, any arity
}

func newNamespace(parent *Namespace, name string) *Namespace {
	ns := &Namespace{
		name:       name,
		parent:     parent,
		namespaces: make(map[string]*Namespace),
		types:      make(map[string][]*Type),
	}
	if parent != nil {
		ns.fullName = name
		if parent.fullName != "" {
			ns.fullName = parent.fullName + "." + name
		}
		parent.namespaces[name] = ns
	}
	return ns
}

// child returns the namespace called name nested in ns, creating it
// if needed.
func (ns *Namespace) child(name string) *Namespace {
	if sub := ns.namespaces[name]; sub != nil {
		return sub
	}
	return newNamespace(ns, name)
}

func (ns *Namespace) FullName() string { return ns.fullName }
func (ns *Namespace) Name() string     { return ns.name }
func (ns *Namespace) String() string   { return "namespace " + ns.fullName }

// Lookup implements types.Namespace. A namespace is found only for an
// arity of zero.
func (ns *Namespace) Lookup(name string, arity int) types.Entity {
	if arity == 0 {
		if sub := ns.namespaces[name]; sub != nil {
			return sub
		}
	}
	if t := ns.lookupType(name, arity); t != nil {
		return t
	}
	return nil
}

func (ns *Namespace) lookupType(name string, arity int) *Type {
	for _, t := range ns.types[name] {
		if len(t.typeParams) == arity {
			return t
		}
	}
	return nil
}

// TypesStartingWith implements types.Namespace.
func (ns *Namespace) TypesStartingWith(prefix string) []string {
	var names []string
	for name := range ns.types {
		if types.HasPrefixFold(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// A Type is a class, struct, interface, enum or delegate of an
// Environment, or a type parameter.
type Type struct {
	name       string
	fullName   string
	kind       types.Kind
	ns         *Namespace
	base       *Type
	interfaces []*Type // declared
	typeParams []types.Type
	members    []types.Member // declared
}

func newTypeParameter(name string) *Type {
	return &Type{name: name, fullName: name, kind: types.TypeParameter}
}

func (t *Type) FullName() string { return t.fullName }
func (t *Type) Name() string     { return t.name }
func (t *Type) Kind() types.Kind { return t.kind }
func (t *Type) String() string   { return t.kind.String() + " " + t.fullName }

// Base returns the base class, or nil.
func (t *Type) Base() *Type { return t.base }

func (t *Type) TypeParameters() []types.Type { return t.typeParams }

// Members implements types.Type.
func (t *Type) Members() []types.Member {
	var members []types.Member
	seen := make(map[string]bool)
	for b := t; b != nil; b = b.base {
		for _, m := range b.members {
			if seen[m.Name] {
				continue
			}
			seen[m.Name] = true
			members = append(members, m)
		}
	}
	return members
}

// Interfaces implements types.Type.
func (t *Type) Interfaces() []types.Type {
	var list []types.Type
	seen := make(map[*Type]bool)
	var add func(i *Type)
	add = func(i *Type) {
		if seen[i] {
			return
		}
		seen[i] = true
		list = append(list, i)
		for _, j := range i.interfaces {
			add(j)
		}
	}
	for b := t; b != nil; b = b.base {
		for _, i := range b.interfaces {
			add(i)
		}
	}
	return list
}

// AssignableFrom implements types.Type: u converts to t implicitly if
// it is t, derives from t, or implements t. The null literal converts
// to reference types.
func (t *Type) AssignableFrom(u types.Type) bool {
	if u == nil {
		return false
	}
	if u == types.NullLiteral {
		switch t.kind {
		case types.Class, types.Interface, types.Delegate:
			return true
		}
		return false
	}
	ut, ok := u.(*Type)
	if !ok {
		return false
	}
	for b := ut; b != nil; b = b.base {
		if b == t {
			return true
		}
	}
	if t.kind == types.Interface {
		for _, i := range ut.Interfaces() {
			if i == types.Type(t) {
				return true
			}
		}
	}
	return false
}

// A Local is a parameter or local variable visible in a member body.
type Local struct {
	Name      string
	Type      types.Type
	Parameter bool
}

// A Member is a method or other member whose body may be resolved.
type Member struct {
	env        *Environment
	name       string
	declaring  *Type // nil for a global member
	static     bool
	unsafe     bool
	obsolete   bool
	typeParams []types.Type
	returns    types.Type
	locals     []Local
}

// FullName returns the name of the member qualified by its declaring
// type.
func (m *Member) FullName() string {
	if m.declaring == nil {
		return m.name
	}
	return m.declaring.fullName + "." + m.name
}

func (m *Member) String() string { return m.FullName() }

// ReturnType returns the result type of the member, types.VoidType if
// it has none.
func (m *Member) ReturnType() types.Type { return m.returns }

func (m *Member) Locals() []Local { return m.locals }

func (m *Member) Module() resolve.Module { return m.env }

func (m *Member) CurrentType() types.Type {
	if m.declaring == nil {
		return nil
	}
	return m.declaring
}

func (m *Member) CurrentTypeParameters() []types.Type {
	var tps []types.Type
	if m.declaring != nil {
		tps = append(tps, m.declaring.typeParams...)
	}
	return append(tps, m.typeParams...)
}

func (m *Member) CurrentMemberDefinition() resolve.MemberDefinition { return m }

func (m *Member) IsObsolete() bool { return m.obsolete }
func (m *Member) IsUnsafe() bool   { return m.unsafe || m.env.settings.Unsafe }
func (m *Member) IsStatic() bool   { return m.static }

func (m *Member) SignatureForError() string { return m.FullName() + "()" }

func (m *Member) LookupExtensionMethod(name string, arity int, nameIsPrefix bool) []*types.ExtensionMethod {
	return m.env.LookupExtensionMethods(m, name, arity, nameIsPrefix)
}

// LookupNamespaceOrType searches the built-in types, the namespaces
// enclosing the declaring type, innermost first, then the types of the namespaces
// imported by using directives. A name found in several imported
// namespaces is ambiguous, which is reported unless probing.
func (m *Member) LookupNamespaceOrType(name string, arity int, mode resolve.LookupMode, pos syntax.Position) types.Entity {
	if t := builtin[name]; t != nil && arity == 0 {
		return t
	}
	if m.declaring != nil {
		for ns := m.declaring.ns; ns != nil; ns = ns.parent {
			if ent := ns.Lookup(name, arity); ent != nil {
				return ent
			}
		}
	} else if ent := m.env.global.Lookup(name, arity); ent != nil {
		return ent
	}

	var found *Type
	for _, u := range m.env.usings {
		t := u.lookupType(name, arity)
		if t == nil || t == found {
			continue
		}
		if found != nil {
			if mode&resolve.ProbingLookup == 0 {
				m.env.report.Error(pos, 104, "`%s' is an ambiguous reference between `%s' and `%s'",
					name, found.fullName, t.fullName)
			}
			return found
		}
		found = t
	}
	if found == nil {
		return nil
	}
	return found
}

func (m *Member) LookupNamespaceAlias(name string) types.Entity {
	return m.env.aliases[name]
}

// CompletionStartingWith implements resolve.MemberDefinition. It
// returns the locals, the members of the declaring type, the type
// parameters and aliases in scope, the simple names of the types of
// imported namespaces, and the full names of every namespace and type.
func (m *Member) CompletionStartingWith(prefix string) []string {
	var names []string
	add := func(name string) {
		if types.HasPrefixFold(name, prefix) {
			names = append(names, name)
		}
	}
	for _, l := range m.locals {
		add(l.Name)
	}
	if m.declaring != nil {
		for _, mem := range m.env.CompletionMembers(m, m.declaring, prefix) {
			add(mem.Name)
		}
	}
	for _, tp := range m.CurrentTypeParameters() {
		add(tp.Name())
	}
	var aliases []string
	for name := range m.env.aliases {
		aliases = append(aliases, name)
	}
	sort.Strings(aliases)
	for _, name := range aliases {
		add(name)
	}
	if m.declaring != nil {
		for ns := m.declaring.ns; ns != nil; ns = ns.parent {
			names = append(names, ns.TypesStartingWith(prefix)...)
		}
	}
	for _, u := range m.env.usings {
		names = append(names, u.TypesStartingWith(prefix)...)
	}
	return append(names, m.env.fullNames(prefix)...)
}

// Body returns a new, empty parameters block declaring the locals of
// m, ready to receive statements.
func (m *Member) Body() *syntax.Block {
	b := syntax.NewParametersBlock(nil, syntax.Position{})
	for _, l := range m.locals {
		if l.Parameter {
			b.AddParameter(l.Name, syntax.Position{}, l.Type)
		} else {
			b.Declare(l.Name, syntax.Position{}, l.Type, nil)
		}
	}
	return b
}

// BlockContext returns a context for resolving body, a body of m.
func (m *Member) BlockContext(body *syntax.Block) *resolve.BlockContext {
	return resolve.NewBlockContext(m, body, m.returns)
}

// builtin maps the keywords naming built-in value types to their type.
var builtin = map[string]types.Type{
	"bool":   types.Bool,
	"int":    types.Int,
	"string": types.String,
}

// typeRef resolves a type named in a description: a built-in type, a
// type parameter in scope or the full name of a declared type.
func (e *Environment) typeRef(name string, scope []types.Type) (types.Type, error) {
	for _, tp := range scope {
		if tp.Name() == name {
			return tp, nil
		}
	}
	if name == "" || name == "void" {
		return types.VoidType, nil
	}
	if t := builtin[name]; t != nil {
		return t, nil
	}
	if t := e.types[name]; t != nil {
		return t, nil
	}
	return nil, fmt.Errorf("unknown type %q", name)
}
