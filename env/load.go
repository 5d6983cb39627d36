// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"go.resolvecore.dev/types"
)

// The description file format. Names of types are full names, except
// for the built-in bool, int, string and void, and type parameters.
//
//	settings:   {checked: false, unsafe: false}
//	namespaces: [System.Collections]      # in addition to those of types
//	types:
//	  - name: System.Net.Http
//	    kind: class                         # class|struct|interface|enum|delegate
//	    base: System.Object
//	    interfaces: [System.IDisposable]
//	    typeparams: [T]
//	    members:
//	      - {name: Send, kind: method, type: string, static: false}
//	extensions:
//	  - {name: Count, declaring: System.Linq.Enumerable, params: [System.IEnumerable]}
//	usings:  [System]
//	aliases: {Net: System.Net}
//	members:
//	  - name: Main
//	    type: App.Program
//	    static: true
//	    returns: void
//	    locals:
//	      - {name: args, type: string, param: true}
type file struct {
	Settings struct {
		Checked bool `yaml:"checked"`
		Unsafe  bool `yaml:"unsafe"`
	} `yaml:"settings"`
	Namespaces []string          `yaml:"namespaces"`
	Types      []typeDecl        `yaml:"types"`
	Extensions []extensionDecl   `yaml:"extensions"`
	Usings     []string          `yaml:"usings"`
	Aliases    map[string]string `yaml:"aliases"`
	Members    []memberDecl      `yaml:"members"`
}

type typeDecl struct {
	Name       string       `yaml:"name"`
	Kind       string       `yaml:"kind"`
	Base       string       `yaml:"base"`
	Interfaces []string     `yaml:"interfaces"`
	TypeParams []string     `yaml:"typeparams"`
	Members    []memberItem `yaml:"members"`
}

type memberItem struct {
	Name   string `yaml:"name"`
	Kind   string `yaml:"kind"`
	Static bool   `yaml:"static"`
	Type   string `yaml:"type"`
}

type extensionDecl struct {
	Name      string   `yaml:"name"`
	Declaring string   `yaml:"declaring"`
	Params    []string `yaml:"params"`
}

type memberDecl struct {
	Name       string      `yaml:"name"`
	Type       string      `yaml:"type"`
	Static     bool        `yaml:"static"`
	Unsafe     bool        `yaml:"unsafe"`
	Obsolete   bool        `yaml:"obsolete"`
	TypeParams []string    `yaml:"typeparams"`
	Returns    string      `yaml:"returns"`
	Locals     []localDecl `yaml:"locals"`
}

type localDecl struct {
	Name  string `yaml:"name"`
	Type  string `yaml:"type"`
	Param bool   `yaml:"param"`
}

// Load reads the environment described by the named YAML file.
func Load(filename string) (*Environment, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return Parse(filename, data)
}

// Parse reads the environment described by data. Unknown keys are
// errors. The filename is used in error messages only.
func Parse(filename string, data []byte) (*Environment, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	e, err := build(&f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return e, nil
}

func build(f *file) (*Environment, error) {
	e := New()
	e.settings.Checked = f.Settings.Checked
	e.settings.Unsafe = f.Settings.Unsafe

	for _, name := range f.Namespaces {
		e.declareNamespace(name)
	}

	// Declare every type before resolving references between them.
	for _, d := range f.Types {
		kind, ok := types.ParseKind(d.Kind)
		if !ok {
			return nil, fmt.Errorf("type %s: invalid kind %q", d.Name, d.Kind)
		}
		if e.types[d.Name] != nil {
			return nil, fmt.Errorf("type %s declared twice", d.Name)
		}
		nsName, name := splitName(d.Name)
		ns := e.declareNamespace(nsName)
		t := &Type{name: name, fullName: d.Name, kind: kind, ns: ns}
		for _, tp := range d.TypeParams {
			t.typeParams = append(t.typeParams, newTypeParameter(tp))
		}
		ns.types[name] = append(ns.types[name], t)
		e.types[d.Name] = t
	}

	for _, d := range f.Types {
		t := e.types[d.Name]
		if err := e.defineType(t, &d); err != nil {
			return nil, fmt.Errorf("type %s: %w", d.Name, err)
		}
	}

	for _, d := range f.Extensions {
		declaring := e.types[d.Declaring]
		if declaring == nil {
			return nil, fmt.Errorf("extension method %s: unknown declaring type %q", d.Name, d.Declaring)
		}
		m := &types.ExtensionMethod{Name: d.Name, Declaring: declaring}
		for _, p := range d.Params {
			pt, err := e.typeRef(p, nil)
			if err != nil {
				return nil, fmt.Errorf("extension method %s: %w", d.Name, err)
			}
			m.Params = append(m.Params, pt)
		}
		if len(m.Params) == 0 {
			return nil, fmt.Errorf("extension method %s: no receiver parameter", d.Name)
		}
		e.extensions = append(e.extensions, m)
	}

	for _, name := range f.Usings {
		ns := e.Namespace(name)
		if ns == nil {
			return nil, fmt.Errorf("using %s: unknown namespace", name)
		}
		e.usings = append(e.usings, ns)
	}

	for alias, target := range f.Aliases {
		if ns := e.Namespace(target); ns != nil {
			e.aliases[alias] = ns
		} else if t := e.types[target]; t != nil {
			e.aliases[alias] = t
		} else {
			return nil, fmt.Errorf("alias %s: unknown namespace or type %q", alias, target)
		}
	}

	for _, d := range f.Members {
		m, err := e.defineMember(&d)
		if err != nil {
			return nil, fmt.Errorf("member %s: %w", d.Name, err)
		}
		e.members = append(e.members, m)
	}
	return e, nil
}

func (e *Environment) defineType(t *Type, d *typeDecl) error {
	if d.Base != "" {
		b, ok := e.types[d.Base]
		if !ok {
			return fmt.Errorf("unknown base type %q", d.Base)
		}
		for x := b; x != nil; x = x.base {
			if x == t {
				return fmt.Errorf("circular base type %s", d.Base)
			}
		}
		t.base = b
	}
	for _, name := range d.Interfaces {
		i, ok := e.types[name]
		if !ok || i.kind != types.Interface {
			return fmt.Errorf("%q is not an interface", name)
		}
		t.interfaces = append(t.interfaces, i)
	}
	for _, item := range d.Members {
		kind, ok := types.ParseMemberKind(item.Kind)
		if !ok {
			return fmt.Errorf("member %s: invalid kind %q", item.Name, item.Kind)
		}
		m := types.Member{Name: item.Name, Kind: kind, Static: item.Static}
		if item.Type != "" {
			mt, err := e.typeRef(item.Type, t.typeParams)
			if err != nil {
				return fmt.Errorf("member %s: %w", item.Name, err)
			}
			m.Type = mt
		}
		if kind == types.NestedType {
			if m.Type == nil || m.Type == types.VoidType {
				return fmt.Errorf("nested type %s: missing type", item.Name)
			}
			m.Static = true
		}
		t.members = append(t.members, m)
	}
	return nil
}

func (e *Environment) defineMember(d *memberDecl) (*Member, error) {
	m := &Member{
		env:      e,
		name:     d.Name,
		static:   d.Static,
		unsafe:   d.Unsafe,
		obsolete: d.Obsolete,
	}
	if d.Type != "" {
		if m.declaring = e.types[d.Type]; m.declaring == nil {
			return nil, fmt.Errorf("unknown declaring type %q", d.Type)
		}
	}
	for _, tp := range d.TypeParams {
		m.typeParams = append(m.typeParams, newTypeParameter(tp))
	}
	scope := m.CurrentTypeParameters()
	rt, err := e.typeRef(d.Returns, scope)
	if err != nil {
		return nil, err
	}
	m.returns = rt
	for _, l := range d.Locals {
		lt, err := e.typeRef(l.Type, scope)
		if err != nil {
			return nil, fmt.Errorf("local %s: %w", l.Name, err)
		}
		m.locals = append(m.locals, Local{Name: l.Name, Type: lt, Parameter: l.Param})
	}
	return m, nil
}

// declareNamespace returns the namespace with the given full name,
// creating it and its parents as needed.
func (e *Environment) declareNamespace(name string) *Namespace {
	ns := e.global
	if name == "" {
		return ns
	}
	for _, part := range strings.Split(name, ".") {
		ns = ns.child(part)
	}
	return ns
}

// splitName splits a full name into its namespace and simple name.
func splitName(full string) (ns, name string) {
	if i := strings.LastIndex(full, "."); i >= 0 {
		return full[:i], full[i+1:]
	}
	return "", full
}
