// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

// This file resolves completion nodes. Each of them yields a
// Completion outcome listing the names that may follow what was typed,
// or Failed when the text before the cursor does not resolve.

import (
	"strings"

	"go.resolvecore.dev/report"
	"go.resolvecore.dev/syntax"
	"go.resolvecore.dev/types"
)

// AppendResults appends to results each of names that starts with
// prefix (ignoring case), is not empty and is not already present.
func AppendResults(results []string, prefix string, names []string) []string {
	for _, name := range names {
		if name == "" || !types.HasPrefixFold(name, prefix) || contains(results, name) {
			continue
		}
		results = append(results, name)
	}
	return results
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// IsCodeless reports whether e can never produce code. Completion
// nodes have no expression tree and emit nothing, so they may stand
// wherever a statement expression is required.
func IsCodeless(e syntax.Expr) bool { return syntax.IsCompletion(e) }

func completeName(rc *Context, x *syntax.CompletionName) Outcome {
	var results []string
	if md := rc.CurrentMemberDefinition(); md != nil {
		results = AppendResults(results, "", md.CompletionStartingWith(x.Prefix))
	}
	return completion(x.Prefix, results)
}

func completeMemberAccess(rc *Context, x *syntax.CompletionMemberAccess) Outcome {
	left := completionReceiver(rc, x.X)
	if !left.IsResolved() {
		return left
	}
	e := left.Expr

	if id, ok := x.X.(*syntax.Ident); ok {
		switch e.(type) {
		case *VariableReference, *Constant:
			// The lookup left the variable unresolved: whether it is
			// used as a value or as a type was not known yet.
			e = resolveLookedUp(rc, e).Expr
		case *TypeParameterExpr:
			rc.Error(id.NamePos, 118, "`%s' is a `type parameter' but a `variable, value or type' was expected", id.Name)
			return failed
		}
	}

	ns, isNamespace := e.(*NamespaceExpr)
	if !isNamespace {
		if t := e.Type(); !canAccessMembers(t) {
			rc.Error(x.Dot, 23, "The `.' operator cannot be applied to operand of type `%s'", typeName(t))
			return failed
		}
	}
	for _, arg := range x.TypeArgs {
		if t, out := typeOperand(rc, arg); t == nil {
			return out
		}
	}

	if isNamespace {
		return completeNamespaceMember(rc, ns, x.Partial)
	}

	t := e.Type()
	var names []string
	for _, m := range rc.Module().CompletionMembers(rc.MemberContext, t, x.Partial) {
		names = append(names, m.Name)
	}
	results := AppendResults(nil, x.Partial, names)

	names = names[:0]
	for _, em := range rc.Module().LookupExtensionMethods(rc.MemberContext, x.Partial, 0, true) {
		if ExtensionApplies(em, t) {
			names = append(names, em.Name)
		}
	}
	results = AppendResults(results, x.Partial, names)
	return completion(x.Partial, results)
}

// completionReceiver resolves the left side of a member access being
// completed. The text being typed is often incomplete, so its
// diagnostics go to a private session and are never shown; any error
// abandons the completion.
func completionReceiver(rc *Context, x syntax.Expr) (out Outcome) {
	session := new(report.SessionPrinter)
	r := rc.Report()
	before := r.Errors()
	old := r.SetPrinter(session)
	defer func() {
		r.SetPrinter(old)
		if out.IsResolved() && (session.ErrorsCount() != 0 || r.Errors() != before) {
			out = failed
		}
	}()

	if id, ok := x.(*syntax.Ident); ok {
		return LookupNameExpression(rc, id, ReadAccess|ExactArity)
	}
	return Expr(rc, x)
}

// completeNamespaceMember lists the names that may follow ns.partial.
// Candidates that start with the qualified prefix are cut down to the
// segment being typed; candidates that only start with partial itself
// are kept whole.
func completeNamespaceMember(rc *Context, ns *NamespaceExpr, partial string) Outcome {
	qualified := ns.Namespace.FullName() + "." + partial

	var found []string
	if md := rc.CurrentMemberDefinition(); md != nil {
		found = md.CompletionStartingWith(qualified)
	}

	var results, suffixOnly []string
	cut := strings.LastIndex(qualified, ".") + 1
	for _, name := range found {
		if strings.TrimSpace(name) == "" {
			continue
		}
		if types.HasPrefixFold(name, qualified) {
			s := name[cut:]
			if i := strings.IndexByte(s, '.'); i >= 0 {
				s = s[:i]
			}
			if strings.TrimSpace(s) != "" {
				results = append(results, s)
			}
		} else if partial != "" && types.HasPrefixFold(name, partial) {
			suffixOnly = append(suffixOnly, name)
		}
	}
	results = append(results, suffixOnly...)
	results = append(results, ns.Namespace.TypesStartingWith(partial)...)
	return completion(partial, AppendResults(nil, "", results))
}

func completeElementInitializer(rc *Context, x *syntax.CompletionElementInitializer) Outcome {
	target := rc.CurrentInitializerVariable
	if target == nil {
		panic("resolve: member initializer completion outside an object creation")
	}
	var names []string
	for _, m := range rc.Module().CompletionMembers(rc.MemberContext, target.Type(), x.Partial) {
		if m.Kind&(types.Field|types.Property) != 0 {
			names = append(names, m.Name)
		}
	}
	return completion(x.Partial, AppendResults(nil, x.Partial, names))
}
