// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolve

import "strings"

// Options is the set of scope flags in effect for a resolution.
// Each flag is a compilation-mode property of a lexical region.
type Options uint32

const (
	// CheckedScope tracks the `checked' state of the compilation: whether
	// arithmetic is overflow-checked. Its default comes from Settings.Checked
	// and checked/unchecked statements and expressions change it.
	CheckedScope Options = 1 << 0

	// ConstantCheckState is always set initially and cannot be changed
	// from the command line; only checked/unchecked in the source change it.
	ConstantCheckState Options = 1 << 1

	AllCheckStateFlags = CheckedScope | ConstantCheckState

	UnsafeScope             Options = 1 << 2
	CatchScope              Options = 1 << 3
	FinallyScope            Options = 1 << 4
	FieldInitializerScope   Options = 1 << 5
	CompoundAssignmentScope Options = 1 << 6
	FixedInitializerScope   Options = 1 << 7
	BaseInitializer         Options = 1 << 8

	// EnumScope is set inside an enum definition, where enumeration
	// values resolve to their underlying values so that EnumValA + EnumValB
	// can be evaluated.
	EnumScope Options = 1 << 9

	ConstantScope                    Options = 1 << 10
	ConstructorScope                 Options = 1 << 11
	UsingInitializerScope            Options = 1 << 12
	LockScope                        Options = 1 << 13
	TryScope                         Options = 1 << 14
	TryWithCatchScope                Options = 1 << 15
	DontSetConditionalAccessReceiver Options = 1 << 16
	NameOfScope                      Options = 1 << 17
	QueryClauseScope                 Options = 1 << 18

	// ProbingMode marks speculative resolution; no errors are reported.
	ProbingMode Options = 1 << 22

	// InferReturnType makes return statements set the return type from
	// their expressions instead of checking against it.
	InferReturnType Options = 1 << 23

	OmitDebuggingInfo        Options = 1 << 24
	ExpressionTreeConversion Options = 1 << 25
	InvokeSpecialName        Options = 1 << 26
)

// InheritedOptions are the flags a nested block context takes over
// from the context it is created in. They describe the enclosing code
// lexically: a nested block cannot leave an unsafe region, for
// instance. All other flags are local to the construct that set them.
//
// ConstantCheckState is special: it is set by default and the child
// only inherits its absence.
const InheritedOptions = UnsafeScope | CheckedScope | ProbingMode |
	FieldInitializerScope | ExpressionTreeConversion | BaseInitializer |
	QueryClauseScope

var optionNames = [...]struct {
	opt  Options
	name string
}{
	{CheckedScope, "checked"},
	{ConstantCheckState, "constant-check"},
	{UnsafeScope, "unsafe"},
	{CatchScope, "catch"},
	{FinallyScope, "finally"},
	{FieldInitializerScope, "field-initializer"},
	{CompoundAssignmentScope, "compound-assignment"},
	{FixedInitializerScope, "fixed-initializer"},
	{BaseInitializer, "base-initializer"},
	{EnumScope, "enum"},
	{ConstantScope, "constant"},
	{ConstructorScope, "constructor"},
	{UsingInitializerScope, "using-initializer"},
	{LockScope, "lock"},
	{TryScope, "try"},
	{TryWithCatchScope, "try-with-catch"},
	{DontSetConditionalAccessReceiver, "no-conditional-receiver"},
	{NameOfScope, "nameof"},
	{QueryClauseScope, "query-clause"},
	{ProbingMode, "probing"},
	{InferReturnType, "infer-return-type"},
	{OmitDebuggingInfo, "omit-debug-info"},
	{ExpressionTreeConversion, "expression-tree"},
	{InvokeSpecialName, "invoke-special-name"},
}

func (o Options) String() string {
	if o == 0 {
		return "0"
	}
	var names []string
	for _, n := range optionNames {
		if o&n.opt != 0 {
			names = append(names, n.name)
		}
	}
	return strings.Join(names, "|")
}

// A FlagsHandle restores the flags it changed when released.
//
// Handles are used with defer so that flags are restored on every
// path out of the scope that set them, including panics:
//
//	defer rc.Set(resolve.CheckedScope).Release()
type FlagsHandle struct {
	flags   *Options
	invmask Options
	oldval  Options
}

func newFlagsHandle(flags *Options, mask, val Options) FlagsHandle {
	h := FlagsHandle{flags: flags, invmask: ^mask, oldval: *flags & mask}
	*flags = (*flags & h.invmask) | (val & mask)
	return h
}

// Release puts back the bits under the handle's mask as they were
// before the handle was created. Bits outside the mask are untouched.
func (h FlagsHandle) Release() {
	*h.flags = (*h.flags & h.invmask) | h.oldval
}

// Flags returns the current scope flags.
func (rc *Context) Flags() Options { return rc.flags }

// HasSet reports whether all of the flags in mask are set.
func (rc *Context) HasSet(mask Options) bool { return rc.flags&mask == mask }

// HasAny reports whether at least one of the flags in mask is set.
func (rc *Context) HasAny(mask Options) bool { return rc.flags&mask != 0 }

// Set temporarily sets all the flags in mask.
func (rc *Context) Set(mask Options) FlagsHandle {
	return newFlagsHandle(&rc.flags, mask, mask)
}

// With temporarily sets the flags in mask if enable is true,
// and clears them otherwise.
func (rc *Context) With(mask Options, enable bool) FlagsHandle {
	var val Options
	if enable {
		val = mask
	}
	return newFlagsHandle(&rc.flags, mask, val)
}
