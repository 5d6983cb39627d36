// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package complete answers completion queries.
//
// A query is the text to the left of the cursor, such as "client.Se"
// or "new Point { X = 1, ". The query is parsed into an expression
// ending in a completion node, which is resolved by the ordinary
// resolution pipeline; the completion outcome it yields, however deep
// the node, is caught here and turned into a Result.
package complete // import "go.resolvecore.dev/complete"

import (
	"errors"
	"fmt"
	"strings"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/syntax"
)

// ErrNoCandidates is returned when the text before the cursor does not
// resolve, so nothing can be offered.
var ErrNoCandidates = errors.New("no completion candidates")

// A Result is the answer to a completion query.
type Result struct {
	// Prefix is the part of the name being completed that was
	// already typed.
	Prefix string

	// Candidates are the names that may be written at the cursor,
	// without duplicates, in the order they were found.
	Candidates []string
}

// Complete resolves x, an expression containing a completion node, in
// the context rc.
func Complete(rc *resolve.Context, x syntax.Expr) (*Result, error) {
	out := resolve.Expr(rc, x)
	switch out.Kind {
	case resolve.Completion:
		return &Result{Prefix: out.Prefix, Candidates: out.Candidates}, nil
	case resolve.Failed:
		return nil, ErrNoCandidates
	}
	return nil, fmt.Errorf("%s contains no completion node", out.Expr)
}

// Query parses text as a completion query and completes it in the
// context rc.
func Query(rc *resolve.Context, text string) (*Result, error) {
	x, err := syntax.ParseQuery("query", text)
	if err != nil {
		return nil, err
	}
	return Complete(rc, x)
}

// Suffixes returns the text completing the prefix, exactly as typed,
// into each candidate that extends it. Candidates matching only when
// case is ignored are left out.
func (r *Result) Suffixes() []string {
	var suffixes []string
	for _, c := range r.Candidates {
		if strings.HasPrefix(c, r.Prefix) {
			suffixes = append(suffixes, c[len(r.Prefix):])
		}
	}
	return suffixes
}

func (r *Result) String() string { return strings.Join(r.Candidates, "\n") }

// Proto returns r as a protocol buffer struct with fields "prefix" and
// "candidates".
func (r *Result) Proto() *structpb.Struct {
	candidates := make([]*structpb.Value, len(r.Candidates))
	for i, c := range r.Candidates {
		candidates[i] = structpb.NewStringValue(c)
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"prefix":     structpb.NewStringValue(r.Prefix),
		"candidates": structpb.NewListValue(&structpb.ListValue{Values: candidates}),
	}}
}

// MarshalJSON encodes r as a JSON object.
func (r *Result) MarshalJSON() ([]byte, error) {
	return protojson.Marshal(r.Proto())
}
