// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package resolvetest defines utilities for testing the resolver and
// the flow analysis against member bodies.
//
// LoadEnv loads the environment shared by the tests (see
// testdata/env.yaml). RunChunks checks a chunked file of bodies, each
// resolved and analyzed as the body of a member of that environment,
// against the diagnostics its "###" comments expect.
package resolvetest // import "go.resolvecore.dev/resolvetest"

import (
	"errors"
	"path/filepath"
	"runtime"

	"go.resolvecore.dev/env"
	"go.resolvecore.dev/internal/chunkedfile"
	"go.resolvecore.dev/syntax"
)

// A Reporter is a value to which errors may be reported.
// It is satisfied by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// DataFile returns the effective filename of the specified
// test data resource, relative to the root of the module.
var DataFile = func(pkgdir, filename string) string {
	_, file, _, _ := runtime.Caller(0)
	root := filepath.Dir(filepath.Dir(file))
	return filepath.Join(root, pkgdir, filename)
}

// LoadEnv loads a fresh copy of the shared test environment.
func LoadEnv() (*env.Environment, error) {
	return env.Load(DataFile("resolvetest", "testdata/env.yaml"))
}

// RunChunks checks each chunk of the named chunked file as the body of
// a member of the shared environment. The member is named by a
// directive of the form
//
//	// member: Update
//
// or is defaultMember. Syntax errors and diagnostics of both
// severities are matched against the expectations of the chunk.
func RunChunks(t Reporter, filename, defaultMember string) {
	for _, chunk := range chunkedfile.Read(filename, t) {
		e, err := LoadEnv()
		if err != nil {
			t.Errorf("%v", err)
			return
		}
		name := chunk.Directive("member", defaultMember)
		m := e.Member(name)
		if m == nil {
			t.Errorf("%s: no member %q in the test environment", filename, name)
			continue
		}
		_, diags, err := m.Check(filename, chunk.Source)
		var serr syntax.Error
		if errors.As(err, &serr) {
			chunk.GotError(int(serr.Pos.Line), 0, serr.Msg)
		} else if err != nil {
			t.Errorf("%v", err)
		}
		for _, d := range diags {
			chunk.GotError(int(d.Pos.Line), d.Code, d.Msg)
		}
		chunk.Done()
	}
}
