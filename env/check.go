// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package env

import (
	"go.resolvecore.dev/flow"
	"go.resolvecore.dev/report"
	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/syntax"
)

// Check parses src as the body of m, resolves it, and if resolution
// succeeded analyzes its flow. It returns the body and the diagnostics
// of both phases sorted by position; the error is non-nil only if src
// could not be parsed.
//
// Diagnostics are also counted by the report of the environment, but
// they are not sent to its printer.
func (m *Member) Check(filename, src string) (*syntax.Block, report.ErrorList, error) {
	body := m.Body()
	if err := syntax.ParseBody(filename, src, body); err != nil {
		return nil, nil, err
	}

	session := new(report.SessionPrinter)
	r := m.env.Report()
	defer r.SetPrinter(r.SetPrinter(session))

	bc := m.BlockContext(body)
	if out := resolve.Block(bc, body); out.IsResolved() {
		flow.Check(bc, body)
	}

	diags := session.Errors()
	diags.Sort()
	return body, diags, nil
}
