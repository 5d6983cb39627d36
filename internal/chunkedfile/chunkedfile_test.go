// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chunkedfile

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testReporter struct {
	reported []string
}

func (r *testReporter) Errorf(format string, args ...interface{}) {
	r.reported = append(r.reported, fmt.Sprintf(format, args...))
}

func (r *testReporter) check(t *testing.T, want ...string) {
	t.Helper()
	if diff := cmp.Diff(want, r.reported); diff != "" {
		t.Errorf("reported (-want +got):\n%s", diff)
	}
	r.reported = nil
}

const data = `// member: Main
// uses x: twice
int x;
f(x); // ### CS0165 "unassigned local"
---
while (true) { }
f(); // ### "Unreachable" ### CS0165 "unassigned"
---

// member: Update
int y = 1;
f(y);
`

func TestChunks(t *testing.T) {
	r := new(testReporter)
	chunks := parse("test.body", data, r)
	r.check(t)

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3", len(chunks))
	}
	for i, want := range []struct {
		line   int
		source string
		member string
	}{
		{1, "// member: Main\n// uses x: twice\nint x;\nf(x); // ### CS0165 \"unassigned local\"", "Main"},
		{6, "\n\n\n\n\nwhile (true) { }\nf(); // ### \"Unreachable\" ### CS0165 \"unassigned\"", "dflt"},
		{9, "\n\n\n\n\n\n\n\n\n// member: Update\nint y = 1;\nf(y);\n", "Update"},
	} {
		c := chunks[i]
		if c.Line != want.line {
			t.Errorf("chunk %d starts at line %d, want %d", i, c.Line, want.line)
		}
		if c.Source != want.source {
			t.Errorf("chunk %d source = %q, want %q", i, c.Source, want.source)
		}
		if got := c.Directive("member", "dflt"); got != want.member {
			t.Errorf("chunk %d member = %q, want %q", i, got, want.member)
		}
	}
	if got := chunks[0].Directive("uses x", ""); got != "" {
		t.Errorf("comment taken as directive %q", got)
	}
}

func TestGotError(t *testing.T) {
	r := new(testReporter)
	chunks := parse("test.body", data, r)

	c := chunks[0]
	c.GotError(4, 165, "Use of unassigned local variable `x'")
	c.Done()
	r.check(t)

	// The expectation was consumed.
	c.GotError(4, 165, "Use of unassigned local variable `x'")
	r.check(t, "\ntest.body:4: unexpected error CS0165: Use of unassigned local variable `x'")

	// Both expectations of a line, in any order; the code must match.
	c = chunks[1]
	c.GotError(7, 162, "Use of unassigned local variable `x'")
	r.check(t, "\ntest.body:7: error CS0162 \"Use of unassigned local variable `x'\" matches none of [\"Unreachable\" CS0165 \"unassigned\"]")
	c.GotError(7, 165, "Use of unassigned local variable `x'")
	c.GotError(7, 162, "Unreachable code detected")
	c.Done()
	r.check(t)

	c = chunks[2]
	c.GotError(123, 0, "foobar")
	r.check(t, "\ntest.body:123: unexpected error CS0000: foobar")
}

func TestMissedExpectation(t *testing.T) {
	r := new(testReporter)
	chunks := parse("test.body", data, r)
	chunks[0].Done()
	r.check(t, "\ntest.body:4: expected error matching CS0165 \"unassigned local\"")
}

func TestMalformedExpectations(t *testing.T) {
	r := new(testReporter)
	parse("bad.body", "f(); // ### unquoted\ng(); // ### CSx \"a\"\nh(); // ### \"(\"\n", r)
	if len(r.reported) != 3 {
		t.Errorf("got %d reports, want 3: %q", len(r.reported), r.reported)
	}
}
