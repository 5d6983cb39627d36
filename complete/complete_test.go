// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package complete_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"

	"go.resolvecore.dev/complete"
	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/resolvetest"
	"go.resolvecore.dev/syntax"
)

func context(t testing.TB, member string) *resolve.Context {
	e, err := resolvetest.LoadEnv()
	if err != nil {
		t.Fatal(err)
	}
	m := e.Member(member)
	return m.BlockContext(m.Body()).Context
}

func TestQuery(t *testing.T) {
	for _, test := range []struct {
		query, prefix string
		want          []string
	}{
		{"client.Se", "Se", []string{"Send"}},
		{"client.t", "t", []string{"Timeout", "ToString"}},
		{"Sys.Net.H", "H", []string{"Http"}},
		{"Widget.Kind.", "", []string{"Small", "Large"}},
		{"new Widget { Foo = 1, F", "F", []string{"Foo", "Foobar"}},
	} {
		r, err := complete.Query(context(t, "Update"), test.query)
		if err != nil {
			t.Errorf("Query(%q): %v", test.query, err)
			continue
		}
		if r.Prefix != test.prefix {
			t.Errorf("Query(%q).Prefix = %q, want %q", test.query, r.Prefix, test.prefix)
		}
		if diff := cmp.Diff(test.want, r.Candidates); diff != "" {
			t.Errorf("Query(%q) candidates (-want +got):\n%s", test.query, diff)
		}
	}
}

func TestQueryErrors(t *testing.T) {
	rc := context(t, "Update")
	if _, err := complete.Query(rc, "missing.Fo"); !errors.Is(err, complete.ErrNoCandidates) {
		t.Errorf("query on an unknown receiver: got %v, want ErrNoCandidates", err)
	}
	if _, err := complete.Query(rc, "a b"); err == nil {
		t.Errorf("malformed query succeeded")
	}
	if _, err := complete.Complete(rc, &syntax.Ident{Name: "flag"}); err == nil {
		t.Errorf("Complete of an expression without completion node succeeded")
	}
}

func TestSuffixes(t *testing.T) {
	r := &complete.Result{Prefix: "Fo", Candidates: []string{"Foo", "Foobar", "fox"}}
	if diff := cmp.Diff([]string{"o", "obar"}, r.Suffixes()); diff != "" {
		t.Errorf("Suffixes (-want +got):\n%s", diff)
	}
}

func TestMarshalJSON(t *testing.T) {
	r := &complete.Result{Prefix: "Fo", Candidates: []string{"Foo", "Foobar"}}
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Prefix     string   `json:"prefix"`
		Candidates []string `json:"candidates"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("%s: %v", data, err)
	}
	if got.Prefix != r.Prefix || !cmp.Equal(got.Candidates, r.Candidates) {
		t.Errorf("JSON round trip of %s gave %+v", data, got)
	}
}

func ExampleQuery() {
	e, err := resolvetest.LoadEnv()
	if err != nil {
		log.Fatal(err)
	}
	m := e.Member("App.Program.Update")
	rc := m.BlockContext(m.Body()).Context

	r, err := complete.Query(rc, "w.Fo")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(r)
	// Output:
	// Foo
	// Foobar
}
