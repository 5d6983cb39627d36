// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package report_test

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.resolvecore.dev/report"
	"go.resolvecore.dev/syntax"
)

func TestSetPrinterRedirects(t *testing.T) {
	var buf bytes.Buffer
	file := "a.cs"
	r := report.New(report.NewStreamPrinter(&buf))

	r.Error(syntax.MakePosition(&file, 1, 5), 103, "The name `%s' does not exist in the current context", "x")

	session := new(report.SessionPrinter)
	old := r.SetPrinter(session)
	r.Error(syntax.MakePosition(&file, 2, 1), 1061, "hidden")
	r.Warning(syntax.MakePosition(&file, 3, 1), 162, "Unreachable code detected")
	if r.SetPrinter(old) != session {
		t.Fatal("SetPrinter did not return the session printer")
	}
	r.Warning(syntax.MakePosition(&file, 4, 2), 162, "Unreachable code detected")

	want := "a.cs:1:5: error CS0103: The name `x' does not exist in the current context\n" +
		"a.cs:4:2: warning CS0162: Unreachable code detected\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("stream output mismatch (-want +got):\n%s", diff)
	}
	if session.ErrorsCount() != 1 || session.WarningsCount() != 1 {
		t.Errorf("session counted %d errors, %d warnings; want 1, 1", session.ErrorsCount(), session.WarningsCount())
	}
	if got := session.Errors()[0].Msg; got != "hidden" {
		t.Errorf("session kept %q, want %q", got, "hidden")
	}
	if r.Errors() != 2 || r.Warnings() != 2 {
		t.Errorf("report counted %d errors, %d warnings; want 2, 2", r.Errors(), r.Warnings())
	}
}

func TestErrorListSort(t *testing.T) {
	file := "b.cs"
	list := report.ErrorList{
		{Pos: syntax.MakePosition(&file, 3, 1), Code: 1, Msg: "c"},
		{Pos: syntax.MakePosition(&file, 1, 9), Code: 1, Msg: "b"},
		{Pos: syntax.MakePosition(&file, 1, 2), Code: 1, Msg: "a"},
	}
	list.Sort()
	var got []string
	for _, e := range list {
		got = append(got, e.Msg)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Errorf("sorted order mismatch (-want +got):\n%s", diff)
	}
	if report.ErrorList(nil).Err() != nil {
		t.Errorf("empty list should be a nil error")
	}
}

func TestNilPrinterDiscards(t *testing.T) {
	r := report.New(nil)
	r.Error(syntax.Position{}, 1, "dropped")
	if r.Printer() != report.Discard {
		t.Errorf("New(nil) printer = %v, want Discard", r.Printer())
	}
}
