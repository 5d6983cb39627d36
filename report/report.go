// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package report collects the diagnostics produced during resolution.
//
// Diagnostics flow from the resolver to a Report, which hands each one
// to its current Printer. The printer can be swapped for the duration
// of a sub-resolution, for example to count the errors of a
// speculative lookup without showing them to the user:
//
//	session := new(report.SessionPrinter)
//	old := r.SetPrinter(session)
//	... resolve ...
//	r.SetPrinter(old)
//	if session.ErrorsCount() > 0 { ... }
package report // import "go.resolvecore.dev/report"

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"go.resolvecore.dev/syntax"
)

// Severity distinguishes errors from warnings.
type Severity uint8

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// An Error describes one diagnostic.
type Error struct {
	Pos      syntax.Position
	Code     int // compiler message number, e.g. 103 for CS0103
	Msg      string
	Severity Severity
}

func (e Error) Error() string {
	return fmt.Sprintf("%s: %s CS%04d: %s", e.Pos, e.Severity, e.Code, e.Msg)
}

// An ErrorList is a non-empty list of diagnostics.
type ErrorList []Error

func (e ErrorList) Error() string {
	if len(e) == 1 {
		return e[0].Error()
	}
	var sb strings.Builder
	for i, err := range e {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Sort orders the list by position.
func (e ErrorList) Sort() {
	sort.SliceStable(e, func(i, j int) bool {
		p, q := e[i].Pos, e[j].Pos
		if p.Filename() != q.Filename() {
			return p.Filename() < q.Filename()
		}
		if p.Line != q.Line {
			return p.Line < q.Line
		}
		return p.Col < q.Col
	})
}

// Err returns e as an error, or nil if e is empty.
func (e ErrorList) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// A Printer receives the diagnostics of a Report.
type Printer interface {
	Print(e Error)
}

// A SessionPrinter keeps the diagnostics it receives.
// Its zero value is ready to use.
type SessionPrinter struct {
	list     ErrorList
	errors   int
	warnings int
}

func (p *SessionPrinter) Print(e Error) {
	p.list = append(p.list, e)
	if e.Severity == SeverityWarning {
		p.warnings++
	} else {
		p.errors++
	}
}

func (p *SessionPrinter) ErrorsCount() int   { return p.errors }
func (p *SessionPrinter) WarningsCount() int { return p.warnings }

// Errors returns the diagnostics received so far, in arrival order.
func (p *SessionPrinter) Errors() ErrorList { return p.list }

// Reset discards everything received.
func (p *SessionPrinter) Reset() { *p = SessionPrinter{} }

// A StreamPrinter writes each diagnostic as a line of text.
type StreamPrinter struct {
	w io.Writer
}

func NewStreamPrinter(w io.Writer) *StreamPrinter { return &StreamPrinter{w} }

func (p *StreamPrinter) Print(e Error) {
	fmt.Fprintln(p.w, e.Error())
}

// Discard is a Printer that drops everything.
var Discard Printer = discard{}

type discard struct{}

func (discard) Print(Error) {}

// A Report is the diagnostics sink of a compilation.
type Report struct {
	printer    Printer
	errors     int
	warnings   int
	suppressed int
}

// New returns a Report printing to p (Discard if p is nil).
func New(p Printer) *Report {
	if p == nil {
		p = Discard
	}
	return &Report{printer: p}
}

// SetPrinter installs p and returns the previous printer.
func (r *Report) SetPrinter(p Printer) Printer {
	old := r.printer
	r.printer = p
	return old
}

// Printer returns the current printer.
func (r *Report) Printer() Printer { return r.printer }

// Error reports an error at pos.
func (r *Report) Error(pos syntax.Position, code int, format string, args ...interface{}) {
	r.errors++
	r.printer.Print(Error{Pos: pos, Code: code, Msg: fmt.Sprintf(format, args...)})
}

// Warning reports a warning at pos.
func (r *Report) Warning(pos syntax.Position, code int, format string, args ...interface{}) {
	r.warnings++
	r.printer.Print(Error{Pos: pos, Code: code, Msg: fmt.Sprintf(format, args...), Severity: SeverityWarning})
}

// Suppress counts an error without printing it.
// Speculative resolution reports through Suppress so that its failures
// are visible to the caller but never to the user.
func (r *Report) Suppress() {
	r.errors++
	r.suppressed++
}

// Errors returns the number of errors reported through r,
// whichever printer received them, suppressed ones included.
func (r *Report) Errors() int { return r.errors }

// Suppressed returns the number of errors counted by Suppress.
func (r *Report) Suppressed() int { return r.suppressed }

// Warnings returns the number of warnings reported through r.
func (r *Report) Warnings() int { return r.warnings }
