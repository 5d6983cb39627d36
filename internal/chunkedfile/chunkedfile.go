// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package chunkedfile provides utilities for testing that diagnostics
// are reported in the appropriate places.
//
// A chunked file consists of several bodies separated by "---" lines.
// Each body is checked by the program under test. A "###" in a line
// introduces an expectation of a diagnostic on that line: an optional
// compiler message number followed by a Go string literal denoting a
// regular expression that must match the message. A line may hold
// several expectations.
//
// Leading comment lines of the form "// key: value" are directives
// that tell the client how to check the body.
//
// Example:
//
//	// member: Update
//	int x;
//	f(x); // ### CS0165 "unassigned local variable `x'"
//	---
//	while (true) { }
//	f(); // ### "Unreachable" ### CS0165 "unassigned"
//
// A client test feeds each chunk of text into the program under test,
// then calls chunk.GotError for each diagnostic that actually occurred.
// Any discrepancy between the actual and expected diagnostics is
// reported using the client's reporter, which is typically a testing.T.
package chunkedfile // import "go.resolvecore.dev/internal/chunkedfile"

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
)

// A Chunk is one body of a chunked file with the diagnostics it expects.
type Chunk struct {
	// Source is the body, preceded by enough newlines that its line
	// numbers are those of the file.
	Source string

	// Line is the line of the file on which the body starts.
	Line int

	directives map[string]string
	filename   string
	report     Reporter
	want       map[int][]expectation
}

type expectation struct {
	code int // 0 matches any code
	rx   *regexp.Regexp
}

func (x expectation) String() string {
	if x.code != 0 {
		return fmt.Sprintf("CS%04d %q", x.code, x.rx)
	}
	return strconv.Quote(x.rx.String())
}

// Reporter is implemented by *testing.T.
type Reporter interface {
	Errorf(format string, args ...interface{})
}

// Read parses a chunked file and returns its chunks.
// It reports malformed expectations using the reporter.
//
// Messages of the form "file:line: ..." are prefixed by a newline so
// that the Go source position added by (*testing.T).Errorf appears on a
// separate line.
func Read(filename string, report Reporter) []*Chunk {
	data, err := os.ReadFile(filename)
	if err != nil {
		report.Errorf("%s", err)
		return nil
	}
	return parse(filename, strings.ReplaceAll(string(data), "\r\n", "\n"), report)
}

func parse(filename, data string, report Reporter) []*Chunk {
	var chunks []*Chunk
	line := 1
	for _, body := range strings.Split(data, "\n---\n") {
		c := &Chunk{
			Source:     strings.Repeat("\n", line-1) + body,
			Line:       line,
			directives: make(map[string]string),
			filename:   filename,
			report:     report,
			want:       make(map[int][]expectation),
		}
		header := true
		for _, text := range strings.Split(body, "\n") {
			if header {
				header = c.directive(text)
			}
			if i := strings.Index(text, "###"); i >= 0 {
				c.expect(line, text[i:])
			}
			line++
		}
		line++ // separator
		chunks = append(chunks, c)
	}
	return chunks
}

// directive records text if it is a directive, and reports whether the
// header of the chunk may continue after it.
func (c *Chunk) directive(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return true
	}
	if !strings.HasPrefix(text, "//") || strings.Contains(text, "###") {
		return false
	}
	key, value, ok := strings.Cut(strings.TrimPrefix(text, "//"), ":")
	key = strings.TrimSpace(key)
	if !ok || key == "" || strings.ContainsAny(key, " \t") {
		return true // an ordinary comment
	}
	c.directives[key] = strings.TrimSpace(value)
	return true
}

// expect parses the expectations in text, which starts at the first
// "###" of the given line.
func (c *Chunk) expect(line int, text string) {
	for _, item := range strings.Split(text, "###")[1:] {
		item = strings.TrimSpace(item)
		var x expectation
		if strings.HasPrefix(item, "CS") {
			word, rest, _ := strings.Cut(item, " ")
			code, err := strconv.Atoi(word[len("CS"):])
			if err != nil {
				c.report.Errorf("\n%s:%d: bad message number %s", c.filename, line, word)
				continue
			}
			x.code, item = code, strings.TrimSpace(rest)
		}
		pattern, err := strconv.Unquote(item)
		if err != nil {
			c.report.Errorf("\n%s:%d: not a quoted regexp: %s", c.filename, line, item)
			continue
		}
		if x.rx, err = regexp.Compile(pattern); err != nil {
			c.report.Errorf("\n%s:%d: %v", c.filename, line, err)
			continue
		}
		c.want[line] = append(c.want[line], x)
	}
}

// Directive returns the value of the named directive of the chunk,
// or dflt if the chunk has none.
func (c *Chunk) Directive(key, dflt string) string {
	if v, ok := c.directives[key]; ok {
		return v
	}
	return dflt
}

// GotError should be called by the client to report a diagnostic with
// message number code (zero if it has none) at a particular line.
// It consumes the first expectation of the line that matches, and
// reports the diagnostic to the chunk's reporter if none does.
func (c *Chunk) GotError(line, code int, msg string) {
	want := c.want[line]
	for i, x := range want {
		if (x.code == 0 || x.code == code) && x.rx.MatchString(msg) {
			c.want[line] = append(want[:i:i], want[i+1:]...)
			return
		}
	}
	if len(want) > 0 {
		c.report.Errorf("\n%s:%d: error CS%04d %q matches none of %v", c.filename, line, code, msg, want)
	} else {
		c.report.Errorf("\n%s:%d: unexpected error CS%04d: %s", c.filename, line, code, msg)
	}
}

// Done should be called by the client to indicate that the chunk has
// no more diagnostics. It reports the expectations that were not met.
func (c *Chunk) Done() {
	for line := range c.want {
		for _, x := range c.want[line] {
			c.report.Errorf("\n%s:%d: expected error matching %v", c.filename, line, x)
		}
	}
}
