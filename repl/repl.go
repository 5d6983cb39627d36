// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package repl provides a read/complete/print loop over the body of
// one member of an environment.
//
// It supports readline-style command editing, completion of the text
// before the cursor with the Tab key, and interrupts through Control-C.
//
// If an input line can be parsed as a completion query, the REPL
// completes it and prints the candidates. Otherwise the REPL reads
// lines until a blank line, then checks the input as the body of the
// member and prints its diagnostics.
package repl // import "go.resolvecore.dev/repl"

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"go.resolvecore.dev/complete"
	"go.resolvecore.dev/env"
	"go.resolvecore.dev/resolve"
	"go.resolvecore.dev/syntax"
)

// REPL executes a read, complete, print loop in the context of m.
func REPL(m *env.Member) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:       ">>> ",
		AutoComplete: completer{m},
	})
	if err != nil {
		PrintError(err)
		return
	}
	defer rl.Close()
	for {
		if err := rep(rl, m); err != nil {
			if err == readline.ErrInterrupt {
				fmt.Println(err)
				continue
			}
			break
		}
	}
	fmt.Println()
}

// rep reads, completes or checks, and prints one item.
//
// It returns an error (possibly readline.ErrInterrupt) only if
// readline failed. Failed queries and diagnostics are printed.
func rep(rl *readline.Instance, m *env.Member) error {
	rl.SetPrompt(">>> ")
	line, err := rl.Readline()
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) == "" {
		return nil
	}

	if _, err := syntax.ParseQuery("<stdin>", line); err == nil {
		r, err := complete.Query(context(m), line)
		if err != nil {
			PrintError(err)
			return nil
		}
		if len(r.Candidates) > 0 {
			fmt.Println(r)
		}
		return nil
	}

	// Not a query: read the rest of the body up to a blank line.
	var body strings.Builder
	body.WriteString(line + "\n")
	rl.SetPrompt("... ")
	eof := false
	for {
		line, err := rl.Readline()
		if err == io.EOF {
			eof = true
			break
		} else if err != nil {
			return err
		}
		if strings.TrimSpace(line) == "" {
			break
		}
		body.WriteString(line + "\n")
	}

	_, diags, err := m.Check("<stdin>", body.String())
	if err != nil {
		PrintError(err)
	}
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d)
	}
	if eof {
		return io.EOF
	}
	return nil
}

// PrintError prints the error to stderr.
func PrintError(err error) {
	if errors.Is(err, complete.ErrNoCandidates) {
		fmt.Fprintln(os.Stderr, "no candidates")
		return
	}
	fmt.Fprintln(os.Stderr, err)
}

// context returns a fresh resolution context for the body of m.
func context(m *env.Member) *resolve.Context {
	return m.BlockContext(m.Body()).Context
}

// completer offers, for the text before the cursor, the remainder of
// each name that may be written there.
type completer struct {
	m *env.Member
}

// Do implements readline.AutoCompleter.
func (c completer) Do(line []rune, pos int) ([][]rune, int) {
	r, err := complete.Query(context(c.m), string(line[:pos]))
	if err != nil {
		return nil, 0
	}
	var suffixes [][]rune
	for _, s := range r.Suffixes() {
		suffixes = append(suffixes, []rune(s))
	}
	return suffixes, len([]rune(r.Prefix))
}
