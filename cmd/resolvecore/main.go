// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The resolvecore command resolves and checks member bodies, and
// answers completion queries, against an environment of types.
//
// Each file argument is checked as the body of the member and its
// diagnostics are printed; with -watch, files are checked again
// whenever they change, until interrupted. With no arguments, queries
// are read from the standard input, one per line; if the standard
// input is a terminal, a read-complete-print loop (REPL) is started
// instead.
package main // import "go.resolvecore.dev/cmd/resolvecore"

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"time"

	"golang.org/x/term"

	"go.resolvecore.dev/complete"
	"go.resolvecore.dev/env"
	"go.resolvecore.dev/repl"
	"go.resolvecore.dev/report"
)

//go:embed default.yaml
var defaultEnv []byte

// flags
var (
	cpuprofile  = flag.String("cpuprofile", "", "gather Go CPU profile in this file")
	memprofile  = flag.String("memprofile", "", "gather Go memory profile in this file")
	envfile     = flag.String("env", "", "read the environment from this YAML `file`")
	member      = flag.String("member", "", "check and complete in the body of this `member` (default: the first)")
	query       = flag.String("c", "", "complete `query` and exit")
	checked     = flag.Bool("checked", false, "check arithmetic overflow by default")
	allowUnsafe = flag.Bool("unsafe", false, "allow unsafe code in every member")
	asJSON      = flag.Bool("json", false, "print completion results as JSON")
	watch       = flag.Bool("watch", false, "check the files again whenever they change")
)

func main() {
	os.Exit(doMain())
}

func doMain() int {
	log.SetPrefix("resolvecore: ")
	log.SetFlags(0)
	flag.Parse()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		check(err)
		err = pprof.StartCPUProfile(f)
		check(err)
		defer func() {
			pprof.StopCPUProfile()
			err := f.Close()
			check(err)
		}()
	}
	if *memprofile != "" {
		f, err := os.Create(*memprofile)
		check(err)
		defer func() {
			runtime.GC()
			err := pprof.Lookup("heap").WriteTo(f, 0)
			check(err)
			err = f.Close()
			check(err)
		}()
	}

	e, err := loadEnv()
	check(err)
	if *checked {
		e.Settings().Checked = true
	}
	if *allowUnsafe {
		e.Settings().Unsafe = true
	}

	m, err := selectMember(e)
	check(err)

	switch {
	case *query != "":
		if !completeOne(m, *query) {
			return 1
		}
	case flag.NArg() > 0:
		ok := true
		for _, filename := range flag.Args() {
			ok = checkFile(m, filename) && ok
		}
		if *watch {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			err := watchFiles(ctx, flag.Args(), 250*time.Millisecond, func(changed []string) {
				for _, filename := range changed {
					fmt.Fprintf(os.Stderr, "checking %s\n", filename)
					checkFile(m, filename)
				}
			})
			check(err)
			return 0
		}
		if !ok {
			return 1
		}
	case term.IsTerminal(int(os.Stdin.Fd())):
		fmt.Printf("Completing in %s\n", m)
		repl.REPL(m)
	default:
		ok := true
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			ok = completeOne(m, sc.Text()) && ok
		}
		check(sc.Err())
		if !ok {
			return 1
		}
	}
	return 0
}

func loadEnv() (*env.Environment, error) {
	if *envfile == "" {
		return env.Parse("default.yaml", defaultEnv)
	}
	return env.Load(*envfile)
}

func selectMember(e *env.Environment) (*env.Member, error) {
	if *member == "" {
		if ms := e.Members(); len(ms) > 0 {
			return ms[0], nil
		}
		return nil, fmt.Errorf("environment declares no members")
	}
	if m := e.Member(*member); m != nil {
		return m, nil
	}
	return nil, fmt.Errorf("no member %q", *member)
}

// completeOne prints the candidates for q, reporting whether q could
// be completed.
func completeOne(m *env.Member, q string) bool {
	r, err := complete.Query(m.BlockContext(m.Body()).Context, q)
	if err != nil {
		repl.PrintError(err)
		return false
	}
	if *asJSON {
		data, err := json.Marshal(r)
		check(err)
		fmt.Printf("%s\n", data)
	} else if len(r.Candidates) > 0 {
		fmt.Println(r)
	}
	return true
}

// checkFile checks the named file as the body of m and prints its
// diagnostics, reporting whether it is free of errors.
func checkFile(m *env.Member, filename string) bool {
	src, err := os.ReadFile(filename)
	if err != nil {
		log.Print(err)
		return false
	}
	_, diags, err := m.Check(filename, string(src))
	if err != nil {
		repl.PrintError(err)
		return false
	}
	ok := true
	for _, d := range diags {
		fmt.Fprintln(os.Stderr, d)
		if d.Severity == report.SeverityError {
			ok = false
		}
	}
	return ok
}

func check(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
