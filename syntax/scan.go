// Copyright 2017 The Bazel Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package syntax

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// A Token represents a lexical token.
type Token int8

const (
	ILLEGAL Token = iota
	EOF

	IDENT  // x
	INT    // 123
	STRING // "foo"

	// Punctuation
	DOT    // .
	COMMA  // ,
	LBRACE // {
	RBRACE // }
	LT     // <
	GT     // >
	EQ     // =
	NOT    // !
	ANDAND // &&
	OROR   // ||
	EQL    // ==
	NEQ    // !=
	LPAREN // (
	RPAREN // )
	SEMI   // ;
	COLON  // :

	// Keywords
	BREAK
	CASE
	CATCH
	CONTINUE
	DEFAULT
	DELEGATE
	ELSE
	FALSE
	FINALLY
	GOTO
	IF
	NEW
	NULL
	OUT
	RETURN
	SWITCH
	TRUE
	TRY
	WHILE
)

var tokenNames = [...]string{
	ILLEGAL:  "illegal token",
	EOF:      "end of input",
	IDENT:    "identifier",
	INT:      "int literal",
	STRING:   "string literal",
	DOT:      ".",
	COMMA:    ",",
	LBRACE:   "{",
	RBRACE:   "}",
	LT:       "<",
	GT:       ">",
	EQ:       "=",
	NOT:      "!",
	ANDAND:   "&&",
	OROR:     "||",
	EQL:      "==",
	NEQ:      "!=",
	LPAREN:   "(",
	RPAREN:   ")",
	SEMI:     ";",
	COLON:    ":",
	BREAK:    "break",
	CASE:     "case",
	CATCH:    "catch",
	CONTINUE: "continue",
	DEFAULT:  "default",
	DELEGATE: "delegate",
	ELSE:     "else",
	FALSE:    "false",
	FINALLY:  "finally",
	GOTO:     "goto",
	IF:       "if",
	NEW:      "new",
	NULL:     "null",
	OUT:      "out",
	RETURN:   "return",
	SWITCH:   "switch",
	TRUE:     "true",
	TRY:      "try",
	WHILE:    "while",
}

func (tok Token) String() string { return tokenNames[tok] }

// GoString is like String but quotes punctuation tokens.
// Use Sprintf("%#v", tok) when constructing error messages.
func (tok Token) GoString() string {
	if tok >= DOT && tok <= COLON {
		return "'" + tokenNames[tok] + "'"
	}
	return tokenNames[tok]
}

var keywordToken = map[string]Token{
	"break":    BREAK,
	"case":     CASE,
	"catch":    CATCH,
	"continue": CONTINUE,
	"default":  DEFAULT,
	"delegate": DELEGATE,
	"else":     ELSE,
	"false":    FALSE,
	"finally":  FINALLY,
	"goto":     GOTO,
	"if":       IF,
	"new":      NEW,
	"null":     NULL,
	"out":      OUT,
	"return":   RETURN,
	"switch":   SWITCH,
	"true":     TRUE,
	"try":      TRY,
	"while":    WHILE,
}

// A Position describes the location of a rune of input.
type Position struct {
	file *string // filename (indirect for compactness)
	Line int32   // 1-based line number
	Col  int32   // 1-based column number (strictly: rune)
}

// IsValid reports whether the position is valid.
func (p Position) IsValid() bool { return p.Line >= 1 }

// Filename returns the name of the file containing this position.
func (p Position) Filename() string {
	if p.file != nil {
		return *p.file
	}
	return "<unknown>"
}

// MakePosition returns position with the specified components.
func MakePosition(file *string, line, col int32) Position { return Position{file, line, col} }

// add returns the position at the end of s, assuming it starts at p.
func (p Position) add(s string) Position {
	if n := strings.Count(s, "\n"); n > 0 {
		p.Line += int32(n)
		s = s[strings.LastIndex(s, "\n")+1:]
		p.Col = 1
	}
	p.Col += int32(utf8.RuneCountInString(s))
	return p
}

func (p Position) String() string {
	if p.Line > 0 {
		if p.Col > 0 {
			return fmt.Sprintf("%s:%d:%d", p.Filename(), p.Line, p.Col)
		}
		return fmt.Sprintf("%s:%d", p.Filename(), p.Line)
	}
	return p.Filename()
}

// An Error describes the nature and position of a syntax error.
type Error struct {
	Pos Position
	Msg string
}

func (e Error) Error() string { return e.Pos.String() + ": " + e.Msg }

// A scanner tokenizes a completion query or a function body.
type scanner struct {
	rest  []byte
	token []byte // slice of rest for the current token
	pos   Position
}

type tokenValue struct {
	raw    string
	int    int64
	string string
	pos    Position
}

func newScanner(filename string, src string) *scanner {
	return &scanner{
		rest: []byte(src),
		pos:  Position{file: &filename, Line: 1, Col: 1},
	}
}

// recover converts a panic(Error) raised by the scanner or reader
// into an ordinary error.
func (sc *scanner) recover(err *error) {
	switch e := recover().(type) {
	case nil:
		// no panic
	case Error:
		*err = e
	default:
		panic(e)
	}
}

func (sc *scanner) error(pos Position, s string) {
	panic(Error{pos, s})
}

func (sc *scanner) errorf(pos Position, format string, args ...interface{}) {
	sc.error(pos, fmt.Sprintf(format, args...))
}

func (sc *scanner) peekRune() rune {
	if len(sc.rest) == 0 {
		return 0
	}
	r, _ := utf8.DecodeRune(sc.rest)
	return r
}

func (sc *scanner) readRune() rune {
	if len(sc.rest) == 0 {
		sc.error(sc.pos, "internal scanner error: readRune at EOF")
	}
	r, n := utf8.DecodeRune(sc.rest)
	sc.rest = sc.rest[n:]
	if r == '\n' {
		sc.pos.Line++
		sc.pos.Col = 1
	} else {
		sc.pos.Col++
	}
	return r
}

func (sc *scanner) startToken(val *tokenValue) {
	sc.token = sc.rest
	val.pos = sc.pos
}

func (sc *scanner) endToken(val *tokenValue) {
	val.raw = string(sc.token[:len(sc.token)-len(sc.rest)])
}

// nextToken is called by the reader to obtain the next input token.
func (sc *scanner) nextToken(val *tokenValue) Token {
	for {
		c := sc.peekRune()
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			sc.readRune()
			continue
		}
		if c == '/' && len(sc.rest) > 1 && sc.rest[1] == '/' {
			// comment
			for len(sc.rest) > 0 && sc.peekRune() != '\n' {
				sc.readRune()
			}
			continue
		}
		break
	}

	sc.startToken(val)
	defer sc.endToken(val)

	if len(sc.rest) == 0 {
		return EOF
	}

	c := sc.peekRune()
	switch {
	case isIdentStart(c):
		for isIdent(sc.peekRune()) && len(sc.rest) > 0 {
			sc.readRune()
		}
		raw := string(sc.token[:len(sc.token)-len(sc.rest)])
		if tok, ok := keywordToken[raw]; ok {
			return tok
		}
		return IDENT

	case isDigit(c):
		for isDigit(sc.peekRune()) && len(sc.rest) > 0 {
			sc.readRune()
		}
		raw := string(sc.token[:len(sc.token)-len(sc.rest)])
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			sc.errorf(val.pos, "invalid int literal %s", raw)
		}
		val.int = n
		return INT

	case c == '"':
		sc.readRune()
		for {
			if len(sc.rest) == 0 {
				sc.error(val.pos, "unterminated string literal")
			}
			if sc.readRune() == '"' {
				break
			}
		}
		raw := string(sc.token[:len(sc.token)-len(sc.rest)])
		s, err := strconv.Unquote(raw)
		if err != nil {
			sc.errorf(val.pos, "invalid string literal %s", raw)
		}
		val.string = s
		return STRING
	}

	sc.readRune()
	switch c {
	case '.':
		return DOT
	case ',':
		return COMMA
	case '{':
		return LBRACE
	case '}':
		return RBRACE
	case '(':
		return LPAREN
	case ')':
		return RPAREN
	case ';':
		return SEMI
	case ':':
		return COLON
	case '<':
		return LT
	case '>':
		return GT
	case '=':
		if sc.peekRune() == '=' {
			sc.readRune()
			return EQL
		}
		return EQ
	case '!':
		if sc.peekRune() == '=' {
			sc.readRune()
			return NEQ
		}
		return NOT
	case '&':
		if sc.peekRune() == '&' {
			sc.readRune()
			return ANDAND
		}
	case '|':
		if sc.peekRune() == '|' {
			sc.readRune()
			return OROR
		}
	}
	sc.errorf(val.pos, "unexpected input character %#q", c)
	panic("unreachable")
}

func isDigit(c rune) bool      { return '0' <= c && c <= '9' }
func isIdentStart(c rune) bool { return c == '_' || unicode.IsLetter(c) }
func isIdent(c rune) bool      { return isIdentStart(c) || unicode.IsDigit(c) }
