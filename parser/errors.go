/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 *
 * ParseError is a small error tree rather than a single message: a parse
 * can accumulate several independent errors (one per recovery point) and
 * each one can itself be wrapped in layers of "while parsing X" context.
 * Rendering happens once, at the end, against the line index built from
 * the CompilationUnit the errors were raised against.
 */

package parser

import (
	"fmt"
	"strings"

	"github.com/life-lang/llang/config"
)

// ParseErrorKind discriminates the variant held by a ParseError value.
type ParseErrorKind int

const (
	PEKEmpty ParseErrorKind = iota
	PEKMulti
	PEKSingle
	PEKWithContext
)

/*
ParseError is a flat sum type: Kind selects which fields are meaningful,
mirroring the Node/Token convention used elsewhere in this package over a
deeper interface hierarchy.
*/
type ParseError struct {
	Kind     ParseErrorKind
	Single   SingleParseError
	Children []ParseError // Multi, WithContext
}

// NoParseError is the empty error: "nothing went wrong yet".
func NoParseError() ParseError {
	return ParseError{Kind: PEKEmpty}
}

// NewSingleParseError wraps one concrete error.
func NewSingleParseError(single SingleParseError) ParseError {
	return ParseError{Kind: PEKSingle, Single: single}
}

// IsEmpty reports whether e carries no error.
func (e ParseError) IsEmpty() bool {
	return e.Kind == PEKEmpty
}

// AddErrorContext wraps e with an additional "while parsing X" frame. It
// panics if e is empty: context can only be attached to a real error.
func (e ParseError) AddErrorContext(msg string) ParseError {
	assertTrue(!e.IsEmpty(), "BUG: cannot add context to an empty error")
	ctx := NewSingleParseError(SingleParseError{Kind: SPEKContext, Msg: msg})
	return ParseError{Kind: PEKWithContext, Children: []ParseError{e, ctx}}
}

// AddNewError accumulates other alongside e. An empty e is replaced
// outright; otherwise both are kept side by side as independent errors.
func (e ParseError) AddNewError(other ParseError) ParseError {
	if e.IsEmpty() {
		return other
	}
	return ParseError{Kind: PEKMulti, Children: []ParseError{e, other}}
}

// RenderCtx bundles what GetString needs to turn token/node indices back
// into source-anchored caret diagnostics.
type RenderCtx struct {
	CU    *CompilationUnit
	Toks  Tokens
	Lines *LineIndex
}

func newRenderCtx(cu *CompilationUnit, toks Tokens) *RenderCtx {
	return &RenderCtx{CU: cu, Toks: toks, Lines: NewLineIndex(cu)}
}

func (rc *RenderCtx) diagWithErrorToken(idx TokenIdx) string {
	tok, ok := rc.Toks.Get(idx)
	assertTrue(ok, fmt.Sprintf("BUG: failed to get token %d for diagnostics", idx))
	bs, ok := rc.CU.ByteSpanOfGraphemeSpan(tok.Span)
	assertTrue(ok, "BUG: token span out of range")
	return rc.Lines.DiagWithError(bs, rc.CU)
}

func (rc *RenderCtx) diagWithCtxToken(idx TokenIdx) string {
	tok, ok := rc.Toks.Get(idx)
	assertTrue(ok, fmt.Sprintf("BUG: failed to get token %d for diagnostics", idx))
	startBS, ok := rc.CU.ByteSpanOf(GraphemeIdx(tok.Span.Start))
	assertTrue(ok, "BUG: token span out of range")
	return rc.Lines.DiagWithCtx(startBS.Start, rc.CU)
}

func (rc *RenderCtx) diagWithCtxAndErrorTokens(ctxIdx, errIdx TokenIdx) string {
	ctxTok, ok := rc.Toks.Get(ctxIdx)
	assertTrue(ok, fmt.Sprintf("BUG: failed to get token %d for diagnostics", ctxIdx))
	ctxStartBS, ok := rc.CU.ByteSpanOf(GraphemeIdx(ctxTok.Span.Start))
	assertTrue(ok, "BUG: token span out of range")

	errTok, ok := rc.Toks.Get(errIdx)
	assertTrue(ok, fmt.Sprintf("BUG: failed to get token %d for diagnostics", errIdx))
	errBS, ok := rc.CU.ByteSpanOfGraphemeSpan(errTok.Span)
	assertTrue(ok, "BUG: token span out of range")

	return rc.Lines.DiagWithCtxAndError(ctxStartBS.Start, errBS, rc.CU)
}

// GetString renders the full error tree against rc.
func (e ParseError) GetString(rc *RenderCtx) string {
	switch e.Kind {
	case PEKEmpty:
		assertTrue(false, "BUG: cannot get string from empty error")
		return ""
	case PEKSingle:
		return e.Single.GetString(rc)
	case PEKWithContext, PEKMulti:
		var sb strings.Builder
		for _, child := range e.Children {
			sb.WriteString(child.GetString(rc))
		}
		return sb.String()
	default:
		assertTrue(false, "BUG: unknown ParseError kind")
		return ""
	}
}

// SingleParseErrorKind discriminates the variant held by a
// SingleParseError value.
type SingleParseErrorKind int

const (
	SPEKContext SingleParseErrorKind = iota
	SPEKUnexpectedEof
	SPEKIntegerOverflow
	SPEKMismatchedParentheses
	SPEKUnexpectedToken
	SPEKLexErrors
)

// LexError is one lex-time failure: the token that failed plus a message.
type LexError struct {
	TokenIdx TokenIdx
	Msg      string
}

/*
SingleParseError is a single concrete diagnostic. Like ParseError, it is a
flat struct with a discriminant rather than one struct per variant; only
the fields relevant to Kind are populated.
*/
type SingleParseError struct {
	Kind SingleParseErrorKind

	Msg string // Context, UnexpectedEof, UnexpectedToken

	CtxTokenIdx      TokenIdx // UnexpectedEof: where eof was encountered in context
	Token            TokenIdx // IntegerOverflow
	LParen           TokenIdx // MismatchedParentheses
	ErrorTokenIdx    TokenIdx // MismatchedParentheses, UnexpectedToken
	CtxStartTokenIdx TokenIdx // UnexpectedToken

	LexErrors []LexError
}

func colorize(s, ansiCode string) string {
	if !config.Bool(config.Color) {
		return s
	}
	return "\x1b[" + ansiCode + "m" + s + "\x1b[0m"
}

func contextStr() string { return colorize("context", "34") }
func errorStr() string   { return colorize("error", "31") }

// GetString renders one concrete diagnostic against rc.
func (e SingleParseError) GetString(rc *RenderCtx) string {
	switch e.Kind {
	case SPEKContext:
		return fmt.Sprintf("%s: %s\n", contextStr(), colorize(e.Msg, "34"))

	case SPEKUnexpectedEof:
		return fmt.Sprintf("%s: unexpected end of file, %s\n%s",
			errorStr(), colorize(e.Msg, "31"), rc.diagWithCtxToken(e.CtxTokenIdx))

	case SPEKIntegerOverflow:
		return fmt.Sprintf("%s: integer overflow `%s`",
			errorStr(), rc.diagWithCtxToken(e.Token))

	case SPEKMismatchedParentheses:
		return fmt.Sprintf("%s: mismatched parentheses `%s`, at `%s`",
			errorStr(), rc.diagWithCtxToken(e.LParen), rc.diagWithCtxToken(e.ErrorTokenIdx))

	case SPEKUnexpectedToken:
		return fmt.Sprintf("%s: %s\n%s",
			errorStr(), colorize(e.Msg, "31"),
			rc.diagWithCtxAndErrorTokens(e.CtxStartTokenIdx, e.ErrorTokenIdx))

	case SPEKLexErrors:
		var sb strings.Builder
		for _, le := range e.LexErrors {
			fmt.Fprintf(&sb, "%s: %s\n%s",
				errorStr(), colorize(le.Msg, "31"), rc.diagWithErrorToken(le.TokenIdx))
		}
		return sb.String()

	default:
		assertTrue(false, "BUG: unknown SingleParseError kind")
		return ""
	}
}

// getLexErrors collects every Invalid token's message into a single
// LexErrors error, or returns (SingleParseError{}, false) if the stream is
// clean. A lexical failure always short-circuits the parse: there is no
// useful AST to build over a token stream with unresolved invalid runs.
func getLexErrors(toks Tokens) (SingleParseError, bool) {
	var lexErrors []LexError
	for _, tok := range toks {
		if tok.Kind == TokenInvalid {
			lexErrors = append(lexErrors, LexError{TokenIdx: tok.FakeIdx, Msg: tok.Val})
		}
	}
	if len(lexErrors) == 0 {
		return SingleParseError{}, false
	}
	return SingleParseError{Kind: SPEKLexErrors, LexErrors: lexErrors}, true
}
