/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import "testing"

func kinds(toks Tokens) []TokenKind {
	var ks []TokenKind
	for _, t := range toks {
		ks = append(ks, t.Kind)
	}
	return ks
}

func sameKinds(got []TokenKind, want []TokenKind) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func TestLexBasicDefinition(t *testing.T) {
	cu := FromString("stdin", "let x = 3;")
	toks := Lex(cu)

	want := []TokenKind{
		TokenKwLet, TokenSpaces, TokenIdentifier, TokenSpaces,
		TokenEq, TokenSpaces, TokenI64, TokenSemiColon,
	}
	if got := kinds(toks); !sameKinds(got, want) {
		t.Error("unexpected token kinds:", got)
		return
	}

	idIdx, idTok, ok := toks.NextNonBlank(2)
	if !ok || idTok.Kind != TokenIdentifier || idTok.Val != "x" {
		t.Error("unexpected identifier token:", idIdx, idTok)
		return
	}
}

func TestLexOperatorsAndComparisons(t *testing.T) {
	cu := FromString("stdin", "== != < <= > >= ! = : ( ) { }")
	toks := Lex(cu)

	var want []TokenKind
	for _, k := range []TokenKind{
		TokenEqEq, TokenNotEq, TokenLt, TokenLtEq, TokenGt, TokenGtEq,
		TokenNot, TokenEq, TokenColon, TokenLParen, TokenRParen, TokenLBrace, TokenRBrace,
	} {
		want = append(want, k, TokenSpaces)
	}
	want = want[:len(want)-1]

	if got := kinds(toks); !sameKinds(got, want) {
		t.Error("unexpected token kinds:", got)
		return
	}
}

func TestLexKeywordsVsIdentifiers(t *testing.T) {
	cu := FromString("stdin", "let letx var_ if iffy else elsewhere return returning")
	toks := Lex(cu)

	nonBlank := func(idx TokenIdx) Token {
		_, tok, ok := toks.NextNonBlank(idx)
		if !ok {
			t.Fatal("ran out of tokens")
		}
		return tok
	}

	cases := []struct {
		idx  TokenIdx
		kind TokenKind
		val  string
	}{
		{0, TokenKwLet, ""},
		{2, TokenIdentifier, "letx"},
		{4, TokenIdentifier, "var_"},
		{6, TokenKwIf, ""},
		{8, TokenIdentifier, "iffy"},
		{10, TokenKwElse, ""},
		{12, TokenIdentifier, "elsewhere"},
		{14, TokenKwReturn, ""},
		{16, TokenIdentifier, "returning"},
	}
	for _, c := range cases {
		tok := nonBlank(c.idx)
		if tok.Kind != c.kind {
			t.Error("unexpected kind at", c.idx, ":", tok.Kind)
			return
		}
		if c.val != "" && tok.Val != c.val {
			t.Error("unexpected identifier text:", tok.Val)
			return
		}
	}
}

func TestLexIntegers(t *testing.T) {
	cu := FromString("stdin", "0 7 42 1000000")
	toks := Lex(cu)

	var got []string
	idx := TokenIdx(0)
	for {
		i, tok, ok := toks.NextNonBlank(idx)
		if !ok {
			break
		}
		if tok.Kind != TokenI64 {
			t.Error("expected only I64 tokens, got:", tok.Kind)
			return
		}
		s, _ := cu.GetStrGraphemeSpan(tok.Span)
		got = append(got, s)
		idx = i + 1
	}

	want := []string{"0", "7", "42", "1000000"}
	if len(got) != len(want) {
		t.Error("unexpected integer count:", got)
		return
	}
	for i := range want {
		if got[i] != want[i] {
			t.Error("unexpected integer text:", got[i])
			return
		}
	}
}

func TestLexLeadingZeroRejected(t *testing.T) {
	cu := FromString("stdin", "042")
	toks := Lex(cu)

	if len(toks) != 2 {
		t.Error("expected exactly a FakeForInvalid/Invalid pair:", toks)
		return
	}
	if toks[0].Kind != TokenFakeForInvalid {
		t.Error("expected FakeForInvalid first:", toks[0])
		return
	}
	if toks[1].Kind != TokenInvalid || toks[1].Val != "leading zero is not allowed" {
		t.Error("unexpected invalid token:", toks[1])
		return
	}
	if toks[1].FakeIdx != 0 {
		t.Error("invalid token should point back at its fake:", toks[1].FakeIdx)
		return
	}
}

func TestLexUnsupportedChar(t *testing.T) {
	cu := FromString("stdin", "2^4;")
	toks := Lex(cu)

	var invalid *Token
	for i := range toks {
		if toks[i].Kind == TokenInvalid {
			invalid = &toks[i]
			break
		}
	}
	if invalid == nil {
		t.Error("expected an Invalid token for `^`:", toks)
		return
	}
	if invalid.Val != "unsupported `^`" {
		t.Error("unexpected message:", invalid.Val)
		return
	}
}

func TestLexMultiByteCharOutsideString(t *testing.T) {
	cu := FromString("stdin", "let 常量 = 42;")
	toks := Lex(cu)

	var invalid *Token
	for i := range toks {
		if toks[i].Kind == TokenInvalid {
			invalid = &toks[i]
			break
		}
	}
	if invalid == nil {
		t.Error("expected an Invalid token for the CJK identifier:", toks)
		return
	}
	want := "multi-char unicode like `常` only supported in strings and comments"
	if invalid.Val != want {
		t.Error("unexpected message:", invalid.Val)
		return
	}
}

func TestLexStringEscapes(t *testing.T) {
	input := "\" \\u{41} x\\u{4f60}xy{}\\u{597d}a\\u{1f316}\";"
	cu := FromString("stdin", input)
	toks := Lex(cu)

	idx, tok, ok := toks.NextNonBlank(0)
	if !ok || tok.Kind != TokenStringLit {
		t.Error("expected a string literal token:", idx, tok)
		return
	}

	want := " A x你xy{}好a\U0001F316"
	if tok.Decoded != want {
		t.Error("unexpected decoded string:", tok.Decoded)
		return
	}
}

func TestLexInvalidEscapeChar(t *testing.T) {
	cu := FromString("stdin", "\"abc\\zdef\"")
	toks := Lex(cu)

	var invalid *Token
	for i := range toks {
		if toks[i].Kind == TokenInvalid {
			invalid = &toks[i]
			break
		}
	}
	if invalid == nil {
		t.Error("expected an Invalid token for `\\z`:", toks)
		return
	}
	if invalid.Val != "invalid escape char `z`" {
		t.Error("unexpected message:", invalid.Val)
		return
	}
}

func TestLexUnterminatedString(t *testing.T) {
	cu := FromString("stdin", "let end = \"abc;")
	toks := Lex(cu)

	last := toks[len(toks)-1]
	if last.Kind != TokenInvalid || last.Val != "unterminated string literal" {
		t.Error("unexpected trailing token:", last)
		return
	}
}

func TestLexSpacesCountGraphemes(t *testing.T) {
	cu := FromString("stdin", "a   b")
	toks := Lex(cu)

	tok, ok := toks.Get(1)
	if !ok || tok.Kind != TokenSpaces {
		t.Error("expected a Spaces token:", tok)
		return
	}
	if tok.Count != 3 {
		t.Error("unexpected grapheme count:", tok.Count)
		return
	}
}

func TestLexComments(t *testing.T) {
	cu := FromString("stdin", "# a comment\nlet x = 1;")
	toks := Lex(cu)

	if toks[0].Kind != TokenComment {
		t.Error("expected a leading Comment token:", toks[0])
		return
	}
	if toks[1].Kind != TokenNewline {
		t.Error("expected a Newline right after the comment:", toks[1])
		return
	}
}
