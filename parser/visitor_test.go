/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package parser

import (
	"strconv"
	"strings"
	"testing"
)

func mustEval(t *testing.T, src string) (int64, error) {
	t.Helper()
	ast := Parse(FromString("stdin", src))
	if diag, ok := ast.Diagnostics(); ok {
		t.Fatal("unexpected parse error for", src, ":", diag)
	}
	return NewEvaluator(ast).Visit(ast.Root())
}

func TestEvalArithmetic(t *testing.T) {
	cases := []struct {
		src  string
		want int64
	}{
		{"1;", 1},
		{"1+1;", 2},
		{"1-1;", 0},
		{"7%2 + 3 * (12 / ( 15 / - 3+1 - - 1) ) - 2 - 1 + 1;", -13},
	}
	for _, c := range cases {
		got, err := mustEval(t, c.src)
		if err != nil {
			t.Error("unexpected error for", c.src, ":", err)
			return
		}
		if got != c.want {
			t.Error("unexpected result for", c.src, "got:", got, "want:", c.want)
			return
		}
	}
}

func TestEvalGroupedAndNegatedRoundtrip(t *testing.T) {
	ast := Parse(FromString("stdin", "(1 + 2) * -3;"))
	if diag, ok := ast.Diagnostics(); ok {
		t.Error("unexpected diagnostics:", diag)
		return
	}
	got := NewPrinter(ast).Visit(ast.Root())
	if got != "( 1 + 2 ) * -3;\n" {
		t.Error("unexpected printer output:", got)
		return
	}
	v, err := NewEvaluator(ast).Visit(ast.Root())
	if err != nil {
		t.Error("unexpected evaluation error:", err)
		return
	}
	if v != -9 {
		t.Error("unexpected result:", v)
		return
	}
}

func TestEvalAdditionOverflow(t *testing.T) {
	src := strconv.FormatInt(1<<62, 10) + " + " + strconv.FormatInt(1<<62, 10) + ";"
	_, err := mustEval(t, src)
	if err == nil || !strings.Contains(err.Error(), "overflows") {
		t.Error("expected an overflow error:", err)
		return
	}
}

func TestEvalDivisionByZero(t *testing.T) {
	_, err := mustEval(t, "1 / 0;")
	if err == nil || !strings.Contains(err.Error(), "overflows") {
		t.Error("expected a division-by-zero error:", err)
		return
	}
}

func TestEvalModuloByZero(t *testing.T) {
	_, err := mustEval(t, "1 % 0;")
	if err == nil || !strings.Contains(err.Error(), "overflows") {
		t.Error("expected a modulo-by-zero error:", err)
		return
	}
}

func TestEvalUnsupportedConstructs(t *testing.T) {
	cases := []string{
		`let x = 1;`,
		`"abc";`,
		`x;`,
	}
	for _, src := range cases {
		ast := Parse(FromString("stdin", src))
		if diag, ok := ast.Diagnostics(); ok {
			t.Error("unexpected parse error for", src, ":", diag)
			return
		}
		_, err := NewEvaluator(ast).Visit(ast.Root())
		if err == nil {
			t.Error("expected evaluation to be unsupported for", src)
			return
		}
	}
}

// Taking either branch of an if-expression means evaluating a Block,
// which the reference Evaluator explicitly does not support - evaluating
// an if is only ever useful for checking that the condition itself runs.
func TestEvalIfExpressionBranchIsUnsupported(t *testing.T) {
	_, err := mustEval(t, "if 1 { return 7; } else { return 8; };")
	if err == nil || !strings.Contains(err.Error(), "block") {
		t.Error("expected evaluating the taken branch to report a block error:", err)
		return
	}
}

func TestPrintStringLiteralEscapes(t *testing.T) {
	input := `" \u{41} x\u{4f60}xy{}\u{597d}a\u{1f316}";`
	ast := Parse(FromString("stdin", input))
	if diag, ok := ast.Diagnostics(); ok {
		t.Error("unexpected diagnostics:", diag)
		return
	}
	got := NewPrinter(ast).Visit(ast.Root())
	want := " A x你xy{}好a\U0001F316;\n"
	if got != want {
		t.Error("unexpected printer output:", got)
		return
	}
}
