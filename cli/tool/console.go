/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 *
 * Console is a small interactive read-parse-print loop. It is not in the
 * distilled surface - original_source only ever compiles files handed on
 * the command line - but an interactive shell is a natural companion to
 * a CLI front end, and the teacher's own `console` subcommand is the
 * idiom it is grounded on.
 */

package tool

import (
	"fmt"
	"os"
	"strings"

	"devt.de/krotik/common/termutil"
	"github.com/life-lang/llang/config"
	"github.com/life-lang/llang/parser"
)

func isExitLine(s string) bool {
	trimmed := strings.TrimSpace(s)
	return trimmed == "q" || trimmed == "quit"
}

// Console starts an interactive shell: each line is parsed as a standalone
// source unit and its diagnostics or printed tree are shown immediately.
func Console() error {
	term, err := termutil.NewConsoleLineTerminal(os.Stdout)
	if err != nil {
		return err
	}

	term, err = termutil.AddHistoryMixin(term, "", isExitLine)
	if err != nil {
		return err
	}

	if err := term.StartTerm(); err != nil {
		return err
	}
	defer term.StopTerm()

	fmt.Fprintln(os.Stdout, fmt.Sprintf("llang %v", config.ProductVersion))
	fmt.Fprintln(os.Stdout, "Type 'q' or 'quit' to exit the shell")

	line, err := term.NextLine()
	for err == nil && !isExitLine(line) {
		evalLine(line)
		line, err = term.NextLine()
	}

	return nil
}

func evalLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}

	cu := parser.FromString("console", line)
	ast := parser.Parse(cu)

	if diag, ok := ast.Diagnostics(); ok {
		fmt.Fprintln(os.Stdout, diag)
		return
	}

	fmt.Fprint(os.Stdout, parser.NewPrinter(ast).Visit(ast.Root()))
}
