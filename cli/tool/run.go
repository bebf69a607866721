/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package tool

import (
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/life-lang/llang/parser"
)

const progName = "llangc"

func printFatalError(msg string) {
	fmt.Fprintln(os.Stderr, fmt.Sprintf("%s: fatal error: %s", progName, msg))
}

func printUsage() {
	fmt.Fprintln(os.Stderr, fmt.Sprintf("Usage: %s run [OPTIONS] <INPUT>...", progName))
}

// Run compiles each file in args and prints its diagnostics to stderr. Each
// file is read and compiled independently, in its own goroutine - they share
// nothing, so the compilations run in parallel - but diagnostics are printed
// back in the original argument order once every file has finished. It never
// returns a reportable error itself: a bad source file is not a tool failure.
func Run(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.Usage = printUsage
	if err := fs.Parse(args); err != nil {
		return nil
	}

	files := fs.Args()
	if len(files) == 0 {
		printFatalError("no input files")
		printUsage()
		return nil
	}

	out := make([]string, len(files))
	var wg sync.WaitGroup
	for i, filename := range files {
		wg.Add(1)
		go func(i int, filename string) {
			defer wg.Done()
			out[i] = compileFile(filename)
		}(i, filename)
	}
	wg.Wait()

	for _, msg := range out {
		if msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
	}

	return nil
}

func compileFile(filename string) string {
	cu, err := parser.FromFile(filename)
	if err != nil {
		return fmt.Sprintf("%s: fatal error: failed to read source file `%s`, %v", progName, filename, err)
	}

	ast := parser.Parse(cu)
	if diag, ok := ast.Diagnostics(); ok {
		return diag
	}
	return ""
}
