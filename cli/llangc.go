/*
 * llang
 *
 * This Source Code Form is subject to the terms of the MIT
 * License, If a copy of the MIT License was not distributed with this
 * file, You can obtain one at https://opensource.org/licenses/MIT.
 */

package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/life-lang/llang/cli/tool"
	"github.com/life-lang/llang/config"
)

func main() {
	flag.CommandLine.Init(os.Args[0], flag.ContinueOnError)

	flag.Usage = func() {
		fmt.Println(fmt.Sprintf("Usage of %s <tool>", os.Args[0]))
		fmt.Println()
		fmt.Println(fmt.Sprintf("llang %v - a small expression language front end", config.ProductVersion))
		fmt.Println()
		fmt.Println("Available commands:")
		fmt.Println()
		fmt.Println("    run       Compile source files and print diagnostics (default)")
		fmt.Println("    console   Interactive console")
		fmt.Println()
		fmt.Println(fmt.Sprintf("Use %s <command> -help for more information about a given command.", os.Args[0]))
		fmt.Println()
	}

	if err := flag.CommandLine.Parse(os.Args[1:]); err == nil {
		var runErr error

		if len(flag.Args()) > 0 {
			switch flag.Args()[0] {
			case "run":
				runErr = tool.Run(flag.Args()[1:])
			case "console":
				runErr = tool.Console()
			default:
				runErr = tool.Run(flag.Args())
			}
		} else {
			runErr = tool.Run(flag.Args())
		}

		if runErr != nil {
			fmt.Println(fmt.Sprintf("Error: %v", runErr))
		}
	}
}
