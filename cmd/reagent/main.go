// Command reagent answers questions with a ReAct agent.
//
//	reagent ask "How much does a pen cost?"
//	reagent chat
//	reagent --offline demo
//
// Configuration is read from --config, then .env, then the environment, then flags.
// See internal/config for the variable names.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr, os.LookupEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}
