// Command treebench drives the tree components in this module: build a
// sequence of operations, run it through the structure, and report what
// happened. It exposes two subcommands, since there are two distinct
// things worth driving: a raw insert run (`run`) and a replayable
// scenario file describing interval/requirement traffic (`scenario`).
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "treebench",
		Short: "Exercise the rbtree-derived structures with synthetic workloads",
	}
	root.AddCommand(newRunCmd())
	root.AddCommand(newScenarioCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
