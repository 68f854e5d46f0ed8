package main

import (
	"github.com/npillmayer/parsetab/lr"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "sets FILE",
		Short:   "Print FIRST and FOLLOW sets of a grammar",
		Example: `  tabgen sets expr.bnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runSets,
	}
	rootCmd.AddCommand(cmd)
}

func runSets(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	first, follow, err := lr.BuildFirstFollow(g)
	if err != nil {
		return err
	}
	printRules(g)
	printSets(g, first, follow)
	return nil
}
