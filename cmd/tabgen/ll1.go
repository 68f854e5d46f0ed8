package main

import (
	"github.com/npillmayer/parsetab/ll"
	"github.com/npillmayer/parsetab/lr"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "ll1 FILE",
		Short:   "Print the LL(1) parsing table of a grammar",
		Example: `  tabgen ll1 expr.bnf`,
		Args:    cobra.ExactArgs(1),
		RunE:    runLL1,
	}
	rootCmd.AddCommand(cmd)
}

func runLL1(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	return ll1(g)
}

func ll1(g *lr.Grammar) error {
	first, follow, err := lr.BuildFirstFollow(g)
	if err != nil {
		return err
	}
	table, conflicts, err := ll.BuildTable(g, first, follow)
	if err != nil {
		return err
	}
	printRules(g)
	printSets(g, first, follow)
	printLL1(table, conflicts)
	return nil
}
