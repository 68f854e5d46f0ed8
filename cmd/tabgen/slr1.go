package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/npillmayer/parsetab/lr"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var slr1Flags = struct {
	dot  *string
	html *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:   "slr1 FILE",
		Short: "Print the SLR(1) ACTION and GOTO tables of a grammar",
		Example: `  tabgen slr1 expr.bnf
  tabgen slr1 expr.bnf --dot expr.dot --html ./tables`,
		Args: cobra.ExactArgs(1),
		RunE: runSLR1,
	}
	slr1Flags.dot = cmd.Flags().String("dot", "", "export the CFSM in Graphviz format to a file")
	slr1Flags.html = cmd.Flags().String("html", "", "export the tables in HTML format to a directory")
	rootCmd.AddCommand(cmd)
}

func runSLR1(cmd *cobra.Command, args []string) error {
	g, err := loadGrammar(args[0])
	if err != nil {
		return err
	}
	lrgen, err := slr1(g)
	if err != nil {
		return err
	}
	if *slr1Flags.dot != "" {
		if err := exportDot(lrgen.CFSM(), *slr1Flags.dot); err != nil {
			return err
		}
	}
	if *slr1Flags.html != "" {
		if err := exportHTML(lrgen, g, *slr1Flags.html); err != nil {
			return err
		}
	}
	return nil
}

func slr1(g *lr.Grammar) (*lr.TableGenerator, error) {
	ga := lr.Analysis(g)
	if ga == nil {
		return nil, lr.CheckGrammar(g)
	}
	lrgen := lr.NewTableGenerator(ga)
	lrgen.CreateTables()
	printRules(g)
	printSets(g, ga.FirstSets(), ga.FollowSets())
	printSLR1(g, lrgen.CFSM(), lrgen.ActionTable(), lrgen.GotoTable(), lrgen.Conflicts())
	return lrgen, nil
}

func exportDot(cfsm *lr.CFSM, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := cfsm.CFSM2GraphViz(f); err != nil {
		return err
	}
	pterm.Info.Println(fmt.Sprintf("CFSM written to %s", path))
	return nil
}

func exportHTML(lrgen *lr.TableGenerator, g *lr.Grammar, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for _, export := range []struct {
		table string
		write func(*lr.TableGenerator, io.Writer)
	}{
		{"action", lr.ActionTableAsHTML},
		{"goto", lr.GotoTableAsHTML},
	} {
		path := filepath.Join(dir, fmt.Sprintf("%s_%s.html", g.Name, export.table))
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		export.write(lrgen, f)
		if err := f.Close(); err != nil {
			return err
		}
		pterm.Info.Println(fmt.Sprintf("%s table written to %s", export.table, path))
	}
	return nil
}
