package main

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/npillmayer/parsetab/lr"
	"github.com/npillmayer/parsetab/lr/bnf"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var rootFlags = struct {
	trace *string
	ebnf  *string
}{}

var rootCmd = &cobra.Command{
	Use:   "tabgen",
	Short: "Compute FIRST/FOLLOW sets, LL(1) and SLR(1) tables for a grammar",
	Long: `tabgen reads a context-free grammar and prints
- FIRST and FOLLOW sets,
- the LL(1) predictive table,
- the SLR(1) ACTION and GOTO tables,
together with all the conflicts found.`,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// traced packages
var traceKeys = []string{"parsetab.cli", "parsetab.lr", "parsetab.ll", "parsetab.bnf"}

func init() {
	rootFlags.trace = rootCmd.PersistentFlags().StringP("trace", "t", "Error", "trace level [Debug|Info|Error]")
	rootFlags.ebnf = rootCmd.PersistentFlags().String("ebnf", "", "read grammar in EBNF notation, with given start symbol")
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		pterm.Error.Println(err.Error())
		return err
	}
	return nil
}

func setup(cmd *cobra.Command, args []string) error {
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	level := tracing.TraceLevelFromString(*rootFlags.trace)
	for _, key := range traceKeys {
		tracing.Select(key).SetTraceLevel(level)
	}
	tracer().Infof("Trace level is %s", *rootFlags.trace)
	return nil
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

// loadGrammar reads a grammar from a file, or from stdin for "-".
func loadGrammar(path string) (*lr.Grammar, error) {
	var r io.Reader = os.Stdin
	name := "stdin"
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	var g *lr.Grammar
	var err error
	if *rootFlags.ebnf != "" {
		g, err = bnf.ParseEBNF(name, *rootFlags.ebnf, r)
	} else {
		g, err = bnf.Parse(name, r)
	}
	if err != nil {
		return nil, err
	}
	g.Dump()
	return g, nil
}
