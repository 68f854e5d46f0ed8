package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/npillmayer/parsetab/lr"
	"github.com/npillmayer/parsetab/lr/bnf"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Enter grammar rules interactively and print a parser table",
		Long: `repl reads grammar rules line by line, in the notation of
'A -> B c | d'. Enter 'done' to finish, 'show' to list the rules
entered so far, or 'reset' to start over. Afterwards, choose the
table to print: LL1 or SLR1.`,
		Args: cobra.NoArgs,
		RunE: runREPL,
	}
	rootCmd.AddCommand(cmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	repl, err := readline.New("rule> ")
	if err != nil {
		return err
	}
	defer repl.Close()
	pterm.Info.Println("Enter grammar rules (format: S -> a B | c), 'done' to finish")
	tracer().Infof("Quit with <ctrl>D")
	intp := &Intp{
		rules: bnf.NewRuleReader("G"),
		repl:  repl,
	}
	g, err := intp.readGrammar()
	if err != nil || g == nil {
		return err
	}
	return intp.printTable(g)
}

// Intp is our interpreter object
type Intp struct {
	rules *bnf.RuleReader
	repl  *readline.Instance
}

// readGrammar reads rules until the user enters 'done'. It returns a nil
// grammar if input ends prematurely.
func (intp *Intp) readGrammar() (*lr.Grammar, error) {
	for {
		line, err := intp.repl.Readline()
		if err != nil { // io.EOF or interrupt
			pterm.Info.Println("Cancelled")
			return nil, nil
		}
		if line = strings.TrimSpace(line); line == "" {
			continue
		}
		switch strings.ToLower(line) {
		case "done":
			if intp.rules.Len() == 0 {
				pterm.Warning.Println("At least one rule is required!")
				continue
			}
			g, err := intp.rules.Grammar()
			if err != nil {
				pterm.Error.Println(err.Error())
				continue
			}
			return g, nil
		case "reset":
			intp.rules.Reset()
			pterm.Info.Println("All rules discarded")
			continue
		case "show":
			for _, p := range intp.rules.Productions() {
				pterm.Println(productionString(p))
			}
			continue
		}
		n := intp.rules.Len()
		if err := intp.rules.Add(line); err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		for _, p := range intp.rules.Productions()[n:] {
			pterm.Success.Println("Added: " + productionString(p))
		}
	}
}

// printTable asks for the kind of table and prints it.
func (intp *Intp) printTable(g *lr.Grammar) error {
	intp.repl.SetPrompt("table [LL1|SLR1]> ")
	for {
		line, err := intp.repl.Readline()
		if err != nil {
			return nil
		}
		switch strings.ToUpper(strings.TrimSpace(line)) {
		case "LL1":
			return ll1(g)
		case "SLR1":
			_, err := slr1(g)
			return err
		}
		pterm.Error.Println(fmt.Sprintf("Invalid choice %q! Enter LL1 or SLR1", line))
	}
}

func productionString(p lr.Production) string {
	if len(p.RHS) == 0 {
		return p.LHS + " → " + lr.EpsilonName
	}
	return p.LHS + " → " + strings.Join(p.RHS, " ")
}
