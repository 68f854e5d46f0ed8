package bnf

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/parsetab/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprEBNF = `
Expr   = Term { ( "+" | "-" ) Term } .
Term   = Factor { "*" Factor } .
Factor = number | "(" Expr ")" .
number = "0" … "9" .
`

func TestEBNFExpr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	g, err := ParseEBNF("Expr", "Expr", strings.NewReader(exprEBNF))
	if err != nil {
		t.Fatal(err)
	}
	g.Dump()
	if g.Size() != 11 {
		t.Errorf("expected 11 rules, have %d", g.Size())
	}
	if g.StartSymbol().Name != "Expr" {
		t.Errorf("expected start symbol Expr, is %v", g.StartSymbol())
	}
	rep := g.NonTerminal("Expr_rep1")
	if rep == nil {
		t.Fatalf("expected helper non-terminal Expr_rep1")
	}
	rules := g.FindNonTermRules(rep)
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules for %v, have %d", rep, len(rules))
	}
	if rules[0].RHS()[0].Name != "Expr_grp2" || rules[0].RHS()[2] != rep {
		t.Errorf("expected right recursive repetition, is %v", rules[0])
	}
	if !rules[1].IsEpsilon() {
		t.Errorf("expected repetition to end in ε, is %v", rules[1])
	}
	if n := len(g.FindNonTermRules(g.NonTerminal("Expr_grp2"))); n != 2 {
		t.Errorf("expected 2 rules for group, have %d", n)
	}
	if g.Terminal("number") == nil || g.Terminal("+") == nil {
		t.Errorf("expected terminals number and +")
	}
	if g.NonTerminal("number") != nil {
		t.Errorf("expected lexical production number to be a terminal")
	}
	first, follow, err := lr.BuildFirstFollow(g)
	if err != nil {
		t.Fatal(err)
	}
	if f := first.Of(g.NonTerminal("Expr")).String(); f != "{number, (}" {
		t.Errorf("expected FIRST(Expr) = {number, (}, is %s", f)
	}
	if !follow.Of(rep).Contains(lr.EOF) {
		t.Errorf("expected $ in FOLLOW(%v)", rep)
	}
}

func TestEBNFOption(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	g, err := ParseEBNF("Opt", "S", strings.NewReader(`S = [ "a" ] ( "b" "c" ) .`))
	if err != nil {
		t.Fatal(err)
	}
	if g.String() != "S -> S_opt1 b c\nS_opt1 -> a\nS_opt1 -> ε\n" {
		t.Errorf("unexpected rules:\n%s", g.String())
	}
}

func TestEBNFErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	if _, err := ParseEBNF("G", "S", strings.NewReader(`S = A .`)); err == nil {
		t.Errorf("expected error for missing production")
	}
	if _, err := ParseEBNF("G", "S", strings.NewReader(`S = "a" `)); err == nil {
		t.Errorf("expected syntax error")
	}
	_, err := ParseEBNF("G", "s", strings.NewReader(`s = "a" .`))
	if !errors.Is(err, lr.ErrMalformedGrammar) {
		t.Errorf("expected lexical start symbol to be malformed, is %v", err)
	}
}
