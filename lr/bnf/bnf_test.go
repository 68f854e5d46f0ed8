package bnf

import (
	"errors"
	"strings"
	"testing"

	"github.com/npillmayer/parsetab/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

const exprGrammar = `
# expression grammar
E -> E + T | T
T -> T * F | F
F -> ( E ) | id
`

func TestParseExprGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	g, err := Parse("Expr", strings.NewReader(exprGrammar))
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 7 {
		t.Errorf("expected 7 rules, have %d", g.Size())
	}
	if g.StartSymbol().Name != "E" {
		t.Errorf("expected start symbol E, is %v", g.StartSymbol())
	}
	rules := "E -> E + T\nE -> T\nT -> T * F\nT -> F\nF -> ( E )\nF -> id\n"
	if g.String() != rules {
		t.Errorf("unexpected rules:\n%s", g.String())
	}
	for _, name := range []string{"+", "*", "(", ")", "id"} {
		if g.Terminal(name) == nil {
			t.Errorf("expected terminal %s", name)
		}
	}
	// round trip
	g2, err := Parse("Expr", strings.NewReader(g.String()))
	if err != nil {
		t.Fatal(err)
	}
	if g.String() != g2.String() {
		t.Errorf("expected re-read grammar to print identically, is\n%s", g2.String())
	}
}

func TestParseNotation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	input := "S → A 'a' ; A -> b |\n   | \"|\" # bar as a terminal\nB -> ε\n"
	g, err := Parse("G", strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 6 {
		t.Errorf("expected 6 rules, have %d", g.Size())
	}
	rules := g.FindNonTermRules(g.NonTerminal("A"))
	if len(rules) != 3 {
		t.Fatalf("expected 3 rules for A, have %d", len(rules))
	}
	if rules[0].Len() != 1 {
		t.Errorf("expected A -> b, is %v", rules[0])
	}
	if !rules[1].IsEpsilon() {
		t.Errorf("expected empty alternative to be an ε-rule, is %v", rules[1])
	}
	if rules[2].RHS()[0].Name != "|" {
		t.Errorf("expected quoted bar as terminal, is %v", rules[2])
	}
	if !g.FindNonTermRules(g.NonTerminal("B"))[0].IsEpsilon() {
		t.Errorf("expected B -> ε")
	}
	if g.Terminal("a") == nil {
		t.Errorf("expected quotes to be stripped from terminal 'a'")
	}
}

func TestParseArrowWithoutSpace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	g, err := Parse("G", strings.NewReader("S->a B\nB->b\n"))
	if err != nil {
		t.Fatal(err)
	}
	if g.String() != "S -> a B\nB -> b\n" {
		t.Errorf("unexpected rules:\n%s", g.String())
	}
	g, err = Parse("Expr", strings.NewReader("E->E + T | T\nT→T * F|F\nF->( E ) | id"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 7 || g.NonTerminal("T") == nil || g.Terminal("T") != nil {
		t.Errorf("unexpected rules:\n%s", g.String())
	}
	// arrows inside quotes stay part of the name
	g, err = Parse("G", strings.NewReader("S->'->' x"))
	if err != nil {
		t.Fatal(err)
	}
	if g.Terminal("->") == nil || g.Terminal("x") == nil {
		t.Errorf("expected terminals '->' and x, have rules:\n%s", g.String())
	}
	if _, err = Parse("G", strings.NewReader("S->a->b")); err == nil {
		t.Errorf("expected second arrow in a rule to be an error")
	}
}

func TestSplitArrows(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	toks := splitArrows(token{kind: tokName, text: "S→a", line: 1, column: 3})
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, have %v", toks)
	}
	if toks[0].text != "S" || toks[1].kind != tokArrow || toks[2].text != "a" {
		t.Errorf("expected S → a, have %v", toks)
	}
	if toks[1].column != 4 || toks[2].column != 4+len("→") {
		t.Errorf("unexpected columns %d, %d", toks[1].column, toks[2].column)
	}
	if toks = splitArrows(token{kind: tokName, text: "S->"}); len(toks) != 2 || toks[1].kind != tokArrow {
		t.Errorf("expected S and arrow, have %v", toks)
	}
	if toks = splitArrows(token{kind: tokName, text: "a-b>"}); len(toks) != 1 || toks[0].text != "a-b>" {
		t.Errorf("expected name a-b> to stay intact, have %v", toks)
	}
}

func TestParseErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	for _, input := range []string{
		"E E -> x",
		"-> x",
		"| x",
		"S -> a\nA -> -> b",
		"S -> 'a",
	} {
		_, err := Parse("G", strings.NewReader(input))
		var serr *SyntaxError
		if !errors.As(err, &serr) {
			t.Errorf("expected syntax error for %q, is %v", input, err)
		}
	}
	_, err := Parse("G", strings.NewReader("S -> a\nA -> -> b"))
	var serr *SyntaxError
	if !errors.As(err, &serr) {
		t.Errorf("expected syntax error, is %v", err)
	} else if serr.Line != 2 {
		t.Errorf("expected error in line 2, is %d", serr.Line)
	}
	if _, err = Parse("G", strings.NewReader("S -> a $")); !errors.Is(err, lr.ErrMalformedGrammar) {
		t.Errorf("expected $ on a right hand side to be malformed, is %v", err)
	}
	if _, err = Parse("G", strings.NewReader("# nothing\n")); !errors.Is(err, lr.ErrMalformedGrammar) {
		t.Errorf("expected grammar without rules to be malformed, is %v", err)
	}
}

func TestRuleReader(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.bnf")
	defer teardown()
	//
	rr := NewRuleReader("G")
	for _, line := range []string{"S -> A a", "A -> b", "  | ε"} {
		if err := rr.Add(line); err != nil {
			t.Errorf("cannot add %q: %v", line, err)
		}
	}
	if rr.Len() != 3 {
		t.Errorf("expected 3 rules, have %d", rr.Len())
	}
	if err := rr.Add("A -> c -> d"); err == nil {
		t.Errorf("expected error for two arrows")
	}
	if rr.Len() != 3 {
		t.Errorf("erroneous line must not add rules, have %d", rr.Len())
	}
	g, err := rr.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	if g.Size() != 4 || g.StartSymbol().Name != "S" {
		t.Errorf("expected 4 rules with start symbol S, have\n%s", g.String())
	}
	if len(rr.Productions()) != 3 {
		t.Errorf("expected 3 productions, have %d", len(rr.Productions()))
	}
	rr.Reset()
	if rr.Len() != 0 {
		t.Errorf("expected reset reader to be empty")
	}
	if err := rr.Add("| x"); err == nil {
		t.Errorf("expected error for alternative without left hand side")
	}
	if err := rr.Add("S->a | b"); err != nil {
		t.Errorf("cannot add rule without spaces around arrow: %v", err)
	}
	if rr.Len() != 2 {
		t.Errorf("expected S->a | b to add 2 rules, have %d", rr.Len())
	}
}
