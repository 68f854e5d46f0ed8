package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/npillmayer/parsetab/lr"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestLoadGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.cli")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "ss.bnf")
	if err := os.WriteFile(path, []byte("S -> S S | a\n"), 0600); err != nil {
		t.Fatal(err)
	}
	g, err := loadGrammar(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.Name != "ss" {
		t.Errorf("expected grammar to be named after file, is %q", g.Name)
	}
	if g.Size() != 3 {
		t.Errorf("expected 3 rules, have %d", g.Size())
	}
	if r := ruleString(g.Rule(1)); r != "S → S S" {
		t.Errorf("expected rule 1 to be S → S S, is %q", r)
	}
	if _, err = loadGrammar(filepath.Join(t.TempDir(), "missing.bnf")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestLoadEBNFGrammar(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.cli")
	defer teardown()
	//
	path := filepath.Join(t.TempDir(), "list.ebnf")
	if err := os.WriteFile(path, []byte(`List = "[" { "x" } "]" .`), 0600); err != nil {
		t.Fatal(err)
	}
	*rootFlags.ebnf = "List"
	defer func() { *rootFlags.ebnf = "" }()
	g, err := loadGrammar(path)
	if err != nil {
		t.Fatal(err)
	}
	if g.NonTerminal("List_rep1") == nil {
		t.Errorf("expected helper non-terminal List_rep1")
	}
	if r := ruleString(g.Rule(3)); r != "List_rep1 → ε" {
		t.Errorf("expected rule 3 to be List_rep1 → ε, is %q", r)
	}
}

func TestProductionString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.cli")
	defer teardown()
	//
	if s := productionString(lr.Production{LHS: "A", RHS: []string{"b", "C"}}); s != "A → b C" {
		t.Errorf("expected A → b C, is %q", s)
	}
	if s := productionString(lr.Production{LHS: "A"}); s != "A → ε" {
		t.Errorf("expected A → ε, is %q", s)
	}
}
