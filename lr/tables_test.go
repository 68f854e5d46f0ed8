package lr

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

func TestClosure(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	i, _ := StartItem(g.Rule(0))
	C := closure(g, i)
	dumpItems(C)
	if C.Size() != 7 {
		t.Errorf("expected closure of start item to have 7 items, has %d", C.Size())
	}
	G, _ := gotoSetClosure(g, C, g.Terminal("("))
	if G.Size() != 7 { // F ➞ ( • E ) plus 6 items of the closure
		t.Errorf("expected goto(I0, '(') to have 7 items, has %d", G.Size())
	}
	G, _ = gotoSetClosure(g, C, g.Terminal(")"))
	if !G.Empty() {
		t.Errorf("expected goto(I0, ')') to be empty, is %s", itemSetString(G))
	}
}

func TestCFSMExpr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	cfsm, err := BuildLR0Automaton(g)
	if err != nil {
		t.Fatal(err)
	}
	if cfsm.Size() != 12 {
		t.Errorf("expected CFSM for expression grammar to have 12 states, has %d", cfsm.Size())
	}
	if cfsm.S0 != cfsm.State(0) || cfsm.S0.Size() != 7 {
		t.Errorf("expected state 0 to be closure of start item, is %v", cfsm.S0)
	}
	E := g.NonTerminal("E")
	s1, ok := cfsm.Goto(0, E)
	if !ok || s1.ID != 1 || !s1.Accept {
		t.Errorf("expected goto(0, E) to be accepting state 1, is %v", s1)
	}
	if _, ok = cfsm.Goto(0, g.Terminal(")")); ok {
		t.Errorf("did not expect a transition from state 0 on ')'")
	}
	// no two states share an item set
	seen := make(map[string]uint)
	for _, s := range cfsm.States() {
		key := fmt.Sprintf("%v", s.Items())
		if id, dup := seen[key]; dup {
			t.Errorf("states %d and %d have identical item sets", id, s.ID)
		}
		seen[key] = s.ID
	}
}

func TestCFSMReachability(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	cfsm, _ := BuildLR0Automaton(g)
	reached := map[uint]bool{0: true}
	for _, e := range cfsm.Edges() {
		reached[e.To] = true
		to, ok := cfsm.Goto(e.From, e.Label)
		if !ok || to.ID != e.To {
			t.Errorf("edge %d -%v-> %d not reflected by Goto", e.From, e.Label, e.To)
		}
	}
	for _, s := range cfsm.States() {
		if !reached[s.ID] {
			t.Errorf("state %d is not reachable", s.ID)
		}
	}
}

func TestCFSMIsDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	c1, _ := BuildLR0Automaton(g)
	c2, _ := BuildLR0Automaton(g)
	if !reflect.DeepEqual(c1.Edges(), c2.Edges()) {
		t.Errorf("two builds of the CFSM differ")
	}
	for _, s := range c1.States() {
		if !reflect.DeepEqual(s.Items(), c2.State(s.ID).Items()) {
			t.Errorf("state %d differs between builds", s.ID)
		}
	}
}

func TestSLR1Expr(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	_, follow, _ := BuildFirstFollow(g)
	cfsm, _ := BuildLR0Automaton(g)
	actions, gotos, conflicts, err := BuildSLR1Table(g, cfsm, follow)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 0 {
		t.Errorf("expected expression grammar to be SLR(1), has conflicts %v", conflicts)
	}
	id := g.Terminal("id")
	if a := actions.Actions(0, id); len(a) != 1 || a[0] != Shift(5) {
		t.Errorf("expected ACTION(0, id) = s5, is %v", a)
	}
	if a := actions.Actions(1, EOF); len(a) != 1 || a[0] != Accept() {
		t.Errorf("expected ACTION(1, $) = acc, is %v", a)
	}
	for _, la := range []string{"$", "+", "*", ")"} {
		if a := actions.Actions(5, g.Terminal(la)); len(a) != 1 || a[0] != Reduce(6) {
			t.Errorf("expected ACTION(5, %s) = r6, is %v", la, a)
		}
	}
	if a := actions.Actions(5, id); len(a) != 0 {
		t.Errorf("expected ACTION(5, id) to be empty, is %v", a)
	}
	for A, to := range map[string]uint{"E": 1, "T": 2, "F": 3} {
		if s, ok := gotos.Goto(0, g.NonTerminal(A)); !ok || s != to {
			t.Errorf("expected GOTO(0, %s) = %d, is %d", A, to, s)
		}
	}
	if _, ok := gotos.Goto(5, g.NonTerminal("E")); ok {
		t.Errorf("did not expect GOTO(5, E)")
	}
}

//  S ➞ S S  |  a
func TestSLR1ShiftReduce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	b := NewGrammarBuilder("SS")
	b.LHS("S").N("S").N("S").End()
	b.LHS("S").T("a").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	_, follow, _ := BuildFirstFollow(g)
	cfsm, _ := BuildLR0Automaton(g)
	actions, gotos, conflicts, err := BuildSLR1Table(g, cfsm, follow)
	if err != nil {
		t.Fatal(err)
	}
	if len(conflicts) != 1 {
		t.Fatalf("expected 1 conflict, have %v", conflicts)
	}
	c := conflicts[0]
	t.Logf("%v", c)
	if c.Kind != ShiftReduce || c.Terminal != g.Terminal("a") || c.State != 3 {
		t.Errorf("expected shift/reduce conflict in state 3 on a, is %v", c)
	}
	if !reflect.DeepEqual(c.Rules(), []int{1}) {
		t.Errorf("expected conflict to reduce by rule 1, is %v", c.Rules())
	}
	// the tables are complete in spite of the conflict
	a, S := g.Terminal("a"), g.NonTerminal("S")
	if cfsm.Size() != 4 {
		t.Errorf("expected 4 states, have %d", cfsm.Size())
	}
	for _, state := range []uint{0, 1, 3} {
		if cell := actions.Actions(state, a); !containsActions(cell, Shift(2)) {
			t.Errorf("expected ACTION(%d, a) to shift to 2, is %v", state, cell)
		}
	}
	if cell := actions.Actions(0, a); len(cell) != 1 {
		t.Errorf("expected single action in ACTION(0, a), is %v", cell)
	}
	if cell := actions.Actions(1, EOF); len(cell) != 1 || cell[0] != Accept() {
		t.Errorf("expected ACTION(1, $) = acc, is %v", cell)
	}
	for _, la := range []*Symbol{a, EOF} {
		if cell := actions.Actions(2, la); len(cell) != 1 || cell[0] != Reduce(2) {
			t.Errorf("expected ACTION(2, %v) = r2, is %v", la, cell)
		}
	}
	if cell := actions.Actions(3, EOF); len(cell) != 1 || cell[0] != Reduce(1) {
		t.Errorf("expected ACTION(3, $) = r1, is %v", cell)
	}
	if cell := actions.Actions(3, a); len(cell) != 2 || !containsActions(cell, Shift(2), Reduce(1)) {
		t.Errorf("expected ACTION(3, a) to hold s2 and r1, is %v", cell)
	}
	for from, to := range map[uint]uint{0: 1, 1: 3, 3: 3} {
		if s, ok := gotos.Goto(from, S); !ok || s != to {
			t.Errorf("expected GOTO(%d, S) = %d, is %d", from, to, s)
		}
	}
	if _, ok := gotos.Goto(2, S); ok {
		t.Errorf("did not expect GOTO(2, S)")
	}
}

func containsActions(cell []Action, expected ...Action) bool {
	for _, x := range expected {
		found := false
		for _, a := range cell {
			if a == x {
				found = true
			}
		}
		if !found {
			return false
		}
	}
	return true
}

//  S ➞ A  |  B
//  A ➞ x
//  B ➞ x
func TestSLR1ReduceReduce(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g, err := NewGrammar("RR", "S", []Production{
		{LHS: "S", RHS: []string{"A"}},
		{LHS: "S", RHS: []string{"B"}},
		{LHS: "A", RHS: []string{"x"}},
		{LHS: "B", RHS: []string{"x"}},
	})
	if err != nil {
		t.Fatal(err)
	}
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if !lrgen.HasConflicts || len(lrgen.Conflicts()) != 1 {
		t.Fatalf("expected 1 conflict, have %v", lrgen.Conflicts())
	}
	c := lrgen.Conflicts()[0]
	if c.Kind != ReduceReduce || !c.Terminal.IsEOF() {
		t.Errorf("expected reduce/reduce conflict on $, is %v", c)
	}
	if !reflect.DeepEqual(c.Rules(), []int{3, 4}) {
		t.Errorf("expected conflict between rules 3 and 4, is %v", c.Rules())
	}
}

func TestTableGenerator(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	tracer().SetTraceLevel(tracing.LevelInfo)
	g := makeExprGrammar(t)
	lrgen := NewTableGenerator(Analysis(g))
	lrgen.CreateTables()
	if lrgen.HasConflicts {
		t.Errorf("expected no conflicts, have %v", lrgen.Conflicts())
	}
	if acc := lrgen.AcceptingStates(); !reflect.DeepEqual(acc, []uint{1}) {
		t.Errorf("expected state 1 to be the only accepting state, have %v", acc)
	}
	var html bytes.Buffer
	ActionTableAsHTML(lrgen, &html)
	GotoTableAsHTML(lrgen, &html)
	if !strings.Contains(html.String(), "acc") || !strings.Contains(html.String(), "state 11") {
		t.Errorf("HTML export incomplete")
	}
}

func TestCFSM2GraphViz(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	g := makeExprGrammar(t)
	cfsm, _ := BuildLR0Automaton(g)
	var dot bytes.Buffer
	if err := cfsm.CFSM2GraphViz(&dot); err != nil {
		t.Fatal(err)
	}
	out := dot.String()
	if !strings.HasPrefix(out, "digraph {") {
		t.Errorf("expected Graphviz digraph, have %q", out[:20])
	}
	for _, s := range cfsm.States() {
		if !strings.Contains(out, fmt.Sprintf("s%03d [", s.ID)) {
			t.Errorf("state %d missing in Graphviz output", s.ID)
		}
	}
	if !strings.Contains(out, `[E ::= • E + T]`) {
		t.Errorf("expected items in state labels")
	}
}

func TestMalformedTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "parsetab.lr")
	defer teardown()
	//
	if _, err := BuildLR0Automaton(nil); !errors.Is(err, ErrMalformedGrammar) {
		t.Errorf("expected MalformedGrammarError for nil grammar, is %v", err)
	}
	g := makeExprGrammar(t)
	h := makeNullableGrammar(t)
	_, follow, _ := BuildFirstFollow(h)
	cfsm, _ := BuildLR0Automaton(g)
	if _, _, _, err := BuildSLR1Table(g, cfsm, follow); !errors.Is(err, ErrMalformedGrammar) {
		t.Errorf("expected error for FOLLOW sets of foreign grammar, is %v", err)
	}
	if lrgen := NewTableGenerator(Analysis(nil)); lrgen != nil {
		t.Errorf("expected no table generator for a malformed grammar")
	}
}
