package ll

import (
	"fmt"
	"strings"

	"github.com/npillmayer/parsetab/lr"
	"github.com/npillmayer/parsetab/lr/sparse"
)

// Table is an LL(1) prediction table. Rows are non-terminals, columns are
// terminals, and every cell holds the serial numbers of the rules predicted
// for it. A Table is immutable.
type Table struct {
	g      *lr.Grammar
	matrix *sparse.IntMatrix
}

// Conflict is a table cell predicting more than one rule.
type Conflict struct {
	NonTerminal *lr.Symbol
	Terminal    *lr.Symbol
	Rules       []*lr.Rule // all the competing rules, in order of declaration
}

func (c Conflict) String() string {
	serials := make([]string, len(c.Rules))
	for i, r := range c.Rules {
		serials[i] = fmt.Sprintf("%d", r.Serial)
	}
	return fmt.Sprintf("LL(1) conflict at (%s, %s): rules %s", c.NonTerminal, c.Terminal,
		strings.Join(serials, ", "))
}

// BuildTable constructs the LL(1) table for a grammar from its FIRST and
// FOLLOW sets. Conflicts do not stop the construction. The grammar is LL(1)
// iff no conflicts are returned.
//
// The only possible error is a *lr.MalformedGrammarError.
func BuildTable(g *lr.Grammar, first *lr.FirstSets, follow *lr.FollowSets) (*Table, []Conflict, error) {
	if err := lr.CheckGrammar(g); err != nil {
		return nil, nil, err
	}
	if first == nil || follow == nil || first.Grammar() != g || follow.Grammar() != g {
		return nil, nil, &lr.MalformedGrammarError{
			Grammar: g.Name,
			Reason:  "FIRST or FOLLOW sets do not belong to grammar",
		}
	}
	T := &Table{
		g:      g,
		matrix: sparse.NewIntMatrix(len(g.NonTerminals()), len(g.Terminals()), sparse.DefaultNullValue),
	}
	for _, r := range g.Rules()[1:] { // the augmented start rule is not part of the table
		A := r.LHS
		fa := first.OfSequence(r.RHS())
		tracer().Debugf("FIRST(%v) = %v", r, fa)
		for _, a := range fa.Symbols() {
			if a.IsEpsilon() {
				continue
			}
			T.add(A, a, r)
		}
		if fa.HasEpsilon() {
			for _, a := range follow.Of(A).Symbols() {
				T.add(A, a, r)
			}
		}
	}
	conflicts := T.conflicts()
	tracer().Infof("LL(1) table for grammar %q has %d entries and %d conflicts", g.Name,
		T.matrix.ValueCount(), len(conflicts))
	return T, conflicts, nil
}

func (T *Table) add(A *lr.Symbol, a *lr.Symbol, r *lr.Rule) {
	tracer().Debugf("    M[%v, %v] += %d", A, a, r.Serial)
	T.matrix.Add(A.Value, a.Value, int32(r.Serial))
}

// conflicts collects all cells with more than one rule, ordered by
// non-terminal and terminal.
func (T *Table) conflicts() []Conflict {
	var conflicts []Conflict
	T.matrix.Each(func(i, j int, values []int32) {
		if len(values) < 2 {
			return
		}
		c := Conflict{
			NonTerminal: T.g.NonTerminals()[i],
			Terminal:    T.g.Terminals()[j],
			Rules:       T.rules(values),
		}
		tracer().Infof("%v", c)
		conflicts = append(conflicts, c)
	})
	return conflicts
}

func (T *Table) rules(serials []int32) []*lr.Rule {
	rules := make([]*lr.Rule, len(serials))
	for k, n := range serials {
		rules[k] = T.g.Rule(int(n))
	}
	return rules
}

// Grammar returns the grammar of the table.
func (T *Table) Grammar() *lr.Grammar {
	return T.g
}

// Rules returns all rules predicted for non-terminal A with lookahead a.
// An empty result denotes a syntax error.
func (T *Table) Rules(A *lr.Symbol, a *lr.Symbol) []*lr.Rule {
	if A == nil || a == nil || A.IsTerminal() || !a.IsTerminal() || a.IsEpsilon() {
		return nil
	}
	if A.Value >= T.matrix.M() || a.Value >= T.matrix.N() {
		return nil
	}
	return T.rules(T.matrix.Values(A.Value, a.Value))
}

// Rule returns the single rule predicted for (A, a). It returns false if the
// cell is empty or conflicting.
func (T *Table) Rule(A *lr.Symbol, a *lr.Symbol) (*lr.Rule, bool) {
	rules := T.Rules(A, a)
	if len(rules) != 1 {
		return nil, false
	}
	return rules[0], true
}

// IsLL1 is true if no cell of the table predicts more than one rule.
func (T *Table) IsLL1() bool {
	ll1 := true
	T.matrix.Each(func(i, j int, values []int32) {
		if len(values) > 1 {
			ll1 = false
		}
	})
	return ll1
}

// Each calls f for every non-empty cell, ordered by non-terminal and terminal.
func (T *Table) Each(f func(A *lr.Symbol, a *lr.Symbol, rules []*lr.Rule)) {
	T.matrix.Each(func(i, j int, values []int32) {
		f(T.g.NonTerminals()[i], T.g.Terminals()[j], T.rules(values))
	})
}
