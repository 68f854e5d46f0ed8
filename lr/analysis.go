package lr

import (
	"bytes"

	"golang.org/x/tools/container/intsets"
)

// === Terminal Sets =========================================================

// TerminalSet is an immutable set of terminals of a grammar. FIRST sets may
// contain ε, FOLLOW sets may contain $.
//
// Sets are represented as sparse bit-sets of symbol values, where ε has
// value -1 and $ has value 0.
type TerminalSet struct {
	g    *Grammar
	bits *intsets.Sparse
}

func makeTerminalSet(g *Grammar, bits *intsets.Sparse) TerminalSet {
	published := &intsets.Sparse{}
	if bits != nil {
		published.Copy(bits)
	}
	return TerminalSet{g: g, bits: published}
}

// Contains checks if terminal a is in the set.
func (ts TerminalSet) Contains(a *Symbol) bool {
	if ts.bits == nil || a == nil || !a.IsTerminal() {
		return false
	}
	return ts.bits.Has(a.Value)
}

// HasEpsilon is true if ε is an element of the set.
func (ts TerminalSet) HasEpsilon() bool {
	return ts.bits != nil && ts.bits.Has(EpsilonValue)
}

// Len returns the number of elements, including ε and $.
func (ts TerminalSet) Len() int {
	if ts.bits == nil {
		return 0
	}
	return ts.bits.Len()
}

// IsEmpty is true for the empty set.
func (ts TerminalSet) IsEmpty() bool {
	return ts.Len() == 0
}

// Symbols returns the elements of the set, ordered by value. ε comes first,
// then $, then the grammar's terminals in order of their first occurrence.
func (ts TerminalSet) Symbols() []*Symbol {
	if ts.bits == nil {
		return nil
	}
	values := ts.bits.AppendTo(nil)
	syms := make([]*Symbol, 0, len(values))
	for _, v := range values {
		switch {
		case v == EpsilonValue:
			syms = append(syms, Epsilon)
		case ts.g != nil && v >= 0 && v < len(ts.g.terminals):
			syms = append(syms, ts.g.terminals[v])
		}
	}
	return syms
}

// Without returns a copy of the set with terminal a removed.
func (ts TerminalSet) Without(a *Symbol) TerminalSet {
	c := makeTerminalSet(ts.g, ts.bits)
	c.bits.Remove(a.Value)
	return c
}

// Equals compares two terminal sets by content.
func (ts TerminalSet) Equals(other TerminalSet) bool {
	if ts.IsEmpty() || other.IsEmpty() {
		return ts.IsEmpty() == other.IsEmpty()
	}
	return ts.bits.Equals(other.bits)
}

func (ts TerminalSet) String() string {
	var b bytes.Buffer
	b.WriteString("{")
	for i, a := range ts.Symbols() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.Name)
	}
	b.WriteString("}")
	return b.String()
}

// === FIRST and FOLLOW ======================================================

// FirstSets is the FIRST mapping of a grammar. It is immutable.
type FirstSets struct {
	g    *Grammar
	sets []*intsets.Sparse // indexed by non-terminal value
}

// Of returns FIRST(X) for a grammar symbol X. For terminals, this is {X};
// FIRST(ε) is {ε}.
func (f *FirstSets) Of(X *Symbol) TerminalSet {
	if X.IsTerminal() {
		single := &intsets.Sparse{}
		single.Insert(X.Value)
		return TerminalSet{g: f.g, bits: single}
	}
	if X.Value < 0 || X.Value >= len(f.sets) || f.g.nonterminals[X.Value] != X {
		return TerminalSet{g: f.g, bits: &intsets.Sparse{}}
	}
	return makeTerminalSet(f.g, f.sets[X.Value])
}

// OfSequence returns FIRST(X1 X2 … Xn). ε is part of the result if every Xi
// may derive ε, in particular for the empty sequence.
func (f *FirstSets) OfSequence(seq []*Symbol) TerminalSet {
	bits := &intsets.Sparse{}
	if firstOfSequence(f.sets, seq, bits) {
		bits.Insert(EpsilonValue)
	}
	return TerminalSet{g: f.g, bits: bits}
}

// Grammar returns the grammar these sets belong to.
func (f *FirstSets) Grammar() *Grammar {
	return f.g
}

// FollowSets is the FOLLOW mapping of a grammar. It is immutable.
type FollowSets struct {
	g    *Grammar
	sets []*intsets.Sparse // indexed by non-terminal value
}

// Of returns FOLLOW(A) for a non-terminal A. For terminals, the empty set is
// returned.
func (f *FollowSets) Of(A *Symbol) TerminalSet {
	if A.IsTerminal() || A.Value < 0 || A.Value >= len(f.sets) || f.g.nonterminals[A.Value] != A {
		return TerminalSet{g: f.g, bits: &intsets.Sparse{}}
	}
	return makeTerminalSet(f.g, f.sets[A.Value])
}

// Grammar returns the grammar these sets belong to.
func (f *FollowSets) Grammar() *Grammar {
	return f.g
}

// BuildFirstFollow computes the FIRST and the FOLLOW mapping for a grammar.
// FOLLOW is computed after FIRST has stabilized.
// The only possible error is a *MalformedGrammarError.
func BuildFirstFollow(g *Grammar) (*FirstSets, *FollowSets, error) {
	if err := CheckGrammar(g); err != nil {
		return nil, nil, err
	}
	e := newSetEngine(g)
	e.computeFirst()
	e.computeFollow()
	first, follow := e.publish()
	return first, follow, nil
}

// --- Fixed-point engine ----------------------------------------------------

// setEngine holds the scratch sets during fixed-point iteration. It is
// discarded after the sets have been published.
type setEngine struct {
	g      *Grammar
	first  []*intsets.Sparse
	follow []*intsets.Sparse
	onPass func(phase string, pass int, sets []*intsets.Sparse) // for testing
}

func newSetEngine(g *Grammar) *setEngine {
	e := &setEngine{
		g:      g,
		first:  make([]*intsets.Sparse, len(g.nonterminals)),
		follow: make([]*intsets.Sparse, len(g.nonterminals)),
	}
	for i := range g.nonterminals {
		e.first[i] = &intsets.Sparse{}
		e.follow[i] = &intsets.Sparse{}
	}
	return e
}

// computeFirst iterates over all rules until a full pass does not change
// any FIRST set. Sets grow monotonically within a finite universe, thus
// the iteration terminates. Returns the number of passes.
func (e *setEngine) computeFirst() int {
	pass := 0
	for {
		pass++
		changed := false
		for _, r := range e.g.rules {
			if e.firstOfRule(r) {
				changed = true
			}
		}
		e.tracePass("FIRST", pass, e.first)
		if !changed {
			return pass
		}
	}
}

// firstOfRule adds FIRST(RHS) of a rule A ➞ X1 … Xn to FIRST(A).
func (e *setEngine) firstOfRule(r *Rule) bool {
	acc := e.first[r.LHS.Value]
	size := acc.Len()
	var seqFirst intsets.Sparse
	nullable := firstOfSequence(e.first, r.rhs, &seqFirst)
	acc.UnionWith(&seqFirst)
	if nullable {
		acc.Insert(EpsilonValue)
	}
	return acc.Len() > size
}

// grows adds x to s and reports whether s has grown. The return value of
// UnionWith is not usable for this, as it signals any change of the
// underlying words, not the addition of elements.
func grows(s *intsets.Sparse, x *intsets.Sparse) bool {
	size := s.Len()
	s.UnionWith(x)
	return s.Len() > size
}

// firstOfSequence adds FIRST(seq)\{ε} to target and returns true if every
// symbol of seq may derive ε.
func firstOfSequence(first []*intsets.Sparse, seq []*Symbol, target *intsets.Sparse) bool {
	for _, X := range seq {
		if X.IsEpsilon() {
			continue
		}
		if X.IsTerminal() {
			target.Insert(X.Value)
			return false
		}
		fx := first[X.Value]
		var tmp intsets.Sparse
		tmp.Copy(fx)
		tmp.Remove(EpsilonValue)
		target.UnionWith(&tmp)
		if !fx.Has(EpsilonValue) {
			return false
		}
	}
	return true
}

// computeFollow iterates over all occurrences of non-terminals on right hand
// sides until a full pass does not change any FOLLOW set.
//
// $ is seeded into FOLLOW(S') of the augmented start rule S' ➞ S and reaches
// FOLLOW(S) through the fixed point.
func (e *setEngine) computeFollow() int {
	e.follow[0].Insert(EOFValue)
	pass := 0
	for {
		pass++
		changed := false
		for _, r := range e.g.rules {
			A := r.LHS
			for i, B := range r.rhs {
				if B.IsTerminal() {
					continue
				}
				var beta intsets.Sparse
				nullable := firstOfSequence(e.first, r.rhs[i+1:], &beta)
				if grows(e.follow[B.Value], &beta) {
					changed = true
				}
				if nullable && grows(e.follow[B.Value], e.follow[A.Value]) {
					changed = true
				}
			}
		}
		e.tracePass("FOLLOW", pass, e.follow)
		if !changed {
			return pass
		}
	}
}

func (e *setEngine) tracePass(phase string, pass int, sets []*intsets.Sparse) {
	tracer().Debugf("%s pass %d", phase, pass)
	if e.onPass != nil {
		e.onPass(phase, pass, sets)
	}
}

// publish copies the scratch sets into immutable mappings.
func (e *setEngine) publish() (*FirstSets, *FollowSets) {
	first := &FirstSets{g: e.g, sets: make([]*intsets.Sparse, len(e.first))}
	follow := &FollowSets{g: e.g, sets: make([]*intsets.Sparse, len(e.follow))}
	for i := range e.first {
		first.sets[i] = &intsets.Sparse{}
		first.sets[i].Copy(e.first[i])
		follow.sets[i] = &intsets.Sparse{}
		follow.sets[i].Copy(e.follow[i])
	}
	return first, follow
}

// === Grammar Analysis ======================================================

// LRAnalysis bundles a grammar with its FIRST and FOLLOW sets.
type LRAnalysis struct {
	g      *Grammar
	first  *FirstSets
	follow *FollowSets
}

// Analysis computes FIRST and FOLLOW sets for a grammar. It returns nil if
// the grammar is malformed.
func Analysis(g *Grammar) *LRAnalysis {
	first, follow, err := BuildFirstFollow(g)
	if err != nil {
		tracer().Errorf("cannot analyse grammar: %v", err)
		return nil
	}
	return &LRAnalysis{g: g, first: first, follow: follow}
}

// Grammar returns the analysed grammar.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// First returns FIRST(A).
func (ga *LRAnalysis) First(A *Symbol) TerminalSet {
	return ga.first.Of(A)
}

// Follow returns FOLLOW(A).
func (ga *LRAnalysis) Follow(A *Symbol) TerminalSet {
	return ga.follow.Of(A)
}

// FirstSets returns the FIRST mapping.
func (ga *LRAnalysis) FirstSets() *FirstSets {
	return ga.first
}

// FollowSets returns the FOLLOW mapping.
func (ga *LRAnalysis) FollowSets() *FollowSets {
	return ga.follow
}

// DerivesEpsilon is true if A may derive the empty string.
func (ga *LRAnalysis) DerivesEpsilon(A *Symbol) bool {
	return A.IsEpsilon() || ga.first.Of(A).HasEpsilon()
}
