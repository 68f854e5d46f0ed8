package lr

import (
	"bytes"
	"fmt"
)

// === Symbols ===============================================================

// SymbolKind discriminates terminals from non-terminals.
type SymbolKind uint8

// Kinds of grammar symbols.
const (
	NonTerminalKind SymbolKind = iota
	TerminalKind
)

func (k SymbolKind) String() string {
	if k == TerminalKind {
		return "terminal"
	}
	return "non-terminal"
}

// Symbol is a grammar symbol, either a terminal or a non-terminal.
//
// Symbols are owned by a grammar. Within a grammar, there is exactly one
// symbol for every (kind, name) pair, therefore symbols may be compared by
// pointer identity. Value is a serial number per kind and is used as a table
// index: terminals are numbered from 0 ($) upwards, non-terminals from
// 0 (the augmented start symbol) upwards.
type Symbol struct {
	Name  string
	Value int
	kind  SymbolKind
}

// Reserved symbol values.
const (
	EpsilonValue = -1
	EOFValue     = 0
)

// Reserved names for ε and $.
const (
	EpsilonName = "ε"
	EOFName     = "$"
)

// Epsilon and EOF are reserved terminals, shared by all grammars.
var (
	Epsilon = &Symbol{Name: EpsilonName, Value: EpsilonValue, kind: TerminalKind}
	EOF     = &Symbol{Name: EOFName, Value: EOFValue, kind: TerminalKind}
)

// IsTerminal returns true if A is a terminal (including ε and $).
func (A *Symbol) IsTerminal() bool {
	return A.kind == TerminalKind
}

// Kind returns the kind of the symbol.
func (A *Symbol) Kind() SymbolKind {
	return A.kind
}

// IsEpsilon is true for the ε marker.
func (A *Symbol) IsEpsilon() bool {
	return A == Epsilon
}

// IsEOF is true for the end-of-input marker $.
func (A *Symbol) IsEOF() bool {
	return A == EOF
}

func (A *Symbol) String() string {
	return A.Name
}

// === Rules =================================================================

// Rule is a production of a grammar. Rules are numbered in declaration
// order, starting with 1. Rule 0 is the augmented start rule S' ➞ S.
type Rule struct {
	Serial int     // ordinal number of this rule
	LHS    *Symbol // non-terminal on the left hand side
	rhs    []*Symbol
}

// RHS returns a copy of the right hand side of the rule.
func (r *Rule) RHS() []*Symbol {
	return append([]*Symbol(nil), r.rhs...)
}

// Len returns the length of the right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEpsilon is true for ε-productions.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	return fmt.Sprintf("[%v] ::= %v", r.LHS, r.rhs)
}

// === Grammars ==============================================================

// Grammar is an immutable context-free grammar. Clients create a grammar
// either with NewGrammar or with a GrammarBuilder.
type Grammar struct {
	Name         string
	rules        []*Rule
	start        *Symbol   // user supplied start symbol
	terminals    []*Symbol // ordered by value, $ first
	nonterminals []*Symbol // ordered by value, S' first
	terms        map[string]*Symbol
	nonterms     map[string]*Symbol
	byLHS        map[*Symbol][]*Rule
	frozen       bool
}

// Rule returns rule no. n, or nil if n is out of range.
func (g *Grammar) Rule(n int) *Rule {
	if n < 0 || n >= len(g.rules) {
		return nil
	}
	return g.rules[n]
}

// Size returns the number of rules, including the augmented start rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rules returns all rules in declaration order, starting with rule 0.
func (g *Grammar) Rules() []*Rule {
	return append([]*Rule(nil), g.rules...)
}

// StartSymbol returns the start symbol as provided by the client.
func (g *Grammar) StartSymbol() *Symbol {
	return g.start
}

// AugmentedStart returns the symbol S' of the augmented start rule S' ➞ S.
func (g *Grammar) AugmentedStart() *Symbol {
	return g.rules[0].LHS
}

// Terminals returns all terminals, ordered by value. $ is always first.
func (g *Grammar) Terminals() []*Symbol {
	return append([]*Symbol(nil), g.terminals...)
}

// NonTerminals returns all non-terminals, ordered by value. The augmented
// start symbol is always first.
func (g *Grammar) NonTerminals() []*Symbol {
	return append([]*Symbol(nil), g.nonterminals...)
}

// Terminal returns the terminal with a given name, or nil.
func (g *Grammar) Terminal(name string) *Symbol {
	if name == EOFName {
		return EOF
	}
	return g.terms[name]
}

// NonTerminal returns the non-terminal with a given name, or nil.
func (g *Grammar) NonTerminal(name string) *Symbol {
	return g.nonterms[name]
}

// SymbolByName finds a symbol. Non-terminals take precedence, but names are
// never shared between kinds within a valid grammar.
func (g *Grammar) SymbolByName(name string) *Symbol {
	if A := g.NonTerminal(name); A != nil {
		return A
	}
	return g.Terminal(name)
}

// FindNonTermRules returns all rules with LHS A, in declaration order.
func (g *Grammar) FindNonTermRules(A *Symbol) []*Rule {
	return g.byLHS[A]
}

// EachSymbol iterates over all symbols of the grammar, non-terminals first.
// The result of the mapper function is ignored.
func (g *Grammar) EachSymbol(mapper func(A *Symbol) interface{}) {
	g.EachNonTerminal(mapper)
	g.EachTerminal(mapper)
}

// EachNonTerminal iterates over all non-terminals in value order, including
// the augmented start symbol.
func (g *Grammar) EachNonTerminal(mapper func(A *Symbol) interface{}) {
	for _, A := range g.nonterminals {
		mapper(A)
	}
}

// EachTerminal iterates over all terminals in value order, including $.
func (g *Grammar) EachTerminal(mapper func(A *Symbol) interface{}) {
	for _, A := range g.terminals {
		mapper(A)
	}
}

// Dump is a debugging helper, tracing the rules of the grammar.
func (g *Grammar) Dump() {
	tracer().Debugf("--- %s --------------------------------------------", g.Name)
	tracer().Debugf("start symbol = %v", g.start)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r.String())
	}
	tracer().Debugf("-------------------------------------------------------")
}

func (g *Grammar) String() string {
	var b bytes.Buffer
	for _, r := range g.rules[1:] {
		b.WriteString(r.LHS.Name)
		b.WriteString(" ->")
		if r.IsEpsilon() {
			b.WriteString(" " + EpsilonName)
		}
		for _, A := range r.rhs {
			b.WriteString(" " + A.Name)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// --- Construction ----------------------------------------------------------

// Production is the input format of NewGrammar: a left hand side name and a
// sequence of right hand side names. An empty sequence or a sequence
// consisting of just "ε" denotes an ε-production.
type Production struct {
	LHS string
	RHS []string
}

// NewGrammar creates a grammar from a list of productions. Every name
// appearing on the left hand side of a production is a non-terminal,
// everything else referenced is a terminal. If start is empty, the left hand
// side of the first production is the start symbol.
//
// NewGrammar returns a *MalformedGrammarError if the grammar is not
// well-formed.
func NewGrammar(name string, start string, prods []Production) (*Grammar, error) {
	specs := make([]ruleSpec, len(prods))
	for i, p := range prods {
		specs[i].lhs = p.LHS
		for _, s := range p.RHS {
			specs[i].rhs = append(specs[i].rhs, symRef{name: s})
		}
	}
	return makeGrammar(name, start, specs)
}

// symRef is a reference to a symbol on a right hand side. If explicit is
// set, kind has been declared by the client.
type symRef struct {
	name     string
	kind     SymbolKind
	explicit bool
}

type ruleSpec struct {
	lhs string
	rhs []symRef
}

func makeGrammar(name string, start string, specs []ruleSpec) (*Grammar, error) {
	if len(specs) == 0 {
		return nil, malformed(name, "", "grammar has no productions")
	}
	g := &Grammar{
		Name:     name,
		terms:    make(map[string]*Symbol),
		nonterms: make(map[string]*Symbol),
		byLHS:    make(map[*Symbol][]*Rule),
	}
	// every LHS is a non-terminal
	lhsNames := make([]string, 0, len(specs))
	for _, spec := range specs {
		switch spec.lhs {
		case "":
			return nil, malformed(name, "", "production with empty left hand side")
		case EpsilonName, EOFName:
			return nil, malformed(name, spec.lhs, "reserved symbol used as left hand side")
		}
		if _, ok := g.nonterms[spec.lhs]; !ok {
			g.nonterms[spec.lhs] = &Symbol{Name: spec.lhs, kind: NonTerminalKind}
			lhsNames = append(lhsNames, spec.lhs)
		}
	}
	if start == "" {
		start = specs[0].lhs
	}
	if g.nonterms[start] == nil {
		return nil, malformed(name, start, "start symbol has no productions")
	}
	g.start = g.nonterms[start]
	// classify the right hand sides
	g.terminals = []*Symbol{EOF}
	for _, spec := range specs {
		for _, ref := range spec.rhs {
			if err := g.classify(ref); err != nil {
				return nil, err
			}
		}
	}
	// augmented start symbol S' must not clash with any other name
	augname := start + "'"
	for g.nonterms[augname] != nil || g.terms[augname] != nil {
		augname += "'"
	}
	augstart := &Symbol{Name: augname, Value: 0, kind: NonTerminalKind}
	g.nonterminals = append(g.nonterminals, augstart)
	for i, n := range lhsNames {
		A := g.nonterms[n]
		A.Value = i + 1
		g.nonterminals = append(g.nonterminals, A)
	}
	g.nonterms[augname] = augstart
	g.addRule(augstart, []*Symbol{g.start})
	for _, spec := range specs {
		rhs := make([]*Symbol, 0, len(spec.rhs))
		for _, ref := range spec.rhs {
			if ref.name == EpsilonName {
				continue
			}
			rhs = append(rhs, g.SymbolByName(ref.name))
		}
		g.addRule(g.nonterms[spec.lhs], rhs)
	}
	g.frozen = true
	tracer().Debugf("grammar %q: %d rules, %d terminals, %d non-terminals", name,
		len(g.rules), len(g.terminals), len(g.nonterminals))
	return g, nil
}

// classify checks a RHS symbol reference and creates a terminal symbol if
// the name has not been seen before.
func (g *Grammar) classify(ref symRef) error {
	switch ref.name {
	case "":
		return malformed(g.Name, "", "empty symbol name on right hand side")
	case EpsilonName:
		return nil
	case EOFName:
		return malformed(g.Name, ref.name, "reserved end-of-input marker used on right hand side")
	}
	_, isLHS := g.nonterms[ref.name]
	if ref.explicit {
		if ref.kind == TerminalKind && isLHS {
			return malformed(g.Name, ref.name, "name used as terminal and as left hand side")
		}
		if ref.kind == NonTerminalKind && !isLHS {
			return malformed(g.Name, ref.name, "non-terminal has no productions")
		}
	}
	if isLHS {
		return nil
	}
	if _, ok := g.terms[ref.name]; !ok {
		T := &Symbol{Name: ref.name, Value: len(g.terminals), kind: TerminalKind}
		g.terms[ref.name] = T
		g.terminals = append(g.terminals, T)
	}
	return nil
}

func (g *Grammar) addRule(lhs *Symbol, rhs []*Symbol) *Rule {
	r := &Rule{Serial: len(g.rules), LHS: lhs, rhs: rhs}
	g.rules = append(g.rules, r)
	g.byLHS[lhs] = append(g.byLHS[lhs], r)
	return r
}

// --- Grammar Builder -------------------------------------------------------

// GrammarBuilder is a builder type for grammars. Clients state the kind of
// every right hand side symbol explicitly:
//
//    b := lr.NewGrammarBuilder("G")
//    b.LHS("S").N("S").T("+").N("T").End()   // S ➞ S + T
//    b.LHS("S").N("T").End()                 // S ➞ T
//    b.LHS("T").T("id").End()                // T ➞ id
//    g, err := b.Grammar()
//
// The left hand side of the first rule is the start symbol, unless
// SetStart() says otherwise.
type GrammarBuilder struct {
	name  string
	start string
	rules []ruleSpec
}

// RuleBuilder is a helper type to construct a single rule.
type RuleBuilder struct {
	gb   *GrammarBuilder
	spec ruleSpec
}

// NewGrammarBuilder creates a new builder for a grammar.
func NewGrammarBuilder(gname string) *GrammarBuilder {
	return &GrammarBuilder{name: gname}
}

// SetStart sets the start symbol.
func (gb *GrammarBuilder) SetStart(name string) *GrammarBuilder {
	gb.start = name
	return gb
}

// LHS starts a new rule with a left hand side non-terminal.
func (gb *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{gb: gb, spec: ruleSpec{lhs: name}}
}

// N appends a non-terminal to the right hand side.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.spec.rhs = append(rb.spec.rhs, symRef{name: name, kind: NonTerminalKind, explicit: true})
	return rb
}

// T appends a terminal to the right hand side.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.spec.rhs = append(rb.spec.rhs, symRef{name: name, kind: TerminalKind, explicit: true})
	return rb
}

// End closes the rule and adds it to the grammar under construction.
func (rb *RuleBuilder) End() *GrammarBuilder {
	rb.gb.rules = append(rb.gb.rules, rb.spec)
	return rb.gb
}

// Epsilon closes the rule as an ε-production. Symbols appended to the right
// hand side before are discarded.
func (rb *RuleBuilder) Epsilon() *GrammarBuilder {
	rb.spec.rhs = nil
	return rb.End()
}

// Grammar returns the grammar constructed so far. It returns a
// *MalformedGrammarError if the grammar is not well-formed.
func (gb *GrammarBuilder) Grammar() (*Grammar, error) {
	return makeGrammar(gb.name, gb.start, gb.rules)
}
